// Package geo implements the fixed-point geographic coordinate and the
// pixel-oriented Mercator projection used to place tile geometry on screen.
//
// The projection math mirrors the teacher's internal/coord package (plain
// spherical trigonometry, no external projection library), generalized from
// web-Mercator tile math to the Y-flipped "PicMercator" this domain uses for
// direct drawing onto a pixel buffer.
package geo

import "math"

// GeoCoord is a fixed-point (lat, lon) pair in units of 1e-7 degrees
// ("decimicro degrees"). Never mutated after construction.
type GeoCoord struct {
	DecimicroLat int32
	DecimicroLon int32
}

// Degree-to-decimicro scale factor.
const decimicroScale = 1e7

// NewGeoCoord builds a GeoCoord from floating-point degrees. The conversion
// truncates toward zero, matching Go's float64->int32 conversion semantics
// exactly (and the original Rust `as i32` cast) — this must be preserved
// bit-for-bit so that round-tripped nodes compare equal after restaging.
func NewGeoCoord(latDeg, lonDeg float64) GeoCoord {
	return GeoCoord{
		DecimicroLat: int32(latDeg * decimicroScale),
		DecimicroLon: int32(lonDeg * decimicroScale),
	}
}

// Degrees returns the coordinate as floating-point degrees.
func (g GeoCoord) Degrees() (latDeg, lonDeg float64) {
	return float64(g.DecimicroLat) / decimicroScale, float64(g.DecimicroLon) / decimicroScale
}

// PicMercator is spherical Mercator with the Y sign inverted, so that
// positive Y points down — matching the orientation of a pixel buffer where
// row 0 is the top.
type PicMercator struct {
	X, Y float64
}

// Add returns the componentwise sum.
func (p PicMercator) Add(o PicMercator) PicMercator {
	return PicMercator{X: p.X + o.X, Y: p.Y + o.Y}
}

// Sub returns the componentwise difference.
func (p PicMercator) Sub(o PicMercator) PicMercator {
	return PicMercator{X: p.X - o.X, Y: p.Y - o.Y}
}

// Project converts a GeoCoord to PicMercator via spherical Mercator on
// radians, with the Y axis flipped centrally here — see the Open Questions
// note in DESIGN.md: every other component (ViewportFilter in particular)
// must treat this as the single source of truth for the sign flip.
func (g GeoCoord) Project() PicMercator {
	latDeg, lonDeg := g.Degrees()
	latRad := latDeg * math.Pi / 180.0
	lonRad := lonDeg * math.Pi / 180.0

	x := lonRad
	y := math.Log(math.Tan(math.Pi/4.0 + latRad/2.0))

	return PicMercator{X: x, Y: -y}
}

// Unproject inverts Project, returning a GeoCoord. The degrees are rounded
// to the nearest decimicro unit (not truncated as NewGeoCoord does), so a
// PicMercator produced by Project maps back to the GeoCoord it came from
// even when the inverse trigonometry lands a hair below the original value.
func (p PicMercator) Unproject() GeoCoord {
	mercY := -p.Y
	latRad := 2.0*math.Atan(math.Exp(mercY)) - math.Pi/2.0
	lonRad := p.X

	latDeg := latRad * 180.0 / math.Pi
	lonDeg := lonRad * 180.0 / math.Pi
	return GeoCoord{
		DecimicroLat: int32(math.Round(latDeg * decimicroScale)),
		DecimicroLon: int32(math.Round(lonDeg * decimicroScale)),
	}
}

// BoundingBox is an axis-aligned rectangle in PicMercator space with the
// invariant TopLeft.X < BottomRight.X && TopLeft.Y < BottomRight.Y (since Y
// is flipped, "top" really does have the smaller Y value).
type BoundingBox struct {
	TopLeft     PicMercator
	BottomRight PicMercator
}

// NewBoundingBox validates and builds a BoundingBox. A non-positive span on
// either axis is a caller bug (spec §7, "Viewport errors" — assertion
// failure), so it panics rather than returning an error.
func NewBoundingBox(topLeft, bottomRight PicMercator) BoundingBox {
	if topLeft.X >= bottomRight.X || topLeft.Y >= bottomRight.Y {
		panic("geo: degenerate bounding box (non-positive span)")
	}
	return BoundingBox{TopLeft: topLeft, BottomRight: bottomRight}
}

// Width returns the bounding box's X span.
func (b BoundingBox) Width() float64 { return b.BottomRight.X - b.TopLeft.X }

// Height returns the bounding box's Y span.
func (b BoundingBox) Height() float64 { return b.BottomRight.Y - b.TopLeft.Y }
