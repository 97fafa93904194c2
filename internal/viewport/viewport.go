// Package viewport decides which H3 cells a screen viewport actually needs
// tiles for, by intersecting the viewport's geographic footprint against
// each candidate cell's hex boundary.
//
// Polygon clipping has no counterpart anywhere in the retrieved corpus —
// every example repo that touches geometry (internal/coord's Mercator and
// Hilbert-curve helpers) works on points and bounding boxes, never
// polygons — so this is the one geometry routine built on the standard
// library rather than a dependency; see DESIGN.md.
package viewport

import (
	"github.com/hyvakartta/zana/internal/geo"
	"github.com/hyvakartta/zana/internal/h3idx"
)

// Footprint returns the geographic (lat/lon) rectangle a pixel-Mercator
// viewport covers. Because PicMercator's x is linear in longitude and its
// y is a monotonic (if nonlinear) function of latitude alone, an
// axis-aligned Mercator rectangle unprojects to an axis-aligned
// lat/lon rectangle — no general quadrilateral ever arises here.
func Footprint(viewport geo.BoundingBox) (latMin, latMax, lonMin, lonMax float64) {
	nw := viewport.TopLeft.Unproject()
	se := viewport.BottomRight.Unproject()

	latNorth, lonWest := nw.Degrees()
	latSouth, lonEast := se.Degrees()

	return latSouth, latNorth, lonWest, lonEast
}

// point is a plain (lat, lon) pair used only for Sutherland-Hodgman
// clipping below.
type point struct{ lat, lon float64 }

// Intersects reports whether cell's hex boundary has any area in common
// with the viewport's geographic footprint.
func Intersects(cell h3idx.Cell, viewport geo.BoundingBox) bool {
	latMin, latMax, lonMin, lonMax := Footprint(viewport)

	boundary := h3idx.BoundaryGeoCoords(cell)
	poly := make([]point, len(boundary))
	for i, g := range boundary {
		lat, lon := g.Degrees()
		poly[i] = point{lat: lat, lon: lon}
	}

	clipped := clipToRect(poly, latMin, latMax, lonMin, lonMax)
	return len(clipped) > 0
}

// Filter returns the subset of cells whose boundary intersects viewport,
// in input order.
func Filter(cells []h3idx.Cell, viewport geo.BoundingBox) []h3idx.Cell {
	var out []h3idx.Cell
	for _, c := range cells {
		if Intersects(c, viewport) {
			out = append(out, c)
		}
	}
	return out
}

// clipToRect clips a convex polygon (H3 cell boundaries always are) against
// an axis-aligned lat/lon rectangle using Sutherland-Hodgman, one edge of
// the rectangle at a time.
func clipToRect(poly []point, latMin, latMax, lonMin, lonMax float64) []point {
	poly = clipHalfPlane(poly, func(p point) bool { return p.lon >= lonMin },
		func(a, b point) point { return lerpLon(a, b, lonMin) })
	poly = clipHalfPlane(poly, func(p point) bool { return p.lon <= lonMax },
		func(a, b point) point { return lerpLon(a, b, lonMax) })
	poly = clipHalfPlane(poly, func(p point) bool { return p.lat >= latMin },
		func(a, b point) point { return lerpLat(a, b, latMin) })
	poly = clipHalfPlane(poly, func(p point) bool { return p.lat <= latMax },
		func(a, b point) point { return lerpLat(a, b, latMax) })
	return poly
}

func clipHalfPlane(poly []point, inside func(point) bool, intersect func(a, b point) point) []point {
	if len(poly) == 0 {
		return nil
	}
	var out []point
	for i := range poly {
		cur := poly[i]
		prev := poly[(i-1+len(poly))%len(poly)]
		curIn := inside(cur)
		prevIn := inside(prev)
		if curIn {
			if !prevIn {
				out = append(out, intersect(prev, cur))
			}
			out = append(out, cur)
		} else if prevIn {
			out = append(out, intersect(prev, cur))
		}
	}
	return out
}

func lerpLon(a, b point, lon float64) point {
	t := (lon - a.lon) / (b.lon - a.lon)
	return point{lat: a.lat + t*(b.lat-a.lat), lon: lon}
}

func lerpLat(a, b point, lat float64) point {
	t := (lat - a.lat) / (b.lat - a.lat)
	return point{lat: lat, lon: a.lon + t*(b.lon-a.lon)}
}
