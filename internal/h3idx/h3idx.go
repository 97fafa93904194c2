// Package h3idx wraps Uber's H3 hexagonal hierarchical grid library,
// exposing exactly the operations the hex-tile pipeline needs: cell
// indexing from lat/lon, parent/child traversal, and boundary vertices for
// viewport intersection and tile-preview rendering.
//
// This is the one component the spec names as an external collaborator
// with a well-specified contract (§4.3) rather than something to build from
// scratch — h3-go is the only real Go binding for H3 in the ecosystem.
package h3idx

import (
	h3 "github.com/uber/h3-go/v4"

	"github.com/hyvakartta/zana/internal/geo"
)

// Cell is an opaque 64-bit H3 cell identifier.
type Cell = h3.Cell

// FromLatLng returns the cell containing (lat, lon) at the given resolution.
// Deterministic for all non-polar latitudes, per the H3 contract.
func FromLatLng(lat, lon float64, resolution int) Cell {
	return h3.LatLngToCell(h3.NewLatLng(lat, lon), resolution)
}

// FromGeoCoord is a convenience wrapper around FromLatLng for a GeoCoord.
func FromGeoCoord(g geo.GeoCoord, resolution int) Cell {
	lat, lon := g.Degrees()
	return FromLatLng(lat, lon, resolution)
}

// Resolution returns the cell's resolution in [0, 15].
func Resolution(c Cell) int {
	return c.Resolution()
}

// Parent returns c's ancestor at the given (coarser) resolution.
func Parent(c Cell, resolution int) Cell {
	return c.Parent(resolution)
}

// Children returns c's descendants at the given (finer) resolution; one
// level down that is seven cells for a hexagon and six for a pentagon.
func Children(c Cell, resolution int) []Cell {
	return c.Children(resolution)
}

// Centroid returns the cell's center in lat/lon degrees.
func Centroid(c Cell) (lat, lon float64) {
	ll := c.LatLng()
	return ll.Lat, ll.Lng
}

// BoundaryLatLng returns the ordered vertex lat/lngs defining the cell's hex
// (or pentagon) boundary.
func BoundaryLatLng(c Cell) []h3.LatLng {
	return c.Boundary()
}

// BoundaryGeoCoords returns the cell boundary as GeoCoords, in the same
// vertex order as BoundaryLatLng.
func BoundaryGeoCoords(c Cell) []geo.GeoCoord {
	boundary := BoundaryLatLng(c)
	out := make([]geo.GeoCoord, len(boundary))
	for i, v := range boundary {
		out[i] = geo.NewGeoCoord(v.Lat, v.Lng)
	}
	return out
}

// BoundingBoxPicMercator derives the cell's PicMercator bounding box from
// the geographic extrema of its hex boundary vertices, projected through
// Mercator.
func BoundingBoxPicMercator(c Cell) geo.BoundingBox {
	boundary := BoundaryGeoCoords(c)

	topLeft := boundary[0].Project()
	bottomRight := topLeft
	for _, v := range boundary[1:] {
		p := v.Project()
		if p.X < topLeft.X {
			topLeft.X = p.X
		}
		if p.Y < topLeft.Y {
			topLeft.Y = p.Y
		}
		if p.X > bottomRight.X {
			bottomRight.X = p.X
		}
		if p.Y > bottomRight.Y {
			bottomRight.Y = p.Y
		}
	}
	return geo.NewBoundingBox(topLeft, bottomRight)
}

// ParseString parses the canonical hex string representation of a cell
// (as printed by String, used for ".zan" tile filenames).
func ParseString(s string) (Cell, error) {
	return h3.StringToCell(s)
}

// String returns the canonical hex string representation of a cell.
func String(c Cell) string {
	return c.String()
}
