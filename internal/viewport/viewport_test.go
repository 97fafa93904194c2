package viewport

import (
	"testing"

	"github.com/hyvakartta/zana/internal/geo"
	"github.com/hyvakartta/zana/internal/h3idx"
)

func TestFootprintOrientation(t *testing.T) {
	topLeft := geo.NewGeoCoord(47.40, 8.50).Project()
	bottomRight := geo.NewGeoCoord(47.35, 8.55).Project()
	bbox := geo.NewBoundingBox(topLeft, bottomRight)

	latMin, latMax, lonMin, lonMax := Footprint(bbox)
	if !(latMin < latMax) {
		t.Fatalf("latMin=%v should be < latMax=%v", latMin, latMax)
	}
	if !(lonMin < lonMax) {
		t.Fatalf("lonMin=%v should be < lonMax=%v", lonMin, lonMax)
	}
	if latMax > 47.40+1e-6 || latMin < 47.35-1e-6 {
		t.Errorf("lat range %v..%v does not bracket the source corners", latMin, latMax)
	}
}

func TestIntersectsContainingCell(t *testing.T) {
	cell := h3idx.FromLatLng(47.3769, 8.5417, 9)
	lat, lon := h3idx.Centroid(cell)

	topLeft := geo.NewGeoCoord(lat+0.01, lon-0.01).Project()
	bottomRight := geo.NewGeoCoord(lat-0.01, lon+0.01).Project()
	bbox := geo.NewBoundingBox(topLeft, bottomRight)

	if !Intersects(cell, bbox) {
		t.Fatal("expected viewport centered on the cell to intersect it")
	}
}

func TestIntersectsFarAwayCell(t *testing.T) {
	cell := h3idx.FromLatLng(47.3769, 8.5417, 9)

	topLeft := geo.NewGeoCoord(-33.80, 151.10).Project()
	bottomRight := geo.NewGeoCoord(-33.90, 151.30).Project()
	bbox := geo.NewBoundingBox(topLeft, bottomRight)

	if Intersects(cell, bbox) {
		t.Fatal("expected a Sydney viewport not to intersect a Zurich cell")
	}
}

func TestFilter(t *testing.T) {
	zurich := h3idx.FromLatLng(47.3769, 8.5417, 9)
	sydney := h3idx.FromLatLng(-33.8688, 151.2093, 9)

	lat, lon := h3idx.Centroid(zurich)
	topLeft := geo.NewGeoCoord(lat+0.01, lon-0.01).Project()
	bottomRight := geo.NewGeoCoord(lat-0.01, lon+0.01).Project()
	bbox := geo.NewBoundingBox(topLeft, bottomRight)

	got := Filter([]h3idx.Cell{zurich, sydney}, bbox)
	if len(got) != 1 || got[0] != zurich {
		t.Fatalf("Filter = %v, want only zurich", got)
	}
}
