package geo

import (
	"math"
	"testing"
)

func TestGeoCoordRoundTripExact(t *testing.T) {
	tests := []struct {
		lat, lon float64
	}{
		{0, 0},
		{47.3769, 8.5417},
		{-33.8688, 151.2093},
		{89.999999, -179.999999},
	}
	for _, tt := range tests {
		g := NewGeoCoord(tt.lat, tt.lon)
		latDeg, lonDeg := g.Degrees()
		g2 := NewGeoCoord(latDeg, lonDeg)
		if g != g2 {
			t.Errorf("round trip lat=%v lon=%v: %+v != %+v", tt.lat, tt.lon, g, g2)
		}
	}
}

func TestDecimicroTruncatesTowardZero(t *testing.T) {
	g := NewGeoCoord(1.99999999, -1.99999999)
	if g.DecimicroLat != 19999999 {
		t.Errorf("DecimicroLat = %d, want 19999999 (truncated toward zero)", g.DecimicroLat)
	}
	if g.DecimicroLon != -19999999 {
		t.Errorf("DecimicroLon = %d, want -19999999 (truncated toward zero)", g.DecimicroLon)
	}
}

func TestPicMercatorRoundTrip(t *testing.T) {
	tests := []struct{ lat, lon float64 }{
		{0, 0},
		{45, 90},
		{-45, -90},
		{60.1699, 24.9384},
	}
	for _, tt := range tests {
		g := NewGeoCoord(tt.lat, tt.lon)
		p := g.Project()
		p2 := p.Unproject().Project()
		if math.Abs(p.X-p2.X) > 1e-9 {
			t.Errorf("x round trip: %v != %v", p.X, p2.X)
		}
		if math.Abs(p.Y-p2.Y) > 1e-9 {
			t.Errorf("y round trip: %v != %v", p.Y, p2.Y)
		}
	}
}

func TestPicMercatorYFlip(t *testing.T) {
	// Northern latitudes should map to a smaller (more negative) Y than
	// southern ones, since Y increases downward (south).
	north := NewGeoCoord(60, 0).Project()
	south := NewGeoCoord(-60, 0).Project()
	if !(north.Y < south.Y) {
		t.Errorf("expected north.Y < south.Y, got north=%v south=%v", north.Y, south.Y)
	}
}

func TestBoundingBoxInvariant(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic on degenerate bounding box")
		}
	}()
	NewBoundingBox(PicMercator{X: 1, Y: 1}, PicMercator{X: 0, Y: 0})
}

func TestAddSub(t *testing.T) {
	a := PicMercator{X: 1, Y: 2}
	b := PicMercator{X: 0.5, Y: 0.25}
	sum := a.Add(b)
	if sum.X != 1.5 || sum.Y != 2.25 {
		t.Errorf("Add = %+v, want {1.5 2.25}", sum)
	}
	diff := a.Sub(b)
	if diff.X != 0.5 || diff.Y != 1.75 {
		t.Errorf("Sub = %+v, want {0.5 1.75}", diff)
	}
}
