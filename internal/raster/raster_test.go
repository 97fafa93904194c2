package raster

import (
	"bytes"
	"image"
	"io"
	"testing"

	"github.com/hyvakartta/zana/internal/geo"
)

// fakeEngine records calls instead of rendering, so tests can assert on
// the Rasterizer's decisions (style precedence, skip rules, transform)
// without depending on fogleman/gg's actual output.
type fakeEngine struct {
	colors      []Style
	widths      []float64
	strokeCount int
	points      [][2]float64
}

func (f *fakeEngine) SetColor(r, g, b, a uint8) {
	f.colors = append(f.colors, Style{R: r, G: g, B: b, A: a})
}
func (f *fakeEngine) SetLineWidth(w float64)        { f.widths = append(f.widths, w) }
func (f *fakeEngine) MoveTo(x, y float64)           { f.points = append(f.points, [2]float64{x, y}) }
func (f *fakeEngine) LineTo(x, y float64)           { f.points = append(f.points, [2]float64{x, y}) }
func (f *fakeEngine) Stroke()                       { f.strokeCount++ }
func (f *fakeEngine) Image() image.Image            { return image.NewRGBA(image.Rect(0, 0, 1, 1)) }
func (f *fakeEngine) EncodePNG(w io.Writer) error   { _, err := w.Write([]byte{0x89, 'P', 'N', 'G'}); return err }

func resolveKey(strings map[uint64]string) func(uint64) (string, bool) {
	return func(id uint64) (string, bool) {
		s, ok := strings[id]
		return s, ok
	}
}

func TestDrawSkipsPathsWithFewerThanTwoResolvableNodes(t *testing.T) {
	var eng *fakeEngine
	r := &Rasterizer{
		Width: 256, Height: 256,
		NewEngine: func(w, h int) StrokeEngine {
			eng = &fakeEngine{}
			return eng
		},
	}
	nodes := []Node{{ID: 1, Coord: geo.NewGeoCoord(47.0, 8.0)}}
	paths := []Path{{NodeIDs: []int64{1, 999}}} // node 999 unresolvable

	viewport := geo.NewBoundingBox(
		geo.NewGeoCoord(47.1, 7.9).Project(),
		geo.NewGeoCoord(46.9, 8.1).Project(),
	)

	if _, err := r.Draw(nodes, paths, viewport, resolveKey(nil)); err != nil {
		t.Fatalf("Draw: %v", err)
	}
	if eng.strokeCount != 0 {
		t.Fatalf("expected no strokes for a path with < 2 resolvable nodes, got %d", eng.strokeCount)
	}
}

func TestDrawAppliesStylePrecedence(t *testing.T) {
	var eng *fakeEngine
	r := &Rasterizer{
		Width: 256, Height: 256,
		NewEngine: func(w, h int) StrokeEngine {
			eng = &fakeEngine{}
			return eng
		},
	}
	nodes := []Node{
		{ID: 1, Coord: geo.NewGeoCoord(47.00, 8.00)},
		{ID: 2, Coord: geo.NewGeoCoord(47.01, 8.01)},
	}
	strings := map[uint64]string{1: "building", 2: "highway"}
	paths := []Path{{
		NodeIDs: []int64{1, 2},
		Tags:    []TagPair{{KeyID: 2, ValID: 0}, {KeyID: 1, ValID: 0}}, // highway listed first, building should still win
	}}

	viewport := geo.NewBoundingBox(
		geo.NewGeoCoord(47.1, 7.9).Project(),
		geo.NewGeoCoord(46.9, 8.1).Project(),
	)

	if _, err := r.Draw(nodes, paths, viewport, resolveKey(strings)); err != nil {
		t.Fatalf("Draw: %v", err)
	}
	if eng.strokeCount != 1 {
		t.Fatalf("expected exactly one stroke, got %d", eng.strokeCount)
	}
	want := precedence[0].style // "building" is first in precedence
	// fakeEngine.SetColor records only RGBA; the width goes to eng.widths.
	want.StrokeWidth = 0
	if len(eng.colors) != 1 || eng.colors[0] != want {
		t.Fatalf("color = %+v, want building style %+v", eng.colors, want)
	}
}

func TestDrawSkipsPathsWithNoRecognizedKey(t *testing.T) {
	var eng *fakeEngine
	r := &Rasterizer{
		Width: 256, Height: 256,
		NewEngine: func(w, h int) StrokeEngine {
			eng = &fakeEngine{}
			return eng
		},
	}
	nodes := []Node{
		{ID: 1, Coord: geo.NewGeoCoord(47.00, 8.00)},
		{ID: 2, Coord: geo.NewGeoCoord(47.01, 8.01)},
	}
	strings := map[uint64]string{1: "amenity"}
	paths := []Path{{NodeIDs: []int64{1, 2}, Tags: []TagPair{{KeyID: 1}}}}

	viewport := geo.NewBoundingBox(
		geo.NewGeoCoord(47.1, 7.9).Project(),
		geo.NewGeoCoord(46.9, 8.1).Project(),
	)

	if _, err := r.Draw(nodes, paths, viewport, resolveKey(strings)); err != nil {
		t.Fatalf("Draw: %v", err)
	}
	if eng.strokeCount != 0 {
		t.Fatalf("expected unmatched path to be skipped, got %d strokes", eng.strokeCount)
	}
}

func TestStyleForTagsNoMatch(t *testing.T) {
	style, ok := StyleForTags([]TagPair{{KeyID: 1}}, resolveKey(map[uint64]string{1: "amenity"}))
	if ok {
		t.Fatalf("StyleForTags with no recognized key = %+v, ok=true, want ok=false", style)
	}
}

func TestRealEngineProducesPNG(t *testing.T) {
	r := &Rasterizer{Width: 64, Height: 64}
	nodes := []Node{
		{ID: 1, Coord: geo.NewGeoCoord(47.00, 8.00)},
		{ID: 2, Coord: geo.NewGeoCoord(47.01, 8.01)},
	}
	paths := []Path{{NodeIDs: []int64{1, 2}}}
	viewport := geo.NewBoundingBox(
		geo.NewGeoCoord(47.1, 7.9).Project(),
		geo.NewGeoCoord(46.9, 8.1).Project(),
	)

	data, err := r.Draw(nodes, paths, viewport, resolveKey(nil))
	if err != nil {
		t.Fatalf("Draw: %v", err)
	}
	if !bytes.HasPrefix(data, []byte{0x89, 'P', 'N', 'G'}) {
		t.Fatalf("output does not look like a PNG: % x", data[:8])
	}
}
