// Package raster draws a decoded tile's paths into a PNG preview image, for
// the CLI's DRAW command and for debugging tiles without a browser.
//
// Stroke drawing goes through a small StrokeEngine interface rather than
// calling fogleman/gg directly everywhere: the teacher keeps its raster
// codecs (webp, png, jpeg — internal/encode) behind a single
// Encoder/Decoder pair so the pixel pipeline never cares which codec is
// active, and the same shape fits here, with gg's immediate-mode canvas in
// the encoder's place.
package raster

import (
	"bytes"
	"fmt"
	"image"
	"io"

	"github.com/fogleman/gg"

	"github.com/hyvakartta/zana/internal/geo"
)

// StrokeEngine draws line segments into an image canvas. The only
// implementation today is ggEngine; the interface exists so a future
// headless-server build could swap in a software rasterizer without
// touching Rasterizer.
type StrokeEngine interface {
	SetColor(r, g, b, a uint8)
	SetLineWidth(w float64)
	MoveTo(x, y float64)
	LineTo(x, y float64)
	Stroke()
	Image() image.Image
	EncodePNG(w io.Writer) error
}

type ggEngine struct {
	ctx *gg.Context
}

func newGGEngine(width, height int) *ggEngine {
	ctx := gg.NewContext(width, height)
	ctx.SetRGB(1, 1, 1)
	ctx.Clear()
	return &ggEngine{ctx: ctx}
}

func (e *ggEngine) SetColor(r, g, b, a uint8)  { e.ctx.SetRGBA255(int(r), int(g), int(b), int(a)) }
func (e *ggEngine) SetLineWidth(w float64)     { e.ctx.SetLineWidth(w) }
func (e *ggEngine) MoveTo(x, y float64)        { e.ctx.MoveTo(x, y) }
func (e *ggEngine) LineTo(x, y float64)        { e.ctx.LineTo(x, y) }
func (e *ggEngine) Stroke()                    { e.ctx.Stroke() }
func (e *ggEngine) Image() image.Image         { return e.ctx.Image() }
func (e *ggEngine) EncodePNG(w io.Writer) error { return e.ctx.EncodePNG(w) }

// Node is the minimal shape Rasterizer needs per node: an id and its
// absolute coordinate.
type Node struct {
	ID    int64
	Coord geo.GeoCoord
}

// Path is the minimal shape Rasterizer needs per path.
type Path struct {
	NodeIDs []int64
	Tags    []TagPair
}

// Rasterizer draws a set of nodes and paths, clipped to a viewport, into a
// width x height PNG.
type Rasterizer struct {
	Width, Height int

	// NewEngine constructs the StrokeEngine for one Draw call. Nil uses
	// fogleman/gg.
	NewEngine func(width, height int) StrokeEngine
}

// Draw rasterizes paths against nodes within viewport and returns PNG
// bytes. Node ids that do not resolve to any of nodes are dropped from a
// path; paths left with fewer than two resolvable nodes are skipped rather
// than drawn as a single point, and paths carrying none of
// the recognized style keys are skipped entirely — unmatched paths are
// never drawn with a fallback style.
func (r *Rasterizer) Draw(nodes []Node, paths []Path, viewport geo.BoundingBox, resolveKey func(id uint64) (string, bool)) ([]byte, error) {
	if r.Width <= 0 || r.Height <= 0 {
		return nil, fmt.Errorf("raster: invalid dimensions %dx%d", r.Width, r.Height)
	}

	byID := make(map[int64]geo.PicMercator, len(nodes))
	for _, n := range nodes {
		byID[n.ID] = n.Coord.Project()
	}

	sx := float64(r.Width) / viewport.Width()
	sy := float64(r.Height) / viewport.Height()

	newEngine := r.NewEngine
	if newEngine == nil {
		newEngine = func(w, h int) StrokeEngine { return newGGEngine(w, h) }
	}
	engine := newEngine(r.Width, r.Height)

	for _, p := range paths {
		pts := make([]geo.PicMercator, 0, len(p.NodeIDs))
		for _, id := range p.NodeIDs {
			if pm, ok := byID[id]; ok {
				pts = append(pts, pm)
			}
		}
		if len(pts) < 2 {
			continue
		}

		style, ok := StyleForTags(p.Tags, resolveKey)
		if !ok {
			continue
		}
		engine.SetColor(style.R, style.G, style.B, style.A)
		engine.SetLineWidth(style.StrokeWidth)

		px, py := toPixel(pts[0], viewport, sx, sy)
		engine.MoveTo(px, py)
		for _, pt := range pts[1:] {
			px, py := toPixel(pt, viewport, sx, sy)
			engine.LineTo(px, py)
		}
		engine.Stroke()
	}

	var buf bytes.Buffer
	if err := engine.EncodePNG(&buf); err != nil {
		return nil, fmt.Errorf("raster: encoding png: %w", err)
	}
	return buf.Bytes(), nil
}

func toPixel(p geo.PicMercator, viewport geo.BoundingBox, sx, sy float64) (float64, float64) {
	return (p.X - viewport.TopLeft.X) * sx, (p.Y - viewport.TopLeft.Y) * sy
}
