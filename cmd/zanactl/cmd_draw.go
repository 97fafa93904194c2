package main

import (
	"fmt"
	"os"

	"github.com/hyvakartta/zana/internal/geo"
	"github.com/hyvakartta/zana/internal/raster"
	"github.com/hyvakartta/zana/internal/tilecodec"
)

func runDraw(args []string) error {
	fs := newFlagSet("draw")
	out := fs.String("out", "out.png", "output PNG path")
	width := fs.Int("width", 1024, "output image width in pixels")
	height := fs.Int("height", 1024, "output image height in pixels")
	north := fs.Float64("north", 0, "viewport north latitude (degrees)")
	south := fs.Float64("south", 0, "viewport south latitude (degrees)")
	east := fs.Float64("east", 0, "viewport east longitude (degrees)")
	west := fs.Float64("west", 0, "viewport west longitude (degrees)")
	fs.Parse(args)

	if fs.NArg() < 1 {
		return fmt.Errorf("expected one or more .zan file arguments")
	}
	if *north <= *south {
		return fmt.Errorf("-north (%v) must be greater than -south (%v)", *north, *south)
	}
	if *east <= *west {
		return fmt.Errorf("-east (%v) must be greater than -west (%v)", *east, *west)
	}

	viewport := geo.NewBoundingBox(
		geo.NewGeoCoord(*north, *west).Project(),
		geo.NewGeoCoord(*south, *east).Project(),
	)

	var nodes []raster.Node
	var paths []raster.Path
	resolveByID := map[uint64]string{} // merged across input tiles; collisions overwrite (separate tiles, separate tables)

	for _, path := range fs.Args() {
		f, err := os.Open(path)
		if err != nil {
			return fmt.Errorf("opening %s: %w", path, err)
		}
		result, err := tilecodec.Decode(f)
		f.Close()
		if err != nil {
			return fmt.Errorf("decoding %s: %w", path, err)
		}

		for _, n := range result.Nodes {
			nodes = append(nodes, raster.Node{ID: n.ID, Coord: n.Coord})
		}
		for text, id := range result.Strings {
			resolveByID[id] = text
		}
		for _, p := range result.Paths {
			tags := make([]raster.TagPair, len(p.Tags))
			for i, t := range p.Tags {
				tags[i] = raster.TagPair{KeyID: t.KeyID, ValID: t.ValID}
			}
			paths = append(paths, raster.Path{NodeIDs: p.NodeIDs, Tags: tags})
		}
	}

	r := &raster.Rasterizer{Width: *width, Height: *height}
	png, err := r.Draw(nodes, paths, viewport, func(id uint64) (string, bool) {
		text, ok := resolveByID[id]
		return text, ok
	})
	if err != nil {
		return fmt.Errorf("rasterizing: %w", err)
	}

	if err := os.WriteFile(*out, png, 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", *out, err)
	}
	fmt.Printf("wrote %s\n", *out)
	return nil
}
