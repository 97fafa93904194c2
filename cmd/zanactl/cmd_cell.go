package main

import (
	"fmt"

	"github.com/hyvakartta/zana/internal/h3idx"
)

// runCell prints the H3 cell index for a lat/lon and, since a cell index
// means little on its own, an OSM URL centered on the cell's centroid —
// handy for sanity-checking a tile's geographic footprint without
// rendering it.
func runCell(args []string) error {
	fs := newFlagSet("cell")
	lat := fs.Float64("lat", 0, "latitude in degrees")
	lon := fs.Float64("lon", 0, "longitude in degrees")
	resolution := fs.Int("res", 9, "H3 resolution (0-15)")
	fs.Parse(args)

	if *resolution < 0 || *resolution > 15 {
		return fmt.Errorf("-res must be between 0 and 15, got %d", *resolution)
	}

	cell := h3idx.FromLatLng(*lat, *lon, *resolution)
	centroidLat, centroidLon := h3idx.Centroid(cell)

	fmt.Printf("cell:       %s\n", h3idx.String(cell))
	fmt.Printf("resolution: %d\n", h3idx.Resolution(cell))
	fmt.Printf("centroid:   %.6f, %.6f\n", centroidLat, centroidLon)
	fmt.Printf("osm url:    https://www.openstreetmap.org/#map=%d/%.6f/%.6f\n",
		*resolution, centroidLat, centroidLon)
	return nil
}
