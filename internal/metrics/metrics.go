// Package metrics exposes counters and gauges for the ingest and
// partition passes, grounded on the same client_golang usage qrank's
// indexer exports its crawl/merge progress with.
package metrics

import "github.com/prometheus/client_golang/prometheus"

// Registry bundles every metric zanactl exports. A fresh Registry is safe
// to register against prometheus.DefaultRegisterer exactly once per
// process; CLI subcommands that do not serve /metrics simply never read
// it.
type Registry struct {
	NodesIngested   prometheus.Counter
	PathsIngested   prometheus.Counter
	TilesBuilt      prometheus.Counter
	TileBuildErrors prometheus.Counter
	CellsInFlight   prometheus.Gauge
	DanglingRefs    prometheus.Counter
}

// New constructs a Registry with unregistered metrics. Call Register to
// attach it to a prometheus.Registerer.
func New() *Registry {
	return &Registry{
		NodesIngested: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "zana",
			Subsystem: "ingest",
			Name:      "nodes_total",
			Help:      "OSM nodes staged so far.",
		}),
		PathsIngested: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "zana",
			Subsystem: "ingest",
			Name:      "paths_total",
			Help:      "OSM ways staged so far.",
		}),
		TilesBuilt: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "zana",
			Subsystem: "partition",
			Name:      "tiles_built_total",
			Help:      "Tile files successfully written.",
		}),
		TileBuildErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "zana",
			Subsystem: "partition",
			Name:      "tile_build_errors_total",
			Help:      "Tile builds that returned an error.",
		}),
		CellsInFlight: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "zana",
			Subsystem: "partition",
			Name:      "cells_in_flight",
			Help:      "Leaf cells currently being built into tiles.",
		}),
		DanglingRefs: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "zana",
			Subsystem: "tilecodec",
			Name:      "dangling_refs_total",
			Help:      "Path node references that resolved to no node in their tile, summed across decodes.",
		}),
	}
}

// Register attaches every metric in r to reg. Call once at process start.
func (r *Registry) Register(reg prometheus.Registerer) error {
	collectors := []prometheus.Collector{
		r.NodesIngested, r.PathsIngested, r.TilesBuilt,
		r.TileBuildErrors, r.CellsInFlight, r.DanglingRefs,
	}
	for _, c := range collectors {
		if err := reg.Register(c); err != nil {
			return err
		}
	}
	return nil
}
