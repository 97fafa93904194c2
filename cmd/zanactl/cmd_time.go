package main

import (
	"fmt"
	"os"
	"time"

	"github.com/hyvakartta/zana/internal/ingest"
	"github.com/hyvakartta/zana/internal/partition"
	"github.com/hyvakartta/zana/internal/staging"
	"github.com/hyvakartta/zana/internal/strtable"
)

// runTime reports how long each pipeline stage takes against an input
// file, without writing any tiles. Grounded directly on the original
// implementation's own stage-timing instrumentation: ingest, then
// partition, reported separately so a slow stage is obvious at a glance.
func runTime(args []string) error {
	fs := newFlagSet("time")
	in := fs.String("in", "", "NDJSON input file (required)")
	fs.Parse(args)

	if *in == "" {
		return fmt.Errorf("-in is required")
	}
	f, err := os.Open(*in)
	if err != nil {
		return fmt.Errorf("opening %s: %w", *in, err)
	}
	defer f.Close()

	store := staging.New()
	strings := strtable.New()

	ingestStart := time.Now()
	stats, err := ingest.Run(f, store, strings, nil)
	ingestElapsed := time.Since(ingestStart)
	if err != nil {
		return fmt.Errorf("ingesting: %w", err)
	}

	partitionStart := time.Now()
	leaves := partition.New(store).Partition()
	partitionElapsed := time.Since(partitionStart)

	fmt.Printf("ingest:    %v (%d nodes, %d ways)\n", ingestElapsed, stats.Nodes, stats.Paths)
	fmt.Printf("partition: %v (%d cells)\n", partitionElapsed, len(leaves))
	fmt.Printf("total:     %v\n", ingestElapsed+partitionElapsed)
	return nil
}
