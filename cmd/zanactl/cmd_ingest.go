package main

import (
	"fmt"
	"os"

	"github.com/dustin/go-humanize"

	"github.com/hyvakartta/zana/internal/cliutil"
	"github.com/hyvakartta/zana/internal/h3idx"
	"github.com/hyvakartta/zana/internal/ingest"
	"github.com/hyvakartta/zana/internal/metrics"
	"github.com/hyvakartta/zana/internal/partition"
	"github.com/hyvakartta/zana/internal/staging"
	"github.com/hyvakartta/zana/internal/strtable"
)

func runIngest(args []string) error {
	fs := newFlagSet("ingest")
	in := fs.String("in", "", "NDJSON input file (default: stdin)")
	out := fs.String("out", "tiles", "output directory for .zan tiles")
	concurrency := fs.Int("concurrency", 0, "parallel tile builds (0 = number of CPUs)")
	verbose := fs.Bool("verbose", false, "print per-tile progress")
	fs.Parse(args)

	source := os.Stdin
	if *in != "" {
		f, err := os.Open(*in)
		if err != nil {
			return fmt.Errorf("opening %s: %w", *in, err)
		}
		defer f.Close()
		source = f
	}

	store := staging.New()
	strings := strtable.New()
	reg := metrics.New()

	var bar *cliutil.ProgressBar
	if *verbose {
		bar = cliutil.NewProgressBar("ingesting", 0)
	}

	stagedNodes := 0
	stats, err := ingest.Run(source, store, strings, func(s ingest.Stats) {
		reg.NodesIngested.Add(float64(s.Nodes - stagedNodes))
		stagedNodes = s.Nodes
		if bar != nil {
			bar.Increment()
		}
	})
	if bar != nil {
		bar.Finish()
	}
	if err != nil {
		return fmt.Errorf("ingesting: %w", err)
	}
	fmt.Printf("staged %s nodes, %s ways\n", humanize.Comma(int64(stats.Nodes)), humanize.Comma(int64(stats.Paths)))

	leaves := partition.New(store).Partition()
	fmt.Printf("partitioned into %s cells\n", humanize.Comma(int64(len(leaves))))

	builder := &partition.TileBuilder{
		Store:         store,
		GlobalStrings: strings.Snapshot(),
		OutDir:        *out,
		Concurrency:   *concurrency,
	}
	if *verbose {
		tileBar := cliutil.NewProgressBar("building tiles", int64(len(leaves)))
		builder.Progress = func(cell h3idx.Cell, err error) {
			if err != nil {
				fmt.Fprintf(os.Stderr, "\ntile %s failed: %v\n", h3idx.String(cell), err)
			}
			tileBar.Increment()
		}
		defer tileBar.Finish()
	}

	ctx := backgroundContext()
	if err := builder.BuildAll(ctx, leaves); err != nil {
		return fmt.Errorf("building tiles: %w", err)
	}

	fmt.Printf("wrote tiles to %s\n", *out)
	return nil
}
