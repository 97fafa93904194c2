// Command zanactl ingests OSM node/way records, partitions them into an
// adaptive H3 cell tree, and builds/serves/inspects the resulting ".zan"
// hex tiles.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
)

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}

	cmd := os.Args[1]
	args := os.Args[2:]

	var err error
	switch cmd {
	case "ingest":
		err = runIngest(args)
	case "dump":
		err = runDump(args)
	case "draw":
		err = runDraw(args)
	case "time":
		err = runTime(args)
	case "cell":
		err = runCell(args)
	case "serve":
		err = runServe(args)
	case "-h", "-help", "--help", "help":
		usage()
		os.Exit(0)
	default:
		fmt.Fprintf(os.Stderr, "zanactl: unknown command %q\n\n", cmd)
		usage()
		os.Exit(2)
	}

	if err != nil {
		fmt.Fprintf(os.Stderr, "zanactl %s: %v\n", cmd, err)
		os.Exit(1)
	}
}

func usage() {
	fmt.Fprintf(os.Stderr, `Usage: zanactl <command> [flags]

Commands:
  ingest     stage OSM node/way records, partition them, and write .zan tiles
  dump       print a tile's decoded contents as JSON
  draw       rasterize a tile (or tiles within a viewport) to PNG
  time       report how long staging + partitioning an input took
  cell       print the H3 cell and OSM centroid URL for a lat/lon
  serve      serve a tile directory over HTTP

Run "zanactl <command> -h" for command-specific flags.
`)
}

func newFlagSet(name string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ExitOnError)
	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: zanactl %s [flags]\n\nFlags:\n", name)
		fs.PrintDefaults()
	}
	return fs
}

// backgroundContext returns the CLI's ambient context. Subcommands take
// one explicitly rather than reaching for context.Background() themselves
// so a future signal-driven cancellation only has to change this one
// function.
func backgroundContext() context.Context {
	return context.Background()
}
