package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/hyvakartta/zana/internal/tilecodec"
)

func runDump(args []string) error {
	fs := newFlagSet("dump")
	fs.Parse(args)

	if fs.NArg() != 1 {
		return fmt.Errorf("expected exactly one .zan file argument")
	}
	path := fs.Arg(0)

	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()

	result, err := tilecodec.Decode(f)
	if err != nil {
		return fmt.Errorf("decoding %s: %w", path, err)
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(result); err != nil {
		return fmt.Errorf("encoding result: %w", err)
	}
	if result.DanglingRefs > 0 {
		fmt.Fprintf(os.Stderr, "warning: %d dangling node references\n", result.DanglingRefs)
	}
	return nil
}
