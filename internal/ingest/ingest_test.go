package ingest

import (
	"strings"
	"testing"

	"github.com/hyvakartta/zana/internal/staging"
	"github.com/hyvakartta/zana/internal/strtable"
)

func TestRunStagesNodesAndWays(t *testing.T) {
	input := strings.Join([]string{
		`{"type":"node","id":1,"lat":47.370,"lon":8.540}`,
		`{"type":"node","id":2,"lat":47.371,"lon":8.541}`,
		`{"type":"way","id":100,"nodes":[1,2],"tags":{"highway":"residential"}}`,
	}, "\n")

	store := staging.New()
	strTable := strtable.New()
	stats, err := Run(strings2Reader(input), store, strTable, nil)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if stats.Nodes != 2 || stats.Paths != 1 {
		t.Fatalf("stats = %+v, want 2 nodes 1 path", stats)
	}
	if store.NodeCount() != 2 || store.PathCount() != 1 {
		t.Fatalf("store has %d nodes %d paths, want 2 and 1", store.NodeCount(), store.PathCount())
	}

	p, ok := store.Path(100)
	if !ok {
		t.Fatal("path 100 not staged")
	}
	if len(p.Tags) != 1 {
		t.Fatalf("path tags = %v, want 1 entry", p.Tags)
	}
}

func TestRunRejectsUnknownType(t *testing.T) {
	store := staging.New()
	strTable := strtable.New()
	_, err := Run(strings2Reader(`{"type":"relation","id":1}`), store, strTable, nil)
	if err == nil {
		t.Fatal("expected an error for an unrecognized record type")
	}
}

func strings2Reader(s string) *strings.Reader {
	return strings.NewReader(s)
}
