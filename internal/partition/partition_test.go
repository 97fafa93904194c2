package partition

import (
	"testing"

	"github.com/hyvakartta/zana/internal/geo"
	"github.com/hyvakartta/zana/internal/h3idx"
	"github.com/hyvakartta/zana/internal/staging"
)

func TestPartitionSingleCellUnderThreshold(t *testing.T) {
	s := staging.New()
	s.AddNode(1, geo.NewGeoCoord(47.37, 8.54))
	s.AddNode(2, geo.NewGeoCoord(47.38, 8.55))

	leaves := New(s).Partition()
	if len(leaves) != 1 {
		t.Fatalf("Partition() = %v, want exactly 1 leaf for a small node set", leaves)
	}
	if h3idx.Resolution(leaves[0]) != 3 {
		t.Fatalf("leaf resolution = %d, want 3 (no split needed)", h3idx.Resolution(leaves[0]))
	}
}

func TestPartitionSplitsOversizedCell(t *testing.T) {
	s := staging.New()
	// Scatter more than MaxNodesPerCell nodes across a small geographic
	// area so the resolution-3 cell they land in must split.
	lat, lon := 47.30, 8.40
	for i := 0; i < MaxNodesPerCell+1000; i++ {
		lat += 0.00001
		lon += 0.00001
		s.AddNode(int64(i+1), geo.NewGeoCoord(lat, lon))
	}

	leaves := New(s).Partition()
	if len(leaves) < 2 {
		t.Fatalf("Partition() = %d leaves, want > 1 after exceeding MaxNodesPerCell", len(leaves))
	}
	for _, leaf := range leaves {
		count := s.CountNodesIn(leaf)
		res := h3idx.Resolution(leaf)
		if count > MaxNodesPerCell && res < MinResolution {
			t.Errorf("leaf %s at res %d holds %d nodes, exceeds MaxNodesPerCell without reaching MinResolution",
				h3idx.String(leaf), res, count)
		}
	}
}

func TestPartitionStopsAtMinResolution(t *testing.T) {
	s := staging.New()
	// All nodes at the exact same point: CountNodesIn never drops below
	// the total no matter how far the partitioner descends, so it must
	// bottom out at MinResolution rather than loop forever.
	for i := 0; i < MaxNodesPerCell+1; i++ {
		s.AddNode(int64(i+1), geo.NewGeoCoord(47.3769, 8.5417))
	}

	leaves := New(s).Partition()
	for _, leaf := range leaves {
		if h3idx.Resolution(leaf) > MinResolution {
			t.Fatalf("leaf %s at resolution %d exceeds MinResolution %d",
				h3idx.String(leaf), h3idx.Resolution(leaf), MinResolution)
		}
	}
}
