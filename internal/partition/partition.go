// Package partition builds the adaptive H3 cell tree that each tile lives
// behind, and turns the accepted leaves into ".zan" tile files.
//
// The traversal mirrors the teacher's zoom-level pyramid walk
// (internal/tile/zoom.go descends a quadtree one level at a time, splitting
// only where source resolution demands it); here the tree is H3's
// hexagonal hierarchy and the split criterion is node density rather than
// source-pixel resolution, but the "descend until small enough or out of
// levels" shape is the same.
package partition

import (
	"github.com/hyvakartta/zana/internal/h3idx"
	"github.com/hyvakartta/zana/internal/staging"
)

// MaxNodesPerCell is the largest node count a cell may hold and still be
// accepted as a tile leaf, short of MinResolution; a cell holding exactly
// this many nodes is not split.
const MaxNodesPerCell = 100_000

// MinResolution is the finest resolution the partitioner will split down
// to. A cell at this resolution is always accepted regardless of how many
// nodes it holds.
const MinResolution = 12

// Partitioner walks the H3 tree top-down from each staged resolution-3
// cell, splitting any cell whose node count exceeds MaxNodesPerCell until
// either it fits or MinResolution is reached.
type Partitioner struct {
	Store *staging.Store
}

// New returns a Partitioner reading from store.
func New(store *staging.Store) *Partitioner {
	return &Partitioner{Store: store}
}

// Partition returns the accepted leaf cells, each destined to become one
// tile file. Order is deterministic: cells are visited depth-first in the
// order DistinctCell3s and Children return them.
func (p *Partitioner) Partition() []h3idx.Cell {
	var leaves []h3idx.Cell
	for _, c3 := range p.Store.DistinctCell3s() {
		p.descend(c3, &leaves)
	}
	return leaves
}

func (p *Partitioner) descend(cell h3idx.Cell, leaves *[]h3idx.Cell) {
	res := h3idx.Resolution(cell)
	count := p.Store.CountNodesIn(cell)

	if count <= MaxNodesPerCell || res >= MinResolution {
		*leaves = append(*leaves, cell)
		return
	}

	for _, child := range h3idx.Children(cell, res+1) {
		if p.Store.CountNodesIn(child) == 0 {
			continue
		}
		p.descend(child, leaves)
	}
}
