// Package staging holds the ingested OSM node and path columns between the
// ingest pass and the partitioner/tile builder, playing the role the
// teacher gives a ClickHouse/Postgres warehouse: a queryable store a tile
// builder can ask "what touches this cell" of. This in-process
// implementation is the one swapped for a real column store in a
// production deployment (see DESIGN.md); its interface is shaped so that
// swap never touches the partitioner or tile builder above it.
package staging

import (
	"slices"
	"sort"
	"sync"

	h3 "github.com/uber/h3-go/v4"

	"github.com/hyvakartta/zana/internal/geo"
	"github.com/hyvakartta/zana/internal/h3idx"
)

// cell3Resolution is the resolution at which nodes are bucketed for
// coarse lookup: every node's resolution-12 cell and its resolution-3
// ancestor are stored together so the partitioner can descend from the top
// of the tree without scanning the entire node set.
const cell3Resolution = 3

// nodeResolution is the resolution at which every node's containing cell
// is recorded, matching the spec's MIN_RESOLUTION floor for the
// partitioner (internal/partition mirrors this constant).
const nodeResolution = 12

// TagPair is one OSM tag as interned string ids.
type TagPair struct {
	KeyID uint64
	ValID uint64
}

// Node is one staged OSM node.
type Node struct {
	ID    int64
	Coord geo.GeoCoord
	Cell  h3idx.Cell // resolution-12 cell containing Coord
}

// Path is one staged OSM way: an ordered list of node ids plus its tags.
type Path struct {
	ID      int64
	NodeIDs []int64
	Tags    []TagPair
}

// Store is the append-only columnar staging area for one ingest run. All
// methods are safe for concurrent use; writers (AddNode/AddPath) are
// expected to run single-threaded during ingest, while readers
// (PathsTouchingCell, NodesForPaths, ...) run concurrently during tiling.
type Store struct {
	mu sync.RWMutex

	nodes      map[int64]Node
	nodesByC3  map[h3idx.Cell][]int64 // resolution-3 cell -> node ids
	paths      map[int64]Path
	pathsByC3  map[h3idx.Cell][]int64 // resolution-3 cell -> path ids (any node touches it)
	nodeToPath map[int64][]int64      // node id -> path ids that reference it
}

// New returns an empty Store.
func New() *Store {
	return &Store{
		nodes:      make(map[int64]Node),
		nodesByC3:  make(map[h3idx.Cell][]int64),
		paths:      make(map[int64]Path),
		pathsByC3:  make(map[h3idx.Cell][]int64),
		nodeToPath: make(map[int64][]int64),
	}
}

// AddNode stages one node. Its resolution-12 cell is computed from its
// coordinate; callers never supply it directly, since the whole point of
// indexing by cell is that it must always be derived from the coordinate
// (spec §4.2's "cell3 == cell12.parent(3)" invariant).
func (s *Store) AddNode(id int64, coord geo.GeoCoord) {
	cell := h3idx.FromGeoCoord(coord, nodeResolution)
	cell3 := h3.Cell(cell).Parent(cell3Resolution)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.nodes[id] = Node{ID: id, Coord: coord, Cell: cell}
	s.nodesByC3[cell3] = append(s.nodesByC3[cell3], id)

	// Paths staged before this node could not be indexed under its cell
	// yet; do it now.
	for _, pathID := range s.nodeToPath[id] {
		if !slices.Contains(s.pathsByC3[cell3], pathID) {
			s.pathsByC3[cell3] = append(s.pathsByC3[cell3], pathID)
		}
	}
}

// AddPath stages one way. nodeRefs dangling outside the currently staged
// node set are tolerated here (nodes and ways can arrive out of order
// during ingest); staleness is only resolved, and surfaced, at tile build
// time via tilecodec's DanglingRefs count.
func (s *Store) AddPath(id int64, nodeRefs []int64, tags []TagPair) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.paths[id] = Path{ID: id, NodeIDs: nodeRefs, Tags: tags}
	seen := make(map[h3idx.Cell]bool)
	for _, nodeID := range nodeRefs {
		s.nodeToPath[nodeID] = append(s.nodeToPath[nodeID], id)
		n, ok := s.nodes[nodeID]
		if !ok {
			continue
		}
		c3 := h3.Cell(n.Cell).Parent(cell3Resolution)
		if !seen[c3] {
			seen[c3] = true
			s.pathsByC3[c3] = append(s.pathsByC3[c3], id)
		}
	}
}

// CountNodesIn returns the number of staged nodes whose resolution-12 cell
// is cell or a descendant of cell. cell may be at any resolution from 0 to
// 12 inclusive.
func (s *Store) CountNodesIn(cell h3idx.Cell) int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	res := h3idx.Resolution(cell)
	if res >= cell3Resolution {
		c3 := h3.Cell(cell).Parent(cell3Resolution)
		return s.countInBucket(c3, cell, res)
	}

	// cell is coarser than resolution 3: sum over every resolution-3
	// bucket that descends from it.
	count := 0
	for c3 := range s.nodesByC3 {
		if cellContains(cell, res, h3idx.Cell(c3)) {
			count += s.countInBucket(c3, cell, res)
		}
	}
	return count
}

func (s *Store) countInBucket(c3 h3idx.Cell, cell h3idx.Cell, res int) int {
	count := 0
	for _, id := range s.nodesByC3[c3] {
		n := s.nodes[id]
		if res == nodeResolution {
			if n.Cell == cell {
				count++
			}
			continue
		}
		if h3.Cell(n.Cell).Parent(res) == h3.Cell(cell) {
			count++
		}
	}
	return count
}

// cellContains reports whether candidate descends from ancestor at
// ancestorRes (or equals it).
func cellContains(ancestor h3idx.Cell, ancestorRes int, candidate h3idx.Cell) bool {
	if h3idx.Resolution(candidate) < ancestorRes {
		return false
	}
	return h3.Cell(candidate).Parent(ancestorRes) == h3.Cell(ancestor)
}

// PathsTouchingCell returns, in ascending id order, every staged path with
// at least one node inside cell (at any resolution up to 12).
func (s *Store) PathsTouchingCell(cell h3idx.Cell) []int64 {
	s.mu.RLock()
	defer s.mu.RUnlock()

	res := h3idx.Resolution(cell)
	seen := make(map[int64]bool)
	var out []int64

	collect := func(c3 h3idx.Cell) {
		for _, pathID := range s.pathsByC3[c3] {
			if seen[pathID] {
				continue
			}
			if pathTouches(s.paths[pathID], s.nodes, cell, res) {
				seen[pathID] = true
				out = append(out, pathID)
			}
		}
	}

	if res >= cell3Resolution {
		collect(h3.Cell(cell).Parent(cell3Resolution))
	} else {
		for c3 := range s.pathsByC3 {
			if cellContains(cell, res, h3idx.Cell(c3)) {
				collect(c3)
			}
		}
	}

	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

func pathTouches(p Path, nodes map[int64]Node, cell h3idx.Cell, res int) bool {
	for _, nodeID := range p.NodeIDs {
		n, ok := nodes[nodeID]
		if !ok {
			continue
		}
		if res == nodeResolution {
			if n.Cell == cell {
				return true
			}
			continue
		}
		if h3.Cell(n.Cell).Parent(res) == h3.Cell(cell) {
			return true
		}
	}
	return false
}

// NodesForPaths returns, deduplicated and in ascending id order, every
// staged node referenced by any of paths.
func (s *Store) NodesForPaths(pathIDs []int64) []Node {
	s.mu.RLock()
	defer s.mu.RUnlock()

	seen := make(map[int64]bool)
	var ids []int64
	for _, pathID := range pathIDs {
		p, ok := s.paths[pathID]
		if !ok {
			continue
		}
		for _, nodeID := range p.NodeIDs {
			if seen[nodeID] {
				continue
			}
			seen[nodeID] = true
			ids = append(ids, nodeID)
		}
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	out := make([]Node, 0, len(ids))
	for _, id := range ids {
		if n, ok := s.nodes[id]; ok {
			out = append(out, n)
		}
	}
	return out
}

// Path returns the staged path with the given id.
func (s *Store) Path(id int64) (Path, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.paths[id]
	return p, ok
}

// DistinctCell3s returns every resolution-3 cell with at least one staged
// node, the partitioner's starting frontier.
func (s *Store) DistinctCell3s() []h3idx.Cell {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]h3idx.Cell, 0, len(s.nodesByC3))
	for c3 := range s.nodesByC3 {
		out = append(out, c3)
	}
	sort.Slice(out, func(i, j int) bool { return h3idx.String(out[i]) < h3idx.String(out[j]) })
	return out
}

// NodeCount and PathCount report staged totals, used for progress
// reporting and the CLI's summary output.
func (s *Store) NodeCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.nodes)
}

func (s *Store) PathCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.paths)
}
