// Package tilecodec implements the on-disk ".zan" tile format: delta-encoded
// integer columns inside a length-prefixed binary record, compressed with a
// streaming LZ4 frame.
//
// The framing follows the teacher's manual encoding/binary style
// (internal/pmtiles/header.go writes every field by hand with
// binary.LittleEndian) generalized to variable-length sequences via
// stdlib varints, since no generic serialization library appears anywhere
// in the retrieved corpus — see DESIGN.md for why this one component stays
// on the standard library rather than reaching for a dependency.
package tilecodec

import (
	"bufio"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"sort"

	"github.com/klauspost/compress/lz4"

	"github.com/hyvakartta/zana/internal/geo"
)

// Sentinel errors surfaced to callers (spec §4.4, §7).
var (
	// ErrTruncated is returned when the byte stream ends before a
	// length-prefixed field or value is fully read.
	ErrTruncated = errors.New("tilecodec: truncated tile data")
	// ErrBadDelta is returned when undeltifying a coordinate column
	// produces a value outside the valid decimicro-degree range.
	ErrBadDelta = errors.New("tilecodec: delta decode out of range")
	// ErrDanglingRef marks a path node reference that does not resolve to
	// any node in the tile. Per spec this is a soft warning: decode still
	// succeeds, and this error is never returned from Decode — it exists
	// so callers that want strict validation can check for it explicitly
	// via DanglingRefs on the decode result.
	ErrDanglingRef = errors.New("tilecodec: path references a node id absent from the tile")
)

// DenseNodes holds delta-encoded parallel node columns, already produced by
// DeltaEncode over ids/lats/lons sorted by ascending id.
type DenseNodes struct {
	DIDs  []int64
	DLats []int32
	DLons []int32
}

// DensePaths holds delta-encoded path columns. DIDs is reserved for forward
// compatibility and is currently always empty.
type DensePaths struct {
	DIDs   []int64
	DNodes [][]int64
	Tags   []uint64 // k0 v0 k1 v1 0 k0' v0' 0 ... no trailing 0
}

// Node is one decoded node: an id and its absolute decimicro coordinate.
type Node struct {
	ID    int64
	Coord geo.GeoCoord
}

// TagPair is one (key id, value id) pair, both ids into the tile's local
// string table.
type TagPair struct {
	KeyID uint64
	ValID uint64
}

// Path is one decoded path: the ordered node ids it references (verbatim,
// not filtered) and its tags.
type Path struct {
	NodeIDs []int64
	Tags    []TagPair
}

// minDecimicro / maxDecimicro bound the valid decimicro-degree range for
// lat and lon respectively (spec §3).
const (
	minDecimicroLat int32 = -900_000_000
	maxDecimicroLat int32 = 900_000_000
	minDecimicroLon int32 = -1_800_000_000
	maxDecimicroLon int32 = 1_800_000_000
)

// Encode writes nodes, paths, and the tile-local string table as one
// LZ4-framed record to sink. Field order is part of the wire format and
// must not change: nodes(dids,dlats,dlons) -> paths(dids,dnodes,tags) ->
// string_table.
func Encode(nodes DenseNodes, paths DensePaths, strings map[string]uint64, sink io.Writer) error {
	lzw := lz4.NewWriter(sink)
	bw := bufio.NewWriter(lzw)

	if err := writeVarintSeq(bw, nodes.DIDs); err != nil {
		return fmt.Errorf("tilecodec: writing node ids: %w", err)
	}
	if err := writeVarintSeq32(bw, nodes.DLats); err != nil {
		return fmt.Errorf("tilecodec: writing node lats: %w", err)
	}
	if err := writeVarintSeq32(bw, nodes.DLons); err != nil {
		return fmt.Errorf("tilecodec: writing node lons: %w", err)
	}

	if err := writeVarintSeq(bw, paths.DIDs); err != nil {
		return fmt.Errorf("tilecodec: writing path ids: %w", err)
	}
	if err := writeUvarint(bw, uint64(len(paths.DNodes))); err != nil {
		return fmt.Errorf("tilecodec: writing path count: %w", err)
	}
	for i, dn := range paths.DNodes {
		if err := writeVarintSeq(bw, dn); err != nil {
			return fmt.Errorf("tilecodec: writing path %d node refs: %w", i, err)
		}
	}
	if err := writeUvarintSeq(bw, paths.Tags); err != nil {
		return fmt.Errorf("tilecodec: writing tags: %w", err)
	}

	if err := writeStringTable(bw, strings); err != nil {
		return fmt.Errorf("tilecodec: writing string table: %w", err)
	}

	if err := bw.Flush(); err != nil {
		return fmt.Errorf("tilecodec: flushing record: %w", err)
	}
	if err := lzw.Close(); err != nil {
		return fmt.Errorf("tilecodec: closing lz4 frame: %w", err)
	}
	return nil
}

// DecodeResult is the deserialized contents of one tile.
type DecodeResult struct {
	Strings      map[string]uint64
	Nodes        []Node
	Paths        []Path
	DanglingRefs int // path node refs absent from Nodes; informational only
}

// Decode reads and deserializes a tile produced by Encode. Nodes are
// reconstructed first, then paths, in the order the columns yield them —
// this is a derived order, not a preserved original one (DESIGN.md).
func Decode(source io.Reader) (*DecodeResult, error) {
	lzr := lz4.NewReader(source)
	br := bufio.NewReader(lzr)

	dids, err := readVarintSeq(br)
	if err != nil {
		return nil, fmt.Errorf("tilecodec: reading node ids: %w", err)
	}
	dlats, err := readVarintSeq32(br)
	if err != nil {
		return nil, fmt.Errorf("tilecodec: reading node lats: %w", err)
	}
	dlons, err := readVarintSeq32(br)
	if err != nil {
		return nil, fmt.Errorf("tilecodec: reading node lons: %w", err)
	}
	if len(dids) != len(dlats) || len(dids) != len(dlons) {
		return nil, fmt.Errorf("tilecodec: mismatched node column lengths (%d ids, %d lats, %d lons)",
			len(dids), len(dlats), len(dlons))
	}

	ids := DeltaDecode(dids)
	lats := DeltaDecode(dlats)
	lons := DeltaDecode(dlons)

	nodes := make([]Node, len(ids))
	nodeByID := make(map[int64]geo.GeoCoord, len(ids))
	for i := range ids {
		if lats[i] < minDecimicroLat || lats[i] > maxDecimicroLat ||
			lons[i] < minDecimicroLon || lons[i] > maxDecimicroLon {
			return nil, fmt.Errorf("%w: node %d out of range (lat=%d, lon=%d)",
				ErrBadDelta, ids[i], lats[i], lons[i])
		}
		coord := geo.GeoCoord{DecimicroLat: lats[i], DecimicroLon: lons[i]}
		nodes[i] = Node{ID: ids[i], Coord: coord}
		nodeByID[ids[i]] = coord
	}

	if _, err := readVarintSeq(br); err != nil { // paths.dids: reserved, discarded
		return nil, fmt.Errorf("tilecodec: reading path ids: %w", err)
	}

	pathCount, err := binary.ReadUvarint(br)
	if err != nil {
		return nil, fmt.Errorf("%w: reading path count: %v", ErrTruncated, err)
	}

	pathNodeIDs := make([][]int64, pathCount)
	for i := range pathNodeIDs {
		dnodes, err := readVarintSeq(br)
		if err != nil {
			return nil, fmt.Errorf("tilecodec: reading path %d node refs: %w", i, err)
		}
		pathNodeIDs[i] = DeltaDecode(dnodes)
	}

	flatTags, err := readUvarintSeq(br)
	if err != nil {
		return nil, fmt.Errorf("tilecodec: reading tags: %w", err)
	}
	tagGroups, err := splitTagGroups(flatTags, int(pathCount))
	if err != nil {
		return nil, err
	}

	danglingRefs := 0
	paths := make([]Path, pathCount)
	for i := range paths {
		for _, ref := range pathNodeIDs[i] {
			if _, ok := nodeByID[ref]; !ok {
				danglingRefs++
			}
		}
		paths[i] = Path{NodeIDs: pathNodeIDs[i], Tags: tagGroups[i]}
	}

	strings, err := readStringTable(br)
	if err != nil {
		return nil, fmt.Errorf("tilecodec: reading string table: %w", err)
	}

	return &DecodeResult{Strings: strings, Nodes: nodes, Paths: paths, DanglingRefs: danglingRefs}, nil
}

// splitTagGroups splits a flat k,v,...,0,k,v,...,0,... stream (no trailing
// sentinel) into exactly n groups, one per path, per spec §4.4.
func splitTagGroups(flat []uint64, n int) ([][]TagPair, error) {
	if n == 0 {
		if len(flat) != 0 {
			return nil, fmt.Errorf("tilecodec: tag stream present but no paths")
		}
		return nil, nil
	}

	groups := make([][]TagPair, 0, n)
	var current []TagPair
	for i := 0; i < len(flat); {
		if flat[i] == 0 {
			groups = append(groups, current)
			current = nil
			i++
			continue
		}
		if i+1 >= len(flat) {
			return nil, fmt.Errorf("tilecodec: tag stream ends mid-pair")
		}
		current = append(current, TagPair{KeyID: flat[i], ValID: flat[i+1]})
		i += 2
	}
	groups = append(groups, current)

	if len(groups) != n {
		return nil, fmt.Errorf("tilecodec: %d tag groups but %d paths", len(groups), n)
	}
	return groups, nil
}

func writeStringTable(w io.Writer, strings map[string]uint64) error {
	// Sort by id for determinism: map iteration order is not stable, and
	// the format's determinism contract (spec §4.7) requires byte-identical
	// output across runs given identical inputs.
	type entry struct {
		text string
		id   uint64
	}
	entries := make([]entry, 0, len(strings))
	for text, id := range strings {
		entries = append(entries, entry{text: text, id: id})
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].id < entries[j].id })

	if err := writeUvarint(w, uint64(len(entries))); err != nil {
		return err
	}
	for _, e := range entries {
		textBytes := []byte(e.text)
		if err := writeUvarint(w, uint64(len(textBytes))); err != nil {
			return err
		}
		if _, err := w.Write(textBytes); err != nil {
			return err
		}
		if err := writeUvarint(w, e.id); err != nil {
			return err
		}
	}
	return nil
}

func readStringTable(r io.ByteReader) (map[string]uint64, error) {
	count, err := binary.ReadUvarint(r)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrTruncated, err)
	}
	out := make(map[string]uint64, count)
	br, ok := r.(io.Reader)
	if !ok {
		return nil, fmt.Errorf("tilecodec: string table reader must also be io.Reader")
	}
	for i := uint64(0); i < count; i++ {
		textLen, err := binary.ReadUvarint(r)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrTruncated, err)
		}
		buf := make([]byte, textLen)
		if _, err := io.ReadFull(br, buf); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrTruncated, err)
		}
		id, err := binary.ReadUvarint(r)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrTruncated, err)
		}
		out[string(buf)] = id
	}
	return out, nil
}
