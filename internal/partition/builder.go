package partition

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/hyvakartta/zana/internal/h3idx"
	"github.com/hyvakartta/zana/internal/staging"
	"github.com/hyvakartta/zana/internal/strtable"
	"github.com/hyvakartta/zana/internal/tilecodec"
)

// TileBuilder turns accepted leaf cells into ".zan" tile files under
// OutDir, named by the cell's canonical hex string.
//
// Parallelism follows the teacher's worker-pool idiom
// (internal/tile/generator.go fans a bounded number of goroutines out over
// independent zoom-pyramid tiles) generalized to errgroup, since cells are
// as independent as the teacher's tiles are: each reads its own slice of
// staging and writes its own file.
type TileBuilder struct {
	Store         *staging.Store
	GlobalStrings *strtable.Inverse
	OutDir        string

	// Concurrency bounds the number of tiles built at once. Zero means
	// runtime.NumCPU().
	Concurrency int

	// Progress, if set, is called after each tile finishes (nil cells
	// are never passed; err is nil on success).
	Progress func(cell h3idx.Cell, err error)
}

// BuildAll builds one tile per cell. It returns the first error
// encountered; other in-flight builds are allowed to finish; on error,
// partially written tiles for cells that did fail are not left behind
// (each tile is written to a temp file and renamed into place only on
// success).
func (b *TileBuilder) BuildAll(ctx context.Context, cells []h3idx.Cell) error {
	if err := os.MkdirAll(b.OutDir, 0o755); err != nil {
		return fmt.Errorf("partition: creating output dir %q: %w", b.OutDir, err)
	}

	limit := b.Concurrency
	if limit <= 0 {
		limit = runtime.NumCPU()
	}

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(limit)

	for _, cell := range cells {
		cell := cell
		g.Go(func() error {
			err := b.buildOne(ctx, cell)
			if b.Progress != nil {
				b.Progress(cell, err)
			}
			return err
		})
	}
	return g.Wait()
}

func (b *TileBuilder) buildOne(ctx context.Context, cell h3idx.Cell) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	if len(b.Store.PathsTouchingCell(cell)) == 0 {
		return nil
	}

	record, err := buildRecord(cell, b.Store, b.GlobalStrings)
	if err != nil {
		return fmt.Errorf("partition: building tile %s: %w", h3idx.String(cell), err)
	}

	var buf bytes.Buffer
	if err := tilecodec.Encode(record.nodes, record.paths, record.strings, &buf); err != nil {
		return fmt.Errorf("partition: encoding tile %s: %w", h3idx.String(cell), err)
	}

	finalPath := filepath.Join(b.OutDir, h3idx.String(cell)+".zan")
	tmpPath := finalPath + ".tmp"
	if err := os.WriteFile(tmpPath, buf.Bytes(), 0o644); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("partition: writing %s: %w", tmpPath, err)
	}
	if err := os.Rename(tmpPath, finalPath); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("partition: renaming %s into place: %w", tmpPath, err)
	}
	return nil
}

// tileRecord is the decoded-form content of one tile, before the final
// delta/LZ4 framing tilecodec performs.
type tileRecord struct {
	nodes   tilecodec.DenseNodes
	paths   tilecodec.DensePaths
	strings map[string]uint64
}

// buildRecord gathers every path touching cell and the nodes they
// reference, re-interns their tags into a tile-local string table, and
// delta-encodes the columns tilecodec.Encode expects.
func buildRecord(cell h3idx.Cell, store *staging.Store, globalStrings *strtable.Inverse) (*tileRecord, error) {
	pathIDs := store.PathsTouchingCell(cell)
	nodes := store.NodesForPaths(pathIDs)

	nodeIDs := make([]int64, len(nodes))
	lats := make([]int32, len(nodes))
	lons := make([]int32, len(nodes))
	for i, n := range nodes {
		nodeIDs[i] = n.ID
		lats[i] = n.Coord.DecimicroLat
		lons[i] = n.Coord.DecimicroLon
	}

	local := strtable.New()
	dnodesPerPath := make([][]int64, len(pathIDs))
	var flatTags []uint64

	for i, pathID := range pathIDs {
		p, ok := store.Path(pathID)
		if !ok {
			return nil, fmt.Errorf("path %d vanished from staging between lookup and build", pathID)
		}
		refs := make([]int64, len(p.NodeIDs))
		copy(refs, p.NodeIDs)
		dnodesPerPath[i] = tilecodec.DeltaEncode(refs)

		if i > 0 {
			flatTags = append(flatTags, 0)
		}
		for _, tag := range p.Tags {
			keyText, ok := globalStrings.Resolve(tag.KeyID)
			if !ok {
				return nil, fmt.Errorf("path %d: tag key id %d not in global string table", pathID, tag.KeyID)
			}
			valText, ok := globalStrings.Resolve(tag.ValID)
			if !ok {
				return nil, fmt.Errorf("path %d: tag value id %d not in global string table", pathID, tag.ValID)
			}
			flatTags = append(flatTags, local.Intern(keyText), local.Intern(valText))
		}
	}

	return &tileRecord{
		nodes: tilecodec.DenseNodes{
			DIDs:  tilecodec.DeltaEncode(nodeIDs),
			DLats: tilecodec.DeltaEncode(lats),
			DLons: tilecodec.DeltaEncode(lons),
		},
		paths: tilecodec.DensePaths{
			DNodes: dnodesPerPath,
			Tags:   flatTags,
		},
		strings: local.AsMap(),
	}, nil
}
