// Package ingest reads OSM node/way records into a staging.Store.
//
// No PBF-parsing library appears anywhere in the retrieved corpus, so this
// reads a newline-delimited JSON record stream instead of binary PBF —
// encoding/json is the ambient stdlib choice here, not a gap (DESIGN.md).
// A real deployment sits a PBF-to-NDJSON extraction step in front of this
// package; that extraction is out of scope for the pipeline itself.
package ingest

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"

	"github.com/hyvakartta/zana/internal/geo"
	"github.com/hyvakartta/zana/internal/staging"
	"github.com/hyvakartta/zana/internal/strtable"
)

// record is one line of the NDJSON input stream.
type record struct {
	Type string            `json:"type"`
	ID   int64             `json:"id"`
	Lat  float64           `json:"lat"`
	Lon  float64           `json:"lon"`
	Refs []int64           `json:"nodes"`
	Tags map[string]string `json:"tags"`
}

// Stats summarizes one ingest run, printed by the CLI's INGEST command.
type Stats struct {
	Nodes int
	Paths int
	Lines int
}

// Run reads NDJSON records from source, staging nodes and ways into store
// and interning tag keys/values into strings. progress, if non-nil, is
// called after every record.
func Run(source io.Reader, store *staging.Store, strings *strtable.Table, progress func(Stats)) (Stats, error) {
	scanner := bufio.NewScanner(source)
	scanner.Buffer(make([]byte, 64*1024), 16*1024*1024)

	var stats Stats
	for scanner.Scan() {
		line := scanner.Bytes()
		stats.Lines++
		if len(line) == 0 {
			continue
		}

		var rec record
		if err := json.Unmarshal(line, &rec); err != nil {
			return stats, fmt.Errorf("ingest: line %d: %w", stats.Lines, err)
		}

		switch rec.Type {
		case "node":
			store.AddNode(rec.ID, geo.NewGeoCoord(rec.Lat, rec.Lon))
			stats.Nodes++
		case "way":
			tags := make([]staging.TagPair, 0, len(rec.Tags))
			for k, v := range rec.Tags {
				tags = append(tags, staging.TagPair{
					KeyID: strings.Intern(k),
					ValID: strings.Intern(v),
				})
			}
			store.AddPath(rec.ID, rec.Refs, tags)
			stats.Paths++
		default:
			return stats, fmt.Errorf("ingest: line %d: unknown record type %q", stats.Lines, rec.Type)
		}

		if progress != nil {
			progress(stats)
		}
	}
	if err := scanner.Err(); err != nil {
		return stats, fmt.Errorf("ingest: reading source: %w", err)
	}
	return stats, nil
}
