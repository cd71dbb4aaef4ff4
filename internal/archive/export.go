// Package archive exports the snapshot time series as JSONL to
// external destinations, giving operators an off-database copy of the
// aggregate history.
package archive

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/groblegark/launchfeed/internal/store"
)

// historyLimit caps how many snapshots a single export includes.
const historyLimit = 1000

// header is the first JSONL record written by ExportJSONL.
type header struct {
	Version       string    `json:"version"`
	Type          string    `json:"type"`
	Timestamp     time.Time `json:"timestamp"`
	SnapshotCount int       `json:"snapshot_count"`
}

// record wraps a single JSONL line with a type discriminator.
type record struct {
	Type string      `json:"type"`
	Data interface{} `json:"data"`
}

// ExportJSONL writes the snapshot history from the store as JSONL to w,
// newest snapshot first.
func ExportJSONL(ctx context.Context, s store.Store, w io.Writer) error {
	snaps, err := s.SnapshotHistory(ctx, historyLimit)
	if err != nil {
		return fmt.Errorf("snapshot history: %w", err)
	}

	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)

	if err := enc.Encode(header{
		Version:       "1",
		Type:          "header",
		Timestamp:     time.Now().UTC(),
		SnapshotCount: len(snaps),
	}); err != nil {
		return fmt.Errorf("encode header: %w", err)
	}

	for _, snap := range snaps {
		if err := enc.Encode(record{Type: "snapshot", Data: snap}); err != nil {
			return fmt.Errorf("encode snapshot %d: %w", snap.ID, err)
		}
	}

	return nil
}
