package archive

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"

	"github.com/groblegark/launchfeed/internal/store"
)

// Destination is the interface for an archive target (S3, local file, etc.).
type Destination interface {
	// Write sends the JSONL payload to the destination.
	Write(ctx context.Context, data []byte) error
}

// Archiver exports the snapshot series and ships it to one or more
// destinations.
type Archiver struct {
	store        store.Store
	destinations []Destination
	logger       *slog.Logger
}

// New creates an archiver for the given destinations.
func New(s store.Store, destinations []Destination, logger *slog.Logger) *Archiver {
	if logger == nil {
		logger = slog.Default()
	}
	return &Archiver{store: s, destinations: destinations, logger: logger}
}

// Export runs one export and writes it to every destination. Failing
// destinations are logged and skipped; the error returned reflects the
// export itself.
func (a *Archiver) Export(ctx context.Context) error {
	if len(a.destinations) == 0 {
		return nil
	}

	var buf bytes.Buffer
	if err := ExportJSONL(ctx, a.store, &buf); err != nil {
		return fmt.Errorf("archive export: %w", err)
	}
	data := buf.Bytes()

	for i, dest := range a.destinations {
		if err := dest.Write(ctx, data); err != nil {
			a.logger.Error("archive destination write failed",
				"destination", fmt.Sprintf("%d", i), "err", err)
		}
	}

	a.logger.Info("archive export completed",
		"destinations", len(a.destinations), "bytes", len(data))
	return nil
}
