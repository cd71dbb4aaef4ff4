// Package store defines the persistence interface for launch records,
// ingestion state, and aggregate snapshots.
package store

import (
	"context"
	"time"

	"github.com/groblegark/launchfeed/internal/model"
)

// Epoch is the high-water mark returned before any ingestion has run.
var Epoch = time.Date(1970, 1, 1, 0, 0, 0, 0, time.UTC)

// LaunchStats is the result of a full aggregate scan over the raw
// launch table.
type LaunchStats struct {
	Total      int
	Successful int
	Failed     int
	Earliest   *time.Time
	Latest     *time.Time

	// SiteCount is the number of distinct non-null launch sites.
	SiteCount int

	// AvgPayloadMassKg averages only positive, present masses.
	AvgPayloadMassKg *float64

	// AvgLeadTimeHours averages static-fire-to-launch lead time over
	// launches where both timestamps are present and correctly ordered.
	AvgLeadTimeHours *float64

	// LeadTimeAnomalies counts launches whose static-fire timestamp is
	// after the launch timestamp. Such rows are excluded from
	// AvgLeadTimeHours; the count surfaces them as a data-quality signal.
	LeadTimeAnomalies int
}

// Store is the persistence interface consumed by the pipeline and the
// aggregation engine.
type Store interface {
	// Ingestion state
	HighWaterMark(ctx context.Context) (time.Time, error) // Epoch when no run has completed
	SetHighWaterMark(ctx context.Context, t time.Time) error

	// Raw launches
	LatestLaunch(ctx context.Context) (*model.Launch, error) // nil when the store is empty
	InsertLaunches(ctx context.Context, launches []*model.Launch) (int, error)

	// Aggregate queries over raw launches
	LaunchStats(ctx context.Context) (*LaunchStats, error)
	SiteCount(ctx context.Context) (int, error)
	AveragePayloadMass(ctx context.Context) (*float64, error)
	AverageLeadTimeHours(ctx context.Context) (*float64, error)

	// Snapshot time series (append-only)
	InsertSnapshot(ctx context.Context, s *model.Snapshot) (int64, error)
	LatestSnapshot(ctx context.Context) (*model.Snapshot, error) // nil when none exist
	SnapshotHistory(ctx context.Context, limit int) ([]*model.Snapshot, error)

	// Transaction support
	RunInTransaction(ctx context.Context, fn func(tx Store) error) error

	// Lifecycle
	Close() error
}
