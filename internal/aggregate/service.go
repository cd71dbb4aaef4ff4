// Package aggregate maintains the snapshot time series over ingested
// launches. Snapshots are immutable; every update appends a new row
// rather than mutating the previous one.
package aggregate

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/groblegark/launchfeed/internal/model"
	"github.com/groblegark/launchfeed/internal/store"
)

// Service folds ingested batches into aggregate snapshots and can
// rebuild a snapshot from scratch off the raw launch table.
type Service struct {
	store  store.Store
	logger *slog.Logger
}

// NewService creates an aggregation service backed by the given store.
func NewService(s store.Store, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{store: s, logger: logger}
}

// ApplyBatch folds a batch of newly ingested launches into the latest
// snapshot and appends the result as a new incremental snapshot.
//
// Counters and the date range are folded in from the batch alone.
// Distinct-site count and the two averages cannot be folded without the
// full population, so they are recomputed from the store; the batch has
// already been persisted by the time this runs.
func (a *Service) ApplyBatch(ctx context.Context, batch []*model.Launch, runID string) (*model.Snapshot, error) {
	if len(batch) == 0 {
		return nil, fmt.Errorf("aggregate: empty batch")
	}

	prev, err := a.store.LatestSnapshot(ctx)
	if err != nil {
		return nil, fmt.Errorf("aggregate: load latest snapshot: %w", err)
	}
	if prev == nil {
		prev = &model.Snapshot{}
	}

	next := &model.Snapshot{
		TotalLaunches:      prev.TotalLaunches,
		SuccessfulLaunches: prev.SuccessfulLaunches,
		FailedLaunches:     prev.FailedLaunches,
		EarliestLaunch:     prev.EarliestLaunch,
		LatestLaunch:       prev.LatestLaunch,
		Kind:               model.SnapshotIncremental,
		BatchSize:          len(batch),
		RunID:              runID,
		CreatedAt:          time.Now().UTC(),
	}

	for _, l := range batch {
		next.TotalLaunches++
		switch l.Outcome {
		case model.OutcomeSuccess:
			next.SuccessfulLaunches++
		case model.OutcomeFailure:
			next.FailedLaunches++
		}

		launched := l.LaunchedAt
		if next.EarliestLaunch == nil || launched.Before(*next.EarliestLaunch) {
			t := launched
			next.EarliestLaunch = &t
		}
		if next.LatestLaunch == nil || launched.After(*next.LatestLaunch) {
			t := launched
			next.LatestLaunch = &t
		}
		if next.LastProcessedAt == nil || launched.After(*next.LastProcessedAt) {
			t := launched
			next.LastProcessedAt = &t
		}
	}

	next.SuccessRate = model.SuccessRate(next.SuccessfulLaunches, next.TotalLaunches)

	if next.SiteCount, err = a.store.SiteCount(ctx); err != nil {
		return nil, fmt.Errorf("aggregate: site count: %w", err)
	}
	if next.AvgPayloadMassKg, err = a.store.AveragePayloadMass(ctx); err != nil {
		return nil, fmt.Errorf("aggregate: average payload mass: %w", err)
	}
	if next.AvgLeadTimeHours, err = a.store.AverageLeadTimeHours(ctx); err != nil {
		return nil, fmt.Errorf("aggregate: average lead time: %w", err)
	}

	id, err := a.store.InsertSnapshot(ctx, next)
	if err != nil {
		return nil, fmt.Errorf("aggregate: insert snapshot: %w", err)
	}
	next.ID = id

	a.logger.Debug("snapshot appended",
		"snapshot_id", id,
		"total_launches", next.TotalLaunches,
		"batch_size", next.BatchSize)
	return next, nil
}

// Rebuild computes a snapshot from scratch with a single aggregate scan
// over the raw launch table and appends it. Used for the first load into
// an empty store and for operator-invoked rebuilds.
func (a *Service) Rebuild(ctx context.Context, runID string, kind model.SnapshotKind) (*model.Snapshot, error) {
	stats, err := a.store.LaunchStats(ctx)
	if err != nil {
		return nil, fmt.Errorf("aggregate: launch stats: %w", err)
	}

	if stats.LeadTimeAnomalies > 0 {
		a.logger.Warn("launches with static fire after launch excluded from lead time average",
			"count", stats.LeadTimeAnomalies)
	}

	snap := &model.Snapshot{
		TotalLaunches:      stats.Total,
		SuccessfulLaunches: stats.Successful,
		FailedLaunches:     stats.Failed,
		SuccessRate:        model.SuccessRate(stats.Successful, stats.Total),
		EarliestLaunch:     stats.Earliest,
		LatestLaunch:       stats.Latest,
		SiteCount:          stats.SiteCount,
		AvgPayloadMassKg:   stats.AvgPayloadMassKg,
		AvgLeadTimeHours:   stats.AvgLeadTimeHours,
		LastProcessedAt:    stats.Latest,
		Kind:               kind,
		BatchSize:          stats.Total,
		RunID:              runID,
		CreatedAt:          time.Now().UTC(),
	}

	id, err := a.store.InsertSnapshot(ctx, snap)
	if err != nil {
		return nil, fmt.Errorf("aggregate: insert snapshot: %w", err)
	}
	snap.ID = id

	a.logger.Debug("snapshot rebuilt",
		"snapshot_id", id,
		"kind", kind.String(),
		"total_launches", snap.TotalLaunches)
	return snap, nil
}

// Latest returns the most recent snapshot, or nil when none exist.
func (a *Service) Latest(ctx context.Context) (*model.Snapshot, error) {
	return a.store.LatestSnapshot(ctx)
}

// History returns the most recent snapshots, newest first.
func (a *Service) History(ctx context.Context, limit int) ([]*model.Snapshot, error) {
	return a.store.SnapshotHistory(ctx, limit)
}
