// Package events emits pipeline lifecycle events so downstream
// consumers (dashboards, alerting) can react to runs and snapshots
// without polling the database.
package events

import (
	"context"

	"github.com/groblegark/launchfeed/internal/model"
)

// Event topic constants
const (
	TopicRunCompleted    = "launchfeed.run.completed"
	TopicRunFailed       = "launchfeed.run.failed"
	TopicSnapshotCreated = "launchfeed.snapshot.created"
)

// Event types

type RunCompleted struct {
	RunID  string           `json:"run_id,omitempty"`
	Result *model.RunResult `json:"result"`
}

type RunFailed struct {
	RunID string `json:"run_id,omitempty"`
	Err   string `json:"error_message"`
}

type SnapshotCreated struct {
	SnapshotID    int64    `json:"snapshot_id"`
	RunID         string   `json:"run_id,omitempty"`
	TotalLaunches int      `json:"total_launches"`
	SuccessRate   *float64 `json:"success_rate,omitempty"`
}

// Publisher is the interface for emitting events.
type Publisher interface {
	Publish(ctx context.Context, topic string, event any) error
	Close() error
}

// PublishRunResult maps a finished run onto the relevant topics.
// Publish failures are returned for logging but never affect the run.
func PublishRunResult(ctx context.Context, pub Publisher, res *model.RunResult) error {
	runID := res.RunID

	if res.Status == model.RunError {
		return pub.Publish(ctx, TopicRunFailed, RunFailed{RunID: runID, Err: res.Err})
	}

	if err := pub.Publish(ctx, TopicRunCompleted, RunCompleted{RunID: runID, Result: res}); err != nil {
		return err
	}
	if res.Aggregate.Status == model.AggregateSuccess {
		return pub.Publish(ctx, TopicSnapshotCreated, SnapshotCreated{
			SnapshotID:    res.Aggregate.SnapshotID,
			RunID:         runID,
			TotalLaunches: res.Aggregate.TotalLaunches,
			SuccessRate:   res.Aggregate.SuccessRate,
		})
	}
	return nil
}
