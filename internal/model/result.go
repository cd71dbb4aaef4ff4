package model

import "time"

// RunStatus is the overall outcome of a pipeline run.
type RunStatus string

const (
	RunSuccess RunStatus = "success"
	RunError   RunStatus = "error"
)

// Optimization names the fetch strategy a run ended up using.
type Optimization string

const (
	// OptEarlyExit means change detection found nothing new and the run
	// stopped after a single source call.
	OptEarlyExit Optimization = "change_detection_early_exit"
	// OptServerFilter means new launches were fetched with a server-side
	// filtered, paginated query.
	OptServerFilter Optimization = "server_side_filtering"
	// OptClientFilter is the resilience fallback: fetch everything and
	// filter against the high-water mark locally.
	OptClientFilter Optimization = "client_side_filtering"
	// OptInitialLoad means the store was empty and change detection was
	// skipped entirely.
	OptInitialLoad Optimization = "initial_load_skip_change_detection"
)

// AggregateStatus is the outcome of the aggregation step of a run.
// Aggregation failures are isolated from ingestion: a run can report
// RunSuccess with AggregateError.
type AggregateStatus string

const (
	AggregateSuccess AggregateStatus = "success"
	AggregateSkipped AggregateStatus = "skipped"
	AggregateError   AggregateStatus = "error"
)

// AggregateResult summarizes the aggregation step of a pipeline run.
type AggregateResult struct {
	Status        AggregateStatus `json:"status"`
	Reason        string          `json:"reason,omitempty"`
	Err           string          `json:"error_message,omitempty"`
	TotalLaunches int             `json:"total_launches,omitempty"`
	SuccessRate   *float64        `json:"success_rate,omitempty"`
	SnapshotID    int64           `json:"snapshot_id,omitempty"`
	RunID         string          `json:"run_id,omitempty"`
}

// RunResult is the structured summary every pipeline run produces,
// success or failure. Callers turn Status into a process exit code;
// the pipeline itself never surfaces a raw panic or error.
type RunResult struct {
	Status           RunStatus       `json:"status"`
	RunID            string          `json:"run_id,omitempty"`
	Err              string          `json:"error_message,omitempty"`
	NewFound         int             `json:"new_launches_found"`
	Inserted         int             `json:"launches_inserted"`
	ValidationErrors int             `json:"validation_errors,omitempty"`
	Duration         time.Duration   `json:"-"`
	DurationSeconds  float64         `json:"duration_seconds"`
	SourceCalls      int             `json:"source_calls_made"`
	PayloadLookups   int             `json:"payload_lookups,omitempty"`
	EarlyExit        bool            `json:"early_exit"`
	Optimization     Optimization    `json:"optimization,omitempty"`
	InitialLoad      bool            `json:"initial_load,omitempty"`
	Aggregate        AggregateResult `json:"aggregations"`
}
