package model

import (
	"math"
	"time"
)

// SnapshotKind records how a snapshot row was produced.
type SnapshotKind string

const (
	// SnapshotInitial is written by the first full load into an empty store.
	SnapshotInitial SnapshotKind = "initial"
	// SnapshotIncremental is written by an incremental pipeline run.
	SnapshotIncremental SnapshotKind = "incremental"
	// SnapshotManual is written by an operator-invoked rebuild.
	SnapshotManual SnapshotKind = "manual"
)

// String returns the string representation of the snapshot kind.
func (k SnapshotKind) String() string {
	return string(k)
}

// IsValid checks whether the snapshot kind is a known value.
func (k SnapshotKind) IsValid() bool {
	switch k {
	case SnapshotInitial, SnapshotIncremental, SnapshotManual:
		return true
	}
	return false
}

// Snapshot is one immutable row in the aggregate time series. Rows are
// append-only; the current state is the row with the latest CreatedAt
// (ties broken by highest ID).
type Snapshot struct {
	ID                 int64        `json:"id"`
	TotalLaunches      int          `json:"total_launches"`
	SuccessfulLaunches int          `json:"successful_launches"`
	FailedLaunches     int          `json:"failed_launches"`
	SuccessRate        *float64     `json:"success_rate,omitempty"`
	EarliestLaunch     *time.Time   `json:"earliest_launch,omitempty"`
	LatestLaunch       *time.Time   `json:"latest_launch,omitempty"`
	SiteCount          int          `json:"site_count"`
	AvgPayloadMassKg   *float64     `json:"avg_payload_mass_kg,omitempty"`
	AvgLeadTimeHours   *float64     `json:"avg_lead_time_hours,omitempty"`
	LastProcessedAt    *time.Time   `json:"last_processed_at,omitempty"`
	Kind               SnapshotKind `json:"kind"`
	BatchSize          int          `json:"batch_size"`
	RunID              string       `json:"run_id,omitempty"`
	CreatedAt          time.Time    `json:"created_at"`
}

// SuccessRate computes successful/total as a percentage rounded to two
// decimals. Launches with an unknown outcome count toward the total but
// neither the numerator nor the failed counter. Returns nil when total
// is zero.
func SuccessRate(successful, total int) *float64 {
	if total == 0 {
		return nil
	}
	rate := math.Round(float64(successful)/float64(total)*100*100) / 100
	return &rate
}
