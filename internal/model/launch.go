package model

import (
	"time"
)

// Outcome is the tri-state result of a launch. Launches whose result is
// not yet known (or was never recorded upstream) carry OutcomeUnknown.
type Outcome string

const (
	OutcomeSuccess Outcome = "success"
	OutcomeFailure Outcome = "failure"
	OutcomeUnknown Outcome = "unknown"
)

// String returns the string representation of the outcome.
func (o Outcome) String() string {
	return string(o)
}

// IsValid checks whether the outcome is a known value.
func (o Outcome) IsValid() bool {
	switch o {
	case OutcomeSuccess, OutcomeFailure, OutcomeUnknown:
		return true
	}
	return false
}

// OutcomeFromBool maps the upstream nullable success flag to an Outcome.
func OutcomeFromBool(success *bool) Outcome {
	switch {
	case success == nil:
		return OutcomeUnknown
	case *success:
		return OutcomeSuccess
	default:
		return OutcomeFailure
	}
}

// Launch is one ingested launch record. Identity is the upstream ID;
// inserts keyed on it are idempotent and rows are never mutated after
// ingestion.
type Launch struct {
	ID                 string     `json:"id"`
	Name               string     `json:"name,omitempty"`
	LaunchedAt         time.Time  `json:"launched_at"`
	Outcome            Outcome    `json:"outcome"`
	PayloadIDs         []string   `json:"payload_ids,omitempty"`
	TotalPayloadMassKg *float64   `json:"total_payload_mass_kg,omitempty"`
	SiteID             string     `json:"site_id,omitempty"`
	StaticFireAt       *time.Time `json:"static_fire_at,omitempty"`
}

// RawLaunch is the wire shape returned by the launch API before
// validation. Field names follow the upstream JSON schema.
type RawLaunch struct {
	ID                string   `json:"id"`
	Name              string   `json:"name"`
	DateUTC           string   `json:"date_utc"`
	Success           *bool    `json:"success"`
	Payloads          []string `json:"payloads"`
	Launchpad         string   `json:"launchpad"`
	StaticFireDateUTC string   `json:"static_fire_date_utc"`
}
