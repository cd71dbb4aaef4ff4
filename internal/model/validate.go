package model

import (
	"strings"
	"time"
)

// ValidationError holds a list of field-level validation errors for a
// single raw launch record.
type ValidationError struct {
	Errors []FieldError
}

// FieldError represents a single validation failure on a named field.
type FieldError struct {
	Field   string
	Message string
}

// Error formats the validation error as a semicolon-separated list of field messages.
func (e *ValidationError) Error() string {
	parts := make([]string, len(e.Errors))
	for i, fe := range e.Errors {
		parts[i] = fe.Field + ": " + fe.Message
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// HasErrors reports whether the validation error contains any field errors.
func (e *ValidationError) HasErrors() bool {
	return len(e.Errors) > 0
}

// ParseLaunch validates a raw API record and converts it into a typed
// Launch. It returns a *ValidationError describing every failed field
// when the record cannot be accepted.
func ParseLaunch(raw RawLaunch) (*Launch, error) {
	var ve ValidationError

	if strings.TrimSpace(raw.ID) == "" {
		ve.Errors = append(ve.Errors, FieldError{Field: "id", Message: "is required"})
	}

	launchedAt, err := parseUpstreamTime(raw.DateUTC)
	if err != nil {
		ve.Errors = append(ve.Errors, FieldError{Field: "date_utc", Message: err.Error()})
	}

	var staticFireAt *time.Time
	if raw.StaticFireDateUTC != "" {
		t, err := parseUpstreamTime(raw.StaticFireDateUTC)
		if err != nil {
			ve.Errors = append(ve.Errors, FieldError{Field: "static_fire_date_utc", Message: err.Error()})
		} else {
			staticFireAt = &t
		}
	}

	if ve.HasErrors() {
		return nil, &ve
	}

	payloads := raw.Payloads
	if payloads == nil {
		payloads = []string{}
	}

	return &Launch{
		ID:           raw.ID,
		Name:         raw.Name,
		LaunchedAt:   launchedAt,
		Outcome:      OutcomeFromBool(raw.Success),
		PayloadIDs:   payloads,
		SiteID:       raw.Launchpad,
		StaticFireAt: staticFireAt,
	}, nil
}

// parseUpstreamTime parses RFC 3339 timestamps as emitted by the launch
// API, including the trailing-Z form.
func parseUpstreamTime(s string) (time.Time, error) {
	if strings.TrimSpace(s) == "" {
		return time.Time{}, errRequired
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}, errBadTimestamp
	}
	return t.UTC(), nil
}

type validationMessage string

func (m validationMessage) Error() string { return string(m) }

const (
	errRequired     = validationMessage("is required")
	errBadTimestamp = validationMessage("is not a valid RFC 3339 timestamp")
)
