// Package source provides a transport-agnostic interface for the remote
// launch API and an HTTP/JSON implementation that talks to its REST
// endpoints.
package source

import (
	"context"
	"time"

	"github.com/groblegark/launchfeed/internal/model"
)

// Source is the interface the ingestion pipeline uses to read launch
// data. It is implemented by HTTPSource (default) and can be backed by
// any transport.
type Source interface {
	// Latest fetches the most recent launch. Used for change detection,
	// so it must stay a single cheap call.
	Latest(ctx context.Context) (*model.RawLaunch, error)

	// All fetches every launch, unfiltered.
	All(ctx context.Context) ([]model.RawLaunch, error)

	// Since fetches launches with a launch date at or after the given
	// threshold, in ascending date order. Pagination is handled
	// internally and is bounded by a hard page cap.
	Since(ctx context.Context, threshold time.Time) ([]model.RawLaunch, error)

	// PayloadMass looks up the mass of a single payload. The second
	// return value is false when the payload has no recorded mass.
	PayloadMass(ctx context.Context, id string) (float64, bool, error)
}
