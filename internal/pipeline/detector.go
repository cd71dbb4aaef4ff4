package pipeline

import "github.com/groblegark/launchfeed/internal/model"

// NeedsIngest decides whether an ingestion run should proceed by
// comparing the newest upstream launch against the newest stored one.
//
// It errs on the side of ingesting: a strictly newer upstream timestamp
// means yes, and so does an equal timestamp with a different ID (two
// launches in the same instant, only one stored). Only an exact match
// on both timestamp and ID reports no change. Callers treat detection
// failures the same way and proceed with a full run.
func NeedsIngest(upstream, stored *model.Launch) bool {
	if stored == nil {
		return true
	}
	if upstream == nil {
		return true
	}
	if upstream.LaunchedAt.After(stored.LaunchedAt) {
		return true
	}
	if upstream.LaunchedAt.Equal(stored.LaunchedAt) && upstream.ID != stored.ID {
		return true
	}
	return false
}
