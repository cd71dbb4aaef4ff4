package pipeline

import (
	"testing"
	"time"

	"github.com/groblegark/launchfeed/internal/model"
)

func TestNeedsIngest(t *testing.T) {
	t0 := time.Date(2022, 7, 15, 0, 44, 0, 0, time.UTC)

	tests := map[string]struct {
		upstream *model.Launch
		stored   *model.Launch
		want     bool
	}{
		"empty store": {
			upstream: &model.Launch{ID: "a", LaunchedAt: t0},
			stored:   nil,
			want:     true,
		},
		"no upstream launch": {
			upstream: nil,
			stored:   &model.Launch{ID: "a", LaunchedAt: t0},
			want:     true,
		},
		"upstream newer": {
			upstream: &model.Launch{ID: "b", LaunchedAt: t0.Add(time.Hour)},
			stored:   &model.Launch{ID: "a", LaunchedAt: t0},
			want:     true,
		},
		"same instant different launch": {
			upstream: &model.Launch{ID: "b", LaunchedAt: t0},
			stored:   &model.Launch{ID: "a", LaunchedAt: t0},
			want:     true,
		},
		"identical": {
			upstream: &model.Launch{ID: "a", LaunchedAt: t0},
			stored:   &model.Launch{ID: "a", LaunchedAt: t0},
			want:     false,
		},
		"upstream older": {
			upstream: &model.Launch{ID: "old", LaunchedAt: t0.Add(-time.Hour)},
			stored:   &model.Launch{ID: "a", LaunchedAt: t0},
			want:     false,
		},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			if got := NeedsIngest(tc.upstream, tc.stored); got != tc.want {
				t.Errorf("NeedsIngest() = %v, want %v", got, tc.want)
			}
		})
	}
}
