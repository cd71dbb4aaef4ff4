package pipeline

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"testing"
	"time"

	"github.com/groblegark/launchfeed/internal/aggregate"
	"github.com/groblegark/launchfeed/internal/model"
	"github.com/groblegark/launchfeed/internal/store"
)

// memStore is a fully functional in-memory store.Store used to exercise
// complete pipeline runs without a database.
type memStore struct {
	launches  map[string]*model.Launch
	marks     []time.Time
	snapshots []*model.Snapshot
	nextID    int64

	insertSnapshotErr error
	insertLaunchesErr error
}

func newMemStore() *memStore {
	return &memStore{launches: make(map[string]*model.Launch)}
}

func (m *memStore) HighWaterMark(ctx context.Context) (time.Time, error) {
	if len(m.marks) == 0 {
		return store.Epoch, nil
	}
	return m.marks[len(m.marks)-1], nil
}

func (m *memStore) SetHighWaterMark(ctx context.Context, t time.Time) error {
	m.marks = append(m.marks, t.UTC())
	return nil
}

func (m *memStore) LatestLaunch(ctx context.Context) (*model.Launch, error) {
	var latest *model.Launch
	for _, l := range m.launches {
		if latest == nil || l.LaunchedAt.After(latest.LaunchedAt) {
			latest = l
		}
	}
	return latest, nil
}

func (m *memStore) InsertLaunches(ctx context.Context, launches []*model.Launch) (int, error) {
	if m.insertLaunchesErr != nil {
		return 0, m.insertLaunchesErr
	}
	inserted := 0
	for _, l := range launches {
		if _, dup := m.launches[l.ID]; dup {
			continue
		}
		copied := *l
		m.launches[l.ID] = &copied
		inserted++
	}
	return inserted, nil
}

func (m *memStore) LaunchStats(ctx context.Context) (*store.LaunchStats, error) {
	stats := &store.LaunchStats{}
	for _, l := range m.launches {
		stats.Total++
		switch l.Outcome {
		case model.OutcomeSuccess:
			stats.Successful++
		case model.OutcomeFailure:
			stats.Failed++
		}
		launched := l.LaunchedAt
		if stats.Earliest == nil || launched.Before(*stats.Earliest) {
			t := launched
			stats.Earliest = &t
		}
		if stats.Latest == nil || launched.After(*stats.Latest) {
			t := launched
			stats.Latest = &t
		}
	}
	stats.SiteCount, _ = m.SiteCount(ctx)
	stats.AvgPayloadMassKg, _ = m.AveragePayloadMass(ctx)
	stats.AvgLeadTimeHours, _ = m.AverageLeadTimeHours(ctx)
	return stats, nil
}

func (m *memStore) SiteCount(ctx context.Context) (int, error) {
	sites := make(map[string]struct{})
	for _, l := range m.launches {
		if l.SiteID != "" {
			sites[l.SiteID] = struct{}{}
		}
	}
	return len(sites), nil
}

func (m *memStore) AveragePayloadMass(ctx context.Context) (*float64, error) {
	var sum float64
	var n int
	for _, l := range m.launches {
		if l.TotalPayloadMassKg != nil && *l.TotalPayloadMassKg > 0 {
			sum += *l.TotalPayloadMassKg
			n++
		}
	}
	if n == 0 {
		return nil, nil
	}
	avg := sum / float64(n)
	return &avg, nil
}

func (m *memStore) AverageLeadTimeHours(ctx context.Context) (*float64, error) {
	var sum float64
	var n int
	for _, l := range m.launches {
		if l.StaticFireAt == nil || l.StaticFireAt.After(l.LaunchedAt) {
			continue
		}
		sum += l.LaunchedAt.Sub(*l.StaticFireAt).Hours()
		n++
	}
	if n == 0 {
		return nil, nil
	}
	avg := sum / float64(n)
	return &avg, nil
}

func (m *memStore) InsertSnapshot(ctx context.Context, s *model.Snapshot) (int64, error) {
	if m.insertSnapshotErr != nil {
		return 0, m.insertSnapshotErr
	}
	m.nextID++
	copied := *s
	copied.ID = m.nextID
	m.snapshots = append(m.snapshots, &copied)
	return m.nextID, nil
}

func (m *memStore) LatestSnapshot(ctx context.Context) (*model.Snapshot, error) {
	if len(m.snapshots) == 0 {
		return nil, nil
	}
	return m.snapshots[len(m.snapshots)-1], nil
}

func (m *memStore) SnapshotHistory(ctx context.Context, limit int) ([]*model.Snapshot, error) {
	var out []*model.Snapshot
	for i := len(m.snapshots) - 1; i >= 0 && len(out) < limit; i-- {
		out = append(out, m.snapshots[i])
	}
	return out, nil
}

func (m *memStore) RunInTransaction(ctx context.Context, fn func(tx store.Store) error) error {
	return fn(m)
}

func (m *memStore) Close() error { return nil }

// fakeSource is a scriptable source.Source with call counting.
type fakeSource struct {
	latest    *model.RawLaunch
	latestErr error
	all       []model.RawLaunch
	allErr    error
	since     []model.RawLaunch
	sinceErr  error
	masses    map[string]float64

	latestCalls int
	allCalls    int
	sinceCalls  int
	massCalls   int
	sinceArg    time.Time
}

func (f *fakeSource) Latest(ctx context.Context) (*model.RawLaunch, error) {
	f.latestCalls++
	return f.latest, f.latestErr
}

func (f *fakeSource) All(ctx context.Context) ([]model.RawLaunch, error) {
	f.allCalls++
	return f.all, f.allErr
}

func (f *fakeSource) Since(ctx context.Context, threshold time.Time) ([]model.RawLaunch, error) {
	f.sinceCalls++
	f.sinceArg = threshold
	return f.since, f.sinceErr
}

func (f *fakeSource) PayloadMass(ctx context.Context, id string) (float64, bool, error) {
	f.massCalls++
	mass, ok := f.masses[id]
	if !ok {
		return 0, false, nil
	}
	return mass, true, nil
}

func newTestPipeline(src *fakeSource, st *memStore) *Pipeline {
	agg := aggregate.NewService(st, nil)
	return New(src, st, agg, nil, WithPayloadWorkers(2))
}

func rawLaunch(id, date string, success *bool, site string) model.RawLaunch {
	return model.RawLaunch{ID: id, Name: "mission " + id, DateUTC: date, Success: success, Launchpad: site}
}

func boolPtr(b bool) *bool { return &b }

func TestRun_InitialLoad(t *testing.T) {
	src := &fakeSource{
		all: []model.RawLaunch{
			rawLaunch("a", "2022-01-01T00:00:00Z", boolPtr(true), "pad-1"),
			rawLaunch("b", "2022-02-01T00:00:00Z", boolPtr(true), "pad-2"),
			rawLaunch("c", "2022-03-01T00:00:00Z", boolPtr(false), "pad-1"),
		},
	}
	st := newMemStore()
	p := newTestPipeline(src, st)

	res := p.Run(context.Background())

	if res.Status != model.RunSuccess {
		t.Fatalf("Status = %v (%s)", res.Status, res.Err)
	}
	if !res.InitialLoad || res.Optimization != model.OptInitialLoad {
		t.Errorf("InitialLoad/Optimization = %v/%v", res.InitialLoad, res.Optimization)
	}
	if res.NewFound != 3 || res.Inserted != 3 {
		t.Errorf("NewFound/Inserted = %d/%d", res.NewFound, res.Inserted)
	}
	if res.SourceCalls != 1 || src.latestCalls != 0 {
		t.Errorf("SourceCalls = %d, latestCalls = %d", res.SourceCalls, src.latestCalls)
	}
	if res.RunID == "" || !strings.HasPrefix(res.RunID, "run-") {
		t.Errorf("RunID = %q", res.RunID)
	}
	if res.Aggregate.Status != model.AggregateSuccess {
		t.Fatalf("Aggregate = %+v", res.Aggregate)
	}
	if res.Aggregate.TotalLaunches != 3 {
		t.Errorf("Aggregate.TotalLaunches = %d", res.Aggregate.TotalLaunches)
	}
	if res.Aggregate.SuccessRate == nil || *res.Aggregate.SuccessRate != 66.67 {
		t.Errorf("Aggregate.SuccessRate = %v", res.Aggregate.SuccessRate)
	}

	snap, _ := st.LatestSnapshot(context.Background())
	if snap == nil || snap.Kind != model.SnapshotInitial {
		t.Fatalf("snapshot = %+v", snap)
	}
	if snap.SiteCount != 2 {
		t.Errorf("SiteCount = %d", snap.SiteCount)
	}

	mark, _ := st.HighWaterMark(context.Background())
	want := time.Date(2022, 3, 1, 0, 0, 0, 0, time.UTC)
	if !mark.Equal(want) {
		t.Errorf("mark = %v, want %v", mark, want)
	}
}

func TestRun_EarlyExit(t *testing.T) {
	t0 := "2022-07-15T00:44:00Z"
	src := &fakeSource{latest: &model.RawLaunch{ID: "a", DateUTC: t0}}
	st := newMemStore()
	st.launches["a"] = &model.Launch{
		ID:         "a",
		LaunchedAt: time.Date(2022, 7, 15, 0, 44, 0, 0, time.UTC),
		Outcome:    model.OutcomeSuccess,
	}
	p := newTestPipeline(src, st)

	res := p.Run(context.Background())

	if res.Status != model.RunSuccess {
		t.Fatalf("Status = %v (%s)", res.Status, res.Err)
	}
	if !res.EarlyExit || res.Optimization != model.OptEarlyExit {
		t.Errorf("EarlyExit/Optimization = %v/%v", res.EarlyExit, res.Optimization)
	}
	if res.SourceCalls != 1 {
		t.Errorf("SourceCalls = %d, want 1", res.SourceCalls)
	}
	if res.NewFound != 0 || res.Inserted != 0 {
		t.Errorf("NewFound/Inserted = %d/%d", res.NewFound, res.Inserted)
	}
	if res.Aggregate.Status != model.AggregateSkipped {
		t.Errorf("Aggregate.Status = %v", res.Aggregate.Status)
	}
	if src.sinceCalls != 0 || src.allCalls != 0 {
		t.Errorf("unexpected fetch calls: since=%d all=%d", src.sinceCalls, src.allCalls)
	}
	if len(st.snapshots) != 0 {
		t.Errorf("early exit wrote %d snapshots", len(st.snapshots))
	}
}

func TestRun_IncrementalFetch(t *testing.T) {
	t0 := time.Date(2022, 7, 15, 0, 44, 0, 0, time.UTC)
	st := newMemStore()
	for i := 0; i < 10; i++ {
		id := fmt.Sprintf("old-%d", i)
		st.launches[id] = &model.Launch{
			ID:         id,
			LaunchedAt: t0.Add(-time.Duration(i+1) * 24 * time.Hour),
			Outcome:    model.OutcomeSuccess,
		}
	}
	st.launches["at-mark"] = &model.Launch{ID: "at-mark", LaunchedAt: t0, Outcome: model.OutcomeSuccess}
	st.marks = []time.Time{t0}
	st.snapshots = []*model.Snapshot{{ID: 1, TotalLaunches: 10, SuccessfulLaunches: 10}}
	st.nextID = 1

	src := &fakeSource{
		latest: &model.RawLaunch{ID: "new-2", DateUTC: "2022-07-17T00:00:00Z"},
		since: []model.RawLaunch{
			rawLaunch("new-1", "2022-07-16T00:00:00Z", boolPtr(true), "pad-1"),
			rawLaunch("new-2", "2022-07-17T00:00:00Z", boolPtr(false), "pad-1"),
		},
	}
	p := newTestPipeline(src, st)

	res := p.Run(context.Background())

	if res.Status != model.RunSuccess {
		t.Fatalf("Status = %v (%s)", res.Status, res.Err)
	}
	if res.Optimization != model.OptServerFilter {
		t.Errorf("Optimization = %v", res.Optimization)
	}
	if res.SourceCalls != 2 {
		t.Errorf("SourceCalls = %d, want 2", res.SourceCalls)
	}
	if res.NewFound != 2 || res.Inserted != 2 {
		t.Errorf("NewFound/Inserted = %d/%d", res.NewFound, res.Inserted)
	}
	if !src.sinceArg.Equal(t0) {
		t.Errorf("since threshold = %v, want %v", src.sinceArg, t0)
	}
	if res.Aggregate.TotalLaunches != 12 {
		t.Errorf("Aggregate.TotalLaunches = %d", res.Aggregate.TotalLaunches)
	}

	mark, _ := st.HighWaterMark(context.Background())
	want := time.Date(2022, 7, 17, 0, 0, 0, 0, time.UTC)
	if !mark.Equal(want) {
		t.Errorf("mark = %v, want %v", mark, want)
	}

	snap, _ := st.LatestSnapshot(context.Background())
	if snap.Kind != model.SnapshotIncremental || snap.BatchSize != 2 {
		t.Errorf("snapshot kind/batch = %v/%d", snap.Kind, snap.BatchSize)
	}
}

func TestRun_ValidationDropsBadRecords(t *testing.T) {
	src := &fakeSource{
		all: []model.RawLaunch{
			rawLaunch("a", "2022-01-01T00:00:00Z", boolPtr(true), "pad-1"),
			rawLaunch("b", "2022-02-01T00:00:00Z", boolPtr(true), "pad-1"),
			{ID: "bad", DateUTC: "not-a-date"},
			rawLaunch("c", "2022-03-01T00:00:00Z", nil, "pad-2"),
			rawLaunch("d", "2022-04-01T00:00:00Z", boolPtr(false), "pad-2"),
		},
	}
	st := newMemStore()
	p := newTestPipeline(src, st)

	res := p.Run(context.Background())

	if res.Status != model.RunSuccess {
		t.Fatalf("Status = %v (%s)", res.Status, res.Err)
	}
	if res.NewFound != 5 {
		t.Errorf("NewFound = %d", res.NewFound)
	}
	if res.ValidationErrors != 1 {
		t.Errorf("ValidationErrors = %d", res.ValidationErrors)
	}
	if res.Inserted != 4 {
		t.Errorf("Inserted = %d", res.Inserted)
	}
	if _, present := st.launches["bad"]; present {
		t.Error("invalid record was persisted")
	}
}

func TestRun_FallbackClientFiltering(t *testing.T) {
	t0 := time.Date(2022, 7, 15, 0, 0, 0, 0, time.UTC)
	st := newMemStore()
	st.launches["old"] = &model.Launch{ID: "old", LaunchedAt: t0, Outcome: model.OutcomeSuccess}
	st.marks = []time.Time{t0}

	src := &fakeSource{
		latest:   &model.RawLaunch{ID: "new", DateUTC: "2022-08-01T00:00:00Z"},
		sinceErr: errors.New("query endpoint unavailable"),
		all: []model.RawLaunch{
			rawLaunch("old", "2022-07-15T00:00:00Z", boolPtr(true), "pad-1"),
			rawLaunch("new", "2022-08-01T00:00:00Z", boolPtr(true), "pad-1"),
		},
	}
	p := newTestPipeline(src, st)

	res := p.Run(context.Background())

	if res.Status != model.RunSuccess {
		t.Fatalf("Status = %v (%s)", res.Status, res.Err)
	}
	if res.Optimization != model.OptClientFilter {
		t.Errorf("Optimization = %v", res.Optimization)
	}
	if res.SourceCalls != 3 {
		t.Errorf("SourceCalls = %d, want 3", res.SourceCalls)
	}
	// The launch dated exactly at the mark is filtered out locally.
	if res.NewFound != 1 || res.Inserted != 1 {
		t.Errorf("NewFound/Inserted = %d/%d", res.NewFound, res.Inserted)
	}
}

func TestRun_ChangeDetectionFailsOpen(t *testing.T) {
	t0 := time.Date(2022, 7, 15, 0, 0, 0, 0, time.UTC)
	st := newMemStore()
	st.launches["old"] = &model.Launch{ID: "old", LaunchedAt: t0, Outcome: model.OutcomeSuccess}
	st.marks = []time.Time{t0}

	src := &fakeSource{
		latestErr: errors.New("latest endpoint down"),
		since: []model.RawLaunch{
			rawLaunch("new", "2022-08-01T00:00:00Z", boolPtr(true), "pad-1"),
		},
	}
	p := newTestPipeline(src, st)

	res := p.Run(context.Background())

	if res.Status != model.RunSuccess {
		t.Fatalf("Status = %v (%s)", res.Status, res.Err)
	}
	if res.EarlyExit {
		t.Error("detection failure must not produce an early exit")
	}
	if res.Inserted != 1 {
		t.Errorf("Inserted = %d", res.Inserted)
	}
}

func TestRun_AggregationFailureIsolated(t *testing.T) {
	src := &fakeSource{
		all: []model.RawLaunch{
			rawLaunch("a", "2022-01-01T00:00:00Z", boolPtr(true), "pad-1"),
		},
	}
	st := newMemStore()
	st.insertSnapshotErr = errors.New("snapshot table unavailable")
	p := newTestPipeline(src, st)

	res := p.Run(context.Background())

	if res.Status != model.RunSuccess {
		t.Fatalf("Status = %v, ingestion must survive aggregation failure", res.Status)
	}
	if res.Inserted != 1 {
		t.Errorf("Inserted = %d", res.Inserted)
	}
	if res.Aggregate.Status != model.AggregateError || res.Aggregate.Err == "" {
		t.Errorf("Aggregate = %+v", res.Aggregate)
	}
	if len(st.launches) != 1 {
		t.Errorf("launches persisted = %d", len(st.launches))
	}
}

func TestRun_InsertFailureReportsError(t *testing.T) {
	src := &fakeSource{
		all: []model.RawLaunch{
			rawLaunch("a", "2022-01-01T00:00:00Z", boolPtr(true), "pad-1"),
		},
	}
	st := newMemStore()
	st.insertLaunchesErr = errors.New("connection refused")
	p := newTestPipeline(src, st)

	res := p.Run(context.Background())

	if res.Status != model.RunError {
		t.Fatalf("Status = %v, want error", res.Status)
	}
	if res.Err == "" {
		t.Error("Err must carry the failure message")
	}
	if res.DurationSeconds < 0 {
		t.Errorf("DurationSeconds = %f", res.DurationSeconds)
	}
}

// explodingSource panics on every lookup, standing in for a buggy
// Source implementation.
type explodingSource struct {
	fakeSource
}

func (s *explodingSource) Latest(ctx context.Context) (*model.RawLaunch, error) {
	panic("source bug")
}

func TestRun_PanicReturnsErrorResult(t *testing.T) {
	t0 := time.Date(2022, 7, 15, 0, 0, 0, 0, time.UTC)
	st := newMemStore()
	st.launches["a"] = &model.Launch{ID: "a", LaunchedAt: t0, Outcome: model.OutcomeSuccess}
	p := newTestPipeline(&fakeSource{}, st)
	p.source = &explodingSource{}

	res := p.Run(context.Background())

	if res == nil {
		t.Fatal("Run returned nil instead of a result")
	}
	if res.Status != model.RunError {
		t.Fatalf("Status = %v, want error", res.Status)
	}
	if !strings.Contains(res.Err, "panic") || !strings.Contains(res.Err, "source bug") {
		t.Errorf("Err = %q", res.Err)
	}
	if res.DurationSeconds < 0 {
		t.Errorf("DurationSeconds = %f", res.DurationSeconds)
	}
}

// explodingStore panics inside the store, past change detection.
type explodingStore struct {
	*memStore
}

func (s *explodingStore) InsertLaunches(ctx context.Context, launches []*model.Launch) (int, error) {
	panic("store bug")
}

func TestRun_StorePanicReturnsErrorResult(t *testing.T) {
	src := &fakeSource{
		all: []model.RawLaunch{
			rawLaunch("a", "2022-01-01T00:00:00Z", boolPtr(true), "pad-1"),
		},
	}
	agg := aggregate.NewService(newMemStore(), nil)
	p := New(src, &explodingStore{memStore: newMemStore()}, agg, nil)

	res := p.Run(context.Background())

	if res == nil {
		t.Fatal("Run returned nil instead of a result")
	}
	if res.Status != model.RunError || !strings.Contains(res.Err, "panic") {
		t.Errorf("result = %+v", res)
	}
}

func TestRun_MarkNeverRegresses(t *testing.T) {
	t0 := time.Date(2022, 8, 1, 0, 0, 0, 0, time.UTC)
	st := newMemStore()
	st.launches["future"] = &model.Launch{ID: "future", LaunchedAt: t0, Outcome: model.OutcomeSuccess}
	st.marks = []time.Time{t0}

	// Upstream reports a change but only serves older records.
	src := &fakeSource{
		latest: &model.RawLaunch{ID: "other", DateUTC: "2022-08-01T00:00:00Z"},
		since: []model.RawLaunch{
			rawLaunch("other", "2022-08-01T00:00:00Z", boolPtr(true), "pad-1"),
		},
	}
	p := newTestPipeline(src, st)

	res := p.Run(context.Background())
	if res.Status != model.RunSuccess {
		t.Fatalf("Status = %v (%s)", res.Status, res.Err)
	}

	mark, _ := st.HighWaterMark(context.Background())
	if !mark.Equal(t0) {
		t.Errorf("mark = %v, want unchanged %v", mark, t0)
	}
	if len(st.marks) != 1 {
		t.Errorf("mark history = %d entries, want 1", len(st.marks))
	}
}

func TestRun_PayloadMassEnrichment(t *testing.T) {
	src := &fakeSource{
		all: []model.RawLaunch{
			{
				ID: "a", DateUTC: "2022-01-01T00:00:00Z", Success: boolPtr(true),
				Payloads: []string{"pl-1", "pl-2", "pl-3"}, Launchpad: "pad-1",
			},
			{
				ID: "b", DateUTC: "2022-02-01T00:00:00Z", Success: boolPtr(true),
				Payloads: []string{"pl-missing"}, Launchpad: "pad-1",
			},
		},
		masses: map[string]float64{"pl-1": 1000, "pl-2": 1500, "pl-3": -5},
	}
	st := newMemStore()
	p := newTestPipeline(src, st)

	res := p.Run(context.Background())
	if res.Status != model.RunSuccess {
		t.Fatalf("Status = %v (%s)", res.Status, res.Err)
	}
	if res.PayloadLookups != 4 {
		t.Errorf("PayloadLookups = %d, want 4", res.PayloadLookups)
	}

	a := st.launches["a"]
	if a.TotalPayloadMassKg == nil || *a.TotalPayloadMassKg != 2500 {
		t.Errorf("launch a mass = %v, want 2500", a.TotalPayloadMassKg)
	}
	// All lookups missing or non-positive: mass stays unset.
	b := st.launches["b"]
	if b.TotalPayloadMassKg != nil {
		t.Errorf("launch b mass = %v, want nil", *b.TotalPayloadMassKg)
	}
}

func TestRun_SinceReturnsNothing(t *testing.T) {
	t0 := time.Date(2022, 7, 15, 0, 0, 0, 0, time.UTC)
	st := newMemStore()
	st.launches["old"] = &model.Launch{ID: "old", LaunchedAt: t0, Outcome: model.OutcomeSuccess}
	st.marks = []time.Time{t0}

	src := &fakeSource{
		latest: &model.RawLaunch{ID: "newer", DateUTC: "2022-08-01T00:00:00Z"},
		since:  nil,
	}
	p := newTestPipeline(src, st)

	res := p.Run(context.Background())
	if res.Status != model.RunSuccess {
		t.Fatalf("Status = %v (%s)", res.Status, res.Err)
	}
	if res.EarlyExit {
		t.Error("empty filtered fetch is not an early exit")
	}
	if res.Aggregate.Status != model.AggregateSkipped || res.Aggregate.Reason != "no_new_launches" {
		t.Errorf("Aggregate = %+v", res.Aggregate)
	}
}

func TestRun_SnapshotHistoryOrdered(t *testing.T) {
	st := newMemStore()
	src := &fakeSource{
		all: []model.RawLaunch{
			rawLaunch("a", "2022-01-01T00:00:00Z", boolPtr(true), "pad-1"),
		},
	}
	p := newTestPipeline(src, st)
	if res := p.Run(context.Background()); res.Status != model.RunSuccess {
		t.Fatalf("initial run failed: %s", res.Err)
	}

	src.latest = &model.RawLaunch{ID: "b", DateUTC: "2022-02-01T00:00:00Z"}
	src.since = []model.RawLaunch{rawLaunch("b", "2022-02-01T00:00:00Z", boolPtr(false), "pad-2")}
	if res := p.Run(context.Background()); res.Status != model.RunSuccess {
		t.Fatalf("incremental run failed: %s", res.Err)
	}

	history, err := st.SnapshotHistory(context.Background(), 10)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(history) != 2 {
		t.Fatalf("len(history) = %d", len(history))
	}
	ids := []int64{history[0].ID, history[1].ID}
	if !sort.SliceIsSorted(ids, func(i, j int) bool { return ids[i] > ids[j] }) {
		t.Errorf("history not newest-first: %v", ids)
	}
	if history[0].TotalLaunches != 2 || history[1].TotalLaunches != 1 {
		t.Errorf("totals = %d, %d", history[0].TotalLaunches, history[1].TotalLaunches)
	}
}
