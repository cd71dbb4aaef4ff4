// Package pipeline implements the incremental ingestion run: change
// detection, fetch, validation, payload enrichment, persistence, and
// the hand-off to aggregation.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/groblegark/launchfeed/internal/aggregate"
	"github.com/groblegark/launchfeed/internal/idgen"
	"github.com/groblegark/launchfeed/internal/model"
	"github.com/groblegark/launchfeed/internal/source"
	"github.com/groblegark/launchfeed/internal/store"
)

// DefaultPayloadWorkers bounds concurrent payload mass lookups.
const DefaultPayloadWorkers = 4

// Pipeline wires a launch source, the persistent store, and the
// aggregation service into a single runnable ingestion unit.
type Pipeline struct {
	source         source.Source
	store          store.Store
	agg            *aggregate.Service
	logger         *slog.Logger
	payloadWorkers int
}

// Option customizes a Pipeline.
type Option func(*Pipeline)

// WithPayloadWorkers sets the number of concurrent payload lookups.
func WithPayloadWorkers(n int) Option {
	return func(p *Pipeline) {
		if n > 0 {
			p.payloadWorkers = n
		}
	}
}

// New creates a pipeline.
func New(src source.Source, st store.Store, agg *aggregate.Service, logger *slog.Logger, opts ...Option) *Pipeline {
	if logger == nil {
		logger = slog.Default()
	}
	p := &Pipeline{
		source:         src,
		store:          st,
		agg:            agg,
		logger:         logger,
		payloadWorkers: DefaultPayloadWorkers,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Run executes one ingestion pass and always returns a structured
// result. Failures are reported through RunResult.Status, never as a
// raw error or a panic, so schedulers and CLIs get uniform telemetry
// either way. A panicking source or store must not take down a
// long-running watch loop.
func (p *Pipeline) Run(ctx context.Context) (res *model.RunResult) {
	start := time.Now()
	res = &model.RunResult{Status: model.RunSuccess}
	defer func() {
		if r := recover(); r != nil {
			res.Status = model.RunError
			res.Err = fmt.Sprintf("panic: %v", r)
			p.logger.Error("ingestion run panicked", "panic", r)
		}
		res.Duration = time.Since(start)
		res.DurationSeconds = res.Duration.Seconds()
	}()

	runID, err := idgen.Generate()
	if err != nil {
		return p.fail(res, err)
	}
	res.RunID = runID
	logger := p.logger.With("run_id", runID)
	logger.Info("ingestion run starting")

	dbLatest, err := p.store.LatestLaunch(ctx)
	if err != nil {
		return p.fail(res, err)
	}

	if dbLatest == nil {
		return p.runInitialLoad(ctx, res, runID, logger)
	}

	// Change detection. One cheap call decides whether the rest of the
	// run happens at all. Detection errors fail open.
	if !p.changed(ctx, res, dbLatest, logger) {
		logger.Info("no new data detected, exiting early",
			"source_calls", res.SourceCalls)
		res.EarlyExit = true
		res.Optimization = model.OptEarlyExit
		res.Aggregate = model.AggregateResult{
			Status: model.AggregateSkipped,
			Reason: "no_new_data",
			RunID:  runID,
		}
		return res
	}

	raws, err := p.fetchNew(ctx, res, logger)
	if err != nil {
		return p.fail(res, err)
	}
	res.NewFound = len(raws)

	if len(raws) == 0 {
		logger.Info("no new launches after filtering")
		res.Aggregate = model.AggregateResult{
			Status: model.AggregateSkipped,
			Reason: "no_new_launches",
			RunID:  runID,
		}
		return res
	}

	batch := p.validate(ctx, res, raws, logger)
	if err := p.persist(ctx, res, batch, logger); err != nil {
		return p.fail(res, err)
	}

	p.aggregateBatch(ctx, res, batch, runID, logger)

	logger.Info("ingestion run completed",
		"new_found", res.NewFound,
		"inserted", res.Inserted,
		"validation_errors", res.ValidationErrors,
		"source_calls", res.SourceCalls,
		"optimization", string(res.Optimization))
	return res
}

// runInitialLoad handles the empty-store case: fetch everything, skip
// change detection, and rebuild aggregates from scratch.
func (p *Pipeline) runInitialLoad(ctx context.Context, res *model.RunResult, runID string, logger *slog.Logger) *model.RunResult {
	logger.Info("empty store, running initial load")
	res.InitialLoad = true
	res.Optimization = model.OptInitialLoad

	raws, err := p.source.All(ctx)
	res.SourceCalls++
	if err != nil {
		return p.fail(res, err)
	}
	res.NewFound = len(raws)

	batch := p.validate(ctx, res, raws, logger)
	if err := p.persist(ctx, res, batch, logger); err != nil {
		return p.fail(res, err)
	}

	snap, err := p.agg.Rebuild(ctx, runID, model.SnapshotInitial)
	res.Aggregate = aggregateOutcome(snap, err, runID)
	if err != nil {
		logger.Error("aggregation failed, ingestion result stands", "error", err)
	}

	logger.Info("initial load completed",
		"new_found", res.NewFound,
		"inserted", res.Inserted,
		"validation_errors", res.ValidationErrors)
	return res
}

// changed runs change detection against the newest stored launch.
// Any failure along the way reports true so a real change is never
// missed.
func (p *Pipeline) changed(ctx context.Context, res *model.RunResult, dbLatest *model.Launch, logger *slog.Logger) bool {
	raw, err := p.source.Latest(ctx)
	res.SourceCalls++
	if err != nil {
		logger.Warn("change detection failed, proceeding with ingestion", "error", err)
		return true
	}
	if raw == nil {
		logger.Warn("change detection returned no launch, proceeding with ingestion")
		return true
	}
	upstream, err := model.ParseLaunch(*raw)
	if err != nil {
		logger.Warn("change detection launch failed validation, proceeding with ingestion", "error", err)
		return true
	}
	return NeedsIngest(upstream, dbLatest)
}

// fetchNew fetches launches past the high-water mark, preferring the
// server-side filtered paginated query and falling back to a full fetch
// with local filtering when that fails.
func (p *Pipeline) fetchNew(ctx context.Context, res *model.RunResult, logger *slog.Logger) ([]model.RawLaunch, error) {
	mark, err := p.store.HighWaterMark(ctx)
	if err != nil {
		return nil, err
	}

	raws, err := p.source.Since(ctx, mark)
	res.SourceCalls++
	if err == nil {
		res.Optimization = model.OptServerFilter
		logger.Info("server-side filtered fetch", "count", len(raws), "since", mark)
		return raws, nil
	}

	logger.Warn("filtered fetch failed, falling back to full fetch", "error", err)
	all, err := p.source.All(ctx)
	res.SourceCalls++
	if err != nil {
		return nil, err
	}
	res.Optimization = model.OptClientFilter

	var fresh []model.RawLaunch
	for _, raw := range all {
		launchedAt, err := time.Parse(time.RFC3339, raw.DateUTC)
		if err != nil {
			logger.Warn("skipping launch with unparseable date during filtering",
				"launch_id", raw.ID, "date_utc", raw.DateUTC)
			continue
		}
		if launchedAt.After(mark) {
			fresh = append(fresh, raw)
		}
	}
	logger.Info("client-side filtered fetch",
		"total", len(all), "new", len(fresh), "since", mark)
	return fresh, nil
}

// validate converts raw records into typed launches, dropping records
// that fail validation and enriching the survivors with payload mass.
func (p *Pipeline) validate(ctx context.Context, res *model.RunResult, raws []model.RawLaunch, logger *slog.Logger) []*model.Launch {
	batch := make([]*model.Launch, 0, len(raws))
	for _, raw := range raws {
		l, err := model.ParseLaunch(raw)
		if err != nil {
			res.ValidationErrors++
			logger.Warn("dropping invalid launch", "launch_id", raw.ID, "error", err)
			continue
		}
		batch = append(batch, l)
	}

	res.PayloadLookups = p.enrichPayloadMass(ctx, batch, logger)
	logger.Info("validation completed",
		"valid", len(batch), "errors", res.ValidationErrors)
	return batch
}

// enrichPayloadMass fills in TotalPayloadMassKg for each launch by
// summing the masses of its payloads, looked up concurrently through a
// bounded worker pool. A failed or missing lookup contributes zero; a
// launch whose total comes to zero keeps a nil mass.
func (p *Pipeline) enrichPayloadMass(ctx context.Context, batch []*model.Launch, logger *slog.Logger) int {
	type lookup struct {
		launch *model.Launch
		id     string
	}

	var jobs []lookup
	for _, l := range batch {
		for _, id := range l.PayloadIDs {
			jobs = append(jobs, lookup{launch: l, id: id})
		}
	}
	if len(jobs) == 0 {
		return 0
	}

	totals := make(map[*model.Launch]float64, len(batch))
	var mu sync.Mutex
	var wg sync.WaitGroup
	sem := make(chan struct{}, p.payloadWorkers)

	for _, job := range jobs {
		wg.Add(1)
		sem <- struct{}{}
		go func(job lookup) {
			defer wg.Done()
			defer func() { <-sem }()

			mass, ok, err := p.source.PayloadMass(ctx, job.id)
			if err != nil {
				logger.Warn("payload lookup failed, counting zero mass",
					"payload_id", job.id, "launch_id", job.launch.ID, "error", err)
				return
			}
			if !ok || mass <= 0 {
				return
			}
			mu.Lock()
			totals[job.launch] += mass
			mu.Unlock()
		}(job)
	}
	wg.Wait()

	for _, l := range batch {
		if total, found := totals[l]; found && total > 0 {
			v := total
			l.TotalPayloadMassKg = &v
		}
	}
	return len(jobs)
}

// persist inserts the batch idempotently and advances the high-water
// mark to the newest launch date in the batch. The mark never moves
// backwards.
func (p *Pipeline) persist(ctx context.Context, res *model.RunResult, batch []*model.Launch, logger *slog.Logger) error {
	if len(batch) == 0 {
		return nil
	}

	inserted, err := p.store.InsertLaunches(ctx, batch)
	if err != nil {
		return err
	}
	res.Inserted = inserted
	if inserted < len(batch) {
		logger.Info("some launches were already present",
			"batch", len(batch), "inserted", inserted)
	}

	newest := batch[0].LaunchedAt
	for _, l := range batch[1:] {
		if l.LaunchedAt.After(newest) {
			newest = l.LaunchedAt
		}
	}

	mark, err := p.store.HighWaterMark(ctx)
	if err != nil {
		return err
	}
	if !newest.After(mark) {
		return nil
	}
	if err := p.store.SetHighWaterMark(ctx, newest); err != nil {
		return err
	}
	logger.Info("high-water mark advanced", "mark", newest)
	return nil
}

// aggregateBatch folds the batch into the snapshot series. Aggregation
// errors are isolated: ingested data is already durable, so the run
// stays successful and the failure is reported in the aggregate
// section of the result.
func (p *Pipeline) aggregateBatch(ctx context.Context, res *model.RunResult, batch []*model.Launch, runID string, logger *slog.Logger) {
	if len(batch) == 0 {
		res.Aggregate = model.AggregateResult{
			Status: model.AggregateSkipped,
			Reason: "no_valid_launches",
			RunID:  runID,
		}
		return
	}

	snap, err := p.agg.ApplyBatch(ctx, batch, runID)
	res.Aggregate = aggregateOutcome(snap, err, runID)
	if err != nil {
		logger.Error("aggregation failed, ingestion result stands", "error", err)
	}
}

// aggregateOutcome converts an aggregation call into the result section
// shared by initial loads and incremental runs.
func aggregateOutcome(snap *model.Snapshot, err error, runID string) model.AggregateResult {
	if err != nil {
		return model.AggregateResult{
			Status: model.AggregateError,
			Err:    err.Error(),
			RunID:  runID,
		}
	}
	return model.AggregateResult{
		Status:        model.AggregateSuccess,
		TotalLaunches: snap.TotalLaunches,
		SuccessRate:   snap.SuccessRate,
		SnapshotID:    snap.ID,
		RunID:         runID,
	}
}

// fail stamps a result as failed. Context cancellation is reported
// verbatim so callers can distinguish shutdown from genuine errors.
func (p *Pipeline) fail(res *model.RunResult, err error) *model.RunResult {
	res.Status = model.RunError
	res.Err = err.Error()
	if !errors.Is(err, context.Canceled) {
		p.logger.Error("ingestion run failed", "error", err)
	}
	return res
}
