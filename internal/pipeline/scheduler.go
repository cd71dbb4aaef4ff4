package pipeline

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/groblegark/launchfeed/internal/model"
)

// Runner is anything that can execute one ingestion pass. Satisfied by
// *Pipeline.
type Runner interface {
	Run(ctx context.Context) *model.RunResult
}

// ResultFunc is invoked after every scheduled run with its result.
// Used to publish run events and export snapshots.
type ResultFunc func(ctx context.Context, res *model.RunResult)

// Scheduler runs the pipeline on a fixed interval. One run executes
// immediately on Start; subsequent runs follow the ticker. Runs never
// overlap.
type Scheduler struct {
	runner   Runner
	interval time.Duration
	logger   *slog.Logger
	onResult ResultFunc

	mu      sync.Mutex
	cancel  context.CancelFunc
	done    chan struct{}
	running bool
}

// NewScheduler creates a scheduler for the given runner. onResult may
// be nil.
func NewScheduler(runner Runner, interval time.Duration, logger *slog.Logger, onResult ResultFunc) *Scheduler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Scheduler{
		runner:   runner,
		interval: interval,
		logger:   logger,
		onResult: onResult,
	}
}

// Start launches the scheduling loop. It returns immediately; the loop
// stops when Stop is called or the context is cancelled.
func (s *Scheduler) Start(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.running {
		return
	}
	s.running = true

	ctx, s.cancel = context.WithCancel(ctx)
	s.done = make(chan struct{})

	go s.loop(ctx)
	s.logger.Info("scheduler started", "interval", s.interval)
}

// Stop halts the loop and waits for any in-flight run to finish.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	if !s.running {
		s.mu.Unlock()
		return
	}
	s.running = false
	cancel, done := s.cancel, s.done
	s.mu.Unlock()

	cancel()
	<-done
	s.logger.Info("scheduler stopped")
}

func (s *Scheduler) loop(ctx context.Context) {
	defer close(s.done)

	s.runOnce(ctx)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.runOnce(ctx)
		}
	}
}

func (s *Scheduler) runOnce(ctx context.Context) {
	if ctx.Err() != nil {
		return
	}
	res := s.runner.Run(ctx)
	if res == nil {
		return
	}
	s.logger.Info("scheduled run finished",
		"status", string(res.Status),
		"inserted", res.Inserted,
		"early_exit", res.EarlyExit)
	if s.onResult != nil {
		s.onResult(ctx, res)
	}
}
