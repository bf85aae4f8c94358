package jobs

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"
)

// JobFunc executes one batch run against the provided reference time.
type JobFunc func(ctx context.Context, now time.Time) error

// Runner holds named batch jobs and executes them strictly sequentially.
// Candidates inside a job are already processed one at a time; the runner
// additionally guarantees that two jobs never overlap within one process.
// Running at most one scheduler instance across processes is an operational
// requirement: guard-field writes are last-write-wins.
type Runner struct {
	mu     sync.Mutex
	order  []string
	jobs   map[string]JobFunc
	logger *zap.Logger
}

// NewRunner builds an empty job registry.
func NewRunner(logger *zap.Logger) *Runner {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Runner{jobs: make(map[string]JobFunc), logger: logger}
}

// Register adds a named job. Registration order is execution order.
func (r *Runner) Register(name string, fn JobFunc) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.jobs[name]; !exists {
		r.order = append(r.order, name)
	}
	r.jobs[name] = fn
}

// Run executes a single registered job.
func (r *Runner) Run(ctx context.Context, name string, now time.Time) error {
	r.mu.Lock()
	fn, ok := r.jobs[name]
	r.mu.Unlock()
	if !ok {
		return fmt.Errorf("job %s not registered", name)
	}

	start := time.Now()
	err := fn(ctx, now)
	if err != nil {
		r.logger.Error("job run failed", zap.String("job", name), zap.Duration("took", time.Since(start)), zap.Error(err))
		return err
	}
	r.logger.Info("job run finished", zap.String("job", name), zap.Duration("took", time.Since(start)))
	return nil
}

// RunAll executes every registered job in registration order. A job failure is
// logged and does not stop the remaining jobs; the first error is returned.
func (r *Runner) RunAll(ctx context.Context, now time.Time) error {
	r.mu.Lock()
	names := make([]string, len(r.order))
	copy(names, r.order)
	r.mu.Unlock()

	var firstErr error
	for _, name := range names {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}
		if err := r.Run(ctx, name, now); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

// Scheduler fires all registered jobs on a fixed interval. Intended for
// single-node deployments without an external scheduler.
type Scheduler struct {
	runner   *Runner
	interval time.Duration
	logger   *zap.Logger

	mu      sync.Mutex
	cancel  context.CancelFunc
	wg      sync.WaitGroup
	started bool
}

// NewScheduler wraps a runner with a ticker loop.
func NewScheduler(runner *Runner, interval time.Duration, logger *zap.Logger) *Scheduler {
	if interval <= 0 {
		interval = 24 * time.Hour
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Scheduler{runner: runner, interval: interval, logger: logger}
}

// Start begins the ticker loop. Safe to call once.
func (s *Scheduler) Start(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.started {
		return
	}
	ctx, s.cancel = context.WithCancel(ctx)
	s.started = true
	s.wg.Add(1)

	go func() {
		defer s.wg.Done()
		ticker := time.NewTicker(s.interval)
		defer ticker.Stop()
		s.logger.Info("job scheduler started", zap.Duration("interval", s.interval))
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if err := s.runner.RunAll(ctx, time.Now().UTC()); err != nil {
					s.logger.Warn("scheduled run reported failure", zap.Error(err))
				}
			}
		}
	}()
}

// Stop cancels the loop and waits for it to exit.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	if !s.started {
		s.mu.Unlock()
		return
	}
	s.cancel()
	s.mu.Unlock()
	s.wg.Wait()
	s.logger.Info("job scheduler stopped")
}
