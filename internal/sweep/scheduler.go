package sweep

import (
	"context"
	"sync"
	"time"

	"github.com/moznion/go-optional"
	"github.com/rxtech-lab/argo-sweep/internal/logger"
	"github.com/rxtech-lab/argo-sweep/pkg/errors"
	"go.uber.org/zap"
)

// Evaluator scores one combination against the backtest engine. The
// scheduler assumes the evaluator is pure with respect to the combination.
// Implementations that share mutable state across invocations must report
// Reentrant() == false; the scheduler then falls back to sequential
// dispatch regardless of the configured worker count.
type Evaluator interface {
	// Evaluate runs a backtest for the given combination and returns its
	// metrics. The context carries cancellation and the per-evaluation
	// deadline.
	Evaluate(ctx context.Context, combination Combination) (Output, error)
	// Reentrant reports whether Evaluate is safe to invoke concurrently.
	Reentrant() bool
}

// OnProgressCallback is invoked after each completed evaluation.
type OnProgressCallback func(completed int, total int)

// Scheduler dispatches surviving combinations to the evaluator exactly once
// each and collects the results keyed by combination, so the final output
// order is generation order under both execution modes.
type Scheduler struct {
	evaluator  Evaluator
	workers    int
	timeout    time.Duration
	onProgress optional.Option[OnProgressCallback]
	log        *logger.Logger
}

// NewScheduler creates a sequential scheduler for the given evaluator.
func NewScheduler(evaluator Evaluator, log *logger.Logger) *Scheduler {
	return &Scheduler{
		evaluator:  evaluator,
		workers:    1,
		timeout:    0,
		onProgress: optional.None[OnProgressCallback](),
		log:        log,
	}
}

// SetWorkers sets the worker-pool size. Values of zero or one select
// sequential dispatch. Mode selection is configuration; the core is correct
// under both.
func (s *Scheduler) SetWorkers(n int) {
	s.workers = n
}

// SetTimeout sets an optional per-evaluation ceiling. On timeout the
// combination is recorded as a failed result; the sweep continues.
func (s *Scheduler) SetTimeout(d time.Duration) {
	s.timeout = d
}

// SetProgressCallback registers a callback invoked after every completed
// evaluation. The callback may be invoked from worker goroutines.
func (s *Scheduler) SetProgressCallback(cb OnProgressCallback) {
	s.onProgress = optional.Some(cb)
}

type job struct {
	index       int
	combination Combination
}

type slot struct {
	result Result
	done   bool
}

// Run evaluates every combination and returns the collected results.
// A cancelled context lets in-flight evaluations finish, dispatches nothing
// new, and marks the returned set incomplete. An empty combination list is
// reported as StatusEmpty, distinct from any evaluation failure.
func (s *Scheduler) Run(ctx context.Context, identity Identity, combinations []Combination) *ResultSet {
	total := len(combinations)
	if total == 0 {
		s.log.Info("nothing to evaluate", zap.String("identity", string(identity)))

		return NewResultSet(identity, StatusEmpty, nil)
	}

	workers := s.workers
	if !s.evaluator.Reentrant() && workers > 1 {
		s.log.Warn("evaluator is not reentrant, falling back to sequential dispatch",
			zap.Int("requested_workers", workers),
		)

		workers = 1
	}

	s.log.Info("dispatching combinations",
		zap.String("identity", string(identity)),
		zap.Int("combinations", total),
		zap.Int("workers", workers),
	)

	slots := make([]slot, total)

	if workers <= 1 {
		s.runSequential(ctx, combinations, slots)
	} else {
		s.runParallel(ctx, combinations, slots, workers)
	}

	status := StatusComplete
	if ctx.Err() != nil {
		status = StatusIncomplete
	}

	results := make([]Result, 0, total)

	for _, sl := range slots {
		if sl.done {
			results = append(results, sl.result)
		}
	}

	set := NewResultSet(identity, status, results)

	s.log.Info("sweep dispatch finished",
		zap.String("identity", string(identity)),
		zap.String("status", string(status)),
		zap.Int("results", set.Len()),
		zap.Int("failures", set.FailureCount()),
	)

	return set
}

func (s *Scheduler) runSequential(ctx context.Context, combinations []Combination, slots []slot) {
	completed := 0

	for i, c := range combinations {
		// Cancellation is cooperative: checked between dispatches, never
		// preemptive mid-evaluation.
		if ctx.Err() != nil {
			return
		}

		slots[i] = slot{result: s.evaluateOne(ctx, c), done: true}
		completed++
		s.reportProgress(completed, len(combinations))
	}
}

func (s *Scheduler) runParallel(ctx context.Context, combinations []Combination, slots []slot, workers int) {
	jobs := make(chan job)

	go func() {
		defer close(jobs)

		for i, c := range combinations {
			select {
			case <-ctx.Done():
				return
			case jobs <- job{index: i, combination: c}:
			}
		}
	}()

	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		completed int
	)

	for w := 0; w < workers; w++ {
		wg.Add(1)

		go func() {
			defer wg.Done()

			// The queue is drained exactly once; each worker writes only
			// its own slot index, so the result collection needs no lock.
			for j := range jobs {
				slots[j.index] = slot{result: s.evaluateOne(ctx, j.combination), done: true}

				mu.Lock()
				completed++
				done := completed
				mu.Unlock()

				s.reportProgress(done, len(combinations))
			}
		}()
	}

	wg.Wait()
}

func (s *Scheduler) evaluateOne(ctx context.Context, c Combination) Result {
	evalCtx := ctx

	if s.timeout > 0 {
		var cancel context.CancelFunc

		evalCtx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	start := time.Now()
	metrics, err := s.safeEvaluate(evalCtx, c)
	elapsed := time.Since(start)

	if err != nil {
		s.log.Warn("evaluation failed",
			zap.String("combination", c.Key()),
			zap.Duration("duration", elapsed),
			zap.Error(err),
		)

		return Result{
			Combination: c,
			Metrics:     optional.None[Output](),
			Duration:    elapsed,
			Error:       err.Error(),
		}
	}

	return Result{
		Combination: c,
		Metrics:     optional.Some(metrics),
		Duration:    elapsed,
		Error:       "",
	}
}

// safeEvaluate converts an evaluator panic into a per-combination failure
// so a single bad combination cannot take down the whole sweep.
func (s *Scheduler) safeEvaluate(ctx context.Context, c Combination) (metrics Output, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = errors.Newf(errors.ErrCodeEvaluationPanic, "evaluator panic: %v", r)
		}
	}()

	return s.evaluator.Evaluate(ctx, c)
}

func (s *Scheduler) reportProgress(completed, total int) {
	if s.onProgress.IsSome() {
		s.onProgress.Unwrap()(completed, total)
	}
}
