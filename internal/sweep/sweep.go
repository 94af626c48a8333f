// Package sweep turns a declarative description of parameter ranges,
// cross-parameter constraints and a sampling budget into a deduplicated,
// constraint-satisfying set of combinations, dispatches each to a backtest
// evaluator exactly once, and produces a stable, resumable result set.
package sweep

import (
	"context"
	"time"

	"github.com/rxtech-lab/argo-sweep/internal/logger"
	"go.uber.org/zap"
)

// Sweep is one complete run: declaration, generation, filtering, sampling,
// evaluation and persistence. Declarations happen up front and fail fast
// with configuration errors before any compute is spent.
type Sweep struct {
	strategy    string
	space       *Space
	constraints *ConstraintSet
	scheduler   *Scheduler
	store       ResultStore
	sampleCount int
	seed        int64
	log         *logger.Logger
}

// NewSweep creates a sweep for the named strategy. The store may be nil,
// in which case every run recomputes.
func NewSweep(strategy string, evaluator Evaluator, store ResultStore, log *logger.Logger) *Sweep {
	space := NewSpace()

	return &Sweep{
		strategy:    strategy,
		space:       space,
		constraints: NewConstraintSet(space),
		scheduler:   NewScheduler(evaluator, log),
		store:       store,
		sampleCount: 0,
		seed:        0,
		log:         log,
	}
}

// Declare registers a parameter distribution.
func (s *Sweep) Declare(label string, binding any, values []Value) error {
	return s.space.Declare(label, binding, values)
}

// DeclareConstraint registers a relational constraint between two declared
// distributions.
func (s *Sweep) DeclareConstraint(label, left, right string, op Operator) error {
	return s.constraints.Declare(label, left, right, op)
}

// SetSample requests sampling of the filtered combination set.
func (s *Sweep) SetSample(count int, seed int64) {
	s.sampleCount = count
	s.seed = seed
}

// SetWorkers sets the scheduler worker-pool size (0 or 1 = sequential).
func (s *Sweep) SetWorkers(n int) {
	s.scheduler.SetWorkers(n)
}

// SetTimeout sets the per-evaluation ceiling.
func (s *Sweep) SetTimeout(d time.Duration) {
	s.scheduler.SetTimeout(d)
}

// SetProgressCallback registers a progress callback on the scheduler.
func (s *Sweep) SetProgressCallback(cb OnProgressCallback) {
	s.scheduler.SetProgressCallback(cb)
}

// Space exposes the distribution table, e.g. for ValuesOf lookups.
func (s *Sweep) Space() *Space {
	return s.space
}

// Identity returns the deterministic key of the current configuration.
func (s *Sweep) Identity() Identity {
	return ComputeIdentity(s.strategy, s.space, s.constraints, s.sampleCount, s.seed)
}

// Run executes the sweep. The store is consulted first: on a hit the
// scheduler is skipped entirely and the evaluator is never invoked.
// Cancelled runs return an incomplete result set and are not persisted, so
// a later run recomputes them.
func (s *Sweep) Run(ctx context.Context) (*ResultSet, error) {
	identity := s.Identity()

	if s.store != nil {
		cached, err := s.store.Load(identity)
		if err != nil {
			return nil, err
		}

		if cached.IsSome() {
			s.log.Info("returning cached sweep results",
				zap.String("strategy", s.strategy),
				zap.String("identity", string(identity)),
			)

			return cached.Unwrap(), nil
		}
	}

	generator := NewGenerator(s.space, s.constraints, s.log)
	generator.SetSample(s.sampleCount, s.seed)

	combinations := generator.Generate()

	set := s.scheduler.Run(ctx, identity, combinations)

	if s.store != nil && set.Status != StatusIncomplete {
		if err := s.store.Save(identity, set); err != nil {
			// Stored state is still intact; surface the failure without
			// discarding the computed results.
			return set, err
		}
	}

	return set, nil
}
