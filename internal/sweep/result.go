package sweep

import (
	"time"

	"github.com/moznion/go-optional"
)

// Output holds the evaluator's metrics for one combination. The sweep core
// never interprets the keys; it only carries them alongside the originating
// combination.
type Output map[string]float64

// SweepStatus describes how a sweep run ended.
type SweepStatus string

const (
	// StatusComplete means every surviving combination produced a result.
	StatusComplete SweepStatus = "complete"
	// StatusIncomplete means the sweep was cancelled; only the results of
	// combinations dispatched before cancellation are present.
	StatusIncomplete SweepStatus = "incomplete"
	// StatusEmpty means no combination survived generation, so there was
	// nothing to evaluate.
	StatusEmpty SweepStatus = "empty"
)

// Result is the outcome of evaluating one combination. A failed evaluation
// carries the error detail and no metrics; it never aborts the sweep.
type Result struct {
	Combination Combination             `json:"combination"`
	Metrics     optional.Option[Output] `json:"metrics"`
	Duration    time.Duration           `json:"duration"`
	Error       string                  `json:"error,omitempty"`
}

// Failed reports whether the evaluation of this combination failed.
func (r Result) Failed() bool {
	return r.Error != ""
}

// ResultSet is the ordered collection of per-combination results for one
// sweep, with relational lookup by combination.
type ResultSet struct {
	Identity Identity
	Status   SweepStatus
	Results  []Result

	index map[string]int
}

// NewResultSet builds a result set and its lookup index. Results keep
// generation order.
func NewResultSet(identity Identity, status SweepStatus, results []Result) *ResultSet {
	index := make(map[string]int, len(results))
	for i, r := range results {
		index[r.Combination.Key()] = i
	}

	return &ResultSet{
		Identity: identity,
		Status:   status,
		Results:  results,
		index:    index,
	}
}

// Lookup returns the result for a combination, if present.
func (rs *ResultSet) Lookup(combination Combination) (Result, bool) {
	i, ok := rs.index[combination.Key()]
	if !ok {
		return Result{}, false
	}

	return rs.Results[i], true
}

// Len returns the number of results.
func (rs *ResultSet) Len() int {
	return len(rs.Results)
}

// FailureCount returns how many combinations failed evaluation.
func (rs *ResultSet) FailureCount() int {
	count := 0

	for _, r := range rs.Results {
		if r.Failed() {
			count++
		}
	}

	return count
}
