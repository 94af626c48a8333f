package sweep

import (
	"github.com/moznion/go-optional"
)

// ResultStore gives a sweep at-most-once-computation semantics across
// repeated invocations. Implementations must persist atomically: a reader
// never observes a partially written result set, and a failed save leaves
// the previously stored value (or its absence) intact.
type ResultStore interface {
	// Load returns the stored result set for the identity, if any.
	Load(identity Identity) (optional.Option[*ResultSet], error)
	// Save persists the result set under the identity, replacing any
	// previous value atomically.
	Save(identity Identity, set *ResultSet) error
	// Close releases the underlying resources.
	Close() error
}
