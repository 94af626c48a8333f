package sweep

import (
	"sync"

	"github.com/moznion/go-optional"
)

// MemoryStore is an in-process ResultStore. It backs tests and ephemeral
// runs where recomputation across processes is acceptable.
type MemoryStore struct {
	mu   sync.RWMutex
	sets map[Identity]*ResultSet
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		sets: make(map[Identity]*ResultSet),
	}
}

// Load implements ResultStore. The returned set is rebuilt from the stored
// results so callers cannot mutate the cached copy.
func (s *MemoryStore) Load(identity Identity) (optional.Option[*ResultSet], error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	set, ok := s.sets[identity]
	if !ok {
		return optional.None[*ResultSet](), nil
	}

	results := make([]Result, len(set.Results))
	copy(results, set.Results)

	return optional.Some(NewResultSet(set.Identity, set.Status, results)), nil
}

// Save implements ResultStore. The map assignment replaces the previous
// value in one step, so readers never see a partial set.
func (s *MemoryStore) Save(identity Identity, set *ResultSet) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.sets[identity] = set

	return nil
}

// Close implements ResultStore.
func (s *MemoryStore) Close() error {
	return nil
}

// Reset drops every stored result set.
func (s *MemoryStore) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.sets = make(map[Identity]*ResultSet)
}
