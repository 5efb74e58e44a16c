package feed

import (
	"errors"
	"sync"

	"apod-gallery/pkg/models"
)

// ErrSuperseded is returned when a load finishes after a newer one was started
var ErrSuperseded = errors.New("feed load superseded by a newer load")

// Store holds the most recently loaded feed and its index.
// The index is replaced wholesale on every load.
type Store struct {
	mu         sync.RWMutex
	index      *Index
	started    uint64
	generation uint64
}

// NewStore creates an empty store
func NewStore() *Store {
	return &Store{index: NewIndex(nil)}
}

// Load replaces the dataset unconditionally
func (s *Store) Load(entries []models.Entry) {
	index := NewIndex(entries)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.started++
	s.generation = s.started
	s.index = index
}

// Begin reserves a generation for a load that is about to start fetching
func (s *Store) Begin() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.started++
	return s.started
}

// Commit applies the entries fetched for gen. If a newer load has begun in the
// meantime the entries are dropped and ErrSuperseded is returned.
func (s *Store) Commit(gen uint64, entries []models.Entry) error {
	index := NewIndex(entries)

	s.mu.Lock()
	defer s.mu.Unlock()
	if gen != s.started {
		return ErrSuperseded
	}
	s.generation = gen
	s.index = index
	return nil
}

// Index returns the current index snapshot and its generation
func (s *Store) Index() (*Index, uint64) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.index, s.generation
}

// AllDates returns the dates of the current index in ascending order
func (s *Store) AllDates() []string {
	index, _ := s.Index()
	return append([]string(nil), index.Dates()...)
}

// Generation returns the generation of the current index, 0 before any load
func (s *Store) Generation() uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.generation
}
