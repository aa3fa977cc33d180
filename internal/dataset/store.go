// Package dataset owns the canonical event collection: loading it from a
// record source and holding the process-wide snapshot every recomputation
// reads from.
package dataset

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/couchcryptid/quake-analytics-service/internal/domain"
)

// Store holds the canonical collection. Readers get an immutable snapshot
// slice; writers replace the slice wholesale (copy-on-write for appends), so
// a snapshot handed to a recomputation is never mutated underneath it.
type Store struct {
	mu       sync.RWMutex
	events   []domain.Event
	loadedAt time.Time
}

// NewStore creates an empty store. The service is not ready until the first
// successful load.
func NewStore() *Store {
	return &Store{}
}

// Replace installs a freshly loaded canonical collection.
func (s *Store) Replace(events []domain.Event, loadedAt time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = events
	s.loadedAt = loadedAt
}

// Append adds live-ingested events without disturbing snapshots already
// handed out: the backing slice is copied, never grown in place.
func (s *Store) Append(events ...domain.Event) {
	if len(events) == 0 {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	next := make([]domain.Event, 0, len(s.events)+len(events))
	next = append(next, s.events...)
	next = append(next, events...)
	s.events = next
}

// Events returns the current canonical collection snapshot. Callers must not
// mutate it.
func (s *Store) Events() []domain.Event {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.events
}

// Len returns the current collection size.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.events)
}

// CheckReadiness returns nil once a non-empty canonical collection is
// resident, or an error describing why the service cannot serve yet.
func (s *Store) CheckReadiness(_ context.Context) error {
	if s.Len() == 0 {
		return errors.New("no canonical events loaded")
	}
	return nil
}
