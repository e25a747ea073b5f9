// Package cache holds the client's task read model: a single normalized
// collection keyed by task id with derived filtered views. Both the "my
// tasks" and "all tasks" views are materialized from the same entries, so
// an event merge is visible to either view without reconciliation.
package cache

import (
	"sync"

	"taskboard-client/domain"
)

// View names a filtered projection of the store.
type View string

const (
	ViewMine View = "my-tasks"
	ViewAll  View = "all-tasks"
)

// Store is an insertion-ordered task collection keyed by id. It is safe
// for one writer (the feed adapter or a fetch) and many readers.
type Store struct {
	mu    sync.RWMutex
	tasks map[string]domain.Task
	order []string
}

func NewStore() *Store {
	return &Store{tasks: make(map[string]domain.Task)}
}

// Replace swaps the entire collection for a freshly fetched snapshot.
// Used on initial load and on feed resync after a reconnect.
func (s *Store) Replace(tasks []domain.Task) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tasks = make(map[string]domain.Task, len(tasks))
	s.order = s.order[:0]
	for _, t := range tasks {
		if t.ID == "" {
			continue
		}
		if _, ok := s.tasks[t.ID]; !ok {
			s.order = append(s.order, t.ID)
		}
		s.tasks[t.ID] = t
	}
}

// Upsert merges one task. A new id is appended, an existing id is replaced
// in place without moving its position. The created result distinguishes
// the two so callers can de-duplicate creation notifications.
func (s *Store) Upsert(t domain.Task) (created bool) {
	if t.ID == "" {
		return false
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.tasks[t.ID]; !ok {
		s.order = append(s.order, t.ID)
		created = true
	}
	s.tasks[t.ID] = t
	return created
}

// Remove drops a task by id.
func (s *Store) Remove(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.tasks[id]; !ok {
		return
	}
	delete(s.tasks, id)
	for i, existing := range s.order {
		if existing == id {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
}

// Get returns a task snapshot by id.
func (s *Store) Get(id string) (domain.Task, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	t, ok := s.tasks[id]
	return t, ok
}

// Len returns the number of cached tasks.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.order)
}

// All returns every task in insertion order.
func (s *Store) All() []domain.Task {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.Task, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, s.tasks[id])
	}
	return out
}

// AssignedTo returns the derived "my tasks" view for a user, in insertion
// order.
func (s *Store) AssignedTo(userID string) []domain.Task {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.Task, 0, len(s.order))
	for _, id := range s.order {
		if t := s.tasks[id]; t.AssignedTo(userID) {
			out = append(out, t)
		}
	}
	return out
}

// Tasks returns the projection named by view.
func (s *Store) Tasks(view View, userID string) []domain.Task {
	if view == ViewMine {
		return s.AssignedTo(userID)
	}
	return s.All()
}
