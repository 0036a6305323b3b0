package listing

import "sync"

// Store keeps the most recent views of one screen, keyed by view id. When
// full, the oldest view is evicted; a request for an evicted view simply
// remounts.
type Store[T any] struct {
	mu    sync.Mutex
	size  int
	views map[string]*View[T]
	order []string
}

// NewStore creates a store holding at most size views.
func NewStore[T any](size int) *Store[T] {
	if size <= 0 {
		size = 1
	}
	return &Store[T]{size: size, views: make(map[string]*View[T])}
}

// Put adds a view, evicting the oldest if the store is full.
func (s *Store[T]) Put(v *View[T]) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.views[v.ID]; ok {
		s.views[v.ID] = v
		return
	}
	for len(s.order) >= s.size {
		oldest := s.order[0]
		s.order = s.order[1:]
		delete(s.views, oldest)
	}
	s.views[v.ID] = v
	s.order = append(s.order, v.ID)
}

// Get returns the view with the given id.
func (s *Store[T]) Get(id string) (*View[T], bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.views[id]
	return v, ok
}

// Len returns the number of views held.
func (s *Store[T]) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.views)
}
