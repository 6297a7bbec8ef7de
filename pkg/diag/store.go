package diag

import (
	"sort"
	"sync"
)

// Listener receives the full merged error list after every change.
type Listener func(errs []ErrorInfo)

// Store holds the current errors of one editor, keyed by producing source, and
// notifies subscribers when the merged list changes.
type Store struct {
	mu        sync.Mutex
	bySource  map[string][]ErrorInfo
	merged    []ErrorInfo
	listeners map[int]Listener
	nextID    int
}

// NewStore returns an empty store.
func NewStore() *Store {
	return &Store{
		bySource:  make(map[string][]ErrorInfo),
		listeners: make(map[int]Listener),
	}
}

// Set replaces the errors published by source. It returns false and notifies
// nobody when the merged list is unchanged.
func (s *Store) Set(source string, errs []ErrorInfo) bool {
	s.mu.Lock()

	if len(errs) == 0 {
		delete(s.bySource, source)
	} else {
		s.bySource[source] = append([]ErrorInfo(nil), errs...)
	}

	sources := make([]string, 0, len(s.bySource))
	for name := range s.bySource {
		sources = append(sources, name)
	}
	sort.Strings(sources)

	lists := make([][]ErrorInfo, 0, len(sources))
	for _, name := range sources {
		lists = append(lists, s.bySource[name])
	}
	merged := Merge(lists...)

	if SameIDs(merged, s.merged) {
		s.mu.Unlock()
		return false
	}
	s.merged = merged
	listeners := s.snapshotListeners()
	s.mu.Unlock()

	for _, fn := range listeners {
		fn(append([]ErrorInfo(nil), merged...))
	}
	return true
}

// Clear removes all errors.
func (s *Store) Clear() {
	s.mu.Lock()
	sources := make([]string, 0, len(s.bySource))
	for name := range s.bySource {
		sources = append(sources, name)
	}
	s.mu.Unlock()

	for _, name := range sources {
		s.Set(name, nil)
	}
}

// All returns a copy of the merged error list.
func (s *Store) All() []ErrorInfo {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]ErrorInfo(nil), s.merged...)
}

// Subscribe registers fn and returns a function that removes it.
func (s *Store) Subscribe(fn Listener) func() {
	s.mu.Lock()
	id := s.nextID
	s.nextID++
	s.listeners[id] = fn
	s.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			s.mu.Lock()
			delete(s.listeners, id)
			s.mu.Unlock()
		})
	}
}

// snapshotListeners returns listeners in subscription order. Caller holds mu.
func (s *Store) snapshotListeners() []Listener {
	ids := make([]int, 0, len(s.listeners))
	for id := range s.listeners {
		ids = append(ids, id)
	}
	sort.Ints(ids)

	out := make([]Listener, 0, len(ids))
	for _, id := range ids {
		out = append(out, s.listeners[id])
	}
	return out
}
