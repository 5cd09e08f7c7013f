// Package synced makes the ordered containers safe for concurrent use. The
// containers themselves are single-threaded; this package serializes access
// to them with reader/writer locks.
package synced

import (
	"iter"
	"sync"

	"github.com/metailurini/ordered"
)

// Reporter is a container that exposes structural counters.
type Reporter interface {
	Stats() ordered.Stats
}

// Map guards an ordered.Map with a sync.RWMutex. Lookups share the read
// lock; Put and Delete take the write lock.
type Map[K, V any] struct {
	mu sync.RWMutex
	m  ordered.Map[K, V]
}

var _ ordered.Map[int, int] = (*Map[int, int])(nil)

// New wraps m. The caller must not use m directly afterwards.
func New[K, V any](m ordered.Map[K, V]) *Map[K, V] {
	return &Map[K, V]{m: m}
}

// Put inserts or updates key.
func (s *Map[K, V]) Put(key K, value V) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.m.Put(key, value)
}

// Get returns the value stored under key.
func (s *Map[K, V]) Get(key K) (V, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.m.Get(key)
}

// Contains reports whether key is present.
func (s *Map[K, V]) Contains(key K) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.m.Contains(key)
}

// Delete removes key and returns its value.
func (s *Map[K, V]) Delete(key K) (V, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.m.Delete(key)
}

// Len returns the number of entries.
func (s *Map[K, V]) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.m.Len()
}

// Snapshot copies every entry, in ascending key order, under the read lock.
func (s *Map[K, V]) Snapshot() []ordered.Entry[K, V] {
	s.mu.RLock()
	defer s.mu.RUnlock()
	entries := make([]ordered.Entry[K, V], 0, s.m.Len())
	for k, v := range s.m.All() {
		entries = append(entries, ordered.Entry[K, V]{Key: k, Value: v})
	}
	return entries
}

// All yields a snapshot taken when iteration starts, so the loop body may
// call back into the map.
func (s *Map[K, V]) All() iter.Seq2[K, V] {
	return func(yield func(K, V) bool) {
		for _, e := range s.Snapshot() {
			if !yield(e.Key, e.Value) {
				return
			}
		}
	}
}

// Update runs fn with exclusive access to the wrapped map, for batches that
// must not interleave with other writers.
func (s *Map[K, V]) Update(fn func(m ordered.Map[K, V]) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return fn(s.m)
}

// View runs fn with shared access to the wrapped map. fn must not modify it.
func (s *Map[K, V]) View(fn func(m ordered.Map[K, V])) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	fn(s.m)
}

// Stats returns the wrapped container's counters, or zero counters with the
// current length when it does not report any.
func (s *Map[K, V]) Stats() ordered.Stats {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if r, ok := s.m.(Reporter); ok {
		return r.Stats()
	}
	return ordered.Stats{Len: s.m.Len()}
}
