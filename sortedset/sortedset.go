// Package sortedset implements an ordered sequence backed by one contiguous
// slice. Lookups binary search; inserts and removals shift the tail.
//
// A Set is not safe for concurrent use.
package sortedset

import (
	"iter"
	"slices"
	"unsafe"

	"github.com/pkg/errors"

	"github.com/metailurini/ordered"
)

// Set keeps its elements sorted by cmp. Add does not merge duplicates; use
// AddUnique for set semantics.
type Set[T any] struct {
	cmp    ordered.CompareFunc[T]
	items  []T
	alloc  ordered.Allocator
	counts ordered.Counters
}

// New returns an empty set ordered by cmp.
func New[T any](cmp ordered.CompareFunc[T], opts ...Option) *Set[T] {
	cfg := NewConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.alloc == nil {
		cfg.alloc = ordered.Heap()
	}
	s := &Set[T]{cmp: cmp, alloc: cfg.alloc}
	if cfg.capacity > 0 {
		if err := s.grow(cfg.capacity); err != nil {
			log.Debugf("initial capacity %d refused: %v", cfg.capacity, err)
		}
	}
	return s
}

func elemSize[T any]() uintptr {
	var v T
	return unsafe.Sizeof(v)
}

// grow moves the elements into a backing array of capacity n, reserving the
// new array before releasing the old one.
func (s *Set[T]) grow(n int) error {
	size := elemSize[T]()
	if err := s.alloc.Allocate(uintptr(n) * size); err != nil {
		s.counts.AllocFailures++
		return errors.WithMessagef(err, "sortedset: grow to %d elements", n)
	}
	items := make([]T, len(s.items), n)
	copy(items, s.items)
	if c := cap(s.items); c > 0 {
		s.alloc.Free(uintptr(c) * size)
	}
	s.items = items
	s.counts.Rebalances++
	return nil
}

func (s *Set[T]) lowerBound(v T) (int, bool) {
	return slices.BinarySearchFunc(s.items, v, s.cmp)
}

// Add inserts v before the first element not less than v and returns its
// index.
func (s *Set[T]) Add(v T) (int, error) {
	i, _ := s.lowerBound(v)
	if err := s.insertAt(i, v); err != nil {
		return -1, err
	}
	return i, nil
}

// AddUnique inserts v unless an equal element is present. It returns the
// index of v and whether it was inserted.
func (s *Set[T]) AddUnique(v T) (int, bool, error) {
	i, found := s.lowerBound(v)
	if found {
		return i, false, nil
	}
	if err := s.insertAt(i, v); err != nil {
		return -1, false, err
	}
	return i, true, nil
}

func (s *Set[T]) insertAt(i int, v T) error {
	if len(s.items) == cap(s.items) {
		if err := s.grow(max(4, 2*cap(s.items))); err != nil {
			log.Debugf("add refused: %v", err)
			return err
		}
	}
	s.items = slices.Insert(s.items, i, v)
	s.counts.Inserts++
	return nil
}

// Remove deletes and returns the element at index i. It panics if i is out of
// range.
func (s *Set[T]) Remove(i int) T {
	v := s.items[i]
	s.items = slices.Delete(s.items, i, i+1)
	s.counts.Deletes++
	return v
}

// RemoveValue deletes one element equal to v and reports whether there was
// one.
func (s *Set[T]) RemoveValue(v T) bool {
	i, found := s.lowerBound(v)
	if !found {
		return false
	}
	s.Remove(i)
	return true
}

// Contains reports whether an element equal to v is present.
func (s *Set[T]) Contains(v T) bool {
	_, found := s.lowerBound(v)
	return found
}

// FindIndex returns the index of the first element equal to v.
func (s *Set[T]) FindIndex(v T) (int, bool) {
	i, found := s.lowerBound(v)
	if !found {
		return -1, false
	}
	return i, true
}

// At returns the element at index i. It panics if i is out of range.
func (s *Set[T]) At(i int) T { return s.items[i] }

// Len returns the number of elements.
func (s *Set[T]) Len() int { return len(s.items) }

// Min returns the first element.
func (s *Set[T]) Min() (T, bool) {
	if len(s.items) == 0 {
		var zero T
		return zero, false
	}
	return s.items[0], true
}

// Max returns the last element.
func (s *Set[T]) Max() (T, bool) {
	if len(s.items) == 0 {
		var zero T
		return zero, false
	}
	return s.items[len(s.items)-1], true
}

// All yields each index and element in order.
func (s *Set[T]) All() iter.Seq2[int, T] {
	return slices.All(s.items)
}

// Values returns a copy of the elements.
func (s *Set[T]) Values() []T {
	return slices.Clone(s.items)
}

// Clear removes every element and releases the backing array.
func (s *Set[T]) Clear() {
	if c := cap(s.items); c > 0 {
		s.alloc.Free(uintptr(c) * elemSize[T]())
	}
	s.items = nil
}

// Stats returns the set's counters. Nodes is the backing array capacity and
// Rebalances counts reallocations.
func (s *Set[T]) Stats() ordered.Stats {
	height := 0
	if len(s.items) > 0 {
		height = 1
	}
	return s.counts.Snapshot(len(s.items), cap(s.items), height)
}

// Verify checks that no element is less than the one before it.
func (s *Set[T]) Verify() error {
	for i := 1; i < len(s.items); i++ {
		if s.cmp(s.items[i-1], s.items[i]) > 0 {
			return errors.Errorf("elements out of order at %d: %v before %v",
				i, s.items[i-1], s.items[i])
		}
	}
	return nil
}
