// Package skiplist implements an ordered map as a probabilistic skip list: a
// tower of sorted linked lists where each level skips over a geometric
// fraction of the level below it.
//
// A List is not safe for concurrent use.
package skiplist

import (
	"iter"
	"math/rand/v2"

	"github.com/pkg/errors"

	"github.com/metailurini/ordered"
	"github.com/metailurini/ordered/internal/xrand"
)

// List is a generic ordered map implemented with a skip list.
type List[K, V any] struct {
	cmp    ordered.CompareFunc[K]
	head   *node[K, V]
	tail   *node[K, V]
	level  int
	length int
	rng    rand.Source
	alloc  ordered.Allocator

	maxLevel int

	// update is the per-level predecessor scratch space shared by Put and
	// Delete.
	update []*node[K, V]

	counters ordered.Counters
}

var _ ordered.Map[int, int] = (*List[int, int])(nil)

// New returns an empty List ordered by cmp. It panics if the configured
// maximum level lies outside [1, MaxLevel].
func New[K, V any](cmp ordered.CompareFunc[K], opts ...Option) *List[K, V] {
	cfg := NewConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.maxLevel < 1 || cfg.maxLevel > MaxLevel {
		panic(errors.Errorf("skiplist: max level %d outside [1, %d]", cfg.maxLevel, MaxLevel))
	}
	if cfg.rng == nil {
		cfg.rng = xrand.New()
	}
	if cfg.alloc == nil {
		cfg.alloc = ordered.Heap()
	}
	return &List[K, V]{
		cmp:      cmp,
		head:     &node[K, V]{forwards: make([]*node[K, V], cfg.maxLevel)},
		level:    1,
		rng:      cfg.rng,
		alloc:    cfg.alloc,
		maxLevel: cfg.maxLevel,
		update:   make([]*node[K, V], cfg.maxLevel),
	}
}

// descend walks from the header down to level 0, stopping on every level at
// the last node whose key is less than key. When update is non-nil the
// per-level predecessors are recorded in it. The returned node is the level 0
// predecessor; its successor is the only candidate match.
func (l *List[K, V]) descend(key K, update []*node[K, V]) *node[K, V] {
	x := l.head
	for i := l.level - 1; i >= 0; i-- {
		for next := x.forwards[i]; next != nil && l.cmp(next.key, key) < 0; next = x.forwards[i] {
			x = next
		}
		if update != nil {
			update[i] = x
		}
	}
	return x
}

func (l *List[K, V]) find(key K) *node[K, V] {
	candidate := l.descend(key, nil).next()
	if candidate != nil && l.cmp(candidate.key, key) == 0 {
		return candidate
	}
	return nil
}

// Get returns the value for a key.
// The boolean is true if the key exists, false otherwise.
func (l *List[K, V]) Get(key K) (V, bool) {
	if n := l.find(key); n != nil {
		return n.value, true
	}
	var zero V
	return zero, false
}

// Contains returns true if the key exists in the skip list.
func (l *List[K, V]) Contains(key K) bool {
	return l.find(key) != nil
}

// Put inserts or updates the value for the given key. An existing key is
// updated in place. The only error is an allocation refusal, in which case
// the list is unchanged.
func (l *List[K, V]) Put(key K, value V) error {
	update := l.update
	pred := l.descend(key, update)
	if candidate := pred.next(); candidate != nil && l.cmp(candidate.key, key) == 0 {
		candidate.value = value
		l.counters.Updates++
		return nil
	}

	level := xrand.Level(l.rng, l.maxLevel)
	if err := l.alloc.Allocate(nodeSize[K, V](level + 1)); err != nil {
		l.counters.AllocFailures++
		log.Debugf("put refused at level %d: %v", level, err)
		return errors.WithMessage(err, "skiplist: put")
	}

	if level >= l.level {
		for i := l.level; i <= level; i++ {
			update[i] = l.head
		}
		if tracing() {
			log.Tracef("raising top level %d -> %d", l.level, level+1)
		}
		l.level = level + 1
		l.counters.Rebalances++
	}

	n := newNode(key, value, level+1)
	for i := 0; i <= level; i++ {
		n.forwards[i] = update[i].forwards[i]
		update[i].forwards[i] = n
	}

	if update[0] != l.head {
		n.backward = update[0]
	}
	if succ := n.next(); succ != nil {
		succ.backward = n
	} else {
		l.tail = n
	}

	l.length++
	l.counters.Inserts++
	return nil
}

// Delete removes the value associated with the given key and returns it.
func (l *List[K, V]) Delete(key K) (V, bool) {
	update := l.update
	target := l.descend(key, update).next()
	if target == nil || l.cmp(target.key, key) != 0 {
		var zero V
		return zero, false
	}

	for i := 0; i < l.level; i++ {
		if update[i].forwards[i] != target {
			break
		}
		update[i].forwards[i] = target.forwards[i]
	}

	if succ := target.next(); succ != nil {
		succ.backward = target.backward
	} else {
		l.tail = target.backward
	}

	for l.level > 1 && l.head.forwards[l.level-1] == nil {
		l.level--
		l.counters.Rebalances++
		if tracing() {
			log.Tracef("lowering top level to %d", l.level)
		}
	}

	value := target.value
	l.alloc.Free(nodeSize[K, V](len(target.forwards)))
	*target = node[K, V]{}
	for i := range update {
		update[i] = nil
	}

	l.length--
	l.counters.Deletes++
	return value, true
}

// Len returns the number of elements currently stored in the list.
func (l *List[K, V]) Len() int {
	return l.length
}

// Level returns the number of levels currently in use.
func (l *List[K, V]) Level() int {
	return l.level
}

// Min returns the smallest key and its value.
func (l *List[K, V]) Min() (K, V, bool) {
	if first := l.head.next(); first != nil {
		return first.key, first.value, true
	}
	var k K
	var v V
	return k, v, false
}

// Max returns the largest key and its value.
func (l *List[K, V]) Max() (K, V, bool) {
	if l.tail != nil {
		return l.tail.key, l.tail.value, true
	}
	var k K
	var v V
	return k, v, false
}

// All yields every entry in ascending key order by walking level 0.
func (l *List[K, V]) All() iter.Seq2[K, V] {
	return func(yield func(K, V) bool) {
		for n := l.head.next(); n != nil; n = n.next() {
			if !yield(n.key, n.value) {
				return
			}
		}
	}
}

// Backward yields every entry in descending key order.
func (l *List[K, V]) Backward() iter.Seq2[K, V] {
	return func(yield func(K, V) bool) {
		for n := l.tail; n != nil; n = n.backward {
			if !yield(n.key, n.value) {
				return
			}
		}
	}
}

// SeekGE returns an iterator positioned at the first element whose key is
// greater than or equal to the provided key. The returned iterator is valid
// if and only if such an element exists.
func (l *List[K, V]) SeekGE(key K) *Iterator[K, V] {
	it := l.Iterator()
	it.SeekGE(key)
	return it
}

// Clear removes all entries and returns their memory to the allocator.
func (l *List[K, V]) Clear() {
	n := l.head.next()
	for n != nil {
		next := n.next()
		l.alloc.Free(nodeSize[K, V](len(n.forwards)))
		*n = node[K, V]{}
		n = next
	}
	for i := range l.head.forwards {
		l.head.forwards[i] = nil
	}
	l.tail = nil
	l.level = 1
	l.length = 0
}

// Stats returns the list's structural counters.
func (l *List[K, V]) Stats() ordered.Stats {
	return l.counters.Snapshot(l.length, l.length, l.level)
}
