// Package trie implements a prefix tree over byte string keys. Each edge is
// labeled by one byte, and a node that ends a stored key is terminal and
// holds that key's value.
//
// Children are kept sorted by label, so every walk yields keys in
// lexicographic byte order. Nodes that end up neither terminal nor on the way
// to a terminal node are pruned as soon as a delete leaves them empty.
//
// A Trie is not safe for concurrent use.
package trie

import (
	"iter"

	"github.com/pkg/errors"

	"github.com/metailurini/ordered"
	"github.com/metailurini/ordered/internal/stack"
)

// Trie maps byte string keys to values of type V.
type Trie[V any] struct {
	root   *node[V] // never pruned
	length int
	nodes  int // excludes the root
	alloc  ordered.Allocator
	counts ordered.Counters
}

// New returns an empty trie.
func New[V any](opts ...Option) *Trie[V] {
	cfg := NewConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.alloc == nil {
		cfg.alloc = ordered.Heap()
	}
	return &Trie[V]{root: &node[V]{}, alloc: cfg.alloc}
}

// Len returns the number of stored keys.
func (t *Trie[V]) Len() int { return t.length }

// NodeCount returns the number of nodes, the root included.
func (t *Trie[V]) NodeCount() int { return t.nodes + 1 }

// find returns the node at the end of key's path, or nil.
func (t *Trie[V]) find(key []byte) *node[V] {
	n := t.root
	for _, b := range key {
		if n = n.child(b); n == nil {
			return nil
		}
	}
	return n
}

// Put stores v under key, replacing any previous value. The nodes missing
// from key's path are reserved together before any is linked, so a refusal
// leaves the trie unchanged.
func (t *Trie[V]) Put(key []byte, v V) error {
	n := t.root
	depth := 0
	for ; depth < len(key); depth++ {
		next := n.child(key[depth])
		if next == nil {
			break
		}
		n = next
	}

	if missing := len(key) - depth; missing > 0 {
		if err := t.alloc.Allocate(uintptr(missing) * nodeSize[V]()); err != nil {
			t.counts.AllocFailures++
			log.Debugf("put of %d byte key refused: %v", len(key), err)
			return errors.WithMessagef(err, "trie: put (%d new nodes)", missing)
		}
		for ; depth < len(key); depth++ {
			c := &node[V]{label: key[depth]}
			n.addChild(c)
			n = c
		}
		t.nodes += missing
		if tracing() {
			log.Tracef("created %d nodes for key %q", missing, key)
		}
	}

	if n.terminal {
		t.counts.Updates++
	} else {
		n.terminal = true
		t.length++
		t.counts.Inserts++
	}
	n.value = v
	return nil
}

// Get returns the value stored under key.
func (t *Trie[V]) Get(key []byte) (V, bool) {
	if n := t.find(key); n != nil && n.terminal {
		return n.value, true
	}
	var zero V
	return zero, false
}

// Contains reports whether key is stored.
func (t *Trie[V]) Contains(key []byte) bool {
	n := t.find(key)
	return n != nil && n.terminal
}

// HasPrefix reports whether any stored key starts with prefix. Every path in
// the trie leads to a terminal node, so the path existing is enough.
func (t *Trie[V]) HasPrefix(prefix []byte) bool {
	n := t.find(prefix)
	return n != nil && (n != t.root || !n.dead())
}

// Delete removes key and returns its value. Nodes left without a value or
// children are unlinked and returned to the allocator on the way back up.
func (t *Trie[V]) Delete(key []byte) (V, bool) {
	v, ok := t.remove(t.root, key)
	if ok {
		t.length--
		t.counts.Deletes++
	}
	return v, ok
}

func (t *Trie[V]) remove(n *node[V], rest []byte) (V, bool) {
	var zero V
	if len(rest) == 0 {
		if !n.terminal {
			return zero, false
		}
		v := n.value
		n.terminal = false
		n.value = zero
		return v, true
	}

	c := n.child(rest[0])
	if c == nil {
		return zero, false
	}
	v, ok := t.remove(c, rest[1:])
	if ok && c.dead() {
		n.removeChild(c.label)
		t.alloc.Free(nodeSize[V]())
		t.nodes--
		t.counts.Rebalances++
	}
	return v, ok
}

// KeysWithPrefix returns every stored key starting with prefix, in
// lexicographic order.
func (t *Trie[V]) KeysWithPrefix(prefix []byte) [][]byte {
	var keys [][]byte
	for k := range t.WalkPrefix(prefix) {
		keys = append(keys, k)
	}
	return keys
}

// All yields every key and value in lexicographic key order.
func (t *Trie[V]) All() iter.Seq2[[]byte, V] {
	return t.WalkPrefix(nil)
}

// WalkPrefix yields the keys starting with prefix, and their values, in
// lexicographic order. Each yielded key is a fresh slice the caller may keep.
func (t *Trie[V]) WalkPrefix(prefix []byte) iter.Seq2[[]byte, V] {
	return func(yield func([]byte, V) bool) {
		start := t.find(prefix)
		if start == nil {
			return
		}

		type frame struct {
			n     *node[V]
			depth int
		}
		path := append([]byte(nil), prefix...)
		base := len(path)

		var pending stack.Stack[frame]
		pending.Push(frame{start, base})
		for pending.Len() > 0 {
			f := pending.Pop()
			path = path[:f.depth]
			if f.n != start {
				path = append(path, f.n.label)
			}
			if f.n.terminal {
				if !yield(append([]byte(nil), path...), f.n.value) {
					return
				}
			}
			for i := len(f.n.children) - 1; i >= 0; i-- {
				pending.Push(frame{f.n.children[i], len(path)})
			}
		}
	}
}

// LongestPrefix returns the longest stored key that is a prefix of key.
func (t *Trie[V]) LongestPrefix(key []byte) ([]byte, V, bool) {
	var (
		best  *node[V]
		depth int
	)
	n := t.root
	for i := 0; ; i++ {
		if n.terminal {
			best, depth = n, i
		}
		if i == len(key) {
			break
		}
		if n = n.child(key[i]); n == nil {
			break
		}
	}
	if best == nil {
		var zero V
		return nil, zero, false
	}
	return append([]byte(nil), key[:depth]...), best.value, true
}

// Clear removes every key and returns every node below the root to the
// allocator.
func (t *Trie[V]) Clear() {
	var pending stack.Stack[*node[V]]
	for _, c := range t.root.children {
		pending.Push(c)
	}
	for pending.Len() > 0 {
		n := pending.Pop()
		for _, c := range n.children {
			pending.Push(c)
		}
		*n = node[V]{}
		t.alloc.Free(nodeSize[V]())
	}
	t.root = &node[V]{}
	t.length = 0
	t.nodes = 0
}

// Height returns the length of the longest stored key.
func (t *Trie[V]) Height() int {
	type frame struct {
		n     *node[V]
		depth int
	}
	var pending stack.Stack[frame]
	pending.Push(frame{t.root, 0})
	height := 0
	for pending.Len() > 0 {
		f := pending.Pop()
		height = max(height, f.depth)
		for _, c := range f.n.children {
			pending.Push(frame{c, f.depth + 1})
		}
	}
	return height
}

// Stats returns the trie's counters. Rebalances counts pruned nodes.
func (t *Trie[V]) Stats() ordered.Stats {
	return t.counts.Snapshot(t.length, t.NodeCount(), t.Height())
}
