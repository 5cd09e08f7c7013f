// Package treap implements a cartesian tree: a binary search tree on keys
// that is at the same time a max-heap on a per-node priority. With random
// priorities the shape is that of a tree built from a random insertion order,
// so the expected height is logarithmic whatever order keys arrive in.
//
// Every structural change is expressed through split and merge.
//
// A Treap is not safe for concurrent use.
package treap

import (
	"iter"
	"math/rand/v2"
	"unsafe"

	"github.com/pkg/errors"

	"github.com/metailurini/ordered"
	"github.com/metailurini/ordered/internal/assert"
	"github.com/metailurini/ordered/internal/stack"
	"github.com/metailurini/ordered/internal/xrand"
)

type node[K, V any] struct {
	key      K
	value    V
	priority uint64
	left     *node[K, V]
	right    *node[K, V]
}

func nodeSize[K, V any]() uintptr {
	var n node[K, V]
	return unsafe.Sizeof(n)
}

// Treap is an ordered map from K to V.
type Treap[K, V any] struct {
	cmp    ordered.CompareFunc[K]
	root   *node[K, V]
	length int
	rng    rand.Source
	alloc  ordered.Allocator
	counts ordered.Counters
}

var _ ordered.Map[int, int] = (*Treap[int, int])(nil)

// New returns an empty treap ordered by cmp.
func New[K, V any](cmp ordered.CompareFunc[K], opts ...Option) *Treap[K, V] {
	cfg := NewConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.rng == nil {
		cfg.rng = xrand.New()
	}
	if cfg.alloc == nil {
		cfg.alloc = ordered.Heap()
	}
	return &Treap[K, V]{cmp: cmp, rng: cfg.rng, alloc: cfg.alloc}
}

// Len returns the number of keys.
func (t *Treap[K, V]) Len() int { return t.length }

func (t *Treap[K, V]) find(key K) *node[K, V] {
	for n := t.root; n != nil; {
		switch c := t.cmp(key, n.key); {
		case c < 0:
			n = n.left
		case c > 0:
			n = n.right
		default:
			return n
		}
	}
	return nil
}

// Get returns the value stored under key.
func (t *Treap[K, V]) Get(key K) (V, bool) {
	if n := t.find(key); n != nil {
		return n.value, true
	}
	var zero V
	return zero, false
}

// Contains reports whether key is present.
func (t *Treap[K, V]) Contains(key K) bool {
	return t.find(key) != nil
}

// Priority returns the priority of key's node.
func (t *Treap[K, V]) Priority(key K) (uint64, bool) {
	if n := t.find(key); n != nil {
		return n.priority, true
	}
	return 0, false
}

// Put is Insert under the ordered.Map name.
func (t *Treap[K, V]) Put(key K, value V) error {
	return t.Insert(key, value)
}

// Insert stores value under key. A new key gets a random priority; an existing
// key keeps its priority and only its value changes.
func (t *Treap[K, V]) Insert(key K, value V) error {
	if n := t.find(key); n != nil {
		n.value = value
		t.counts.Updates++
		return nil
	}
	return t.insertNew(key, value, t.rng.Uint64())
}

// InsertWithPriority stores value under key with the given priority. An
// existing key takes the new value and priority and is re-seated wherever the
// new priority puts it.
func (t *Treap[K, V]) InsertWithPriority(key K, value V, priority uint64) error {
	if n := t.find(key); n != nil {
		n.value = value
		t.counts.Updates++
		if n.priority == priority {
			return nil
		}
		var detached *node[K, V]
		t.root, detached = t.remove(t.root, key)
		assert.That(detached == n, "re-seating key found a different node")
		detached.left, detached.right = nil, nil
		detached.priority = priority
		t.root = t.insert(t.root, detached)
		return nil
	}
	return t.insertNew(key, value, priority)
}

func (t *Treap[K, V]) insertNew(key K, value V, priority uint64) error {
	if err := t.alloc.Allocate(nodeSize[K, V]()); err != nil {
		t.counts.AllocFailures++
		log.Debugf("insert refused: %v", err)
		return errors.WithMessage(err, "treap: insert")
	}
	n := &node[K, V]{key: key, value: value, priority: priority}
	t.root = t.insert(t.root, n)
	t.length++
	t.counts.Inserts++
	return nil
}

// insert hangs n, whose key is absent, into the subtree at root. Where n
// outranks the subtree root it takes that root's place and the old subtree
// is split around n's key.
func (t *Treap[K, V]) insert(root, n *node[K, V]) *node[K, V] {
	if root == nil {
		return n
	}
	if n.priority > root.priority {
		n.left, n.right = t.split(root, n.key)
		return n
	}
	if t.cmp(n.key, root.key) < 0 {
		root.left = t.insert(root.left, n)
	} else {
		root.right = t.insert(root.right, n)
	}
	return root
}

// split partitions the subtree at root into the keys below key and the keys
// above it. key must not be present.
func (t *Treap[K, V]) split(root *node[K, V], key K) (*node[K, V], *node[K, V]) {
	if root == nil {
		return nil, nil
	}
	t.counts.Splits++
	if t.cmp(root.key, key) < 0 {
		l, r := t.split(root.right, key)
		root.right = l
		return root, r
	}
	l, r := t.split(root.left, key)
	root.left = r
	return l, root
}

// merge joins two subtrees where every key of a is below every key of b. The
// root with the higher priority wins and the merge continues below it.
func (t *Treap[K, V]) merge(a, b *node[K, V]) *node[K, V] {
	if a == nil {
		return b
	}
	if b == nil {
		return a
	}
	t.counts.Merges++
	if a.priority > b.priority {
		a.right = t.merge(a.right, b)
		return a
	}
	b.left = t.merge(a, b.left)
	return b
}

// Delete removes key and returns its value.
func (t *Treap[K, V]) Delete(key K) (V, bool) {
	var removed *node[K, V]
	t.root, removed = t.remove(t.root, key)
	if removed == nil {
		var zero V
		return zero, false
	}
	v := removed.value
	*removed = node[K, V]{}
	t.alloc.Free(nodeSize[K, V]())
	t.length--
	t.counts.Deletes++
	return v, true
}

// remove unlinks key's node from the subtree at root, replacing it with the
// merge of its children. It returns the new subtree root and the unlinked
// node, or nil when key is absent.
func (t *Treap[K, V]) remove(root *node[K, V], key K) (*node[K, V], *node[K, V]) {
	if root == nil {
		return nil, nil
	}
	var removed *node[K, V]
	switch c := t.cmp(key, root.key); {
	case c < 0:
		root.left, removed = t.remove(root.left, key)
	case c > 0:
		root.right, removed = t.remove(root.right, key)
	default:
		return t.merge(root.left, root.right), root
	}
	return root, removed
}

// Min returns the smallest key and its value.
func (t *Treap[K, V]) Min() (K, V, bool) {
	n := t.root
	if n == nil {
		var (
			k K
			v V
		)
		return k, v, false
	}
	for n.left != nil {
		n = n.left
	}
	return n.key, n.value, true
}

// Max returns the largest key and its value.
func (t *Treap[K, V]) Max() (K, V, bool) {
	n := t.root
	if n == nil {
		var (
			k K
			v V
		)
		return k, v, false
	}
	for n.right != nil {
		n = n.right
	}
	return n.key, n.value, true
}

// All yields every key and value in ascending key order.
func (t *Treap[K, V]) All() iter.Seq2[K, V] {
	return func(yield func(K, V) bool) {
		var parents stack.Stack[*node[K, V]]
		for n := t.root; n != nil; n = n.left {
			parents.Push(n)
		}
		for parents.Len() > 0 {
			n := parents.Pop()
			if !yield(n.key, n.value) {
				return
			}
			for c := n.right; c != nil; c = c.left {
				parents.Push(c)
			}
		}
	}
}

// Height returns the number of nodes on the longest root-to-leaf path.
func (t *Treap[K, V]) Height() int {
	type frame struct {
		n     *node[K, V]
		depth int
	}
	var pending stack.Stack[frame]
	if t.root != nil {
		pending.Push(frame{t.root, 1})
	}
	height := 0
	for pending.Len() > 0 {
		f := pending.Pop()
		height = max(height, f.depth)
		if f.n.left != nil {
			pending.Push(frame{f.n.left, f.depth + 1})
		}
		if f.n.right != nil {
			pending.Push(frame{f.n.right, f.depth + 1})
		}
	}
	return height
}

// Clear removes every key and returns the nodes to the allocator.
func (t *Treap[K, V]) Clear() {
	var pending stack.Stack[*node[K, V]]
	if t.root != nil {
		pending.Push(t.root)
	}
	for pending.Len() > 0 {
		n := pending.Pop()
		if n.left != nil {
			pending.Push(n.left)
		}
		if n.right != nil {
			pending.Push(n.right)
		}
		*n = node[K, V]{}
		t.alloc.Free(nodeSize[K, V]())
	}
	t.root = nil
	t.length = 0
}

// Stats returns the treap's counters. Splits and Merges count the recursive
// steps of the split and merge primitives.
func (t *Treap[K, V]) Stats() ordered.Stats {
	return t.counts.Snapshot(t.length, t.length, t.Height())
}
