// Package btree implements an in-memory B-tree map of configurable branching
// factor.
//
// Every node holds up to B-1 sorted keys and, when internal, one more child
// than keys. All leaves sit at the same depth and every node except the root
// keeps at least ceil(B/2)-1 keys, so the height stays logarithmic in the
// number of entries with base B/2.
//
// A Map is not safe for concurrent use.
package btree

import (
	"iter"
	"unsafe"

	"github.com/pkg/errors"

	"github.com/metailurini/ordered"
	"github.com/metailurini/ordered/internal/assert"
	"github.com/metailurini/ordered/internal/stack"
)

// Map is an ordered map backed by a B-tree.
type Map[K, V any] struct {
	cmp    func(a, b K) int
	root   *node[K, V]
	length int
	nodes  int
	height int
	degree int
	alloc  ordered.Allocator

	nodeBytes uintptr
	counters  ordered.Counters
}

var _ ordered.Map[int, int] = (*Map[int, int])(nil)

// New returns an empty Map ordered by cmp. It panics if the configured degree
// is below 3.
func New[K, V any](cmp ordered.CompareFunc[K], opts ...Option) *Map[K, V] {
	cfg := NewConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.degree < 3 {
		panic(errors.Errorf("btree: degree %d is below 3", cfg.degree))
	}
	if cfg.alloc == nil {
		cfg.alloc = ordered.Heap()
	}

	var (
		k K
		v V
		n node[K, V]
	)
	// Nodes are sized for one overflow key and child, which exist only for
	// the duration of a split.
	size := unsafe.Sizeof(n) +
		uintptr(cfg.degree)*(unsafe.Sizeof(k)+unsafe.Sizeof(v)) +
		uintptr(cfg.degree+1)*unsafe.Sizeof(&n)

	return &Map[K, V]{
		cmp:       cmp,
		degree:    cfg.degree,
		alloc:     cfg.alloc,
		nodeBytes: size,
	}
}

func (m *Map[K, V]) maxKeys() int { return m.degree - 1 }

func (m *Map[K, V]) minKeys() int { return (m.degree+1)/2 - 1 }

func (m *Map[K, V]) newNode(leaf bool) *node[K, V] {
	n := &node[K, V]{
		keys:   make(items[K], 0, m.degree),
		values: make(items[V], 0, m.degree),
	}
	if !leaf {
		n.children = make(items[*node[K, V]], 0, m.degree+1)
	}
	m.nodes++
	return n
}

func (m *Map[K, V]) freeNode(n *node[K, V]) {
	n.keys.truncate(0)
	n.values.truncate(0)
	n.children.truncate(0)
	m.nodes--
	m.alloc.Free(m.nodeBytes)
}

// Get returns the value stored under key.
func (m *Map[K, V]) Get(key K) (V, bool) {
	for n := m.root; n != nil; {
		i, found := n.search(key, m.cmp)
		if found {
			return n.values[i], true
		}
		if n.leaf() {
			break
		}
		n = n.children[i]
	}
	var zero V
	return zero, false
}

// Contains reports whether key is present.
func (m *Map[K, V]) Contains(key K) bool {
	_, ok := m.Get(key)
	return ok
}

// Put inserts key with value, or replaces the value of an existing key in
// place. New nodes needed by the insertion are reserved from the allocator
// before the tree is touched, so a refused allocation leaves the map as it
// was.
func (m *Map[K, V]) Put(key K, value V) error {
	if m.root == nil {
		if err := m.reserve(1); err != nil {
			return err
		}
		m.root = m.newNode(true)
		m.root.keys = append(m.root.keys, key)
		m.root.values = append(m.root.values, value)
		m.height = 1
		m.length = 1
		m.counters.Inserts++
		return nil
	}

	splits, found := m.plan(key, value)
	if found {
		m.counters.Updates++
		return nil
	}
	if splits > 0 {
		if err := m.reserve(splits); err != nil {
			return err
		}
	}

	m.insert(m.root, key, value)
	if len(m.root.keys) > m.maxKeys() {
		old := m.root
		m.root = m.newNode(false)
		m.root.children = append(m.root.children, old)
		m.splitChild(m.root, 0)
		m.height++
		if tracing() {
			log.Tracef("root split, height now %d", m.height)
		}
	}
	m.length++
	m.counters.Inserts++
	return nil
}

// plan walks the insertion path for key without modifying the structure.
// When key is already present its value is overwritten and found is true.
// Otherwise it returns how many nodes inserting key will allocate: one per
// full node in the run of full nodes ending at the leaf, plus a new root when
// that run reaches the root.
func (m *Map[K, V]) plan(key K, value V) (allocs int, found bool) {
	run, depth := 0, 0
	for n := m.root; n != nil; {
		depth++
		i, ok := n.search(key, m.cmp)
		if ok {
			n.values[i] = value
			return 0, true
		}
		if len(n.keys) == m.maxKeys() {
			run++
		} else {
			run = 0
		}
		if n.leaf() {
			break
		}
		n = n.children[i]
	}
	if run == depth {
		run++
	}
	return run, false
}

func (m *Map[K, V]) reserve(nodes int) error {
	if err := m.alloc.Allocate(uintptr(nodes) * m.nodeBytes); err != nil {
		m.counters.AllocFailures++
		log.Debugf("put refused reserving %d nodes: %v", nodes, err)
		return errors.WithMessage(err, "btree: put")
	}
	return nil
}

// insert places key into the subtree rooted at n. A child left holding B keys
// is split on the way back up; n itself may be left overflowing for its
// parent (or Put, for the root) to split.
func (m *Map[K, V]) insert(n *node[K, V], key K, value V) {
	i, _ := n.search(key, m.cmp)
	if n.leaf() {
		n.keys.insertAt(i, key)
		n.values.insertAt(i, value)
		return
	}
	child := n.children[i]
	m.insert(child, key, value)
	if len(child.keys) > m.maxKeys() {
		m.splitChild(n, i)
	}
}

// splitChild splits the overflowing child i of parent. The child keeps its
// lower half, a new right sibling takes the upper half, and the median key
// moves up into parent between them.
func (m *Map[K, V]) splitChild(parent *node[K, V], i int) {
	child := parent.children[i]
	mid := len(child.keys) / 2

	right := m.newNode(child.leaf())
	right.keys = append(right.keys, child.keys[mid+1:]...)
	right.values = append(right.values, child.values[mid+1:]...)
	if !child.leaf() {
		right.children = append(right.children, child.children[mid+1:]...)
		child.children.truncate(mid + 1)
	}
	medianKey, medianValue := child.keys[mid], child.values[mid]
	child.keys.truncate(mid)
	child.values.truncate(mid)

	parent.keys.insertAt(i, medianKey)
	parent.values.insertAt(i, medianValue)
	parent.children.insertAt(i+1, right)
	m.counters.Splits++
}

// Delete removes key and returns its value.
func (m *Map[K, V]) Delete(key K) (V, bool) {
	if m.root == nil {
		var zero V
		return zero, false
	}
	value, ok := m.remove(m.root, key)
	if !ok {
		return value, false
	}

	if len(m.root.keys) == 0 {
		old := m.root
		if old.leaf() {
			m.root = nil
			m.height = 0
		} else {
			m.root = old.children[0]
			m.height--
			if tracing() {
				log.Tracef("root collapsed, height now %d", m.height)
			}
		}
		m.freeNode(old)
	}
	m.length--
	m.counters.Deletes++
	return value, true
}

// remove deletes key from the subtree rooted at n. Children that fall below
// the minimum key count are repaired before remove returns, so only n itself
// may be left short.
func (m *Map[K, V]) remove(n *node[K, V], key K) (V, bool) {
	i, found := n.search(key, m.cmp)
	if n.leaf() {
		if !found {
			var zero V
			return zero, false
		}
		n.keys.removeAt(i)
		return n.values.removeAt(i), true
	}

	if !found {
		value, ok := m.remove(n.children[i], key)
		if ok {
			m.fixChild(n, i)
		}
		return value, ok
	}

	value := n.values[i]
	left, right := n.children[i], n.children[i+1]
	switch {
	case len(left.keys) > m.minKeys():
		n.keys[i], n.values[i] = m.removeMax(left)
		m.fixChild(n, i)
	case len(right.keys) > m.minKeys():
		n.keys[i], n.values[i] = m.removeMin(right)
		m.fixChild(n, i+1)
	default:
		// Both neighbours are minimal: fold the key down into the merged
		// child and delete it there.
		m.merge(n, i)
		_, ok := m.remove(left, key)
		assert.That(ok, "btree: key lost while merging children at %d", i)
		m.fixChild(n, i)
	}
	return value, true
}

// removeMax deletes and returns the largest entry of the subtree at n.
func (m *Map[K, V]) removeMax(n *node[K, V]) (K, V) {
	if n.leaf() {
		return n.keys.pop(), n.values.pop()
	}
	last := len(n.children) - 1
	k, v := m.removeMax(n.children[last])
	m.fixChild(n, last)
	return k, v
}

// removeMin deletes and returns the smallest entry of the subtree at n.
func (m *Map[K, V]) removeMin(n *node[K, V]) (K, V) {
	if n.leaf() {
		return n.keys.removeAt(0), n.values.removeAt(0)
	}
	k, v := m.removeMin(n.children[0])
	m.fixChild(n, 0)
	return k, v
}

// fixChild restores the minimum key count of child i of parent by rotating a
// key in from a sibling with surplus, or by merging with a sibling.
func (m *Map[K, V]) fixChild(parent *node[K, V], i int) {
	if len(parent.children[i].keys) >= m.minKeys() {
		return
	}
	switch {
	case i > 0 && len(parent.children[i-1].keys) > m.minKeys():
		m.borrowFromPrev(parent, i)
	case i < len(parent.children)-1 && len(parent.children[i+1].keys) > m.minKeys():
		m.borrowFromNext(parent, i)
	case i > 0:
		m.merge(parent, i-1)
	default:
		m.merge(parent, i)
	}
}

// borrowFromPrev rotates the last key of child i-1 up into parent and the
// separating parent key down to the front of child i.
func (m *Map[K, V]) borrowFromPrev(parent *node[K, V], i int) {
	child, sibling := parent.children[i], parent.children[i-1]

	child.keys.insertAt(0, parent.keys[i-1])
	child.values.insertAt(0, parent.values[i-1])
	if !child.leaf() {
		child.children.insertAt(0, sibling.children.pop())
	}
	parent.keys[i-1] = sibling.keys.pop()
	parent.values[i-1] = sibling.values.pop()
	m.counters.Rebalances++
}

// borrowFromNext rotates the first key of child i+1 up into parent and the
// separating parent key down to the end of child i.
func (m *Map[K, V]) borrowFromNext(parent *node[K, V], i int) {
	child, sibling := parent.children[i], parent.children[i+1]

	child.keys = append(child.keys, parent.keys[i])
	child.values = append(child.values, parent.values[i])
	if !child.leaf() {
		child.children = append(child.children, sibling.children.removeAt(0))
	}
	parent.keys[i] = sibling.keys.removeAt(0)
	parent.values[i] = sibling.values.removeAt(0)
	m.counters.Rebalances++
}

// merge folds child i+1 and the separating key i of parent into child i and
// releases child i+1.
func (m *Map[K, V]) merge(parent *node[K, V], i int) {
	left, right := parent.children[i], parent.children[i+1]

	left.keys = append(left.keys, parent.keys.removeAt(i))
	left.values = append(left.values, parent.values.removeAt(i))
	left.keys = append(left.keys, right.keys...)
	left.values = append(left.values, right.values...)
	left.children = append(left.children, right.children...)
	parent.children.removeAt(i + 1)

	m.freeNode(right)
	m.counters.Merges++
}

// Len returns the number of entries.
func (m *Map[K, V]) Len() int {
	return m.length
}

// Height returns the number of node levels; zero for an empty map.
func (m *Map[K, V]) Height() int {
	return m.height
}

// Degree returns the branching factor.
func (m *Map[K, V]) Degree() int {
	return m.degree
}

// Min returns the smallest key and its value.
func (m *Map[K, V]) Min() (K, V, bool) {
	if m.root == nil {
		var k K
		var v V
		return k, v, false
	}
	n := m.root
	for !n.leaf() {
		n = n.children[0]
	}
	return n.keys[0], n.values[0], true
}

// Max returns the largest key and its value.
func (m *Map[K, V]) Max() (K, V, bool) {
	if m.root == nil {
		var k K
		var v V
		return k, v, false
	}
	n := m.root
	for !n.leaf() {
		n = n.children[len(n.children)-1]
	}
	last := len(n.keys) - 1
	return n.keys[last], n.values[last], true
}

// All yields every entry in ascending key order.
func (m *Map[K, V]) All() iter.Seq2[K, V] {
	return func(yield func(K, V) bool) {
		m.Ascend(yield)
	}
}

// Ascend calls fn for every entry in ascending key order until fn returns
// false.
func (m *Map[K, V]) Ascend(fn func(K, V) bool) {
	if m.root != nil {
		m.ascend(m.root, nil, fn)
	}
}

// AscendFrom calls fn for every entry whose key is greater than or equal to
// pivot, in ascending order, until fn returns false.
func (m *Map[K, V]) AscendFrom(pivot K, fn func(K, V) bool) {
	if m.root != nil {
		m.ascend(m.root, &pivot, fn)
	}
}

// ascend walks n in order. While from is non-nil, entries below it are
// skipped; the returned bool is false once fn asked to stop.
func (m *Map[K, V]) ascend(n *node[K, V], from *K, fn func(K, V) bool) bool {
	start := 0
	if from != nil {
		start, _ = n.search(*from, m.cmp)
	}
	for i := start; i < len(n.keys); i++ {
		if !n.leaf() {
			if !m.ascend(n.children[i], from, fn) {
				return false
			}
			from = nil
		}
		if from != nil && m.cmp(n.keys[i], *from) < 0 {
			continue
		}
		if !fn(n.keys[i], n.values[i]) {
			return false
		}
		from = nil
	}
	if !n.leaf() {
		return m.ascend(n.children[len(n.keys)], from, fn)
	}
	return true
}

// Clear removes every entry and returns all nodes to the allocator. The walk
// is iterative so tree depth never matters.
func (m *Map[K, V]) Clear() {
	if m.root == nil {
		return
	}
	var pending stack.Stack[*node[K, V]]
	pending.Push(m.root)
	for pending.Len() > 0 {
		n := pending.Pop()
		for _, child := range n.children {
			pending.Push(child)
		}
		m.freeNode(n)
	}
	m.root = nil
	m.length = 0
	m.height = 0
}

// Stats returns the map's structural counters.
func (m *Map[K, V]) Stats() ordered.Stats {
	return m.counters.Snapshot(m.length, m.nodes, m.height)
}
