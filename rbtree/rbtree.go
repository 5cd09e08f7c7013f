// Package rbtree implements a red-black tree holding elements of a single
// type under a caller supplied less-than context.
//
// Every node is red or black, the root is black, no red node has a red child,
// and every path from a node down to an absent child crosses the same number
// of black nodes. A single black sentinel stands in for every absent child and
// for the root's parent, which keeps rotations and fix-ups free of nil checks.
//
// A Tree is not safe for concurrent use.
package rbtree

import (
	"iter"
	"unsafe"

	"github.com/pkg/errors"

	"github.com/metailurini/ordered"
	"github.com/metailurini/ordered/internal/assert"
	"github.com/metailurini/ordered/internal/stack"
)

type color uint8

const (
	red   color = 0
	black color = 1
)

type node[T any] struct {
	item   T
	color  color
	left   *node[T]
	right  *node[T]
	parent *node[T]
}

// Tree is an ordered set of T. Two elements neither of which is less than the
// other are the same element; inserting one replaces the other.
type Tree[T any] struct {
	less   ordered.LessFunc[T]
	root   *node[T]
	nil    *node[T] // sentinel (black)
	size   int
	alloc  ordered.Allocator
	counts ordered.Counters
}

// New constructs an empty tree with a black sentinel.
func New[T any](less ordered.LessFunc[T], opts ...Option) *Tree[T] {
	cfg := NewConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.alloc == nil {
		cfg.alloc = ordered.Heap()
	}
	sentinel := &node[T]{color: black}
	return &Tree[T]{
		less:  less,
		root:  sentinel,
		nil:   sentinel,
		alloc: cfg.alloc,
	}
}

func nodeSize[T any]() uintptr {
	var n node[T]
	return unsafe.Sizeof(n)
}

// Len returns the number of elements.
func (t *Tree[T]) Len() int { return t.size }

// Find returns the stored element equal to probe.
func (t *Tree[T]) Find(probe T) (T, bool) {
	if n := t.search(probe); n != t.nil {
		return n.item, true
	}
	var zero T
	return zero, false
}

// Contains reports whether an element equal to probe is stored.
func (t *Tree[T]) Contains(probe T) bool {
	return t.search(probe) != t.nil
}

// Insert adds v, or replaces the stored element equal to v. It reports whether
// an element was replaced. The only error is an allocation refusal, in which
// case the tree is unchanged.
func (t *Tree[T]) Insert(v T) (bool, error) {
	// Standard BST insert search
	y := t.nil
	x := t.root
	for x != t.nil {
		y = x
		switch {
		case t.less(v, x.item):
			x = x.left
		case t.less(x.item, v):
			x = x.right
		default:
			x.item = v
			t.counts.Updates++
			return true, nil
		}
	}

	if err := t.alloc.Allocate(nodeSize[T]()); err != nil {
		t.counts.AllocFailures++
		log.Debugf("insert refused: %v", err)
		return false, errors.WithMessage(err, "rbtree: insert")
	}

	z := &node[T]{
		item:   v,
		color:  red, // new insertions start red
		left:   t.nil,
		right:  t.nil,
		parent: y,
	}
	switch {
	case y == t.nil:
		t.root = z
	case t.less(z.item, y.item):
		y.left = z
	default:
		y.right = z
	}
	t.fixInsert(z)
	t.size++
	t.counts.Inserts++
	return false, nil
}

// Remove deletes the element equal to probe and returns it.
func (t *Tree[T]) Remove(probe T) (T, bool) {
	z := t.search(probe)
	if z == t.nil {
		var zero T
		return zero, false
	}
	removed := z.item

	// A node with two children takes over its in-order successor's element;
	// the successor, which has no left child, is unlinked instead.
	if z.left != t.nil && z.right != t.nil {
		y := t.minNode(z.right)
		z.item = y.item
		z = y
	}

	assert.That(z.left == t.nil || z.right == t.nil, "splicing out a node with two children")
	x := z.left
	if x == t.nil {
		x = z.right
	}
	t.transplant(z, x)
	if z.color == black {
		t.fixDelete(x)
	}

	*z = node[T]{}
	t.alloc.Free(nodeSize[T]())
	t.size--
	t.counts.Deletes++
	return removed, true
}

// Min returns the smallest element.
func (t *Tree[T]) Min() (T, bool) {
	if n := t.minNode(t.root); n != t.nil {
		return n.item, true
	}
	var zero T
	return zero, false
}

// Max returns the largest element.
func (t *Tree[T]) Max() (T, bool) {
	if n := t.maxNode(t.root); n != t.nil {
		return n.item, true
	}
	var zero T
	return zero, false
}

// All yields every element in ascending order.
func (t *Tree[T]) All() iter.Seq[T] {
	return func(yield func(T) bool) {
		for n := t.minNode(t.root); n != t.nil; n = t.next(n) {
			if !yield(n.item) {
				return
			}
		}
	}
}

// Descend calls fn from the largest element to the smallest.
// If fn returns false, iteration stops early.
func (t *Tree[T]) Descend(fn func(T) bool) {
	for n := t.maxNode(t.root); n != t.nil; n = t.prev(n) {
		if !fn(n.item) {
			return
		}
	}
}

// AscendFrom calls fn for every element not less than pivot, in ascending
// order, until fn returns false.
func (t *Tree[T]) AscendFrom(pivot T, fn func(T) bool) {
	n := t.root
	start := t.nil
	for n != t.nil {
		if t.less(n.item, pivot) {
			n = n.right
		} else {
			start = n
			n = n.left
		}
	}
	for n := start; n != t.nil; n = t.next(n) {
		if !fn(n.item) {
			return
		}
	}
}

// Clear removes every element and returns the nodes to the allocator.
func (t *Tree[T]) Clear() {
	var pending stack.Stack[*node[T]]
	if t.root != t.nil {
		pending.Push(t.root)
	}
	for pending.Len() > 0 {
		n := pending.Pop()
		if n.left != t.nil {
			pending.Push(n.left)
		}
		if n.right != t.nil {
			pending.Push(n.right)
		}
		*n = node[T]{}
		t.alloc.Free(nodeSize[T]())
	}
	t.root = t.nil
	t.nil.parent = nil
	t.size = 0
}

// Height returns the number of nodes on the longest root-to-leaf path.
func (t *Tree[T]) Height() int {
	type frame struct {
		n     *node[T]
		depth int
	}
	var pending stack.Stack[frame]
	height := 0
	if t.root != t.nil {
		pending.Push(frame{t.root, 1})
	}
	for pending.Len() > 0 {
		f := pending.Pop()
		height = max(height, f.depth)
		if f.n.left != t.nil {
			pending.Push(frame{f.n.left, f.depth + 1})
		}
		if f.n.right != t.nil {
			pending.Push(frame{f.n.right, f.depth + 1})
		}
	}
	return height
}

// BlackHeight returns the number of black nodes on the leftmost path from the
// root to an absent child, not counting the sentinel.
func (t *Tree[T]) BlackHeight() int {
	h := 0
	for n := t.root; n != t.nil; n = n.left {
		if n.color == black {
			h++
		}
	}
	return h
}

// Stats returns the tree's structural counters. Computing the height visits
// every node.
func (t *Tree[T]) Stats() ordered.Stats {
	return t.counts.Snapshot(t.size, t.size, t.Height())
}

/*************** Internal helpers (nodes & search) ***************/

func (t *Tree[T]) search(probe T) *node[T] {
	n := t.root
	for n != t.nil {
		switch {
		case t.less(probe, n.item):
			n = n.left
		case t.less(n.item, probe):
			n = n.right
		default:
			return n
		}
	}
	return t.nil
}

func (t *Tree[T]) minNode(n *node[T]) *node[T] {
	if n == t.nil {
		return t.nil
	}
	for n.left != t.nil {
		n = n.left
	}
	return n
}

func (t *Tree[T]) maxNode(n *node[T]) *node[T] {
	if n == t.nil {
		return t.nil
	}
	for n.right != t.nil {
		n = n.right
	}
	return n
}

// In-order successor
func (t *Tree[T]) next(n *node[T]) *node[T] {
	if n.right != t.nil {
		return t.minNode(n.right)
	}
	p := n.parent
	for p != t.nil && n == p.right {
		n = p
		p = p.parent
	}
	return p
}

// In-order predecessor
func (t *Tree[T]) prev(n *node[T]) *node[T] {
	if n.left != t.nil {
		return t.maxNode(n.left)
	}
	p := n.parent
	for p != t.nil && n == p.left {
		n = p
		p = p.parent
	}
	return p
}
