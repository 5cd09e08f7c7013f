package btree

import "slices"

// items is a slice that keeps unused tail slots zeroed so removed keys,
// values and children can be collected.
type items[T any] []T

// insertAt inserts a value into the given index, pushing all subsequent values
// forward.
func (s *items[T]) insertAt(index int, item T) {
	var zero T
	*s = append(*s, zero)
	if index < len(*s) {
		copy((*s)[index+1:], (*s)[index:])
	}
	(*s)[index] = item
}

// removeAt removes a value at a given index, pulling all subsequent values
// back.
func (s *items[T]) removeAt(index int) T {
	item := (*s)[index]
	copy((*s)[index:], (*s)[index+1:])
	var zero T
	(*s)[len(*s)-1] = zero
	*s = (*s)[:len(*s)-1]
	return item
}

// pop removes and returns the last element in the list.
func (s *items[T]) pop() T {
	index := len(*s) - 1
	out := (*s)[index]
	var zero T
	(*s)[index] = zero
	*s = (*s)[:index]
	return out
}

// truncate truncates this instance at index so that it contains only the
// first index items. index must be less than or equal to length.
func (s *items[T]) truncate(index int) {
	var toClear items[T]
	*s, toClear = (*s)[:index], (*s)[index:]
	clear(toClear)
}

// node is a single B-tree node.
//
// It must at all times maintain the invariant that either
//   - len(children) == 0 (a leaf), or
//   - len(children) == len(keys) + 1
//
// and len(values) == len(keys).
type node[K, V any] struct {
	keys     items[K]
	values   items[V]
	children items[*node[K, V]]
}

func (n *node[K, V]) leaf() bool {
	return len(n.children) == 0
}

// search returns the index of key in the node, or the index of the child
// that may hold it.
func (n *node[K, V]) search(key K, cmp func(K, K) int) (int, bool) {
	return slices.BinarySearchFunc(n.keys, key, cmp)
}
