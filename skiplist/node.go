package skiplist

import "unsafe"

// node holds a key/value pair and its per-level forward pointers. backward
// links level 0 in reverse and is nil for the first node.
type node[K, V any] struct {
	key      K
	value    V
	forwards []*node[K, V]
	backward *node[K, V]
}

func newNode[K, V any](key K, value V, height int) *node[K, V] {
	return &node[K, V]{
		key:      key,
		value:    value,
		forwards: make([]*node[K, V], height),
	}
}

// nodeSize is the number of bytes accounted for a node of the given height.
func nodeSize[K, V any](height int) uintptr {
	var n node[K, V]
	return unsafe.Sizeof(n) + uintptr(height)*unsafe.Sizeof(n.backward)
}

// next returns the node's immediate successor on the lowest level.
func (n *node[K, V]) next() *node[K, V] {
	return n.forwards[0]
}
