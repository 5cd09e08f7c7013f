package trie

import "unsafe"

type node[V any] struct {
	label    byte
	terminal bool
	value    V
	children []*node[V] // sorted by label
}

func nodeSize[V any]() uintptr {
	var n node[V]
	return unsafe.Sizeof(n)
}

// childIndex is a closure-free sort.Search over the child labels. It returns
// the index of the first child whose label is not below b.
func childIndex[V any](nodes []*node[V], b byte) int {
	i, j := 0, len(nodes)
	for i < j {
		h := int(uint(i+j) >> 1)
		if nodes[h].label < b {
			i = h + 1
		} else {
			j = h
		}
	}
	return i
}

func (n *node[V]) child(b byte) *node[V] {
	i := childIndex(n.children, b)
	if i < len(n.children) && n.children[i].label == b {
		return n.children[i]
	}
	return nil
}

// addChild links c in label order. The caller guarantees no child with the
// same label exists.
func (n *node[V]) addChild(c *node[V]) {
	i := childIndex(n.children, c.label)
	if i == len(n.children) {
		n.children = append(n.children, c)
		return
	}
	n.children = append(n.children[:i+1], n.children[i:]...)
	n.children[i] = c
}

func (n *node[V]) removeChild(b byte) {
	i := childIndex(n.children, b)
	copy(n.children[i:], n.children[i+1:])
	n.children[len(n.children)-1] = nil
	n.children = n.children[:len(n.children)-1]
	if len(n.children) == 0 {
		n.children = nil
	}
}

// dead reports whether the node holds nothing and can be pruned.
func (n *node[V]) dead() bool {
	return !n.terminal && len(n.children) == 0
}
