package rbtree

import (
	"github.com/pkg/errors"

	"github.com/metailurini/ordered/internal/stack"
)

// Verify checks the red-black properties, parent links, in-order ordering and
// the cached size.
func (t *Tree[T]) Verify() error {
	if t.nil.color != black {
		return errors.New("sentinel is not black")
	}
	if t.root == t.nil {
		if t.size != 0 {
			return errors.Errorf("empty tree with size %d", t.size)
		}
		return nil
	}
	if t.root.color != black {
		return errors.New("root is red")
	}
	if t.root.parent != t.nil {
		return errors.New("root has a parent")
	}

	type frame struct {
		n      *node[T]
		blacks int
	}
	var pending stack.Stack[frame]
	pending.Push(frame{t.root, 0})
	count, pathBlacks := 0, -1
	for pending.Len() > 0 {
		f := pending.Pop()
		n := f.n
		count++
		blacks := f.blacks
		if n.color == black {
			blacks++
		} else if n.left.color == red || n.right.color == red {
			return errors.Errorf("red node %v has a red child", n.item)
		}
		for _, child := range []*node[T]{n.left, n.right} {
			if child == t.nil {
				if pathBlacks < 0 {
					pathBlacks = blacks
				} else if pathBlacks != blacks {
					return errors.Errorf("black heights %d and %d below %v", pathBlacks, blacks, n.item)
				}
				continue
			}
			if child.parent != n {
				return errors.Errorf("child %v of %v has a wrong parent link", child.item, n.item)
			}
			pending.Push(frame{child, blacks})
		}
		if n.left != t.nil && !t.less(n.left.item, n.item) {
			return errors.Errorf("left child %v not below %v", n.left.item, n.item)
		}
		if n.right != t.nil && !t.less(n.item, n.right.item) {
			return errors.Errorf("right child %v not above %v", n.right.item, n.item)
		}
	}
	if count != t.size {
		return errors.Errorf("size %d but tree holds %d nodes", t.size, count)
	}

	// Local child checks miss violations across subtrees; the in-order walk
	// catches them.
	first := true
	var prev T
	for v := range t.All() {
		if !first && !t.less(prev, v) {
			return errors.Errorf("in-order walk out of order: %v then %v", prev, v)
		}
		prev, first = v, false
	}
	return nil
}
