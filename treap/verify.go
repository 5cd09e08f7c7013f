package treap

import (
	"github.com/pkg/errors"

	"github.com/metailurini/ordered/internal/stack"
)

// Verify checks the heap order on priorities, the search order on keys across
// the whole tree, and the cached length.
func (t *Treap[K, V]) Verify() error {
	var pending stack.Stack[*node[K, V]]
	if t.root != nil {
		pending.Push(t.root)
	}
	count := 0
	for pending.Len() > 0 {
		n := pending.Pop()
		count++
		for _, c := range []*node[K, V]{n.left, n.right} {
			if c == nil {
				continue
			}
			if c.priority > n.priority {
				return errors.Errorf("child %v has priority %d above parent %v with %d",
					c.key, c.priority, n.key, n.priority)
			}
			pending.Push(c)
		}
	}
	if count != t.length {
		return errors.Errorf("length %d but treap holds %d nodes", t.length, count)
	}

	first := true
	var prev K
	for k := range t.All() {
		if !first && t.cmp(prev, k) >= 0 {
			return errors.Errorf("keys out of order: %v then %v", prev, k)
		}
		prev, first = k, false
	}
	return nil
}
