package trie

import (
	"github.com/pkg/errors"

	"github.com/metailurini/ordered/internal/stack"
)

// Verify checks that children are strictly ordered by label, that no node
// below the root is dead, and that the cached key and node counts match.
func (t *Trie[V]) Verify() error {
	var pending stack.Stack[*node[V]]
	pending.Push(t.root)
	keys, nodes := 0, 0
	for pending.Len() > 0 {
		n := pending.Pop()
		if n != t.root {
			nodes++
			if n.dead() {
				return errors.Errorf("dead node with label %q was not pruned", n.label)
			}
		}
		if n.terminal {
			keys++
		}
		for i, c := range n.children {
			if i > 0 && n.children[i-1].label >= c.label {
				return errors.Errorf("children out of order: %q before %q",
					n.children[i-1].label, c.label)
			}
			pending.Push(c)
		}
	}
	if keys != t.length {
		return errors.Errorf("length %d but trie holds %d terminal nodes", t.length, keys)
	}
	if nodes != t.nodes {
		return errors.Errorf("node count %d but trie holds %d nodes", t.nodes, nodes)
	}
	return nil
}
