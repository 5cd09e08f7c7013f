package btree

import "github.com/pkg/errors"

// Verify checks the B-tree invariants: key counts within bounds for every
// non-root node, strictly ordered keys within and across nodes, consistent
// child counts, and all leaves at the same depth. It also cross-checks the
// cached length, node count and height.
func (m *Map[K, V]) Verify() error {
	if m.root == nil {
		if m.length != 0 || m.nodes != 0 || m.height != 0 {
			return errors.Errorf("empty tree with length %d, nodes %d, height %d", m.length, m.nodes, m.height)
		}
		return nil
	}
	if len(m.root.keys) == 0 {
		return errors.New("root holds no keys")
	}

	v := verifier[K, V]{m: m, leafDepth: -1}
	if err := v.walk(m.root, 1, nil, nil); err != nil {
		return err
	}
	if v.count != m.length {
		return errors.Errorf("length %d but tree holds %d keys", m.length, v.count)
	}
	if v.nodes != m.nodes {
		return errors.Errorf("node count %d but tree holds %d nodes", m.nodes, v.nodes)
	}
	if v.leafDepth != m.height {
		return errors.Errorf("height %d but leaves sit at depth %d", m.height, v.leafDepth)
	}
	return nil
}

type verifier[K, V any] struct {
	m         *Map[K, V]
	leafDepth int
	count     int
	nodes     int
}

func (v *verifier[K, V]) walk(n *node[K, V], depth int, lo, hi *K) error {
	m := v.m
	v.nodes++
	v.count += len(n.keys)

	if len(n.values) != len(n.keys) {
		return errors.Errorf("node at depth %d has %d keys but %d values", depth, len(n.keys), len(n.values))
	}
	if len(n.keys) > m.maxKeys() {
		return errors.Errorf("node at depth %d holds %d keys, max %d", depth, len(n.keys), m.maxKeys())
	}
	if n != m.root && len(n.keys) < m.minKeys() {
		return errors.Errorf("node at depth %d holds %d keys, min %d", depth, len(n.keys), m.minKeys())
	}
	for i, k := range n.keys {
		if i > 0 && m.cmp(n.keys[i-1], k) >= 0 {
			return errors.Errorf("keys out of order at depth %d: %v before %v", depth, n.keys[i-1], k)
		}
		if lo != nil && m.cmp(k, *lo) <= 0 {
			return errors.Errorf("key %v at depth %d not above separator %v", k, depth, *lo)
		}
		if hi != nil && m.cmp(k, *hi) >= 0 {
			return errors.Errorf("key %v at depth %d not below separator %v", k, depth, *hi)
		}
	}

	if n.leaf() {
		if v.leafDepth < 0 {
			v.leafDepth = depth
		} else if v.leafDepth != depth {
			return errors.Errorf("leaves at depths %d and %d", v.leafDepth, depth)
		}
		return nil
	}

	if len(n.children) != len(n.keys)+1 {
		return errors.Errorf("node at depth %d has %d keys and %d children", depth, len(n.keys), len(n.children))
	}
	for i, child := range n.children {
		childLo, childHi := lo, hi
		if i > 0 {
			childLo = &n.keys[i-1]
		}
		if i < len(n.keys) {
			childHi = &n.keys[i]
		}
		if err := v.walk(child, depth+1, childLo, childHi); err != nil {
			return err
		}
	}
	return nil
}
