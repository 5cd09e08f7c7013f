package skiplist

import "github.com/pkg/errors"

// Verify checks the skip list invariants: level 0 holds every key once in
// strictly ascending order, each level is a subsequence of the level below,
// no node is taller than the current top level, and the backward links and
// length agree with level 0.
func (l *List[K, V]) Verify() error {
	if l.level < 1 || l.level > l.maxLevel {
		return errors.Errorf("top level %d outside [1, %d]", l.level, l.maxLevel)
	}
	for i := l.level; i < len(l.head.forwards); i++ {
		if l.head.forwards[i] != nil {
			return errors.Errorf("header links level %d above top level %d", i, l.level)
		}
	}
	if l.level > 1 && l.head.forwards[l.level-1] == nil {
		return errors.Errorf("top level %d is empty", l.level)
	}

	count := 0
	var prev *node[K, V]
	for n := l.head.next(); n != nil; n = n.next() {
		if len(n.forwards) == 0 || len(n.forwards) > l.level {
			return errors.Errorf("node %v has height %d with top level %d", n.key, len(n.forwards), l.level)
		}
		if prev != nil && l.cmp(prev.key, n.key) >= 0 {
			return errors.Errorf("level 0 out of order: %v before %v", prev.key, n.key)
		}
		if n.backward != prev {
			return errors.Errorf("node %v has a stale backward link", n.key)
		}
		prev = n
		count++
	}
	if prev != l.tail {
		return errors.New("tail does not point at the last node")
	}
	if count != l.length {
		return errors.Errorf("length %d but level 0 holds %d nodes", l.length, count)
	}

	for i := 1; i < l.level; i++ {
		below := l.head.forwards[i-1]
		for n := l.head.forwards[i]; n != nil; n = n.forwards[i] {
			if len(n.forwards) <= i {
				return errors.Errorf("node %v linked at level %d with height %d", n.key, i, len(n.forwards))
			}
			for below != nil && below != n {
				below = below.forwards[i-1]
			}
			if below == nil {
				return errors.Errorf("level %d node %v missing from level %d", i, n.key, i-1)
			}
		}
	}
	return nil
}
