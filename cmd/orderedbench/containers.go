package main

import (
	"encoding/binary"
	"sort"

	"github.com/metailurini/ordered"
	"github.com/metailurini/ordered/btree"
	"github.com/metailurini/ordered/rbtree"
	"github.com/metailurini/ordered/skiplist"
	"github.com/metailurini/ordered/sortedset"
	"github.com/metailurini/ordered/treap"
	"github.com/metailurini/ordered/trie"
)

// target is the common surface the driver runs a workload against. Every
// container already has Len, Clear, Stats and Verify; the key/value
// operations differ and are adapted per container.
type target interface {
	put(key, value int) error
	get(key int) bool
	contains(key int) bool
	del(key int) bool

	Len() int
	Clear()
	Stats() ordered.Stats
	Verify() error
}

// containers maps a command line name to a constructor.
var containers = map[string]func(cfg *config, alloc ordered.Allocator) target{
	"sortedset": func(_ *config, alloc ordered.Allocator) target {
		return setTarget{sortedset.New[int](ordered.Natural[int](), sortedset.WithAllocator(alloc))}
	},
	"btree": func(cfg *config, alloc ordered.Allocator) target {
		return mapTarget[int, *btree.Map[int, int]]{
			m:   btree.New[int, int](ordered.Natural[int](), btree.WithDegree(cfg.Degree), btree.WithAllocator(alloc)),
			key: intKey,
		}
	},
	"rbtree": func(_ *config, alloc ordered.Allocator) target {
		return treeTarget{rbtree.New[entry](entryLess, rbtree.WithAllocator(alloc))}
	},
	"skiplist": func(cfg *config, alloc ordered.Allocator) target {
		return mapTarget[int, *skiplist.List[int, int]]{
			m: skiplist.New[int, int](ordered.Natural[int](),
				skiplist.WithMaxLevel(cfg.MaxLevel), skiplist.WithSeed(cfg.Seed), skiplist.WithAllocator(alloc)),
			key: intKey,
		}
	},
	"trie": func(_ *config, alloc ordered.Allocator) target {
		return mapTarget[[]byte, *trie.Trie[int]]{
			m:   trie.New[int](trie.WithAllocator(alloc)),
			key: bytesKey,
		}
	},
	"treap": func(cfg *config, alloc ordered.Allocator) target {
		return mapTarget[int, *treap.Treap[int, int]]{
			m:   treap.New[int, int](ordered.Natural[int](), treap.WithSeed(cfg.Seed), treap.WithAllocator(alloc)),
			key: intKey,
		}
	},
}

func containerNames() []string {
	names := make([]string, 0, len(containers))
	for name := range containers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// orderedMap is an ordered.Map that also reports and verifies itself.
type orderedMap[K any] interface {
	ordered.Map[K, int]
	Clear()
	Stats() ordered.Stats
	Verify() error
}

type mapTarget[K any, M orderedMap[K]] struct {
	m   M
	key func(int) K
}

func (t mapTarget[K, M]) put(key, value int) error { return t.m.Put(t.key(key), value) }
func (t mapTarget[K, M]) get(key int) bool {
	_, ok := t.m.Get(t.key(key))
	return ok
}
func (t mapTarget[K, M]) contains(key int) bool { return t.m.Contains(t.key(key)) }
func (t mapTarget[K, M]) del(key int) bool {
	_, ok := t.m.Delete(t.key(key))
	return ok
}
func (t mapTarget[K, M]) Len() int             { return t.m.Len() }
func (t mapTarget[K, M]) Clear()               { t.m.Clear() }
func (t mapTarget[K, M]) Stats() ordered.Stats { return t.m.Stats() }
func (t mapTarget[K, M]) Verify() error        { return t.m.Verify() }

func intKey(k int) int { return k }

// bytesKey encodes k big-endian so byte order matches numeric order.
func bytesKey(k int) []byte {
	var buf [8]byte
	binary.BigEndian.PutUint64(buf[:], uint64(k))
	return buf[:]
}

type entry struct {
	key, value int
}

func entryLess(a, b entry) bool { return a.key < b.key }

type treeTarget struct {
	*rbtree.Tree[entry]
}

func (t treeTarget) put(key, value int) error {
	_, err := t.Insert(entry{key, value})
	return err
}
func (t treeTarget) get(key int) bool {
	_, ok := t.Find(entry{key: key})
	return ok
}
func (t treeTarget) contains(key int) bool { return t.Contains(entry{key: key}) }
func (t treeTarget) del(key int) bool {
	_, ok := t.Remove(entry{key: key})
	return ok
}

type setTarget struct {
	*sortedset.Set[int]
}

func (t setTarget) put(key, _ int) error {
	_, _, err := t.AddUnique(key)
	return err
}
func (t setTarget) get(key int) bool      { return t.Contains(key) }
func (t setTarget) contains(key int) bool { return t.Contains(key) }
func (t setTarget) del(key int) bool      { return t.RemoveValue(key) }
