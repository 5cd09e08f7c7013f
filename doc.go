// Package ordered holds the vocabulary shared by the ordered in-memory
// containers of this module: comparators, the Map interface, the allocator
// abstraction used to bound container growth, and structural statistics.
//
// The containers themselves live in sub-packages and never depend on each
// other:
//
//	sortedset  vector-backed sorted set (binary search insert/remove)
//	btree      B-tree map with configurable branching factor
//	rbtree     red-black tree with parent links
//	skiplist   probabilistic skip list
//	trie       byte-keyed prefix tree
//	treap      cartesian tree (BST by key, max-heap by priority)
//
// None of the containers is safe for concurrent use. Package synced provides
// mutex-guarded and sharded wrappers for callers that need it.
package ordered
