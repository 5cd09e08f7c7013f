package synced

import (
	"encoding/binary"
	"iter"

	"github.com/cespare/xxhash/v2"
	"github.com/pkg/errors"

	"github.com/metailurini/ordered"
)

// Hasher maps a key to a shard selector.
type Hasher[K any] func(K) uint64

// StringHash hashes string keys with xxhash.
func StringHash(s string) uint64 { return xxhash.Sum64String(s) }

// BytesHash hashes byte string keys with xxhash.
func BytesHash(b []byte) uint64 { return xxhash.Sum64(b) }

// IntHash hashes integer keys with xxhash over their little-endian bytes.
func IntHash[K ~int | ~int32 | ~int64 | ~uint | ~uint32 | ~uint64](k K) uint64 {
	var buf [8]byte
	binary.LittleEndian.PutUint64(buf[:], uint64(k))
	return xxhash.Sum64(buf[:])
}

// Sharded spreads keys over independently locked maps so writers to
// different shards do not contend. Iteration merges the shards back into one
// ascending sequence.
type Sharded[K, V any] struct {
	shards []*Map[K, V]
	hash   Hasher[K]
	cmp    ordered.CompareFunc[K]
}

var _ ordered.Map[int, int] = (*Sharded[int, int])(nil)

// NewSharded builds n shards with newShard. Shards must not share an
// allocator that is unsafe for concurrent use, such as an ordered.Budget.
// It panics if n is not positive.
func NewSharded[K, V any](n int, hash Hasher[K], cmp ordered.CompareFunc[K],
	newShard func() ordered.Map[K, V]) *Sharded[K, V] {

	if n <= 0 {
		panic(errors.Errorf("synced: %d shards", n))
	}
	shards := make([]*Map[K, V], n)
	for i := range shards {
		shards[i] = New(newShard())
	}
	return &Sharded[K, V]{shards: shards, hash: hash, cmp: cmp}
}

func (s *Sharded[K, V]) shard(key K) *Map[K, V] {
	return s.shards[s.hash(key)%uint64(len(s.shards))]
}

// Put inserts or updates key in its shard.
func (s *Sharded[K, V]) Put(key K, value V) error { return s.shard(key).Put(key, value) }

// Get returns the value stored under key.
func (s *Sharded[K, V]) Get(key K) (V, bool) { return s.shard(key).Get(key) }

// Contains reports whether key is present.
func (s *Sharded[K, V]) Contains(key K) bool { return s.shard(key).Contains(key) }

// Delete removes key and returns its value.
func (s *Sharded[K, V]) Delete(key K) (V, bool) { return s.shard(key).Delete(key) }

// Len sums the shard lengths. Under concurrent writes the sum is not an
// atomic snapshot.
func (s *Sharded[K, V]) Len() int {
	n := 0
	for _, sh := range s.shards {
		n += sh.Len()
	}
	return n
}

// Shards returns the number of shards.
func (s *Sharded[K, V]) Shards() int { return len(s.shards) }

// All snapshots every shard and yields the union in ascending key order.
// Shards are snapshotted one after another, so a concurrent writer may be
// seen in some shards and not others.
func (s *Sharded[K, V]) All() iter.Seq2[K, V] {
	return func(yield func(K, V) bool) {
		runs := make([][]ordered.Entry[K, V], 0, len(s.shards))
		for _, sh := range s.shards {
			if snap := sh.Snapshot(); len(snap) > 0 {
				runs = append(runs, snap)
			}
		}
		for len(runs) > 0 {
			best := 0
			for i := 1; i < len(runs); i++ {
				if s.cmp(runs[i][0].Key, runs[best][0].Key) < 0 {
					best = i
				}
			}
			e := runs[best][0]
			if runs[best] = runs[best][1:]; len(runs[best]) == 0 {
				runs = append(runs[:best], runs[best+1:]...)
			}
			if !yield(e.Key, e.Value) {
				return
			}
		}
	}
}

// Stats sums the shard counters. Height is the tallest shard.
func (s *Sharded[K, V]) Stats() ordered.Stats {
	var total ordered.Stats
	for _, sh := range s.shards {
		st := sh.Stats()
		total.Len += st.Len
		total.Nodes += st.Nodes
		total.Height = max(total.Height, st.Height)
		total.Inserts += st.Inserts
		total.Updates += st.Updates
		total.Deletes += st.Deletes
		total.Splits += st.Splits
		total.Merges += st.Merges
		total.Rotations += st.Rotations
		total.Rebalances += st.Rebalances
		total.AllocFailures += st.AllocFailures
	}
	return total
}
