package synced_test

import (
	"bytes"
	"fmt"
	"math/rand"
	"os"
	"runtime"
	"runtime/pprof"
	"sync"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"

	"github.com/metailurini/ordered"
	"github.com/metailurini/ordered/btree"
	"github.com/metailurini/ordered/skiplist"
	"github.com/metailurini/ordered/synced"
	"github.com/metailurini/ordered/treap"
	"github.com/metailurini/ordered/trie"
)

type factory struct {
	name string
	new  func() ordered.Map[int, int]
}

func factories() []factory {
	return []factory{
		{"btree", func() ordered.Map[int, int] {
			return btree.New[int, int](ordered.Natural[int](), btree.WithDegree(4))
		}},
		{"skiplist", func() ordered.Map[int, int] {
			return skiplist.New[int, int](ordered.Natural[int](), skiplist.WithSeed(1))
		}},
		{"treap", func() ordered.Map[int, int] {
			return treap.New[int, int](ordered.Natural[int](), treap.WithSeed(1))
		}},
	}
}

// storm runs random mixed operations from many goroutines, then checks that
// the surviving entries iterate strictly ascending and agree with Len.
func storm(t *testing.T, m ordered.Map[int, int]) {
	t.Helper()
	t.Cleanup(func() {
		if t.Failed() {
			pprof.Lookup("goroutine").WriteTo(os.Stderr, 2)
		}
	})

	seed := time.Now().UnixNano()
	t.Logf("test seed=%d", seed)

	const keySpace = 128
	goroutines := max(2*runtime.GOMAXPROCS(0), 4)
	const operationsPerGoroutine = 2000

	var wg sync.WaitGroup
	for g := range goroutines {
		wg.Add(1)
		go func(s int64) {
			defer wg.Done()
			r := rand.New(rand.NewSource(s))
			for range operationsPerGoroutine {
				key := r.Intn(keySpace)
				switch r.Intn(5) {
				case 0:
					_ = m.Put(key, r.Intn(1<<16))
				case 1:
					m.Delete(key)
				case 2:
					m.Get(key)
				case 3:
					m.Contains(key)
				case 4:
					for range m.All() {
					}
				}
			}
		}(seed + int64(g))
	}
	wg.Wait()

	observed := map[int]bool{}
	prev := -1
	for k := range m.All() {
		require.False(t, observed[k], "duplicate key %d", k)
		require.Greater(t, k, prev, "iteration out of order")
		observed[k] = true
		prev = k
		require.True(t, m.Contains(k))
	}
	require.Equal(t, len(observed), m.Len())
}

func TestMapConcurrentStorm(t *testing.T) {
	for _, f := range factories() {
		t.Run(f.name, func(t *testing.T) {
			storm(t, synced.New(f.new()))
		})
	}
}

func TestShardedConcurrentStorm(t *testing.T) {
	for _, f := range factories() {
		t.Run(f.name, func(t *testing.T) {
			storm(t, synced.NewSharded(8, synced.IntHash[int], ordered.Natural[int](), f.new))
		})
	}
}

func TestShardedAllIsOrderedAcrossShards(t *testing.T) {
	s := synced.NewSharded(4, synced.StringHash, ordered.Natural[string](), func() ordered.Map[string, int] {
		return skiplist.New[string, int](ordered.Natural[string](), skiplist.WithSeed(2))
	})
	want := make([]string, 0, 100)
	for i := 0; i < 100; i++ {
		k := fmt.Sprintf("key-%03d", i)
		want = append(want, k)
		require.NoError(t, s.Put(k, i))
	}
	var got []string
	for k, v := range s.All() {
		got = append(got, k)
		require.Equal(t, fmt.Sprintf("key-%03d", v), k)
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("merged order mismatch (-want +got):\n%s", diff)
	}
	require.Equal(t, 100, s.Len())
	require.Equal(t, 100, s.Stats().Len)
	require.Equal(t, uint64(100), s.Stats().Inserts)
	require.Equal(t, 4, s.Shards())

	var first []string
	for k := range s.All() {
		first = append(first, k)
		if len(first) == 3 {
			break
		}
	}
	require.Equal(t, want[:3], first)
}

func TestShardedBytesKeysOverTrie(t *testing.T) {
	s := synced.NewSharded(3, synced.BytesHash, bytes.Compare,
		func() ordered.Map[[]byte, string] { return trie.New[string]() })
	for _, w := range []string{"pear", "apple", "fig", "banana"} {
		require.NoError(t, s.Put([]byte(w), w))
	}
	v, ok := s.Get([]byte("fig"))
	require.True(t, ok)
	require.Equal(t, "fig", v)

	var got []string
	for k := range s.All() {
		got = append(got, string(k))
	}
	require.Equal(t, []string{"apple", "banana", "fig", "pear"}, got)
}

func TestMapUpdateAndView(t *testing.T) {
	m := synced.New[int, int](btree.New[int, int](ordered.Natural[int]()))
	err := m.Update(func(inner ordered.Map[int, int]) error {
		for i := 0; i < 10; i++ {
			if err := inner.Put(i, i*i); err != nil {
				return err
			}
		}
		return nil
	})
	require.NoError(t, err)

	m.View(func(inner ordered.Map[int, int]) {
		require.Equal(t, 10, inner.Len())
	})
	require.Len(t, m.Snapshot(), 10)

	// The loop body may write: All iterates a snapshot.
	for k, v := range m.All() {
		require.NoError(t, m.Put(k, v+1))
	}
	v, ok := m.Get(3)
	require.True(t, ok)
	require.Equal(t, 10, v)
	require.Equal(t, uint64(10), m.Stats().Updates)
}

func TestMapPropagatesAllocationFailure(t *testing.T) {
	budget := ordered.NewBudget(1)
	m := synced.New[int, int](skiplist.New[int, int](ordered.Natural[int](), skiplist.WithAllocator(budget)))
	require.ErrorIs(t, m.Put(1, 1), ordered.ErrOutOfMemory)
	require.Zero(t, m.Len())
}
