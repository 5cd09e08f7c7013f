package treap

import (
	"math/rand"
	"testing"

	"github.com/davecgh/go-spew/spew"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	tidwall "github.com/tidwall/btree"

	"github.com/metailurini/ordered"
)

func requireValid[K, V any](t *testing.T, tr *Treap[K, V]) {
	t.Helper()
	if err := tr.Verify(); err != nil {
		t.Fatalf("%v\n%s", err, spew.Sdump(tr.root))
	}
}

func keysOf[K, V any](tr *Treap[K, V]) []K {
	var out []K
	for k := range tr.All() {
		out = append(out, k)
	}
	return out
}

func TestTreapExplicitPrioritiesFixShape(t *testing.T) {
	tr := New[int, string](ordered.Natural[int]())
	require.NoError(t, tr.InsertWithPriority(5, "e", 10))
	require.NoError(t, tr.InsertWithPriority(3, "c", 50))
	require.NoError(t, tr.InsertWithPriority(8, "h", 30))
	require.NoError(t, tr.InsertWithPriority(1, "a", 5))
	require.NoError(t, tr.InsertWithPriority(4, "d", 40))
	requireValid(t, tr)

	// Highest priority is the root, whatever the insertion order.
	require.Equal(t, 3, tr.root.key)
	require.Equal(t, 4, tr.root.right.key)
	require.Equal(t, 8, tr.root.right.right.key)
	require.Equal(t, 5, tr.root.right.right.left.key)
	require.Equal(t, 1, tr.root.left.key)
	require.Equal(t, []int{1, 3, 4, 5, 8}, keysOf(tr))
	require.Greater(t, tr.Stats().Splits, uint64(0))
}

func TestTreapInsertKeepsPriority(t *testing.T) {
	tr := New[int, int](ordered.Natural[int](), WithSeed(1))
	require.NoError(t, tr.Insert(1, 1))
	p, ok := tr.Priority(1)
	require.True(t, ok)
	require.NoError(t, tr.Insert(1, 2))
	p2, ok := tr.Priority(1)
	require.True(t, ok)
	require.Equal(t, p, p2)
	v, _ := tr.Get(1)
	require.Equal(t, 2, v)
	require.Equal(t, 1, tr.Len())

	_, ok = tr.Priority(2)
	require.False(t, ok)
}

func TestTreapInsertWithPriorityReseats(t *testing.T) {
	tr := New[int, int](ordered.Natural[int]())
	for k := 1; k <= 7; k++ {
		require.NoError(t, tr.InsertWithPriority(k, k, uint64(100-k)))
	}
	requireValid(t, tr)
	require.Equal(t, 1, tr.root.key)

	// Raising 4 above everything makes it the root.
	require.NoError(t, tr.InsertWithPriority(4, 40, 1000))
	requireValid(t, tr)
	require.Equal(t, 4, tr.root.key)
	require.Equal(t, 7, tr.Len())
	v, ok := tr.Get(4)
	require.True(t, ok)
	require.Equal(t, 40, v)

	// Lowering it sinks it to a leaf.
	require.NoError(t, tr.InsertWithPriority(4, 41, 0))
	requireValid(t, tr)
	n := tr.find(4)
	require.Nil(t, n.left)
	require.Nil(t, n.right)
	require.Equal(t, []int{1, 2, 3, 4, 5, 6, 7}, keysOf(tr))
}

func TestTreapSeedIsDeterministic(t *testing.T) {
	build := func() *Treap[int, int] {
		tr := New[int, int](ordered.Natural[int](), WithSeed(42))
		for i := 0; i < 200; i++ {
			require.NoError(t, tr.Insert(i, i))
		}
		return tr
	}
	a, b := build(), build()
	require.Equal(t, a.Height(), b.Height())
	require.Equal(t, a.root.key, b.root.key)
	for i := 0; i < 200; i++ {
		pa, _ := a.Priority(i)
		pb, _ := b.Priority(i)
		require.Equal(t, pa, pb)
	}
}

func TestTreapSortedInsertStaysShallow(t *testing.T) {
	tr := New[int, int](ordered.Natural[int](), WithSeed(9))
	for i := 0; i < 4096; i++ {
		require.NoError(t, tr.Insert(i, i))
	}
	requireValid(t, tr)
	// Expected height is about 2.99*log2(n); a degenerate chain would be 4096.
	assert.Less(t, tr.Height(), 80)
}

func TestTreapMinMaxDelete(t *testing.T) {
	tr := New[string, int](ordered.Natural[string](), WithSeed(3))
	_, _, ok := tr.Min()
	require.False(t, ok)
	_, _, ok = tr.Max()
	require.False(t, ok)

	for i, k := range []string{"m", "c", "x", "a", "q"} {
		require.NoError(t, tr.Insert(k, i))
	}
	k, v, ok := tr.Min()
	require.True(t, ok)
	assert.Equal(t, "a", k)
	assert.Equal(t, 3, v)
	k, _, ok = tr.Max()
	require.True(t, ok)
	assert.Equal(t, "x", k)

	v, ok = tr.Delete("m")
	require.True(t, ok)
	require.Equal(t, 0, v)
	_, ok = tr.Delete("m")
	require.False(t, ok)
	requireValid(t, tr)
	require.Equal(t, []string{"a", "c", "q", "x"}, keysOf(tr))
}

func TestTreapMatchesOracle(t *testing.T) {
	r := rand.New(rand.NewSource(5))
	tr := New[int, int](ordered.Natural[int](), WithSeed(5))
	var oracle tidwall.Map[int, int]

	for i := 0; i < 20000; i++ {
		k := r.Intn(400)
		switch r.Intn(4) {
		case 0, 1:
			v := r.Int()
			require.NoError(t, tr.Insert(k, v))
			oracle.Set(k, v)
		case 2:
			v := r.Int()
			require.NoError(t, tr.InsertWithPriority(k, v, r.Uint64()))
			oracle.Set(k, v)
		default:
			got, ok := tr.Delete(k)
			want, wantOK := oracle.Delete(k)
			require.Equal(t, wantOK, ok, "delete %d", k)
			require.Equal(t, want, got)
		}
		if i%173 == 0 {
			requireValid(t, tr)
		}
	}
	requireValid(t, tr)
	require.Equal(t, oracle.Len(), tr.Len())
	if diff := cmp.Diff(oracle.Keys(), keysOf(tr)); diff != "" {
		t.Fatalf("keys mismatch (-oracle +treap):\n%s", diff)
	}
	oracle.Scan(func(k, v int) bool {
		got, ok := tr.Get(k)
		require.True(t, ok)
		require.Equal(t, v, got)
		return true
	})
}

func TestTreapAllocationFailure(t *testing.T) {
	size := nodeSize[int, int]()
	budget := ordered.NewBudget(size * 3)
	tr := New[int, int](ordered.Natural[int](), WithSeed(1), WithAllocator(budget))

	for i := 0; i < 3; i++ {
		require.NoError(t, tr.Insert(i, i))
	}
	err := tr.Insert(3, 3)
	require.ErrorIs(t, err, ordered.ErrOutOfMemory)
	err = tr.InsertWithPriority(3, 3, 7)
	require.ErrorIs(t, err, ordered.ErrOutOfMemory)
	require.Equal(t, []int{0, 1, 2}, keysOf(tr))
	require.Equal(t, uint64(2), tr.Stats().AllocFailures)

	// Existing keys need no memory.
	require.NoError(t, tr.InsertWithPriority(1, 10, ^uint64(0)))
	require.Equal(t, 1, tr.root.key)
	requireValid(t, tr)

	tr.Clear()
	require.Zero(t, budget.InUse())
	require.Zero(t, tr.Len())
	require.Zero(t, tr.Height())
}

func FuzzTreapAgainstModel(f *testing.F) {
	f.Add([]byte{0, 1, 9, 0, 2, 8, 1, 1, 0, 2, 3, 3})
	f.Add([]byte{2, 4, 4, 2, 5, 5, 1, 4, 0})

	f.Fuzz(func(t *testing.T, input []byte) {
		tr := New[int, int](ordered.Natural[int](), WithSeed(1))
		model := map[int]int{}
		for i := 0; i+2 < len(input); i += 3 {
			key := int(input[i+1] % 32)
			switch input[i] % 3 {
			case 0:
				require.NoError(t, tr.Insert(key, int(input[i+2])))
				model[key] = int(input[i+2])
			case 1:
				_, ok := tr.Delete(key)
				_, wantOK := model[key]
				require.Equal(t, wantOK, ok)
				delete(model, key)
			case 2:
				require.NoError(t, tr.InsertWithPriority(key, key, uint64(input[i+2])))
				model[key] = key
			}
		}
		requireValid(t, tr)
		require.Equal(t, len(model), tr.Len())
	})
}
