package sortedset

import (
	"math/rand"
	"testing"

	"github.com/RoaringBitmap/roaring"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/metailurini/ordered"
)

func TestSortedSetAddLowerBound(t *testing.T) {
	s := New[int](ordered.Natural[int]())
	for _, v := range []int{5, 1, 3} {
		_, err := s.Add(v)
		require.NoError(t, err)
	}
	i, err := s.Add(3)
	require.NoError(t, err)
	require.Equal(t, 1, i)
	require.Equal(t, []int{1, 3, 3, 5}, s.Values())

	i, ok := s.FindIndex(3)
	require.True(t, ok)
	require.Equal(t, 1, i)
	_, ok = s.FindIndex(4)
	require.False(t, ok)
	require.NoError(t, s.Verify())
}

func TestSortedSetAddUnique(t *testing.T) {
	s := New[string](ordered.Natural[string]())
	for _, w := range []string{"b", "a", "c", "a", "b"} {
		_, _, err := s.AddUnique(w)
		require.NoError(t, err)
	}
	require.Equal(t, []string{"a", "b", "c"}, s.Values())

	i, inserted, err := s.AddUnique("b")
	require.NoError(t, err)
	require.False(t, inserted)
	require.Equal(t, 1, i)
}

func TestSortedSetRemove(t *testing.T) {
	s := New[int](ordered.Natural[int]())
	for v := 0; v < 10; v++ {
		_, err := s.Add(v * 10)
		require.NoError(t, err)
	}
	require.Equal(t, 30, s.Remove(3))
	require.Equal(t, 9, s.Len())
	require.Equal(t, 40, s.At(3))
	require.Panics(t, func() { s.Remove(9) })
	require.Panics(t, func() { s.Remove(-1) })

	require.True(t, s.RemoveValue(90))
	require.False(t, s.RemoveValue(90))
	lo, ok := s.Min()
	require.True(t, ok)
	assert.Equal(t, 0, lo)
	hi, ok := s.Max()
	require.True(t, ok)
	assert.Equal(t, 80, hi)

	var idx []int
	for i, v := range s.All() {
		require.Equal(t, s.At(i), v)
		idx = append(idx, i)
	}
	assert.Equal(t, []int{0, 1, 2, 3, 4, 5, 6, 7}, idx)
}

func TestSortedSetValuesIsACopy(t *testing.T) {
	s := New[int](ordered.Natural[int]())
	_, err := s.Add(1)
	require.NoError(t, err)
	vals := s.Values()
	vals[0] = 99
	require.Equal(t, 1, s.At(0))
}

func TestSortedSetEmpty(t *testing.T) {
	s := New[int](ordered.Natural[int](), WithInitialCapacity(16))
	_, ok := s.Min()
	require.False(t, ok)
	_, ok = s.Max()
	require.False(t, ok)
	require.False(t, s.Contains(0))
	require.Equal(t, 16, s.Stats().Nodes)
	require.Zero(t, s.Stats().Height)
}

func TestSortedSetMatchesRoaring(t *testing.T) {
	r := rand.New(rand.NewSource(17))
	s := New[uint32](ordered.Natural[uint32]())
	oracle := roaring.New()

	for i := 0; i < 20000; i++ {
		v := uint32(r.Intn(2000))
		switch r.Intn(3) {
		case 0, 1:
			_, inserted, err := s.AddUnique(v)
			require.NoError(t, err)
			require.Equal(t, oracle.CheckedAdd(v), inserted)
		default:
			require.Equal(t, oracle.CheckedRemove(v), s.RemoveValue(v))
		}
		require.Equal(t, oracle.Contains(v), s.Contains(v))
	}
	require.NoError(t, s.Verify())
	require.Equal(t, int(oracle.GetCardinality()), s.Len())
	if diff := cmp.Diff(oracle.ToArray(), s.Values()); diff != "" {
		t.Fatalf("elements mismatch (-roaring +set):\n%s", diff)
	}
}

func TestSortedSetAllocationFailure(t *testing.T) {
	size := elemSize[int]()
	budget := ordered.NewBudget(size * 12)
	s := New[int](ordered.Natural[int](), WithAllocator(budget))

	// 4 then 8 elements: the move to 8 holds both arrays for a moment.
	for i := 0; i < 8; i++ {
		_, err := s.Add(i)
		require.NoError(t, err)
	}
	require.Equal(t, size*8, budget.InUse())
	require.Equal(t, size*12, budget.Peak())

	_, err := s.Add(100)
	require.ErrorIs(t, err, ordered.ErrOutOfMemory)
	require.Equal(t, []int{0, 1, 2, 3, 4, 5, 6, 7}, s.Values())
	require.Equal(t, size*8, budget.InUse())
	require.Equal(t, uint64(1), s.Stats().AllocFailures)

	// Removal frees room in the array without reallocating.
	s.Remove(0)
	_, err = s.Add(100)
	require.NoError(t, err)

	s.Clear()
	require.Zero(t, budget.InUse())
	require.Zero(t, s.Len())
}

func TestSortedSetInitialCapacityRefused(t *testing.T) {
	budget := ordered.NewBudget(elemSize[int]() * 2)
	s := New[int](ordered.Natural[int](), WithInitialCapacity(8), WithAllocator(budget))
	require.Zero(t, s.Stats().Nodes)
	require.Zero(t, budget.InUse())
}

func FuzzSortedSetAgainstModel(f *testing.F) {
	f.Add([]byte{0, 3, 0, 1, 0, 3, 1, 3, 2, 0})
	f.Fuzz(func(t *testing.T, input []byte) {
		s := New[int](ordered.Natural[int]())
		counts := map[int]int{}
		for i := 0; i+1 < len(input); i += 2 {
			v := int(input[i+1] % 16)
			switch input[i] % 3 {
			case 0:
				_, err := s.Add(v)
				require.NoError(t, err)
				counts[v]++
			case 1:
				require.Equal(t, counts[v] > 0, s.RemoveValue(v))
				if counts[v] > 0 {
					counts[v]--
				}
			case 2:
				require.Equal(t, counts[v] > 0, s.Contains(v))
			}
		}
		require.NoError(t, s.Verify())
		total := 0
		for _, c := range counts {
			total += c
		}
		require.Equal(t, total, s.Len())
	})
}
