package workload

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseDistribution(t *testing.T) {
	for _, d := range Distributions {
		kind, err := ParseDistribution(d.Name)
		require.NoError(t, err)
		require.Equal(t, d.Kind, kind)
		require.Equal(t, d.Name, kind.String())
	}
	_, err := ParseDistribution("gaussian")
	require.Error(t, err)
}

func TestGeneratorKeysStayInRange(t *testing.T) {
	for _, d := range Distributions {
		g := NewGenerator(d.Kind, 64, 50, 1)
		for range 10000 {
			_, key, _ := g.Next()
			require.GreaterOrEqual(t, key, 0)
			require.Less(t, key, 64)
		}
	}
}

func TestAscendingWraps(t *testing.T) {
	g := NewGenerator(Ascending, 3, 0, 1)
	var keys []int
	for range 7 {
		keys = append(keys, g.Key())
	}
	require.Equal(t, []int{0, 1, 2, 0, 1, 2, 0}, keys)
}

func TestGeneratorIsReproducible(t *testing.T) {
	a := NewGenerator(Uniform, 1000, 30, 99)
	b := NewGenerator(Uniform, 1000, 30, 99)
	for range 1000 {
		opA, keyA, valA := a.Next()
		opB, keyB, valB := b.Next()
		require.Equal(t, opA, opB)
		require.Equal(t, keyA, keyB)
		require.Equal(t, valA, valB)
	}
}

func TestReadOnlyMixNeverWrites(t *testing.T) {
	g := NewGenerator(Uniform, 10, 0, 5)
	for range 1000 {
		op, _, _ := g.Next()
		require.Contains(t, []Op{OpGet, OpContains}, op)
	}
}
