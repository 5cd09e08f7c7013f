package stats

import (
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"

	"github.com/metailurini/ordered"
	"github.com/metailurini/ordered/btree"
	"github.com/metailurini/ordered/synced"
)

func TestPublishedZeroValue(t *testing.T) {
	var p Published
	require.Equal(t, ordered.Stats{}, p.Stats())
	p.Publish(ordered.Stats{Len: 3, Inserts: 4})
	require.Equal(t, 3, p.Stats().Len)
	require.Equal(t, uint64(4), p.Stats().Inserts)
}

func TestCollectorExportsEveryCounter(t *testing.T) {
	c := NewCollector()
	m := synced.New[int, int](btree.New[int, int](ordered.Natural[int](), btree.WithDegree(3)))
	for i := 0; i < 20; i++ {
		require.NoError(t, m.Put(i, i))
	}
	require.NoError(t, c.Register("btree", m))

	var p Published
	p.Publish(ordered.Stats{Len: 1})
	require.NoError(t, c.Register("published", &p))
	require.Error(t, c.Register("published", &p))

	// 11 series per container.
	require.Equal(t, 22, testutil.CollectAndCount(c))

	expected := `
# HELP ordered_entries Number of entries held by the container.
# TYPE ordered_entries gauge
ordered_entries{container="btree"} 20
ordered_entries{container="published"} 1
`
	require.NoError(t, testutil.CollectAndCompare(c, strings.NewReader(expected), "ordered_entries"))

	require.True(t, c.Unregister("published"))
	require.False(t, c.Unregister("published"))
	require.Equal(t, 11, testutil.CollectAndCount(c))

	reg := prometheus.NewPedanticRegistry()
	require.NoError(t, reg.Register(c))
	families, err := reg.Gather()
	require.NoError(t, err)
	require.Len(t, families, 11)
}

func TestCollectorSplitsCounter(t *testing.T) {
	c := NewCollector()
	m := synced.New[int, int](btree.New[int, int](ordered.Natural[int](), btree.WithDegree(3)))
	for i := 0; i < 10; i++ {
		require.NoError(t, m.Put(i, i))
	}
	require.NoError(t, c.Register("b", m))
	splits := m.Stats().Splits
	require.Greater(t, splits, uint64(0))
	require.Equal(t, 1, testutil.CollectAndCount(c, "ordered_splits_total"))
}
