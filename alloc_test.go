package ordered

import (
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"
)

func TestBudgetAllocateAndFree(t *testing.T) {
	b := NewBudget(100)
	require.Equal(t, uintptr(100), b.Limit())

	require.NoError(t, b.Allocate(60))
	require.NoError(t, b.Allocate(40))
	require.Equal(t, uintptr(100), b.InUse())

	err := b.Allocate(1)
	require.Error(t, err)
	require.True(t, errors.Is(err, ErrOutOfMemory))
	require.Equal(t, ErrOutOfMemory, errors.Cause(err))
	require.Contains(t, err.Error(), "requested 1 bytes with 100 of 100 in use")
	require.Equal(t, uintptr(100), b.InUse())

	b.Free(60)
	require.Equal(t, uintptr(40), b.InUse())
	require.NoError(t, b.Allocate(10))
	require.Equal(t, uintptr(100), b.Peak())
}

func TestBudgetRefusesOversizedRequest(t *testing.T) {
	b := NewBudget(10)
	require.ErrorIs(t, b.Allocate(11), ErrOutOfMemory)
	require.Zero(t, b.InUse())
	require.NoError(t, b.Allocate(10))
}

func TestBudgetOverFreePanics(t *testing.T) {
	b := NewBudget(10)
	require.NoError(t, b.Allocate(5))
	require.Panics(t, func() { b.Free(6) })
}

func TestHeapNeverRefuses(t *testing.T) {
	h := Heap()
	require.NoError(t, h.Allocate(^uintptr(0)))
	h.Free(^uintptr(0))
}

func TestCountersSnapshot(t *testing.T) {
	c := Counters{Inserts: 3, Deletes: 1, Rotations: 7, AllocFailures: 2}
	s := c.Snapshot(2, 5, 4)
	require.Equal(t, Stats{
		Len: 2, Nodes: 5, Height: 4,
		Inserts: 3, Deletes: 1, Rotations: 7, AllocFailures: 2,
	}, s)

	// Snapshots are copies.
	c.Inserts++
	require.Equal(t, uint64(3), s.Inserts)
}
