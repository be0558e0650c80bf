package alloc

import (
	"slices"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestReorder(t *testing.T) {
	a := newAllocatorWithChain(t, 16, someAllocated, nil)

	swaps := a.Reorder()

	require.Equal(t, 18, swaps)
	requireState(t, a, []int{1, 3, 4, 5, 8, 9, 11, 12, 13, 14}, Unknown)
	require.Equal(t, 4, a.LargestRun())
}

func TestReorder_Idempotent(t *testing.T) {
	a := newAllocatorWithChain(t, 16, someAllocated, nil)
	a.Reorder()
	sorted := a.Chain()

	require.Zero(t, a.Reorder())
	require.Equal(t, sorted, a.Chain())
}

func TestReorder_Reversed(t *testing.T) {
	a := newAllocatorWithChain(t, 8, []int{4, 3, 2, 1, 0}, nil)

	require.Equal(t, 10, a.Reorder())
	requireState(t, a, []int{0, 1, 2, 3, 4}, Unknown)
}

func TestReorder_SwapAtHead(t *testing.T) {
	a := newAllocatorWithChain(t, 8, []int{7, 0}, nil)

	require.Equal(t, 1, a.Reorder())
	requireState(t, a, []int{0, 7}, Unknown)
}

func TestReorder_ShortLists(t *testing.T) {
	empty := newAllocatorWithChain(t, 8, nil, nil)
	require.Zero(t, empty.Reorder())
	requireState(t, empty, []int{}, Unknown)

	single := newAllocatorWithChain(t, 8, []int{6}, nil)
	require.Zero(t, single.Reorder())
	requireState(t, single, []int{6}, Unknown)
}

func TestReorder_PreservesSet(t *testing.T) {
	chain := []int{30, 2, 17, 5, 31, 0, 9, 22, 11, 4}
	a := newAllocatorWithChain(t, 32, chain, nil)

	a.Reorder()

	want := slices.Clone(chain)
	slices.Sort(want)
	requireState(t, a, want, Unknown)
}

func TestAllocate_AfterManualReorder(t *testing.T) {
	a := newAllocatorWithChain(t, 16, someAllocated, nil)

	_, err := a.Allocate(32)
	require.ErrorIs(t, err, ErrNoMemory)

	a.Reorder()
	idx, err := a.Allocate(32)
	require.NoError(t, err)
	require.Equal(t, 11, idx)
	requireState(t, a, []int{1, 3, 4, 5, 8, 9}, Success)
}

func TestAllocate_PackReordersWhenNeeded(t *testing.T) {
	a := newAllocatorWithChain(t, 16, someAllocated, &Options{Pack: true})

	idx, err := a.Allocate(32)
	require.NoError(t, err)
	require.Equal(t, 11, idx)
	requireState(t, a, []int{1, 3, 4, 5, 8, 9}, Success)
	require.Equal(t, 1, a.Stats().AutoReorders)
}

func TestAllocate_PackSkipsReorderWhenRunFits(t *testing.T) {
	a := newAllocatorWithChain(t, 16, someAllocated, &Options{Pack: true})

	idx, err := a.Allocate(24)
	require.NoError(t, err)
	require.Equal(t, 3, idx)
	requireState(t, a, []int{8, 9, 12, 13, 14, 11, 1}, Success)
	require.Zero(t, a.Stats().AutoReorders)
}

func TestAllocate_PackShouldDefragment(t *testing.T) {
	a := newAllocatorWithChain(t, 16, someAllocated, &Options{Pack: true})

	idx, err := a.Allocate(56)
	require.ErrorIs(t, err, ErrShouldDefragment)
	require.Equal(t, NullBlock, idx)
	// The reorder stays in place.
	requireState(t, a, []int{1, 3, 4, 5, 8, 9, 11, 12, 13, 14}, ShouldDefragment)
}

func TestAllocate_PackOutOfMemory(t *testing.T) {
	a := newAllocatorWithChain(t, 16, someAllocated, &Options{Pack: true})

	_, err := a.Allocate(81)
	require.ErrorIs(t, err, ErrNoMemory)
	requireState(t, a, someAllocated, OutOfMemory)
	require.Zero(t, a.Stats().AutoReorders)
}
