package alloc

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/joshuapare/blockkit/pool"
)

// allocatedMarker fills slots that are not on the free list.
const allocatedMarker = math.MinInt32

// someAllocated is the free list used by most scenarios: slots 0, 2, 6, 7,
// 10 and 15 are allocated.
var someAllocated = []int{8, 9, 3, 4, 5, 12, 13, 14, 11, 1}

// newAllocatorWithChain builds a pool of the given capacity whose free list is
// exactly chain. Every other slot holds allocatedMarker and the error code is
// Unknown so tests can see it being written.
func newAllocatorWithChain(t testing.TB, capacity int, chain []int, opts *Options) *Allocator {
	t.Helper()

	p, err := pool.New(capacity)
	require.NoError(t, err)
	for i := range capacity {
		p.SetNext(i, allocatedMarker)
	}
	for i, idx := range chain {
		next := NullBlock
		if i+1 < len(chain) {
			next = chain[i+1]
		}
		p.SetNext(idx, next)
	}
	if len(chain) > 0 {
		p.SetFirst(chain[0])
	} else {
		p.SetFirst(NullBlock)
	}
	p.SetAvailable(len(chain))
	p.SetErrno(uint32(Unknown))

	a, err := New(p, nil, opts)
	require.NoError(t, err)
	return a
}

// newFreshAllocator returns an initialized allocator over an in-memory pool.
func newFreshAllocator(t testing.TB, capacity int, opts *Options) *Allocator {
	t.Helper()
	p, err := pool.New(capacity)
	require.NoError(t, err)
	a, err := New(p, nil, opts)
	require.NoError(t, err)
	a.Initialize()
	return a
}

// requireState checks the chain, the available counter and the error code.
func requireState(t testing.TB, a *Allocator, chain []int, errno ErrorKind) {
	t.Helper()
	require.Equal(t, chain, a.Chain(), "chain")
	require.Equal(t, len(chain), a.Available(), "available")
	if len(chain) == 0 {
		require.Equal(t, NullBlock, a.FirstBlock())
	} else {
		require.Equal(t, chain[0], a.FirstBlock())
	}
	require.Equal(t, errno, a.Errno(), "errno")
	require.NoError(t, a.Validate())
}
