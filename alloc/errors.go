package alloc

import "errors"

var (
	// ErrNoMemory indicates that no run in list order was large enough.
	ErrNoMemory = errors.New("alloc: not enough memory")

	// ErrShouldDefragment indicates that even after reordering no run was large enough.
	ErrShouldDefragment = errors.New("alloc: not enough contiguous blocks")

	// ErrBadSize indicates a size that is zero or negative.
	ErrBadSize = errors.New("alloc: size must be positive")

	// ErrBadAddress indicates a slot range outside the pool.
	ErrBadAddress = errors.New("alloc: address out of range")

	// ErrDoubleFree indicates an attempt to free a slot that is already on the free list.
	ErrDoubleFree = errors.New("alloc: block already free")

	// ErrCorrupt indicates the free list violates its invariants.
	ErrCorrupt = errors.New("alloc: free list corrupt")

	// ErrNilPool indicates a nil pool was passed to New.
	ErrNilPool = errors.New("alloc: nil pool")
)
