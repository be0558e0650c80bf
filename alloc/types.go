package alloc

import (
	"github.com/joshuapare/blockkit/pool"
	"github.com/joshuapare/blockkit/pool/dirty"
)

// DirtyTracker is a type alias for the interface defined in pool/dirty.
type DirtyTracker = dirty.DirtyTracker

// NullBlock terminates the free list.
const NullBlock = pool.NullBlock

// BlockSize is the number of bytes per slot.
const BlockSize = pool.BlockSize

// ErrorKind is the last-error code recorded in the pool header.
type ErrorKind uint32

const (
	// Success is recorded after a successful allocation or Initialize.
	Success ErrorKind = 0
	// OutOfMemory means no run, or the pool as a whole, could hold the request.
	OutOfMemory ErrorKind = 1
	// ShouldDefragment means enough slots are free but no run after a
	// reorder is long enough.
	ShouldDefragment ErrorKind = 2
	// Unknown stands for any code this package does not write.
	Unknown ErrorKind = 3
)

// kindOf maps a raw header code to an ErrorKind. Codes this package never
// writes read back as Unknown.
func kindOf(code uint32) ErrorKind {
	switch ErrorKind(code) {
	case Success, OutOfMemory, ShouldDefragment:
		return ErrorKind(code)
	default:
		return Unknown
	}
}

// String returns the report text for the code.
func (k ErrorKind) String() string {
	switch k {
	case Success:
		return "Success"
	case OutOfMemory:
		return "Not enough memory"
	case ShouldDefragment:
		return "Not enough contiguous blocks"
	default:
		return "Unknown"
	}
}

// Span is a run of slots handed out by AllocateSpan.
type Span struct {
	Start  int `json:"start"`
	Blocks int `json:"blocks"`
}

// Bytes returns the span size in bytes; pass it to Free to release every slot.
func (s Span) Bytes() int { return s.Blocks * BlockSize }

// Options configures an Allocator. A nil *Options means defaults.
type Options struct {
	// Pack makes Allocate check total capacity first and reorder the free
	// list when no run in the current order could satisfy the request.
	// Without it Allocate scans once and fails with OutOfMemory.
	Pack bool
}

// BlockAllocator is the operation set shared by Allocator and Locked.
type BlockAllocator interface {
	Allocate(size int) (int, error)
	AllocateSpan(size int) (Span, error)
	Free(addr, size int) error
	Reorder() int
	Snapshot() Snapshot
}

var (
	_ BlockAllocator = (*Allocator)(nil)
	_ BlockAllocator = (*Locked)(nil)
)

// Stats holds allocator counters since construction.
type Stats struct {
	AllocCalls     int `json:"alloc_calls"`     // Allocate/AllocateSpan calls, failures included
	AllocFailures  int `json:"alloc_failures"`  // calls that returned an error
	AutoReorders   int `json:"auto_reorders"`   // reorders triggered by the pack policy
	BlocksTaken    int `json:"blocks_taken"`    // slots handed out
	FreeCalls      int `json:"free_calls"`      // successful Free calls
	BlocksReturned int `json:"blocks_returned"` // slots given back through Free
	ReorderPasses  int `json:"reorder_passes"`  // bubble passes over the list
	ReorderSwaps   int `json:"reorder_swaps"`   // relinks performed by those passes
}
