package alloc

import (
	"fmt"
	"os"

	"github.com/joshuapare/blockkit/internal/format"
	"github.com/joshuapare/blockkit/internal/logger"
	"github.com/joshuapare/blockkit/pool"
	"github.com/joshuapare/blockkit/pool/dirty"
)

// Runtime allocation logging, controlled by the BLOCKKIT_LOG_ALLOC env var.
var logAlloc = os.Getenv("BLOCKKIT_LOG_ALLOC") != ""

// Allocator manages the free list of a single pool.
type Allocator struct {
	p     *pool.Pool
	dt    DirtyTracker
	pack  bool
	stats Stats
}

// New returns an allocator over p. Every slot and header write is reported
// to dt; a nil dt discards them. The pool's current free list is used as is;
// call Initialize to start from an empty pool.
func New(p *pool.Pool, dt DirtyTracker, opts *Options) (*Allocator, error) {
	if p == nil {
		return nil, ErrNilPool
	}
	if p.Bytes() == nil {
		return nil, pool.ErrClosed
	}
	if p.ReadOnly() {
		return nil, pool.ErrReadOnly
	}
	if dt == nil {
		dt = dirty.Nop{}
	}
	a := &Allocator{p: p, dt: dt}
	if opts != nil {
		a.pack = opts.Pack
	}
	return a, nil
}

// Pool returns the underlying pool.
func (a *Allocator) Pool() *pool.Pool { return a.p }

// Capacity returns the number of slots in the pool.
func (a *Allocator) Capacity() int { return a.p.Capacity() }

// FirstBlock returns the head of the free list, or NullBlock.
func (a *Allocator) FirstBlock() int { return a.p.First() }

// Available returns the free slot counter.
func (a *Allocator) Available() int { return a.p.Available() }

// Errno returns the outcome of the last allocation attempt.
func (a *Allocator) Errno() ErrorKind { return kindOf(a.p.Errno()) }

// Stats returns a copy of the allocator counters.
func (a *Allocator) Stats() Stats { return a.stats }

// Initialize links every slot into the free list in index order and clears
// the error code. Previous state, allocations included, is discarded.
func (a *Allocator) Initialize() {
	a.p.Reset()
	a.dt.Add(0, len(a.p.Bytes()))
	if logAlloc {
		logger.Debug("alloc: initialize", "capacity", a.p.Capacity())
	}
}

// Allocate returns the first slot of a run covering size bytes, or -1 with
// an error. See AllocateSpan.
func (a *Allocator) Allocate(size int) (int, error) {
	s, err := a.AllocateSpan(size)
	if err != nil {
		return NullBlock, err
	}
	return s.Start, nil
}

// AllocateSpan scans the free list from its head and takes the first run
// whose length covers size bytes. The whole run leaves the list, even when it
// is longer than needed, and its slots are zero-filled. The returned span
// reports how many slots were taken.
//
// On failure nothing but the error code changes: it becomes OutOfMemory, or
// ShouldDefragment when Options.Pack is set and reordering did not expose a
// large enough run. In that last case the list stays reordered.
//
// A size of zero or less returns ErrBadSize and leaves the pool untouched.
func (a *Allocator) AllocateSpan(size int) (Span, error) {
	a.stats.AllocCalls++
	if size <= 0 {
		a.stats.AllocFailures++
		return Span{Start: NullBlock}, fmt.Errorf("%w: %d", ErrBadSize, size)
	}

	if a.pack {
		if size > BlockSize*a.p.Available() {
			return a.fail(OutOfMemory, ErrNoMemory, size)
		}
		if size > BlockSize*a.LargestRun() {
			a.stats.AutoReorders++
			a.Reorder()
			if size > BlockSize*a.LargestRun() {
				return a.fail(ShouldDefragment, ErrShouldDefragment, size)
			}
		}
	}

	prev := NullBlock
	for idx, steps := a.p.First(), 0; a.p.InRange(idx) && steps < a.p.Capacity(); idx, steps = a.p.Next(idx), steps+1 {
		run := runLength(a.p, idx)
		if size > BlockSize*run {
			prev = idx
			continue
		}

		rest := a.p.Next(idx + run - 1)
		if prev == NullBlock {
			a.setFirst(rest)
		} else {
			a.setNext(prev, rest)
		}
		a.setAvailable(a.p.Available() - run)
		a.setErrno(Success)
		a.p.Zero(idx, run)
		a.dt.Add(format.SlotOffset(idx), run*BlockSize)

		a.stats.BlocksTaken += run
		if logAlloc {
			logger.Debug("alloc: allocate", "size", size, "start", idx, "blocks", run, "available", a.p.Available())
		}
		return Span{Start: idx, Blocks: run}, nil
	}

	return a.fail(OutOfMemory, ErrNoMemory, size)
}

// fail records kind as the error code and returns the failure span.
func (a *Allocator) fail(kind ErrorKind, err error, size int) (Span, error) {
	a.stats.AllocFailures++
	a.setErrno(kind)
	if logAlloc {
		logger.Debug("alloc: allocate failed", "size", size, "errno", kind.String(),
			"available", a.p.Available(), "largest_run", a.LargestRun())
	}
	return Span{Start: NullBlock}, fmt.Errorf("%w: %d bytes", err, size)
}

// Free returns ceil(size/8) slots starting at addr to the head of the free
// list, chained in ascending order and followed by the previous head. The
// available counter grows by the same amount. Neighbouring free runs are not
// merged.
//
// The call is rejected, with no change to the pool, when size is not
// positive, when the range leaves the pool, or when any slot in it is
// already free. The error code is never touched.
func (a *Allocator) Free(addr, size int) error {
	if size <= 0 {
		return fmt.Errorf("%w: %d", ErrBadSize, size)
	}
	if !a.p.InRange(addr) || size > BlockSize*(a.p.Capacity()-addr) {
		return fmt.Errorf("%w: %d bytes at %d, capacity %d", ErrBadAddress, size, addr, a.p.Capacity())
	}
	n := format.BlocksFor(size)
	if idx, ok := a.firstFreeIn(addr, n); ok {
		return fmt.Errorf("%w: slot %d", ErrDoubleFree, idx)
	}

	head := a.p.First()
	last := addr + n - 1
	for i := addr; i < last; i++ {
		a.p.SetNext(i, i+1)
	}
	a.p.SetNext(last, head)
	a.dt.Add(format.SlotOffset(addr), n*BlockSize)
	a.setFirst(addr)
	a.setAvailable(a.p.Available() + n)

	a.stats.FreeCalls++
	a.stats.BlocksReturned += n
	if logAlloc {
		logger.Debug("alloc: free", "addr", addr, "size", size, "blocks", n, "available", a.p.Available())
	}
	return nil
}

// firstFreeIn reports the first list entry that falls inside [addr, addr+n).
func (a *Allocator) firstFreeIn(addr, n int) (int, bool) {
	for idx, steps := a.p.First(), 0; a.p.InRange(idx) && steps < a.p.Capacity(); idx, steps = a.p.Next(idx), steps+1 {
		if idx >= addr && idx < addr+n {
			return idx, true
		}
	}
	return 0, false
}

func (a *Allocator) setNext(i, next int) {
	a.p.SetNext(i, next)
	a.dt.Add(format.SlotOffset(i), BlockSize)
}

func (a *Allocator) setFirst(i int) {
	a.p.SetFirst(i)
	a.dt.Add(format.FirstBlockOffset, 8)
}

func (a *Allocator) setAvailable(n int) {
	a.p.SetAvailable(n)
	a.dt.Add(format.AvailableOffset, 8)
}

func (a *Allocator) setErrno(kind ErrorKind) {
	a.p.SetErrno(uint32(kind))
	a.dt.Add(format.ErrnoOffset, 4)
}
