// Package alloc provides first-fit block allocation over a fixed-capacity pool.
//
// # Overview
//
// The free slots of a pool.Pool form a singly linked list. Each free slot
// stores the index of the next free slot, and the list ends at NullBlock.
// The allocator hands out contiguous runs of slots, takes runs back, and can
// reorder the list so that runs hidden by allocation order become visible.
//
// # Operations
//
//   - Initialize(): chain every slot 0 → 1 → … → capacity-1
//   - Allocate(size): first-fit scan in list order for a run of slots
//     covering size bytes; the whole run is taken and zero-filled
//   - Free(addr, size): prepend ceil(size/8) slots starting at addr
//   - Reorder(): sort the list by index with repeated bubble passes
//   - RunLength(i), LargestRun(): read-only run queries
//
// # First Fit
//
// Allocate walks the list from its head and stops at the first slot whose
// run is large enough. It never looks for a better or larger run further
// down the list, and it takes the entire run it found:
//
//	list: [8]→[9]→[3]→[4]→[5]→[12]→[13]→[14]→[11]→[1]
//	Allocate(16) → 8   (run 8,9)
//	list: [3]→[4]→[5]→[12]→[13]→[14]→[11]→[1]
//
// AllocateSpan reports how many slots were taken so the caller can give all
// of them back.
//
// # No Coalescing
//
// Free prepends the released run without merging it with neighbours. Larger
// runs come back only through Reorder, which callers invoke explicitly or
// which Allocate invokes itself when Options.Pack is set.
//
// # Errors
//
// The last allocation outcome is recorded in the pool header and read back
// with Errno. Allocate also returns -1 and a sentinel error (ErrNoMemory,
// ErrShouldDefragment) so callers can use errors.Is.
//
// # Thread Safety
//
// Allocator instances are not thread-safe. Wrap one in Locked when several
// goroutines share it.
package alloc
