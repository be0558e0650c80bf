// Package pool implements the fixed-capacity slot arena that backs a block
// allocator.
//
// # Overview
//
// A Pool is a single byte image: a 64-byte header followed by capacity
// slots of 8 bytes each. A free slot stores the index of the next free slot
// (or NullBlock) in its first 8 bytes, so the free list costs no memory
// beyond the slots themselves. The header carries the allocator state that
// must survive with the slots:
//
//   - the first free slot
//   - the number of available slots
//   - the last error code
//
// Everything is addressed by slot index; there are no pointers into the image.
//
// # Backing Storage
//
// New returns an in-memory pool. Create and Open work on image files, which
// are memory-mapped read/write on Linux and macOS and read into memory
// elsewhere. OpenReadOnly maps an image for inspection only.
//
//	p, err := pool.Create("pool.img", 16)
//	if err != nil {
//	    return err
//	}
//	defer p.Close()
//
// # Thread Safety
//
// Pool instances are not thread-safe. The allocator that owns a pool is
// responsible for serializing access (see alloc.Locked).
package pool
