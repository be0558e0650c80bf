// Package format describes the byte layout of a block pool image. The same
// layout is used for in-memory pools and for image files mapped from disk, so
// higher-level packages never need to care where the bytes live.
package format

var (
	// PoolSignature is the four-byte signature at the start of every pool image.
	// Layout:
	//   0x00  'b' 'l' 'k' 'p'
	PoolSignature = []byte{'b', 'l', 'k', 'p'}
)

const (
	// HeaderSize is the size of the pool header in bytes. Slots start right
	// after it.
	HeaderSize = 0x40

	// BlockSize is the number of bytes represented by one slot.
	BlockSize = 8

	// Version is the only image version this package writes or accepts.
	Version = 1

	// NullBlock terminates the free list. It is never a valid slot index.
	NullBlock = -1

	// PageSize is the granularity used when flushing dirty ranges.
	PageSize = 0x1000
)

// Header field offsets.
//
//	Offset  Size  Description
//	------  ----  ----------------------------------------------------------
//	 0x00    4    'b' 'l' 'k' 'p'
//	 0x04    2    Version
//	 0x06    2    Block size (always 8)
//	 0x08    4    Capacity in slots
//	 0x0C    4    Last error code
//	 0x10    8    First free slot (int64, -1 when the list is empty)
//	 0x18    8    Available slots
//	 0x20    4    Sequence number, bumped on every header flush
//	 0x3C    4    Checksum (XOR of the 15 dwords before it)
const (
	SignatureOffset  = 0x00
	SignatureSize    = 4
	VersionOffset    = 0x04
	BlockSizeOffset  = 0x06
	CapacityOffset   = 0x08
	ErrnoOffset      = 0x0C
	FirstBlockOffset = 0x10
	AvailableOffset  = 0x18
	SequenceOffset   = 0x20
	ChecksumOffset   = 0x3C
)

// MaxCapacity bounds the number of slots so that every index fits in the
// int32 range used by the capacity field and callers on 32-bit platforms.
const MaxCapacity = 1<<31 - 1
