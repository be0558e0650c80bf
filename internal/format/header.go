package format

import (
	"bytes"
	"fmt"

	"github.com/joshuapare/blockkit/internal/buf"
)

// Header is the decoded form of the fixed pool header.
type Header struct {
	Version    uint16
	BlockSize  uint16
	Capacity   uint32
	Errno      uint32
	FirstBlock int64
	Available  int64
	Sequence   uint32
	Checksum   uint32
}

// ParseHeader validates and extracts the pool header from the start of b.
// It checks the signature, version, block size and checksum but not the
// relationship between capacity and len(b); see ValidateImage for that.
func ParseHeader(b []byte) (Header, error) {
	if !buf.Has(b, 0, HeaderSize) {
		return Header{}, fmt.Errorf("pool header: %w", ErrTruncated)
	}
	if !bytes.Equal(b[:SignatureSize], PoolSignature) {
		return Header{}, fmt.Errorf("pool header: %w", ErrSignatureMismatch)
	}
	h := Header{
		Version:    buf.U16LE(b[VersionOffset:]),
		BlockSize:  buf.U16LE(b[BlockSizeOffset:]),
		Capacity:   buf.U32LE(b[CapacityOffset:]),
		Errno:      buf.U32LE(b[ErrnoOffset:]),
		FirstBlock: buf.I64LE(b[FirstBlockOffset:]),
		Available:  buf.I64LE(b[AvailableOffset:]),
		Sequence:   buf.U32LE(b[SequenceOffset:]),
		Checksum:   buf.U32LE(b[ChecksumOffset:]),
	}
	if h.Version != Version {
		return Header{}, fmt.Errorf("pool header: version %d: %w", h.Version, ErrUnsupported)
	}
	if h.BlockSize != BlockSize {
		return Header{}, fmt.Errorf("pool header: block size %d: %w", h.BlockSize, ErrUnsupported)
	}
	if sum := Checksum(b); sum != h.Checksum {
		return Header{}, fmt.Errorf("pool header: got 0x%08X want 0x%08X: %w", h.Checksum, sum, ErrChecksum)
	}
	return h, nil
}

// ValidateImage checks that b is a complete image for the capacity recorded
// in its header.
func ValidateImage(b []byte) (Header, error) {
	h, err := ParseHeader(b)
	if err != nil {
		return Header{}, err
	}
	if h.Capacity == 0 {
		return Header{}, fmt.Errorf("pool header: %w", ErrBadCapacity)
	}
	end, err := buf.CheckSlotBounds(len(b), HeaderSize, int(h.Capacity), BlockSize)
	if err != nil {
		return Header{}, fmt.Errorf("pool slots: %w: %w", ErrTruncated, err)
	}
	if end != len(b) {
		return Header{}, fmt.Errorf("pool slots: %d trailing bytes: %w", len(b)-end, ErrUnsupported)
	}
	return h, nil
}

// InitHeader writes a fresh header for a pool of the given capacity into b.
// The slot area is left untouched.
func InitHeader(b []byte, capacity int) {
	clear(b[:HeaderSize])
	copy(b[SignatureOffset:], PoolSignature)
	PutU16(b, VersionOffset, Version)
	PutU16(b, BlockSizeOffset, BlockSize)
	PutU32(b, CapacityOffset, uint32(capacity))
	PutI64(b, FirstBlockOffset, NullBlock)
	SealHeader(b)
}

// Checksum returns the XOR of every dword in the header before the checksum field.
func Checksum(b []byte) uint32 {
	var sum uint32
	for off := 0; off < ChecksumOffset; off += 4 {
		sum ^= ReadU32(b, off)
	}
	return sum
}

// SealHeader recomputes and stores the header checksum.
func SealHeader(b []byte) {
	PutU32(b, ChecksumOffset, Checksum(b))
}

// BumpSequence increments the header sequence number and reseals the header.
func BumpSequence(b []byte) {
	PutU32(b, SequenceOffset, ReadU32(b, SequenceOffset)+1)
	SealHeader(b)
}
