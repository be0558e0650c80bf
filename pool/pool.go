package pool

import (
	"fmt"
	"os"

	"github.com/joshuapare/blockkit/internal/buf"
	"github.com/joshuapare/blockkit/internal/format"
)

// NullBlock terminates the free list.
const NullBlock = format.NullBlock

// BlockSize is the number of bytes one slot represents.
const BlockSize = format.BlockSize

// Pool is a slot arena plus its state header, backed by memory or by an image file.
type Pool struct {
	f        *os.File
	path     string
	data     []byte
	capacity int
	readOnly bool
	release  func() error
}

// New allocates an in-memory pool with the given capacity and links every
// slot into the free list (see Reset).
func New(capacity int) (*Pool, error) {
	if capacity <= 0 || capacity > format.MaxCapacity {
		return nil, fmt.Errorf("pool: capacity %d: %w", capacity, format.ErrBadCapacity)
	}
	if _, ok := buf.MulOverflowSafe(capacity, BlockSize); !ok {
		return nil, fmt.Errorf("pool: capacity %d: %w", capacity, format.ErrBadCapacity)
	}
	data := make([]byte, format.ImageSize(capacity))
	format.InitHeader(data, capacity)

	p := &Pool{data: data, capacity: capacity}
	p.Reset()
	return p, nil
}

// FromImage wraps an existing image after validating it. The pool aliases
// data; it does not copy it.
func FromImage(data []byte) (*Pool, error) {
	h, err := format.ValidateImage(data)
	if err != nil {
		return nil, err
	}
	return &Pool{data: data, capacity: int(h.Capacity)}, nil
}

// Reset links slot i to i+1 for every slot, terminates the last slot with
// NullBlock, and sets first = 0 and available = capacity. The error code is
// cleared. Any previous state is overwritten.
func (p *Pool) Reset() {
	last := p.capacity - 1
	for i := range last {
		p.SetNext(i, i+1)
	}
	p.SetNext(last, NullBlock)
	p.SetFirst(0)
	p.SetAvailable(p.capacity)
	p.SetErrno(0)
}

// Capacity returns the number of slots.
func (p *Pool) Capacity() int { return p.capacity }

// Bytes returns the whole image, header included.
func (p *Pool) Bytes() []byte { return p.data }

// Path returns the image file path, or "" for in-memory pools.
func (p *Pool) Path() string { return p.path }

// ReadOnly reports whether the pool refuses mutation.
func (p *Pool) ReadOnly() bool { return p.readOnly }

// FD returns the file descriptor of the backing file, or -1.
func (p *Pool) FD() int {
	if p == nil || p.f == nil {
		return -1
	}
	return int(p.f.Fd())
}

// Sync commits the backing file to stable storage. It is a no-op for
// in-memory and read-only pools.
func (p *Pool) Sync() error {
	if p == nil || p.f == nil || p.readOnly {
		return nil
	}
	return p.f.Sync()
}

// InRange reports whether i is a valid slot index.
func (p *Pool) InRange(i int) bool {
	return i >= 0 && i < p.capacity
}

// Next returns the link stored in slot i.
func (p *Pool) Next(i int) int {
	return int(format.ReadI64(p.data, format.SlotOffset(i)))
}

// SetNext stores next as the link of slot i.
func (p *Pool) SetNext(i, next int) {
	format.PutI64(p.data, format.SlotOffset(i), int64(next))
}

// Run returns the storage of n consecutive slots starting at start, or nil
// when the range does not fit.
func (p *Pool) Run(start, n int) []byte {
	if !p.InRange(start) || n <= 0 || start+n > p.capacity {
		return nil
	}
	b, _ := buf.Slice(p.data, format.SlotOffset(start), n*BlockSize)
	return b
}

// Zero clears n consecutive slots starting at start.
func (p *Pool) Zero(start, n int) {
	clear(p.Run(start, n))
}

// First returns the head of the free list.
func (p *Pool) First() int {
	return int(format.ReadI64(p.data, format.FirstBlockOffset))
}

// SetFirst stores the head of the free list.
func (p *Pool) SetFirst(i int) {
	format.PutI64(p.data, format.FirstBlockOffset, int64(i))
}

// Available returns the free slot counter.
func (p *Pool) Available() int {
	return int(format.ReadI64(p.data, format.AvailableOffset))
}

// SetAvailable stores the free slot counter.
func (p *Pool) SetAvailable(n int) {
	format.PutI64(p.data, format.AvailableOffset, int64(n))
}

// Errno returns the raw last-error code.
func (p *Pool) Errno() uint32 {
	return format.ReadU32(p.data, format.ErrnoOffset)
}

// SetErrno stores the raw last-error code.
func (p *Pool) SetErrno(code uint32) {
	format.PutU32(p.data, format.ErrnoOffset, code)
}

// Header decodes the header without validating the checksum.
func (p *Pool) Header() format.Header {
	return format.Header{
		Version:    format.ReadU16(p.data, format.VersionOffset),
		BlockSize:  format.ReadU16(p.data, format.BlockSizeOffset),
		Capacity:   uint32(p.capacity),
		Errno:      p.Errno(),
		FirstBlock: int64(p.First()),
		Available:  int64(p.Available()),
		Sequence:   format.ReadU32(p.data, format.SequenceOffset),
		Checksum:   format.ReadU32(p.data, format.ChecksumOffset),
	}
}

// Seal recomputes the header checksum after state changes.
func (p *Pool) Seal() {
	if p.readOnly || p.data == nil {
		return
	}
	format.SealHeader(p.data)
}

// BumpSequence increments the header sequence number and reseals the header.
func (p *Pool) BumpSequence() {
	if p.readOnly || p.data == nil {
		return
	}
	format.BumpSequence(p.data)
}

// Create writes a freshly initialized image of the given capacity to path and
// opens it read/write. An existing file is truncated.
func Create(path string, capacity int) (*Pool, error) {
	mem, err := New(capacity)
	if err != nil {
		return nil, err
	}
	mem.Seal()
	if err := os.WriteFile(path, mem.Bytes(), 0o644); err != nil {
		return nil, fmt.Errorf("pool: write image: %w", err)
	}
	return Open(path)
}
