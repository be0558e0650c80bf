//go:build linux || darwin

package pool

import (
	"fmt"
	"os"

	"golang.org/x/sys/unix"

	"github.com/joshuapare/blockkit/internal/format"
)

// Open mmaps the image RW so the allocator can mutate it in place.
func Open(path string) (*Pool, error) {
	f, err := os.OpenFile(path, os.O_RDWR, 0)
	if err != nil {
		return nil, err
	}

	st, err := f.Stat()
	if err != nil {
		_ = f.Close()
		return nil, err
	}
	sz := st.Size()
	if sz < format.HeaderSize {
		_ = f.Close()
		return nil, fmt.Errorf("pool: %s: %w", path, format.ErrTruncated)
	}

	data, err := unix.Mmap(
		int(f.Fd()),
		0,
		int(sz),
		unix.PROT_READ|unix.PROT_WRITE,
		unix.MAP_SHARED,
	)
	if err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("pool: mmap failed: %w", err)
	}

	h, err := format.ValidateImage(data)
	if err != nil {
		_ = unix.Munmap(data)
		_ = f.Close()
		return nil, fmt.Errorf("pool: %s: %w", path, err)
	}

	return &Pool{
		f:        f,
		path:     path,
		data:     data,
		capacity: int(h.Capacity),
	}, nil
}

// Close seals the header and releases the mapping and file.
// Closing an in-memory pool only drops the slots.
func (p *Pool) Close() error {
	if p == nil {
		return nil
	}
	if p.release != nil {
		err := p.release()
		p.release = nil
		p.data = nil
		return err
	}
	var err error
	if p.data != nil && p.f != nil {
		p.Seal()
		_ = unix.Munmap(p.data)
	}
	p.data = nil
	if p.f != nil {
		err = p.f.Close()
		p.f = nil
	}
	return err
}
