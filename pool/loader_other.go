//go:build !linux && !darwin

package pool

import (
	"fmt"
	"io"
	"os"

	"github.com/joshuapare/blockkit/internal/format"
)

// Open loads the image into memory on platforms where the pool isn't mapped.
// Changes reach the file through WriteBack and Close.
func Open(path string) (*Pool, error) {
	f, err := os.OpenFile(path, os.O_RDWR, 0)
	if err != nil {
		return nil, err
	}

	st, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, err
	}
	sz := st.Size()
	if sz < format.HeaderSize {
		f.Close()
		return nil, fmt.Errorf("pool: %s: %w", path, format.ErrTruncated)
	}

	data := make([]byte, sz)
	if _, err := io.ReadFull(f, data); err != nil {
		f.Close()
		return nil, err
	}

	h, err := format.ValidateImage(data)
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("pool: %s: %w", path, err)
	}

	return &Pool{
		f:        f,
		path:     path,
		data:     data,
		capacity: int(h.Capacity),
	}, nil
}

// WriteBack writes data[off:off+n] to the backing file.
func (p *Pool) WriteBack(off, n int) error {
	if p.f == nil {
		return nil
	}
	if p.readOnly {
		return ErrReadOnly
	}
	if off < 0 || n < 0 || off+n > len(p.data) {
		return fmt.Errorf("pool: write back [%d,+%d): %w", off, n, format.ErrTruncated)
	}
	_, err := p.f.WriteAt(p.data[off:off+n], int64(off))
	return err
}

// Close seals the header, writes the whole image back and closes the file.
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
	if p.f != nil && p.data != nil {
		p.Seal()
		_, err = p.f.WriteAt(p.data, 0)
	}
	if p.f != nil {
		if cerr := p.f.Close(); err == nil {
			err = cerr
		}
		p.f = nil
	}
	p.data = nil
	return err
}
