package pool

import (
	"fmt"

	"github.com/joshuapare/blockkit/internal/format"
	"github.com/joshuapare/blockkit/internal/mmfile"
)

// OpenReadOnly maps an image for inspection. The returned pool refuses
// mutation through the allocator and must still be closed.
func OpenReadOnly(path string) (*Pool, error) {
	data, cleanup, err := mmfile.Map(path)
	if err != nil {
		return nil, err
	}
	h, err := format.ValidateImage(data)
	if err != nil {
		_ = cleanup()
		return nil, fmt.Errorf("pool: %s: %w", path, err)
	}
	return &Pool{
		path:     path,
		data:     data,
		capacity: int(h.Capacity),
		readOnly: true,
		release:  cleanup,
	}, nil
}
