package format

import "errors"

var (
	// ErrSignatureMismatch indicates the image did not start with the pool magic.
	ErrSignatureMismatch = errors.New("format: signature mismatch")
	// ErrTruncated indicates the buffer lacked the bytes required for a structure.
	ErrTruncated = errors.New("format: truncated buffer")
	// ErrChecksum indicates the header checksum did not match its contents.
	ErrChecksum = errors.New("format: header checksum mismatch")
	// ErrUnsupported indicates an image version or block size this package cannot handle.
	ErrUnsupported = errors.New("format: unsupported image")
	// ErrBadCapacity indicates a capacity that is not positive or too large.
	ErrBadCapacity = errors.New("format: bad capacity")
)
