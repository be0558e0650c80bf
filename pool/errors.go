package pool

import "errors"

var (
	// ErrReadOnly indicates a mutation was attempted on a read-only pool.
	ErrReadOnly = errors.New("pool: read-only")

	// ErrClosed indicates the pool was used after Close.
	ErrClosed = errors.New("pool: closed")
)
