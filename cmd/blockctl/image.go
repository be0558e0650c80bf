package main

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/joshuapare/blockkit/alloc"
	"github.com/joshuapare/blockkit/pool"
	"github.com/joshuapare/blockkit/pool/dirty"
)

// session is an image opened for mutation.
type session struct {
	p  *pool.Pool
	dt *dirty.Tracker
	a  *alloc.Allocator
}

// openSession opens path read/write and wraps it in an allocator.
func openSession(path string, opts *alloc.Options) (*session, error) {
	printVerbose("Opening image: %s\n", path)
	p, err := pool.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open image: %w", err)
	}
	dt := dirty.NewTracker(p)
	a, err := alloc.New(p, dt, opts)
	if err != nil {
		_ = p.Close()
		return nil, err
	}
	return &session{p: p, dt: dt, a: a}, nil
}

// close flushes pending writes and closes the image. The first error wins.
func (s *session) close() error {
	flushErr := s.dt.Flush(context.Background(), dirty.FlushAuto)
	closeErr := s.p.Close()
	if flushErr != nil {
		return fmt.Errorf("failed to flush image: %w", flushErr)
	}
	return closeErr
}

// withSession runs fn against path and always flushes and closes.
func withSession(path string, opts *alloc.Options, fn func(s *session) error) error {
	s, err := openSession(path, opts)
	if err != nil {
		return err
	}
	fnErr := fn(s)
	return errors.Join(fnErr, s.close())
}

// parseInt parses a decimal command argument.
func parseInt(name, raw string) (int, error) {
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", name, raw, err)
	}
	return n, nil
}
