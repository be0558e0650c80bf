//go:build linux

package dirty

import (
	"context"

	"golang.org/x/sys/unix"
)

// flushRanges msyncs each coalesced range. Linux accepts sub-slices of the
// mapping.
func (t *Tracker) flushRanges(ctx context.Context, data []byte) error {
	for _, r := range t.coalesce() {
		if err := ctx.Err(); err != nil {
			return err
		}
		start, end, ok := clip(r, len(data))
		if !ok {
			continue
		}
		if err := unix.Msync(data[start:end], unix.MS_SYNC); err != nil {
			return err
		}
	}
	return nil
}

func (t *Tracker) flushHeader(header []byte) error {
	return unix.Msync(header, unix.MS_SYNC)
}

// syncFile fdatasyncs the pool file. full is ignored on Linux.
func (t *Tracker) syncFile(_ bool) error {
	return unix.Fdatasync(t.p.FD())
}
