//go:build darwin

package dirty

import (
	"context"

	"golang.org/x/sys/unix"
)

// flushRanges syncs the whole mapping. macOS msync requires the original
// mmap address, so sub-slices cannot be passed. The kernel only writes
// pages that are actually dirty.
func (t *Tracker) flushRanges(_ context.Context, data []byte) error {
	return unix.Msync(data, unix.MS_SYNC)
}

func (t *Tracker) flushHeader(_ []byte) error {
	return unix.Msync(t.p.Bytes(), unix.MS_SYNC)
}

// syncFile uses F_FULLFSYNC when full is set, plain fsync otherwise
// (macOS has no fdatasync).
func (t *Tracker) syncFile(full bool) error {
	if full {
		_, err := unix.FcntlInt(uintptr(t.p.FD()), unix.F_FULLFSYNC, 0)
		return err
	}
	return unix.Fsync(t.p.FD())
}
