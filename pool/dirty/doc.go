// Package dirty tracks which byte ranges of a file-backed pool were modified
// and flushes them to disk.
//
// # Overview
//
// The allocator reports every slot and header write through the
// DirtyTracker interface. The Tracker records raw ranges cheaply and does the
// page alignment and merging only at flush time.
//
// # Usage
//
//	p, _ := pool.Open("pool.img")
//	dt := dirty.NewTracker(p)
//	a, _ := alloc.New(p, dt, nil)
//
//	idx, err := a.Allocate(64)
//	...
//	if err := dt.Flush(ctx, dirty.FlushAuto); err != nil {
//	    return err
//	}
//
// # Page-Level Granularity
//
// Ranges are rounded out to 4KB pages and merged:
//
//	Dirty pages: [0, 1, 2, 5, 6] → Ranges: [0x0-0x3000, 0x5000-0x7000]
//
// # Platforms
//
// On Linux each merged range is msync'd individually. macOS requires the
// original mapping address, so the whole mapping is synced. Platforms without
// mmap write the ranges back with WriteAt.
//
// # Thread Safety
//
// Tracker instances are not thread-safe. Callers must synchronize access
// externally.
package dirty
