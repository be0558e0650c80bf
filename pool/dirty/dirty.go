package dirty

import (
	"context"
	"sort"

	"github.com/joshuapare/blockkit/internal/format"
	"github.com/joshuapare/blockkit/pool"
)

const (
	// defaultRangeCapacity is the pre-allocated capacity for dirty ranges.
	defaultRangeCapacity = 64
)

// FlushMode controls durability guarantees for Flush.
type FlushMode int

const (
	// FlushAuto syncs dirty pages, reseals and syncs the header, then
	// fdatasyncs the file.
	FlushAuto FlushMode = iota

	// FlushDataOnly syncs dirty pages and the header but skips fdatasync.
	FlushDataOnly

	// FlushFull is FlushAuto plus F_FULLFSYNC on macOS.
	FlushFull
)

// String returns the flag spelling of the mode.
func (m FlushMode) String() string {
	switch m {
	case FlushAuto:
		return "auto"
	case FlushDataOnly:
		return "data"
	case FlushFull:
		return "full"
	default:
		return "unknown"
	}
}

// Range represents a dirty byte range (absolute image offsets).
type Range struct {
	Off int64
	Len int64
}

// Tracker accumulates dirty ranges and flushes them efficiently.
//
// NOT thread-safe. Only one goroutine should use it at a time.
type Tracker struct {
	p        *pool.Pool
	ranges   []Range // coalesced at flush time
	pageSize int64
}

// NewTracker creates a dirty tracker for the given pool.
func NewTracker(p *pool.Pool) *Tracker {
	return &Tracker{
		p:        p,
		ranges:   make([]Range, 0, defaultRangeCapacity),
		pageSize: format.PageSize,
	}
}

// Add records a dirty range. It only appends to a slice.
func (t *Tracker) Add(off, length int) {
	if length <= 0 {
		return
	}
	t.ranges = append(t.ranges, Range{
		Off: int64(off),
		Len: int64(length),
	})
}

// Flush writes every dirty page, then the header, honoring mode.
func (t *Tracker) Flush(ctx context.Context, mode FlushMode) error {
	if err := t.FlushDataOnly(ctx); err != nil {
		return err
	}
	return t.FlushHeaderAndMeta(ctx, mode)
}

// FlushDataOnly flushes all dirty ranges and clears them.
//
// The context can be used to cancel the flush. If cancelled midway, some
// ranges may have reached disk while others have not; the ranges are kept so
// a later flush retries them.
func (t *Tracker) FlushDataOnly(ctx context.Context) error {
	if len(t.ranges) == 0 {
		return nil
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	data := t.p.Bytes()
	if len(data) == 0 || t.p.FD() < 0 {
		// in-memory pool: nothing to persist
		t.ranges = t.ranges[:0]
		return nil
	}

	if err := t.flushRanges(ctx, data); err != nil {
		return err
	}

	t.ranges = t.ranges[:0]
	return nil
}

// FlushHeaderAndMeta bumps the header sequence, reseals the checksum, syncs
// the header page and, unless mode is FlushDataOnly, syncs the file.
func (t *Tracker) FlushHeaderAndMeta(ctx context.Context, mode FlushMode) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	data := t.p.Bytes()
	if len(data) == 0 || t.p.ReadOnly() {
		return nil
	}
	t.p.BumpSequence()
	if t.p.FD() < 0 {
		return nil
	}

	headerLen := int(t.pageSize)
	if headerLen > len(data) {
		headerLen = len(data)
	}
	if err := t.flushHeader(data[:headerLen]); err != nil {
		return err
	}

	if err := ctx.Err(); err != nil {
		return err
	}
	if mode == FlushDataOnly {
		return nil
	}
	return t.syncFile(mode == FlushFull)
}

// Reset clears all tracked ranges.
func (t *Tracker) Reset() {
	t.ranges = t.ranges[:0]
}

// DebugRanges returns a copy of the raw, uncoalesced ranges.
func (t *Tracker) DebugRanges() []Range {
	result := make([]Range, len(t.ranges))
	copy(result, t.ranges)
	return result
}

// DebugCoalescedRanges returns the page-aligned, merged ranges that the
// next flush would write.
func (t *Tracker) DebugCoalescedRanges() []Range {
	return t.coalesce()
}

// coalesce page-aligns all ranges, sorts them, and merges overlapping or
// adjacent ranges.
func (t *Tracker) coalesce() []Range {
	if len(t.ranges) == 0 {
		return nil
	}

	aligned := make([]Range, len(t.ranges))
	for i, r := range t.ranges {
		start := (r.Off / t.pageSize) * t.pageSize

		end := r.Off + r.Len
		if end%t.pageSize != 0 {
			end = ((end / t.pageSize) + 1) * t.pageSize
		}

		aligned[i] = Range{
			Off: start,
			Len: end - start,
		}
	}

	sort.Slice(aligned, func(i, j int) bool {
		return aligned[i].Off < aligned[j].Off
	})

	merged := make([]Range, 0, len(aligned))
	current := aligned[0]

	for i := 1; i < len(aligned); i++ {
		next := aligned[i]

		if next.Off <= current.Off+current.Len {
			end := current.Off + current.Len
			nextEnd := next.Off + next.Len
			if nextEnd > end {
				end = nextEnd
			}
			current.Len = end - current.Off
		} else {
			merged = append(merged, current)
			current = next
		}
	}

	merged = append(merged, current)

	return merged
}

// clip bounds r to an image of n bytes. ok is false when nothing remains.
func clip(r Range, n int) (int, int, bool) {
	start := int(r.Off)
	end := int(r.Off + r.Len)
	if end > n {
		end = n
	}
	if start >= end {
		return 0, 0, false
	}
	return start, end, true
}
