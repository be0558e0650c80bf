//go:build !linux && !darwin

package dirty

import "context"

// flushRanges writes each coalesced range back to the file; the pool is an
// in-memory copy on these platforms.
func (t *Tracker) flushRanges(ctx context.Context, data []byte) error {
	for _, r := range t.coalesce() {
		if err := ctx.Err(); err != nil {
			return err
		}
		start, end, ok := clip(r, len(data))
		if !ok {
			continue
		}
		if err := t.p.WriteBack(start, end-start); err != nil {
			return err
		}
	}
	return nil
}

func (t *Tracker) flushHeader(header []byte) error {
	return t.p.WriteBack(0, len(header))
}

func (t *Tracker) syncFile(_ bool) error {
	return t.p.Sync()
}
