package alloc

import (
	"fmt"

	"github.com/joshuapare/blockkit/pool"
)

// Validate checks the free list of the allocator's pool. See Check.
func (a *Allocator) Validate() error { return Check(a.p) }

// Check verifies the free-list invariants of p and returns the first
// violation, wrapped in ErrCorrupt:
//
//   - the head and every link are NullBlock or a valid slot index
//   - no slot appears twice (which also rules out cycles)
//   - the list length equals the available counter
//   - the list is empty exactly when available is zero
func Check(p *pool.Pool) error {
	capacity := p.Capacity()
	avail := p.Available()
	first := p.First()

	if avail < 0 || avail > capacity {
		return fmt.Errorf("%w: available %d outside [0, %d]", ErrCorrupt, avail, capacity)
	}
	if first == NullBlock {
		if avail != 0 {
			return fmt.Errorf("%w: empty list but available is %d", ErrCorrupt, avail)
		}
		return nil
	}
	if !p.InRange(first) {
		return fmt.Errorf("%w: first block %d out of range", ErrCorrupt, first)
	}

	seen := make([]bool, capacity)
	count := 0
	prev := NullBlock
	for idx := first; idx != NullBlock; idx = p.Next(idx) {
		if !p.InRange(idx) {
			return fmt.Errorf("%w: slot %d links to %d, out of range", ErrCorrupt, prev, idx)
		}
		if seen[idx] {
			return fmt.Errorf("%w: slot %d reached twice", ErrCorrupt, idx)
		}
		seen[idx] = true
		count++
		prev = idx
	}
	if count != avail {
		return fmt.Errorf("%w: list holds %d slots, available is %d", ErrCorrupt, count, avail)
	}
	return nil
}
