package alloc

import "github.com/joshuapare/blockkit/pool"

// Snapshot is a read-only view of the allocator state.
type Snapshot struct {
	Capacity        int       `json:"capacity"`
	BlockSize       int       `json:"block_size"`
	FirstBlock      int       `json:"first_block"`
	AvailableBlocks int       `json:"available_blocks"`
	ErrNo           ErrorKind `json:"error_no"`
	Chain           []int     `json:"chain"`
	LargestRun      int       `json:"largest_run"`

	// Truncated is set when the chain walk stopped at an out-of-range link
	// or after capacity entries. Validate explains why.
	Truncated bool `json:"truncated,omitempty"`
}

// Snapshot captures the current state of the allocator's pool.
func (a *Allocator) Snapshot() Snapshot { return Inspect(a.p) }

// Chain returns the free list in list order.
func (a *Allocator) Chain() []int { return Inspect(a.p).Chain }

// Inspect captures the state of p without requiring write access, so it works
// on pools opened with pool.OpenReadOnly.
func Inspect(p *pool.Pool) Snapshot {
	s := Snapshot{
		Capacity:        p.Capacity(),
		BlockSize:       BlockSize,
		FirstBlock:      p.First(),
		AvailableBlocks: p.Available(),
		ErrNo:           kindOf(p.Errno()),
		Chain:           []int{},
		LargestRun:      largestRun(p),
	}
	idx := p.First()
	for idx != NullBlock {
		if !p.InRange(idx) || len(s.Chain) == p.Capacity() {
			s.Truncated = true
			break
		}
		s.Chain = append(s.Chain, idx)
		idx = p.Next(idx)
	}
	return s
}

// Runs splits the chain into runs of consecutive indices, in list order.
func (s Snapshot) Runs() []Span {
	var runs []Span
	for i, idx := range s.Chain {
		if i > 0 && idx == s.Chain[i-1]+1 {
			runs[len(runs)-1].Blocks++
			continue
		}
		runs = append(runs, Span{Start: idx, Blocks: 1})
	}
	return runs
}
