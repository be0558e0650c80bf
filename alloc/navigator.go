package alloc

import "github.com/joshuapare/blockkit/pool"

// RunLength returns how many slots, starting at start and following the
// list, carry consecutive indices. The count starts at 1 and stops at the
// first link that is not exactly one greater, or at the end of the list.
//
// start must be on the free list; 0 is returned when it is NullBlock or out
// of range.
func (a *Allocator) RunLength(start int) int {
	return runLength(a.p, start)
}

// LargestRun returns the longest run of index-adjacent links anywhere on the
// free list, or 0 when the list is empty.
func (a *Allocator) LargestRun() int {
	return largestRun(a.p)
}

// RunLengthAt is RunLength for a pool without an allocator, such as one
// opened with pool.OpenReadOnly.
func RunLengthAt(p *pool.Pool, start int) int {
	return runLength(p, start)
}

func runLength(p *pool.Pool, start int) int {
	if !p.InRange(start) {
		return 0
	}
	n := 1
	cur := start
	for {
		next := p.Next(cur)
		if next != cur+1 || !p.InRange(next) {
			return n
		}
		n++
		cur = next
	}
}

// largestRun walks at most capacity slots so a corrupted image cannot hang it.
func largestRun(p *pool.Pool) int {
	cur := p.First()
	if !p.InRange(cur) {
		return 0
	}
	best, run := 1, 1
	for steps := 1; steps < p.Capacity(); steps++ {
		next := p.Next(cur)
		if !p.InRange(next) {
			break
		}
		if next == cur+1 {
			run++
		} else {
			run = 1
		}
		best = max(best, run)
		cur = next
	}
	return best
}
