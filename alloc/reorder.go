package alloc

import "github.com/joshuapare/blockkit/internal/logger"

// Reorder sorts the free list by ascending slot index, relinking slots in
// place. It repeats bubble passes until one pass makes no swap and returns
// the total number of swaps. The set of free slots and the available counter
// are unchanged.
//
// Each pass keeps a window of three links: the predecessor k (or the list
// head), the current slot j, and its successor i. When j > i the two are
// swapped:
//
//	before: k → j → i → x
//	after:  k → i → j → x
//
// and the window moves to (i, j, x). Otherwise it slides one link forward.
// A pass ends when j has no successor.
func (a *Allocator) Reorder() int {
	total := 0
	passes := 0
	for {
		swaps := a.reorderPass()
		passes++
		total += swaps
		if swaps == 0 {
			break
		}
	}
	a.stats.ReorderPasses += passes
	a.stats.ReorderSwaps += total
	if logAlloc {
		logger.Debug("alloc: reorder", "passes", passes, "swaps", total, "first", a.p.First())
	}
	return total
}

func (a *Allocator) reorderPass() int {
	j := a.p.First()
	if !a.p.InRange(j) {
		return 0
	}
	k := NullBlock
	i := a.p.Next(j)
	swaps := 0
	for a.p.InRange(i) {
		if j < i {
			k, j, i = j, i, a.p.Next(i)
			continue
		}
		a.setNext(j, a.p.Next(i))
		a.setNext(i, j)
		if k == NullBlock {
			a.setFirst(i)
		} else {
			a.setNext(k, i)
		}
		swaps++
		k = i
		i = a.p.Next(j)
	}
	return swaps
}
