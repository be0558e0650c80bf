package alloc

import "sync"

// Locked serializes access to an Allocator with a mutex.
type Locked struct {
	sync.Mutex
	a *Allocator
}

// NewLocked wraps a.
func NewLocked(a *Allocator) *Locked {
	return &Locked{a: a}
}

// Allocate calls Allocator.Allocate under the lock.
func (l *Locked) Allocate(size int) (int, error) {
	l.Lock()
	defer l.Unlock()
	return l.a.Allocate(size)
}

// AllocateSpan calls Allocator.AllocateSpan under the lock.
func (l *Locked) AllocateSpan(size int) (Span, error) {
	l.Lock()
	defer l.Unlock()
	return l.a.AllocateSpan(size)
}

// Free calls Allocator.Free under the lock.
func (l *Locked) Free(addr, size int) error {
	l.Lock()
	defer l.Unlock()
	return l.a.Free(addr, size)
}

// Reorder calls Allocator.Reorder under the lock.
func (l *Locked) Reorder() int {
	l.Lock()
	defer l.Unlock()
	return l.a.Reorder()
}

// Initialize calls Allocator.Initialize under the lock.
func (l *Locked) Initialize() {
	l.Lock()
	defer l.Unlock()
	l.a.Initialize()
}

// Snapshot returns a consistent view of the allocator.
func (l *Locked) Snapshot() Snapshot {
	l.Lock()
	defer l.Unlock()
	return l.a.Snapshot()
}

// Validate calls Allocator.Validate under the lock.
func (l *Locked) Validate() error {
	l.Lock()
	defer l.Unlock()
	return l.a.Validate()
}

// Stats returns a copy of the counters.
func (l *Locked) Stats() Stats {
	l.Lock()
	defer l.Unlock()
	return l.a.Stats()
}

// Do runs fn while holding the lock, for sequences that must not interleave
// with other callers, such as a mutation followed by a flush.
func (l *Locked) Do(fn func(a *Allocator) error) error {
	l.Lock()
	defer l.Unlock()
	return fn(l.a)
}
