package dirty

// DirtyTracker is the minimal interface for tracking modified byte ranges of
// a pool image. off is the offset from the start of the image.
type DirtyTracker interface {
	Add(off, length int)
}

// Nop discards every range. It is what the allocator uses for in-memory
// pools when no tracker is supplied.
type Nop struct{}

// Add implements DirtyTracker.
func (Nop) Add(int, int) {}
