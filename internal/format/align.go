package format

// BlocksFor returns how many slots are needed to hold size bytes.
//
// Example:
//
//	BlocksFor(1)  = 1
//	BlocksFor(8)  = 1
//	BlocksFor(9)  = 2
//	BlocksFor(16) = 2
func BlocksFor(size int) int {
	if size <= 0 {
		return 0
	}
	n := size / BlockSize
	if size%BlockSize != 0 {
		n++
	}
	return n
}

// SlotOffset returns the byte offset of slot i inside a pool image.
func SlotOffset(i int) int {
	return HeaderSize + i*BlockSize
}

// ImageSize returns the total image length for a pool of capacity slots.
func ImageSize(capacity int) int {
	return HeaderSize + capacity*BlockSize
}
