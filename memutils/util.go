package memutils

// RoundUp returns the smallest multiple of multiple that is greater than or equal to value. For
// non-negative values it returns 0 only when value is 0. multiple may be any positive number, not
// just a power of two.
func RoundUp(value int, multiple int) int {
	if multiple <= 0 {
		panic("memutils.RoundUp: multiple must be positive")
	}

	remainder := value % multiple
	if remainder <= 0 {
		return value - remainder
	}

	return value + multiple - remainder
}

// BlocksForSize returns the number of whole blocks of blockSize bytes required to hold size bytes
func BlocksForSize(size int, blockSize int) int {
	return RoundUp(size, blockSize) / blockSize
}
