//go:build !debug_init_allocs

package brick

const (
	// InitializeAllocs causes all new allocations to be filled with deterministic data, and all
	// freed allocations to be overwritten with a second pattern unless CreateZeroOnFree is set.
	// It is only true when built with the debug_init_allocs build tag.
	InitializeAllocs bool = false
)

func (a *Allocator) fillAllocation(offset int, size int, pattern uint8) {}
