//go:build debug_init_allocs

package brick

const (
	// InitializeAllocs causes all new allocations to be filled with deterministic data, and all
	// freed allocations to be overwritten with a second pattern unless CreateZeroOnFree is set.
	// If you are concerned that reading uninitialized or stale memory is causing a bug, you can
	// activate this to help diagnose the issue. It impacts performance and should generally be
	// left deactivated.
	InitializeAllocs bool = true
)

func (a *Allocator) fillAllocation(offset int, size int, pattern uint8) {
	span := a.memory[offset : offset+size]
	for i := range span {
		span[i] = pattern
	}
}
