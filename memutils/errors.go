package memutils

import "github.com/pkg/errors"

var (
	// ErrAllocationFailure is returned when no contiguous run of free blocks is long enough to hold
	// the requested allocation
	ErrAllocationFailure = errors.New("no free run of blocks large enough for the allocation")
	// ErrZeroSizeAllocation is returned when an allocation of zero (or fewer) bytes is requested
	ErrZeroSizeAllocation = errors.New("allocation size must be greater than 0")
	// ErrInvalidKey is returned when a key does not identify the start of a live allocation
	ErrInvalidKey = errors.New("key does not identify a live allocation")
	// ErrDoubleFree is returned when a key is freed that points at a free block. It wraps
	// ErrInvalidKey, so errors.Is matches either.
	ErrDoubleFree = errors.Wrap(ErrInvalidKey, "key points at a free block")
	// ErrInvalidGeometry is returned from Init when the block geometry or the caller-supplied
	// storage cannot be used
	ErrInvalidGeometry = errors.New("invalid block geometry")
	// ErrNotInitialized is returned when an allocator is used before Init
	ErrNotInitialized = errors.New("allocator has not been initialized")
	// ErrUnreleasedAllocations is returned from Destroy when live allocations remain
	ErrUnreleasedAllocations = errors.New("some allocations were not freed")
)
