package metadata

import "math"

// Key is the handle for a live allocation: the index of the first block of its run. Keys are
// reissued once the allocation they name has been freed.
type Key uint32

const (
	// NoKey is returned in place of a Key when no allocation could be made or found. It is
	// distinct from every valid block index, including 0.
	NoKey Key = math.MaxUint32
)

// Marker is the per-block occupancy cell of the blocklist. A block is either MarkerFree or holds
// the marker of the run that owns it; every block of a run holds the same marker.
type Marker uint64

const (
	// MarkerFree is the marker for a block that no allocation owns
	MarkerFree Marker = 0
)

// markerForOffset encodes the byte offset of a run's first block. The offset is shifted by one so
// that the run starting at offset 0 does not collide with MarkerFree.
func markerForOffset(offset int) Marker {
	return Marker(offset) + 1
}

// Offset returns the byte offset within the slab of the first block of the run that owns this
// marker. It returns -1 for MarkerFree.
func (m Marker) Offset() int {
	return int(m) - 1
}

// IsFree returns true if the marker is MarkerFree
func (m Marker) IsFree() bool {
	return m == MarkerFree
}
