package metadata

import (
	"math"

	"github.com/launchdarkly/go-jsonstream/v3/jwriter"
	"github.com/pkg/errors"
	"github.com/vkngwrapper/brick/memutils"
)

// BlockMetadata tracks which fixed-size blocks of a single slab are owned by which allocation. It
// does not touch the slab itself: consumers use the block indices and byte offsets it hands back
// to address their own memory.
//
// BlockMetadata is not safe for concurrent use. Consumers must hold their own lock around every
// call, including read-only ones such as VisitAllRegions.
type BlockMetadata interface {
	// Init binds the metadata to caller-supplied marker storage and sets the block geometry.
	// Every marker in markers[:numBlocks] is reset to MarkerFree, discarding any allocations
	// previously recorded there. The metadata never grows or reallocates markers.
	Init(markers []Marker, numBlocks int, blockSize int) error
	// BlockCount returns the number of blocks the metadata was initialized with
	BlockCount() int
	// BlockSize returns the size in bytes of each block
	BlockSize() int
	// Size returns the size in bytes of the whole slab, BlockCount() * BlockSize()
	Size() int

	// Validate performs internal consistency checks on the metadata. When the implementation is
	// functioning correctly, it should not be possible for this method to return an error.
	Validate() error
	// AllocationCount returns the number of live allocations
	AllocationCount() int
	// FreeRegionsCount returns the number of maximal runs of free blocks
	FreeRegionsCount() int
	// FreeBlockCount returns the number of blocks not owned by any allocation
	FreeBlockCount() int
	// IsEmpty will return true if this slab has no live allocations
	IsEmpty() bool

	// FindOpenRun scans the blocklist from the start and returns the index of the first run of
	// blocksNeeded free blocks. The run is only accepted if it starts at or before maxStart;
	// pass math.MaxInt to accept any position. The boolean is false when no run qualifies.
	FindOpenRun(blocksNeeded int, maxStart int) (int, bool)
	// Alloc marks blocks [start, start+blocks) as owned by a new allocation and returns its key.
	// It returns an error if the range is out of bounds or any block in it is already owned.
	Alloc(start int, blocks int) (Key, error)
	// Free releases the allocation identified by key and returns the number of blocks it
	// owned. The error wraps memutils.ErrInvalidKey if key is out of range or is not the first
	// block of a live allocation, and memutils.ErrDoubleFree if it points at a free block.
	Free(key Key) (int, error)
	// RunLength returns the number of blocks owned by the allocation identified by key
	RunLength(key Key) (int, error)
	// AllocationOffset returns the byte offset within the slab of the allocation identified by key
	AllocationOffset(key Key) (int, error)

	// VisitAllRegions calls handleRegion once for each allocation and each maximal free run,
	// in block order. For free runs, key is the index of the run's first block.
	VisitAllRegions(handleRegion func(key Key, start int, blocks int, free bool) error) error
	// AllocationListBegin returns the key of the lowest allocation in the slab, or NoKey if the
	// slab is empty
	AllocationListBegin() (Key, error)
	// FindNextAllocation returns the key of the allocation that follows key in block order, or
	// NoKey if there is none. key must identify a live allocation.
	FindNextAllocation(key Key) (Key, error)

	// AddDetailedStatistics sums this slab's allocation statistics into the provided object
	AddDetailedStatistics(stats *memutils.DetailedStatistics)
	// AddStatistics sums this slab's allocation statistics into the provided object
	AddStatistics(stats *memutils.Statistics)

	// Clear instantly frees all allocations
	Clear()
	// BlockJsonData populates a json object with information about this slab
	BlockJsonData(json jwriter.ObjectState)
}

// BlockMetadataBase holds the blocklist and geometry shared by the BlockMetadata implementations
// in this package, along with the run search and region walk that do not depend on how run
// lengths are recovered.
type BlockMetadataBase struct {
	markers   []Marker
	numBlocks int
	blockSize int

	allocationCount int
	usedBlockCount  int
}

// Init validates the geometry against the supplied storage, binds markers[:numBlocks] and resets
// every marker to MarkerFree.
func (m *BlockMetadataBase) Init(markers []Marker, numBlocks int, blockSize int) error {
	if numBlocks <= 0 {
		return errors.Wrapf(memutils.ErrInvalidGeometry, "block count must be positive, got %d", numBlocks)
	}
	if blockSize <= 0 {
		return errors.Wrapf(memutils.ErrInvalidGeometry, "block size must be positive, got %d", blockSize)
	}
	if uint64(numBlocks) >= uint64(NoKey) {
		return errors.Wrapf(memutils.ErrInvalidGeometry, "block count %d cannot be addressed by a Key", numBlocks)
	}
	if numBlocks > math.MaxInt/blockSize {
		return errors.Wrapf(memutils.ErrInvalidGeometry, "%d blocks of %d bytes overflows the addressable size", numBlocks, blockSize)
	}
	if len(markers) < numBlocks {
		return errors.Wrapf(memutils.ErrInvalidGeometry, "marker storage holds %d markers, but %d blocks were requested", len(markers), numBlocks)
	}

	m.markers = markers[:numBlocks]
	m.numBlocks = numBlocks
	m.blockSize = blockSize
	m.reset()

	return nil
}

func (m *BlockMetadataBase) reset() {
	for i := range m.markers {
		m.markers[i] = MarkerFree
	}
	m.allocationCount = 0
	m.usedBlockCount = 0
}

func (m *BlockMetadataBase) BlockCount() int { return m.numBlocks }

func (m *BlockMetadataBase) BlockSize() int { return m.blockSize }

func (m *BlockMetadataBase) Size() int { return m.numBlocks * m.blockSize }

func (m *BlockMetadataBase) AllocationCount() int { return m.allocationCount }

func (m *BlockMetadataBase) FreeBlockCount() int { return m.numBlocks - m.usedBlockCount }

func (m *BlockMetadataBase) IsEmpty() bool { return m.allocationCount == 0 }

// Markers returns the bound blocklist. The slice aliases the caller-supplied storage and must not
// be modified.
func (m *BlockMetadataBase) Markers() []Marker { return m.markers }

func (m *BlockMetadataBase) markerForBlock(index int) Marker {
	return markerForOffset(index * m.blockSize)
}

func (m *BlockMetadataBase) blockForMarker(marker Marker) int {
	return marker.Offset() / m.blockSize
}

// FindOpenRun returns the first run of blocksNeeded free blocks, first-fit, scanning from block 0.
func (m *BlockMetadataBase) FindOpenRun(blocksNeeded int, maxStart int) (int, bool) {
	if blocksNeeded <= 0 || blocksNeeded > m.numBlocks {
		return 0, false
	}

	currentRun := 0
	for i, marker := range m.markers {
		if !marker.IsFree() {
			currentRun = 0
			continue
		}

		currentRun++
		if currentRun == blocksNeeded {
			start := i - blocksNeeded + 1
			// Later runs can only start further along
			if start > maxStart {
				return 0, false
			}
			return start, true
		}
	}

	return 0, false
}

// markRun commits an allocation over [start, start+blocks) after verifying every block is free
func (m *BlockMetadataBase) markRun(start int, blocks int) (Key, error) {
	if blocks <= 0 {
		return NoKey, errors.Errorf("attempted to allocate a run of %d blocks", blocks)
	}
	if start < 0 || start+blocks > m.numBlocks {
		return NoKey, errors.Errorf("run [%d, %d) is outside of the %d-block slab", start, start+blocks, m.numBlocks)
	}

	for i := start; i < start+blocks; i++ {
		if !m.markers[i].IsFree() {
			return NoKey, errors.Errorf("attempted to allocate block %d, which is owned by the allocation at block %d", i, m.blockForMarker(m.markers[i]))
		}
	}

	marker := m.markerForBlock(start)
	for i := start; i < start+blocks; i++ {
		m.markers[i] = marker
	}

	m.allocationCount++
	m.usedBlockCount += blocks
	return Key(start), nil
}

func (m *BlockMetadataBase) clearRun(start int, blocks int) {
	for i := start; i < start+blocks; i++ {
		m.markers[i] = MarkerFree
	}

	m.allocationCount--
	m.usedBlockCount -= blocks
}

// checkKey verifies that key is the first block of a live allocation and returns its marker
func (m *BlockMetadataBase) checkKey(key Key) (Marker, error) {
	if uint64(key) >= uint64(m.numBlocks) {
		return MarkerFree, errors.Wrapf(memutils.ErrInvalidKey, "key %d is out of range for %d blocks", key, m.numBlocks)
	}

	marker := m.markers[key]
	if marker.IsFree() {
		return MarkerFree, errors.Wrapf(memutils.ErrDoubleFree, "key %d", key)
	}

	if marker != m.markerForBlock(int(key)) {
		return MarkerFree, errors.Wrapf(memutils.ErrInvalidKey, "key %d is inside the allocation starting at block %d", key, m.blockForMarker(marker))
	}

	return marker, nil
}

// scanRunLength counts the blocks from start that share the marker at start
func (m *BlockMetadataBase) scanRunLength(start int) int {
	marker := m.markers[start]
	end := start
	for end < m.numBlocks && m.markers[end] == marker {
		end++
	}

	return end - start
}

func (m *BlockMetadataBase) AllocationOffset(key Key) (int, error) {
	_, err := m.checkKey(key)
	if err != nil {
		return 0, err
	}

	return int(key) * m.blockSize, nil
}

func (m *BlockMetadataBase) VisitAllRegions(handleRegion func(key Key, start int, blocks int, free bool) error) error {
	for start := 0; start < m.numBlocks; {
		blocks := m.scanRunLength(start)
		err := handleRegion(Key(start), start, blocks, m.markers[start].IsFree())
		if err != nil {
			return err
		}

		start += blocks
	}

	return nil
}

func (m *BlockMetadataBase) FreeRegionsCount() int {
	var count int
	_ = m.VisitAllRegions(func(key Key, start int, blocks int, free bool) error {
		if free {
			count++
		}
		return nil
	})

	return count
}

func (m *BlockMetadataBase) nextAllocationFrom(index int) Key {
	for ; index < m.numBlocks; index++ {
		if !m.markers[index].IsFree() {
			return Key(index)
		}
	}

	return NoKey
}

func (m *BlockMetadataBase) AllocationListBegin() (Key, error) {
	return m.nextAllocationFrom(0), nil
}

func (m *BlockMetadataBase) FindNextAllocation(key Key) (Key, error) {
	_, err := m.checkKey(key)
	if err != nil {
		return NoKey, err
	}

	return m.nextAllocationFrom(int(key) + m.scanRunLength(int(key))), nil
}

// validateMarkers checks the shared-marker invariant: every run of equal non-free markers begins
// at the block its marker names, and the cached counters match the blocklist.
func (m *BlockMetadataBase) validateMarkers() error {
	if len(m.markers) != m.numBlocks {
		return errors.Errorf("the blocklist holds %d markers, but the metadata has %d blocks", len(m.markers), m.numBlocks)
	}

	var allocationCount, usedBlockCount int
	err := m.VisitAllRegions(func(key Key, start int, blocks int, free bool) error {
		if free {
			return nil
		}

		marker := m.markers[start]
		offset := marker.Offset()
		if offset%m.blockSize != 0 {
			return errors.Errorf("the run at block %d has marker offset %d, which is not aligned to the %d-byte block size", start, offset, m.blockSize)
		}
		if offset >= m.Size() {
			return errors.Errorf("the run at block %d has marker offset %d, which is past the end of the %d-byte slab", start, offset, m.Size())
		}
		if m.blockForMarker(marker) != start {
			return errors.Errorf("the run at block %d carries the marker of block %d", start, m.blockForMarker(marker))
		}

		allocationCount++
		usedBlockCount += blocks
		return nil
	})
	if err != nil {
		return err
	}

	if allocationCount != m.allocationCount {
		return errors.Errorf("counted %d allocations in the blocklist, but metadata indicates we should have %d", allocationCount, m.allocationCount)
	}
	if usedBlockCount != m.usedBlockCount {
		return errors.Errorf("counted %d used blocks in the blocklist, but metadata indicates we should have %d", usedBlockCount, m.usedBlockCount)
	}

	return nil
}

func (m *BlockMetadataBase) AddDetailedStatistics(stats *memutils.DetailedStatistics) {
	stats.BlockCount += m.numBlocks
	stats.BlockBytes += m.Size()
	stats.UsedBlockCount += m.usedBlockCount

	_ = m.VisitAllRegions(func(key Key, start int, blocks int, free bool) error {
		if free {
			stats.AddUnusedRange(blocks * m.blockSize)
		} else {
			stats.AddAllocation(blocks * m.blockSize)
		}

		return nil
	})
}

func (m *BlockMetadataBase) AddStatistics(stats *memutils.Statistics) {
	stats.BlockCount += m.numBlocks
	stats.BlockBytes += m.Size()
	stats.UsedBlockCount += m.usedBlockCount
	stats.AllocationCount += m.allocationCount
	stats.AllocationBytes += m.usedBlockCount * m.blockSize
}

// WriteBlockJson writes the summary fields shared by every implementation
func (m *BlockMetadataBase) WriteBlockJson(json jwriter.ObjectState, unusedBytes, allocationCount, unusedRangeCount int) {
	json.Name("TotalBytes").Int(m.Size())
	json.Name("BlockSize").Int(m.blockSize)
	json.Name("Blocks").Int(m.numBlocks)
	json.Name("UnusedBytes").Int(unusedBytes)
	json.Name("Allocations").Int(allocationCount)
	json.Name("UnusedRanges").Int(unusedRangeCount)
}

func (m *BlockMetadataBase) BlockJsonData(json jwriter.ObjectState) {
	unusedBytes := (m.numBlocks - m.usedBlockCount) * m.blockSize
	m.WriteBlockJson(json, unusedBytes, m.allocationCount, m.FreeRegionsCount())
}
