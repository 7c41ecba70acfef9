package brick

import (
	"context"
	"math"

	"github.com/cockroachdb/errors"
	"github.com/launchdarkly/go-jsonstream/v3/jwriter"
	"github.com/vkngwrapper/brick/memutils"
	"github.com/vkngwrapper/brick/memutils/metadata"
	"golang.org/x/exp/slog"
)

// Allocator hands out whole-block allocations from a single caller-supplied slab. Allocations
// are identified by a metadata.Key, the index of their first block.
//
// Allocator performs no locking. Consumers that share an Allocator between goroutines must hold
// their own lock around every call, for the full duration of a Defragment run as well.
type Allocator struct {
	logger      *slog.Logger
	createFlags CreateFlags

	metadata    metadata.BlockMetadata
	memory      []byte
	initialized bool
}

// Init binds the allocator to caller-supplied marker storage and memory and resets every marker
// to free. Any allocations made before are discarded without touching memory. Neither slice is
// reallocated or retained beyond numBlocks markers and numBlocks*blockSize bytes, and the caller
// remains responsible for releasing them once the allocator is no longer in use.
//
// markers - Storage for the blocklist: must hold at least numBlocks entries
//
// memory - The slab: must hold at least numBlocks*blockSize bytes
func (a *Allocator) Init(markers []metadata.Marker, memory []byte, numBlocks int, blockSize int) error {
	a.initialized = false
	a.memory = nil

	err := a.metadata.Init(markers, numBlocks, blockSize)
	if err != nil {
		return err
	}

	size := a.metadata.Size()
	if len(memory) < size {
		return errors.Wrapf(memutils.ErrInvalidGeometry, "the slab holds %d bytes, but %d blocks of %d bytes were requested", len(memory), numBlocks, blockSize)
	}

	a.memory = memory[:size:size]
	a.initialized = true

	a.logger.Debug("Allocator::Init", slog.Int("BlockCount", numBlocks), slog.Int("BlockSize", blockSize), slog.String("Flags", a.createFlags.String()))
	return nil
}

// Alloc reserves the first run of free blocks large enough to hold size bytes and returns the key
// of the run's first block. When no run is large enough it returns metadata.NoKey and an error
// matching memutils.ErrAllocationFailure. Requests of zero or fewer bytes return metadata.NoKey
// and an error matching memutils.ErrZeroSizeAllocation.
func (a *Allocator) Alloc(size int) (metadata.Key, error) {
	if !a.initialized {
		return metadata.NoKey, memutils.ErrNotInitialized
	}
	if size <= 0 {
		return metadata.NoKey, errors.Wrapf(memutils.ErrZeroSizeAllocation, "requested %d bytes", size)
	}
	if size > len(a.memory) {
		return metadata.NoKey, errors.Wrapf(memutils.ErrAllocationFailure, "requested %d bytes, but the slab only holds %d", size, len(a.memory))
	}

	blockSize := a.metadata.BlockSize()
	blocks := memutils.BlocksForSize(size, blockSize)

	start, found := a.metadata.FindOpenRun(blocks, math.MaxInt)
	if !found {
		return metadata.NoKey, errors.Wrapf(memutils.ErrAllocationFailure, "requested %d bytes (%d blocks)", size, blocks)
	}

	key, err := a.metadata.Alloc(start, blocks)
	if err != nil {
		return metadata.NoKey, errors.Wrapf(err, "failed to commit a %d-block run at block %d", blocks, start)
	}
	memutils.DebugValidate(a.metadata)

	a.fillAllocation(start*blockSize, blocks*blockSize, createdFillPattern)

	a.logger.Debug("Allocator::Alloc", slog.Int("Size", size), slog.Int("Blocks", blocks), slog.Int("Key", int(key)))
	return key, nil
}

// Free releases the allocation identified by key. It returns an error matching
// memutils.ErrInvalidKey if key is out of range or does not identify the first block of a live
// allocation; freeing a key twice also matches memutils.ErrDoubleFree. The blocklist is left
// unchanged when an error is returned.
//
// When the allocator was created with CreateZeroOnFree, every byte of the allocation's blocks is
// zeroed before the blocks are released.
func (a *Allocator) Free(key metadata.Key) error {
	if !a.initialized {
		return memutils.ErrNotInitialized
	}

	// The span must be measured before any marker is cleared
	blocks, err := a.metadata.RunLength(key)
	if err != nil {
		return errors.Wrapf(err, "failed to free key %d", key)
	}

	blockSize := a.metadata.BlockSize()
	offset := int(key) * blockSize
	if a.createFlags&CreateZeroOnFree != 0 {
		zeroMemory(a.memory[offset : offset+blocks*blockSize])
	} else {
		a.fillAllocation(offset, blocks*blockSize, destroyedFillPattern)
	}

	_, err = a.metadata.Free(key)
	if err != nil {
		return errors.Wrapf(err, "failed to free key %d", key)
	}
	memutils.DebugValidate(a.metadata)

	a.logger.Debug("Allocator::Free", slog.Int("Key", int(key)), slog.Int("Blocks", blocks))
	return nil
}

// Compact is the stop-the-world compaction entry point. The blocklist keeps no free-run
// bookkeeping, so adjacent free blocks are already one run and there is nothing to coalesce.
// Compact never moves live allocations, so every key stays valid; use Defragment to relocate
// allocations with an explicit relocation handler.
func (a *Allocator) Compact() {
	a.logger.Debug("Allocator::Compact", slog.Int("FreeRegions", a.metadata.FreeRegionsCount()))
}

// Bytes returns the portion of the slab owned by the allocation identified by key. The slice
// covers every block of the allocation, so it may be longer than the size originally requested.
// It aliases the slab and is only meaningful until key is freed or relocated.
func (a *Allocator) Bytes(key metadata.Key) ([]byte, error) {
	if !a.initialized {
		return nil, memutils.ErrNotInitialized
	}

	blocks, err := a.metadata.RunLength(key)
	if err != nil {
		return nil, err
	}

	start := int(key) * a.metadata.BlockSize()
	end := start + blocks*a.metadata.BlockSize()
	return a.memory[start:end:end], nil
}

// Metadata returns the BlockMetadata that tracks this allocator's blocks
func (a *Allocator) Metadata() metadata.BlockMetadata {
	return a.metadata
}

// BlockSize returns the size in bytes of each block
func (a *Allocator) BlockSize() int {
	return a.metadata.BlockSize()
}

// Validate performs internal consistency checks on the allocator's metadata
func (a *Allocator) Validate() error {
	if !a.initialized {
		return memutils.ErrNotInitialized
	}
	if len(a.memory) != a.metadata.Size() {
		return errors.Newf("the bound slab holds %d bytes, but the metadata describes %d", len(a.memory), a.metadata.Size())
	}

	return a.metadata.Validate()
}

// Statistics returns the allocator's basic occupancy numbers
func (a *Allocator) Statistics() memutils.Statistics {
	var stats memutils.Statistics
	a.metadata.AddStatistics(&stats)
	return stats
}

// DetailedStatistics returns the allocator's occupancy numbers along with allocation and free run
// size ranges
func (a *Allocator) DetailedStatistics() memutils.DetailedStatistics {
	var stats memutils.DetailedStatistics
	stats.Clear()
	a.metadata.AddDetailedStatistics(&stats)
	return stats
}

// BuildStatsString returns a JSON document describing the allocator's statistics. When
// detailedMap is true, the document also lists every allocation and free run in block order.
func (a *Allocator) BuildStatsString(detailedMap bool) string {
	writer := jwriter.NewWriter()
	objState := writer.Object()

	stats := a.DetailedStatistics()
	totalObj := objState.Name("Total").Object()
	printDetailedStatistics(totalObj, &stats)
	totalObj.End()

	slabObj := objState.Name("Slab").Object()
	slabObj.Name("Flags").String(a.createFlags.String())
	a.metadata.BlockJsonData(slabObj)
	if detailedMap {
		a.printDetailedMap(slabObj)
	}
	slabObj.End()

	objState.End()
	return string(writer.Bytes())
}

func printDetailedStatistics(json jwriter.ObjectState, stats *memutils.DetailedStatistics) {
	json.Name("BlockCount").Int(stats.BlockCount)
	json.Name("UsedBlockCount").Int(stats.UsedBlockCount)
	json.Name("AllocationCount").Int(stats.AllocationCount)
	json.Name("UnusedRangeCount").Int(stats.UnusedRangeCount)
	json.Name("BlockBytes").Int(stats.BlockBytes)
	json.Name("AllocationBytes").Int(stats.AllocationBytes)

	if stats.AllocationCount > 0 {
		json.Name("AllocationSizeMin").Int(stats.AllocationSizeMin)
		json.Name("AllocationSizeMax").Int(stats.AllocationSizeMax)
	}
	if stats.UnusedRangeCount > 0 {
		json.Name("UnusedRangeSizeMin").Int(stats.UnusedRangeSizeMin)
		json.Name("UnusedRangeSizeMax").Int(stats.UnusedRangeSizeMax)
	}
	json.Name("Fragmentation").Float64(stats.Fragmentation())
}

func (a *Allocator) printDetailedMap(json jwriter.ObjectState) {
	arrayState := json.Name("Regions").Array()
	defer arrayState.End()

	blockSize := a.metadata.BlockSize()
	_ = a.metadata.VisitAllRegions(func(key metadata.Key, start int, blocks int, free bool) error {
		obj := arrayState.Object()
		defer obj.End()

		obj.Name("Offset").Int(start * blockSize)
		obj.Name("Size").Int(blocks * blockSize)
		if free {
			obj.Name("Type").String("Free")
		} else {
			obj.Name("Type").String("Allocation")
			obj.Name("Key").Int(int(key))
		}

		return nil
	})
}

// Destroy detaches the allocator from its slab and marker storage. If any allocations are still
// live, each is logged at error level and an error matching memutils.ErrUnreleasedAllocations is
// returned; the allocator is detached either way.
func (a *Allocator) Destroy() error {
	if !a.initialized {
		return nil
	}

	var err error
	if !a.metadata.IsEmpty() {
		visitErr := a.metadata.VisitAllRegions(func(key metadata.Key, start int, blocks int, free bool) error {
			if !free {
				a.logUnreleasedMemory(key, blocks)
			}
			return nil
		})
		if visitErr != nil {
			a.logger.LogAttrs(context.Background(),
				slog.LevelError,
				"[UNRELEASED MEMORY] error while iterating unreleased memory",
				slog.Any("error", visitErr))
		}

		err = errors.Wrapf(memutils.ErrUnreleasedAllocations, "%d allocations were live at destruction", a.metadata.AllocationCount())
	}

	a.metadata.Clear()
	a.memory = nil
	a.initialized = false
	return err
}

func (a *Allocator) logUnreleasedMemory(key metadata.Key, blocks int) {
	blockSize := a.metadata.BlockSize()
	a.logger.LogAttrs(context.Background(), slog.LevelError, "[UNRELEASED MEMORY] unfreed allocation",
		slog.Int("key", int(key)),
		slog.Int("offset", int(key)*blockSize),
		slog.Int("size", blocks*blockSize),
	)
}

func zeroMemory(span []byte) {
	for i := range span {
		span[i] = 0
	}
}
