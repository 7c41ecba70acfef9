package brick

import (
	"math"

	"github.com/cockroachdb/errors"
	"github.com/vkngwrapper/brick/memutils"
	"github.com/vkngwrapper/brick/memutils/defrag"
	"github.com/vkngwrapper/brick/memutils/metadata"
	"golang.org/x/exp/slog"
)

// DefragmentationFlags is a set of bitflags that specify behavior for the DefragmentationContext
type DefragmentationFlags uint32

const (
	// DefragmentationFlagAlgorithmFast indicates that the DefragmentationContext should only move an
	// allocation into a free run that lies entirely below it. It leaves gaps that are smaller than
	// the allocations above them. It is not compatible with DefragmentationFlagAlgorithmFull
	DefragmentationFlagAlgorithmFast DefragmentationFlags = 1 << iota
	// DefragmentationFlagAlgorithmFull indicates that the DefragmentationContext should slide every
	// allocation down against the one before it, so that the free blocks end up in a single run at
	// the end of the slab.
	//
	// This is the default algorithm if none is specified. It is not compatible with DefragmentationFlagAlgorithmFast
	DefragmentationFlagAlgorithmFull

	DefragmentationFlagAlgorithmMask = DefragmentationFlagAlgorithmFast |
		DefragmentationFlagAlgorithmFull
)

var defragmentationFlagsMapping = map[DefragmentationFlags]string{
	DefragmentationFlagAlgorithmFast: "DefragmentationFlagAlgorithmFast",
	DefragmentationFlagAlgorithmFull: "DefragmentationFlagAlgorithmFull",
}

func (f DefragmentationFlags) String() string {
	return defragmentationFlagsMapping[f]
}

// DefragmentationInfo is used to specify options for a defragmentation run when populating a
// DefragmentationContext.
type DefragmentationInfo struct {
	// Flags specifies optional DefragmentationFlags
	Flags DefragmentationFlags

	// MaxBytesPerPass is the maximum number of bytes to relocate in each pass. If zero, passes are
	// not limited by size.
	MaxBytesPerPass int
	// MaxAllocationsPerPass is the maximum number of allocations to relocate in each pass. If zero,
	// passes are not limited by count.
	MaxAllocationsPerPass int
}

// DefragmentationContext is an object that represents a single run of the defragmentation algorithm over an
// Allocator's slab. The run consists of one or more passes, each of which is begun with BeginDefragPass and
// ended with EndDefragPass. The Allocator must not be used for anything else between BeginDefragmentation and
// Finish. DefragmentationContext objects can be reused for multiple defragmentation runs.
type DefragmentationContext struct {
	MaxPassBytes       int
	MaxPassAllocations int

	context defrag.MetadataDefragContext
	logger  *slog.Logger
	pass    defrag.PassContext
	stats   defrag.DefragmentationStats
}

// BeginDefragmentation populates defragContext for a new defragmentation run over this allocator.
//
// handler is called once for each relocation before it is applied, and may refuse it by returning
// defrag.DefragmentationMoveIgnore. Once a relocation is accepted, the allocation's old key is no
// longer valid: every handle the consumer holds must be replaced with move.DstKey.
func (a *Allocator) BeginDefragmentation(o DefragmentationInfo, handler defrag.DefragmentOperationHandler, defragContext *DefragmentationContext) error {
	if !a.initialized {
		return memutils.ErrNotInitialized
	}
	if defragContext == nil {
		panic("attempted to begin defragmentation with a nil context")
	}

	defragContext.MaxPassBytes = o.MaxBytesPerPass
	defragContext.MaxPassAllocations = o.MaxAllocationsPerPass

	if defragContext.MaxPassBytes == 0 {
		defragContext.MaxPassBytes = math.MaxInt
	}

	if defragContext.MaxPassAllocations == 0 {
		defragContext.MaxPassAllocations = math.MaxInt
	}

	defragContext.logger = a.logger
	defragContext.stats = defrag.DefragmentationStats{}
	defragContext.context.BlockList = &slabBlockList{allocator: a}
	defragContext.context.Handler = handler

	switch o.Flags & DefragmentationFlagAlgorithmMask {
	case DefragmentationFlagAlgorithmFast:
		defragContext.context.Algorithm = defrag.AlgorithmFast
	case DefragmentationFlagAlgorithmFull, 0:
		defragContext.context.Algorithm = defrag.AlgorithmFull
	default:
		return errors.Newf("unknown defragmentation algorithm: %d", o.Flags&DefragmentationFlagAlgorithmMask)
	}

	a.logger.Debug("Allocator::BeginDefragmentation", slog.String("Algorithm", defragContext.context.Algorithm.String()))
	return defragContext.context.Init()
}

// BeginDefragPass plans the relocations for a single pass of the defragmentation run and returns them.
// Nothing has been moved when this method returns. An empty result means the run is complete.
func (c *DefragmentationContext) BeginDefragPass() []defrag.DefragmentationMove {
	c.pass = defrag.PassContext{
		MaxPassBytes:       c.MaxPassBytes,
		MaxPassAllocations: c.MaxPassAllocations,
	}

	c.context.BlockListCollectMoves(&c.pass)
	moves := c.context.Moves()

	c.logger.Debug("DefragmentationContext::BeginDefragPass", slog.Int("Moves", len(moves)))
	return moves
}

// EndDefragPass applies the relocations planned by BeginDefragPass, calling the handler for each.
//
// This method will return any error that occurred while moving bytes. Otherwise, it will return true if the
// defragmentation run has ended after this pass, or false if additional passes are necessary.
func (c *DefragmentationContext) EndDefragPass() (bool, error) {
	if len(c.context.Moves()) == 0 {
		c.logger.Debug("DefragmentationContext::EndDefragPass", slog.Bool("Done", true))
		return true, nil
	}

	err := c.context.BlockListCompletePass(&c.pass)
	c.stats.Add(c.pass.Stats)
	memutils.DebugValidate(c.context.BlockList.Metadata())

	c.logger.Debug("DefragmentationContext::EndDefragPass",
		slog.Bool("Done", false),
		slog.Int("AllocationsMoved", c.pass.Stats.AllocationsMoved),
		slog.Int("BytesMoved", c.pass.Stats.BytesMoved))
	return false, err
}

// Finish reports the statistics for the whole run. This should be called whenever EndDefragPass returns true.
func (c *DefragmentationContext) Finish(outStats *defrag.DefragmentationStats) {
	c.logger.Debug("DefragmentationContext::Finish",
		slog.Int("AllocationsMoved", c.stats.AllocationsMoved),
		slog.Int("AllocationsPinned", c.stats.AllocationsPinned))

	if outStats != nil {
		*outStats = c.stats
	}
}

// Defragment performs a complete defragmentation run, passing every relocation to handler, and
// returns the statistics for the run. Errors from individual passes do not stop the run: the
// allocations involved are left in place and the errors are returned together once the run ends.
func (a *Allocator) Defragment(o DefragmentationInfo, handler defrag.DefragmentOperationHandler) (defrag.DefragmentationStats, error) {
	var defragContext DefragmentationContext
	err := a.BeginDefragmentation(o, handler, &defragContext)
	if err != nil {
		return defrag.DefragmentationStats{}, err
	}

	var passErrors error
	for {
		defragContext.BeginDefragPass()

		done, err := defragContext.EndDefragPass()
		if err != nil {
			passErrors = errors.CombineErrors(passErrors, err)
		}
		if done {
			break
		}
	}

	var stats defrag.DefragmentationStats
	defragContext.Finish(&stats)
	return stats, passErrors
}

// slabBlockList exposes an Allocator's slab to the defragmentation context
type slabBlockList struct {
	allocator *Allocator
}

var _ defrag.BlockList = &slabBlockList{}

func (l *slabBlockList) Metadata() metadata.BlockMetadata {
	return l.allocator.metadata
}

func (l *slabBlockList) BlockSize() int {
	return l.allocator.metadata.BlockSize()
}

func (l *slabBlockList) MoveBlocks(src metadata.Key, dst metadata.Key, blocks int) error {
	a := l.allocator
	blockSize := a.metadata.BlockSize()
	size := blocks * blockSize
	srcOffset := int(src) * blockSize
	dstOffset := int(dst) * blockSize

	if blocks <= 0 || srcOffset+size > len(a.memory) || dstOffset+size > len(a.memory) {
		return errors.Wrapf(memutils.ErrInvalidKey, "cannot move %d blocks from %d to %d in a %d-block slab", blocks, src, dst, a.metadata.BlockCount())
	}

	if src == dst {
		return nil
	}

	copy(a.memory[dstOffset:dstOffset+size], a.memory[srcOffset:srcOffset+size])

	// Only the source bytes the destination did not overwrite are vacated
	vacatedStart, vacatedEnd := srcOffset, srcOffset+size
	if dstOffset < srcOffset && dstOffset+size > vacatedStart {
		vacatedStart = dstOffset + size
	} else if dstOffset > srcOffset && dstOffset < vacatedEnd {
		vacatedEnd = dstOffset
	}

	if vacatedStart < vacatedEnd {
		if a.createFlags&CreateZeroOnFree != 0 {
			zeroMemory(a.memory[vacatedStart:vacatedEnd])
		} else {
			a.fillAllocation(vacatedStart, vacatedEnd-vacatedStart, destroyedFillPattern)
		}
	}

	a.logger.Debug("Allocator::MoveBlocks", slog.Int("Src", int(src)), slog.Int("Dst", int(dst)), slog.Int("Blocks", blocks))
	return nil
}
