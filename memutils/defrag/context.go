package defrag

import (
	"errors"
	"fmt"

	cerrors "github.com/cockroachdb/errors"
	"github.com/vkngwrapper/brick/memutils/metadata"
)

// MetadataDefragContext is the core of the defragmentation logic for memutils. One of these must be created
// and initialized for each defragmentation run, which will then consist of multiple passes.
//
// A pass is worked by calling BlockListCollectMoves, which plans relocations without modifying the
// BlockList, and then BlockListCompletePass, which applies them in order. The run is complete when
// BlockListCollectMoves plans no moves.
type MetadataDefragContext struct {
	// Algorithm is the defragmentation algorithm that should be used
	Algorithm Algorithm
	// Handler is called for each relocation as part of BlockListCompletePass, and decides whether
	// the relocation goes ahead
	Handler DefragmentOperationHandler
	// BlockList is the memory object this context exists to defragment
	BlockList BlockList

	moves []DefragmentationMove

	// immovable holds the keys of allocations the Handler refused to relocate. They are never
	// proposed again during the run.
	immovable map[metadata.Key]struct{}

	occupied []bool
	regions  []region
}

type region struct {
	start  int
	blocks int
}

// Init sets up this MetadataDefragContext to be used in a fresh defragmentation run. MetadataDefragContext can
// be reused for multiple runs, as long as this method is called prior to beginning each run, including the first
func (c *MetadataDefragContext) Init() error {
	if c.BlockList == nil {
		panic("attempted to init defragmentation context without a block list")
	}
	if c.Handler == nil {
		return errors.New("attempted to init defragmentation context without a relocation handler- relocating an allocation changes its key, so consumers must be told about every move")
	}

	if c.Algorithm == 0 {
		c.Algorithm = AlgorithmFull
	}

	c.moves = c.moves[:0]
	c.immovable = make(map[metadata.Key]struct{})

	return nil
}

// Moves returns the relocations planned by the most recent call to BlockListCollectMoves
func (c *MetadataDefragContext) Moves() []DefragmentationMove {
	return c.moves
}

// BlockListCollectMoves plans the relocations for a single pass, within the budget in pass. The
// BlockList is not modified. It returns true if planning stopped early because the pass budget was
// exhausted.
func (c *MetadataDefragContext) BlockListCollectMoves(pass *PassContext) bool {
	c.moves = c.moves[:0]
	c.collectRegions()

	switch c.Algorithm {
	case AlgorithmFast:
		return c.collectFast(pass)
	case AlgorithmFull:
		return c.collectFull(pass)
	default:
		panic(fmt.Sprintf("attempted to defragment with unknown algorithm: %s", c.Algorithm.String()))
	}
}

// BlockListCompletePass should be called after BlockListCollectMoves. Each planned move is applied
// in order: the metadata is re-keyed, MetadataDefragContext.Handler is consulted, and the BlockList
// moves the bytes. Moves that were invalidated by an earlier refusal in the same pass are dropped
// silently, and will be re-planned in the next pass. Moves refused by the handler, or whose bytes
// could not be moved, are rolled back and subtracted from the pass statistics.
//
// This method will return any errors returned from BlockList.MoveBlocks as a combined error with errors.Join.
func (c *MetadataDefragContext) BlockListCompletePass(pass *PassContext) error {
	var allErrors []error

	for i := 0; i < len(c.moves); i++ {
		move := c.moves[i]

		applied, err := c.applyMove(pass, move)
		if err != nil {
			allErrors = append(allErrors, err)
		}
		if applied {
			continue
		}

		pass.Stats.BytesMoved -= move.Size
		pass.Stats.AllocationsMoved--
	}

	c.moves = c.moves[:0]

	if len(allErrors) == 1 {
		return allErrors[0]
	}

	if len(allErrors) > 0 {
		return errors.Join(allErrors...)
	}

	return nil
}

func (c *MetadataDefragContext) applyMove(pass *PassContext, move DefragmentationMove) (bool, error) {
	mtdata := c.BlockList.Metadata()

	_, err := mtdata.Free(move.SrcKey)
	if err != nil {
		panic(fmt.Sprintf("unexpected error when releasing a planned move's source: %+v", err))
	}

	_, err = mtdata.Alloc(int(move.DstKey), move.Blocks)
	if err != nil {
		// An earlier move in this pass was refused, so the destination is still occupied
		c.mustRestore(mtdata, move.SrcKey, move.Blocks)
		return false, nil
	}

	if c.Handler(move) == DefragmentationMoveIgnore {
		c.mustRelease(mtdata, move.DstKey)
		c.mustRestore(mtdata, move.SrcKey, move.Blocks)
		c.immovable[move.SrcKey] = struct{}{}
		pass.Stats.AllocationsPinned++
		return false, nil
	}

	err = c.BlockList.MoveBlocks(move.SrcKey, move.DstKey, move.Blocks)
	if err != nil {
		c.mustRelease(mtdata, move.DstKey)
		c.mustRestore(mtdata, move.SrcKey, move.Blocks)
		c.immovable[move.SrcKey] = struct{}{}
		return false, cerrors.Wrapf(err, "failed to move %d blocks from key %d to key %d", move.Blocks, move.SrcKey, move.DstKey)
	}

	return true, nil
}

func (c *MetadataDefragContext) mustRelease(mtdata metadata.BlockMetadata, key metadata.Key) {
	_, err := mtdata.Free(key)
	if err != nil {
		panic(fmt.Sprintf("unexpected error when rolling back a move destination: %+v", err))
	}
}

func (c *MetadataDefragContext) mustRestore(mtdata metadata.BlockMetadata, key metadata.Key, blocks int) {
	_, err := mtdata.Alloc(int(key), blocks)
	if err != nil {
		panic(fmt.Sprintf("unexpected error when restoring a move source: %+v", err))
	}
}

func (c *MetadataDefragContext) collectRegions() {
	mtdata := c.BlockList.Metadata()
	blockCount := mtdata.BlockCount()

	if cap(c.occupied) < blockCount {
		c.occupied = make([]bool, blockCount)
	}
	c.occupied = c.occupied[:blockCount]
	c.regions = c.regions[:0]

	err := mtdata.VisitAllRegions(func(key metadata.Key, start int, blocks int, free bool) error {
		for i := start; i < start+blocks; i++ {
			c.occupied[i] = !free
		}

		if !free {
			c.regions = append(c.regions, region{start: start, blocks: blocks})
		}
		return nil
	})
	if err != nil {
		panic(fmt.Sprintf("unexpected error when walking allocations: %+v", err))
	}
}

func (c *MetadataDefragContext) isImmovable(start int) bool {
	_, immovable := c.immovable[metadata.Key(start)]
	return immovable
}

func (c *MetadataDefragContext) planMove(pass *PassContext, src int, dst int, blocks int) bool {
	size := blocks * c.BlockList.BlockSize()
	c.moves = append(c.moves, DefragmentationMove{
		SrcKey: metadata.Key(src),
		DstKey: metadata.Key(dst),
		Blocks: blocks,
		Size:   size,
	})

	return pass.incrementCounters(size)
}

// collectFull slides every movable allocation down to the lowest block not claimed by the
// allocations before it
func (c *MetadataDefragContext) collectFull(pass *PassContext) bool {
	cursor := 0

	for _, r := range c.regions {
		if r.start == cursor || c.isImmovable(r.start) {
			cursor = r.start + r.blocks
			continue
		}

		switch pass.checkCounters(r.blocks * c.BlockList.BlockSize()) {
		case defragCounterIgnore:
			cursor = r.start + r.blocks
			continue
		case defragCounterEnd:
			return true
		}

		if c.planMove(pass, r.start, cursor, r.blocks) {
			return true
		}
		cursor += r.blocks
	}

	return false
}

// collectFast walks allocations from the end of the slab and moves each into the first free run
// that lies entirely below it
func (c *MetadataDefragContext) collectFast(pass *PassContext) bool {
	for i := len(c.regions) - 1; i >= 0; i-- {
		r := c.regions[i]
		if c.isImmovable(r.start) {
			continue
		}

		dst, found := c.findFreeRunBelow(r.blocks, r.start)
		if !found {
			continue
		}

		switch pass.checkCounters(r.blocks * c.BlockList.BlockSize()) {
		case defragCounterIgnore:
			continue
		case defragCounterEnd:
			return true
		}

		for j := dst; j < dst+r.blocks; j++ {
			c.occupied[j] = true
		}

		if c.planMove(pass, r.start, dst, r.blocks) {
			return true
		}
	}

	return false
}

// findFreeRunBelow returns the first run of blocks unoccupied blocks that ends at or before limit
func (c *MetadataDefragContext) findFreeRunBelow(blocks int, limit int) (int, bool) {
	currentRun := 0
	for i := 0; i < limit; i++ {
		if c.occupied[i] {
			currentRun = 0
			continue
		}

		currentRun++
		if currentRun == blocks {
			return i - blocks + 1, true
		}
	}

	return 0, false
}
