package defrag

import "github.com/vkngwrapper/brick/memutils/metadata"

// DefragmentationMoveOperation is returned from a DefragmentOperationHandler to accept or refuse
// a proposed relocation
type DefragmentationMoveOperation uint32

const (
	// DefragmentationMoveCopy accepts the relocation: the allocation's bytes are moved and it is
	// identified by DstKey from then on
	DefragmentationMoveCopy DefragmentationMoveOperation = iota
	// DefragmentationMoveIgnore refuses the relocation. The allocation stays at SrcKey and will not
	// be proposed for relocation again during this run.
	DefragmentationMoveIgnore
)

var moveOperationMapping = map[DefragmentationMoveOperation]string{
	DefragmentationMoveCopy:   "DefragmentationMoveCopy",
	DefragmentationMoveIgnore: "DefragmentationMoveIgnore",
}

func (o DefragmentationMoveOperation) String() string {
	return moveOperationMapping[o]
}

// DefragmentOperationHandler is called once for each relocation, before it is applied. Any handle
// the consumer holds for SrcKey must be replaced with DstKey when DefragmentationMoveCopy is
// returned.
type DefragmentOperationHandler func(move DefragmentationMove) DefragmentationMoveOperation

// DefragmentationMove describes a single relocation of a live allocation within the slab
type DefragmentationMove struct {
	// SrcKey is the allocation's key before the move
	SrcKey metadata.Key
	// DstKey is the allocation's key after the move
	DstKey metadata.Key
	// Blocks is the number of blocks the allocation owns
	Blocks int
	// Size is the number of bytes the allocation owns, Blocks * block size
	Size int
}
