package defrag

import "github.com/vkngwrapper/brick/memutils/metadata"

// BlockList is the memory object a MetadataDefragContext relocates allocations within
type BlockList interface {
	// Metadata returns the BlockMetadata tracking the slab's blocks
	Metadata() metadata.BlockMetadata
	// BlockSize returns the size in bytes of each block
	BlockSize() int
	// MoveBlocks copies blocks worth of bytes from the blocks starting at src to the blocks
	// starting at dst. The ranges may overlap. It must not modify the metadata.
	MoveBlocks(src metadata.Key, dst metadata.Key, blocks int) error
}
