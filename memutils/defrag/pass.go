package defrag

import "fmt"

// PassContext is an object used to track data for the current defragmentation
// pass across multiple relocations
type PassContext struct {
	// MaxPassBytes is the maximum number of bytes to relocate in each pass. Allocations larger than the
	// remaining budget are skipped, so a pass may relocate fewer bytes than this even when more moves exist
	MaxPassBytes int
	// MaxPassAllocations is the maximum number of relocations to perform in each pass. Each relocation is
	// reported to the handler, so this bounds how many key changes a consumer must absorb per pass.
	MaxPassAllocations int
	// Stats contains statistics for the current pass, such as bytes moved,
	// allocations moved, etc.
	Stats         DefragmentationStats
	ignoredAllocs int
}

// defragMaxAllocsToIgnore is the number of consecutive over-budget allocations after which
// planning gives up on the pass
const defragMaxAllocsToIgnore = 16

func (p *PassContext) checkCounters(bytes int) defragCounterStatus {
	// Ignore allocation if it will exceed max size for copy
	if p.Stats.BytesMoved+bytes > p.MaxPassBytes {
		p.ignoredAllocs++
		if p.ignoredAllocs < defragMaxAllocsToIgnore {
			return defragCounterIgnore
		}
		return defragCounterEnd
	}

	p.ignoredAllocs = 0
	return defragCounterPass
}

func (p *PassContext) incrementCounters(bytes int) bool {
	p.Stats.BytesMoved += bytes
	p.Stats.AllocationsMoved++

	// Early return when max found
	if p.Stats.AllocationsMoved >= p.MaxPassAllocations || p.Stats.BytesMoved >= p.MaxPassBytes {
		if p.Stats.AllocationsMoved != p.MaxPassAllocations && p.Stats.BytesMoved != p.MaxPassBytes {
			panic(fmt.Sprintf("somehow passed maximum pass thresholds: bytes %d, allocs %d", p.Stats.BytesMoved, p.Stats.AllocationsMoved))
		}

		return true
	}

	return false
}
