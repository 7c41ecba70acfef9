package defrag

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCheckCountersEndsAfterRepeatedIgnores(t *testing.T) {
	pass := PassContext{MaxPassBytes: 8, MaxPassAllocations: 100}

	require.Equal(t, defragCounterPass, pass.checkCounters(8))
	for i := 1; i < defragMaxAllocsToIgnore; i++ {
		require.Equal(t, defragCounterIgnore, pass.checkCounters(16))
	}
	require.Equal(t, defragCounterEnd, pass.checkCounters(16))

	// A move that fits resets the streak
	pass.ignoredAllocs = 3
	require.Equal(t, defragCounterPass, pass.checkCounters(4))
	require.Zero(t, pass.ignoredAllocs)
}

func TestIncrementCountersStopsAtBudget(t *testing.T) {
	pass := PassContext{MaxPassBytes: 16, MaxPassAllocations: 100}

	require.False(t, pass.incrementCounters(8))
	require.True(t, pass.incrementCounters(8))
	require.Equal(t, DefragmentationStats{BytesMoved: 16, AllocationsMoved: 2}, pass.Stats)

	pass = PassContext{MaxPassBytes: 100, MaxPassAllocations: 1}
	require.True(t, pass.incrementCounters(4))
}
