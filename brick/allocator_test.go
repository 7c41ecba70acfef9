package brick_test

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/vkngwrapper/brick/brick"
	"github.com/vkngwrapper/brick/memutils"
	"github.com/vkngwrapper/brick/memutils/metadata"
	"golang.org/x/exp/slog"
)

var algorithms = []struct {
	name  string
	flags brick.CreateFlags
}{
	{name: "Blocklist", flags: 0},
	{name: "RunLength", flags: brick.CreateRunLengthAlgorithm},
}

func readyAllocator(t *testing.T, options brick.CreateOptions, numBlocks int, blockSize int) (*brick.Allocator, []byte) {
	allocator := brick.New(nil, options)
	memory := make([]byte, numBlocks*blockSize)
	require.NoError(t, allocator.Init(make([]metadata.Marker, numBlocks), memory, numBlocks, blockSize))
	return allocator, memory
}

func writeString(t *testing.T, allocator *brick.Allocator, key metadata.Key, value string) {
	span, err := allocator.Bytes(key)
	require.NoError(t, err)
	require.GreaterOrEqual(t, len(span), len(value))
	copy(span, value)
}

func TestAllocateFourBlocks(t *testing.T) {
	for _, algorithm := range algorithms {
		t.Run(algorithm.name, func(t *testing.T) {
			allocator, _ := readyAllocator(t, brick.CreateOptions{Flags: algorithm.flags}, 4, 64)

			key, err := allocator.Alloc(5)
			require.NoError(t, err)
			require.Equal(t, metadata.Key(0), key)

			key, err = allocator.Alloc(130)
			require.NoError(t, err)
			require.Equal(t, metadata.Key(1), key)

			key, err = allocator.Alloc(1)
			require.ErrorIs(t, err, memutils.ErrAllocationFailure)
			require.Equal(t, metadata.NoKey, key)

			require.NoError(t, allocator.Free(0))
			require.Equal(t, 1, allocator.Metadata().FreeBlockCount())

			blocks, err := allocator.Metadata().RunLength(1)
			require.NoError(t, err)
			require.Equal(t, 3, blocks)

			key, err = allocator.Alloc(64)
			require.NoError(t, err)
			require.Equal(t, metadata.Key(0), key)

			require.NoError(t, allocator.Validate())
		})
	}
}

func TestZeroOnFree(t *testing.T) {
	for _, algorithm := range algorithms {
		t.Run(algorithm.name, func(t *testing.T) {
			allocator, memory := readyAllocator(t, brick.CreateOptions{Flags: brick.CreateZeroOnFree | algorithm.flags}, 24, 64)

			first, err := allocator.Alloc(91)
			require.NoError(t, err)
			writeString(t, allocator, first, "This is a nice program. "+strings.Repeat("hola! ", 11))

			second, err := allocator.Alloc(23)
			require.NoError(t, err)
			require.Equal(t, metadata.Key(2), second)
			writeString(t, allocator, second, "This is a nice program.")

			require.NoError(t, allocator.Free(first))
			require.Equal(t, make([]byte, 128), memory[:128])
			require.Equal(t, []byte("This is a nice program."), memory[128:128+23])

			require.NoError(t, allocator.Free(second))
			require.Equal(t, make([]byte, len(memory)), memory)
		})
	}
}

func TestFreeLeavesMemoryByDefault(t *testing.T) {
	if brick.InitializeAllocs {
		t.Skip("freed allocations are overwritten when debug_init_allocs is set")
	}

	allocator, memory := readyAllocator(t, brick.CreateOptions{}, 4, 64)

	key, err := allocator.Alloc(5)
	require.NoError(t, err)
	writeString(t, allocator, key, "hola!")

	require.NoError(t, allocator.Free(key))
	require.Equal(t, []byte("hola!"), memory[:5])
}

func TestAllocateErrors(t *testing.T) {
	allocator := brick.New(nil, brick.CreateOptions{})

	_, err := allocator.Alloc(5)
	require.ErrorIs(t, err, memutils.ErrNotInitialized)
	require.ErrorIs(t, allocator.Free(0), memutils.ErrNotInitialized)

	require.NoError(t, allocator.Init(make([]metadata.Marker, 4), make([]byte, 256), 4, 64))

	key, err := allocator.Alloc(0)
	require.ErrorIs(t, err, memutils.ErrZeroSizeAllocation)
	require.Equal(t, metadata.NoKey, key)

	_, err = allocator.Alloc(-1)
	require.ErrorIs(t, err, memutils.ErrZeroSizeAllocation)

	_, err = allocator.Alloc(257)
	require.ErrorIs(t, err, memutils.ErrAllocationFailure)

	key, err = allocator.Alloc(256)
	require.NoError(t, err)
	require.Equal(t, metadata.Key(0), key)
}

func TestFreeErrors(t *testing.T) {
	for _, algorithm := range algorithms {
		t.Run(algorithm.name, func(t *testing.T) {
			allocator, _ := readyAllocator(t, brick.CreateOptions{Flags: algorithm.flags}, 4, 64)

			key, err := allocator.Alloc(130)
			require.NoError(t, err)
			require.Equal(t, metadata.Key(0), key)

			require.ErrorIs(t, allocator.Free(1), memutils.ErrInvalidKey)
			require.ErrorIs(t, allocator.Free(4), memutils.ErrInvalidKey)
			require.ErrorIs(t, allocator.Free(metadata.NoKey), memutils.ErrInvalidKey)
			require.ErrorIs(t, allocator.Free(3), memutils.ErrDoubleFree)
			require.Equal(t, 1, allocator.Metadata().AllocationCount())

			require.NoError(t, allocator.Free(key))

			err = allocator.Free(key)
			require.ErrorIs(t, err, memutils.ErrDoubleFree)
			require.ErrorIs(t, err, memutils.ErrInvalidKey)
			require.True(t, allocator.Metadata().IsEmpty())
		})
	}
}

func TestInitRejectsSmallSlab(t *testing.T) {
	allocator := brick.New(nil, brick.CreateOptions{})

	err := allocator.Init(make([]metadata.Marker, 4), make([]byte, 255), 4, 64)
	require.ErrorIs(t, err, memutils.ErrInvalidGeometry)

	_, err = allocator.Alloc(5)
	require.ErrorIs(t, err, memutils.ErrNotInitialized)

	err = allocator.Init(make([]metadata.Marker, 3), make([]byte, 256), 4, 64)
	require.ErrorIs(t, err, memutils.ErrInvalidGeometry)
}

func TestInitDiscardsAllocations(t *testing.T) {
	allocator, memory := readyAllocator(t, brick.CreateOptions{}, 4, 64)
	markers := allocator.Metadata().(*metadata.BlocklistMetadata).Markers()

	_, err := allocator.Alloc(200)
	require.NoError(t, err)

	require.NoError(t, allocator.Init(markers, memory, 4, 64))
	require.True(t, allocator.Metadata().IsEmpty())

	key, err := allocator.Alloc(256)
	require.NoError(t, err)
	require.Equal(t, metadata.Key(0), key)
}

func TestCompactKeepsAllocations(t *testing.T) {
	allocator, _ := readyAllocator(t, brick.CreateOptions{}, 8, 16)

	first, err := allocator.Alloc(16)
	require.NoError(t, err)
	second, err := allocator.Alloc(32)
	require.NoError(t, err)
	writeString(t, allocator, second, "brick")
	require.NoError(t, allocator.Free(first))

	before := allocator.BuildStatsString(true)
	allocator.Compact()
	require.Equal(t, before, allocator.BuildStatsString(true))

	span, err := allocator.Bytes(second)
	require.NoError(t, err)
	require.Len(t, span, 32)
	require.Equal(t, []byte("brick"), span[:5])
}

func TestBytes(t *testing.T) {
	allocator, memory := readyAllocator(t, brick.CreateOptions{}, 4, 64)

	_, err := allocator.Alloc(5)
	require.NoError(t, err)
	key, err := allocator.Alloc(65)
	require.NoError(t, err)

	span, err := allocator.Bytes(key)
	require.NoError(t, err)
	require.Len(t, span, 128)
	require.Equal(t, 128, cap(span))

	span[0] = 0x7F
	require.Equal(t, byte(0x7F), memory[64])

	_, err = allocator.Bytes(2)
	require.ErrorIs(t, err, memutils.ErrInvalidKey)
}

func TestStatistics(t *testing.T) {
	allocator, _ := readyAllocator(t, brick.CreateOptions{}, 8, 16)

	_, err := allocator.Alloc(16)
	require.NoError(t, err)
	middle, err := allocator.Alloc(48)
	require.NoError(t, err)
	_, err = allocator.Alloc(16)
	require.NoError(t, err)
	require.NoError(t, allocator.Free(middle))

	stats := allocator.Statistics()
	require.Equal(t, memutils.Statistics{
		BlockCount:      8,
		UsedBlockCount:  2,
		AllocationCount: 2,
		BlockBytes:      128,
		AllocationBytes: 32,
	}, stats)

	detailed := allocator.DetailedStatistics()
	require.Equal(t, 2, detailed.UnusedRangeCount)
	require.Equal(t, 48, detailed.UnusedRangeSizeMin)
	require.Equal(t, 48, detailed.UnusedRangeSizeMax)

	json := allocator.BuildStatsString(false)
	require.Contains(t, json, `"Total":{`)
	require.Contains(t, json, `"AllocationCount":2`)
	require.Contains(t, json, `"Flags":"None"`)
	require.NotContains(t, json, `"Regions"`)

	json = allocator.BuildStatsString(true)
	require.Contains(t, json, `"Regions":[`)
	require.Contains(t, json, `{"Offset":16,"Size":48,"Type":"Free"}`)
	require.Contains(t, json, `{"Offset":64,"Size":16,"Type":"Allocation","Key":4}`)
}

func TestDestroyReportsUnreleased(t *testing.T) {
	var logs bytes.Buffer
	allocator := brick.New(slog.New(slog.NewTextHandler(&logs)), brick.CreateOptions{})
	require.NoError(t, allocator.Init(make([]metadata.Marker, 4), make([]byte, 256), 4, 64))

	_, err := allocator.Alloc(5)
	require.NoError(t, err)
	key, err := allocator.Alloc(100)
	require.NoError(t, err)
	require.NoError(t, allocator.Free(0))

	err = allocator.Destroy()
	require.ErrorIs(t, err, memutils.ErrUnreleasedAllocations)
	require.Contains(t, logs.String(), "[UNRELEASED MEMORY]")
	require.Contains(t, logs.String(), "key=1")
	require.Contains(t, logs.String(), "size=128")
	require.Equal(t, metadata.Key(1), key)

	_, err = allocator.Alloc(5)
	require.ErrorIs(t, err, memutils.ErrNotInitialized)
	require.NoError(t, allocator.Destroy())
}

func TestDestroyEmpty(t *testing.T) {
	allocator, _ := readyAllocator(t, brick.CreateOptions{}, 4, 64)

	key, err := allocator.Alloc(5)
	require.NoError(t, err)
	require.NoError(t, allocator.Free(key))

	require.NoError(t, allocator.Destroy())
}
