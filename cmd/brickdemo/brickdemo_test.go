package main

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"
)

// runCommand resets the global flags and runs the root command with args, capturing its output
func runCommand(t *testing.T, args ...string) (string, string, error) {
	t.Helper()

	verbose = false
	algorithm = "blocklist"
	numBlocks = 128
	blockSize = 64
	zeroOnFree = false
	statsDetailed = false
	statsDefrag = ""

	var stdout, stderr bytes.Buffer
	rootCmd.SetOut(&stdout)
	rootCmd.SetErr(&stderr)
	rootCmd.SetArgs(args)

	err := rootCmd.Execute()
	return stdout.String(), stderr.String(), err
}

func TestExample(t *testing.T) {
	out, _, err := runCommand(t, "example")
	require.NoError(t, err)
	require.Contains(t, out, `key 0: 64 bytes at offset 0: "hola!"`)
	require.Contains(t, out, `key 1: 64 bytes at offset 64: "This is a nice program."`)
	require.Contains(t, out, "freed key 0\nfreed key 1\n")
	require.NotContains(t, out, "slab is zeroed")
}

func TestExampleZeroOnFree(t *testing.T) {
	for _, name := range []string{"blocklist", "runlength"} {
		t.Run(name, func(t *testing.T) {
			out, _, err := runCommand(t, "example", "--blocks", "24", "--block-size", "16", "--zero-on-free", "--algorithm", name)
			require.NoError(t, err)
			require.Contains(t, out, `key 1: 32 bytes at offset 16: "This is a nice program."`)
			require.Contains(t, out, "slab is zeroed")
		})
	}
}

func TestExampleVerboseLogs(t *testing.T) {
	_, logs, err := runCommand(t, "example", "-v")
	require.NoError(t, err)
	require.Contains(t, logs, "Allocator::Alloc")
	require.Contains(t, logs, "Allocator::Free")
	require.Contains(t, logs, "Allocator::Compact")
}

func TestExampleRejectsBadFlags(t *testing.T) {
	_, _, err := runCommand(t, "example", "--algorithm", "tlsf")
	require.Error(t, err)

	_, _, err = runCommand(t, "example", "--blocks", "0")
	require.Error(t, err)

	_, _, err = runCommand(t, "example", "--blocks", "1", "--block-size", "4")
	require.Error(t, err)
}

func TestStats(t *testing.T) {
	out, _, err := runCommand(t, "stats", "--blocks", "16", "--block-size", "8")
	require.NoError(t, err)

	var stats map[string]map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &stats))
	// 1+2+3+4+5 blocks fit, the 1-, 3- and 5-block allocations are freed
	require.Equal(t, float64(2), stats["Total"]["AllocationCount"])
	require.Equal(t, float64(6), stats["Total"]["UsedBlockCount"])
	require.Equal(t, float64(16), stats["Slab"]["Blocks"])
	require.NotContains(t, stats["Slab"], "Regions")
}

func TestStatsDefragmented(t *testing.T) {
	out, _, err := runCommand(t, "stats", "--blocks", "16", "--block-size", "8", "--defrag", "full", "--detailed")
	require.NoError(t, err)

	var stats map[string]map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &stats))
	require.Equal(t, float64(1), stats["Slab"]["UnusedRanges"])
	require.Equal(t, float64(0), stats["Total"]["Fragmentation"])
	require.Len(t, stats["Slab"]["Regions"], 3)

	_, _, err = runCommand(t, "stats", "--defrag", "best")
	require.Error(t, err)
}
