package main

import (
	"fmt"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"github.com/vkngwrapper/brick/brick"
	"github.com/vkngwrapper/brick/memutils/defrag"
	"github.com/vkngwrapper/brick/memutils/metadata"
)

var (
	statsDetailed bool
	statsDefrag   string
)

func init() {
	cmd := newStatsCmd()
	cmd.Flags().BoolVar(&statsDetailed, "detailed", false, "List every allocation and free run")
	cmd.Flags().StringVar(&statsDefrag, "defrag", "", "Defragment before printing: fast or full")
	rootCmd.AddCommand(cmd)
}

func newStatsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Print allocator statistics after a scripted workload",
		Long: `The stats command fills the slab with allocations of growing size, frees every
other one, and prints the allocator's statistics as JSON.

Example:
  brickdemo stats
  brickdemo stats --blocks 32 --detailed
  brickdemo stats --defrag full --detailed`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runStats(cmd)
		},
	}
	return cmd
}

func runStats(cmd *cobra.Command) error {
	var defragFlags brick.DefragmentationFlags
	switch statsDefrag {
	case "":
	case "fast":
		defragFlags = brick.DefragmentationFlagAlgorithmFast
	case "full":
		defragFlags = brick.DefragmentationFlagAlgorithmFull
	default:
		return errors.Errorf("unknown defragmentation algorithm %q: expected fast or full", statsDefrag)
	}

	allocator, _, err := newAllocator(cmd)
	if err != nil {
		return err
	}

	keys := fragment(allocator)

	if defragFlags != 0 {
		_, err = allocator.Defragment(brick.DefragmentationInfo{Flags: defragFlags}, func(move defrag.DefragmentationMove) defrag.DefragmentationMoveOperation {
			for i := range keys {
				if keys[i] == move.SrcKey {
					keys[i] = move.DstKey
				}
			}
			return defrag.DefragmentationMoveCopy
		})
		if err != nil {
			return err
		}
	}

	fmt.Fprintln(cmd.OutOrStdout(), allocator.BuildStatsString(statsDetailed))

	for _, key := range keys {
		err = allocator.Free(key)
		if err != nil {
			return err
		}
	}

	return allocator.Destroy()
}

// fragment allocates 1, 2, 3... blocks until the slab is full, then frees every other allocation.
// It returns the keys still live.
func fragment(allocator *brick.Allocator) []metadata.Key {
	var allocated []metadata.Key
	for blocks := 1; ; blocks++ {
		key, err := allocator.Alloc(blocks * allocator.BlockSize())
		if err != nil {
			break
		}
		allocated = append(allocated, key)
	}

	var live []metadata.Key
	for i, key := range allocated {
		if i%2 == 0 {
			_ = allocator.Free(key)
			continue
		}
		live = append(live, key)
	}

	return live
}
