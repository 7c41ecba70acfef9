package main

import (
	"fmt"
	"io"
	"os"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"github.com/vkngwrapper/brick/brick"
	"github.com/vkngwrapper/brick/memutils/metadata"
	"golang.org/x/exp/slog"
)

var (
	// Global flags
	verbose    bool
	algorithm  string
	numBlocks  int
	blockSize  int
	zeroOnFree bool
)

var rootCmd = &cobra.Command{
	Use:   "brickdemo",
	Short: "Exercise the brick fixed-block allocator",
	Long: `brickdemo drives a brick allocator over a slab it allocates itself, replaying
scripted allocation sequences and reporting what the blocklist looks like afterwards.`,
	Version:       "0.1.0",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Log every allocator operation to stderr")
	rootCmd.PersistentFlags().StringVar(&algorithm, "algorithm", "blocklist", "Metadata algorithm: blocklist or runlength")
	rootCmd.PersistentFlags().IntVar(&numBlocks, "blocks", 128, "Number of blocks in the slab")
	rootCmd.PersistentFlags().IntVar(&blockSize, "block-size", 64, "Size of each block in bytes")
	rootCmd.PersistentFlags().BoolVar(&zeroOnFree, "zero-on-free", false, "Zero every freed allocation's blocks")
}

func execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newLogger(w io.Writer) *slog.Logger {
	if !verbose {
		return nil
	}

	return slog.New(slog.HandlerOptions{Level: slog.LevelDebug}.NewTextHandler(w))
}

func createFlags() (brick.CreateFlags, error) {
	var flags brick.CreateFlags

	switch algorithm {
	case "blocklist":
	case "runlength":
		flags |= brick.CreateRunLengthAlgorithm
	default:
		return 0, errors.Errorf("unknown algorithm %q: expected blocklist or runlength", algorithm)
	}

	if zeroOnFree {
		flags |= brick.CreateZeroOnFree
	}

	return flags, nil
}

// newAllocator creates an allocator from the global flags and binds it to a fresh slab
func newAllocator(cmd *cobra.Command) (*brick.Allocator, []byte, error) {
	flags, err := createFlags()
	if err != nil {
		return nil, nil, err
	}

	if numBlocks <= 0 || blockSize <= 0 {
		return nil, nil, errors.Errorf("--blocks and --block-size must be positive, got %d and %d", numBlocks, blockSize)
	}

	allocator := brick.New(newLogger(cmd.ErrOrStderr()), brick.CreateOptions{Flags: flags})
	memory := make([]byte, numBlocks*blockSize)

	err = allocator.Init(make([]metadata.Marker, numBlocks), memory, numBlocks, blockSize)
	if err != nil {
		return nil, nil, errors.Wrap(err, "failed to initialize the allocator")
	}

	return allocator, memory, nil
}
