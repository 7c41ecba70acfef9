package main

import (
	"fmt"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"github.com/vkngwrapper/brick/brick"
	"github.com/vkngwrapper/brick/memutils/metadata"
)

func init() {
	rootCmd.AddCommand(newExampleCmd())
}

func newExampleCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "example",
		Short: "Allocate, write and free two strings",
		Long: `The example command allocates room for two strings, copies them into the slab,
prints where each one landed, and frees both. With --zero-on-free it also checks
that the freed bytes were cleared.

Example:
  brickdemo example
  brickdemo example --blocks 24 --block-size 64 --zero-on-free -v`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runExample(cmd)
		},
	}
	return cmd
}

func runExample(cmd *cobra.Command) error {
	allocator, memory, err := newAllocator(cmd)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	var keys []metadata.Key
	for _, value := range []string{"hola!", "This is a nice program."} {
		key, err := storeString(allocator, value)
		if err != nil {
			return err
		}
		keys = append(keys, key)

		span, err := allocator.Bytes(key)
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "key %d: %d bytes at offset %d: %q\n", key, len(span), int(key)*allocator.BlockSize(), span[:len(value)])
	}

	for _, key := range keys {
		err = allocator.Free(key)
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "freed key %d\n", key)
	}

	allocator.Compact()

	if zeroOnFree {
		for i, b := range memory {
			if b != 0 {
				return errors.Errorf("byte %d of the slab is %#x after every allocation was freed", i, b)
			}
		}
		fmt.Fprintln(out, "slab is zeroed")
	}

	return allocator.Destroy()
}

func storeString(allocator *brick.Allocator, value string) (metadata.Key, error) {
	key, err := allocator.Alloc(len(value))
	if err != nil {
		return metadata.NoKey, errors.Wrapf(err, "failed to allocate %d bytes", len(value))
	}

	span, err := allocator.Bytes(key)
	if err != nil {
		return metadata.NoKey, err
	}

	copy(span, value)
	return key, nil
}
