package brick

import (
	"io"
	"strings"

	"github.com/vkngwrapper/brick/memutils/metadata"
	"golang.org/x/exp/slog"
)

// CreateFlags indicate specific allocator behaviors to activate or deactivate
type CreateFlags int32

const (
	// CreateZeroOnFree causes Free to overwrite the full span of each released allocation with
	// zero bytes before its blocks are returned to the blocklist.
	CreateZeroOnFree CreateFlags = 1 << iota
	// CreateRunLengthAlgorithm selects metadata.RunLengthMetadata, which records the length of
	// each allocation so that Free does not need to scan the blocklist. Allocation placement is
	// unchanged. By default, metadata.BlocklistMetadata is used.
	CreateRunLengthAlgorithm
)

var createFlagsMapping = map[CreateFlags]string{
	CreateZeroOnFree:         "CreateZeroOnFree",
	CreateRunLengthAlgorithm: "CreateRunLengthAlgorithm",
}

func (f CreateFlags) String() string {
	if f == 0 {
		return "None"
	}

	var names []string
	for bit := CreateFlags(1); bit != 0 && bit <= f; bit <<= 1 {
		if f&bit == 0 {
			continue
		}

		name, ok := createFlagsMapping[bit]
		if !ok {
			name = "Unknown"
		}
		names = append(names, name)
	}

	return strings.Join(names, "|")
}

// CreateOptions contains optional settings when creating an allocator
type CreateOptions struct {
	// Flags indicates specific allocator behaviors to activate or deactivate
	Flags CreateFlags
}

// New creates a new Allocator. The Allocator must be bound to a slab with Init before it can
// allocate.
//
// logger - Receives debug records for each operation and error records for allocations still
// live at Destroy. If nil, all records are discarded.
//
// options - Optional parameters: it is valid to leave all the fields blank
func New(logger *slog.Logger, options CreateOptions) *Allocator {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard))
	}

	var md metadata.BlockMetadata
	if options.Flags&CreateRunLengthAlgorithm != 0 {
		md = metadata.NewRunLengthMetadata()
	} else {
		md = metadata.NewBlocklistMetadata()
	}

	return newAllocator(logger, options.Flags, md)
}

// NewWithMetadata creates a new Allocator backed by a caller-provided BlockMetadata
// implementation. CreateRunLengthAlgorithm is ignored.
func NewWithMetadata(logger *slog.Logger, options CreateOptions, md metadata.BlockMetadata) *Allocator {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard))
	}

	return newAllocator(logger, options.Flags, md)
}

func newAllocator(logger *slog.Logger, flags CreateFlags, md metadata.BlockMetadata) *Allocator {
	return &Allocator{
		logger:      logger,
		createFlags: flags,
		metadata:    md,
	}
}
