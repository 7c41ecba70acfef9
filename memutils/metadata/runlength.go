package metadata

import (
	"github.com/dolthub/swiss"
	"github.com/pkg/errors"
)

const runLengthInitialCapacity uint32 = 16

// RunLengthMetadata is a BlockMetadata implementation that keeps the blocklist for run searches
// but also records the length of each allocation in a hash map keyed by Key. Free and RunLength
// look the length up instead of scanning the blocklist.
//
// Allocation placement is identical to BlocklistMetadata: both use the same first-fit search over
// the same markers, so the same sequence of calls produces the same keys.
type RunLengthMetadata struct {
	BlockMetadataBase

	lengths *swiss.Map[Key, int]
}

var _ BlockMetadata = &RunLengthMetadata{}

// NewRunLengthMetadata creates an uninitialized RunLengthMetadata. Init must be called before use.
func NewRunLengthMetadata() *RunLengthMetadata {
	return &RunLengthMetadata{
		lengths: swiss.NewMap[Key, int](runLengthInitialCapacity),
	}
}

func (m *RunLengthMetadata) Init(markers []Marker, numBlocks int, blockSize int) error {
	err := m.BlockMetadataBase.Init(markers, numBlocks, blockSize)
	if err != nil {
		return err
	}

	m.lengths = swiss.NewMap[Key, int](runLengthInitialCapacity)
	return nil
}

func (m *RunLengthMetadata) Validate() error {
	err := m.validateMarkers()
	if err != nil {
		return err
	}

	if m.lengths.Count() != m.allocationCount {
		return errors.Errorf("the run length table holds %d entries, but there are %d allocations", m.lengths.Count(), m.allocationCount)
	}

	m.lengths.Iter(func(key Key, blocks int) bool {
		if uint64(key) >= uint64(m.numBlocks) {
			err = errors.Errorf("the run length table holds key %d, which is out of range for %d blocks", key, m.numBlocks)
			return true
		}

		scanned := m.scanRunLength(int(key))
		if m.markers[key].IsFree() || scanned != blocks {
			err = errors.Errorf("the run length table records %d blocks for key %d, but the blocklist holds %d", blocks, key, scanned)
			return true
		}

		return false
	})

	return err
}

func (m *RunLengthMetadata) Alloc(start int, blocks int) (Key, error) {
	key, err := m.markRun(start, blocks)
	if err != nil {
		return NoKey, err
	}

	m.lengths.Put(key, blocks)
	return key, nil
}

func (m *RunLengthMetadata) RunLength(key Key) (int, error) {
	_, err := m.checkKey(key)
	if err != nil {
		return 0, err
	}

	blocks, ok := m.lengths.Get(key)
	if !ok {
		return 0, errors.Errorf("key %d is live in the blocklist but has no recorded run length", key)
	}

	return blocks, nil
}

func (m *RunLengthMetadata) Free(key Key) (int, error) {
	blocks, err := m.RunLength(key)
	if err != nil {
		return 0, err
	}

	m.clearRun(int(key), blocks)
	m.lengths.Delete(key)
	return blocks, nil
}

func (m *RunLengthMetadata) Clear() {
	m.reset()
	m.lengths = swiss.NewMap[Key, int](runLengthInitialCapacity)
}
