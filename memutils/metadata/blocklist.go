package metadata

// BlocklistMetadata is a BlockMetadata implementation that stores nothing beyond the blocklist
// itself. Every block of an allocation holds the same marker, so the extent of an allocation is
// recovered on Free by scanning forward from its key while the markers match. This keeps the
// metadata to one marker per block, at the cost of a scan proportional to the allocation's length
// on every Free.
type BlocklistMetadata struct {
	BlockMetadataBase
}

var _ BlockMetadata = &BlocklistMetadata{}

// NewBlocklistMetadata creates an uninitialized BlocklistMetadata. Init must be called before use.
func NewBlocklistMetadata() *BlocklistMetadata {
	return &BlocklistMetadata{}
}

func (m *BlocklistMetadata) Validate() error {
	return m.validateMarkers()
}

func (m *BlocklistMetadata) Alloc(start int, blocks int) (Key, error) {
	return m.markRun(start, blocks)
}

func (m *BlocklistMetadata) RunLength(key Key) (int, error) {
	_, err := m.checkKey(key)
	if err != nil {
		return 0, err
	}

	return m.scanRunLength(int(key)), nil
}

func (m *BlocklistMetadata) Free(key Key) (int, error) {
	blocks, err := m.RunLength(key)
	if err != nil {
		return 0, err
	}

	m.clearRun(int(key), blocks)
	return blocks, nil
}

func (m *BlocklistMetadata) Clear() {
	m.reset()
}
