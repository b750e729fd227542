package tinysql

// Leaf node header layout
const (
	LeafNodeNumCellsSize   = 4
	LeafNodeNumCellsOffset = CommonNodeHeaderSize
	LeafNodeNextLeafSize   = 4
	LeafNodeNextLeafOffset = LeafNodeNumCellsOffset + LeafNodeNumCellsSize
	LeafNodeHeaderSize     = CommonNodeHeaderSize + LeafNodeNumCellsSize + LeafNodeNextLeafSize
)

// Leaf node body layout. LeafNodeValueSize is the width reserved per cell
// and every capacity below derives from it.
const (
	LeafNodeKeySize       = 4
	LeafNodeKeyOffset     = 0
	LeafNodeValueSize     = RowSize
	LeafNodeValueOffset   = LeafNodeKeyOffset + LeafNodeKeySize
	LeafNodeCellSize      = LeafNodeKeySize + LeafNodeValueSize
	LeafNodeSpaceForCells = PageSize - LeafNodeHeaderSize
	LeafNodeMaxCells      = LeafNodeSpaceForCells / LeafNodeCellSize

	// All existing cells plus the new one are split between the old (left)
	// and the new (right) leaf.
	LeafNodeRightSplitCount = (LeafNodeMaxCells + 1) / 2
	LeafNodeLeftSplitCount  = (LeafNodeMaxCells + 1) - LeafNodeRightSplitCount
)

type LeafNode struct {
	Node
}

// Init resets the page to an empty, non root leaf without a next leaf.
func (n LeafNode) Init() {
	n.SetType(NodeLeaf)
	n.SetRoot(false)
	n.SetNumCells(0)
	n.SetNextLeaf(NoPage)
}

func (n LeafNode) NumCells() uint32 {
	return unmarshalUint32(n.Node, LeafNodeNumCellsOffset)
}

func (n LeafNode) SetNumCells(cells uint32) {
	marshalUint32(n.Node, cells, LeafNodeNumCellsOffset)
}

// NextLeaf returns the page of the sibling leaf to the right,
// false for the last leaf of the table.
func (n LeafNode) NextLeaf() (PageIndex, bool) {
	next := PageIndex(unmarshalUint32(n.Node, LeafNodeNextLeafOffset))
	return next, next != NoPage
}

func (n LeafNode) SetNextLeaf(pageIdx PageIndex) {
	marshalUint32(n.Node, uint32(pageIdx), LeafNodeNextLeafOffset)
}

// Cell returns the bytes of cell i, key followed by the row.
func (n LeafNode) Cell(cellIdx uint32) []byte {
	offset := LeafNodeHeaderSize + uint64(cellIdx)*LeafNodeCellSize
	return n.Node[offset : offset+LeafNodeCellSize]
}

func (n LeafNode) Key(cellIdx uint32) uint32 {
	return unmarshalUint32(n.Cell(cellIdx), LeafNodeKeyOffset)
}

func (n LeafNode) SetKey(cellIdx uint32, key uint32) {
	marshalUint32(n.Cell(cellIdx), key, LeafNodeKeyOffset)
}

// Value returns the row slot of cell i for reading or writing.
func (n LeafNode) Value(cellIdx uint32) []byte {
	return n.Cell(cellIdx)[LeafNodeValueOffset:]
}

func (n LeafNode) MaxKey() (uint32, bool) {
	cells := n.NumCells()
	if cells == 0 {
		return 0, false
	}
	return n.Key(cells - 1), true
}

// Find returns the cell holding key, or the cell where the key
// would have to be inserted to keep the leaf sorted.
func (n LeafNode) Find(key uint32) uint32 {
	var (
		minIdx uint32
		maxIdx = n.NumCells()
	)
	for minIdx != maxIdx {
		idx := (minIdx + maxIdx) / 2
		keyAtIdx := n.Key(idx)
		if key == keyAtIdx {
			return idx
		}
		if key < keyAtIdx {
			maxIdx = idx
		} else {
			minIdx = idx + 1
		}
	}
	return minIdx
}

func (n LeafNode) Keys() []uint32 {
	keys := make([]uint32, 0, n.NumCells())
	for idx := range n.NumCells() {
		keys = append(keys, n.Key(idx))
	}
	return keys
}
