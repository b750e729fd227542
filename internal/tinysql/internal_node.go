package tinysql

import (
	"github.com/pkg/errors"
)

// Internal node header layout
const (
	InternalNodeNumKeysSize      = 4
	InternalNodeNumKeysOffset    = CommonNodeHeaderSize
	InternalNodeRightChildSize   = 4
	InternalNodeRightChildOffset = InternalNodeNumKeysOffset + InternalNodeNumKeysSize
	InternalNodeHeaderSize       = CommonNodeHeaderSize + InternalNodeNumKeysSize + InternalNodeRightChildSize
)

// Internal node body layout
const (
	InternalNodeChildSize   = 4
	InternalNodeChildOffset = 0
	InternalNodeKeySize     = 4
	InternalNodeKeyOffset   = InternalNodeChildOffset + InternalNodeChildSize
	InternalNodeCellSize    = InternalNodeChildSize + InternalNodeKeySize

	// Internal nodes are never split, this caps the number of leaves
	// below the root at InternalNodeMaxCells + 1.
	InternalNodeMaxCells = 3
)

type InternalNode struct {
	Node
}

// Init resets the page to an empty, non root internal node.
func (n InternalNode) Init() {
	n.SetType(NodeInternal)
	n.SetRoot(false)
	n.SetNumKeys(0)
	n.SetRightChild(NoPage)
}

func (n InternalNode) NumKeys() uint32 {
	return unmarshalUint32(n.Node, InternalNodeNumKeysOffset)
}

func (n InternalNode) SetNumKeys(keys uint32) {
	marshalUint32(n.Node, keys, InternalNodeNumKeysOffset)
}

func (n InternalNode) RightChild() PageIndex {
	return PageIndex(unmarshalUint32(n.Node, InternalNodeRightChildOffset))
}

func (n InternalNode) SetRightChild(pageIdx PageIndex) {
	marshalUint32(n.Node, uint32(pageIdx), InternalNodeRightChildOffset)
}

func (n InternalNode) Cell(cellIdx uint32) []byte {
	offset := InternalNodeHeaderSize + uint64(cellIdx)*InternalNodeCellSize
	return n.Node[offset : offset+InternalNodeCellSize]
}

// Child returns the child pointer stored in cell i, see ChildAt
// for addressing the right child as well.
func (n InternalNode) Child(cellIdx uint32) PageIndex {
	return PageIndex(unmarshalUint32(n.Cell(cellIdx), InternalNodeChildOffset))
}

func (n InternalNode) SetChild(cellIdx uint32, pageIdx PageIndex) {
	marshalUint32(n.Cell(cellIdx), uint32(pageIdx), InternalNodeChildOffset)
}

func (n InternalNode) Key(cellIdx uint32) uint32 {
	return unmarshalUint32(n.Cell(cellIdx), InternalNodeKeyOffset)
}

func (n InternalNode) SetKey(cellIdx uint32, key uint32) {
	marshalUint32(n.Cell(cellIdx), key, InternalNodeKeyOffset)
}

// ChildAt returns a page index of nth child of the node
// (0 for the leftmost child, index equal to number of keys means the right child).
func (n InternalNode) ChildAt(childIdx uint32) (PageIndex, error) {
	keysNum := n.NumKeys()
	if childIdx > keysNum {
		return 0, errors.Wrapf(ErrChildOutOfRange, "child index %d, number of keys %d", childIdx, keysNum)
	}
	if childIdx == keysNum {
		return n.RightChild(), nil
	}
	return n.Child(childIdx), nil
}

func (n InternalNode) SetChildAt(childIdx uint32, pageIdx PageIndex) error {
	keysNum := n.NumKeys()
	if childIdx > keysNum {
		return errors.Wrapf(ErrChildOutOfRange, "child index %d, number of keys %d", childIdx, keysNum)
	}
	if childIdx == keysNum {
		n.SetRightChild(pageIdx)
		return nil
	}
	n.SetChild(childIdx, pageIdx)
	return nil
}

// FindChild returns the index of the child which should contain the given key,
// the leftmost child whose key is greater than or equal to it.
// For example, if node has 2 keys, this could return 0 for the leftmost child,
// 1 for the middle child or 2 for the right child.
// The returned value is not a page index!
func (n InternalNode) FindChild(key uint32) uint32 {
	var (
		minIdx = uint32(0)
		maxIdx = n.NumKeys()
	)
	for minIdx != maxIdx {
		idx := (minIdx + maxIdx) / 2
		rightKey := n.Key(idx)
		if rightKey >= key {
			maxIdx = idx
		} else {
			minIdx = idx + 1
		}
	}
	return minIdx
}

// UpdateKey replaces the stored key equal to oldKey with newKey. It reports
// false when no stored key matches, which is the case when oldKey belongs
// to the right child.
func (n InternalNode) UpdateKey(oldKey, newKey uint32) bool {
	idx := n.FindChild(oldKey)
	if idx >= n.NumKeys() || n.Key(idx) != oldKey {
		return false
	}
	n.SetKey(idx, newKey)
	return true
}

func (n InternalNode) MaxKey() (uint32, bool) {
	keys := n.NumKeys()
	if keys == 0 {
		return 0, false
	}
	return n.Key(keys - 1), true
}

func (n InternalNode) Keys() []uint32 {
	keys := make([]uint32, 0, n.NumKeys())
	for idx := range n.NumKeys() {
		keys = append(keys, n.Key(idx))
	}
	return keys
}
