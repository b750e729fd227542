package tinysql

import (
	"github.com/pkg/errors"
)

type NodeType uint8

const (
	NodeInternal NodeType = iota
	NodeLeaf
)

func (t NodeType) String() string {
	switch t {
	case NodeInternal:
		return "internal"
	case NodeLeaf:
		return "leaf"
	default:
		return "unknown"
	}
}

// Common node header layout
const (
	NodeTypeSize         = 1
	NodeTypeOffset       = 0
	IsRootSize           = 1
	IsRootOffset         = NodeTypeOffset + NodeTypeSize
	ParentPointerSize    = 4
	ParentPointerOffset  = IsRootOffset + IsRootSize
	CommonNodeHeaderSize = NodeTypeSize + IsRootSize + ParentPointerSize
)

// Node is a view over a page buffer exposing the header shared by leaf and
// internal nodes. It does not copy the buffer, writes go straight to the page.
type Node []byte

func (n Node) Type() NodeType {
	return NodeType(n[NodeTypeOffset])
}

func (n Node) SetType(t NodeType) {
	n[NodeTypeOffset] = byte(t)
}

func (n Node) IsRoot() bool {
	return n[IsRootOffset] != 0
}

func (n Node) SetRoot(isRoot bool) {
	if isRoot {
		n[IsRootOffset] = 1
	} else {
		n[IsRootOffset] = 0
	}
}

func (n Node) Parent() PageIndex {
	return PageIndex(unmarshalUint32(n, ParentPointerOffset))
}

func (n Node) SetParent(parentIdx PageIndex) {
	marshalUint32(n, uint32(parentIdx), ParentPointerOffset)
}

func (n Node) Leaf() LeafNode {
	return LeafNode{Node: n}
}

func (n Node) Internal() InternalNode {
	return InternalNode{Node: n}
}

// MaxKey returns the largest key stored in the node itself. For a leaf this
// is the key of its last cell, for an internal node its last stored key.
// The right child of an internal node is not consulted. False is returned
// for a node without any keys.
func (n Node) MaxKey() (uint32, bool) {
	if n.Type() == NodeLeaf {
		return n.Leaf().MaxKey()
	}
	return n.Internal().MaxKey()
}

// validate checks the header of a page read through the table before any
// cell is addressed, so that cell accessors stay within the page.
func (n Node) validate(pageIdx PageIndex) error {
	if len(n) != PageSize {
		return errors.Wrapf(ErrCorruptPage, "page %d has size %d", pageIdx, len(n))
	}
	switch n.Type() {
	case NodeLeaf:
		if cells := n.Leaf().NumCells(); cells > LeafNodeMaxCells {
			return errors.Wrapf(ErrCorruptPage, "leaf page %d has %d cells, max %d", pageIdx, cells, LeafNodeMaxCells)
		}
	case NodeInternal:
		if keys := n.Internal().NumKeys(); keys > InternalNodeMaxCells {
			return errors.Wrapf(ErrCorruptPage, "internal page %d has %d keys, max %d", pageIdx, keys, InternalNodeMaxCells)
		}
	default:
		return errors.Wrapf(ErrCorruptPage, "page %d has unknown node type %d", pageIdx, n.Type())
	}
	return nil
}
