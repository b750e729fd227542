package tinysql

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNode_Header(t *testing.T) {
	t.Parallel()

	assert.Equal(t, 6, CommonNodeHeaderSize)

	aNode := Node(make([]byte, PageSize))
	aNode.SetType(NodeLeaf)
	aNode.SetRoot(true)
	aNode.SetParent(0x0A0B0C0D)

	assert.Equal(t, NodeLeaf, aNode.Type())
	assert.True(t, aNode.IsRoot())
	assert.Equal(t, PageIndex(0x0A0B0C0D), aNode.Parent())
	assert.Equal(t, []byte{1, 1, 0x0D, 0x0C, 0x0B, 0x0A}, []byte(aNode[:CommonNodeHeaderSize]))

	aNode.SetRoot(false)
	assert.False(t, aNode.IsRoot())
}

func TestNode_MaxKey(t *testing.T) {
	t.Parallel()

	aLeaf := Node(make([]byte, PageSize)).Leaf()
	aLeaf.Init()
	_, ok := aLeaf.Node.MaxKey()
	assert.False(t, ok)

	aLeaf.SetNumCells(2)
	aLeaf.SetKey(0, 3)
	aLeaf.SetKey(1, 9)
	maxKey, ok := aLeaf.Node.MaxKey()
	require.True(t, ok)
	assert.Equal(t, uint32(9), maxKey)

	anInternal := Node(make([]byte, PageSize)).Internal()
	anInternal.Init()
	anInternal.SetNumKeys(2)
	anInternal.SetKey(0, 5)
	anInternal.SetKey(1, 12)
	maxKey, ok = anInternal.Node.MaxKey()
	require.True(t, ok)
	assert.Equal(t, uint32(12), maxKey)
}

func TestNode_Validate(t *testing.T) {
	t.Parallel()

	aLeaf := Node(make([]byte, PageSize)).Leaf()
	aLeaf.Init()
	require.NoError(t, aLeaf.validate(1))

	aLeaf.SetNumCells(LeafNodeMaxCells + 1)
	assert.ErrorIs(t, aLeaf.validate(1), ErrCorruptPage)

	anInternal := Node(make([]byte, PageSize)).Internal()
	anInternal.Init()
	require.NoError(t, anInternal.validate(2))

	anInternal.SetNumKeys(InternalNodeMaxCells + 1)
	assert.ErrorIs(t, anInternal.validate(2), ErrCorruptPage)

	unknown := Node(make([]byte, PageSize))
	unknown.SetType(NodeType(7))
	assert.ErrorIs(t, unknown.validate(3), ErrCorruptPage)

	assert.ErrorIs(t, Node(make([]byte, 10)).validate(4), ErrCorruptPage)
}

func TestNodeType_String(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "leaf", NodeLeaf.String())
	assert.Equal(t, "internal", NodeInternal.String())
	assert.Equal(t, "unknown", NodeType(9).String())
}
