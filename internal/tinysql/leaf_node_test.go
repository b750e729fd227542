package tinysql

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLeafNode_Layout(t *testing.T) {
	t.Parallel()

	assert.Equal(t, 6, LeafNodeNumCellsOffset)
	assert.Equal(t, 10, LeafNodeNextLeafOffset)
	assert.Equal(t, 14, LeafNodeHeaderSize)
	assert.Equal(t, 295, LeafNodeCellSize)
	assert.Equal(t, 13, LeafNodeMaxCells)
	assert.Equal(t, 7, LeafNodeLeftSplitCount)
	assert.Equal(t, 7, LeafNodeRightSplitCount)
}

func TestLeafNode_Init(t *testing.T) {
	t.Parallel()

	buf := make([]byte, PageSize)
	for i := range buf {
		buf[i] = 0xAB
	}
	aLeaf := Node(buf).Leaf()
	aLeaf.Init()

	assert.Equal(t, NodeLeaf, aLeaf.Type())
	assert.False(t, aLeaf.IsRoot())
	assert.Equal(t, uint32(0), aLeaf.NumCells())

	next, ok := aLeaf.NextLeaf()
	assert.False(t, ok)
	assert.Equal(t, NoPage, next)
	assert.Empty(t, aLeaf.Keys())
}

func TestLeafNode_Cells(t *testing.T) {
	t.Parallel()

	aLeaf := Node(make([]byte, PageSize)).Leaf()
	aLeaf.Init()
	aLeaf.SetNextLeaf(5)
	aLeaf.SetNumCells(LeafNodeMaxCells)

	for i := range uint32(LeafNodeMaxCells) {
		aLeaf.SetKey(i, i*10)
		_, err := gen.Row(i * 10).Marshal(aLeaf.Value(i))
		require.NoError(t, err)
	}

	next, ok := aLeaf.NextLeaf()
	require.True(t, ok)
	assert.Equal(t, PageIndex(5), next)

	// The last cell ends within the page
	lastCell := aLeaf.Cell(LeafNodeMaxCells - 1)
	assert.Len(t, lastCell, LeafNodeCellSize)
	assert.Equal(t, uint32(120), unmarshalUint32(aLeaf.Node, LeafNodeHeaderSize+12*LeafNodeCellSize))

	var aRow Row
	require.NoError(t, UnmarshalRow(aLeaf.Value(3), &aRow))
	assert.Equal(t, uint32(30), aRow.ID)

	maxKey, ok := aLeaf.MaxKey()
	require.True(t, ok)
	assert.Equal(t, uint32(120), maxKey)
	assert.Equal(t, []uint32{0, 10, 20, 30, 40, 50, 60, 70, 80, 90, 100, 110, 120}, aLeaf.Keys())
}

func TestLeafNode_Find(t *testing.T) {
	t.Parallel()

	aLeaf := Node(make([]byte, PageSize)).Leaf()
	aLeaf.Init()
	assert.Equal(t, uint32(0), aLeaf.Find(42))

	aLeaf.SetNumCells(3)
	aLeaf.SetKey(0, 2)
	aLeaf.SetKey(1, 4)
	aLeaf.SetKey(2, 6)

	testCases := []struct {
		Name     string
		Key      uint32
		Expected uint32
	}{
		{Name: "before first key", Key: 1, Expected: 0},
		{Name: "first key", Key: 2, Expected: 0},
		{Name: "between keys", Key: 3, Expected: 1},
		{Name: "middle key", Key: 4, Expected: 1},
		{Name: "last key", Key: 6, Expected: 2},
		{Name: "after last key", Key: 7, Expected: 3},
	}

	for _, aTestCase := range testCases {
		t.Run(aTestCase.Name, func(t *testing.T) {
			assert.Equal(t, aTestCase.Expected, aLeaf.Find(aTestCase.Key))
		})
	}
}
