package tinysql

import (
	"context"

	"github.com/pkg/errors"
)

type Cursor struct {
	Table      *Table
	PageIdx    PageIndex
	CellIdx    uint32
	EndOfTable bool
}

// Advance moves the cursor to the next cell, following the sibling
// pointer to the next leaf once the current leaf is exhausted.
func (c *Cursor) Advance(ctx context.Context) error {
	aLeaf, err := c.Table.leaf(ctx, c.PageIdx)
	if err != nil {
		return errors.Wrap(err, "advance")
	}

	c.CellIdx += 1
	if c.CellIdx < aLeaf.NumCells() {
		return nil
	}

	nextLeaf, ok := aLeaf.NextLeaf()
	if !ok {
		c.EndOfTable = true
		return nil
	}

	c.PageIdx = nextLeaf
	c.CellIdx = 0

	return nil
}

// Value returns the row slot the cursor points at. The slice aliases the
// cached page so writes to it change the table.
func (c *Cursor) Value(ctx context.Context) ([]byte, error) {
	aLeaf, err := c.Table.leaf(ctx, c.PageIdx)
	if err != nil {
		return nil, errors.Wrap(err, "cursor value")
	}
	if c.CellIdx >= LeafNodeMaxCells {
		return nil, errors.Errorf("cursor cell %d out of leaf capacity %d", c.CellIdx, LeafNodeMaxCells)
	}
	return aLeaf.Value(c.CellIdx), nil
}

// Row decodes the row the cursor points at.
func (c *Cursor) Row(ctx context.Context) (Row, error) {
	aLeaf, err := c.Table.leaf(ctx, c.PageIdx)
	if err != nil {
		return Row{}, errors.Wrap(err, "cursor row")
	}
	if c.CellIdx >= aLeaf.NumCells() {
		return Row{}, errors.Errorf("cursor cell %d past last cell of page %d", c.CellIdx, c.PageIdx)
	}

	var aRow Row
	if err := UnmarshalRow(aLeaf.Value(c.CellIdx), &aRow); err != nil {
		return Row{}, err
	}
	return aRow, nil
}

// Insert stores the row under key at the cursor position, splitting
// the leaf when it is full. A key already present at the cursor
// position is rejected with ErrDuplicateKey.
func (c *Cursor) Insert(ctx context.Context, key uint32, aRow Row) error {
	aLeaf, err := c.Table.leaf(ctx, c.PageIdx)
	if err != nil {
		return errors.Wrapf(err, "insert key %d", key)
	}

	cells := aLeaf.NumCells()
	if c.CellIdx > cells {
		return errors.Errorf("insert key %d: cursor cell %d past end of leaf with %d cells", key, c.CellIdx, cells)
	}
	if c.CellIdx < cells && aLeaf.Key(c.CellIdx) == key {
		return errors.Wrapf(ErrDuplicateKey, "key %d", key)
	}

	if cells >= LeafNodeMaxCells {
		// Split leaf node
		if err := c.splitInsert(ctx, aLeaf, key, aRow); err != nil {
			return errors.Wrapf(err, "insert key %d", key)
		}
		return nil
	}

	// Need make room for new cell
	for i := cells; i > c.CellIdx; i-- {
		copy(aLeaf.Cell(i), aLeaf.Cell(i-1))
	}

	if err := saveToCell(aLeaf, c.CellIdx, key, aRow); err != nil {
		return err
	}
	aLeaf.SetNumCells(cells + 1)

	return nil
}

// Create a new node and move half the cells over.
// Insert the new value in one of the two nodes.
// Update parent or create a new parent.
func (c *Cursor) splitInsert(ctx context.Context, aSplitLeaf LeafNode, key uint32, aRow Row) error {
	aTable := c.Table

	// Nothing is modified unless the whole split can complete
	if err := aTable.checkSplit(ctx, aSplitLeaf); err != nil {
		return err
	}

	originalMaxKey, _ := aSplitLeaf.MaxKey()

	newPageIdx, aNewPage, err := aTable.newPage(ctx)
	if err != nil {
		return err
	}

	aTable.logger.Sugar().With(
		"key", int(key),
		"old_max_key", int(originalMaxKey),
		"page_index", int(c.PageIdx),
		"new_page_index", int(newPageIdx),
	).Debug("leaf node split insert")

	aNewLeaf := aNewPage.Leaf()
	aNewLeaf.Init()
	aNewLeaf.SetParent(aSplitLeaf.Parent())

	nextLeaf, _ := aSplitLeaf.NextLeaf()
	aNewLeaf.SetNextLeaf(nextLeaf)
	aSplitLeaf.SetNextLeaf(newPageIdx)

	// All existing keys plus new key should be divided
	// evenly between old (left) and new (right) nodes.
	// Starting from the right, move each key to correct position.
	for i := int(LeafNodeMaxCells); i >= 0; i-- {
		var (
			logicalIdx = uint32(i)
			destLeaf   = aSplitLeaf
			cellIdx    = logicalIdx
		)
		if logicalIdx >= LeafNodeLeftSplitCount {
			destLeaf = aNewLeaf
			cellIdx = logicalIdx - LeafNodeLeftSplitCount
		}

		switch {
		case logicalIdx == c.CellIdx:
			if err := saveToCell(destLeaf, cellIdx, key, aRow); err != nil {
				return err
			}
		case logicalIdx > c.CellIdx:
			copy(destLeaf.Cell(cellIdx), aSplitLeaf.Cell(logicalIdx-1))
		default:
			copy(destLeaf.Cell(cellIdx), aSplitLeaf.Cell(logicalIdx))
		}
	}

	// Update cell count on both leaf nodes
	aSplitLeaf.SetNumCells(LeafNodeLeftSplitCount)
	aNewLeaf.SetNumCells(LeafNodeRightSplitCount)

	if aSplitLeaf.IsRoot() {
		return aTable.createNewRoot(ctx, newPageIdx)
	}

	parentPageIdx := aSplitLeaf.Parent()
	aParent, err := aTable.internal(ctx, parentPageIdx)
	if err != nil {
		return errors.Wrap(err, "get parent page")
	}

	// No stored key changes when the split leaf is the right child
	newMaxKey, _ := aSplitLeaf.MaxKey()
	aParent.UpdateKey(originalMaxKey, newMaxKey)

	return aTable.internalNodeInsert(ctx, parentPageIdx, newPageIdx)
}

// checkSplit makes sure the pager has room for the pages a split allocates
// and that the parent can take one more key.
func (t *Table) checkSplit(ctx context.Context, aSplitLeaf LeafNode) error {
	newPages := uint32(1)
	if aSplitLeaf.IsRoot() {
		// The old root is relocated to a page of its own as well
		newPages = 2
	}
	if uint32(t.pager.UnusedPageIndex())+newPages > t.pager.MaxPages() {
		return errors.Wrapf(ErrTableFull, "splitting a leaf needs %d new pages, %d of %d pages used",
			newPages, t.pager.UnusedPageIndex(), t.pager.MaxPages())
	}

	if aSplitLeaf.IsRoot() {
		return nil
	}

	aParent, err := t.internal(ctx, aSplitLeaf.Parent())
	if err != nil {
		return errors.Wrap(err, "get parent page")
	}
	if keys := aParent.NumKeys(); keys >= InternalNodeMaxCells {
		return errors.Wrapf(ErrInternalNodeFull, "page %d has %d keys", aSplitLeaf.Parent(), keys)
	}

	return nil
}

func saveToCell(aLeaf LeafNode, cellIdx uint32, key uint32, aRow Row) error {
	if _, err := aRow.Marshal(aLeaf.Value(cellIdx)); err != nil {
		return errors.Wrap(err, "save to cell")
	}
	aLeaf.SetKey(cellIdx, key)
	return nil
}
