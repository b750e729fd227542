package tinysql

import (
	"context"

	"github.com/pkg/errors"
	"go.uber.org/multierr"
	"go.uber.org/zap"
)

type options struct {
	logger    *zap.Logger
	pagerOpts []PagerOption
}

type Option func(*options)

func WithLogger(logger *zap.Logger) Option {
	return func(o *options) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// WithPagerOptions passes options to the pager created by Open.
func WithPagerOptions(opts ...PagerOption) Option {
	return func(o *options) {
		o.pagerOpts = append(o.pagerOpts, opts...)
	}
}

func newOptions(opts []Option) options {
	o := options{logger: zap.NewNop()}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// Table is a single B+tree keyed by row ID. The root always lives on page 0.
// A table is not safe for concurrent use.
type Table struct {
	RootPageIdx PageIndex
	pager       Pager
	logger      *zap.Logger
	closed      bool
}

// Open opens or creates the table file at path.
func Open(ctx context.Context, path string, opts ...Option) (*Table, error) {
	o := newOptions(opts)

	pagerOpts := append([]PagerOption{WithPagerLogger(o.logger)}, o.pagerOpts...)
	aPager, err := OpenPager(path, pagerOpts...)
	if err != nil {
		return nil, errors.Wrap(err, "open pager")
	}

	return newTableOrClose(ctx, aPager, opts...)
}

// newTableOrClose releases the pager when no table can be attached to it.
func newTableOrClose(ctx context.Context, aPager Pager, opts ...Option) (*Table, error) {
	aTable, err := NewTable(ctx, aPager, opts...)
	if err != nil {
		return nil, multierr.Append(errors.Wrap(err, "new table"), aPager.Close(ctx))
	}

	return aTable, nil
}

// NewTable attaches a table to the pager, initializing an empty root
// leaf when nothing has been persisted yet.
func NewTable(ctx context.Context, pager Pager, opts ...Option) (*Table, error) {
	o := newOptions(opts)

	aTable := &Table{
		RootPageIdx: 0,
		pager:       pager,
		logger:      o.logger,
	}

	if pager.PersistedPages() == 0 {
		buf, err := pager.GetPage(ctx, aTable.RootPageIdx)
		if err != nil {
			return nil, errors.Wrap(err, "init root page")
		}
		aRoot := Node(buf).Leaf()
		aRoot.Init()
		aRoot.SetRoot(true)

		aTable.logger.Debug("initialized empty root leaf")
	}

	return aTable, nil
}

// Close flushes every cached page and closes the file.
func (t *Table) Close(ctx context.Context) error {
	if t.closed {
		return ErrTableClosed
	}
	t.closed = true

	return errors.Wrap(t.pager.Close(ctx), "close pager")
}

func (t *Table) node(ctx context.Context, pageIdx PageIndex) (Node, error) {
	if t.closed {
		return nil, ErrTableClosed
	}

	buf, err := t.pager.GetPage(ctx, pageIdx)
	if err != nil {
		return nil, errors.Wrap(err, "get page")
	}

	aNode := Node(buf)
	if err := aNode.validate(pageIdx); err != nil {
		return nil, err
	}

	return aNode, nil
}

func (t *Table) leaf(ctx context.Context, pageIdx PageIndex) (LeafNode, error) {
	aNode, err := t.node(ctx, pageIdx)
	if err != nil {
		return LeafNode{}, err
	}
	if aNode.Type() != NodeLeaf {
		return LeafNode{}, errors.Wrapf(ErrCorruptPage, "page %d is not a leaf node", pageIdx)
	}
	return aNode.Leaf(), nil
}

func (t *Table) internal(ctx context.Context, pageIdx PageIndex) (InternalNode, error) {
	aNode, err := t.node(ctx, pageIdx)
	if err != nil {
		return InternalNode{}, err
	}
	if aNode.Type() != NodeInternal {
		return InternalNode{}, errors.Wrapf(ErrCorruptPage, "page %d is not an internal node", pageIdx)
	}
	return aNode.Internal(), nil
}

// newPage materializes the next unused page. Its content is zeroed and
// must be initialized by the caller.
func (t *Table) newPage(ctx context.Context) (PageIndex, Node, error) {
	pageIdx := t.pager.UnusedPageIndex()
	buf, err := t.pager.GetPage(ctx, pageIdx)
	if err != nil {
		return 0, nil, errors.Wrap(err, "new page")
	}
	return pageIdx, Node(buf), nil
}

// Find returns a cursor at the cell holding key. If the key does not exist,
// the cursor points at the cell where it should be inserted.
func (t *Table) Find(ctx context.Context, key uint32) (*Cursor, error) {
	pageIdx := t.RootPageIdx

	// A well formed tree is never deeper than the number of its pages.
	for depth := uint32(0); depth <= t.pager.MaxPages(); depth++ {
		aNode, err := t.node(ctx, pageIdx)
		if err != nil {
			return nil, errors.Wrapf(err, "find key %d", key)
		}

		if aNode.Type() == NodeLeaf {
			return &Cursor{
				Table:   t,
				PageIdx: pageIdx,
				CellIdx: aNode.Leaf().Find(key),
			}, nil
		}

		anInternal := aNode.Internal()
		pageIdx, err = anInternal.ChildAt(anInternal.FindChild(key))
		if err != nil {
			return nil, errors.Wrapf(err, "find key %d", key)
		}
	}

	return nil, errors.Wrapf(ErrCorruptPage, "find key %d: tree deeper than %d pages", key, t.pager.MaxPages())
}

// Start returns a cursor at the smallest key of the table.
func (t *Table) Start(ctx context.Context) (*Cursor, error) {
	aCursor, err := t.Find(ctx, 0)
	if err != nil {
		return nil, err
	}

	aLeaf, err := t.leaf(ctx, aCursor.PageIdx)
	if err != nil {
		return nil, err
	}
	aCursor.EndOfTable = aLeaf.NumCells() == 0

	return aCursor, nil
}

// End returns a cursor positioned after the last cell of the root page.
// The slot is the root's cell count field, so the position is only the
// true end of the table while the root is the only leaf. Once the root
// has split, the slot is the root's key count on page 0.
func (t *Table) End(ctx context.Context) (*Cursor, error) {
	aRoot, err := t.node(ctx, t.RootPageIdx)
	if err != nil {
		return nil, err
	}

	return &Cursor{
		Table:      t,
		PageIdx:    t.RootPageIdx,
		CellIdx:    aRoot.Leaf().NumCells(),
		EndOfTable: true,
	}, nil
}

// Handle splitting the root.
// Old root copied to new page, becomes left child.
// Address of right child passed in.
// Re-initialize root page to contain the new root node.
// New root node points to two children.
func (t *Table) createNewRoot(ctx context.Context, rightChildPageIdx PageIndex) error {
	aRoot, err := t.node(ctx, t.RootPageIdx)
	if err != nil {
		return errors.Wrap(err, "create new root")
	}

	aRightChild, err := t.node(ctx, rightChildPageIdx)
	if err != nil {
		return errors.Wrap(err, "create new root")
	}

	leftChildPageIdx, aLeftChild, err := t.newPage(ctx)
	if err != nil {
		return errors.Wrap(err, "create new root")
	}

	t.logger.Sugar().With(
		"left_child_index", int(leftChildPageIdx),
		"right_child_index", int(rightChildPageIdx),
	).Debug("create new root")

	// Copy all node contents to left child
	copy(aLeftChild, aRoot)
	aLeftChild.SetRoot(false)

	if aLeftChild.Type() == NodeInternal {
		// Children of a relocated internal node follow it to its new page
		leftInternal := aLeftChild.Internal()
		for i := uint32(0); i <= leftInternal.NumKeys(); i++ {
			childPageIdx, err := leftInternal.ChildAt(i)
			if err != nil {
				return errors.Wrap(err, "create new root")
			}
			aChild, err := t.node(ctx, childPageIdx)
			if err != nil {
				return errors.Wrap(err, "create new root")
			}
			aChild.SetParent(leftChildPageIdx)
		}
	}

	leftChildMaxKey, _ := aLeftChild.MaxKey()

	// Change root node to a new internal node
	newRoot := aRoot.Internal()
	newRoot.Init()
	newRoot.SetRoot(true)
	newRoot.SetNumKeys(1)
	newRoot.SetChild(0, leftChildPageIdx)
	newRoot.SetKey(0, leftChildMaxKey)
	newRoot.SetRightChild(rightChildPageIdx)

	// Set parent for both left and right child
	aLeftChild.SetParent(t.RootPageIdx)
	aRightChild.SetParent(t.RootPageIdx)

	return nil
}

// Add a new child/key pair to parent that corresponds to child
func (t *Table) internalNodeInsert(ctx context.Context, parentPageIdx, childPageIdx PageIndex) error {
	aParent, err := t.internal(ctx, parentPageIdx)
	if err != nil {
		return errors.Wrap(err, "internal node insert")
	}

	aChild, err := t.node(ctx, childPageIdx)
	if err != nil {
		return errors.Wrap(err, "internal node insert")
	}

	originalKeyCount := aParent.NumKeys()
	if originalKeyCount >= InternalNodeMaxCells {
		return errors.Wrapf(ErrInternalNodeFull, "page %d has %d keys", parentPageIdx, originalKeyCount)
	}

	aChild.SetParent(parentPageIdx)

	childMaxKey, _ := aChild.MaxKey()
	index := aParent.FindChild(childMaxKey)

	// An internal node without a right child is empty
	rightChildPageIdx := aParent.RightChild()
	if rightChildPageIdx == NoPage {
		aParent.SetRightChild(childPageIdx)
		return nil
	}

	aRightChild, err := t.node(ctx, rightChildPageIdx)
	if err != nil {
		return errors.Wrap(err, "internal node insert")
	}
	rightChildMaxKey, _ := aRightChild.MaxKey()

	aParent.SetNumKeys(originalKeyCount + 1)

	if childMaxKey > rightChildMaxKey {
		// Replace right child
		aParent.SetChild(originalKeyCount, rightChildPageIdx)
		aParent.SetKey(originalKeyCount, rightChildMaxKey)
		aParent.SetRightChild(childPageIdx)
		return nil
	}

	// Make room for the new cell
	for i := originalKeyCount; i > index; i-- {
		copy(aParent.Cell(i), aParent.Cell(i-1))
	}
	aParent.SetChild(index, childPageIdx)
	aParent.SetKey(index, childMaxKey)

	return nil
}
