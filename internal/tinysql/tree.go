package tinysql

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/pkg/errors"
)

// PrintTree writes an indented dump of the tree to w, one node or key
// per line. It does not modify any page.
func (t *Table) PrintTree(ctx context.Context, w io.Writer) error {
	return t.printNode(ctx, w, t.RootPageIdx, 0)
}

func (t *Table) printNode(ctx context.Context, w io.Writer, pageIdx PageIndex, level uint32) error {
	if level > t.pager.MaxPages() {
		return errors.Wrapf(ErrCorruptPage, "print tree: page %d nested deeper than %d levels", pageIdx, t.pager.MaxPages())
	}

	aNode, err := t.node(ctx, pageIdx)
	if err != nil {
		return errors.Wrap(err, "print tree")
	}

	indent := strings.Repeat("  ", int(level))

	switch aNode.Type() {
	case NodeLeaf:
		aLeaf := aNode.Leaf()
		if _, err := fmt.Fprintf(w, "%s- leaf (size %d)\n", indent, aLeaf.NumCells()); err != nil {
			return err
		}
		for _, key := range aLeaf.Keys() {
			if _, err := fmt.Fprintf(w, "%s  - %d\n", indent, key); err != nil {
				return err
			}
		}
	case NodeInternal:
		anInternal := aNode.Internal()
		if _, err := fmt.Fprintf(w, "%s- internal (size %d)\n", indent, anInternal.NumKeys()); err != nil {
			return err
		}
		for i := range anInternal.NumKeys() {
			if err := t.printNode(ctx, w, anInternal.Child(i), level+1); err != nil {
				return err
			}
			if _, err := fmt.Fprintf(w, "%s  - key %d\n", indent, anInternal.Key(i)); err != nil {
				return err
			}
		}
		if err := t.printNode(ctx, w, anInternal.RightChild(), level+1); err != nil {
			return err
		}
	}

	return nil
}
