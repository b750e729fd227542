package tinysql

import (
	"context"

	"go.uber.org/zap"
)

// Insert adds the row keyed by its ID. Inserting an ID which already
// exists returns ErrDuplicateKey and leaves the table unchanged.
func (t *Table) Insert(ctx context.Context, aRow Row) error {
	aCursor, err := t.Find(ctx, aRow.ID)
	if err != nil {
		return err
	}

	if err := aCursor.Insert(ctx, aRow.ID, aRow); err != nil {
		return err
	}

	t.logger.Debug("inserted row",
		zap.Uint32("id", aRow.ID),
		zap.Uint32("page_index", uint32(aCursor.PageIdx)),
	)

	return nil
}
