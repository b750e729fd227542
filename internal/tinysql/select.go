package tinysql

import (
	"context"
)

// Scan calls fn for every row in ascending ID order. Returning an error
// from fn stops the scan and returns that error.
func (t *Table) Scan(ctx context.Context, fn func(Row) error) error {
	aCursor, err := t.Start(ctx)
	if err != nil {
		return err
	}

	for !aCursor.EndOfTable {
		aRow, err := aCursor.Row(ctx)
		if err != nil {
			return err
		}
		if err := fn(aRow); err != nil {
			return err
		}
		if err := aCursor.Advance(ctx); err != nil {
			return err
		}
	}

	return nil
}

// Select returns all rows of the table ordered by ID.
func (t *Table) Select(ctx context.Context) ([]Row, error) {
	var rows []Row
	err := t.Scan(ctx, func(aRow Row) error {
		rows = append(rows, aRow)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return rows, nil
}
