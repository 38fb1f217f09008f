package op

import (
	"context"
	"iter"

	"github.com/nickyhof/FlatDB/core"
	"github.com/nickyhof/FlatDB/ps"
)

// TableOp holds one loaded table. Changes stay in memory until Save writes
// the whole table back.
type TableOp struct {
	Table   core.Table
	Storage ps.Storage
}

// CreateTable saves an empty table with the given header.
func CreateTable(ctx context.Context, table core.Table, storage ps.Storage) (*TableOp, error) {
	table.Rows = nil
	if err := storage.SaveTable(ctx, table); err != nil {
		return nil, err
	}

	return &TableOp{
		Table:   table,
		Storage: storage,
	}, nil
}

func GetTable(ctx context.Context, tableName string, storage ps.Storage) (*TableOp, error) {
	table, err := storage.LoadTable(ctx, tableName)
	if err != nil {
		return nil, err
	}

	return &TableOp{
		Table:   table,
		Storage: storage,
	}, nil
}

func (op *TableOp) Name() string {
	return op.Table.Name
}

func (op *TableOp) Columns() []string {
	return op.Table.Columns
}

func (op *TableOp) Count() int {
	return len(op.Table.Rows)
}

func (op *TableOp) Rows() []core.Row {
	return op.Table.Rows
}

// Scan yields rows in table order together with their position.
func (op *TableOp) Scan() iter.Seq2[int, core.Row] {
	return op.ScanWithFilter(nil)
}

func (op *TableOp) ScanWithFilter(filterExpr func(row core.Row) bool) iter.Seq2[int, core.Row] {
	return func(yield func(int, core.Row) bool) {
		for i, row := range op.Table.Rows {
			if filterExpr != nil && !filterExpr(row) {
				continue
			}
			if !yield(i, row) {
				return
			}
		}
	}
}

// Insert appends a row. Columns the table does not have yet are added to
// its header.
func (op *TableOp) Insert(row core.Row) {
	op.Table.Append(row)
}

// DeleteWhere removes every row for which match returns true and reports
// how many were removed. Remaining rows keep their relative order.
func (op *TableOp) DeleteWhere(match func(row core.Row) bool) int {
	kept := op.Table.Rows[:0]
	removed := 0
	for _, row := range op.Table.Rows {
		if match(row) {
			removed++
			continue
		}
		kept = append(kept, row)
	}
	op.Table.Rows = kept
	return removed
}

// Truncate removes all rows and keeps the header.
func (op *TableOp) Truncate() int {
	removed := len(op.Table.Rows)
	op.Table.Rows = nil
	return removed
}

func (op *TableOp) Save(ctx context.Context) error {
	return op.Storage.SaveTable(ctx, op.Table)
}

// Transaction returns the latest transaction of a versioned storage, or the
// zero Transaction.
func (op *TableOp) Transaction() ps.Transaction {
	return LatestTransaction(op.Storage)
}

func LatestTransaction(storage ps.Storage) ps.Transaction {
	if versioned, ok := storage.(ps.Versioned); ok {
		return versioned.LatestTransaction()
	}
	return ps.Transaction{}
}
