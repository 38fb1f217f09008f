package op

import (
	"context"
	"fmt"
	"io"

	"github.com/nickyhof/FlatDB/ps"
)

// CatalogOp wraps storage-wide operations.
type CatalogOp struct {
	Storage ps.Storage
}

func GetCatalog(storage ps.Storage) *CatalogOp {
	return &CatalogOp{Storage: storage}
}

func (op *CatalogOp) TableNames(ctx context.Context) ([]string, error) {
	return ps.Tables(ctx, op.Storage)
}

// Import reads delimited text from r and saves it as table name, replacing
// any existing table of that name. It returns the number of rows imported.
func (op *CatalogOp) Import(ctx context.Context, name string, r io.Reader, codec ps.Codec) (int, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return 0, fmt.Errorf("failed to read %s: %w", name, err)
	}

	table, err := codec.Decode(name, data)
	if err != nil {
		return 0, fmt.Errorf("failed to decode %s: %w", name, err)
	}

	if err := op.Storage.SaveTable(ctx, table); err != nil {
		return 0, err
	}
	return len(table.Rows), nil
}

// History lists recent transactions, newest first.
func (op *CatalogOp) History(limit int) ([]ps.Transaction, error) {
	versioned, ok := op.Storage.(ps.Versioned)
	if !ok {
		return nil, ps.ErrNotSupported
	}
	return versioned.History(limit)
}
