package ps

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/nickyhof/FlatDB/core"
)

var (
	ErrTableNotFound    = errors.New("table not found")
	ErrInvalidTableName = errors.New("invalid table name")
	ErrClosed           = errors.New("storage closed")
)

// Storage loads and saves whole tables. Implementations must be safe for
// concurrent use.
type Storage interface {
	LoadTable(ctx context.Context, name string) (core.Table, error)
	SaveTable(ctx context.Context, table core.Table) error
}

// Catalog is implemented by storages that can enumerate their tables.
type Catalog interface {
	ListTables(ctx context.Context) ([]string, error)
}

// Versioned is implemented by storages that record a transaction per save.
type Versioned interface {
	LatestTransaction() Transaction
	History(limit int) ([]Transaction, error)
}

// StorageError reports a failed load or save.
type StorageError struct {
	Op    string
	Table string
	Err   error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage error: %s %s: %v", e.Op, e.Table, e.Err)
}

func (e *StorageError) Unwrap() error {
	return e.Err
}

func loadError(table string, err error) error {
	return &StorageError{Op: "load", Table: table, Err: err}
}

func saveError(table string, err error) error {
	return &StorageError{Op: "save", Table: table, Err: err}
}

func validateTableName(name string) error {
	if strings.TrimSpace(name) == "" || strings.ContainsAny(name, `/\`) || name == "." || name == ".." {
		return fmt.Errorf("%w: %q", ErrInvalidTableName, name)
	}
	return nil
}

// Tables lists the tables held by storage, or ErrNotSupported when the
// backend cannot enumerate them.
func Tables(ctx context.Context, storage Storage) ([]string, error) {
	catalog, ok := storage.(Catalog)
	if !ok {
		return nil, ErrNotSupported
	}
	return catalog.ListTables(ctx)
}

var ErrNotSupported = errors.New("operation not supported by storage")

type identityKey struct{}

// WithIdentity attaches the author of a write to ctx. Versioned storages
// record it with the transaction.
func WithIdentity(ctx context.Context, identity core.Identity) context.Context {
	return context.WithValue(ctx, identityKey{}, identity)
}

// IdentityFromContext returns the identity attached by WithIdentity.
func IdentityFromContext(ctx context.Context) (core.Identity, bool) {
	identity, ok := ctx.Value(identityKey{}).(core.Identity)
	return identity, ok
}
