package ps

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/cockroachdb/pebble"
	"github.com/cockroachdb/pebble/vfs"
	"github.com/nickyhof/FlatDB/core"
	"github.com/nickyhof/FlatDB/logger"
)

const pebbleTablePrefix = "table/"

// PebbleStorage keeps each encoded table under the key "table/<name>".
type PebbleStorage struct {
	mu     sync.RWMutex
	db     *pebble.DB
	codec  Codec
	closed bool
}

// NewPebbleStorage opens or creates a Pebble store in dir.
func NewPebbleStorage(dir string, codec Codec) (*PebbleStorage, error) {
	return openPebble(dir, &pebble.Options{}, codec)
}

// NewMemoryPebbleStorage opens a Pebble store backed by an in-memory filesystem.
func NewMemoryPebbleStorage(codec Codec) (*PebbleStorage, error) {
	return openPebble("", &pebble.Options{FS: vfs.NewMem()}, codec)
}

func openPebble(dir string, opts *pebble.Options, codec Codec) (*PebbleStorage, error) {
	db, err := pebble.Open(dir, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to open pebble: %w", err)
	}
	return &PebbleStorage{db: db, codec: codec}, nil
}

func pebbleKey(name string) []byte {
	return []byte(pebbleTablePrefix + name)
}

func (p *PebbleStorage) LoadTable(ctx context.Context, name string) (core.Table, error) {
	if err := validateTableName(name); err != nil {
		return core.Table{}, loadError(name, err)
	}

	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.closed {
		return core.Table{}, loadError(name, ErrClosed)
	}

	value, closer, err := p.db.Get(pebbleKey(name))
	if errors.Is(err, pebble.ErrNotFound) {
		return core.Table{}, loadError(name, ErrTableNotFound)
	}
	if err != nil {
		return core.Table{}, loadError(name, err)
	}
	data := make([]byte, len(value))
	copy(data, value)
	closer.Close()

	table, err := p.codec.Decode(name, data)
	if err != nil {
		return core.Table{}, loadError(name, err)
	}
	return table, nil
}

func (p *PebbleStorage) SaveTable(ctx context.Context, table core.Table) error {
	if err := validateTableName(table.Name); err != nil {
		return saveError(table.Name, err)
	}

	data, err := p.codec.Encode(table)
	if err != nil {
		return saveError(table.Name, err)
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return saveError(table.Name, ErrClosed)
	}

	if err := p.db.Set(pebbleKey(table.Name), data, pebble.Sync); err != nil {
		return saveError(table.Name, err)
	}
	logger.DebugContext(ctx, "table stored", "table", table.Name, "bytes", len(data))
	return nil
}

func (p *PebbleStorage) ListTables(ctx context.Context) ([]string, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.closed {
		return nil, ErrClosed
	}

	iter, err := p.db.NewIter(&pebble.IterOptions{
		LowerBound: []byte(pebbleTablePrefix),
		UpperBound: []byte("table0"),
	})
	if err != nil {
		return nil, err
	}
	defer iter.Close()

	var names []string
	for iter.First(); iter.Valid(); iter.Next() {
		names = append(names, string(iter.Key()[len(pebbleTablePrefix):]))
	}
	return names, iter.Error()
}

func (p *PebbleStorage) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return nil
	}
	p.closed = true
	return p.db.Close()
}
