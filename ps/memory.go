package ps

import (
	"context"
	"sort"
	"sync"

	"github.com/nickyhof/FlatDB/core"
)

// MemoryStorage keeps encoded tables in a map. Tables round-trip through the
// codec so loads behave exactly like the file backed storages.
type MemoryStorage struct {
	mu     sync.RWMutex
	codec  Codec
	tables map[string][]byte
}

func NewMemoryStorage(codec Codec) *MemoryStorage {
	return &MemoryStorage{
		codec:  codec,
		tables: make(map[string][]byte),
	}
}

func (m *MemoryStorage) LoadTable(ctx context.Context, name string) (core.Table, error) {
	if err := validateTableName(name); err != nil {
		return core.Table{}, loadError(name, err)
	}

	m.mu.RLock()
	data, ok := m.tables[name]
	m.mu.RUnlock()
	if !ok {
		return core.Table{}, loadError(name, ErrTableNotFound)
	}

	table, err := m.codec.Decode(name, data)
	if err != nil {
		return core.Table{}, loadError(name, err)
	}
	return table, nil
}

func (m *MemoryStorage) SaveTable(ctx context.Context, table core.Table) error {
	if err := validateTableName(table.Name); err != nil {
		return saveError(table.Name, err)
	}

	data, err := m.codec.Encode(table)
	if err != nil {
		return saveError(table.Name, err)
	}

	m.mu.Lock()
	m.tables[table.Name] = data
	m.mu.Unlock()
	return nil
}

func (m *MemoryStorage) ListTables(ctx context.Context) ([]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	names := make([]string, 0, len(m.tables))
	for name := range m.tables {
		names = append(names, name)
	}
	sort.Strings(names)
	return names, nil
}
