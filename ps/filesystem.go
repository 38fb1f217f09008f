package ps

import (
	"context"
	"errors"
	"os"
	"sort"
	"strings"
	"sync"

	"github.com/go-git/go-billy/v6"
	"github.com/go-git/go-billy/v6/memfs"
	"github.com/go-git/go-billy/v6/osfs"
	"github.com/go-git/go-billy/v6/util"
	"github.com/nickyhof/FlatDB/core"
	"github.com/nickyhof/FlatDB/logger"
)

// FileStorage stores each table as "<name><ext>" in the root of a billy
// filesystem. Saves go to a temporary file that is renamed over the target.
type FileStorage struct {
	mu    sync.RWMutex
	fs    billy.Filesystem
	codec Codec
}

// NewFileStorage stores tables in baseDir, creating it if needed.
func NewFileStorage(baseDir string, codec Codec) (*FileStorage, error) {
	if err := os.MkdirAll(baseDir, 0755); err != nil {
		return nil, err
	}
	return NewFilesystemStorage(osfs.New(baseDir), codec), nil
}

// NewMemoryFileStorage is a FileStorage over an in-memory filesystem.
func NewMemoryFileStorage(codec Codec) *FileStorage {
	return NewFilesystemStorage(memfs.New(), codec)
}

func NewFilesystemStorage(fs billy.Filesystem, codec Codec) *FileStorage {
	return &FileStorage{fs: fs, codec: codec}
}

func (f *FileStorage) path(name string) string {
	return name + f.codec.Extension()
}

func (f *FileStorage) LoadTable(ctx context.Context, name string) (core.Table, error) {
	if err := validateTableName(name); err != nil {
		return core.Table{}, loadError(name, err)
	}

	f.mu.RLock()
	data, err := util.ReadFile(f.fs, f.path(name))
	f.mu.RUnlock()
	if errors.Is(err, os.ErrNotExist) {
		return core.Table{}, loadError(name, ErrTableNotFound)
	}
	if err != nil {
		return core.Table{}, loadError(name, err)
	}

	table, err := f.codec.Decode(name, data)
	if err != nil {
		return core.Table{}, loadError(name, err)
	}
	return table, nil
}

func (f *FileStorage) SaveTable(ctx context.Context, table core.Table) error {
	if err := validateTableName(table.Name); err != nil {
		return saveError(table.Name, err)
	}

	data, err := f.codec.Encode(table)
	if err != nil {
		return saveError(table.Name, err)
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	if err := f.writeAtomic(f.path(table.Name), data); err != nil {
		return saveError(table.Name, err)
	}
	logger.DebugContext(ctx, "table written", "table", table.Name, "bytes", len(data))
	return nil
}

func (f *FileStorage) writeAtomic(target string, data []byte) error {
	tmp, err := util.TempFile(f.fs, ".", "."+target+"-")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		f.fs.Remove(tmpName)
		return err
	}
	if err := tmp.Close(); err != nil {
		f.fs.Remove(tmpName)
		return err
	}

	if err := f.fs.Rename(tmpName, target); err != nil {
		f.fs.Remove(tmpName)
		return err
	}
	return nil
}

func (f *FileStorage) ListTables(ctx context.Context) ([]string, error) {
	f.mu.RLock()
	entries, err := f.fs.ReadDir(".")
	f.mu.RUnlock()
	if err != nil {
		return nil, err
	}

	ext := f.codec.Extension()
	var names []string
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || strings.HasPrefix(name, ".") || !strings.HasSuffix(name, ext) {
			continue
		}
		names = append(names, strings.TrimSuffix(name, ext))
	}
	sort.Strings(names)
	return names, nil
}
