package ps

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"
	"sync"

	"github.com/go-git/go-billy/v6/memfs"
	"github.com/go-git/go-billy/v6/osfs"
	"github.com/go-git/go-git/v6"
	"github.com/go-git/go-git/v6/plumbing/cache"
	"github.com/go-git/go-git/v6/storage/filesystem"
	"github.com/go-git/go-git/v6/storage/memory"
	"github.com/nickyhof/FlatDB/core"
	"github.com/nickyhof/FlatDB/logger"
)

var ErrNotInitialized = errors.New("git storage not initialized")

// DefaultIdentity authors commits when the context carries no identity.
var DefaultIdentity = core.Identity{Name: "FlatDB", Email: "flatdb@localhost"}

// GitStorage keeps every table as "<name><ext>" at the root of a Git tree.
// Each save is a commit on the current branch.
type GitStorage struct {
	repo         *git.Repository
	mu           sync.RWMutex
	codec        Codec
	isMemoryMode bool
}

func (g *GitStorage) IsInitialized() bool {
	return g != nil && g.repo != nil
}

func (g *GitStorage) ensureInitialized() error {
	if !g.IsInitialized() {
		return ErrNotInitialized
	}
	return nil
}

func NewMemoryGitStorage(codec Codec) (*GitStorage, error) {
	wt := memfs.New()
	storer := memory.NewStorage()

	repo, err := git.Init(storer, git.WithWorkTree(wt))
	if err != nil {
		return nil, err
	}

	return &GitStorage{
		repo:         repo,
		codec:        codec,
		isMemoryMode: true,
	}, nil
}

// NewGitStorage opens the repository in baseDir, initializing it when
// baseDir has no .git directory yet. A non-nil gitUrl clones instead.
func NewGitStorage(baseDir string, gitUrl *string, codec Codec) (*GitStorage, error) {
	if err := os.MkdirAll(baseDir, 0755); err != nil {
		return nil, err
	}

	wt := osfs.New(baseDir)
	fs, err := wt.Chroot(".git")
	if err != nil {
		return nil, err
	}

	storer := filesystem.NewStorageWithOptions(
		fs,
		cache.NewObjectLRUDefault(),
		filesystem.Options{ExclusiveAccess: true})

	var repo *git.Repository

	if gitUrl != nil {
		repo, err = git.Clone(storer, wt, &git.CloneOptions{
			URL: *gitUrl,
		})
		if err != nil {
			return nil, err
		}
	} else {
		_, statErr := os.Stat(fs.Root())
		if statErr != nil {
			repo, err = git.Init(storer, git.WithWorkTree(wt))
		} else {
			repo, err = git.Open(storer, wt)
		}
		if err != nil {
			return nil, err
		}
	}

	return &GitStorage{
		repo:  repo,
		codec: codec,
	}, nil
}

func (g *GitStorage) path(name string) string {
	return name + g.codec.Extension()
}

func (g *GitStorage) LoadTable(ctx context.Context, name string) (core.Table, error) {
	if err := validateTableName(name); err != nil {
		return core.Table{}, loadError(name, err)
	}
	if err := g.ensureInitialized(); err != nil {
		return core.Table{}, loadError(name, err)
	}

	g.mu.RLock()
	data, err := g.readFileDirect(g.path(name))
	g.mu.RUnlock()
	if err != nil {
		return core.Table{}, loadError(name, err)
	}

	table, err := g.codec.Decode(name, data)
	if err != nil {
		return core.Table{}, loadError(name, err)
	}
	return table, nil
}

// SaveTable commits the encoded table. The commit author comes from
// IdentityFromContext, falling back to DefaultIdentity.
func (g *GitStorage) SaveTable(ctx context.Context, table core.Table) error {
	if err := validateTableName(table.Name); err != nil {
		return saveError(table.Name, err)
	}
	if err := g.ensureInitialized(); err != nil {
		return saveError(table.Name, err)
	}

	data, err := g.codec.Encode(table)
	if err != nil {
		return saveError(table.Name, err)
	}

	identity, ok := IdentityFromContext(ctx)
	if !ok {
		identity = DefaultIdentity
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	message := fmt.Sprintf("Saving table %s", table.Name)
	txn, err := g.writeFileDirect(g.path(table.Name), data, identity, message)
	if err != nil {
		return saveError(table.Name, err)
	}
	logger.DebugContext(ctx, "table committed", "table", table.Name, "commit", txn.Id, "author", txn.Author)
	return nil
}

func (g *GitStorage) ListTables(ctx context.Context) ([]string, error) {
	if err := g.ensureInitialized(); err != nil {
		return nil, err
	}

	g.mu.RLock()
	entries, err := g.listEntriesDirect()
	g.mu.RUnlock()
	if err != nil {
		return nil, err
	}

	ext := g.codec.Extension()
	var names []string
	for _, entry := range entries {
		if entry.IsDir || !strings.HasSuffix(entry.Name, ext) {
			continue
		}
		names = append(names, strings.TrimSuffix(entry.Name, ext))
	}
	sort.Strings(names)
	return names, nil
}
