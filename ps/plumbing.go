package ps

import (
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/go-git/go-git/v6"
	"github.com/go-git/go-git/v6/plumbing"
	"github.com/go-git/go-git/v6/plumbing/filemode"
	"github.com/go-git/go-git/v6/plumbing/object"
	"github.com/nickyhof/FlatDB/core"
)

// createBlob creates a blob object directly in the object store without filesystem I/O
func (g *GitStorage) createBlob(data []byte) (plumbing.Hash, error) {
	obj := g.repo.Storer.NewEncodedObject()
	obj.SetType(plumbing.BlobObject)
	obj.SetSize(int64(len(data)))

	writer, err := obj.Writer()
	if err != nil {
		return plumbing.ZeroHash, fmt.Errorf("failed to create blob writer: %w", err)
	}

	if _, err := writer.Write(data); err != nil {
		writer.Close()
		return plumbing.ZeroHash, fmt.Errorf("failed to write blob data: %w", err)
	}
	writer.Close()

	hash, err := g.repo.Storer.SetEncodedObject(obj)
	if err != nil {
		return plumbing.ZeroHash, fmt.Errorf("failed to store blob: %w", err)
	}

	return hash, nil
}

// headTree returns the tree of the HEAD commit, or nil when there are no
// commits yet.
func (g *GitStorage) headTree() (*object.Tree, error) {
	headRef, err := g.repo.Head()
	if err != nil {
		return nil, nil
	}

	commit, err := g.repo.CommitObject(headRef.Hash())
	if err != nil {
		return nil, fmt.Errorf("failed to get head commit: %w", err)
	}

	tree, err := commit.Tree()
	if err != nil {
		return nil, fmt.Errorf("failed to get tree: %w", err)
	}
	return tree, nil
}

// buildTreeFromEntries creates a tree object from a list of entries
func (g *GitStorage) buildTreeFromEntries(entries []object.TreeEntry) (plumbing.Hash, error) {
	// Git orders directories as if they had a trailing slash
	sort.Slice(entries, func(i, j int) bool {
		nameI := entries[i].Name
		nameJ := entries[j].Name
		if entries[i].Mode == filemode.Dir {
			nameI += "/"
		}
		if entries[j].Mode == filemode.Dir {
			nameJ += "/"
		}
		return nameI < nameJ
	})

	tree := &object.Tree{Entries: entries}

	obj := g.repo.Storer.NewEncodedObject()
	if err := tree.Encode(obj); err != nil {
		return plumbing.ZeroHash, fmt.Errorf("failed to encode tree: %w", err)
	}

	hash, err := g.repo.Storer.SetEncodedObject(obj)
	if err != nil {
		return plumbing.ZeroHash, fmt.Errorf("failed to store tree: %w", err)
	}

	return hash, nil
}

// putTreeEntry returns a copy of the HEAD tree with name pointing at blobHash.
func (g *GitStorage) putTreeEntry(name string, blobHash plumbing.Hash) (plumbing.Hash, error) {
	current, err := g.headTree()
	if err != nil {
		return plumbing.ZeroHash, err
	}

	entries := []object.TreeEntry{{
		Name: name,
		Mode: filemode.Regular,
		Hash: blobHash,
	}}
	if current != nil {
		for _, entry := range current.Entries {
			if entry.Name != name {
				entries = append(entries, entry)
			}
		}
	}

	return g.buildTreeFromEntries(entries)
}

// createCommitDirect creates a commit object directly without using worktree
func (g *GitStorage) createCommitDirect(treeHash plumbing.Hash, identity core.Identity, message string) (Transaction, error) {
	var parentHashes []plumbing.Hash
	headRef, err := g.repo.Head()
	if err == nil {
		parentHashes = []plumbing.Hash{headRef.Hash()}
	}

	sig := object.Signature{
		Name:  identity.Name,
		Email: identity.Email,
		When:  time.Now(),
	}

	commit := &object.Commit{
		Author:       sig,
		Committer:    sig,
		Message:      message,
		TreeHash:     treeHash,
		ParentHashes: parentHashes,
	}

	obj := g.repo.Storer.NewEncodedObject()
	if err := commit.Encode(obj); err != nil {
		return Transaction{}, fmt.Errorf("failed to encode commit: %w", err)
	}

	commitHash, err := g.repo.Storer.SetEncodedObject(obj)
	if err != nil {
		return Transaction{}, fmt.Errorf("failed to store commit: %w", err)
	}

	branchName := plumbing.Master
	if headRef != nil && headRef.Name().IsBranch() {
		branchName = headRef.Name()
	}

	ref := plumbing.NewHashReference(branchName, commitHash)
	if err := g.repo.Storer.SetReference(ref); err != nil {
		return Transaction{}, fmt.Errorf("failed to update HEAD: %w", err)
	}

	return Transaction{
		Id:     commitHash.String(),
		When:   sig.When,
		Author: identity.String(),
	}, nil
}

// writeFileDirect commits data at filePath using the plumbing API
func (g *GitStorage) writeFileDirect(filePath string, data []byte, identity core.Identity, message string) (Transaction, error) {
	blobHash, err := g.createBlob(data)
	if err != nil {
		return Transaction{}, fmt.Errorf("failed to create blob: %w", err)
	}

	newTree, err := g.putTreeEntry(filePath, blobHash)
	if err != nil {
		return Transaction{}, fmt.Errorf("failed to update tree: %w", err)
	}

	txn, err := g.createCommitDirect(newTree, identity, message)
	if err != nil {
		return Transaction{}, err
	}

	if err := g.syncWorktree(); err != nil {
		return Transaction{}, fmt.Errorf("failed to sync worktree: %w", err)
	}

	return txn, nil
}

// syncWorktree updates the worktree filesystem to match HEAD so the table
// files can be read with ordinary tools. Memory mode reads the tree directly
// and skips it.
func (g *GitStorage) syncWorktree() error {
	if g.isMemoryMode {
		return nil
	}

	wt, err := g.repo.Worktree()
	if err != nil {
		return err
	}

	headRef, err := g.repo.Head()
	if err != nil {
		return err
	}

	return wt.Reset(&git.ResetOptions{
		Mode:   git.HardReset,
		Commit: headRef.Hash(),
	})
}

// readFileDirect reads a file directly from the HEAD tree
func (g *GitStorage) readFileDirect(filePath string) ([]byte, error) {
	tree, err := g.headTree()
	if err != nil {
		return nil, err
	}
	if tree == nil {
		return nil, ErrTableNotFound
	}

	file, err := tree.File(filePath)
	if errors.Is(err, object.ErrFileNotFound) {
		return nil, ErrTableNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find %s: %w", filePath, err)
	}

	content, err := file.Contents()
	if err != nil {
		return nil, fmt.Errorf("failed to read contents: %w", err)
	}

	return []byte(content), nil
}

// TreeEntry represents a directory entry from the Git tree
type TreeEntry struct {
	Name  string
	IsDir bool
}

func (g *GitStorage) listEntriesDirect() ([]TreeEntry, error) {
	tree, err := g.headTree()
	if err != nil || tree == nil {
		return nil, err
	}

	entries := make([]TreeEntry, 0, len(tree.Entries))
	for _, entry := range tree.Entries {
		entries = append(entries, TreeEntry{
			Name:  entry.Name,
			IsDir: entry.Mode == filemode.Dir,
		})
	}

	return entries, nil
}
