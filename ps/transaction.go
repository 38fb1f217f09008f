package ps

import (
	"errors"
	"fmt"
	"time"

	"github.com/go-git/go-git/v6"
	"github.com/go-git/go-git/v6/plumbing/object"
	"github.com/go-git/go-git/v6/plumbing/storer"
)

// Transaction identifies one committed save.
type Transaction struct {
	Id      string
	When    time.Time
	Author  string // "Name <email>" format
	Message string
}

func (transaction Transaction) String() string {
	return fmt.Sprintf("Transaction{Id: %s, When: %s, Author: %s}", transaction.Id, transaction.When, transaction.Author)
}

func (transaction Transaction) IsZero() bool {
	return transaction.Id == ""
}

func transactionOf(c *object.Commit) Transaction {
	author := ""
	if c.Author.Name != "" || c.Author.Email != "" {
		author = fmt.Sprintf("%s <%s>", c.Author.Name, c.Author.Email)
	}
	return Transaction{
		Id:      c.Hash.String(),
		When:    c.Committer.When,
		Author:  author,
		Message: c.Message,
	}
}

// LatestTransaction returns the HEAD commit, or the zero Transaction when
// nothing has been saved yet.
func (g *GitStorage) LatestTransaction() Transaction {
	if !g.IsInitialized() {
		return Transaction{}
	}

	g.mu.RLock()
	defer g.mu.RUnlock()

	headRef, err := g.repo.Head()
	if err != nil || headRef == nil {
		return Transaction{}
	}

	commit, err := g.repo.CommitObject(headRef.Hash())
	if err != nil {
		return Transaction{}
	}

	return transactionOf(commit)
}

// History returns up to limit transactions, newest first. A limit of zero or
// less returns the full history.
func (g *GitStorage) History(limit int) ([]Transaction, error) {
	if err := g.ensureInitialized(); err != nil {
		return nil, err
	}

	g.mu.RLock()
	defer g.mu.RUnlock()

	if _, err := g.repo.Head(); err != nil {
		return nil, nil
	}

	cIter, err := g.repo.Log(&git.LogOptions{})
	if err != nil {
		return nil, err
	}
	defer cIter.Close()

	var transactions []Transaction
	err = cIter.ForEach(func(c *object.Commit) error {
		if limit > 0 && len(transactions) >= limit {
			return storer.ErrStop
		}
		transactions = append(transactions, transactionOf(c))
		return nil
	})
	if err != nil && !errors.Is(err, storer.ErrStop) {
		return nil, err
	}

	return transactions, nil
}
