// Package management implements index management (C10): enumerating,
// describing, and dropping indexes, and deriving a project's default index
// name when the caller doesn't supply one.
package management

import (
	"context"
	"sort"

	"github.com/cocosearch/cocosearch/internal/errs"
	"github.com/cocosearch/cocosearch/internal/gitutil"
	"github.com/cocosearch/cocosearch/internal/storage"
	"github.com/cocosearch/cocosearch/internal/types"
)

// Store is the slice of *storage.Store management needs.
type Store interface {
	ListIndexes(ctx context.Context) ([]string, error)
	Stats(ctx context.Context, indexName string) (types.IndexSummary, error)
	IndexExists(ctx context.Context, indexName string) (bool, error)
	DropIndex(ctx context.Context, indexName string) error
}

var _ Store = (*storage.Store)(nil)

// Invalidator is the cache-invalidation surface management needs on drop,
// satisfied by internal/cache.Cache.
type Invalidator interface {
	InvalidateIndex(indexName string)
}

// Manager drives the `list`/`stats`/`drop` CLI and MCP surface.
type Manager struct {
	Store Store
	Cache Invalidator // nil disables cache invalidation on drop
}

// NewManager wires a Manager's collaborators.
func NewManager(store Store, cache Invalidator) *Manager {
	return &Manager{Store: store, Cache: cache}
}

// List enumerates every index, sorted by name.
func (m *Manager) List(ctx context.Context) ([]string, error) {
	names, err := m.Store.ListIndexes(ctx)
	if err != nil {
		return nil, err
	}
	sort.Strings(names)
	return names, nil
}

// Stats describes one index. Returns an *errs.IndexNotFoundError if indexName
// doesn't exist, distinguishing "no such index" from an empty-but-present
// one.
func (m *Manager) Stats(ctx context.Context, indexName string) (types.IndexSummary, error) {
	exists, err := m.Store.IndexExists(ctx, indexName)
	if err != nil {
		return types.IndexSummary{}, err
	}
	if !exists {
		return types.IndexSummary{}, errs.NewIndexNotFoundError(indexName)
	}
	return m.Store.Stats(ctx, indexName)
}

// Drop removes an index's tables and invalidates any cached query results
// for it, in that order, so a cache entry can never outlive its index.
func (m *Manager) Drop(ctx context.Context, indexName string) error {
	exists, err := m.Store.IndexExists(ctx, indexName)
	if err != nil {
		return err
	}
	if !exists {
		return errs.NewIndexNotFoundError(indexName)
	}
	if err := m.Store.DropIndex(ctx, indexName); err != nil {
		return err
	}
	if m.Cache != nil {
		m.Cache.InvalidateIndex(indexName)
	}
	return nil
}

// DefaultIndexName derives the index name to use when a caller passes none,
// from the project directory's git toplevel basename.
func DefaultIndexName(projectRoot string) string {
	return gitutil.DefaultIndexName(projectRoot)
}
