package management

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cocosearch/cocosearch/internal/errs"
	"github.com/cocosearch/cocosearch/internal/types"
)

type fakeStore struct {
	names    []string
	existing map[string]bool
	stats    map[string]types.IndexSummary
	dropped  []string
}

func (f *fakeStore) ListIndexes(context.Context) ([]string, error) { return f.names, nil }
func (f *fakeStore) Stats(_ context.Context, name string) (types.IndexSummary, error) {
	return f.stats[name], nil
}
func (f *fakeStore) IndexExists(_ context.Context, name string) (bool, error) {
	return f.existing[name], nil
}
func (f *fakeStore) DropIndex(_ context.Context, name string) error {
	f.dropped = append(f.dropped, name)
	return nil
}

type fakeInvalidator struct{ invalidated []string }

func (f *fakeInvalidator) InvalidateIndex(name string) { f.invalidated = append(f.invalidated, name) }

func TestListReturnsSortedNames(t *testing.T) {
	m := NewManager(&fakeStore{names: []string{"zebra", "alpha"}}, nil)
	got, err := m.List(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"alpha", "zebra"}, got)
}

func TestStatsReturnsIndexNotFoundForMissingIndex(t *testing.T) {
	m := NewManager(&fakeStore{existing: map[string]bool{}}, nil)
	_, err := m.Stats(context.Background(), "ghost")
	require.Error(t, err)
	var notFound *errs.IndexNotFoundError
	require.ErrorAs(t, err, &notFound)
}

func TestDropInvalidatesCache(t *testing.T) {
	store := &fakeStore{existing: map[string]bool{"proj": true}}
	inval := &fakeInvalidator{}
	m := NewManager(store, inval)

	require.NoError(t, m.Drop(context.Background(), "proj"))
	assert.Equal(t, []string{"proj"}, store.dropped)
	assert.Equal(t, []string{"proj"}, inval.invalidated)
}

func TestDropOnMissingIndexReturnsErrorWithoutDropping(t *testing.T) {
	store := &fakeStore{existing: map[string]bool{}}
	inval := &fakeInvalidator{}
	m := NewManager(store, inval)

	err := m.Drop(context.Background(), "ghost")
	require.Error(t, err)
	assert.Empty(t, store.dropped)
	assert.Empty(t, inval.invalidated)
}
