package indexing

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cocosearch/cocosearch/internal/config"
	"github.com/cocosearch/cocosearch/internal/handlers"
	"github.com/cocosearch/cocosearch/internal/symbols"
	"github.com/cocosearch/cocosearch/internal/types"
)

// fakeStore is an in-memory chunkStore, enough to exercise upsert,
// incrementality and orphan deletion without a live Postgres connection.
type fakeStore struct {
	mu        sync.Mutex
	chunks    map[string]types.Chunk // key: filename|start|end
	verdicts  []types.ParseVerdict
	schemaDim int
}

func newFakeStore() *fakeStore { return &fakeStore{chunks: map[string]types.Chunk{}} }

func (f *fakeStore) Ping(context.Context) error { return nil }

func (f *fakeStore) EnsureSchema(_ context.Context, _ string, dim int) error {
	f.schemaDim = dim
	return nil
}

func (f *fakeStore) ContentHashes(_ context.Context, _ string, filename string) (map[string]string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := map[string]string{}
	for _, c := range f.chunks {
		if c.Filename == filename {
			out[fmt.Sprintf("%d:%d", c.StartByte, c.EndByte)] = c.ContentHash
		}
	}
	return out, nil
}

func (f *fakeStore) UpsertChunk(_ context.Context, _ string, c types.Chunk) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.chunks[fmt.Sprintf("%s|%d|%d", c.Filename, c.StartByte, c.EndByte)] = c
	return nil
}

func (f *fakeStore) DeleteStaleSpans(_ context.Context, _ string, filename string, liveSpans [][2]int) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	live := map[[2]int]bool{}
	for _, sp := range liveSpans {
		live[sp] = true
	}
	deleted := 0
	for k, c := range f.chunks {
		if c.Filename != filename {
			continue
		}
		if !live[[2]int{c.StartByte, c.EndByte}] {
			delete(f.chunks, k)
			deleted++
		}
	}
	return deleted, nil
}

func (f *fakeStore) DeleteOrphans(_ context.Context, _ string, liveFiles []string) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	live := map[string]bool{}
	for _, lf := range liveFiles {
		live[lf] = true
	}
	deleted := 0
	for k, c := range f.chunks {
		if !live[c.Filename] {
			delete(f.chunks, k)
			deleted++
		}
	}
	return deleted, nil
}

func (f *fakeStore) WriteParseResults(_ context.Context, _ string, verdicts []types.ParseVerdict) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.verdicts = verdicts
	return nil
}

// fakeEmbedder returns a deterministic short vector so tests never touch
// the network.
type fakeEmbedder struct{ dim int }

func (e *fakeEmbedder) Embed(_ context.Context, text string) ([]float32, error) {
	return make([]float32, e.dim), nil
}
func (e *fakeEmbedder) Dimension(context.Context) (int, error) { return e.dim, nil }
func (e *fakeEmbedder) PreWarm(context.Context) error          { return nil }

func newTestRunner(t *testing.T, store *fakeStore) *Runner {
	t.Helper()
	registry, err := handlers.NewRegistry()
	require.NoError(t, err)
	return &Runner{
		Registry: registry,
		Symbols:  symbols.NewExtractor(),
		Embedder: &fakeEmbedder{dim: 8},
		Store:    store,
		Workers:  4,
		InFlight: 2,
	}
}

// TestRunIndexesPythonFileWithSymbol grounds S1: a single hello() function
// must come back with the right symbol fields after a run.
func TestRunIndexesPythonFileWithSymbol(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "lib", "a.py"), "def hello():\n    return \"world\"\n")

	store := newFakeStore()
	r := newTestRunner(t, store)
	cfg := config.Default()

	summary, err := r.Run(context.Background(), root, "myproj", cfg)
	require.NoError(t, err)
	assert.Equal(t, 1, summary.FilesIndexed)
	assert.GreaterOrEqual(t, summary.ChunksInserted, 1)

	var found bool
	for _, c := range store.chunks {
		if c.Filename == "lib/a.py" && c.SymbolName != nil && *c.SymbolName == "hello" {
			found = true
			assert.Equal(t, "function", *c.SymbolType)
		}
	}
	assert.True(t, found, "expected a chunk with symbol_name=hello")
}

// TestRunIsIdempotentOnUnchangedTree grounds property 3: a second run over
// an unchanged tree does not re-embed any chunk (ChunksUpdated counts the
// untouched chunks, ChunksInserted stays at zero).
func TestRunIsIdempotentOnUnchangedTree(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "main.go"), "package main\n\nfunc main() {}\n")

	store := newFakeStore()
	cfg := config.Default()

	r1 := newTestRunner(t, store)
	first, err := r1.Run(context.Background(), root, "myproj", cfg)
	require.NoError(t, err)
	require.Greater(t, first.ChunksInserted, 0)

	r2 := newTestRunner(t, store)
	second, err := r2.Run(context.Background(), root, "myproj", cfg)
	require.NoError(t, err)
	assert.Equal(t, 0, second.ChunksInserted)
	assert.Equal(t, first.ChunksInserted, second.ChunksUpdated)
}

// TestRunCleansUpStaleSpansWhenChunkBoundariesShift grounds the stale-span
// cleanup performed per file: a changed chunk_size between runs moves chunk
// boundaries within a file that otherwise still exists, and the rows keyed
// by the old boundaries must not linger alongside the new ones.
func TestRunCleansUpStaleSpansWhenChunkBoundariesShift(t *testing.T) {
	root := t.TempDir()
	var body strings.Builder
	for i := 0; i < 40; i++ {
		fmt.Fprintf(&body, "def fn_%d():\n    return %d\n", i, i)
	}
	writeFile(t, filepath.Join(root, "lib.py"), body.String())

	store := newFakeStore()

	smallCfg := config.Default()
	smallCfg.Indexing.ChunkSize = 80
	smallCfg.Indexing.ChunkOverlap = 0
	r1 := newTestRunner(t, store)
	first, err := r1.Run(context.Background(), root, "myproj", smallCfg)
	require.NoError(t, err)
	require.Greater(t, first.ChunksInserted, 1)
	firstSpanCount := len(store.chunks)

	largeCfg := config.Default()
	largeCfg.Indexing.ChunkSize = 4000
	largeCfg.Indexing.ChunkOverlap = 0
	r2 := newTestRunner(t, store)
	second, err := r2.Run(context.Background(), root, "myproj", largeCfg)
	require.NoError(t, err)

	assert.Greater(t, second.ChunksDeleted, 0)
	assert.Less(t, len(store.chunks), firstSpanCount)
	for _, c := range store.chunks {
		assert.Equal(t, "lib.py", c.Filename)
	}
}

// TestRunDeletesOrphanedFiles grounds the "files no longer present are
// removed" clause of C4 step 6.
func TestRunDeletesOrphanedFiles(t *testing.T) {
	root := t.TempDir()
	gone := filepath.Join(root, "gone.go")
	writeFile(t, gone, "package main\n\nfunc Gone() {}\n")

	store := newFakeStore()
	cfg := config.Default()
	r := newTestRunner(t, store)
	_, err := r.Run(context.Background(), root, "myproj", cfg)
	require.NoError(t, err)
	require.NotEmpty(t, store.chunks)

	require.NoError(t, os.Remove(gone))
	summary, err := r.Run(context.Background(), root, "myproj", cfg)
	require.NoError(t, err)
	assert.Greater(t, summary.ChunksDeleted, 0)
	assert.Empty(t, store.chunks)
}

// TestRunRejectsInvalidIndexName grounds S4.
func TestRunRejectsInvalidIndexName(t *testing.T) {
	root := t.TempDir()
	store := newFakeStore()
	r := newTestRunner(t, store)

	_, err := r.Run(context.Background(), root, "1my-proj", config.Default())
	require.Error(t, err)
	assert.Empty(t, store.chunks)
}
