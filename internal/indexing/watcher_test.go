package indexing

import (
	"context"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cocosearch/cocosearch/internal/config"
	"github.com/cocosearch/cocosearch/internal/types"
)

// TestWatchRunsOnceBeforeAnyEvent grounds the "watch mode indexes the tree
// up front, not only on the first change" expectation: Watch must call the
// runner at least once even if ctx is cancelled before any fsnotify event
// arrives.
func TestWatchRunsOnceBeforeAnyEvent(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "a.py"), "def hello():\n    return 1\n")

	store := newFakeStore()
	runner := newTestRunner(t, store)
	w := NewWatcher(runner, 20*time.Millisecond)

	ctx, cancel := context.WithCancel(context.Background())

	var mu sync.Mutex
	var runs int
	onRun := func(types.RunSummary, error) {
		mu.Lock()
		runs++
		mu.Unlock()
		cancel()
	}

	err := w.Watch(ctx, root, "myproj", config.Default(), onRun)
	require.ErrorIs(t, err, context.Canceled)

	mu.Lock()
	defer mu.Unlock()
	assert.GreaterOrEqual(t, runs, 1)
}

// TestWatchReRunsAfterFileChange grounds C4's watch-mode re-index: writing a
// new file after the initial run triggers a second debounced run that picks
// it up.
func TestWatchReRunsAfterFileChange(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "a.py"), "def hello():\n    return 1\n")

	store := newFakeStore()
	runner := newTestRunner(t, store)
	w := NewWatcher(runner, 20*time.Millisecond)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var mu sync.Mutex
	var runs int
	done := make(chan struct{})
	onRun := func(types.RunSummary, error) {
		mu.Lock()
		runs++
		n := runs
		mu.Unlock()
		if n == 1 {
			writeFile(t, filepath.Join(root, "b.py"), "def world():\n    return 2\n")
		}
		if n == 2 {
			close(done)
		}
	}

	watchDone := make(chan struct{})
	go func() {
		_ = w.Watch(ctx, root, "myproj", config.Default(), onRun)
		close(watchDone)
	}()

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for second watch-triggered run")
	}

	cancel()
	select {
	case <-watchDone:
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for Watch to return after cancel")
	}

	found := false
	for _, c := range store.chunks {
		if c.Filename == "b.py" {
			found = true
		}
	}
	assert.True(t, found, "expected b.py to be indexed after the watch-triggered run")
}
