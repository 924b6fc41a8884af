package indexing

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/cocosearch/cocosearch/internal/config"
	"github.com/cocosearch/cocosearch/internal/logging"
	"github.com/cocosearch/cocosearch/internal/types"
)

// Watcher drives C4's optional watch mode: instead of replaying individual
// fsnotify events through the pipeline, it debounces bursts of filesystem
// activity and replays a full Runner.Run, which is already incremental via
// per-chunk content_hash comparison. Simpler than tracking per-file event
// types, and just as correct since Run never re-embeds unchanged content.
type Watcher struct {
	runner   *Runner
	debounce time.Duration
}

// NewWatcher wires a Watcher around an existing Runner. debounce is the
// quiet period after the last filesystem event before a run fires;
// zero/negative falls back to 500ms, matching the teacher's default
// WatchDebounceMs.
func NewWatcher(runner *Runner, debounce time.Duration) *Watcher {
	if debounce <= 0 {
		debounce = 500 * time.Millisecond
	}
	return &Watcher{runner: runner, debounce: debounce}
}

// Watch blocks until ctx is cancelled, re-running the indexing pipeline
// against codebasePath/indexName each time the debounce period elapses
// after a filesystem change. onRun is called after every run (including
// the initial one before any event fires) so the caller can report
// progress; onRun may be nil.
func (w *Watcher) Watch(ctx context.Context, codebasePath, indexName string, cfg *config.Config, onRun func(types.RunSummary, error)) error {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer fsw.Close()

	scanner := newScanner(codebasePath, cfg.Indexing)
	if err := addWatchDirs(fsw, codebasePath, scanner); err != nil {
		return err
	}

	report := func() {
		summary, err := w.runner.Run(ctx, codebasePath, indexName, cfg)
		if onRun != nil {
			onRun(summary, err)
		}
	}
	report()

	var (
		mu    sync.Mutex
		timer *time.Timer
	)
	scheduleRun := func() {
		mu.Lock()
		defer mu.Unlock()
		if timer != nil {
			timer.Stop()
		}
		timer = time.AfterFunc(w.debounce, report)
	}

	for {
		select {
		case <-ctx.Done():
			mu.Lock()
			if timer != nil {
				timer.Stop()
			}
			mu.Unlock()
			return ctx.Err()
		case ev, ok := <-fsw.Events:
			if !ok {
				return nil
			}
			if ev.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Remove|fsnotify.Rename) == 0 {
				continue
			}
			if info, err := os.Stat(ev.Name); err == nil && info.IsDir() && ev.Op&fsnotify.Create != 0 {
				_ = addWatchDirs(fsw, ev.Name, scanner)
			}
			scheduleRun()
		case err, ok := <-fsw.Errors:
			if !ok {
				return nil
			}
			logging.L().Warn().Err(err).Msg("file watcher error")
		}
	}
}

// addWatchDirs registers a watch on root and every non-excluded
// subdirectory beneath it.
func addWatchDirs(fsw *fsnotify.Watcher, root string, s *scanner) error {
	return filepath.WalkDir(root, func(path string, d os.DirEntry, walkErr error) error {
		if walkErr != nil || !d.IsDir() {
			return nil
		}
		if path != root {
			rel, err := filepath.Rel(s.root, path)
			if err == nil && s.excluded(filepath.ToSlash(rel)+"/", true) {
				return filepath.SkipDir
			}
		}
		return fsw.Add(path)
	})
}
