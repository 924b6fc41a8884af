// Package logging wraps zerolog the way the teacher's internal/debug wraps
// fmt: a process-wide logger other packages import directly, with a level
// gate callers can tighten at startup.
package logging

import (
	"io"
	"os"
	"sync"

	"github.com/rs/zerolog"
)

var (
	mu  sync.RWMutex
	log zerolog.Logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: "15:04:05"}).
		With().Timestamp().Logger().Level(zerolog.InfoLevel)
)

// Configure replaces the process-wide logger, e.g. to switch to JSON output
// for machine consumption or to raise verbosity. The CLI calls it once at
// startup with console output at info level.
func Configure(w io.Writer, level zerolog.Level, json bool) {
	mu.Lock()
	defer mu.Unlock()
	if json {
		log = zerolog.New(w).With().Timestamp().Logger().Level(level)
		return
	}
	log = zerolog.New(zerolog.ConsoleWriter{Out: w, TimeFormat: "15:04:05"}).With().Timestamp().Logger().Level(level)
}

// L returns the current process-wide logger.
func L() *zerolog.Logger {
	mu.RLock()
	defer mu.RUnlock()
	return &log
}

// onceWarnings deduplicates the "one-time warning" degradations spec.md
// calls for (missing content_tsv, missing symbol columns, …).
var (
	onceMu   sync.Mutex
	onceSeen = map[string]bool{}
)

// Once logs msg at warn level the first time it is called with a given key
// in this process's lifetime; subsequent calls are silent.
func Once(key, msg string) {
	onceMu.Lock()
	seen := onceSeen[key]
	onceSeen[key] = true
	onceMu.Unlock()
	if !seen {
		L().Warn().Str("key", key).Msg(msg)
	}
}
