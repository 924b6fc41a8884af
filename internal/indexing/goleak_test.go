package indexing

import (
	"testing"

	"go.uber.org/goleak"
)

// TestMain ensures the worker pool (errgroup) and the watch-mode debounce
// timer never leave a goroutine running past the end of a test.
func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m,
		goleak.IgnoreTopFunction("internal/poll.runtime_pollWait"),
		goleak.IgnoreTopFunction("sync.runtime_Semacquire"),
	)
}
