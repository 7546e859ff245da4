//go:build !linux

package streamingwriter

import (
	"sync"

	"github.com/ehrlich-b/go-syncd/internal/logging"
)

// syncWriter is the non-Linux fallback: it has no real async I/O
// engine to submit to, so it runs fsync synchronously inline and
// fires Done before Submit returns. The bounded window is still
// enforced so callers see identical backpressure semantics on every
// platform, which keeps the coordinator's own code platform-agnostic.
type syncWriter struct {
	window chan struct{}
	mu     sync.Mutex
	closed bool
}

// NewPortable creates a Writer that performs fsync synchronously. It is
// built only on non-Linux platforms, where it also backs the unit tests.
func NewPortable(windowSize int, logger *logging.Logger) (Writer, error) {
	w := &syncWriter{window: make(chan struct{}, windowSize)}
	for i := 0; i < windowSize; i++ {
		w.window <- struct{}{}
	}
	return w, nil
}

func (w *syncWriter) Alloc() bool {
	w.mu.Lock()
	closed := w.closed
	w.mu.Unlock()
	if closed {
		return false
	}
	_, ok := <-w.window
	return ok
}

func (w *syncWriter) Submit(job Job) {
	w.mu.Lock()
	closed := w.closed
	w.mu.Unlock()
	if closed {
		job.Done(Result{Err: ErrClosed})
		w.window <- struct{}{}
		return
	}

	err := job.File.Sync()
	job.Done(Result{Err: err})
	w.window <- struct{}{}
}

func (w *syncWriter) WaitAll() {
	// Submit already ran synchronously, so there is nothing in flight;
	// this only needs to exist to satisfy the Writer interface.
}

func (w *syncWriter) Close() error {
	w.mu.Lock()
	w.closed = true
	w.mu.Unlock()
	return nil
}
