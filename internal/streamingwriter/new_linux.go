//go:build linux

package streamingwriter

import "github.com/ehrlich-b/go-syncd/internal/logging"

// New creates the platform's best available Writer: a real io_uring
// pipeline on Linux.
func New(windowSize int, logger *logging.Logger) (Writer, error) {
	return NewLinux(windowSize, logger)
}
