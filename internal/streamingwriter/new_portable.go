//go:build !linux

package streamingwriter

import "github.com/ehrlich-b/go-syncd/internal/logging"

// New creates the platform's best available Writer: the synchronous
// fallback on non-Linux platforms.
func New(windowSize int, logger *logging.Logger) (Writer, error) {
	return NewPortable(windowSize, logger)
}
