package syncd

import (
	"github.com/ehrlich-b/go-syncd/internal/constants"
	"github.com/ehrlich-b/go-syncd/internal/logging"
	"github.com/ehrlich-b/go-syncd/internal/obsv"
)

// ErrorLevel controls how the coordinator reacts when a fsync failure
// is escalated (any error other than file-gone, or any failure of a
// retried request). Grounded on spec.md §7 and sync.c's own choice
// between data_sync_retry=off (PANIC) and data_sync_retry=on (WARNING,
// leave the request pending).
type ErrorLevel int

const (
	// LevelPanic aborts the process on an unrecoverable sync failure,
	// the historical PostgreSQL default: losing durability silently is
	// worse than crashing.
	LevelPanic ErrorLevel = iota
	// LevelWarn returns the failure as ProcessRequests's error and
	// leaves the request in the pending table for a future checkpoint
	// to retry, trading durability guarantees for availability.
	LevelWarn
)

// Config configures a Coordinator. Grounded on the teacher's
// DeviceParams/DefaultParams pattern (backend.go): a flat options
// struct plus a DefaultConfig constructor, rather than functional
// options, matching what the teacher's whole pack (ublk, and every
// example repo surveyed) does for top-level configuration.
type Config struct {
	// FsyncEnabled gates whether ProcessRequests actually calls
	// through to handler.Sync, or just drains the pending tables
	// without doing I/O. Mirrors sync.c's enableFsync global, useful
	// for tests and for fsync=off deployments.
	FsyncEnabled bool

	// MaxRetries bounds how many retry-bank passes one ProcessRequests
	// call runs. A request is retried at most once, and only after a
	// file-gone failure; its next failure escalates per
	// DataSyncErrorLevel.
	MaxRetries int

	// FsyncsPerAbsorb and UnlinksPerAbsorb control how often the
	// ProcessRequests flush loop (per eligible entry) and PostCheckpoint
	// (per unlink) call back into AbsorbRequests, so that the intake
	// queue doesn't build up unbounded backpressure during a long pass.
	FsyncsPerAbsorb  int
	UnlinksPerAbsorb int

	// StreamingWindow bounds how many fsyncs the streaming writer may
	// have outstanding at once during a checkpoint pass.
	StreamingWindow int

	// DataSyncErrorLevel decides the coordinator's behavior once a
	// request's fsync failure is escalated.
	DataSyncErrorLevel ErrorLevel

	// Logger receives structured trace/debug/warn/error output. If
	// nil, logging.Default() is used.
	Logger *logging.Logger

	// Observer receives checkpoint/fsync/retry telemetry. If nil,
	// obsv.NoOp{} is used.
	Observer obsv.Observer

	// DataDir is a data-directory setting carried in the configuration.
	// The coordinator does not read it; the handlers in package handlers
	// resolve paths against their own DataDir field (see
	// handlers/paths.go).
	DataDir string
}

// DefaultConfig returns the coordinator's default configuration.
// Grounded on the teacher's DefaultParams.
func DefaultConfig() Config {
	return Config{
		FsyncEnabled:       true,
		MaxRetries:         constants.DefaultMaxRetries,
		FsyncsPerAbsorb:    constants.DefaultFsyncsPerAbsorb,
		UnlinksPerAbsorb:   constants.DefaultUnlinksPerAbsorb,
		StreamingWindow:    constants.DefaultStreamingWindow,
		DataSyncErrorLevel: LevelPanic,
		DataDir:            ".",
	}
}

// withDefaults fills in fields that must not be zero (logger, observer,
// the non-positive numeric limits, and an empty DataDir) without
// mutating the caller's Config.
func (c Config) withDefaults() Config {
	if c.Logger == nil {
		c.Logger = logging.Default()
	}
	if c.Observer == nil {
		c.Observer = obsv.NoOp{}
	}
	if c.MaxRetries <= 0 {
		c.MaxRetries = constants.DefaultMaxRetries
	}
	if c.FsyncsPerAbsorb <= 0 {
		c.FsyncsPerAbsorb = constants.DefaultFsyncsPerAbsorb
	}
	if c.UnlinksPerAbsorb <= 0 {
		c.UnlinksPerAbsorb = constants.DefaultUnlinksPerAbsorb
	}
	if c.StreamingWindow <= 0 {
		c.StreamingWindow = constants.DefaultStreamingWindow
	}
	if c.DataDir == "" {
		c.DataDir = "."
	}
	return c
}
