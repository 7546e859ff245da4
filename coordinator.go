// Package syncd implements a deferred fsync coordinator: the
// checkpointer half of a durable relational storage engine, modeled on
// PostgreSQL's storage/sync/sync.c.
//
// Writer goroutines call RegisterRequest to record that a file needs
// fsyncing (or unlinking, or that a previously-remembered request
// should be forgotten) without blocking on the I/O itself. A single
// owner goroutine periodically drives a checkpoint pass via
// PreCheckpoint/ProcessRequests/PostCheckpoint, which is where the
// actual fsync/unlink calls happen.
package syncd

import (
	"container/list"
	"fmt"
	"time"

	"github.com/ehrlich-b/go-syncd/internal/constants"
	"github.com/ehrlich-b/go-syncd/internal/filetag"
	"github.com/ehrlich-b/go-syncd/internal/logging"
	"github.com/ehrlich-b/go-syncd/internal/obsv"
	"github.com/ehrlich-b/go-syncd/internal/pendingops"
	"github.com/ehrlich-b/go-syncd/internal/pendingunlinks"
	"github.com/ehrlich-b/go-syncd/internal/slab"
	"github.com/ehrlich-b/go-syncd/internal/streamingwriter"
)

// InflightSync is one fsync call that has been handed to the streaming
// writer but has not yet completed. Handlers receive a pointer to one
// of these and must eventually report its outcome through the done
// callback passed to Sync, which calls Coordinator.RequestCompleted.
//
// Grounded on sync.c's InflightSyncEntry.
type InflightSync struct {
	Tag filetag.Tag

	// HandlerData is free for a Handler implementation to stash
	// per-request state in (an open *os.File, a cached path, ...)
	// between Sync and the completion callback.
	HandlerData any

	// Path is set by the handler for diagnostics/logging.
	Path string

	RetryCount int

	entry     *pendingops.Entry
	startTime time.Time
	elem      *list.Element // this InflightSync's node in whichever dlist currently holds it
}

// Coordinator owns all pending-sync state. Its methods are not safe
// for concurrent use against each other, except RegisterRequest, which
// only enqueues onto an internal channel (spec.md §5 / SPEC_FULL.md §5).
type Coordinator struct {
	cfg Config
	reg *registry

	ops     *pendingops.Table
	unlinks *pendingunlinks.List

	syncCycle       filetag.CycleCtr
	checkpointCycle filetag.CycleCtr

	requests chan request

	inflight     *list.List // of *InflightSync
	retry        *list.List // of *InflightSync
	inflightPool *slab.Pool[InflightSync]

	writer streamingwriter.Writer

	syncInProgress bool
	absorbCounter  int
	stats          Stats
	lastSyncError  error
}

type requestKind uint8

const (
	kindSync requestKind = iota
	kindUnlink
	kindForget
	kindForgetMatching
)

type request struct {
	kind    requestKind
	tag     filetag.Tag
	pattern filetag.Tag // only meaningful for kindForgetMatching
}

// New constructs a Coordinator with no handlers registered. Attach one
// per filetag.HandlerKind with RegisterHandler, which also discovers
// its optional Unlinker/Matcher capabilities via type assertion.
func New(cfg Config) *Coordinator {
	cfg = cfg.withDefaults()
	return &Coordinator{
		cfg:          cfg,
		reg:          newRegistry(),
		ops:          pendingops.New(),
		unlinks:      pendingunlinks.New(),
		requests:     make(chan request, constants.DefaultRegisterQueueCapacity),
		inflight:     list.New(),
		retry:        list.New(),
		inflightPool: slab.NewPool[InflightSync](),
	}
}

// RegisterHandler attaches h as the handler for kind. h's optional
// Unlinker/Matcher capabilities are discovered via type assertion.
func (c *Coordinator) RegisterHandler(kind filetag.HandlerKind, h Handler) {
	c.reg.register(kind, h)
}

func (c *Coordinator) logger() *logging.Logger {
	return c.cfg.Logger
}

func (c *Coordinator) observer() obsv.Observer {
	return c.cfg.Observer
}

// ensureWriter lazily creates the streaming writer the first time a
// checkpoint pass needs one, mirroring sync.c's lazy
// pg_streaming_write_alloc inside ProcessSyncRequests.
func (c *Coordinator) ensureWriter() error {
	if c.writer != nil {
		return nil
	}
	w, err := streamingwriter.New(c.cfg.StreamingWindow, c.cfg.Logger)
	if err != nil {
		return fmt.Errorf("syncd: creating streaming writer: %w", err)
	}
	c.writer = w
	return nil
}

// Stats returns a copy of the most recently completed checkpoint
// pass's statistics.
func (c *Coordinator) Stats() Stats {
	return c.stats
}
