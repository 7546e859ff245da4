package syncd

import (
	"context"
	"time"

	"github.com/ehrlich-b/go-syncd/internal/filetag"
	"github.com/ehrlich-b/go-syncd/internal/pendingops"
)

// PreCheckpoint marks the start of a checkpoint: unlink requests
// arriving after this point are assigned the next checkpoint cycle and
// won't be unlinked until the checkpoint after this one.
//
// Grounded on sync.c's SyncPreCheckpoint.
func (c *Coordinator) PreCheckpoint() {
	c.checkpointCycle = c.checkpointCycle.Next()
}

// ProcessRequests runs one full checkpoint fsync pass: absorb pending
// intake, flush every pending-ops entry older than this pass, run up to
// Config.MaxRetries retry-bank passes over requests whose first fsync
// failed with a file-gone error (each request is retried at most once),
// and return the pass's statistics.
//
// Grounded step-for-step on sync.c's ProcessSyncRequests.
func (c *Coordinator) ProcessRequests(ctx context.Context) (Stats, error) {
	if c.ops == nil {
		panic(&Error{Op: "ProcessRequests", Code: CodeStateCorruption, Msg: "cannot sync without a pending-ops table"})
	}
	passStart := time.Now()

	c.AbsorbRequests()

	if c.syncInProgress {
		// A previous pass never reached the end of this function, so
		// its cycle counters and inflight/retry queues may be stale.
		// sync.c's ProcessSyncRequests treats this as unimplemented
		// (elog(PANIC, "not implemented right now")); this
		// implementation keeps that hard-abort rather than silently
		// reconciling the stale state (SPEC_FULL.md Open Question 1).
		panic(&Error{Op: "ProcessRequests", Code: CodeStateCorruption, Msg: "re-entered while a prior pass never completed"})
	}

	c.stats = Stats{}
	c.lastSyncError = nil

	if err := c.ensureWriter(); err != nil {
		return Stats{}, err
	}

	c.syncCycle = c.syncCycle.Next()
	c.syncInProgress = true

	c.absorbCounter = c.cfg.FsyncsPerAbsorb

	c.ops.Range(func(tag filetag.Tag, entry *pendingops.Entry) {
		if entry.CycleCtr == c.syncCycle {
			// Entered during this very pass; leave it for next time.
			return
		}

		if c.absorbCounter--; c.absorbCounter <= 0 {
			c.AbsorbRequests()
			c.absorbCounter = c.cfg.FsyncsPerAbsorb
		}

		if !c.cfg.FsyncEnabled || entry.Canceled {
			if !c.ops.Remove(tag) {
				panic(&Error{Op: "ProcessRequests", Code: CodeStateCorruption, Msg: "pendingOps corrupted", Tag: tag.String()})
			}
			return
		}

		in := c.inflightPool.Get()
		*in = InflightSync{Tag: tag, entry: entry}
		c.callSyncFileTag(ctx, in)
	})

	c.writer.WaitAll()

	for pass := 1; pass <= c.cfg.MaxRetries; pass++ {
		c.retrySyncRequests(ctx, pass)
	}

	if c.inflight.Len() != 0 || c.retry.Len() != 0 {
		panic(&Error{Op: "ProcessRequests", Code: CodeStateCorruption, Msg: "inflight sync requests corrupted"})
	}

	c.writer.Close()
	c.writer = nil

	c.observer().ObserveCheckpoint(time.Since(passStart), c.stats.Processed)
	c.observer().ObservePendingDepth(c.ops.Len(), c.unlinks.Len())

	c.syncInProgress = false

	// Note: a LevelPanic escalation panics directly from
	// RequestCompleted and never reaches this line.
	return c.stats, c.lastSyncError
}

// callSyncFileTag submits in to the registered handler for its tag,
// tracking it on the inflight list until RequestCompleted fires.
//
// Grounded on sync.c's call_syncfiletag.
func (c *Coordinator) callSyncFileTag(ctx context.Context, in *InflightSync) {
	in.startTime = time.Now()
	in.elem = c.inflight.PushBack(in)

	h := c.reg.handlerFor(in.Tag.Handler)
	if h == nil {
		c.RequestCompleted(in, false, &Error{Op: "Sync", Code: CodeStateCorruption, Msg: "no handler registered", Tag: in.Tag.String()})
		return
	}
	h.Sync(ctx, c.writer, in, func(success bool, err error) {
		c.RequestCompleted(in, success, err)
	})
}

// retrySyncRequests absorbs new requests (picking up any cancel that
// arrived for an in-flight retry) and resubmits every entry still
// queued on the retry list.
//
// Grounded on sync.c's RetrySyncRequests, called up to MaxRetries times
// from ProcessSyncRequests's `for (failures = 0; failures < 5;
// failures++)` loop.
func (c *Coordinator) retrySyncRequests(ctx context.Context, pass int) {
	if c.retry.Len() == 0 {
		return
	}

	c.AbsorbRequests()
	c.absorbCounter = c.cfg.FsyncsPerAbsorb
	c.observer().ObserveRetry(c.retry.Len(), pass)

	for c.retry.Len() > 0 {
		front := c.retry.Front()
		c.retry.Remove(front)
		in := front.Value.(*InflightSync)
		in.elem = nil

		if in.entry.Canceled {
			if !c.ops.Remove(in.Tag) {
				panic(&Error{Op: "ProcessRequests", Code: CodeStateCorruption, Msg: "pendingOps corrupted", Tag: in.Tag.String()})
			}
			c.inflightPool.Put(in)
			continue
		}

		c.callSyncFileTag(ctx, in)
	}
	c.writer.WaitAll()
}

// PostCheckpoint unlinks every pending-unlink entry registered before
// this checkpoint began.
//
// Grounded on sync.c's SyncPostCheckpoint.
func (c *Coordinator) PostCheckpoint() {
	absorbCounter := c.cfg.UnlinksPerAbsorb

	c.unlinks.ClaimDue(c.checkpointCycle, func(tag filetag.Tag) bool {
		if u, ok := c.reg.unlinkerFor(tag.Handler); ok {
			success := true
			if err := u.Unlink(tag); err != nil {
				success = false
				if !IsCode(err, CodeTransientFileGone) {
					c.logger().Warnf("could not remove file for tag=%s: %v", tag, err)
				}
			}
			c.observer().ObserveUnlink(success)
		}

		if absorbCounter--; absorbCounter <= 0 {
			c.AbsorbRequests()
			absorbCounter = c.cfg.UnlinksPerAbsorb
		}
		// Always remove the list entry, mirroring sync.c: a failed
		// unlink that isn't "file already gone" is logged, not retried
		// forever.
		return true
	})
}
