package syncd

import (
	"context"
	"time"

	"github.com/ehrlich-b/go-syncd/internal/constants"
	"github.com/ehrlich-b/go-syncd/internal/filetag"
)

// RequestSync remembers that tag needs fsyncing before the next
// checkpoint completes. Safe to call only from the owner goroutine (it
// mutates the pending-ops table directly); writer goroutines should use
// RegisterRequest instead.
func (c *Coordinator) RequestSync(tag filetag.Tag) {
	c.rememberSync(tag)
}

// RequestUnlink remembers that tag should be removed once a checkpoint
// started after this call completes. Owner-goroutine-only, like
// RequestSync.
func (c *Coordinator) RequestUnlink(tag filetag.Tag) {
	c.unlinks.PushBack(tag, c.checkpointCycle)
}

// RequestForget cancels a previously remembered fsync request for tag,
// if one exists. A no-op if tag has no pending entry.
func (c *Coordinator) RequestForget(tag filetag.Tag) {
	c.ops.Cancel(tag)
}

// RequestForgetMatching cancels every pending fsync request, and
// removes every not-yet-claimed pending unlink, whose tag shares
// pattern's Handler and satisfies that handler's Matcher (if one is
// registered). Used for whole-relation cancellation on TRUNCATE/DROP.
func (c *Coordinator) RequestForgetMatching(pattern filetag.Tag) {
	matcher, ok := c.reg.matcherFor(pattern.Handler)
	if !ok {
		// No handler (or no Matcher capability) registered for this
		// kind: nothing to match against, so there is nothing to do.
		return
	}
	c.ops.CancelMatching(pattern, matcher.Matches)
	c.unlinks.CancelMatching(pattern, matcher.Matches)
}

func (c *Coordinator) rememberSync(tag filetag.Tag) {
	_, created := c.ops.InsertOrFind(tag, c.syncCycle)
	if created {
		c.logger().Debugf("remembered sync request tag=%s cycle=%d", tag, c.syncCycle)
	}
}

// RegisterRequest is the entry point writer goroutines use: it enqueues
// the request onto the coordinator's intake channel rather than
// mutating shared state directly, so it is safe to call concurrently
// from many goroutines (spec.md §5/§6's "safe to call reentrantly").
//
// If the intake queue is full and retryOnError is true, RegisterRequest
// sleeps briefly and retries rather than failing, mirroring
// RegisterSyncRequest's pg_usleep(10000L) retry loop. If retryOnError
// is false, it returns false immediately instead of blocking.
func (c *Coordinator) RegisterRequest(ctx context.Context, kind requestKindPublic, tag filetag.Tag, retryOnError bool) bool {
	req := request{kind: requestKind(kind), tag: tag}
	for {
		select {
		case c.requests <- req:
			return true
		default:
		}
		if !retryOnError {
			return false
		}
		select {
		case <-ctx.Done():
			return false
		case <-time.After(constants.RegisterRetryDelay):
		}
	}
}

// RegisterForgetMatching enqueues a pattern-cancel request (the
// SYNC_FILTER_REQUEST case); unlike RequestForgetMatching it is safe to
// call from any goroutine.
func (c *Coordinator) RegisterForgetMatching(ctx context.Context, pattern filetag.Tag, retryOnError bool) bool {
	req := request{kind: kindForgetMatching, pattern: pattern}
	for {
		select {
		case c.requests <- req:
			return true
		default:
		}
		if !retryOnError {
			return false
		}
		select {
		case <-ctx.Done():
			return false
		case <-time.After(constants.RegisterRetryDelay):
		}
	}
}

// requestKindPublic is the subset of requestKind a caller of
// RegisterRequest may name directly (pattern-cancel goes through
// RegisterForgetMatching instead, since it carries an extra field).
type requestKindPublic = requestKind

const (
	// RequestKindSync requests a future fsync of tag.
	RequestKindSync requestKindPublic = kindSync
	// RequestKindUnlink requests tag be unlinked after the next
	// checkpoint boundary.
	RequestKindUnlink requestKindPublic = kindUnlink
	// RequestKindForget cancels a previously requested sync of tag.
	RequestKindForget requestKindPublic = kindForget
)

// AbsorbRequests drains every request currently queued on the intake
// channel, applying each to local state. Safe to call reentrantly
// (spec.md §6): calling it with an empty queue is simply a no-op.
//
// Grounded on sync.c's AbsorbSyncRequests/RememberSyncRequest pair,
// merged here into one function since our "shared memory queue" is
// just a Go channel the owner goroutine drains directly.
func (c *Coordinator) AbsorbRequests() int {
	n := 0
	for {
		select {
		case req := <-c.requests:
			c.applyRequest(req)
			n++
		default:
			if n > 0 {
				c.observer().ObserveAbsorb(n)
			}
			return n
		}
	}
}

func (c *Coordinator) applyRequest(req request) {
	switch req.kind {
	case kindSync:
		c.rememberSync(req.tag)
	case kindUnlink:
		c.unlinks.PushBack(req.tag, c.checkpointCycle)
	case kindForget:
		c.ops.Cancel(req.tag)
	case kindForgetMatching:
		c.RequestForgetMatching(req.pattern)
	}
}
