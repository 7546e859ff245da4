// Package pendingunlinks implements C2, the pending-unlink queue: an
// ordered list of files awaiting deletion once a checkpoint has passed
// the cycle they were registered in.
//
// Grounded on sync.c's pendingUnlinks dlist and PendingUnlinkEntry (see
// original_source/src/backend/storage/sync/sync.c). container/list is
// the idiomatic Go analogue of Postgres's intrusive dlist: both give
// O(1) push-back and O(1) removal of a known node, which is exactly
// what RegisterRequest (append) and PostCheckpoint and ForgetMatching
// (scan-with-delete) need. No example repo in the pack carries an equivalent ordered-queue
// dependency, so this is one of the few deliberately stdlib-only pieces
// (see DESIGN.md).
package pendingunlinks

import (
	"container/list"

	"github.com/ehrlich-b/go-syncd/internal/filetag"
)

// Entry is PendingUnlinkEntry: the tag to unlink, the cycle at which it
// was registered (CycleCtr), and — once a checkpoint has begun
// processing it — the cycle that checkpoint started at
// (FlushedUpToCycle). A zero FlushedUpToCycle with HasFlushedUpTo=false
// means no checkpoint has claimed this entry yet.
type Entry struct {
	Tag              filetag.Tag
	CycleCtr         filetag.CycleCtr
	FlushedUpToCycle filetag.CycleCtr
	HasFlushedUpTo   bool
}

// List is the FIFO pending-unlink queue. Not safe for concurrent use.
type List struct {
	l *list.List
}

// New creates an empty pending-unlink list.
func New() *List {
	return &List{l: list.New()}
}

// Len returns the number of entries currently queued.
func (q *List) Len() int {
	return q.l.Len()
}

// PushBack appends a new unlink request to the tail, implementing the
// Unlink branch of RememberRequest (spec.md §4.1).
func (q *List) PushBack(tag filetag.Tag, cycle filetag.CycleCtr) {
	q.l.PushBack(&Entry{Tag: tag, CycleCtr: cycle})
}

// CancelMatching marks every queued, not-yet-claimed entry matching
// pattern as cancel-pending by removing it outright: sync.c's
// ForgetMatching removes matching pendingUnlinks entries immediately
// rather than flagging them, since an unlink that hasn't been claimed
// by a checkpoint pass yet has no in-flight state to reconcile.
// Entries already claimed by the current pass (HasFlushedUpTo == true)
// are left alone — the in-progress pass owns their fate once claimed.
func (q *List) CancelMatching(pattern filetag.Tag, matches func(pattern, candidate filetag.Tag) bool) {
	var next *list.Element
	for e := q.l.Front(); e != nil; e = next {
		next = e.Next()
		entry := e.Value.(*Entry)
		if entry.HasFlushedUpTo {
			continue
		}
		if entry.Tag.Handler == pattern.Handler && matches(pattern, entry.Tag) {
			q.l.Remove(e)
		}
	}
}

// ClaimDue walks the queue in order and, for every unclaimed entry
// whose CycleCtr differs from the checkpoint's cutoff (i.e. it was
// registered before this checkpoint began), stamps FlushedUpToCycle
// with the checkpoint cycle and calls fn(tag). If fn reports success
// the entry is removed; otherwise it is left in place (still claimed)
// for a future pass to retry. Entries whose CycleCtr equals cutoff are
// skipped. Entries already claimed by an earlier pass are not checked
// against cutoff: fn is called for them again. The scan never reorders
// the queue — unlinks are processed front-to-back.
//
// This implements the unlink walk of Coordinator.PostCheckpoint.
func (q *List) ClaimDue(cutoff filetag.CycleCtr, fn func(tag filetag.Tag) bool) {
	var next *list.Element
	for e := q.l.Front(); e != nil; e = next {
		next = e.Next()
		entry := e.Value.(*Entry)

		if !entry.HasFlushedUpTo {
			if entry.CycleCtr == cutoff {
				continue
			}
			entry.HasFlushedUpTo = true
			entry.FlushedUpToCycle = cutoff
		}

		if fn(entry.Tag) {
			q.l.Remove(e)
		}
	}
}

// Front returns the oldest queued entry without removing it, or nil if
// the queue is empty. Exposed for tests and diagnostics.
func (q *List) Front() *Entry {
	e := q.l.Front()
	if e == nil {
		return nil
	}
	return e.Value.(*Entry)
}
