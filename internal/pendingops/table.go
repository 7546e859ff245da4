// Package pendingops implements C1, the deduplicating pending-fsync
// table: a mapping from filetag.Tag to the oldest outstanding fsync
// request for that tag, plus a cancel flag.
//
// Grounded on sync.c's pendingOps HTAB and the PendingFsyncEntry struct
// it stores (see original_source/src/backend/storage/sync/sync.c).
package pendingops

import (
	"github.com/ehrlich-b/go-syncd/internal/filetag"
	"github.com/ehrlich-b/go-syncd/internal/slab"
)

// Entry is PendingFsyncEntry: CycleCtr is the cycle at which the oldest
// outstanding request for Tag was entered, and is never advanced while
// the entry exists (spec.md §3's invariant). Canceled may be set at any
// time and is only cleared when a fresh Fsync request re-enters an
// already-canceled slot.
type Entry struct {
	Tag      filetag.Tag
	CycleCtr filetag.CycleCtr
	Canceled bool
}

// Table is the pending-ops table. It is not safe for concurrent use;
// the coordinator that owns it is single-threaded by design
// (spec.md §5).
type Table struct {
	entries map[filetag.Tag]*Entry
	pool    *slab.Pool[Entry]
}

// New creates an empty pending-ops table.
func New() *Table {
	return &Table{
		entries: make(map[filetag.Tag]*Entry),
		pool:    slab.NewPool[Entry](),
	}
}

// Len returns the number of entries currently tracked.
func (t *Table) Len() int {
	return len(t.entries)
}

// Lookup returns the entry for tag, or nil if none exists.
func (t *Table) Lookup(tag filetag.Tag) *Entry {
	return t.entries[tag]
}

// InsertOrFind implements the Fsync branch of RememberRequest
// (spec.md §4.1, §4.3): if tag has no entry, or its entry is canceled,
// a (re)created entry is stamped with cycle and canceled=false and
// returned along with created=true. If an uncanceled entry already
// exists, it is returned unmodified with created=false — crucially,
// its CycleCtr is NOT advanced, since the oldest outstanding request is
// what must dictate the flush horizon.
func (t *Table) InsertOrFind(tag filetag.Tag, cycle filetag.CycleCtr) (entry *Entry, created bool) {
	if existing, ok := t.entries[tag]; ok && !existing.Canceled {
		return existing, false
	}

	entry, ok := t.entries[tag]
	if !ok {
		entry = t.pool.Get()
		t.entries[tag] = entry
	}
	entry.Tag = tag
	entry.CycleCtr = cycle
	entry.Canceled = false
	return entry, true
}

// Cancel implements ForgetOne: if tag has an entry, mark it canceled.
// No-op (no allocation, no error) if the tag is absent.
func (t *Table) Cancel(tag filetag.Tag) {
	if e, ok := t.entries[tag]; ok {
		e.Canceled = true
	}
}

// CancelMatching implements the fsync-table half of ForgetMatching: for
// every entry whose handler equals pattern.Handler and whose tag
// satisfies matches(pattern, candidate), set Canceled = true.
func (t *Table) CancelMatching(pattern filetag.Tag, matches func(pattern, candidate filetag.Tag) bool) {
	for tag, e := range t.entries {
		if tag.Handler == pattern.Handler && matches(pattern, tag) {
			e.Canceled = true
		}
	}
}

// Remove deletes tag's entry, releasing it back to the slab pool.
// Reports whether an entry was present, mirroring sync.c's
// hash_search(..., HASH_REMOVE, ...) returning NULL on a missing key
// (which sync.c treats as corruption — the root package's
// ProcessRequests and RequestCompleted panic when Remove reports false).
func (t *Table) Remove(tag filetag.Tag) bool {
	e, ok := t.entries[tag]
	if !ok {
		return false
	}
	delete(t.entries, tag)
	t.pool.Put(e)
	return true
}

// RenormalizeCycles forcibly resets every surviving entry's CycleCtr to
// cycle. This is the stale-counter recovery step (spec.md §4.4 step 2):
// it is only safe to call when no pass is mid-flight, since it would
// otherwise corrupt the cycle_ctr invariant for entries already visited
// this pass.
func (t *Table) RenormalizeCycles(cycle filetag.CycleCtr) {
	for _, e := range t.entries {
		e.CycleCtr = cycle
	}
}

// Range calls fn once for every entry currently in the table. fn may
// remove the entry it was called with, or any entry visited earlier in
// this Range call (via Remove) — safe, per Go's map-iteration rules,
// because a key deleted mid-range is simply not produced again. fn must
// not assume it will observe entries inserted by its own calls during
// this Range: Go does not guarantee that a map entry created during
// ranging is produced by that range, and the coordinator's main loop
// relies on exactly that freedom (spec.md §4.4, "either outcome is
// acceptable").
func (t *Table) Range(fn func(tag filetag.Tag, e *Entry)) {
	for tag, e := range t.entries {
		fn(tag, e)
	}
}
