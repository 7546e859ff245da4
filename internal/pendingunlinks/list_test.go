package pendingunlinks

import (
	"testing"

	"github.com/ehrlich-b/go-syncd/internal/filetag"
)

func TestPushBackAndFrontFIFO(t *testing.T) {
	q := New()
	a := filetag.MD(1, 1, 1, filetag.MainFork, 0)
	b := filetag.MD(1, 1, 2, filetag.MainFork, 0)

	q.PushBack(a, 1)
	q.PushBack(b, 1)

	if q.Len() != 2 {
		t.Fatalf("expected 2 entries, got %d", q.Len())
	}
	if q.Front().Tag != a {
		t.Error("expected Front to return the first-pushed entry")
	}
}

func TestClaimDueSkipsEntriesFromCurrentCycle(t *testing.T) {
	q := New()
	tag := filetag.MD(1, 1, 1, filetag.MainFork, 0)
	q.PushBack(tag, 5)

	var called bool
	q.ClaimDue(5, func(filetag.Tag) bool {
		called = true
		return true
	})

	if called {
		t.Error("expected an entry from the current cycle not to be claimed yet")
	}
	if q.Len() != 1 {
		t.Error("expected the entry to remain queued")
	}
}

func TestClaimDueRemovesOnSuccess(t *testing.T) {
	q := New()
	tag := filetag.MD(1, 1, 1, filetag.MainFork, 0)
	q.PushBack(tag, 1)

	q.ClaimDue(5, func(got filetag.Tag) bool {
		if got != tag {
			t.Errorf("unexpected tag passed to fn: %+v", got)
		}
		return true
	})

	if q.Len() != 0 {
		t.Error("expected successfully-unlinked entry to be removed")
	}
}

func TestClaimDueRetainsOnFailureForNextPass(t *testing.T) {
	q := New()
	tag := filetag.MD(1, 1, 1, filetag.MainFork, 0)
	q.PushBack(tag, 1)

	attempts := 0
	q.ClaimDue(5, func(filetag.Tag) bool {
		attempts++
		return false
	})
	if q.Len() != 1 {
		t.Fatal("expected failed unlink to remain queued")
	}

	// A second pass must retry the already-claimed entry without
	// re-evaluating its cycle against a new cutoff.
	q.ClaimDue(6, func(filetag.Tag) bool {
		attempts++
		return true
	})
	if attempts != 2 {
		t.Errorf("expected fn to be called twice, got %d", attempts)
	}
	if q.Len() != 0 {
		t.Error("expected the entry to be removed once it finally succeeds")
	}
}

func TestCancelMatchingRemovesUnclaimedOnly(t *testing.T) {
	q := New()
	rel := filetag.MD(1, 2, 3, filetag.MainFork, 0)
	seg5 := filetag.MD(1, 2, 3, filetag.MainFork, 5)
	claimed := filetag.MD(1, 2, 3, filetag.MainFork, 9)

	q.PushBack(claimed, 1)
	q.PushBack(rel, 5)
	q.PushBack(seg5, 5)

	// Simulate `claimed` already being mid-pass; rel and seg5 are from
	// the cutoff cycle, so ClaimDue leaves them unclaimed.
	q.ClaimDue(5, func(tag filetag.Tag) bool {
		return tag != claimed
	})

	q.CancelMatching(rel, func(pattern, candidate filetag.Tag) bool {
		return pattern.SameRelationFork(candidate)
	})

	if q.Len() != 1 {
		t.Fatalf("expected only the claimed entry to survive, Len()=%d", q.Len())
	}
	if q.Front().Tag != claimed {
		t.Errorf("expected surviving entry to be the claimed one, got %+v", q.Front().Tag)
	}
}
