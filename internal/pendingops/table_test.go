package pendingops

import (
	"testing"

	"github.com/ehrlich-b/go-syncd/internal/filetag"
)

func TestInsertOrFindCreatesNewEntry(t *testing.T) {
	tbl := New()
	tag := filetag.MD(1, 2, 3, filetag.MainFork, 0)

	e, created := tbl.InsertOrFind(tag, 5)
	if !created {
		t.Fatal("expected a fresh tag to be created")
	}
	if e.CycleCtr != 5 || e.Canceled {
		t.Errorf("unexpected entry state: %+v", e)
	}
	if tbl.Len() != 1 {
		t.Errorf("expected Len()==1, got %d", tbl.Len())
	}
}

func TestInsertOrFindDoesNotAdvanceExistingCycle(t *testing.T) {
	tbl := New()
	tag := filetag.CLOG(1)

	tbl.InsertOrFind(tag, 1)
	e, created := tbl.InsertOrFind(tag, 99)
	if created {
		t.Fatal("expected the second insert to find the existing entry, not create")
	}
	if e.CycleCtr != 1 {
		t.Errorf("expected cycle to stay at the oldest request's cycle (1), got %d", e.CycleCtr)
	}
}

func TestInsertOrFindRevivesCanceledEntry(t *testing.T) {
	tbl := New()
	tag := filetag.CommitTS(3)

	tbl.InsertOrFind(tag, 1)
	tbl.Cancel(tag)

	e, created := tbl.InsertOrFind(tag, 42)
	if !created {
		t.Fatal("expected re-inserting over a canceled entry to report created")
	}
	if e.Canceled {
		t.Error("expected revived entry to not be canceled")
	}
	if e.CycleCtr != 42 {
		t.Errorf("expected revived entry to take the new cycle, got %d", e.CycleCtr)
	}
}

func TestCancelIsNoOpOnMissingTag(t *testing.T) {
	tbl := New()
	tbl.Cancel(filetag.CLOG(9))
	if tbl.Len() != 0 {
		t.Error("expected Cancel on a missing tag not to create an entry")
	}
}

func TestCancelMatchingUsesPredicateAndHandler(t *testing.T) {
	tbl := New()
	rel := filetag.MD(1, 2, 3, filetag.MainFork, 0)
	seg5 := filetag.MD(1, 2, 3, filetag.MainFork, 5)
	otherRel := filetag.MD(1, 2, 4, filetag.MainFork, 0)
	clog := filetag.CLOG(0)

	tbl.InsertOrFind(rel, 1)
	tbl.InsertOrFind(seg5, 1)
	tbl.InsertOrFind(otherRel, 1)
	tbl.InsertOrFind(clog, 1)

	tbl.CancelMatching(rel, func(pattern, candidate filetag.Tag) bool {
		return pattern.SameRelationFork(candidate)
	})

	if !tbl.Lookup(rel).Canceled {
		t.Error("expected matching entry to be canceled")
	}
	if !tbl.Lookup(seg5).Canceled {
		t.Error("expected same-relation-fork entry to be canceled")
	}
	if tbl.Lookup(otherRel).Canceled {
		t.Error("expected unrelated relation to remain uncanceled")
	}
	if tbl.Lookup(clog).Canceled {
		t.Error("expected different handler kind to remain uncanceled")
	}
}

func TestRemoveReportsPresenceAndReleasesSlot(t *testing.T) {
	tbl := New()
	tag := filetag.MultixactOffset(1)
	tbl.InsertOrFind(tag, 1)

	if !tbl.Remove(tag) {
		t.Fatal("expected Remove to report true for a present tag")
	}
	if tbl.Remove(tag) {
		t.Error("expected second Remove to report false")
	}
	if tbl.Lookup(tag) != nil {
		t.Error("expected tag to be gone after Remove")
	}
}

func TestRenormalizeCyclesResetsAllSurvivors(t *testing.T) {
	tbl := New()
	a := filetag.CLOG(1)
	b := filetag.CLOG(2)
	tbl.InsertOrFind(a, 1)
	tbl.InsertOrFind(b, 2)

	tbl.RenormalizeCycles(10)

	if tbl.Lookup(a).CycleCtr != 10 || tbl.Lookup(b).CycleCtr != 10 {
		t.Error("expected every entry's cycle to be reset")
	}
}

func TestRangeVisitsEveryEntryAndAllowsRemoval(t *testing.T) {
	tbl := New()
	tags := []filetag.Tag{filetag.CLOG(1), filetag.CLOG(2), filetag.CLOG(3)}
	for _, tag := range tags {
		tbl.InsertOrFind(tag, 1)
	}

	visited := 0
	tbl.Range(func(tag filetag.Tag, e *Entry) {
		visited++
		if tag == tags[0] {
			tbl.Remove(tag)
		}
	})

	if visited != 3 {
		t.Errorf("expected to visit all 3 entries, visited %d", visited)
	}
	if tbl.Len() != 2 {
		t.Errorf("expected 2 entries to remain, got %d", tbl.Len())
	}
}
