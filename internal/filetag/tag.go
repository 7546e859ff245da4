// Package filetag defines FileTag, the opaque file identity the
// coordinator keys all of its pending work on, and the handler
// discriminant that selects which handler in the vtable owns it.
package filetag

import "fmt"

// HandlerKind selects a handler in the coordinator's vtable. Indexes
// must stay stable: they are the discriminant baked into every Tag.
type HandlerKind uint8

const (
	HandlerMD HandlerKind = iota
	HandlerCLOG
	HandlerCommitTS
	HandlerMultixactOffset
	HandlerMultixactMember

	numHandlerKinds
)

// NumHandlerKinds is the number of registered handler discriminants,
// exported so callers can size a fixed array indexed by HandlerKind
// (e.g. the coordinator's handler registry) without a map lookup.
const NumHandlerKinds = int(numHandlerKinds)

func (k HandlerKind) String() string {
	switch k {
	case HandlerMD:
		return "md"
	case HandlerCLOG:
		return "clog"
	case HandlerCommitTS:
		return "commit_ts"
	case HandlerMultixactOffset:
		return "multixact_offset"
	case HandlerMultixactMember:
		return "multixact_member"
	default:
		return fmt.Sprintf("handler(%d)", uint8(k))
	}
}

// Valid reports whether k is a registered handler discriminant.
func (k HandlerKind) Valid() bool {
	return k < numHandlerKinds
}

// ForkNumber identifies which fork of a relation a Tag's Segment field
// belongs to. Only meaningful for HandlerMD tags.
type ForkNumber uint8

const (
	MainFork ForkNumber = iota
	FSMFork
	VisibilityMapFork
	InitFork
)

// Tag is FileTag: a small, comparable value identifying one file
// (or one segment of one file) that some handler owns. It is used
// directly as a map key, which is the Go analogue of comparing FileTag
// bytewise in C: == on a struct of comparable fields compares every
// field, in order, with no padding surprises once all fields are
// fixed-width integers.
//
// For HandlerMD, (Tablespace, Database, Relation, Fork, Segment)
// identify one 1GB relation segment. For the log-structured handlers
// (CLOG, CommitTS, the two Multixact handlers), only Segment is
// meaningful and names a log segment number; the other fields are zero.
type Tag struct {
	Handler    HandlerKind
	Tablespace uint32
	Database   uint32
	Relation   uint32
	Fork       ForkNumber
	Segment    uint32
}

// MD builds a Tag for a magnetic-disk relation segment.
func MD(tablespace, database, relation uint32, fork ForkNumber, segment uint32) Tag {
	return Tag{Handler: HandlerMD, Tablespace: tablespace, Database: database, Relation: relation, Fork: fork, Segment: segment}
}

// CLOG builds a Tag for a pg_xact (commit-status log) segment.
func CLOG(segment uint32) Tag {
	return Tag{Handler: HandlerCLOG, Segment: segment}
}

// CommitTS builds a Tag for a pg_commit_ts segment.
func CommitTS(segment uint32) Tag {
	return Tag{Handler: HandlerCommitTS, Segment: segment}
}

// MultixactOffset builds a Tag for a pg_multixact/offsets segment.
func MultixactOffset(segment uint32) Tag {
	return Tag{Handler: HandlerMultixactOffset, Segment: segment}
}

// MultixactMember builds a Tag for a pg_multixact/members segment.
func MultixactMember(segment uint32) Tag {
	return Tag{Handler: HandlerMultixactMember, Segment: segment}
}

func (t Tag) String() string {
	switch t.Handler {
	case HandlerMD:
		return fmt.Sprintf("md(ts=%d db=%d rel=%d fork=%d seg=%d)", t.Tablespace, t.Database, t.Relation, t.Fork, t.Segment)
	default:
		return fmt.Sprintf("%s(seg=%d)", t.Handler, t.Segment)
	}
}

// SameRelationFork reports whether t and other name segments of the
// same relation fork, ignoring the segment number. It is the "matches"
// predicate mdfiletagmatches implements for HandlerMD: a ForgetMatching
// request for a whole relation (e.g. on TRUNCATE) is expressed as a
// pattern Tag with Segment left at its zero value, and this comparison
// ignores Segment so every segment of that fork cancels.
func (t Tag) SameRelationFork(other Tag) bool {
	return t.Handler == other.Handler &&
		t.Tablespace == other.Tablespace &&
		t.Database == other.Database &&
		t.Relation == other.Relation &&
		t.Fork == other.Fork
}
