// Package handlers implements the concrete Handler/Unlinker/Matcher
// vtable entries for the five file kinds PostgreSQL's checkpointer
// drives through sync.c's syncsw[] table, operating on real os.Files
// rooted under a configurable data directory.
package handlers

import (
	"fmt"
	"path/filepath"

	"github.com/ehrlich-b/go-syncd/internal/filetag"
)

// pathFor resolves tag to a path under dataDir, following PostgreSQL's
// on-disk naming conventions (original_source does not ship md.c/clog.c,
// so this mapping is this implementation's own — SPEC_FULL.md Open
// Question 3).
func pathFor(dataDir string, tag filetag.Tag) string {
	switch tag.Handler {
	case filetag.HandlerMD:
		name := fmt.Sprintf("%d_%s", tag.Relation, forkSuffix(tag.Fork))
		if tag.Segment > 0 {
			name = fmt.Sprintf("%s.%d", name, tag.Segment)
		}
		return filepath.Join(dataDir, "base", fmt.Sprintf("%d", tag.Database), name)
	case filetag.HandlerCLOG:
		return filepath.Join(dataDir, "pg_xact", segmentName(tag.Segment))
	case filetag.HandlerCommitTS:
		return filepath.Join(dataDir, "pg_commit_ts", segmentName(tag.Segment))
	case filetag.HandlerMultixactOffset:
		return filepath.Join(dataDir, "pg_multixact", "offsets", segmentName(tag.Segment))
	case filetag.HandlerMultixactMember:
		return filepath.Join(dataDir, "pg_multixact", "members", segmentName(tag.Segment))
	default:
		return filepath.Join(dataDir, fmt.Sprintf("unknown-handler-%d", tag.Segment))
	}
}

// segmentName renders a log segment number as PostgreSQL's zero-padded
// hex segment filenames (e.g. pg_xact/0007).
func segmentName(segment uint32) string {
	return fmt.Sprintf("%04X", segment)
}

func forkSuffix(fork filetag.ForkNumber) string {
	switch fork {
	case filetag.MainFork:
		return "main"
	case filetag.FSMFork:
		return "fsm"
	case filetag.VisibilityMapFork:
		return "vm"
	case filetag.InitFork:
		return "init"
	default:
		return fmt.Sprintf("fork%d", uint8(fork))
	}
}
