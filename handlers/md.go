package handlers

import (
	"context"

	syncd "github.com/ehrlich-b/go-syncd"
	"github.com/ehrlich-b/go-syncd/internal/filetag"
	"github.com/ehrlich-b/go-syncd/internal/streamingwriter"
)

// MD syncs magnetic-disk relation segments. It supports Unlink and
// Matches, the only handler kind that does — grounded on mdsyncfiletag/
// mdunlinkfiletag/mdfiletagmatches in original_source.
type MD struct {
	DataDir string
}

func (h MD) Sync(ctx context.Context, w streamingwriter.Writer, in *syncd.InflightSync, done func(success bool, err error)) {
	path := pathFor(h.DataDir, in.Tag)
	in.Path = path
	syncPath(ctx, w, "MD.Sync", in.Tag.String(), path, done)
}

// Unlink removes the relation segment file. A missing file is not an
// error: something else (e.g. a prior checkpoint's unlink) already
// removed it.
func (h MD) Unlink(tag filetag.Tag) error {
	path := pathFor(h.DataDir, tag)
	if err := removeIfExists(path); err != nil {
		return syncd.WrapErrno("MD.Unlink", tag.String(), err)
	}
	return nil
}

// Matches ignores the segment number so a ForgetMatching request for a
// whole relation (e.g. on TRUNCATE) cancels every segment of that fork.
func (h MD) Matches(pattern, candidate filetag.Tag) bool {
	return pattern.SameRelationFork(candidate)
}

var (
	_ syncd.Handler  = MD{}
	_ syncd.Unlinker = MD{}
	_ syncd.Matcher  = MD{}
)
