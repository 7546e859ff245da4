package handlers

import (
	"context"

	syncd "github.com/ehrlich-b/go-syncd"
	"github.com/ehrlich-b/go-syncd/internal/streamingwriter"
)

// CommitTS syncs commit-timestamp log segments. Sync only, mirroring
// commit_ts's syncsw[] entry in original_source.
type CommitTS struct {
	DataDir string
}

func (h CommitTS) Sync(ctx context.Context, w streamingwriter.Writer, in *syncd.InflightSync, done func(success bool, err error)) {
	path := pathFor(h.DataDir, in.Tag)
	in.Path = path
	syncPath(ctx, w, "CommitTS.Sync", in.Tag.String(), path, done)
}

var _ syncd.Handler = CommitTS{}
