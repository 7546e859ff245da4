package handlers

import (
	"context"

	syncd "github.com/ehrlich-b/go-syncd"
	"github.com/ehrlich-b/go-syncd/internal/streamingwriter"
)

// CLOG syncs transaction-commit-status log segments. It implements
// Sync only — no Unlink or Matches, mirroring clogsyncfiletag's vtable
// entry in original_source, which leaves those two nil.
type CLOG struct {
	DataDir string
}

func (h CLOG) Sync(ctx context.Context, w streamingwriter.Writer, in *syncd.InflightSync, done func(success bool, err error)) {
	path := pathFor(h.DataDir, in.Tag)
	in.Path = path
	syncPath(ctx, w, "CLOG.Sync", in.Tag.String(), path, done)
}

var _ syncd.Handler = CLOG{}
