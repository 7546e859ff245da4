package handlers

import (
	"context"

	syncd "github.com/ehrlich-b/go-syncd"
	"github.com/ehrlich-b/go-syncd/internal/streamingwriter"
)

// MultixactOffset syncs pg_multixact/offsets segments. Sync only.
type MultixactOffset struct {
	DataDir string
}

func (h MultixactOffset) Sync(ctx context.Context, w streamingwriter.Writer, in *syncd.InflightSync, done func(success bool, err error)) {
	path := pathFor(h.DataDir, in.Tag)
	in.Path = path
	syncPath(ctx, w, "MultixactOffset.Sync", in.Tag.String(), path, done)
}

var _ syncd.Handler = MultixactOffset{}

// MultixactMember syncs pg_multixact/members segments. Sync only.
type MultixactMember struct {
	DataDir string
}

func (h MultixactMember) Sync(ctx context.Context, w streamingwriter.Writer, in *syncd.InflightSync, done func(success bool, err error)) {
	path := pathFor(h.DataDir, in.Tag)
	in.Path = path
	syncPath(ctx, w, "MultixactMember.Sync", in.Tag.String(), path, done)
}

var _ syncd.Handler = MultixactMember{}
