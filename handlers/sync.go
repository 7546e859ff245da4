package handlers

import (
	"context"
	"os"

	syncd "github.com/ehrlich-b/go-syncd"
	"github.com/ehrlich-b/go-syncd/internal/streamingwriter"
)

// syncPath opens path and hands it to the streaming writer for an
// asynchronous fsync, reporting the outcome through done. Shared by
// every concrete handler in this package: they differ only in how a
// filetag.Tag maps to a path and in which optional capabilities they
// also implement.
func syncPath(ctx context.Context, w streamingwriter.Writer, op, tag, path string, done func(success bool, err error)) {
	f, err := os.Open(path)
	if err != nil {
		done(false, syncd.WrapErrno(op, tag, err))
		return
	}

	if !w.Alloc() {
		f.Close()
		done(false, syncd.WrapErrno(op, tag, streamingwriter.ErrClosed))
		return
	}

	w.Submit(streamingwriter.Job{
		File: f,
		Done: func(res streamingwriter.Result) {
			defer f.Close()
			if res.Err != nil {
				done(false, syncd.WrapErrno(op, tag, res.Err))
				return
			}
			done(true, nil)
		},
	})
}
