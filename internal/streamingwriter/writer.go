// Package streamingwriter gives the checkpoint driver a bounded-window
// asynchronous fsync pipeline: it can have up to a fixed number of
// fsync(2) calls outstanding at once, instead of blocking on one fd at
// a time.
//
// Grounded on the teacher's internal/uring.Ring interface
// (PrepareIOCmd/FlushSubmissions/WaitForCompletion), generalized from
// submitting ublk URING_CMD SQEs to submitting IORING_OP_FSYNC SQEs.
package streamingwriter

import (
	"fmt"
	"os"
)

// Result is delivered to a Job's completion callback once its fsync
// has finished, successfully or not.
type Result struct {
	Err error
}

// Job is one outstanding fsync request.
type Job struct {
	File *os.File
	// Done is called exactly once, from a call to Alloc, Submit or
	// WaitAll, with the outcome of this fd's fsync.
	Done func(Result)
}

// Writer is the bounded-window async-fsync pipeline. Alloc blocks once
// the window is full, mirroring pg_streaming_write_alloc's backpressure
// (spec.md §4.4's "streaming writer with a bounded submission window").
type Writer interface {
	// Alloc reserves one slot in the submission window, blocking if the
	// window is currently full. It returns false if the writer has been
	// closed.
	Alloc() bool

	// Submit enqueues job for asynchronous fsync. The slot reserved by
	// the prior Alloc call is consumed; job.Done fires once the fsync
	// completes (which may happen synchronously inside Submit itself,
	// depending on implementation).
	Submit(job Job)

	// WaitAll blocks until every submitted job's Done callback has
	// fired, then returns. Used at the end of a checkpoint pass to
	// drain the window before moving on (spec.md §4.4 step 8).
	WaitAll()

	// Close releases the writer's resources. No further Alloc/Submit
	// calls are valid afterward.
	Close() error
}

// ErrClosed is returned via a Job's Result when Submit is called after
// Close. Jobs still outstanding at Close do not receive it.
var ErrClosed = fmt.Errorf("streamingwriter: writer closed")
