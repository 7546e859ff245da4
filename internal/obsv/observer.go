// Package obsv defines the pluggable observer the coordinator reports
// checkpoint and fsync activity to.
//
// Grounded on the teacher's Observer/NoOpObserver/MetricsObserver triad
// in metrics.go, narrowed from block-device read/write/discard/flush
// events to the events a checkpointer actually produces: per-request
// fsync/unlink outcomes, checkpoint pass duration, and absorb/retry
// activity.
package obsv

import "time"

// Observer receives coordinator events. Every method must be safe to
// call from the coordinator's single goroutine; none of the provided
// implementations need further synchronization on the caller's part.
type Observer interface {
	// ObserveFsync records one handler.Sync call's outcome and latency.
	ObserveFsync(latency time.Duration, success bool)

	// ObserveUnlink records one handler.Unlink call's outcome.
	ObserveUnlink(success bool)

	// ObserveAbsorb records that AbsorbRequests drained n requests from
	// the intake queue.
	ObserveAbsorb(n int)

	// ObserveRetry records that the retry bank is about to reattempt n
	// previously failed syncs, at the given pass number (1-indexed).
	ObserveRetry(n int, pass int)

	// ObserveCheckpoint records the duration and processed-request count
	// of one complete ProcessRequests pass.
	ObserveCheckpoint(d time.Duration, processed int)

	// ObservePendingDepth records the current size of the pending-ops
	// table and pending-unlinks queue, for gauge-style reporting.
	ObservePendingDepth(fsyncEntries, unlinkEntries int)
}

// NoOp is an Observer that discards every event. It is the default
// when no Observer is configured.
type NoOp struct{}

func (NoOp) ObserveFsync(time.Duration, bool)    {}
func (NoOp) ObserveUnlink(bool)                  {}
func (NoOp) ObserveAbsorb(int)                   {}
func (NoOp) ObserveRetry(int, int)                {}
func (NoOp) ObserveCheckpoint(time.Duration, int) {}
func (NoOp) ObservePendingDepth(int, int)         {}

var _ Observer = NoOp{}
