package syncd

import "time"

// Stats is a point-in-time snapshot of one checkpoint pass's sync
// activity. Grounded on the teacher's MetricsSnapshot (metrics.go),
// trimmed to the fields spec.md §6 names: request count, longest single
// fsync, and total time spent syncing.
type Stats struct {
	// Processed is the number of pending-ops entries successfully
	// flushed during the pass.
	Processed int

	// Longest is the duration of the single slowest fsync call in the
	// pass.
	Longest time.Duration

	// TotalElapsed is the cumulative time spent in fsync calls during
	// the pass (not wall-clock time of the pass itself, which may
	// overlap via the streaming writer's bounded window).
	TotalElapsed time.Duration
}

// record folds one fsync's latency into the running snapshot.
func (s *Stats) record(latency time.Duration) {
	s.Processed++
	s.TotalElapsed += latency
	if latency > s.Longest {
		s.Longest = latency
	}
}
