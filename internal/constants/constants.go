package constants

import "time"

// Default configuration constants for the checkpoint coordinator.
const (
	// DefaultMaxRetries is the number of retry-bank passes a failed fsync
	// gets before its failure is escalated as fatal.
	DefaultMaxRetries = 5

	// DefaultFsyncsPerAbsorb is how many eligible pending-ops entries are
	// processed between interleaved AbsorbRequests calls during the main
	// flush pass.
	DefaultFsyncsPerAbsorb = 10

	// DefaultUnlinksPerAbsorb is the equivalent cadence for PostCheckpoint.
	DefaultUnlinksPerAbsorb = 10

	// DefaultStreamingWindow bounds how many fsyncs may be in flight on the
	// streaming writer at once.
	DefaultStreamingWindow = 128

	// DefaultRegisterQueueCapacity is the size of the channel standing in
	// for the inter-process fsync-request queue.
	DefaultRegisterQueueCapacity = 1024
)

// RegisterRetryDelay is how long RegisterRequest sleeps between attempts
// when retryOnError is set and the forwarding queue is full.
const RegisterRetryDelay = 10 * time.Millisecond
