package syncd

import "time"

// RequestCompleted reports the outcome of one InflightSync's fsync. A
// Handler's Sync implementation must call this exactly once per
// in-flight request — usually indirectly, through the done callback
// callSyncFileTag wires up for it.
//
// Grounded on sync.c's SyncRequestCompleted.
func (c *Coordinator) RequestCompleted(in *InflightSync, success bool, err error) {
	if in.elem != nil {
		c.inflight.Remove(in.elem)
		in.elem = nil
	}

	elapsed := time.Since(in.startTime)

	if success {
		c.stats.record(elapsed)
		c.observer().ObserveFsync(elapsed, true)

		// Normally unsafe to remove hash entries other than the
		// current one while iterating, but this is always an entry
		// from earlier in the current Range call (or from a prior
		// pass's retry bank), so it is safe.
		if !c.ops.Remove(in.Tag) {
			panic(&Error{Op: "RequestCompleted", Code: CodeStateCorruption, Msg: "pendingOps corrupted", Tag: in.Tag.String()})
		}
		c.inflightPool.Put(in)
		return
	}

	// The relation may have been dropped or truncated since the fsync
	// request was entered. Allow that (ENOENT and its platform
	// equivalents), but only on the first failure for this request.
	if !IsCode(err, CodeTransientFileGone) || in.RetryCount > 0 {
		c.observer().ObserveFsync(elapsed, false)
		escalated := &Error{Op: "Sync", Code: CodePersistentIO, Msg: "could not fsync file", Tag: in.Tag.String(), Inner: err}
		c.inflightPool.Put(in)

		if c.cfg.DataSyncErrorLevel == LevelPanic {
			panic(escalated)
		}
		c.lastSyncError = escalated
		return
	}

	c.logger().Debugf("fsync failed for tag=%s but retrying: %v", in.Tag, err)
	in.RetryCount++
	in.elem = c.retry.PushBack(in)
}
