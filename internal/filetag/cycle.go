package filetag

// CycleCtr is a small wraparound counter used to tell "entered before
// this pass started" apart from "entered during this pass" without
// timestamps. sync_cycle and checkpoint_cycle are both CycleCtrs.
//
// The counter is 16 bits wide and wraps after 65536 increments.
// Coordinator.ProcessRequests does not renormalize entry cycles after an
// incomplete pass: it panics if re-entered while a prior pass never
// completed (see SPEC_FULL.md's Open Question notes).
type CycleCtr uint16

// Next returns c+1 with wraparound.
func (c CycleCtr) Next() CycleCtr {
	return c + 1
}

// PrecedesImmediately reports whether c is exactly one cycle behind
// other, i.e. other == c+1 under wraparound. This is the only ordering
// comparison the coordinator ever needs to make on a CycleCtr, besides
// equality.
func (c CycleCtr) PrecedesImmediately(other CycleCtr) bool {
	return c.Next() == other
}
