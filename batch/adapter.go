// Package batch adapts an LSF-like external job scheduler, invoked via
// bsub/bjobs/bkill, behind a small query/kill interface.
package batch

import "context"

// State is an LSF job state.
type State string

const (
	Run     State = "RUN"
	Pend    State = "PEND"
	Exit    State = "EXIT"
	Done    State = "DONE"
	Unknown State = "UNKNOWN"
)

// Terminal reports whether a state means the job has left the queue. Both
// EXIT and DONE count: a kill can race a natural completion, and a kill-poll
// that only accepted EXIT would spin forever on the interleaved DONE.
func (s State) Terminal() bool {
	return s == Exit || s == Done
}

// Adapter is the batch-scheduler interface the engine polls and kills
// through.
type Adapter interface {
	// SubmitJobID extracts the LSF job id from the first line of a `bsub -I`
	// submission's stdout.
	SubmitJobID(firstStdoutLine string) (string, error)

	// Query polls the current state of jobID. Returns Unknown (not an error)
	// when bjobs has no record yet, so pollers treat a missing record as
	// "not yet running" and continue.
	Query(ctx context.Context, jobID string) (State, error)

	// Kill issues a kill request for jobID.
	Kill(ctx context.Context, jobID string) error
}
