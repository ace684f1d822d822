package batch

import (
	"context"
	"fmt"
	"os/exec"
)

// LSFAdapter shells out to the real bjobs/bkill binaries.
type LSFAdapter struct{}

// NewLSFAdapter constructs an LSFAdapter.
func NewLSFAdapter() *LSFAdapter { return &LSFAdapter{} }

func (LSFAdapter) SubmitJobID(firstStdoutLine string) (string, error) {
	return parseJobID(firstStdoutLine)
}

func (LSFAdapter) Query(ctx context.Context, jobID string) (State, error) {
	out, err := exec.CommandContext(ctx, "sh", "-c", fmt.Sprintf("bjobs -UF %s", jobID)).CombinedOutput()
	if err != nil {
		// bjobs exits non-zero when the job id isn't (yet) known; treat this
		// the same as "no record" rather than propagating an error that would
		// abort the poll loop.
		return Unknown, nil
	}
	return parseStatus(string(out)), nil
}

func (LSFAdapter) Kill(ctx context.Context, jobID string) error {
	return exec.CommandContext(ctx, "sh", "-c", fmt.Sprintf("bkill %s", jobID)).Run()
}
