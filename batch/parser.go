package batch

import (
	"fmt"
	"regexp"
)

// jobIDPattern matches the job id out of a bsub submission line, e.g.
// "Job <12345> is submitted to queue <normal>.".
var jobIDPattern = regexp.MustCompile(`Job <(\d+)>`)

func parseJobID(firstStdoutLine string) (string, error) {
	m := jobIDPattern.FindStringSubmatch(firstStdoutLine)
	if m == nil {
		return "", fmt.Errorf("no LSF job id found in submission output: %q", firstStdoutLine)
	}
	return m[1], nil
}

// statusPattern matches the Status field out of `bjobs -UF` output, e.g.
// "Status <RUN>".
var statusPattern = regexp.MustCompile(`Status\s*<([A-Za-z]+)>`)

func parseStatus(bjobsOutput string) State {
	m := statusPattern.FindStringSubmatch(bjobsOutput)
	if m == nil {
		return Unknown
	}
	switch State(m[1]) {
	case Run, Pend, Exit, Done:
		return State(m[1])
	default:
		return Unknown
	}
}
