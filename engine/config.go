// Package engine wires the Action/Run Executors, the Group/Flow Schedulers,
// the Block-Version Fan-out, and the Kill Orchestrator together into the
// hierarchical task-execution engine. Each scheduling level lives in its own
// subpackage (engine/action, engine/run, engine/group, engine/flow,
// engine/fanout, engine/kill, engine/view); this package holds the pieces
// shared across all of them: the poll-interval configuration and the
// cd-prefix / queued-priming helpers common to more than one executor.
package engine

import "time"

// Config holds the tunables every level of the scheduler needs, collected in
// one struct with sane defaults rather than scattered as constants through
// the call graph. Tests shrink the intervals to keep polls fast.
type Config struct {
	// JobStartPollInterval is how often the Run Executor polls the batch
	// adapter while waiting for a submitted job to reach RUN.
	JobStartPollInterval time.Duration

	// KillPollInterval is how often the Run Executor polls the batch
	// adapter while waiting for a killed job to reach a terminal state.
	KillPollInterval time.Duration

	// SerialWaitPollInterval is how often the Group Scheduler polls a
	// still-running first task in a serial group.
	SerialWaitPollInterval time.Duration

	// StartDeadline bounds the job-start poll so a never-starting batch job
	// can't block a group indefinitely. Zero means unbounded.
	StartDeadline time.Duration

	// IgnoreFail disables downstream cancellation in the Group and Flow
	// Schedulers.
	IgnoreFail bool
}

// DefaultConfig returns the production poll intervals with a 30-minute
// job-start deadline.
func DefaultConfig() Config {
	return Config{
		JobStartPollInterval:   time.Second,
		KillPollInterval:       3 * time.Second,
		SerialWaitPollInterval: 5 * time.Second,
		StartDeadline:          30 * time.Minute,
	}
}
