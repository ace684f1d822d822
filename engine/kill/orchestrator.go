// Package kill translates user-initiated cancellation into a batch-kill or
// local tree-kill for every running task in a selection.
package kill

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/ifprun/ifprun/batch"
	"github.com/ifprun/ifprun/procrunner"
	"github.com/ifprun/ifprun/status"
	"github.com/ifprun/ifprun/taskstore"
)

// Orchestrator issues kills against running tasks.
type Orchestrator struct {
	Runner procrunner.Runner
	Batch  batch.Adapter
	Sink   status.Sink
}

// New constructs an Orchestrator.
func New(runner procrunner.Runner, adapter batch.Adapter, sink status.Sink) *Orchestrator {
	return &Orchestrator{Runner: runner, Batch: adapter, Sink: sink}
}

// Kill kills every task in tasks whose status is running; tasks in any other
// state are ignored. A batch task's Job "b:" prefix is stripped exactly once
// before calling the batch adapter's Kill; a local task's "l:" prefix is
// stripped before killing the
// process tree, and its Status is set to killed immediately because the OS
// tree-kill is synchronous — unlike a batch kill, there is no external
// system left to confirm.
func (o *Orchestrator) Kill(ctx context.Context, tasks []*taskstore.Task) {
	for _, t := range tasks {
		if !t.CompareAndSetStatus(taskstore.StatusRunning, taskstore.StatusKilling) {
			continue
		}
		status.EmitStart(o.Sink, t.Identity, taskstore.StatusKilling)

		job := t.Job()
		switch {
		case strings.HasPrefix(job, "b:"):
			o.killBatch(ctx, t, strings.TrimPrefix(job, "b:"))
		case strings.HasPrefix(job, "l:"):
			o.killLocal(t, strings.TrimPrefix(job, "l:"))
		default:
			status.EmitMessage(o.Sink, fmt.Sprintf("%s: running task has no job id, cannot kill", t.Identity), status.ColorRed)
		}
	}
}

// killBatch only issues the kill request; the Run Executor's reconciliation
// step observes Status=killing after the process exits and polls the batch
// adapter for a terminal state before transitioning to killed and emitting
// finish itself (engine/run.Executor.reconcile).
func (o *Orchestrator) killBatch(ctx context.Context, t *taskstore.Task, jobID string) {
	if err := o.Batch.Kill(ctx, jobID); err != nil {
		status.EmitMessage(o.Sink, fmt.Sprintf("%s: batch kill of job %s failed: %v", t.Identity, jobID, err), status.ColorRed)
	}
}

func (o *Orchestrator) killLocal(t *taskstore.Task, pidStr string) {
	pid, err := strconv.Atoi(pidStr)
	if err != nil {
		status.EmitMessage(o.Sink, fmt.Sprintf("%s: invalid local job id %q", t.Identity, pidStr), status.ColorRed)
		return
	}
	if err := o.Runner.KillTree(pid); err != nil {
		status.EmitMessage(o.Sink, fmt.Sprintf("%s: kill of pid %d failed: %v", t.Identity, pid, err), status.ColorRed)
	}
	t.SetStatus(taskstore.StatusKilled)
	status.EmitFinish(o.Sink, t.Identity, taskstore.StatusKilled)
}
