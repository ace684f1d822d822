// Package action implements the BUILD, CHECK, SUMMARY, and RELEASE stage
// runner shared by every non-RUN stage.
package action

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/ifprun/ifprun/engine"
	"github.com/ifprun/ifprun/procrunner"
	"github.com/ifprun/ifprun/status"
	"github.com/ifprun/ifprun/taskstore"
)

// Executor runs BUILD/CHECK/SUMMARY/RELEASE for one task at a time.
type Executor struct {
	Runner procrunner.Runner
	Sink   status.Sink
	Logger *slog.Logger
}

// New constructs an Executor, falling back to slog.Default() when logger is
// nil.
func New(runner procrunner.Runner, sink status.Sink, logger *slog.Logger) *Executor {
	if logger == nil {
		logger = slog.Default()
	}
	return &Executor{Runner: runner, Sink: sink, Logger: logger}
}

// Execute runs one stage for task and returns its terminal status. It never
// returns an error: every path ends in a terminal Status write and a finish
// event.
func (e *Executor) Execute(ctx context.Context, stage taskstore.Stage, task *taskstore.Task) taskstore.Status {
	identity := task.Identity

	act, defined := task.Action(stage)
	if !defined {
		result := taskstore.Result(stage, taskstore.Undefined)
		task.SetStatus(result)
		status.EmitFinish(e.Sink, identity, result)
		return result
	}

	active := taskstore.ActiveState(stage)
	task.SetStatus(active)
	status.EmitStart(e.Sink, identity, active)

	command := engine.ComposeCD(e.Sink, identity, act.Path, act.Command)

	handle, err := e.Runner.Spawn(ctx, command, identity.Env(), "")
	if err != nil {
		e.Logger.Error("failed to start action", "identity", identity.String(), "stage", stage, "error", err)
		status.EmitMessage(e.Sink, fmt.Sprintf("%s: failed to start %s: %v", identity, stage, err), status.ColorRed)
		result := taskstore.Result(stage, taskstore.Failed)
		task.SetStatus(result)
		status.EmitFinish(e.Sink, identity, result)
		return result
	}

	stdout, stderr, exitCode, _ := handle.Communicate()
	e.Logger.Debug("action stage finished", "identity", identity.String(), "stage", stage, "exit_code", exitCode, "stdout", string(stdout), "stderr", string(stderr))

	outcome := taskstore.Failed
	if exitCode == 0 {
		outcome = taskstore.Passed
	}
	result := taskstore.Result(stage, outcome)
	task.SetStatus(result)
	status.EmitFinish(e.Sink, identity, result)
	return result
}
