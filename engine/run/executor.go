// Package run implements the RUN stage executor: the stage variant that
// additionally handles RUN_METHOD prefixing, batch-vs-local job-id tagging,
// runtime reporting, and kill reconciliation.
package run

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/ifprun/ifprun/batch"
	"github.com/ifprun/ifprun/engine"
	"github.com/ifprun/ifprun/procrunner"
	"github.com/ifprun/ifprun/status"
	"github.com/ifprun/ifprun/taskstore"
)

// Executor runs the RUN stage for one task at a time.
type Executor struct {
	Runner procrunner.Runner
	Batch  batch.Adapter
	Sink   status.Sink
	Config engine.Config
	Logger *slog.Logger
}

// New constructs an Executor with engine.DefaultConfig() and slog.Default()
// as its logger.
func New(runner procrunner.Runner, adapter batch.Adapter, sink status.Sink) *Executor {
	return &Executor{Runner: runner, Batch: adapter, Sink: sink, Config: engine.DefaultConfig(), Logger: slog.Default()}
}

// RunOne runs the RUN stage for task and returns its terminal status. Every
// code path ends in a terminal Status write and a finish event; the sole
// exception is the "observed killed by the Kill Orchestrator" path, where
// the Kill Orchestrator itself already wrote killed and emitted finish, and
// RunOne must not emit a second one.
func (e *Executor) RunOne(ctx context.Context, task *taskstore.Task) taskstore.Status {
	identity := task.Identity
	correlationID := uuid.New().String()
	logger := e.logger().With("identity", identity.String(), "correlation_id", correlationID)

	act, defined := task.Action(taskstore.Run)
	if !defined {
		result := taskstore.Result(taskstore.Run, taskstore.Undefined)
		task.SetStatus(result)
		status.EmitFinish(e.Sink, identity, result)
		return result
	}

	task.SetStatus(taskstore.StatusRunning)
	status.EmitStart(e.Sink, identity, taskstore.StatusRunning)

	command, isBatch := e.composeCommand(act)
	command = engine.ComposeCD(e.Sink, identity, act.Path, command)

	logger.Info("spawning run command", "command", command, "batch", isBatch)
	handle, err := e.Runner.Spawn(ctx, command, identity.Env(), "")
	if err != nil {
		logger.Error("failed to spawn run command", "error", err)
		status.EmitMessage(e.Sink, fmt.Sprintf("%s: failed to start run: %v", identity, err), status.ColorRed)
		result := taskstore.Result(taskstore.Run, taskstore.Failed)
		task.SetStatus(result)
		status.EmitFinish(e.Sink, identity, result)
		return result
	}

	if isBatch {
		e.runBatchPath(ctx, task, handle, logger)
	} else {
		e.runLocalPath(task, handle)
	}

	_, _, exitCode, _ := handle.Communicate()
	return e.reconcile(ctx, task, exitCode, logger)
}

// composeCommand applies the RUN_METHOD normalization rules and reports
// whether the resulting command is a batch submission.
func (e *Executor) composeCommand(act taskstore.Action) (command string, isBatch bool) {
	method := strings.TrimSpace(act.RunMethod)

	isBatch = strings.Contains(strings.ToLower(method), "bsub")
	if isBatch && !strings.Contains(method, "-I") {
		method = method + " -I "
	}

	switch {
	case method == "" || strings.EqualFold(method, "local"):
		return act.Command, false
	default:
		return fmt.Sprintf(`%s "%s"`, method, act.Command), isBatch
	}
}

func (e *Executor) runBatchPath(ctx context.Context, task *taskstore.Task, handle procrunner.Handle, logger *slog.Logger) {
	identity := task.Identity

	firstLine, err := handle.ReadFirstStdoutLine(ctx)
	if err != nil {
		logger.Warn("failed to read first stdout line from batch submission", "error", err)
		status.EmitMessage(e.Sink, fmt.Sprintf("%s: no job id observed from batch submission: %v", identity, err), status.ColorRed)
		return
	}

	jobID, err := e.Batch.SubmitJobID(firstLine)
	if err != nil {
		logger.Warn("failed to parse batch job id", "first_line", firstLine, "error", err)
		status.EmitMessage(e.Sink, fmt.Sprintf("%s: could not parse batch job id: %v", identity, err), status.ColorRed)
		return
	}

	// jobID, as returned by SubmitJobID, never carries the "b:" prefix; it
	// is added only to the task's Job field below for external display, so
	// the batch adapter always sees the bare id.
	task.SetJob("b:" + jobID)
	status.EmitSetField(e.Sink, identity, status.FieldJob, "b:"+jobID)

	pending := "pending"
	task.SetRuntime(&pending)
	status.EmitSetField(e.Sink, identity, status.FieldRuntime, pending)

	deadline := e.Config.StartDeadline
	interval := e.Config.JobStartPollInterval
	if interval <= 0 {
		interval = time.Second
	}

	started := time.Now()
	for {
		state, err := e.Batch.Query(ctx, jobID)
		if err != nil {
			logger.Warn("batch query failed during job-start poll", "job_id", jobID, "error", err)
		} else if state == batch.Run {
			zero := "00:00:00"
			task.SetRuntime(&zero)
			status.EmitSetField(e.Sink, identity, status.FieldRuntime, zero)
			return
		}
		// Batch-adapter unavailability (no record yet) is not an error:
		// the poll just continues, treating it as not yet running.

		if deadline > 0 && time.Since(started) >= deadline {
			logger.Warn("job-start poll exceeded deadline", "job_id", jobID, "deadline", deadline)
			status.EmitMessage(e.Sink, fmt.Sprintf("%s: batch job %s did not start within %s", identity, jobID, deadline), status.ColorRed)
			return
		}

		select {
		case <-ctx.Done():
			return
		case <-time.After(interval):
		}
	}
}

func (e *Executor) runLocalPath(task *taskstore.Task, handle procrunner.Handle) {
	identity := task.Identity
	job := fmt.Sprintf("l:%d", handle.Pid())
	task.SetJob(job)
	status.EmitSetField(e.Sink, identity, status.FieldJob, job)

	zero := "00:00:00"
	task.SetRuntime(&zero)
	status.EmitSetField(e.Sink, identity, status.FieldRuntime, zero)
}

// reconcile runs after the process exits: the task's Status at that moment
// decides the terminal result.
func (e *Executor) reconcile(ctx context.Context, task *taskstore.Task, exitCode int, logger *slog.Logger) taskstore.Status {
	identity := task.Identity

	switch task.Status() {
	case taskstore.StatusKilling:
		// Batch kill: the Kill Orchestrator set killing and issued the
		// batch-adapter kill but left confirmation to us. This poll
		// deliberately ignores ctx cancellation: a kill must be confirmed
		// before the task can be reported terminal, regardless of whether
		// the caller's context that started the run has since expired.
		jobID := strings.TrimPrefix(task.Job(), "b:")
		interval := e.Config.KillPollInterval
		if interval <= 0 {
			interval = 3 * time.Second
		}
		for {
			state, err := e.Batch.Query(context.WithoutCancel(ctx), jobID)
			if err == nil && state.Terminal() {
				break
			}
			if err != nil {
				logger.Warn("batch query failed during kill poll", "job_id", jobID, "error", err)
			}
			time.Sleep(interval)
		}
		task.CompareAndSetStatus(taskstore.StatusKilling, taskstore.StatusKilled)
		status.EmitFinish(e.Sink, identity, taskstore.StatusKilled)
		return taskstore.StatusKilled

	case taskstore.StatusKilled:
		// Local kill: the Kill Orchestrator already set Status=killed and
		// emitted finish itself. A second finish here would break the
		// one-finish-per-task guarantee.
		return taskstore.StatusKilled

	default:
		outcome := taskstore.Failed
		if exitCode == 0 {
			outcome = taskstore.Passed
		}
		result := taskstore.Result(taskstore.Run, outcome)
		task.SetStatus(result)
		status.EmitFinish(e.Sink, identity, result)
		return result
	}
}

func (e *Executor) logger() *slog.Logger {
	if e.Logger != nil {
		return e.Logger
	}
	return slog.Default()
}
