// Package group runs every task sharing a (Block,Version,Flow,Vendor,Branch)
// identity under a serial or parallel policy, gating serial tasks on the
// predecessor's result.
package group

import (
	"context"
	"sync"
	"time"

	"github.com/ifprun/ifprun/engine"
	"github.com/ifprun/ifprun/status"
	"github.com/ifprun/ifprun/taskstore"
)

// RunOner is satisfied by engine/run.Executor. Declared here rather than
// imported to keep engine/group free of a dependency on engine/run's batch
// and process-runner wiring — the scheduler only needs "run this task."
type RunOner interface {
	RunOne(ctx context.Context, task *taskstore.Task) taskstore.Status
}

// Scheduler runs one group's tasks at a time.
type Scheduler struct {
	Runner RunOner
	Sink   status.Sink
	Config engine.Config
}

// New constructs a Scheduler.
func New(runner RunOner, sink status.Sink, cfg engine.Config) *Scheduler {
	return &Scheduler{Runner: runner, Sink: sink, Config: cfg}
}

// RunGroup executes tasks, which must share a (Block,Version,Flow,Vendor,
// Branch) identity and, for RunType=Serial, be in declared order.
func (s *Scheduler) RunGroup(ctx context.Context, tasks []*taskstore.Task, runType taskstore.RunType) {
	if len(tasks) == 0 {
		return
	}
	if runType == taskstore.Serial {
		s.runSerial(ctx, tasks)
		return
	}
	s.runParallel(ctx, tasks)
}

func (s *Scheduler) runSerial(ctx context.Context, tasks []*taskstore.Task) {
	interval := s.Config.SerialWaitPollInterval
	if interval <= 0 {
		interval = 5 * time.Second
	}

	first := tasks[0]
	if first.Status().IsActive() {
		for first.Status().IsActive() {
			select {
			case <-ctx.Done():
				return
			case <-time.After(interval):
			}
		}
	} else {
		s.Runner.RunOne(ctx, first)
	}

	for i := 1; i < len(tasks); i++ {
		prevStatus := tasks[i-1].Status()
		cur := tasks[i]

		switch {
		case taskstore.IsRunPassed(prevStatus) || s.Config.IgnoreFail:
			s.Runner.RunOne(ctx, cur)
		case prevStatus.IsUnexpected():
			s.cancel(cur)
		default:
			// Predecessor ended neither "run passed" nor unexpected — e.g.
			// "run undefined". The successor gets its own terminal value,
			// "run skipped", rather than being silently stranded in queued.
			s.skip(cur)
		}
	}
}

func (s *Scheduler) runParallel(ctx context.Context, tasks []*taskstore.Task) {
	var wg sync.WaitGroup
	for _, t := range tasks {
		if t.Status().IsActive() {
			continue
		}
		t := t
		wg.Add(1)
		go func() {
			defer wg.Done()
			s.Runner.RunOne(ctx, t)
		}()
	}
	wg.Wait()
}

func (s *Scheduler) cancel(t *taskstore.Task) {
	status.EmitStart(s.Sink, t.Identity, taskstore.StatusCancelled)
	t.SetStatus(taskstore.StatusCancelled)
	status.EmitFinish(s.Sink, t.Identity, taskstore.StatusCancelled)
}

func (s *Scheduler) skip(t *taskstore.Task) {
	result := taskstore.Result(taskstore.Run, taskstore.Skipped)
	status.EmitStart(s.Sink, t.Identity, result)
	t.SetStatus(result)
	status.EmitFinish(s.Sink, t.Identity, result)
}
