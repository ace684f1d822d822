package fanout

import (
	"context"
	"sync"

	"github.com/ifprun/ifprun/status"
	"github.com/ifprun/ifprun/taskstore"
)

// StageExecutor is satisfied by engine/action.Executor.
type StageExecutor interface {
	Execute(ctx context.Context, stage taskstore.Stage, task *taskstore.Task) taskstore.Status
}

// Stage executes one non-RUN stage over the whole selection: a flat fan-out
// with no flow/group hierarchy, since BUILD, CHECK, SUMMARY, and RELEASE
// have no ordering constraints between tasks. Emits done() after the last
// task finishes.
func Stage(ctx context.Context, exec StageExecutor, sink status.Sink, stage taskstore.Stage, tasks []*taskstore.Task) {
	var wg sync.WaitGroup
	for _, t := range tasks {
		t := t
		wg.Add(1)
		go func() {
			defer wg.Done()
			exec.Execute(ctx, stage, t)
		}()
	}
	wg.Wait()

	status.EmitDone(sink)
}
