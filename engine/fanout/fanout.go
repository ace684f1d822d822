// Package fanout dispatches the top level of the scheduler hierarchy: one
// Flow Scheduler worker per distinct (Block,Version) pipeline in the
// selected task list, joined before Run returns, and the flat per-stage
// fan-out used by the non-RUN stages.
package fanout

import (
	"context"
	"sync"

	"github.com/ifprun/ifprun/engine"
	"github.com/ifprun/ifprun/status"
	"github.com/ifprun/ifprun/taskstore"
)

// FlowRunner is satisfied by engine/flow.Scheduler.
type FlowRunner interface {
	RunFlows(ctx context.Context, tasksByFlow map[string][]*taskstore.Task, bundles [][]string)
}

// Run executes the RUN stage over every task in tasks: it primes the whole
// selection to queued, then spawns one flowRunner worker per distinct
// (Block,Version) pair and waits for all of them, emitting done() last.
func Run(ctx context.Context, flowRunner FlowRunner, store *taskstore.Store, sink status.Sink, tasks []*taskstore.Task) {
	engine.PrimeQueued(tasks, sink)

	byBlockVersion := map[string][]*taskstore.Task{}
	for _, t := range tasks {
		key := t.Identity.BlockVersionKey()
		byBlockVersion[key] = append(byBlockVersion[key], t)
	}

	var wg sync.WaitGroup
	for _, bv := range taskstore.BlockVersions(tasks) {
		pipelineTasks := byBlockVersion[bv.Block+":"+bv.Version]

		tasksByFlow := map[string][]*taskstore.Task{}
		for _, t := range pipelineTasks {
			tasksByFlow[t.Identity.Flow] = append(tasksByFlow[t.Identity.Flow], t)
		}
		bundles := store.RunOrder(bv.Block, bv.Version)

		wg.Add(1)
		go func(tasksByFlow map[string][]*taskstore.Task, bundles [][]string) {
			defer wg.Done()
			flowRunner.RunFlows(ctx, tasksByFlow, bundles)
		}(tasksByFlow, bundles)
	}
	wg.Wait()

	status.EmitDone(sink)
}
