// Package flow executes a (Block,Version) pipeline's flow bundles in
// declared order, running flows within a bundle in parallel and imposing a
// barrier between bundles. Every task in a downstream bundle is cancelled if
// an upstream bundle left a task in an unexpected state (unless ignore_fail).
package flow

import (
	"context"
	"sync"

	"github.com/ifprun/ifprun/engine"
	"github.com/ifprun/ifprun/status"
	"github.com/ifprun/ifprun/taskstore"
)

// GroupRunner is satisfied by engine/group.Scheduler.
type GroupRunner interface {
	RunGroup(ctx context.Context, tasks []*taskstore.Task, runType taskstore.RunType)
}

// Scheduler runs one (Block,Version) pipeline's flow bundles.
type Scheduler struct {
	Group  GroupRunner
	Store  *taskstore.Store
	Sink   status.Sink
	Config engine.Config
}

// New constructs a Scheduler.
func New(groupRunner GroupRunner, store *taskstore.Store, sink status.Sink, cfg engine.Config) *Scheduler {
	return &Scheduler{Group: groupRunner, Store: store, Sink: sink, Config: cfg}
}

// RunFlows executes bundles in order for one (Block,Version) pipeline.
// tasksByFlow partitions that pipeline's selected tasks by Flow name.
func (s *Scheduler) RunFlows(ctx context.Context, tasksByFlow map[string][]*taskstore.Task, bundles [][]string) {
	var prevBundleTasks []*taskstore.Task

	for bundleIdx, bundle := range bundles {
		bundleTasks := flattenBundle(tasksByFlow, bundle)

		if bundleIdx > 0 && !s.Config.IgnoreFail && anyUnexpected(prevBundleTasks) {
			for _, t := range bundleTasks {
				status.EmitStart(s.Sink, t.Identity, taskstore.StatusCancelled)
				t.SetStatus(taskstore.StatusCancelled)
				status.EmitFinish(s.Sink, t.Identity, taskstore.StatusCancelled)
			}
			prevBundleTasks = bundleTasks
			continue
		}

		s.dispatchBundle(ctx, tasksByFlow, bundle)
		prevBundleTasks = bundleTasks
	}
}

// dispatchBundle runs every flow in the bundle concurrently, and every group
// within a flow concurrently, then barriers on all of them. Only inside a
// single group does the serial/parallel distinction apply.
func (s *Scheduler) dispatchBundle(ctx context.Context, tasksByFlow map[string][]*taskstore.Task, bundle []string) {
	var wg sync.WaitGroup
	for _, flowName := range bundle {
		for _, groupTasks := range groupByKey(tasksByFlow[flowName]) {
			groupTasks := groupTasks
			wg.Add(1)
			go func() {
				defer wg.Done()
				s.Group.RunGroup(ctx, groupTasks, groupRunType(s.Store, groupTasks))
			}()
		}
	}
	wg.Wait()
}

func flattenBundle(tasksByFlow map[string][]*taskstore.Task, bundle []string) []*taskstore.Task {
	var out []*taskstore.Task
	for _, flowName := range bundle {
		out = append(out, tasksByFlow[flowName]...)
	}
	return out
}

// groupByKey partitions tasks by GroupKey(), preserving each group's
// relative order — required for a Serial RunType to gate correctly.
func groupByKey(tasks []*taskstore.Task) map[string][]*taskstore.Task {
	out := map[string][]*taskstore.Task{}
	for _, t := range tasks {
		key := t.Identity.GroupKey()
		out[key] = append(out[key], t)
	}
	return out
}

func groupRunType(store *taskstore.Store, tasks []*taskstore.Task) taskstore.RunType {
	if len(tasks) == 0 {
		return taskstore.Parallel
	}
	id := tasks[0].Identity
	return store.RunType(id.Block, id.Version, id.Flow, id.Vendor, id.Branch)
}

func anyUnexpected(tasks []*taskstore.Task) bool {
	for _, t := range tasks {
		if t.Status().IsUnexpected() {
			return true
		}
	}
	return false
}
