package flow

import (
	"context"
	"sync"
	"testing"

	"github.com/ifprun/ifprun/engine"
	"github.com/ifprun/ifprun/status"
	"github.com/ifprun/ifprun/taskstore"
)

// fakeGroupRunner scripts each group's outcome by task name and records which
// groups were dispatched, so tests can assert a cancelled bundle never
// reaches the Group Scheduler at all.
type fakeGroupRunner struct {
	mu       sync.Mutex
	results  map[string]taskstore.Status
	groupIDs []string
}

func newFakeGroupRunner(results map[string]taskstore.Status) *fakeGroupRunner {
	return &fakeGroupRunner{results: results}
}

func (f *fakeGroupRunner) RunGroup(ctx context.Context, tasks []*taskstore.Task, runType taskstore.RunType) {
	f.mu.Lock()
	f.groupIDs = append(f.groupIDs, tasks[0].Identity.GroupKey())
	f.mu.Unlock()

	for _, t := range tasks {
		result := f.results[t.Identity.Task]
		if result == "" {
			result = taskstore.Result(taskstore.Run, taskstore.Passed)
		}
		t.SetStatus(result)
	}
}

func newFlowTask(flow, task string) *taskstore.Task {
	return taskstore.NewTask(taskstore.Identity{
		Block: "B1", Version: "V1", Flow: flow, Vendor: "cdn", Branch: "br0", Task: task,
	}, map[taskstore.Stage]taskstore.Action{taskstore.Run: {Command: task + ".sh"}})
}

// TestRunFlows_BundleBarrier: RUN_ORDER = ["syn", "pnr|sta"], syn fails,
// both pnr and sta must end cancelled without the Group Scheduler ever
// seeing their groups.
func TestRunFlows_BundleBarrier(t *testing.T) {
	syn := newFlowTask("syn", "syn")
	pnr := newFlowTask("pnr", "pnr")
	sta := newFlowTask("sta", "sta")

	runner := newFakeGroupRunner(map[string]taskstore.Status{
		"syn": taskstore.Result(taskstore.Run, taskstore.Failed),
	})
	sched := New(runner, taskstore.NewStore(), status.NopSink{}, engine.DefaultConfig())

	tasksByFlow := map[string][]*taskstore.Task{
		"syn": {syn},
		"pnr": {pnr},
		"sta": {sta},
	}
	sched.RunFlows(context.Background(), tasksByFlow, [][]string{{"syn"}, {"pnr", "sta"}})

	if pnr.Status() != taskstore.StatusCancelled {
		t.Errorf("pnr = %q, want cancelled", pnr.Status())
	}
	if sta.Status() != taskstore.StatusCancelled {
		t.Errorf("sta = %q, want cancelled", sta.Status())
	}

	runner.mu.Lock()
	defer runner.mu.Unlock()
	for _, key := range runner.groupIDs {
		if key == pnr.Identity.GroupKey() || key == sta.Identity.GroupKey() {
			t.Errorf("Group Scheduler should not have been dispatched for a cancelled bundle, got groupIDs = %v", runner.groupIDs)
		}
	}
}

func TestRunFlows_IgnoreFailContinues(t *testing.T) {
	syn := newFlowTask("syn", "syn")
	pnr := newFlowTask("pnr", "pnr")

	runner := newFakeGroupRunner(map[string]taskstore.Status{
		"syn": taskstore.Result(taskstore.Run, taskstore.Failed),
		"pnr": taskstore.Result(taskstore.Run, taskstore.Passed),
	})
	cfg := engine.DefaultConfig()
	cfg.IgnoreFail = true
	sched := New(runner, taskstore.NewStore(), status.NopSink{}, cfg)

	tasksByFlow := map[string][]*taskstore.Task{"syn": {syn}, "pnr": {pnr}}
	sched.RunFlows(context.Background(), tasksByFlow, [][]string{{"syn"}, {"pnr"}})

	if pnr.Status() != taskstore.Result(taskstore.Run, taskstore.Passed) {
		t.Errorf("pnr = %q, want run passed (ignore_fail keeps it dispatching)", pnr.Status())
	}
}

func TestRunFlows_RespectsGroupRunType(t *testing.T) {
	store := taskstore.NewStore()
	store.SetRunType("B1", "V1", "syn", "cdn", "br0", taskstore.Serial)

	t1 := newFlowTask("syn", "t1")
	t2 := newFlowTask("syn", "t2")
	runner := newFakeGroupRunner(map[string]taskstore.Status{
		"t1": taskstore.Result(taskstore.Run, taskstore.Failed),
	})
	var sawRunType taskstore.RunType
	wrapped := &runTypeCapturingRunner{inner: runner, captured: &sawRunType}

	sched := New(wrapped, store, status.NopSink{}, engine.DefaultConfig())
	sched.RunFlows(context.Background(), map[string][]*taskstore.Task{"syn": {t1, t2}}, [][]string{{"syn"}})

	if sawRunType != taskstore.Serial {
		t.Errorf("RunGroup saw RunType = %v, want serial (from the store)", sawRunType)
	}
}

type runTypeCapturingRunner struct {
	inner    GroupRunner
	captured *taskstore.RunType
}

func (r *runTypeCapturingRunner) RunGroup(ctx context.Context, tasks []*taskstore.Task, runType taskstore.RunType) {
	*r.captured = runType
	r.inner.RunGroup(ctx, tasks, runType)
}
