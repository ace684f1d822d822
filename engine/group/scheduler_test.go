package group

import (
	"context"
	"sync"
	"testing"

	"github.com/ifprun/ifprun/engine"
	"github.com/ifprun/ifprun/status"
	"github.com/ifprun/ifprun/taskstore"
)

// fakeRunner is a scripted RunOner: RunOne sets each task's status to the
// scripted result and records which identities were invoked, without ever
// touching a real procrunner.Runner or batch.Adapter.
type fakeRunner struct {
	mu      sync.Mutex
	results map[string]taskstore.Status
	calls   []string
}

func newFakeRunner(results map[string]taskstore.Status) *fakeRunner {
	return &fakeRunner{results: results}
}

func (f *fakeRunner) RunOne(ctx context.Context, task *taskstore.Task) taskstore.Status {
	f.mu.Lock()
	f.calls = append(f.calls, task.Identity.Task)
	f.mu.Unlock()

	result := f.results[task.Identity.Task]
	if result == "" {
		result = taskstore.Result(taskstore.Run, taskstore.Passed)
	}
	task.SetStatus(result)
	status.EmitFinish(status.NopSink{}, task.Identity, result)
	return result
}

func (f *fakeRunner) Calls() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]string, len(f.calls))
	copy(out, f.calls)
	return out
}

func newGroupTask(name string) *taskstore.Task {
	return taskstore.NewTask(taskstore.Identity{
		Block: "B1", Version: "V1", Flow: "synth", Vendor: "cdn", Branch: "br0", Task: name,
	}, map[taskstore.Stage]taskstore.Action{taskstore.Run: {Command: name + ".sh"}})
}

// TestRunGroup_SerialCascade: t1 passes, t2 fails, t3 must be cancelled
// without spawning.
func TestRunGroup_SerialCascade(t *testing.T) {
	t1, t2, t3 := newGroupTask("t1"), newGroupTask("t2"), newGroupTask("t3")
	runner := newFakeRunner(map[string]taskstore.Status{
		"t1": taskstore.Result(taskstore.Run, taskstore.Passed),
		"t2": taskstore.Result(taskstore.Run, taskstore.Failed),
	})
	sched := New(runner, status.NopSink{}, engine.DefaultConfig())

	sched.RunGroup(context.Background(), []*taskstore.Task{t1, t2, t3}, taskstore.Serial)

	if t1.Status() != taskstore.Result(taskstore.Run, taskstore.Passed) {
		t.Errorf("t1 = %q, want run passed", t1.Status())
	}
	if t2.Status() != taskstore.Result(taskstore.Run, taskstore.Failed) {
		t.Errorf("t2 = %q, want run failed", t2.Status())
	}
	if t3.Status() != taskstore.StatusCancelled {
		t.Errorf("t3 = %q, want cancelled", t3.Status())
	}

	calls := runner.Calls()
	if len(calls) != 2 || calls[0] != "t1" || calls[1] != "t2" {
		t.Errorf("RunOne calls = %v, want exactly [t1 t2]", calls)
	}
}

// TestRunGroup_IgnoreFail: IgnoreFail=true means every task spawns
// regardless of the predecessor's result.
func TestRunGroup_IgnoreFail(t *testing.T) {
	t1, t2, t3 := newGroupTask("t1"), newGroupTask("t2"), newGroupTask("t3")
	runner := newFakeRunner(map[string]taskstore.Status{
		"t1": taskstore.Result(taskstore.Run, taskstore.Passed),
		"t2": taskstore.Result(taskstore.Run, taskstore.Failed),
		"t3": taskstore.Result(taskstore.Run, taskstore.Passed),
	})
	cfg := engine.DefaultConfig()
	cfg.IgnoreFail = true
	sched := New(runner, status.NopSink{}, cfg)

	sched.RunGroup(context.Background(), []*taskstore.Task{t1, t2, t3}, taskstore.Serial)

	calls := runner.Calls()
	if len(calls) != 3 {
		t.Fatalf("RunOne calls = %v, want all three tasks spawned", calls)
	}
	if t3.Status() != taskstore.Result(taskstore.Run, taskstore.Passed) {
		t.Errorf("t3 = %q, want run passed (its own result, not cancelled)", t3.Status())
	}
}

// TestRunGroup_SerialSkipOnUndefinedPredecessor: a predecessor of
// "run undefined" is neither passed nor unexpected, so the successor gets an
// explicit "run skipped" rather than being cancelled or silently stuck.
func TestRunGroup_SerialSkipOnUndefinedPredecessor(t *testing.T) {
	t1, t2 := newGroupTask("t1"), newGroupTask("t2")
	runner := newFakeRunner(map[string]taskstore.Status{
		"t1": taskstore.Result(taskstore.Run, taskstore.Undefined),
	})
	sched := New(runner, status.NopSink{}, engine.DefaultConfig())

	sched.RunGroup(context.Background(), []*taskstore.Task{t1, t2}, taskstore.Serial)

	if t2.Status() != taskstore.Result(taskstore.Run, taskstore.Skipped) {
		t.Errorf("t2 = %q, want run skipped", t2.Status())
	}
	for _, c := range runner.Calls() {
		if c == "t2" {
			t.Errorf("t2 should not have been spawned, calls = %v", runner.Calls())
		}
	}
}

func TestRunGroup_Parallel(t *testing.T) {
	t1, t2, t3 := newGroupTask("t1"), newGroupTask("t2"), newGroupTask("t3")
	runner := newFakeRunner(nil)
	sched := New(runner, status.NopSink{}, engine.DefaultConfig())

	sched.RunGroup(context.Background(), []*taskstore.Task{t1, t2, t3}, taskstore.Parallel)

	if len(runner.Calls()) != 3 {
		t.Errorf("RunOne calls = %v, want all three dispatched concurrently", runner.Calls())
	}
	for _, tk := range []*taskstore.Task{t1, t2, t3} {
		if tk.Status() != taskstore.Result(taskstore.Run, taskstore.Passed) {
			t.Errorf("%s = %q, want run passed", tk.Identity.Task, tk.Status())
		}
	}
}

func TestRunGroup_ParallelSkipsAlreadyActive(t *testing.T) {
	t1 := newGroupTask("t1")
	t1.SetStatus(taskstore.StatusRunning)
	t2 := newGroupTask("t2")
	runner := newFakeRunner(nil)
	sched := New(runner, status.NopSink{}, engine.DefaultConfig())

	sched.RunGroup(context.Background(), []*taskstore.Task{t1, t2}, taskstore.Parallel)

	calls := runner.Calls()
	if len(calls) != 1 || calls[0] != "t2" {
		t.Errorf("RunOne calls = %v, want only t2 (t1 already running)", calls)
	}
}
