package taskstore

import "sync"

// Task is the mutable record the engine schedules against. The identity
// fields are immutable after load; Status, Job, and Runtime are written by
// the executor that currently owns the task and read concurrently by the Run
// Executor's kill-reconciliation step and the Kill Orchestrator, so those
// accesses must be atomic with respect to each other. A per-task mutex gives
// us that without reaching for a single global lock across the whole task
// list.
type Task struct {
	Identity Identity
	Actions  map[Stage]Action

	mu      sync.RWMutex
	status  Status
	job     string // "" before first RUN, else "b:<id>" or "l:<pid>"
	runtime *string
}

// NewTask constructs a Task for the given identity and action set.
func NewTask(identity Identity, actions map[Stage]Action) *Task {
	if actions == nil {
		actions = map[Stage]Action{}
	}
	return &Task{Identity: identity, Actions: actions, status: StatusQueued}
}

// Action returns the action record for a stage, and whether the stage is
// defined (has a non-empty Command) for this task.
func (t *Task) Action(stage Stage) (Action, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	a, ok := t.Actions[stage]
	return a, ok && a.Defined()
}

// RawAction returns the action record for a stage as configured, without the
// Defined() gate Action applies — used by the view/report feature, which
// reads Viewer/ReportFile on actions that may carry no Command at all.
func (t *Task) RawAction(stage Stage) (Action, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	a, ok := t.Actions[stage]
	return a, ok
}

// Status returns the task's current lifecycle state.
func (t *Task) Status() Status {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.status
}

// SetStatus writes the task's lifecycle state.
func (t *Task) SetStatus(s Status) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.status = s
}

// CompareAndSetStatus atomically writes `to` iff the current status equals
// `expect`, returning whether the swap happened. This is what lets the Run
// Executor's reconciliation step and the Kill Orchestrator race safely over
// the same task's Status field.
func (t *Task) CompareAndSetStatus(expect, to Status) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.status != expect {
		return false
	}
	t.status = to
	return true
}

// Job returns the tagged job-id string ("b:<id>" or "l:<pid>"), or "" before
// the first RUN.
func (t *Task) Job() string {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.job
}

// SetJob writes the tagged job-id string.
func (t *Task) SetJob(job string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.job = job
}

// Runtime returns the opaque runtime display value: nil before the first RUN,
// else "pending" or "HH:MM:SS".
func (t *Task) Runtime() *string {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.runtime
}

// SetRuntime writes the runtime display value. Pass nil to clear it.
func (t *Task) SetRuntime(runtime *string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.runtime = runtime
}
