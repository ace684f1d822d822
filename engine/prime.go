package engine

import (
	"github.com/ifprun/ifprun/status"
	"github.com/ifprun/ifprun/taskstore"
)

// PrimeQueued sets every task not currently running/killing to queued and
// broadcasts that fact on the status sink before any fan-out begins, so a
// sink observer knows which tasks were chosen for the run before the first
// real start/finish event — possibly seconds later — arrives from a flow
// bundle.
func PrimeQueued(tasks []*taskstore.Task, sink status.Sink) {
	for _, t := range tasks {
		if t.Status().IsActive() {
			continue
		}
		t.SetStatus(taskstore.StatusQueued)
		status.EmitStart(sink, t.Identity, taskstore.StatusQueued)
		t.SetRuntime(nil)
		status.EmitSetField(sink, t.Identity, status.FieldRuntime, "")
	}
}
