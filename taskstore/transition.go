package taskstore

// ValidTransition reports whether moving a task's Status from `from` to `to`
// is consistent with the lifecycle state machine. It does not gate writes
// (the executor that owns a task is trusted to write its own terminal
// status) — it exists so tests can assert the engine never produces an
// illegal transition.
func ValidTransition(from, to Status) bool {
	if from == to {
		return true
	}

	switch from {
	case StatusKilling:
		// A task that enters killing leaves only via killed; a natural
		// run <outcome> arriving afterwards is overwritten to killed.
		return to == StatusKilled
	case StatusKilled, StatusCancelled:
		// Terminal states for this invocation; a fresh run (re-invocation)
		// starts a task back at queued.
		return to == StatusQueued
	default:
		return true
	}
}
