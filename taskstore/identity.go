// Package taskstore implements the engine's data model: task identities,
// action records, the per-task lifecycle state machine, and the read-mostly
// configuration store the scheduler walks.
package taskstore

import "fmt"

// Identity is the 6-tuple that uniquely names a unit of work within one
// invocation: Block, Version, Flow, Vendor, Branch, Task. It is comparable and
// usable as a map key.
type Identity struct {
	Block   string
	Version string
	Flow    string
	Vendor  string
	Branch  string
	Task    string
}

// String renders the identity the way log lines and status messages do.
func (id Identity) String() string {
	return fmt.Sprintf("%s %s %s %s %s %s", id.Block, id.Version, id.Flow, id.Vendor, id.Branch, id.Task)
}

// GroupKey identifies the (Block,Version,Flow,Vendor,Branch) group this
// identity belongs to — the unit the Group Scheduler runs serially or in
// parallel.
func (id Identity) GroupKey() string {
	return fmt.Sprintf("%s.%s.%s.%s.%s", id.Block, id.Version, id.Flow, id.Vendor, id.Branch)
}

// BlockVersionKey identifies the (Block,Version) pipeline the Block-Version
// Fan-out dispatches independently.
func (id Identity) BlockVersionKey() string {
	return fmt.Sprintf("%s:%s", id.Block, id.Version)
}

// Env returns the environment map a child process should receive. The
// identity vars go to the child only; the parent's global environment is
// never mutated, so parallel tasks cannot race on it.
func (id Identity) Env() map[string]string {
	return map[string]string{
		"BLOCK":   id.Block,
		"VERSION": id.Version,
		"FLOW":    id.Flow,
		"VENDOR":  id.Vendor,
		"BRANCH":  id.Branch,
		"TASK":    id.Task,
	}
}
