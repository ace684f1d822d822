package taskstore

import "fmt"

// RunType is the intra-group execution policy: serial (sequential with
// gating) or parallel (all at once).
type RunType string

const (
	Serial   RunType = "serial"
	Parallel RunType = "parallel"
)

// Store is the read-mostly configuration store. It is populated once (by
// config.LoadYAML or directly by tests) and then only Status/Job/Runtime on
// individual Tasks are mutated during execution.
type Store struct {
	tasks map[Identity]*Task

	// order records the identities in AddTask insertion order, so Tasks()
	// and therefore the task slices the engine groups by GroupKey() preserve
	// a group's declared task order. Serial gating iterates in that order.
	order []Identity

	// runOrder maps "Block:Version" to its ordered sequence of flow bundles;
	// each bundle is the set of flow names that run in parallel within it.
	runOrder map[string][][]string

	// runType maps "Block.Version.Flow.Vendor.Branch" to its RunType.
	runType map[string]RunType
}

// NewStore constructs an empty store; use AddTask/SetRunOrder/SetRunType to
// populate it, or config.LoadYAML to build one from a project file.
func NewStore() *Store {
	return &Store{
		tasks:    map[Identity]*Task{},
		runOrder: map[string][][]string{},
		runType:  map[string]RunType{},
	}
}

// AddTask registers a task in the store.
func (s *Store) AddTask(t *Task) {
	if _, exists := s.tasks[t.Identity]; !exists {
		s.order = append(s.order, t.Identity)
	}
	s.tasks[t.Identity] = t
}

// Lookup resolves a task record by identity.
func (s *Store) Lookup(id Identity) (*Task, bool) {
	t, ok := s.tasks[id]
	return t, ok
}

// Tasks returns every task currently registered, in AddTask insertion order.
func (s *Store) Tasks() []*Task {
	out := make([]*Task, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, s.tasks[id])
	}
	return out
}

// SetRunOrder registers RUN_ORDER[block:version]: the ordered flow bundles
// for that (Block,Version) pipeline.
func (s *Store) SetRunOrder(block, version string, bundles [][]string) {
	s.runOrder[fmt.Sprintf("%s:%s", block, version)] = bundles
}

// RunOrder resolves RUN_ORDER[block:version].
func (s *Store) RunOrder(block, version string) [][]string {
	return s.runOrder[fmt.Sprintf("%s:%s", block, version)]
}

// SetRunType registers RUN_TYPE[block.version.flow.vendor.branch].
func (s *Store) SetRunType(block, version, flow, vendor, branch string, rt RunType) {
	key := fmt.Sprintf("%s.%s.%s.%s.%s", block, version, flow, vendor, branch)
	s.runType[key] = rt
}

// RunType resolves RUN_TYPE[block.version.flow.vendor.branch], defaulting to
// Parallel if unset; serial is the behavior that must be opted into.
func (s *Store) RunType(block, version, flow, vendor, branch string) RunType {
	key := fmt.Sprintf("%s.%s.%s.%s.%s", block, version, flow, vendor, branch)
	if rt, ok := s.runType[key]; ok {
		return rt
	}
	return Parallel
}

// BlockVersions returns the distinct (Block,Version) pairs present among the
// given tasks, in first-seen order — the set the Block-Version Fan-out
// dispatches one worker per pair for.
func BlockVersions(tasks []*Task) []struct{ Block, Version string } {
	seen := map[string]bool{}
	var out []struct{ Block, Version string }
	for _, t := range tasks {
		key := t.Identity.BlockVersionKey()
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, struct{ Block, Version string }{t.Identity.Block, t.Identity.Version})
	}
	return out
}
