package main

import "github.com/ifprun/ifprun/taskstore"

// selectors narrows a store's task list down to the ones a CLI invocation
// targets. An empty field matches every value for that field — e.g. leaving
// Flow empty selects every flow within the matching blocks/versions.
type selectors struct {
	Block, Version, Flow, Vendor, Branch, Task string
}

func (s selectors) match(id taskstore.Identity) bool {
	return (s.Block == "" || s.Block == id.Block) &&
		(s.Version == "" || s.Version == id.Version) &&
		(s.Flow == "" || s.Flow == id.Flow) &&
		(s.Vendor == "" || s.Vendor == id.Vendor) &&
		(s.Branch == "" || s.Branch == id.Branch) &&
		(s.Task == "" || s.Task == id.Task)
}

// selectTasks returns the tasks in store, in the store's declared order,
// whose identity matches every non-empty selector field.
func selectTasks(store *taskstore.Store, s selectors) []*taskstore.Task {
	var out []*taskstore.Task
	for _, t := range store.Tasks() {
		if s.match(t.Identity) {
			out = append(out, t)
		}
	}
	return out
}
