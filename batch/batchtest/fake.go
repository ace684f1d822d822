// Package batchtest provides a fake batch.Adapter driven by scripted state
// sequences, for engine tests that exercise LSF-tagged job polling without a
// real scheduler.
package batchtest

import (
	"context"
	"fmt"
	"sync"

	"github.com/ifprun/ifprun/batch"
)

// Adapter is a fake batch.Adapter. Each job id is associated with a sequence
// of States; successive Query calls for that job id walk the sequence one
// step at a time and then hold on the last entry.
type Adapter struct {
	mu        sync.Mutex
	sequences map[string][]batch.State
	cursor    map[string]int
	killed    []string

	// SubmitErr, when set, is returned by SubmitJobID for any input.
	SubmitErr error
	nextJobID int
}

// NewAdapter constructs a fake Adapter with no scripted sequences.
func NewAdapter() *Adapter {
	return &Adapter{
		sequences: make(map[string][]batch.State),
		cursor:    make(map[string]int),
	}
}

// Script installs the state sequence returned by successive Query calls for
// jobID.
func (a *Adapter) Script(jobID string, states ...batch.State) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.sequences[jobID] = states
	a.cursor[jobID] = 0
}

// SubmitJobID returns sequential fake job ids ("fake-1", "fake-2", ...),
// ignoring the input line, unless SubmitErr is set.
func (a *Adapter) SubmitJobID(firstStdoutLine string) (string, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.SubmitErr != nil {
		return "", a.SubmitErr
	}
	a.nextJobID++
	return fmt.Sprintf("fake-%d", a.nextJobID), nil
}

func (a *Adapter) Query(ctx context.Context, jobID string) (batch.State, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	states := a.sequences[jobID]
	if len(states) == 0 {
		return batch.Unknown, nil
	}
	i := a.cursor[jobID]
	if i >= len(states) {
		i = len(states) - 1
	} else {
		a.cursor[jobID] = i + 1
	}
	return states[i], nil
}

func (a *Adapter) Kill(ctx context.Context, jobID string) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.killed = append(a.killed, jobID)
	return nil
}

// Killed returns the job ids passed to Kill, in order.
func (a *Adapter) Killed() []string {
	a.mu.Lock()
	defer a.mu.Unlock()
	out := make([]string, len(a.killed))
	copy(out, a.killed)
	return out
}
