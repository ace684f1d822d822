// Package status implements the engine's status sink: the single channel through
// which the scheduler reports task lifecycle transitions and diagnostic messages
// to external observers (a GUI, a CLI printer, a test harness).
package status

import (
	"time"

	"github.com/ifprun/ifprun/taskstore"
)

// Kind identifies the shape of an Event: start, finish, set_field, message,
// plus a per-orchestration done.
type Kind int

const (
	Start Kind = iota
	Finish
	SetField
	Message
	Done
)

func (k Kind) String() string {
	switch k {
	case Start:
		return "start"
	case Finish:
		return "finish"
	case SetField:
		return "set_field"
	case Message:
		return "message"
	case Done:
		return "done"
	default:
		return "unknown"
	}
}

// Field identifies which task-record field a SetField event updates.
type Field string

const (
	FieldJob     Field = "Job"
	FieldRuntime Field = "Runtime"
)

// Color classifies a Message event's severity for consumers that color-code
// log lines.
type Color string

const (
	ColorBlack  Color = "black"
	ColorOrange Color = "orange"
	ColorRed    Color = "red"
)

// Event is one item emitted on the status sink. Only the fields relevant to
// Kind are populated; the rest are zero.
type Event struct {
	Kind      Kind
	Timestamp time.Time

	// Start / Finish / SetField carry Identity.
	Identity taskstore.Identity

	// Start carries State (the gerund/active lifecycle state being entered).
	// Finish carries State as the terminal result.
	State taskstore.Status

	// SetField carries Field/Value.
	Field Field
	Value string

	// Message carries Text/Color.
	Text  string
	Color Color
}
