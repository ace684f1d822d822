package engine

import (
	"fmt"
	"os"

	"github.com/ifprun/ifprun/status"
	"github.com/ifprun/ifprun/taskstore"
)

// ComposeCD applies the `cd <PATH>; ` prefix policy shared by the Action and
// Run Executors: if PATH is set and exists on disk, prefix `cd <PATH>; `; if
// set but nonexistent, emit a warning and run without cd; if unset, emit a
// warning and run without cd.
func ComposeCD(sink status.Sink, identity taskstore.Identity, path, command string) string {
	if path == "" {
		status.EmitMessage(sink, fmt.Sprintf("%s: no PATH configured, running in the current directory", identity), status.ColorOrange)
		return command
	}
	if _, err := os.Stat(path); err != nil {
		status.EmitMessage(sink, fmt.Sprintf("%s: PATH %q does not exist, running in the current directory", identity, path), status.ColorOrange)
		return command
	}
	return fmt.Sprintf("cd %s; %s", path, command)
}
