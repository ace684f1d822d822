// Package view opens a CHECK or SUMMARY stage's report file in its
// configured viewer — the one operation that reads the action record's
// VIEWER/REPORT_FILE fields.
package view

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/ifprun/ifprun/procrunner"
	"github.com/ifprun/ifprun/status"
	"github.com/ifprun/ifprun/taskstore"
)

// Open runs "<VIEWER> <REPORT_FILE>" fire-and-forget for task's stage
// action, resolving a relative REPORT_FILE against PATH. If VIEWER or
// REPORT_FILE is unset, or the resolved report file does not exist, it emits
// a red diagnostic instead of spawning anything; no result is tracked on the
// task either way, since viewing is observational, not a scheduled stage.
func Open(ctx context.Context, runner procrunner.Runner, sink status.Sink, stage taskstore.Stage, task *taskstore.Task) {
	identity := task.Identity
	act, ok := task.RawAction(stage)
	if !ok || act.Viewer == "" || act.ReportFile == "" {
		status.EmitMessage(sink, fmt.Sprintf("%s: no VIEWER/REPORT_FILE configured for %s", identity, stage), status.ColorRed)
		return
	}

	reportPath := act.ReportFile
	if !filepath.IsAbs(reportPath) && act.Path != "" {
		reportPath = filepath.Join(act.Path, reportPath)
	}
	if _, err := os.Stat(reportPath); err != nil {
		status.EmitMessage(sink, fmt.Sprintf("%s: report file %q does not exist", identity, reportPath), status.ColorRed)
		return
	}

	command := fmt.Sprintf("%s %s", act.Viewer, reportPath)
	if _, err := runner.Spawn(ctx, command, identity.Env(), ""); err != nil {
		status.EmitMessage(sink, fmt.Sprintf("%s: failed to open viewer: %v", identity, err), status.ColorRed)
	}
}
