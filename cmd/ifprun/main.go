// ifprun drives multi-stage EDA workflows per block: it loads a project's
// YAML description, selects tasks by identity, and dispatches the selected
// stage through the hierarchical execution engine, printing every status-sink
// event to the terminal as it happens.
package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/ifprun/ifprun/config"
	"github.com/ifprun/ifprun/status"
	"github.com/ifprun/ifprun/taskstore"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

// app carries the persistent-flag state shared by every subcommand.
type app struct {
	configPath string
	sel        selectors
	ignoreFail bool
	verbose    bool
}

func newRootCmd() *cobra.Command {
	a := &app{}

	root := &cobra.Command{
		Use:           "ifprun",
		Short:         "hierarchical EDA task runner",
		Long:          "ifprun runs per-task BUILD/RUN/CHECK/SUMMARY/RELEASE stages across a Block/Version/Flow/Vendor/Branch/Task hierarchy, locally or via LSF.",
		SilenceUsage:  true,
		SilenceErrors: false,
	}

	pf := root.PersistentFlags()
	pf.StringVarP(&a.configPath, "config", "c", "", "path to the project YAML file (required)")
	pf.StringVar(&a.sel.Block, "block", "", "select tasks in this block only")
	pf.StringVar(&a.sel.Version, "version", "", "select tasks in this version only")
	pf.StringVar(&a.sel.Flow, "flow", "", "select tasks in this flow only")
	pf.StringVar(&a.sel.Vendor, "vendor", "", "select tasks for this vendor only")
	pf.StringVar(&a.sel.Branch, "branch", "", "select tasks on this branch only")
	pf.StringVar(&a.sel.Task, "task", "", "select this task only")
	pf.BoolVar(&a.ignoreFail, "ignore-fail", false, "keep dispatching downstream tasks and bundles after a failure")
	pf.BoolVarP(&a.verbose, "verbose", "v", false, "enable debug logging to stderr")
	cobra.CheckErr(root.MarkPersistentFlagRequired("config"))

	root.AddCommand(
		newRunCmd(a),
		newStageCmd(a, "build", taskstore.Build),
		newStageCmd(a, "check", taskstore.Check),
		newStageCmd(a, "summary", taskstore.Summary),
		newStageCmd(a, "release", taskstore.Release),
		newViewCmd(a),
	)
	return root
}

func (a *app) logger() *slog.Logger {
	level := slog.LevelInfo
	if a.verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

// load parses the project file and applies the identity selectors.
func (a *app) load() (*taskstore.Store, []*taskstore.Task, error) {
	store, err := config.LoadYAML(a.configPath)
	if err != nil {
		return nil, nil, err
	}
	tasks := selectTasks(store, a.sel)
	if len(tasks) == 0 {
		return nil, nil, fmt.Errorf("no tasks match the given selectors")
	}
	return store, tasks, nil
}

// printEvents renders each status-sink event as one terminal line until the
// sink closes. It runs on its own goroutine so executors never wait on the
// terminal.
func printEvents(w io.Writer, sink status.Sink) {
	for ev := range sink.Events() {
		switch ev.Kind {
		case status.Start:
			fmt.Fprintf(w, "%s  %s\n", ev.Identity, ev.State)
		case status.Finish:
			fmt.Fprintf(w, "%s  -> %s\n", ev.Identity, ev.State)
		case status.SetField:
			fmt.Fprintf(w, "%s  %s=%s\n", ev.Identity, ev.Field, ev.Value)
		case status.Message:
			fmt.Fprintf(w, "[%s] %s\n", ev.Color, ev.Text)
		case status.Done:
			fmt.Fprintln(w, "done")
		}
	}
}
