package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/ifprun/ifprun/engine/action"
	"github.com/ifprun/ifprun/engine/fanout"
	"github.com/ifprun/ifprun/procrunner"
	"github.com/ifprun/ifprun/status"
	"github.com/ifprun/ifprun/taskstore"
)

// newStageCmd builds one of the build/check/summary/release subcommands; they
// differ only in which stage the flat fan-out executes.
func newStageCmd(a *app, use string, stage taskstore.Stage) *cobra.Command {
	return &cobra.Command{
		Use:   use,
		Short: fmt.Sprintf("execute the %s stage across the selected tasks", stage),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runStage(cmd.Context(), stage)
		},
	}
}

func (a *app) runStage(ctx context.Context, stage taskstore.Stage) error {
	_, tasks, err := a.load()
	if err != nil {
		return err
	}
	logger := a.logger()

	sink := status.NewChannelSink(64)
	exec := action.New(procrunner.NewOSRunner(logger), sink, logger)

	printed := make(chan struct{})
	go func() {
		defer close(printed)
		printEvents(os.Stdout, sink)
	}()

	fanout.Stage(ctx, exec, sink, stage, tasks)
	sink.Close()
	<-printed
	return nil
}
