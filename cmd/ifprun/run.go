package main

import (
	"context"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"github.com/ifprun/ifprun/batch"
	"github.com/ifprun/ifprun/engine"
	"github.com/ifprun/ifprun/engine/fanout"
	"github.com/ifprun/ifprun/engine/flow"
	"github.com/ifprun/ifprun/engine/group"
	"github.com/ifprun/ifprun/engine/kill"
	"github.com/ifprun/ifprun/engine/run"
	"github.com/ifprun/ifprun/procrunner"
	"github.com/ifprun/ifprun/status"
)

func newRunCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "run",
		Short: "execute the RUN stage across the selected tasks",
		Long:  "run dispatches the selected tasks through the full scheduler hierarchy: one pipeline per (Block,Version), flow bundles in declared order, serial or parallel groups within each flow. Ctrl-C kills the running tasks instead of abandoning them.",
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runRun(cmd.Context())
		},
	}
}

func (a *app) runRun(ctx context.Context) error {
	store, tasks, err := a.load()
	if err != nil {
		return err
	}
	logger := a.logger()

	sink := status.NewChannelSink(64)
	runner := procrunner.NewOSRunner(logger)
	adapter := batch.NewLSFAdapter()

	cfg := engine.DefaultConfig()
	cfg.IgnoreFail = a.ignoreFail

	runExec := run.New(runner, adapter, sink)
	runExec.Config = cfg
	runExec.Logger = logger
	groupSched := group.New(runExec, sink, cfg)
	flowSched := flow.New(groupSched, store, sink, cfg)

	// Ctrl-C triggers the Kill Orchestrator over the selection; the Run
	// Executors then observe killing/killed at their reconciliation points.
	// The scheduler keeps running on the parent ctx so the kill-confirmation
	// polls are not themselves aborted by the signal.
	sigCtx, stop := signal.NotifyContext(ctx, os.Interrupt)
	defer stop()
	killer := kill.New(runner, adapter, sink)
	go func() {
		<-sigCtx.Done()
		if ctx.Err() == nil {
			killer.Kill(context.Background(), tasks)
		}
	}()

	printed := make(chan struct{})
	go func() {
		defer close(printed)
		printEvents(os.Stdout, sink)
	}()

	fanout.Run(ctx, flowSched, store, sink, tasks)
	sink.Close()
	<-printed
	return nil
}
