package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ifprun/ifprun/engine/view"
	"github.com/ifprun/ifprun/procrunner"
	"github.com/ifprun/ifprun/status"
	"github.com/ifprun/ifprun/taskstore"
)

func newViewCmd(a *app) *cobra.Command {
	var stageName string
	cmd := &cobra.Command{
		Use:   "view",
		Short: "open the configured viewer on each selected task's report file",
		RunE: func(cmd *cobra.Command, args []string) error {
			var stage taskstore.Stage
			switch strings.ToUpper(stageName) {
			case string(taskstore.Check):
				stage = taskstore.Check
			case string(taskstore.Summary):
				stage = taskstore.Summary
			default:
				return fmt.Errorf("--stage must be CHECK or SUMMARY, got %q", stageName)
			}

			_, tasks, err := a.load()
			if err != nil {
				return err
			}
			logger := a.logger()

			sink := status.NewChannelSink(64)
			runner := procrunner.NewOSRunner(logger)

			printed := make(chan struct{})
			go func() {
				defer close(printed)
				printEvents(os.Stdout, sink)
			}()

			for _, t := range tasks {
				view.Open(cmd.Context(), runner, sink, stage, t)
			}
			sink.Close()
			<-printed
			return nil
		},
	}
	cmd.Flags().StringVar(&stageName, "stage", "CHECK", "stage whose report to open (CHECK or SUMMARY)")
	return cmd
}
