package cmd

import (
	"github.com/spf13/cobra"

	"github.com/manav03panchal/glowtrack/internal/logging"
	"github.com/manav03panchal/glowtrack/internal/watch"
)

// watchCmd runs the delivery loop in the foreground.
var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Deliver reminders as they come due",
	Long: `Run in the foreground, delivering reminders as they come due and
scheduling the next occurrence.

Changes to the config file are picked up without a restart. Stop with
Ctrl+C. While watch runs it holds the database. Other glowtrack
commands that need it fail right away and name the watch process.
The routine, version and completion commands still work.`,
	Args: cobra.NoArgs,
	RunE: runWatch,
}

func init() {
	rootCmd.AddCommand(watchCmd)
}

func runWatch(cmd *cobra.Command, args []string) error {
	pidFile := watch.NewPIDFile(watch.DefaultPIDPath())
	if err := pidFile.Acquire(); err != nil {
		return err
	}
	defer func() {
		if err := pidFile.Release(); err != nil {
			logging.Warn("release pid file", logging.KeyPath, pidFile.Path(), logging.KeyError, err)
		}
	}()

	handler := watch.NewSignalHandler()
	runCtx, stop := handler.Context(cmd.Context())
	defer stop()

	loop := watch.New(ctx.Engine, ctx.Delivery, watch.Options{
		TickSpec:       ctx.Config.Watch.TickSpec,
		SleepThreshold: ctx.Config.Watch.SleepThreshold,
		ConfigPath:     ctx.ConfigPath,
	})

	if ctx.IsCLI() {
		cli := ctx.CLIFormatter()
		cli.Title("glowtrack is watching for reminders")
		cli.PrintAuthStatus(ctx.Engine.CurrentAuthorizationState())
		cli.Muted("Press Ctrl+C to stop.")
	}

	err := loop.Run(runCtx)
	logging.InfoContext(cmd.Context(), "watch stopped", logging.KeyCount, loop.Ticks())
	return err
}
