package cmd

import (
	"time"

	"github.com/spf13/cobra"

	"github.com/manav03panchal/glowtrack/internal/errors"
	"github.com/manav03panchal/glowtrack/internal/model"
	"github.com/manav03panchal/glowtrack/internal/parser"
)

// Schedule command flags.
var scheduleFlagAt string

// scheduleCmd reconciles and lists pending reminders.
var scheduleCmd = &cobra.Command{
	Use:     "schedule",
	Aliases: []string{"sched", "pending"},
	Short:   "Bring reminders in line with your preferences and list them",
	Long: `Reconcile scheduled reminders with your preferences and list the
pending ones.

With --at, nothing is changed: the reminders that would be scheduled at
that moment are listed instead.

Examples:
  glowtrack schedule
  glowtrack schedule --at "next monday"
  glowtrack schedule --at +2d`,
	Args: cobra.NoArgs,
	RunE: runSchedule,
}

func init() {
	scheduleCmd.Flags().StringVar(&scheduleFlagAt, "at", "", "Preview the schedule as of this time")
	rootCmd.AddCommand(scheduleCmd)
}

func runSchedule(cmd *cobra.Command, args []string) error {
	if scheduleFlagAt != "" {
		return runSchedulePreview(scheduleFlagAt)
	}

	report := ctx.Engine.Reconcile(cmd.Context())
	pending, err := ctx.Engine.Pending(cmd.Context())
	if err != nil {
		return err
	}

	if ctx.IsJSON() {
		if err := ctx.JSONFormatter().PrintReport(report); err != nil {
			return err
		}
		return report.Err()
	}

	cli := ctx.CLIFormatter()
	cli.PrintReport(report)
	cli.Println()
	cli.PrintDeliveries(pending, report.At)
	return report.Err()
}

// runSchedulePreview lists the deliveries a reconcile at the given time
// would want, without touching the ledger.
func runSchedulePreview(at string) error {
	when, err := parser.ParseWhen(at, time.Now())
	if err != nil {
		var tpe *parser.TimeParseError
		if errors.As(err, &tpe) {
			return tpe.UserError()
		}
		return err
	}

	cadence := ctx.Engine.Cadence()
	set := ctx.Engine.LoadPreferences()

	var preview []model.ScheduledDelivery
	for _, c := range model.AllCategories() {
		s := set.Get(c)
		if !s.Active() {
			continue
		}
		if next, ok := cadence.Next(s.Frequency, when); ok {
			preview = append(preview, model.NewScheduledDelivery(c, next))
		}
	}

	if ctx.IsJSON() {
		return ctx.JSONFormatter().PrintDeliveries(preview, when)
	}

	cli := ctx.CLIFormatter()
	cli.Muted("As of " + when.Format("Mon 2006-01-02 15:04"))
	if state := ctx.Engine.CurrentAuthorizationState(); state != model.Authorized {
		cli.Warning("Notifications are not authorized; none of these would be scheduled.")
	}
	cli.PrintDeliveries(preview, when)
	return nil
}
