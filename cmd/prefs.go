package cmd

import (
	"github.com/spf13/cobra"

	"github.com/manav03panchal/glowtrack/internal/engine"
	"github.com/manav03panchal/glowtrack/internal/errors"
	"github.com/manav03panchal/glowtrack/internal/model"
)

// prefsCmd represents the prefs command.
var prefsCmd = &cobra.Command{
	Use:     "prefs",
	Aliases: []string{"p", "preferences"},
	Short:   "Show or change notification preferences",
	Long: `Show or change which reminders glowtrack schedules and how often.

Categories: daily_photo, routine, progress
Frequencies: daily, weekly, monthly, never

Examples:
  glowtrack prefs
  glowtrack prefs enable routine
  glowtrack prefs disable photo
  glowtrack prefs frequency progress monthly`,
	Args: cobra.NoArgs,
	RunE: runPrefsShow,
}

// prefsEnableCmd turns a category on.
var prefsEnableCmd = &cobra.Command{
	Use:               "enable CATEGORY",
	Aliases:           []string{"on"},
	Short:             "Turn a reminder category on",
	Args:              cobra.ExactArgs(1),
	ValidArgsFunction: completeCategoryArg,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runPrefsToggle(cmd, args[0], true)
	},
}

// prefsDisableCmd turns a category off.
var prefsDisableCmd = &cobra.Command{
	Use:               "disable CATEGORY",
	Aliases:           []string{"off"},
	Short:             "Turn a reminder category off",
	Args:              cobra.ExactArgs(1),
	ValidArgsFunction: completeCategoryArg,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runPrefsToggle(cmd, args[0], false)
	},
}

// prefsFrequencyCmd changes how often a category fires.
var prefsFrequencyCmd = &cobra.Command{
	Use:               "frequency CATEGORY FREQUENCY",
	Aliases:           []string{"freq"},
	Short:             "Change how often a reminder fires",
	Args:              cobra.ExactArgs(2),
	ValidArgsFunction: completeFrequencyArgs,
	RunE:              runPrefsFrequency,
}

func init() {
	prefsCmd.AddCommand(prefsEnableCmd)
	prefsCmd.AddCommand(prefsDisableCmd)
	prefsCmd.AddCommand(prefsFrequencyCmd)
	rootCmd.AddCommand(prefsCmd)
}

func runPrefsShow(cmd *cobra.Command, args []string) error {
	set := ctx.Engine.LoadPreferences()
	describe := ctx.Engine.Cadence().Describe

	if ctx.IsJSON() {
		return ctx.JSONFormatter().PrintPreferences(set, describe)
	}
	ctx.CLIFormatter().PrintPreferences(set, describe)
	return nil
}

func runPrefsToggle(cmd *cobra.Command, arg string, enabled bool) error {
	c, err := model.ParseCategory(arg)
	if err != nil {
		return err
	}

	change, err := ctx.Engine.SetCategoryEnabled(cmd.Context(), c, enabled)
	return printChange(c, change, err)
}

func runPrefsFrequency(cmd *cobra.Command, args []string) error {
	c, err := model.ParseCategory(args[0])
	if err != nil {
		return err
	}
	f, err := model.ParseFrequency(args[1])
	if err != nil {
		return err
	}

	change, err := ctx.Engine.SetCategoryFrequency(cmd.Context(), c, f)
	return printChange(c, change, err)
}

// printChange reports a mutation. A failed save still produced a change, so
// it is printed and the command succeeds.
func printChange(c model.Category, change *engine.Change, err error) error {
	if change == nil {
		return err
	}
	if err != nil && !errors.Is(err, errors.ErrStorageUnavailable) {
		return err
	}

	describe := ctx.Engine.Cadence().Describe
	if ctx.IsJSON() {
		return ctx.JSONFormatter().PrintChange(change, describe)
	}
	ctx.CLIFormatter().PrintChange(c, change, describe)
	return nil
}
