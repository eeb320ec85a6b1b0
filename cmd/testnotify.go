package cmd

import (
	"github.com/spf13/cobra"

	"github.com/manav03panchal/glowtrack/internal/model"
)

// testCmd sends a test notification.
var testCmd = &cobra.Command{
	Use:   "test CATEGORY",
	Short: "Send a test notification right away",
	Long: `Send a test notification for a category right away.

Notifications must already be authorized; this command never asks.

Examples:
  glowtrack test photo
  glowtrack test routine`,
	Args:              cobra.ExactArgs(1),
	ValidArgsFunction: completeCategoryArg,
	RunE:              runTest,
}

func init() {
	rootCmd.AddCommand(testCmd)
}

func runTest(cmd *cobra.Command, args []string) error {
	c, err := model.ParseCategory(args[0])
	if err != nil {
		return err
	}

	if err := ctx.Engine.SendTestNotification(cmd.Context(), c); err != nil {
		return err
	}

	if ctx.IsJSON() {
		return ctx.JSONFormatter().PrintSent(c)
	}
	if !ctx.IsCLI() {
		return nil
	}
	ctx.CLIFormatter().Success("Test notification sent")
	return nil
}
