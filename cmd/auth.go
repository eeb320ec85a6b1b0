package cmd

import (
	"github.com/spf13/cobra"

	"github.com/manav03panchal/glowtrack/internal/logging"
	"github.com/manav03panchal/glowtrack/internal/model"
	"github.com/manav03panchal/glowtrack/internal/platform"
)

// Auth command flags.
var (
	authStatusFlagRefresh bool
	authRequestFlagYes    bool
	authRequestFlagNo     bool
)

// authCmd represents the auth command.
var authCmd = &cobra.Command{
	Use:   "auth [command]",
	Short: "Manage notification permission",
	Long: `Show, request or reset permission to deliver notifications.

Reminders are only scheduled while notifications are authorized. A denied
request is never asked again; use 'glowtrack auth reset' to be asked again.

Examples:
  glowtrack auth
  glowtrack auth request
  glowtrack auth request --yes
  glowtrack auth reset`,
	RunE: runAuthStatus,
}

// authStatusCmd shows the authorization state.
var authStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the notification permission",
	Args:  cobra.NoArgs,
	RunE:  runAuthStatus,
}

// authRequestCmd asks for permission.
var authRequestCmd = &cobra.Command{
	Use:   "request",
	Short: "Ask for permission to deliver notifications",
	Long: `Ask for permission to deliver notifications.

The question is asked at most once. Without a terminal, answer it with
--yes or --no.`,
	Args: cobra.NoArgs,
	RunE: runAuthRequest,
}

// authResetCmd forgets the stored answer.
var authResetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Forget the stored answer so the question is asked again",
	Args:  cobra.NoArgs,
	RunE:  runAuthReset,
}

func init() {
	authStatusCmd.Flags().BoolVar(&authStatusFlagRefresh, "refresh", false, "Re-read the stored permission and reconcile reminders")
	authRequestCmd.Flags().BoolVarP(&authRequestFlagYes, "yes", "y", false, "Grant permission without prompting")
	authRequestCmd.Flags().BoolVarP(&authRequestFlagNo, "no", "n", false, "Deny permission without prompting")
	authRequestCmd.MarkFlagsMutuallyExclusive("yes", "no")

	authCmd.AddCommand(authStatusCmd)
	authCmd.AddCommand(authRequestCmd)
	authCmd.AddCommand(authResetCmd)
	rootCmd.AddCommand(authCmd)
}

func runAuthStatus(cmd *cobra.Command, args []string) error {
	if !authStatusFlagRefresh {
		return printAuth(ctx.Engine.CurrentAuthorizationState(), nil)
	}

	state, err := ctx.Engine.RefreshAuthorization(cmd.Context())
	if err != nil {
		return err
	}
	report := ctx.Engine.Reconcile(cmd.Context())
	if ctx.IsJSON() {
		return ctx.JSONFormatter().PrintReport(report)
	}
	cli := ctx.CLIFormatter()
	cli.PrintAuthStatus(state)
	cli.Println()
	cli.PrintReport(report)
	return report.Err()
}

func runAuthRequest(cmd *cobra.Command, args []string) error {
	switch {
	case authRequestFlagYes:
		ctx.Permission.SetPrompter(platform.StaticPrompter(true))
	case authRequestFlagNo:
		ctx.Permission.SetPrompter(platform.StaticPrompter(false))
	}

	granted, err := ctx.Engine.RequestAuthorization(cmd.Context())
	if err != nil {
		return err
	}
	logging.InfoContext(cmd.Context(), "authorization requested", "granted", granted)
	return printAuth(ctx.Engine.CurrentAuthorizationState(), &granted)
}

func runAuthReset(cmd *cobra.Command, args []string) error {
	if err := ctx.Permission.Reset(cmd.Context()); err != nil {
		return err
	}
	// Moving out of Authorized cancels pending reminders.
	state, err := ctx.Engine.RefreshAuthorization(cmd.Context())
	if err != nil {
		return err
	}
	return printAuth(state, nil)
}

func printAuth(state model.AuthorizationState, granted *bool) error {
	if ctx.IsJSON() {
		return ctx.JSONFormatter().PrintAuth(state, granted)
	}
	ctx.CLIFormatter().PrintAuthStatus(state)
	return nil
}
