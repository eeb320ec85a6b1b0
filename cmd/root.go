// Package cmd provides the CLI commands for glowtrack.
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/manav03panchal/glowtrack/internal/config"
	"github.com/manav03panchal/glowtrack/internal/errors"
	"github.com/manav03panchal/glowtrack/internal/logging"
	"github.com/manav03panchal/glowtrack/internal/output"
	"github.com/manav03panchal/glowtrack/internal/runtime"
	"github.com/manav03panchal/glowtrack/internal/watch"
)

// Version information (set at build time via ldflags).
var (
	Version   = "dev"
	Commit    = "unknown"
	BuildTime = "unknown"
)

// Global flags.
var (
	flagFormat string
	flagColor  string
	flagDebug  bool
	flagConfig string
)

// annotationNoRuntime marks commands that run without opening the database.
const annotationNoRuntime = "glowtrack/no-runtime"

// ctx is the shared runtime context.
var ctx *runtime.Context

// formatter is set for every command, including those without a runtime.
var formatter *output.Formatter

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "glowtrack",
	Short: "Skincare routine reminders from your terminal",
	Long: `glowtrack schedules local reminders for your daily progress photo,
your skincare routine and your progress check-ins, and turns assistant
replies into morning, evening and weekly routine steps.

Examples:
  glowtrack auth request
  glowtrack prefs enable routine
  glowtrack prefs frequency progress monthly
  glowtrack schedule
  glowtrack routine reply.txt
  glowtrack watch`,
	SilenceErrors: true,
	SilenceUsage:  true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// Skip initialization for help (but allow __complete for dynamic completions)
		if cmd.Name() == "help" {
			return nil
		}

		if flagDebug {
			logging.InitDebug()
		}
		cmd.SetContext(logging.NewRequestContext(cmd.Context()))

		format, err := output.ParseFormat(flagFormat)
		if err != nil {
			return err
		}
		colorMode, err := output.ParseColorMode(flagColor)
		if err != nil {
			return err
		}

		formatter = output.NewFormatter()
		formatter.Writer = cmd.OutOrStdout()
		formatter.Format = format
		formatter.ColorMode = colorMode

		if cmd.Annotations[annotationNoRuntime] == "true" {
			return nil
		}

		// Create runtime context
		opts := runtime.DefaultOptions()
		opts.Format = format
		opts.ColorMode = colorMode
		opts.Debug = flagDebug
		opts.Out = cmd.OutOrStdout()
		if flagConfig != "" {
			opts.ConfigPath = flagConfig
		}

		ctx, err = runtime.New(opts)
		if err != nil {
			if pid := watch.NewPIDFile(watch.DefaultPIDPath()).RunningPID(); pid != 0 && pid != os.Getpid() {
				return &errors.UserError{
					Message:    fmt.Sprintf("glowtrack watch (pid %d) is using the database", pid),
					Suggestion: "Stop it with Ctrl+C in its terminal, then run this command again.",
					Cause:      err,
				}
			}
			return err
		}
		ctx.Formatter = formatter
		ctx.Start(cmd.Context())
		return nil
	},
	PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
		if ctx != nil {
			err := ctx.Close()
			ctx = nil
			return err
		}
		return nil
	},
	RunE: runStatus,
}

// runStatus shows the authorization state and the current preferences.
func runStatus(cmd *cobra.Command, args []string) error {
	state := ctx.Engine.CurrentAuthorizationState()
	set := ctx.Engine.LoadPreferences()
	describe := ctx.Engine.Cadence().Describe

	if ctx.IsJSON() {
		return ctx.JSONFormatter().PrintPreferences(set, describe)
	}

	cli := ctx.CLIFormatter()
	cli.PrintAuthStatus(state)
	cli.Println()
	cli.PrintPreferences(set, describe)
	return nil
}

// Execute adds all child commands to the root command and sets flags appropriately.
// Errors are printed before they are returned.
func Execute() error {
	err := rootCmd.Execute()
	if err != nil {
		printError(err)
	}
	// PersistentPostRunE is skipped when a command fails.
	if ctx != nil {
		if cerr := ctx.Close(); cerr != nil {
			logging.Warn("close database", logging.KeyError, cerr)
		}
		ctx = nil
	}
	return err
}

func init() {
	// Global flags
	rootCmd.PersistentFlags().StringVarP(&flagFormat, "format", "f", "cli",
		"Output format: cli, json, plain")
	rootCmd.PersistentFlags().StringVar(&flagColor, "color", "auto",
		"Color output: auto, always, never")
	rootCmd.PersistentFlags().BoolVar(&flagDebug, "debug", false,
		"Enable debug output")
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "",
		"Config file (default "+config.DefaultPath()+")")

	// Add commands
	rootCmd.AddCommand(versionCmd)
}

// versionCmd shows version information.
var versionCmd = &cobra.Command{
	Use:         "version",
	Short:       "Print version information",
	Annotations: map[string]string{annotationNoRuntime: "true"},
	Run: func(cmd *cobra.Command, args []string) {
		cmd.Printf("glowtrack %s\n", Version)
		cmd.Printf("  commit: %s\n", Commit)
		cmd.Printf("  built: %s\n", BuildTime)
	},
}

// printError prints an error with its suggestion, as JSON when requested.
func printError(err error) {
	if formatter != nil && formatter.IsJSON() {
		json := output.NewJSONFormatter(formatter)
		if jerr := json.PrintError("error", err.Error(), runtime.FormatError(err), runtime.GetSuggestion(err)); jerr == nil {
			return
		}
	}
	os.Stderr.WriteString("Error: " + runtime.FormatError(err) + "\n")
}
