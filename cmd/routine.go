package cmd

import (
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/manav03panchal/glowtrack/internal/errors"
	"github.com/manav03panchal/glowtrack/internal/output"
	"github.com/manav03panchal/glowtrack/internal/routine"
)

// routineCmd parses routine steps out of assistant text.
var routineCmd = &cobra.Command{
	Use:   "routine [FILE]",
	Short: "Extract routine steps from an assistant reply",
	Long: `Extract morning, evening and weekly routine steps from text.

Reads FILE, or standard input when FILE is omitted or "-". Text without a
routine section is printed unchanged.

Examples:
  glowtrack routine reply.txt
  pbpaste | glowtrack routine
  glowtrack routine reply.txt --format json`,
	Args:        cobra.MaximumNArgs(1),
	Annotations: map[string]string{annotationNoRuntime: "true"},
	RunE:        runRoutine,
}

func init() {
	rootCmd.AddCommand(routineCmd)
}

func runRoutine(cmd *cobra.Command, args []string) error {
	var (
		data []byte
		err  error
	)
	if len(args) == 0 || args[0] == "-" {
		data, err = io.ReadAll(cmd.InOrStdin())
	} else {
		data, err = os.ReadFile(args[0])
	}
	if err != nil {
		if os.IsNotExist(err) {
			return errors.NewUserErrorWithField("file", args[0], "file not found", "Check the path, or pipe the text on standard input.")
		}
		return errors.NewSystemErrorWithOp("read routine text", err.Error(), err)
	}

	result := routine.Parse(string(data))

	if formatter.IsJSON() {
		return output.NewJSONFormatter(formatter).PrintRoutine(result)
	}
	output.NewCLIFormatter(formatter).PrintRoutine(result)
	return nil
}
