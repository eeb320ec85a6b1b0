// glowtrack schedules skincare routine reminders from the terminal.
package main

import (
	"os"

	"github.com/manav03panchal/glowtrack/cmd"
	"github.com/manav03panchal/glowtrack/internal/runtime"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(runtime.ExitCode(err))
	}
}
