package runtime

import (
	"github.com/manav03panchal/glowtrack/internal/errors"
)

// Exit codes by error category.
const (
	ExitOK            = 0
	ExitFailure       = 1
	ExitUsage         = 2
	ExitNotAuthorized = 3
	ExitUnavailable   = 4
)

// ExitCode maps an error onto the process exit code.
func ExitCode(err error) int {
	if err == nil {
		return ExitOK
	}
	switch errors.Classify(err) {
	case errors.CategoryUser:
		return ExitUsage
	case errors.CategoryAuthorization:
		return ExitNotAuthorized
	case errors.CategoryRecoverable:
		return ExitUnavailable
	default:
		return ExitFailure
	}
}

// GetSuggestion returns a suggestion for an error, if available.
func GetSuggestion(err error) string {
	return errors.GetSuggestion(err)
}

// FormatError formats an error with its category-specific suggestion.
func FormatError(err error) string {
	return errors.FormatByCategory(err)
}
