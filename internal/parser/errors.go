package parser

import (
	"fmt"
	"strings"

	"github.com/manav03panchal/glowtrack/internal/errors"
)

// TimeParseError represents a time parsing error with helpful suggestions.
type TimeParseError struct {
	Input    string
	Field    string
	Message  string
	Examples []string
}

func (e *TimeParseError) Error() string {
	return fmt.Sprintf("invalid %s '%s': %s", e.Field, e.Input, e.Message)
}

// Unwrap lets callers match errors.ErrInvalidTimestamp.
func (e *TimeParseError) Unwrap() error {
	return errors.ErrInvalidTimestamp
}

// NewTimeParseError creates a new time parse error with examples.
func NewTimeParseError(field, input, message string, examples ...string) *TimeParseError {
	return &TimeParseError{
		Input:    input,
		Field:    field,
		Message:  message,
		Examples: examples,
	}
}

// FormatWithExamples returns the error message with example suggestions.
func (e *TimeParseError) FormatWithExamples() string {
	var sb strings.Builder
	sb.WriteString(e.Error())

	if len(e.Examples) > 0 {
		sb.WriteString("\n\nValid examples:\n")
		for _, ex := range e.Examples {
			sb.WriteString("  - ")
			sb.WriteString(ex)
			sb.WriteString("\n")
		}
	}

	return sb.String()
}

// UserError converts e into a UserError whose suggestion lists the examples.
func (e *TimeParseError) UserError() *errors.UserError {
	ue := errors.NewUserErrorWithField(e.Field, e.Input, "invalid "+e.Field, "Try: "+strings.Join(e.Examples, ", "))
	ue.Cause = e
	return ue
}

// WhenExamples provides example --at formats.
var WhenExamples = []string{
	"now",
	"+2d",
	"tomorrow 9am",
	"next monday",
	"next month",
	"2026-11-01 08:30",
}
