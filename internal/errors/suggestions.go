package errors

import "errors"

// Suggestions maps common errors to helpful suggestions.
var Suggestions = map[error]string{
	ErrNotAuthorized:      "Run 'glowtrack auth request' to allow notifications, or enable them in system settings if previously denied.",
	ErrDeliveryFailed:     "The notification could not be handed off. Try again in a moment.",
	ErrStorageUnavailable: "Your change is kept in memory and will be saved on the next change.",
	ErrDiskFull:           "Free up disk space; preferences are kept in memory until the next successful save.",
	ErrUnknownCategory:    "Use one of: daily_photo, routine, progress.",
	ErrUnknownFrequency:   "Use one of: daily, weekly, monthly, never.",
	ErrInvalidTimestamp:   "Try formats like 'tomorrow 10am', 'in 2 hours', or '2026-01-05 08:00'.",
	ErrPromptUnavailable:  "No terminal is attached. Re-run with --yes or --no to answer the consent prompt.",
	ErrDatabaseCorrupted:  "Move the data directory (~/.local/share/glowtrack/) aside and start again.",
	ErrPermissionDenied:   "Check file permissions in your data directory (~/.local/share/glowtrack/).",
	ErrInvalidConfig:      "Check ~/.config/glowtrack/config.yaml and GLOWTRACK_* environment variables.",
}

// GetSuggestion returns a suggestion for an error, if available.
// It walks the error chain to find matching suggestions.
func GetSuggestion(err error) string {
	if err == nil {
		return ""
	}

	if ue, ok := AsUserError(err); ok && ue.Suggestion != "" {
		return ue.Suggestion
	}

	for knownErr, suggestion := range Suggestions {
		if errors.Is(err, knownErr) {
			return suggestion
		}
	}

	return ""
}
