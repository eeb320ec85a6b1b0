package errors

import (
	"errors"
	"syscall"
)

// Category represents the type of error for display and handling purposes.
type Category int

const (
	// CategoryUnknown is the default for unclassified errors.
	CategoryUnknown Category = iota
	// CategoryUser indicates an error the user can fix (bad input, missing args).
	CategoryUser
	// CategorySystem indicates a system-level error (disk full, storage revoked).
	CategorySystem
	// CategoryRecoverable indicates an error that can be retried.
	CategoryRecoverable
	// CategoryAuthorization indicates the user must (re)grant notification permission.
	CategoryAuthorization
)

// String returns the string representation of the category.
func (c Category) String() string {
	switch c {
	case CategoryUser:
		return "user"
	case CategorySystem:
		return "system"
	case CategoryRecoverable:
		return "recoverable"
	case CategoryAuthorization:
		return "authorization"
	default:
		return "unknown"
	}
}

// Classify determines the category of an error.
func Classify(err error) Category {
	if err == nil {
		return CategoryUnknown
	}

	if errors.Is(err, ErrNotAuthorized) {
		return CategoryAuthorization
	}
	if IsUserError(err) {
		return CategoryUser
	}
	if IsSystemError(err) {
		return CategorySystem
	}
	// A failed delivery may be retried; a failed persist is retried lazily on the
	// next mutation.
	if IsRecoverableError(err) || errors.Is(err, ErrDeliveryFailed) || errors.Is(err, ErrStorageUnavailable) {
		return CategoryRecoverable
	}
	if isSystemLevel(err) {
		return CategorySystem
	}
	return CategoryUnknown
}

func isSystemLevel(err error) bool {
	var errno syscall.Errno
	if errors.As(err, &errno) {
		switch errno {
		case syscall.ENOSPC, syscall.EACCES, syscall.EPERM, syscall.EIO, syscall.EROFS:
			return true
		}
	}

	return errors.Is(err, ErrDiskFull) ||
		errors.Is(err, ErrDatabaseCorrupted) ||
		errors.Is(err, ErrPermissionDenied)
}

// IsRecoverableCategory returns true if the error can be retried.
func IsRecoverableCategory(err error) bool {
	return Classify(err) == CategoryRecoverable
}

// FormatByCategory returns a user-appropriate error message based on category.
func FormatByCategory(err error) string {
	if err == nil {
		return ""
	}

	msg := err.Error()
	suggestion := GetSuggestion(err)

	switch Classify(err) {
	case CategoryUser, CategoryAuthorization:
		if suggestion != "" {
			return msg + "\n\nTry: " + suggestion
		}
		return msg
	case CategorySystem:
		if suggestion != "" {
			return "System error: " + msg + "\n\n" + suggestion
		}
		return "System error: " + msg
	case CategoryRecoverable:
		if suggestion != "" {
			return msg + "\n\n" + suggestion
		}
		return msg
	default:
		return msg
	}
}
