// Package errors provides consistent error types for glowtrack.
// It defines three main categories: UserError (fixable by user), SystemError (system issues),
// and RecoverableError (can be automatically retried), plus the engine's own
// PersistError and DispatchError.
package errors

import (
	"errors"
	"fmt"
)

// Standard sentinel errors for common conditions.
var (
	ErrNotAuthorized      = errors.New("notifications not authorized")
	ErrDeliveryFailed     = errors.New("notification delivery failed")
	ErrStorageUnavailable = errors.New("storage unavailable")
	ErrDiskFull           = errors.New("disk full")
	ErrUnknownCategory    = errors.New("unknown notification category")
	ErrUnknownFrequency   = errors.New("unknown frequency")
	ErrInvalidTimestamp   = errors.New("invalid timestamp")
	ErrPromptUnavailable  = errors.New("consent prompt unavailable")
	ErrDatabaseCorrupted  = errors.New("database corrupted")
	ErrPermissionDenied   = errors.New("permission denied")
	ErrInvalidConfig      = errors.New("invalid configuration")
)

// UserError represents an error that the user can fix.
type UserError struct {
	Message    string // What happened
	Suggestion string // How to fix it
	Field      string // The field/input that caused the error (optional)
	Value      string // The invalid value (optional)
	Cause      error
}

func (e *UserError) Error() string {
	if e.Field != "" && e.Value != "" {
		return fmt.Sprintf("%s: '%s'", e.Message, e.Value)
	}
	return e.Message
}

func (e *UserError) Unwrap() error {
	return e.Cause
}

// NewUserError creates a new UserError.
func NewUserError(message, suggestion string) *UserError {
	return &UserError{
		Message:    message,
		Suggestion: suggestion,
	}
}

// NewUserErrorWithField creates a new UserError with field context.
func NewUserErrorWithField(field, value, message, suggestion string) *UserError {
	return &UserError{
		Message:    message,
		Field:      field,
		Value:      value,
		Suggestion: suggestion,
	}
}

// SystemError represents a system-level error that the user cannot directly fix.
type SystemError struct {
	Message string
	Cause   error
	Op      string
}

func (e *SystemError) Error() string {
	if e.Op != "" {
		return fmt.Sprintf("%s during %s", e.Message, e.Op)
	}
	return e.Message
}

func (e *SystemError) Unwrap() error {
	return e.Cause
}

// NewSystemError creates a new SystemError.
func NewSystemError(message string, cause error) *SystemError {
	return &SystemError{
		Message: message,
		Cause:   cause,
	}
}

// NewSystemErrorWithOp creates a new SystemError with operation context.
func NewSystemErrorWithOp(op, message string, cause error) *SystemError {
	return &SystemError{
		Message: message,
		Cause:   cause,
		Op:      op,
	}
}

// RecoverableError represents an error that can be automatically retried.
type RecoverableError struct {
	Message    string
	Cause      error
	RetryCount int
	MaxRetries int
	CanRetry   bool
}

func (e *RecoverableError) Error() string {
	if e.RetryCount > 0 {
		return fmt.Sprintf("%s (attempt %d/%d)", e.Message, e.RetryCount, e.MaxRetries)
	}
	return e.Message
}

func (e *RecoverableError) Unwrap() error {
	return e.Cause
}

// NewRecoverableError creates a new RecoverableError.
func NewRecoverableError(message string, cause error, maxRetries int) *RecoverableError {
	return &RecoverableError{
		Message:    message,
		Cause:      cause,
		MaxRetries: maxRetries,
		CanRetry:   maxRetries > 0,
	}
}

// IncrementRetry increments the retry count and updates CanRetry.
func (e *RecoverableError) IncrementRetry() {
	e.RetryCount++
	e.CanRetry = e.RetryCount < e.MaxRetries
}

// PersistError is returned when the durable storage medium cannot take a write.
// Callers keep their in-memory state and retry on the next mutation.
type PersistError struct {
	Key   string
	Cause error
}

func (e *PersistError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("persist %s: %v", e.Key, e.Cause)
	}
	return "persist " + e.Key
}

func (e *PersistError) Unwrap() error {
	return e.Cause
}

// Is reports every PersistError as ErrStorageUnavailable.
func (e *PersistError) Is(target error) bool {
	return target == ErrStorageUnavailable
}

// NewPersistError creates a PersistError for the given record key.
func NewPersistError(key string, cause error) *PersistError {
	return &PersistError{Key: key, Cause: cause}
}

// DispatchKind identifies why an immediate dispatch failed.
type DispatchKind int

const (
	// DispatchNotAuthorized means the process may not deliver notifications.
	DispatchNotAuthorized DispatchKind = iota + 1
	// DispatchDeliveryFailed means the delivery authority rejected the hand-off.
	DispatchDeliveryFailed
)

// String returns the string representation of the kind.
func (k DispatchKind) String() string {
	switch k {
	case DispatchNotAuthorized:
		return "not_authorized"
	case DispatchDeliveryFailed:
		return "delivery_failed"
	default:
		return "unknown"
	}
}

// DispatchError is returned by immediate sends.
type DispatchError struct {
	Kind     DispatchKind
	Category string
	Attempts int
	Cause    error
}

func (e *DispatchError) Error() string {
	switch e.Kind {
	case DispatchNotAuthorized:
		return fmt.Sprintf("dispatch %s: %v", e.Category, ErrNotAuthorized)
	case DispatchDeliveryFailed:
		if e.Cause != nil {
			return fmt.Sprintf("dispatch %s: %v after %d attempt(s): %v", e.Category, ErrDeliveryFailed, e.Attempts, e.Cause)
		}
		return fmt.Sprintf("dispatch %s: %v", e.Category, ErrDeliveryFailed)
	default:
		return "dispatch " + e.Category
	}
}

func (e *DispatchError) Unwrap() error {
	return e.Cause
}

// Is maps the kind onto the package sentinels.
func (e *DispatchError) Is(target error) bool {
	switch e.Kind {
	case DispatchNotAuthorized:
		return target == ErrNotAuthorized
	case DispatchDeliveryFailed:
		return target == ErrDeliveryFailed
	}
	return false
}

// NotAuthorized creates a DispatchError of kind DispatchNotAuthorized.
func NotAuthorized(category string) *DispatchError {
	return &DispatchError{Kind: DispatchNotAuthorized, Category: category}
}

// DeliveryFailed creates a DispatchError of kind DispatchDeliveryFailed.
func DeliveryFailed(category string, attempts int, cause error) *DispatchError {
	return &DispatchError{Kind: DispatchDeliveryFailed, Category: category, Attempts: attempts, Cause: cause}
}

// IsUserError checks if an error is a UserError.
func IsUserError(err error) bool {
	var ue *UserError
	return errors.As(err, &ue)
}

// IsSystemError checks if an error is a SystemError.
func IsSystemError(err error) bool {
	var se *SystemError
	return errors.As(err, &se)
}

// IsRecoverableError checks if an error is a RecoverableError.
func IsRecoverableError(err error) bool {
	var re *RecoverableError
	return errors.As(err, &re)
}

// AsUserError extracts a UserError from an error chain.
func AsUserError(err error) (*UserError, bool) {
	var ue *UserError
	ok := errors.As(err, &ue)
	return ue, ok
}

// AsPersistError extracts a PersistError from an error chain.
func AsPersistError(err error) (*PersistError, bool) {
	var pe *PersistError
	ok := errors.As(err, &pe)
	return pe, ok
}

// AsDispatchError extracts a DispatchError from an error chain.
func AsDispatchError(err error) (*DispatchError, bool) {
	var de *DispatchError
	ok := errors.As(err, &de)
	return de, ok
}

// Wrap wraps an error with additional context.
func Wrap(err error, message string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", message, err)
}

// Wrapf wraps an error with formatted additional context.
func Wrapf(err error, format string, args ...any) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), err)
}

// Is is errors.Is, re-exported so callers need a single errors import.
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As is errors.As.
func As(err error, target any) bool {
	return errors.As(err, target)
}

// New is errors.New.
func New(text string) error {
	return errors.New(text)
}

// Join is errors.Join.
func Join(errs ...error) error {
	return errors.Join(errs...)
}
