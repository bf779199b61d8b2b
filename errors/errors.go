package errors

import (
	stderrors "errors"
	"fmt"
)

// AppError is the unified error type.
type AppError struct {
	// Code is a machine-readable error code.
	Code ErrorCode `json:"code"`
	// Message is a human-readable error message.
	Message string `json:"message"`
	// Retryable indicates if the operation can be retried.
	Retryable bool `json:"retryable"`
	// ExitCode is the recommended process exit status for this error.
	ExitCode int `json:"-"`
	// Details contains additional context for the error.
	Details map[string]any `json:"details,omitempty"`
	// Cause is the underlying error that caused this error.
	Cause error `json:"-"`
}

// Error returns the string representation of the error.
func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (cause: %v)", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause of the error.
func (e *AppError) Unwrap() error { return e.Cause }

// WithCause sets the underlying cause of the error and returns the receiver.
func (e *AppError) WithCause(cause error) *AppError {
	e.Cause = cause
	return e
}

// WithDetails merges the provided details into the error and returns the receiver.
func (e *AppError) WithDetails(details map[string]any) *AppError {
	if e.Details == nil {
		e.Details = make(map[string]any)
	}
	for k, v := range details {
		e.Details[k] = v
	}
	return e
}

// WithDetail sets a single detail key-value pair and returns the receiver.
func (e *AppError) WithDetail(key string, value any) *AppError {
	if e.Details == nil {
		e.Details = make(map[string]any)
	}
	e.Details[key] = value
	return e
}

// New creates a new AppError with the exit status and retryable flag derived from code.
func New(code ErrorCode, message string) *AppError {
	return &AppError{
		Code:      code,
		Message:   message,
		ExitCode:  ExitCodeFor(code),
		Retryable: IsRetryableCode(code),
	}
}

// --- Constructors ---

// InvalidConfig creates an error for a configuration value that cannot be used.
func InvalidConfig(field, reason string) *AppError {
	err := New(ErrCodeInvalidConfig, fmt.Sprintf("Invalid configuration: %s", reason))
	if field != "" {
		err.WithDetail("field", field)
	}
	return err
}

// Validation creates an error for a configuration struct that failed tag validation.
func Validation(message string) *AppError {
	return New(ErrCodeInvalidConfig, message)
}

// MissingField creates an error for a missing required field.
func MissingField(field string) *AppError {
	return New(ErrCodeMissingField, fmt.Sprintf("Missing required field: %s", field)).
		WithDetail("field", field)
}

// Consistency creates an error for a post-run invariant violation.
func Consistency(reason string) *AppError {
	return New(ErrCodeConsistency, reason)
}

// WorkerFailed creates an error for a producer or consumer that aborted the run.
func WorkerFailed(role string, cause error) *AppError {
	return New(ErrCodeWorkerFailed, fmt.Sprintf("The %s failed.", role)).
		WithDetail("role", role).
		WithCause(cause)
}

// Aborted creates an error returned by channel operations released by Abort.
func Aborted(cause error) *AppError {
	return New(ErrCodeAborted, "The channel was aborted.").WithCause(cause)
}

// Protocol creates an error for misuse of the sentinel or acknowledge protocol.
func Protocol(reason string) *AppError {
	return New(ErrCodeProtocol, reason)
}

// Internal creates an error for an unexpected failure.
func Internal(cause error) *AppError {
	return New(ErrCodeInternal, "An unexpected error occurred.").WithCause(cause)
}

// --- Inspection ---

// IsAppError checks if an error is an AppError.
func IsAppError(err error) bool {
	var appErr *AppError
	return stderrors.As(err, &appErr)
}

// AsAppError converts an error to an AppError if possible.
func AsAppError(err error) (*AppError, bool) {
	var appErr *AppError
	if stderrors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}

// IsCode reports whether err is, or wraps, an AppError with the given code.
// Only the outermost AppError in the chain is inspected.
func IsCode(err error, code ErrorCode) bool {
	appErr, ok := AsAppError(err)
	return ok && appErr.Code == code
}

// ExitCode returns the process exit status for any error.
func ExitCode(err error) int {
	if err == nil {
		return ExitOK
	}
	if appErr, ok := AsAppError(err); ok {
		return appErr.ExitCode
	}
	return ExitInternal
}
