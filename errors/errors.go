package errors

import (
	"fmt"
	"strings"
)

// AppError is an error that knows how it should be reported to a client.
// Cause stays server-side; only Code, Message, Retryable and Details are
// ever serialized.
type AppError struct {
	Code       ErrorCode      `json:"code"`
	Message    string         `json:"message"`
	Retryable  bool           `json:"retryable"`
	HTTPStatus int            `json:"-"`
	Details    map[string]any `json:"details,omitempty"`
	Cause      error          `json:"-"`
}

func (e *AppError) Error() string {
	if e.Cause == nil {
		return string(e.Code) + ": " + e.Message
	}
	return fmt.Sprintf("%s: %s (cause: %v)", e.Code, e.Message, e.Cause)
}

func (e *AppError) Unwrap() error { return e.Cause }

// WithCause attaches the underlying error.
func (e *AppError) WithCause(cause error) *AppError {
	e.Cause = cause
	return e
}

// WithDetail adds one key to Details.
func (e *AppError) WithDetail(key string, value any) *AppError {
	if e.Details == nil {
		e.Details = map[string]any{}
	}
	e.Details[key] = value
	return e
}

// New creates an AppError; retryability follows the code.
func New(code ErrorCode, message string, httpStatus int) *AppError {
	return &AppError{
		Code:       code,
		Message:    message,
		HTTPStatus: httpStatus,
		Retryable:  IsRetryableCode(code),
	}
}

func newCoded(code ErrorCode, message string) *AppError {
	return New(code, message, code.Status())
}

// Validation reports a request that failed input checks.
func Validation(message string) *AppError {
	return newCoded(ErrCodeInvalidInput, message)
}

// InvalidInput reports one bad field.
func InvalidInput(field, reason string) *AppError {
	e := newCoded(ErrCodeInvalidInput, "Invalid input: "+reason)
	if field != "" {
		e.WithDetail("field", field)
	}
	return e
}

// MissingField reports an absent required field.
func MissingField(field string) *AppError {
	return newCoded(ErrCodeMissingField, "Missing required field: "+field).WithDetail("field", field)
}

// Unauthorized reports a caller without credentials.
func Unauthorized(reason string) *AppError {
	if reason == "" {
		reason = "Authentication required."
	}
	return newCoded(ErrCodeUnauthorized, reason)
}

// Forbidden reports a caller lacking a required capability.
func Forbidden(reason string) *AppError {
	if reason == "" {
		reason = "You don't have permission to perform this action."
	}
	return newCoded(ErrCodeForbidden, reason)
}

// NotFound reports a missing resource, naming it by id when one is given.
func NotFound(resource, id string) *AppError {
	if id == "" {
		return newCoded(ErrCodeNotFound, "The requested "+resource+" was not found.").
			WithDetail("resource", resource)
	}
	return newCoded(ErrCodeNotFound, fmt.Sprintf("%s '%s' was not found", titled(resource), id)).
		WithDetail("resource", resource).
		WithDetail("id", id)
}

// Timeout reports an operation that ran out of time.
func Timeout(operation string) *AppError {
	return newCoded(ErrCodeTimeout, "The request took too long. Please try again.").
		WithDetail("operation", operation)
}

// StoreError reports a failed location store call. The cause is kept off
// the wire.
func StoreError(cause error) *AppError {
	return newCoded(ErrCodeStoreError, "The location store is unavailable. Please try again.").WithCause(cause)
}

// ServiceUnavailable reports a dependency that is down.
func ServiceUnavailable(service string) *AppError {
	return newCoded(ErrCodeServiceUnavailable, "The "+service+" is temporarily unavailable. Please try again.").
		WithDetail("service", service)
}

// Internal wraps an unexpected failure behind a generic message.
func Internal(cause error) *AppError {
	return newCoded(ErrCodeInternal, "An unexpected error occurred. Please try again or contact support.").WithCause(cause)
}

func titled(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
