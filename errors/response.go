package errors

import (
	stderrors "errors"
)

// Response is the JSON body of an error reply:
//
//	{"error": {"code": "NOT_FOUND", "message": "Service 'game' was not found", "retryable": false}}
type Response struct {
	Error Body `json:"error"`
}

// Body is the client-visible part of an AppError. Cause never appears.
type Body struct {
	Code      ErrorCode      `json:"code"`
	Message   string         `json:"message"`
	Retryable bool           `json:"retryable"`
	RequestID string         `json:"request_id,omitempty"`
	Details   map[string]any `json:"details,omitempty"`
}

// ToResponse builds the reply body for e.
func (e *AppError) ToResponse() Response {
	return Response{Error: Body{
		Code:      e.Code,
		Message:   e.Message,
		Retryable: e.Retryable,
		Details:   e.Details,
	}}
}

// From returns err as an AppError. Errors that are not AppErrors become
// Internal, keeping err only as the cause.
func From(err error) *AppError {
	if appErr, ok := AsAppError(err); ok {
		return appErr
	}
	return Internal(err)
}

// IsAppError reports whether err wraps an AppError.
func IsAppError(err error) bool {
	_, ok := AsAppError(err)
	return ok
}

// AsAppError finds the first AppError in err's chain.
func AsAppError(err error) (*AppError, bool) {
	var appErr *AppError
	if stderrors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}
