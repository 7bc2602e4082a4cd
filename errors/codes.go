package errors

import "net/http"

// ErrorCode is the machine-readable code carried in every error response.
type ErrorCode string

const (
	ErrCodeInvalidInput       ErrorCode = "INVALID_INPUT"
	ErrCodeMissingField       ErrorCode = "MISSING_FIELD"
	ErrCodeUnauthorized       ErrorCode = "UNAUTHORIZED"
	ErrCodeForbidden          ErrorCode = "FORBIDDEN"
	ErrCodeNotFound           ErrorCode = "NOT_FOUND"
	ErrCodeTimeout            ErrorCode = "TIMEOUT"
	ErrCodeStoreError         ErrorCode = "STORE_ERROR"
	ErrCodeServiceUnavailable ErrorCode = "SERVICE_UNAVAILABLE"
	ErrCodeInternal           ErrorCode = "INTERNAL_ERROR"
)

// codeSpec is the transport behavior attached to a code.
type codeSpec struct {
	status    int
	retryable bool
}

var codeSpecs = map[ErrorCode]codeSpec{
	ErrCodeInvalidInput:       {http.StatusBadRequest, false},
	ErrCodeMissingField:       {http.StatusBadRequest, false},
	ErrCodeUnauthorized:       {http.StatusUnauthorized, false},
	ErrCodeForbidden:          {http.StatusForbidden, false},
	ErrCodeNotFound:           {http.StatusNotFound, false},
	ErrCodeTimeout:            {http.StatusGatewayTimeout, true},
	ErrCodeStoreError:         {http.StatusServiceUnavailable, true},
	ErrCodeServiceUnavailable: {http.StatusServiceUnavailable, true},
	ErrCodeInternal:           {http.StatusInternalServerError, false},
}

// IsRetryableCode reports whether a client may repeat a request that failed
// with code.
func IsRetryableCode(code ErrorCode) bool {
	return codeSpecs[code].retryable
}

// Status returns the HTTP status that code maps to, or 500 for unknown codes.
func (c ErrorCode) Status() int {
	if spec, ok := codeSpecs[c]; ok {
		return spec.status
	}
	return http.StatusInternalServerError
}
