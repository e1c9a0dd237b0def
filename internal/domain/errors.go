package domain

import (
	"errors"
	"net/http"
)

// Error codes for page and form errors.
const (
	CodeNotFound        = 1
	CodeValidation      = 2
	CodeUpstream        = 3
	CodeUpstreamTimeout = 4
	CodeInternal        = 5
)

// AppError represents a view-level error with a code, message, and optional wrapped error.
type AppError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Err     error  `json:"-"`
}

// Error implements the error interface.
func (e *AppError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

// Unwrap returns the wrapped error for use with errors.Is and errors.As.
func (e *AppError) Unwrap() error {
	return e.Err
}

// Predefined errors. Use the Is* helpers to match by code; errors.Is only
// matches these exact pointers.
var (
	ErrNotFound        = &AppError{Code: CodeNotFound, Message: "not found"}
	ErrValidation      = &AppError{Code: CodeValidation, Message: "validation error"}
	ErrUpstream        = &AppError{Code: CodeUpstream, Message: "backend unavailable"}
	ErrUpstreamTimeout = &AppError{Code: CodeUpstreamTimeout, Message: "backend timed out"}
	ErrInternal        = &AppError{Code: CodeInternal, Message: "internal error"}
)

// NewAppError creates a new AppError with the given code, message, and wrapped error.
func NewAppError(code int, message string, err error) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// IsNotFound reports whether err is or wraps an AppError with CodeNotFound.
func IsNotFound(err error) bool {
	return hasCode(err, CodeNotFound)
}

// IsValidation reports whether err is or wraps an AppError with CodeValidation.
func IsValidation(err error) bool {
	return hasCode(err, CodeValidation)
}

// IsUpstream reports whether err is or wraps an AppError with CodeUpstream
// or CodeUpstreamTimeout.
func IsUpstream(err error) bool {
	return hasCode(err, CodeUpstream) || hasCode(err, CodeUpstreamTimeout)
}

func hasCode(err error, code int) bool {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code == code
	}
	return false
}

// HTTPStatusCode maps an error to the status code of the page or JSON
// response that reports it. Errors that are not *AppError map to 500.
func HTTPStatusCode(err error) int {
	var appErr *AppError
	if err != nil && errors.As(err, &appErr) {
		switch appErr.Code {
		case CodeNotFound:
			return http.StatusNotFound
		case CodeValidation:
			return http.StatusBadRequest
		case CodeUpstream:
			return http.StatusBadGateway
		case CodeUpstreamTimeout:
			return http.StatusGatewayTimeout
		case CodeInternal:
			return http.StatusInternalServerError
		}
	}
	return http.StatusInternalServerError
}
