package apperror

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind classifies an AppError independently of the transport.
type Kind string

const (
	KindNotFound        Kind = "not_found"
	KindValidation      Kind = "validation"
	KindInvalidArgument Kind = "invalid_argument"
	KindConflict        Kind = "conflict"
	KindInternal        Kind = "internal"
)

// AppError is a custom error type that includes an HTTP status code and a kind.
type AppError struct {
	Code    int    // HTTP Status Code (e.g., 400, 404)
	Kind    Kind   // Error class, stable across transports
	Message string // User-facing error message
	Err     error  // The underlying error, if any (not exposed to user)
}

func (e *AppError) Error() string {
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// New creates a new AppError with a status code and message.
func New(code int, message string) *AppError {
	return &AppError{
		Code:    code,
		Kind:    kindFromCode(code),
		Message: message,
	}
}

// Wrap creates a new AppError wrapping an existing error.
func Wrap(err error, code int, message string) *AppError {
	return &AppError{
		Code:    code,
		Kind:    kindFromCode(code),
		Message: message,
		Err:     err,
	}
}

// NotFound reports a reference that does not resolve to a record.
func NotFound(format string, args ...any) *AppError {
	return &AppError{Code: http.StatusNotFound, Kind: KindNotFound, Message: fmt.Sprintf(format, args...)}
}

// Validation reports a violated business rule.
func Validation(format string, args ...any) *AppError {
	return &AppError{Code: http.StatusBadRequest, Kind: KindValidation, Message: fmt.Sprintf(format, args...)}
}

// InvalidArgument reports a malformed request parameter.
func InvalidArgument(format string, args ...any) *AppError {
	return &AppError{Code: http.StatusBadRequest, Kind: KindInvalidArgument, Message: fmt.Sprintf(format, args...)}
}

// Conflict reports a uniqueness violation.
func Conflict(format string, args ...any) *AppError {
	return &AppError{Code: http.StatusConflict, Kind: KindConflict, Message: fmt.Sprintf(format, args...)}
}

// Detail re-issues sentinel with a more specific message.
// errors.Is(result, sentinel) still holds.
func Detail(sentinel *AppError, format string, args ...any) *AppError {
	return &AppError{
		Code:    sentinel.Code,
		Kind:    sentinel.Kind,
		Message: fmt.Sprintf(format, args...),
		Err:     sentinel,
	}
}

// KindOf returns the kind of err, or KindInternal when err is not an AppError.
func KindOf(err error) Kind {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Kind
	}
	return KindInternal
}

func kindFromCode(code int) Kind {
	switch code {
	case http.StatusNotFound:
		return KindNotFound
	case http.StatusConflict:
		return KindConflict
	case http.StatusBadRequest, http.StatusForbidden, http.StatusUnprocessableEntity:
		return KindValidation
	default:
		return KindInternal
	}
}
