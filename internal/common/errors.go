package common

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrorKind is the stable classification surfaced to the HTTP layer.
type ErrorKind string

const (
	ErrNotFound        ErrorKind = "not_found"
	ErrConflict        ErrorKind = "conflict"
	ErrAlreadyDone     ErrorKind = "already_done"
	ErrInvalidState    ErrorKind = "invalid_state"
	ErrNotReady        ErrorKind = "not_ready"
	ErrForbidden       ErrorKind = "forbidden"
	ErrInvalidArgument ErrorKind = "invalid_argument"
)

// Error carries a kind alongside the message so handlers can map it to a
// status code without string matching.
type Error struct {
	Kind    ErrorKind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

func NewError(kind ErrorKind, format string, args ...interface{}) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

func WrapError(kind ErrorKind, err error, message string) *Error {
	return &Error{Kind: kind, Message: message, Err: err}
}

// KindOf returns the kind of err, or "" if err carries none.
func KindOf(err error) ErrorKind {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Kind
	}
	return ""
}

// HTTPStatus maps an error to the status code the API responds with.
// Unclassified errors are treated as internal.
func HTTPStatus(err error) int {
	switch KindOf(err) {
	case ErrNotFound:
		return http.StatusNotFound
	case ErrConflict, ErrAlreadyDone:
		return http.StatusConflict
	case ErrInvalidState, ErrNotReady, ErrInvalidArgument:
		return http.StatusBadRequest
	case ErrForbidden:
		return http.StatusForbidden
	default:
		return http.StatusInternalServerError
	}
}
