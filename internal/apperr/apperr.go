// Package apperr defines the three failure kinds every club operation can
// report. Package-level errors elsewhere wrap one of these sentinels so
// callers can branch with errors.Is without knowing the concrete error.
package apperr

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound: a referenced athlete, plan, payment, class or coach does not exist.
	ErrNotFound = errors.New("not found")

	// ErrConflict: duplicate key, already-voided payment, inactive record, etc.
	ErrConflict = errors.New("conflict")

	// ErrInvalidInput: the request itself is malformed.
	ErrInvalidInput = errors.New("invalid input")
)

// Kind classifies an error by the sentinel it wraps.
type Kind string

const (
	KindNone         Kind = ""
	KindNotFound     Kind = "NOT_FOUND"
	KindConflict     Kind = "CONFLICT"
	KindInvalidInput Kind = "INVALID_INPUT"
	KindInternal     Kind = "INTERNAL"
)

// KindOf reports which sentinel err wraps. Errors that wrap none of them are
// KindInternal; a nil error is KindNone.
func KindOf(err error) Kind {
	switch {
	case err == nil:
		return KindNone
	case errors.Is(err, ErrNotFound):
		return KindNotFound
	case errors.Is(err, ErrConflict):
		return KindConflict
	case errors.Is(err, ErrInvalidInput):
		return KindInvalidInput
	default:
		return KindInternal
	}
}

// NotFound builds an error wrapping ErrNotFound.
func NotFound(format string, args ...interface{}) error {
	return wrap(ErrNotFound, format, args...)
}

// Conflict builds an error wrapping ErrConflict.
func Conflict(format string, args ...interface{}) error {
	return wrap(ErrConflict, format, args...)
}

// Invalid builds an error wrapping ErrInvalidInput.
func Invalid(format string, args ...interface{}) error {
	return wrap(ErrInvalidInput, format, args...)
}

type kindError struct {
	kind error
	msg  string
}

func (e *kindError) Error() string { return e.msg }
func (e *kindError) Unwrap() error { return e.kind }

func wrap(kind error, format string, args ...interface{}) error {
	return &kindError{kind: kind, msg: fmt.Sprintf(format, args...)}
}
