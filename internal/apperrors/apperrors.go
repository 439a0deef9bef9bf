// Package apperrors defines the typed failures the service layer returns to
// its callers. Every recoverable error crossing an operation boundary is one
// of four kinds; handlers translate kinds to HTTP statuses.
package apperrors

import (
	"errors"
	"fmt"
)

// Kind classifies a failure.
type Kind string

const (
	KindConflict     Kind = "conflict"      // state already claimed: double partnership, spent invite
	KindInvalidState Kind = "invalid_state" // illegal status transition
	KindNotFound     Kind = "not_found"     // referenced entity does not exist
	KindValidation   Kind = "validation"    // structurally invalid input
)

// Error is a typed service failure.
type Error struct {
	Kind    Kind
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

// New creates a typed error with a fixed message.
func New(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

// Newf creates a typed error with a formatted message.
func Newf(kind Kind, format string, args ...interface{}) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// Wrap attaches a kind and message to an underlying error.
func Wrap(kind Kind, err error, message string) *Error {
	return &Error{Kind: kind, Message: message, Err: err}
}

// Conflictf builds a KindConflict error.
func Conflictf(format string, args ...interface{}) *Error {
	return Newf(KindConflict, format, args...)
}

// InvalidStatef builds a KindInvalidState error.
func InvalidStatef(format string, args ...interface{}) *Error {
	return Newf(KindInvalidState, format, args...)
}

// NotFoundf builds a KindNotFound error.
func NotFoundf(format string, args ...interface{}) *Error {
	return Newf(KindNotFound, format, args...)
}

// Validationf builds a KindValidation error.
func Validationf(format string, args ...interface{}) *Error {
	return Newf(KindValidation, format, args...)
}

// KindOf returns the kind of err, or "" if err carries no kind.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return ""
}

// IsConflict reports whether err is a KindConflict error.
func IsConflict(err error) bool {
	return KindOf(err) == KindConflict
}

// IsInvalidState reports whether err is a KindInvalidState error.
func IsInvalidState(err error) bool {
	return KindOf(err) == KindInvalidState
}

// IsNotFound reports whether err is a KindNotFound error.
func IsNotFound(err error) bool {
	return KindOf(err) == KindNotFound
}

// IsValidation reports whether err is a KindValidation error.
func IsValidation(err error) bool {
	return KindOf(err) == KindValidation
}
