// Package dErrors provides coded domain errors.
//
// Services return these so transports can map failures to status codes without
// inspecting infrastructure errors. Stores return pkg/platform/sentinel errors
// instead; services translate at the boundary.
package dErrors

import (
	"errors"
	"fmt"
)

// Code classifies a domain failure.
type Code string

const (
	// CodeInvalidInput marks input that is structurally valid JSON but fails a
	// domain rule (missing provider payload, unknown enum value, absent
	// subject reference).
	CodeInvalidInput Code = "invalid_input"

	// CodeBadRequest marks requests that could not be parsed at all.
	CodeBadRequest Code = "bad_request"

	// CodeNotFound marks operations on a record that does not exist.
	CodeNotFound Code = "not_found"

	// CodeConflict marks uniqueness violations (prison number, badge number,
	// facility code).
	CodeConflict Code = "conflict"

	// CodeInvariantViolation marks a state transition the aggregate forbids.
	CodeInvariantViolation Code = "invariant_violation"

	// CodeUnavailable marks dependency failures (blob storage unreachable
	// during a cleanup that must precede a record mutation).
	CodeUnavailable Code = "unavailable"

	// CodeInternal marks unexpected failures.
	CodeInternal Code = "internal"
)

// Error carries a code, a message, and an optional cause.
type Error struct {
	code  Code
	msg   string
	cause error
}

func (e *Error) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.code, e.msg, e.cause)
	}
	return fmt.Sprintf("%s: %s", e.code, e.msg)
}

func (e *Error) Unwrap() error { return e.cause }

// Code returns the classification of this error.
func (e *Error) Code() Code { return e.code }

// Message returns the human-readable message without the code prefix.
func (e *Error) Message() string { return e.msg }

// New constructs a coded domain error.
func New(code Code, msg string) error {
	return &Error{code: code, msg: msg}
}

// Newf constructs a coded domain error with a formatted message.
func Newf(code Code, format string, args ...any) error {
	return &Error{code: code, msg: fmt.Sprintf(format, args...)}
}

// Wrap attaches a code and message to an underlying error. The cause remains
// reachable via errors.Is / errors.As.
func Wrap(err error, code Code, msg string) error {
	if err == nil {
		return nil
	}
	return &Error{code: code, msg: msg, cause: err}
}

// HasCode reports whether err or any error in its chain carries the code.
func HasCode(err error, code Code) bool {
	var de *Error
	for errors.As(err, &de) {
		if de.code == code {
			return true
		}
		err = de.cause
		if err == nil {
			return false
		}
	}
	return false
}

// Is is an alias for HasCode; it reads better at call sites that branch on a
// single code.
func Is(err error, code Code) bool { return HasCode(err, code) }

// CodeOf returns the outermost code in the chain, or CodeInternal when err is
// not a domain error.
func CodeOf(err error) Code {
	var de *Error
	if errors.As(err, &de) {
		return de.code
	}
	return CodeInternal
}

// Message returns the outermost domain message, or the plain error text when
// err is not a domain error.
func Message(err error) string {
	var de *Error
	if errors.As(err, &de) {
		return de.msg
	}
	if err != nil {
		return err.Error()
	}
	return ""
}
