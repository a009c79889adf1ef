// Package domainerrors carries error codes from services to the transport
// layer. Services wrap store and validation failures with a code; handlers
// translate codes to HTTP statuses in one place so the mapping never drifts
// between modules.
package domainerrors

import (
	"errors"
	"fmt"
)

// Code classifies a domain error.
type Code string

const (
	// CodeNotFound means an identifier did not resolve to a stored row.
	CodeNotFound Code = "not_found"
	// CodeValidation means the input was well-formed but violated a rule.
	CodeValidation Code = "validation"
	// CodeInvalidInput means the input could not be interpreted at all.
	CodeInvalidInput Code = "invalid_input"
	// CodeConflict means the write collided with existing state (duplicate
	// document number, delete of a non-PENDING request).
	CodeConflict Code = "conflict"
	// CodeUnauthorized means the caller presented no usable credentials.
	CodeUnauthorized Code = "unauthorized"
	// CodeForbidden means the caller lacks the role the operation needs.
	CodeForbidden Code = "forbidden"
	// CodeInvariantViolation means a model constructor or transition check
	// rejected the state. Services usually re-map this to CodeValidation or
	// CodeConflict before it reaches a handler.
	CodeInvariantViolation Code = "invariant_violation"
	// CodeInternal covers store failures and other unexpected errors. The
	// original error is retained for logging but never exposed.
	CodeInternal Code = "internal"
)

// Error is a coded domain error with an operator-facing message.
type Error struct {
	Code    Code
	Message string
	cause   error
}

func (e *Error) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *Error) Unwrap() error { return e.cause }

// New builds a domain error with no underlying cause.
func New(code Code, message string) error {
	return &Error{Code: code, Message: message}
}

// Wrap attaches a code and message to an underlying error, keeping the cause
// reachable through errors.Is/As for logging.
func Wrap(err error, code Code, message string) error {
	if err == nil {
		return nil
	}
	return &Error{Code: code, Message: message, cause: err}
}

// HasCode reports whether err (or anything it wraps) carries the given code.
func HasCode(err error, code Code) bool {
	var de *Error
	if errors.As(err, &de) {
		return de.Code == code
	}
	return false
}

// CodeOf extracts the code from err, defaulting to CodeInternal for plain
// errors so unexpected failures always surface as 500s.
func CodeOf(err error) Code {
	var de *Error
	if errors.As(err, &de) {
		return de.Code
	}
	return CodeInternal
}

// MessageOf extracts the operator-facing message, falling back to a generic
// one so raw error detail never leaks to clients.
func MessageOf(err error) string {
	var de *Error
	if errors.As(err, &de) && de.Code != CodeInternal {
		return de.Message
	}
	return "internal server error"
}
