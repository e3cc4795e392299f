package combat

import (
	"errors"
	"fmt"
)

// Code categorises combat errors.
type Code string

const (
	// CodeInvalidAction marks an action that references a missing target, an
	// element the actor cannot channel, or arrives after the encounter ended.
	CodeInvalidAction Code = "invalid_action"

	// CodeInsufficientResource marks an action the actor lacks stamina or items for.
	CodeInsufficientResource Code = "insufficient_resource"

	// CodeInvariantViolation marks a calculation bug. It is fatal to the encounter.
	CodeInvariantViolation Code = "invariant_violation"

	// CodeInternal marks programmer misuse of the calculator, such as a
	// non-positive base power.
	CodeInternal Code = "internal"
)

// Error is a combat error with a code and optional metadata.
type Error struct {
	Code    Code
	Message string
	Cause   error
	Meta    map[string]any
}

// Error returns the error message.
func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the wrapped error.
func (e *Error) Unwrap() error {
	return e.Cause
}

// WithMeta adds metadata to the error (builder pattern).
func (e *Error) WithMeta(key string, value any) *Error {
	if e.Meta == nil {
		e.Meta = make(map[string]any)
	}
	e.Meta[key] = value
	return e
}

// Newf creates an error with a formatted message.
func Newf(code Code, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...)}
}

// Wrap wraps err with code and message. Wrap(nil, ...) returns nil.
func Wrap(err error, code Code, message string) *Error {
	if err == nil {
		return nil
	}
	return &Error{Code: code, Message: message, Cause: err}
}

// InvalidActionf creates a CodeInvalidAction error.
func InvalidActionf(format string, args ...any) *Error {
	return Newf(CodeInvalidAction, format, args...)
}

// InsufficientResourcef creates a CodeInsufficientResource error.
func InsufficientResourcef(format string, args ...any) *Error {
	return Newf(CodeInsufficientResource, format, args...)
}

// InvariantViolationf creates a CodeInvariantViolation error.
func InvariantViolationf(format string, args ...any) *Error {
	return Newf(CodeInvariantViolation, format, args...)
}

// CodeOf returns the code of the first *Error in err's chain, or "" if none.
func CodeOf(err error) Code {
	var ce *Error
	if errors.As(err, &ce) {
		return ce.Code
	}
	return ""
}

// IsInvalidAction reports whether err carries CodeInvalidAction.
func IsInvalidAction(err error) bool { return CodeOf(err) == CodeInvalidAction }

// IsInsufficientResource reports whether err carries CodeInsufficientResource.
func IsInsufficientResource(err error) bool { return CodeOf(err) == CodeInsufficientResource }

// IsInvariantViolation reports whether err carries CodeInvariantViolation.
func IsInvariantViolation(err error) bool { return CodeOf(err) == CodeInvariantViolation }

// IsRejection reports whether err is a recoverable rejection after which the
// caller may re-prompt for a different action.
func IsRejection(err error) bool {
	c := CodeOf(err)
	return c == CodeInvalidAction || c == CodeInsufficientResource
}
