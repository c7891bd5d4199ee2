// Package errors provides structured error types for the flowgrid engine.
//
// This package defines error codes and types that enable:
//   - Consistent error handling across the store, registry, and CLI
//   - Machine-readable error codes for programmatic handling
//   - Non-throwing error reporting through the store's error hook
//   - Error wrapping with context preservation
//
// # Error Codes
//
// Error codes follow a hierarchical naming convention:
//   - INVALID_*: Input validation failures
//   - *_NOT_FOUND: Entity or instance lookups that came up empty
//   - *_EXISTS: Idempotence / duplicate conditions
//   - CYCLE_DETECTED: Structural inconsistency in the parent chain
//   - INSTANCE_*: Store instance lifecycle violations
//
// # Usage
//
//	err := errors.New(errors.ErrCodeNodeNotFound, "node %q not found", id)
//	if errors.Is(err, errors.ErrCodeNodeNotFound) {
//	    // Expected during partial initialization; report, don't abort
//	}
package errors

import (
	"errors"
	"fmt"
)

// Code represents a machine-readable error code.
type Code string

// Error codes for different error categories.
const (
	// Input validation errors
	ErrCodeInvalidEdge   Code = "INVALID_EDGE"
	ErrCodeInvalidNode   Code = "INVALID_NODE"
	ErrCodeInvalidConfig Code = "INVALID_CONFIG"

	// Entity lookups
	ErrCodeNodeNotFound     Code = "NODE_NOT_FOUND"
	ErrCodeEdgeNotFound     Code = "EDGE_NOT_FOUND"
	ErrCodeParentNotFound   Code = "PARENT_NOT_FOUND"
	ErrCodeInstanceNotFound Code = "INSTANCE_NOT_FOUND"

	// Duplicates (idempotence cases, not faults)
	ErrCodeEdgeExists Code = "EDGE_EXISTS"

	// Structural inconsistency
	ErrCodeCycleDetected Code = "CYCLE_DETECTED"

	// Instance lifecycle
	ErrCodeInstanceDestroyed Code = "INSTANCE_DESTROYED"

	// Unexpected internal errors
	ErrCodeInternal Code = "INTERNAL_ERROR"
)

// Error is a structured error with a code and optional cause. It is the
// payload type of the store's error hook: the engine reports expected
// misuse through events carrying this type rather than raising.
type Error struct {
	Code    Code   // Machine-readable error code
	Message string // Human-readable message
	Cause   error  // Underlying error (optional)
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause for errors.Is/As compatibility.
func (e *Error) Unwrap() error {
	return e.Cause
}

// New creates a new Error with the given code and formatted message.
func New(code Code, format string, args ...any) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
	}
}

// Wrap creates a new Error wrapping an existing error.
func Wrap(code Code, cause error, format string, args ...any) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Cause:   cause,
	}
}

// Is reports whether err has the given error code. It unwraps the error
// chain looking for an *Error with a matching code.
func Is(err error, code Code) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Code == code
	}
	return false
}

// GetCode extracts the error code from an error, if available.
// Returns empty string if the error is not an *Error.
func GetCode(err error) Code {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ""
}

// UserMessage returns a user-friendly message for the error.
// For *Error types, returns the message without the code prefix.
// For other errors, returns the error string as-is.
func UserMessage(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Message
	}
	return err.Error()
}
