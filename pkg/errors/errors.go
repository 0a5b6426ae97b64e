// Package errors provides structured error types for multiboard.
//
// Every failure the tool reports falls into one of a small set of kinds:
//   - USAGE: conflicting or missing dimension inputs
//   - GEOMETRY: a computed tile group too small to hold the interlocking mechanism
//   - EXTERNAL_TOOL: a rendering collaborator is missing or exited non-zero
//   - DECLINED: the operator answered "no" at the confirmation prompt
//
// The CLI and the HTTP API both branch on the code rather than on message text.
//
// # Usage
//
//	err := errors.New(errors.ErrCodeUsage, "each dimension should be given in mm or cells, but not both")
//	if errors.Is(err, errors.ErrCodeUsage) {
//	    // print usage hint
//	}
//
//	// Wrap existing errors
//	err := errors.Wrap(errors.ErrCodeExternalTool, origErr, "compile %s", name)
package errors

import (
	"context"
	"errors"
	"fmt"
)

// Code represents a machine-readable error code.
type Code string

// Error codes for different error categories.
const (
	// Input errors
	ErrCodeUsage         Code = "USAGE"
	ErrCodeInvalidFormat Code = "INVALID_FORMAT"
	ErrCodeInvalidPath   Code = "INVALID_PATH"
	ErrCodeInvalidConfig Code = "INVALID_CONFIG"

	// Layout errors
	ErrCodeGeometry Code = "GEOMETRY"

	// Rendering errors
	ErrCodeExternalTool Code = "EXTERNAL_TOOL"

	// Operator errors
	ErrCodeDeclined Code = "DECLINED"

	// Internal errors
	ErrCodeInternal Code = "INTERNAL_ERROR"
)

// Error is a structured error with a code and optional cause.
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

// Is reports whether err has the given error code.
// It unwraps the error chain (including joined errors) looking for an *Error
// with a matching code.
func Is(err error, code Code) bool {
	if err == nil {
		return false
	}
	var e *Error
	if errors.As(err, &e) && e.Code == code {
		return true
	}
	if joined, ok := err.(interface{ Unwrap() []error }); ok {
		for _, inner := range joined.Unwrap() {
			if Is(inner, code) {
				return true
			}
		}
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
		if e.Cause != nil {
			return fmt.Sprintf("%s: %v", e.Message, e.Cause)
		}
		return e.Message
	}
	return err.Error()
}

// ExitCode maps an error to the process exit status.
// Cancellation follows the shell convention for SIGINT.
func ExitCode(err error) int {
	switch {
	case err == nil:
		return 0
	case errors.Is(err, context.Canceled):
		return 130
	default:
		return 1
	}
}
