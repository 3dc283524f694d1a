// Package errors provides structured error types for ocrsynth.
//
// This package defines error codes and types that enable:
//   - Consistent error handling across the engine, CLI and HTTP adapter
//   - Machine-readable error codes for programmatic handling
//   - User-friendly error messages
//   - Error wrapping with context preservation
//
// # Error Codes
//
// The synthesis engine returns four recoverable or request-fatal kinds:
//   - UNKNOWN_PROFILE: the condition name is not registered (recoverable)
//   - DUPLICATE_PROFILE: a different profile already owns the name (recoverable)
//   - RENDER_FAILED: text, font or dimensions cannot be rendered
//   - DISTORTION_FAILED: distortion parameters push content out of frame
//
// Parameter range violations carry INVALID_PARAMETER and are raised when a
// parameter set or profile is constructed, never when a stage is applied.
//
// # Usage
//
//	err := errors.New(errors.ErrCodeUnknownProfile, "unknown condition %q", name)
//	if errors.Is(err, errors.ErrCodeUnknownProfile) {
//	    // Ask the caller for a valid name
//	}
//
//	// Wrap existing errors
//	err := errors.Wrap(errors.ErrCodeRenderFailed, origErr, "create face")
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
	ErrCodeInvalidInput     Code = "INVALID_INPUT"
	ErrCodeInvalidParameter Code = "INVALID_PARAMETER"
	ErrCodeInvalidFormat    Code = "INVALID_FORMAT"
	ErrCodeInvalidProfile   Code = "INVALID_PROFILE"
	ErrCodeInvalidPath      Code = "INVALID_PATH"

	// Profile registry errors
	ErrCodeUnknownProfile   Code = "UNKNOWN_PROFILE"
	ErrCodeDuplicateProfile Code = "DUPLICATE_PROFILE"

	// Synthesis errors
	ErrCodeRenderFailed     Code = "RENDER_FAILED"
	ErrCodeDistortionFailed Code = "DISTORTION_FAILED"

	// Resource not found errors
	ErrCodeNotFound     Code = "NOT_FOUND"
	ErrCodeFileNotFound Code = "FILE_NOT_FOUND"

	// Internal errors
	ErrCodeInternal    Code = "INTERNAL_ERROR"
	ErrCodeUnsupported Code = "UNSUPPORTED"
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
// It unwraps the error chain looking for an *Error with a matching code.
// The outermost *Error wins, so wrapping with a new code reclassifies.
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

// Recoverable reports whether the caller can fix err by choosing a different
// profile name. Render and distortion failures are fatal for the request.
func Recoverable(err error) bool {
	switch GetCode(err) {
	case ErrCodeUnknownProfile, ErrCodeDuplicateProfile:
		return true
	}
	return false
}
