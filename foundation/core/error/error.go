// File: error.go
// Title: Core Error Implementation
// Description: Implements the main Error type with code, severity, details,
//              and cause chains. Provides fluent builders and helpers for
//              code-based error matching at the dispatch boundary.
// Author: msto63
// Version: v0.1.0
// Created: 2025-11-02
// Modified: 2025-11-02
//
// Change History:
// - 2025-11-02 v0.1.0: Initial implementation with contextual errors

package error

import (
	stderrors "errors"
	"fmt"
	"strings"
	"time"
)

// Error represents a structured error with code, severity, and metadata
type Error struct {
	message   string
	cause     error
	code      Code
	severity  Severity
	timestamp time.Time

	details   map[string]interface{}
	operation string
}

// New creates a new Error with the given message
func New(message string) *Error {
	return &Error{
		message:   message,
		code:      CodeUnknown,
		severity:  SeverityMedium,
		timestamp: time.Now(),
		details:   make(map[string]interface{}),
	}
}

// Newf creates a new Error with a formatted message
func Newf(format string, args ...interface{}) *Error {
	return New(fmt.Sprintf(format, args...))
}

// Wrap wraps an existing error with additional context
func Wrap(err error, message string) *Error {
	if err == nil {
		return nil
	}

	// Preserve code and severity of an already-structured cause
	if mdcErr, ok := err.(*Error); ok {
		wrapped := &Error{
			message:   message,
			cause:     mdcErr,
			code:      mdcErr.code,
			severity:  mdcErr.severity,
			timestamp: time.Now(),
			details:   make(map[string]interface{}),
			operation: mdcErr.operation,
		}
		for k, v := range mdcErr.details {
			wrapped.details[k] = v
		}
		return wrapped
	}

	return &Error{
		message:   message,
		cause:     err,
		code:      CodeUnknown,
		severity:  SeverityMedium,
		timestamp: time.Now(),
		details:   make(map[string]interface{}),
	}
}

// Error implements the standard error interface
func (e *Error) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %s", e.message, e.cause.Error())
	}
	return e.message
}

// Unwrap returns the underlying cause for error unwrapping
func (e *Error) Unwrap() error {
	return e.cause
}

// WithCode sets the error code and derives severity when not explicitly set
func (e *Error) WithCode(code Code) *Error {
	e.code = code
	if e.severity == SeverityMedium {
		e.severity = GetSeverityFromCode(code)
	}
	return e
}

// WithSeverity sets the error severity
func (e *Error) WithSeverity(severity Severity) *Error {
	e.severity = severity
	return e
}

// WithDetail adds a key-value detail to the error
func (e *Error) WithDetail(key string, value interface{}) *Error {
	e.details[key] = value
	return e
}

// WithOperation sets the operation that caused the error
func (e *Error) WithOperation(operation string) *Error {
	e.operation = operation
	return e
}

// Code returns the error code
func (e *Error) Code() Code {
	return e.code
}

// Severity returns the error severity
func (e *Error) Severity() Severity {
	return e.severity
}

// Timestamp returns when the error occurred
func (e *Error) Timestamp() time.Time {
	return e.timestamp
}

// Operation returns the operation that caused the error
func (e *Error) Operation() string {
	return e.operation
}

// Details returns a copy of the error details
func (e *Error) Details() map[string]interface{} {
	result := make(map[string]interface{}, len(e.details))
	for k, v := range e.details {
		result[k] = v
	}
	return result
}

// RootCause returns the deepest error in the cause chain
func (e *Error) RootCause() error {
	cause := e.cause
	for cause != nil {
		mdcErr, ok := cause.(*Error)
		if !ok || mdcErr.cause == nil {
			return cause
		}
		cause = mdcErr.cause
	}
	return e
}

// String returns a detailed multi-line representation of the error
func (e *Error) String() string {
	var parts []string

	parts = append(parts, fmt.Sprintf("Error: %s", e.message))
	parts = append(parts, fmt.Sprintf("Code: %s", e.code))
	parts = append(parts, fmt.Sprintf("Severity: %s", e.severity))

	if e.operation != "" {
		parts = append(parts, fmt.Sprintf("Operation: %s", e.operation))
	}

	if len(e.details) > 0 {
		detailStrs := make([]string, 0, len(e.details))
		for k, v := range e.details {
			detailStrs = append(detailStrs, fmt.Sprintf("%s=%v", k, v))
		}
		parts = append(parts, fmt.Sprintf("Details: {%s}", strings.Join(detailStrs, ", ")))
	}

	if e.cause != nil {
		parts = append(parts, fmt.Sprintf("Cause: %s", e.cause.Error()))
	}

	return strings.Join(parts, "\n")
}

// HasCode checks if an error or any of its causes carries a specific code
func HasCode(err error, code Code) bool {
	var mdcErr *Error
	if stderrors.As(err, &mdcErr) {
		return mdcErr.code == code
	}
	return false
}

// GetCode returns the error code, or CodeUnknown for foreign errors
func GetCode(err error) Code {
	var mdcErr *Error
	if stderrors.As(err, &mdcErr) {
		return mdcErr.code
	}
	return CodeUnknown
}

// GetSeverity returns the error severity, or SeverityMedium for foreign errors
func GetSeverity(err error) Severity {
	var mdcErr *Error
	if stderrors.As(err, &mdcErr) {
		return mdcErr.severity
	}
	return SeverityMedium
}
