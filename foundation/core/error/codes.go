// File: codes.go
// Title: Error Code Definitions
// Description: Defines standardized error codes for consistent error
//              classification across the mDC shell. Codes drive the dispatch
//              boundary reporting and the resolver fallthrough policy.
// Author: msto63
// Version: v0.1.0
// Created: 2025-11-02
// Modified: 2025-11-02
//
// Change History:
// - 2025-11-02 v0.1.0: Initial implementation with shell error codes

package error

// Code represents a structured error code for categorizing errors
type Code string

// Error codes for the mDC shell
const (
	// Generic codes
	CodeUnknown  Code = "UNKNOWN"
	CodeInternal Code = "INTERNAL"
	CodeTimeout  Code = "TIMEOUT"

	// Command dispatch and argument binding
	CodeParameterError      Code = "PARAMETER_ERROR"
	CodeParameterOutOfRange Code = "PARAMETER_OUT_OF_RANGE"

	// Object resolution and navigation
	CodeObjectNotPresent    Code = "OBJECT_NOT_PRESENT"
	CodeObjectClassMismatch Code = "OBJECT_CLASS_MISMATCH"
	CodeNoInitialValue      Code = "NO_INITIAL_VALUE"
	CodeProcessingFailed    Code = "PROCESSING_FAILED"

	// Connection state
	CodeNotConnected     Code = "NOT_CONNECTED"
	CodeConnectionFailed Code = "CONNECTION_FAILED"
	CodeNetworkError     Code = "NETWORK_ERROR"

	// Server capability absence; downgrades a feature flag, never shown
	// to the user as a command failure
	CodeNotImplemented Code = "NOT_IMPLEMENTED"

	// Configuration and environment
	CodeConfigError   Code = "CONFIG_ERROR"
	CodeInvalidConfig Code = "INVALID_CONFIG"
)

// String returns the string representation of the error code
func (c Code) String() string {
	return string(c)
}

// IsValid checks if the code is a known mDC error code
func (c Code) IsValid() bool {
	switch c {
	case CodeUnknown, CodeInternal, CodeTimeout,
		CodeParameterError, CodeParameterOutOfRange,
		CodeObjectNotPresent, CodeObjectClassMismatch,
		CodeNoInitialValue, CodeProcessingFailed,
		CodeNotConnected, CodeConnectionFailed, CodeNetworkError,
		CodeNotImplemented,
		CodeConfigError, CodeInvalidConfig:
		return true
	default:
		return false
	}
}
