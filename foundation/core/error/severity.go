// File: severity.go
// Title: Error Severity Levels
// Description: Defines severity levels for errors to enable proper
//              prioritization in logs. User mistakes at the prompt are low
//              severity; connection failures are high.
// Author: msto63
// Version: v0.1.0
// Created: 2025-11-02
// Modified: 2025-11-02
//
// Change History:
// - 2025-11-02 v0.1.0: Initial implementation with severity levels

package error

// Severity represents the severity level of an error
type Severity int

const (
	// SeverityLow indicates a user-correctable error at the prompt
	// Examples: unknown command, malformed arguments, unresolvable path
	SeverityLow Severity = iota

	// SeverityMedium indicates an error that degrades functionality
	// Examples: server capability missing, processing failures
	SeverityMedium

	// SeverityHigh indicates a serious error affecting the session
	// Examples: lost connection, failed connect, network faults
	SeverityHigh

	// SeverityCritical indicates the shell cannot continue operating
	SeverityCritical
)

// String returns the string representation of the severity level
func (s Severity) String() string {
	switch s {
	case SeverityLow:
		return "low"
	case SeverityMedium:
		return "medium"
	case SeverityHigh:
		return "high"
	case SeverityCritical:
		return "critical"
	default:
		return "unknown"
	}
}

// Priority returns a priority value for sorting (higher = more urgent)
func (s Severity) Priority() int {
	return int(s)
}

// GetSeverityFromCode determines the default severity for an error code
func GetSeverityFromCode(code Code) Severity {
	switch code {
	case CodeConnectionFailed, CodeNetworkError, CodeInternal:
		return SeverityHigh

	case CodeProcessingFailed, CodeNotImplemented, CodeTimeout,
		CodeConfigError, CodeInvalidConfig:
		return SeverityMedium

	case CodeParameterError, CodeParameterOutOfRange,
		CodeObjectNotPresent, CodeObjectClassMismatch,
		CodeNoInitialValue, CodeNotConnected:
		return SeverityLow

	default:
		return SeverityMedium
	}
}
