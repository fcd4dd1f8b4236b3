// File: entry.go
// Title: Log Entry Structure
// Description: Defines the log entry structure holding all information about
//              a single log message, plus convenience constructors for
//              commonly used field shapes.
// Author: msto63
// Version: v0.1.0
// Created: 2025-11-02
// Modified: 2025-11-02
//
// Change History:
// - 2025-11-02 v0.1.0: Initial implementation

package log

import (
	"time"
)

// Entry represents a single log entry with all its metadata
type Entry struct {
	Timestamp time.Time
	Level     Level
	Message   string
	Logger    string

	// Correlation across a single device connection
	CorrelationID string

	// Custom fields
	Fields Fields

	// Error information
	Error error

	// Performance metrics
	Duration time.Duration
}

// Fields represents custom key-value pairs for structured logging
type Fields map[string]interface{}

// Field creates a single field for logging
func Field(key string, value interface{}) Fields {
	return Fields{key: value}
}

// Err creates an error field for logging
func Err(err error) Fields {
	return Fields{"error": err}
}

// String creates a string field for logging
func String(key string, value string) Fields {
	return Fields{key: value}
}

// Int creates an integer field for logging
func Int(key string, value int) Fields {
	return Fields{key: value}
}

// Bool creates a boolean field for logging
func Bool(key string, value bool) Fields {
	return Fields{key: value}
}

// Duration creates a duration field for logging
func Duration(key string, value time.Duration) Fields {
	return Fields{key: value}
}

// merge combines multiple field maps into one, later maps winning on conflict
func merge(fieldMaps ...Fields) Fields {
	merged := make(Fields)
	for _, fields := range fieldMaps {
		for k, v := range fields {
			merged[k] = v
		}
	}
	return merged
}
