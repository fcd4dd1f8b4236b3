// File: logger.go
// Title: Core Logger Implementation
// Description: Implements the main Logger type providing structured logging
//              with contextual fields, level filtering, and child loggers
//              scoped to individual mDC components.
// Author: msto63
// Version: v0.1.0
// Created: 2025-11-02
// Modified: 2025-11-02
//
// Change History:
// - 2025-11-02 v0.1.0: Initial implementation with structured logging

package log

import (
	"io"
	"os"
	"sync"
	"time"
)

// Logger represents a structured logger with contextual information
type Logger struct {
	level     Level
	formatter Formatter
	output    io.Writer
	name      string

	// Context fields added to every entry produced by this logger
	contextFields Fields
	correlationID string

	mutex sync.RWMutex
}

// Config represents logger configuration
type Config struct {
	Level  Level
	Format Format
	Output io.Writer
	Name   string
}

// New creates a new logger with default configuration
func New() *Logger {
	return &Logger{
		level:         DefaultLevel(),
		formatter:     NewTextFormatter(),
		output:        os.Stderr,
		contextFields: make(Fields),
	}
}

// NewWithConfig creates a new logger with the specified configuration
func NewWithConfig(config Config) *Logger {
	logger := &Logger{
		level:         config.Level,
		output:        config.Output,
		name:          config.Name,
		formatter:     GetFormatter(config.Format),
		contextFields: make(Fields),
	}

	if config.Output == nil {
		logger.output = os.Stderr
	}

	return logger
}

// clone creates a copy of the logger sharing output and formatter
func (l *Logger) clone() *Logger {
	fields := make(Fields, len(l.contextFields))
	for k, v := range l.contextFields {
		fields[k] = v
	}

	return &Logger{
		level:         l.level,
		formatter:     l.formatter,
		output:        l.output,
		name:          l.name,
		contextFields: fields,
		correlationID: l.correlationID,
	}
}

// WithLevel returns a copy of the logger with the given minimum level
func (l *Logger) WithLevel(level Level) *Logger {
	l.mutex.RLock()
	defer l.mutex.RUnlock()

	clone := l.clone()
	clone.level = level
	return clone
}

// WithField returns a copy of the logger with an additional context field
func (l *Logger) WithField(key string, value interface{}) *Logger {
	l.mutex.RLock()
	defer l.mutex.RUnlock()

	clone := l.clone()
	clone.contextFields[key] = value
	return clone
}

// WithFields returns a copy of the logger with additional context fields
func (l *Logger) WithFields(fields Fields) *Logger {
	l.mutex.RLock()
	defer l.mutex.RUnlock()

	clone := l.clone()
	for k, v := range fields {
		clone.contextFields[k] = v
	}
	return clone
}

// WithCorrelationID returns a copy of the logger carrying a correlation ID
func (l *Logger) WithCorrelationID(id string) *Logger {
	l.mutex.RLock()
	defer l.mutex.RUnlock()

	clone := l.clone()
	clone.correlationID = id
	return clone
}

// SetLevel changes the minimum level of this logger in place
func (l *Logger) SetLevel(level Level) {
	l.mutex.Lock()
	defer l.mutex.Unlock()
	l.level = level
}

// SetOutput changes the output writer of this logger in place
func (l *Logger) SetOutput(w io.Writer) {
	l.mutex.Lock()
	defer l.mutex.Unlock()
	l.output = w
}

// SetFormatter changes the formatter of this logger in place
func (l *Logger) SetFormatter(f Formatter) {
	l.mutex.Lock()
	defer l.mutex.Unlock()
	l.formatter = f
}

// Level returns the current minimum level of this logger
func (l *Logger) Level() Level {
	l.mutex.RLock()
	defer l.mutex.RUnlock()
	return l.level
}

// Trace logs a message at trace level
func (l *Logger) Trace(message string, fields ...Fields) {
	l.log(LevelTrace, message, nil, fields...)
}

// Debug logs a message at debug level
func (l *Logger) Debug(message string, fields ...Fields) {
	l.log(LevelDebug, message, nil, fields...)
}

// Info logs a message at info level
func (l *Logger) Info(message string, fields ...Fields) {
	l.log(LevelInfo, message, nil, fields...)
}

// Warn logs a message at warn level
func (l *Logger) Warn(message string, fields ...Fields) {
	l.log(LevelWarn, message, nil, fields...)
}

// Error logs a message at error level with an optional error value
func (l *Logger) Error(message string, err error, fields ...Fields) {
	l.log(LevelError, message, err, fields...)
}

// Fatal logs a message at fatal level and exits the process
func (l *Logger) Fatal(message string, err error, fields ...Fields) {
	l.log(LevelFatal, message, err, fields...)
	os.Exit(1)
}

// log builds and writes a single entry if the level passes the threshold
func (l *Logger) log(level Level, message string, err error, fields ...Fields) {
	l.mutex.RLock()
	threshold := l.level
	formatter := l.formatter
	output := l.output
	l.mutex.RUnlock()

	if !threshold.Enabled(level) {
		return
	}

	entry := &Entry{
		Timestamp:     time.Now(),
		Level:         level,
		Message:       message,
		Logger:        l.name,
		CorrelationID: l.correlationID,
		Fields:        merge(append([]Fields{l.contextFields}, fields...)...),
		Error:         err,
	}

	line, formatErr := formatter.Format(entry)
	if formatErr != nil {
		return
	}

	l.mutex.Lock()
	_, _ = output.Write(line)
	l.mutex.Unlock()
}

// Default logger management

var (
	defaultLogger *Logger
	defaultOnce   sync.Once
	defaultMutex  sync.RWMutex
)

// GetDefault returns the package-level default logger
func GetDefault() *Logger {
	defaultOnce.Do(func() {
		defaultMutex.Lock()
		if defaultLogger == nil {
			defaultLogger = New()
		}
		defaultMutex.Unlock()
	})

	defaultMutex.RLock()
	defer defaultMutex.RUnlock()
	return defaultLogger
}

// SetDefault replaces the package-level default logger
func SetDefault(logger *Logger) {
	if logger == nil {
		return
	}

	defaultOnce.Do(func() {})

	defaultMutex.Lock()
	defaultLogger = logger
	defaultMutex.Unlock()
}
