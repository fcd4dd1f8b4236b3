// File: format.go
// Title: Log Format Definitions
// Description: Defines output formats for log messages including JSON, text,
//              and colored console output. Formatters render a single Entry
//              into bytes ready for the output writer.
// Author: msto63
// Version: v0.1.0
// Created: 2025-11-02
// Modified: 2025-11-02
//
// Change History:
// - 2025-11-02 v0.1.0: Initial implementation with JSON/text/console formats

package log

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"time"
)

// Format represents the output format for log messages
type Format int

const (
	// FormatJSON outputs structured JSON logs
	FormatJSON Format = iota

	// FormatText outputs human-readable text logs
	FormatText

	// FormatConsole outputs colored console logs for development
	FormatConsole
)

// String returns the string representation of the format
func (f Format) String() string {
	switch f {
	case FormatJSON:
		return "json"
	case FormatText:
		return "text"
	case FormatConsole:
		return "console"
	default:
		return "unknown"
	}
}

// ParseFormat parses a string into a log format
func ParseFormat(format string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(format)) {
	case "json":
		return FormatJSON, nil
	case "text":
		return FormatText, nil
	case "console":
		return FormatConsole, nil
	default:
		return FormatText, fmt.Errorf("unknown log format: %q", format)
	}
}

// Formatter defines the interface for log formatters
type Formatter interface {
	Format(entry *Entry) ([]byte, error)
}

// GetFormatter returns the formatter for the given format
func GetFormatter(format Format) Formatter {
	switch format {
	case FormatJSON:
		return NewJSONFormatter()
	case FormatConsole:
		return NewConsoleFormatter()
	default:
		return NewTextFormatter()
	}
}

// JSONFormatter formats log entries as JSON
type JSONFormatter struct {
	TimestampFormat string
}

// NewJSONFormatter creates a new JSON formatter
func NewJSONFormatter() *JSONFormatter {
	return &JSONFormatter{TimestampFormat: time.RFC3339}
}

// Format formats a log entry as JSON
func (f *JSONFormatter) Format(entry *Entry) ([]byte, error) {
	data := make(map[string]interface{})

	data["timestamp"] = entry.Timestamp.Format(f.TimestampFormat)
	data["level"] = entry.Level.String()
	data["message"] = entry.Message

	if entry.Logger != "" {
		data["logger"] = entry.Logger
	}

	if entry.CorrelationID != "" {
		data["correlation_id"] = entry.CorrelationID
	}

	for k, v := range entry.Fields {
		data[k] = v
	}

	if entry.Error != nil {
		data["error"] = entry.Error.Error()
	}

	if entry.Duration > 0 {
		data["duration_ms"] = float64(entry.Duration.Nanoseconds()) / 1e6
	}

	line, err := json.Marshal(data)
	if err != nil {
		return nil, err
	}
	return append(line, '\n'), nil
}

// TextFormatter formats log entries as human-readable text
type TextFormatter struct {
	TimestampFormat string
}

// NewTextFormatter creates a new text formatter
func NewTextFormatter() *TextFormatter {
	return &TextFormatter{TimestampFormat: "2006-01-02 15:04:05.000"}
}

// Format formats a log entry as text
func (f *TextFormatter) Format(entry *Entry) ([]byte, error) {
	var sb strings.Builder

	sb.WriteString(entry.Timestamp.Format(f.TimestampFormat))
	sb.WriteString(" [")
	sb.WriteString(entry.Level.ShortString())
	sb.WriteString("] ")

	if entry.Logger != "" {
		sb.WriteString(entry.Logger)
		sb.WriteString(": ")
	}

	sb.WriteString(entry.Message)
	writeFields(&sb, entry)
	sb.WriteByte('\n')

	return []byte(sb.String()), nil
}

// ConsoleFormatter formats log entries with ANSI colors for development
type ConsoleFormatter struct {
	TimestampFormat string
}

// NewConsoleFormatter creates a new console formatter
func NewConsoleFormatter() *ConsoleFormatter {
	return &ConsoleFormatter{TimestampFormat: "15:04:05.000"}
}

// Format formats a log entry with colors
func (f *ConsoleFormatter) Format(entry *Entry) ([]byte, error) {
	var sb strings.Builder

	sb.WriteString(entry.Timestamp.Format(f.TimestampFormat))
	sb.WriteByte(' ')
	sb.WriteString(entry.Level.Color())
	sb.WriteString(entry.Level.ShortString())
	sb.WriteString("\033[0m ")

	if entry.Logger != "" {
		sb.WriteString("\033[90m")
		sb.WriteString(entry.Logger)
		sb.WriteString("\033[0m ")
	}

	sb.WriteString(entry.Message)
	writeFields(&sb, entry)
	sb.WriteByte('\n')

	return []byte(sb.String()), nil
}

// writeFields appends sorted key=value pairs plus error and duration
func writeFields(sb *strings.Builder, entry *Entry) {
	if len(entry.Fields) > 0 {
		keys := make([]string, 0, len(entry.Fields))
		for k := range entry.Fields {
			keys = append(keys, k)
		}
		sort.Strings(keys)

		for _, k := range keys {
			fmt.Fprintf(sb, " %s=%v", k, entry.Fields[k])
		}
	}

	if entry.CorrelationID != "" {
		fmt.Fprintf(sb, " correlation_id=%s", entry.CorrelationID)
	}

	if entry.Error != nil {
		fmt.Fprintf(sb, " error=%q", entry.Error.Error())
	}

	if entry.Duration > 0 {
		fmt.Fprintf(sb, " duration=%s", entry.Duration)
	}
}
