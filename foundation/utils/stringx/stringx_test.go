// File: stringx_test.go
// Title: String Utility Unit Tests
// Description: Tests for the stringx helper functions.
// Author: msto63
// Version: v0.1.0
// Created: 2025-11-03
// Modified: 2025-11-03

package stringx

import "testing"

func TestIsBlank(t *testing.T) {
	tests := []struct {
		input    string
		expected bool
	}{
		{"", true},
		{"   ", true},
		{"\t\n", true},
		{"x", false},
		{"  x  ", false},
		{" ", true}, // non-breaking space
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := IsBlank(tt.input); got != tt.expected {
				t.Errorf("IsBlank(%q) = %v, expected %v", tt.input, got, tt.expected)
			}
		})
	}
}

func TestContainsWhitespace(t *testing.T) {
	tests := []struct {
		input    string
		expected bool
	}{
		{"Gain", false},
		{"Output Level", true},
		{"", false},
		{"tab\there", true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := ContainsWhitespace(tt.input); got != tt.expected {
				t.Errorf("ContainsWhitespace(%q) = %v, expected %v", tt.input, got, tt.expected)
			}
		})
	}
}

func TestContainsIgnoreCase(t *testing.T) {
	tests := []struct {
		s        string
		substr   string
		expected bool
	}{
		{"MainGain", "gain", true},
		{"MainGain", "GAIN", true},
		{"MainGain", "mute", false},
		{"", "", true},
	}

	for _, tt := range tests {
		if got := ContainsIgnoreCase(tt.s, tt.substr); got != tt.expected {
			t.Errorf("ContainsIgnoreCase(%q, %q) = %v, expected %v", tt.s, tt.substr, got, tt.expected)
		}
	}
}

func TestTruncate(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		max      int
		expected string
	}{
		{"No truncation", "short", 10, "short"},
		{"Exact fit", "short", 5, "short"},
		{"Truncated", "a longer string", 10, "a longe..."},
		{"Tiny limit", "abcdef", 2, "ab"},
		{"Zero limit", "abc", 0, ""},
		{"Unicode safe", "äöüäöü", 5, "äö..."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Truncate(tt.input, tt.max); got != tt.expected {
				t.Errorf("Truncate(%q, %d) = %q, expected %q", tt.input, tt.max, got, tt.expected)
			}
		})
	}
}
