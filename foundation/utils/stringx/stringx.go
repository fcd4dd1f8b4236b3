// File: stringx.go
// Title: Core String Utility Functions
// Description: Implements small string helpers used across mDC, with
//              Unicode-safe behavior where it matters.
// Author: msto63
// Version: v0.1.0
// Created: 2025-11-03
// Modified: 2025-11-03
//
// Change History:
// - 2025-11-03 v0.1.0: Initial implementation with core utilities

package stringx

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// IsEmpty returns true if the string has length 0
func IsEmpty(s string) bool {
	return len(s) == 0
}

// IsBlank returns true if the string is empty or contains only whitespace
func IsBlank(s string) bool {
	for _, r := range s {
		if !unicode.IsSpace(r) {
			return false
		}
	}
	return true
}

// ContainsWhitespace returns true if any rune of the string is whitespace
func ContainsWhitespace(s string) bool {
	for _, r := range s {
		if unicode.IsSpace(r) {
			return true
		}
	}
	return false
}

// EqualsIgnoreCase compares two strings case-insensitively
func EqualsIgnoreCase(a, b string) bool {
	return strings.EqualFold(a, b)
}

// ContainsIgnoreCase reports whether substr occurs in s, ignoring case
func ContainsIgnoreCase(s, substr string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(substr))
}

// Truncate shortens a string to at most maxRunes runes, appending an
// ellipsis when truncation occurred
func Truncate(s string, maxRunes int) string {
	if maxRunes <= 0 {
		return ""
	}
	if utf8.RuneCountInString(s) <= maxRunes {
		return s
	}

	runes := []rune(s)
	if maxRunes <= 3 {
		return string(runes[:maxRunes])
	}
	return string(runes[:maxRunes-3]) + "..."
}
