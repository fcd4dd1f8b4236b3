// File: error_test.go
// Title: Core Error Unit Tests
// Description: Tests for error construction, wrapping, code propagation,
//              and code-based matching helpers.
// Author: msto63
// Version: v0.1.0
// Created: 2025-11-02
// Modified: 2025-11-02

package error

import (
	stderrors "errors"
	"fmt"
	"strings"
	"testing"
)

func TestNewWithCode(t *testing.T) {
	tests := []struct {
		name             string
		code             Code
		expectedSeverity Severity
	}{
		{"Parameter error is low severity", CodeParameterError, SeverityLow},
		{"Object not present is low severity", CodeObjectNotPresent, SeverityLow},
		{"Class mismatch is low severity", CodeObjectClassMismatch, SeverityLow},
		{"Connection failure is high severity", CodeConnectionFailed, SeverityHigh},
		{"Not implemented is medium severity", CodeNotImplemented, SeverityMedium},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := New("test").WithCode(tt.code)

			if err.Code() != tt.code {
				t.Errorf("Expected code %s, got %s", tt.code, err.Code())
			}
			if err.Severity() != tt.expectedSeverity {
				t.Errorf("Expected severity %s, got %s", tt.expectedSeverity, err.Severity())
			}
		})
	}
}

func TestWrapPreservesCode(t *testing.T) {
	inner := New("no such child").
		WithCode(CodeObjectNotPresent).
		WithDetail("role", "Gain")

	outer := Wrap(inner, "cd failed")

	if outer.Code() != CodeObjectNotPresent {
		t.Errorf("Expected wrapped code OBJECT_NOT_PRESENT, got %s", outer.Code())
	}
	if outer.Details()["role"] != "Gain" {
		t.Errorf("Expected detail to survive wrapping, got %v", outer.Details())
	}
	if !strings.Contains(outer.Error(), "cd failed") || !strings.Contains(outer.Error(), "no such child") {
		t.Errorf("Unexpected error text: %q", outer.Error())
	}
}

func TestWrapNil(t *testing.T) {
	if Wrap(nil, "ignored") != nil {
		t.Error("Wrap(nil) must return nil")
	}
}

func TestUnwrapChain(t *testing.T) {
	root := fmt.Errorf("socket closed")
	mid := Wrap(root, "request failed")
	top := Wrap(mid, "ls failed")

	if !stderrors.Is(top, root) {
		t.Error("errors.Is must find the root cause through the chain")
	}
	if top.RootCause() != root {
		t.Errorf("Expected RootCause to be the socket error, got %v", top.RootCause())
	}
}

func TestHasCode(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		code     Code
		expected bool
	}{
		{
			name:     "Direct match",
			err:      New("x").WithCode(CodeNotConnected),
			code:     CodeNotConnected,
			expected: true,
		},
		{
			name:     "Mismatch",
			err:      New("x").WithCode(CodeNotConnected),
			code:     CodeObjectNotPresent,
			expected: false,
		},
		{
			name:     "Through std wrapping",
			err:      fmt.Errorf("outer: %w", New("x").WithCode(CodeNoInitialValue)),
			code:     CodeNoInitialValue,
			expected: true,
		},
		{
			name:     "Foreign error",
			err:      fmt.Errorf("plain"),
			code:     CodeUnknown,
			expected: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := HasCode(tt.err, tt.code); got != tt.expected {
				t.Errorf("HasCode(%v, %s) = %v, expected %v", tt.err, tt.code, got, tt.expected)
			}
		})
	}
}

func TestGetCodeForeignError(t *testing.T) {
	if GetCode(fmt.Errorf("plain")) != CodeUnknown {
		t.Error("Foreign errors must map to CodeUnknown")
	}
}

func TestCodeIsValid(t *testing.T) {
	valid := []Code{
		CodeParameterError, CodeParameterOutOfRange, CodeObjectClassMismatch,
		CodeObjectNotPresent, CodeNotConnected, CodeNoInitialValue,
		CodeNotImplemented, CodeProcessingFailed,
	}
	for _, code := range valid {
		if !code.IsValid() {
			t.Errorf("Code %s must be valid", code)
		}
	}

	if Code("BANANA").IsValid() {
		t.Error("Unknown codes must not validate")
	}
}
