// File: repl_test.go
// Title: REPL Tests
// Description: Tests for batch execution, the exit command, and the
//              orderly disconnect on end of input
// Author: msto63
// Version: v0.1.0
// Created: 2025-11-08
// Modified: 2025-11-08
//
// Change History:
// - 2025-11-08 v0.1.0: Initial test suite

package shell

import (
	"context"
	"strings"
	"testing"
)

func TestRunBatch(t *testing.T) {
	ts := newTestShell(t, true)
	repl := NewREPL(ts.dispatcher, strings.NewReader(""), NewOutput(ts.buf), nil)

	err := repl.RunBatch(context.Background(), []string{"cd Block/Gain", "pwd", "get gain"})
	if err != nil {
		t.Fatalf("RunBatch failed: %v", err)
	}

	out := ts.buf.String()
	if !strings.Contains(out, "/Block/Gain") || !strings.Contains(out, "gain = 0.0") {
		t.Errorf("Batch output = %q, missing expected lines", out)
	}
	if ts.device.Connected() {
		t.Error("Device still connected after batch run")
	}
}

func TestRunBatchStopsOnFirstError(t *testing.T) {
	ts := newTestShell(t, true)
	repl := NewREPL(ts.dispatcher, strings.NewReader(""), NewOutput(ts.buf), nil)

	err := repl.RunBatch(context.Background(), []string{"cd NoSuchRole", "pwd"})
	if err == nil {
		t.Fatal("Expected batch to fail on unresolvable path")
	}
	for _, line := range strings.Split(ts.buf.String(), "\n") {
		if line == "/" {
			t.Error("Command after the failing one still ran")
		}
	}
}

func TestRunExitsOnEOF(t *testing.T) {
	ts := newTestShell(t, true)
	repl := NewREPL(ts.dispatcher, strings.NewReader("cd Block\npwd\n"), NewOutput(ts.buf), nil)

	if err := repl.Run(context.Background()); err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if !strings.Contains(ts.buf.String(), "/Block") {
		t.Errorf("Output = %q, expected /Block from pwd", ts.buf.String())
	}
	if ts.device.Connected() {
		t.Error("Device still connected after EOF")
	}
}

func TestRunExitCommand(t *testing.T) {
	ts := newTestShell(t, true)
	repl := NewREPL(ts.dispatcher, strings.NewReader("exit\npwd\n"), NewOutput(ts.buf), nil)

	if err := repl.Run(context.Background()); err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if ts.buf.Len() != 0 {
		t.Errorf("Output = %q, expected nothing after exit", ts.buf.String())
	}
	if ts.device.Connected() {
		t.Error("Device still connected after exit")
	}
}

func TestErrorKeepsLoopRunning(t *testing.T) {
	ts := newTestShell(t, true)
	repl := NewREPL(ts.dispatcher, strings.NewReader("cd NoSuchRole\npwd\n"), NewOutput(ts.buf), nil)

	if err := repl.Run(context.Background()); err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	out := ts.buf.String()
	if !strings.Contains(out, "error:") {
		t.Errorf("Output = %q, expected a reported error", out)
	}

	sawPwd := false
	for _, line := range strings.Split(out, "\n") {
		if line == "/" {
			sawPwd = true
		}
	}
	if !sawPwd {
		t.Errorf("Output = %q, expected pwd to run after the error", out)
	}
}
