// File: dispatch_test.go
// Title: Dispatcher and Command Tests
// Description: Tests for the dispatch pipeline: lookup, class restriction,
//              argument binding and arity, the offline allow-list, and the
//              built-in command behavior end to end
// Author: msto63
// Version: v0.1.0
// Created: 2025-11-08
// Modified: 2025-11-08
//
// Change History:
// - 2025-11-08 v0.1.0: Initial test suite

package shell

import (
	"bytes"
	"context"
	"strings"
	"testing"

	mdcerror "github.com/msto63/mDC/foundation/core/error"
	"github.com/msto63/mDC/internal/conn"
	"github.com/msto63/mDC/internal/object"
	"github.com/msto63/mDC/internal/session"
)

type testShell struct {
	device     *conn.MemDevice
	session    *session.Session
	registry   *Registry
	dispatcher *Dispatcher
	buf        *bytes.Buffer
}

func newTestShell(t *testing.T, connected bool) *testShell {
	t.Helper()

	device := conn.NewMemDevice(conn.DemoTree())
	if connected {
		if err := device.Connect(context.Background()); err != nil {
			t.Fatalf("Connect failed: %v", err)
		}
	}

	s := session.New(device, nil)
	registry := NewRegistry(nil)
	RegisterBuiltins(registry)

	buf := &bytes.Buffer{}
	return &testShell{
		device:     device,
		session:    s,
		registry:   registry,
		dispatcher: NewDispatcher(registry, s, NewOutput(buf), nil),
		buf:        buf,
	}
}

func (ts *testShell) dispatch(t *testing.T, line string) {
	t.Helper()
	if err := ts.dispatcher.Dispatch(context.Background(), line); err != nil {
		t.Fatalf("Dispatch(%q) failed: %v", line, err)
	}
}

func TestDispatchUnknownCommand(t *testing.T) {
	ts := newTestShell(t, true)

	err := ts.dispatcher.Dispatch(context.Background(), "frobnicate")
	if !mdcerror.HasCode(err, mdcerror.CodeParameterError) {
		t.Fatalf("Expected PARAMETER_ERROR, got %v", err)
	}
}

func TestDispatchEmptyLine(t *testing.T) {
	ts := newTestShell(t, true)

	if err := ts.dispatcher.Dispatch(context.Background(), "   "); err != nil {
		t.Fatalf("Empty line should be a no-op, got %v", err)
	}
}

func TestBinderArityMatrix(t *testing.T) {
	ts := newTestShell(t, true)
	ts.registry.Register(&Spec{
		Names:   []string{"pair"},
		Summary: "test command with one required and one optional slot",
		MinArgs: 1,
		Args: []ArgSpec{
			{Name: "first", Type: ArgString},
			{Name: "second", Type: ArgString},
		},
		Run: func(ctx context.Context, env *Env, args *Args) error { return nil },
	})

	tests := []struct {
		name    string
		line    string
		wantErr bool
	}{
		{"zero tokens", "pair", true},
		{"minimum met", "pair a", false},
		{"all slots", "pair a b", false},
		{"too many", "pair a b c", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ts.dispatcher.Dispatch(context.Background(), tt.line)
			if tt.wantErr {
				if !mdcerror.HasCode(err, mdcerror.CodeParameterOutOfRange) {
					t.Fatalf("Expected PARAMETER_OUT_OF_RANGE, got %v", err)
				}
			} else if err != nil {
				t.Fatalf("Dispatch(%q) failed: %v", tt.line, err)
			}
		})
	}
}

func TestOptionalSlotStaysUnset(t *testing.T) {
	ts := newTestShell(t, true)

	var sawSecond bool
	ts.registry.Register(&Spec{
		Names:   []string{"peek"},
		Summary: "records whether the optional slot was bound",
		MinArgs: 1,
		Args: []ArgSpec{
			{Name: "first", Type: ArgString},
			{Name: "second", Type: ArgString},
		},
		Run: func(ctx context.Context, env *Env, args *Args) error {
			sawSecond = args.Bound(1)
			return nil
		},
	})

	ts.dispatch(t, "peek only")
	if sawSecond {
		t.Error("Optional slot reported bound without a token")
	}
}

func TestClassRestrictionBeforeBinding(t *testing.T) {
	ts := newTestShell(t, true)
	ts.registry.Register(&Spec{
		Names:   []string{"blockonly"},
		Summary: "restricted test command",
		Classes: []object.ClassID{object.ClassBlock},
		Args:    []ArgSpec{{Name: "count", Type: ArgInt}},
		Run:     func(ctx context.Context, env *Env, args *Args) error { return nil },
	})

	ts.dispatch(t, "cd Block/Gain")

	// The argument is unparsable as an int; the class check must reject
	// the command before binding ever sees it.
	err := ts.dispatcher.Dispatch(context.Background(), "blockonly notanumber")
	if !mdcerror.HasCode(err, mdcerror.CodeObjectClassMismatch) {
		t.Fatalf("Expected OBJECT_CLASS_MISMATCH, got %v", err)
	}
}

func TestClassRestrictionSubclassCompatible(t *testing.T) {
	ts := newTestShell(t, true)

	// Gain derives from Worker, so the property commands apply
	ts.dispatch(t, "cd Block/Gain")
	ts.dispatch(t, "get gain")

	if !strings.Contains(ts.buf.String(), "gain = 0.0") {
		t.Errorf("Output = %q, expected gain = 0.0", ts.buf.String())
	}
}

func TestPropertyCommandOnCompositeFails(t *testing.T) {
	ts := newTestShell(t, true)

	err := ts.dispatcher.Dispatch(context.Background(), "get gain")
	if !mdcerror.HasCode(err, mdcerror.CodeObjectClassMismatch) {
		t.Fatalf("Expected OBJECT_CLASS_MISMATCH at composite root, got %v", err)
	}
}

func TestBinderTypes(t *testing.T) {
	ts := newTestShell(t, true)

	var gotBool bool
	var gotInt int64
	var gotUint uint64
	var gotFloat float64
	var gotURL string
	ts.registry.Register(&Spec{
		Names:   []string{"typed"},
		Summary: "captures every argument type",
		Args: []ArgSpec{
			{Name: "b", Type: ArgBool},
			{Name: "i", Type: ArgInt},
			{Name: "u", Type: ArgUint},
			{Name: "f", Type: ArgFloat},
			{Name: "l", Type: ArgURL},
		},
		Run: func(ctx context.Context, env *Env, args *Args) error {
			gotBool = args.Bool(0, false)
			gotInt = args.Int(1, 0)
			gotUint = args.Uint(2, 0)
			gotFloat = args.Float(3, 0)
			gotURL = args.URL(4).Host
			return nil
		},
	})

	ts.dispatch(t, "typed yes -42 0x1F 1.5 tcp://device:4444")

	if !gotBool {
		t.Error("Truthy token yes bound to false")
	}
	if gotInt != -42 {
		t.Errorf("Int = %d, expected -42", gotInt)
	}
	if gotUint != 0x1F {
		t.Errorf("Uint = %d, expected 31", gotUint)
	}
	if gotFloat != 1.5 {
		t.Errorf("Float = %g, expected 1.5", gotFloat)
	}
	if gotURL != "device:4444" {
		t.Errorf("URL host = %q, expected device:4444", gotURL)
	}
}

func TestBinderRejectsBadBool(t *testing.T) {
	ts := newTestShell(t, true)
	ts.registry.Register(&Spec{
		Names:   []string{"flagged"},
		Summary: "single boolean slot",
		Args:    []ArgSpec{{Name: "b", Type: ArgBool}},
		Run:     func(ctx context.Context, env *Env, args *Args) error { return nil },
	})

	err := ts.dispatcher.Dispatch(context.Background(), "flagged maybe")
	if !mdcerror.HasCode(err, mdcerror.CodeParameterError) {
		t.Fatalf("Expected PARAMETER_ERROR, got %v", err)
	}
}

func TestRequiredSlotsRejectZeroTokens(t *testing.T) {
	ts := newTestShell(t, true)

	// Commands whose declared slot is required must fail arity on a bare
	// invocation instead of executing with nothing bound.
	for _, line := range []string{"pushd", "find", "set-flag", "clear-flag"} {
		err := ts.dispatcher.Dispatch(context.Background(), line)
		if !mdcerror.HasCode(err, mdcerror.CodeParameterOutOfRange) {
			t.Errorf("Dispatch(%q): expected PARAMETER_OUT_OF_RANGE, got %v", line, err)
		}
	}
	if ts.session.StackDepth() != 0 {
		t.Errorf("StackDepth = %d after bare pushd, expected 0", ts.session.StackDepth())
	}

	ts.dispatch(t, "cd Block/Gain")
	requests := ts.device.Stats().Requests

	for _, line := range []string{"get", "subscribe", "unsubscribe"} {
		err := ts.dispatcher.Dispatch(context.Background(), line)
		if !mdcerror.HasCode(err, mdcerror.CodeParameterOutOfRange) {
			t.Errorf("Dispatch(%q): expected PARAMETER_OUT_OF_RANGE, got %v", line, err)
		}
	}
	if err := ts.dispatcher.Dispatch(context.Background(), "set gain"); !mdcerror.HasCode(err, mdcerror.CodeParameterOutOfRange) {
		t.Errorf("Dispatch(set gain): expected PARAMETER_OUT_OF_RANGE, got %v", err)
	}

	// Arity failures must never reach the device
	if ts.device.Stats().Requests != requests {
		t.Errorf("Requests = %d, expected unchanged %d", ts.device.Stats().Requests, requests)
	}
}

func TestFlagCommandsRequireConnection(t *testing.T) {
	ts := newTestShell(t, false)

	for _, line := range []string{"flags", "set-flag trace", "clear-flag trace"} {
		err := ts.dispatcher.Dispatch(context.Background(), line)
		if !mdcerror.HasCode(err, mdcerror.CodeNotConnected) {
			t.Errorf("Dispatch(%q): expected NOT_CONNECTED, got %v", line, err)
		}
	}
}

func TestOfflineAllowList(t *testing.T) {
	ts := newTestShell(t, false)

	// statistics is on the allow-list
	ts.dispatch(t, "statistics")
	ts.dispatch(t, "help")

	err := ts.dispatcher.Dispatch(context.Background(), "pwd")
	if !mdcerror.HasCode(err, mdcerror.CodeNotConnected) {
		t.Fatalf("Expected NOT_CONNECTED for pwd while offline, got %v", err)
	}
}

func TestCdPwdScenario(t *testing.T) {
	ts := newTestShell(t, true)

	ts.dispatch(t, "cd Block/Gain")
	ts.dispatch(t, "pwd")

	if !strings.Contains(ts.buf.String(), "/Block/Gain") {
		t.Errorf("Output = %q, expected /Block/Gain", ts.buf.String())
	}
}

func TestCdQuotedRole(t *testing.T) {
	ts := newTestShell(t, true)

	ts.dispatch(t, "cd Block")
	ts.dispatch(t, `cd "Output Level"`)
	ts.dispatch(t, "pwd")

	if !strings.Contains(ts.buf.String(), "/Block/Output Level") {
		t.Errorf("Output = %q, expected /Block/Output Level", ts.buf.String())
	}
}

func TestCdWithoutArgumentReturnsToRoot(t *testing.T) {
	ts := newTestShell(t, true)

	ts.dispatch(t, "cd Block")
	ts.dispatch(t, "cd")

	if ts.session.PromptPath() != "/" {
		t.Errorf("PromptPath = %q, expected /", ts.session.PromptPath())
	}
}

func TestPathSearchDowngradeScenario(t *testing.T) {
	ts := newTestShell(t, true)
	ts.device.SetFindByPathSupported(false)

	ts.dispatch(t, "cd Block/Gain")

	if ts.session.Flags().Enabled(session.FlagPathSearch) {
		t.Error("Path search flag still set after capability downgrade")
	}
	if ts.session.Resolver().Cache().Len() != 0 {
		t.Error("Enumeration fallback must not populate the sparse cache")
	}
	if ts.session.PromptPath() != "/Block/Gain" {
		t.Errorf("PromptPath = %q, expected /Block/Gain", ts.session.PromptPath())
	}
}

func TestSetGetRoundTrip(t *testing.T) {
	ts := newTestShell(t, true)

	ts.dispatch(t, "cd Block/Gain")
	ts.dispatch(t, "set gain -6.0")
	ts.dispatch(t, "get gain")

	if !strings.Contains(ts.buf.String(), "gain = -6.0") {
		t.Errorf("Output = %q, expected gain = -6.0", ts.buf.String())
	}
}

func TestLsListsChildren(t *testing.T) {
	ts := newTestShell(t, true)

	ts.dispatch(t, "ls Block")

	out := ts.buf.String()
	for _, role := range []string{"Gain", "Mute", "Output Level"} {
		if !strings.Contains(out, role) {
			t.Errorf("ls output %q missing %q", out, role)
		}
	}
}

func TestLsOnLeafFails(t *testing.T) {
	ts := newTestShell(t, true)

	ts.dispatch(t, "cd Block/Gain")
	err := ts.dispatcher.Dispatch(context.Background(), "ls")
	if !mdcerror.HasCode(err, mdcerror.CodeObjectClassMismatch) {
		t.Fatalf("Expected OBJECT_CLASS_MISMATCH, got %v", err)
	}
}

func TestTreePrintsSubtree(t *testing.T) {
	ts := newTestShell(t, true)

	ts.dispatch(t, "tree")

	out := ts.buf.String()
	for _, role := range []string{"Block", "Monitoring", "Level", "DeviceManager"} {
		if !strings.Contains(out, role) {
			t.Errorf("tree output %q missing %q", out, role)
		}
	}
}

func TestFindBySubstring(t *testing.T) {
	ts := newTestShell(t, true)

	ts.dispatch(t, "find level")

	out := ts.buf.String()
	if !strings.Contains(out, "/Block/Output Level") || !strings.Contains(out, "/Monitoring/Level") {
		t.Errorf("find output %q missing expected matches", out)
	}
}

func TestFlagCommands(t *testing.T) {
	ts := newTestShell(t, true)

	ts.dispatch(t, "clear-flag enableSparsePathCache")
	if ts.session.Flags().Enabled(session.FlagSparsePathCache) {
		t.Error("Flag still set after clear-flag")
	}

	ts.dispatch(t, "set-flag trace")
	if !ts.session.Flags().Enabled(session.FlagTrace) {
		t.Error("Flag not set after set-flag")
	}

	err := ts.dispatcher.Dispatch(context.Background(), "set-flag bogus")
	if !mdcerror.HasCode(err, mdcerror.CodeParameterError) {
		t.Fatalf("Expected PARAMETER_ERROR for unknown flag, got %v", err)
	}
}

func TestClearCacheCommand(t *testing.T) {
	ts := newTestShell(t, true)

	ts.dispatch(t, "cd Block/Gain")
	if ts.session.Resolver().Cache().Len() == 0 {
		t.Fatal("Expected a populated sparse cache before clearing")
	}

	ts.dispatch(t, "cd /")
	ts.dispatch(t, "clear-cache")
	if ts.session.Resolver().Cache().Len() != 0 {
		t.Error("Sparse cache not empty after clear-cache")
	}
}

func TestHelpListsCommands(t *testing.T) {
	ts := newTestShell(t, false)

	ts.dispatch(t, "help")

	out := ts.buf.String()
	for _, name := range []string{"cd", "connect", "find", "statistics"} {
		if !strings.Contains(out, name) {
			t.Errorf("help output missing %q", name)
		}
	}

	ts.buf.Reset()
	ts.dispatch(t, "help find")
	if !strings.Contains(ts.buf.String(), "substring") {
		t.Errorf("help find output %q missing argument name", ts.buf.String())
	}
}

func TestRegistryDuplicatePanics(t *testing.T) {
	registry := NewRegistry(nil)
	RegisterBuiltins(registry)

	defer func() {
		if recover() == nil {
			t.Fatal("Expected duplicate registration to panic")
		}
	}()
	registry.Register(&Spec{
		Names:   []string{"CD"},
		Summary: "colliding alias",
		Run:     func(ctx context.Context, env *Env, args *Args) error { return nil },
	})
}

func TestCompleteLine(t *testing.T) {
	ts := newTestShell(t, true)

	names := ts.registry.CompleteLine("cl", ts.session)
	found := false
	for _, name := range names {
		if name == "clear-cache" {
			found = true
		}
		if !strings.HasPrefix(name, "cl") {
			t.Errorf("Completion %q does not match prefix", name)
		}
	}
	if !found {
		t.Error("clear-cache missing from prefix completions")
	}

	completions := ts.registry.CompleteLine("set-flag ", ts.session)
	foundFlag := false
	for _, completion := range completions {
		if completion == "set-flag trace" {
			foundFlag = true
		}
	}
	if !foundFlag {
		t.Errorf("Completions %v missing set-flag trace", completions)
	}
}

func TestCompletionSetSuggestsChildren(t *testing.T) {
	ts := newTestShell(t, true)

	ts.dispatch(t, "cd Block")
	ts.dispatch(t, "ls")
	ts.dispatch(t, "cd .")

	completions := ts.registry.CompleteLine("cd ", ts.session)
	foundQuoted := false
	for _, completion := range completions {
		if completion == `cd "Output Level"` {
			foundQuoted = true
		}
	}
	if !foundQuoted {
		t.Errorf("Completions %v missing quoted child role", completions)
	}
}
