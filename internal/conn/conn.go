// File: conn.go
// Title: Device Connection Interface
// Description: Defines the Device interface consumed by the shell core:
//              handle resolution, child enumeration, server-side path
//              search, property access, and event subscription. Wire
//              protocol and transport live behind implementations of this
//              interface.
// Author: msto63
// Version: v0.1.0
// Created: 2025-11-05
// Modified: 2025-11-05
//
// Change History:
// - 2025-11-05 v0.1.0: Initial connection interface

package conn

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/msto63/mDC/internal/object"
	"github.com/msto63/mDC/internal/path"
)

// SearchResult is one hit of a server-side search
type SearchResult struct {
	Handle        object.Handle
	Class         object.ClassID
	Role          string
	ContainerPath path.Path
}

// PropertyEvent is a property-change notification delivered outside the
// command path; consumers only print, never mutate navigation state
type PropertyEvent struct {
	Handle   object.Handle
	Property string
	Value    string
}

// Device is the connection to a remote device tree. Implementations own
// the handle/descriptor cache; the shell core only consumes it. All
// methods except Connect fail with a NOT_CONNECTED error while the
// connection is down.
type Device interface {
	Connect(ctx context.Context) error
	Disconnect(ctx context.Context) error
	Connected() bool

	// Root returns the descriptor of the root container
	Root() *object.Descriptor

	// Resolve performs cached-first handle resolution
	Resolve(ctx context.Context, handle object.Handle) (*object.Descriptor, error)

	// ResolveUnknownClass resolves a handle whose class identity is not
	// yet known, issuing a class-identification round trip if needed
	ResolveUnknownClass(ctx context.Context, handle object.Handle) (*object.Descriptor, error)

	// ListChildren enumerates a composite's children. With useCache the
	// call answers from already-resolved data only and fails softly when
	// nothing is cached yet.
	ListChildren(ctx context.Context, container *object.Descriptor, useCache bool) ([]*object.Descriptor, error)

	// FindByPath issues a single server-side path search below base.
	// Servers without the capability fail with a NOT_IMPLEMENTED error.
	FindByPath(ctx context.Context, base *object.Descriptor, p path.Path) ([]SearchResult, error)

	// FindByRole searches for roles containing substring (case-insensitive)
	FindByRole(ctx context.Context, base *object.Descriptor, substring string, recurse bool) ([]SearchResult, error)

	// Owner returns the owning container's handle (ownable objects only)
	Owner(ctx context.Context, d *object.Descriptor) (object.Handle, error)

	// Role returns the object's role name
	Role(ctx context.Context, d *object.Descriptor) (string, error)

	// RolePath returns the object's absolute role path, walking the
	// ownership chain where necessary
	RolePath(ctx context.Context, d *object.Descriptor) (path.Path, error)

	// Property access
	GetProperty(ctx context.Context, d *object.Descriptor, name string) (string, error)
	SetProperty(ctx context.Context, d *object.Descriptor, name, value string) error

	// Event subscription; events arrive on the channel returned by Events
	Subscribe(ctx context.Context, d *object.Descriptor, property string) error
	Unsubscribe(ctx context.Context, d *object.Descriptor, property string) error
	Events() <-chan PropertyEvent

	Stats() *Stats
}

// Stats tracks connection statistics. Counters are updated by the device
// implementation and read by the statistics command, which is also legal
// while disconnected.
type Stats struct {
	mu sync.Mutex

	CorrelationID string
	ConnectedAt   time.Time
	Requests      uint64
	Errors        uint64
	calls         map[string]uint64
}

// NewStats creates an empty statistics block
func NewStats() *Stats {
	return &Stats{calls: make(map[string]uint64)}
}

// Record counts one request for the named operation
func (s *Stats) Record(operation string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Requests++
	s.calls[operation]++
}

// RecordError counts one failed request
func (s *Stats) RecordError() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Errors++
}

// Calls returns a copy of the per-operation counters
func (s *Stats) Calls() map[string]uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	calls := make(map[string]uint64, len(s.calls))
	for k, v := range s.calls {
		calls[k] = v
	}
	return calls
}

// String renders the statistics for display
func (s *Stats) String() string {
	s.mu.Lock()
	defer s.mu.Unlock()

	var sb strings.Builder

	if s.CorrelationID != "" {
		fmt.Fprintf(&sb, "connection:  %s\n", s.CorrelationID)
	}
	if !s.ConnectedAt.IsZero() {
		fmt.Fprintf(&sb, "connected:   %s\n", s.ConnectedAt.Format(time.RFC3339))
	}
	fmt.Fprintf(&sb, "requests:    %d\n", s.Requests)
	fmt.Fprintf(&sb, "errors:      %d\n", s.Errors)

	if len(s.calls) > 0 {
		operations := make([]string, 0, len(s.calls))
		for op := range s.calls {
			operations = append(operations, op)
		}
		sort.Strings(operations)

		sb.WriteString("calls:\n")
		for _, op := range operations {
			fmt.Fprintf(&sb, "  %-20s %d\n", op, s.calls[op])
		}
	}

	return sb.String()
}
