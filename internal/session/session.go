// File: session.go
// Title: Session Context and Navigation State Machine
// Description: Owns the current-object pointer, the resolved current path,
//              the push/pop path stack, the completion set, and the sparse
//              path cache. All navigation state mutation goes through this
//              type; commands never write fields directly. Single-writer
//              by construction: one command executes at a time.
// Author: msto63
// Version: v0.1.0
// Created: 2025-11-07
// Modified: 2025-11-07
//
// Change History:
// - 2025-11-07 v0.1.0: Initial session state machine

package session

import (
	"context"
	"sort"

	mdcerror "github.com/msto63/mDC/foundation/core/error"
	"github.com/msto63/mDC/foundation/core/log"
	"github.com/msto63/mDC/internal/conn"
	"github.com/msto63/mDC/internal/object"
	"github.com/msto63/mDC/internal/path"
	"github.com/msto63/mDC/internal/resolve"
)

// Session is the per-connection navigation state. currentObject is never
// nil after New; currentPath may be nil when the role path cannot be
// determined, in which case displays fall back to the handle form.
type Session struct {
	device   conn.Device
	flags    *Flags
	resolver *resolve.Resolver
	logger   *log.Logger

	current     *object.Descriptor
	currentPath *path.Path
	stack       []*object.Descriptor
	completion  []string
}

// New creates a session rooted at the device's root container
func New(device conn.Device, logger *log.Logger) *Session {
	if logger == nil {
		logger = log.GetDefault()
	}

	flags := NewFlags()
	rootPath := path.Root

	return &Session{
		device:      device,
		flags:       flags,
		resolver:    resolve.New(device, resolve.NewCache(), flags, logger),
		logger:      logger.WithField("component", "session"),
		current:     device.Root(),
		currentPath: &rootPath,
	}
}

// Device returns the device connection
func (s *Session) Device() conn.Device {
	return s.device
}

// Flags returns the session feature flags
func (s *Session) Flags() *Flags {
	return s.flags
}

// Resolver returns the role-path resolver bound to this session
func (s *Session) Resolver() *resolve.Resolver {
	return s.resolver
}

// Current returns the object the session is "changed into"
func (s *Session) Current() *object.Descriptor {
	return s.current
}

// CurrentPath returns the resolved role path of the current object, or
// nil when it could not be determined
func (s *Session) CurrentPath() *path.Path {
	return s.currentPath
}

// StackDepth returns the number of entries on the path stack
func (s *Session) StackDepth() int {
	return len(s.stack)
}

// CompletionSet returns the child-role completion candidates, or nil
// when the current object offers none
func (s *Session) CompletionSet() []string {
	return s.completion
}

// PromptPath returns the display form for the REPL prompt
func (s *Session) PromptPath() string {
	if s.currentPath != nil {
		return s.currentPath.String()
	}
	return s.current.Handle.String()
}

// ResolveTarget resolves a path string against the current object
func (s *Session) ResolveTarget(ctx context.Context, target string) (*object.Descriptor, error) {
	return s.resolver.Resolve(ctx, path.Parse(target), s.current, s.currentPath)
}

// ChangeCurrentPath makes target the current object. The role path is
// recomputed by asking the device; a failure there does not abort the
// navigation, the path is simply recorded as unknown.
func (s *Session) ChangeCurrentPath(ctx context.Context, target *object.Descriptor) {
	s.current = target

	if rolePath, err := s.device.RolePath(ctx, target); err == nil {
		s.currentPath = &rolePath
	} else {
		s.logger.Debug("role path unavailable", log.Fields{"handle": target.Handle, "error": err})
		s.currentPath = nil
	}

	s.recomputeCompletion(ctx)
}

// ChangeCurrentPathTo resolves a path string and navigates to the result.
// Resolution failures propagate and leave the navigation state unchanged.
func (s *Session) ChangeCurrentPathTo(ctx context.Context, target string) error {
	resolved, err := s.ResolveTarget(ctx, target)
	if err != nil {
		return err
	}

	s.ChangeCurrentPath(ctx, resolved)
	return nil
}

// Push pushes the current object onto the stack and navigates to an
// already resolved target
func (s *Session) Push(ctx context.Context, target *object.Descriptor) {
	s.stack = append(s.stack, s.current)
	s.ChangeCurrentPath(ctx, target)
}

// PushPath pushes the current object onto the stack and navigates to the
// given target string. On resolution failure nothing changes.
func (s *Session) PushPath(ctx context.Context, target string) error {
	resolved, err := s.ResolveTarget(ctx, target)
	if err != nil {
		return err
	}

	s.Push(ctx, resolved)
	return nil
}

// PopPath navigates back to the most recently pushed object. Popping an
// empty stack is an error and leaves the state unchanged.
func (s *Session) PopPath(ctx context.Context) error {
	if len(s.stack) == 0 {
		return mdcerror.New("path stack is empty").
			WithCode(mdcerror.CodeNoInitialValue).
			WithOperation("session.PopPath")
	}

	top := s.stack[len(s.stack)-1]
	s.stack = s.stack[:len(s.stack)-1]
	s.ChangeCurrentPath(ctx, top)
	return nil
}

// Up navigates to the owner of the current object
func (s *Session) Up(ctx context.Context) error {
	return s.ChangeCurrentPathTo(ctx, "..")
}

// ClearCache drops every sparse path cache entry and the derived parts of
// the completion set. This is the only cache invalidation there is.
func (s *Session) ClearCache(ctx context.Context) {
	s.resolver.Cache().Clear()
	s.recomputeCompletion(ctx)
}

// Reset returns the session to the root after a reconnect
func (s *Session) Reset(ctx context.Context) {
	s.stack = nil
	s.resolver.Cache().Clear()
	s.ChangeCurrentPath(ctx, s.device.Root())
}

// recomputeCompletion rebuilds the completion set for the current object:
// locally cached child roles plus sparse-cache entries directly below the
// current path, quoted where a role contains whitespace
func (s *Session) recomputeCompletion(ctx context.Context) {
	if !s.current.IsComposite() {
		s.completion = nil
		return
	}

	seen := make(map[string]bool)
	var completions []string

	add := func(role string) {
		if role == "" || seen[role] {
			return
		}
		seen[role] = true
		completions = append(completions, path.Format([]string{role}, false, true))
	}

	if children, err := s.device.ListChildren(ctx, s.current, true); err == nil {
		for _, child := range children {
			add(child.Role())
		}
	}

	if s.currentPath != nil {
		for _, childPath := range s.resolver.Cache().ChildrenOf(*s.currentPath) {
			add(childPath.Leaf())
		}
	}

	sort.Strings(completions)
	s.completion = completions
}
