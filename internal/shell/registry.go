// File: registry.go
// Title: Command Registry
// Description: Owns the table of available commands. Every name and alias
//              maps to exactly one specification; duplicates are a startup
//              invariant violation and panic at registration time.
// Author: msto63
// Version: v0.1.0
// Created: 2025-11-08
// Modified: 2025-11-08
//
// Change History:
// - 2025-11-08 v0.1.0: Initial registry

package shell

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/msto63/mDC/foundation/core/log"
	"github.com/msto63/mDC/foundation/utils/stringx"
	"github.com/msto63/mDC/internal/object"
	"github.com/msto63/mDC/internal/session"
)

// RunFunc is a command implementation. It receives the shared environment
// and the bound arguments of this invocation.
type RunFunc func(ctx context.Context, env *Env, args *Args) error

// Env is the execution environment handed to every command
type Env struct {
	Session  *session.Session
	Registry *Registry
	Out      *Output
	Logger   *log.Logger
}

// Spec declares one command. The first name is canonical; further names
// are aliases. An empty Classes set means the command applies to any
// current object. MinArgs below zero requires every declared slot.
type Spec struct {
	Names   []string
	Summary string
	Classes []object.ClassID
	MinArgs int
	Args    []ArgSpec
	Offline bool

	// Complete optionally overrides argument completion; the default is
	// the session's child-role completion set
	Complete func(s *session.Session) []string

	Run RunFunc
}

// Name returns the canonical command name
func (s *Spec) Name() string {
	return s.Names[0]
}

// requiredArgs returns the number of argument slots that must be bound
func (s *Spec) requiredArgs() int {
	if s.MinArgs < 0 {
		return len(s.Args)
	}
	return s.MinArgs
}

// Registry maps command names and aliases to specifications
type Registry struct {
	byName map[string]*Spec
	specs  []*Spec
	logger *log.Logger
}

// NewRegistry creates an empty registry
func NewRegistry(logger *log.Logger) *Registry {
	if logger == nil {
		logger = log.GetDefault()
	}

	return &Registry{
		byName: make(map[string]*Spec),
		logger: logger.WithField("component", "registry"),
	}
}

// Register adds a command specification. Name collisions and malformed
// specifications panic: registration happens once at startup and a broken
// table must not survive into the REPL.
func (r *Registry) Register(spec *Spec) {
	if spec == nil || len(spec.Names) == 0 || spec.Run == nil {
		panic("shell: invalid command specification")
	}

	for _, name := range spec.Names {
		if stringx.IsBlank(name) || stringx.ContainsWhitespace(name) {
			panic(fmt.Sprintf("shell: invalid command name %q", name))
		}

		key := strings.ToLower(name)
		if _, exists := r.byName[key]; exists {
			panic(fmt.Sprintf("shell: command name %q registered twice", name))
		}
		r.byName[key] = spec
	}

	r.specs = append(r.specs, spec)
	r.logger.Debug("command registered", log.Fields{"name": spec.Name(), "aliases": len(spec.Names) - 1})
}

// Lookup finds a specification by name or alias, case-insensitively
func (r *Registry) Lookup(name string) *Spec {
	return r.byName[strings.ToLower(name)]
}

// Specs returns all registered specifications sorted by canonical name
func (r *Registry) Specs() []*Spec {
	specs := make([]*Spec, len(r.specs))
	copy(specs, r.specs)
	sort.Slice(specs, func(i, j int) bool { return specs[i].Name() < specs[j].Name() })
	return specs
}

// CommandNames returns every canonical name, sorted
func (r *Registry) CommandNames() []string {
	names := make([]string, 0, len(r.specs))
	for _, spec := range r.specs {
		names = append(names, spec.Name())
	}
	sort.Strings(names)
	return names
}

// CompleteLine produces completion candidates for a partial input line.
// With at most one token the candidates are command names; once the first
// token names a known command, its completion hook supplies argument
// candidates, each prefixed with the command name.
func (r *Registry) CompleteLine(line string, s *session.Session) []string {
	fields := strings.Fields(line)
	endsInSpace := len(line) > 0 && strings.HasSuffix(line, " ")

	if len(fields) == 0 {
		return r.CommandNames()
	}

	if len(fields) == 1 && !endsInSpace {
		var names []string
		for _, name := range r.CommandNames() {
			if strings.HasPrefix(name, strings.ToLower(fields[0])) {
				names = append(names, name)
			}
		}
		return names
	}

	spec := r.Lookup(fields[0])
	if spec == nil {
		return nil
	}

	candidates := spec.Complete
	if candidates == nil {
		candidates = func(s *session.Session) []string { return s.CompletionSet() }
	}

	var completions []string
	for _, candidate := range candidates(s) {
		completions = append(completions, fields[0]+" "+candidate)
	}
	return completions
}
