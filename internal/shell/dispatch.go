// File: dispatch.go
// Title: Command Dispatcher
// Description: Turns a raw input line into a validated command invocation:
//              tokenize, look up the command, enforce class applicability
//              against the current object, bind positional arguments by
//              declared type, check arity and the offline allow-list, then
//              execute against the session.
// Author: msto63
// Version: v0.1.0
// Created: 2025-11-08
// Modified: 2025-11-08
//
// Change History:
// - 2025-11-08 v0.1.0: Initial dispatcher

package shell

import (
	"context"
	"errors"

	mdcerror "github.com/msto63/mDC/foundation/core/error"
	"github.com/msto63/mDC/foundation/core/log"
	"github.com/msto63/mDC/internal/object"
	"github.com/msto63/mDC/internal/session"
)

// ErrExit is returned by the exit command to stop the REPL loop
var ErrExit = errors.New("exit requested")

// Dispatcher validates and executes input lines. It holds no mutable
// state of its own; everything lives in the session it is given.
type Dispatcher struct {
	registry *Registry
	env      *Env
	logger   *log.Logger
}

// NewDispatcher binds a registry to a session and output sink
func NewDispatcher(registry *Registry, s *session.Session, out *Output, logger *log.Logger) *Dispatcher {
	if logger == nil {
		logger = log.GetDefault()
	}

	return &Dispatcher{
		registry: registry,
		env: &Env{
			Session:  s,
			Registry: registry,
			Out:      out,
			Logger:   logger,
		},
		logger: logger.WithField("component", "dispatcher"),
	}
}

// Env returns the execution environment commands run in
func (d *Dispatcher) Env() *Env {
	return d.env
}

// Dispatch runs one input line to completion. Empty lines are a no-op.
func (d *Dispatcher) Dispatch(ctx context.Context, line string) error {
	tokens, err := Tokenize(line)
	if err != nil {
		return err
	}
	if len(tokens) == 0 {
		return nil
	}

	spec := d.registry.Lookup(tokens[0])
	if spec == nil {
		return mdcerror.Newf("unknown command %q", tokens[0]).
			WithCode(mdcerror.CodeParameterError).
			WithOperation("shell.Dispatch")
	}

	if err := d.checkClass(spec); err != nil {
		return err
	}

	args, err := d.bindArgs(ctx, spec, tokens[1:])
	if err != nil {
		return err
	}

	if !spec.Offline && !d.env.Session.Device().Connected() {
		return mdcerror.Newf("command %q requires a connection", spec.Name()).
			WithCode(mdcerror.CodeNotConnected).
			WithOperation("shell.Dispatch")
	}

	if d.env.Session.Flags().Enabled(session.FlagTrace) {
		d.logger.Info("dispatching command", log.Fields{"command": spec.Name(), "args": len(tokens) - 1})
	}

	return spec.Run(ctx, d.env, args)
}

// checkClass verifies the current object is an instance of at least one
// class the command declares. Runs before any argument binding.
func (d *Dispatcher) checkClass(spec *Spec) error {
	if len(spec.Classes) == 0 {
		return nil
	}

	current := d.env.Session.Current()
	for _, class := range spec.Classes {
		if object.IsA(current.Class, class) {
			return nil
		}
	}

	return mdcerror.Newf("command %q does not apply to objects of class %s", spec.Name(), current.Class).
		WithCode(mdcerror.CodeObjectClassMismatch).
		WithOperation("shell.Dispatch").
		WithDetail("class", current.Class)
}

// bindArgs checks arity in both directions and binds each token into its
// declared slot. Slots past the minimum may stay unset.
func (d *Dispatcher) bindArgs(ctx context.Context, spec *Spec, tokens []string) (*Args, error) {
	required := spec.requiredArgs()

	if len(tokens) < required {
		return nil, mdcerror.Newf("command %q needs at least %d argument(s), got %d", spec.Name(), required, len(tokens)).
			WithCode(mdcerror.CodeParameterOutOfRange).
			WithOperation("shell.Dispatch")
	}
	if len(tokens) > len(spec.Args) {
		return nil, mdcerror.Newf("command %q takes at most %d argument(s), got %d", spec.Name(), len(spec.Args), len(tokens)).
			WithCode(mdcerror.CodeParameterOutOfRange).
			WithOperation("shell.Dispatch")
	}

	args := newArgs(spec.Args)
	for i, token := range tokens {
		if err := args.bind(ctx, d.env.Session, i, token); err != nil {
			return nil, err
		}
	}
	return args, nil
}
