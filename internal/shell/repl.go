// File: repl.go
// Title: Read-Eval-Print Loop
// Description: Drives the shell: a reader stage and the executor stage
//              cooperate with exactly one in-flight line (the reader waits
//              for the previous command's result before prompting again).
//              A background listener prints property-change events through
//              the shared output sink. End of input and context
//              cancellation both perform an orderly disconnect.
// Author: msto63
// Version: v0.1.0
// Created: 2025-11-08
// Modified: 2025-11-08
//
// Change History:
// - 2025-11-08 v0.1.0: Initial REPL

package shell

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/msto63/mDC/foundation/core/log"
	"github.com/msto63/mDC/internal/session"
)

// REPL reads lines, dispatches them and prints results until end of
// input, an exit command, or context cancellation
type REPL struct {
	dispatcher *Dispatcher
	session    *session.Session
	in         io.Reader
	out        *Output
	logger     *log.Logger

	// Prompt renders the prompt string from the current display path;
	// nil suppresses the prompt (batch and test use)
	Prompt func(displayPath string) string

	// RenderError and RenderEvent optionally style the error and event
	// lines; nil means plain text
	RenderError func(message string) string
	RenderEvent func(message string) string
}

// NewREPL wires a dispatcher to an input stream
func NewREPL(dispatcher *Dispatcher, in io.Reader, out *Output, logger *log.Logger) *REPL {
	if logger == nil {
		logger = log.GetDefault()
	}

	return &REPL{
		dispatcher: dispatcher,
		session:    dispatcher.Env().Session,
		in:         in,
		out:        out,
		logger:     logger.WithField("component", "repl"),
	}
}

// Run processes input until EOF, exit, or cancellation, then disconnects
func (r *REPL) Run(ctx context.Context) error {
	eventCtx, stopEvents := context.WithCancel(ctx)
	defer stopEvents()
	go r.printEvents(eventCtx)

	lines := make(chan string)
	results := make(chan error)
	go r.readLines(ctx, lines, results)

	defer r.disconnect()

	for {
		select {
		case <-ctx.Done():
			return nil

		case line, ok := <-lines:
			if !ok {
				return nil
			}

			err := r.dispatcher.Dispatch(ctx, line)
			if err != nil && !errors.Is(err, ErrExit) {
				r.printError(err)
				r.logger.Debug("command failed", log.Fields{"error": err})
			}

			select {
			case results <- err:
			case <-ctx.Done():
				return nil
			}

			if errors.Is(err, ErrExit) {
				return nil
			}
		}
	}
}

// RunBatch dispatches a fixed list of lines and stops on the first error
func (r *REPL) RunBatch(ctx context.Context, commands []string) error {
	eventCtx, stopEvents := context.WithCancel(ctx)
	defer stopEvents()
	go r.printEvents(eventCtx)

	defer r.disconnect()

	for _, line := range commands {
		err := r.dispatcher.Dispatch(ctx, line)
		if errors.Is(err, ErrExit) {
			return nil
		}
		if err != nil {
			r.printError(err)
			return err
		}
	}
	return nil
}

// readLines is the reader stage. It prompts, reads one line, hands it to
// the executor, and blocks until the result arrives before reading again.
func (r *REPL) readLines(ctx context.Context, lines chan<- string, results <-chan error) {
	scanner := bufio.NewScanner(r.in)

	for {
		r.printPrompt()

		if !scanner.Scan() {
			close(lines)
			return
		}

		select {
		case lines <- scanner.Text():
		case <-ctx.Done():
			return
		}

		select {
		case err := <-results:
			if errors.Is(err, ErrExit) {
				return
			}
		case <-ctx.Done():
			return
		}
	}
}

func (r *REPL) printError(err error) {
	message := "error: " + err.Error()
	if r.RenderError != nil {
		message = r.RenderError(message)
	}
	r.out.Printf("%s\n", message)
}

func (r *REPL) printPrompt() {
	if r.Prompt == nil {
		return
	}
	r.out.Printf("%s", r.Prompt(r.session.PromptPath()))
}

// printEvents forwards property-change notifications to the output sink.
// It never touches navigation state.
func (r *REPL) printEvents(ctx context.Context) {
	events := r.session.Device().Events()

	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-events:
			if !ok {
				return
			}
			message := fmt.Sprintf("event: %s %s = %s", event.Handle, event.Property, event.Value)
			if r.RenderEvent != nil {
				message = r.RenderEvent(message)
			}
			r.out.Printf("%s\n", message)
		}
	}
}

// disconnect closes the device connection if it is still open
func (r *REPL) disconnect() {
	if !r.session.Device().Connected() {
		return
	}
	if err := r.session.Device().Disconnect(context.Background()); err != nil {
		r.logger.Warn("disconnect failed", log.Fields{"error": err})
	}
}
