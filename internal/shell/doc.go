// File: doc.go
// Title: Shell Package Documentation
// Description: Package documentation for the command registry, argument
//              binder, dispatcher and REPL
// Author: msto63
// Version: v0.1.0
// Created: 2025-11-08
// Modified: 2025-11-08
//
// Change History:
// - 2025-11-08 v0.1.0: Initial documentation

// Package shell implements the interactive command layer of mDC: a
// whitespace/quote tokenizer, a registry of command specifications, a
// typed positional argument binder, the dispatch pipeline that validates
// a line against the current session state, and the REPL that drives it
// all.
//
// The dispatcher is stateless between calls; every piece of mutable
// navigation state lives in the session.Session it is handed. Commands
// run strictly one at a time, so command implementations never lock.
// The only synchronized point is the Output sink, which is shared with
// the background event printer.
package shell
