// File: output.go
// Title: Synchronized Output Sink
// Description: Serializes writes to the shell's output stream. The active
//              command and the background event printer share this sink;
//              the lock is held only for the duration of a single print.
// Author: msto63
// Version: v0.1.0
// Created: 2025-11-08
// Modified: 2025-11-08
//
// Change History:
// - 2025-11-08 v0.1.0: Initial output sink

package shell

import (
	"fmt"
	"io"
	"sync"
)

// Output is the shared, synchronized print target
type Output struct {
	mu sync.Mutex
	w  io.Writer
}

// NewOutput wraps a writer in a synchronized sink
func NewOutput(w io.Writer) *Output {
	return &Output{w: w}
}

// Printf formats and writes a single message
func (o *Output) Printf(format string, args ...interface{}) {
	o.mu.Lock()
	defer o.mu.Unlock()
	fmt.Fprintf(o.w, format, args...)
}

// Println writes a single line
func (o *Output) Println(args ...interface{}) {
	o.mu.Lock()
	defer o.mu.Unlock()
	fmt.Fprintln(o.w, args...)
}
