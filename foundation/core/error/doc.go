// File: doc.go
// Title: Package Documentation for Core Error Handling
// Description: Package documentation for the mDC structured error system.
// Author: msto63
// Version: v0.1.0
// Created: 2025-11-02
// Modified: 2025-11-02

// Package error implements the structured error type used across mDC.
//
// Every error carries a Code from the shell taxonomy (parameter errors,
// object resolution failures, connection state) plus a severity, optional
// details, and a cause chain compatible with errors.Is/errors.As:
//
//	return mdcerror.New("no such child").
//	    WithCode(mdcerror.CodeObjectNotPresent).
//	    WithDetail("role", name)
//
// Codes are the contract between the resolver, the session, and the
// dispatch boundary: the REPL reports errors by code and keeps running.
package error
