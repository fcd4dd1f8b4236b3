// File: doc.go
// Title: Package Documentation for Core Logging
// Description: Package documentation for the mDC structured logging system.
// Author: msto63
// Version: v0.1.0
// Created: 2025-11-02
// Modified: 2025-11-02

// Package log provides structured, leveled logging for all mDC components.
//
// The logger supports contextual fields, multiple output formats (JSON,
// text, console), and cheap child loggers scoped to a component:
//
//	logger := log.GetDefault().WithField("component", "resolver")
//	logger.Info("path resolved", log.Fields{"path": "/Block/Gain"})
//
// A package-level default logger is available via GetDefault and can be
// replaced with SetDefault during program initialization.
package log
