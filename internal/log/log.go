// Copyright 2026 The Phishdedup Authors
// SPDX-License-Identifier: MIT

// Package log configures structured logging for phishdedup using log/slog.
package log

import (
	"io"
	"log/slog"
	"os"
)

// Options selects the log level and handler.
type Options struct {
	Verbose bool
	Quiet   bool
	// JSON switches from slog.TextHandler to slog.JSONHandler.
	JSON bool
	// Writer defaults to stderr.
	Writer io.Writer
}

// Setup configures the default slog logger based on verbosity flags.
//
//   - quiet mode:   only WARN and ERROR messages
//   - normal mode:  INFO and above
//   - verbose mode: DEBUG and above
//
// Quiet wins when both are set.
func Setup(opts Options) {
	var level slog.Level
	switch {
	case opts.Quiet:
		level = slog.LevelWarn
	case opts.Verbose:
		level = slog.LevelDebug
	default:
		level = slog.LevelInfo
	}

	w := opts.Writer
	if w == nil {
		w = os.Stderr
	}
	handlerOpts := &slog.HandlerOptions{Level: level}

	var handler slog.Handler
	if opts.JSON {
		handler = slog.NewJSONHandler(w, handlerOpts)
	} else {
		handler = slog.NewTextHandler(w, handlerOpts)
	}
	slog.SetDefault(slog.New(handler))
}
