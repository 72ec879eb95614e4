// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package logging builds the process-wide slog.Logger for perfview
// binaries.
//
// Records go to stderr by default: human-readable text when stderr is
// a terminal, JSON otherwise, so piped output stays machine-parseable.
// When a file is configured, JSON records go to that file instead and
// it is rotated by size. The interactive display owns the terminal, so
// logging to a file is the only way to see logs while it runs.
package logging

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"golang.org/x/term"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Options selects the log level and destination.
type Options struct {
	// Level is one of debug, info, warn, error. Empty means info.
	Level string

	// File, when set, redirects records to a size-rotated file.
	File string

	// MaxSizeMB is the rotation threshold for File.
	MaxSizeMB int

	// MaxBackups is the number of rotated files kept.
	MaxBackups int

	// Stderr overrides os.Stderr as the default destination.
	Stderr io.Writer
}

// ParseLevel converts a level name to a slog.Level.
func ParseLevel(name string) (slog.Level, error) {
	switch strings.ToLower(name) {
	case "debug":
		return slog.LevelDebug, nil
	case "", "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return 0, fmt.Errorf("unknown log level %q", name)
	}
}

// New creates a logger according to options. The returned closer
// releases the log file, if any; call it after the last record.
func New(options Options) (*slog.Logger, io.Closer, error) {
	level, err := ParseLevel(options.Level)
	if err != nil {
		return nil, nil, err
	}
	handlerOptions := &slog.HandlerOptions{Level: level}

	if options.File != "" {
		file := &lumberjack.Logger{
			Filename:   options.File,
			MaxSize:    options.MaxSizeMB,
			MaxBackups: options.MaxBackups,
		}
		return slog.New(slog.NewJSONHandler(file, handlerOptions)), file, nil
	}

	stderr := options.Stderr
	if stderr == nil {
		stderr = os.Stderr
	}
	var handler slog.Handler
	if isTerminal(stderr) {
		handler = slog.NewTextHandler(stderr, handlerOptions)
	} else {
		handler = slog.NewJSONHandler(stderr, handlerOptions)
	}
	return slog.New(handler), nopCloser{}, nil
}

// isTerminal reports whether w is a file attached to a terminal.
func isTerminal(w io.Writer) bool {
	file, ok := w.(*os.File)
	return ok && term.IsTerminal(int(file.Fd()))
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
