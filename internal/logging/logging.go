// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package logging configures the process-wide zerolog logger.
//
// The TUI owns the terminal, so interactive sessions log to a file under
// the easyq state directory. CLI commands log to stderr, and only when
// verbose output was requested.
package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Sink selects where log output goes.
type Sink int

const (
	// SinkDiscard drops everything (the CLI default).
	SinkDiscard Sink = iota
	// SinkConsole writes human-readable lines to stderr.
	SinkConsole
	// SinkFile appends JSON lines to Options.File.
	SinkFile
)

// Options controls Init.
type Options struct {
	Sink  Sink
	Level string // debug, info, warn, error
	File  string // required for SinkFile

	// Writer overrides the sink's destination. Tests use it to capture output.
	Writer io.Writer
}

var (
	mu     sync.Mutex
	closer io.Closer
)

// Init installs the global logger. It may be called again (config reload);
// a previously opened log file is closed.
func Init(opts Options) error {
	level, err := ParseLevel(opts.Level)
	if err != nil {
		return err
	}

	var w io.Writer
	var c io.Closer
	switch {
	case opts.Writer != nil:
		w = opts.Writer
	case opts.Sink == SinkConsole:
		w = zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen}
	case opts.Sink == SinkFile:
		if opts.File == "" {
			return fmt.Errorf("log file path is required for file logging")
		}
		if err := os.MkdirAll(filepath.Dir(opts.File), 0o755); err != nil {
			return fmt.Errorf("failed to create log directory: %w", err)
		}
		f, err := os.OpenFile(opts.File, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
		if err != nil {
			return fmt.Errorf("failed to open log file: %w", err)
		}
		w, c = f, f
	default:
		w = io.Discard
	}

	mu.Lock()
	if closer != nil {
		closer.Close()
	}
	closer = c
	log.Logger = zerolog.New(w).Level(level).With().Timestamp().Logger()
	mu.Unlock()
	return nil
}

// Close releases the log file, if any.
func Close() error {
	mu.Lock()
	defer mu.Unlock()
	if closer == nil {
		return nil
	}
	err := closer.Close()
	closer = nil
	log.Logger = zerolog.Nop()
	return err
}

// ParseLevel maps a config level name to a zerolog level. Empty means info.
func ParseLevel(s string) (zerolog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "info":
		return zerolog.InfoLevel, nil
	case "debug":
		return zerolog.DebugLevel, nil
	case "warn", "warning":
		return zerolog.WarnLevel, nil
	case "error":
		return zerolog.ErrorLevel, nil
	case "off", "disabled":
		return zerolog.Disabled, nil
	}
	return zerolog.NoLevel, fmt.Errorf("unknown log level %q", s)
}

// Component returns a child logger tagged with the component name.
func Component(name string) zerolog.Logger {
	return log.Logger.With().Str("component", name).Logger()
}

func Debug() *zerolog.Event { return log.Debug() }
func Info() *zerolog.Event  { return log.Info() }
func Warn() *zerolog.Event  { return log.Warn() }
func Error() *zerolog.Event { return log.Error() }
