// env.go - Shared bootstrap for the non-TUI commands.
//
// Loads configuration, opens the local store, and builds the API client so
// each command handler only deals with its own job.
//
// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"golang.org/x/time/rate"

	"github.com/easyq/easyq-tui/internal/api"
	"github.com/easyq/easyq-tui/internal/cart"
	"github.com/easyq/easyq-tui/internal/config"
	"github.com/easyq/easyq-tui/internal/i18n"
	"github.com/easyq/easyq-tui/internal/logging"
	"github.com/easyq/easyq-tui/internal/session"
	"github.com/easyq/easyq-tui/internal/storage"
)

// Env is everything a command handler needs.
type Env struct {
	Config     *config.Config
	ConfigPath string
	Client     *api.Client
	Store      storage.KV
	Cart       *cart.Store
	Bundle     *i18n.Bundle
	SessionID  string
	Lang       string
	JSON       bool

	// ExportDir is where chat transcripts are written. Default: ".".
	ExportDir string

	// Out receives command output; Err receives warnings.
	Out io.Writer
	Err io.Writer
}

// Options tweak Setup. Tests inject a store and writers.
type Options struct {
	// Store replaces the configured backend.
	Store storage.KV
	// LogSink overrides the default (console when verbose, otherwise discard).
	LogSink *logging.Sink
	// ConfigOnly skips the store, so "easyq config" works when the
	// configured backend is unreachable.
	ConfigOnly bool
	Out        io.Writer
	Err        io.Writer
}

// Setup builds an Env from parsed args.
func Setup(ctx context.Context, args Args, opts Options) (*Env, error) {
	if err := config.LoadDotEnv(); err != nil {
		return nil, err
	}

	path := args.ConfigPath
	if path == "" {
		p, err := config.Path()
		if err != nil {
			return nil, err
		}
		path = p
	}
	cfg, err := config.Load(path)
	if err != nil {
		return nil, err
	}
	if args.APIURL != "" {
		cfg.API.BaseURL = args.APIURL
	}
	if args.NoColor {
		ForceColorsEnabled(false)
	}

	sink := logging.SinkDiscard
	if args.Verbose {
		sink = logging.SinkConsole
	}
	if opts.LogSink != nil {
		sink = *opts.LogSink
	}
	level := cfg.Log.Level
	if args.Verbose {
		level = "debug"
	}
	if err := logging.Init(logging.Options{Sink: sink, Level: level, File: cfg.LogPath()}); err != nil {
		return nil, err
	}

	env := &Env{
		Config:     cfg,
		ConfigPath: path,
		JSON:       args.JSON,
		ExportDir:  ".",
		Out:        opts.Out,
		Err:        opts.Err,
	}
	if env.Out == nil {
		env.Out = os.Stdout
	}
	if env.Err == nil {
		env.Err = os.Stderr
	}

	if env.Bundle, err = i18n.New(); err != nil {
		return nil, err
	}
	if cfg.UI.LocalesDir != "" {
		if err := env.Bundle.LoadDir(cfg.UI.LocalesDir); err != nil {
			logging.Warn().Err(err).Str("dir", cfg.UI.LocalesDir).Msg("locale overrides not loaded")
		}
	}
	env.Lang = resolveLang(env.Bundle, args.Lang, cfg.UI.Language)

	env.Client = api.New(cfg.API.BaseURL).
		WithTimeout(cfg.Timeout()).
		WithUserAgent("easyq/" + Version)
	if cfg.API.RateLimit > 0 {
		env.Client = env.Client.WithRateLimit(rate.Limit(cfg.API.RateLimit), cfg.API.RateBurst)
	}

	if opts.ConfigOnly {
		return env, nil
	}

	switch {
	case opts.Store != nil:
		env.Store = opts.Store
	case args.Ephemeral:
		env.Store = storage.NewMemory()
	default:
		if env.Store, err = storage.Open(ctx, cfg); err != nil {
			return nil, fmt.Errorf("open %s store: %w", cfg.Storage.Backend, err)
		}
	}

	if env.Cart, err = cart.Open(ctx, env.Store); err != nil {
		env.Close()
		return nil, err
	}
	if env.SessionID, err = session.Get(ctx, env.Store); err != nil {
		env.Close()
		return nil, err
	}
	return env, nil
}

// resolveLang picks the flag, then the config, then the environment.
func resolveLang(b *i18n.Bundle, flag, configured string) string {
	for _, l := range []string{flag, configured} {
		if l != "" && b.Has(l) {
			return l
		}
	}
	return b.FromEnvironment()
}

// Currency is the fallback currency for totals.
func (e *Env) Currency() string {
	return e.Config.UI.Currency
}

// T translates key in the current language.
func (e *Env) T(key string) string {
	return e.Bundle.T(e.Lang, key)
}

// PrintJSON writes data in the --json envelope.
func (e *Env) PrintJSON(command string, data interface{}) error {
	return NewJSONResponse(command, data).Print(e.Out)
}

// Close releases the store.
func (e *Env) Close() error {
	if e.Store == nil {
		return nil
	}
	err := e.Store.Close()
	if errors.Is(err, storage.ErrClosed) {
		return nil
	}
	return err
}
