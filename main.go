// easyq - restaurant menus, cart and virtual waiter in the terminal.
//
// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/easyq/easyq-tui/internal/cli"
	"github.com/easyq/easyq-tui/internal/config"
	"github.com/easyq/easyq-tui/internal/logging"
	"github.com/easyq/easyq-tui/internal/ui/app"
)

// Version information (set at build time)
var (
	Version   = "0.1.0"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

// Global program reference for events from outside the Bubble Tea loop
var (
	programRef *tea.Program
	programMu  sync.Mutex
)

func init() {
	// Sync version info with cli package
	cli.Version = Version
	cli.GitCommit = GitCommit
	cli.BuildDate = BuildDate
}

func main() {
	cmd, args := cli.Parse()

	switch cmd {
	case cli.CmdVersion:
		cli.PrintVersion(os.Stdout)
		return
	case cli.CmdHelp:
		cli.PrintUsage(os.Stdout)
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM)
	code := run(ctx, cmd, args)
	stop()
	os.Exit(code)
}

// run executes one command and returns the process exit code.
func run(ctx context.Context, cmd cli.Command, args cli.Args) int {
	if cmd == cli.CmdTUI {
		return runTUI(ctx, args)
	}

	env, err := cli.Setup(ctx, args, cli.Options{ConfigOnly: cmd == cli.CmdConfig})
	if err != nil {
		cli.DisplayError(os.Stderr, err, args.JSON)
		return cli.GetExitCode(err)
	}
	defer logging.Close()
	defer env.Close()

	switch cmd {
	case cli.CmdMenu:
		err = cli.HandleMenu(ctx, env, args)
	case cli.CmdCart:
		err = cli.HandleCart(ctx, env, args)
	case cli.CmdAsk:
		err = cli.HandleAsk(ctx, env, args)
	case cli.CmdChat:
		err = cli.HandleChat(ctx, env, args)
	case cli.CmdUpload:
		err = cli.HandleUpload(ctx, env, args)
	case cli.CmdSession:
		err = cli.HandleSession(ctx, env, args)
	case cli.CmdConfig:
		err = cli.HandleConfig(env, args)
	}
	if err != nil {
		cli.DisplayError(os.Stderr, err, args.JSON)
	}
	return cli.GetExitCode(err)
}

// runTUI starts the full-screen interface on args.Slug.
func runTUI(ctx context.Context, args cli.Args) int {
	if args.Slug == "" {
		cli.PrintUsage(os.Stderr)
		return cli.ExitUsageError
	}

	// The alternate screen owns stdout, so logs go to a file.
	sink := logging.SinkFile
	env, err := cli.Setup(ctx, args, cli.Options{LogSink: &sink})
	if err != nil {
		cli.DisplayError(os.Stderr, err, false)
		return cli.GetExitCode(err)
	}
	defer logging.Close()
	defer env.Close()

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	m := app.New(ctx, app.Deps{
		Client:    env.Client,
		Cart:      env.Cart,
		Bundle:    env.Bundle,
		Config:    env.Config,
		SessionID: env.SessionID,
		Slug:      args.Slug,
		Lang:      env.Lang,
	})

	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx))

	programMu.Lock()
	programRef = p
	programMu.Unlock()

	go func() {
		err := config.Watch(ctx, env.ConfigPath, func(cfg *config.Config, err error) {
			sendToProgram(app.ConfigChangedMsg{Config: cfg, Err: err})
		})
		if err != nil && ctx.Err() == nil {
			logging.Warn().Err(err).Str("path", env.ConfigPath).Msg("config live reload disabled")
		}
	}()

	logging.Info().Str("slug", args.Slug).Str("lang", env.Lang).Msg("tui started")
	if _, err := p.Run(); err != nil && ctx.Err() == nil {
		fmt.Fprintf(os.Stderr, "Error running easyq: %v\n", err)
		return cli.ExitGeneralError
	}
	return cli.ExitSuccess
}

// sendToProgram delivers msg to the running program, if any.
func sendToProgram(msg tea.Msg) {
	programMu.Lock()
	p := programRef
	programMu.Unlock()
	if p != nil {
		p.Send(msg)
	}
}
