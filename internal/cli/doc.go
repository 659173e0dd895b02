// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package cli implements the easyq command line: argument parsing, the
// shared bootstrap, and one handler per subcommand.
//
// # Usage
//
//	cmd, args := cli.Parse()
//	env, err := cli.Setup(ctx, args, cli.Options{})
//	switch cmd {
//	case cli.CmdMenu:
//	    err = cli.HandleMenu(ctx, env, args)
//	case cli.CmdCart:
//	    err = cli.HandleCart(ctx, env, args)
//	// ... other commands
//	}
//
// # Commands
//
//   - menu: print a restaurant menu, or its JSON with --json
//   - cart: show and edit the cart shared with the TUI
//   - ask: one question to the menu assistant, streamed or not
//   - chat: line-mode conversation with slash commands
//   - upload: publish a PDF menu and fetch its QR code
//   - session: show or reset the chat session id
//   - config: inspect and edit ~/.easyq/config.toml
//
// Handlers return errors and never exit. GetExitCode maps an error to the
// process exit code and DisplayError prints it, as text or as JSON.
package cli
