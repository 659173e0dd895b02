// session_cmd.go - The "easyq session" command.
//
// The chat session id ties this client to its server-side conversation
// history. Resetting it starts a fresh conversation on every menu.
//
// Command: session [subcommand]
// Aliases: sessions
//
// Subcommands:
//   show (default)      Print the current session id
//   reset               Forget the id; a new one is minted right away
//
// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/easyq/easyq-tui/internal/logging"
	"github.com/easyq/easyq-tui/internal/session"
)

// HandleSession dispatches the session subcommands.
func HandleSession(ctx context.Context, env *Env, args Args) error {
	switch action := strings.ToLower(args.Sub.Subcommand()); action {
	case "", "show":
	case "reset", "new":
		old := env.SessionID
		if err := session.Reset(ctx, env.Store); err != nil {
			return err
		}
		id, err := session.Get(ctx, env.Store)
		if err != nil {
			return err
		}
		env.SessionID = id
		logging.Info().Str("old", old).Str("new", id).Msg("session reset")
	default:
		return &UsageError{Field: "session subcommand", Value: action, Reason: "unknown subcommand", Example: "easyq session reset"}
	}

	if env.JSON {
		return env.PrintJSON("session", map[string]string{"session_id": env.SessionID})
	}
	fmt.Fprintf(env.Out, "%s %s\n", RenderLabel("Session:"), ValueStyle.Render(env.SessionID))
	return nil
}
