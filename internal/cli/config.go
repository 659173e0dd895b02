// config.go - The "easyq config" command.
//
// Command: config [subcommand]
// Short:   View and modify configuration
//
// Subcommands:
//   show (default)      Display the effective configuration
//   get <key>           Print one value
//   set <key> <value>   Set a value and save the file
//   keys                List settable keys
//   reset               Write the defaults
//   path                Show the configuration file path
//
// Examples:
//   easyq config set api.base_url https://api.easyq.example
//   easyq config set storage.backend redis
//   easyq config set ui.language fr
//
// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later
package cli

import (
	"fmt"
	"strings"

	"github.com/easyq/easyq-tui/internal/config"
)

// HandleConfig dispatches the config subcommands. It needs no store or
// client, only the parsed config path.
func HandleConfig(env *Env, args Args) error {
	sub := args.Sub
	switch action := strings.ToLower(sub.Subcommand()); action {
	case "", "show":
		return showConfig(env)

	case "path":
		if env.JSON {
			return env.PrintJSON("config path", map[string]string{"path": env.ConfigPath})
		}
		fmt.Fprintln(env.Out, env.ConfigPath)
		return nil

	case "keys":
		for _, k := range config.Keys() {
			fmt.Fprintln(env.Out, k)
		}
		return nil

	case "get":
		key := sub.Positional(1)
		if key == "" {
			return ErrMissingArgument("key", "easyq config get api.base_url")
		}
		v, err := env.Config.Get(key)
		if err != nil {
			return &UsageError{Field: "key", Value: key, Reason: err.Error(), Example: "easyq config keys"}
		}
		fmt.Fprintln(env.Out, v)
		return nil

	case "set":
		key, value := sub.Positional(1), sub.Positional(2)
		if key == "" || sub.PositionalCount() < 3 {
			return ErrMissingArgument("key and value", "easyq config set ui.language fr")
		}
		if err := env.Config.Set(key, value); err != nil {
			return &UsageError{Field: key, Value: value, Reason: err.Error()}
		}
		if err := env.Config.Validate(); err != nil {
			return err
		}
		if err := config.Save(env.Config, env.ConfigPath); err != nil {
			return &CommandError{Command: "config", Action: "set", Reason: "could not save", Err: err}
		}
		fmt.Fprintf(env.Out, "%s %s = %s\n", SuccessStyle.Render("[OK]"), key, value)
		return nil

	case "reset":
		if err := config.Save(config.Default(), env.ConfigPath); err != nil {
			return &CommandError{Command: "config", Action: "reset", Reason: "could not save", Err: err}
		}
		fmt.Fprintln(env.Out, SuccessStyle.Render("[OK]")+" configuration reset to defaults")
		return nil

	default:
		return &UsageError{Field: "config subcommand", Value: action, Reason: "unknown subcommand", Example: "easyq config show"}
	}
}

func showConfig(env *Env) error {
	if env.JSON {
		return env.PrintJSON("config", env.Config)
	}

	fmt.Fprintln(env.Out, TitleStyle.Render("easyq configuration"))
	fmt.Fprintln(env.Out, DimStyle.Render(env.ConfigPath))
	fmt.Fprintln(env.Out)

	section := ""
	for _, k := range config.Keys() {
		if s, _, ok := strings.Cut(k, "."); ok && s != section {
			if section != "" {
				fmt.Fprintln(env.Out)
			}
			section = s
			fmt.Fprintln(env.Out, SectionStyle.Render("["+s+"]"))
		}
		v, err := env.Config.Get(k)
		if err != nil {
			continue
		}
		fmt.Fprintf(env.Out, "  %s %s\n", RenderLabel(k, 24), ValueStyle.Render(fmt.Sprint(v)))
	}
	return nil
}
