// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// cli.go - Command parsing and usage text for easyq.
package cli

import (
	"fmt"
	"io"
	"os"
	"runtime"
	"strings"
)

// Version information (can be overridden at build time)
var (
	Version   = "0.1.0"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

// Command represents the CLI command to execute.
type Command int

const (
	CmdTUI Command = iota
	CmdMenu
	CmdCart
	CmdAsk
	CmdChat
	CmdUpload
	CmdSession
	CmdConfig
	CmdVersion
	CmdHelp
)

// String returns the command name.
func (c Command) String() string {
	switch c {
	case CmdTUI:
		return "tui"
	case CmdMenu:
		return "menu"
	case CmdCart:
		return "cart"
	case CmdAsk:
		return "ask"
	case CmdChat:
		return "chat"
	case CmdUpload:
		return "upload"
	case CmdSession:
		return "session"
	case CmdConfig:
		return "config"
	case CmdVersion:
		return "version"
	case CmdHelp:
		return "help"
	default:
		return "unknown"
	}
}

// Args holds parsed CLI arguments.
type Args struct {
	// Global flags
	ConfigPath string
	APIURL     string
	Lang       string
	Verbose    bool
	NoColor    bool
	Ephemeral  bool // keep the cart and session in memory only
	JSON       bool

	// Slug is the menu for tui, menu, ask and chat.
	Slug string

	// Sub holds everything after the command name.
	Sub *ArgParser
}

// commandBoolFlags lists the boolean flags each command understands.
var commandBoolFlags = []string{"stream", "raw", "copy", "help", "h"}

const usageText = `easyq - restaurant menus, cart and assistant in the terminal

Usage:
  easyq [tui] <slug> [--lang L]          Start the TUI (default command)
  easyq menu <slug> [--lang L] [--json]  Print a menu
  easyq cart [show|add|remove|set|clear] Manage the cart
  easyq ask <slug> "question"            Ask the menu assistant once
    --stream                             Print the answer as it arrives
    --raw                                Do not render markdown
  easyq chat <slug>                      Line-mode chat with the assistant
  easyq upload --name N --pdf FILE       Publish a PDF menu
    --languages en,fr,es                 Languages to translate into
    --copy                               Copy the public URL to the clipboard
    --qr-out FILE                        Save the QR code image
  easyq session [show|reset]             Show or reset the chat session id
  easyq config [show|path|keys|set K V]  Configuration
  easyq version                          Print version information
  easyq help                             Show this help

Cart Commands:
  easyq cart show                        List lines, item count and total
  easyq cart add NAME PRICE              Add one (merges with an equal line)
  easyq cart remove NAME PRICE           Delete a line
  easyq cart set NAME PRICE QTY          Set a quantity (0 removes)
  easyq cart clear                       Empty the cart

Global Flags:
  --config PATH   Config file (default ~/.easyq/config.toml)
  --api URL       Backend URL (overrides api.base_url)
  --lang L        Language (en, fr, es)
  -v, --verbose   Debug logging to stderr
  --no-color      Disable colors
  --ephemeral     Keep cart and session in memory for this run
  --json          JSON output where supported

Environment:
  EASYQ_API_URL, EASYQ_LANG, EASYQ_STORAGE, EASYQ_STORAGE_PATH,
  EASYQ_REDIS_URL, EASYQ_LOG_LEVEL, EASYQ_HOME

Examples:
  easyq chez-marie                       Browse a menu in the TUI
  easyq menu chez-marie --lang fr        Print the French menu
  easyq ask chez-marie "Any fish today?" --stream
  easyq cart add "Grilled Salmon" "18,50€"
  easyq upload --name "Chez Marie" --pdf menu.pdf --copy

Version: %s
`

// PrintUsage writes the help text to w.
func PrintUsage(w io.Writer) {
	fmt.Fprintf(w, usageText, Version)
}

// PrintVersion writes version information to w.
func PrintVersion(w io.Writer) {
	fmt.Fprintf(w, "easyq version %s\n", Version)
	fmt.Fprintf(w, "  Git commit: %s\n", GitCommit)
	fmt.Fprintf(w, "  Build date: %s\n", BuildDate)
	fmt.Fprintf(w, "  Go:         %s %s/%s\n", runtime.Version(), runtime.GOOS, runtime.GOARCH)
}

// Parse parses os.Args.
func Parse() (Command, Args) {
	return ParseArgs(os.Args[1:])
}

// ParseArgs parses argv (without the program name).
func ParseArgs(argv []string) (Command, Args) {
	remaining, args := parseGlobalFlags(argv)

	if len(remaining) == 0 {
		args.Sub = NewArgParser(nil, commandBoolFlags...)
		return CmdTUI, args
	}

	name := strings.ToLower(remaining[0])
	rest := remaining[1:]

	var cmd Command
	switch name {
	case "tui":
		cmd = CmdTUI
	case "menu", "m":
		cmd = CmdMenu
	case "cart":
		cmd = CmdCart
	case "ask":
		cmd = CmdAsk
	case "chat":
		cmd = CmdChat
	case "upload":
		cmd = CmdUpload
	case "session", "sessions":
		cmd = CmdSession
	case "config":
		cmd = CmdConfig
	case "version", "--version":
		cmd = CmdVersion
	case "help", "-h", "--help":
		cmd = CmdHelp
	default:
		// "easyq chez-marie" opens the TUI on that menu.
		cmd = CmdTUI
		rest = remaining
	}

	args.Sub = NewArgParser(rest, commandBoolFlags...)
	switch cmd {
	case CmdTUI, CmdMenu, CmdAsk, CmdChat:
		args.Slug = args.Sub.Subcommand()
	}
	return cmd, args
}

func parseGlobalFlags(argv []string) ([]string, Args) {
	var remaining []string
	var args Args

	value := func(i *int, name string) (string, bool) {
		arg := argv[*i]
		if v, ok := strings.CutPrefix(arg, name+"="); ok {
			return v, true
		}
		if arg == name && *i+1 < len(argv) {
			*i++
			return argv[*i], true
		}
		return "", false
	}

	for i := 0; i < len(argv); i++ {
		arg := argv[i]
		if arg == "--" {
			remaining = append(remaining, argv[i:]...)
			break
		}

		switch arg {
		case "-v", "--verbose":
			args.Verbose = true
			continue
		case "--no-color":
			args.NoColor = true
			continue
		case "--ephemeral":
			args.Ephemeral = true
			continue
		case "--json":
			args.JSON = true
			continue
		}

		if v, ok := value(&i, "--config"); ok {
			args.ConfigPath = v
		} else if v, ok := value(&i, "--api"); ok {
			args.APIURL = v
		} else if v, ok := value(&i, "--lang"); ok {
			args.Lang = v
		} else {
			remaining = append(remaining, arg)
		}
	}
	return remaining, args
}
