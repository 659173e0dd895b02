// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"reflect"
	"testing"
)

// =============================================================================
// ARG PARSER TESTS (args.go)
// =============================================================================

func TestArgParser_BasicParsing(t *testing.T) {
	tests := []struct {
		name     string
		args     []string
		bools    []string
		wantSub  string
		validate func(*testing.T, *ArgParser)
	}{
		{
			name:    "simple subcommand",
			args:    []string{"show"},
			wantSub: "show",
		},
		{
			name:    "positional after subcommand",
			args:    []string{"add", "Grilled Salmon", "18,50€"},
			wantSub: "add",
			validate: func(t *testing.T, p *ArgParser) {
				if p.Positional(1) != "Grilled Salmon" {
					t.Errorf("Positional(1) = %q", p.Positional(1))
				}
				if p.Positional(2) != "18,50€" {
					t.Errorf("Positional(2) = %q", p.Positional(2))
				}
			},
		},
		{
			name:    "flag with value",
			args:    []string{"--name", "Chez Marie", "--pdf", "menu.pdf"},
			wantSub: "",
			validate: func(t *testing.T, p *ArgParser) {
				if p.Flag("name") != "Chez Marie" {
					t.Errorf("Flag(name) = %q", p.Flag("name"))
				}
				if p.Flag("pdf") != "menu.pdf" {
					t.Errorf("Flag(pdf) = %q", p.Flag("pdf"))
				}
			},
		},
		{
			name:    "equals form",
			args:    []string{"--languages=en,fr"},
			wantSub: "",
			validate: func(t *testing.T, p *ArgParser) {
				if p.Flag("languages") != "en,fr" {
					t.Errorf("Flag(languages) = %q", p.Flag("languages"))
				}
			},
		},
		{
			name:    "declared bool does not eat the next word",
			args:    []string{"chez-marie", "--stream", "Any fish?"},
			bools:   []string{"stream"},
			wantSub: "chez-marie",
			validate: func(t *testing.T, p *ArgParser) {
				if !p.BoolFlag("stream") {
					t.Error("stream should be set")
				}
				if p.Positional(1) != "Any fish?" {
					t.Errorf("Positional(1) = %q", p.Positional(1))
				}
			},
		},
		{
			name:    "negative number is positional",
			args:    []string{"set", "Steak", "24", "-1"},
			wantSub: "set",
			validate: func(t *testing.T, p *ArgParser) {
				if p.PositionalCount() != 4 {
					t.Errorf("PositionalCount() = %d, want 4", p.PositionalCount())
				}
			},
		},
		{
			name:    "double dash ends flags",
			args:    []string{"chez-marie", "--", "--raw", "question"},
			bools:   []string{"raw"},
			wantSub: "chez-marie",
			validate: func(t *testing.T, p *ArgParser) {
				if p.BoolFlag("raw") {
					t.Error("raw after -- should be positional")
				}
				want := []string{"--raw", "question"}
				if got := p.PositionalFrom(1); !reflect.DeepEqual(got, want) {
					t.Errorf("PositionalFrom(1) = %v, want %v", got, want)
				}
			},
		},
		{
			name:    "trailing flag is boolean",
			args:    []string{"show", "--copy"},
			wantSub: "show",
			validate: func(t *testing.T, p *ArgParser) {
				if !p.BoolFlag("copy") {
					t.Error("copy should be set")
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := NewArgParser(tt.args, tt.bools...)
			if p.Subcommand() != tt.wantSub {
				t.Errorf("Subcommand() = %q, want %q", p.Subcommand(), tt.wantSub)
			}
			if tt.validate != nil {
				tt.validate(t, p)
			}
		})
	}
}

func TestArgParser_FlagInt(t *testing.T) {
	p := NewArgParser([]string{"--qty", "3", "--bad", "x"})

	if n, err := p.FlagInt("qty"); err != nil || n != 3 {
		t.Errorf("FlagInt(qty) = %d, %v", n, err)
	}
	if _, err := p.FlagInt("bad"); err == nil {
		t.Error("FlagInt(bad) should fail")
	}
	if _, err := p.FlagInt("missing"); err == nil {
		t.Error("FlagInt(missing) should fail")
	}
}

func TestArgParser_HasFlagAndDefaults(t *testing.T) {
	p := NewArgParser([]string{"--copy", "--qr-out", "qr.png"}, "copy")

	if !p.HasFlag("copy") || !p.HasFlag("--qr-out") {
		t.Error("HasFlag should see both flags")
	}
	if p.HasFlag("json") {
		t.Error("HasFlag(json) should be false")
	}
	if got := p.FlagOrDefault("languages", "en,fr,es"); got != "en,fr,es" {
		t.Errorf("FlagOrDefault = %q", got)
	}
	if got := p.Flag("missing", "qr-out"); got != "qr.png" {
		t.Errorf("Flag with aliases = %q", got)
	}
}

func TestArgParser_EmptyArgs(t *testing.T) {
	p := NewArgParser(nil)
	if p.Subcommand() != "" || p.PositionalCount() != 0 || p.Positional(3) != "" {
		t.Error("empty parser should have no positionals")
	}
	if len(p.PositionalFrom(1)) != 0 {
		t.Error("PositionalFrom on empty parser should be empty")
	}
}

// =============================================================================
// COMMAND PARSING TESTS (cli.go)
// =============================================================================

func TestParseArgs(t *testing.T) {
	tests := []struct {
		name        string
		argv        []string
		wantCommand Command
		validate    func(*testing.T, Args)
	}{
		{
			name:        "no arguments starts the TUI",
			argv:        nil,
			wantCommand: CmdTUI,
		},
		{
			name:        "bare slug starts the TUI on that menu",
			argv:        []string{"chez-marie"},
			wantCommand: CmdTUI,
			validate: func(t *testing.T, a Args) {
				if a.Slug != "chez-marie" {
					t.Errorf("Slug = %q", a.Slug)
				}
			},
		},
		{
			name:        "tui with lang",
			argv:        []string{"tui", "chez-marie", "--lang", "fr"},
			wantCommand: CmdTUI,
			validate: func(t *testing.T, a Args) {
				if a.Slug != "chez-marie" || a.Lang != "fr" {
					t.Errorf("Slug = %q, Lang = %q", a.Slug, a.Lang)
				}
			},
		},
		{
			name:        "menu with global flags anywhere",
			argv:        []string{"--json", "menu", "chez-marie", "--api=http://localhost:9000"},
			wantCommand: CmdMenu,
			validate: func(t *testing.T, a Args) {
				if !a.JSON {
					t.Error("JSON should be set")
				}
				if a.APIURL != "http://localhost:9000" {
					t.Errorf("APIURL = %q", a.APIURL)
				}
				if a.Slug != "chez-marie" {
					t.Errorf("Slug = %q", a.Slug)
				}
			},
		},
		{
			name:        "ask keeps the question positional",
			argv:        []string{"ask", "chez-marie", "--stream", "Any fish today?"},
			wantCommand: CmdAsk,
			validate: func(t *testing.T, a Args) {
				if a.Slug != "chez-marie" {
					t.Errorf("Slug = %q", a.Slug)
				}
				if !a.Sub.BoolFlag("stream") {
					t.Error("stream should be set")
				}
				if a.Sub.Positional(1) != "Any fish today?" {
					t.Errorf("question = %q", a.Sub.Positional(1))
				}
			},
		},
		{
			name:        "cart has no slug",
			argv:        []string{"cart", "add", "Tiramisu", "7"},
			wantCommand: CmdCart,
			validate: func(t *testing.T, a Args) {
				if a.Slug != "" {
					t.Errorf("Slug = %q, want empty", a.Slug)
				}
				if a.Sub.Subcommand() != "add" {
					t.Errorf("Subcommand = %q", a.Sub.Subcommand())
				}
			},
		},
		{
			name:        "verbose, ephemeral and config",
			argv:        []string{"-v", "--ephemeral", "--config", "/tmp/c.toml", "session"},
			wantCommand: CmdSession,
			validate: func(t *testing.T, a Args) {
				if !a.Verbose || !a.Ephemeral {
					t.Error("Verbose and Ephemeral should be set")
				}
				if a.ConfigPath != "/tmp/c.toml" {
					t.Errorf("ConfigPath = %q", a.ConfigPath)
				}
			},
		},
		{name: "upload", argv: []string{"upload", "--name", "X"}, wantCommand: CmdUpload},
		{name: "chat", argv: []string{"chat", "chez-marie"}, wantCommand: CmdChat},
		{name: "config", argv: []string{"config", "path"}, wantCommand: CmdConfig},
		{name: "version flag", argv: []string{"--version"}, wantCommand: CmdVersion},
		{name: "help flag", argv: []string{"-h"}, wantCommand: CmdHelp},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cmd, args := ParseArgs(tt.argv)
			if cmd != tt.wantCommand {
				t.Errorf("command = %v, want %v", cmd, tt.wantCommand)
			}
			if args.Sub == nil {
				t.Fatal("Sub should never be nil")
			}
			if tt.validate != nil {
				tt.validate(t, args)
			}
		})
	}
}

func TestCommandString(t *testing.T) {
	for cmd, want := range map[Command]string{
		CmdTUI: "tui", CmdMenu: "menu", CmdCart: "cart", CmdAsk: "ask",
		CmdUpload: "upload", CmdConfig: "config", Command(99): "unknown",
	} {
		if got := cmd.String(); got != want {
			t.Errorf("%d.String() = %q, want %q", cmd, got, want)
		}
	}
}
