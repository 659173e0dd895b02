// args.go - Argument parsing shared by every easyq subcommand.
//
// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"fmt"
	"strconv"
	"strings"
)

// =============================================================================
// ARG PARSER
// =============================================================================

// ArgParser parses the arguments that follow a command name. It handles:
//   - Long flags: --flag value or --flag=value
//   - Short flags: -f value
//   - Boolean flags: --flag (declared up front so they never eat a value)
//   - Positional arguments: everything else, in order
//
// A lone "--" ends flag parsing; the rest is positional.
type ArgParser struct {
	subcommand string
	flags      map[string]string
	boolFlags  map[string]bool
	positional []string
	raw        []string
}

// NewArgParser parses raw. Names in boolNames are always boolean.
//
// Example:
//
//	args := NewArgParser([]string{"add", "Steak", "24", "--json"}, "json")
//	args.Subcommand()     // "add"
//	args.Positional(1)    // "Steak"
//	args.BoolFlag("json") // true
func NewArgParser(raw []string, boolNames ...string) *ArgParser {
	known := make(map[string]bool, len(boolNames))
	for _, n := range boolNames {
		known[n] = true
	}

	p := &ArgParser{
		flags:      make(map[string]string),
		boolFlags:  make(map[string]bool),
		positional: make([]string, 0),
		raw:        raw,
	}

	for i := 0; i < len(raw); i++ {
		arg := raw[i]

		if arg == "--" {
			p.positional = append(p.positional, raw[i+1:]...)
			break
		}
		// "-" alone and negative numbers are values, not flags.
		if !isFlag(arg) {
			p.positional = append(p.positional, arg)
			continue
		}

		name := strings.TrimLeft(arg, "-")
		if k, v, ok := strings.Cut(name, "="); ok {
			if known[k] || v == "true" || v == "false" {
				p.boolFlags[k] = v == "true"
			} else {
				p.flags[k] = v
			}
			continue
		}

		if !known[name] && i+1 < len(raw) && !isFlag(raw[i+1]) {
			p.flags[name] = raw[i+1]
			i++
			continue
		}
		p.boolFlags[name] = true
	}

	if len(p.positional) > 0 {
		p.subcommand = p.positional[0]
	}
	return p
}

func isFlag(s string) bool {
	if len(s) < 2 || s[0] != '-' {
		return false
	}
	if _, err := strconv.ParseFloat(s, 64); err == nil {
		return false
	}
	return true
}

// Subcommand returns the first positional argument.
func (p *ArgParser) Subcommand() string {
	return p.subcommand
}

// Flag returns the value of a string flag, or "".
func (p *ArgParser) Flag(names ...string) string {
	for _, n := range names {
		if v, ok := p.flags[strings.TrimLeft(n, "-")]; ok {
			return v
		}
	}
	return ""
}

// FlagOrDefault returns the flag value or def.
func (p *ArgParser) FlagOrDefault(name, def string) string {
	if v := p.Flag(name); v != "" {
		return v
	}
	return def
}

// FlagInt returns the flag value as an integer.
func (p *ArgParser) FlagInt(name string) (int, error) {
	v := p.Flag(name)
	if v == "" {
		return 0, fmt.Errorf("flag %s not found", name)
	}
	return strconv.Atoi(v)
}

// BoolFlag reports whether any of the named boolean flags was set.
func (p *ArgParser) BoolFlag(names ...string) bool {
	for _, n := range names {
		if p.boolFlags[strings.TrimLeft(n, "-")] {
			return true
		}
	}
	return false
}

// Positional returns the positional argument at index, or "". Index 0 is
// the subcommand.
func (p *ArgParser) Positional(index int) string {
	if index < 0 || index >= len(p.positional) {
		return ""
	}
	return p.positional[index]
}

// PositionalFrom returns the positional arguments from index on.
func (p *ArgParser) PositionalFrom(index int) []string {
	if index < 0 || index >= len(p.positional) {
		return []string{}
	}
	return p.positional[index:]
}

// PositionalCount returns the number of positional arguments.
func (p *ArgParser) PositionalCount() int {
	return len(p.positional)
}

// HasFlag reports whether name was given as a string or boolean flag.
func (p *ArgParser) HasFlag(name string) bool {
	name = strings.TrimLeft(name, "-")
	_, s := p.flags[name]
	_, b := p.boolFlags[name]
	return s || b
}

// Raw returns the unparsed arguments.
func (p *ArgParser) Raw() []string {
	return p.raw
}
