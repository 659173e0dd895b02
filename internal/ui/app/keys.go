// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package app

import (
	"strconv"

	"github.com/charmbracelet/bubbles/key"
)

// =============================================================================
// KEY BINDINGS
// =============================================================================

// KeyMap holds every binding of the TUI, grouped by screen.
type KeyMap struct {
	// Global
	Quit key.Binding

	// Menu screen
	Up       key.Binding
	Down     key.Binding
	Add      key.Binding
	Language key.Binding
	OpenChat key.Binding
	OpenCart key.Binding
	Exit     key.Binding

	// Chat screen
	Send      key.Binding
	ClearChat key.Binding
	Back      key.Binding
	Focus     key.Binding
	Chips     []key.Binding // alt+1..alt+9
	Digits    []key.Binding // 1..9 while the message list has focus

	// Cart screen
	Increase  key.Binding
	Decrease  key.Binding
	Remove    key.Binding
	ClearCart key.Binding
	Browse    key.Binding
}

// DefaultKeyMap returns the default bindings.
func DefaultKeyMap() KeyMap {
	km := KeyMap{
		Quit: key.NewBinding(
			key.WithKeys("ctrl+c"),
			key.WithHelp("ctrl+c", "quit"),
		),

		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("↑/k", "up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("↓/j", "down"),
		),
		Add: key.NewBinding(
			key.WithKeys("enter", "a"),
			key.WithHelp("enter", "add"),
		),
		Language: key.NewBinding(
			key.WithKeys("l"),
			key.WithHelp("l", "language"),
		),
		OpenChat: key.NewBinding(
			key.WithKeys("c"),
			key.WithHelp("c", "assistant"),
		),
		OpenCart: key.NewBinding(
			key.WithKeys("b"),
			key.WithHelp("b", "cart"),
		),
		Exit: key.NewBinding(
			key.WithKeys("q"),
			key.WithHelp("q", "quit"),
		),

		Send: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "send"),
		),
		ClearChat: key.NewBinding(
			key.WithKeys("ctrl+n"),
			key.WithHelp("ctrl+n", "new conversation"),
		),
		Back: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "back"),
		),
		Focus: key.NewBinding(
			key.WithKeys("tab"),
			key.WithHelp("tab", "dishes"),
		),

		Increase: key.NewBinding(
			key.WithKeys("+", "="),
			key.WithHelp("+", "more"),
		),
		Decrease: key.NewBinding(
			key.WithKeys("-"),
			key.WithHelp("-", "less"),
		),
		Remove: key.NewBinding(
			key.WithKeys("x", "delete"),
			key.WithHelp("x", "remove"),
		),
		ClearCart: key.NewBinding(
			key.WithKeys("X"),
			key.WithHelp("X", "clear"),
		),
		Browse: key.NewBinding(
			key.WithKeys("esc", "m"),
			key.WithHelp("m", "menu"),
		),
	}

	for i := 1; i <= 9; i++ {
		n := strconv.Itoa(i)
		km.Chips = append(km.Chips, key.NewBinding(
			key.WithKeys("alt+"+n),
			key.WithHelp("alt+1-9", "add dish"),
		))
		km.Digits = append(km.Digits, key.NewBinding(
			key.WithKeys(n),
			key.WithHelp("1-9", "add dish"),
		))
	}
	return km
}

// MenuHelp returns the hints shown on the menu screen.
func (k KeyMap) MenuHelp() []key.Binding {
	return []key.Binding{k.Add, k.OpenChat, k.OpenCart, k.Language, k.Up, k.Down, k.Exit}
}

// ChatHelp returns the hints shown on the chat screen.
func (k KeyMap) ChatHelp(chipFocus bool) []key.Binding {
	if chipFocus {
		return []key.Binding{k.Digits[0], k.Focus, k.Back}
	}
	return []key.Binding{k.Send, k.Chips[0], k.Focus, k.ClearChat, k.Back}
}

// CartHelp returns the hints shown on the cart screen.
func (k KeyMap) CartHelp() []key.Binding {
	return []key.Binding{k.Increase, k.Decrease, k.Remove, k.ClearCart, k.Browse}
}

// chipIndex returns the 0-based chip a key selects, or -1.
func chipIndex(bindings []key.Binding, msg interface{ String() string }) int {
	s := msg.String()
	for i, b := range bindings {
		for _, k := range b.Keys() {
			if k == s {
				return i
			}
		}
	}
	return -1
}
