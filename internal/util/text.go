// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package util

import (
	"strings"

	"github.com/mattn/go-runewidth"
)

// UNICODE: Column math uses display width, not bytes or runes. Dish names
// carry accents and the occasional wide glyph, and prices must still line up.

// Width returns the number of terminal columns s occupies.
func Width(s string) int {
	return runewidth.StringWidth(s)
}

// Truncate shortens s to at most maxWidth columns, ending with "…" when
// anything was cut.
func Truncate(s string, maxWidth int) string {
	if maxWidth <= 0 {
		return ""
	}
	if runewidth.StringWidth(s) <= maxWidth {
		return s
	}
	if maxWidth == 1 {
		return runewidth.Truncate(s, 1, "")
	}
	return runewidth.Truncate(s, maxWidth, "…")
}

// PadRight left-aligns s in a field of width columns.
func PadRight(s string, width int) string {
	return runewidth.FillRight(s, width)
}

// PadLeft right-aligns s in a field of width columns.
func PadLeft(s string, width int) string {
	return runewidth.FillLeft(s, width)
}

// Columns lays out a label and a right-aligned value on one line of the
// given width, truncating the label when the two would collide.
func Columns(label, value string, width int) string {
	vw := runewidth.StringWidth(value)
	room := width - vw - 1
	if room < 1 {
		return label + " " + value
	}
	label = Truncate(label, room)
	gap := width - runewidth.StringWidth(label) - vw
	if gap < 1 {
		gap = 1
	}
	return label + strings.Repeat(" ", gap) + value
}
