// styles.go - Shared styling for all easyq CLI commands.
//
// Colors are disabled for non-TTY output, when NO_COLOR is set, and with
// --no-color. FORCE_COLOR overrides TTY detection.
//
// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/easyq/easyq-tui/internal/ui/styles"
)

// init configures the lipgloss color profile from terminal capabilities.
func init() {
	lipgloss.SetColorProfile(GetColorProfile())
}

// =============================================================================
// SHARED STYLES FOR ALL CLI COMMANDS
// =============================================================================

var (
	// TitleStyle is used for restaurant names and command titles.
	TitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(styles.Terracotta)

	// SectionStyle is used for menu sections and groups within output.
	SectionStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(styles.Olive).
			MarginTop(1)

	// LabelStyle is used for field labels.
	LabelStyle = lipgloss.NewStyle().
			Foreground(styles.TextSecondary).
			Width(20)

	// ValueStyle is used for regular values.
	ValueStyle = lipgloss.NewStyle().
			Foreground(styles.TextPrimary)

	// PriceStyle is used for prices and totals.
	PriceStyle = lipgloss.NewStyle().
			Foreground(styles.Gold).
			Bold(true)

	// WineStyle is used for the wine info line.
	WineStyle = lipgloss.NewStyle().
			Foreground(styles.Burgundy).
			Italic(true)

	// SuccessStyle is used for success messages.
	SuccessStyle = lipgloss.NewStyle().
			Foreground(styles.Emerald).
			Bold(true)

	// ErrorStyle is used for error messages.
	ErrorStyle = lipgloss.NewStyle().
			Foreground(styles.Rose).
			Bold(true)

	// WarningStyle is used for warnings.
	WarningStyle = lipgloss.NewStyle().
			Foreground(styles.Amber)

	// DimStyle is used for secondary information and hints.
	DimStyle = lipgloss.NewStyle().
			Foreground(styles.TextMuted)

	// SeparatorStyle is used for visual separators.
	SeparatorStyle = lipgloss.NewStyle().
			Foreground(styles.Overlay)

	// PromptStyle is used for the chat REPL prompt and speaker labels.
	PromptStyle = lipgloss.NewStyle().
			Foreground(styles.Terracotta).
			Bold(true)

	// DishStyle marks a dish that can be added to the cart.
	DishStyle = lipgloss.NewStyle().
			Foreground(styles.ChipFg).
			Bold(true)
)

// =============================================================================
// HELPER FUNCTIONS FOR COMMON PATTERNS
// =============================================================================

// RenderSeparator renders a horizontal separator line. Default width is 60.
func RenderSeparator(width ...int) string {
	w := 60
	if len(width) > 0 && width[0] > 0 {
		w = width[0]
	}
	return SeparatorStyle.Render(strings.Repeat("─", w))
}

// RenderLabel renders a label with consistent width.
func RenderLabel(label string, width ...int) string {
	if len(width) > 0 && width[0] > 0 {
		return LabelStyle.Width(width[0]).Render(label)
	}
	return LabelStyle.Render(label)
}

// RenderSeparatorAdaptive renders a separator sized to the terminal.
func RenderSeparatorAdaptive() string {
	width := GetTerminalWidth()
	if width > 4 {
		width -= 4
	}
	if width > 80 {
		width = 80
	}
	return RenderSeparator(width)
}
