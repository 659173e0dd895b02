// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package styles

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

// Theme holds all the styled components for the application.
// It detects the terminal's color capability and adjusts accordingly.
type Theme struct {
	// Terminal capabilities
	IsDark       bool
	HasTrueColor bool
	ColorProfile termenv.Profile

	// Layout dimensions
	Width  int
	Height int

	// ==========================================================================
	// HEADER STYLES
	// ==========================================================================

	Header         lipgloss.Style
	HeaderTitle    lipgloss.Style
	HeaderSubtitle lipgloss.Style
	Badge          lipgloss.Style
	Tab            lipgloss.Style
	TabActive      lipgloss.Style

	// ==========================================================================
	// MENU STYLES
	// ==========================================================================

	SectionTitle    lipgloss.Style
	ItemName        lipgloss.Style
	ItemSelected    lipgloss.Style
	ItemDescription lipgloss.Style
	Tag             lipgloss.Style
	Price           lipgloss.Style
	AddButton       lipgloss.Style
	AddedButton     lipgloss.Style
	WineInfo        lipgloss.Style

	// ==========================================================================
	// CHAT STYLES
	// ==========================================================================

	UserBubble      lipgloss.Style
	AssistantBubble lipgloss.Style
	Bold            lipgloss.Style
	Chip            lipgloss.Style
	ChipAdded       lipgloss.Style
	ThinkingText    lipgloss.Style
	InputContainer  lipgloss.Style
	InputFocused    lipgloss.Style

	// ==========================================================================
	// CART STYLES
	// ==========================================================================

	CartLine     lipgloss.Style
	CartSelected lipgloss.Style
	Quantity     lipgloss.Style
	Total        lipgloss.Style
	PayButton    lipgloss.Style
	Payment      lipgloss.Style

	// ==========================================================================
	// STATUS AND FEEDBACK
	// ==========================================================================

	StatusBar    lipgloss.Style
	ShortcutKey  lipgloss.Style
	ShortcutDesc lipgloss.Style
	Notice       lipgloss.Style
	ErrorText    lipgloss.Style
	Muted        lipgloss.Style
	Empty        lipgloss.Style
}

// NewTheme creates a theme for the current terminal.
func NewTheme() *Theme {
	colorProfile := termenv.ColorProfile()
	t := &Theme{
		IsDark:       termenv.HasDarkBackground(),
		HasTrueColor: colorProfile == termenv.TrueColor,
		ColorProfile: colorProfile,
	}
	t.initStyles()
	return t
}

// initStyles initializes all the lip gloss styles.
func (t *Theme) initStyles() {
	// Header
	t.Header = lipgloss.NewStyle().
		Background(SurfaceDim).
		Padding(0, 1)

	t.HeaderTitle = lipgloss.NewStyle().
		Bold(true).
		Foreground(Terracotta)

	t.HeaderSubtitle = lipgloss.NewStyle().
		Foreground(TextSecondary).
		Italic(true)

	t.Badge = lipgloss.NewStyle().
		Foreground(TextInverse).
		Background(Terracotta).
		Bold(true).
		Padding(0, 1)

	t.Tab = lipgloss.NewStyle().
		Foreground(TextMuted).
		Padding(0, 1)

	t.TabActive = lipgloss.NewStyle().
		Foreground(Terracotta).
		Bold(true).
		Underline(true).
		Padding(0, 1)

	// Menu
	t.SectionTitle = lipgloss.NewStyle().
		Bold(true).
		Foreground(Olive).
		MarginTop(1)

	t.ItemName = lipgloss.NewStyle().
		Foreground(TextPrimary).
		Bold(true)

	t.ItemSelected = lipgloss.NewStyle().
		Foreground(TextInverse).
		Background(Terracotta).
		Bold(true)

	t.ItemDescription = lipgloss.NewStyle().
		Foreground(TextSecondary)

	t.Tag = lipgloss.NewStyle().
		Foreground(TextMuted).
		Italic(true)

	t.Price = lipgloss.NewStyle().
		Foreground(Gold).
		Bold(true)

	t.AddButton = lipgloss.NewStyle().
		Foreground(Olive)

	t.AddedButton = lipgloss.NewStyle().
		Foreground(Emerald).
		Bold(true)

	t.WineInfo = lipgloss.NewStyle().
		Foreground(Burgundy).
		Italic(true)

	// Chat
	t.UserBubble = lipgloss.NewStyle().
		Foreground(UserBubbleFg).
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(UserBubbleBorder).
		Padding(0, 1).
		MarginLeft(4)

	t.AssistantBubble = lipgloss.NewStyle().
		Foreground(AssistantBubbleFg).
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(AssistantBubbleBorder).
		Padding(0, 1).
		MarginRight(4)

	t.Bold = lipgloss.NewStyle().Bold(true)

	t.Chip = lipgloss.NewStyle().
		Foreground(ChipFg).
		Background(ChipBg).
		Bold(true)

	t.ChipAdded = lipgloss.NewStyle().
		Foreground(TextInverse).
		Background(Emerald).
		Bold(true)

	t.ThinkingText = lipgloss.NewStyle().
		Foreground(TextMuted).
		Italic(true)

	t.InputContainer = lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(Overlay).
		Padding(0, 1)

	t.InputFocused = t.InputContainer.
		BorderForeground(Terracotta)

	// Cart
	t.CartLine = lipgloss.NewStyle().
		Foreground(TextPrimary)

	t.CartSelected = lipgloss.NewStyle().
		Foreground(TextInverse).
		Background(Terracotta)

	t.Quantity = lipgloss.NewStyle().
		Bold(true).
		Padding(0, 1)

	t.Total = lipgloss.NewStyle().
		Foreground(Gold).
		Bold(true)

	t.PayButton = lipgloss.NewStyle().
		Foreground(TextInverse).
		Background(Olive).
		Bold(true).
		Padding(0, 2)

	t.Payment = lipgloss.NewStyle().
		Foreground(TextSecondary).
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(Overlay).
		Padding(0, 1)

	// Status and feedback
	t.StatusBar = lipgloss.NewStyle().
		Foreground(TextSecondary).
		Background(SurfaceDim).
		Padding(0, 1)

	t.ShortcutKey = lipgloss.NewStyle().
		Foreground(Terracotta).
		Bold(true)

	t.ShortcutDesc = lipgloss.NewStyle().
		Foreground(TextMuted)

	t.Notice = lipgloss.NewStyle().
		Foreground(Amber)

	t.ErrorText = lipgloss.NewStyle().
		Foreground(Rose).
		Bold(true)

	t.Muted = lipgloss.NewStyle().
		Foreground(TextMuted)

	t.Empty = lipgloss.NewStyle().
		Foreground(TextSecondary).
		Italic(true).
		Padding(1, 2)
}

// SetSize updates the theme dimensions for responsive layouts.
func (t *Theme) SetSize(width, height int) {
	t.Width = width
	t.Height = height
}

// GetLayoutMode returns the current layout mode based on width.
func (t *Theme) GetLayoutMode() LayoutMode {
	if t.Width < 60 {
		return LayoutNarrow
	}
	if t.Width < 100 {
		return LayoutMedium
	}
	return LayoutWide
}

// LayoutMode represents the current responsive layout mode.
type LayoutMode int

const (
	LayoutNarrow LayoutMode = iota // < 60 columns
	LayoutMedium                   // 60-100 columns
	LayoutWide                     // > 100 columns
)
