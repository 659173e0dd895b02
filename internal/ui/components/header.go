// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"strconv"

	"github.com/charmbracelet/lipgloss"

	"github.com/easyq/easyq-tui/internal/ui/styles"
)

// =============================================================================
// HEADER COMPONENT
// =============================================================================

// Tab is one screen label in the header.
type Tab struct {
	Label  string
	Active bool
}

// Header is the title bar: restaurant name, screen tabs, language selector
// and the cart badge.
type Header struct {
	Title     string
	Subtitle  string
	Tabs      []Tab
	CartCount int
	Languages *LanguageSelector
	Width     int
	theme     *styles.Theme
}

// NewHeader creates a header.
func NewHeader(theme *styles.Theme) *Header {
	return &Header{Width: 80, theme: theme}
}

// SetWidth updates the header width.
func (h *Header) SetWidth(width int) {
	h.Width = width
}

// View renders the header.
func (h *Header) View() string {
	width := h.Width
	if width < 40 {
		width = 40
	}

	left := h.theme.HeaderTitle.Render(h.Title)
	if h.Subtitle != "" {
		left += " " + h.theme.HeaderSubtitle.Render(h.Subtitle)
	}

	var tabs string
	for _, t := range h.Tabs {
		if t.Active {
			tabs += h.theme.TabActive.Render(t.Label)
		} else {
			tabs += h.theme.Tab.Render(t.Label)
		}
	}

	right := tabs
	if h.Languages != nil {
		right += "  " + h.Languages.View()
	}
	if h.CartCount > 0 {
		right += " " + h.theme.Badge.Render(strconv.Itoa(h.CartCount))
	}

	inner := width - 2
	gap := inner - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < 1 {
		// Narrow terminals stack the title over the controls.
		return h.theme.Header.Width(width).Render(lipgloss.JoinVertical(lipgloss.Left, left, right))
	}
	return h.theme.Header.Width(width).Render(left + spaces(gap) + right)
}

func spaces(n int) string {
	if n <= 0 {
		return ""
	}
	b := make([]byte, n)
	for i := range b {
		b[i] = ' '
	}
	return string(b)
}
