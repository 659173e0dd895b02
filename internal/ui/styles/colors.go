// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package styles

import "github.com/charmbracelet/lipgloss"

// =============================================================================
// PRIMARY ACCENT COLORS
// =============================================================================

// Terracotta - Primary accent, restaurant name, selections
var Terracotta = lipgloss.AdaptiveColor{Light: "#C2410C", Dark: "#FB923C"}

// TerracottaDeep - Darker accent for backgrounds
var TerracottaDeep = lipgloss.AdaptiveColor{Light: "#9A3412", Dark: "#7C2D12"}

// Olive - Section titles, add buttons
var Olive = lipgloss.AdaptiveColor{Light: "#4D7C0F", Dark: "#A3E635"}

// Burgundy - Wine list
var Burgundy = lipgloss.AdaptiveColor{Light: "#9F1239", Dark: "#FDA4AF"}

// Gold - Prices and totals
var Gold = lipgloss.AdaptiveColor{Light: "#B45309", Dark: "#FCD34D"}

// =============================================================================
// SEMANTIC COLORS
// =============================================================================

// Emerald - Success states, "added" confirmations
var Emerald = lipgloss.AdaptiveColor{Light: "#059669", Dark: "#34D399"}

// Rose - Errors
var Rose = lipgloss.AdaptiveColor{Light: "#E11D48", Dark: "#FB7185"}

// Amber - Warnings, busy notices
var Amber = lipgloss.AdaptiveColor{Light: "#D97706", Dark: "#FBBF24"}

// =============================================================================
// SURFACE COLORS
// =============================================================================

// Surface - Main background
var Surface = lipgloss.AdaptiveColor{Light: "#FFFBF5", Dark: "#1C1917"}

// SurfaceDim - Headers and footers
var SurfaceDim = lipgloss.AdaptiveColor{Light: "#F5F0E8", Dark: "#141210"}

// Overlay - Borders, separators
var Overlay = lipgloss.AdaptiveColor{Light: "#E7E0D6", Dark: "#44403C"}

// =============================================================================
// TEXT COLORS
// =============================================================================

// TextPrimary - Main body text
var TextPrimary = lipgloss.AdaptiveColor{Light: "#292524", Dark: "#F5F5F4"}

// TextSecondary - Descriptions, labels
var TextSecondary = lipgloss.AdaptiveColor{Light: "#57534E", Dark: "#D6D3D1"}

// TextMuted - Hints, tags
var TextMuted = lipgloss.AdaptiveColor{Light: "#A8A29E", Dark: "#78716C"}

// TextInverse - Text on colored backgrounds
var TextInverse = lipgloss.AdaptiveColor{Light: "#FFFFFF", Dark: "#1C1917"}

// =============================================================================
// MESSAGE BUBBLE COLORS
// =============================================================================

// User message bubble
var UserBubbleFg = lipgloss.AdaptiveColor{Light: "#1E3A8A", Dark: "#DBEAFE"}
var UserBubbleBorder = lipgloss.AdaptiveColor{Light: "#3B82F6", Dark: "#3B82F6"}

// Assistant (waiter) message bubble
var AssistantBubbleFg = lipgloss.AdaptiveColor{Light: "#44403C", Dark: "#F5F5F4"}
var AssistantBubbleBorder = lipgloss.AdaptiveColor{Light: "#FDBA74", Dark: "#C2410C"}

// Dish chip
var ChipBg = lipgloss.AdaptiveColor{Light: "#FFEDD5", Dark: "#431407"}
var ChipFg = lipgloss.AdaptiveColor{Light: "#9A3412", Dark: "#FED7AA"}

// =============================================================================
// ACCESSIBILITY: Shapes alongside colors
// =============================================================================

// StatusIndicatorSet contains text indicators for status states.
type StatusIndicatorSet struct {
	Success string
	Error   string
	Warning string
	Info    string
}

// StatusIndicators provides ASCII shape indicators alongside colors.
var StatusIndicators = StatusIndicatorSet{
	Success: "[OK]",
	Error:   "[X]",
	Warning: "[!]",
	Info:    "[i]",
}

// RenderSuccess renders a success message with its indicator.
func RenderSuccess(message string) string {
	return lipgloss.NewStyle().Foreground(Emerald).Bold(true).
		Render(StatusIndicators.Success + " " + message)
}

// RenderError renders an error message with its indicator.
func RenderError(message string) string {
	return lipgloss.NewStyle().Foreground(Rose).Bold(true).
		Render(StatusIndicators.Error + " " + message)
}

// RenderWarning renders a warning message with its indicator.
func RenderWarning(message string) string {
	return lipgloss.NewStyle().Foreground(Amber).Bold(true).
		Render(StatusIndicators.Warning + " " + message)
}

// RenderInfo renders an informational message with its indicator.
func RenderInfo(message string) string {
	return lipgloss.NewStyle().Foreground(TextSecondary).
		Render(StatusIndicators.Info + " " + message)
}
