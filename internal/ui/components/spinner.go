// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/easyq/easyq-tui/internal/ui/styles"
)

// =============================================================================
// SPINNER MODEL
// =============================================================================

// Spinner shows an animated label such as "Thinking...".
type Spinner struct {
	spinner spinner.Model
	Label   string
	theme   *styles.Theme
}

// NewSpinner creates a spinner animating cfg.
func NewSpinner(theme *styles.Theme, cfg styles.SpinnerConfig, label string) Spinner {
	s := spinner.New()
	s.Spinner = spinner.Spinner{Frames: cfg.Frames, FPS: cfg.Duration()}
	return Spinner{spinner: s, Label: label, theme: theme}
}

// Tick starts the animation.
func (s Spinner) Tick() tea.Msg {
	return s.spinner.Tick()
}

// Update advances the animation.
func (s Spinner) Update(msg tea.Msg) (Spinner, tea.Cmd) {
	var cmd tea.Cmd
	s.spinner, cmd = s.spinner.Update(msg)
	return s, cmd
}

// View renders the label followed by the current frame.
func (s Spinner) View() string {
	return s.theme.ThinkingText.Render(s.Label + " " + s.spinner.View())
}
