// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"

	"github.com/easyq/easyq-tui/internal/ui/styles"
	"github.com/easyq/easyq-tui/internal/util"
)

// =============================================================================
// STATUS BAR
// =============================================================================

// StatusBar shows a transient notice and the key hints of the current screen.
type StatusBar struct {
	Notice   string
	IsError  bool
	Bindings []key.Binding
	Width    int
	theme    *styles.Theme
}

// NewStatusBar creates a status bar.
func NewStatusBar(theme *styles.Theme) *StatusBar {
	return &StatusBar{Width: 80, theme: theme}
}

// SetNotice shows msg until the next ClearNotice.
func (s *StatusBar) SetNotice(msg string, isError bool) {
	s.Notice = msg
	s.IsError = isError
}

// ClearNotice removes the notice.
func (s *StatusBar) ClearNotice() {
	s.Notice = ""
	s.IsError = false
}

// View renders the bar, dropping hints that do not fit.
func (s *StatusBar) View() string {
	width := s.Width
	if width < 20 {
		width = 20
	}

	var notice string
	if s.Notice != "" {
		if s.IsError {
			notice = styles.RenderError(s.Notice)
		} else {
			notice = s.theme.Notice.Render(s.Notice)
		}
	}

	budget := width - 2 - util.Width(notice)
	var hints []string
	used := 0
	for _, b := range s.Bindings {
		if !b.Enabled() {
			continue
		}
		h := b.Help()
		hint := s.theme.ShortcutKey.Render(h.Key) + " " + s.theme.ShortcutDesc.Render(h.Desc)
		w := util.Width(h.Key) + 1 + util.Width(h.Desc) + 2
		if used+w > budget {
			break
		}
		hints = append(hints, hint)
		used += w
	}

	line := strings.Join(hints, "  ")
	if notice != "" {
		if line != "" {
			line = notice + "  " + line
		} else {
			line = notice
		}
	}
	return s.theme.StatusBar.Width(width).Render(line)
}
