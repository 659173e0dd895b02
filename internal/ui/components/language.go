// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"strings"

	"github.com/easyq/easyq-tui/internal/i18n"
	"github.com/easyq/easyq-tui/internal/ui/styles"
)

// =============================================================================
// LANGUAGE SELECTOR
// =============================================================================

// LanguageSelector cycles through a menu's available languages.
type LanguageSelector struct {
	Options []string
	Current string
	theme   *styles.Theme
}

// NewLanguageSelector creates a selector.
func NewLanguageSelector(theme *styles.Theme, current string) *LanguageSelector {
	return &LanguageSelector{Current: current, theme: theme}
}

// SetOptions replaces the available languages. The current language is
// always kept as an option.
func (l *LanguageSelector) SetOptions(opts []string) {
	l.Options = opts
}

// Next returns the language after Current, wrapping around. With fewer than
// two options it returns Current.
func (l *LanguageSelector) Next() string {
	if len(l.Options) < 2 {
		return l.Current
	}
	for i, o := range l.Options {
		if o == l.Current {
			return l.Options[(i+1)%len(l.Options)]
		}
	}
	return l.Options[0]
}

// View renders "EN | FR | ES" with the current language highlighted.
func (l *LanguageSelector) View() string {
	opts := l.Options
	if len(opts) == 0 {
		opts = []string{l.Current}
	}
	parts := make([]string, 0, len(opts))
	for _, o := range opts {
		label := i18n.Label(o)
		if o == l.Current {
			parts = append(parts, l.theme.TabActive.Render(label))
		} else {
			parts = append(parts, l.theme.Tab.Render(label))
		}
	}
	return strings.Join(parts, l.theme.Muted.Render("|"))
}
