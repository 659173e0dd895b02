// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

/*
Package components provides reusable UI pieces for the easyq TUI.

# Components

Header (header.go) - Restaurant name, screen tabs, language selector, cart badge.
StatusBar (statusbar.go) - Transient notice plus the key hints of the screen.
LanguageSelector (language.go) - Cycles a menu's available languages.
Spinner (spinner.go) - "Thinking..." animation built on bubbles/spinner.
Flash (flash.go) - Short-lived "Added!" affordances keyed by item.

# Usage

All components take a *styles.Theme:

	theme := styles.NewTheme()
	header := components.NewHeader(theme)
	header.Title = doc.RestaurantName
	header.CartCount = cart.ItemCount()
	view := header.View()

A Flash is driven by Bubble Tea ticks:

	if cmd, ok := flash.Trigger("item:3", 1500*time.Millisecond); ok {
	    return m, cmd
	}
	// later, in Update:
	case components.FlashExpiredMsg:
	    flash.Expire(msg)
*/
package components
