// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package styles provides the visual styling system for the easyq TUI.
//
// All colors use Lip Gloss AdaptiveColor for automatic light/dark
// detection. The Theme groups the styles used by the menu, chat and cart
// screens.
//
// # Key Types
//
//   - Theme: every screen style, plus terminal capability flags
//   - SpinnerConfig: frames for the thinking and loading spinners
//   - LayoutMode: narrow / medium / wide breakpoints
//
// # Usage
//
//	theme := styles.NewTheme()
//	theme.SetSize(width, height)
//	title := theme.HeaderTitle.Render(doc.RestaurantName)
//
// # Accessibility
//
// Status messages always carry an ASCII indicator ([OK], [X], [!], [i]) so
// meaning never depends on color alone.
package styles
