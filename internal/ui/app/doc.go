// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

/*
Package app is the Bubble Tea root model of the easyq TUI.

It owns three screens over one restaurant menu: the menu itself, the
assistant chat and the cart. The cart store and the session id come from
the caller, so the CLI and the TUI share the same cart.

# Key Types

  - Model: the root tea.Model
  - Deps: collaborators (API client, cart, translations, config)
  - StreamingBuffer: hands the in-progress answer to the render loop
  - KeyMap: bindings per screen

# Streaming

A chat submit runs chat.Conversation.Begin inside Update, so a second
submit is rejected while an answer is in flight. The stream itself runs in
a tea.Cmd; its chunks land in a StreamingBuffer that a ~30fps tick drains,
and completion comes back as a message.

# Usage

	m := app.New(ctx, app.Deps{Client: client, Cart: store, Slug: "chez-marie", Lang: "en"})
	p := tea.NewProgram(m, tea.WithAltScreen())
	_, err := p.Run()
*/
package app
