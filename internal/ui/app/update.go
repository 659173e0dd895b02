// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package app

import (
	"context"
	"errors"
	"fmt"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/easyq/easyq-tui/internal/api"
	"github.com/easyq/easyq-tui/internal/chat"
	"github.com/easyq/easyq-tui/internal/ui/components"
)

// =============================================================================
// UPDATE
// =============================================================================

// Update handles messages and updates the model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.layout()
		m.refreshChat(false)
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case menuLoadedMsg:
		return m.handleMenuLoaded(msg)

	case chatActivatedMsg:
		m.refreshChat(true)
		return m, nil

	case streamTickMsg:
		if !m.inFlight {
			return m, nil
		}
		if snapshot, ok := m.stream.Flush(); ok {
			m.live = snapshot
			m.refreshChat(true)
		}
		return m, streamTickCmd()

	case chatDoneMsg:
		return m.handleChatDone(msg)

	case chatClearedMsg:
		if msg.err != nil {
			m.status.SetNotice(msg.err.Error(), true)
		} else {
			m.status.ClearNotice()
		}
		m.refreshChat(true)
		return m, nil

	case components.FlashExpiredMsg:
		m.flash.Expire(msg)
		m.refreshChat(false)
		return m, nil

	case ConfigChangedMsg:
		return m.handleConfigChanged(msg)

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		if m.inFlight && m.live == "" {
			m.refreshChat(false)
		}
		return m, cmd
	}

	if m.screen == ScreenChat && !m.chipFocus {
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return m, cmd
	}
	return m, nil
}

// =============================================================================
// MESSAGE HANDLERS
// =============================================================================

func (m Model) handleMenuLoaded(msg menuLoadedMsg) (tea.Model, tea.Cmd) {
	if msg.slug != m.slug || msg.lang != m.lang {
		m.log.Debug().Str("lang", msg.lang).Msg("dropping stale menu")
		return m, nil
	}
	m.loading = false

	if msg.err != nil {
		m.log.Warn().Err(msg.err).Str("slug", msg.slug).Msg("menu unavailable")
		m.doc = nil
		m.catalog = nil
		m.screen = ScreenNotFound
		return m, nil
	}

	m.doc = msg.doc
	m.catalog = msg.doc.Catalog()
	if m.cursor >= len(m.catalog) {
		m.cursor = 0
	}
	m.langSel.SetOptions(msg.doc.Languages(m.lang))
	if m.screen == ScreenLoading {
		m.screen = ScreenMenu
	}
	m.syncHeader()
	m.layout()
	m.refreshChat(false)
	return m, nil
}

func (m Model) handleChatDone(msg chatDoneMsg) (tea.Model, tea.Cmd) {
	m.inFlight = false
	m.cancel = nil
	m.stream.Reset()
	m.live = ""

	switch {
	case msg.err == nil:
		m.status.ClearNotice()
	case errors.Is(msg.err, context.Canceled):
		m.status.ClearNotice()
	default:
		// The localized error turn is already in the history.
		m.log.Warn().Err(msg.err).Msg("answer failed")
	}
	m.refreshChat(true)
	return m, nil
}

func (m Model) handleConfigChanged(msg ConfigChangedMsg) (tea.Model, tea.Cmd) {
	if msg.Err != nil {
		m.log.Warn().Err(msg.Err).Msg("config reload failed")
		m.status.SetNotice(fmt.Sprintf("config: %v", msg.Err), true)
		return m, nil
	}
	if msg.Config == nil {
		return m, nil
	}
	m.deps.Config = msg.Config
	lang := msg.Config.UI.Language
	if lang != "" && lang != m.lang && m.deps.Bundle.Has(lang) {
		return m.setLanguage(lang)
	}
	m.syncHeader()
	return m, nil
}

// =============================================================================
// KEY HANDLING
// =============================================================================

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, m.keys.Quit) {
		if m.cancel != nil {
			m.cancel()
		}
		return m, tea.Quit
	}

	switch m.screen {
	case ScreenMenu:
		return m.handleMenuKey(msg)
	case ScreenChat:
		return m.handleChatKey(msg)
	case ScreenCart:
		return m.handleCartKey(msg)
	default:
		if key.Matches(msg, m.keys.Exit) {
			return m, tea.Quit
		}
	}
	return m, nil
}

func (m Model) handleMenuKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Up):
		if m.cursor > 0 {
			m.cursor--
		}
	case key.Matches(msg, m.keys.Down):
		if m.cursor < len(m.catalog)-1 {
			m.cursor++
		}
	case key.Matches(msg, m.keys.Add):
		return m.addMenuItem(m.cursor)
	case key.Matches(msg, m.keys.Language):
		if m.doc == nil {
			return m, nil
		}
		return m.setLanguage(m.doc.NextLanguage(m.lang))
	case key.Matches(msg, m.keys.OpenChat):
		return m.openChat()
	case key.Matches(msg, m.keys.OpenCart):
		m.screen = ScreenCart
		m.cartCursor = 0
		m.syncHeader()
	case key.Matches(msg, m.keys.Exit):
		return m, tea.Quit
	}
	return m, nil
}

func (m Model) handleChatKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if i := chipIndex(m.keys.Chips, msg); i >= 0 {
		return m.activateChip(i)
	}
	if m.chipFocus {
		if i := chipIndex(m.keys.Digits, msg); i >= 0 {
			return m.activateChip(i)
		}
	}

	switch {
	case key.Matches(msg, m.keys.Focus):
		m.chipFocus = !m.chipFocus
		if m.chipFocus {
			m.input.Blur()
			return m, nil
		}
		return m, m.input.Focus()

	case key.Matches(msg, m.keys.Back):
		if m.chipFocus {
			m.chipFocus = false
			return m, m.input.Focus()
		}
		if m.inFlight && m.cancel != nil {
			// Abandon the answer; chatDoneMsg brings the model back to idle.
			m.cancel()
			return m, nil
		}
		m.input.Blur()
		m.screen = ScreenMenu
		m.syncHeader()
		return m, nil

	case key.Matches(msg, m.keys.ClearChat):
		if m.conv.Busy() {
			m.status.SetNotice(m.t("chat.busy"), false)
			return m, nil
		}
		return m, clearCmd(m.ctx, m.conv)

	case key.Matches(msg, m.keys.Send) && !m.chipFocus:
		return m.submit()
	}

	if m.chipFocus {
		return m, nil
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m Model) handleCartKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	lines := m.deps.Cart.Lines()

	switch {
	case key.Matches(msg, m.keys.Up):
		if m.cartCursor > 0 {
			m.cartCursor--
		}
		return m, nil
	case key.Matches(msg, m.keys.Down):
		if m.cartCursor < len(lines)-1 {
			m.cartCursor++
		}
		return m, nil
	case key.Matches(msg, m.keys.Browse):
		m.screen = ScreenMenu
		m.syncHeader()
		return m, nil
	case key.Matches(msg, m.keys.ClearCart):
		m.cartCursor = 0
		if err := m.deps.Cart.Clear(); err != nil {
			m.report(err)
		} else {
			m.status.SetNotice(m.t("cart.cleared"), false)
		}
		m.syncHeader()
		return m, nil
	case key.Matches(msg, m.keys.Exit):
		return m, tea.Quit
	}

	if len(lines) == 0 {
		return m, nil
	}
	if m.cartCursor >= len(lines) {
		m.cartCursor = len(lines) - 1
	}
	line := lines[m.cartCursor]

	switch {
	case key.Matches(msg, m.keys.Increase):
		m.report(m.deps.Cart.SetQuantity(line.Name, line.Price, line.Quantity+1))
	case key.Matches(msg, m.keys.Decrease):
		m.report(m.deps.Cart.SetQuantity(line.Name, line.Price, line.Quantity-1))
	case key.Matches(msg, m.keys.Remove):
		m.report(m.deps.Cart.Remove(line.Name, line.Price))
	}
	if n := m.deps.Cart.Len(); m.cartCursor >= n && n > 0 {
		m.cartCursor = n - 1
	}
	m.syncHeader()
	return m, nil
}

// =============================================================================
// ACTIONS
// =============================================================================

func (m Model) setLanguage(lang string) (tea.Model, tea.Cmd) {
	if lang == m.lang {
		return m, nil
	}
	m.log.Info().Str("from", m.lang).Str("to", lang).Msg("language changed")
	m.lang = lang
	m.langSel.Current = lang
	m.conv.SetLanguage(lang)
	m.input.Placeholder = m.t("chat.placeholder")
	m.spinner.Label = m.t("chat.thinking")
	m.loading = true
	m.syncHeader()
	m.refreshChat(false)
	return m, m.fetchMenu()
}

func (m Model) openChat() (tea.Model, tea.Cmd) {
	m.screen = ScreenChat
	m.chipFocus = false
	m.syncHeader()
	m.refreshChat(true)
	cmds := []tea.Cmd{m.input.Focus()}
	if !m.activated {
		m.activated = true
		cmds = append(cmds, activateCmd(m.ctx, m.conv))
	}
	return m, tea.Batch(cmds...)
}

func (m Model) submit() (tea.Model, tea.Cmd) {
	req, err := m.conv.Begin(m.input.Value())
	switch {
	case errors.Is(err, chat.ErrEmptyInput):
		return m, nil
	case errors.Is(err, chat.ErrBusy):
		m.status.SetNotice(m.t("chat.busy"), false)
		return m, nil
	case err != nil:
		m.status.SetNotice(err.Error(), true)
		return m, nil
	}

	m.input.Reset()
	m.stream.Reset()
	m.live = ""
	m.inFlight = true
	m.status.ClearNotice()

	ctx, cancel := context.WithCancel(m.ctx)
	m.cancel = cancel
	m.refreshChat(true)
	return m, tea.Batch(runCmd(ctx, m.conv, req), streamTickCmd())
}

func (m Model) addMenuItem(i int) (tea.Model, tea.Cmd) {
	if i < 0 || i >= len(m.catalog) {
		return m, nil
	}
	e := m.catalog[i]
	m.report(m.deps.Cart.AddItem(e))
	m.syncHeader()
	cmd, _ := m.flash.Trigger(itemFlashKey(i), m.deps.Config.AddedFlash())
	return m, cmd
}

// activateChip adds the n-th dish of the latest assistant message. A chip
// that is still showing its "added" state ignores the activation.
func (m Model) activateChip(n int) (tea.Model, tea.Cmd) {
	id, dishes := m.latestDishes()
	if n < 0 || n >= len(dishes) {
		return m, nil
	}
	k := dishFlashKey(id, n)
	if m.flash.Active(k) {
		return m, nil
	}
	m.report(m.deps.Cart.AddItem(dishes[n].Entry))
	cmd, _ := m.flash.Trigger(k, m.deps.Config.DishFlash())
	m.syncHeader()
	m.refreshChat(false)
	return m, cmd
}

// latestDishes returns the actionable dishes of the last committed
// assistant message.
func (m Model) latestDishes() (string, []chat.Segment) {
	msgs := m.conv.Messages()
	for i := len(msgs) - 1; i >= 0; i-- {
		if msgs[i].Role != api.RoleAssistant {
			continue
		}
		return msgs[i].ID, chat.Dishes(chat.ParseSegments(msgs[i].Content, m.catalog))
	}
	return "", nil
}

// report surfaces a cart persistence failure. The mutation itself stands.
func (m *Model) report(err error) {
	if err != nil {
		m.log.Error().Err(err).Msg("cart not saved")
		m.status.SetNotice(err.Error(), true)
	}
}

func itemFlashKey(i int) string { return fmt.Sprintf("item:%d", i) }

func dishFlashKey(msgID string, n int) string { return fmt.Sprintf("dish:%s:%d", msgID, n) }
