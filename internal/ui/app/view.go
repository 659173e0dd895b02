// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package app

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/lipgloss"

	"github.com/easyq/easyq-tui/internal/api"
	"github.com/easyq/easyq-tui/internal/cart"
	"github.com/easyq/easyq-tui/internal/chat"
	"github.com/easyq/easyq-tui/internal/menu"
	"github.com/easyq/easyq-tui/internal/money"
	"github.com/easyq/easyq-tui/internal/ui/components"
	"github.com/easyq/easyq-tui/internal/util"
)

// =============================================================================
// VIEW
// =============================================================================

// View renders the current screen.
func (m Model) View() string {
	var body string
	switch m.screen {
	case ScreenLoading:
		body = m.renderLoading()
	case ScreenNotFound:
		body = m.renderNotFound()
	case ScreenMenu:
		body = m.renderMenu()
	case ScreenChat:
		body = m.renderChat()
	case ScreenCart:
		body = m.renderCart()
	}

	m.status.Bindings = m.bindings()
	return lipgloss.JoinVertical(lipgloss.Left, m.header.View(), body, m.status.View())
}

func (m Model) bindings() []key.Binding {
	switch m.screen {
	case ScreenMenu:
		return m.keys.MenuHelp()
	case ScreenChat:
		return m.keys.ChatHelp(m.chipFocus)
	case ScreenCart:
		return m.keys.CartHelp()
	case ScreenNotFound:
		return []key.Binding{m.keys.Exit}
	}
	return nil
}

// syncHeader copies menu, screen and cart state into the header.
func (m *Model) syncHeader() {
	if m.doc != nil {
		m.header.Title = m.doc.RestaurantName
		m.header.Subtitle = m.currency()
	} else {
		m.header.Title = "EasyQ"
		m.header.Subtitle = ""
	}
	m.header.Tabs = []components.Tab{
		{Label: m.t("menu"), Active: m.screen == ScreenMenu},
		{Label: m.t("chat.title"), Active: m.screen == ScreenChat},
		{Label: m.t("cart"), Active: m.screen == ScreenCart},
	}
	m.header.CartCount = m.deps.Cart.ItemCount()
	m.header.Languages = m.langSel
}

// =============================================================================
// LOADING / NOT FOUND
// =============================================================================

func (m Model) renderLoading() string {
	s := m.spinner
	s.Label = m.t("loading")
	return lipgloss.Place(m.width, m.bodyHeight(), lipgloss.Center, lipgloss.Center, s.View())
}

func (m Model) renderNotFound() string {
	msg := m.theme.ErrorText.Render(m.t("menuNotFound"))
	slug := m.theme.Muted.Render(m.slug)
	return lipgloss.Place(m.width, m.bodyHeight(), lipgloss.Center, lipgloss.Center,
		lipgloss.JoinVertical(lipgloss.Center, msg, slug))
}

// =============================================================================
// MENU
// =============================================================================

func (m Model) renderMenu() string {
	if m.doc == nil {
		return m.renderLoading()
	}

	width := m.width - 2
	var lines []string
	cursorLine := 0
	i := 0

	addEntry := func(e menu.Entry, info string, infoStyle lipgloss.Style) {
		if i == m.cursor {
			cursorLine = len(lines)
		}
		name := m.theme.ItemName.Render(e.Name)
		if i == m.cursor {
			name = m.theme.ItemSelected.Render(" " + e.Name + " ")
		}

		right := m.theme.AddButton.Render("[+ " + m.t("addToCart") + "]")
		if m.flash.Active(itemFlashKey(i)) {
			right = m.theme.AddedButton.Render("✓ " + m.t("added"))
		}
		if e.Price.IsSet() {
			right = m.theme.Price.Render(m.formatPrice(e.Price)) + " " + right
		}
		lines = append(lines, row(name, right, width))
		if info != "" {
			lines = append(lines, "  "+infoStyle.Render(util.Truncate(info, width-2)))
		}
		if len(e.Tags) > 0 {
			lines = append(lines, "  "+m.theme.Tag.Render(strings.Join(e.Tags, " · ")))
		}
		i++
	}

	for _, sec := range m.doc.Sections {
		lines = append(lines, m.theme.SectionTitle.Render(strings.ToUpper(sec.Title)))
		for _, it := range sec.Items {
			addEntry(menu.Entry{Kind: menu.KindDish, Name: it.Name, Price: it.Price, Tags: it.Tags},
				it.Description, m.theme.ItemDescription)
		}
	}
	if len(m.doc.Wines) > 0 {
		lines = append(lines, m.theme.SectionTitle.Render(strings.ToUpper(m.t("wines"))))
		for _, w := range m.doc.Wines {
			addEntry(menu.Entry{Kind: menu.KindWine, Name: w.Name, Price: w.Price, Tags: w.PairingTags},
				w.Info(), m.theme.WineInfo)
		}
	}

	return window(lines, cursorLine, m.bodyHeight())
}

// =============================================================================
// CHAT
// =============================================================================

func (m Model) renderChat() string {
	box := m.theme.InputContainer
	if !m.chipFocus {
		box = m.theme.InputFocused
	}
	input := box.Width(m.width - 2).Render(m.input.View())
	return lipgloss.JoinVertical(lipgloss.Left, m.viewport.View(), input)
}

// refreshChat re-renders the conversation into the viewport.
func (m *Model) refreshChat(bottom bool) {
	m.viewport.SetContent(m.chatContent())
	if bottom {
		m.viewport.GotoBottom()
	}
}

func (m Model) chatContent() string {
	bubble := m.width * 3 / 4
	if bubble < 20 {
		bubble = 20
	}

	msgs := m.conv.Messages()
	latestID, _ := m.latestDishes()

	var parts []string
	parts = append(parts, m.theme.HeaderTitle.Render(m.t("chat.title")))
	for _, msg := range msgs {
		if msg.Role == api.RoleUser {
			b := m.theme.UserBubble.MaxWidth(bubble + 6).Render(msg.Content)
			parts = append(parts, lipgloss.PlaceHorizontal(m.width, lipgloss.Right, b))
			continue
		}
		chips := msg.ID == latestID && !m.inFlight
		parts = append(parts, m.renderAssistant(msg.ID, msg.Content, chips, bubble))
	}

	if m.inFlight {
		if m.live == "" {
			parts = append(parts, m.spinner.View())
		} else {
			parts = append(parts, m.renderAssistant("", m.live, false, bubble))
		}
	}
	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

// renderAssistant renders one assistant turn. With chips set, matched dishes
// are numbered so they can be added with alt+N.
func (m Model) renderAssistant(id, content string, chips bool, width int) string {
	segs := chat.ParseSegments(content, m.catalog)

	var b strings.Builder
	n := 0
	for _, s := range segs {
		switch s.Kind {
		case chat.SegmentText:
			b.WriteString(s.Text)
		case chat.SegmentBold:
			b.WriteString(m.theme.Bold.Render(s.Text))
		case chat.SegmentDish:
			b.WriteString(m.theme.Bold.Render(s.Text))
			if chips && n < 9 {
				if m.flash.Active(dishFlashKey(id, n)) {
					b.WriteString(" " + m.theme.ChipAdded.Render("✓ "+m.t("added")))
				} else {
					b.WriteString(" " + m.theme.Chip.Render(fmt.Sprintf("[%d] +", n+1)))
				}
			}
			n++
		}
	}

	out := m.theme.AssistantBubble.Width(width).Render(b.String())
	if chips && n > 0 {
		out += "\n" + m.theme.Muted.Render(m.t("chat.dishHint"))
	}
	return out
}

// =============================================================================
// CART
// =============================================================================

func (m Model) renderCart() string {
	width := m.width - 2
	title := m.theme.SectionTitle.Render(m.t("yourCart"))
	lines := m.deps.Cart.Lines()

	if len(lines) == 0 {
		empty := m.theme.Empty.Render(m.t("emptyCart"))
		browse := m.theme.ShortcutKey.Render("m") + " " + m.theme.ShortcutDesc.Render(m.t("browseMenu"))
		return lipgloss.JoinVertical(lipgloss.Left, title, empty, "  "+browse)
	}

	cur := m.currency()
	rows := []string{title}
	cursorLine := 0
	for i, l := range lines {
		if i == m.cartCursor {
			cursorLine = len(rows)
		}
		name := l.Name
		unit := money.Format(l.Price, cur, m.lang)
		qty := m.theme.Quantity.Render(fmt.Sprintf("- %d +", l.Quantity))
		sub := m.theme.Price.Render(money.Format(l.Subtotal(), cur, m.lang))

		left := m.theme.CartLine.Render(name + "  " + m.theme.Muted.Render(unit))
		if i == m.cartCursor {
			left = m.theme.CartSelected.Render(" " + name + " ") + "  " + m.theme.Muted.Render(unit)
		}
		rows = append(rows, row(left, qty+"  "+sub, width))
	}

	count := m.deps.Cart.ItemCount()
	total := money.Format(m.deps.Cart.Total(), cur, m.lang)
	rows = append(rows,
		"",
		row(m.theme.Muted.Render(fmt.Sprintf("%d %s", count, m.deps.Bundle.Plural(m.lang, count))),
			m.theme.Total.Render(m.t("total")+"  "+total), width),
		"",
		m.theme.PayButton.Render(m.t("pay")+" • "+total),
		"",
		m.theme.Muted.Render(m.t("acceptedPayments")),
	)
	var pay []string
	for _, p := range cart.PaymentMethods {
		pay = append(pay, m.theme.Payment.Render(p))
	}
	rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, pay...))

	return window(rows, cursorLine, m.bodyHeight())
}

// =============================================================================
// LAYOUT HELPERS
// =============================================================================

func (m Model) formatPrice(p menu.Price) string {
	return money.Format(p.Value(), m.currency(), m.lang)
}

// row puts left and right on one line of width columns.
func row(left, right string, width int) string {
	gap := width - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < 1 {
		gap = 1
	}
	return left + strings.Repeat(" ", gap) + right
}

// window returns the height lines around focus, keeping focus in the upper
// third once the list scrolls.
func window(lines []string, focus, height int) string {
	var flat []string
	focusAt := 0
	for i, l := range lines {
		if i == focus {
			focusAt = len(flat)
		}
		flat = append(flat, strings.Split(l, "\n")...)
	}
	if len(flat) <= height {
		return strings.Join(flat, "\n")
	}
	start := focusAt - height/3
	if start < 0 {
		start = 0
	}
	if start+height > len(flat) {
		start = len(flat) - height
	}
	return strings.Join(flat[start:start+height], "\n")
}
