// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package app

import (
	"context"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/rs/zerolog"

	"github.com/easyq/easyq-tui/internal/api"
	"github.com/easyq/easyq-tui/internal/cart"
	"github.com/easyq/easyq-tui/internal/chat"
	"github.com/easyq/easyq-tui/internal/config"
	"github.com/easyq/easyq-tui/internal/i18n"
	"github.com/easyq/easyq-tui/internal/logging"
	"github.com/easyq/easyq-tui/internal/menu"
	"github.com/easyq/easyq-tui/internal/ui/components"
	"github.com/easyq/easyq-tui/internal/ui/styles"
)

// =============================================================================
// SCREENS
// =============================================================================

// Screen is the page currently shown.
type Screen int

const (
	ScreenLoading Screen = iota
	ScreenMenu
	ScreenChat
	ScreenCart
	ScreenNotFound
)

// String returns the screen name.
func (s Screen) String() string {
	switch s {
	case ScreenLoading:
		return "loading"
	case ScreenMenu:
		return "menu"
	case ScreenChat:
		return "chat"
	case ScreenCart:
		return "cart"
	case ScreenNotFound:
		return "not-found"
	default:
		return "unknown"
	}
}

// =============================================================================
// MODEL
// =============================================================================

// Deps are the collaborators the TUI is built from. The cart store and the
// session id are owned by the caller and shared with the CLI.
type Deps struct {
	Client    *api.Client
	Cart      *cart.Store
	Bundle    *i18n.Bundle
	Config    *config.Config
	SessionID string
	Slug      string
	Lang      string
}

// Model is the Bubble Tea root model.
type Model struct {
	ctx  context.Context
	deps Deps
	log  zerolog.Logger

	theme *styles.Theme
	keys  KeyMap

	screen  Screen
	slug    string
	lang    string
	doc     *menu.Document
	catalog menu.Catalog
	loading bool

	// Menu screen
	cursor     int

	// Cart screen
	cartCursor int

	// Chat screen
	conv      *chat.Conversation
	activated bool
	inFlight  bool
	cancel    context.CancelFunc
	stream    *StreamingBuffer
	live      string
	chipFocus bool
	input     textinput.Model
	viewport  viewport.Model

	flash   *components.Flash
	header  *components.Header
	langSel *components.LanguageSelector
	status  *components.StatusBar
	spinner components.Spinner

	width  int
	height int
}

// New creates the root model. ctx bounds every request the model starts.
func New(ctx context.Context, deps Deps) Model {
	if deps.Config == nil {
		deps.Config = config.Default()
	}
	if deps.Bundle == nil {
		deps.Bundle = i18n.Default()
	}

	theme := styles.NewTheme()
	buf := NewStreamingBuffer()

	m := Model{
		ctx:     ctx,
		deps:    deps,
		log:     logging.Component("tui"),
		theme:   theme,
		keys:    DefaultKeyMap(),
		screen:  ScreenLoading,
		slug:    deps.Slug,
		lang:    deps.Lang,
		loading: true,
		stream:  buf,
		flash:   components.NewFlash(),
		header:  components.NewHeader(theme),
		langSel: components.NewLanguageSelector(theme, deps.Lang),
		status:  components.NewStatusBar(theme),
		width:   80,
		height:  24,
	}

	m.conv = chat.New(chat.Options{
		Slug:       deps.Slug,
		Lang:       deps.Lang,
		SessionID:  deps.SessionID,
		Backend:    deps.Client,
		Translator: deps.Bundle,
		Listener: func(ev chat.Event) {
			// Runs on the stream goroutine; only the buffer is touched.
			if ev.Kind == chat.EventChunk {
				buf.Write(ev.Content)
			}
		},
	})

	m.input = textinput.New()
	m.input.Prompt = "› "
	m.input.CharLimit = 2000
	m.input.Placeholder = m.t("chat.placeholder")

	m.viewport = viewport.New(m.width, m.height-5)
	m.spinner = components.NewSpinner(theme, styles.DotsSpinner, m.t("chat.thinking"))

	m.layout()
	return m
}

// Init starts the spinner and the first menu fetch.
func (m Model) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.fetchMenu())
}

// Screen returns the current screen.
func (m Model) Screen() Screen { return m.screen }

// Lang returns the active language.
func (m Model) Lang() string { return m.lang }

// Conversation returns the chat state machine.
func (m Model) Conversation() *chat.Conversation { return m.conv }

// =============================================================================
// COMMANDS
// =============================================================================

func (m Model) fetchMenu() tea.Cmd {
	ctx, client, slug, lang := m.ctx, m.deps.Client, m.slug, m.lang
	return func() tea.Msg {
		doc, err := client.GetMenu(ctx, slug, lang)
		return menuLoadedMsg{slug: slug, lang: lang, doc: doc, err: err}
	}
}

func activateCmd(ctx context.Context, conv *chat.Conversation) tea.Cmd {
	return func() tea.Msg {
		return chatActivatedMsg{restored: conv.Activate(ctx)}
	}
}

func runCmd(ctx context.Context, conv *chat.Conversation, req chat.Request) tea.Cmd {
	return func() tea.Msg {
		return chatDoneMsg{err: conv.Run(ctx, req)}
	}
}

func clearCmd(ctx context.Context, conv *chat.Conversation) tea.Cmd {
	return func() tea.Msg {
		return chatClearedMsg{err: conv.Clear(ctx)}
	}
}

// =============================================================================
// HELPERS
// =============================================================================

func (m Model) t(key string) string {
	return m.deps.Bundle.T(m.lang, key)
}

func (m Model) currency() string {
	if m.doc == nil {
		return m.deps.Config.UI.Currency
	}
	return m.doc.CurrencyOr(m.deps.Config.UI.Currency)
}

// layout sizes the scroll panes from the window and the chrome heights.
func (m *Model) layout() {
	m.theme.SetSize(m.width, m.height)
	m.header.SetWidth(m.width)
	m.status.Width = m.width
	m.input.Width = m.width - 8

	chrome := lipgloss.Height(m.header.View()) + lipgloss.Height(m.status.View()) + 3
	h := m.height - chrome
	if h < 3 {
		h = 3
	}
	m.viewport.Width = m.width
	m.viewport.Height = h
}

// bodyHeight is the room left for the menu and cart lists.
func (m Model) bodyHeight() int {
	h := m.height - lipgloss.Height(m.header.View()) - lipgloss.Height(m.status.View())
	if h < 3 {
		return 3
	}
	return h
}
