// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"context"
	"errors"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/easyq/easyq-tui/internal/api"
	"github.com/easyq/easyq-tui/internal/logging"
)

// =============================================================================
// STATE
// =============================================================================

// State is the conversation's position in Idle -> Sending -> Streaming -> Idle.
type State int

const (
	Idle State = iota
	Sending
	Streaming
	Error
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Sending:
		return "sending"
	case Streaming:
		return "streaming"
	case Error:
		return "error"
	}
	return "unknown"
}

var (
	// ErrBusy rejects a submission or clear while a request is in flight.
	ErrBusy = errors.New("chat: a response is still in progress")

	// ErrEmptyInput rejects blank submissions.
	ErrEmptyInput = errors.New("chat: empty message")
)

// =============================================================================
// COLLABORATORS
// =============================================================================

// Backend is the slice of the API client a conversation needs.
type Backend interface {
	GetConversation(ctx context.Context, slug, sessionID string) ([]api.Message, error)
	ClearConversation(ctx context.Context, slug, sessionID string) error
	ChatStream(ctx context.Context, slug string, req api.ChatRequest, onChunk func(string)) error
}

// Translator resolves UI strings. *i18n.Bundle satisfies it.
type Translator interface {
	T(lang, key string) string
}

// Translation keys used for the seeded assistant turns.
const (
	KeyWelcome = "chat.welcome"
	KeyError   = "chat.error"
)

// EventKind tells a Listener what changed.
type EventKind int

const (
	// EventState reports a state transition.
	EventState EventKind = iota
	// EventChunk carries the full in-progress assistant text.
	EventChunk
	// EventCommitted reports a finished assistant message.
	EventCommitted
	// EventFailed reports a failed request; the error turn is already appended.
	EventFailed
	// EventCancelled reports an abandoned request; nothing was appended.
	EventCancelled
	// EventHistory reports that the message list was replaced.
	EventHistory
)

// Event is delivered to the Listener outside the conversation lock.
type Event struct {
	Kind    EventKind
	State   State
	Content string
	Err     error
}

// Listener observes a conversation. It may call back into the conversation.
type Listener func(Event)

// Message is one displayed turn.
type Message struct {
	ID      string
	Role    string
	Content string
}

// Options configures a Conversation.
type Options struct {
	Slug       string
	Lang       string
	SessionID  string
	Backend    Backend
	Translator Translator
	Listener   Listener
}

// Request is a snapshot taken by Begin and consumed by Run.
type Request struct {
	History []api.Message
	Lang    string
}

// =============================================================================
// CONVERSATION
// =============================================================================

// Conversation is the per-(menu, session) chat state machine. At most one
// request is in flight; submissions while busy are rejected, never queued.
type Conversation struct {
	mu        sync.Mutex
	opts      Options
	state     State
	messages  []Message
	partial   strings.Builder
	activated bool
	hydrating bool // until Activate has loaded the history
	clearing  bool
	welcomeID string

	log zerolog.Logger
}

// New returns an inactive conversation. Call Activate before use.
func New(opts Options) *Conversation {
	return &Conversation{
		opts:      opts,
		hydrating: true,
		log:       logging.Component("chat").With().Str("slug", opts.Slug).Logger(),
	}
}

// Activate loads the server-side history once. An empty history, or any
// failure, leaves a single welcome message in the active language. It
// reports whether prior messages were restored.
func (c *Conversation) Activate(ctx context.Context) bool {
	c.mu.Lock()
	if c.activated {
		c.mu.Unlock()
		return false
	}
	c.activated = true
	slug, sid := c.opts.Slug, c.opts.SessionID
	c.mu.Unlock()

	history, err := c.opts.Backend.GetConversation(ctx, slug, sid)
	if err != nil {
		c.log.Warn().Err(err).Msg("history unavailable, starting fresh")
	}

	c.mu.Lock()
	restored := err == nil && len(history) > 0
	if restored {
		c.messages = make([]Message, 0, len(history))
		for _, m := range history {
			c.messages = append(c.messages, newMessage(m.Role, m.Content))
		}
		c.welcomeID = ""
	} else {
		c.seedLocked()
	}
	c.hydrating = false
	c.mu.Unlock()

	c.emit(Event{Kind: EventHistory, State: Idle})
	return restored
}

// Begin moves Idle -> Sending: it appends the trimmed user message and
// snapshots the history for Run. The history is untouched on error, and
// ErrBusy is returned until Activate has loaded the history.
func (c *Conversation) Begin(input string) (Request, error) {
	text := strings.TrimSpace(input)
	if text == "" {
		return Request{}, ErrEmptyInput
	}

	c.mu.Lock()
	if c.state != Idle || c.clearing || c.hydrating {
		c.mu.Unlock()
		return Request{}, ErrBusy
	}
	c.messages = append(c.messages, newMessage(api.RoleUser, text))
	c.welcomeID = ""
	c.state = Sending
	c.partial.Reset()
	req := Request{History: c.historyLocked(), Lang: c.opts.Lang}
	c.mu.Unlock()

	c.emit(Event{Kind: EventState, State: Sending})
	return req, nil
}

// Run streams the answer for a request returned by Begin and always ends
// in Idle. Cancelling ctx abandons the answer: the partial text is dropped
// and nothing is appended.
func (c *Conversation) Run(ctx context.Context, req Request) error {
	c.mu.Lock()
	slug, sid := c.opts.Slug, c.opts.SessionID
	c.mu.Unlock()

	err := c.opts.Backend.ChatStream(ctx, slug, api.ChatRequest{
		Messages:  req.History,
		Lang:      req.Lang,
		SessionID: sid,
	}, c.onChunk)

	switch {
	case err == nil:
		c.mu.Lock()
		content := c.partial.String()
		c.partial.Reset()
		c.messages = append(c.messages, newMessage(api.RoleAssistant, content))
		c.state = Idle
		c.mu.Unlock()

		c.emit(Event{Kind: EventCommitted, State: Idle, Content: content})
		return nil

	case ctx.Err() != nil:
		c.mu.Lock()
		c.partial.Reset()
		c.state = Idle
		c.mu.Unlock()

		c.log.Debug().Err(ctx.Err()).Msg("answer abandoned")
		c.emit(Event{Kind: EventCancelled, State: Idle, Err: ctx.Err()})
		return ctx.Err()

	default:
		c.mu.Lock()
		c.partial.Reset()
		c.state = Error
		c.mu.Unlock()
		c.emit(Event{Kind: EventState, State: Error, Err: err})

		c.mu.Lock()
		msg := c.opts.Translator.T(req.Lang, KeyError)
		c.messages = append(c.messages, newMessage(api.RoleAssistant, msg))
		c.state = Idle
		c.mu.Unlock()

		c.log.Error().Err(err).Msg("chat request failed")
		c.emit(Event{Kind: EventFailed, State: Idle, Content: msg, Err: err})
		return err
	}
}

// Submit runs Begin then Run.
func (c *Conversation) Submit(ctx context.Context, input string) error {
	req, err := c.Begin(input)
	if err != nil {
		return err
	}
	return c.Run(ctx, req)
}

// Clear deletes the server-side history and resets to one welcome message.
// The local reset happens even when the delete fails; that error is
// returned.
func (c *Conversation) Clear(ctx context.Context) error {
	c.mu.Lock()
	if c.state != Idle || c.clearing || c.hydrating {
		c.mu.Unlock()
		return ErrBusy
	}
	c.clearing = true
	slug, sid := c.opts.Slug, c.opts.SessionID
	c.mu.Unlock()

	err := c.opts.Backend.ClearConversation(ctx, slug, sid)
	if err != nil {
		c.log.Warn().Err(err).Msg("server history not cleared")
	}

	c.mu.Lock()
	c.clearing = false
	c.partial.Reset()
	c.seedLocked()
	c.mu.Unlock()

	c.emit(Event{Kind: EventHistory, State: Idle})
	return err
}

// SetLanguage switches the language used for requests and seeded turns. A
// conversation holding only its welcome is re-seeded in the new language.
func (c *Conversation) SetLanguage(lang string) {
	c.mu.Lock()
	if c.opts.Lang == lang {
		c.mu.Unlock()
		return
	}
	c.opts.Lang = lang
	reseed := c.welcomeID != "" && len(c.messages) == 1 && c.messages[0].ID == c.welcomeID
	if reseed {
		c.seedLocked()
	}
	c.mu.Unlock()

	if reseed {
		c.emit(Event{Kind: EventHistory, State: c.State()})
	}
}

// =============================================================================
// ACCESSORS
// =============================================================================

// State returns the current state.
func (c *Conversation) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Busy reports whether a submission would be rejected.
func (c *Conversation) Busy() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state != Idle || c.clearing || c.hydrating
}

// Messages returns a copy of the committed history.
func (c *Conversation) Messages() []Message {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]Message, len(c.messages))
	copy(out, c.messages)
	return out
}

// Partial returns the in-progress assistant text.
func (c *Conversation) Partial() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.partial.String()
}

// Lang returns the active language.
func (c *Conversation) Lang() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.opts.Lang
}

// Slug returns the menu slug.
func (c *Conversation) Slug() string { return c.opts.Slug }

// =============================================================================
// INTERNAL
// =============================================================================

func (c *Conversation) onChunk(chunk string) {
	c.mu.Lock()
	opened := c.state == Sending
	if opened {
		c.state = Streaming
	}
	c.partial.WriteString(chunk)
	content := c.partial.String()
	c.mu.Unlock()

	if opened {
		c.emit(Event{Kind: EventState, State: Streaming})
	}
	c.emit(Event{Kind: EventChunk, State: Streaming, Content: content})
}

func (c *Conversation) seedLocked() {
	welcome := newMessage(api.RoleAssistant, c.opts.Translator.T(c.opts.Lang, KeyWelcome))
	c.messages = []Message{welcome}
	c.welcomeID = welcome.ID
}

func (c *Conversation) historyLocked() []api.Message {
	out := make([]api.Message, len(c.messages))
	for i, m := range c.messages {
		out[i] = api.Message{Role: m.Role, Content: m.Content}
	}
	return out
}

func (c *Conversation) emit(ev Event) {
	if c.opts.Listener != nil {
		c.opts.Listener(ev)
	}
}

func newMessage(role, content string) Message {
	return Message{ID: uuid.NewString(), Role: role, Content: content}
}
