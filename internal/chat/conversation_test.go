// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/easyq/easyq-tui/internal/api"
	"github.com/easyq/easyq-tui/internal/api/apitest"
	"github.com/easyq/easyq-tui/internal/i18n"
	"github.com/easyq/easyq-tui/internal/menu"
)

func bundle(t *testing.T) *i18n.Bundle {
	t.Helper()
	b, err := i18n.New()
	require.NoError(t, err)
	return b
}

// recorder collects listener events.
type recorder struct {
	mu     sync.Mutex
	events []Event
}

func (r *recorder) listen(ev Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, ev)
}

func (r *recorder) kinds() []EventKind {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]EventKind, len(r.events))
	for i, ev := range r.events {
		out[i] = ev.Kind
	}
	return out
}

func (r *recorder) count(kind EventKind) int {
	n := 0
	for _, k := range r.kinds() {
		if k == kind {
			n++
		}
	}
	return n
}

func newServerConversation(t *testing.T, lang string) (*Conversation, *apitest.Server, *recorder) {
	t.Helper()
	srv := apitest.New(t)
	srv.AddMenu("demo", &menu.Document{RestaurantName: "Demo"})
	rec := &recorder{}
	conv := New(Options{
		Slug:       "demo",
		Lang:       lang,
		SessionID:  "session_test",
		Backend:    api.New(srv.URL),
		Translator: bundle(t),
		Listener:   rec.listen,
	})
	return conv, srv, rec
}

// =============================================================================
// HYDRATION
// =============================================================================

func TestActivate_SeedsWelcome(t *testing.T) {
	conv, _, _ := newServerConversation(t, "fr")

	assert.False(t, conv.Activate(context.Background()))
	msgs := conv.Messages()
	require.Len(t, msgs, 1)
	assert.Equal(t, api.RoleAssistant, msgs[0].Role)
	assert.Equal(t, bundle(t).T("fr", KeyWelcome), msgs[0].Content)
}

func TestActivate_RestoresHistory(t *testing.T) {
	conv, srv, _ := newServerConversation(t, "en")
	srv.SetConversation("demo", "session_test", []api.Message{
		{Role: api.RoleUser, Content: "hi"},
		{Role: api.RoleAssistant, Content: "hello"},
	})

	assert.True(t, conv.Activate(context.Background()))
	msgs := conv.Messages()
	require.Len(t, msgs, 2)
	assert.Equal(t, "hello", msgs[1].Content)
	assert.NotEqual(t, msgs[0].ID, msgs[1].ID)

	// Second activation is a no-op.
	srv.SetConversation("demo", "session_test", nil)
	assert.False(t, conv.Activate(context.Background()))
	assert.Len(t, conv.Messages(), 2)
}

func TestActivate_NonSuccessShowsWelcome(t *testing.T) {
	conv, srv, _ := newServerConversation(t, "en")
	srv.ConversationStatus = http.StatusInternalServerError

	conv.Activate(context.Background())
	msgs := conv.Messages()
	require.Len(t, msgs, 1)
	assert.Equal(t, bundle(t).T("en", KeyWelcome), msgs[0].Content)
	assert.Equal(t, Idle, conv.State())
}

// =============================================================================
// STREAMING
// =============================================================================

func TestSubmit_StreamsAndCommits(t *testing.T) {
	conv, srv, rec := newServerConversation(t, "en")
	srv.Stream = func(api.ChatRequest) []string {
		return []string{"data: Try the \n", "\ndata: **Ste", "ak**\n\ndata:  today!\n\ndata: [DO", "NE]\n\n"}
	}
	conv.Activate(context.Background())

	require.NoError(t, conv.Submit(context.Background(), "  What do you recommend?  "))

	msgs := conv.Messages()
	require.Len(t, msgs, 3)
	assert.Equal(t, "What do you recommend?", msgs[1].Content)
	assert.Equal(t, "Try the **Steak** today!", msgs[2].Content)
	assert.Empty(t, conv.Partial())
	assert.Equal(t, Idle, conv.State())
	assert.Equal(t, 1, rec.count(EventCommitted))
	assert.Zero(t, rec.count(EventFailed))

	// The request carried the full history, welcome included.
	reqs := srv.ChatRequests()
	require.Len(t, reqs, 1)
	require.Len(t, reqs[0].Messages, 2)
	assert.Equal(t, api.RoleAssistant, reqs[0].Messages[0].Role)
	assert.Equal(t, "en", reqs[0].Lang)
	assert.Equal(t, "session_test", reqs[0].SessionID)
}

func TestSubmit_ChunkEventsCarryAccumulatedText(t *testing.T) {
	conv, srv, rec := newServerConversation(t, "en")
	srv.Stream = func(api.ChatRequest) []string { return apitest.StreamOf("a", "b", "c") }
	conv.Activate(context.Background())

	require.NoError(t, conv.Submit(context.Background(), "x"))

	var chunks []string
	var states []State
	rec.mu.Lock()
	for _, ev := range rec.events {
		switch ev.Kind {
		case EventChunk:
			chunks = append(chunks, ev.Content)
		case EventState:
			states = append(states, ev.State)
		}
	}
	rec.mu.Unlock()

	assert.Equal(t, []string{"a", "ab", "abc"}, chunks)
	assert.Equal(t, []State{Sending, Streaming}, states)
}

func TestSubmit_RejectsBlank(t *testing.T) {
	conv, _, _ := newServerConversation(t, "en")
	conv.Activate(context.Background())

	assert.ErrorIs(t, conv.Submit(context.Background(), "   "), ErrEmptyInput)
	assert.Len(t, conv.Messages(), 1)
}

func TestSubmit_FailureAppendsLocalizedError(t *testing.T) {
	conv, srv, rec := newServerConversation(t, "es")
	srv.Stream = func(api.ChatRequest) []string {
		return []string{"data: partial\n\n", "data: [ERROR] boom\n\n"}
	}
	conv.Activate(context.Background())

	err := conv.Submit(context.Background(), "hola")
	var se *api.StreamError
	require.ErrorAs(t, err, &se)

	msgs := conv.Messages()
	require.Len(t, msgs, 3)
	assert.Equal(t, bundle(t).T("es", KeyError), msgs[2].Content)
	assert.Equal(t, Idle, conv.State())
	assert.Empty(t, conv.Partial())
	assert.Equal(t, 1, rec.count(EventFailed))
}

func TestSubmit_TransportFailure(t *testing.T) {
	conv, srv, _ := newServerConversation(t, "en")
	srv.ChatStatus = http.StatusServiceUnavailable
	conv.Activate(context.Background())

	err := conv.Submit(context.Background(), "hi")
	assert.True(t, api.IsTransport(err))
	assert.Equal(t, Idle, conv.State())

	// The conversation continues.
	srv.ChatStatus = 0
	require.NoError(t, conv.Submit(context.Background(), "again"))
	msgs := conv.Messages()
	assert.Equal(t, "echo: again", msgs[len(msgs)-1].Content)
}

// =============================================================================
// CONCURRENCY AND CANCELLATION
// =============================================================================

// gatedBackend holds ChatStream open until released.
type gatedBackend struct {
	started chan struct{}
	release chan struct{}
}

func newGated() *gatedBackend {
	return &gatedBackend{started: make(chan struct{}, 1), release: make(chan struct{})}
}

func (g *gatedBackend) GetConversation(context.Context, string, string) ([]api.Message, error) {
	return nil, nil
}

func (g *gatedBackend) ClearConversation(context.Context, string, string) error { return nil }

func (g *gatedBackend) ChatStream(ctx context.Context, _ string, _ api.ChatRequest, onChunk func(string)) error {
	onChunk("partial ")
	g.started <- struct{}{}
	select {
	case <-g.release:
		onChunk("done")
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func TestSecondSubmitRejectedWhileBusy(t *testing.T) {
	g := newGated()
	conv := New(Options{Slug: "demo", Lang: "en", Backend: g, Translator: bundle(t)})
	conv.Activate(context.Background())

	req, err := conv.Begin("What do you recommend?")
	require.NoError(t, err)
	assert.Equal(t, Sending, conv.State())

	done := make(chan error, 1)
	go func() { done <- conv.Run(context.Background(), req) }()
	<-g.started
	assert.Equal(t, Streaming, conv.State())
	assert.Equal(t, "partial ", conv.Partial())

	before := conv.Messages()
	_, err = conv.Begin("second")
	assert.ErrorIs(t, err, ErrBusy)
	assert.ErrorIs(t, conv.Clear(context.Background()), ErrBusy)
	assert.Equal(t, before, conv.Messages())

	close(g.release)
	require.NoError(t, <-done)
	msgs := conv.Messages()
	require.Len(t, msgs, 3)
	assert.Equal(t, "partial done", msgs[2].Content)
}

// slowHistory blocks GetConversation until released.
type slowHistory struct {
	gatedBackend
	fetching chan struct{}
	history  chan []api.Message
}

func (s *slowHistory) GetConversation(context.Context, string, string) ([]api.Message, error) {
	s.fetching <- struct{}{}
	return <-s.history, nil
}

func TestBeginRejectedUntilHistoryLoaded(t *testing.T) {
	b := &slowHistory{
		gatedBackend: *newGated(),
		fetching:     make(chan struct{}, 1),
		history:      make(chan []api.Message, 1),
	}
	conv := New(Options{Slug: "demo", Lang: "en", Backend: b, Translator: bundle(t)})

	_, err := conv.Begin("before activate")
	assert.ErrorIs(t, err, ErrBusy)
	assert.True(t, conv.Busy())

	restored := make(chan bool, 1)
	go func() { restored <- conv.Activate(context.Background()) }()
	<-b.fetching

	_, err = conv.Begin("What do you recommend?")
	assert.ErrorIs(t, err, ErrBusy)
	assert.ErrorIs(t, conv.Clear(context.Background()), ErrBusy)
	assert.Equal(t, Idle, conv.State())

	b.history <- []api.Message{
		{Role: api.RoleUser, Content: "hello"},
		{Role: api.RoleAssistant, Content: "Welcome back"},
	}
	require.True(t, <-restored)
	assert.False(t, conv.Busy())

	req, err := conv.Begin("What do you recommend?")
	require.NoError(t, err)
	close(b.release)
	require.NoError(t, conv.Run(context.Background(), req))

	msgs := conv.Messages()
	require.Len(t, msgs, 4)
	assert.Equal(t, "What do you recommend?", msgs[2].Content)
	assert.Equal(t, api.RoleUser, msgs[2].Role)
	assert.Equal(t, "partial done", msgs[3].Content)
}

func TestRun_CancelAbandons(t *testing.T) {
	g := newGated()
	rec := &recorder{}
	conv := New(Options{Slug: "demo", Lang: "en", Backend: g, Translator: bundle(t), Listener: rec.listen})
	conv.Activate(context.Background())

	ctx, cancel := context.WithCancel(context.Background())
	req, err := conv.Begin("hi")
	require.NoError(t, err)

	done := make(chan error, 1)
	go func() { done <- conv.Run(ctx, req) }()
	<-g.started
	cancel()

	select {
	case err := <-done:
		assert.True(t, errors.Is(err, context.Canceled))
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not return after cancel")
	}

	assert.Equal(t, Idle, conv.State())
	assert.Empty(t, conv.Partial())
	assert.Len(t, conv.Messages(), 2, "welcome + user turn, no assistant turn")
	assert.Equal(t, 1, rec.count(EventCancelled))
	assert.Zero(t, rec.count(EventFailed))
}

// =============================================================================
// CLEAR AND LANGUAGE
// =============================================================================

func TestClear_ResetsToWelcome(t *testing.T) {
	conv, srv, _ := newServerConversation(t, "en")
	conv.Activate(context.Background())
	require.NoError(t, conv.Submit(context.Background(), "hi"))
	require.NotEmpty(t, srv.Conversation("demo", "session_test"))

	conv.SetLanguage("fr")
	require.NoError(t, conv.Clear(context.Background()))

	msgs := conv.Messages()
	require.Len(t, msgs, 1)
	assert.Equal(t, bundle(t).T("fr", KeyWelcome), msgs[0].Content)
	assert.Empty(t, srv.Conversation("demo", "session_test"))
}

func TestClear_ResetsEvenWhenDeleteFails(t *testing.T) {
	conv, srv, _ := newServerConversation(t, "en")
	conv.Activate(context.Background())
	require.NoError(t, conv.Submit(context.Background(), "hi"))
	srv.ClearStatus = http.StatusInternalServerError

	err := conv.Clear(context.Background())
	assert.True(t, api.IsTransport(err))
	assert.Len(t, conv.Messages(), 1)
	assert.Equal(t, Idle, conv.State())
}

func TestSetLanguage_ReseedsPristine(t *testing.T) {
	conv, _, _ := newServerConversation(t, "en")
	conv.Activate(context.Background())

	conv.SetLanguage("es")
	msgs := conv.Messages()
	require.Len(t, msgs, 1)
	assert.Equal(t, bundle(t).T("es", KeyWelcome), msgs[0].Content)
	assert.Equal(t, "es", conv.Lang())
}

func TestSetLanguage_KeepsRealHistory(t *testing.T) {
	conv, _, _ := newServerConversation(t, "en")
	conv.Activate(context.Background())
	require.NoError(t, conv.Submit(context.Background(), "hi"))

	conv.SetLanguage("fr")
	msgs := conv.Messages()
	require.Len(t, msgs, 3)
	assert.Equal(t, bundle(t).T("en", KeyWelcome), msgs[0].Content)
}
