// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package apitest provides an in-process fake of the menu backend for tests.
package apitest

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/go-chi/chi/v5"

	"github.com/easyq/easyq-tui/internal/api"
	"github.com/easyq/easyq-tui/internal/menu"
)

// PNG is the body served for every QR image.
var PNG = []byte("\x89PNG\r\n\x1a\nfake")

// Upload records one received multipart submission.
type Upload struct {
	RestaurantName string
	Languages      string
	FileName       string
	PDF            []byte
}

// Server is a scriptable backend. Zero-valued hooks give sensible defaults.
type Server struct {
	*httptest.Server

	mu            sync.Mutex
	menus         map[string]*menu.Document
	conversations map[string][]api.Message
	chatRequests  []api.ChatRequest
	uploads       []Upload
	clears        int

	// Stream returns the raw body writes for a streaming chat request; each
	// element is written and flushed separately. Defaults to StreamOf(echo).
	Stream func(req api.ChatRequest) []string

	// ConversationStatus, when non-zero, is returned by GET conversation.
	ConversationStatus int
	// ClearStatus, when non-zero, is returned by DELETE conversation.
	ClearStatus int
	// ChatStatus, when non-zero, is returned by both chat endpoints.
	ChatStatus int
	// UploadStatus and UploadBody override the upload response.
	UploadStatus int
	UploadBody   string
}

// New starts a server that is closed when t finishes.
func New(t testing.TB) *Server {
	t.Helper()
	s := &Server{
		menus:         make(map[string]*menu.Document),
		conversations: make(map[string][]api.Message),
	}
	s.Server = httptest.NewServer(s.Router())
	t.Cleanup(s.Close)
	return s
}

// Router returns the chi router serving the fake API.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Get("/api/public/menus/{slug}", s.getMenu)
	r.Get("/api/public/menus/{slug}/conversation", s.getConversation)
	r.Delete("/api/public/menus/{slug}/conversation", s.clearConversation)
	r.Post("/api/public/menus/{slug}/chat", s.chat)
	r.Post("/api/public/menus/{slug}/chat/stream", s.chatStream)
	r.Post("/api/menus", s.upload)
	r.Get("/qr/{slug}.png", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "image/png")
		_, _ = w.Write(PNG)
	})
	return r
}

// =============================================================================
// FIXTURES
// =============================================================================

// AddMenu registers doc under slug.
func (s *Server) AddMenu(slug string, doc *menu.Document) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.menus[slug] = doc
}

// SetConversation seeds the stored history.
func (s *Server) SetConversation(slug, sessionID string, msgs []api.Message) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.conversations[convKey(slug, sessionID)] = append([]api.Message(nil), msgs...)
}

// Conversation returns the stored history.
func (s *Server) Conversation(slug, sessionID string) []api.Message {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]api.Message(nil), s.conversations[convKey(slug, sessionID)]...)
}

// ChatRequests returns every chat body received so far.
func (s *Server) ChatRequests() []api.ChatRequest {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]api.ChatRequest(nil), s.chatRequests...)
}

// Uploads returns every upload received so far.
func (s *Server) Uploads() []Upload {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Upload(nil), s.uploads...)
}

// Clears returns how many DELETE conversation calls arrived.
func (s *Server) Clears() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.clears
}

// StreamOf renders chunks as a well-formed event stream ending in [DONE].
func StreamOf(chunks ...string) []string {
	out := make([]string, 0, len(chunks)+1)
	for _, c := range chunks {
		out = append(out, "data: "+c+"\n\n")
	}
	return append(out, "data: [DONE]\n\n")
}

// Echo answers with the last user message.
func Echo(req api.ChatRequest) string {
	for i := len(req.Messages) - 1; i >= 0; i-- {
		if req.Messages[i].Role == api.RoleUser {
			return "echo: " + req.Messages[i].Content
		}
	}
	return "echo"
}

// =============================================================================
// HANDLERS
// =============================================================================

func (s *Server) getMenu(w http.ResponseWriter, r *http.Request) {
	slug := chi.URLParam(r, "slug")
	s.mu.Lock()
	doc, ok := s.menus[slug]
	s.mu.Unlock()
	if !ok {
		writeDetail(w, http.StatusNotFound, "Menu not found")
		return
	}

	out := *doc
	if lang := r.URL.Query().Get("lang"); lang != "" {
		out.Lang = lang
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) getConversation(w http.ResponseWriter, r *http.Request) {
	if s.ConversationStatus != 0 {
		writeDetail(w, s.ConversationStatus, "unavailable")
		return
	}
	msgs := s.Conversation(chi.URLParam(r, "slug"), r.URL.Query().Get("session_id"))
	if msgs == nil {
		msgs = []api.Message{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"messages": msgs})
}

func (s *Server) clearConversation(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	s.clears++
	status := s.ClearStatus
	if status == 0 {
		delete(s.conversations, convKey(chi.URLParam(r, "slug"), r.URL.Query().Get("session_id")))
	}
	s.mu.Unlock()

	if status != 0 {
		writeDetail(w, status, "cannot clear")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "cleared"})
}

func (s *Server) chat(w http.ResponseWriter, r *http.Request) {
	req, ok := s.readChat(w, r)
	if !ok {
		return
	}
	answer := Echo(req)
	s.remember(chi.URLParam(r, "slug"), req, answer)
	writeJSON(w, http.StatusOK, api.ChatResponse{Answer: answer})
}

func (s *Server) chatStream(w http.ResponseWriter, r *http.Request) {
	req, ok := s.readChat(w, r)
	if !ok {
		return
	}

	writes := StreamOf(Echo(req))
	if s.Stream != nil {
		writes = s.Stream(req)
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.WriteHeader(http.StatusOK)
	flusher, _ := w.(http.Flusher)

	var (
		answer strings.Builder
		dec    api.StreamDecoder
	)
	for _, chunk := range writes {
		if r.Context().Err() != nil {
			return
		}
		if _, err := io.WriteString(w, chunk); err != nil {
			return
		}
		if flusher != nil {
			flusher.Flush()
		}
		for _, payload := range dec.Feed([]byte(chunk)) {
			if ev := api.Classify(payload); ev.Kind == api.EventChunk {
				answer.WriteString(ev.Data)
			}
		}
	}
	s.remember(chi.URLParam(r, "slug"), req, answer.String())
}

func (s *Server) upload(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(32 << 20); err != nil {
		writeDetail(w, http.StatusBadRequest, err.Error())
		return
	}
	f, hdr, err := r.FormFile("pdf")
	if err != nil {
		writeDetail(w, http.StatusBadRequest, "pdf is required")
		return
	}
	defer f.Close()
	pdf, _ := io.ReadAll(f)

	up := Upload{
		RestaurantName: r.FormValue("restaurant_name"),
		Languages:      r.FormValue("languages"),
		FileName:       hdr.Filename,
		PDF:            pdf,
	}
	s.mu.Lock()
	s.uploads = append(s.uploads, up)
	n := len(s.uploads)
	s.mu.Unlock()

	if s.UploadStatus != 0 {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(s.UploadStatus)
		_, _ = io.WriteString(w, s.UploadBody)
		return
	}

	slug := fmt.Sprintf("%s-%d", strings.ToLower(strings.ReplaceAll(strings.TrimSpace(up.RestaurantName), " ", "-")), n)
	s.AddMenu(slug, &menu.Document{RestaurantName: up.RestaurantName})
	writeJSON(w, http.StatusOK, api.UploadResult{
		ID:        int64(n),
		Slug:      slug,
		PublicURL: s.URL + "/menu/" + slug,
		QRURL:     "/qr/" + slug + ".png",
	})
}

// =============================================================================
// HELPERS
// =============================================================================

func (s *Server) readChat(w http.ResponseWriter, r *http.Request) (api.ChatRequest, bool) {
	var req api.ChatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeDetail(w, http.StatusUnprocessableEntity, err.Error())
		return req, false
	}
	s.mu.Lock()
	s.chatRequests = append(s.chatRequests, req)
	_, known := s.menus[chi.URLParam(r, "slug")]
	status := s.ChatStatus
	s.mu.Unlock()

	if !known {
		writeDetail(w, http.StatusNotFound, "Menu not found")
		return req, false
	}
	if status != 0 {
		writeDetail(w, status, "chat unavailable")
		return req, false
	}
	return req, true
}

func (s *Server) remember(slug string, req api.ChatRequest, answer string) {
	if req.SessionID == "" {
		return
	}
	msgs := append(append([]api.Message(nil), req.Messages...), api.Message{Role: api.RoleAssistant, Content: answer})
	s.SetConversation(slug, req.SessionID, msgs)
}

func convKey(slug, sessionID string) string { return slug + "|" + sessionID }

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeDetail(w http.ResponseWriter, status int, detail string) {
	writeJSON(w, status, map[string]string{"detail": detail})
}
