// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/time/rate"

	"github.com/easyq/easyq-tui/internal/logging"
	"github.com/easyq/easyq-tui/internal/menu"
)

const (
	// DefaultTimeout bounds every non-streaming request.
	DefaultTimeout = 30 * time.Second

	// MaxResponseSize caps JSON bodies read from the backend.
	// SECURITY: Response size limit prevents memory exhaustion.
	MaxResponseSize = 10 * 1024 * 1024

	// DefaultUserAgent identifies the client to the backend.
	DefaultUserAgent = "easyq-tui"
)

var (
	// PERFORMANCE: Connection pooling reduces TCP handshake overhead.
	sharedTransport = &http.Transport{
		Proxy:               http.ProxyFromEnvironment,
		MaxIdleConns:        20,
		MaxIdleConnsPerHost: 4,
		IdleConnTimeout:     90 * time.Second,
		TLSHandshakeTimeout: 10 * time.Second,
	}

	sharedHTTPClient = &http.Client{
		Transport: sharedTransport,
		Timeout:   DefaultTimeout,
	}

	// sharedStreamingClient has no timeout; streams are bounded by context.
	sharedStreamingClient = &http.Client{
		Transport: sharedTransport,
	}
)

// Role of a chat message author.
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Message is one turn of a conversation.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// ChatRequest is the body of both chat endpoints. Messages carries the full
// history, including the seeded welcome.
type ChatRequest struct {
	Messages  []Message `json:"messages"`
	Lang      string    `json:"lang"`
	SessionID string    `json:"session_id,omitempty"`
}

// ChatResponse is the non-streaming chat reply.
type ChatResponse struct {
	Answer string `json:"answer"`
}

type conversationResponse struct {
	Messages []Message `json:"messages"`
}

// Client talks to the public menu/chat API and the upload endpoint.
type Client struct {
	baseURL    string
	httpClient *http.Client
	streamHTTP *http.Client
	userAgent  string
	limiter    *rate.Limiter
	log        zerolog.Logger
}

// New returns a client rooted at baseURL (e.g. "http://localhost:8000").
func New(baseURL string) *Client {
	return &Client{
		baseURL:    strings.TrimSuffix(strings.TrimSpace(baseURL), "/"),
		httpClient: sharedHTTPClient,
		streamHTTP: sharedStreamingClient,
		userAgent:  DefaultUserAgent,
		log:        logging.Component("api"),
	}
}

// WithHTTPClient replaces both the request and the streaming HTTP client.
func (c *Client) WithHTTPClient(hc *http.Client) *Client {
	c.httpClient = hc
	c.streamHTTP = hc
	return c
}

// WithTimeout sets the timeout of non-streaming requests.
func (c *Client) WithTimeout(d time.Duration) *Client {
	hc := *c.httpClient
	hc.Timeout = d
	c.httpClient = &hc
	return c
}

// WithRateLimit paces outgoing requests. A zero limit disables pacing.
func (c *Client) WithRateLimit(limit rate.Limit, burst int) *Client {
	if limit <= 0 {
		c.limiter = nil
		return c
	}
	if burst < 1 {
		burst = 1
	}
	c.limiter = rate.NewLimiter(limit, burst)
	return c
}

// WithUserAgent overrides the User-Agent header.
func (c *Client) WithUserAgent(ua string) *Client {
	c.userAgent = ua
	return c
}

// BaseURL returns the normalized base URL.
func (c *Client) BaseURL() string { return c.baseURL }

// =============================================================================
// MENU
// =============================================================================

// GetMenu fetches the menu document for slug in lang.
func (c *Client) GetMenu(ctx context.Context, slug, lang string) (*menu.Document, error) {
	q := url.Values{}
	if lang != "" {
		q.Set("lang", lang)
	}
	resp, err := c.do(ctx, c.httpClient, http.MethodGet, c.menuPath(slug, "")+encode(q), nil, "")
	if err != nil {
		return nil, &TransportError{Op: "get menu", Err: err}
	}
	defer resp.Body.Close()

	if !ok(resp.StatusCode) {
		drain(resp.Body)
		return nil, fmt.Errorf("%w: %s (HTTP %d)", ErrMenuNotFound, slug, resp.StatusCode)
	}

	var doc menu.Document
	if err := decodeJSON(resp.Body, &doc); err != nil {
		return nil, &TransportError{Op: "get menu", Status: resp.StatusCode, Err: err}
	}
	return &doc, nil
}

// =============================================================================
// CONVERSATION
// =============================================================================

// GetConversation returns the stored history for sessionID. A non-success
// status yields an empty history and no error.
func (c *Client) GetConversation(ctx context.Context, slug, sessionID string) ([]Message, error) {
	q := url.Values{"session_id": {sessionID}}
	resp, err := c.do(ctx, c.httpClient, http.MethodGet, c.menuPath(slug, "/conversation")+encode(q), nil, "")
	if err != nil {
		return nil, &TransportError{Op: "get conversation", Err: err}
	}
	defer resp.Body.Close()

	if !ok(resp.StatusCode) {
		drain(resp.Body)
		c.log.Debug().Int("status", resp.StatusCode).Str("slug", slug).Msg("conversation unavailable, starting empty")
		return []Message{}, nil
	}

	var out conversationResponse
	if err := decodeJSON(resp.Body, &out); err != nil {
		return nil, &TransportError{Op: "get conversation", Status: resp.StatusCode, Err: err}
	}
	if out.Messages == nil {
		out.Messages = []Message{}
	}
	return out.Messages, nil
}

// ClearConversation deletes the server-side history for sessionID.
func (c *Client) ClearConversation(ctx context.Context, slug, sessionID string) error {
	q := url.Values{"session_id": {sessionID}}
	resp, err := c.do(ctx, c.httpClient, http.MethodDelete, c.menuPath(slug, "/conversation")+encode(q), nil, "")
	if err != nil {
		return &TransportError{Op: "clear conversation", Err: err}
	}
	defer resp.Body.Close()
	drain(resp.Body)

	if !ok(resp.StatusCode) {
		return &TransportError{Op: "clear conversation", Status: resp.StatusCode}
	}
	return nil
}

// Chat sends the history and waits for the full answer.
func (c *Client) Chat(ctx context.Context, slug string, req ChatRequest) (*ChatResponse, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}
	resp, err := c.do(ctx, c.httpClient, http.MethodPost, c.menuPath(slug, "/chat"), bytes.NewReader(body), "application/json")
	if err != nil {
		return nil, &TransportError{Op: "chat", Err: err}
	}
	defer resp.Body.Close()

	if !ok(resp.StatusCode) {
		return nil, &TransportError{Op: "chat", Status: resp.StatusCode, Err: errorDetail(resp.Body)}
	}

	var out ChatResponse
	if err := decodeJSON(resp.Body, &out); err != nil {
		return nil, &TransportError{Op: "chat", Status: resp.StatusCode, Err: err}
	}
	return &out, nil
}

// =============================================================================
// INTERNAL
// =============================================================================

func (c *Client) menuPath(slug, suffix string) string {
	return "/api/public/menus/" + url.PathEscape(slug) + suffix
}

func (c *Client) do(ctx context.Context, hc *http.Client, method, path string, body io.Reader, contentType string) (*http.Response, error) {
	req, err := c.newRequest(ctx, method, path, body, contentType)
	if err != nil {
		return nil, err
	}
	return c.send(hc, req)
}

func (c *Client) newRequest(ctx context.Context, method, path string, body io.Reader, contentType string) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	req.Header.Set("User-Agent", c.userAgent)
	return req, nil
}

func (c *Client) send(hc *http.Client, req *http.Request) (*http.Response, error) {
	if c.limiter != nil {
		if err := c.limiter.Wait(req.Context()); err != nil {
			return nil, err
		}
	}

	start := time.Now()
	resp, err := hc.Do(req)
	if err != nil {
		c.log.Debug().Err(err).Str("method", req.Method).Str("path", req.URL.Path).Msg("request failed")
		return nil, err
	}
	c.log.Debug().
		Str("method", req.Method).
		Str("path", req.URL.Path).
		Int("status", resp.StatusCode).
		Dur("elapsed", time.Since(start)).
		Msg("request")
	return resp, nil
}

func ok(status int) bool { return status >= 200 && status < 300 }

func encode(q url.Values) string {
	if len(q) == 0 {
		return ""
	}
	return "?" + q.Encode()
}

func decodeJSON(r io.Reader, v any) error {
	if err := json.NewDecoder(io.LimitReader(r, MaxResponseSize)).Decode(v); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

// drain lets the connection be reused.
func drain(r io.Reader) {
	_, _ = io.Copy(io.Discard, io.LimitReader(r, MaxResponseSize))
}

// errorDetail extracts a FastAPI-style {"detail": "..."} message, or nil.
func errorDetail(r io.Reader) error {
	raw, _ := io.ReadAll(io.LimitReader(r, MaxResponseSize))
	if d := detailOf(raw); d != "" {
		return fmt.Errorf("%s", d)
	}
	return nil
}

func detailOf(raw []byte) string {
	var body struct {
		Detail json.RawMessage `json:"detail"`
	}
	if json.Unmarshal(raw, &body) != nil || len(body.Detail) == 0 {
		return ""
	}
	var s string
	if json.Unmarshal(body.Detail, &s) == nil {
		return strings.TrimSpace(s)
	}
	return ""
}
