// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
)

// =============================================================================
// STREAMING CONSTANTS
// =============================================================================

const (
	// MaxLineSize bounds a single undelimited line held by the decoder.
	MaxLineSize = 64 * 1024

	readBufferSize = 4 * 1024

	dataPrefix   = "data: "
	doneSentinel = "[DONE]"
	errorPrefix  = "[ERROR]"
)

// =============================================================================
// DECODER
// =============================================================================

// StreamDecoder turns arbitrary read chunks into `data: ` payloads.
//
// Input is split on '\n'; the trailing partial line is kept as bytes until
// the next Feed, so a multi-byte character split across reads comes out
// whole. Lines without the "data: " prefix are ignored.
type StreamDecoder struct {
	pending []byte
}

// Feed consumes p and returns the payloads of every line it completed.
func (d *StreamDecoder) Feed(p []byte) []string {
	d.pending = append(d.pending, p...)

	var out []string
	for {
		i := bytes.IndexByte(d.pending, '\n')
		if i < 0 {
			break
		}
		line := bytes.TrimSuffix(d.pending[:i], []byte("\r"))
		if bytes.HasPrefix(line, []byte(dataPrefix)) {
			out = append(out, string(line[len(dataPrefix):]))
		}
		d.pending = d.pending[i+1:]
	}

	// Keep the buffer from pinning a large backing array.
	if len(d.pending) == 0 {
		d.pending = nil
	}
	return out
}

// Pending returns the number of buffered bytes of the unfinished line.
func (d *StreamDecoder) Pending() int { return len(d.pending) }

// EventKind classifies a stream payload.
type EventKind int

const (
	EventChunk EventKind = iota
	EventDone
	EventError
)

// Event is a classified payload. Data is the text for chunks and the
// detail for errors.
type Event struct {
	Kind EventKind
	Data string
}

// Classify maps a payload to an Event.
func Classify(payload string) Event {
	switch {
	case payload == doneSentinel:
		return Event{Kind: EventDone}
	case strings.HasPrefix(payload, errorPrefix):
		return Event{Kind: EventError, Data: strings.TrimSpace(payload[len(errorPrefix):])}
	default:
		return Event{Kind: EventChunk, Data: payload}
	}
}

// =============================================================================
// STREAMING CHAT
// =============================================================================

// ChatStream posts req to the streaming endpoint and calls onChunk with each
// text chunk in arrival order.
//
// It returns nil on `[DONE]` or a clean end of body, a *StreamError on an
// `[ERROR]` event, ctx.Err() when the context is cancelled, and a
// *TransportError for everything else.
func (c *Client) ChatStream(ctx context.Context, slug string, req ChatRequest, onChunk func(string)) error {
	body, err := json.Marshal(req)
	if err != nil {
		return fmt.Errorf("failed to marshal request: %w", err)
	}

	httpReq, err := c.newRequest(ctx, http.MethodPost, c.menuPath(slug, "/chat/stream"), bytes.NewReader(body), "application/json")
	if err != nil {
		return err
	}
	httpReq.Header.Set("Accept", "text/event-stream")
	httpReq.Header.Set("Cache-Control", "no-cache")

	resp, err := c.send(c.streamHTTP, httpReq)
	if err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return &TransportError{Op: "chat stream", Err: err}
	}
	defer resp.Body.Close()

	if !ok(resp.StatusCode) {
		return &TransportError{Op: "chat stream", Status: resp.StatusCode, Err: errorDetail(resp.Body)}
	}

	return c.consume(ctx, resp.Body, onChunk)
}

// consume drives the decoder over body until a terminal event.
func (c *Client) consume(ctx context.Context, body io.Reader, onChunk func(string)) error {
	var dec StreamDecoder
	buf := make([]byte, readBufferSize)

	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		n, readErr := body.Read(buf)
		if n > 0 {
			for _, payload := range dec.Feed(buf[:n]) {
				ev := Classify(payload)
				switch ev.Kind {
				case EventDone:
					return nil
				case EventError:
					return &StreamError{Detail: ev.Data}
				default:
					onChunk(ev.Data)
				}
			}
			// SECURITY: Bound the partial line so a server that never sends
			// '\n' cannot grow memory without limit.
			if dec.Pending() > MaxLineSize {
				return &TransportError{Op: "chat stream", Err: fmt.Errorf("line exceeds %d bytes", MaxLineSize)}
			}
		}

		if readErr != nil {
			if errors.Is(readErr, io.EOF) {
				// A partial line left at EOF is discarded.
				return nil
			}
			if ctx.Err() != nil {
				return ctx.Err()
			}
			return &TransportError{Op: "chat stream", Err: readErr}
		}
	}
}
