// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package api

import (
	"errors"
	"fmt"
)

// ErrMenuNotFound is returned by GetMenu for any non-success response.
var ErrMenuNotFound = errors.New("menu not found")

// TransportError covers network failures and unexpected statuses on chat,
// conversation and upload calls.
type TransportError struct {
	Op     string // e.g. "chat stream", "clear conversation"
	Status int    // HTTP status, 0 when the request never completed
	Err    error
}

func (e *TransportError) Error() string {
	if e.Status != 0 {
		if e.Err != nil {
			return fmt.Sprintf("%s: HTTP %d: %v", e.Op, e.Status, e.Err)
		}
		return fmt.Sprintf("%s: HTTP %d", e.Op, e.Status)
	}
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// StreamError is an `[ERROR]` event sent by the server mid-stream.
type StreamError struct {
	Detail string
}

func (e *StreamError) Error() string {
	if e.Detail == "" {
		return "stream error"
	}
	return "stream error: " + e.Detail
}

// ValidationError blocks a request before it reaches the network.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// UploadError is a failed menu upload. Detail is the server's message or
// the generic fallback.
type UploadError struct {
	Status int
	Detail string
}

func (e *UploadError) Error() string {
	return e.Detail
}

// IsNotFound reports whether err is a missing menu.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrMenuNotFound)
}

// IsTransport reports whether err is (or wraps) a transport failure.
func IsTransport(err error) bool {
	var te *TransportError
	return errors.As(err, &te)
}
