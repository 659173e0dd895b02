// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package app

import (
	"sync"
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// =============================================================================
// STREAMING BUFFER
// =============================================================================

// StreamingBuffer carries the in-progress answer from the stream goroutine
// to the Bubble Tea loop. The conversation republishes the whole partial
// text on every chunk, so the buffer keeps only the latest snapshot and how
// many chunks arrived since the last flush.
//
// A snapshot is released when either:
// 1. batchSize chunks have arrived since the last flush
// 2. minFlush has elapsed since the last flush
//
// Thread-safety: Write runs on the stream goroutine, Flush on the UI loop.
type StreamingBuffer struct {
	mu        sync.Mutex
	snapshot  string
	pending   int
	lastFlush time.Time

	batchSize int
	minFlush  time.Duration
}

// NewStreamingBuffer creates a buffer flushing at most ~30 times a second.
func NewStreamingBuffer() *StreamingBuffer {
	return NewStreamingBufferWithConfig(15, 30)
}

// NewStreamingBufferWithConfig creates a buffer with custom thresholds.
func NewStreamingBufferWithConfig(batchSize, maxFPS int) *StreamingBuffer {
	if batchSize <= 0 {
		batchSize = 15
	}
	if maxFPS <= 0 || maxFPS > 60 {
		maxFPS = 30
	}
	return &StreamingBuffer{
		batchSize: batchSize,
		minFlush:  time.Second / time.Duration(maxFPS),
		lastFlush: time.Now(),
	}
}

// Write records the latest partial text.
func (sb *StreamingBuffer) Write(snapshot string) {
	sb.mu.Lock()
	defer sb.mu.Unlock()
	sb.snapshot = snapshot
	sb.pending++
}

// Flush returns the latest snapshot when a flush is due.
func (sb *StreamingBuffer) Flush() (string, bool) {
	sb.mu.Lock()
	defer sb.mu.Unlock()

	if sb.pending == 0 {
		return "", false
	}
	if sb.pending < sb.batchSize && time.Since(sb.lastFlush) < sb.minFlush {
		return "", false
	}
	return sb.takeLocked(), true
}

// ForceFlush returns the latest snapshot if anything is pending.
func (sb *StreamingBuffer) ForceFlush() (string, bool) {
	sb.mu.Lock()
	defer sb.mu.Unlock()

	if sb.pending == 0 {
		return "", false
	}
	return sb.takeLocked(), true
}

// Reset drops the snapshot. Use it when a request starts or is abandoned.
func (sb *StreamingBuffer) Reset() {
	sb.mu.Lock()
	defer sb.mu.Unlock()
	sb.snapshot = ""
	sb.pending = 0
	sb.lastFlush = time.Now()
}

// Pending returns the number of chunks not yet flushed.
func (sb *StreamingBuffer) Pending() int {
	sb.mu.Lock()
	defer sb.mu.Unlock()
	return sb.pending
}

func (sb *StreamingBuffer) takeLocked() string {
	sb.pending = 0
	sb.lastFlush = time.Now()
	return sb.snapshot
}

// streamTickCmd drives flushes at ~30fps while a request is in flight.
func streamTickCmd() tea.Cmd {
	return tea.Tick(33*time.Millisecond, func(t time.Time) tea.Msg {
		return streamTickMsg{Time: t}
	})
}
