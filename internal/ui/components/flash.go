// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// =============================================================================
// "ADDED" FLASH TRACKER
// =============================================================================

// FlashExpiredMsg is delivered when a flash's duration elapses.
type FlashExpiredMsg struct {
	Key   string
	Token uint64
}

// Flash tracks short-lived "added" affordances by key. It is purely
// presentational: nothing in the cart depends on it.
type Flash struct {
	active map[string]uint64
	next   uint64
}

// NewFlash returns an empty tracker.
func NewFlash() *Flash {
	return &Flash{active: make(map[string]uint64)}
}

// Trigger starts a flash for key lasting d. It returns false and a nil
// command when key is already flashing; callers treat that as "ignore the
// activation".
func (f *Flash) Trigger(key string, d time.Duration) (tea.Cmd, bool) {
	if _, on := f.active[key]; on {
		return nil, false
	}
	f.next++
	token := f.next
	f.active[key] = token
	return tea.Tick(d, func(time.Time) tea.Msg {
		return FlashExpiredMsg{Key: key, Token: token}
	}), true
}

// Expire ends the flash named by msg. Stale tokens are ignored.
func (f *Flash) Expire(msg FlashExpiredMsg) {
	if f.active[msg.Key] == msg.Token {
		delete(f.active, msg.Key)
	}
}

// Active reports whether key is flashing.
func (f *Flash) Active(key string) bool {
	_, on := f.active[key]
	return on
}

// Reset clears every flash.
func (f *Flash) Reset() {
	f.active = make(map[string]uint64)
}
