// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package app

import (
	"time"

	"github.com/easyq/easyq-tui/internal/config"
	"github.com/easyq/easyq-tui/internal/menu"
)

// =============================================================================
// MENU MESSAGES
// =============================================================================

// menuLoadedMsg carries a fetch result. Results for a language other than
// the current one are stale and dropped.
type menuLoadedMsg struct {
	slug string
	lang string
	doc  *menu.Document
	err  error
}

// =============================================================================
// CHAT MESSAGES
// =============================================================================

// chatActivatedMsg reports that history hydration finished.
type chatActivatedMsg struct {
	restored bool
}

// chatDoneMsg reports the end of a Run.
type chatDoneMsg struct {
	err error
}

// chatClearedMsg reports the end of a Clear.
type chatClearedMsg struct {
	err error
}

// streamTickMsg drains the StreamingBuffer.
type streamTickMsg struct {
	Time time.Time
}

// =============================================================================
// EXTERNAL MESSAGES
// =============================================================================

// ConfigChangedMsg is sent through tea.Program.Send when the config file
// changes on disk.
type ConfigChangedMsg struct {
	Config *config.Config
	Err    error
}
