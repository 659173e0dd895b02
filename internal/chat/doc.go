// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package chat implements the virtual-waiter conversation.
//
// A Conversation is a small state machine:
//
//	Idle --Begin--> Sending --first chunk--> Streaming --end--> Idle
//	                   \                        \
//	                    `---- failure ----------> Error ----> Idle
//
// Only one answer is in flight at a time; Begin returns ErrBusy otherwise.
// Answers stream through the Listener so a UI can render partial text.
//
// Assistant text marks dishes as **Name**. ParseSegments resolves those
// spans against the menu catalog so the UI can offer a one-key cart add.
//
// # Key Types
//
//   - Conversation: history, state, streaming buffer
//   - Backend: the api.Client methods used here
//   - Segment: parsed text/bold/dish run
//
// # Usage
//
//	conv := chat.New(chat.Options{
//	    Slug: slug, Lang: "fr", SessionID: sid,
//	    Backend: client, Translator: bundle,
//	    Listener: func(ev chat.Event) { ... },
//	})
//	conv.Activate(ctx)
//	if err := conv.Submit(ctx, "What do you recommend?"); err != nil { ... }
package chat
