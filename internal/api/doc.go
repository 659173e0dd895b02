// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package api is the HTTP client for the EasyQ menu backend.
//
// It covers the public menu, the per-session conversation history, the
// streaming and non-streaming chat endpoints, and the owner-side PDF upload.
// Nothing is retried: every failure is returned to the caller, who decides
// what to show.
//
// # Key Types
//
//   - Client: the API client, configured with With* builders
//   - StreamDecoder: incremental `data: ` line decoder
//   - TransportError, StreamError, ValidationError, UploadError
//
// # Usage
//
//	c := api.New(cfg.API.BaseURL).WithTimeout(cfg.Timeout())
//	doc, err := c.GetMenu(ctx, "chez-marie", "fr")
//	if api.IsNotFound(err) { ... }
//
//	err = c.ChatStream(ctx, slug, api.ChatRequest{Messages: msgs, Lang: "fr"},
//	    func(chunk string) { fmt.Print(chunk) })
package api
