// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package export writes a chat transcript, together with the cart it
// produced, to a file a diner can keep or share.
//
// # Key Types
//
//   - Transcript: restaurant, conversation and cart snapshot
//   - Exporter: one output format (Markdown, JSON)
//   - Options: output directory and metadata switches
//
// # Usage
//
//	t := export.NewTranscript(doc.RestaurantName, slug, lang, "EUR", conv.Messages(), cartStore)
//	path, err := export.ExportToFile(t, export.NewMarkdownExporter(nil), nil)
package export
