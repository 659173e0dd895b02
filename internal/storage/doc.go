// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package storage provides the durable client-side key/value store that
// holds the cart and the chat session id.
//
// # Key Types
//
//   - KV: Get / Set / Delete / Close
//   - SQLite: default backend (modernc.org/sqlite, one row per key)
//   - File: a single JSON object rewritten atomically
//   - Redis: shared store for several terminals
//   - Memory: process-local, for tests and --ephemeral
//
// # Usage
//
//	kv, err := storage.Open(ctx, cfg)
//	if err != nil {
//	    return err
//	}
//	defer kv.Close()
//	raw, err := kv.Get(ctx, storage.KeyCart)
//	if errors.Is(err, storage.ErrNotFound) { ... }
package storage
