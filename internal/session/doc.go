// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package session owns the chat session identity.
//
// The id is an opaque token generated on the client, stored once in the
// key/value store under storage.KeySessionID and reused for the life of the
// install. There is no server-issued identity and no expiry.
//
// # Usage
//
//	id, err := session.Get(ctx, kv)
//	...
//	_ = session.Reset(ctx, kv) // next Get mints a fresh id
package session
