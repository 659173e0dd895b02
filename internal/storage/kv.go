// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package storage

import (
	"context"
	"errors"
	"fmt"

	"github.com/easyq/easyq-tui/internal/config"
)

// Well-known keys. The cart and the chat session live side by side with
// independent lifecycles.
const (
	KeyCart      = "cart"
	KeySessionID = "chat_session_id"
)

// ErrNotFound is returned by Get when the key has no value.
var ErrNotFound = errors.New("storage: key not found")

// ErrClosed is returned when a store is used after Close.
var ErrClosed = errors.New("storage: store closed")

// KV is the durable client-side key/value store.
type KV interface {
	// Get returns the value for key, or ErrNotFound.
	Get(ctx context.Context, key string) (string, error)
	// Set stores value under key, replacing any previous value.
	Set(ctx context.Context, key, value string) error
	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error
	// Close releases the underlying resources.
	Close() error
}

// Open returns the store selected by cfg.Storage.
func Open(ctx context.Context, cfg *config.Config) (KV, error) {
	switch cfg.Storage.Backend {
	case config.BackendSQLite, "":
		return OpenSQLite(ctx, cfg.StoragePath())
	case config.BackendFile:
		return OpenFile(cfg.StoragePath())
	case config.BackendRedis:
		return OpenRedis(ctx, RedisConfig{URL: cfg.Storage.RedisURL})
	case config.BackendMemory:
		return NewMemory(), nil
	}
	return nil, fmt.Errorf("storage: unknown backend %q", cfg.Storage.Backend)
}
