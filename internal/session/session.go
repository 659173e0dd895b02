// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package session

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"strconv"
	"strings"
	"time"

	"github.com/easyq/easyq-tui/internal/logging"
	"github.com/easyq/easyq-tui/internal/storage"
)

// Prefix starts every locally minted session id.
const Prefix = "session_"

const (
	randomLen = 13
	alphabet  = "0123456789abcdefghijklmnopqrstuvwxyz"
)

// Get returns the persisted session id, minting and storing one on first use.
func Get(ctx context.Context, kv storage.KV) (string, error) {
	id, err := kv.Get(ctx, storage.KeySessionID)
	if err == nil && id != "" {
		return id, nil
	}
	if err != nil && !errors.Is(err, storage.ErrNotFound) {
		return "", fmt.Errorf("session: load: %w", err)
	}

	id, err = NewID(time.Now())
	if err != nil {
		return "", err
	}
	if err := kv.Set(ctx, storage.KeySessionID, id); err != nil {
		return "", fmt.Errorf("session: store: %w", err)
	}
	logging.Debug().Str("session_id", id).Msg("minted chat session")
	return id, nil
}

// Reset forgets the stored id; the next Get mints a new one.
func Reset(ctx context.Context, kv storage.KV) error {
	if err := kv.Delete(ctx, storage.KeySessionID); err != nil {
		return fmt.Errorf("session: reset: %w", err)
	}
	return nil
}

// NewID returns "session_" + 13 random base36 characters + now in base36
// milliseconds.
func NewID(now time.Time) (string, error) {
	var b strings.Builder
	b.Grow(len(Prefix) + randomLen + 9)
	b.WriteString(Prefix)

	max := big.NewInt(int64(len(alphabet)))
	for i := 0; i < randomLen; i++ {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", fmt.Errorf("session: random: %w", err)
		}
		b.WriteByte(alphabet[n.Int64()])
	}
	b.WriteString(strconv.FormatInt(now.UnixMilli(), 36))
	return b.String(), nil
}
