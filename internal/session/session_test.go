// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package session

import (
	"context"
	"regexp"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/easyq/easyq-tui/internal/storage"
)

var idPattern = regexp.MustCompile(`^session_[0-9a-z]{13}([0-9a-z]+)$`)

func TestNewIDShape(t *testing.T) {
	now := time.UnixMilli(1_700_000_000_000)
	id, err := NewID(now)
	require.NoError(t, err)

	m := idPattern.FindStringSubmatch(id)
	require.NotNil(t, m, "unexpected id %q", id)
	assert.Equal(t, strconv.FormatInt(now.UnixMilli(), 36), m[1])
}

func TestNewIDIsRandom(t *testing.T) {
	now := time.Now()
	a, err := NewID(now)
	require.NoError(t, err)
	b, err := NewID(now)
	require.NoError(t, err)
	assert.NotEqual(t, a, b)
}

func TestGetIsStable(t *testing.T) {
	ctx := context.Background()
	kv := storage.NewMemory()

	first, err := Get(ctx, kv)
	require.NoError(t, err)
	second, err := Get(ctx, kv)
	require.NoError(t, err)
	assert.Equal(t, first, second)

	stored, err := kv.Get(ctx, storage.KeySessionID)
	require.NoError(t, err)
	assert.Equal(t, first, stored)
}

func TestResetMintsNew(t *testing.T) {
	ctx := context.Background()
	kv := storage.NewMemory()

	first, err := Get(ctx, kv)
	require.NoError(t, err)
	require.NoError(t, Reset(ctx, kv))

	second, err := Get(ctx, kv)
	require.NoError(t, err)
	assert.NotEqual(t, first, second)
}

func TestGetLeavesCartAlone(t *testing.T) {
	ctx := context.Background()
	kv := storage.NewMemory()
	require.NoError(t, kv.Set(ctx, storage.KeyCart, "[]"))

	_, err := Get(ctx, kv)
	require.NoError(t, err)
	require.NoError(t, Reset(ctx, kv))

	v, err := kv.Get(ctx, storage.KeyCart)
	require.NoError(t, err)
	assert.Equal(t, "[]", v)
}
