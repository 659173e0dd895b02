// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package storage

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/easyq/easyq-tui/internal/config"
)

// backends returns a fresh instance of every KV implementation.
func backends(t *testing.T) map[string]KV {
	t.Helper()
	ctx := context.Background()

	sq, err := OpenSQLite(ctx, filepath.Join(t.TempDir(), "state.db"))
	require.NoError(t, err)

	fl, err := OpenFile(filepath.Join(t.TempDir(), "state.json"))
	require.NoError(t, err)

	mr := miniredis.RunT(t)
	rd := NewRedis(redis.NewClient(&redis.Options{Addr: mr.Addr()}), "")

	return map[string]KV{
		"memory": NewMemory(),
		"file":   fl,
		"sqlite": sq,
		"redis":  rd,
	}
}

func TestKV_Contract(t *testing.T) {
	ctx := context.Background()
	for name, kv := range backends(t) {
		kv := kv
		t.Run(name, func(t *testing.T) {
			defer kv.Close()

			_, err := kv.Get(ctx, KeyCart)
			assert.ErrorIs(t, err, ErrNotFound)

			require.NoError(t, kv.Set(ctx, KeyCart, `[{"name":"Soup","price":7.5,"quantity":1}]`))
			v, err := kv.Get(ctx, KeyCart)
			require.NoError(t, err)
			assert.Equal(t, `[{"name":"Soup","price":7.5,"quantity":1}]`, v)

			require.NoError(t, kv.Set(ctx, KeyCart, "[]"))
			v, err = kv.Get(ctx, KeyCart)
			require.NoError(t, err)
			assert.Equal(t, "[]", v)

			require.NoError(t, kv.Set(ctx, KeySessionID, "session_abc"))
			require.NoError(t, kv.Delete(ctx, KeyCart))
			_, err = kv.Get(ctx, KeyCart)
			assert.ErrorIs(t, err, ErrNotFound)

			v, err = kv.Get(ctx, KeySessionID)
			require.NoError(t, err)
			assert.Equal(t, "session_abc", v, "keys are independent")

			assert.NoError(t, kv.Delete(ctx, "never-set"))
		})
	}
}

func TestSQLite_SurvivesReopen(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "nested", "state.db")

	kv, err := OpenSQLite(ctx, path)
	require.NoError(t, err)
	require.NoError(t, kv.Set(ctx, KeySessionID, "session_persist"))
	require.NoError(t, kv.Close())

	kv, err = OpenSQLite(ctx, path)
	require.NoError(t, err)
	defer kv.Close()

	v, err := kv.Get(ctx, KeySessionID)
	require.NoError(t, err)
	assert.Equal(t, "session_persist", v)
}

func TestFile_SurvivesReopenAndRejectsGarbage(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "state.json")

	kv, err := OpenFile(path)
	require.NoError(t, err)
	require.NoError(t, kv.Set(ctx, KeyCart, "[]"))

	again, err := OpenFile(path)
	require.NoError(t, err)
	v, err := again.Get(ctx, KeyCart)
	require.NoError(t, err)
	assert.Equal(t, "[]", v)

	require.NoError(t, os.WriteFile(path, []byte("not json"), 0o600))
	_, err = OpenFile(path)
	assert.Error(t, err)
}

func TestRedis_Prefix(t *testing.T) {
	ctx := context.Background()
	mr := miniredis.RunT(t)

	kv, err := OpenRedis(ctx, RedisConfig{URL: "redis://" + mr.Addr() + "/0", Prefix: "kiosk1:"})
	require.NoError(t, err)
	defer kv.Close()

	require.NoError(t, kv.Set(ctx, KeyCart, "[]"))
	got, err := mr.Get("kiosk1:cart")
	require.NoError(t, err)
	assert.Equal(t, "[]", got)
}

func TestMemory_Closed(t *testing.T) {
	m := NewMemory()
	require.NoError(t, m.Close())
	_, err := m.Get(context.Background(), KeyCart)
	assert.ErrorIs(t, err, ErrClosed)
}

func TestOpen_SelectsBackend(t *testing.T) {
	ctx := context.Background()
	cfg := config.Default()

	cfg.Storage.Backend = config.BackendMemory
	kv, err := Open(ctx, cfg)
	require.NoError(t, err)
	assert.IsType(t, &Memory{}, kv)

	cfg.Storage.Backend = config.BackendFile
	cfg.Storage.Path = filepath.Join(t.TempDir(), "s.json")
	kv, err = Open(ctx, cfg)
	require.NoError(t, err)
	assert.IsType(t, &File{}, kv)

	cfg.Storage.Backend = config.BackendSQLite
	cfg.Storage.Path = filepath.Join(t.TempDir(), "s.db")
	kv, err = Open(ctx, cfg)
	require.NoError(t, err)
	assert.IsType(t, &SQLite{}, kv)
	kv.Close()

	cfg.Storage.Backend = "tape"
	_, err = Open(ctx, cfg)
	assert.Error(t, err)
}
