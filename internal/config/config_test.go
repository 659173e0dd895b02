// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package config

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// isolate points the config directory at a temp dir and clears EASYQ_* vars.
func isolate(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("EASYQ_HOME", dir)
	for _, name := range []string{"API_URL", "LANG", "STORAGE", "STORAGE_PATH", "REDIS_URL", "LOG_LEVEL", "LOG_FILE"} {
		t.Setenv("EASYQ_"+name, "")
	}
	return dir
}

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	isolate(t)

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:8000", cfg.API.BaseURL)
	assert.Equal(t, BackendSQLite, cfg.Storage.Backend)
	assert.Equal(t, 1500*time.Millisecond, cfg.AddedFlash())
	assert.Equal(t, 2*time.Second, cfg.DishFlash())
	assert.Equal(t, "EUR", cfg.UI.Currency)
}

func TestLoad_FileAndEnvOverride(t *testing.T) {
	dir := isolate(t)
	path := filepath.Join(dir, "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(`
[api]
base_url = "https://menus.example.com/"

[ui]
language = "fr"
`), 0o600))

	t.Setenv("EASYQ_LANG", "es")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "https://menus.example.com", cfg.API.BaseURL, "trailing slash trimmed")
	assert.Equal(t, "es", cfg.UI.Language, "environment wins over file")
}

func TestLoad_InvalidValues(t *testing.T) {
	dir := isolate(t)
	path := filepath.Join(dir, "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(`
[api]
base_url = "ftp://nope"

[storage]
backend = "redis"

[ui]
language = "de"
`), 0o600))

	_, err := Load(path)
	require.Error(t, err)

	var verrs ValidateErrors
	require.True(t, errors.As(err, &verrs))
	fields := map[string]bool{}
	for _, v := range verrs {
		fields[v.Field] = true
	}
	assert.True(t, fields["api.base_url"])
	assert.True(t, fields["storage.redis_url"])
	assert.True(t, fields["ui.language"])
}

func TestSaveRoundTrip(t *testing.T) {
	dir := isolate(t)
	path := filepath.Join(dir, "nested", "config.toml")

	cfg := Default()
	cfg.UI.Language = "fr"
	cfg.Storage.Backend = BackendFile
	require.NoError(t, Save(cfg, path))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "fr", loaded.UI.Language)
	assert.Equal(t, filepath.Join(dir, "state.json"), loaded.StoragePath())
}

func TestGetSet(t *testing.T) {
	cfg := Default()

	require.NoError(t, cfg.Set("ui.language", "es"))
	require.NoError(t, cfg.Set("api.timeout_secs", "12"))
	require.NoError(t, cfg.Set("api.rate_limit", "2.5"))

	v, err := cfg.Get("ui.language")
	require.NoError(t, err)
	assert.Equal(t, "es", v)
	assert.Equal(t, 12*time.Second, cfg.Timeout())
	assert.Equal(t, 2.5, cfg.API.RateLimit)

	assert.Error(t, cfg.Set("api.timeout_secs", "soon"))
	assert.Error(t, cfg.Set("ui.nope", "x"))
	_, err = cfg.Get("language")
	assert.Error(t, err)
}

func TestKeys(t *testing.T) {
	keys := Keys()
	assert.Contains(t, keys, "api.base_url")
	assert.Contains(t, keys, "storage.backend")
	assert.Contains(t, keys, "ui.dish_flash_ms")
	assert.Contains(t, keys, "log.level")
}

func TestLoadDotEnv(t *testing.T) {
	dir := isolate(t)
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("EASYQ_TEST_DOTENV=loaded\n"), 0o600))
	t.Cleanup(func() { os.Unsetenv("EASYQ_TEST_DOTENV") })

	require.NoError(t, LoadDotEnv())
	assert.Equal(t, "loaded", os.Getenv("EASYQ_TEST_DOTENV"))
}

func TestWatch_ReloadsOnWrite(t *testing.T) {
	dir := isolate(t)
	path := filepath.Join(dir, "config.toml")
	require.NoError(t, Save(Default(), path))

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	got := make(chan *Config, 4)
	done := make(chan error, 1)
	go func() {
		done <- Watch(ctx, path, func(cfg *Config, err error) {
			if err == nil {
				got <- cfg
			}
		})
	}()

	// Give the watcher a moment to register before the write.
	time.Sleep(100 * time.Millisecond)
	cfg := Default()
	cfg.UI.Language = "fr"
	require.NoError(t, Save(cfg, path))

	select {
	case c := <-got:
		assert.Equal(t, "fr", c.UI.Language)
	case <-ctx.Done():
		t.Fatal("no reload observed")
	}

	cancel()
	assert.ErrorIs(t, <-done, context.Canceled)
}
