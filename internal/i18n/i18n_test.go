// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package i18n

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestT_Fallbacks(t *testing.T) {
	b, err := New()
	require.NoError(t, err)

	tests := []struct {
		lang, key, want string
	}{
		{"fr", "cart", "Panier"},
		{"es", "chat.title", "Asistente"},
		{"en", "chat.welcome", "Hello! I'm your virtual waiter. How can I help you choose your meal today?"},
		{"de", "cart", "Cart"},          // unknown language -> English
		{"fr", "no.such.key", "no.such.key"}, // unknown key -> key
		{"", "total", "Total"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, b.T(tt.lang, tt.key), "%s/%s", tt.lang, tt.key)
	}
}

func TestAllLocalesShareKeys(t *testing.T) {
	b, err := New()
	require.NoError(t, err)

	for key := range b.dict[Fallback] {
		for _, lang := range []string{"fr", "es"} {
			_, ok := b.dict[lang][key]
			assert.True(t, ok, "%s missing %q", lang, key)
		}
	}
}

func TestPlural(t *testing.T) {
	b := Default()
	assert.Equal(t, "item", b.Plural("en", 1))
	assert.Equal(t, "items", b.Plural("en", 0))
	assert.Equal(t, "articles", b.Plural("fr", 3))
	assert.Equal(t, "artículo", b.Plural("es", 1))
}

func TestLoadDir_Overlay(t *testing.T) {
	b, err := New()
	require.NoError(t, err)

	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "fr.json"), []byte(`{"cart":"Mon panier"}`), 0o600))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "it.json"), []byte(`{"cart":"Carrello"}`), 0o600))
	require.NoError(t, b.LoadDir(dir))

	assert.Equal(t, "Mon panier", b.T("fr", "cart"))
	assert.Equal(t, "Payer", b.T("fr", "pay"), "untouched keys survive the overlay")
	assert.Equal(t, "Carrello", b.T("it", "cart"))
	assert.Equal(t, "Total", b.T("it", "total"))
	assert.True(t, b.Has("it"))

	assert.Error(t, b.LoadDir(filepath.Join(dir, "missing")))
}

func TestMatch(t *testing.T) {
	b := Default()
	assert.Equal(t, "fr", b.Match("fr_FR.UTF-8"))
	assert.Equal(t, "es", b.Match("", "es-MX"))
	assert.Equal(t, "en", b.Match("C"))
	assert.Equal(t, "en", b.Match("ja_JP.UTF-8"))
	assert.Equal(t, "en", b.Match())
}

func TestLabel(t *testing.T) {
	assert.Equal(t, "FR", Label("fr"))
	assert.Equal(t, "DE", Label("de"))
}
