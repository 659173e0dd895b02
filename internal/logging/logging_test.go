// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package logging

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInit_WriterRespectsLevel(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Init(Options{Level: "warn", Writer: &buf}))
	t.Cleanup(func() { Close() })

	Info().Msg("hidden")
	Warn().Str("key", "cart").Msg("visible")

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, "visible")
	assert.Contains(t, out, `"key":"cart"`)
}

func TestInit_FileSink(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "easyq.log")
	require.NoError(t, Init(Options{Sink: SinkFile, File: path, Level: "debug"}))

	cartLog := Component("cart")
	cartLog.Debug().Msg("hydrated")
	require.NoError(t, Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, strings.Contains(string(data), `"component":"cart"`), string(data))
}

func TestInit_FileSinkNeedsPath(t *testing.T) {
	err := Init(Options{Sink: SinkFile})
	assert.Error(t, err)
}

func TestParseLevel(t *testing.T) {
	for _, name := range []string{"", "info", "DEBUG", "warning", "error", "off"} {
		_, err := ParseLevel(name)
		assert.NoError(t, err, name)
	}
	_, err := ParseLevel("loud")
	assert.Error(t, err)
}
