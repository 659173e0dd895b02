// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package styles

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLayoutMode(t *testing.T) {
	tests := []struct {
		width int
		want  LayoutMode
	}{
		{40, LayoutNarrow},
		{59, LayoutNarrow},
		{60, LayoutMedium},
		{99, LayoutMedium},
		{100, LayoutWide},
	}
	theme := NewTheme()
	for _, tt := range tests {
		theme.SetSize(tt.width, 30)
		assert.Equal(t, tt.want, theme.GetLayoutMode(), "width %d", tt.width)
	}
}

func TestRenderHelpersKeepIndicators(t *testing.T) {
	assert.True(t, strings.Contains(RenderSuccess("saved"), "[OK] saved"))
	assert.True(t, strings.Contains(RenderError("failed"), "[X] failed"))
	assert.True(t, strings.Contains(RenderWarning("busy"), "[!] busy"))
	assert.True(t, strings.Contains(RenderInfo("note"), "[i] note"))
}

func TestSpinnerDuration(t *testing.T) {
	assert.Equal(t, time.Second/6, DotsSpinner.Duration())
	assert.Equal(t, time.Second/10, SpinnerConfig{}.Duration())
}
