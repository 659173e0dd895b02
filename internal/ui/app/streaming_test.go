// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package app

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestStreamingBuffer_BatchThreshold(t *testing.T) {
	sb := NewStreamingBufferWithConfig(3, 1)

	_, ok := sb.Flush()
	assert.False(t, ok, "nothing written")

	sb.Write("a")
	sb.Write("ab")
	_, ok = sb.Flush()
	assert.False(t, ok, "below batch size and inside the frame interval")
	assert.Equal(t, 2, sb.Pending())

	sb.Write("abc")
	got, ok := sb.Flush()
	assert.True(t, ok)
	assert.Equal(t, "abc", got, "only the latest snapshot is released")
	assert.Equal(t, 0, sb.Pending())
}

func TestStreamingBuffer_TimeThreshold(t *testing.T) {
	sb := NewStreamingBufferWithConfig(100, 60)
	sb.Write("x")
	time.Sleep(20 * time.Millisecond)

	got, ok := sb.Flush()
	assert.True(t, ok)
	assert.Equal(t, "x", got)
}

func TestStreamingBuffer_ForceFlushAndReset(t *testing.T) {
	sb := NewStreamingBuffer()
	sb.Write("partial")

	got, ok := sb.ForceFlush()
	assert.True(t, ok)
	assert.Equal(t, "partial", got)

	_, ok = sb.ForceFlush()
	assert.False(t, ok)

	sb.Write("more")
	sb.Reset()
	assert.Equal(t, 0, sb.Pending())
	_, ok = sb.ForceFlush()
	assert.False(t, ok)
}
