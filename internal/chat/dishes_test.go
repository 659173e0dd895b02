// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/easyq/easyq-tui/internal/menu"
)

func catalog() menu.Catalog {
	return menu.Catalog{
		{Kind: menu.KindDish, Name: "Grilled Salmon", Price: menu.Amount(18)},
		{Kind: menu.KindDish, Name: "Crème Brûlée", Price: menu.Text("8,50€")},
		{Kind: menu.KindDish, Name: "Bread basket"},
		{Kind: menu.KindDish, Name: "Still Water", Price: menu.Amount(0)},
		{Kind: menu.KindDish, Name: "Olives", Price: menu.Text("0")},
		{Kind: menu.KindDish, Name: "House Bread", Price: menu.Text("")},
		{Kind: menu.KindWine, Name: "Chablis", Price: menu.Amount(32)},
		{Kind: menu.KindDish, Name: ""},
	}
}

func TestParseSegments(t *testing.T) {
	segs := ParseSegments("Try the **Salmon** or **Tiramisu**, then **chablis**.", catalog())

	require.Len(t, segs, 7)
	assert.Equal(t, Segment{Kind: SegmentText, Text: "Try the "}, segs[0])

	assert.Equal(t, SegmentDish, segs[1].Kind)
	assert.Equal(t, "Salmon", segs[1].Text)
	assert.Equal(t, "Grilled Salmon", segs[1].Entry.Name)

	assert.Equal(t, Segment{Kind: SegmentText, Text: " or "}, segs[2])
	assert.Equal(t, Segment{Kind: SegmentBold, Text: "Tiramisu"}, segs[3])
	assert.Equal(t, SegmentDish, segs[5].Kind)
	assert.Equal(t, menu.KindWine, segs[5].Entry.Kind)
	assert.Equal(t, Segment{Kind: SegmentText, Text: "."}, segs[6])
}

func TestParseSegments_Unpriced(t *testing.T) {
	segs := ParseSegments("**Bread basket** and **Tiramisu**", catalog())
	require.Len(t, segs, 3)
	assert.Equal(t, SegmentBold, segs[0].Kind)
	assert.Equal(t, SegmentBold, segs[2].Kind)
}

func TestParseSegments_ZeroPriceIsActionable(t *testing.T) {
	tests := []struct {
		span string
		want string
	}{
		{"Still Water", "Still Water"},
		{"water", "Still Water"},
		{"Olives", "Olives"},
		{"House Bread", "House Bread"},
	}
	for _, tt := range tests {
		t.Run(tt.span, func(t *testing.T) {
			segs := ParseSegments("**"+tt.span+"**", catalog())
			require.Len(t, segs, 1)
			assert.Equal(t, SegmentDish, segs[0].Kind)
			assert.Equal(t, tt.want, segs[0].Entry.Name)
		})
	}
}

func TestParseSegments_Partial(t *testing.T) {
	segs := ParseSegments("Try the **Sal", catalog())
	assert.Equal(t, []Segment{{Kind: SegmentText, Text: "Try the **Sal"}}, segs)
}

func TestParseSegments_BlankSpan(t *testing.T) {
	segs := ParseSegments("** **", catalog())
	require.Len(t, segs, 1)
	assert.Equal(t, SegmentBold, segs[0].Kind)
}

func TestMatch(t *testing.T) {
	tests := []struct {
		span string
		want string
		ok   bool
	}{
		{"Grilled Salmon", "Grilled Salmon", true},
		{"  grilled salmon ", "Grilled Salmon", true},
		{"Salmon", "Grilled Salmon", true},
		{"The Grilled Salmon special", "Grilled Salmon", true},
		{"CRÈME BRÛLÉE", "Crème Brûlée", true},
		{"Crème Brûlée", "Crème Brûlée", true},
		{"Tiramisu", "", false},
		{"", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.span, func(t *testing.T) {
			e, ok := Match(tt.span, catalog())
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, e.Name)
		})
	}
}

func TestMatch_FirstWins(t *testing.T) {
	c := menu.Catalog{
		{Name: "Salmon Tartare", Price: menu.Amount(14)},
		{Name: "Grilled Salmon", Price: menu.Amount(18)},
	}
	e, ok := Match("Salmon", c)
	require.True(t, ok)
	assert.Equal(t, "Salmon Tartare", e.Name)
}

func TestDishes(t *testing.T) {
	segs := ParseSegments("**Salmon**, **Tiramisu**, **Chablis**", catalog())
	dishes := Dishes(segs)
	require.Len(t, dishes, 2)
	assert.Equal(t, "Grilled Salmon", dishes[0].Entry.Name)
	assert.Equal(t, "Chablis", dishes[1].Entry.Name)
}
