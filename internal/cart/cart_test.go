// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cart

import (
	"context"
	"errors"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/easyq/easyq-tui/internal/menu"
	"github.com/easyq/easyq-tui/internal/storage"
)

func newStore(t *testing.T) (*Store, storage.KV) {
	t.Helper()
	kv := storage.NewMemory()
	s, err := Open(context.Background(), kv)
	require.NoError(t, err)
	return s, kv
}

func TestAddMergesSameKey(t *testing.T) {
	s, _ := newStore(t)

	require.NoError(t, s.AddFields("Steak", menu.Text("24,00€")))
	require.NoError(t, s.AddAmount("Steak", 24))

	lines := s.Lines()
	require.Len(t, lines, 1)
	assert.Equal(t, Line{Name: "Steak", Price: 24, Quantity: 2}, lines[0])
}

func TestAddDistinctPricesAreDistinctLines(t *testing.T) {
	s, _ := newStore(t)

	require.NoError(t, s.AddAmount("Wine", 6))
	require.NoError(t, s.AddAmount("Wine", 30))
	assert.Equal(t, 2, s.Len())
	assert.Equal(t, 36.0, s.Total())
}

func TestAddNormalizesPrice(t *testing.T) {
	tests := []struct {
		name  string
		price menu.Price
		want  float64
	}{
		{"comma decimal", menu.Text("12,50€"), 12.5},
		{"garbage", menu.Text("abc"), 0},
		{"missing", menu.Price{}, 0},
		{"numeric", menu.Amount(9.75), 9.75},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, _ := newStore(t)
			require.NoError(t, s.AddFields("X", tt.price))
			assert.Equal(t, tt.want, s.Lines()[0].Price)
		})
	}
}

func TestAddItem(t *testing.T) {
	s, _ := newStore(t)
	require.NoError(t, s.AddItem(menu.Entry{Name: "Grilled Salmon", Price: menu.Amount(18)}))
	assert.Equal(t, []Line{{Name: "Grilled Salmon", Price: 18, Quantity: 1}}, s.Lines())
}

func TestSetQuantity(t *testing.T) {
	s, _ := newStore(t)
	require.NoError(t, s.AddAmount("Soup", 7))

	require.NoError(t, s.SetQuantity("Soup", 7, 4))
	assert.Equal(t, 4, s.ItemCount())

	// Unknown key is a no-op.
	require.NoError(t, s.SetQuantity("Soup", 8, 2))
	assert.Equal(t, 4, s.ItemCount())

	require.NoError(t, s.SetQuantity("Soup", 7, 0))
	assert.Equal(t, 0, s.Len())
}

func TestRemoveAndClear(t *testing.T) {
	s, _ := newStore(t)
	require.NoError(t, s.AddAmount("A", 1))
	require.NoError(t, s.AddAmount("B", 2))

	require.NoError(t, s.Remove("A", 1))
	require.NoError(t, s.Remove("missing", 1))
	assert.Equal(t, []Line{{Name: "B", Price: 2, Quantity: 1}}, s.Lines())

	require.NoError(t, s.Clear())
	assert.Zero(t, s.Len())
	assert.Zero(t, s.Total())
}

func TestTotalsMatchLinesUnderRandomOps(t *testing.T) {
	s, _ := newStore(t)
	rng := rand.New(rand.NewSource(7))
	names := []string{"A", "B", "C"}
	prices := []float64{0, 2.5, 10}

	for i := 0; i < 500; i++ {
		n := names[rng.Intn(len(names))]
		p := prices[rng.Intn(len(prices))]
		switch rng.Intn(4) {
		case 0, 1:
			require.NoError(t, s.AddAmount(n, p))
		case 2:
			require.NoError(t, s.SetQuantity(n, p, rng.Intn(4)))
		case 3:
			require.NoError(t, s.Remove(n, p))
		}

		var total float64
		count := 0
		seen := map[[2]any]bool{}
		for _, l := range s.Lines() {
			require.GreaterOrEqual(t, l.Quantity, 1)
			key := [2]any{l.Name, l.Price}
			require.False(t, seen[key], "duplicate line %v", key)
			seen[key] = true
			total += l.Subtotal()
			count += l.Quantity
		}
		require.InDelta(t, total, s.Total(), 1e-9)
		require.Equal(t, count, s.ItemCount())
	}
}

func TestPersistsEveryMutation(t *testing.T) {
	ctx := context.Background()
	s, kv := newStore(t)

	require.NoError(t, s.AddAmount("Steak", 24))
	raw, err := kv.Get(ctx, storage.KeyCart)
	require.NoError(t, err)
	assert.JSONEq(t, `[{"name":"Steak","price":24,"quantity":1}]`, raw)

	require.NoError(t, s.Clear())
	raw, err = kv.Get(ctx, storage.KeyCart)
	require.NoError(t, err)
	assert.JSONEq(t, `[]`, raw)
}

func TestHydrate(t *testing.T) {
	ctx := context.Background()
	kv := storage.NewMemory()
	require.NoError(t, kv.Set(ctx, storage.KeyCart,
		`[{"name":"Soup","price":7.5,"quantity":2},{"name":"Bad","price":1,"quantity":0}]`))

	s, err := Open(ctx, kv)
	require.NoError(t, err)
	assert.Equal(t, []Line{{Name: "Soup", Price: 7.5, Quantity: 2}}, s.Lines())
	assert.Equal(t, 15.0, s.Total())
}

func TestHydrateMalformedIsEmpty(t *testing.T) {
	ctx := context.Background()
	kv := storage.NewMemory()
	require.NoError(t, kv.Set(ctx, storage.KeyCart, `{not json`))

	s, err := Open(ctx, kv)
	require.NoError(t, err)
	assert.Zero(t, s.Len())
}

type failingKV struct {
	storage.KV
}

func (failingKV) Set(context.Context, string, string) error {
	return errors.New("disk full")
}

func TestPersistFailureKeepsMutation(t *testing.T) {
	s, err := Open(context.Background(), failingKV{storage.NewMemory()})
	require.NoError(t, err)

	err = s.AddAmount("Steak", 24)
	assert.Error(t, err)
	assert.Equal(t, 1, s.ItemCount())
}
