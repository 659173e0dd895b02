// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cart

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"sync"

	"github.com/easyq/easyq-tui/internal/logging"
	"github.com/easyq/easyq-tui/internal/menu"
	"github.com/easyq/easyq-tui/internal/storage"
)

// PaymentMethods are the accepted payment methods. Payment itself happens
// outside the app.
var PaymentMethods = []string{"Orange Money", "MTN MoMo"}

// Line is one cart row. (Name, Price) is the identity of a line.
type Line struct {
	Name     string  `json:"name"`
	Price    float64 `json:"price"`
	Quantity int     `json:"quantity"`
}

// Subtotal returns Price * Quantity.
func (l Line) Subtotal() float64 {
	return l.Price * float64(l.Quantity)
}

// Store holds the cart lines and writes them through to a storage.KV after
// every mutation.
type Store struct {
	mu    sync.Mutex
	kv    storage.KV
	lines []Line

	// persist uses its own context so a cancelled caller cannot leave the
	// durable copy behind the in-memory one.
	persistCtx context.Context
}

// Open hydrates a store from kv. A missing or malformed payload yields an
// empty cart; only storage failures are returned.
func Open(ctx context.Context, kv storage.KV) (*Store, error) {
	s := &Store{kv: kv, persistCtx: context.WithoutCancel(ctx)}

	raw, err := kv.Get(ctx, storage.KeyCart)
	if errors.Is(err, storage.ErrNotFound) {
		return s, nil
	}
	if err != nil {
		return nil, fmt.Errorf("cart: load: %w", err)
	}

	var lines []Line
	if err := json.Unmarshal([]byte(raw), &lines); err != nil {
		logging.Warn().Err(err).Str("key", storage.KeyCart).Msg("discarding malformed cart payload")
		return s, nil
	}
	for _, l := range lines {
		if l.Quantity < 1 || math.IsNaN(l.Price) || math.IsInf(l.Price, 0) {
			continue
		}
		s.lines = append(s.lines, l)
	}
	return s, nil
}

// =============================================================================
// MUTATIONS
// =============================================================================

// AddFields adds one unit of name at price, normalizing the price first.
func (s *Store) AddFields(name string, price menu.Price) error {
	return s.AddAmount(name, price.Value())
}

// AddItem adds one unit of a catalog entry.
func (s *Store) AddItem(e menu.Entry) error {
	return s.AddFields(e.Name, e.Price)
}

// AddAmount adds one unit of name at an already-numeric price. An existing
// (name, price) line is incremented, otherwise a new line is appended.
func (s *Store) AddAmount(name string, price float64) error {
	if math.IsNaN(price) || math.IsInf(price, 0) {
		price = 0
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if i := s.indexLocked(name, price); i >= 0 {
		s.lines[i].Quantity++
	} else {
		s.lines = append(s.lines, Line{Name: name, Price: price, Quantity: 1})
	}
	return s.persistLocked()
}

// Remove deletes the (name, price) line if present.
func (s *Store) Remove(name string, price float64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexLocked(name, price)
	if i < 0 {
		return nil
	}
	s.lines = append(s.lines[:i], s.lines[i+1:]...)
	return s.persistLocked()
}

// SetQuantity replaces the quantity of the (name, price) line. q <= 0
// removes it; an unknown line is left alone.
func (s *Store) SetQuantity(name string, price float64, q int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexLocked(name, price)
	if i < 0 {
		return nil
	}
	if q <= 0 {
		s.lines = append(s.lines[:i], s.lines[i+1:]...)
	} else {
		s.lines[i].Quantity = q
	}
	return s.persistLocked()
}

// Clear empties the cart.
func (s *Store) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.lines = nil
	return s.persistLocked()
}

// =============================================================================
// DERIVED VALUES
// =============================================================================

// Total returns the sum of price * quantity over every line.
func (s *Store) Total() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	var t float64
	for _, l := range s.lines {
		t += l.Subtotal()
	}
	return t
}

// ItemCount returns the sum of quantities.
func (s *Store) ItemCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	n := 0
	for _, l := range s.lines {
		n += l.Quantity
	}
	return n
}

// Lines returns a copy of the current lines in insertion order.
func (s *Store) Lines() []Line {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]Line, len(s.lines))
	copy(out, s.lines)
	return out
}

// Len returns the number of distinct lines.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.lines)
}

// =============================================================================
// INTERNAL
// =============================================================================

func (s *Store) indexLocked(name string, price float64) int {
	for i, l := range s.lines {
		if l.Name == name && l.Price == price {
			return i
		}
	}
	return -1
}

func (s *Store) persistLocked() error {
	lines := s.lines
	if lines == nil {
		lines = []Line{}
	}
	raw, err := json.Marshal(lines)
	if err != nil {
		return fmt.Errorf("cart: encode: %w", err)
	}
	if err := s.kv.Set(s.persistCtx, storage.KeyCart, string(raw)); err != nil {
		logging.Error().Err(err).Msg("cart: persist failed")
		return fmt.Errorf("cart: persist: %w", err)
	}
	return nil
}
