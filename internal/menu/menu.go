// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package menu

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/easyq/easyq-tui/internal/money"
)

// =============================================================================
// PRICE
// =============================================================================

// Price is a menu price exactly as the backend sent it: a JSON number, a
// currency-formatted string, or absent.
type Price struct {
	set    bool
	isText bool
	num    float64
	text   string
}

// Amount returns a numeric price.
func Amount(v float64) Price { return Price{set: true, num: v} }

// Text returns a free-form price such as "12,50€".
func Text(s string) Price { return Price{set: true, isText: true, text: s} }

// IsSet reports whether a price was provided at all.
func (p Price) IsSet() bool { return p.set }

// Value returns the normalized numeric price. Numbers pass through
// unchanged, strings go through money.Normalize, and an absent price is 0.
func (p Price) Value() float64 {
	switch {
	case !p.set:
		return 0
	case p.isText:
		return money.Normalize(p.text)
	default:
		return p.num
	}
}

// String returns the price as received.
func (p Price) String() string {
	switch {
	case !p.set:
		return ""
	case p.isText:
		return p.text
	default:
		return strconv.FormatFloat(p.num, 'f', -1, 64)
	}
}

// UnmarshalJSON accepts a number, a string or null.
func (p *Price) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*p = Price{}
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*p = Text(s)
		return nil
	}
	var f float64
	if err := json.Unmarshal(data, &f); err != nil {
		return fmt.Errorf("price must be a number or string: %w", err)
	}
	*p = Amount(f)
	return nil
}

// MarshalJSON writes the price back in its original shape.
func (p Price) MarshalJSON() ([]byte, error) {
	switch {
	case !p.set:
		return []byte("null"), nil
	case p.isText:
		return json.Marshal(p.text)
	default:
		return json.Marshal(p.num)
	}
}

// =============================================================================
// DOCUMENT
// =============================================================================

// Document is one (slug, language) snapshot of a restaurant menu.
type Document struct {
	RestaurantName     string    `json:"restaurant_name"`
	Lang               string    `json:"lang,omitempty"`
	AvailableLanguages []string  `json:"available_languages"`
	Currency           string    `json:"currency,omitempty"`
	Sections           []Section `json:"sections"`
	Wines              []Wine    `json:"wines"`
}

// Section is a titled group of items.
type Section struct {
	Title string `json:"title"`
	Items []Item `json:"items"`
}

// Item is a dish.
type Item struct {
	Name        string   `json:"name"`
	Description string   `json:"description,omitempty"`
	Price       Price    `json:"price"`
	Tags        []string `json:"tags,omitempty"`
}

// Wine is an entry of the wine list.
type Wine struct {
	Name        string   `json:"name"`
	Type        string   `json:"type,omitempty"`
	Region      string   `json:"region,omitempty"`
	Grape       string   `json:"grape,omitempty"`
	Price       Price    `json:"price"`
	PairingTags []string `json:"pairing_tags,omitempty"`
}

// Info is the "type - region - grape" line, skipping empty parts.
func (w Wine) Info() string {
	parts := make([]string, 0, 3)
	for _, s := range []string{w.Type, w.Region, w.Grape} {
		if s = strings.TrimSpace(s); s != "" {
			parts = append(parts, s)
		}
	}
	return strings.Join(parts, " - ")
}

// CurrencyOr returns the document currency or def when unset.
func (d *Document) CurrencyOr(def string) string {
	if d.Currency != "" {
		return d.Currency
	}
	return def
}

// Languages returns the languages the menu can be fetched in. It always
// contains current so a selector has something to show.
func (d *Document) Languages(current string) []string {
	for _, l := range d.AvailableLanguages {
		if l == current {
			return d.AvailableLanguages
		}
	}
	if current == "" {
		return d.AvailableLanguages
	}
	return append([]string{current}, d.AvailableLanguages...)
}

// NextLanguage cycles to the language after current.
func (d *Document) NextLanguage(current string) string {
	langs := d.Languages(current)
	if len(langs) == 0 {
		return current
	}
	for i, l := range langs {
		if l == current {
			return langs[(i+1)%len(langs)]
		}
	}
	return langs[0]
}
