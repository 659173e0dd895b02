// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package menu

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleDoc = `{
  "restaurant_name": "Chez Test",
  "lang": "en",
  "available_languages": ["en", "fr"],
  "currency": "EUR",
  "sections": [
    {"title": "Starters", "items": [
      {"name": "Soup", "description": "Daily soup", "price": 7.5, "tags": ["vegan"]},
      {"name": "Bread", "price": null}
    ]},
    {"title": "Fish", "items": [
      {"name": "Grilled Salmon", "price": "18,00€"}
    ]}
  ],
  "wines": [
    {"name": "Chablis", "type": "White", "region": "Burgundy", "grape": "Chardonnay", "price": 42},
    {"name": "House Red"}
  ]
}`

func TestDocumentDecode(t *testing.T) {
	var doc Document
	require.NoError(t, json.Unmarshal([]byte(sampleDoc), &doc))

	assert.Equal(t, "Chez Test", doc.RestaurantName)
	require.Len(t, doc.Sections, 2)

	soup := doc.Sections[0].Items[0]
	assert.True(t, soup.Price.IsSet())
	assert.Equal(t, 7.5, soup.Price.Value())

	bread := doc.Sections[0].Items[1]
	assert.False(t, bread.Price.IsSet())
	assert.Equal(t, 0.0, bread.Price.Value())

	salmon := doc.Sections[1].Items[0]
	assert.True(t, salmon.Price.IsSet())
	assert.Equal(t, 18.0, salmon.Price.Value())
	assert.Equal(t, "18,00€", salmon.Price.String())

	assert.False(t, doc.Wines[1].Price.IsSet(), "missing price is unset")
}

func TestPriceRejectsGarbage(t *testing.T) {
	var p Price
	assert.Error(t, json.Unmarshal([]byte(`{"amount":1}`), &p))
}

func TestPriceMarshalKeepsShape(t *testing.T) {
	out, err := json.Marshal(struct {
		A Price `json:"a"`
		B Price `json:"b"`
		C Price `json:"c"`
	}{Amount(3), Text("4,50"), Price{}})
	require.NoError(t, err)
	assert.JSONEq(t, `{"a":3,"b":"4,50","c":null}`, string(out))
}

func TestWineInfo(t *testing.T) {
	w := Wine{Type: "White", Grape: "Chardonnay"}
	assert.Equal(t, "White - Chardonnay", w.Info())
	assert.Equal(t, "", Wine{}.Info())
}

func TestCatalogOrder(t *testing.T) {
	var doc Document
	require.NoError(t, json.Unmarshal([]byte(sampleDoc), &doc))

	c := doc.Catalog()
	names := make([]string, len(c))
	for i, e := range c {
		names[i] = e.Name
	}
	assert.Equal(t, []string{"Soup", "Bread", "Grilled Salmon", "Chablis", "House Red"}, names)
	assert.Equal(t, KindWine, c[3].Kind)
	assert.Equal(t, "White - Burgundy - Chardonnay", c[3].Description)
	assert.Equal(t, "Fish", c[2].Section)

	assert.False(t, c[1].Price.IsSet(), "unpriced entries stay in the catalog")
}

func TestLanguages(t *testing.T) {
	doc := Document{AvailableLanguages: []string{"en", "fr", "es"}}
	assert.Equal(t, "fr", doc.NextLanguage("en"))
	assert.Equal(t, "en", doc.NextLanguage("es"))
	assert.Equal(t, []string{"de", "en", "fr", "es"}, doc.Languages("de"))
	assert.Equal(t, "en", doc.NextLanguage("de"))

	assert.Equal(t, "USD", (&Document{Currency: "USD"}).CurrencyOr("EUR"))
	assert.Equal(t, "EUR", (&Document{}).CurrencyOr("EUR"))
}
