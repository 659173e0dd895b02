// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package menu models the structured menu document served for a
// restaurant slug and language.
//
// # Key Types
//
//   - Document: restaurant name, currency, languages, sections, wines
//   - Price: number, formatted string, or absent, as received
//   - Catalog: flattened dishes then wines, used for chat dish matching
//
// # Usage
//
//	var doc menu.Document
//	if err := json.Unmarshal(body, &doc); err != nil { ... }
//	for _, e := range doc.Catalog() {
//	    fmt.Println(e.Name, e.Price.Value())
//	}
package menu
