// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package cart implements the shopping cart shared by the menu, the chat
// and the cart screen.
//
// Lines are keyed by (name, normalized price): adding the same pair twice
// bumps the quantity instead of adding a second row. Totals are always
// recomputed from the lines, never stored.
//
// # Key Types
//
//   - Store: owns the lines, persists them through storage.KV
//   - Line: name, price, quantity
//
// # Usage
//
//	c, err := cart.Open(ctx, kv)
//	c.AddFields("Steak", menu.Text("24,00€"))
//	c.SetQuantity("Steak", 24, 3)
//	fmt.Println(c.ItemCount(), c.Total())
package cart
