// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package util provides small helpers shared across the easyq client.
//
// # Key Functions
//
// File Operations:
//   - AtomicWriteFile: crash-safe file writing with fsync + rename
//
// Display Width:
//   - Width, Truncate, PadRight, PadLeft: column math via go-runewidth
//   - Columns: label/value line with a right-aligned value
//
// # Usage
//
//	err := util.AtomicWriteFile(path, data, 0o600)
//	line := util.Columns("Crème brûlée", "€ 8.50", 40)
package util
