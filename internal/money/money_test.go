// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package money

import (
	"strings"
	"testing"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		in   string
		want float64
	}{
		{"12,50€", 12.5},
		{"12.50", 12.5},
		{"€ 18", 18},
		{"18 EUR", 18},
		{"abc", 0},
		{"", 0},
		{".", 0},
		{",5", 0.5},
		{"7.", 7},
		{"1.234.5", 1.234},
		{"1,234.50", 1.234}, // only the first comma becomes a point
		{"  9 000 FCFA", 9000},
	}
	for _, tt := range tests {
		if got := Normalize(tt.in); got != tt.want {
			t.Errorf("Normalize(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestFormat(t *testing.T) {
	got := Format(12.5, "EUR", "en")
	if !strings.Contains(got, "€") || !strings.Contains(got, "12.50") {
		t.Errorf("Format(12.5, EUR, en) = %q", got)
	}

	if got := Format(12.5, "", "en"); !strings.Contains(got, "€") {
		t.Errorf("empty currency should default to EUR, got %q", got)
	}

	if got := Format(12.5, "NOPE", "en"); got != "12.5" {
		t.Errorf("unknown currency should fall back to the number, got %q", got)
	}
}
