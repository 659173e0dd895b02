// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package money normalizes menu prices and formats amounts for display.
package money

import (
	"math"
	"strconv"
	"strings"

	"golang.org/x/text/currency"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// DefaultCurrency is used when a menu does not declare one.
const DefaultCurrency = "EUR"

// Normalize turns a free-form price string into a number.
//
// Every character other than digits, '.' and ',' is dropped, the first ','
// becomes a decimal point, and the longest leading decimal number is parsed.
// Anything unparseable yields 0:
//
//	"12,50€"  -> 12.5
//	"€ 18"    -> 18
//	"abc"     -> 0
func Normalize(s string) float64 {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if (r >= '0' && r <= '9') || r == '.' || r == ',' {
			b.WriteRune(r)
		}
	}
	cleaned := strings.Replace(b.String(), ",", ".", 1)

	end := leadingNumber(cleaned)
	if end == 0 {
		return 0
	}
	v, err := strconv.ParseFloat(cleaned[:end], 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}

// leadingNumber returns the length of the longest prefix of s shaped like
// digits[.digits], or 0 if that prefix holds no digit.
func leadingNumber(s string) int {
	i, digits := 0, 0
	for i < len(s) && s[i] >= '0' && s[i] <= '9' {
		i++
		digits++
	}
	if i < len(s) && s[i] == '.' {
		j := i + 1
		frac := 0
		for j < len(s) && s[j] >= '0' && s[j] <= '9' {
			j++
			frac++
		}
		if frac > 0 {
			return j
		}
		if digits > 0 {
			return i
		}
		return 0
	}
	if digits == 0 {
		return 0
	}
	return i
}

// Format renders amount in the given ISO 4217 currency for lang, e.g.
// "€ 12.50" in English. An empty code means DefaultCurrency; an unknown
// code falls back to the bare number.
func Format(amount float64, code, lang string) string {
	if code == "" {
		code = DefaultCurrency
	}
	unit, err := currency.ParseISO(strings.ToUpper(strings.TrimSpace(code)))
	if err != nil {
		return strconv.FormatFloat(amount, 'f', -1, 64)
	}

	tag := language.English
	if lang != "" {
		if t, err := language.Parse(lang); err == nil {
			tag = t
		}
	}
	return message.NewPrinter(tag).Sprint(currency.Symbol(unit.Amount(amount)))
}
