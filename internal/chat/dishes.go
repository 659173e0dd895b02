// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"regexp"
	"strings"

	"golang.org/x/text/unicode/norm"

	"github.com/easyq/easyq-tui/internal/menu"
)

// SegmentKind classifies a piece of assistant text.
type SegmentKind int

const (
	// SegmentText is plain text.
	SegmentText SegmentKind = iota
	// SegmentBold is a **span** with no actionable catalog match.
	SegmentBold
	// SegmentDish is a **span** matched to a priced catalog entry.
	SegmentDish
)

// Segment is one run of parsed assistant text. Entry is set for SegmentDish.
type Segment struct {
	Kind  SegmentKind
	Text  string
	Entry menu.Entry
}

var boldSpan = regexp.MustCompile(`\*\*([^*]+)\*\*`)

// ParseSegments splits content into text and **span** segments and resolves
// each span against catalog. It works on partial text too: an unclosed
// "**" stays plain until its closing marker arrives.
func ParseSegments(content string, catalog menu.Catalog) []Segment {
	var out []Segment
	last := 0
	for _, loc := range boldSpan.FindAllStringSubmatchIndex(content, -1) {
		if loc[0] > last {
			out = append(out, Segment{Kind: SegmentText, Text: content[last:loc[0]]})
		}
		span := content[loc[2]:loc[3]]
		if e, ok := Match(span, catalog); ok && actionable(e.Price) {
			out = append(out, Segment{Kind: SegmentDish, Text: span, Entry: e})
		} else {
			out = append(out, Segment{Kind: SegmentBold, Text: span})
		}
		last = loc[1]
	}
	if last < len(content) {
		out = append(out, Segment{Kind: SegmentText, Text: content[last:]})
	}
	return out
}

// Match returns the first catalog entry whose name equals, contains, or is
// contained in span, ignoring case and surrounding space. Overlapping names
// resolve to whichever entry comes first in the catalog.
func Match(span string, catalog menu.Catalog) (menu.Entry, bool) {
	needle := fold(span)
	if needle == "" {
		return menu.Entry{}, false
	}
	for _, e := range catalog {
		name := fold(e.Name)
		if name == "" {
			continue
		}
		if name == needle || strings.Contains(name, needle) || strings.Contains(needle, name) {
			return e, true
		}
	}
	return menu.Entry{}, false
}

// Dishes returns the SegmentDish entries of segs in order.
func Dishes(segs []Segment) []Segment {
	var out []Segment
	for _, s := range segs {
		if s.Kind == SegmentDish {
			out = append(out, s)
		}
	}
	return out
}

func fold(s string) string {
	return strings.ToLower(strings.TrimSpace(norm.NFC.String(s)))
}

// actionable reports whether a price can be added to the cart. Only a
// missing (null) price is display-only; zero is a real price.
func actionable(p menu.Price) bool {
	return p.IsSet()
}
