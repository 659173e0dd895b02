// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package export

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/easyq/easyq-tui/internal/cart"
	"github.com/easyq/easyq-tui/internal/chat"
	"github.com/easyq/easyq-tui/internal/util"
)

// =============================================================================
// TRANSCRIPT
// =============================================================================

// Message is one exported conversation turn.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Transcript is everything an export contains.
type Transcript struct {
	Restaurant string      `json:"restaurant"`
	Slug       string      `json:"slug"`
	Lang       string      `json:"lang"`
	Currency   string      `json:"currency"`
	ExportedAt time.Time   `json:"exported_at"`
	Messages   []Message   `json:"messages"`
	Cart       []cart.Line `json:"cart"`
	ItemCount  int         `json:"item_count"`
	Total      float64     `json:"total"`
}

// NewTranscript snapshots a conversation and the cart. c may be nil.
func NewTranscript(restaurant, slug, lang, currency string, msgs []chat.Message, c *cart.Store) *Transcript {
	t := &Transcript{
		Restaurant: restaurant,
		Slug:       slug,
		Lang:       lang,
		Currency:   currency,
		ExportedAt: time.Now(),
		Messages:   make([]Message, 0, len(msgs)),
	}
	for _, m := range msgs {
		t.Messages = append(t.Messages, Message{Role: m.Role, Content: m.Content})
	}
	if c != nil {
		t.Cart = c.Lines()
		t.ItemCount = c.ItemCount()
		t.Total = c.Total()
	}
	return t
}

// =============================================================================
// EXPORT INTERFACE
// =============================================================================

// Exporter converts a transcript to one output format.
type Exporter interface {
	Export(t *Transcript) ([]byte, error)

	// FileExtension returns the extension including the dot, e.g. ".md".
	FileExtension() string

	MimeType() string
}

// Options configures export behavior.
type Options struct {
	// OutputDir is where files are written. Default: current directory.
	OutputDir string

	// IncludeMetadata adds the front matter and the cart section.
	IncludeMetadata bool
}

// DefaultOptions returns default export options.
func DefaultOptions() *Options {
	return &Options{
		OutputDir:       ".",
		IncludeMetadata: true,
	}
}

// ByName returns the exporter for "md"/"markdown" or "json".
func ByName(name string, opts *Options) (Exporter, error) {
	switch strings.ToLower(strings.TrimPrefix(name, ".")) {
	case "", "md", "markdown":
		return NewMarkdownExporter(opts), nil
	case "json":
		return NewJSONExporter(opts), nil
	}
	return nil, fmt.Errorf("unknown export format %q (want md or json)", name)
}

// =============================================================================
// EXPORT FUNCTIONS
// =============================================================================

// ExportToFile writes t with exporter into opts.OutputDir and returns the
// file path. Files are named after the menu and the export time.
func ExportToFile(t *Transcript, exporter Exporter, opts *Options) (string, error) {
	if opts == nil {
		opts = DefaultOptions()
	}

	content, err := exporter.Export(t)
	if err != nil {
		return "", fmt.Errorf("export failed: %w", err)
	}

	name := t.Slug
	if name == "" {
		name = t.Restaurant
	}
	filename := fmt.Sprintf("easyq_%s_%s%s",
		sanitizeFilename(name),
		t.ExportedAt.Format("20060102_150405"),
		exporter.FileExtension(),
	)

	outputPath := filepath.Join(opts.OutputDir, filename)
	if err := util.AtomicWriteFile(outputPath, content, 0644); err != nil {
		return "", fmt.Errorf("write file: %w", err)
	}
	return outputPath, nil
}

// =============================================================================
// HELPER FUNCTIONS
// =============================================================================

// sanitizeFilename removes or replaces characters that are invalid in filenames.
func sanitizeFilename(s string) string {
	maxLen := 50
	runes := []rune(s)
	if len(runes) > maxLen {
		s = string(runes[:maxLen])
	}

	replacer := map[rune]rune{
		'/':  '-',
		'\\': '-',
		':':  '-',
		'*':  '-',
		'?':  '-',
		'"':  '-',
		'<':  '-',
		'>':  '-',
		'|':  '-',
		' ':  '_',
		'\t': '_',
		'\n': '_',
		'\r': '_',
	}

	result := []rune{}
	for _, r := range s {
		if replacement, found := replacer[r]; found {
			result = append(result, replacement)
		} else if r < 32 || r == 127 {
			result = append(result, '-')
		} else {
			result = append(result, r)
		}
	}

	if len(result) == 0 {
		return "menu"
	}
	return string(result)
}

// formatTimestamp formats a timestamp for display.
func formatTimestamp(t time.Time) string {
	return t.Format("2006-01-02 15:04:05")
}
