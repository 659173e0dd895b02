// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package export

import (
	"fmt"
	"strings"
	"time"

	"github.com/easyq/easyq-tui/internal/api"
	"github.com/easyq/easyq-tui/internal/money"
)

// =============================================================================
// MARKDOWN EXPORTER
// =============================================================================

// MarkdownExporter exports transcripts to Markdown. Assistant answers are
// already Markdown and are written as-is.
type MarkdownExporter struct {
	options *Options
}

// NewMarkdownExporter creates a new Markdown exporter.
func NewMarkdownExporter(opts *Options) *MarkdownExporter {
	if opts == nil {
		opts = DefaultOptions()
	}
	return &MarkdownExporter{options: opts}
}

// Export converts a transcript to Markdown.
func (e *MarkdownExporter) Export(t *Transcript) ([]byte, error) {
	if t == nil {
		return nil, fmt.Errorf("transcript is nil")
	}
	if len(t.Messages) == 0 {
		return nil, fmt.Errorf("transcript has no messages")
	}

	var sb strings.Builder

	if e.options.IncludeMetadata {
		sb.WriteString("---\n")
		sb.WriteString(fmt.Sprintf("restaurant: %s\n", escapeYAML(t.Restaurant)))
		sb.WriteString(fmt.Sprintf("menu: %s\n", escapeYAML(t.Slug)))
		sb.WriteString(fmt.Sprintf("lang: %s\n", t.Lang))
		sb.WriteString(fmt.Sprintf("messages: %d\n", len(t.Messages)))
		sb.WriteString(fmt.Sprintf("exported: %s\n", t.ExportedAt.Format(time.RFC3339)))
		sb.WriteString("generator: easyq\n")
		sb.WriteString("---\n\n")
	}

	title := t.Restaurant
	if title == "" {
		title = t.Slug
	}
	sb.WriteString(fmt.Sprintf("# %s\n\n", escapeMarkdown(title)))

	sb.WriteString("## Conversation\n\n")
	for i, msg := range t.Messages {
		sb.WriteString(fmt.Sprintf("### %s\n\n", formatRoleLabel(msg.Role)))
		sb.WriteString(strings.TrimSpace(msg.Content))
		sb.WriteString("\n\n")
		if i < len(t.Messages)-1 {
			sb.WriteString("---\n\n")
		}
	}

	if e.options.IncludeMetadata && len(t.Cart) > 0 {
		price := func(v float64) string { return money.Format(v, t.Currency, t.Lang) }

		sb.WriteString("## Cart\n\n")
		sb.WriteString("| Item | Qty | Price | Subtotal |\n")
		sb.WriteString("|---|---:|---:|---:|\n")
		for _, l := range t.Cart {
			sb.WriteString(fmt.Sprintf("| %s | %d | %s | %s |\n",
				escapeTableCell(l.Name), l.Quantity, price(l.Price), price(l.Subtotal())))
		}
		sb.WriteString(fmt.Sprintf("\n**Total**: %s (%d items)\n\n", price(t.Total), t.ItemCount))
	}

	sb.WriteString("---\n\n")
	sb.WriteString(fmt.Sprintf("*Exported from easyq on %s*\n", formatTimestamp(t.ExportedAt)))

	return []byte(sb.String()), nil
}

// FileExtension returns the file extension for Markdown.
func (e *MarkdownExporter) FileExtension() string {
	return ".md"
}

// MimeType returns the MIME type for Markdown.
func (e *MarkdownExporter) MimeType() string {
	return "text/markdown"
}

// =============================================================================
// FORMATTING HELPERS
// =============================================================================

func formatRoleLabel(role string) string {
	switch role {
	case api.RoleUser:
		return "You"
	case api.RoleAssistant:
		return "Waiter"
	case "":
		return "Unknown"
	}
	runes := []rune(role)
	return strings.ToUpper(string(runes[0])) + string(runes[1:])
}

// escapeMarkdown escapes characters that would break a heading.
func escapeMarkdown(s string) string {
	s = strings.ReplaceAll(s, "#", "\\#")
	s = strings.ReplaceAll(s, "*", "\\*")
	s = strings.ReplaceAll(s, "_", "\\_")
	s = strings.ReplaceAll(s, "[", "\\[")
	s = strings.ReplaceAll(s, "]", "\\]")
	return s
}

func escapeTableCell(s string) string {
	return strings.ReplaceAll(escapeMarkdown(s), "|", "\\|")
}

// escapeYAML quotes values with special YAML characters.
func escapeYAML(s string) string {
	if strings.ContainsAny(s, ":#|>@`\"'[]{}!%&*\n\r\\") || strings.HasPrefix(s, " ") || strings.HasSuffix(s, " ") {
		s = strings.ReplaceAll(s, "\\", "\\\\")
		s = strings.ReplaceAll(s, "\"", "\\\"")
		s = strings.ReplaceAll(s, "\n", "\\n")
		s = strings.ReplaceAll(s, "\r", "\\r")
		return fmt.Sprintf("\"%s\"", s)
	}
	return s
}
