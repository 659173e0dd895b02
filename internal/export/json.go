// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package export

import (
	"encoding/json"
	"fmt"
)

// =============================================================================
// JSON EXPORTER
// =============================================================================

// JSONExporter exports transcripts to JSON. It always writes the complete
// transcript; options only affect the Markdown exporter.
type JSONExporter struct {
	options *Options
}

// NewJSONExporter creates a new JSON exporter.
func NewJSONExporter(opts *Options) *JSONExporter {
	if opts == nil {
		opts = DefaultOptions()
	}
	return &JSONExporter{options: opts}
}

// Export converts a transcript to indented JSON.
func (e *JSONExporter) Export(t *Transcript) ([]byte, error) {
	if t == nil {
		return nil, fmt.Errorf("transcript is nil")
	}
	return json.MarshalIndent(t, "", "  ")
}

// FileExtension returns the file extension for JSON.
func (e *JSONExporter) FileExtension() string {
	return ".json"
}

// MimeType returns the MIME type for JSON.
func (e *JSONExporter) MimeType() string {
	return "application/json"
}
