// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package util

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// =============================================================================
// ATOMIC WRITE TESTS
// =============================================================================

func TestAtomicWriteFile_Basic(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.json")
	data := []byte(`{"cart":"[]"}`)

	if err := AtomicWriteFile(path, data, 0o600); err != nil {
		t.Fatalf("AtomicWriteFile failed: %v", err)
	}

	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read file: %v", err)
	}
	if string(content) != string(data) {
		t.Errorf("Content mismatch: got %q, want %q", content, data)
	}
}

func TestAtomicWriteFile_CreatesParentDir(t *testing.T) {
	path := filepath.Join(t.TempDir(), "a", "b", "state.json")

	if err := AtomicWriteFile(path, []byte("x"), 0o600); err != nil {
		t.Fatalf("AtomicWriteFile failed: %v", err)
	}
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("File not created: %v", err)
	}
}

func TestAtomicWriteFile_OverwritesAndLeavesNoTemp(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "state.json")

	if err := AtomicWriteFile(path, []byte("first"), 0o600); err != nil {
		t.Fatalf("first write: %v", err)
	}
	if err := AtomicWriteFile(path, []byte("second"), 0o600); err != nil {
		t.Fatalf("second write: %v", err)
	}

	content, _ := os.ReadFile(path)
	if string(content) != "second" {
		t.Errorf("got %q, want %q", content, "second")
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	for _, e := range entries {
		if strings.HasPrefix(e.Name(), ".easyq-tmp-") {
			t.Errorf("temp file left behind: %s", e.Name())
		}
	}
}

// =============================================================================
// WIDTH TESTS
// =============================================================================

func TestTruncate(t *testing.T) {
	tests := []struct {
		in    string
		width int
		want  string
	}{
		{"Steak", 10, "Steak"},
		{"Grilled Salmon", 8, "Grilled…"},
		{"Crème brûlée", 6, "Crème…"},
		{"abc", 0, ""},
		{"abc", 1, "a"},
	}
	for _, tt := range tests {
		if got := Truncate(tt.in, tt.width); got != tt.want {
			t.Errorf("Truncate(%q, %d) = %q, want %q", tt.in, tt.width, got, tt.want)
		}
	}
}

func TestColumns(t *testing.T) {
	line := Columns("Steak", "18.00", 20)
	if Width(line) != 20 {
		t.Errorf("width = %d, want 20 (%q)", Width(line), line)
	}
	if !strings.HasPrefix(line, "Steak") || !strings.HasSuffix(line, "18.00") {
		t.Errorf("unexpected layout %q", line)
	}

	long := Columns("A very long dish name indeed", "9.00", 16)
	if Width(long) != 16 {
		t.Errorf("width = %d, want 16 (%q)", Width(long), long)
	}
}

func TestPad(t *testing.T) {
	if got := PadRight("é", 3); got != "é  " {
		t.Errorf("PadRight = %q", got)
	}
	if got := PadLeft("7", 3); got != "  7" {
		t.Errorf("PadLeft = %q", got)
	}
}
