// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"sync"

	"github.com/easyq/easyq-tui/internal/util"
)

// File keeps all keys in a single JSON object on disk. Every write rewrites
// the file atomically.
type File struct {
	mu     sync.Mutex
	path   string
	data   map[string]string
	closed bool
}

// OpenFile loads (or starts) the JSON store at path.
func OpenFile(path string) (*File, error) {
	f := &File{path: path, data: make(map[string]string)}

	raw, err := os.ReadFile(path)
	switch {
	case errors.Is(err, os.ErrNotExist):
		return f, nil
	case err != nil:
		return nil, fmt.Errorf("storage: read %s: %w", path, err)
	}
	if len(raw) == 0 {
		return f, nil
	}
	if err := json.Unmarshal(raw, &f.data); err != nil {
		return nil, fmt.Errorf("storage: %s is not a JSON object: %w", path, err)
	}
	return f, nil
}

func (f *File) Get(_ context.Context, key string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.closed {
		return "", ErrClosed
	}
	v, ok := f.data[key]
	if !ok {
		return "", ErrNotFound
	}
	return v, nil
}

func (f *File) Set(_ context.Context, key, value string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.closed {
		return ErrClosed
	}
	prev, had := f.data[key]
	f.data[key] = value
	if err := f.flushLocked(); err != nil {
		if had {
			f.data[key] = prev
		} else {
			delete(f.data, key)
		}
		return err
	}
	return nil
}

func (f *File) Delete(_ context.Context, key string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.closed {
		return ErrClosed
	}
	prev, had := f.data[key]
	if !had {
		return nil
	}
	delete(f.data, key)
	if err := f.flushLocked(); err != nil {
		f.data[key] = prev
		return err
	}
	return nil
}

func (f *File) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.closed = true
	return nil
}

func (f *File) flushLocked() error {
	raw, err := json.MarshalIndent(f.data, "", "  ")
	if err != nil {
		return fmt.Errorf("storage: encode: %w", err)
	}
	// RELIABILITY: Atomic write with fsync prevents a torn store on crash
	if err := util.AtomicWriteFile(f.path, raw, 0o600); err != nil {
		return fmt.Errorf("storage: write %s: %w", f.path, err)
	}
	return nil
}
