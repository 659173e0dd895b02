// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package i18n holds the client's localization table.
//
// Lookups fall back from the requested language to English and finally to
// the key itself, so a missing translation degrades to readable text.
package i18n

import (
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"golang.org/x/text/language"
)

// Fallback is the language used when a key is missing in the requested one.
const Fallback = "en"

//go:embed locales/*.json
var localeFS embed.FS

// Bundle is a set of per-language key/value tables.
type Bundle struct {
	mu       sync.RWMutex
	dict     map[string]map[string]string
	fallback string
}

// New returns a bundle loaded with the embedded en/fr/es tables.
func New() (*Bundle, error) {
	b := &Bundle{
		dict:     map[string]map[string]string{},
		fallback: Fallback,
	}
	entries, err := fs.ReadDir(localeFS, "locales")
	if err != nil {
		return nil, fmt.Errorf("read embedded locales: %w", err)
	}
	for _, e := range entries {
		raw, err := localeFS.ReadFile("locales/" + e.Name())
		if err != nil {
			return nil, fmt.Errorf("read locale %s: %w", e.Name(), err)
		}
		if err := b.merge(strings.TrimSuffix(e.Name(), ".json"), raw); err != nil {
			return nil, err
		}
	}
	if _, ok := b.dict[b.fallback]; !ok {
		return nil, fmt.Errorf("fallback locale %s not loaded", b.fallback)
	}
	return b, nil
}

// LoadDir overlays every <lang>.json file in dir onto the bundle. Keys in
// the files replace embedded ones; new languages become supported.
func (b *Bundle) LoadDir(dir string) error {
	paths, err := filepath.Glob(filepath.Join(dir, "*.json"))
	if err != nil {
		return err
	}
	if len(paths) == 0 {
		if _, err := os.Stat(dir); errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("locales dir %s: %w", dir, err)
		}
	}
	for _, p := range paths {
		raw, err := os.ReadFile(p)
		if err != nil {
			return fmt.Errorf("read %s: %w", p, err)
		}
		lang := strings.ToLower(strings.TrimSuffix(filepath.Base(p), ".json"))
		if err := b.merge(lang, raw); err != nil {
			return err
		}
	}
	return nil
}

func (b *Bundle) merge(lang string, raw []byte) error {
	var m map[string]string
	if err := json.Unmarshal(raw, &m); err != nil {
		return fmt.Errorf("unmarshal %s: %w", lang, err)
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.dict[lang] == nil {
		b.dict[lang] = map[string]string{}
	}
	for k, v := range m {
		b.dict[lang][k] = v
	}
	return nil
}

// T returns the translation of key in lang, falling back to English and
// finally to the key. Empty translations count as missing.
func (b *Bundle) T(lang, key string) string {
	b.mu.RLock()
	defer b.mu.RUnlock()
	if v := b.dict[lang][key]; v != "" {
		return v
	}
	if v := b.dict[b.fallback][key]; v != "" {
		return v
	}
	return key
}

// Plural returns the localized "item"/"items" word for n.
func (b *Bundle) Plural(lang string, n int) string {
	if n == 1 {
		return b.T(lang, "item")
	}
	return b.T(lang, "items")
}

// Supported returns the languages with a table, sorted.
func (b *Bundle) Supported() []string {
	b.mu.RLock()
	defer b.mu.RUnlock()
	out := make([]string, 0, len(b.dict))
	for k := range b.dict {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// Has reports whether lang has its own table.
func (b *Bundle) Has(lang string) bool {
	b.mu.RLock()
	defer b.mu.RUnlock()
	_, ok := b.dict[lang]
	return ok
}

// Match picks the best supported language for the given preferences
// (BCP 47 tags or POSIX locales such as "fr_FR.UTF-8"). It returns the
// fallback when nothing matches.
func (b *Bundle) Match(preferred ...string) string {
	supported := b.Supported()
	tags := make([]language.Tag, 0, len(supported))
	for _, s := range supported {
		tags = append(tags, language.Make(s))
	}
	matcher := language.NewMatcher(tags)

	var want []language.Tag
	for _, p := range preferred {
		if t, ok := parseLocale(p); ok {
			want = append(want, t)
		}
	}
	if len(want) == 0 {
		return b.fallback
	}
	_, idx, conf := matcher.Match(want...)
	if conf == language.No {
		return b.fallback
	}
	return supported[idx]
}

// FromEnvironment resolves the POSIX locale variables to a supported language.
func (b *Bundle) FromEnvironment() string {
	return b.Match(os.Getenv("LC_ALL"), os.Getenv("LC_MESSAGES"), os.Getenv("LANG"))
}

func parseLocale(s string) (language.Tag, bool) {
	s = strings.TrimSpace(s)
	if i := strings.IndexAny(s, ".@"); i >= 0 {
		s = s[:i]
	}
	if s == "" || s == "C" || s == "POSIX" {
		return language.Und, false
	}
	t, err := language.Parse(strings.ReplaceAll(s, "_", "-"))
	if err != nil {
		return language.Und, false
	}
	return t, true
}

var labels = map[string]string{
	"en": "EN",
	"fr": "FR",
	"es": "ES",
}

// Label is the short language-selector label for lang.
func Label(lang string) string {
	if l, ok := labels[lang]; ok {
		return l
	}
	return strings.ToUpper(lang)
}

var (
	defaultOnce   sync.Once
	defaultBundle *Bundle
)

// Default returns the shared bundle built from the embedded tables.
func Default() *Bundle {
	defaultOnce.Do(func() {
		b, err := New()
		if err != nil {
			// Embedded data is compiled in; failure is a build defect.
			panic(err)
		}
		defaultBundle = b
	})
	return defaultBundle
}

// T translates key with the default bundle.
func T(lang, key string) string {
	return Default().T(lang, key)
}
