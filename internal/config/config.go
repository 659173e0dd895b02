// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package config provides configuration loading and management for easyq.
//
// Configuration is read from a TOML file, then overlaid with EASYQ_*
// environment variables (optionally seeded from a .env file), then filled
// with defaults and validated.
//
// Configuration file location:
//   - $EASYQ_HOME/config.toml when EASYQ_HOME is set
//   - ~/.easyq/config.toml otherwise
package config

import (
	"bytes"
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"reflect"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"

	"github.com/easyq/easyq-tui/internal/util"
)

// =============================================================================
// CONFIG STRUCTURES
// =============================================================================

// Config represents the complete easyq configuration.
type Config struct {
	API     APIConfig     `toml:"api" json:"api"`
	Storage StorageConfig `toml:"storage" json:"storage"`
	UI      UIConfig      `toml:"ui" json:"ui"`
	Log     LogConfig     `toml:"log" json:"log"`
}

// APIConfig describes how to reach the EasyQ backend.
type APIConfig struct {
	// BaseURL is the backend origin, e.g. "http://localhost:8000".
	BaseURL string `toml:"base_url" json:"base_url"`
	// TimeoutSecs bounds non-streaming requests. Streams are bounded by
	// cancellation only.
	TimeoutSecs int `toml:"timeout_secs" json:"timeout_secs"`
	// RateLimit caps requests per second from this client (0 = unlimited).
	RateLimit float64 `toml:"rate_limit" json:"rate_limit"`
	// RateBurst is the burst size used with RateLimit.
	RateBurst int `toml:"rate_burst" json:"rate_burst"`
}

// StorageConfig selects the durable key/value store that holds the cart
// and the chat session id.
type StorageConfig struct {
	// Backend is one of "sqlite", "file", "redis", "memory".
	Backend string `toml:"backend" json:"backend"`
	// Path is the database or JSON file path (sqlite/file backends).
	Path string `toml:"path" json:"path"`
	// RedisURL is used by the redis backend, e.g. "redis://localhost:6379/0".
	RedisURL string `toml:"redis_url" json:"redis_url"`
}

// UIConfig contains presentation settings.
type UIConfig struct {
	// Language is the preferred menu language. Empty means "from $LANG".
	Language string `toml:"language" json:"language"`
	// Currency is used when a menu does not name its own.
	Currency string `toml:"currency" json:"currency"`
	// AddedFlashMs is how long a menu item shows its "added" state.
	AddedFlashMs int `toml:"added_flash_ms" json:"added_flash_ms"`
	// DishFlashMs is how long a chat dish chip shows its "added" state.
	DishFlashMs int `toml:"dish_flash_ms" json:"dish_flash_ms"`
	// LocalesDir optionally points at JSON translation overrides.
	LocalesDir string `toml:"locales_dir" json:"locales_dir"`
}

// LogConfig controls the log file written during TUI sessions.
type LogConfig struct {
	Level string `toml:"level" json:"level"`
	File  string `toml:"file" json:"file"`
}

// Storage backends.
const (
	BackendSQLite = "sqlite"
	BackendFile   = "file"
	BackendRedis  = "redis"
	BackendMemory = "memory"
)

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		API: APIConfig{
			BaseURL:     "http://localhost:8000",
			TimeoutSecs: 30,
			RateLimit:   0,
			RateBurst:   1,
		},
		Storage: StorageConfig{
			Backend: BackendSQLite,
		},
		UI: UIConfig{
			Currency:     "EUR",
			AddedFlashMs: 1500,
			DishFlashMs:  2000,
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

// Timeout returns the non-streaming request timeout.
func (c *Config) Timeout() time.Duration {
	return time.Duration(c.API.TimeoutSecs) * time.Second
}

// AddedFlash returns the menu-item "added" duration.
func (c *Config) AddedFlash() time.Duration {
	return time.Duration(c.UI.AddedFlashMs) * time.Millisecond
}

// DishFlash returns the chat dish-chip "added" duration.
func (c *Config) DishFlash() time.Duration {
	return time.Duration(c.UI.DishFlashMs) * time.Millisecond
}

// StoragePath returns the configured store path, or the per-backend default
// inside the config directory.
func (c *Config) StoragePath() string {
	if c.Storage.Path != "" {
		return expandHome(c.Storage.Path)
	}
	dir, err := Dir()
	if err != nil {
		dir = "."
	}
	if c.Storage.Backend == BackendFile {
		return filepath.Join(dir, "state.json")
	}
	return filepath.Join(dir, "state.db")
}

// LogPath returns the log file path.
func (c *Config) LogPath() string {
	if c.Log.File != "" {
		return expandHome(c.Log.File)
	}
	dir, err := Dir()
	if err != nil {
		dir = "."
	}
	return filepath.Join(dir, "easyq.log")
}

// =============================================================================
// CONFIG PATH HELPERS
// =============================================================================

// Dir returns the easyq configuration directory.
func Dir() (string, error) {
	if home := os.Getenv("EASYQ_HOME"); home != "" {
		return expandHome(home), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("could not determine home directory: %w", err)
	}
	return filepath.Join(home, ".easyq"), nil
}

// Path returns the default config file path.
func Path() (string, error) {
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.toml"), nil
}

func expandHome(p string) string {
	if p == "~" || strings.HasPrefix(p, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, strings.TrimPrefix(p, "~"))
		}
	}
	return p
}

// =============================================================================
// LOAD FUNCTIONS
// =============================================================================

// LoadDotEnv seeds the environment from ./.env and <config dir>/.env when
// they exist. Variables already set in the environment win.
func LoadDotEnv() error {
	var files []string
	if _, err := os.Stat(".env"); err == nil {
		files = append(files, ".env")
	}
	if dir, err := Dir(); err == nil {
		p := filepath.Join(dir, ".env")
		if _, err := os.Stat(p); err == nil {
			files = append(files, p)
		}
	}
	if len(files) == 0 {
		return nil
	}
	if err := godotenv.Load(files...); err != nil {
		return fmt.Errorf("failed to load .env: %w", err)
	}
	return nil
}

// Load reads the config file at path (the default path when empty),
// applies environment overrides, fills defaults and validates.
// A missing file is not an error.
func Load(path string) (*Config, error) {
	if path == "" {
		p, err := Path()
		if err != nil {
			return nil, err
		}
		path = p
	}

	cfg := Default()
	if _, err := os.Stat(path); err == nil {
		if _, err := toml.DecodeFile(path, cfg); err != nil {
			return nil, fmt.Errorf("failed to decode %s: %w", path, err)
		}
	} else if !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("failed to stat %s: %w", path, err)
	}

	if err := cfg.ApplyEnvOverrides(); err != nil {
		return nil, err
	}
	cfg.fillDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// fillDefaults fills zero values that have no meaningful zero.
func (c *Config) fillDefaults() {
	d := Default()
	if c.API.BaseURL == "" {
		c.API.BaseURL = d.API.BaseURL
	}
	c.API.BaseURL = strings.TrimSuffix(c.API.BaseURL, "/")
	if c.API.TimeoutSecs == 0 {
		c.API.TimeoutSecs = d.API.TimeoutSecs
	}
	if c.API.RateBurst <= 0 {
		c.API.RateBurst = d.API.RateBurst
	}
	if c.Storage.Backend == "" {
		c.Storage.Backend = d.Storage.Backend
	}
	c.Storage.Backend = strings.ToLower(c.Storage.Backend)
	if c.UI.Currency == "" {
		c.UI.Currency = d.UI.Currency
	}
	if c.UI.AddedFlashMs == 0 {
		c.UI.AddedFlashMs = d.UI.AddedFlashMs
	}
	if c.UI.DishFlashMs == 0 {
		c.UI.DishFlashMs = d.UI.DishFlashMs
	}
	c.UI.Language = strings.ToLower(strings.TrimSpace(c.UI.Language))
	if c.Log.Level == "" {
		c.Log.Level = d.Log.Level
	}
}

// envOverrides lists the EASYQ_* variables understood by ApplyEnvOverrides.
// Names come from split_words (ApiURL -> EASYQ_API_URL); explicit envconfig
// tags are avoided because they fall back to the unprefixed name, and an
// unprefixed LANG is the POSIX locale.
type envOverrides struct {
	ApiURL      string `split_words:"true"`
	Lang        string
	Storage     string
	StoragePath string `split_words:"true"`
	RedisURL    string `split_words:"true"`
	LogLevel    string `split_words:"true"`
	LogFile     string `split_words:"true"`
}

// ApplyEnvOverrides overlays EASYQ_* environment variables onto c.
func (c *Config) ApplyEnvOverrides() error {
	var env envOverrides
	if err := envconfig.Process("easyq", &env); err != nil {
		return fmt.Errorf("failed to read EASYQ_* environment: %w", err)
	}
	if env.ApiURL != "" {
		c.API.BaseURL = env.ApiURL
	}
	if env.Lang != "" {
		c.UI.Language = env.Lang
	}
	if env.Storage != "" {
		c.Storage.Backend = env.Storage
	}
	if env.StoragePath != "" {
		c.Storage.Path = env.StoragePath
	}
	if env.RedisURL != "" {
		c.Storage.RedisURL = env.RedisURL
	}
	if env.LogLevel != "" {
		c.Log.Level = env.LogLevel
	}
	if env.LogFile != "" {
		c.Log.File = env.LogFile
	}
	return nil
}

// =============================================================================
// SAVE FUNCTIONS
// =============================================================================

// Save writes the configuration as TOML to path (the default path when
// empty).
func Save(cfg *Config, path string) error {
	if path == "" {
		p, err := Path()
		if err != nil {
			return err
		}
		path = p
	}

	var buf bytes.Buffer
	buf.WriteString("# easyq configuration file\n")
	buf.WriteString("# Generated by easyq - edit with care\n\n")
	if err := toml.NewEncoder(&buf).Encode(cfg); err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}

	if err := util.AtomicWriteFile(path, buf.Bytes(), 0o600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// =============================================================================
// VALIDATION
// =============================================================================

// ValidationError represents a configuration validation error.
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidateErrors is a collection of validation errors.
type ValidateErrors []ValidationError

func (e ValidateErrors) Error() string {
	if len(e) == 0 {
		return "no validation errors"
	}
	msgs := make([]string, 0, len(e))
	for _, err := range e {
		msgs = append(msgs, err.Error())
	}
	return strings.Join(msgs, "; ")
}

// SupportedLanguages are the languages the client ships translations for.
var SupportedLanguages = []string{"en", "fr", "es"}

var validLevels = map[string]bool{"debug": true, "info": true, "warn": true, "warning": true, "error": true, "off": true}

// Validate checks the configuration and returns ValidateErrors on failure.
func (c *Config) Validate() error {
	var errs ValidateErrors

	u, err := url.Parse(c.API.BaseURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		errs = append(errs, ValidationError{
			Field:   "api.base_url",
			Message: fmt.Sprintf("must be an absolute http(s) URL, got %q", c.API.BaseURL),
		})
	}
	if c.API.TimeoutSecs < 0 {
		errs = append(errs, ValidationError{Field: "api.timeout_secs", Message: "must not be negative"})
	}
	if c.API.RateLimit < 0 {
		errs = append(errs, ValidationError{Field: "api.rate_limit", Message: "must not be negative"})
	}

	switch c.Storage.Backend {
	case BackendSQLite, BackendFile, BackendMemory:
	case BackendRedis:
		if c.Storage.RedisURL == "" {
			errs = append(errs, ValidationError{Field: "storage.redis_url", Message: "required when backend is redis"})
		}
	default:
		errs = append(errs, ValidationError{
			Field:   "storage.backend",
			Message: fmt.Sprintf("invalid backend '%s', must be one of: sqlite, file, redis, memory", c.Storage.Backend),
		})
	}

	if c.UI.Language != "" && !isSupported(c.UI.Language) {
		errs = append(errs, ValidationError{
			Field:   "ui.language",
			Message: fmt.Sprintf("unsupported language '%s', must be one of: %s", c.UI.Language, strings.Join(SupportedLanguages, ", ")),
		})
	}
	if c.UI.AddedFlashMs < 0 || c.UI.DishFlashMs < 0 {
		errs = append(errs, ValidationError{Field: "ui", Message: "flash durations must not be negative"})
	}
	if !validLevels[strings.ToLower(c.Log.Level)] {
		errs = append(errs, ValidationError{
			Field:   "log.level",
			Message: fmt.Sprintf("invalid level '%s'", c.Log.Level),
		})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

func isSupported(lang string) bool {
	for _, l := range SupportedLanguages {
		if l == lang {
			return true
		}
	}
	return false
}

// =============================================================================
// GET/SET HELPERS (DOT NOTATION)
// =============================================================================

// Get retrieves a configuration value using dot notation (e.g. "ui.language").
func (c *Config) Get(key string) (interface{}, error) {
	field, err := c.lookup(key)
	if err != nil {
		return nil, err
	}
	return field.Interface(), nil
}

// Set sets a configuration value using dot notation. String values are
// converted to the field's type.
func (c *Config) Set(key string, value string) error {
	field, err := c.lookup(key)
	if err != nil {
		return err
	}
	if !field.CanSet() {
		return fmt.Errorf("cannot set field: %s", key)
	}
	return setFieldValue(field, value)
}

func (c *Config) lookup(key string) (reflect.Value, error) {
	parts := strings.Split(key, ".")
	if key == "" || len(parts) != 2 {
		return reflect.Value{}, fmt.Errorf("invalid key %q, expected section.name", key)
	}

	v := reflect.ValueOf(c).Elem()
	for i, part := range parts {
		field, ok := fieldByTag(v, part)
		if !ok {
			return reflect.Value{}, fmt.Errorf("unknown field: %s", strings.Join(parts[:i+1], "."))
		}
		if i == len(parts)-1 {
			return field, nil
		}
		if field.Kind() != reflect.Struct {
			return reflect.Value{}, fmt.Errorf("field '%s' is not a section", part)
		}
		v = field
	}
	return reflect.Value{}, fmt.Errorf("invalid key: %s", key)
}

// fieldByTag finds a struct field by its toml tag name.
func fieldByTag(v reflect.Value, name string) (reflect.Value, bool) {
	t := v.Type()
	for i := 0; i < t.NumField(); i++ {
		if t.Field(i).Tag.Get("toml") == name {
			return v.Field(i), true
		}
	}
	return reflect.Value{}, false
}

func setFieldValue(field reflect.Value, value string) error {
	switch field.Kind() {
	case reflect.String:
		field.SetString(value)
	case reflect.Int, reflect.Int64:
		n, err := strconv.ParseInt(value, 10, 64)
		if err != nil {
			return fmt.Errorf("invalid integer value: %w", err)
		}
		field.SetInt(n)
	case reflect.Float64:
		f, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return fmt.Errorf("invalid float value: %w", err)
		}
		field.SetFloat(f)
	case reflect.Bool:
		b, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("invalid boolean value: %w", err)
		}
		field.SetBool(b)
	default:
		return fmt.Errorf("cannot assign to %s", field.Type())
	}
	return nil
}

// Keys returns all configuration keys in dot notation, sorted.
func Keys() []string {
	var keys []string
	t := reflect.TypeOf(Config{})
	for i := 0; i < t.NumField(); i++ {
		section := t.Field(i)
		for j := 0; j < section.Type.NumField(); j++ {
			keys = append(keys, section.Tag.Get("toml")+"."+section.Type.Field(j).Tag.Get("toml"))
		}
	}
	sort.Strings(keys)
	return keys
}
