package config

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/pelletier/go-toml/v2"

	"github.com/dshills/quill/internal/config/loader"
	"github.com/dshills/quill/internal/editor"
	"github.com/dshills/quill/internal/input"
	"github.com/dshills/quill/internal/renderer/gutter"
	"github.com/dshills/quill/internal/renderer/highlight"
)

// Environment variables read outside the QUILL_* setting namespace.
const (
	EnvPrefix     = loader.DefaultPrefix
	EnvConfigPath = loader.DefaultPrefix + "CONFIG"
)

// Config is the complete editor configuration.
type Config struct {
	Editor    EditorConfig      `toml:"editor"`
	Highlight HighlightConfig   `toml:"highlight"`
	History   HistoryConfig     `toml:"history"`
	Log       LogConfig         `toml:"log"`
	Keys      map[string]string `toml:"keys"`
}

// EditorConfig holds layout and cursor settings.
type EditorConfig struct {
	TabWidth     int    `toml:"tab_width"`
	Wrap         bool   `toml:"wrap"`
	ScrollMargin int    `toml:"scroll_margin"`
	LineNumbers  string `toml:"line_numbers"`
	CursorStyle  string `toml:"cursor_style"`
}

// HighlightConfig selects the syntax highlighting backend and colors.
type HighlightConfig struct {
	Enabled bool `toml:"enabled"`
	// Preference is "auto", "tree-sitter" or "textmate".
	Preference   string `toml:"preference"`
	Theme        string `toml:"theme"`
	ContextBytes int    `toml:"context_bytes"`
}

// HistoryConfig bounds the undo history.
type HistoryConfig struct {
	// MaxEntries is the undo depth; zero keeps the engine default.
	MaxEntries int `toml:"max_entries"`
}

// LogConfig configures the log file. Nothing is logged without a file, since
// the terminal belongs to the editor.
type LogConfig struct {
	File  string `toml:"file"`
	Level string `toml:"level"`
}

// Cursor styles accepted by editor.cursor_style.
var cursorStyles = []string{"bar", "block", "underline"}

var logLevels = []string{"debug", "info", "warn", "error"}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Editor: EditorConfig{
			TabWidth:     4,
			Wrap:         true,
			ScrollMargin: 0,
			LineNumbers:  "absolute",
			CursorStyle:  "bar",
		},
		Highlight: HighlightConfig{
			Enabled:      true,
			Preference:   "auto",
			Theme:        highlight.DefaultThemeName,
			ContextBytes: highlight.DefaultContextBytes,
		},
		History: HistoryConfig{MaxEntries: 1000},
		Log:     LogConfig{Level: "info"},
		Keys:    map[string]string{},
	}
}

// DefaultPath returns $QUILL_CONFIG, or config.toml in the user's quill
// config directory. It returns "" when neither can be determined.
func DefaultPath() string {
	if p := os.Getenv(EnvConfigPath); p != "" {
		return p
	}
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, "quill", "config.toml")
}

// Load reads the file at path over the defaults, then applies QUILL_*
// environment overrides and validates the result. A missing file is not an
// error.
func Load(path string) (*Config, error) {
	return LoadWith(loader.NewTOMLLoader(path), loader.NewEnvLoader(EnvPrefix))
}

// LoadWith merges the layers produced by loaders, lowest priority first,
// over the defaults.
func LoadWith(loaders ...loader.Loader) (*Config, error) {
	var merged map[string]any
	for _, l := range loaders {
		layer, err := l.Load()
		if err != nil {
			return nil, err
		}
		merged = loader.DeepMerge(merged, layer)
	}

	cfg := Default()
	if len(merged) > 0 {
		if err := decode(merged, cfg); err != nil {
			return nil, err
		}
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Parse decodes TOML data over the defaults and validates the result.
func Parse(data []byte) (*Config, error) {
	m, err := loader.Parse("<config>", data)
	if err != nil {
		return nil, err
	}
	cfg := Default()
	if err := decode(m, cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// decode re-encodes the merged layers and decodes them into cfg, so fields
// absent from every layer keep their defaults.
func decode(m map[string]any, cfg *Config) error {
	data, err := toml.Marshal(m)
	if err != nil {
		return fmt.Errorf("encode merged config: %w", err)
	}
	if err := toml.NewDecoder(bytes.NewReader(data)).Decode(cfg); err != nil {
		return fmt.Errorf("decode config: %w", err)
	}
	return nil
}

// Validate checks every setting and reports all problems at once.
func (c *Config) Validate() error {
	var errs []error
	invalid := func(path, msg string, value any) {
		errs = append(errs, &ValidationError{Path: path, Message: msg, Value: value})
	}

	if c.Editor.TabWidth < 1 || c.Editor.TabWidth > 16 {
		invalid("editor.tab_width", "must be between 1 and 16", c.Editor.TabWidth)
	}
	if c.Editor.ScrollMargin < 0 {
		invalid("editor.scroll_margin", "must not be negative", c.Editor.ScrollMargin)
	}
	if _, err := gutter.ParseMode(c.Editor.LineNumbers); err != nil {
		invalid("editor.line_numbers", "must be absolute, relative or hybrid", c.Editor.LineNumbers)
	}
	if !slices.Contains(cursorStyles, strings.ToLower(c.Editor.CursorStyle)) {
		invalid("editor.cursor_style", "must be one of "+strings.Join(cursorStyles, ", "), c.Editor.CursorStyle)
	}

	if _, err := highlight.ParsePreference(c.Highlight.Preference); err != nil {
		invalid("highlight.preference", "must be auto, tree-sitter or textmate", c.Highlight.Preference)
	}
	if !slices.Contains(highlight.Names(), c.Highlight.Theme) {
		invalid("highlight.theme", "unknown theme", c.Highlight.Theme)
	}
	if c.Highlight.ContextBytes < 0 {
		invalid("highlight.context_bytes", "must not be negative", c.Highlight.ContextBytes)
	}

	if c.History.MaxEntries < 0 {
		invalid("history.max_entries", "must not be negative", c.History.MaxEntries)
	}

	if !slices.Contains(logLevels, strings.ToLower(c.Log.Level)) {
		invalid("log.level", "must be one of "+strings.Join(logLevels, ", "), c.Log.Level)
	}

	commands := editor.Commands()
	for spec, name := range c.Keys {
		if _, err := input.NormalizeSpec(spec); err != nil {
			invalid("keys", err.Error(), spec)
		}
		if name != "none" && !slices.Contains(commands, name) {
			invalid("keys."+spec, "unknown command", name)
		}
	}

	return errors.Join(errs...)
}

// Clone returns a deep copy of c.
func (c *Config) Clone() *Config {
	out := *c
	out.Keys = make(map[string]string, len(c.Keys))
	for k, v := range c.Keys {
		out.Keys[k] = v
	}
	return &out
}
