// Package config loads editor settings from a TOML file.
//
// Every setting has a default, so a missing file or a file naming only a
// few keys is valid. Unknown keys are rejected to catch typos.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"time"

	"github.com/pelletier/go-toml/v2"

	"github.com/dshills/inkwell/internal/logging"
	"github.com/dshills/inkwell/internal/project/vfs"
)

// Config holds every editor setting.
type Config struct {
	Editor    EditorConfig    `toml:"editor"`
	History   HistoryConfig   `toml:"history"`
	Log       LogConfig       `toml:"log"`
	Languages LanguagesConfig `toml:"languages"`
	Watch     WatchConfig     `toml:"watch"`
}

// EditorConfig configures views.
type EditorConfig struct {
	// SelectionGap is the number of lines kept between the last selection
	// and the top or bottom of the viewport.
	SelectionGap int `toml:"selection_gap"`
	// HorizontalGap is the number of display columns kept between the last
	// selection and the left or right edge.
	HorizontalGap int `toml:"horizontal_gap"`
	// PreserveLines keeps the trailing newline of a selection when typing
	// over it.
	PreserveLines bool `toml:"preserve_lines"`
	// ViewportRows and ViewportColumns size headless views; 0 means
	// unbounded.
	ViewportRows    int `toml:"viewport_rows"`
	ViewportColumns int `toml:"viewport_columns"`
}

// HistoryConfig configures undo grouping.
type HistoryConfig struct {
	// CombineWindow is how close together two edits must be to undo as one.
	CombineWindow Duration `toml:"combine_window"`
}

// LogConfig configures the logger.
type LogConfig struct {
	Level string `toml:"level"`
	// File is the log destination; empty means stderr.
	File string `toml:"file"`
}

// LanguagesConfig configures tokenization.
type LanguagesConfig struct {
	// File is a YAML file of extra language definitions.
	File string `toml:"file"`
}

// WatchConfig configures reloading files changed by other programs.
type WatchConfig struct {
	Enabled  bool     `toml:"enabled"`
	Debounce Duration `toml:"debounce"`
}

// Duration is a time.Duration written as a string such as "500ms".
type Duration time.Duration

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	*d = Duration(v)
	return nil
}

// MarshalText implements encoding.TextMarshaler.
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(time.Duration(d).String()), nil
}

// Std returns d as a time.Duration.
func (d Duration) Std() time.Duration {
	return time.Duration(d)
}

// Default returns the built-in settings.
func Default() *Config {
	return &Config{
		Editor: EditorConfig{
			SelectionGap:  4,
			HorizontalGap: 8,
		},
		History: HistoryConfig{
			CombineWindow: Duration(500 * time.Millisecond),
		},
		Log: LogConfig{
			Level: "info",
		},
		Watch: WatchConfig{
			Enabled:  true,
			Debounce: Duration(100 * time.Millisecond),
		},
	}
}

// Load reads path through files. A missing file yields the defaults.
func Load(files vfs.VFS, path string) (*Config, error) {
	data, err := files.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return Default(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading config file %s: %w", path, err)
	}
	return Parse(path, data)
}

// Parse decodes TOML data over the defaults and validates the result.
// source names the data in errors.
func Parse(source string, data []byte) (*Config, error) {
	cfg := Default()
	dec := toml.NewDecoder(bytes.NewReader(data)).DisallowUnknownFields()
	if err := dec.Decode(cfg); err != nil {
		return nil, newParseError(source, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks every setting's range.
func (c *Config) Validate() error {
	var errs []error
	check := func(ok bool, key string, value any, msg string) {
		if !ok {
			errs = append(errs, &ValidationError{Key: key, Value: value, Message: msg})
		}
	}

	check(c.Editor.SelectionGap >= 0, "editor.selection_gap", c.Editor.SelectionGap, "must not be negative")
	check(c.Editor.HorizontalGap >= 0, "editor.horizontal_gap", c.Editor.HorizontalGap, "must not be negative")
	check(c.Editor.ViewportRows >= 0, "editor.viewport_rows", c.Editor.ViewportRows, "must not be negative")
	check(c.Editor.ViewportColumns >= 0, "editor.viewport_columns", c.Editor.ViewportColumns, "must not be negative")
	check(c.History.CombineWindow >= 0, "history.combine_window", c.History.CombineWindow.Std(), "must not be negative")
	check(c.Watch.Debounce >= 0, "watch.debounce", c.Watch.Debounce.Std(), "must not be negative")
	_, err := logging.ParseLevel(c.Log.Level)
	check(err == nil, "log.level", c.Log.Level, "must be debug, info, warn or error")

	return errors.Join(errs...)
}

// LogLevel returns the parsed log level.
func (c *Config) LogLevel() logging.Level {
	level, _ := logging.ParseLevel(c.Log.Level)
	return level
}

// Marshal encodes c as TOML.
func (c *Config) Marshal() ([]byte, error) {
	return toml.Marshal(c)
}
