// Package config loads the host's TOML configuration.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"regexp"
	"strconv"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/pelletier/go-toml/v2"

	"github.com/mumtazka/skpgrid/grid"
)

// ErrInvalidConfig wraps every parse and validation failure.
var ErrInvalidConfig = errors.New("invalid config")

// Duration is a time.Duration written as "300ms" or "1s".
type Duration time.Duration

func (d Duration) MarshalText() ([]byte, error) {
	return []byte(time.Duration(d).String()), nil
}

func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	*d = Duration(v)
	return nil
}

type Config struct {
	Debounce       Duration `toml:"debounce"`
	ShowRowNumbers bool     `toml:"show_row_numbers"`
	ReadOnly       bool     `toml:"read_only"`
	DBPath         string   `toml:"db_path"`
	LogFile        string   `toml:"log_file"` // empty disables logging
	LogLevel       string   `toml:"log_level"`
	HistoryLimit   int      `toml:"history_limit"`
	Style          Style    `toml:"style"`
}

// Style holds colours as "#rrggbb" or an ANSI 256 index.
type Style struct {
	Accent    string `toml:"accent"`
	Rule      string `toml:"rule"`
	RowNumber string `toml:"row_number"`
	Selected  string `toml:"selected"`
}

func Default() Config {
	return Config{
		Debounce:       Duration(grid.DefaultDebounce),
		ShowRowNumbers: true,
		DBPath:         "skpgrid.db",
		LogLevel:       "info",
		HistoryLimit:   100,
		Style: Style{
			Accent:    "39",
			Rule:      "240",
			RowNumber: "250",
			Selected:  "237",
		},
	}
}

// Load reads the file at path over the defaults. A missing file yields the
// defaults.
func Load(path string) (Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return cfg, fmt.Errorf("reading config file %s: %w", path, err)
	}
	return Parse(data)
}

// Parse decodes TOML over the defaults and validates the result.
func Parse(data []byte) (Config, error) {
	cfg := Default()
	if err := toml.Unmarshal(data, &cfg); err != nil {
		var de *toml.DecodeError
		if errors.As(err, &de) {
			row, col := de.Position()
			return cfg, fmt.Errorf("%w: line %d column %d: %s", ErrInvalidConfig, row, col, de.Error())
		}
		return cfg, fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

var hexColor = regexp.MustCompile(`^#[0-9a-fA-F]{6}$`)

func validColor(s string) bool {
	if hexColor.MatchString(s) {
		return true
	}
	n, err := strconv.Atoi(s)
	return err == nil && n >= 0 && n <= 255
}

// Validate reports every invalid field.
func (c Config) Validate() error {
	var errs []error
	bad := func(format string, args ...any) {
		errs = append(errs, fmt.Errorf("%w: "+format, append([]any{ErrInvalidConfig}, args...)...))
	}
	if c.Debounce <= 0 {
		bad("debounce must be positive, got %s", time.Duration(c.Debounce))
	}
	if c.HistoryLimit < 1 {
		bad("history_limit must be at least 1, got %d", c.HistoryLimit)
	}
	if c.DBPath == "" {
		bad("db_path is empty")
	}
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(c.LogLevel)); err != nil {
		bad("log_level %q", c.LogLevel)
	}
	for name, v := range map[string]string{
		"accent":     c.Style.Accent,
		"rule":       c.Style.Rule,
		"row_number": c.Style.RowNumber,
		"selected":   c.Style.Selected,
	} {
		if !validColor(v) {
			bad("style.%s %q is not a colour", name, v)
		}
	}
	return errors.Join(errs...)
}

// SlogLevel returns the configured level, or info when it does not parse.
func (c Config) SlogLevel() slog.Level {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return slog.LevelInfo
	}
	return lvl
}

// GridStyle applies the configured colours to the grid's default style.
func (c Config) GridStyle() grid.Style {
	st := grid.DefaultStyle()
	accent := lipgloss.Color(c.Style.Accent)
	rule := lipgloss.Color(c.Style.Rule)
	st.HeaderActive = st.HeaderActive.Foreground(accent)
	st.ResizeHandle = st.ResizeHandle.Foreground(accent)
	st.Rule = st.Rule.Foreground(rule)
	st.SubRowNumber = st.SubRowNumber.Foreground(rule)
	st.Action = st.Action.Foreground(rule)
	st.Menu = st.Menu.BorderForeground(rule)
	st.RowNumber = st.RowNumber.Foreground(lipgloss.Color(c.Style.RowNumber))
	st.Selected = st.Selected.Background(lipgloss.Color(c.Style.Selected))
	return st
}
