// Package config provides TOML and YAML configuration for fingrid.
package config

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"gitlab.com/tinyland/lab/fingrid/pkg/grid"
)

// Config is the top-level configuration.
type Config struct {
	General GeneralConfig       `toml:"general" yaml:"general"`
	Grid    GridConfig          `toml:"grid" yaml:"grid"`
	Data    DataConfig          `toml:"data" yaml:"data"`
	Server  ServerConfig        `toml:"server" yaml:"server"`
	Theme   ThemeConfig         `toml:"theme" yaml:"theme"`
	Columns []grid.ColumnConfig `toml:"columns" yaml:"columns"`
}

type GeneralConfig struct {
	// LogLevel is one of debug, info, warn, error.
	LogLevel string `toml:"log_level" yaml:"log_level"`
}

// GridConfig maps onto grid.Options.
type GridConfig struct {
	Selectable        bool     `toml:"selectable" yaml:"selectable"`
	VirtualScrolling  bool     `toml:"virtual_scrolling" yaml:"virtual_scrolling"`
	Threshold         int      `toml:"threshold" yaml:"threshold"`
	PageSize          int      `toml:"page_size" yaml:"page_size"`
	FrozenColumnCount int      `toml:"frozen_column_count" yaml:"frozen_column_count"`
	RowHeight         int      `toml:"row_height" yaml:"row_height"`
	Overscan          int      `toml:"overscan" yaml:"overscan"`
	ViewportHeight    int      `toml:"viewport_height" yaml:"viewport_height"`
	FrameInterval     Duration `toml:"frame_interval" yaml:"frame_interval"`
	// Preset names the initial set of visible columns.
	Preset string `toml:"preset" yaml:"preset"`
}

type DataConfig struct {
	// Source is a JSON dataset path. Empty uses generated report rows.
	Source string `toml:"source" yaml:"source"`
	Rows   int    `toml:"rows" yaml:"rows"`
	Seed   uint64 `toml:"seed" yaml:"seed"`
}

type ServerConfig struct {
	Listen string `toml:"listen" yaml:"listen"`
}

type ThemeConfig struct {
	Name string `toml:"name" yaml:"name"`
	// File optionally points at a TOML palette that overrides Name.
	File string `toml:"file" yaml:"file"`
}

// Options converts the grid section into engine options. columns is used
// when the config does not define its own.
func (c *Config) Options(columns []grid.ColumnConfig) grid.Options {
	if len(c.Columns) > 0 {
		columns = c.Columns
	}
	return grid.Options{
		Columns:           columns,
		Selectable:        c.Grid.Selectable,
		VirtualScrolling:  c.Grid.VirtualScrolling,
		Threshold:         c.Grid.Threshold,
		PageSize:          c.Grid.PageSize,
		FrozenColumnCount: c.Grid.FrozenColumnCount,
		RowHeight:         c.Grid.RowHeight,
		Overscan:          c.Grid.Overscan,
		FrameInterval:     c.Grid.FrameInterval.Duration,
	}
}

// Level returns the slog level for General.LogLevel.
func (c *Config) Level() slog.Level {
	switch strings.ToLower(c.General.LogLevel) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// Validate reports the first invalid setting.
func (c *Config) Validate() error {
	switch strings.ToLower(c.General.LogLevel) {
	case "", "debug", "info", "warn", "warning", "error":
	default:
		return fmt.Errorf("config: general.log_level: unknown level %q", c.General.LogLevel)
	}
	g := c.Grid
	if g.Threshold < 0 || g.PageSize < 0 || g.Overscan < 0 || g.FrozenColumnCount < 0 {
		return fmt.Errorf("config: grid: threshold, page_size, overscan and frozen_column_count must not be negative")
	}
	if g.RowHeight <= 0 {
		return fmt.Errorf("config: grid.row_height: must be positive, got %d", g.RowHeight)
	}
	if g.FrameInterval.Duration > time.Second {
		return fmt.Errorf("config: grid.frame_interval: %s is longer than a second", g.FrameInterval)
	}
	if g.Preset != "" && !KnownPreset(g.Preset) {
		return fmt.Errorf("config: grid.preset: unknown preset %q", g.Preset)
	}
	if c.Data.Rows < 0 {
		return fmt.Errorf("config: data.rows: must not be negative, got %d", c.Data.Rows)
	}
	if len(c.Columns) > 0 {
		if err := grid.ValidateColumns(c.Columns); err != nil {
			return fmt.Errorf("config: columns: %w", err)
		}
		if g.FrozenColumnCount > len(c.Columns) {
			return fmt.Errorf("config: grid.frozen_column_count %d exceeds %d columns", g.FrozenColumnCount, len(c.Columns))
		}
	}
	return nil
}
