// Package config handles configuration loading for the hex map tools.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"runtime"

	"gopkg.in/yaml.v3"

	"github.com/ironsheep/hexmap-tools/internal/hexgrid"
	"github.com/ironsheep/hexmap-tools/internal/imaging"
	"github.com/ironsheep/hexmap-tools/internal/tiles"
)

// Config represents the splitter configuration.
type Config struct {
	// ExpectedTiles is the approximate number of tiles on the map. It sizes
	// the grid when the edge signal is too weak to measure.
	ExpectedTiles int `yaml:"expected_tiles"`

	// Rows, Cols and VertSpacing override the detected grid when set.
	Rows        *int     `yaml:"rows,omitempty"`
	Cols        *int     `yaml:"cols,omitempty"`
	VertSpacing *float64 `yaml:"vert_spacing,omitempty"`

	InvertOffset bool `yaml:"invert_offset"`

	Margin     int    `yaml:"margin"`
	Workers    int    `yaml:"workers"`
	OutputDir  string `yaml:"output_dir"`
	TileFormat string `yaml:"tile_format"`

	Debug    bool   `yaml:"debug"`
	DebugDir string `yaml:"debug_dir"`

	Edges imaging.EdgeOptions `yaml:"edges"`
}

// Load reads configuration from a YAML file. A missing file yields the
// default configuration.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return DefaultConfig(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}
	return Parse(data)
}

// Parse decodes YAML configuration. Keys that are absent keep their
// default values.
func Parse(data []byte) (*Config, error) {
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	applyDefaults(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		ExpectedTiles: hexgrid.DefaultExpectedTiles,
		Margin:        tiles.DefaultMargin,
		Workers:       runtime.NumCPU(),
		OutputDir:     "hex_tiles",
		TileFormat:    tiles.DefaultFormat,
		DebugDir:      "debug_images",
		Edges:         imaging.DefaultEdgeOptions(),
	}
}

func applyDefaults(cfg *Config) {
	defaults := DefaultConfig()

	if cfg.Workers <= 0 {
		cfg.Workers = defaults.Workers
	}
	if cfg.OutputDir == "" {
		cfg.OutputDir = defaults.OutputDir
	}
	if cfg.TileFormat == "" {
		cfg.TileFormat = defaults.TileFormat
	}
	if cfg.DebugDir == "" {
		cfg.DebugDir = defaults.DebugDir
	}
}

// Validate rejects values no run could use.
func (c *Config) Validate() error {
	if c.ExpectedTiles < 1 {
		return fmt.Errorf("expected_tiles must be >= 1, got %d", c.ExpectedTiles)
	}
	if c.Margin < 0 {
		return fmt.Errorf("margin must be >= 0, got %d", c.Margin)
	}
	if c.Rows != nil && *c.Rows < 1 {
		return fmt.Errorf("rows must be >= 1, got %d", *c.Rows)
	}
	if c.Cols != nil && *c.Cols < 1 {
		return fmt.Errorf("cols must be >= 1, got %d", *c.Cols)
	}
	if c.VertSpacing != nil && !(*c.VertSpacing > 0) {
		return fmt.Errorf("vert_spacing must be > 0, got %g", *c.VertSpacing)
	}
	if _, err := tiles.ParseFormat(c.TileFormat); err != nil {
		return err
	}
	return nil
}

// Overrides collects the grid overrides set in c.
func (c *Config) Overrides() hexgrid.Overrides {
	return hexgrid.Overrides{Rows: c.Rows, Cols: c.Cols, SpacingY: c.VertSpacing}
}

// OffsetMode maps InvertOffset to an offset mode.
func (c *Config) OffsetMode() hexgrid.OffsetMode {
	return hexgrid.OffsetModeFor(c.InvertOffset)
}
