// Package config provides configuration loading and management for zircondims.
// It handles loading configuration from YAML files and provides default values.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"zircon-dims/internal/mosaic"
	"zircon-dims/internal/segment"
)

// Config represents the application configuration loaded from YAML
type Config struct {
	// Scanlist to mosaic matching
	Match struct {
		// MaxOutOfBounds is the shot tolerance used by batch matching
		MaxOutOfBounds int `yaml:"maxOutOfBounds"`

		// PairwiseMaxOutOfBounds is the tolerance for single scanlist checks
		PairwiseMaxOutOfBounds int `yaml:"pairwiseMaxOutOfBounds"`

		ScanExt  string `yaml:"scanExt"`
		AlignExt string `yaml:"alignExt"`
		ImageExt string `yaml:"imageExt"`
	} `yaml:"match"`

	// Defaults for the generated mosaic info table
	Info struct {
		Sample        string  `yaml:"sample"`
		MaxZirconSize float64 `yaml:"maxZirconSize"`
		XOffset       float64 `yaml:"xOffset"`
		YOffset       float64 `yaml:"yOffset"`
	} `yaml:"info"`

	// Segmentation cascade
	Segment struct {
		// SubImageSize is the edge length in pixels of the extracted spot window
		SubImageSize int `yaml:"subImageSize"`

		// Strategies is an explicit cascade order, e.g. [baseline, otsu]. When
		// set it replaces the four flags below.
		Strategies []string `yaml:"strategies,omitempty"`

		ZoomOut  bool `yaml:"zoomOut"`
		ZoomIn   bool `yaml:"zoomIn"`
		Contrast bool `yaml:"contrast"`
		Otsu     bool `yaml:"otsu"`

		ZoomOutFactor float64 `yaml:"zoomOutFactor"`
		ZoomInFactor  float64 `yaml:"zoomInFactor"`

		// MinRegionPixels drops Otsu regions this small or smaller
		MinRegionPixels int `yaml:"minRegionPixels"`
		CloseKernelSize int `yaml:"closeKernelSize"`
	} `yaml:"segment"`

	Log struct {
		// Level is one of debug, info, warn, error
		Level string `yaml:"level"`
		// Format is console, json or auto
		Format string `yaml:"format"`
	} `yaml:"log"`
}

// DefaultConfig returns a configuration with default values
func DefaultConfig() *Config {
	cfg := &Config{}

	match := mosaic.DefaultMatchParams()
	cfg.Match.MaxOutOfBounds = match.MaxOutOfBounds
	cfg.Match.PairwiseMaxOutOfBounds = mosaic.DefaultPairwiseMaxOutOfBounds
	cfg.Match.ScanExt = match.ScanExt
	cfg.Match.AlignExt = match.AlignExt
	cfg.Match.ImageExt = match.ImageExt

	info := mosaic.DefaultInfoDefaults()
	cfg.Info.Sample = info.Sample
	cfg.Info.MaxZirconSize = info.MaxZirconSize
	cfg.Info.XOffset = info.XOffset
	cfg.Info.YOffset = info.YOffset

	seg := segment.DefaultParams()
	cfg.Segment.SubImageSize = 150
	cfg.Segment.ZoomOutFactor = seg.ZoomOutFactor
	cfg.Segment.ZoomInFactor = seg.ZoomInFactor
	cfg.Segment.MinRegionPixels = seg.Otsu.MinRegionPixels
	cfg.Segment.CloseKernelSize = seg.Otsu.CloseKernelSize

	cfg.Log.Level = "info"
	cfg.Log.Format = "auto"

	return cfg
}

// LoadConfig loads configuration from a YAML file
// If the file doesn't exist, it returns the default configuration
func LoadConfig(configPath string) (*Config, error) {
	cfg := DefaultConfig()

	if configPath == "" {
		return cfg, nil
	}
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return cfg, nil
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("error reading config file: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("error parsing config file: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config file %s: %w", configPath, err)
	}

	return cfg, nil
}

// Validate checks values that would make matching or segmentation meaningless.
func (c *Config) Validate() error {
	if c.Match.MaxOutOfBounds < 0 || c.Match.PairwiseMaxOutOfBounds < 0 {
		return fmt.Errorf("match tolerances must not be negative")
	}
	if c.Segment.SubImageSize <= 0 {
		return fmt.Errorf("segment.subImageSize must be positive, got %d", c.Segment.SubImageSize)
	}
	if _, err := segment.ParseStrategies(c.Segment.Strategies); err != nil {
		return fmt.Errorf("segment.strategies: %w", err)
	}
	if c.Segment.ZoomOutFactor <= 1 {
		return fmt.Errorf("segment.zoomOutFactor must be greater than 1, got %g", c.Segment.ZoomOutFactor)
	}
	if c.Segment.ZoomInFactor <= 0 || c.Segment.ZoomInFactor >= 1 {
		return fmt.Errorf("segment.zoomInFactor must be between 0 and 1, got %g", c.Segment.ZoomInFactor)
	}
	return nil
}

// MatchParams builds batch match parameters from the config.
func (c *Config) MatchParams() mosaic.MatchParams {
	p := mosaic.DefaultMatchParams().WithMaxOutOfBounds(c.Match.MaxOutOfBounds)
	p.ScanExt = c.Match.ScanExt
	p.AlignExt = c.Match.AlignExt
	p.ImageExt = c.Match.ImageExt
	return p
}

// InfoDefaults builds the mosaic info table defaults from the config.
func (c *Config) InfoDefaults() mosaic.InfoDefaults {
	return mosaic.InfoDefaults{
		Sample:        c.Info.Sample,
		MaxZirconSize: c.Info.MaxZirconSize,
		XOffset:       c.Info.XOffset,
		YOffset:       c.Info.YOffset,
	}
}

// Fallbacks returns the enabled segmentation fallbacks.
func (c *Config) Fallbacks() segment.Fallbacks {
	return segment.Fallbacks{
		ZoomOut:  c.Segment.ZoomOut,
		ZoomIn:   c.Segment.ZoomIn,
		Contrast: c.Segment.Contrast,
		Otsu:     c.Segment.Otsu,
	}
}

// SegmentParams builds cascade parameters from the config. An explicit
// strategy list takes precedence over the fallback flags.
func (c *Config) SegmentParams() (segment.Params, error) {
	p := segment.DefaultParams().
		WithFallbacks(c.Fallbacks()).
		WithZoom(c.Segment.ZoomOutFactor, c.Segment.ZoomInFactor).
		WithOtsu(segment.OtsuParams{
			MinRegionPixels: c.Segment.MinRegionPixels,
			CloseKernelSize: c.Segment.CloseKernelSize,
		})
	if len(c.Segment.Strategies) == 0 {
		return p, nil
	}
	strategies, err := segment.ParseStrategies(c.Segment.Strategies)
	if err != nil {
		return segment.Params{}, fmt.Errorf("segment.strategies: %w", err)
	}
	return p.WithStrategies(strategies...), nil
}

// SaveConfig saves the configuration to a YAML file
func SaveConfig(cfg *Config, configPath string) error {
	dir := filepath.Dir(configPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("error creating config directory: %w", err)
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("error marshaling config: %w", err)
	}

	if err := os.WriteFile(configPath, data, 0644); err != nil {
		return fmt.Errorf("error writing config file: %w", err)
	}

	return nil
}

// CreateDefaultConfigFile creates a default configuration file at the specified path
func CreateDefaultConfigFile(configPath string) error {
	return SaveConfig(DefaultConfig(), configPath)
}
