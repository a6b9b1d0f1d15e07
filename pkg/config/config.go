// Package config provides configuration loading and management for overlayregions.
// It handles loading configuration from YAML files and provides default values.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"overlayregions/pkg/mask"
	"overlayregions/pkg/regions"
)

// Config represents the application configuration loaded from YAML
type Config struct {
	// Region finder parameters
	Finder struct {
		// CloseDistance is the Chebyshev distance below which regions are fused
		CloseDistance int `yaml:"closeDistance"`

		// OptimizeForPowersOfTwo also fuses regions when one power-of-two
		// texture is no larger than two
		OptimizeForPowersOfTwo bool `yaml:"optimizeForPowersOfTwo"`
	} `yaml:"finder"`

	// Mask extraction parameters
	Mask struct {
		// Threshold is the luminance (0-1) above which a pixel is foreground
		Threshold float64 `yaml:"threshold"`
	} `yaml:"mask"`

	// Output parameters
	Output struct {
		// OverlayFile is where the rendered regions are written; empty disables it
		OverlayFile string `yaml:"overlayFile"`

		// RegionsDir receives one texture image per region; empty disables it
		RegionsDir string `yaml:"regionsDir"`

		// Scale is the number of output pixels per mask pixel in the overlay
		Scale int `yaml:"scale"`

		// Verbose controls the level of logging output
		Verbose bool `yaml:"verbose"`
	} `yaml:"output"`

	// Log parameters
	Log struct {
		// File is the rotating log file; empty logs to stderr
		File string `yaml:"file"`

		// MaxSize is the size in megabytes before the log file is rotated
		MaxSize int `yaml:"maxSize"`

		// MaxAge is the number of days rotated files are kept
		MaxAge int `yaml:"maxAge"`
	} `yaml:"log"`
}

// DefaultConfig returns a configuration with default values
func DefaultConfig() *Config {
	cfg := &Config{}

	cfg.Finder.CloseDistance = regions.DefaultCloseDistance
	cfg.Finder.OptimizeForPowersOfTwo = false

	cfg.Mask.Threshold = mask.DefaultThreshold

	cfg.Output.Scale = 4
	cfg.Output.Verbose = false

	cfg.Log.MaxSize = 10
	cfg.Log.MaxAge = 28

	return cfg
}

// Validate reports the first invalid setting
func (c *Config) Validate() error {
	if c.Finder.CloseDistance < 0 {
		return fmt.Errorf("finder.closeDistance must be non-negative, got %d", c.Finder.CloseDistance)
	}
	if c.Mask.Threshold < 0 || c.Mask.Threshold >= 1 {
		return fmt.Errorf("mask.threshold must be in [0, 1), got %g", c.Mask.Threshold)
	}
	if c.Output.Scale < 1 {
		return fmt.Errorf("output.scale must be at least 1, got %d", c.Output.Scale)
	}
	return nil
}

// FinderOptions converts the finder section into region finder options
func (c *Config) FinderOptions() []regions.Option {
	return []regions.Option{regions.WithCloseDistance(c.Finder.CloseDistance)}
}

// LoadConfig loads configuration from a YAML file
// If the file doesn't exist, it returns the default configuration
func LoadConfig(configPath string) (*Config, error) {
	cfg := DefaultConfig()

	// Check if config file exists
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

// SaveConfig saves the configuration to a YAML file
func SaveConfig(cfg *Config, configPath string) error {
	// Create directory if it doesn't exist
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
