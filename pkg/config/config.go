// Package config provides configuration loading and management for ndimage.
// It handles loading configuration from YAML files and provides default values.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Config represents the pipeline configuration loaded from YAML
type Config struct {
	// Volume describes the synthetic dataset generated at the head of the pipeline
	Volume struct {
		// Width, Height and Depth are the dataset extent in samples
		Width  int `yaml:"width"`
		Height int `yaml:"height"`
		Depth  int `yaml:"depth"`

		// Spacing is the physical distance between samples in each dimension
		Spacing []float64 `yaml:"spacing"`
	} `yaml:"volume"`

	// Filter holds the pointwise intensity mapping parameters
	Filter struct {
		// Shift is the additive term applied to every sample
		Shift float64 `yaml:"shift"`

		// Scale is the multiplicative term applied to every sample
		Scale float64 `yaml:"scale"`
	} `yaml:"filter"`

	// Resample holds the geometric resampling parameters
	Resample struct {
		// Offset is the translation applied when resampling, one component per dimension
		Offset []float64 `yaml:"offset"`

		// DefaultValue is used for samples mapping outside the input dataset
		DefaultValue float64 `yaml:"defaultValue"`
	} `yaml:"resample"`

	// Output parameters
	Output struct {
		// Verbose controls the level of progress output
		Verbose bool `yaml:"verbose"`
	} `yaml:"output"`
}

// DefaultConfig returns a configuration with default values
func DefaultConfig() *Config {
	cfg := &Config{}

	// Set default dataset parameters
	cfg.Volume.Width = 64
	cfg.Volume.Height = 64
	cfg.Volume.Depth = 16
	cfg.Volume.Spacing = []float64{1.0, 1.0, 1.5}

	// Set default filter parameters
	cfg.Filter.Shift = 0.0
	cfg.Filter.Scale = 1.0

	// Set default resample parameters
	cfg.Resample.Offset = []float64{0.0, 0.0, 0.0}
	cfg.Resample.DefaultValue = 0.0

	// Set default output parameters
	cfg.Output.Verbose = true

	return cfg
}

// LoadConfig loads configuration from a YAML file
// If the file doesn't exist, it returns the default configuration
func LoadConfig(configPath string) (*Config, error) {
	cfg := DefaultConfig()

	// Check if config file exists
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return cfg, nil
	}

	// Read config file
	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("error reading config file: %w", err)
	}

	// Parse YAML
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("error parsing config file: %w", err)
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

	// Marshal config to YAML
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("error marshaling config: %w", err)
	}

	// Write to file
	if err := os.WriteFile(configPath, data, 0644); err != nil {
		return fmt.Errorf("error writing config file: %w", err)
	}

	return nil
}

// CreateDefaultConfigFile creates a default configuration file at the specified path
func CreateDefaultConfigFile(configPath string) error {
	cfg := DefaultConfig()
	return SaveConfig(cfg, configPath)
}
