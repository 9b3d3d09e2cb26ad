package config

import (
	"os"
	"path/filepath"
	"testing"
)

// TestDefaultConfig verifies the built-in defaults
func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Volume.Width != 64 || cfg.Volume.Height != 64 || cfg.Volume.Depth != 16 {
		t.Errorf("Expected default extent 64x64x16, got %dx%dx%d",
			cfg.Volume.Width, cfg.Volume.Height, cfg.Volume.Depth)
	}
	if len(cfg.Volume.Spacing) != 3 || cfg.Volume.Spacing[2] != 1.5 {
		t.Errorf("Expected default spacing (1,1,1.5), got %v", cfg.Volume.Spacing)
	}
	if cfg.Filter.Scale != 1.0 {
		t.Errorf("Expected default scale 1.0, got %v", cfg.Filter.Scale)
	}
	if !cfg.Output.Verbose {
		t.Errorf("Expected verbose output by default")
	}
}

// TestLoadConfigMissingFile verifies a missing file falls back to defaults
// without error
func TestLoadConfigMissingFile(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "does-not-exist.yaml"))
	if err != nil {
		t.Fatalf("Expected no error for a missing config file, got %v", err)
	}
	if cfg.Volume.Width != 64 {
		t.Errorf("Expected the defaults for a missing file, got width %d", cfg.Volume.Width)
	}
}

// TestSaveAndLoadConfig verifies the round trip through the YAML file
func TestSaveAndLoadConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")

	cfg := DefaultConfig()
	cfg.Volume.Width = 128
	cfg.Filter.Shift = 2.5
	cfg.Resample.Offset = []float64{1, 2, 3}
	cfg.Output.Verbose = false

	if err := SaveConfig(cfg, path); err != nil {
		t.Fatalf("SaveConfig failed: %v", err)
	}

	loaded, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}

	if loaded.Volume.Width != 128 {
		t.Errorf("Expected width 128 after round trip, got %d", loaded.Volume.Width)
	}
	if loaded.Filter.Shift != 2.5 {
		t.Errorf("Expected shift 2.5 after round trip, got %v", loaded.Filter.Shift)
	}
	if len(loaded.Resample.Offset) != 3 || loaded.Resample.Offset[1] != 2 {
		t.Errorf("Expected offset (1,2,3) after round trip, got %v", loaded.Resample.Offset)
	}
	if loaded.Output.Verbose {
		t.Errorf("Expected verbose disabled after round trip")
	}
}

// TestCreateDefaultConfigFile verifies the written file exists and parses
// back to the defaults
func TestCreateDefaultConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")

	if err := CreateDefaultConfigFile(path); err != nil {
		t.Fatalf("CreateDefaultConfigFile failed: %v", err)
	}
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("Expected the config file to exist: %v", err)
	}

	loaded, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}
	if loaded.Volume.Depth != 16 {
		t.Errorf("Expected default depth 16, got %d", loaded.Volume.Depth)
	}
}
