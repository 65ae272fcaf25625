package integrator

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestPhotonMappingConfig_Validate(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*PhotonMappingConfig)
		valid  bool
	}{
		{"defaults", func(c *PhotonMappingConfig) {}, true},
		{"zero photons", func(c *PhotonMappingConfig) { c.NumPhotons = 0 }, false},
		{"zero density estimation", func(c *PhotonMappingConfig) { c.NumDensityEstimation = 0 }, false},
		{"zero max depth", func(c *PhotonMappingConfig) { c.MaxDepth = 0 }, false},
		{"negative workers", func(c *PhotonMappingConfig) { c.NumWorkers = -1 }, false},
		{"negative chunk size", func(c *PhotonMappingConfig) { c.ChunkSize = -1 }, false},
		{"default chunk size", func(c *PhotonMappingConfig) { c.ChunkSize = 0 }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			config := DefaultPhotonMappingConfig()
			tt.modify(&config)
			err := config.Validate()
			if tt.valid && err != nil {
				t.Errorf("Expected valid config, got %v", err)
			}
			if !tt.valid && !errors.Is(err, ErrInvalidConfig) {
				t.Errorf("Expected ErrInvalidConfig, got %v", err)
			}
		})
	}
}

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.json")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write config: %v", err)
	}
	return path
}

func TestLoadPhotonMappingConfig(t *testing.T) {
	config, err := LoadPhotonMappingConfig(writeConfig(t, `{"num_photons": 500, "seed": 42}`))
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	defaults := DefaultPhotonMappingConfig()
	if config.NumPhotons != 500 || config.Seed != 42 {
		t.Errorf("Expected overrides to apply, got %+v", config)
	}
	if config.MaxDepth != defaults.MaxDepth || config.NumDensityEstimation != defaults.NumDensityEstimation {
		t.Errorf("Expected missing fields to keep defaults, got %+v", config)
	}

	if _, err := LoadPhotonMappingConfig(writeConfig(t, `{"num_photons": -3}`)); !errors.Is(err, ErrInvalidConfig) {
		t.Errorf("Expected ErrInvalidConfig, got %v", err)
	}
	if _, err := LoadPhotonMappingConfig(writeConfig(t, `{not json`)); err == nil {
		t.Error("Expected a decode error")
	}
	if _, err := LoadPhotonMappingConfig(filepath.Join(t.TempDir(), "missing.json")); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("Expected os.ErrNotExist, got %v", err)
	}
}

func TestPathTracingConfig_Validate(t *testing.T) {
	if err := DefaultPathTracingConfig().Validate(); err != nil {
		t.Errorf("Expected defaults to be valid, got %v", err)
	}
	if err := (PathTracingConfig{MaxDepth: 5, RussianRouletteMinBounces: -1}).Validate(); !errors.Is(err, ErrInvalidConfig) {
		t.Errorf("Expected ErrInvalidConfig, got %v", err)
	}
}
