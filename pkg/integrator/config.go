package integrator

import (
	"encoding/json"
	"fmt"
	"os"
)

// PhotonMappingConfig contains the photon tracing configuration
type PhotonMappingConfig struct {
	NumPhotons           int    `json:"num_photons"`            // Number of photon walks (one photon at most per walk)
	NumDensityEstimation int    `json:"num_density_estimation"` // Photons gathered per radiance estimate
	MaxDepth             int    `json:"max_depth"`              // Maximum bounces per walk
	NumWorkers           int    `json:"num_workers"`            // Worker goroutines (0 = runtime.NumCPU())
	ChunkSize            int    `json:"chunk_size"`             // Walks handed to a worker at a time (0 = default)
	Seed                 uint64 `json:"seed"`                   // Root seed for the sampler streams
}

// DefaultPhotonMappingConfig returns the configuration used when none is given
func DefaultPhotonMappingConfig() PhotonMappingConfig {
	return PhotonMappingConfig{
		NumPhotons:           100000,
		NumDensityEstimation: 100,
		MaxDepth:             100,
		NumWorkers:           0,
		ChunkSize:            256,
		Seed:                 1,
	}
}

// Validate checks the configuration. Failures wrap ErrInvalidConfig.
func (c PhotonMappingConfig) Validate() error {
	switch {
	case c.NumPhotons <= 0:
		return fmt.Errorf("%w: num_photons must be positive, got %d", ErrInvalidConfig, c.NumPhotons)
	case c.NumDensityEstimation <= 0:
		return fmt.Errorf("%w: num_density_estimation must be positive, got %d", ErrInvalidConfig, c.NumDensityEstimation)
	case c.MaxDepth <= 0:
		return fmt.Errorf("%w: max_depth must be positive, got %d", ErrInvalidConfig, c.MaxDepth)
	case c.NumWorkers < 0:
		return fmt.Errorf("%w: num_workers must not be negative, got %d", ErrInvalidConfig, c.NumWorkers)
	case c.ChunkSize < 0:
		return fmt.Errorf("%w: chunk_size must not be negative, got %d", ErrInvalidConfig, c.ChunkSize)
	}
	return nil
}

// LoadPhotonMappingConfig reads a JSON config file. Fields missing from the
// file keep their default values.
func LoadPhotonMappingConfig(path string) (PhotonMappingConfig, error) {
	cfg := DefaultPhotonMappingConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read config: %w", err)
	}
	if err := json.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// PathTracingConfig contains the reference path tracer configuration
type PathTracingConfig struct {
	MaxDepth                  int `json:"max_depth"`                    // Maximum path length
	RussianRouletteMinBounces int `json:"russian_roulette_min_bounces"` // Bounces before Russian roulette can terminate a path
}

// DefaultPathTracingConfig returns the configuration used when none is given
func DefaultPathTracingConfig() PathTracingConfig {
	return PathTracingConfig{MaxDepth: 50, RussianRouletteMinBounces: 3}
}

// Validate checks the configuration. Failures wrap ErrInvalidConfig.
func (c PathTracingConfig) Validate() error {
	if c.MaxDepth <= 0 {
		return fmt.Errorf("%w: max_depth must be positive, got %d", ErrInvalidConfig, c.MaxDepth)
	}
	if c.RussianRouletteMinBounces < 0 {
		return fmt.Errorf("%w: russian_roulette_min_bounces must not be negative, got %d", ErrInvalidConfig, c.RussianRouletteMinBounces)
	}
	return nil
}
