// Package config loads the reversible-VSA pipeline's materialised
// configuration: a preset (small, default, large) optionally overlaid by
// a YAML file, following the same load-then-validate shape as the
// teacher's project configuration loader.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/amn-labs/holofs/internal/reversible"
)

// ReversibleVSAConfig is the materialised configuration for one engram's
// encode/decode pipeline: the vector dimension, the file-chunking width,
// ingest concurrency, and the reversible encoder's block/shift parameters.
type ReversibleVSAConfig struct {
	Dim           uint32            `yaml:"dim"`
	ChunkSize     int               `yaml:"chunk_size"`
	BundleWorkers int               `yaml:"bundle_workers"`
	Reversible    reversible.Config `yaml:"reversible"`
}

// Small, Default, and Large are materialised configurations, not modes a
// caller selects at runtime inside the pipeline — each is a complete,
// self-consistent parameter set for one deployment shape, mirroring
// internal/reversible's own Small/Default/Large.
var Small = ReversibleVSAConfig{
	Dim:           2000,
	ChunkSize:     reversible.DefaultChunkSize,
	BundleWorkers: 2,
	Reversible:    reversible.Small,
}

// Default is the baseline configuration used when a caller has no
// specific size/throughput requirement.
var Default = ReversibleVSAConfig{
	Dim:           10000,
	ChunkSize:     reversible.DefaultChunkSize,
	BundleWorkers: 4,
	Reversible:    reversible.Default,
}

// Large favours larger chunks and a wider vector dimension for engrams
// with many large files, trading memory for fewer hash collisions.
var Large = ReversibleVSAConfig{
	Dim:           100000,
	ChunkSize:     reversible.DefaultChunkSize * 4,
	BundleWorkers: 8,
	Reversible:    reversible.Large,
}

// Load reads an optional YAML file at path and overlays it onto the
// Default preset. An empty path, or a path that does not exist, is not an
// error — the Default preset is returned unchanged.
func Load(path string) (*ReversibleVSAConfig, error) {
	cfg := Default
	if path == "" {
		return &cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return &cfg, nil
		}
		return nil, fmt.Errorf("config: reading %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("config: parsing %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config: %s: %w", path, err)
	}
	return &cfg, nil
}

// Validate checks that the configuration describes a usable pipeline.
func (c *ReversibleVSAConfig) Validate() error {
	if c.Dim == 0 {
		return fmt.Errorf("dim must be positive")
	}
	if c.ChunkSize <= 0 {
		return fmt.Errorf("chunk_size must be positive")
	}
	if c.BundleWorkers <= 0 {
		return fmt.Errorf("bundle_workers must be positive")
	}
	if c.Reversible.BlockSize <= 0 {
		return fmt.Errorf("reversible.block_size must be positive")
	}
	if c.Reversible.MaxPathDepth == 0 {
		return fmt.Errorf("reversible.max_path_depth must be positive")
	}
	if c.Reversible.TargetSparsity <= 0 || c.Reversible.TargetSparsity >= 1 {
		return fmt.Errorf("reversible.target_sparsity must be in (0, 1)")
	}
	return nil
}

// WriteYAML writes the configuration to path.
func (c *ReversibleVSAConfig) WriteYAML(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("config: marshalling: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("config: writing %s: %w", path, err)
	}
	return nil
}
