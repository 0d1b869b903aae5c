// Package config holds the engine's YAML-loadable tuning knobs as a
// yaml-tagged struct.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// EngineConfig tunes the columnar writer (the reader takes no
// configuration). Operators
// override the defaults per-deployment.
type EngineConfig struct {
	BatchCapacity     int    `yaml:"batch_capacity"`
	RowGroupTarget    int    `yaml:"row_group_target"`
	DataPageSizeBytes int    `yaml:"data_page_size_bytes"`
	CompressionLevel  int    `yaml:"compression_level"`
	BuildVersion      string `yaml:"build_version"`
}

// Default returns the engine's built-in defaults: batch 10 000, row-group 250 000,
// 1 MiB data pages, ZSTD level 3.
func Default() EngineConfig {
	return EngineConfig{
		BatchCapacity:     10_000,
		RowGroupTarget:    250_000,
		DataPageSizeBytes: 1 << 20,
		CompressionLevel:  3,
		BuildVersion:      "nexus-1.0",
	}
}

// Load reads an EngineConfig from a YAML file, starting from Default()
// so a partial file only overrides the fields it sets.
func Load(path string) (EngineConfig, error) {
	cfg := Default()
	b, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("config: read %s: %w", path, err)
	}
	if err := yaml.Unmarshal(b, &cfg); err != nil {
		return cfg, fmt.Errorf("config: parse %s: %w", path, err)
	}
	return cfg, nil
}
