// Package config loads site.config.yaml, the handful of settings the
// build pipeline and dev server need.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config is the root of site.config.yaml.
type Config struct {
	Title      string `yaml:"title"`
	BaseURL    string `yaml:"base_url"`
	ContentDir string `yaml:"content_dir"`
	OutputDir  string `yaml:"output_dir"`
	DevPort    int    `yaml:"dev_port"`
}

// DefaultPath is the conventional config file name looked for in the
// current working directory.
const DefaultPath = "site.config.yaml"

// Load reads and validates the config at path.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: read %s: %w", path, err)
	}

	cfg := &Config{
		ContentDir: "content",
		OutputDir:  "dist",
		DevPort:    4000,
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("config: parse %s: %w", path, err)
	}

	if cfg.Title == "" {
		return nil, fmt.Errorf("config: %s: title is required", path)
	}

	return cfg, nil
}
