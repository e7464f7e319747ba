// Package config holds the plugin options and their defaults, with optional
// overrides from a YAML file.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

type Config struct {
	// Pattern filters input files, matched against inputdir-relative paths.
	Pattern string `yaml:"pattern" json:"pattern"`
	// Subject and Atlas are annotations carried into every result.
	Subject string `yaml:"subject" json:"subject"`
	Atlas   string `yaml:"atlas" json:"atlas"`
	// Nodes, when nonzero, rejects matrices of a different order.
	Nodes int `yaml:"nodes" json:"nodes"`
	// MeasurementFile is resolved relative to the input directory.
	MeasurementFile string `yaml:"measurement_file" json:"measurement_file"`
	Workers         int    `yaml:"workers" json:"workers"`
	LogLevel        string `yaml:"log_level" json:"log_level"`
}

func Default() Config {
	return Config{
		Pattern:         "**/*.csv",
		MeasurementFile: "measures.txt",
		Workers:         4,
		LogLevel:        "info",
	}
}

// Load returns the defaults overlaid with the YAML file at path, or plain
// defaults when path is empty.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	content, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}

	if err := yaml.Unmarshal(content, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config: %w", err)
	}

	return cfg, nil
}
