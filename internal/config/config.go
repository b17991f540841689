// Copyright (c) 2025 Jeremy Hahn
// Copyright (c) 2025 Automate The Things, LLC
//
// This file is part of go-cryptit.
//
// go-cryptit is dual-licensed:
//
// 1. GNU Affero General Public License v3.0 (AGPL-3.0)
//    See LICENSE file or visit https://www.gnu.org/licenses/agpl-3.0.html
//
// 2. Commercial License
//    Contact licensing@automatethethings.com for commercial licensing options.

package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config represents the complete CLI configuration. Every value here is a
// default that command-line flags may override.
type Config struct {
	Defaults DefaultsConfig `yaml:"defaults"`
	Output   OutputConfig   `yaml:"output"`
	Logging  LoggingConfig  `yaml:"logging"`
}

// DefaultsConfig contains the default share scheme parameters used when
// the corresponding flags are not given.
type DefaultsConfig struct {
	Threshold int `yaml:"threshold"`
	Shares    int `yaml:"shares"`
}

// OutputConfig controls where and how artifacts and reports are written
type OutputConfig struct {
	// Directory is where containers, shares, and recovered files land.
	// Empty means alongside the input file.
	Directory string `yaml:"directory"`

	// Format selects the report format: text, json, or table
	Format string `yaml:"format"`
}

// LoggingConfig controls logging behavior
type LoggingConfig struct {
	Debug bool `yaml:"debug"`
}

// Default returns the built-in configuration used when no config file
// is present.
func Default() *Config {
	return &Config{
		Defaults: DefaultsConfig{
			Threshold: 3,
			Shares:    5,
		},
		Output: OutputConfig{
			Directory: "",
			Format:    "text",
		},
		Logging: LoggingConfig{
			Debug: false,
		},
	}
}

// Load reads configuration from a YAML file and applies environment variable
// overrides. Fields omitted from the file keep their built-in defaults.
func Load(path string) (*Config, error) {
	// #nosec G304 - Config file path is provided by admin/user
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	applyEnvOverrides(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// applyEnvOverrides applies environment variable overrides to the configuration
func applyEnvOverrides(cfg *Config) {
	if threshold := os.Getenv("CRYPTIT_THRESHOLD"); threshold != "" {
		n, err := strconv.Atoi(threshold)
		if err != nil {
			log.Printf("Warning: invalid CRYPTIT_THRESHOLD value %q, using default %d: %v",
				threshold, cfg.Defaults.Threshold, err)
		} else {
			cfg.Defaults.Threshold = n
		}
	}
	if shares := os.Getenv("CRYPTIT_SHARES"); shares != "" {
		n, err := strconv.Atoi(shares)
		if err != nil {
			log.Printf("Warning: invalid CRYPTIT_SHARES value %q, using default %d: %v",
				shares, cfg.Defaults.Shares, err)
		} else {
			cfg.Defaults.Shares = n
		}
	}

	if dir := os.Getenv("CRYPTIT_OUTPUT_DIR"); dir != "" {
		cfg.Output.Directory = dir
	}
	if format := os.Getenv("CRYPTIT_OUTPUT_FORMAT"); format != "" {
		cfg.Output.Format = format
	}

	if debug := os.Getenv("CRYPTIT_DEBUG"); debug != "" {
		v, err := strconv.ParseBool(debug)
		if err != nil {
			log.Printf("Warning: invalid CRYPTIT_DEBUG value %q, using default %t: %v",
				debug, cfg.Logging.Debug, err)
		} else {
			cfg.Logging.Debug = v
		}
	}
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.Defaults.Threshold < 1 || c.Defaults.Threshold > 255 {
		return fmt.Errorf("invalid threshold: %d (must be 1-255)", c.Defaults.Threshold)
	}
	if c.Defaults.Shares < 1 || c.Defaults.Shares > 255 {
		return fmt.Errorf("invalid shares: %d (must be 1-255)", c.Defaults.Shares)
	}
	if c.Defaults.Threshold > c.Defaults.Shares {
		return fmt.Errorf("threshold %d exceeds share count %d", c.Defaults.Threshold, c.Defaults.Shares)
	}

	validFormats := map[string]bool{
		"text": true, "json": true, "table": true,
	}
	if !validFormats[strings.ToLower(c.Output.Format)] {
		return fmt.Errorf("invalid output format: %s (must be text, json, or table)", c.Output.Format)
	}

	return nil
}
