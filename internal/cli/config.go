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

package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/jeremyhahn/go-cryptit/internal/config"
	"github.com/jeremyhahn/go-cryptit/pkg/cryptit"
	"github.com/jeremyhahn/go-cryptit/pkg/logging"
	"github.com/jeremyhahn/go-cryptit/pkg/storage"
	"github.com/jeremyhahn/go-cryptit/pkg/storage/file"
)

// defaultConfigName is looked up in the user's home directory when no
// --config flag is given.
const defaultConfigName = ".cryptit.yaml"

// Config holds global CLI configuration
type Config struct {
	// ConfigFile is the path to the configuration file
	ConfigFile string

	// OutputDir is the directory for generated artifacts. Empty means
	// alongside the input file.
	OutputDir string

	// OutputFormat controls output formatting (json, text, table)
	OutputFormat string

	// Verbose enables verbose logging
	Verbose bool

	// defaults holds values loaded from the config file and environment.
	// Flags that were explicitly set take precedence over these.
	defaults *config.Config
}

// NewConfig creates a new Config with default values
func NewConfig() *Config {
	return &Config{
		OutputDir:    "",
		OutputFormat: "text",
		Verbose:      false,
		defaults:     config.Default(),
	}
}

// LoadFile loads the config file into the CLI configuration. An explicit
// --config path must exist; the default $HOME/.cryptit.yaml is optional.
// Values from the file apply only where the corresponding flag was not
// explicitly set.
func (c *Config) LoadFile() error {
	path := c.ConfigFile
	if path == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil // No home directory, no default config
		}
		path = filepath.Join(home, defaultConfigName)
		if _, err := os.Stat(path); err != nil {
			return nil
		}
	}

	cfg, err := config.Load(path)
	if err != nil {
		return fmt.Errorf("failed to load config %s: %w", path, err)
	}
	c.defaults = cfg

	flags := rootCmd.PersistentFlags()
	if !flags.Changed("output-dir") && cfg.Output.Directory != "" {
		c.OutputDir = cfg.Output.Directory
	}
	if !flags.Changed("output") {
		c.OutputFormat = cfg.Output.Format
	}

	return nil
}

// DefaultThreshold returns the threshold to use when the flag is not given
func (c *Config) DefaultThreshold() int {
	return c.defaults.Defaults.Threshold
}

// DefaultShares returns the share count to use when the flag is not given
func (c *Config) DefaultShares() int {
	return c.defaults.Defaults.Shares
}

// Debug reports whether pipeline debug logging is enabled, either from the
// config file or the --verbose flag.
func (c *Config) Debug() bool {
	return c.Verbose || c.defaults.Logging.Debug
}

// NewPipeline creates the encryption pipeline with a logger matching the
// configured verbosity.
func (c *Config) NewPipeline() *cryptit.Pipeline {
	return cryptit.New(logging.NewLogger(c.Debug()))
}

// CreateStorage creates a file storage backend rooted at the given directory
func (c *Config) CreateStorage(dir string) (storage.Backend, error) {
	backend, err := file.New(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to create storage backend: %w", err)
	}
	return backend, nil
}

// ResolveOutputDir picks the directory for generated artifacts: the
// --output-dir flag or config value if set, otherwise the input's directory.
func (c *Config) ResolveOutputDir(inputPath string) string {
	if c.OutputDir != "" {
		return c.OutputDir
	}
	dir := filepath.Dir(inputPath)
	if dir == "" {
		return "."
	}
	return dir
}
