package config

import (
	"errors"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// DefaultConfigFile is the default configuration file name.
const DefaultConfigFile = ".citruscounter"

// ErrConfigNotFound is returned when the configuration file does not exist.
var ErrConfigNotFound = errors.New("configuration file not found")

// File represents the structure of the .citruscounter configuration file.
// The file carries persistent defaults so field workers don't retype the
// endpoint and farm details on every invocation; CLI flags always win over
// file values.
type File struct {
	// Endpoint overrides the counting service base URL.
	Endpoint string `yaml:"endpoint,omitempty"`

	// Timeout overrides the per-request timeout (e.g. "90s", "2m").
	Timeout time.Duration `yaml:"timeout,omitempty"`

	// Farm holds default farm metadata applied when the local store has
	// none and no flags were given.
	Farm FarmDefaults `yaml:"farm,omitempty"`
}

// FarmDefaults holds default farm metadata from the config file.
type FarmDefaults struct {
	// LandSizeAcres is the default land size in acres.
	LandSizeAcres int `yaml:"landSizeAcres,omitempty"`

	// TotalTrees is the default number of citrus trees.
	TotalTrees int `yaml:"totalTrees,omitempty"`
}

// LoadConfigFile loads configuration from a YAML file.
// If the file does not exist, it returns ErrConfigNotFound.
// Callers should handle this error appropriately based on whether
// the config file path was explicitly specified by the user.
func LoadConfigFile(path string) (*File, error) {
	data, err := os.ReadFile(path) //nolint:gosec // User-provided config path is intentional
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrConfigNotFound
		}
		return nil, err
	}

	var cf File
	if err := yaml.Unmarshal(data, &cf); err != nil {
		return nil, err
	}

	return &cf, nil
}

// FindConfigFile searches for the configuration file in the following order:
// 1. If configPath is specified, use it directly
// 2. Look for .citruscounter in the current directory
// 3. Look for .citruscounter in the user's home directory
//
// Returns the path to the configuration file if found, or empty string if not found.
func FindConfigFile(configPath string) string {
	// If explicit path is provided, use it
	if configPath != "" {
		if _, err := os.Stat(configPath); err == nil {
			return configPath
		}
		return ""
	}

	// Check current directory
	cwd, err := os.Getwd()
	if err == nil {
		cwdConfig := filepath.Join(cwd, DefaultConfigFile)
		if _, err := os.Stat(cwdConfig); err == nil {
			return cwdConfig
		}
	}

	// Check home directory
	home, err := os.UserHomeDir()
	if err == nil {
		homeConfig := filepath.Join(home, DefaultConfigFile)
		if _, err := os.Stat(homeConfig); err == nil {
			return homeConfig
		}
	}

	return ""
}

// Apply merges file values into the config. Only fields the file actually
// sets are applied, and only where the config still holds the default, so
// explicit CLI flags keep precedence.
func (cf *File) Apply(cfg *Config) {
	if cf == nil {
		return
	}
	if cf.Endpoint != "" && cfg.Endpoint == DefaultEndpoint {
		cfg.Endpoint = cf.Endpoint
	}
	if cf.Timeout > 0 && cfg.Timeout == DefaultTimeout {
		cfg.Timeout = cf.Timeout
	}
}
