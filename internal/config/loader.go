package config

import (
	"errors"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// DefaultConfigFile is the default configuration file name.
const DefaultConfigFile = ".batman"

// ErrConfigNotFound is returned when the configuration file does not exist.
var ErrConfigNotFound = errors.New("configuration file not found")

// File represents the structure of the .batman configuration file.
// Every field is optional; set fields override the built-in defaults but
// are themselves overridden by explicit CLI flags.
type File struct {
	// Seeds are starting profile references (URLs or SteamID64s).
	Seeds []string `yaml:"seeds,omitempty"`

	// Lexicon are the terms that flag a comment.
	Lexicon []string `yaml:"lexicon,omitempty"`

	// Patterns are regular expressions that flag a comment.
	Patterns []string `yaml:"patterns,omitempty"`

	// FetchInterval is the minimum delay between fetches (e.g. "5s").
	FetchInterval time.Duration `yaml:"fetchInterval,omitempty"`

	// FetchTimeout bounds each profile fetch (e.g. "30s").
	FetchTimeout time.Duration `yaml:"fetchTimeout,omitempty"`

	// MaxProfiles bounds profiles visited per run.
	MaxProfiles int `yaml:"maxProfiles,omitempty"`

	// MaxDepth bounds the discovery-path length from a seed.
	MaxDepth *int `yaml:"maxDepth,omitempty"`

	// Workers is the number of concurrent fetch workers.
	Workers int `yaml:"workers,omitempty"`

	// APIKey is the Steam Web API key. Prefer the STEAM_API_KEY
	// environment variable; the file option exists for lab setups.
	APIKey string `yaml:"apiKey,omitempty"`

	// DatabaseDir overrides the XDG default database directory.
	DatabaseDir string `yaml:"databaseDir,omitempty"`
}

// LoadConfigFile loads crawl configuration from a YAML file.
// If the file does not exist, it returns ErrConfigNotFound. Callers should
// handle that error based on whether the path was explicitly specified.
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
// 2. Look for .batman in the current directory
// 3. Look for .batman in the user's home directory
//
// Returns the path if found, or empty string if not found.
func FindConfigFile(configPath string) string {
	if configPath != "" {
		if _, err := os.Stat(configPath); err == nil {
			return configPath
		}
		return ""
	}

	if cwd, err := os.Getwd(); err == nil {
		candidate := filepath.Join(cwd, DefaultConfigFile)
		if _, err := os.Stat(candidate); err == nil {
			return candidate
		}
	}

	if home, err := os.UserHomeDir(); err == nil {
		candidate := filepath.Join(home, DefaultConfigFile)
		if _, err := os.Stat(candidate); err == nil {
			return candidate
		}
	}

	return ""
}

// Apply merges the file's set fields into the config.
// CLI flags are applied after this, so the precedence ends up
// defaults < file < flags.
func (cf *File) Apply(c *Config) {
	if len(cf.Seeds) > 0 {
		c.Seeds = cf.Seeds
	}
	if len(cf.Lexicon) > 0 {
		c.Lexicon = cf.Lexicon
	}
	if len(cf.Patterns) > 0 {
		c.LexiconPatterns = cf.Patterns
	}
	if cf.FetchInterval > 0 {
		c.FetchInterval = cf.FetchInterval
	}
	if cf.FetchTimeout > 0 {
		c.FetchTimeout = cf.FetchTimeout
	}
	if cf.MaxProfiles != 0 {
		c.MaxProfiles = cf.MaxProfiles
	}
	if cf.MaxDepth != nil {
		c.MaxDepth = *cf.MaxDepth
	}
	if cf.Workers > 0 {
		c.Workers = cf.Workers
	}
	if cf.APIKey != "" {
		c.APIKey = cf.APIKey
	}
	if cf.DatabaseDir != "" {
		c.DatabaseDir = cf.DatabaseDir
	}
}
