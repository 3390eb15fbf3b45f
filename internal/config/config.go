package config

import (
	"os"
	"path/filepath"
	"time"

	"github.com/adrg/xdg"
)

// Default configuration values.
// These mirror the behavior the crawler has always had: conservative pacing
// toward Steam's community servers and bounded traversal by default.
const (
	// DefaultFetchInterval is the minimum delay between profile fetches.
	// Steam rate-limits aggressive clients; five seconds keeps a long
	// crawl well under the thresholds that trigger HTTP 429 responses.
	DefaultFetchInterval = 5 * time.Second

	// DefaultFetchTimeout bounds a single profile fetch, including all
	// comment pagination requests for that profile.
	DefaultFetchTimeout = 30 * time.Second

	// DefaultMaxProfiles bounds the number of profiles visited per run.
	// Comment graphs branch quickly; without a bound a single popular
	// seed can pull in tens of thousands of profiles.
	DefaultMaxProfiles = 1000

	// DefaultMaxDepth bounds the discovery-path length from a seed.
	// Depth 0 means only the seeds themselves are fetched. A negative
	// value disables the bound.
	DefaultMaxDepth = 10

	// DefaultWorkers is the number of concurrent fetch workers.
	// One worker gives strict breadth-first order; the shared rate
	// limiter keeps the aggregate request rate identical either way.
	DefaultWorkers = 1

	// DefaultPersistenceRetryLimit is how many times a failed database
	// write is retried (with backoff) before being logged and skipped.
	DefaultPersistenceRetryLimit = 3

	// AppName is the application name used for XDG directory paths.
	AppName = "batman"

	// APIKeyEnv is the environment variable holding the Steam Web API key.
	APIKeyEnv = "STEAM_API_KEY"
)

// Config holds all options for a crawl run.
// It is populated from CLI flags and the optional .batman file, then
// passed by dependency injection; there is no global configuration state.
type Config struct {
	// Seeds are the starting profile references. Each may be a bare
	// SteamID64, a /profiles/<id> URL, or an /id/<vanity> URL.
	Seeds []string

	// APIKey is the Steam Web API key used for vanity URL resolution.
	// Defaults to the STEAM_API_KEY environment variable.
	APIKey string

	// FetchInterval is the minimum delay between outbound fetches,
	// enforced across all workers by a single shared limiter.
	FetchInterval time.Duration

	// FetchTimeout bounds each profile fetch. A timed-out fetch is
	// treated the same as any other fetch failure.
	FetchTimeout time.Duration

	// MaxProfiles bounds profiles visited per run. Zero or negative
	// disables the bound.
	MaxProfiles int

	// MaxDepth bounds the discovery-path length from a seed.
	// 0 means only seeds are fetched; negative disables the bound.
	// Links past the depth bound are still recorded as graph edges.
	MaxDepth int

	// Workers is the number of concurrent fetch workers. Values above
	// one trade strict BFS ordering for throughput; the frontier and
	// rate limiter stay correct either way.
	Workers int

	// Lexicon is the set of terms that flag a comment. Matching is
	// case-insensitive substring matching.
	Lexicon []string

	// LexiconPatterns are additional regular expressions that flag a
	// comment. Invalid patterns are skipped with a warning.
	LexiconPatterns []string

	// PersistenceRetryLimit is the bounded retry count for failed
	// database writes.
	PersistenceRetryLimit int

	// DatabaseDir is the directory holding batman.db.
	DatabaseDir string

	// Verbose enables debug-level log output.
	Verbose bool
}

// NewConfig returns a Config populated with default values.
func NewConfig() *Config {
	return &Config{
		APIKey:                os.Getenv(APIKeyEnv),
		FetchInterval:         DefaultFetchInterval,
		FetchTimeout:          DefaultFetchTimeout,
		MaxProfiles:           DefaultMaxProfiles,
		MaxDepth:              DefaultMaxDepth,
		Workers:               DefaultWorkers,
		PersistenceRetryLimit: DefaultPersistenceRetryLimit,
		DatabaseDir:           DefaultDatabaseDir(),
	}
}

// DefaultDatabaseDir returns the XDG data directory for the crawl database.
func DefaultDatabaseDir() string {
	return filepath.Join(xdg.DataHome, AppName)
}

// Validate checks the configuration for consistency.
// It returns a sentinel error describing the first problem found.
func (c *Config) Validate() error {
	if len(c.Seeds) == 0 {
		return ErrNoSeeds
	}
	if len(c.Lexicon) == 0 && len(c.LexiconPatterns) == 0 {
		return ErrEmptyLexicon
	}
	if c.FetchInterval < 0 {
		return ErrInvalidFetchInterval
	}
	if c.FetchTimeout <= 0 {
		return ErrInvalidFetchTimeout
	}
	if c.Workers <= 0 {
		return ErrInvalidWorkers
	}
	if c.PersistenceRetryLimit < 0 {
		return ErrInvalidRetryLimit
	}
	return nil
}

// Unbounded reports whether a traversal bound value disables the bound.
// MaxProfiles treats zero and negative values as unbounded; MaxDepth
// treats only negative values as unbounded (zero means "seeds only").
func (c *Config) UnboundedProfiles() bool { return c.MaxProfiles <= 0 }

// UnboundedDepth reports whether the depth bound is disabled.
func (c *Config) UnboundedDepth() bool { return c.MaxDepth < 0 }
