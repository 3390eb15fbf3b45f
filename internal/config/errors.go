package config

import "errors"

// Configuration validation errors.
// These are package-level sentinel errors so callers can use errors.Is()
// for programmatic handling while keeping human-readable messages.
var (
	// ErrNoSeeds is returned when no seed profile is specified.
	// A crawl needs at least one profile URL or SteamID64 to start from.
	ErrNoSeeds = errors.New("no seeds specified: provide a profile URL or SteamID64")

	// ErrEmptyLexicon is returned when neither lexicon terms nor patterns
	// are configured. A crawl with nothing to match would visit profiles
	// without ever flagging anything.
	ErrEmptyLexicon = errors.New("empty lexicon: configure at least one term or pattern")

	// ErrInvalidFetchInterval is returned when the fetch interval is negative.
	// Use 0 for no delay between fetches.
	ErrInvalidFetchInterval = errors.New("invalid fetch interval: must be non-negative")

	// ErrInvalidFetchTimeout is returned when the fetch timeout is not positive.
	// A zero timeout would fail every fetch immediately.
	ErrInvalidFetchTimeout = errors.New("invalid fetch timeout: must be positive")

	// ErrInvalidWorkers is returned when the worker count is not positive.
	ErrInvalidWorkers = errors.New("invalid worker count: must be positive")

	// ErrInvalidRetryLimit is returned when the persistence retry limit is negative.
	// Use 0 to disable retries of failed database writes.
	ErrInvalidRetryLimit = errors.New("invalid persistence retry limit: must be non-negative")

	// ErrConflictingReportFormats is returned when both --json and
	// --markdown are specified. Only one output format can be used.
	ErrConflictingReportFormats = errors.New("conflicting report formats: --json and --markdown cannot be used together")
)
