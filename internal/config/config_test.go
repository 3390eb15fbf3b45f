package config

import (
	"errors"
	"testing"
	"time"
)

// validConfig returns a Config that passes validation.
func validConfig() *Config {
	c := NewConfig()
	c.Seeds = []string{"https://steamcommunity.com/profiles/76561198056686440"}
	c.Lexicon = []string{"trash"}
	return c
}

// TestConfigValidate tests configuration validation.
func TestConfigValidate(t *testing.T) {
	t.Parallel()

	t.Run("valid config passes", func(t *testing.T) {
		t.Parallel()

		if err := validConfig().Validate(); err != nil {
			t.Errorf("unexpected error: %v", err)
		}
	})

	t.Run("missing seeds", func(t *testing.T) {
		t.Parallel()

		c := validConfig()
		c.Seeds = nil
		if err := c.Validate(); !errors.Is(err, ErrNoSeeds) {
			t.Errorf("expected ErrNoSeeds, got %v", err)
		}
	})

	t.Run("empty lexicon", func(t *testing.T) {
		t.Parallel()

		c := validConfig()
		c.Lexicon = nil
		c.LexiconPatterns = nil
		if err := c.Validate(); !errors.Is(err, ErrEmptyLexicon) {
			t.Errorf("expected ErrEmptyLexicon, got %v", err)
		}
	})

	t.Run("patterns alone satisfy the lexicon requirement", func(t *testing.T) {
		t.Parallel()

		c := validConfig()
		c.Lexicon = nil
		c.LexiconPatterns = []string{`\btrash\b`}
		if err := c.Validate(); err != nil {
			t.Errorf("unexpected error: %v", err)
		}
	})

	t.Run("negative fetch interval", func(t *testing.T) {
		t.Parallel()

		c := validConfig()
		c.FetchInterval = -time.Second
		if err := c.Validate(); !errors.Is(err, ErrInvalidFetchInterval) {
			t.Errorf("expected ErrInvalidFetchInterval, got %v", err)
		}
	})

	t.Run("zero fetch timeout", func(t *testing.T) {
		t.Parallel()

		c := validConfig()
		c.FetchTimeout = 0
		if err := c.Validate(); !errors.Is(err, ErrInvalidFetchTimeout) {
			t.Errorf("expected ErrInvalidFetchTimeout, got %v", err)
		}
	})

	t.Run("zero workers", func(t *testing.T) {
		t.Parallel()

		c := validConfig()
		c.Workers = 0
		if err := c.Validate(); !errors.Is(err, ErrInvalidWorkers) {
			t.Errorf("expected ErrInvalidWorkers, got %v", err)
		}
	})

	t.Run("negative retry limit", func(t *testing.T) {
		t.Parallel()

		c := validConfig()
		c.PersistenceRetryLimit = -1
		if err := c.Validate(); !errors.Is(err, ErrInvalidRetryLimit) {
			t.Errorf("expected ErrInvalidRetryLimit, got %v", err)
		}
	})
}

// TestBoundHelpers tests the unbounded-value conventions.
func TestBoundHelpers(t *testing.T) {
	t.Parallel()

	c := NewConfig()

	c.MaxProfiles = 0
	if !c.UnboundedProfiles() {
		t.Error("MaxProfiles=0 should be unbounded")
	}
	c.MaxProfiles = 5
	if c.UnboundedProfiles() {
		t.Error("MaxProfiles=5 should be bounded")
	}

	c.MaxDepth = 0
	if c.UnboundedDepth() {
		t.Error("MaxDepth=0 should be bounded (seeds only)")
	}
	c.MaxDepth = -1
	if !c.UnboundedDepth() {
		t.Error("MaxDepth=-1 should be unbounded")
	}
}
