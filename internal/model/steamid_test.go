package model

import (
	"errors"
	"testing"
)

// TestNewSteamID tests SteamID validation.
func TestNewSteamID(t *testing.T) {
	t.Parallel()

	t.Run("accepts a valid 17-digit id", func(t *testing.T) {
		t.Parallel()

		id, err := NewSteamID("76561198056686440")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if id.String() != "76561198056686440" {
			t.Errorf("expected id to round-trip, got %q", id.String())
		}
	})

	t.Run("trims surrounding whitespace", func(t *testing.T) {
		t.Parallel()

		id, err := NewSteamID("  76561198056686440\n")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if id.String() != "76561198056686440" {
			t.Errorf("expected trimmed id, got %q", id.String())
		}
	})

	t.Run("rejects empty input", func(t *testing.T) {
		t.Parallel()

		_, err := NewSteamID("   ")
		if !errors.Is(err, ErrEmptySteamID) {
			t.Errorf("expected ErrEmptySteamID, got %v", err)
		}
	})

	t.Run("rejects wrong length", func(t *testing.T) {
		t.Parallel()

		for _, input := range []string{"123", "765611980566864401"} {
			if _, err := NewSteamID(input); !errors.Is(err, ErrInvalidSteamID) {
				t.Errorf("NewSteamID(%q): expected ErrInvalidSteamID, got %v", input, err)
			}
		}
	})

	t.Run("rejects non-digit characters", func(t *testing.T) {
		t.Parallel()

		if _, err := NewSteamID("7656119805668644x"); !errors.Is(err, ErrInvalidSteamID) {
			t.Errorf("expected ErrInvalidSteamID, got %v", err)
		}
	})
}

// TestSteamIDProfileURL tests canonical URL construction.
func TestSteamIDProfileURL(t *testing.T) {
	t.Parallel()

	id := MustNewSteamID("76561198056686440")
	want := "https://steamcommunity.com/profiles/76561198056686440"
	if got := id.ProfileURL(); got != want {
		t.Errorf("expected %q, got %q", want, got)
	}
}

// TestSteamIDIsZero tests zero-value detection.
func TestSteamIDIsZero(t *testing.T) {
	t.Parallel()

	var zero SteamID
	if !zero.IsZero() {
		t.Error("zero value should report IsZero")
	}
	if MustNewSteamID("76561198056686440").IsZero() {
		t.Error("valid id should not report IsZero")
	}
}
