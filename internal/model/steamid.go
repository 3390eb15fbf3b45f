package model

import (
	"errors"
	"strings"
)

// SteamID errors.
var (
	// ErrInvalidSteamID is returned when the identifier is not a 17-digit SteamID64.
	ErrInvalidSteamID = errors.New("invalid steam id: must be a 17-digit SteamID64")
	// ErrEmptySteamID is returned when the identifier is empty.
	ErrEmptySteamID = errors.New("steam id cannot be empty")
)

// steamIDLength is the length of a SteamID64 in decimal digits.
// Valve has used 17-digit identifiers since the SteamID64 format was
// introduced, and profile URLs embed them verbatim.
const steamIDLength = 17

// SteamID is an immutable value object representing a canonical SteamID64.
// It is the stable identity of one Steam profile: vanity names can change,
// but the SteamID64 never does.
type SteamID struct {
	id string
}

// NewSteamID creates a SteamID from a string.
// The input must be exactly 17 decimal digits after trimming whitespace.
func NewSteamID(id string) (SteamID, error) {
	trimmed := strings.TrimSpace(id)
	if trimmed == "" {
		return SteamID{}, ErrEmptySteamID
	}
	if !isSteamID64(trimmed) {
		return SteamID{}, ErrInvalidSteamID
	}
	return SteamID{id: trimmed}, nil
}

// MustNewSteamID creates a SteamID or panics if invalid.
// Use only for known-valid identifiers in tests or initialization.
func MustNewSteamID(id string) SteamID {
	sid, err := NewSteamID(id)
	if err != nil {
		panic(err)
	}
	return sid
}

// String returns the decimal SteamID64 representation.
func (s SteamID) String() string {
	return s.id
}

// IsZero reports whether the SteamID is the zero value (unset).
func (s SteamID) IsZero() bool {
	return s.id == ""
}

// ProfileURL returns the canonical community profile URL for this identity.
func (s SteamID) ProfileURL() string {
	return "https://steamcommunity.com/profiles/" + s.id
}

// isSteamID64 checks whether a string is exactly 17 decimal digits.
func isSteamID64(s string) bool {
	if len(s) != steamIDLength {
		return false
	}
	for _, c := range s {
		if c < '0' || c > '9' {
			return false
		}
	}
	return true
}
