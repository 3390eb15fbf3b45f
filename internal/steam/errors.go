package steam

import (
	"errors"
	"fmt"

	"github.com/Henry-Pulley/batman/internal/model"
)

// Resolution errors.
var (
	// ErrResolution is wrapped by all resolution failures, so callers can
	// detect "this reference is not a profile" with errors.Is.
	ErrResolution = errors.New("could not resolve profile reference")

	// ErrMissingAPIKey is returned when vanity resolution is needed but
	// no Steam Web API key is configured.
	ErrMissingAPIKey = errors.New("vanity url resolution requires a Steam Web API key")
)

// FetchError describes a failed profile fetch. Transient failures
// (network errors, timeouts, throttling, server errors) may succeed on a
// later run; permanent failures (deleted or private profiles) will not.
type FetchError struct {
	// ProfileID is the profile whose fetch failed.
	ProfileID model.SteamID

	// StatusCode is the HTTP status, when one was received.
	StatusCode int

	// Transient reports whether a later run may succeed.
	Transient bool

	// Err is the underlying cause, when one exists.
	Err error
}

// Error implements the error interface.
func (e *FetchError) Error() string {
	kind := "permanent"
	if e.Transient {
		kind = "transient"
	}
	if e.Err != nil {
		return fmt.Sprintf("fetch %s: %s failure: %v", e.ProfileID, kind, e.Err)
	}
	return fmt.Sprintf("fetch %s: %s failure: status %d", e.ProfileID, kind, e.StatusCode)
}

// Unwrap returns the underlying cause.
func (e *FetchError) Unwrap() error {
	return e.Err
}

// Temporary reports whether the failure is transient.
// The name follows the convention of net.Error.
func (e *FetchError) Temporary() bool {
	return e.Transient
}

// newTransientFetchError wraps a cause as a transient fetch failure.
func newTransientFetchError(id model.SteamID, status int, err error) *FetchError {
	return &FetchError{ProfileID: id, StatusCode: status, Transient: true, Err: err}
}

// newPermanentFetchError wraps a cause as a permanent fetch failure.
func newPermanentFetchError(id model.SteamID, status int, err error) *FetchError {
	return &FetchError{ProfileID: id, StatusCode: status, Transient: false, Err: err}
}
