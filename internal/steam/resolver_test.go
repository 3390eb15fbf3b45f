package steam

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"
)

// vanityServer returns an httptest server mimicking ResolveVanityURL.
// The counter tracks how many API calls were made.
func vanityServer(t *testing.T, steamID string, calls *atomic.Int64) *httptest.Server {
	t.Helper()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		if r.URL.Query().Get("key") == "" {
			w.WriteHeader(http.StatusForbidden)
			return
		}
		vanity := r.URL.Query().Get("vanityurl")
		if vanity == "known" {
			fmt.Fprintf(w, `{"response":{"success":1,"steamid":%q}}`, steamID)
			return
		}
		fmt.Fprint(w, `{"response":{"success":42,"message":"No match"}}`)
	}))
	t.Cleanup(srv.Close)
	return srv
}

// TestResolverResolve tests reference resolution.
func TestResolverResolve(t *testing.T) {
	t.Parallel()

	t.Run("bare steamid64 resolves locally", func(t *testing.T) {
		t.Parallel()

		var calls atomic.Int64
		srv := vanityServer(t, "76561198000000001", &calls)
		r := NewResolver(srv.Client(), "testkey", WithAPIBase(srv.URL))

		id, err := r.Resolve(context.Background(), "76561198000000001")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if id.String() != "76561198000000001" {
			t.Errorf("unexpected id: %s", id)
		}
		if calls.Load() != 0 {
			t.Errorf("bare id should not hit the API, got %d calls", calls.Load())
		}
	})

	t.Run("profiles url resolves locally", func(t *testing.T) {
		t.Parallel()

		r := NewResolver(http.DefaultClient, "")
		id, err := r.Resolve(context.Background(), "https://steamcommunity.com/profiles/76561198000000001/")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if id.String() != "76561198000000001" {
			t.Errorf("unexpected id: %s", id)
		}
	})

	t.Run("vanity url resolves via the web api", func(t *testing.T) {
		t.Parallel()

		var calls atomic.Int64
		srv := vanityServer(t, "76561198000000002", &calls)
		r := NewResolver(srv.Client(), "testkey", WithAPIBase(srv.URL))

		id, err := r.Resolve(context.Background(), "https://steamcommunity.com/id/known")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if id.String() != "76561198000000002" {
			t.Errorf("unexpected id: %s", id)
		}
	})

	t.Run("caches resolved references", func(t *testing.T) {
		t.Parallel()

		var calls atomic.Int64
		srv := vanityServer(t, "76561198000000002", &calls)
		r := NewResolver(srv.Client(), "testkey", WithAPIBase(srv.URL))

		for i := 0; i < 3; i++ {
			if _, err := r.Resolve(context.Background(), "https://steamcommunity.com/id/known"); err != nil {
				t.Fatalf("resolve %d failed: %v", i, err)
			}
		}
		if calls.Load() != 1 {
			t.Errorf("expected 1 API call with caching, got %d", calls.Load())
		}
	})

	t.Run("cache entries expire", func(t *testing.T) {
		t.Parallel()

		var calls atomic.Int64
		srv := vanityServer(t, "76561198000000002", &calls)
		r := NewResolver(srv.Client(), "testkey",
			WithAPIBase(srv.URL),
			WithCacheTTL(time.Nanosecond),
		)

		_, _ = r.Resolve(context.Background(), "https://steamcommunity.com/id/known")
		time.Sleep(time.Millisecond)
		_, _ = r.Resolve(context.Background(), "https://steamcommunity.com/id/known")

		if calls.Load() != 2 {
			t.Errorf("expected expired entry to re-resolve, got %d calls", calls.Load())
		}
	})

	t.Run("unknown vanity wraps ErrResolution", func(t *testing.T) {
		t.Parallel()

		var calls atomic.Int64
		srv := vanityServer(t, "", &calls)
		r := NewResolver(srv.Client(), "testkey", WithAPIBase(srv.URL))

		_, err := r.Resolve(context.Background(), "https://steamcommunity.com/id/nobody")
		if !errors.Is(err, ErrResolution) {
			t.Errorf("expected ErrResolution, got %v", err)
		}
	})

	t.Run("vanity without api key fails fast", func(t *testing.T) {
		t.Parallel()

		r := NewResolver(http.DefaultClient, "")
		_, err := r.Resolve(context.Background(), "https://steamcommunity.com/id/known")
		if !errors.Is(err, ErrMissingAPIKey) {
			t.Errorf("expected ErrMissingAPIKey, got %v", err)
		}
	})

	t.Run("garbage reference wraps ErrResolution", func(t *testing.T) {
		t.Parallel()

		r := NewResolver(http.DefaultClient, "")
		for _, ref := range []string{"", "not-a-url", "https://example.com/other"} {
			if _, err := r.Resolve(context.Background(), ref); !errors.Is(err, ErrResolution) {
				t.Errorf("Resolve(%q): expected ErrResolution, got %v", ref, err)
			}
		}
	})
}
