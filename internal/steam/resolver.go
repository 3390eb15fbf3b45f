package steam

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/Henry-Pulley/batman/internal/model"
)

// DefaultAPIBase is the Steam Web API endpoint.
const DefaultAPIBase = "https://api.steampowered.com"

// defaultCacheTTL is how long a resolved reference stays cached.
// Vanity names rarely move between accounts within an hour, and the
// cache only lives for one process anyway.
const defaultCacheTTL = time.Hour

// Resolver maps profile references to canonical SteamID64 identities.
// Bare SteamID64s and /profiles/ URLs are resolved locally; /id/ vanity
// URLs go through the ISteamUser/ResolveVanityURL Web API method.
// Resolved references are cached with a TTL.
type Resolver struct {
	// client performs Web API requests. Required.
	client *http.Client

	// apiKey authenticates Web API requests. Only needed for vanity URLs.
	apiKey string

	// apiBase is the Web API base URL, overridable for tests.
	apiBase string

	// cacheTTL bounds how long cached resolutions are reused.
	cacheTTL time.Duration

	// logger for structured logging.
	logger *slog.Logger

	// mu guards cache.
	mu    sync.Mutex
	cache map[string]cachedID
}

// cachedID is a cache entry with its resolution time.
type cachedID struct {
	id         model.SteamID
	resolvedAt time.Time
}

// ResolverOption configures a Resolver.
type ResolverOption func(*Resolver)

// WithAPIBase overrides the Steam Web API base URL. Used by tests.
func WithAPIBase(base string) ResolverOption {
	return func(r *Resolver) {
		r.apiBase = strings.TrimRight(base, "/")
	}
}

// WithCacheTTL overrides the resolution cache TTL.
func WithCacheTTL(ttl time.Duration) ResolverOption {
	return func(r *Resolver) {
		r.cacheTTL = ttl
	}
}

// WithResolverLogger sets a custom logger.
func WithResolverLogger(logger *slog.Logger) ResolverOption {
	return func(r *Resolver) {
		r.logger = logger
	}
}

// NewResolver creates a Resolver using the given HTTP client and API key.
// The key may be empty when only numeric references will be resolved.
func NewResolver(client *http.Client, apiKey string, opts ...ResolverOption) *Resolver {
	r := &Resolver{
		client:   client,
		apiKey:   apiKey,
		apiBase:  DefaultAPIBase,
		cacheTTL: defaultCacheTTL,
		cache:    make(map[string]cachedID),
	}

	for _, opt := range opts {
		opt(r)
	}

	if r.logger == nil {
		r.logger = slog.Default()
	}

	return r
}

// Resolve maps a profile reference to its canonical SteamID64.
// Accepted forms:
//
//	76561198056686440
//	https://steamcommunity.com/profiles/76561198056686440
//	https://steamcommunity.com/id/somevanityname
//
// Failures wrap ErrResolution.
func (r *Resolver) Resolve(ctx context.Context, ref string) (model.SteamID, error) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return model.SteamID{}, fmt.Errorf("%w: empty reference", ErrResolution)
	}

	if id, ok := r.cached(ref); ok {
		return id, nil
	}

	id, err := r.resolve(ctx, ref)
	if err != nil {
		return model.SteamID{}, err
	}

	r.store(ref, id)
	return id, nil
}

// resolve performs the actual resolution, bypassing the cache.
func (r *Resolver) resolve(ctx context.Context, ref string) (model.SteamID, error) {
	// Bare SteamID64.
	if id, err := model.NewSteamID(ref); err == nil {
		return id, nil
	}

	identifier, vanity, err := splitProfileRef(ref)
	if err != nil {
		return model.SteamID{}, err
	}

	if !vanity {
		id, err := model.NewSteamID(identifier)
		if err != nil {
			return model.SteamID{}, fmt.Errorf("%w: %q: %w", ErrResolution, ref, err)
		}
		return id, nil
	}

	return r.resolveVanity(ctx, identifier)
}

// splitProfileRef extracts the identifier segment of a profile URL and
// reports whether it is a vanity name.
func splitProfileRef(ref string) (identifier string, vanity bool, err error) {
	switch {
	case strings.Contains(ref, "/profiles/"):
		part := ref[strings.Index(ref, "/profiles/")+len("/profiles/"):]
		return strings.Trim(strings.SplitN(part, "?", 2)[0], "/"), false, nil
	case strings.Contains(ref, "/id/"):
		part := ref[strings.Index(ref, "/id/")+len("/id/"):]
		return strings.Trim(strings.SplitN(part, "?", 2)[0], "/"), true, nil
	default:
		return "", false, fmt.Errorf("%w: %q is not a profile URL or SteamID64", ErrResolution, ref)
	}
}

// vanityResponse is the Web API response envelope for ResolveVanityURL.
type vanityResponse struct {
	Response struct {
		Success int    `json:"success"`
		SteamID string `json:"steamid"`
		Message string `json:"message"`
	} `json:"response"`
}

// vanitySuccess is the success code in the ResolveVanityURL response.
const vanitySuccess = 1

// resolveVanity resolves a vanity name via the Steam Web API.
func (r *Resolver) resolveVanity(ctx context.Context, vanity string) (model.SteamID, error) {
	if r.apiKey == "" {
		return model.SteamID{}, fmt.Errorf("%w: %w", ErrResolution, ErrMissingAPIKey)
	}

	endpoint := r.apiBase + "/ISteamUser/ResolveVanityURL/v0001/"
	params := url.Values{}
	params.Set("key", r.apiKey)
	params.Set("vanityurl", vanity)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint+"?"+params.Encode(), nil)
	if err != nil {
		return model.SteamID{}, fmt.Errorf("%w: %w", ErrResolution, err)
	}

	r.logger.Debug("resolving vanity url", "vanity", vanity, "endpoint", endpoint)

	resp, err := r.client.Do(req)
	if err != nil {
		return model.SteamID{}, fmt.Errorf("%w: %w", ErrResolution, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return model.SteamID{}, fmt.Errorf("%w: web api returned status %d", ErrResolution, resp.StatusCode)
	}

	var vr vanityResponse
	if err := json.NewDecoder(io.LimitReader(resp.Body, 1<<20)).Decode(&vr); err != nil {
		return model.SteamID{}, fmt.Errorf("%w: %w", ErrResolution, err)
	}

	if vr.Response.Success != vanitySuccess {
		return model.SteamID{}, fmt.Errorf("%w: vanity %q: %s", ErrResolution, vanity, vr.Response.Message)
	}

	id, err := model.NewSteamID(vr.Response.SteamID)
	if err != nil {
		return model.SteamID{}, fmt.Errorf("%w: web api returned %q: %w", ErrResolution, vr.Response.SteamID, err)
	}

	return id, nil
}

// cached returns a fresh cache entry for the reference, if any.
func (r *Resolver) cached(ref string) (model.SteamID, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	entry, ok := r.cache[ref]
	if !ok || time.Since(entry.resolvedAt) > r.cacheTTL {
		return model.SteamID{}, false
	}
	return entry.id, true
}

// store caches a resolution.
func (r *Resolver) store(ref string, id model.SteamID) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.cache[ref] = cachedID{id: id, resolvedAt: time.Now()}
}
