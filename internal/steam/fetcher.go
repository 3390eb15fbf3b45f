package steam

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/Henry-Pulley/batman/internal/model"
)

// DefaultCommunityBase is the Steam Community site base URL.
const DefaultCommunityBase = "https://steamcommunity.com"

const (
	// defaultPageSize is Steam's comment page size.
	defaultPageSize = 50

	// defaultMaxBodySize bounds a single render response. Comment pages
	// are small; anything past this is not a comment page.
	defaultMaxBodySize = 2 * 1024 * 1024

	// defaultUserAgent identifies the crawler to Steam. The render
	// endpoint rejects requests without a browser-like agent.
	defaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36"
)

// Fetcher retrieves the full comment thread of a profile by paging
// through Steam's comment render endpoint, the same JSON-wrapped HTML
// endpoint the profile page itself uses.
type Fetcher struct {
	// client performs the requests. Required; the caller configures
	// timeouts via request contexts.
	client *http.Client

	// baseURL is the community site base, overridable for tests.
	baseURL string

	// pageSize is the comment count requested per page.
	pageSize int

	// maxBodySize bounds each response body read.
	maxBodySize int64

	// userAgent is sent on every request.
	userAgent string

	// logger for structured logging.
	logger *slog.Logger
}

// FetcherOption configures a Fetcher.
type FetcherOption func(*Fetcher)

// WithCommunityBase overrides the community site base URL. Used by tests.
func WithCommunityBase(base string) FetcherOption {
	return func(f *Fetcher) {
		f.baseURL = strings.TrimRight(base, "/")
	}
}

// WithPageSize overrides the comment page size.
func WithPageSize(n int) FetcherOption {
	return func(f *Fetcher) {
		if n > 0 {
			f.pageSize = n
		}
	}
}

// WithMaxBodySize overrides the per-response body limit.
func WithMaxBodySize(n int64) FetcherOption {
	return func(f *Fetcher) {
		f.maxBodySize = n
	}
}

// WithFetcherLogger sets a custom logger.
func WithFetcherLogger(logger *slog.Logger) FetcherOption {
	return func(f *Fetcher) {
		f.logger = logger
	}
}

// NewFetcher creates a Fetcher using the given HTTP client.
func NewFetcher(client *http.Client, opts ...FetcherOption) *Fetcher {
	f := &Fetcher{
		client:      client,
		baseURL:     DefaultCommunityBase,
		pageSize:    defaultPageSize,
		maxBodySize: defaultMaxBodySize,
		userAgent:   defaultUserAgent,
	}

	for _, opt := range opts {
		opt(f)
	}

	if f.logger == nil {
		f.logger = slog.Default()
	}

	return f
}

// renderResponse is the JSON envelope of the comment render endpoint.
type renderResponse struct {
	Success      bool   `json:"success"`
	CommentsHTML string `json:"comments_html"`
	TotalCount   int    `json:"total_count"`
}

// FetchProfile retrieves all comments on the profile and the distinct
// commenter identities linked from them. Commenters with vanity URLs
// appear in the returned comments with a zero AuthorID and their
// AuthorURL set; the caller resolves those through a Resolver.
//
// Failures are reported as *FetchError with transience classified.
func (f *Fetcher) FetchProfile(ctx context.Context, id model.SteamID) (*model.ProfilePage, error) {
	page := &model.ProfilePage{ProfileID: id}
	seen := make(map[string]bool)
	now := time.Now()

	for start := 0; ; start += f.pageSize {
		rr, err := f.fetchPage(ctx, id, start)
		if err != nil {
			return nil, err
		}

		if rr.CommentsHTML == "" {
			break
		}

		raws := ParseCommentsHTML(rr.CommentsHTML)
		if len(raws) == 0 {
			break
		}

		for _, raw := range raws {
			comment := model.Comment{
				AuthorURL:   raw.AuthorURL,
				AuthorAlias: raw.AuthorAlias,
				Text:        raw.Text,
				PostedAt:    ParseTimestamp(raw.Timestamp, now),
			}

			// /profiles/ URLs carry the SteamID64 directly; vanity
			// URLs are left for the caller's resolver.
			if authorID, ok := authorIDFromURL(raw.AuthorURL); ok {
				comment.AuthorID = authorID
				if !seen[authorID.String()] && authorID != id {
					seen[authorID.String()] = true
					page.Links = append(page.Links, authorID)
				}
			}

			page.Comments = append(page.Comments, comment)
		}

		if len(raws) < f.pageSize {
			break
		}
	}

	f.logger.Debug("fetched profile",
		"profile", id.String(),
		"comments", len(page.Comments),
		"links", len(page.Links),
	)

	return page, nil
}

// fetchPage fetches one page of the comment thread.
func (f *Fetcher) fetchPage(ctx context.Context, id model.SteamID, start int) (*renderResponse, error) {
	endpoint := fmt.Sprintf("%s/comment/Profile/render/%s/-1/", f.baseURL, id)

	form := url.Values{}
	form.Set("start", strconv.Itoa(start))
	form.Set("count", strconv.Itoa(f.pageSize))
	form.Set("feature2", "-1")

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, newPermanentFetchError(id, 0, err)
	}
	req.Header.Set("User-Agent", f.userAgent)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded; charset=UTF-8")
	req.Header.Set("X-Requested-With", "XMLHttpRequest")

	resp, err := f.client.Do(req)
	if err != nil {
		// Network errors and context timeouts may clear up next run.
		return nil, newTransientFetchError(id, 0, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, classifyStatus(id, resp.StatusCode)
	}

	var rr renderResponse
	if err := json.NewDecoder(io.LimitReader(resp.Body, f.maxBodySize)).Decode(&rr); err != nil {
		return nil, newTransientFetchError(id, resp.StatusCode, fmt.Errorf("decoding render response: %w", err))
	}

	if !rr.Success {
		// The endpoint reports success=false for private and deleted
		// profiles; there is nothing to retry.
		return nil, newPermanentFetchError(id, resp.StatusCode, fmt.Errorf("render endpoint reported failure"))
	}

	return &rr, nil
}

// classifyStatus maps an HTTP status to a fetch error.
func classifyStatus(id model.SteamID, status int) *FetchError {
	switch {
	case status == http.StatusForbidden, status == http.StatusNotFound, status == http.StatusGone:
		return newPermanentFetchError(id, status, nil)
	default:
		// Throttling (429) and server errors are worth a later run.
		return newTransientFetchError(id, status, nil)
	}
}

// authorIDFromURL extracts a SteamID64 from a /profiles/ URL.
func authorIDFromURL(profileURL string) (model.SteamID, bool) {
	idx := strings.Index(profileURL, "/profiles/")
	if idx < 0 {
		return model.SteamID{}, false
	}
	part := profileURL[idx+len("/profiles/"):]
	part = strings.Trim(strings.SplitN(part, "?", 2)[0], "/")
	id, err := model.NewSteamID(part)
	if err != nil {
		return model.SteamID{}, false
	}
	return id, true
}
