package engine

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/Henry-Pulley/batman/internal/config"
	"github.com/Henry-Pulley/batman/internal/database"
	"github.com/Henry-Pulley/batman/internal/frontier"
	"github.com/Henry-Pulley/batman/internal/matcher"
	"github.com/Henry-Pulley/batman/internal/model"
	"github.com/Henry-Pulley/batman/internal/ratelimit"
)

var (
	// ErrAlreadyStarted is returned when Run is called more than once.
	ErrAlreadyStarted = errors.New("engine: run already started")

	// ErrNoSeedsResolved is returned when no seed reference could be
	// resolved to a profile identity.
	ErrNoSeedsResolved = errors.New("engine: no seeds resolved")
)

// idlePollInterval is how often an idle worker re-checks the frontier
// while other workers still have profiles in flight.
const idlePollInterval = 10 * time.Millisecond

// maxConsecutivePersistFailures is how many retry-exhausted writes in a
// row mark the store as totally unavailable. One failed write is logged
// and skipped; a store failing every write aborts the run.
const maxConsecutivePersistFailures = 5

// Fetcher retrieves a profile's comment page.
type Fetcher interface {
	FetchProfile(ctx context.Context, id model.SteamID) (*model.ProfilePage, error)
}

// Resolver turns a profile reference (SteamID64, /profiles/ URL, or
// vanity URL) into a canonical identity.
type Resolver interface {
	Resolve(ctx context.Context, ref string) (model.SteamID, error)
}

// Store persists crawl findings. All methods are idempotent upserts.
type Store interface {
	UpsertFlaggedComment(ctx context.Context, fc *model.FlaggedComment) (int64, error)
	UpsertProfileVisited(ctx context.Context, id model.SteamID, path model.Path, commentsSeen int, fetchErr string) error
	UpsertVillain(ctx context.Context, id model.SteamID, alias string) error
}

// Limiter paces outbound fetches across all workers.
type Limiter interface {
	Wait(ctx context.Context) error
}

// Result is the outcome of a completed run.
type Result struct {
	// Summary holds the run counters.
	Summary model.RunSummary

	// Edges is the discovered graph topology in discovery order.
	Edges []model.GraphEdge

	// State is the terminal run state, done or aborted.
	State model.RunState
}

// Engine coordinates one crawl run. Construct with New, start with Run;
// an Engine is single-use.
type Engine struct {
	cfg      *config.Config
	fetcher  Fetcher
	resolver Resolver
	store    Store
	matcher  *matcher.Matcher
	limiter  Limiter
	logger   *slog.Logger

	frontier *frontier.Frontier
	graph    *graphRecorder
	events   chan EvidenceEvent

	mu      sync.Mutex
	state   model.RunState
	summary model.RunSummary

	// persistFailStreak counts consecutive retry-exhausted writes; any
	// successful write resets it.
	persistFailStreak int
}

// Option configures an Engine.
type Option func(*Engine)

// WithLogger sets the engine logger.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// WithLimiter replaces the default fetch-interval limiter.
func WithLimiter(l Limiter) Option {
	return func(e *Engine) {
		if l != nil {
			e.limiter = l
		}
	}
}

// WithEventBuffer sets the evidence event channel capacity.
func WithEventBuffer(n int) Option {
	return func(e *Engine) {
		if n > 0 {
			e.events = make(chan EvidenceEvent, n)
		}
	}
}

// New creates an Engine for one run over the given configuration.
func New(cfg *config.Config, f Fetcher, r Resolver, s Store, m *matcher.Matcher, opts ...Option) *Engine {
	e := &Engine{
		cfg:      cfg,
		fetcher:  f,
		resolver: r,
		store:    s,
		matcher:  m,
		limiter:  ratelimit.New(cfg.FetchInterval),
		logger:   slog.Default(),
		frontier: frontier.New(),
		graph:    newGraphRecorder(),
		events:   make(chan EvidenceEvent, defaultEventBuffer),
	}

	for _, opt := range opts {
		opt(e)
	}

	return e
}

// State returns the current run state.
func (e *Engine) State() model.RunState {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state
}

// Run executes the crawl until the frontier drains, a traversal bound is
// reached, the context is canceled, or persistence fails unrecoverably.
// The returned Result is valid even when err is non-nil; partial results
// committed before an abort survive.
func (e *Engine) Run(ctx context.Context) (*Result, error) {
	e.mu.Lock()
	if e.state != model.RunStateIdle {
		e.mu.Unlock()
		return nil, ErrAlreadyStarted
	}
	e.state = model.RunStateRunning
	e.summary.RunID = uuid.NewString()
	e.summary.SeedRefs = append([]string(nil), e.cfg.Seeds...)
	e.summary.StartedAt = time.Now()
	e.mu.Unlock()

	e.logger.Info("crawl run starting",
		"run_id", e.summary.RunID,
		"seeds", len(e.cfg.Seeds),
		"lexicon_size", e.matcher.Size(),
		"workers", e.cfg.Workers,
	)

	err := e.seedFrontier(ctx)
	if err == nil {
		g, gctx := errgroup.WithContext(ctx)
		for i := 0; i < e.cfg.Workers; i++ {
			g.Go(func() error {
				return e.worker(gctx)
			})
		}
		err = g.Wait()
	}

	// Cancellation is a graceful drain, not an abort: everything
	// committed before the signal stands and the run finishes cleanly.
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		e.logger.Info("run cancelled, draining", "run_id", e.summary.RunID)
		err = nil
	}

	e.mu.Lock()
	e.summary.FinishedAt = time.Now()
	e.summary.EdgesRecorded = e.graph.count()
	if err != nil {
		e.state = model.RunStateAborted
	} else {
		e.state = model.RunStateDone
	}
	result := &Result{
		Summary: e.summary,
		Edges:   e.graph.snapshot(),
		State:   e.state,
	}
	e.mu.Unlock()

	close(e.events)

	e.logger.Info("crawl run finished",
		"run_id", result.Summary.RunID,
		"state", result.State.String(),
		"profiles_visited", result.Summary.ProfilesVisited,
		"comments_flagged", result.Summary.CommentsFlagged,
		"duration", result.Summary.FinishedAt.Sub(result.Summary.StartedAt).Round(time.Millisecond),
	)

	return result, err
}

// seedFrontier resolves seed references and enqueues them at depth zero.
// A seed that fails to resolve is logged and skipped; the run only fails
// when no seed resolves at all.
func (e *Engine) seedFrontier(ctx context.Context) error {
	for _, ref := range e.cfg.Seeds {
		id, err := e.resolver.Resolve(ctx, ref)
		if err != nil {
			e.logger.Warn("skipping unresolvable seed", "seed", ref, "error", err)
			continue
		}
		if e.frontier.Offer(id, model.NewPath(id)) {
			e.mu.Lock()
			e.summary.Seeds = append(e.summary.Seeds, id)
			e.mu.Unlock()
		}
	}

	if e.frontier.Len() == 0 {
		return ErrNoSeedsResolved
	}
	return nil
}

// worker processes frontier entries until traversal completes or the
// context is canceled. Multiple workers share the frontier and limiter.
func (e *Engine) worker(ctx context.Context) error {
	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		if !e.reserveVisit() {
			e.setDraining()
			return nil
		}

		entry, ok := e.frontier.Take()
		if !ok {
			e.unreserveVisit()
			if e.frontier.InFlight() == 0 {
				return nil
			}
			// Another worker may still discover new links.
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(idlePollInterval):
			}
			continue
		}

		if err := e.limiter.Wait(ctx); err != nil {
			e.frontier.MarkDone(entry.ID)
			return err
		}

		if err := e.processProfile(ctx, entry); err != nil {
			e.frontier.MarkDone(entry.ID)
			return err
		}
		e.frontier.MarkDone(entry.ID)
	}
}

// processProfile fetches one profile, matches its comments, persists the
// findings, and offers newly discovered links. A fetch failure is
// recorded and contained; only persistence failure or cancellation
// returns an error.
func (e *Engine) processProfile(ctx context.Context, entry frontier.Entry) error {
	fetchCtx, cancel := context.WithTimeout(ctx, e.cfg.FetchTimeout)
	page, err := e.fetcher.FetchProfile(fetchCtx, entry.ID)
	cancel()

	if err != nil {
		e.mu.Lock()
		e.summary.FetchFailures++
		e.mu.Unlock()

		e.logger.Warn("profile fetch failed",
			"profile", entry.ID.String(),
			"depth", entry.Path.Depth(),
			"error", err,
		)
		_, perr := e.persist(ctx, func(ctx context.Context) error {
			return e.store.UpsertProfileVisited(ctx, entry.ID, entry.Path, 0, err.Error())
		}, "op", "record_failed_visit", "profile", entry.ID.String())
		return perr
	}

	e.logger.Debug("profile fetched",
		"profile", entry.ID.String(),
		"depth", entry.Path.Depth(),
		"comments", len(page.Comments),
		"links", len(page.Links),
	)

	for _, c := range page.Comments {
		e.mu.Lock()
		e.summary.CommentsSeen++
		e.mu.Unlock()

		if err := e.processComment(ctx, entry, c); err != nil {
			return err
		}
	}

	for _, link := range page.Links {
		e.offerLink(entry, link)
	}

	_, perr := e.persist(ctx, func(ctx context.Context) error {
		return e.store.UpsertProfileVisited(ctx, entry.ID, entry.Path, len(page.Comments), "")
	}, "op", "record_visit", "profile", entry.ID.String())
	return perr
}

// processComment matches a single comment and persists it when flagged.
func (e *Engine) processComment(ctx context.Context, entry frontier.Entry, c model.Comment) error {
	terms := e.matcher.Match(c.Text)
	if terms == nil {
		return nil
	}

	authorID := c.AuthorID
	if authorID.IsZero() {
		// Vanity-URL commenters carry no id in the markup; resolve
		// lazily, only for comments that actually matched. The Web API
		// call shares the fetch limiter.
		if err := e.limiter.Wait(ctx); err != nil {
			return err
		}
		resolved, err := e.resolver.Resolve(ctx, c.AuthorURL)
		if err != nil {
			e.logger.Warn("flagged comment dropped, author unresolvable",
				"profile", entry.ID.String(),
				"author_url", c.AuthorURL,
				"error", err,
			)
			return nil
		}
		authorID = resolved

		// A flagged vanity commenter is a traversal link like any
		// /profiles/ author; the resolved identity joins the frontier
		// under the same depth policy.
		if authorID != entry.ID {
			e.offerLink(entry, authorID)
		}
	}

	fc := &model.FlaggedComment{
		CommenterID:    authorID,
		CommenterAlias: c.AuthorAlias,
		ProfileID:      entry.ID,
		Text:           c.Text,
		MatchedTerms:   terms,
		Path:           entry.Path,
		CommentedAt:    c.PostedAt,
		DiscoveredAt:   time.Now(),
	}

	ok, err := e.persist(ctx, func(ctx context.Context) error {
		_, err := e.store.UpsertFlaggedComment(ctx, fc)
		return err
	}, "op", "upsert_flagged_comment", "profile", entry.ID.String(), "commenter", authorID.String())
	if err != nil {
		return err
	}
	if !ok {
		// The finding was not committed; skip the dependent villain
		// write and the evidence event.
		return nil
	}
	if _, err := e.persist(ctx, func(ctx context.Context) error {
		return e.store.UpsertVillain(ctx, authorID, c.AuthorAlias)
	}, "op", "upsert_villain", "commenter", authorID.String()); err != nil {
		return err
	}

	e.mu.Lock()
	e.summary.CommentsFlagged++
	runID := e.summary.RunID
	e.mu.Unlock()

	e.logger.Info("comment flagged",
		"profile", entry.ID.String(),
		"commenter", authorID.String(),
		"terms", terms,
		"path", entry.Path.String(),
	)

	e.emitEvent(EvidenceEvent{
		RunID:       runID,
		ProfileID:   entry.ID.String(),
		CommenterID: authorID.String(),
		Text:        c.Text,
		Fingerprint: fc.Fingerprint(),
	})

	return nil
}

// offerLink records the discovered edge and enqueues the child unless the
// depth bound excludes it. Over-depth children keep their edge so the
// report still shows the full discovered topology.
func (e *Engine) offerLink(entry frontier.Entry, link model.SteamID) {
	e.graph.record(entry.ID, link)

	childDepth := entry.Path.Depth() + 1
	if !e.cfg.UnboundedDepth() && childDepth > e.cfg.MaxDepth {
		e.logger.Debug("link past depth bound, edge recorded only",
			"parent", entry.ID.String(),
			"child", link.String(),
			"depth", childDepth,
		)
		return
	}

	e.frontier.Offer(link, entry.Path.Child(link))
}

// persist runs a store write with bounded retries. A write that still
// fails after its retries is logged with the given context attributes
// and skipped; ok reports whether the write committed. The run aborts
// only when the store looks totally unavailable, signalled by too many
// consecutive failed writes, or when the context is cancelled.
func (e *Engine) persist(ctx context.Context, op func(ctx context.Context) error, attrs ...any) (bool, error) {
	err := database.WithRetry(ctx, e.cfg.PersistenceRetryLimit, op)
	if err == nil {
		e.mu.Lock()
		e.persistFailStreak = 0
		e.mu.Unlock()
		return true, nil
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false, err
	}

	e.mu.Lock()
	e.persistFailStreak++
	e.summary.PersistFailures++
	streak := e.persistFailStreak
	e.mu.Unlock()

	e.logger.Error("persistence write failed, skipping",
		append(attrs, "error", err, "consecutive_failures", streak)...)

	if streak >= maxConsecutivePersistFailures {
		return false, fmt.Errorf("persistence unavailable after %d consecutive write failures: %w", streak, err)
	}
	return false, nil
}

// reserveVisit claims one slot of the profile budget, incrementing the
// visited counter. It returns false when the budget is exhausted.
func (e *Engine) reserveVisit() bool {
	e.mu.Lock()
	defer e.mu.Unlock()

	if !e.cfg.UnboundedProfiles() && e.summary.ProfilesVisited >= e.cfg.MaxProfiles {
		return false
	}
	e.summary.ProfilesVisited++
	return true
}

// unreserveVisit returns an unused budget slot claimed by reserveVisit.
func (e *Engine) unreserveVisit() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.summary.ProfilesVisited--
}

// setDraining marks the run as draining once the profile budget is hit.
func (e *Engine) setDraining() {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.state == model.RunStateRunning {
		e.state = model.RunStateDraining
		e.logger.Info("profile budget reached, draining",
			"max_profiles", e.cfg.MaxProfiles,
		)
	}
}
