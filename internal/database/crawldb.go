package database

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/Henry-Pulley/batman/internal/model"
)

// dbFileName is the database file created inside the database directory.
const dbFileName = "batman.db"

// termSeparator joins matched terms in the matched_terms column.
const termSeparator = ","

// CrawlDB provides SQLite-based storage for crawl results.
// It manages the connection pool and exposes idempotent upserts for
// flagged comments, visited profiles, and villains.
type CrawlDB struct {
	db     *sql.DB
	dbPath string
}

// Options configures CrawlDB behavior.
type Options struct {
	// CreateIfNotExists creates the database file if it doesn't exist.
	CreateIfNotExists bool

	// EnableWAL enables Write-Ahead Logging for better concurrent
	// performance. Recommended for most use cases.
	EnableWAL bool
}

// DefaultOptions returns the default database options.
func DefaultOptions() Options {
	return Options{
		CreateIfNotExists: true,
		EnableWAL:         true,
	}
}

// Open opens or creates a CrawlDB at the specified directory.
// If CreateIfNotExists is false and the database doesn't exist, an error
// is returned; this is how read-only consumers (the report command)
// avoid silently creating empty databases.
func Open(dbDir string, opts Options) (*CrawlDB, error) {
	dbPath := filepath.Join(dbDir, dbFileName)

	if !opts.CreateIfNotExists {
		if _, err := os.Stat(dbPath); os.IsNotExist(err) {
			return nil, fmt.Errorf("database not found at %s (run a scan first)", dbPath)
		} else if err != nil {
			return nil, fmt.Errorf("failed to check database path: %w", err)
		}
	} else {
		if err := os.MkdirAll(dbDir, 0750); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	// modernc.org/sqlite uses mode=rw to prevent creating new files and
	// mode=rwc to allow creation.
	dsn := dbPath + "?mode=rw"
	if opts.CreateIfNotExists {
		dsn = dbPath + "?mode=rwc"
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// SQLite supports only one writer; a single connection avoids
	// SQLITE_BUSY churn between crawl workers.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(time.Hour)

	cdb := &CrawlDB{db: db, dbPath: dbPath}

	if opts.EnableWAL {
		if _, err := db.ExecContext(context.Background(), "PRAGMA journal_mode=WAL"); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("failed to enable WAL mode: %w", err)
		}
	}

	if err := cdb.createTables(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create tables: %w", err)
	}

	return cdb, nil
}

// Close closes the database connection.
func (cdb *CrawlDB) Close() error {
	return cdb.db.Close()
}

// Path returns the database file path, for startup logging.
func (cdb *CrawlDB) Path() string {
	return cdb.dbPath
}

// createTables creates the schema if it doesn't exist.
func (cdb *CrawlDB) createTables() error {
	schema := `
	-- Flagged comments: one row per logical (commenter, profile, text) fact
	CREATE TABLE IF NOT EXISTS flagged_comments (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		commenter_id TEXT NOT NULL,
		commenter_alias TEXT NOT NULL,
		profile_id TEXT NOT NULL,
		comment_text TEXT NOT NULL,
		matched_terms TEXT NOT NULL,
		friend_path TEXT NOT NULL,
		commented_at DATETIME,
		first_seen DATETIME DEFAULT CURRENT_TIMESTAMP,
		last_seen DATETIME DEFAULT CURRENT_TIMESTAMP,
		UNIQUE(commenter_id, profile_id, comment_text)
	);

	CREATE INDEX IF NOT EXISTS idx_flagged_commenter ON flagged_comments(commenter_id);
	CREATE INDEX IF NOT EXISTS idx_flagged_profile ON flagged_comments(profile_id);
	CREATE INDEX IF NOT EXISTS idx_flagged_last_seen ON flagged_comments(last_seen);

	-- Profiles visited by a crawl run, success or failure
	CREATE TABLE IF NOT EXISTS profiles (
		steam_id TEXT PRIMARY KEY,
		friend_path TEXT NOT NULL,
		comments_seen INTEGER NOT NULL DEFAULT 0,
		fetch_error TEXT NOT NULL DEFAULT '',
		first_visited DATETIME DEFAULT CURRENT_TIMESTAMP,
		last_visited DATETIME DEFAULT CURRENT_TIMESTAMP
	);

	-- Villains: registry of commenters who have written flagged comments
	CREATE TABLE IF NOT EXISTS villains (
		steam_id TEXT PRIMARY KEY,
		aliases TEXT NOT NULL,
		comment_count INTEGER NOT NULL DEFAULT 0,
		updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);
	`

	_, err := cdb.db.ExecContext(context.Background(), schema)
	return err
}

// UpsertFlaggedComment inserts or refreshes a flagged comment and returns
// its row id. Repeated calls with the same (commenter, profile, text) key
// update the alias, matched terms, and last_seen instead of inserting.
func (cdb *CrawlDB) UpsertFlaggedComment(ctx context.Context, fc *model.FlaggedComment) (int64, error) {
	query := `
	INSERT INTO flagged_comments
		(commenter_id, commenter_alias, profile_id, comment_text, matched_terms, friend_path, commented_at)
	VALUES (?, ?, ?, ?, ?, ?, ?)
	ON CONFLICT(commenter_id, profile_id, comment_text) DO UPDATE SET
		commenter_alias = excluded.commenter_alias,
		matched_terms = excluded.matched_terms,
		last_seen = CURRENT_TIMESTAMP
	RETURNING id
	`

	var commentedAt any
	if !fc.CommentedAt.IsZero() {
		commentedAt = fc.CommentedAt.UTC().Format(time.RFC3339)
	}

	var id int64
	err := cdb.db.QueryRowContext(ctx, query,
		fc.CommenterID.String(),
		fc.CommenterAlias,
		fc.ProfileID.String(),
		fc.Text,
		strings.Join(fc.MatchedTerms, termSeparator),
		fc.Path.String(),
		commentedAt,
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("failed to upsert flagged comment: %w", err)
	}

	return id, nil
}

// UpsertProfileVisited records a completed profile visit, idempotent on
// the SteamID64. fetchErr is empty for successful visits.
func (cdb *CrawlDB) UpsertProfileVisited(ctx context.Context, id model.SteamID, path model.Path, commentsSeen int, fetchErr string) error {
	query := `
	INSERT INTO profiles (steam_id, friend_path, comments_seen, fetch_error)
	VALUES (?, ?, ?, ?)
	ON CONFLICT(steam_id) DO UPDATE SET
		friend_path = excluded.friend_path,
		comments_seen = excluded.comments_seen,
		fetch_error = excluded.fetch_error,
		last_visited = CURRENT_TIMESTAMP
	`

	_, err := cdb.db.ExecContext(ctx, query, id.String(), path.String(), commentsSeen, fetchErr)
	if err != nil {
		return fmt.Errorf("failed to upsert profile: %w", err)
	}
	return nil
}

// UpsertVillain records a flagged commenter, idempotent on the SteamID64.
// The alias is refreshed and the flagged-comment counter incremented.
func (cdb *CrawlDB) UpsertVillain(ctx context.Context, id model.SteamID, alias string) error {
	query := `
	INSERT INTO villains (steam_id, aliases, comment_count)
	VALUES (?, ?, 1)
	ON CONFLICT(steam_id) DO UPDATE SET
		aliases = CASE
			WHEN instr(aliases, excluded.aliases) = 0
			THEN aliases || ', ' || excluded.aliases
			ELSE aliases
		END,
		comment_count = comment_count + 1,
		updated_at = CURRENT_TIMESTAMP
	`

	_, err := cdb.db.ExecContext(ctx, query, id.String(), alias)
	if err != nil {
		return fmt.Errorf("failed to upsert villain: %w", err)
	}
	return nil
}

// FlaggedCommentRecord is a stored flagged comment.
type FlaggedCommentRecord struct {
	ID             int64
	CommenterID    string
	CommenterAlias string
	ProfileID      string
	Text           string
	MatchedTerms   []string
	FriendPath     string
	CommentedAt    time.Time
	FirstSeen      time.Time
	LastSeen       time.Time
}

// ListFlaggedComments returns all flagged comments, newest first.
func (cdb *CrawlDB) ListFlaggedComments(ctx context.Context) ([]FlaggedCommentRecord, error) {
	query := `
	SELECT id, commenter_id, commenter_alias, profile_id, comment_text,
	       matched_terms, friend_path, COALESCE(commented_at, ''), first_seen, last_seen
	FROM flagged_comments
	ORDER BY last_seen DESC, id DESC
	`

	rows, err := cdb.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query flagged comments: %w", err)
	}
	defer rows.Close()

	var results []FlaggedCommentRecord
	for rows.Next() {
		var rec FlaggedCommentRecord
		var terms, commentedAt, firstSeen, lastSeen string
		if err := rows.Scan(
			&rec.ID,
			&rec.CommenterID,
			&rec.CommenterAlias,
			&rec.ProfileID,
			&rec.Text,
			&terms,
			&rec.FriendPath,
			&commentedAt,
			&firstSeen,
			&lastSeen,
		); err != nil {
			return nil, fmt.Errorf("failed to scan flagged comment: %w", err)
		}
		if terms != "" {
			rec.MatchedTerms = strings.Split(terms, termSeparator)
		}
		rec.CommentedAt = parseTimestamp(commentedAt)
		rec.FirstSeen = parseTimestamp(firstSeen)
		rec.LastSeen = parseTimestamp(lastSeen)
		results = append(results, rec)
	}

	return results, rows.Err()
}

// VillainRecord is a stored villain entry.
type VillainRecord struct {
	SteamID      string
	Aliases      string
	CommentCount int
	UpdatedAt    time.Time
}

// ListVillains returns all villains ordered by flagged-comment count.
func (cdb *CrawlDB) ListVillains(ctx context.Context) ([]VillainRecord, error) {
	query := `
	SELECT steam_id, aliases, comment_count, updated_at
	FROM villains
	ORDER BY comment_count DESC, steam_id
	`

	rows, err := cdb.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query villains: %w", err)
	}
	defer rows.Close()

	var results []VillainRecord
	for rows.Next() {
		var rec VillainRecord
		var updatedAt string
		if err := rows.Scan(&rec.SteamID, &rec.Aliases, &rec.CommentCount, &updatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan villain: %w", err)
		}
		rec.UpdatedAt = parseTimestamp(updatedAt)
		results = append(results, rec)
	}

	return results, rows.Err()
}

// Stats aggregates the totals the report leads with.
type Stats struct {
	// FlaggedComments is the number of stored flagged comments.
	FlaggedComments int

	// DistinctCommenters is the number of distinct flagged commenters.
	DistinctCommenters int

	// ProfilesVisited is the number of recorded profile visits.
	ProfilesVisited int
}

// GetStats returns report statistics in one round of queries.
func (cdb *CrawlDB) GetStats(ctx context.Context) (*Stats, error) {
	var s Stats

	if err := cdb.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM flagged_comments").Scan(&s.FlaggedComments); err != nil {
		return nil, fmt.Errorf("failed to count flagged comments: %w", err)
	}
	if err := cdb.db.QueryRowContext(ctx,
		"SELECT COUNT(DISTINCT commenter_id) FROM flagged_comments").Scan(&s.DistinctCommenters); err != nil {
		return nil, fmt.Errorf("failed to count distinct commenters: %w", err)
	}
	if err := cdb.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM profiles").Scan(&s.ProfilesVisited); err != nil {
		return nil, fmt.Errorf("failed to count profiles: %w", err)
	}

	return &s, nil
}

// timestampFormats are the formats SQLite may return for DATETIME
// columns depending on how the value was written.
var timestampFormats = []string{
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05Z",
	time.RFC3339,
	time.RFC3339Nano,
	"2006-01-02 15:04:05.999999999-07:00",
}

// parseTimestamp parses a SQLite timestamp string, returning the zero
// time when no format matches.
func parseTimestamp(s string) time.Time {
	for _, format := range timestampFormats {
		if t, err := time.Parse(format, s); err == nil {
			return t
		}
	}
	return time.Time{}
}
