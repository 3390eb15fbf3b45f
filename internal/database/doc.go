// Package database provides SQLite-backed storage for crawl results:
// flagged comments, visited profiles, and the villain (flagged commenter)
// registry.
//
// All write operations are idempotent upserts. A flagged comment is
// keyed by (commenter, profile, text), so re-crawling a profile updates
// timestamps on existing rows instead of duplicating them; a profile
// visit is keyed by the SteamID64. This makes the crawl safe to re-run
// and safe to retry after partial failures.
//
// The driver is modernc.org/sqlite, a pure-Go port, so the binary
// cross-compiles without cgo.
package database
