package database

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/Henry-Pulley/batman/internal/model"
)

// setupTestDB creates a temporary database for testing.
func setupTestDB(t *testing.T) *CrawlDB {
	t.Helper()

	cdb, err := Open(t.TempDir(), DefaultOptions())
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}
	t.Cleanup(func() {
		_ = cdb.Close()
	})
	return cdb
}

// testFlaggedComment builds a flagged comment fixture.
func testFlaggedComment(t *testing.T, text string) *model.FlaggedComment {
	t.Helper()

	commenter := model.MustNewSteamID("76561198000000002")
	profile := model.MustNewSteamID("76561198000000001")
	return &model.FlaggedComment{
		CommenterID:    commenter,
		CommenterAlias: "xXghoulXx",
		ProfileID:      profile,
		Text:           text,
		MatchedTerms:   []string{"trash"},
		Path:           model.NewPath(profile),
		CommentedAt:    time.Date(2025, time.July, 26, 13, 59, 22, 0, time.UTC),
	}
}

// TestOpen tests database opening behavior.
func TestOpen(t *testing.T) {
	t.Parallel()

	t.Run("creates database when allowed", func(t *testing.T) {
		t.Parallel()

		cdb, err := Open(t.TempDir(), DefaultOptions())
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		defer cdb.Close()

		if cdb.Path() == "" {
			t.Error("expected non-empty database path")
		}
	})

	t.Run("fails on missing database when creation disabled", func(t *testing.T) {
		t.Parallel()

		opts := Options{CreateIfNotExists: false, EnableWAL: true}
		if _, err := Open(t.TempDir(), opts); err == nil {
			t.Error("expected error for missing database")
		}
	})

	t.Run("reopens existing database", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		cdb, err := Open(dir, DefaultOptions())
		if err != nil {
			t.Fatalf("first open failed: %v", err)
		}
		if _, err := cdb.UpsertFlaggedComment(context.Background(), testFlaggedComment(t, "you are trash")); err != nil {
			t.Fatalf("upsert failed: %v", err)
		}
		_ = cdb.Close()

		cdb, err = Open(dir, Options{CreateIfNotExists: false, EnableWAL: true})
		if err != nil {
			t.Fatalf("reopen failed: %v", err)
		}
		defer cdb.Close()

		stats, err := cdb.GetStats(context.Background())
		if err != nil {
			t.Fatalf("stats failed: %v", err)
		}
		if stats.FlaggedComments != 1 {
			t.Errorf("expected 1 flagged comment after reopen, got %d", stats.FlaggedComments)
		}
	})
}

// TestUpsertFlaggedComment tests idempotent flagged-comment persistence.
func TestUpsertFlaggedComment(t *testing.T) {
	t.Parallel()

	t.Run("insert then refresh keeps one row", func(t *testing.T) {
		t.Parallel()

		cdb := setupTestDB(t)
		ctx := context.Background()
		fc := testFlaggedComment(t, "you are trash")

		id1, err := cdb.UpsertFlaggedComment(ctx, fc)
		if err != nil {
			t.Fatalf("first upsert failed: %v", err)
		}

		fc.CommenterAlias = "renamed"
		id2, err := cdb.UpsertFlaggedComment(ctx, fc)
		if err != nil {
			t.Fatalf("second upsert failed: %v", err)
		}
		if id1 != id2 {
			t.Errorf("expected the same row id, got %d then %d", id1, id2)
		}

		records, err := cdb.ListFlaggedComments(ctx)
		if err != nil {
			t.Fatalf("list failed: %v", err)
		}
		if len(records) != 1 {
			t.Fatalf("expected 1 record, got %d", len(records))
		}
		if records[0].CommenterAlias != "renamed" {
			t.Errorf("alias should be refreshed, got %q", records[0].CommenterAlias)
		}
		if len(records[0].MatchedTerms) != 1 || records[0].MatchedTerms[0] != "trash" {
			t.Errorf("unexpected matched terms: %v", records[0].MatchedTerms)
		}
	})

	t.Run("different text is a distinct row", func(t *testing.T) {
		t.Parallel()

		cdb := setupTestDB(t)
		ctx := context.Background()

		id1, err := cdb.UpsertFlaggedComment(ctx, testFlaggedComment(t, "you are trash"))
		if err != nil {
			t.Fatalf("upsert failed: %v", err)
		}
		id2, err := cdb.UpsertFlaggedComment(ctx, testFlaggedComment(t, "total trash opinion"))
		if err != nil {
			t.Fatalf("upsert failed: %v", err)
		}
		if id1 == id2 {
			t.Error("distinct texts should get distinct ids")
		}

		stats, err := cdb.GetStats(ctx)
		if err != nil {
			t.Fatalf("stats failed: %v", err)
		}
		if stats.FlaggedComments != 2 {
			t.Errorf("expected 2 flagged comments, got %d", stats.FlaggedComments)
		}
		if stats.DistinctCommenters != 1 {
			t.Errorf("expected 1 distinct commenter, got %d", stats.DistinctCommenters)
		}
	})

	t.Run("round-trips the comment timestamp and path", func(t *testing.T) {
		t.Parallel()

		cdb := setupTestDB(t)
		ctx := context.Background()
		fc := testFlaggedComment(t, "you are trash")

		if _, err := cdb.UpsertFlaggedComment(ctx, fc); err != nil {
			t.Fatalf("upsert failed: %v", err)
		}

		records, err := cdb.ListFlaggedComments(ctx)
		if err != nil {
			t.Fatalf("list failed: %v", err)
		}
		if !records[0].CommentedAt.Equal(fc.CommentedAt) {
			t.Errorf("expected commented_at %v, got %v", fc.CommentedAt, records[0].CommentedAt)
		}
		if records[0].FriendPath != fc.Path.String() {
			t.Errorf("expected path %q, got %q", fc.Path.String(), records[0].FriendPath)
		}
		if records[0].FirstSeen.IsZero() || records[0].LastSeen.IsZero() {
			t.Error("expected first_seen and last_seen to be populated")
		}
	})
}

// TestUpsertProfileVisited tests visit recording.
func TestUpsertProfileVisited(t *testing.T) {
	t.Parallel()

	cdb := setupTestDB(t)
	ctx := context.Background()
	id := model.MustNewSteamID("76561198000000001")
	path := model.NewPath(id)

	if err := cdb.UpsertProfileVisited(ctx, id, path, 3, ""); err != nil {
		t.Fatalf("first upsert failed: %v", err)
	}
	if err := cdb.UpsertProfileVisited(ctx, id, path, 5, "fetch timed out"); err != nil {
		t.Fatalf("second upsert failed: %v", err)
	}

	stats, err := cdb.GetStats(ctx)
	if err != nil {
		t.Fatalf("stats failed: %v", err)
	}
	if stats.ProfilesVisited != 1 {
		t.Errorf("expected 1 profile after repeated visits, got %d", stats.ProfilesVisited)
	}
}

// TestUpsertVillain tests the villain registry.
func TestUpsertVillain(t *testing.T) {
	t.Parallel()

	cdb := setupTestDB(t)
	ctx := context.Background()
	id := model.MustNewSteamID("76561198000000002")

	if err := cdb.UpsertVillain(ctx, id, "xXghoulXx"); err != nil {
		t.Fatalf("first upsert failed: %v", err)
	}
	if err := cdb.UpsertVillain(ctx, id, "xXghoulXx"); err != nil {
		t.Fatalf("second upsert failed: %v", err)
	}
	if err := cdb.UpsertVillain(ctx, id, "new alias"); err != nil {
		t.Fatalf("third upsert failed: %v", err)
	}

	villains, err := cdb.ListVillains(ctx)
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(villains) != 1 {
		t.Fatalf("expected 1 villain, got %d", len(villains))
	}
	v := villains[0]
	if v.CommentCount != 3 {
		t.Errorf("expected comment count 3, got %d", v.CommentCount)
	}
	if v.Aliases != "xXghoulXx, new alias" {
		t.Errorf("expected distinct aliases accumulated, got %q", v.Aliases)
	}
}

// TestListVillainsOrder tests villain ordering by comment count.
func TestListVillainsOrder(t *testing.T) {
	t.Parallel()

	cdb := setupTestDB(t)
	ctx := context.Background()

	quiet := model.MustNewSteamID("76561198000000003")
	loud := model.MustNewSteamID("76561198000000004")

	if err := cdb.UpsertVillain(ctx, quiet, "quiet"); err != nil {
		t.Fatalf("upsert failed: %v", err)
	}
	for i := 0; i < 3; i++ {
		if err := cdb.UpsertVillain(ctx, loud, "loud"); err != nil {
			t.Fatalf("upsert failed: %v", err)
		}
	}

	villains, err := cdb.ListVillains(ctx)
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(villains) != 2 {
		t.Fatalf("expected 2 villains, got %d", len(villains))
	}
	if villains[0].SteamID != loud.String() {
		t.Errorf("expected the most active villain first, got %s", villains[0].SteamID)
	}
}

// TestWithRetry tests bounded write retries.
func TestWithRetry(t *testing.T) {
	t.Parallel()

	t.Run("succeeds without retrying", func(t *testing.T) {
		t.Parallel()

		calls := 0
		err := WithRetry(context.Background(), 3, func(context.Context) error {
			calls++
			return nil
		})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if calls != 1 {
			t.Errorf("expected 1 call, got %d", calls)
		}
	})

	t.Run("retries until success", func(t *testing.T) {
		t.Parallel()

		calls := 0
		err := WithRetry(context.Background(), 3, func(context.Context) error {
			calls++
			if calls < 3 {
				return errors.New("database is locked")
			}
			return nil
		})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if calls != 3 {
			t.Errorf("expected 3 calls, got %d", calls)
		}
	})

	t.Run("gives up after the limit", func(t *testing.T) {
		t.Parallel()

		wantErr := errors.New("disk gone")
		calls := 0
		err := WithRetry(context.Background(), 2, func(context.Context) error {
			calls++
			return wantErr
		})
		if !errors.Is(err, wantErr) {
			t.Errorf("expected the last error wrapped, got %v", err)
		}
		if calls != 3 {
			t.Errorf("expected 3 attempts for limit 2, got %d", calls)
		}
	})

	t.Run("cancellation aborts the backoff", func(t *testing.T) {
		t.Parallel()

		ctx, cancel := context.WithCancel(context.Background())
		calls := 0
		err := WithRetry(ctx, 5, func(context.Context) error {
			calls++
			cancel()
			return errors.New("transient")
		})
		if !errors.Is(err, context.Canceled) {
			t.Errorf("expected context.Canceled, got %v", err)
		}
		if calls != 1 {
			t.Errorf("expected 1 call before cancellation, got %d", calls)
		}
	})
}
