package store

import (
	"context"
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"github.com/clearpath/intake/internal/domain"
)

func newTestStore(t *testing.T) Repository {
	t.Helper()
	repo, err := NewSQLite(filepath.Join(t.TempDir(), "intake.db"))
	if err != nil {
		t.Fatalf("Failed to create store: %v", err)
	}
	t.Cleanup(func() {
		if err := repo.Close(); err != nil {
			t.Errorf("Failed to close store: %v", err)
		}
	})
	return repo
}

func testSession(id string, ttl time.Duration) *domain.ApplicationSession {
	now := time.Now()
	return &domain.ApplicationSession{
		SessionID:            id,
		Collected:            domain.NewCollectedData(),
		CurrentSection:       domain.SectionPersonal,
		CompletionPercentage: 0,
		CreatedAt:            now,
		UpdatedAt:            now,
		ExpiresAt:            now.Add(ttl),
	}
}

func TestPutGetSession(t *testing.T) {
	repo := newTestStore(t)
	ctx := context.Background()

	sess := testSession("session-1", time.Hour)
	sess.Collected.Set(domain.SectionPersonal, "firstName", "John")
	sess.CurrentSection = domain.SectionEducational
	sess.CompletionPercentage = 9

	if err := repo.PutSession(ctx, sess); err != nil {
		t.Fatalf("PutSession failed: %v", err)
	}

	got, err := repo.GetSession(ctx, "session-1")
	if err != nil {
		t.Fatalf("GetSession failed: %v", err)
	}
	if got == nil {
		t.Fatal("Expected session, got nil")
	}
	if got.CurrentSection != domain.SectionEducational {
		t.Errorf("Expected section educational, got %s", got.CurrentSection)
	}
	if got.CompletionPercentage != 9 {
		t.Errorf("Expected 9%%, got %d", got.CompletionPercentage)
	}
	if v, _ := got.Collected.Value(domain.SectionPersonal, "firstName"); v != "John" {
		t.Errorf("Expected firstName=John after reload, got %q", v)
	}
}

func TestGetMissingSession(t *testing.T) {
	repo := newTestStore(t)

	got, err := repo.GetSession(context.Background(), "nope")
	if err != nil {
		t.Fatalf("GetSession failed: %v", err)
	}
	if got != nil {
		t.Error("Expected nil for missing session")
	}
}

func TestExpiredSessionIsInvisible(t *testing.T) {
	repo := newTestStore(t)
	ctx := context.Background()

	sess := testSession("expired", -time.Minute)
	if err := repo.PutSession(ctx, sess); err != nil {
		t.Fatalf("PutSession failed: %v", err)
	}

	got, err := repo.GetSession(ctx, "expired")
	if err != nil {
		t.Fatalf("GetSession failed: %v", err)
	}
	if got != nil {
		t.Error("Expired session must read as missing")
	}
}

func TestPutSessionOverwrites(t *testing.T) {
	repo := newTestStore(t)
	ctx := context.Background()

	sess := testSession("session-1", time.Hour)
	if err := repo.PutSession(ctx, sess); err != nil {
		t.Fatalf("PutSession failed: %v", err)
	}

	sess.CompletionPercentage = 50
	sess.CurrentSection = domain.SectionFamily
	if err := repo.PutSession(ctx, sess); err != nil {
		t.Fatalf("Second PutSession failed: %v", err)
	}

	got, err := repo.GetSession(ctx, "session-1")
	if err != nil || got == nil {
		t.Fatalf("GetSession failed: %v, %v", got, err)
	}
	if got.CompletionPercentage != 50 || got.CurrentSection != domain.SectionFamily {
		t.Errorf("Expected overwrite to win, got %d%% at %s", got.CompletionPercentage, got.CurrentSection)
	}
}

func TestDeleteSession(t *testing.T) {
	repo := newTestStore(t)
	ctx := context.Background()

	if err := repo.PutSession(ctx, testSession("session-1", time.Hour)); err != nil {
		t.Fatalf("PutSession failed: %v", err)
	}
	if err := repo.DeleteSession(ctx, "session-1"); err != nil {
		t.Fatalf("DeleteSession failed: %v", err)
	}
	got, err := repo.GetSession(ctx, "session-1")
	if err != nil {
		t.Fatalf("GetSession failed: %v", err)
	}
	if got != nil {
		t.Error("Expected session to be gone after delete")
	}

	// Deleting again is not an error.
	if err := repo.DeleteSession(ctx, "session-1"); err != nil {
		t.Errorf("Deleting a missing session should not fail: %v", err)
	}
}

func TestListSessionsPagination(t *testing.T) {
	repo := newTestStore(t)
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		id := fmt.Sprintf("session-%d", i)
		if err := repo.PutSession(ctx, testSession(id, time.Hour)); err != nil {
			t.Fatalf("PutSession %s failed: %v", id, err)
		}
	}
	// An expired session must never appear in listings.
	if err := repo.PutSession(ctx, testSession("session-zz-expired", -time.Minute)); err != nil {
		t.Fatalf("PutSession failed: %v", err)
	}

	first, nextKey, err := repo.ListSessions(ctx, 2, "")
	if err != nil {
		t.Fatalf("ListSessions failed: %v", err)
	}
	if len(first) != 2 {
		t.Fatalf("Expected 2 sessions, got %d", len(first))
	}
	if nextKey == "" {
		t.Fatal("Expected a pagination key")
	}

	second, nextKey2, err := repo.ListSessions(ctx, 10, nextKey)
	if err != nil {
		t.Fatalf("ListSessions page 2 failed: %v", err)
	}
	if len(second) != 3 {
		t.Errorf("Expected remaining 3 sessions, got %d", len(second))
	}
	if nextKey2 != "" {
		t.Errorf("Expected no further pages, got key %q", nextKey2)
	}

	seen := map[string]bool{}
	for _, s := range append(first, second...) {
		seen[s.SessionID] = true
	}
	if len(seen) != 5 {
		t.Errorf("Expected 5 distinct sessions across pages, got %d", len(seen))
	}
	if seen["session-zz-expired"] {
		t.Error("Expired session leaked into the listing")
	}
}

func TestCleanupExpired(t *testing.T) {
	repo := newTestStore(t)
	ctx := context.Background()

	if err := repo.PutSession(ctx, testSession("live", time.Hour)); err != nil {
		t.Fatalf("PutSession failed: %v", err)
	}
	if err := repo.PutSession(ctx, testSession("dead", -time.Minute)); err != nil {
		t.Fatalf("PutSession failed: %v", err)
	}

	deleted, err := repo.CleanupExpired(ctx)
	if err != nil {
		t.Fatalf("CleanupExpired failed: %v", err)
	}
	if deleted != 1 {
		t.Errorf("Expected 1 deleted session, got %d", deleted)
	}

	got, err := repo.GetSession(ctx, "live")
	if err != nil || got == nil {
		t.Errorf("Live session should survive cleanup (err=%v)", err)
	}
}
