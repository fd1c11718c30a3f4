package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"app/internal/model"
)

func dayWindow(t time.Time) (time.Time, time.Time) {
	u := t.UTC()
	start := time.Date(u.Year(), u.Month(), u.Day(), 0, 0, 0, 0, time.UTC)
	return start, start.Add(24 * time.Hour)
}

func TestRecordAndCountInWindow(t *testing.T) {
	repo := NewHistoryRepo(newTestDB(t))
	ctx := context.Background()

	now := time.Date(2025, 3, 14, 12, 0, 0, 0, time.UTC)
	start, end := dayWindow(now)

	count, err := repo.CountInWindow(ctx, 1, start, end)
	if err != nil {
		t.Fatalf("CountInWindow returned error: %v", err)
	}
	if count != 0 {
		t.Fatalf("expected 0 entries for fresh user, got %d", count)
	}

	entry := &model.HistoryEntry{UserID: 1, BookName: "Dune", Summary: "S", CreatedAt: now}
	if err := repo.Record(ctx, entry); err != nil {
		t.Fatalf("Record returned error: %v", err)
	}
	if entry.ID == 0 {
		t.Fatal("expected a non-zero entry id")
	}

	// Entries for other users and other days must not count.
	other := &model.HistoryEntry{UserID: 2, BookName: "Dune", Summary: "S", CreatedAt: now}
	if err := repo.Record(ctx, other); err != nil {
		t.Fatalf("Record returned error: %v", err)
	}
	yesterday := &model.HistoryEntry{UserID: 1, BookName: "Dune", Summary: "S", CreatedAt: now.Add(-24 * time.Hour)}
	if err := repo.Record(ctx, yesterday); err != nil {
		t.Fatalf("Record returned error: %v", err)
	}

	count, err = repo.CountInWindow(ctx, 1, start, end)
	if err != nil {
		t.Fatalf("CountInWindow returned error: %v", err)
	}
	if count != 1 {
		t.Fatalf("expected exactly 1 entry in window, got %d", count)
	}
}

func TestCountInWindowBoundaries(t *testing.T) {
	repo := NewHistoryRepo(newTestDB(t))
	ctx := context.Background()

	day := time.Date(2025, 3, 14, 0, 0, 0, 0, time.UTC)
	start, end := dayWindow(day)

	atStart := &model.HistoryEntry{UserID: 1, BookName: "b", Summary: "s", CreatedAt: start}
	lastSecond := &model.HistoryEntry{UserID: 1, BookName: "b", Summary: "s", CreatedAt: end.Add(-time.Second)}
	nextDay := &model.HistoryEntry{UserID: 1, BookName: "b", Summary: "s", CreatedAt: end}
	for _, e := range []*model.HistoryEntry{atStart, lastSecond, nextDay} {
		if err := repo.Record(ctx, e); err != nil {
			t.Fatalf("Record returned error: %v", err)
		}
	}

	count, err := repo.CountInWindow(ctx, 1, start, end)
	if err != nil {
		t.Fatalf("CountInWindow returned error: %v", err)
	}
	if count != 2 {
		t.Fatalf("half-open window: expected 2 entries, got %d", count)
	}
}

func TestCheckAndRecordEnforcesLimit(t *testing.T) {
	repo := NewHistoryRepo(newTestDB(t))
	ctx := context.Background()

	now := time.Date(2025, 3, 14, 12, 0, 0, 0, time.UTC)
	start, end := dayWindow(now)

	for i := 0; i < 2; i++ {
		e := &model.HistoryEntry{UserID: 1, BookName: "Dune", Summary: "S", CreatedAt: now}
		if err := repo.CheckAndRecord(ctx, e, start, end, 2); err != nil {
			t.Fatalf("CheckAndRecord %d returned error: %v", i+1, err)
		}
	}

	blocked := &model.HistoryEntry{UserID: 1, BookName: "Dune", Summary: "S", CreatedAt: now}
	if err := repo.CheckAndRecord(ctx, blocked, start, end, 2); !errors.Is(err, ErrGenerationLimitExceeded) {
		t.Fatalf("expected ErrGenerationLimitExceeded, got %v", err)
	}

	// The refused attempt must not have written anything.
	count, err := repo.CountInWindow(ctx, 1, start, end)
	if err != nil {
		t.Fatalf("CountInWindow returned error: %v", err)
	}
	if count != 2 {
		t.Fatalf("expected count to stay at 2, got %d", count)
	}
}

func TestCheckAndRecordUnlimited(t *testing.T) {
	repo := NewHistoryRepo(newTestDB(t))
	ctx := context.Background()

	now := time.Date(2025, 3, 14, 12, 0, 0, 0, time.UTC)
	start, end := dayWindow(now)

	// maxPerWindow <= 0 means no limit (premium accounts).
	for i := 0; i < 5; i++ {
		e := &model.HistoryEntry{UserID: 1, BookName: "Dune", Summary: "S", CreatedAt: now}
		if err := repo.CheckAndRecord(ctx, e, start, end, 0); err != nil {
			t.Fatalf("CheckAndRecord %d returned error: %v", i+1, err)
		}
	}

	count, err := repo.CountInWindow(ctx, 1, start, end)
	if err != nil {
		t.Fatalf("CountInWindow returned error: %v", err)
	}
	if count != 5 {
		t.Fatalf("expected 5 entries, got %d", count)
	}
}

func TestListByUser(t *testing.T) {
	repo := NewHistoryRepo(newTestDB(t))
	ctx := context.Background()

	base := time.Date(2025, 3, 14, 12, 0, 0, 0, time.UTC)
	for i := 0; i < 3; i++ {
		e := &model.HistoryEntry{UserID: 1, BookName: "Dune", Summary: "S", CreatedAt: base.Add(time.Duration(i) * time.Minute)}
		if err := repo.Record(ctx, e); err != nil {
			t.Fatalf("Record returned error: %v", err)
		}
	}
	otherUser := &model.HistoryEntry{UserID: 2, BookName: "Other", Summary: "S", CreatedAt: base}
	if err := repo.Record(ctx, otherUser); err != nil {
		t.Fatalf("Record returned error: %v", err)
	}

	entries, err := repo.ListByUser(ctx, 1, 10, 0)
	if err != nil {
		t.Fatalf("ListByUser returned error: %v", err)
	}
	if len(entries) != 3 {
		t.Fatalf("expected 3 entries, got %d", len(entries))
	}
	// Newest first.
	if !entries[0].CreatedAt.After(entries[2].CreatedAt) {
		t.Fatalf("expected newest-first ordering, got %v then %v", entries[0].CreatedAt, entries[2].CreatedAt)
	}

	page, err := repo.ListByUser(ctx, 1, 2, 2)
	if err != nil {
		t.Fatalf("ListByUser returned error: %v", err)
	}
	if len(page) != 1 {
		t.Fatalf("expected 1 entry on the second page, got %d", len(page))
	}
}
