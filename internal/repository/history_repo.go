package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"app/internal/model"
)

// ErrGenerationLimitExceeded is returned when a user has reached their
// generation limit for the window.
var ErrGenerationLimitExceeded = errors.New("generation_limit_exceeded")

// HistoryRepository persists one immutable row per generated summary. The
// rows serve both as the audit trail and as the usage counter for the daily
// free-tier limit.
type HistoryRepository interface {
	// Record appends one entry. Content is stored as-is, unvalidated.
	Record(ctx context.Context, e *model.HistoryEntry) error
	// CheckAndRecord atomically counts the user's entries in [start, end) and
	// appends the new entry, in a single transaction. Returns
	// ErrGenerationLimitExceeded without writing when maxPerWindow > 0 and the
	// count is already at the limit. maxPerWindow <= 0 means unlimited.
	CheckAndRecord(ctx context.Context, e *model.HistoryEntry, start, end time.Time, maxPerWindow int) error
	// CountInWindow counts the user's entries whose timestamp falls in [start, end).
	CountInWindow(ctx context.Context, userID int64, start, end time.Time) (int, error)
	// ListByUser returns the user's entries, newest first.
	ListByUser(ctx context.Context, userID int64, limit, offset int) ([]model.HistoryEntry, error)
}

type historyRepo struct {
	db *sql.DB
}

func NewHistoryRepo(db *sql.DB) HistoryRepository {
	return &historyRepo{db: db}
}

const insertEntryQ = `INSERT INTO history (user_id, book_name, summary, timestamp) VALUES (?, ?, ?, ?)`

const countWindowQ = `
	SELECT COUNT(*)
	FROM history
	WHERE user_id = ?
	  AND timestamp >= ?
	  AND timestamp < ?
`

func (r *historyRepo) Record(ctx context.Context, e *model.HistoryEntry) error {
	res, err := r.db.ExecContext(ctx, insertEntryQ, e.UserID, e.BookName, e.Summary, e.CreatedAt.UTC().Format(timeLayout))
	if err != nil {
		return fmt.Errorf("recording history entry for user %d: %w", e.UserID, err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("reading new history entry id: %w", err)
	}
	e.ID = id
	return nil
}

func (r *historyRepo) CheckAndRecord(ctx context.Context, e *model.HistoryEntry, start, end time.Time, maxPerWindow int) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("starting transaction for generation check: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	var count int
	if err := tx.QueryRowContext(ctx, countWindowQ, e.UserID, start.UTC().Format(timeLayout), end.UTC().Format(timeLayout)).Scan(&count); err != nil {
		return fmt.Errorf("counting generations for user %d: %w", e.UserID, err)
	}
	if maxPerWindow > 0 && count >= maxPerWindow {
		return ErrGenerationLimitExceeded
	}

	res, err := tx.ExecContext(ctx, insertEntryQ, e.UserID, e.BookName, e.Summary, e.CreatedAt.UTC().Format(timeLayout))
	if err != nil {
		return fmt.Errorf("recording history entry for user %d: %w", e.UserID, err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("reading new history entry id: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing history entry for user %d: %w", e.UserID, err)
	}
	e.ID = id
	return nil
}

func (r *historyRepo) CountInWindow(ctx context.Context, userID int64, start, end time.Time) (int, error) {
	var count int
	if err := r.db.QueryRowContext(ctx, countWindowQ, userID, start.UTC().Format(timeLayout), end.UTC().Format(timeLayout)).Scan(&count); err != nil {
		return 0, fmt.Errorf("counting generations for user %d: %w", userID, err)
	}
	return count, nil
}

func (r *historyRepo) ListByUser(ctx context.Context, userID int64, limit, offset int) ([]model.HistoryEntry, error) {
	const q = `
		SELECT id, user_id, book_name, summary, timestamp
		FROM history
		WHERE user_id = ?
		ORDER BY timestamp DESC, id DESC
		LIMIT ? OFFSET ?
	`
	rows, err := r.db.QueryContext(ctx, q, userID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("listing history for user %d: %w", userID, err)
	}
	defer rows.Close()

	var entries []model.HistoryEntry
	for rows.Next() {
		var e model.HistoryEntry
		var ts string
		if err := rows.Scan(&e.ID, &e.UserID, &e.BookName, &e.Summary, &ts); err != nil {
			return nil, fmt.Errorf("scanning history entry: %w", err)
		}
		parsed, err := time.Parse(timeLayout, ts)
		if err != nil {
			return nil, fmt.Errorf("parsing timestamp for history entry %d: %w", e.ID, err)
		}
		e.CreatedAt = parsed
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating history for user %d: %w", userID, err)
	}
	return entries, nil
}
