package model

import "time"

// HistoryEntry is one immutable record of a completed summary generation.
// Entries double as the audit trail and the source of truth for the daily
// free-tier count.
type HistoryEntry struct {
	ID        int64     `db:"id" json:"id"`
	UserID    int64     `db:"user_id" json:"user_id"`
	BookName  string    `db:"book_name" json:"book_name"`
	Summary   string    `db:"summary" json:"summary"`
	CreatedAt time.Time `db:"timestamp" json:"created_at"`
}
