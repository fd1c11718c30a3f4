package repository

import (
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite" // pure-Go SQLite driver
)

// timeLayout is the stored timestamp format. All timestamps are UTC; with a
// fixed-width RFC3339 encoding, lexicographic comparison in SQL matches
// chronological order.
const timeLayout = "2006-01-02T15:04:05Z"

var schema = []string{
	`CREATE TABLE IF NOT EXISTS users (
		id            INTEGER PRIMARY KEY AUTOINCREMENT,
		email         TEXT NOT NULL UNIQUE,
		password_hash TEXT NOT NULL,
		premium       INTEGER NOT NULL DEFAULT 0,
		created_at    TEXT NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS history (
		id        INTEGER PRIMARY KEY AUTOINCREMENT,
		user_id   INTEGER NOT NULL,
		book_name TEXT NOT NULL,
		summary   TEXT NOT NULL,
		timestamp TEXT NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_history_user_timestamp ON history (user_id, timestamp)`,
}

// Open opens the single-file store and creates the tables if absent. Existing
// tables are never altered. The connection pool is capped at one connection:
// the store assumes a single writer.
func Open(path string) (*sql.DB, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening sqlite store at %s: %w", path, err)
	}
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("pinging sqlite store at %s: %w", path, err)
	}

	for _, stmt := range schema {
		if _, err := db.Exec(stmt); err != nil {
			db.Close()
			return nil, fmt.Errorf("creating schema: %w", err)
		}
	}
	return db, nil
}
