package model

import "time"

// User represents an account in the system. PasswordHash holds a bcrypt hash,
// never the raw secret.
type User struct {
	ID           int64     `db:"id" json:"id"`
	Email        string    `db:"email" json:"email"`
	PasswordHash string    `db:"password_hash" json:"-"`
	Premium      bool      `db:"premium" json:"premium"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
}

// UserUsage is a snapshot of a user's generation allowance for the current
// UTC calendar day.
type UserUsage struct {
	UserID      int64 `json:"user_id"`
	CountToday  int   `json:"count_today"`
	DailyLimit  int   `json:"daily_limit"`
	Premium     bool  `json:"premium"`
	MayGenerate bool  `json:"may_generate"`
}
