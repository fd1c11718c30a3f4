package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"app/internal/model"

	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"
)

// ErrEmailTaken is returned when creating a user with an email that already exists.
var ErrEmailTaken = errors.New("email_taken")

type UserRepository interface {
	// Create inserts a new non-premium user. Returns ErrEmailTaken if the email
	// is already registered; the existing account is left untouched.
	Create(ctx context.Context, email, passwordHash string, createdAt time.Time) (*model.User, error)
	// GetByEmail returns nil, nil when no user has the given email.
	GetByEmail(ctx context.Context, email string) (*model.User, error)
	// GetByID returns nil, nil when no user has the given id.
	GetByID(ctx context.Context, id int64) (*model.User, error)
}

type userRepo struct {
	db *sql.DB
}

func NewUserRepo(db *sql.DB) UserRepository {
	return &userRepo{db: db}
}

func (r *userRepo) Create(ctx context.Context, email, passwordHash string, createdAt time.Time) (*model.User, error) {
	query := `INSERT INTO users (email, password_hash, premium, created_at) VALUES (?, ?, 0, ?)`
	res, err := r.db.ExecContext(ctx, query, email, passwordHash, createdAt.UTC().Format(timeLayout))
	if err != nil {
		var serr *sqlite.Error
		if errors.As(err, &serr) && serr.Code() == sqlite3.SQLITE_CONSTRAINT_UNIQUE {
			return nil, ErrEmailTaken
		}
		return nil, fmt.Errorf("inserting user %s: %w", email, err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("reading new user id: %w", err)
	}
	return &model.User{
		ID:           id,
		Email:        email,
		PasswordHash: passwordHash,
		Premium:      false,
		CreatedAt:    createdAt.UTC().Truncate(time.Second),
	}, nil
}

func (r *userRepo) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	query := `SELECT id, email, password_hash, premium, created_at FROM users WHERE email = ?`
	return r.scanUser(r.db.QueryRowContext(ctx, query, email))
}

func (r *userRepo) GetByID(ctx context.Context, id int64) (*model.User, error) {
	query := `SELECT id, email, password_hash, premium, created_at FROM users WHERE id = ?`
	return r.scanUser(r.db.QueryRowContext(ctx, query, id))
}

func (r *userRepo) scanUser(row *sql.Row) (*model.User, error) {
	var u model.User
	var premium int
	var createdAt string
	if err := row.Scan(&u.ID, &u.Email, &u.PasswordHash, &premium, &createdAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("scanning user: %w", err)
	}
	u.Premium = premium != 0
	ts, err := time.Parse(timeLayout, createdAt)
	if err != nil {
		return nil, fmt.Errorf("parsing created_at for user %d: %w", u.ID, err)
	}
	u.CreatedAt = ts
	return &u, nil
}
