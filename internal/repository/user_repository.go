package repository

import (
	"context"
	"database/sql"

	"github.com/roamstack/travel-backend/internal/model"
)

// UserRepo manages the local profile rows mirroring hosted-auth accounts.
// Credentials live entirely in the auth provider; this table only holds
// profile data keyed by the provider's user id.
type UserRepo struct {
	db *sql.DB
}

func NewUserRepo(db *sql.DB) *UserRepo {
	return &UserRepo{db: db}
}

// InsertProfile creates the profile row after a successful provider
// sign-up.  The insert is idempotent so the sign-up fallback path (already
// registered -> login) never fails on a second attempt.
func (r *UserRepo) InsertProfile(ctx context.Context, u model.User) error {
	const q = `INSERT INTO users (id, email, full_name)
	           VALUES (?, ?, ?)
	           ON DUPLICATE KEY UPDATE email = VALUES(email)`
	_, err := r.db.ExecContext(ctx, q, u.ID, u.Email, u.FullName)
	return err
}

// GetByID loads a profile row.
func (r *UserRepo) GetByID(ctx context.Context, id string) (*model.User, error) {
	const q = "SELECT id, email, full_name, created_at FROM users WHERE id = ?"
	var (
		u        model.User
		fullName sql.NullString
	)
	if err := r.db.QueryRowContext(ctx, q, id).Scan(&u.ID, &u.Email, &fullName, &u.CreatedAt); err != nil {
		return nil, err
	}
	if fullName.Valid {
		u.FullName = &fullName.String
	}
	return &u, nil
}
