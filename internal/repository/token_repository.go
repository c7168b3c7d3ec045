package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/roamstack/travel-backend/internal/model"
)

// ErrTokenNotFound is returned when no persisted token exists for a
// provider.
var ErrTokenNotFound = errors.New("integration token not found")

// TokenRepo persists OAuth bearer tokens, one row per external provider.
// The row is overwritten on every refresh and read by the token cache when
// its in-memory tier misses.
type TokenRepo struct {
	db *sql.DB
}

func NewTokenRepo(db *sql.DB) *TokenRepo {
	return &TokenRepo{db: db}
}

// Get returns the persisted token for a provider.
func (r *TokenRepo) Get(ctx context.Context, provider string) (*model.IntegrationToken, error) {
	const q = "SELECT provider, access_token, expires_at FROM integration_tokens WHERE provider = ? LIMIT 1"
	var t model.IntegrationToken
	if err := r.db.QueryRowContext(ctx, q, provider).Scan(&t.Provider, &t.AccessToken, &t.ExpiresAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrTokenNotFound
		}
		return nil, err
	}
	return &t, nil
}

// Upsert inserts or replaces the provider's token row.  The provider key
// is unique, so the row count never grows past one per provider.
func (r *TokenRepo) Upsert(ctx context.Context, t model.IntegrationToken) error {
	const q = `INSERT INTO integration_tokens (provider, access_token, expires_at)
	           VALUES (?, ?, ?)
	           ON DUPLICATE KEY UPDATE access_token = VALUES(access_token), expires_at = VALUES(expires_at)`
	_, err := r.db.ExecContext(ctx, q, t.Provider, t.AccessToken, t.ExpiresAt)
	return err
}
