package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/iliyamo/condominio-auth/internal/model"
)

// TokenRepo persists the refresh token blacklist (one row per 'jti').
// Rows are never updated or deleted.
type TokenRepo struct{ DB *sql.DB }

func NewTokenRepo(db *sql.DB) *TokenRepo { return &TokenRepo{DB: db} }

// Blacklist inserts a revocation record and reports whether a row was
// written.  An identifier that is already blacklisted yields false, nil.
func (r *TokenRepo) Blacklist(ctx context.Context, t model.RevokedToken) (bool, error) {
	if t.BlacklistedAt.IsZero() {
		t.BlacklistedAt = time.Now().UTC()
	}
	_, err := r.DB.ExecContext(ctx,
		"INSERT INTO token_blacklist (jti, account_id, expires_at, blacklisted_at) VALUES (?,?,?,?)",
		t.JTI, t.AccountID, t.ExpiresAt.UTC(), t.BlacklistedAt.UTC())
	switch {
	case err == nil:
		return true, nil
	case isDuplicateKey(err):
		return false, nil
	}
	return false, err
}

// IsBlacklisted reports whether jti has a revocation record.
func (r *TokenRepo) IsBlacklisted(ctx context.Context, jti string) (bool, error) {
	var one int
	err := r.DB.QueryRowContext(ctx, "SELECT 1 FROM token_blacklist WHERE jti=? LIMIT 1", jti).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}
