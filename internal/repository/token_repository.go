package repository

import (
	"context"
	"database/sql"

	"github.com/iliyamo/inventory-service/internal/model"
)

// TokenRepo persists bearer tokens on the users.token column. A user holds
// at most one token; the unique index on the column keeps a token bound to
// a single user.
type TokenRepo struct{ DB *sql.DB }

func NewTokenRepo(db *sql.DB) *TokenRepo { return &TokenRepo{DB: db} }

// Store replaces the user's token in a single statement. Whatever token was
// stored before stops resolving once this returns.
func (r *TokenRepo) Store(ctx context.Context, userID uint64, token string) error {
	res, err := r.DB.ExecContext(ctx,
		"UPDATE users SET token=? WHERE id=?", token, userID)
	if err != nil {
		return err
	}
	return expectOne(res, ErrUserNotFound)
}

// FindUser returns the user currently holding token, or ErrUserNotFound.
func (r *TokenRepo) FindUser(ctx context.Context, token string) (model.User, error) {
	row := r.DB.QueryRowContext(ctx,
		"SELECT "+userColumns+" FROM users WHERE token=? LIMIT 1", token)
	return scanUser(row)
}

// Clear removes token from userID only if it is still the stored one, so a
// token issued by a racing login is left alone. It reports whether a row
// was cleared.
func (r *TokenRepo) Clear(ctx context.Context, userID uint64, token string) (bool, error) {
	res, err := r.DB.ExecContext(ctx,
		"UPDATE users SET token=NULL WHERE id=? AND token=?", userID, token)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}
