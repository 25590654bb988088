package auth

import (
	"context"
	"errors"
	"strings"

	"github.com/iliyamo/inventory-service/internal/model"
	"github.com/iliyamo/inventory-service/internal/repository"
	"github.com/iliyamo/inventory-service/internal/utils"
)

// TokenStore persists the single active bearer token of each user.
type TokenStore interface {
	Store(ctx context.Context, userID uint64, token string) error
	FindUser(ctx context.Context, token string) (model.User, error)
	Clear(ctx context.Context, userID uint64, token string) (bool, error)
}

// Tokens mints and resolves opaque bearer tokens.
type Tokens struct {
	store TokenStore
}

func NewTokens(store TokenStore) *Tokens { return &Tokens{store: store} }

// Issue derives a new token for u and stores it, replacing any earlier one.
// u.Token is updated on success.
func (t *Tokens) Issue(ctx context.Context, u *model.User) (string, error) {
	token, err := utils.NewSessionToken(u.ID, string(u.Role))
	if err != nil {
		return "", err
	}
	if err := t.store.Store(ctx, u.ID, token); err != nil {
		return "", storageErr(err)
	}
	u.Token = &token
	return token, nil
}

// Validate resolves token to the user currently holding it.
func (t *Tokens) Validate(ctx context.Context, token string) (model.User, error) {
	if token == "" {
		return model.User{}, ErrInvalidToken
	}
	u, err := t.store.FindUser(ctx, token)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return model.User{}, ErrInvalidToken
		}
		return model.User{}, storageErr(err)
	}
	return u, nil
}

// Revoke clears token from its holder.
func (t *Tokens) Revoke(ctx context.Context, token string) (model.User, error) {
	u, err := t.Validate(ctx, token)
	if err != nil {
		return model.User{}, err
	}
	cleared, err := t.store.Clear(ctx, u.ID, token)
	if err != nil {
		return model.User{}, storageErr(err)
	}
	if !cleared {
		// superseded between lookup and clear
		return model.User{}, ErrInvalidToken
	}
	u.Token = nil
	return u, nil
}

// AuthenticateRequest resolves an Authorization header of the form
// "Bearer <token>".
func (t *Tokens) AuthenticateRequest(ctx context.Context, header string) (model.User, error) {
	token, err := BearerToken(header)
	if err != nil {
		return model.User{}, err
	}
	return t.Validate(ctx, token)
}

// BearerToken extracts the token part of an Authorization header value.
func BearerToken(header string) (string, error) {
	fields := strings.Fields(header)
	if len(fields) == 0 {
		return "", ErrMissingAuthHeader
	}
	if len(fields) < 2 {
		return "", ErrMissingToken
	}
	if !strings.EqualFold(fields[0], "Bearer") || len(fields) > 2 {
		return "", ErrInvalidToken
	}
	return fields[1], nil
}
