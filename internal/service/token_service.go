package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/iliyamo/condominio-auth/internal/model"
	"github.com/iliyamo/condominio-auth/internal/repository"
	"github.com/iliyamo/condominio-auth/internal/utils"
)

// RevocationList is the persisted refresh token blacklist.
type RevocationList interface {
	Blacklist(ctx context.Context, t model.RevokedToken) (bool, error)
	IsBlacklisted(ctx context.Context, jti string) (bool, error)
}

// TokenPair is what login hands back to the client.
type TokenPair struct {
	Access  utils.AccessToken
	Refresh utils.RefreshToken
}

// TokenService issues, refreshes and revokes session tokens.  Tokens are
// stateless JWTs; the only state is the blacklist of refresh token ids.
type TokenService struct {
	secret     []byte
	accessTTL  time.Duration
	refreshTTL time.Duration
	revoked    RevocationList
	accounts   AccountReader
	now        func() time.Time
}

func NewTokenService(secret string, accessTTL, refreshTTL time.Duration, revoked RevocationList, accounts AccountReader) *TokenService {
	return &TokenService{
		secret:     []byte(secret),
		accessTTL:  accessTTL,
		refreshTTL: refreshTTL,
		revoked:    revoked,
		accounts:   accounts,
		now:        time.Now,
	}
}

// Issue mints a refresh token and an access token bound to it.
func (s *TokenService) Issue(a model.Account) (TokenPair, error) {
	now := s.now()
	refresh, err := utils.NewRefreshToken(s.secret, a.ID, now, s.refreshTTL)
	if err != nil {
		return TokenPair{}, fmt.Errorf("sign refresh: %w", err)
	}
	access, err := utils.NewAccessToken(s.secret, a.ID, refresh.ID, now, s.accessTTL)
	if err != nil {
		return TokenPair{}, fmt.Errorf("sign access: %w", err)
	}
	return TokenPair{Access: access, Refresh: refresh}, nil
}

// Refresh exchanges a refresh token for a new access token.  The refresh
// token itself is not rotated.
func (s *TokenService) Refresh(ctx context.Context, raw string) (utils.AccessToken, error) {
	claims, err := s.parse(raw, utils.TokenTypeRefresh, false)
	if err != nil {
		return utils.AccessToken{}, err
	}
	if err := s.checkNotRevoked(ctx, claims.ID); err != nil {
		return utils.AccessToken{}, err
	}
	a, err := s.activeAccount(ctx, claims)
	if err != nil {
		return utils.AccessToken{}, err
	}
	access, err := utils.NewAccessToken(s.secret, a.ID, claims.ID, s.now(), s.accessTTL)
	if err != nil {
		return utils.AccessToken{}, fmt.Errorf("sign access: %w", err)
	}
	return access, nil
}

// Revoke blacklists a refresh token.  Expired but correctly signed tokens
// are accepted; revoking twice is not an error.
func (s *TokenService) Revoke(ctx context.Context, raw string) error {
	_, err := s.revoke(ctx, raw, 0)
	return err
}

// RevokeOwned is Revoke restricted to tokens whose subject is accountID.
// A token belonging to someone else is ErrTokenInvalid.  The bool is false
// when the token was already on the blacklist.
func (s *TokenService) RevokeOwned(ctx context.Context, accountID uint64, raw string) (bool, error) {
	return s.revoke(ctx, raw, accountID)
}

func (s *TokenService) revoke(ctx context.Context, raw string, owner uint64) (bool, error) {
	claims, err := s.parse(raw, utils.TokenTypeRefresh, true)
	if err != nil {
		return false, ErrTokenInvalid
	}
	sub, err := claims.AccountID()
	if err != nil || claims.ExpiresAt == nil || (owner != 0 && sub != owner) {
		return false, ErrTokenInvalid
	}
	rec := model.RevokedToken{
		JTI:           claims.ID,
		AccountID:     sub,
		ExpiresAt:     claims.ExpiresAt.Time,
		BlacklistedAt: s.now().UTC(),
	}
	inserted, err := s.revoked.Blacklist(ctx, rec)
	if err != nil {
		return false, fmt.Errorf("blacklist: %w", err)
	}
	return inserted, nil
}

// Authenticate verifies an access token and resolves the current account.
// The role is always read from the store, never from the token.
func (s *TokenService) Authenticate(ctx context.Context, raw string) (model.Account, error) {
	claims, err := s.parse(raw, utils.TokenTypeAccess, false)
	if err != nil {
		return model.Account{}, err
	}
	if claims.SessionID != "" {
		if err := s.checkNotRevoked(ctx, claims.SessionID); err != nil {
			return model.Account{}, err
		}
	}
	return s.activeAccount(ctx, claims)
}

func (s *TokenService) parse(raw, typ string, skipExpiry bool) (*utils.Claims, error) {
	claims, err := utils.ParseToken(s.secret, raw, typ, s.now, skipExpiry)
	switch {
	case err == nil:
		return claims, nil
	case errors.Is(err, jwt.ErrTokenExpired):
		return nil, ErrTokenExpired
	}
	return nil, fmt.Errorf("%w: %v", ErrTokenInvalid, err)
}

func (s *TokenService) checkNotRevoked(ctx context.Context, jti string) error {
	revoked, err := s.revoked.IsBlacklisted(ctx, jti)
	if err != nil {
		return fmt.Errorf("check blacklist: %w", err)
	}
	if revoked {
		return ErrTokenRevoked
	}
	return nil
}

func (s *TokenService) activeAccount(ctx context.Context, claims *utils.Claims) (model.Account, error) {
	id, err := claims.AccountID()
	if err != nil {
		return model.Account{}, ErrTokenInvalid
	}
	a, err := s.accounts.GetByID(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return model.Account{}, ErrTokenInvalid
	}
	if err != nil {
		return model.Account{}, fmt.Errorf("load account: %w", err)
	}
	if !a.Active() {
		return model.Account{}, fmt.Errorf("%w: account inactive", ErrTokenInvalid)
	}
	return a, nil
}
