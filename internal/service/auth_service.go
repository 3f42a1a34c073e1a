package service

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/notes-service/internal/auth"
	"github.com/spec-kit/notes-service/internal/config"
	"github.com/spec-kit/notes-service/internal/repository"
	apperrors "github.com/spec-kit/notes-service/pkg/util"
)

// AuthService issues and refreshes credentials for note owners.
type AuthService struct {
	users        repository.UserRepository
	tokenMgr     *auth.TokenManager
	refreshStore auth.RefreshTokenStore
}

// AuthDependencies encapsulates requirements for the auth service.
type AuthDependencies struct {
	UserRepo     repository.UserRepository
	RefreshStore auth.RefreshTokenStore
}

// TokenPair bundles the two credentials returned by a login.
type TokenPair struct {
	Access  string
	Refresh string
}

// NewAuthService builds the service.
func NewAuthService(cfg config.Config, deps AuthDependencies) *AuthService {
	return &AuthService{
		users:        deps.UserRepo,
		tokenMgr:     auth.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.AccessTokenTTLMinutes, cfg.Auth.RefreshTokenTTLHours),
		refreshStore: deps.RefreshStore,
	}
}

// IssueCredential verifies username/password and returns an access+refresh
// pair. Unknown username and wrong password are indistinguishable.
func (s *AuthService) IssueCredential(ctx context.Context, username, password string) (*TokenPair, error) {
	user, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewAuthError("INVALID_CREDENTIALS", "invalid credentials")
		}
		return nil, err
	}
	if err := auth.ComparePassword(user.PasswordHash, password); err != nil {
		return nil, apperrors.NewAuthError("INVALID_CREDENTIALS", "invalid credentials")
	}

	access, _, err := s.tokenMgr.GenerateAccessToken(user.ID, user.Username)
	if err != nil {
		return nil, err
	}
	refresh, jti, _, err := s.tokenMgr.GenerateRefreshToken(user.ID)
	if err != nil {
		return nil, err
	}
	if s.refreshStore != nil {
		if err := s.refreshStore.Save(ctx, jti, user.ID, s.tokenMgr.RefreshTTL()); err != nil {
			return nil, err
		}
	}
	return &TokenPair{Access: access, Refresh: refresh}, nil
}

// RefreshCredential exchanges a valid refresh token for a new access token.
// When a refresh registry is configured the token must also be registered,
// which makes server-side revocation possible without changing the contract.
func (s *AuthService) RefreshCredential(ctx context.Context, refreshToken string) (string, error) {
	claims, err := s.tokenMgr.ParseToken(refreshToken, auth.TokenTypeRefresh)
	if err != nil {
		return "", apperrors.NewAuthError("INVALID_TOKEN", "invalid or expired refresh token")
	}
	if s.refreshStore != nil {
		known, err := s.refreshStore.Exists(ctx, claims.ID)
		if err != nil {
			return "", err
		}
		if !known {
			return "", apperrors.NewAuthError("INVALID_TOKEN", "invalid or expired refresh token")
		}
	}

	user, err := s.users.GetByID(ctx, claims.Subject)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", apperrors.NewAuthError("INVALID_TOKEN", "invalid or expired refresh token")
		}
		return "", err
	}

	access, _, err := s.tokenMgr.GenerateAccessToken(user.ID, user.Username)
	if err != nil {
		return "", err
	}
	return access, nil
}

// TokenManager exposes the underlying token manager for middleware usage.
func (s *AuthService) TokenManager() *auth.TokenManager {
	return s.tokenMgr
}
