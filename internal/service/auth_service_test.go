package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/notes-service/internal/auth"
	"github.com/spec-kit/notes-service/internal/config"
	"github.com/spec-kit/notes-service/internal/domain"
	apperrors "github.com/spec-kit/notes-service/pkg/util"
)

type mockUserRepo struct {
	users map[string]*domain.User
}

func newMockUserRepo() *mockUserRepo {
	return &mockUserRepo{users: make(map[string]*domain.User)}
}

func (m *mockUserRepo) Create(_ context.Context, user *domain.User) error {
	user.ID = uuid.NewString()
	user.CreatedAt = time.Now()
	user.UpdatedAt = user.CreatedAt
	m.users[user.ID] = user
	return nil
}

func (m *mockUserRepo) GetByID(_ context.Context, id string) (*domain.User, error) {
	if user, ok := m.users[id]; ok {
		return user, nil
	}
	return nil, pgx.ErrNoRows
}

func (m *mockUserRepo) GetByUsername(_ context.Context, username string) (*domain.User, error) {
	for _, user := range m.users {
		if user.Username == username {
			return user, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (m *mockUserRepo) UpdatePassword(_ context.Context, id, passwordHash string) error {
	user, ok := m.users[id]
	if !ok {
		return pgx.ErrNoRows
	}
	user.PasswordHash = passwordHash
	return nil
}

func (m *mockUserRepo) Delete(_ context.Context, id string) error {
	if _, ok := m.users[id]; !ok {
		return pgx.ErrNoRows
	}
	delete(m.users, id)
	return nil
}

type memoryRefreshStore struct {
	jtis map[string]string
}

func newMemoryRefreshStore() *memoryRefreshStore {
	return &memoryRefreshStore{jtis: make(map[string]string)}
}

func (s *memoryRefreshStore) Save(_ context.Context, jti, userID string, _ time.Duration) error {
	s.jtis[jti] = userID
	return nil
}

func (s *memoryRefreshStore) Exists(_ context.Context, jti string) (bool, error) {
	_, ok := s.jtis[jti]
	return ok, nil
}

func (s *memoryRefreshStore) Revoke(_ context.Context, jti string) error {
	delete(s.jtis, jti)
	return nil
}

func testAuthConfig() config.Config {
	return config.Config{Auth: config.AuthConfig{
		JWTSecret:             "test-secret",
		AccessTokenTTLMinutes: 60,
		RefreshTokenTTLHours:  24,
		BcryptCost:            4,
	}}
}

func registerUser(t *testing.T, repo *mockUserRepo, username, password string) *domain.User {
	t.Helper()
	hash, err := auth.HashPassword(password, 4)
	require.NoError(t, err)
	user := &domain.User{Username: username, PasswordHash: hash}
	require.NoError(t, repo.Create(context.Background(), user))
	return user
}

func TestIssueCredential(t *testing.T) {
	repo := newMockUserRepo()
	user := registerUser(t, repo, "u1", "pass12345")
	svc := NewAuthService(testAuthConfig(), AuthDependencies{UserRepo: repo})
	ctx := context.Background()

	pair, err := svc.IssueCredential(ctx, "u1", "pass12345")
	require.NoError(t, err)
	require.NotEmpty(t, pair.Access)
	require.NotEmpty(t, pair.Refresh)

	claims, err := svc.TokenManager().ParseToken(pair.Access, auth.TokenTypeAccess)
	require.NoError(t, err)
	require.Equal(t, user.ID, claims.Subject)
	require.Equal(t, "u1", claims.Username)
}

func TestIssueCredentialRejectsBadLogin(t *testing.T) {
	repo := newMockUserRepo()
	registerUser(t, repo, "u1", "pass12345")
	svc := NewAuthService(testAuthConfig(), AuthDependencies{UserRepo: repo})
	ctx := context.Background()

	// unknown username and wrong password look identical to the caller
	for _, attempt := range [][2]string{{"nobody", "pass12345"}, {"u1", "wrong"}} {
		_, err := svc.IssueCredential(ctx, attempt[0], attempt[1])
		var domainErr *apperrors.DomainError
		require.ErrorAs(t, err, &domainErr)
		require.Equal(t, "INVALID_CREDENTIALS", domainErr.Code)
		require.Equal(t, 401, domainErr.HTTPStatus)
	}
}

func TestRefreshCredential(t *testing.T) {
	repo := newMockUserRepo()
	user := registerUser(t, repo, "u1", "pass12345")
	svc := NewAuthService(testAuthConfig(), AuthDependencies{UserRepo: repo})
	ctx := context.Background()

	pair, err := svc.IssueCredential(ctx, "u1", "pass12345")
	require.NoError(t, err)

	access, err := svc.RefreshCredential(ctx, pair.Refresh)
	require.NoError(t, err)

	claims, err := svc.TokenManager().ParseToken(access, auth.TokenTypeAccess)
	require.NoError(t, err)
	require.Equal(t, user.ID, claims.Subject)
	require.Equal(t, "u1", claims.Username)
}

func TestRefreshCredentialRejectsAccessToken(t *testing.T) {
	repo := newMockUserRepo()
	registerUser(t, repo, "u1", "pass12345")
	svc := NewAuthService(testAuthConfig(), AuthDependencies{UserRepo: repo})
	ctx := context.Background()

	pair, err := svc.IssueCredential(ctx, "u1", "pass12345")
	require.NoError(t, err)

	_, err = svc.RefreshCredential(ctx, pair.Access)
	var domainErr *apperrors.DomainError
	require.ErrorAs(t, err, &domainErr)
	require.Equal(t, "INVALID_TOKEN", domainErr.Code)
}

func TestRefreshCredentialWithRegistry(t *testing.T) {
	repo := newMockUserRepo()
	registerUser(t, repo, "u1", "pass12345")
	store := newMemoryRefreshStore()
	svc := NewAuthService(testAuthConfig(), AuthDependencies{UserRepo: repo, RefreshStore: store})
	ctx := context.Background()

	pair, err := svc.IssueCredential(ctx, "u1", "pass12345")
	require.NoError(t, err)
	require.Len(t, store.jtis, 1)

	_, err = svc.RefreshCredential(ctx, pair.Refresh)
	require.NoError(t, err)

	// a revoked refresh token stops working even though its signature is valid
	for jti := range store.jtis {
		require.NoError(t, store.Revoke(ctx, jti))
	}
	_, err = svc.RefreshCredential(ctx, pair.Refresh)
	var domainErr *apperrors.DomainError
	require.ErrorAs(t, err, &domainErr)
	require.Equal(t, "INVALID_TOKEN", domainErr.Code)
}
