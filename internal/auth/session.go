package auth

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/spec-kit/notes-service/internal/persistence"
)

// RefreshTokenStore tracks issued refresh token JTIs so refresh tokens can
// be revoked server-side. The token contract is unchanged either way; a nil
// store means signature-only validation.
type RefreshTokenStore interface {
	Save(ctx context.Context, jti, userID string, ttl time.Duration) error
	Exists(ctx context.Context, jti string) (bool, error)
	Revoke(ctx context.Context, jti string) error
}

const refreshKeyPrefix = "refresh:"

type redisRefreshStore struct {
	client *redis.Client
}

// NewRefreshTokenStore returns a Redis-backed store, or nil when Redis is
// not configured.
func NewRefreshTokenStore(r *persistence.Redis) RefreshTokenStore {
	if r == nil || r.Client == nil {
		return nil
	}
	return &redisRefreshStore{client: r.Client}
}

func (s *redisRefreshStore) Save(ctx context.Context, jti, userID string, ttl time.Duration) error {
	return s.client.Set(ctx, refreshKeyPrefix+jti, userID, ttl).Err()
}

func (s *redisRefreshStore) Exists(ctx context.Context, jti string) (bool, error) {
	count, err := s.client.Exists(ctx, refreshKeyPrefix+jti).Result()
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (s *redisRefreshStore) Revoke(ctx context.Context, jti string) error {
	return s.client.Del(ctx, refreshKeyPrefix+jti).Err()
}
