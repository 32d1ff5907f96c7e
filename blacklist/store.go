package blacklist

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

// ErrRedisUnavailable is an exported constant or variable used by the authentication engine.
var ErrRedisUnavailable = errors.New("redis unavailable")

const (
	tokenKeyPrefix = "bl:"
	userKeyPrefix  = "ur:"
)

// Store is a Redis-backed revocation list with self-expiring entries.
//
// Store instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type Store struct {
	redis  redis.UniversalClient
	prefix string
}

// NewStore creates a revocation [Store] backed by the given Redis client.
// prefix sets the Redis key namespace.
func NewStore(redisClient redis.UniversalClient, prefix string) *Store {
	return &Store{
		redis:  redisClient,
		prefix: prefix,
	}
}

// Revoke describes the revoke operation and its observable behavior.
//
// Revoke records jti with TTL = max(0, expiresAt-now). A non-positive TTL is
// a no-op: an already-expired token needs no blacklist entry.
func (s *Store) Revoke(ctx context.Context, jti string, expiresAt time.Time) error {
	ttl := time.Until(expiresAt)
	if ttl <= 0 {
		return nil
	}

	if err := s.redis.Set(ctx, s.tokenKey(jti), "1", ttl).Err(); err != nil {
		return fmt.Errorf("%w: %v", ErrRedisUnavailable, err)
	}

	return nil
}

// IsRevoked describes the isrevoked operation and its observable behavior.
//
// IsRevoked answers the membership query for jti. Infrastructure failures
// surface as [ErrRedisUnavailable]; the caller decides the fail-open policy.
func (s *Store) IsRevoked(ctx context.Context, jti string) (bool, error) {
	n, err := s.redis.Exists(ctx, s.tokenKey(jti)).Result()
	if err != nil {
		return false, fmt.Errorf("%w: %v", ErrRedisUnavailable, err)
	}

	return n > 0, nil
}

// RevokeUser describes the revokeuser operation and its observable behavior.
//
// RevokeUser stamps a user-wide revocation marker at the given time. Tokens
// issued at or before the marker are rejected by the guard. ttl bounds the
// marker's life and should cover the longest outstanding refresh token.
func (s *Store) RevokeUser(ctx context.Context, userID string, at time.Time, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}

	value := strconv.FormatInt(at.Unix(), 10)
	if err := s.redis.Set(ctx, s.userKey(userID), value, ttl).Err(); err != nil {
		return fmt.Errorf("%w: %v", ErrRedisUnavailable, err)
	}

	return nil
}

// UserRevokedAt describes the userrevokedat operation and its observable behavior.
//
// UserRevokedAt returns the user-wide revocation timestamp, or a zero time
// when no marker exists.
func (s *Store) UserRevokedAt(ctx context.Context, userID string) (time.Time, error) {
	value, err := s.redis.Get(ctx, s.userKey(userID)).Result()
	if errors.Is(err, redis.Nil) {
		return time.Time{}, nil
	}
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %v", ErrRedisUnavailable, err)
	}

	unix, err := strconv.ParseInt(value, 10, 64)
	if err != nil {
		return time.Time{}, nil
	}

	return time.Unix(unix, 0), nil
}

func (s *Store) tokenKey(jti string) string {
	return s.prefix + tokenKeyPrefix + jti
}

func (s *Store) userKey(userID string) string {
	return s.prefix + userKeyPrefix + userID
}
