package token

import (
	"context"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// RevocationStore records invalidated token identifiers. An absent jti
// means the token is still valid (subject to its own expiry). Entries
// may be pruned once the underlying token has expired; keeping them
// longer is harmless.
type RevocationStore interface {
	Revoke(ctx context.Context, jti string, ttl time.Duration) error
	IsRevoked(ctx context.Context, jti string) (bool, error)
}

// RedisRevocationStore shares the revocation set across server
// processes. Key expiry prunes entries exactly when the revoked token
// would have expired anyway. This is the store to use whenever more
// than one instance serves traffic.
type RedisRevocationStore struct {
	rdb    *redis.Client
	prefix string
}

func NewRedisRevocationStore(rdb *redis.Client) *RedisRevocationStore {
	return &RedisRevocationStore{rdb: rdb, prefix: "revoked:jti:"}
}

func (s *RedisRevocationStore) Revoke(ctx context.Context, jti string, ttl time.Duration) error {
	return s.rdb.Set(ctx, s.prefix+jti, 1, ttl).Err()
}

func (s *RedisRevocationStore) IsRevoked(ctx context.Context, jti string) (bool, error) {
	n, err := s.rdb.Exists(ctx, s.prefix+jti).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// MemoryRevocationStore is the fallback used when Redis is not
// configured. It is safe for concurrent use within one process but not
// shared between processes, so it is only correct for single-instance
// deployments.
type MemoryRevocationStore struct {
	mu      sync.RWMutex
	expires map[string]time.Time
}

func NewMemoryRevocationStore() *MemoryRevocationStore {
	return &MemoryRevocationStore{expires: make(map[string]time.Time)}
}

func (s *MemoryRevocationStore) Revoke(_ context.Context, jti string, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.expires[jti] = time.Now().UTC().Add(ttl)
	return nil
}

func (s *MemoryRevocationStore) IsRevoked(_ context.Context, jti string) (bool, error) {
	s.mu.RLock()
	exp, ok := s.expires[jti]
	s.mu.RUnlock()
	if !ok {
		return false, nil
	}
	if time.Now().UTC().After(exp) {
		// Inert entry: the token expired on its own, drop it lazily.
		s.mu.Lock()
		delete(s.expires, jti)
		s.mu.Unlock()
		return false, nil
	}
	return true, nil
}
