package ratelimit

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisStore implements Store on a Redis instance.
type RedisStore struct {
	client *redis.Client
}

// NewRedisStore connects to the given address. Password may be empty.
func NewRedisStore(addr, password string) *RedisStore {
	return &RedisStore{
		client: redis.NewClient(&redis.Options{
			Addr:     addr,
			Password: password,
		}),
	}
}

// Incr implements Store with INCR plus a first-writer EXPIRE, the
// fixed-window scheme: the key's TTL is set once when the window opens
// and the counter dies with it. The remaining TTL comes back so the
// caller can report when the window actually ends.
func (s *RedisStore) Incr(ctx context.Context, key string, window time.Duration) (int64, time.Duration, error) {
	count, err := s.client.Incr(ctx, key).Result()
	if err != nil {
		return 0, 0, err
	}
	if count == 1 {
		if err := s.client.Expire(ctx, key, window).Err(); err != nil {
			return count, 0, err
		}
		return count, window, nil
	}

	ttl, err := s.client.TTL(ctx, key).Result()
	if err != nil || ttl < 0 {
		// A key without expiry (e.g. EXPIRE lost to a crash) would
		// otherwise never reset; treat it as a fresh window.
		ttl = window
	}
	return count, ttl, nil
}

// Close releases the underlying connection pool.
func (s *RedisStore) Close() error {
	return s.client.Close()
}
