// Package locks provides the Redis-backed attempt locker used when the
// backend runs more than one replica. A SETNX key per (user, title)
// pair guarantees at most one in-flight purchase attempt across all
// instances; the TTL keeps a crashed instance from wedging the pair
// forever.
package locks

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const attemptTTL = 15 * time.Minute

type RedisLocker struct {
	client *redis.Client
}

func NewRedisLocker(addr string) *RedisLocker {
	return &RedisLocker{
		client: redis.NewClient(&redis.Options{Addr: addr}),
	}
}

func key(userID, titleID uint) string {
	return fmt.Sprintf("payment:attempt:%d:%d", userID, titleID)
}

func (l *RedisLocker) Acquire(ctx context.Context, userID, titleID uint) (bool, error) {
	ok, err := l.client.SetNX(ctx, key(userID, titleID), 1, attemptTTL).Result()
	if err != nil {
		return false, fmt.Errorf("redis setnx: %w", err)
	}
	return ok, nil
}

func (l *RedisLocker) Release(ctx context.Context, userID, titleID uint) error {
	if err := l.client.Del(ctx, key(userID, titleID)).Err(); err != nil {
		return fmt.Errorf("redis del: %w", err)
	}
	return nil
}
