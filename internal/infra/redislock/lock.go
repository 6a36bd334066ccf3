package redislock

import (
	"context"
	"errors"
	"time"

	"courtside/internal/pkg/errs"

	"github.com/go-redis/redis/v8"
)

// Locker hands out best-effort leadership locks so only one sweeper instance
// runs a pass at a time. TTL expiry covers crashed holders.
type Locker struct {
	client *redis.Client
}

func NewLocker(client *redis.Client) *Locker {
	return &Locker{client: client}
}

// Acquire returns true if this owner now holds the named lock.
func (l *Locker) Acquire(ctx context.Context, name, owner string, ttl time.Duration) (bool, error) {
	ok, err := l.client.SetNX(ctx, "lock:"+name, owner, ttl).Result()
	if err != nil {
		return false, errs.Wrap(err, "failed to acquire lock")
	}
	return ok, nil
}

// Release deletes the lock only when this owner still holds it. A lock that
// expired and was taken by someone else is left alone.
func (l *Locker) Release(ctx context.Context, name, owner string) error {
	key := "lock:" + name
	val, err := l.client.Get(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		return nil
	}
	if err != nil {
		return errs.Wrap(err, "failed to read lock owner")
	}
	if val != owner {
		return nil
	}
	if err := l.client.Del(ctx, key).Err(); err != nil {
		return errs.Wrap(err, "failed to release lock")
	}
	return nil
}
