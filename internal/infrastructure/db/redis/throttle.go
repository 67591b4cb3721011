package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/usermgmt/accounts-api/internal/core/domain"
)

const defaultLockout = 15 * time.Minute

// LoginThrottle counts failed logins in Redis and locks a (kind, username)
// pair once maxFailures is reached. The counter expires lockout after the
// first failure in a window.
// Key format: login:failures:<kind>:<username>
type LoginThrottle struct {
	client      *redis.Client
	maxFailures int64
	lockout     time.Duration
}

// NewLoginThrottle creates a LoginThrottle wrapping the given Redis client.
func NewLoginThrottle(client *redis.Client, maxFailures int, lockout time.Duration) *LoginThrottle {
	if maxFailures <= 0 {
		maxFailures = 5
	}
	if lockout <= 0 {
		lockout = defaultLockout
	}
	return &LoginThrottle{client: client, maxFailures: int64(maxFailures), lockout: lockout}
}

// Locked reports whether the pair has exhausted its failure budget.
func (t *LoginThrottle) Locked(ctx context.Context, kind domain.Kind, username string) (bool, error) {
	n, err := t.client.Get(ctx, failureKey(kind, username)).Int64()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("throttle check: %w", err)
	}
	return n >= t.maxFailures, nil
}

// RecordFailure increments the failure counter and returns the new count.
func (t *LoginThrottle) RecordFailure(ctx context.Context, kind domain.Kind, username string) (int64, error) {
	key := failureKey(kind, username)

	pipe := t.client.TxPipeline()
	incr := pipe.Incr(ctx, key)
	pipe.ExpireNX(ctx, key, t.lockout)
	if _, err := pipe.Exec(ctx); err != nil {
		return 0, fmt.Errorf("throttle record: %w", err)
	}
	return incr.Val(), nil
}

// Reset clears the counter after a successful login.
func (t *LoginThrottle) Reset(ctx context.Context, kind domain.Kind, username string) error {
	return t.client.Del(ctx, failureKey(kind, username)).Err()
}

func failureKey(kind domain.Kind, username string) string {
	return fmt.Sprintf("login:failures:%s:%s", kind, username)
}
