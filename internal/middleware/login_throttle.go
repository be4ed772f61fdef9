package middleware

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/go-redis/redis/v8"
)

// LoginThrottle tracks failed login attempts per account in Redis so the
// limit holds across server instances and restarts
type LoginThrottle struct {
	redis       *redis.Client
	maxAttempts int
	window      time.Duration
}

// NewLoginThrottle creates a login throttle backed by Redis
func NewLoginThrottle(client *redis.Client, maxAttempts int, window time.Duration) *LoginThrottle {
	return &LoginThrottle{
		redis:       client,
		maxAttempts: maxAttempts,
		window:      window,
	}
}

func (t *LoginThrottle) key(email string) string {
	return fmt.Sprintf("login_attempts:%s", strings.ToLower(email))
}

// Allowed reports whether the account may attempt another login
func (t *LoginThrottle) Allowed(ctx context.Context, email string) (bool, error) {
	count, err := t.redis.Get(ctx, t.key(email)).Int()
	if err == redis.Nil {
		return true, nil
	}
	if err != nil {
		// Redis being down should not lock everyone out
		return true, err
	}
	return count < t.maxAttempts, nil
}

// RecordFailure increments the failed attempt counter. The window starts
// at the first failure and is not extended by later ones.
func (t *LoginThrottle) RecordFailure(ctx context.Context, email string) error {
	key := t.key(email)

	count, err := t.redis.Incr(ctx, key).Result()
	if err != nil {
		return err
	}
	if count == 1 {
		return t.redis.Expire(ctx, key, t.window).Err()
	}
	return nil
}

// Reset clears the counter after a successful login
func (t *LoginThrottle) Reset(ctx context.Context, email string) error {
	return t.redis.Del(ctx, t.key(email)).Err()
}
