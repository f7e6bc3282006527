package redis

import (
	"context"
	"fmt"
	"time"

	"quickcourt/internal/client"
	"quickcourt/internal/util"
)

const otpRequestPrefix = "otp_requests:"

// RateLimitCache throttles OTP requests per email over a fixed window,
// backed by Redis counters with TTL.
type RateLimitCache struct {
	client *client.RedisClient
	limit  int
	window time.Duration
}

func NewRateLimitCache(c *client.RedisClient, limit int, window time.Duration) *RateLimitCache {
	return &RateLimitCache{client: c, limit: limit, window: window}
}

// AllowOTPRequest counts one request for email and reports whether it is
// still within the window limit.
func (c *RateLimitCache) AllowOTPRequest(ctx context.Context, email string) (bool, error) {
	opCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	key := otpRequestPrefix + email
	count, err := c.client.IncrWithExpire(opCtx, key, c.window)
	if err != nil {
		return false, fmt.Errorf("failed to count otp request: %w", err)
	}

	if count > int64(c.limit) {
		util.Warn("otp request rate limit hit",
			util.String("email", email),
			util.Int("limit", c.limit))
		return false, nil
	}
	return true, nil
}

// Reset clears the request counter for email; used by tests and support
// tooling.
func (c *RateLimitCache) Reset(ctx context.Context, email string) error {
	opCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	return c.client.Del(opCtx, otpRequestPrefix+email)
}
