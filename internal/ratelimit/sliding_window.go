package ratelimit

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

// checkSlidingWindowLimit implements the sliding window rate limiting algorithm
// using Redis sorted sets. Each request is stored with its timestamp as the score.
func (r *RateLimiter) checkSlidingWindowLimit(ctx context.Context, key string, limit int, window time.Duration) (bool, int, error) {
	now := time.Now()
	nowUnixMicro := now.UnixMicro()
	windowStart := now.Add(-window).UnixMicro()

	client := r.cache.Client()
	pipe := client.Pipeline()

	// Remove entries outside the window
	pipe.ZRemRangeByScore(ctx, key, "-inf", strconv.FormatInt(windowStart, 10))

	// Count current entries in window
	countCmd := pipe.ZCard(ctx, key)

	_, err := pipe.Exec(ctx)
	if err != nil && err != redis.Nil {
		return false, 0, fmt.Errorf("failed to execute rate limit check: %w", err)
	}

	count := countCmd.Val()
	remaining := limit - int(count)

	if int(count) >= limit {
		return false, 0, nil
	}

	// Microsecond timestamps keep members unique even for rapid requests.
	err = client.ZAdd(ctx, key, redis.Z{
		Score:  float64(nowUnixMicro),
		Member: strconv.FormatInt(nowUnixMicro, 10),
	}).Err()
	if err != nil {
		return false, remaining, fmt.Errorf("failed to add rate limit entry: %w", err)
	}

	// Expire the key so idle identifiers clean themselves up.
	_ = client.Expire(ctx, key, window+time.Second).Err()

	return true, remaining - 1, nil
}

// getSlidingWindowRemaining returns the remaining requests without adding a new entry
func (r *RateLimiter) getSlidingWindowRemaining(ctx context.Context, key string, limit int, window time.Duration) (bool, int, error) {
	now := time.Now()
	windowStart := now.Add(-window).UnixMicro()

	client := r.cache.Client()

	count, err := client.ZCount(ctx, key, strconv.FormatInt(windowStart, 10), "+inf").Result()
	if err != nil && err != redis.Nil {
		return false, limit, fmt.Errorf("failed to get rate limit count: %w", err)
	}

	remaining := limit - int(count)
	if remaining < 0 {
		remaining = 0
	}

	return int(count) < limit, remaining, nil
}

// ResetLimit resets the rate limit for an identifier
func (r *RateLimiter) ResetLimit(ctx context.Context, identifier string) error {
	client := r.cache.Client()

	minuteKey := fmt.Sprintf("ratelimit:minute:%s", identifier)
	dayKey := fmt.Sprintf("ratelimit:day:%s", identifier)

	if err := client.Del(ctx, minuteKey, dayKey).Err(); err != nil {
		return fmt.Errorf("failed to reset rate limit: %w", err)
	}

	return nil
}
