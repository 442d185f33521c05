// Package cache provides an optional redis-backed cache for the
// leaderboard projection.
//
// The leaderboard is the one read in this app that scans every user, so
// it is the one read worth caching. The cache is a single JSON value
// with a short TTL, invalidated whenever points move. The server runs
// fine without redis — a nil cache simply means every leaderboard
// request hits the database.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/wattwise/wattwise/internal/model"
)

const leaderboardKey = "wattwise:leaderboard"

// Leaderboard caches the top-users projection in redis.
type Leaderboard struct {
	client *redis.Client
	ttl    time.Duration
}

// NewLeaderboard creates a cache over the given redis client. A short
// ttl (tens of seconds) is plenty — the leaderboard tolerates slight
// staleness, and invalidation on awards keeps it mostly fresh anyway.
func NewLeaderboard(client *redis.Client, ttl time.Duration) *Leaderboard {
	return &Leaderboard{client: client, ttl: ttl}
}

// Get returns the cached leaderboard, or (nil, nil) on a cache miss.
// Callers treat any error the same as a miss — the database is always
// the fallback.
func (c *Leaderboard) Get(ctx context.Context) ([]model.User, error) {
	raw, err := c.client.Get(ctx, leaderboardKey).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, fmt.Errorf("cache: reading leaderboard: %w", err)
	}

	var users []model.User
	if err := json.Unmarshal(raw, &users); err != nil {
		return nil, fmt.Errorf("cache: decoding leaderboard: %w", err)
	}
	return users, nil
}

// Set stores the leaderboard with the configured TTL.
func (c *Leaderboard) Set(ctx context.Context, users []model.User) error {
	raw, err := json.Marshal(users)
	if err != nil {
		return fmt.Errorf("cache: encoding leaderboard: %w", err)
	}
	if err := c.client.Set(ctx, leaderboardKey, raw, c.ttl).Err(); err != nil {
		return fmt.Errorf("cache: writing leaderboard: %w", err)
	}
	return nil
}

// Invalidate drops the cached leaderboard. Called after every point
// award so standings never lag a score change by more than one request.
func (c *Leaderboard) Invalidate(ctx context.Context) error {
	if err := c.client.Del(ctx, leaderboardKey).Err(); err != nil {
		return fmt.Errorf("cache: invalidating leaderboard: %w", err)
	}
	return nil
}
