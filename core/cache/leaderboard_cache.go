package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"ladder-api/core/models"

	"github.com/go-redis/redis/v8"
)

const (
	leaderboardKeyPrefix = "leaderboard:season:"
	leaderboardTTL       = 60 * time.Second
)

// LeaderboardCache keeps recently computed season leaderboards in
// Redis. The TTL is short on purpose: inactivity decay only moves at
// day granularity, so a sub-minute cache never changes a visible
// rating, it only absorbs repeated reads. A nil *LeaderboardCache is
// valid and disables caching entirely.
type LeaderboardCache struct {
	client *redis.Client
}

func NewLeaderboardCache(addr string) *LeaderboardCache {
	return &LeaderboardCache{
		client: redis.NewClient(&redis.Options{
			Addr: addr,
		}),
	}
}

func seasonKey(seasonID uint) string {
	return fmt.Sprintf("%s%d", leaderboardKeyPrefix, seasonID)
}

// Get returns the cached leaderboard for a season, or nil on miss (or
// when caching is disabled).
func (c *LeaderboardCache) Get(ctx context.Context, seasonID uint) []models.LeaderboardEntry {
	if c == nil {
		return nil
	}

	raw, err := c.client.Get(ctx, seasonKey(seasonID)).Bytes()
	if err != nil {
		return nil
	}

	var entries []models.LeaderboardEntry
	if err := json.Unmarshal(raw, &entries); err != nil {
		return nil
	}
	return entries
}

// Set stores a computed leaderboard. Failures are swallowed: the cache
// is an optimization, never a source of truth.
func (c *LeaderboardCache) Set(ctx context.Context, seasonID uint, entries []models.LeaderboardEntry) {
	if c == nil {
		return
	}

	raw, err := json.Marshal(entries)
	if err != nil {
		return
	}
	c.client.Set(ctx, seasonKey(seasonID), raw, leaderboardTTL)
}

// Invalidate drops a season's cached leaderboard. Called after a replay
// finishes so readers see the rebuilt history immediately.
func (c *LeaderboardCache) Invalidate(seasonID uint) {
	if c == nil {
		return
	}
	c.client.Del(context.Background(), seasonKey(seasonID))
}
