package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/d60-Lab/warbler/pkg/logger"
)

// UserStats holds the four profile counters rendered on every user page.
type UserStats struct {
	Messages  int64 `json:"messages"`
	Following int64 `json:"following"`
	Followers int64 `json:"followers"`
	Likes     int64 `json:"likes"`
}

// StatsCache caches per-user counters in Redis so profile reads skip four
// COUNT queries. A nil *StatsCache is valid and behaves as a pass-through,
// which keeps Redis optional in config and in tests.
type StatsCache struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewStatsCache(rdb *redis.Client, ttl time.Duration) *StatsCache {
	if ttl <= 0 {
		ttl = time.Minute
	}
	return &StatsCache{rdb: rdb, ttl: ttl}
}

func statsKey(userID int64) string { return fmt.Sprintf("user:stats:%d", userID) }

// Get returns the cached counters, or ok=false on miss / disabled cache.
func (c *StatsCache) Get(ctx context.Context, userID int64) (UserStats, bool) {
	if c == nil || c.rdb == nil {
		return UserStats{}, false
	}
	data, err := c.rdb.Get(ctx, statsKey(userID)).Bytes()
	if err != nil {
		return UserStats{}, false
	}
	var s UserStats
	if err := json.Unmarshal(data, &s); err != nil {
		return UserStats{}, false
	}
	return s, true
}

func (c *StatsCache) Set(ctx context.Context, userID int64, s UserStats) {
	if c == nil || c.rdb == nil {
		return
	}
	payload, err := json.Marshal(s)
	if err != nil {
		return
	}
	if err := c.rdb.Set(ctx, statsKey(userID), payload, c.ttl).Err(); err != nil {
		logger.Warn("stats cache set failed: " + err.Error())
	}
}

// Invalidate drops the cached counters after any mutation that changes them.
func (c *StatsCache) Invalidate(ctx context.Context, userIDs ...int64) {
	if c == nil || c.rdb == nil || len(userIDs) == 0 {
		return
	}
	keys := make([]string, len(userIDs))
	for i, id := range userIDs {
		keys[i] = statsKey(id)
	}
	if err := c.rdb.Del(ctx, keys...).Err(); err != nil {
		logger.Warn("stats cache invalidate failed: " + err.Error())
	}
}
