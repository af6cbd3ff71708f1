package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestCache(t *testing.T) *StatsCache {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	return NewStatsCache(rdb, time.Minute)
}

func TestStatsCacheRoundTrip(t *testing.T) {
	c := newTestCache(t)
	ctx := context.Background()

	_, ok := c.Get(ctx, 1111)
	assert.False(t, ok, "cold cache must miss")

	want := UserStats{Messages: 2, Following: 1, Followers: 0, Likes: 1}
	c.Set(ctx, 1111, want)

	got, ok := c.Get(ctx, 1111)
	require.True(t, ok)
	assert.Equal(t, want, got)
}

func TestStatsCacheInvalidate(t *testing.T) {
	c := newTestCache(t)
	ctx := context.Background()

	c.Set(ctx, 1111, UserStats{Messages: 1})
	c.Set(ctx, 2222, UserStats{Followers: 1})

	c.Invalidate(ctx, 1111, 2222)

	_, ok := c.Get(ctx, 1111)
	assert.False(t, ok)
	_, ok = c.Get(ctx, 2222)
	assert.False(t, ok)
}

func TestStatsCacheNilPassThrough(t *testing.T) {
	var c *StatsCache
	ctx := context.Background()

	// nil cache is a valid no-op so redis stays optional
	_, ok := c.Get(ctx, 1111)
	assert.False(t, ok)
	c.Set(ctx, 1111, UserStats{Messages: 1})
	c.Invalidate(ctx, 1111)
}
