package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestCacheRoundTrip(t *testing.T) {
	setupTestDB(t)
	setupTestRedis(t)
	ctx := context.Background()

	type payload struct {
		Name  string `json:"name"`
		Count int    `json:"count"`
	}

	CacheSet(ctx, "test:key", payload{Name: "bench", Count: 3}, time.Minute)

	var got payload
	require.NoError(t, CacheGet(ctx, "test:key", &got))
	require.Equal(t, "bench", got.Name)
	require.Equal(t, 3, got.Count)
}

func TestCacheMissOnAbsentKey(t *testing.T) {
	setupTestDB(t)
	setupTestRedis(t)
	ctx := context.Background()

	var got string
	require.ErrorIs(t, CacheGet(ctx, "test:absent", &got), ErrCacheMiss)
}

func TestCacheDisabledReportsMiss(t *testing.T) {
	RedisClient = nil
	ctx := context.Background()

	var got string
	require.ErrorIs(t, CacheGet(ctx, "test:key", &got), ErrCacheMiss)

	// Writes and deletes are no-ops, not panics.
	CacheSet(ctx, "test:key", "value", time.Minute)
	CacheDel(ctx, "test:key")
	CacheDelPattern(ctx, "test:*")
}

func TestCacheTTLExpiry(t *testing.T) {
	setupTestDB(t)
	mr := setupTestRedis(t)
	ctx := context.Background()

	CacheSet(ctx, "test:key", "value", time.Minute)

	var got string
	require.NoError(t, CacheGet(ctx, "test:key", &got))

	mr.FastForward(time.Minute + time.Second)
	require.ErrorIs(t, CacheGet(ctx, "test:key", &got), ErrCacheMiss)
}

func TestCacheDelPattern(t *testing.T) {
	setupTestDB(t)
	mr := setupTestRedis(t)
	ctx := context.Background()

	CacheSet(ctx, "feed:1:start", "a", time.Minute)
	CacheSet(ctx, "feed:1:42", "b", time.Minute)
	CacheSet(ctx, "feed:2:start", "c", time.Minute)

	CacheDelPattern(ctx, feedCacheKeyPattern(1))

	require.False(t, mr.Exists("feed:1:start"))
	require.False(t, mr.Exists("feed:1:42"))
	require.True(t, mr.Exists("feed:2:start"))
}

func TestFeedCacheKeyFormat(t *testing.T) {
	require.Equal(t, "feed:7:start", FeedCacheKey(7, nil))
	cursor := int64(42)
	require.Equal(t, "feed:7:42", FeedCacheKey(7, &cursor))
}
