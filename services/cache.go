package services

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/go-redis/redis/v8"
)

const (
	FeedCacheTTL      = 300 * time.Second
	FollowersCacheTTL = time.Hour
	ProfileCacheTTL   = time.Hour
	WorkoutsCacheTTL  = 300 * time.Second
)

// ErrCacheMiss is returned by CacheGet for both a missing key and a
// disabled cache; callers fall through to the database either way.
var ErrCacheMiss = fmt.Errorf("cache miss")

// Cache keys live in one place so the read sites and the invalidation
// sites cannot drift apart.

func FeedCacheKey(userID int64, cursor *int64) string {
	if cursor == nil {
		return fmt.Sprintf("feed:%d:start", userID)
	}
	return fmt.Sprintf("feed:%d:%d", userID, *cursor)
}

func FollowersCacheKey(userID int64) string {
	return fmt.Sprintf("followers:%d", userID)
}

func ProfileCacheKey(userID int64) string {
	return fmt.Sprintf("profile:%d", userID)
}

func WorkoutsCacheKey(userID int64) string {
	return fmt.Sprintf("workouts:%d", userID)
}

// feedCacheKeyPattern matches every cached feed page of one user,
// regardless of cursor.
func feedCacheKeyPattern(userID int64) string {
	return fmt.Sprintf("feed:%d:*", userID)
}

// CacheGet loads a JSON snapshot into dest. The cache is advisory: any
// Redis error is reported as a miss.
func CacheGet(ctx context.Context, key string, dest interface{}) error {
	if RedisClient == nil {
		return ErrCacheMiss
	}
	data, err := RedisClient.Get(ctx, key).Bytes()
	if err == redis.Nil {
		return ErrCacheMiss
	}
	if err != nil {
		log.Printf("cache read error for %s: %v", key, err)
		return ErrCacheMiss
	}
	if err := json.Unmarshal(data, dest); err != nil {
		log.Printf("cache decode error for %s: %v", key, err)
		return ErrCacheMiss
	}
	return nil
}

// CacheSet stores a JSON snapshot with a TTL. Write failures are swallowed
// after logging; the cache is never a correctness dependency.
func CacheSet(ctx context.Context, key string, value interface{}, ttl time.Duration) {
	if RedisClient == nil {
		return
	}
	data, err := json.Marshal(value)
	if err != nil {
		log.Printf("cache encode error for %s: %v", key, err)
		return
	}
	if err := RedisClient.Set(ctx, key, data, ttl).Err(); err != nil {
		log.Printf("cache write error for %s: %v", key, err)
	}
}

// CacheDel deletes keys, tolerating failures the same way CacheSet does.
func CacheDel(ctx context.Context, keys ...string) {
	if RedisClient == nil || len(keys) == 0 {
		return
	}
	if err := RedisClient.Del(ctx, keys...).Err(); err != nil {
		log.Printf("cache delete error for %v: %v", keys, err)
	}
}

// CacheDelPattern deletes every key matching a glob pattern. Used for feed
// invalidation, where the cursor part of the key is unknown.
func CacheDelPattern(ctx context.Context, pattern string) {
	if RedisClient == nil {
		return
	}
	iter := RedisClient.Scan(ctx, 0, pattern, 100).Iterator()
	var keys []string
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		log.Printf("cache scan error for %s: %v", pattern, err)
		return
	}
	CacheDel(ctx, keys...)
}
