package services

import (
	"context"
	"fmt"
	"log"
	"time"
)

// RateLimitCategory selects a preconfigured (limit, window) pair.
type RateLimitCategory string

const (
	CategoryAuth   RateLimitCategory = "auth"
	CategoryRead   RateLimitCategory = "read"
	CategoryWrite  RateLimitCategory = "write"
	CategoryDelete RateLimitCategory = "delete"
	CategoryAI     RateLimitCategory = "ai"
)

type limitRule struct {
	Limit  int
	Window time.Duration
}

type categoryPolicy struct {
	IP   limitRule
	User *limitRule
}

// Fixed numeric policy, reproduced exactly for compatibility with the
// deployed clients.
var rateLimitPolicy = map[RateLimitCategory]categoryPolicy{
	CategoryAuth:   {IP: limitRule{5, 15 * time.Minute}},
	CategoryRead:   {IP: limitRule{100, time.Minute}, User: &limitRule{200, time.Minute}},
	CategoryWrite:  {IP: limitRule{30, time.Minute}, User: &limitRule{60, time.Minute}},
	CategoryDelete: {IP: limitRule{10, time.Minute}, User: &limitRule{20, time.Minute}},
	CategoryAI:     {IP: limitRule{3, time.Hour}, User: &limitRule{5, time.Hour}},
}

// RateLimitResult reports one limiter decision. Reset is a Unix-seconds
// timestamp of the window end.
type RateLimitResult struct {
	Success   bool
	Scope     string // "ip" or "user"
	Limit     int
	Remaining int
	Reset     int64
}

// timeNow is swapped in tests to pin the window.
var timeNow = time.Now

type RateLimitService struct{}

func NewRateLimitService() *RateLimitService {
	return &RateLimitService{}
}

// Check runs the IP-scoped limiter for the category and, when the category
// defines one and a user id is present, the user-scoped limiter after it.
// A nil result means the request may proceed. With no Redis client the
// limiter fails open: every request is allowed (development fallback; a
// production deployment must configure Redis).
func (rs *RateLimitService) Check(ctx context.Context, category RateLimitCategory, ip string, userID *int64) *RateLimitResult {
	if RedisClient == nil {
		return nil
	}

	policy, ok := rateLimitPolicy[category]
	if !ok {
		return nil
	}

	ipResult := rs.checkWindow(ctx, "ip", category, policy.IP, ip)
	if !ipResult.Success {
		rateLimitRejections.WithLabelValues(string(category), "ip").Inc()
		return &ipResult
	}

	if policy.User == nil || userID == nil {
		return nil
	}

	userResult := rs.checkWindow(ctx, "user", category, *policy.User, fmt.Sprintf("%d", *userID))
	if !userResult.Success {
		rateLimitRejections.WithLabelValues(string(category), "user").Inc()
		return &userResult
	}

	return nil
}

// checkWindow counts the request against a fixed window. The window start
// is derived from wall-clock time so every instance agrees on the key.
func (rs *RateLimitService) checkWindow(ctx context.Context, scope string, category RateLimitCategory, rule limitRule, identifier string) RateLimitResult {
	windowSecs := int64(rule.Window / time.Second)
	now := timeNow().Unix()
	window := now / windowSecs
	reset := (window + 1) * windowSecs

	key := fmt.Sprintf("rl:%s:%s:%s:%d", scope, category, identifier, window)

	count, err := RedisClient.Incr(ctx, key).Result()
	if err != nil {
		// Counter backend down: fail open, same as unconfigured.
		log.Printf("rate limit counter error for %s: %v", key, err)
		return RateLimitResult{Success: true, Scope: scope, Limit: rule.Limit, Remaining: rule.Limit, Reset: reset}
	}
	if count == 1 {
		RedisClient.Expire(ctx, key, rule.Window)
	}

	remaining := rule.Limit - int(count)
	if remaining < 0 {
		remaining = 0
	}

	return RateLimitResult{
		Success:   count <= int64(rule.Limit),
		Scope:     scope,
		Limit:     rule.Limit,
		Remaining: remaining,
		Reset:     reset,
	}
}

// NormalizeResetSeconds converts a limiter reset timestamp to Unix seconds.
// Values above 10,000,000,000 are taken to be milliseconds.
func NormalizeResetSeconds(reset int64) int64 {
	if reset > 10_000_000_000 {
		return reset / 1000
	}
	return reset
}
