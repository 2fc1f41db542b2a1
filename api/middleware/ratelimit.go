package middleware

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"liftlog/db"
	"liftlog/models"
	"liftlog/services"

	"github.com/gin-gonic/gin"
)

var rateLimitService = services.NewRateLimitService()

// ClientIP extracts the caller address from proxy headers: first
// X-Forwarded-For value wins, then X-Real-IP, then "unknown".
func ClientIP(r *http.Request) string {
	if forwarded := r.Header.Get("X-Forwarded-For"); forwarded != "" {
		first := strings.TrimSpace(strings.Split(forwarded, ",")[0])
		if first != "" {
			return first
		}
	}
	if realIP := strings.TrimSpace(r.Header.Get("X-Real-IP")); realIP != "" {
		return realIP
	}
	return "unknown"
}

// RateLimit enforces the category's IP-scoped limit and, for authenticated
// requests, the user-scoped limit. Rejection short-circuits before any
// store access. Must be registered after RequireAuth on authenticated
// routes so the user id is available.
func RateLimit(category services.RateLimitCategory) gin.HandlerFunc {
	return func(c *gin.Context) {
		ip := ClientIP(c.Request)

		var userID *int64
		if id, ok := CurrentUserID(c); ok {
			userID = &id
		}

		result := rateLimitService.Check(c.Request.Context(), category, ip, userID)
		if result == nil {
			c.Next()
			return
		}

		logRateLimitHit(c, ip, userID)
		writeRateLimitExceeded(c, result)
		c.Abort()
	}
}

// writeRateLimitExceeded renders the 429 contract. The reset timestamp is
// normalized to Unix seconds before use.
func writeRateLimitExceeded(c *gin.Context, result *services.RateLimitResult) {
	reset := services.NormalizeResetSeconds(result.Reset)
	retryAfter := reset - time.Now().Unix()
	if retryAfter < 0 {
		retryAfter = 0
	}

	c.Header("X-RateLimit-Limit", strconv.Itoa(result.Limit))
	c.Header("X-RateLimit-Remaining", strconv.Itoa(result.Remaining))
	c.Header("X-RateLimit-Reset", strconv.FormatInt(reset, 10))
	c.Header("Retry-After", strconv.FormatInt(retryAfter, 10))

	c.JSON(http.StatusTooManyRequests, gin.H{
		"error":      "RATE_LIMIT_EXCEEDED",
		"message":    "Too many requests. Please try again later.",
		"retryAfter": retryAfter,
		"limit":      result.Limit,
		"remaining":  result.Remaining,
		"reset":      reset,
	})
}

// logRateLimitHit records the rejection for abuse review. Best-effort: a
// failed insert never delays the 429.
func logRateLimitHit(c *gin.Context, ip string, userID *int64) {
	if db.ORM == nil {
		return
	}
	_ = db.GetWriteDB(c.Request.Context()).Create(&models.RateLimitLog{
		IP:       ip,
		UserID:   userID,
		Endpoint: c.FullPath(),
		Blocked:  true,
	}).Error
}
