package handlers

import (
	"net/http"
	"strconv"

	"liftlog/api/middleware"
	"liftlog/services"

	"github.com/gin-gonic/gin"
)

var feedService = services.NewFeedService()

// GetFeed serves one cursor page of completed workouts from followed users.
func GetFeed(c *gin.Context) {
	userID, ok := middleware.CurrentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	limit := services.DefaultFeedLimit
	if limitStr := c.Query("limit"); limitStr != "" {
		if parsed, err := strconv.Atoi(limitStr); err == nil && parsed > 0 {
			limit = parsed
		}
	}

	var cursor *int64
	if cursorStr := c.Query("cursor"); cursorStr != "" {
		parsed, err := strconv.ParseInt(cursorStr, 10, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid cursor"})
			return
		}
		cursor = &parsed
	}

	feed, err := feedService.GetFeed(c.Request.Context(), userID, limit, cursor)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to get feed"})
		return
	}

	c.JSON(http.StatusOK, feed)
}
