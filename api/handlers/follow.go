package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"liftlog/api/middleware"
	"liftlog/services"

	"github.com/gin-gonic/gin"
)

var followService = services.NewFollowService()

func Follow(c *gin.Context) {
	userID, ok := middleware.CurrentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	targetID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid user ID"})
		return
	}

	err = followService.Follow(c.Request.Context(), userID, targetID)
	switch {
	case err == nil:
		c.JSON(http.StatusOK, gin.H{"message": "Followed successfully"})
	case errors.Is(err, services.ErrSelfFollow):
		c.JSON(http.StatusBadRequest, gin.H{"error": "Cannot follow yourself"})
	case errors.Is(err, services.ErrUserNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
	case errors.Is(err, services.ErrAlreadyFollowing):
		c.JSON(http.StatusConflict, gin.H{"error": "Already following"})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
	}
}

func Unfollow(c *gin.Context) {
	userID, ok := middleware.CurrentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	targetID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid user ID"})
		return
	}

	err = followService.Unfollow(c.Request.Context(), userID, targetID)
	switch {
	case err == nil:
		c.JSON(http.StatusOK, gin.H{"message": "Unfollowed successfully"})
	case errors.Is(err, services.ErrSelfFollow):
		c.JSON(http.StatusBadRequest, gin.H{"error": "Cannot unfollow yourself"})
	case errors.Is(err, services.ErrNotFollowing):
		c.JSON(http.StatusNotFound, gin.H{"error": "Not following"})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
	}
}
