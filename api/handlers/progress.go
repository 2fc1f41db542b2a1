package handlers

import (
	"net/http"
	"strconv"

	"liftlog/api/middleware"
	"liftlog/services"

	"github.com/gin-gonic/gin"
)

var progressService = services.NewProgressService()

// GetExerciseProgress charts the caller's history for one exercise.
func GetExerciseProgress(c *gin.Context) {
	userID, ok := middleware.CurrentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	exerciseID, err := strconv.ParseInt(c.Param("exerciseId"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid exercise ID"})
		return
	}

	points, err := progressService.ExerciseProgress(c.Request.Context(), userID, exerciseID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load progress"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"points": points})
}
