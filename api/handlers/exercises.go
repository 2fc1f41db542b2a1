package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"liftlog/services"

	"github.com/gin-gonic/gin"
)

var exerciseService = services.NewExerciseService()

func ListExercises(c *gin.Context) {
	exercises, err := exerciseService.List(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list exercises"})
		return
	}
	c.JSON(http.StatusOK, exercises)
}

func GetExercise(c *gin.Context) {
	exerciseID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid exercise ID"})
		return
	}

	exercise, err := exerciseService.Get(c.Request.Context(), exerciseID)
	if err != nil {
		if errors.Is(err, services.ErrExerciseNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Exercise not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	c.JSON(http.StatusOK, exercise)
}
