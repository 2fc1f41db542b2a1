package services

import (
	"context"
	"fmt"
	"time"

	"liftlog/db"
	"liftlog/models"
)

// ExerciseProgressPoint summarizes one workout's working sets for a single
// exercise.
type ExerciseProgressPoint struct {
	Date         time.Time `json:"date"`
	MaxWeight    float64   `json:"max_weight"`
	TotalVolume  float64   `json:"total_volume"`
	Estimated1RM float64   `json:"estimated_1rm"`
}

type ProgressService struct{}

func NewProgressService() *ProgressService {
	return &ProgressService{}
}

// Estimate1RM applies the Epley formula: weight * (1 + reps/30).
func Estimate1RM(weight float64, reps int) float64 {
	return weight * (1 + float64(reps)/30)
}

// ExerciseProgress returns one point per workout in which the user
// performed the exercise, oldest first. Warmup sets and sets without a
// positive weight and rep count are ignored; workouts with no qualifying
// sets produce no point.
func (ps *ProgressService) ExerciseProgress(ctx context.Context, userID, exerciseID int64) ([]ExerciseProgressPoint, error) {
	var workoutIDs []int64
	err := db.GetReadOnlyDB(ctx).
		Model(&models.Workout{}).
		Distinct("workouts.id").
		Joins("JOIN workout_exercises ON workout_exercises.workout_id = workouts.id").
		Where("workouts.user_id = ? AND workout_exercises.exercise_id = ?", userID, exerciseID).
		Pluck("workouts.id", &workoutIDs).Error
	if err != nil {
		return nil, fmt.Errorf("failed to find progress workouts: %w", err)
	}
	if len(workoutIDs) == 0 {
		return []ExerciseProgressPoint{}, nil
	}

	var workouts []models.Workout
	err = db.GetReadOnlyDB(ctx).
		Where("id IN ?", workoutIDs).
		Order("date ASC, id ASC").
		Preload("Exercises", "exercise_id = ?", exerciseID).
		Preload("Exercises.Sets").
		Find(&workouts).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load progress workouts: %w", err)
	}

	points := make([]ExerciseProgressPoint, 0, len(workouts))
	for _, workout := range workouts {
		point := ExerciseProgressPoint{Date: workout.Date}
		valid := false

		for _, we := range workout.Exercises {
			for _, set := range we.Sets {
				if set.IsWarmup || set.Weight <= 0 || set.Reps <= 0 {
					continue
				}
				valid = true
				if set.Weight > point.MaxWeight {
					point.MaxWeight = set.Weight
				}
				point.TotalVolume += set.Weight * float64(set.Reps)
				if oneRM := Estimate1RM(set.Weight, set.Reps); oneRM > point.Estimated1RM {
					point.Estimated1RM = oneRM
				}
			}
		}

		if valid {
			points = append(points, point)
		}
	}
	return points, nil
}
