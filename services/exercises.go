package services

import (
	"context"
	"errors"
	"fmt"

	"liftlog/db"
	"liftlog/models"

	"gorm.io/gorm"
)

var ErrExerciseNotFound = errors.New("exercise not found")

// ExerciseService reads the seeded catalog; nothing here mutates it.
type ExerciseService struct{}

func NewExerciseService() *ExerciseService {
	return &ExerciseService{}
}

func (es *ExerciseService) List(ctx context.Context) ([]models.Exercise, error) {
	var exercises []models.Exercise
	err := db.GetReadOnlyDB(ctx).Order("name ASC").Find(&exercises).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list exercises: %w", err)
	}
	return exercises, nil
}

func (es *ExerciseService) Get(ctx context.Context, id int64) (*models.Exercise, error) {
	var exercise models.Exercise
	err := db.GetReadOnlyDB(ctx).First(&exercise, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrExerciseNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load exercise: %w", err)
	}
	return &exercise, nil
}
