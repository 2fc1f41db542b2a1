package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"liftlog/db"
	"liftlog/models"

	"gorm.io/gorm"
)

var (
	ErrWorkoutNotFound = errors.New("workout not found")
	ErrNotOwner        = errors.New("not the owner")
)

type SetInput struct {
	SetNumber int     `json:"set_number"`
	Reps      int     `json:"reps" binding:"required,min=1,max=1000"`
	Weight    float64 `json:"weight" binding:"min=0,max=2000"`
	IsWarmup  bool    `json:"is_warmup"`
	RPE       *int    `json:"rpe" binding:"omitempty,min=1,max=10"`
}

type WorkoutExerciseInput struct {
	ExerciseID int64      `json:"exercise_id" binding:"required"`
	Order      int        `json:"order"`
	Sets       []SetInput `json:"sets" binding:"required,min=1,max=20,dive"`
}

type CreateWorkoutInput struct {
	Name        string                 `json:"name" binding:"required,max=100"`
	Date        time.Time              `json:"date"`
	Notes       string                 `json:"notes" binding:"max=1000"`
	Caption     string                 `json:"caption" binding:"max=500"`
	Image       string                 `json:"image" binding:"max=500"`
	IsCompleted bool                   `json:"is_completed"`
	Exercises   []WorkoutExerciseInput `json:"exercises" binding:"required,min=1,max=50,dive"`
}

type UpdateWorkoutInput struct {
	Name        *string                `json:"name" binding:"omitempty,max=100"`
	Date        *time.Time             `json:"date"`
	Notes       *string                `json:"notes" binding:"omitempty,max=1000"`
	Caption     *string                `json:"caption" binding:"omitempty,max=500"`
	Image       *string                `json:"image" binding:"omitempty,max=500"`
	IsCompleted *bool                  `json:"is_completed"`
	Exercises   []WorkoutExerciseInput `json:"exercises" binding:"omitempty,max=50,dive"`
}

type WorkoutService struct {
	follows *FollowService
}

func NewWorkoutService() *WorkoutService {
	return &WorkoutService{follows: NewFollowService()}
}

// CreateWorkout logs a session with its exercise and set children in one
// transaction. Sets beating the user's previous best weight for the
// exercise get the personal-record flag. A completed workout bumps the
// owner's denormalized counters and is pushed to followers.
func (ws *WorkoutService) CreateWorkout(ctx context.Context, userID int64, input CreateWorkoutInput) (*models.Workout, error) {
	date := input.Date
	if date.IsZero() {
		date = time.Now()
	}

	workout := &models.Workout{
		UserID:      userID,
		Name:        input.Name,
		Date:        date,
		IsCompleted: input.IsCompleted,
		Notes:       input.Notes,
		Caption:     input.Caption,
		Image:       input.Image,
	}

	err := db.GetWriteDB(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(workout).Error; err != nil {
			return fmt.Errorf("failed to create workout: %w", err)
		}
		if err := ws.createChildren(tx, workout.ID, userID, input.Exercises); err != nil {
			return err
		}
		if input.IsCompleted {
			return ws.bumpCounters(tx, userID, date, workout.ID)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	CacheDel(ctx, WorkoutsCacheKey(userID))

	full, err := ws.GetWorkout(ctx, workout.ID)
	if err != nil {
		return nil, err
	}

	if full.IsCompleted {
		ws.notifyFollowers(ctx, userID, full)
	}
	return full, nil
}

func (ws *WorkoutService) createChildren(tx *gorm.DB, workoutID, userID int64, exercises []WorkoutExerciseInput) error {
	for _, ex := range exercises {
		var best float64
		row := tx.Model(&models.Set{}).
			Select("COALESCE(MAX(sets.weight), 0)").
			Joins("JOIN workout_exercises ON workout_exercises.id = sets.workout_exercise_id").
			Joins("JOIN workouts ON workouts.id = workout_exercises.workout_id").
			Where("workouts.user_id = ? AND workout_exercises.exercise_id = ? AND sets.is_warmup = ?", userID, ex.ExerciseID, false).
			Scan(&best)
		if row.Error != nil {
			return fmt.Errorf("failed to load previous best: %w", row.Error)
		}

		we := &models.WorkoutExercise{
			WorkoutID:  workoutID,
			ExerciseID: ex.ExerciseID,
			Order:      ex.Order,
		}
		if err := tx.Create(we).Error; err != nil {
			return fmt.Errorf("failed to create workout exercise: %w", err)
		}

		for _, s := range ex.Sets {
			set := &models.Set{
				WorkoutExerciseID: we.ID,
				SetNumber:         s.SetNumber,
				Reps:              s.Reps,
				Weight:            s.Weight,
				IsWarmup:          s.IsWarmup,
				RPE:               s.RPE,
				IsPersonalRecord:  !s.IsWarmup && s.Weight > best && best > 0,
			}
			if err := tx.Create(set).Error; err != nil {
				return fmt.Errorf("failed to create set: %w", err)
			}
		}
	}
	return nil
}

// bumpCounters maintains the denormalized workout count and day streak.
func (ws *WorkoutService) bumpCounters(tx *gorm.DB, userID int64, date time.Time, excludeID int64) error {
	var user models.User
	if err := tx.First(&user, userID).Error; err != nil {
		return fmt.Errorf("failed to load user for counters: %w", err)
	}

	var last models.Workout
	err := tx.Where("user_id = ? AND is_completed = ? AND id != ?", userID, true, excludeID).
		Order("date DESC, id DESC").
		First(&last).Error

	streak := 1
	if err == nil {
		day := date.Truncate(24 * time.Hour)
		lastDay := last.Date.Truncate(24 * time.Hour)
		switch day.Sub(lastDay) {
		case 0:
			streak = user.Streak
			if streak == 0 {
				streak = 1
			}
		case 24 * time.Hour:
			streak = user.Streak + 1
		}
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("failed to load last workout: %w", err)
	}

	return tx.Model(&models.User{}).Where("id = ?", userID).Updates(map[string]interface{}{
		"workout_count": gorm.Expr("workout_count + 1"),
		"streak":        streak,
	}).Error
}

// ListWorkouts serves the user's own history through the workouts:{id}
// cache entry, newest first.
func (ws *WorkoutService) ListWorkouts(ctx context.Context, userID int64) ([]models.Workout, error) {
	key := WorkoutsCacheKey(userID)

	var cached []models.Workout
	if err := CacheGet(ctx, key, &cached); err == nil {
		return cached, nil
	}

	var workouts []models.Workout
	err := db.GetReadOnlyDB(ctx).
		Where("user_id = ?", userID).
		Order("date DESC, id DESC").
		Preload("Exercises", func(tx *gorm.DB) *gorm.DB { return tx.Order("order_index ASC") }).
		Preload("Exercises.Exercise").
		Preload("Exercises.Sets", func(tx *gorm.DB) *gorm.DB { return tx.Order("set_number ASC") }).
		Find(&workouts).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list workouts: %w", err)
	}

	CacheSet(ctx, key, workouts, WorkoutsCacheTTL)
	return workouts, nil
}

func (ws *WorkoutService) GetWorkout(ctx context.Context, workoutID int64) (*models.Workout, error) {
	var workout models.Workout
	err := db.GetReadOnlyDB(ctx).
		Preload("Exercises", func(tx *gorm.DB) *gorm.DB { return tx.Order("order_index ASC") }).
		Preload("Exercises.Exercise").
		Preload("Exercises.Sets", func(tx *gorm.DB) *gorm.DB { return tx.Order("set_number ASC") }).
		First(&workout, workoutID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrWorkoutNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load workout: %w", err)
	}
	return &workout, nil
}

// UpdateWorkout patches base fields and, when exercises are provided,
// replaces the whole child tree. Runs as a single transaction so readers
// never observe a half-replaced workout.
func (ws *WorkoutService) UpdateWorkout(ctx context.Context, userID, workoutID int64, input UpdateWorkoutInput) (*models.Workout, error) {
	err := db.GetWriteDB(ctx).Transaction(func(tx *gorm.DB) error {
		var workout models.Workout
		err := tx.First(&workout, workoutID).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrWorkoutNotFound
		}
		if err != nil {
			return fmt.Errorf("failed to load workout: %w", err)
		}
		if workout.UserID != userID {
			return ErrNotOwner
		}

		updates := map[string]interface{}{}
		if input.Name != nil {
			updates["name"] = *input.Name
		}
		if input.Date != nil {
			updates["date"] = *input.Date
		}
		if input.Notes != nil {
			updates["notes"] = *input.Notes
		}
		if input.Caption != nil {
			updates["caption"] = *input.Caption
		}
		if input.Image != nil {
			updates["image"] = *input.Image
		}
		if input.IsCompleted != nil {
			updates["is_completed"] = *input.IsCompleted
		}
		if len(updates) > 0 {
			if err := tx.Model(&models.Workout{}).Where("id = ?", workoutID).Updates(updates).Error; err != nil {
				return fmt.Errorf("failed to update workout: %w", err)
			}
		}

		if input.Exercises != nil {
			if err := ws.deleteChildren(tx, workoutID); err != nil {
				return err
			}
			if err := ws.createChildren(tx, workoutID, userID, input.Exercises); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	CacheDel(ctx, WorkoutsCacheKey(userID))
	return ws.GetWorkout(ctx, workoutID)
}

// DeleteWorkout removes the workout and its children, enforcing ownership.
func (ws *WorkoutService) DeleteWorkout(ctx context.Context, userID, workoutID int64) error {
	err := db.GetWriteDB(ctx).Transaction(func(tx *gorm.DB) error {
		var workout models.Workout
		err := tx.First(&workout, workoutID).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrWorkoutNotFound
		}
		if err != nil {
			return fmt.Errorf("failed to load workout: %w", err)
		}
		if workout.UserID != userID {
			return ErrNotOwner
		}

		if err := ws.deleteChildren(tx, workoutID); err != nil {
			return err
		}
		return tx.Delete(&models.Workout{}, workoutID).Error
	})
	if err != nil {
		return err
	}

	CacheDel(ctx, WorkoutsCacheKey(userID))
	return nil
}

// deleteChildren removes sets then exercises explicitly instead of relying
// on database-level cascades, which SQLite does not enforce in tests.
func (ws *WorkoutService) deleteChildren(tx *gorm.DB, workoutID int64) error {
	var exerciseIDs []int64
	err := tx.Model(&models.WorkoutExercise{}).
		Where("workout_id = ?", workoutID).
		Pluck("id", &exerciseIDs).Error
	if err != nil {
		return fmt.Errorf("failed to list workout exercises: %w", err)
	}
	if len(exerciseIDs) > 0 {
		if err := tx.Where("workout_exercise_id IN ?", exerciseIDs).Delete(&models.Set{}).Error; err != nil {
			return fmt.Errorf("failed to delete sets: %w", err)
		}
	}
	if err := tx.Where("workout_id = ?", workoutID).Delete(&models.WorkoutExercise{}).Error; err != nil {
		return fmt.Errorf("failed to delete workout exercises: %w", err)
	}
	return nil
}

// notifyFollowers publishes a completed-workout event per follower. AMQP
// first, direct WebSocket push as fallback when the broker is unavailable.
func (ws *WorkoutService) notifyFollowers(ctx context.Context, userID int64, workout *models.Workout) {
	followerIDs, err := ws.follows.FollowerIDs(ctx, userID)
	if err != nil {
		return
	}
	for _, followerID := range followerIDs {
		event := WorkoutEvent{
			UserID:    followerID,
			WorkoutID: workout.ID,
			AuthorID:  userID,
			Name:      workout.Name,
			Date:      workout.Date,
		}
		if err := PublishWorkoutEvent(ctx, event); err != nil {
			sendDirectWorkoutPush(event)
		}
	}
}
