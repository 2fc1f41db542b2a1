package services

import (
	"context"
	"errors"
	"fmt"

	"liftlog/db"
	"liftlog/models"

	"gorm.io/gorm"
)

var (
	ErrPlanNotFound = errors.New("plan not found")
	ErrNoActivePlan = errors.New("no active plan")
)

type PlanExerciseInput struct {
	ExerciseID int64  `json:"exercise_id" binding:"required"`
	Order      int    `json:"order"`
	Sets       int    `json:"sets" binding:"required,min=1,max=20"`
	Reps       int    `json:"reps" binding:"min=0,max=1000"`
	TargetRPE  *int   `json:"target_rpe" binding:"omitempty,min=1,max=10"`
	Notes      string `json:"notes" binding:"max=500"`
}

type PlanDayInput struct {
	Name      string              `json:"name" binding:"required,max=100"`
	Order     int                 `json:"order"`
	Exercises []PlanExerciseInput `json:"exercises" binding:"required,min=1,dive"`
}

type CreatePlanInput struct {
	Name        string         `json:"name" binding:"required,max=100"`
	Description string         `json:"description" binding:"max=500"`
	Days        []PlanDayInput `json:"days" binding:"required,min=1,dive"`
}

type PlanService struct{}

func NewPlanService() *PlanService {
	return &PlanService{}
}

func (ps *PlanService) CreatePlan(ctx context.Context, userID int64, input CreatePlanInput) (*models.WorkoutPlan, error) {
	plan := &models.WorkoutPlan{
		UserID:      userID,
		Name:        input.Name,
		Description: input.Description,
	}

	err := db.GetWriteDB(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(plan).Error; err != nil {
			return fmt.Errorf("failed to create plan: %w", err)
		}
		for _, day := range input.Days {
			planDay := &models.PlanDay{
				WorkoutPlanID: plan.ID,
				Name:          day.Name,
				Order:         day.Order,
			}
			if err := tx.Create(planDay).Error; err != nil {
				return fmt.Errorf("failed to create plan day: %w", err)
			}
			for _, ex := range day.Exercises {
				planEx := &models.PlanExercise{
					PlanDayID:  planDay.ID,
					ExerciseID: ex.ExerciseID,
					Order:      ex.Order,
					Sets:       ex.Sets,
					Reps:       ex.Reps,
					TargetRPE:  ex.TargetRPE,
					Notes:      ex.Notes,
				}
				if err := tx.Create(planEx).Error; err != nil {
					return fmt.Errorf("failed to create plan exercise: %w", err)
				}
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return ps.GetPlan(ctx, userID, plan.ID)
}

func (ps *PlanService) ListPlans(ctx context.Context, userID int64) ([]models.WorkoutPlan, error) {
	var plans []models.WorkoutPlan
	err := db.GetReadOnlyDB(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Preload("Days", func(tx *gorm.DB) *gorm.DB { return tx.Order("order_index ASC") }).
		Preload("Days.Exercises", func(tx *gorm.DB) *gorm.DB { return tx.Order("order_index ASC") }).
		Find(&plans).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list plans: %w", err)
	}
	return plans, nil
}

func (ps *PlanService) GetPlan(ctx context.Context, userID, planID int64) (*models.WorkoutPlan, error) {
	var plan models.WorkoutPlan
	err := db.GetReadOnlyDB(ctx).
		Where("id = ? AND user_id = ?", planID, userID).
		Preload("Days", func(tx *gorm.DB) *gorm.DB { return tx.Order("order_index ASC") }).
		Preload("Days.Exercises", func(tx *gorm.DB) *gorm.DB { return tx.Order("order_index ASC") }).
		First(&plan).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrPlanNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load plan: %w", err)
	}
	return &plan, nil
}

func (ps *PlanService) DeletePlan(ctx context.Context, userID, planID int64) error {
	return db.GetWriteDB(ctx).Transaction(func(tx *gorm.DB) error {
		var plan models.WorkoutPlan
		err := tx.Where("id = ? AND user_id = ?", planID, userID).First(&plan).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrPlanNotFound
		}
		if err != nil {
			return fmt.Errorf("failed to load plan: %w", err)
		}

		var dayIDs []int64
		if err := tx.Model(&models.PlanDay{}).Where("workout_plan_id = ?", planID).Pluck("id", &dayIDs).Error; err != nil {
			return fmt.Errorf("failed to list plan days: %w", err)
		}
		if len(dayIDs) > 0 {
			if err := tx.Where("plan_day_id IN ?", dayIDs).Delete(&models.PlanExercise{}).Error; err != nil {
				return fmt.Errorf("failed to delete plan exercises: %w", err)
			}
		}
		if err := tx.Where("workout_plan_id = ?", planID).Delete(&models.PlanDay{}).Error; err != nil {
			return fmt.Errorf("failed to delete plan days: %w", err)
		}
		return tx.Delete(&models.WorkoutPlan{}, planID).Error
	})
}

// ActivatePlan makes one plan active, deactivating any other.
func (ps *PlanService) ActivatePlan(ctx context.Context, userID, planID int64) (*models.WorkoutPlan, error) {
	err := db.GetWriteDB(ctx).Transaction(func(tx *gorm.DB) error {
		var plan models.WorkoutPlan
		err := tx.Where("id = ? AND user_id = ?", planID, userID).First(&plan).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrPlanNotFound
		}
		if err != nil {
			return fmt.Errorf("failed to load plan: %w", err)
		}

		if err := tx.Model(&models.WorkoutPlan{}).
			Where("user_id = ? AND is_active = ?", userID, true).
			Updates(map[string]interface{}{"is_active": false}).Error; err != nil {
			return fmt.Errorf("failed to deactivate plans: %w", err)
		}
		return tx.Model(&models.WorkoutPlan{}).
			Where("id = ?", planID).
			Updates(map[string]interface{}{"is_active": true, "current_day": 0}).Error
	})
	if err != nil {
		return nil, err
	}
	return ps.GetPlan(ctx, userID, planID)
}

func (ps *PlanService) ActivePlan(ctx context.Context, userID int64) (*models.WorkoutPlan, error) {
	var plan models.WorkoutPlan
	err := db.GetReadOnlyDB(ctx).
		Where("user_id = ? AND is_active = ?", userID, true).
		Preload("Days", func(tx *gorm.DB) *gorm.DB { return tx.Order("order_index ASC") }).
		Preload("Days.Exercises", func(tx *gorm.DB) *gorm.DB { return tx.Order("order_index ASC") }).
		First(&plan).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNoActivePlan
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load active plan: %w", err)
	}
	return &plan, nil
}

// AdvanceActivePlan moves the current-day pointer forward, wrapping to the
// first day after the last.
func (ps *PlanService) AdvanceActivePlan(ctx context.Context, userID int64) (*models.WorkoutPlan, error) {
	plan, err := ps.ActivePlan(ctx, userID)
	if err != nil {
		return nil, err
	}

	next := plan.CurrentDay + 1
	if next >= len(plan.Days) {
		next = 0
	}

	err = db.GetWriteDB(ctx).Model(&models.WorkoutPlan{}).
		Where("id = ?", plan.ID).
		Update("current_day", next).Error
	if err != nil {
		return nil, fmt.Errorf("failed to advance plan: %w", err)
	}

	plan.CurrentDay = next
	return plan, nil
}
