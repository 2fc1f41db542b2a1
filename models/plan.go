package models

import "time"

type WorkoutPlan struct {
	ID          int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID      int64     `gorm:"index" json:"user_id"`
	Name        string    `gorm:"size:100" json:"name"`
	Description string    `gorm:"size:500" json:"description"`
	IsActive    bool      `gorm:"index" json:"is_active"`
	CurrentDay  int       `json:"current_day"`
	Days        []PlanDay `gorm:"constraint:OnDelete:CASCADE" json:"days"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func (WorkoutPlan) TableName() string {
	return "workout_plans"
}

type PlanDay struct {
	ID            int64          `gorm:"primaryKey;autoIncrement" json:"id"`
	WorkoutPlanID int64          `gorm:"index" json:"workout_plan_id"`
	Name          string         `gorm:"size:100" json:"name"`
	Order         int            `gorm:"column:order_index" json:"order"`
	Exercises     []PlanExercise `gorm:"constraint:OnDelete:CASCADE" json:"exercises"`
}

func (PlanDay) TableName() string {
	return "plan_days"
}

// PlanExercise is a prescription, not a performed exercise: target sets and
// reps rather than logged ones.
type PlanExercise struct {
	ID         int64  `gorm:"primaryKey;autoIncrement" json:"id"`
	PlanDayID  int64  `gorm:"index" json:"plan_day_id"`
	ExerciseID int64  `gorm:"index" json:"exercise_id"`
	Order      int    `gorm:"column:order_index" json:"order"`
	Sets       int    `json:"sets"`
	Reps       int    `json:"reps"`
	TargetRPE  *int   `json:"target_rpe,omitempty"`
	Notes      string `gorm:"size:500" json:"notes"`
}

func (PlanExercise) TableName() string {
	return "plan_exercises"
}
