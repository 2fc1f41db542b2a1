package models

import "time"

type Workout struct {
	ID          int64             `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID      int64             `gorm:"index" json:"user_id"`
	Name        string            `gorm:"size:100" json:"name"`
	Date        time.Time         `gorm:"index" json:"date"`
	IsCompleted bool              `gorm:"index" json:"is_completed"`
	Notes       string            `gorm:"size:1000" json:"notes"`
	Caption     string            `gorm:"size:500" json:"caption"`
	Image       string            `gorm:"size:500" json:"image"`
	Exercises   []WorkoutExercise `gorm:"constraint:OnDelete:CASCADE" json:"exercises"`
	CreatedAt   time.Time         `json:"created_at"`
	UpdatedAt   time.Time         `json:"updated_at"`
}

func (Workout) TableName() string {
	return "workouts"
}

type WorkoutExercise struct {
	ID         int64    `gorm:"primaryKey;autoIncrement" json:"id"`
	WorkoutID  int64    `gorm:"index" json:"workout_id"`
	ExerciseID int64    `gorm:"index" json:"exercise_id"`
	Order      int      `gorm:"column:order_index" json:"order"`
	Exercise   Exercise `json:"exercise"`
	Sets       []Set    `gorm:"constraint:OnDelete:CASCADE" json:"sets"`
}

func (WorkoutExercise) TableName() string {
	return "workout_exercises"
}

type Set struct {
	ID                int64   `gorm:"primaryKey;autoIncrement" json:"id"`
	WorkoutExerciseID int64   `gorm:"index" json:"workout_exercise_id"`
	SetNumber         int     `json:"set_number"`
	Reps              int     `json:"reps"`
	Weight            float64 `json:"weight"`
	IsWarmup          bool    `json:"is_warmup"`
	RPE               *int    `json:"rpe,omitempty"`
	IsPersonalRecord  bool    `json:"is_personal_record"`
}

func (Set) TableName() string {
	return "sets"
}

// FeedAuthor is the denormalized author block embedded in feed items. The
// fields mirror what the feed page renders, which is why a profile update
// has to invalidate followers' cached feed pages.
type FeedAuthor struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Image string `json:"image"`
}

// FeedItem is a completed workout plus its author, as served by the feed.
type FeedItem struct {
	Workout
	User FeedAuthor `json:"user"`
}

// FeedResponse is one cursor page of the feed. NextCursor is nil when no
// rows remain past this page.
type FeedResponse struct {
	Items      []FeedItem `json:"items"`
	NextCursor *int64     `json:"next_cursor"`
}
