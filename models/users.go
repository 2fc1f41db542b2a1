package models

import "time"

type User struct {
	ID           int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	Nickname     string    `gorm:"size:60;uniqueIndex" json:"nickname"`
	Name         string    `gorm:"size:255" json:"name"`
	Password     string    `gorm:"size:255" json:"-"`
	Bio          string    `gorm:"size:500" json:"bio"`
	Image        string    `gorm:"size:500" json:"image"`
	Character    string    `gorm:"type:text" json:"character"` // avatar customization blob (JSON)
	WorkoutCount int       `json:"workout_count"`
	Streak       int       `json:"streak"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

func (User) TableName() string {
	return "users"
}

type UserTokens struct {
	ID     int64  `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID int64  `gorm:"index:user_token_idx,unique" json:"user_id"`
	Token  string `gorm:"size:255;index:user_token_idx,unique" json:"token"`
}

func (UserTokens) TableName() string {
	return "user_tokens"
}

// UserProfile is the public view of a user, served from /users/:id with
// cached follower and following counts.
type UserProfile struct {
	ID             int64  `json:"id"`
	Nickname       string `json:"nickname"`
	Name           string `json:"name"`
	Bio            string `json:"bio"`
	Image          string `json:"image"`
	Character      string `json:"character"`
	WorkoutCount   int    `json:"workout_count"`
	Streak         int    `json:"streak"`
	FollowerCount  int64  `json:"follower_count"`
	FollowingCount int64  `json:"following_count"`
}

// UserSearchResult annotates a user row with the requester's follow status.
type UserSearchResult struct {
	ID          int64  `json:"id"`
	Nickname    string `json:"nickname"`
	Name        string `json:"name"`
	Bio         string `json:"bio"`
	Image       string `json:"image"`
	IsFollowing bool   `json:"is_following"`
}
