package models

import "time"

// Follow is a directed edge: follower reads the followed user's workouts in
// their feed. At most one edge per ordered pair; self-follow is rejected at
// the service layer.
type Follow struct {
	ID          int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	FollowerID  int64     `gorm:"index:follow_pair_idx,unique;index" json:"follower_id"`
	FollowingID int64     `gorm:"index:follow_pair_idx,unique;index" json:"following_id"`
	CreatedAt   time.Time `json:"created_at"`
}

func (Follow) TableName() string {
	return "follows"
}
