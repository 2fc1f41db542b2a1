package models

import "time"

// RateLimitLog records rejected requests for abuse review. Written
// best-effort; a failed insert never blocks the 429 response.
type RateLimitLog struct {
	ID        int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	IP        string    `gorm:"size:64;index" json:"ip"`
	UserID    *int64    `gorm:"index" json:"user_id,omitempty"`
	Endpoint  string    `gorm:"size:255" json:"endpoint"`
	Blocked   bool      `json:"blocked"`
	CreatedAt time.Time `json:"created_at"`
}

func (RateLimitLog) TableName() string {
	return "rate_limit_logs"
}
