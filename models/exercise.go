package models

// Exercise is a read-only catalog entity. Rows are seeded, never mutated by
// request handlers.
type Exercise struct {
	ID          int64  `gorm:"primaryKey;autoIncrement" json:"id"`
	Name        string `gorm:"size:100;uniqueIndex" json:"name"`
	MuscleGroup string `gorm:"size:60" json:"muscle_group"`
	Equipment   string `gorm:"size:60" json:"equipment"`
}

func (Exercise) TableName() string {
	return "exercises"
}
