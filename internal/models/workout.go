package models

import (
	"time"

	"gorm.io/datatypes"
)

// Workout is one logged training session. Append-only.
type Workout struct {
	ID        uint           `gorm:"primarykey" json:"id"`
	CreatedAt time.Time      `json:"createdAt"`
	UserID    uint           `gorm:"not null;index" json:"userId"`
	Date      time.Time      `gorm:"not null;index" json:"date"`
	Duration  float64        `gorm:"not null" json:"duration"` // minutes
	Calories  float64        `gorm:"not null" json:"calories"`
	Exercises datatypes.JSON `gorm:"type:jsonb" json:"exercises"` // JSON array of exercise names
}
