package models

import "time"

// WeightEntry is one weigh-in belonging to a profile. Append-only, ordered
// chronologically for the progress chart.
type WeightEntry struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	CreatedAt time.Time `json:"createdAt"`
	ProfileID uint      `gorm:"not null;index" json:"profileId"`
	Weight    float64   `gorm:"not null" json:"weight"` // kg
	Date      time.Time `gorm:"not null" json:"date"`
}
