package models

import "time"

// IntakeRecord is one food-consumption event. Append-only: rows are never
// mutated after creation.
type IntakeRecord struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	CreatedAt time.Time `json:"createdAt"`
	UserID    uint      `gorm:"not null;index:idx_intake_records_user_date" json:"userId"`
	Date      time.Time `gorm:"not null;index:idx_intake_records_user_date" json:"date"`
	FoodName  string    `gorm:"not null" json:"foodName"`
	Calories  float64   `gorm:"not null" json:"calories"`
	Protein   float64   `gorm:"not null" json:"protein"`
	Carbs     float64   `gorm:"not null" json:"carbs"`
	Fats      float64   `gorm:"not null" json:"fats"`
}
