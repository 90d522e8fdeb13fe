package models

import "time"

// FoodRecognition records one image-classification result and the nutrition
// data looked up for it.
type FoodRecognition struct {
	ID         uint      `gorm:"primarykey" json:"id"`
	CreatedAt  time.Time `json:"createdAt"`
	UserID     uint      `gorm:"not null;index" json:"userId"`
	ImageURL   string    `gorm:"not null;default:''" json:"imageUrl"`
	FoodName   string    `gorm:"not null" json:"foodName"`
	Confidence float64   `gorm:"not null" json:"confidence"` // 0..1
	Calories   float64   `json:"calories"`
	Protein    float64   `json:"protein"`
	Carbs      float64   `json:"carbs"`
	Fats       float64   `json:"fats"`
}
