package models

import "time"

// DailyBurnedCalories is the calorie expenditure for one activity on one
// user-day. Unique per (user, date, activity): logging the same activity twice
// in a day increments calories and duration on the existing row.
type DailyBurnedCalories struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
	UserID    uint      `gorm:"not null;uniqueIndex:idx_burned_user_date_activity" json:"userId"`
	Date      time.Time `gorm:"not null;uniqueIndex:idx_burned_user_date_activity" json:"date"`
	Activity  string    `gorm:"not null;uniqueIndex:idx_burned_user_date_activity" json:"activity"`
	Calories  float64   `gorm:"not null" json:"calories"`
	Duration  float64   `gorm:"not null;default:0" json:"duration"` // minutes
}

// TableName keeps the already-plural name from being double-pluralized.
func (DailyBurnedCalories) TableName() string {
	return "daily_burned_calories"
}
