package models

import "time"

// DailyGoal is the calorie/macro target for one user-day. Unique per (user, date);
// writing a goal for a day that already has one overwrites it.
type DailyGoal struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
	UserID    uint      `gorm:"not null;uniqueIndex:idx_daily_goals_user_date" json:"userId"`
	Date      time.Time `gorm:"not null;uniqueIndex:idx_daily_goals_user_date" json:"date"`
	Calories  int       `gorm:"not null" json:"calories"`
	Protein   int       `gorm:"not null" json:"protein"`
	Carbs     int       `gorm:"not null" json:"carbs"`
	Fats      int       `gorm:"not null" json:"fats"`
}
