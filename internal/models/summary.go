package models

import "time"

// DailySummary caches the aggregate totals for one user-day. It is entirely
// recomputable from IntakeRecord and DailyBurnedCalories rows — a materialized
// view, not a source of truth. Unique per (user, date); always overwritten
// wholesale by the aggregator, never incrementally patched.
type DailySummary struct {
	ID            uint      `gorm:"primarykey" json:"id"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
	UserID        uint      `gorm:"not null;uniqueIndex:idx_daily_summaries_user_date" json:"userId"`
	Date          time.Time `gorm:"not null;uniqueIndex:idx_daily_summaries_user_date" json:"date"`
	TotalConsumed float64   `gorm:"not null" json:"totalConsumed"`
	TotalBurned   float64   `gorm:"not null" json:"totalBurned"`
	NetCalories   float64   `gorm:"not null" json:"netCalories"`
	Protein       float64   `gorm:"not null" json:"protein"`
	Carbs         float64   `gorm:"not null" json:"carbs"`
	Fats          float64   `gorm:"not null" json:"fats"`
}
