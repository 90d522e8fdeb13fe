package models

import "gorm.io/gorm"

// Activity level constants shared by the profile schema and the goal planner.
const (
	ActivitySedentary  = "sedentary"
	ActivityLight      = "light"
	ActivityModerate   = "moderate"
	ActivityActive     = "active"
	ActivityVeryActive = "veryActive"
)

// Profile holds the body metrics behind goal computation: height in cm,
// weights in kg. At most one per user.
type Profile struct {
	gorm.Model
	UserID        uint    `gorm:"not null;uniqueIndex:idx_profiles_user,where:deleted_at IS NULL" json:"userId"`
	Name          string  `gorm:"not null;default:''" json:"name"`
	Age           int     `json:"age"`
	Gender        string  `json:"gender"`
	Height        float64 `json:"height"`
	Weight        float64 `json:"weight"`
	TargetWeight  float64 `json:"targetWeight"`
	ActivityLevel string  `json:"activityLevel"`
	AvatarURL     string  `gorm:"not null;default:''" json:"avatarUrl"`

	// Associations
	WeightEntries []WeightEntry `gorm:"constraint:OnDelete:CASCADE;" json:"-"`
}
