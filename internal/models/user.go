package models

import (
	"time"

	"gorm.io/gorm"
)

// User represents an application account established through OAuth sign-in
type User struct {
	gorm.Model
	Email       string     `gorm:"uniqueIndex:idx_users_email_not_deleted,where:deleted_at IS NULL;not null" json:"email"`
	Name        string     `gorm:"not null;default:''" json:"name"`
	AvatarURL   string     `gorm:"not null;default:''" json:"avatarUrl"`
	LastLoginAt *time.Time `json:"lastLoginAt,omitempty"`

	// Associations
	AuthIdentities []AuthIdentity `gorm:"constraint:OnDelete:CASCADE;" json:"-"`
	Profile        *Profile       `gorm:"constraint:OnDelete:CASCADE;" json:"-"`
}
