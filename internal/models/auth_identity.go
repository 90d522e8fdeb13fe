package models

import (
	"time"

	"github.com/caltrack/caltrack/internal/crypto"
	"gorm.io/gorm"
)

var encryptor *crypto.TokenEncryptor

// InitEncryption initializes the token encryptor for the models package.
// Must be called before any database operations involving AuthIdentity.
func InitEncryption(encryptionKey string) error {
	var err error
	encryptor, err = crypto.NewTokenEncryptor(encryptionKey)
	return err
}

// AuthIdentity links a User to one OAuth provider account ("google").
// Access and refresh tokens are encrypted at rest by the BeforeSave and
// AfterFind hooks.
type AuthIdentity struct {
	gorm.Model
	UserID         uint   `gorm:"not null;index"`
	User           User   `gorm:"constraint:OnDelete:CASCADE;"`
	Provider       string `gorm:"not null"`
	ProviderUserID string `gorm:"not null;uniqueIndex:idx_auth_identities_provider_user,where:deleted_at IS NULL"`
	AccessToken    string `gorm:"type:text"`
	RefreshToken   string `gorm:"type:text"`
	TokenExpiry    *time.Time
}

// BeforeSave encrypts non-empty tokens. GCM output differs on every call
// (random nonce), so the column value changes on every save.
func (a *AuthIdentity) BeforeSave(tx *gorm.DB) error {
	if encryptor == nil {
		// No key configured; tokens pass through as-is.
		return nil
	}

	if a.AccessToken != "" {
		encrypted, err := encryptor.Encrypt(a.AccessToken)
		if err != nil {
			return err
		}
		a.AccessToken = encrypted
	}
	if a.RefreshToken != "" {
		encrypted, err := encryptor.Encrypt(a.RefreshToken)
		if err != nil {
			return err
		}
		a.RefreshToken = encrypted
	}
	return nil
}

// AfterFind decrypts tokens loaded from the database.
func (a *AuthIdentity) AfterFind(tx *gorm.DB) error {
	if encryptor == nil {
		return nil
	}

	if a.AccessToken != "" {
		decrypted, err := encryptor.Decrypt(a.AccessToken)
		if err != nil {
			return err
		}
		a.AccessToken = decrypted
	}
	if a.RefreshToken != "" {
		decrypted, err := encryptor.Decrypt(a.RefreshToken)
		if err != nil {
			return err
		}
		a.RefreshToken = decrypted
	}
	return nil
}
