package auth

import (
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"github.com/markbates/goth/gothic"
	"gorm.io/gorm"

	"github.com/caltrack/caltrack/internal/models"
	"github.com/caltrack/caltrack/internal/validate"
)

// HandleLogin initiates the Google OAuth flow
func HandleLogin(c *gin.Context) {
	// Gothic requires the "provider" query parameter
	q := c.Request.URL.Query()
	q.Add("provider", "google")
	c.Request.URL.RawQuery = q.Encode()

	gothic.BeginAuthHandler(c.Writer, c.Request)
}

// HandleCallback completes the OAuth flow, upserts the user and their OAuth
// identity, and stores the database user ID in the session.
func HandleCallback(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		// Gothic requires the "provider" query parameter
		q := c.Request.URL.Query()
		q.Add("provider", "google")
		c.Request.URL.RawQuery = q.Encode()

		gothUser, err := gothic.CompleteUserAuth(c.Writer, c.Request)
		if err != nil {
			log.Printf("Auth error: %v", err)
			c.Redirect(http.StatusFound, "/login?error=auth_failed")
			return
		}

		now := time.Now()
		var user models.User
		result := db.Where("email = ?", gothUser.Email).First(&user)
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			user = models.User{
				Email:       gothUser.Email,
				Name:        gothUser.Name,
				AvatarURL:   gothUser.AvatarURL,
				LastLoginAt: &now,
			}
			if err := db.Create(&user).Error; err != nil {
				log.Printf("User create error: %v", err)
				c.Redirect(http.StatusFound, "/login?error=auth_failed")
				return
			}
		} else if result.Error == nil {
			db.Model(&user).Updates(map[string]interface{}{
				"name":          gothUser.Name,
				"avatar_url":    gothUser.AvatarURL,
				"last_login_at": now,
			})
		} else {
			log.Printf("User lookup error: %v", result.Error)
			c.Redirect(http.StatusFound, "/login?error=auth_failed")
			return
		}

		// Upsert the OAuth identity; tokens are encrypted by the model hooks.
		var identity models.AuthIdentity
		idResult := db.Where("provider = ? AND provider_user_id = ?", "google", gothUser.UserID).First(&identity)
		if errors.Is(idResult.Error, gorm.ErrRecordNotFound) {
			identity = models.AuthIdentity{
				UserID:         user.ID,
				Provider:       "google",
				ProviderUserID: gothUser.UserID,
				AccessToken:    gothUser.AccessToken,
				RefreshToken:   gothUser.RefreshToken,
			}
			if !gothUser.ExpiresAt.IsZero() {
				identity.TokenExpiry = &gothUser.ExpiresAt
			}
			db.Create(&identity)
		} else if idResult.Error == nil {
			identity.AccessToken = gothUser.AccessToken
			identity.RefreshToken = gothUser.RefreshToken
			if !gothUser.ExpiresAt.IsZero() {
				identity.TokenExpiry = &gothUser.ExpiresAt
			}
			db.Save(&identity)
		}

		session := sessions.Default(c)
		session.Set("user_id", user.ID)
		session.Set("user_email", user.Email)
		session.Set("user_name", user.Name)

		if err := session.Save(); err != nil {
			log.Printf("Session save error: %v", err)
			c.Redirect(http.StatusFound, "/login?error=session_failed")
			return
		}

		log.Printf("User authenticated: %s (%s)", user.Name, user.Email)
		c.Redirect(http.StatusFound, "/")
	}
}

// HandleLogout clears the session and redirects to login
func HandleLogout(c *gin.Context) {
	session := sessions.Default(c)
	session.Clear()

	if err := session.Save(); err != nil {
		log.Printf("Session clear error: %v", err)
	}

	c.Redirect(http.StatusFound, "/login")
}

var createAccountSchema = validate.MustCompile(`{
	"type": "object",
	"required": ["name", "email"],
	"properties": {
		"name": {"type": "string", "minLength": 1},
		"email": {"type": "string", "format": "email"}
	}
}`)

// CreateAccountHandler pre-registers an account by email. Sign-in itself is
// delegated to the OAuth provider; this only reserves the address.
func CreateAccountHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req struct {
			Name  string `json:"name"`
			Email string `json:"email"`
		}
		if !createAccountSchema.Bind(c, &req) {
			return
		}

		var existing models.User
		result := db.Where("email = ?", req.Email).First(&existing)
		if result.Error == nil {
			c.JSON(http.StatusConflict, gin.H{"error": "User already exists"})
			return
		}
		if !errors.Is(result.Error, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create account"})
			return
		}

		user := models.User{Name: req.Name, Email: req.Email}
		if err := db.Create(&user).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create account"})
			return
		}

		c.JSON(http.StatusOK, gin.H{"message": "Account created successfully"})
	}
}
