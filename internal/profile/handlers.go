package profile

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/caltrack/caltrack/internal/auth"
	"github.com/caltrack/caltrack/internal/models"
	"github.com/caltrack/caltrack/internal/validate"
)

var profileSchema = validate.MustCompile(`{
	"type": "object",
	"required": ["age", "gender", "height", "weight", "targetWeight", "activityLevel"],
	"properties": {
		"age":           {"type": "integer", "minimum": 1, "maximum": 120},
		"gender":        {"type": "string", "enum": ["male", "female"]},
		"height":        {"type": "number", "minimum": 50, "maximum": 300},
		"weight":        {"type": "number", "minimum": 20, "maximum": 500},
		"targetWeight":  {"type": "number", "minimum": 20, "maximum": 500},
		"activityLevel": {"type": "string", "enum": ["sedentary", "light", "moderate", "active", "veryActive"]}
	}
}`)

// GetHandler returns the caller's profile; profile is null before first
// submission.
func GetHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := auth.UserID(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}

		var p models.Profile
		err := db.WithContext(c.Request.Context()).Where("user_id = ?", userID).First(&p).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusOK, gin.H{"profile": nil})
			return
		}
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch profile"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"profile": p})
	}
}

// UpsertHandler creates the caller's profile on first submission and updates
// it afterwards. Display name and avatar come from the signed-in user record,
// not the request body.
func UpsertHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := auth.UserID(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}

		var req struct {
			Age           int     `json:"age"`
			Gender        string  `json:"gender"`
			Height        float64 `json:"height"`
			Weight        float64 `json:"weight"`
			TargetWeight  float64 `json:"targetWeight"`
			ActivityLevel string  `json:"activityLevel"`
		}
		if !profileSchema.Bind(c, &req) {
			return
		}
		ctx := c.Request.Context()

		var user models.User
		if err := db.WithContext(ctx).First(&user, userID).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update profile. Please try again."})
			return
		}

		var p models.Profile
		err := db.WithContext(ctx).Where("user_id = ?", userID).First(&p).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			p = models.Profile{UserID: userID}
		} else if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update profile. Please try again."})
			return
		}

		p.Name = user.Name
		p.AvatarURL = user.AvatarURL
		p.Age = req.Age
		p.Gender = req.Gender
		p.Height = req.Height
		p.Weight = req.Weight
		p.TargetWeight = req.TargetWeight
		p.ActivityLevel = req.ActivityLevel

		if err := db.WithContext(ctx).Save(&p).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update profile. Please try again."})
			return
		}
		c.JSON(http.StatusOK, gin.H{"profile": p})
	}
}
