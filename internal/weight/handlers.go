package weight

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/caltrack/caltrack/internal/auth"
	"github.com/caltrack/caltrack/internal/models"
	"github.com/caltrack/caltrack/internal/validate"
)

var weightEntrySchema = validate.MustCompile(`{
	"type": "object",
	"required": ["weight", "profileId"],
	"properties": {
		"weight":    {"type": "number", "minimum": 20, "maximum": 500},
		"profileId": {"type": "integer", "minimum": 1}
	}
}`)

// AddHandler logs one weigh-in against the caller's profile.
func AddHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := auth.UserID(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}

		var req struct {
			Weight    float64 `json:"weight"`
			ProfileID uint    `json:"profileId"`
		}
		if !weightEntrySchema.Bind(c, &req) {
			return
		}
		ctx := c.Request.Context()

		// The profile must belong to the caller.
		var p models.Profile
		err := db.WithContext(ctx).Where("id = ? AND user_id = ?", req.ProfileID, userID).First(&p).Error
		if err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "Profile not found"})
			return
		}

		entry := models.WeightEntry{
			ProfileID: p.ID,
			Weight:    req.Weight,
			Date:      time.Now().UTC(),
		}
		if err := db.WithContext(ctx).Create(&entry).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to add weight entry"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"weightEntry": entry})
	}
}

// ListHandler returns a profile's weigh-ins in chronological order for the
// progress chart.
func ListHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := auth.UserID(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}

		raw := c.Query("profileId")
		if raw == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "profileId is required"})
			return
		}
		profileID, err := strconv.ParseUint(raw, 10, 64)
		if err != nil {
			validate.Invalid(c, []string{"profileId: must be a positive integer"})
			return
		}
		ctx := c.Request.Context()

		var p models.Profile
		if err := db.WithContext(ctx).Where("id = ? AND user_id = ?", profileID, userID).First(&p).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "Profile not found"})
			return
		}

		var entries []models.WeightEntry
		err = db.WithContext(ctx).
			Where("profile_id = ?", p.ID).
			Order("date ASC").
			Find(&entries).Error
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch weight entries"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"weightEntries": entries})
	}
}
