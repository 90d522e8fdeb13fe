package workouts

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/caltrack/caltrack/internal/auth"
	"github.com/caltrack/caltrack/internal/models"
	"github.com/caltrack/caltrack/internal/validate"
)

var workoutSchema = validate.MustCompile(`{
	"type": "object",
	"required": ["duration", "calories", "exercises"],
	"properties": {
		"duration":  {"type": "number", "minimum": 1, "maximum": 1440},
		"calories":  {"type": "number", "minimum": 0, "maximum": 10000},
		"exercises": {"type": "array", "minItems": 1, "items": {"type": "string"}},
		"date":      {"type": "string"}
	}
}`)

// AddHandler logs one workout session.
func AddHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := auth.UserID(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}

		var req struct {
			Duration  float64  `json:"duration"`
			Calories  float64  `json:"calories"`
			Exercises []string `json:"exercises"`
			Date      string   `json:"date"`
		}
		if !workoutSchema.Bind(c, &req) {
			return
		}

		when := time.Now().UTC()
		if req.Date != "" {
			parsed, err := time.Parse(time.DateOnly, req.Date)
			if err != nil {
				validate.Invalid(c, []string{"date: must be formatted as YYYY-MM-DD"})
				return
			}
			when = parsed
		}

		exercises, err := json.Marshal(req.Exercises)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to add workout"})
			return
		}

		workout := models.Workout{
			UserID:    userID,
			Date:      when,
			Duration:  req.Duration,
			Calories:  req.Calories,
			Exercises: datatypes.JSON(exercises),
		}
		if err := db.WithContext(c.Request.Context()).Create(&workout).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to add workout"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"workout": workout})
	}
}

// ListHandler returns the caller's most recent workouts (default 10).
func ListHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := auth.UserID(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}

		limit := 10
		if raw := c.Query("limit"); raw != "" {
			parsed, err := strconv.Atoi(raw)
			if err != nil || parsed < 1 || parsed > 100 {
				validate.Invalid(c, []string{"limit: must be an integer between 1 and 100"})
				return
			}
			limit = parsed
		}

		var workouts []models.Workout
		err := db.WithContext(c.Request.Context()).
			Where("user_id = ?", userID).
			Order("date DESC").
			Limit(limit).
			Find(&workouts).Error
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch workouts"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"workouts": workouts})
	}
}
