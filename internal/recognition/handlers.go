package recognition

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/caltrack/caltrack/internal/auth"
	"github.com/caltrack/caltrack/internal/models"
	"github.com/caltrack/caltrack/internal/validate"
)

var recognitionSchema = validate.MustCompile(`{
	"type": "object",
	"required": ["imageUrl", "foodName", "confidence"],
	"properties": {
		"imageUrl":   {"type": "string"},
		"foodName":   {"type": "string", "minLength": 1},
		"confidence": {"type": "number", "minimum": 0, "maximum": 1},
		"calories":   {"type": "number", "minimum": 0},
		"protein":    {"type": "number", "minimum": 0},
		"carbs":      {"type": "number", "minimum": 0},
		"fats":       {"type": "number", "minimum": 0}
	}
}`)

var analyzeSchema = validate.MustCompile(`{
	"type": "object",
	"properties": {
		"imageBase64": {"type": "string", "minLength": 1},
		"foodName":    {"type": "string", "minLength": 1}
	}
}`)

// ListHandler returns the caller's most recent recognition records.
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

		var recs []models.FoodRecognition
		err := db.WithContext(c.Request.Context()).
			Where("user_id = ?", userID).
			Order("created_at DESC").
			Limit(limit).
			Find(&recs).Error
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch food recognitions"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"recognitions": recs})
	}
}

// AddHandler records one recognition result supplied by the client.
func AddHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := auth.UserID(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}

		var req struct {
			ImageURL   string  `json:"imageUrl"`
			FoodName   string  `json:"foodName"`
			Confidence float64 `json:"confidence"`
			Calories   float64 `json:"calories"`
			Protein    float64 `json:"protein"`
			Carbs      float64 `json:"carbs"`
			Fats       float64 `json:"fats"`
		}
		if !recognitionSchema.Bind(c, &req) {
			return
		}

		rec := models.FoodRecognition{
			UserID:     userID,
			ImageURL:   req.ImageURL,
			FoodName:   req.FoodName,
			Confidence: req.Confidence,
			Calories:   req.Calories,
			Protein:    req.Protein,
			Carbs:      req.Carbs,
			Fats:       req.Fats,
		}
		if err := db.WithContext(c.Request.Context()).Create(&rec).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to add food recognition"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"recognition": rec})
	}
}

// AnalyzeHandler runs the two-step pipeline: classify the image (when one is
// given) to get a food label, then look up the label's nutrition. A text
// foodName skips the classification step. The result is recorded and
// returned. No retries: any downstream failure fails this one request.
func AnalyzeHandler(db *gorm.DB, classifier *Classifier, nutrition *NutritionClient, logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := auth.UserID(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}

		var req struct {
			ImageBase64 string `json:"imageBase64"`
			FoodName    string `json:"foodName"`
		}
		if !analyzeSchema.Bind(c, &req) {
			return
		}
		if (req.ImageBase64 == "") == (req.FoodName == "") {
			validate.Invalid(c, []string{"body: exactly one of imageBase64 or foodName is required"})
			return
		}
		ctx := c.Request.Context()

		foodName := req.FoodName
		confidence := 1.0
		if req.ImageBase64 != "" {
			prediction, err := classifier.Classify(ctx, req.ImageBase64)
			if err != nil {
				logger.Error("image classification failed", "user_id", userID, "error", err.Error())
				c.JSON(http.StatusInternalServerError, gin.H{"error": "Food detection failed"})
				return
			}
			foodName = prediction.Label
			confidence = prediction.Score
		}

		nutri, err := nutrition.Lookup(ctx, foodName)
		if err != nil {
			logger.Error("nutrition lookup failed", "user_id", userID, "food", foodName, "error", err.Error())
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch nutrition data"})
			return
		}

		rec := models.FoodRecognition{
			UserID:     userID,
			FoodName:   nutri.FoodName,
			Confidence: confidence,
			Calories:   nutri.Calories,
			Protein:    nutri.Protein,
			Carbs:      nutri.Carbs,
			Fats:       nutri.Fats,
		}
		if err := db.WithContext(ctx).Create(&rec).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to add food recognition"})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"recognition": rec,
			"nutrition":   nutri,
		})
	}
}
