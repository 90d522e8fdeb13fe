package goals

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/caltrack/caltrack/internal/auth"
	"github.com/caltrack/caltrack/internal/tracker"
	"github.com/caltrack/caltrack/internal/validate"
)

var planSchema = validate.MustCompile(`{
	"type": "object",
	"required": ["gender", "age", "height", "currentWeight", "targetWeight", "activityLevel", "dailyChange", "goal"],
	"properties": {
		"gender":        {"type": "string", "enum": ["male", "female"]},
		"age":           {"type": "integer", "minimum": 1, "maximum": 120},
		"height":        {"type": "number", "minimum": 50, "maximum": 300},
		"currentWeight": {"type": "number", "minimum": 20, "maximum": 500},
		"targetWeight":  {"type": "number", "minimum": 20, "maximum": 500},
		"activityLevel": {"type": "string", "enum": ["sedentary", "light", "moderate", "active", "veryActive"]},
		"dailyChange":   {"type": "number", "minimum": 100, "maximum": 1000},
		"goal":          {"type": "string", "enum": ["gain", "lose"]}
	}
}`)

var quickSchema = validate.MustCompile(`{
	"type": "object",
	"required": ["age", "weight", "height", "activityLevel"],
	"properties": {
		"age":           {"type": "integer", "minimum": 1, "maximum": 120},
		"weight":        {"type": "number", "minimum": 20, "maximum": 500},
		"height":        {"type": "number", "minimum": 50, "maximum": 300},
		"activityLevel": {"type": "string", "enum": ["sedentary", "light", "moderate", "active", "very-active"]}
	}
}`)

// PlanGoalHandler runs the full goal planner and persists the resulting
// daily goal for today.
func PlanGoalHandler(store *tracker.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := auth.UserID(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}

		var in PlanInput
		if !planSchema.Bind(c, &in) {
			return
		}

		plan, err := PlanGoal(in)
		if err != nil {
			validate.Invalid(c, []string{err.Error()})
			return
		}

		goal, err := store.UpsertDailyGoal(c.Request.Context(), userID, time.Now().UTC(),
			plan.Calories, plan.Protein, plan.Carbs, plan.Fats)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save daily goals"})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"result":    plan,
			"dailyGoal": goal,
		})
	}
}

// QuickCaloriesHandler runs the simpler daily-calorie-only calculator and
// persists the resulting daily goal for today. Kept deliberately separate
// from the full planner; the two use different formulas.
func QuickCaloriesHandler(store *tracker.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := auth.UserID(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}

		var req struct {
			Age           int     `json:"age"`
			Weight        float64 `json:"weight"`
			Height        float64 `json:"height"`
			ActivityLevel string  `json:"activityLevel"`
		}
		if !quickSchema.Bind(c, &req) {
			return
		}

		calories := QuickCalories(req.Age, req.Weight, req.Height, req.ActivityLevel)
		protein, carbs, fats := MacroSplit(float64(calories))

		goal, err := store.UpsertDailyGoal(c.Request.Context(), userID, time.Now().UTC(),
			calories, protein, carbs, fats)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save daily goals"})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"calories":  calories,
			"dailyGoal": goal,
		})
	}
}
