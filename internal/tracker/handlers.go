package tracker

import (
	"crypto/subtle"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/caltrack/caltrack/internal/auth"
	"github.com/caltrack/caltrack/internal/validate"
)

var dailyGoalSchema = validate.MustCompile(`{
	"type": "object",
	"required": ["calories", "protein", "carbs", "fats"],
	"properties": {
		"calories": {"type": "number", "minimum": 0, "maximum": 10000},
		"protein":  {"type": "number", "minimum": 0, "maximum": 1000},
		"carbs":    {"type": "number", "minimum": 0, "maximum": 1000},
		"fats":     {"type": "number", "minimum": 0, "maximum": 1000},
		"date":     {"type": "string"}
	}
}`)

var intakeSchema = validate.MustCompile(`{
	"type": "object",
	"required": ["foodName", "calories", "protein", "carbs", "fats"],
	"properties": {
		"foodName": {"type": "string", "minLength": 1},
		"calories": {"type": "number", "minimum": 0, "maximum": 10000},
		"protein":  {"type": "number", "minimum": 0},
		"carbs":    {"type": "number", "minimum": 0},
		"fats":     {"type": "number", "minimum": 0},
		"date":     {"type": "string"}
	}
}`)

var burnedSchema = validate.MustCompile(`{
	"type": "object",
	"required": ["activity", "calories"],
	"properties": {
		"activity": {"type": "string", "minLength": 1, "maxLength": 100},
		"calories": {"type": "number", "minimum": 0, "maximum": 5000},
		"duration": {"type": "number", "minimum": 0, "maximum": 1440}
	}
}`)

var summaryActionSchema = validate.MustCompile(`{
	"type": "object",
	"required": ["action"],
	"properties": {
		"action": {"type": "string", "enum": ["reset", "update"]},
		"date":   {"type": "string"}
	}
}`)

// parseDate accepts a YYYY-MM-DD or RFC3339 date string; empty means now.
func parseDate(s string) (time.Time, bool) {
	if s == "" {
		return time.Now().UTC(), true
	}
	if t, err := time.Parse(time.DateOnly, s); err == nil {
		return t, true
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, true
	}
	return time.Time{}, false
}

func dateFromQuery(c *gin.Context) (time.Time, bool) {
	day, ok := parseDate(c.Query("date"))
	if !ok {
		validate.Invalid(c, []string{"date: must be formatted as YYYY-MM-DD"})
		return time.Time{}, false
	}
	return day, true
}

func requireUser(c *gin.Context) (uint, bool) {
	userID, ok := auth.UserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return 0, false
	}
	return userID, true
}

func (s *Store) fail(c *gin.Context, msg string, err error) {
	s.logger.Error(msg, "path", c.FullPath(), "error", err.Error())
	c.JSON(http.StatusInternalServerError, gin.H{"error": msg})
}

/* ─── Daily goals ────────────────────────────────────────────────────── */

// GetDailyGoalHandler returns the goal for the requested day (today by
// default); dailyGoal is null when none is set.
func GetDailyGoalHandler(store *Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := requireUser(c)
		if !ok {
			return
		}
		day, ok := dateFromQuery(c)
		if !ok {
			return
		}

		goal, err := store.DailyGoalFor(c.Request.Context(), userID, day)
		if err != nil {
			store.fail(c, "Failed to fetch daily goals", err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"dailyGoal": goal})
	}
}

// UpsertDailyGoalHandler writes the goal for the requested day, overwriting
// any existing one.
func UpsertDailyGoalHandler(store *Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := requireUser(c)
		if !ok {
			return
		}

		var req struct {
			Calories float64 `json:"calories"`
			Protein  float64 `json:"protein"`
			Carbs    float64 `json:"carbs"`
			Fats     float64 `json:"fats"`
			Date     string  `json:"date"`
		}
		if !dailyGoalSchema.Bind(c, &req) {
			return
		}
		day, ok := parseDate(req.Date)
		if !ok {
			validate.Invalid(c, []string{"date: must be formatted as YYYY-MM-DD"})
			return
		}

		goal, err := store.UpsertDailyGoal(c.Request.Context(), userID, day,
			int(req.Calories), int(req.Protein), int(req.Carbs), int(req.Fats))
		if err != nil {
			store.fail(c, "Failed to create/update daily goals", err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"dailyGoal": goal})
	}
}

/* ─── Intake ─────────────────────────────────────────────────────────── */

// AddIntakeHandler appends one intake event and recomputes the day's summary.
func AddIntakeHandler(store *Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := requireUser(c)
		if !ok {
			return
		}

		var req struct {
			FoodName string  `json:"foodName"`
			Calories float64 `json:"calories"`
			Protein  float64 `json:"protein"`
			Carbs    float64 `json:"carbs"`
			Fats     float64 `json:"fats"`
			Date     string  `json:"date"`
		}
		if !intakeSchema.Bind(c, &req) {
			return
		}
		day, ok := parseDate(req.Date)
		if !ok {
			validate.Invalid(c, []string{"date: must be formatted as YYYY-MM-DD"})
			return
		}
		in := IntakeInput{
			FoodName: req.FoodName,
			Calories: req.Calories,
			Protein:  req.Protein,
			Carbs:    req.Carbs,
			Fats:     req.Fats,
		}
		if req.Date != "" {
			in.Date = day
		}

		rec, err := store.AddIntake(c.Request.Context(), userID, in)
		if err != nil {
			store.fail(c, "Failed to add intake record", err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"intakeRecord": rec})
	}
}

// ListIntakeHandler lists the intake events for the requested day.
func ListIntakeHandler(store *Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := requireUser(c)
		if !ok {
			return
		}
		day, ok := dateFromQuery(c)
		if !ok {
			return
		}

		recs, err := store.IntakeFor(c.Request.Context(), userID, day)
		if err != nil {
			store.fail(c, "Failed to fetch intake history", err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"intakeHistory": recs})
	}
}

/* ─── Burned calories ────────────────────────────────────────────────── */

// AddBurnedHandler upserts a burn event for today and recomputes the summary.
func AddBurnedHandler(store *Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := requireUser(c)
		if !ok {
			return
		}

		var req struct {
			Activity string  `json:"activity"`
			Calories float64 `json:"calories"`
			Duration float64 `json:"duration"`
		}
		if !burnedSchema.Bind(c, &req) {
			return
		}

		rec, err := store.AddBurned(c.Request.Context(), userID, BurnedInput{
			Activity: req.Activity,
			Calories: req.Calories,
			Duration: req.Duration,
		})
		if err != nil {
			store.fail(c, "Failed to add burned calories", err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"burnedCaloriesRecord": rec})
	}
}

// ListBurnedHandler lists the burn events for the requested day plus their
// calorie total.
func ListBurnedHandler(store *Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := requireUser(c)
		if !ok {
			return
		}
		day, ok := dateFromQuery(c)
		if !ok {
			return
		}

		recs, err := store.BurnedFor(c.Request.Context(), userID, day)
		if err != nil {
			store.fail(c, "Failed to fetch burned calories", err)
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"burnedCalories": recs,
			"totalBurned":    sumBurned(recs),
		})
	}
}

/* ─── Daily summary ──────────────────────────────────────────────────── */

// GetDailySummaryHandler returns the cached summary for the requested day,
// computing it on first access, together with the day's burn events.
func GetDailySummaryHandler(store *Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := requireUser(c)
		if !ok {
			return
		}
		day, ok := dateFromQuery(c)
		if !ok {
			return
		}
		ctx := c.Request.Context()

		summary, err := store.DailySummaryFor(ctx, userID, day)
		if err != nil {
			store.fail(c, "Failed to fetch daily summary", err)
			return
		}
		if summary == nil {
			summary, err = store.UpdateDailySummary(ctx, userID, day)
			if err != nil {
				store.fail(c, "Failed to fetch daily summary", err)
				return
			}
		}

		burns, err := store.BurnedFor(ctx, userID, day)
		if err != nil {
			store.fail(c, "Failed to fetch daily summary", err)
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"dailySummary":   summary,
			"burnedCalories": burns,
			"totalBurned":    sumBurned(burns),
		})
	}
}

// DailySummaryActionHandler handles the POST actions: "update" recomputes the
// day and returns the summary, "reset" recomputes and confirms.
func DailySummaryActionHandler(store *Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := requireUser(c)
		if !ok {
			return
		}

		var req struct {
			Action string `json:"action"`
			Date   string `json:"date"`
		}
		if !summaryActionSchema.Bind(c, &req) {
			return
		}
		day, ok := parseDate(req.Date)
		if !ok {
			validate.Invalid(c, []string{"date: must be formatted as YYYY-MM-DD"})
			return
		}

		switch req.Action {
		case "reset":
			if _, err := store.UpdateDailySummary(c.Request.Context(), userID, day); err != nil {
				store.fail(c, "Failed to process daily summary action", err)
				return
			}
			c.JSON(http.StatusOK, gin.H{
				"message": "Daily data reset successfully",
				"date":    DayStart(day).Format(time.DateOnly),
			})
		case "update":
			summary, err := store.UpdateDailySummary(c.Request.Context(), userID, day)
			if err != nil {
				store.fail(c, "Failed to process daily summary action", err)
				return
			}
			c.JSON(http.StatusOK, gin.H{"dailySummary": summary})
		default:
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid action"})
		}
	}
}

/* ─── Analytics and history ──────────────────────────────────────────── */

// AnalyticsHandler serves the rollup views: weekly per-day intake sums,
// monthly workouts, or both when no type is given.
func AnalyticsHandler(store *Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := requireUser(c)
		if !ok {
			return
		}
		ctx := c.Request.Context()

		switch c.Query("type") {
		case "weekly-intake":
			weekly, err := store.WeeklyIntake(ctx, userID)
			if err != nil {
				store.fail(c, "Failed to fetch analytics", err)
				return
			}
			c.JSON(http.StatusOK, gin.H{"analytics": weekly})
		case "monthly-workouts":
			workouts, err := store.MonthlyWorkouts(ctx, userID)
			if err != nil {
				store.fail(c, "Failed to fetch analytics", err)
				return
			}
			c.JSON(http.StatusOK, gin.H{"analytics": workouts})
		default:
			weekly, err := store.WeeklyIntake(ctx, userID)
			if err != nil {
				store.fail(c, "Failed to fetch analytics", err)
				return
			}
			workouts, err := store.MonthlyWorkouts(ctx, userID)
			if err != nil {
				store.fail(c, "Failed to fetch analytics", err)
				return
			}
			c.JSON(http.StatusOK, gin.H{"analytics": gin.H{
				"weeklyIntake":    weekly,
				"monthlyWorkouts": workouts,
			}})
		}
	}
}

// HistoricalDataHandler lists the trailing-N-day summaries (default 7).
func HistoricalDataHandler(store *Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := requireUser(c)
		if !ok {
			return
		}

		days := 7
		if raw := c.Query("days"); raw != "" {
			parsed, err := strconv.Atoi(raw)
			if err != nil || parsed < 1 || parsed > 365 {
				validate.Invalid(c, []string{"days: must be an integer between 1 and 365"})
				return
			}
			days = parsed
		}

		summaries, err := store.HistoricalSummaries(c.Request.Context(), userID, days)
		if err != nil {
			store.fail(c, "Failed to fetch historical data", err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"historicalData": summaries})
	}
}

/* ─── Daily reset ────────────────────────────────────────────────────── */

// cronAuthorized checks the shared reset secret, accepted either as a bearer
// Authorization header or as an "authorization" body field. An empty
// configured secret rejects everything.
func cronAuthorized(c *gin.Context, secret, bodySecret string) bool {
	if secret == "" {
		return false
	}
	header := c.GetHeader("Authorization")
	if subtle.ConstantTimeCompare([]byte(header), []byte("Bearer "+secret)) == 1 {
		return true
	}
	return subtle.ConstantTimeCompare([]byte(bodySecret), []byte(secret)) == 1
}

// DailyResetHandler runs the batch reset for yesterday across every active
// user. It is meant for an external cron trigger and authenticates with a
// shared secret instead of a session. With "async": true the batch is
// enqueued on the worker instead of running in-request; enqueue is injected
// to keep this package free of a worker dependency.
func DailyResetHandler(store *Store, cronSecret string, enqueue func(time.Time) (string, error)) gin.HandlerFunc {
	return func(c *gin.Context) {
		// Body is optional; an external cron may POST with none.
		var req struct {
			Authorization string `json:"authorization"`
			Async         bool   `json:"async"`
		}
		_ = c.ShouldBindJSON(&req)

		if !cronAuthorized(c, cronSecret, req.Authorization) {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}

		yesterday := time.Now().UTC().AddDate(0, 0, -1)
		if req.Async && enqueue != nil {
			batchID, err := enqueue(yesterday)
			if err != nil {
				store.fail(c, "Failed to process daily reset", err)
				return
			}
			c.JSON(http.StatusAccepted, gin.H{
				"message": "Daily reset enqueued",
				"batchId": batchID,
				"date":    DayStart(yesterday).Format(time.DateOnly),
			})
			return
		}
		processed, err := store.ResetDay(c.Request.Context(), yesterday)
		if err != nil {
			store.fail(c, "Failed to process daily reset", err)
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"message":        "Daily reset completed",
			"usersProcessed": processed,
			"date":           DayStart(yesterday).Format(time.DateOnly),
		})
	}
}

// ManualResetHandler recomputes one user's summary for the given day. Gated
// by the same shared secret as the batch endpoint; it acts on an arbitrary
// userId, so a session is not enough.
func ManualResetHandler(store *Store, cronSecret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req struct {
			Authorization string `json:"authorization"`
			UserID        uint   `json:"userId"`
			Date          string `json:"date"`
		}
		_ = c.ShouldBindJSON(&req)

		if !cronAuthorized(c, cronSecret, req.Authorization) {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}
		if req.UserID == 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "User ID required"})
			return
		}
		day, ok := parseDate(req.Date)
		if !ok {
			validate.Invalid(c, []string{"date: must be formatted as YYYY-MM-DD"})
			return
		}

		if _, err := store.UpdateDailySummary(c.Request.Context(), req.UserID, day); err != nil {
			store.fail(c, "Failed to process manual reset", err)
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"message": "Manual reset completed",
			"userId":  req.UserID,
			"date":    DayStart(day).Format(time.DateOnly),
		})
	}
}
