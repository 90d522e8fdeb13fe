package tracker

import (
	"context"
	"errors"
	"log/slog"
	"sort"
	"time"

	"github.com/caltrack/caltrack/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Store owns the goal and tracking tables: the intake/burn recorder, the
// daily summary aggregator, and the rollup queries. It is constructed once
// at startup and shared by the HTTP handlers and the reset worker.
type Store struct {
	db     *gorm.DB
	logger *slog.Logger
}

// NewStore creates a Store over an already-initialized database connection.
func NewStore(db *gorm.DB, logger *slog.Logger) *Store {
	return &Store{db: db, logger: logger}
}

// DayStart truncates t to its UTC calendar day.
func DayStart(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// dayWindow returns the half-open interval [day 00:00, day+1 00:00) in UTC.
func dayWindow(t time.Time) (time.Time, time.Time) {
	start := DayStart(t)
	return start, start.AddDate(0, 0, 1)
}

/* ─── Daily goals ────────────────────────────────────────────────────── */

// DailyGoalFor returns the goal for one user-day, or nil if none is set.
func (s *Store) DailyGoalFor(ctx context.Context, userID uint, day time.Time) (*models.DailyGoal, error) {
	var goal models.DailyGoal
	err := s.db.WithContext(ctx).
		Where("user_id = ? AND date = ?", userID, DayStart(day)).
		First(&goal).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &goal, nil
}

// UpsertDailyGoal writes the goal for one user-day, overwriting any existing
// goal for that day.
func (s *Store) UpsertDailyGoal(ctx context.Context, userID uint, day time.Time, calories, protein, carbs, fats int) (*models.DailyGoal, error) {
	goal := models.DailyGoal{
		UserID:   userID,
		Date:     DayStart(day),
		Calories: calories,
		Protein:  protein,
		Carbs:    carbs,
		Fats:     fats,
	}
	err := s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}, {Name: "date"}},
		DoUpdates: clause.AssignmentColumns([]string{"calories", "protein", "carbs", "fats", "updated_at"}),
	}).Create(&goal).Error
	if err != nil {
		return nil, err
	}
	return s.DailyGoalFor(ctx, userID, day)
}

/* ─── Intake recorder ────────────────────────────────────────────────── */

// IntakeInput is the validated input for one food-consumption event.
type IntakeInput struct {
	FoodName string
	Calories float64
	Protein  float64
	Carbs    float64
	Fats     float64
	Date     time.Time // zero means now
}

// AddIntake appends one intake event and synchronously recomputes the day's
// summary.
func (s *Store) AddIntake(ctx context.Context, userID uint, in IntakeInput) (*models.IntakeRecord, error) {
	when := in.Date
	if when.IsZero() {
		when = time.Now().UTC()
	}
	rec := models.IntakeRecord{
		UserID:   userID,
		Date:     when,
		FoodName: in.FoodName,
		Calories: in.Calories,
		Protein:  in.Protein,
		Carbs:    in.Carbs,
		Fats:     in.Fats,
	}
	if err := s.db.WithContext(ctx).Create(&rec).Error; err != nil {
		return nil, err
	}
	if _, err := s.UpdateDailySummary(ctx, userID, when); err != nil {
		return nil, err
	}
	return &rec, nil
}

// IntakeFor lists the intake events for one user-day, newest first.
func (s *Store) IntakeFor(ctx context.Context, userID uint, day time.Time) ([]models.IntakeRecord, error) {
	start, end := dayWindow(day)
	var recs []models.IntakeRecord
	err := s.db.WithContext(ctx).
		Where("user_id = ? AND date >= ? AND date < ?", userID, start, end).
		Order("created_at DESC").
		Find(&recs).Error
	return recs, err
}

/* ─── Burn recorder ──────────────────────────────────────────────────── */

// BurnedInput is the validated input for one calorie-burn event.
type BurnedInput struct {
	Activity string
	Calories float64
	Duration float64 // minutes, zero when omitted
}

// AddBurned upserts a burn event for (user, today, activity). Logging the
// same activity twice in one day increments calories and duration atomically
// on the existing row rather than creating a duplicate. The day's summary is
// recomputed afterwards.
func (s *Store) AddBurned(ctx context.Context, userID uint, in BurnedInput) (*models.DailyBurnedCalories, error) {
	day := DayStart(time.Now())
	rec := models.DailyBurnedCalories{
		UserID:   userID,
		Date:     day,
		Activity: in.Activity,
		Calories: in.Calories,
		Duration: in.Duration,
	}
	err := s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "user_id"}, {Name: "date"}, {Name: "activity"}},
		DoUpdates: clause.Assignments(map[string]any{
			"calories":   gorm.Expr("daily_burned_calories.calories + EXCLUDED.calories"),
			"duration":   gorm.Expr("daily_burned_calories.duration + EXCLUDED.duration"),
			"updated_at": time.Now().UTC(),
		}),
	}).Create(&rec).Error
	if err != nil {
		return nil, err
	}

	// Re-read: on the increment path the in-memory struct holds only the delta.
	var current models.DailyBurnedCalories
	err = s.db.WithContext(ctx).
		Where("user_id = ? AND date = ? AND activity = ?", userID, day, in.Activity).
		First(&current).Error
	if err != nil {
		return nil, err
	}
	if _, err := s.UpdateDailySummary(ctx, userID, day); err != nil {
		return nil, err
	}
	return &current, nil
}

// BurnedFor lists the burn events for one user-day, newest first.
func (s *Store) BurnedFor(ctx context.Context, userID uint, day time.Time) ([]models.DailyBurnedCalories, error) {
	start, end := dayWindow(day)
	var recs []models.DailyBurnedCalories
	err := s.db.WithContext(ctx).
		Where("user_id = ? AND date >= ? AND date < ?", userID, start, end).
		Order("created_at DESC").
		Find(&recs).Error
	return recs, err
}

/* ─── Daily summary aggregator ───────────────────────────────────────── */

// DailySummaryFor returns the cached summary for one user-day, or nil if the
// aggregator has not run for that day yet.
func (s *Store) DailySummaryFor(ctx context.Context, userID uint, day time.Time) (*models.DailySummary, error) {
	var summary models.DailySummary
	err := s.db.WithContext(ctx).
		Where("user_id = ? AND date = ?", userID, DayStart(day)).
		First(&summary).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &summary, nil
}

// UpdateDailySummary recomputes one user-day from scratch: it re-reads every
// intake and burn row in the day window, sums them, and overwrites the
// summary row unconditionally. Idempotent — re-running it with no new events
// yields identical values.
func (s *Store) UpdateDailySummary(ctx context.Context, userID uint, day time.Time) (*models.DailySummary, error) {
	intakes, err := s.IntakeFor(ctx, userID, day)
	if err != nil {
		return nil, err
	}
	burns, err := s.BurnedFor(ctx, userID, day)
	if err != nil {
		return nil, err
	}

	t := summarize(intakes, burns)
	summary := models.DailySummary{
		UserID:        userID,
		Date:          DayStart(day),
		TotalConsumed: t.TotalConsumed,
		TotalBurned:   t.TotalBurned,
		NetCalories:   t.NetCalories,
		Protein:       t.Protein,
		Carbs:         t.Carbs,
		Fats:          t.Fats,
	}
	err = s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "user_id"}, {Name: "date"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"total_consumed", "total_burned", "net_calories",
			"protein", "carbs", "fats", "updated_at",
		}),
	}).Create(&summary).Error
	if err != nil {
		return nil, err
	}
	return s.DailySummaryFor(ctx, userID, day)
}

/* ─── Rollups ────────────────────────────────────────────────────────── */

// WeeklyIntake returns per-day intake sums for the trailing 7 days, ascending
// by date.
func (s *Store) WeeklyIntake(ctx context.Context, userID uint) ([]DayIntake, error) {
	since := DayStart(time.Now()).AddDate(0, 0, -7)
	var recs []models.IntakeRecord
	err := s.db.WithContext(ctx).
		Where("user_id = ? AND date >= ?", userID, since).
		Order("date ASC").
		Find(&recs).Error
	if err != nil {
		return nil, err
	}
	return groupIntakeByDay(recs), nil
}

// MonthlyWorkouts lists workouts over the trailing 30 days, newest first.
func (s *Store) MonthlyWorkouts(ctx context.Context, userID uint) ([]models.Workout, error) {
	since := DayStart(time.Now()).AddDate(0, 0, -30)
	var workouts []models.Workout
	err := s.db.WithContext(ctx).
		Where("user_id = ? AND date >= ?", userID, since).
		Order("date DESC").
		Find(&workouts).Error
	return workouts, err
}

// HistoricalSummaries lists the trailing-N-day summaries, newest first.
func (s *Store) HistoricalSummaries(ctx context.Context, userID uint, days int) ([]models.DailySummary, error) {
	since := DayStart(time.Now()).AddDate(0, 0, -days)
	var summaries []models.DailySummary
	err := s.db.WithContext(ctx).
		Where("user_id = ? AND date >= ?", userID, since).
		Order("date DESC").
		Find(&summaries).Error
	return summaries, err
}

/* ─── Daily reset batch ──────────────────────────────────────────────── */

// ActiveUserIDs returns every user with at least one intake or burn event on
// the given day, sorted for deterministic batch order.
func (s *Store) ActiveUserIDs(ctx context.Context, day time.Time) ([]uint, error) {
	start, end := dayWindow(day)

	var intakeUsers []uint
	err := s.db.WithContext(ctx).Model(&models.IntakeRecord{}).
		Distinct("user_id").
		Where("date >= ? AND date < ?", start, end).
		Pluck("user_id", &intakeUsers).Error
	if err != nil {
		return nil, err
	}

	var burnUsers []uint
	err = s.db.WithContext(ctx).Model(&models.DailyBurnedCalories{}).
		Distinct("user_id").
		Where("date >= ? AND date < ?", start, end).
		Pluck("user_id", &burnUsers).Error
	if err != nil {
		return nil, err
	}

	seen := make(map[uint]struct{}, len(intakeUsers)+len(burnUsers))
	for _, id := range intakeUsers {
		seen[id] = struct{}{}
	}
	for _, id := range burnUsers {
		seen[id] = struct{}{}
	}
	ids := make([]uint, 0, len(seen))
	for id := range seen {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids, nil
}

// ResetDay recomputes the summary for every user active on the given day,
// sequentially. A failure for one user is logged and does not abort the rest
// of the batch. Returns the number of users processed.
func (s *Store) ResetDay(ctx context.Context, day time.Time) (int, error) {
	users, err := s.ActiveUserIDs(ctx, day)
	if err != nil {
		return 0, err
	}
	for _, userID := range users {
		if _, err := s.UpdateDailySummary(ctx, userID, day); err != nil {
			s.logger.Error("daily reset failed for user",
				"user_id", userID,
				"date", DayStart(day).Format(time.DateOnly),
				"error", err.Error(),
			)
		}
	}
	return len(users), nil
}
