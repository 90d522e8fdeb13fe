package tracker

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/caltrack/caltrack/internal/models"
)

// newTestStore opens an in-memory database with the tracker tables. The
// upsert clauses run the same ON CONFLICT path as production.
func newTestStore(t *testing.T) *Store {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("sql.DB: %v", err)
	}
	// A single connection keeps the in-memory database alive across queries.
	sqlDB.SetMaxOpenConns(1)

	err = db.AutoMigrate(
		&models.DailyGoal{},
		&models.IntakeRecord{},
		&models.DailyBurnedCalories{},
		&models.DailySummary{},
	)
	if err != nil {
		t.Fatalf("migrate: %v", err)
	}

	return NewStore(db, slog.New(slog.NewTextHandler(io.Discard, nil)))
}

// TestAddBurned_IncrementsExistingRow logs the same activity twice in one day
// and asserts a single row carrying the summed calories and duration.
func TestAddBurned_IncrementsExistingRow(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	first, err := s.AddBurned(ctx, 1, BurnedInput{Activity: "running", Calories: 100, Duration: 20})
	if err != nil {
		t.Fatalf("AddBurned: %v", err)
	}
	if first.Calories != 100 || first.Duration != 20 {
		t.Errorf("first = (%v, %v), want (100, 20)", first.Calories, first.Duration)
	}

	second, err := s.AddBurned(ctx, 1, BurnedInput{Activity: "running", Calories: 50, Duration: 10})
	if err != nil {
		t.Fatalf("AddBurned: %v", err)
	}
	if second.Calories != 150 || second.Duration != 30 {
		t.Errorf("second = (%v, %v), want (150, 30)", second.Calories, second.Duration)
	}

	var count int64
	if err := s.db.Model(&models.DailyBurnedCalories{}).Where("user_id = ?", 1).Count(&count).Error; err != nil {
		t.Fatalf("count: %v", err)
	}
	if count != 1 {
		t.Errorf("rows = %d, want 1", count)
	}

	// A different activity on the same day gets its own row.
	if _, err := s.AddBurned(ctx, 1, BurnedInput{Activity: "cycling", Calories: 80, Duration: 15}); err != nil {
		t.Fatalf("AddBurned: %v", err)
	}
	if err := s.db.Model(&models.DailyBurnedCalories{}).Where("user_id = ?", 1).Count(&count).Error; err != nil {
		t.Fatalf("count: %v", err)
	}
	if count != 2 {
		t.Errorf("rows = %d, want 2", count)
	}

	summary, err := s.DailySummaryFor(ctx, 1, time.Now())
	if err != nil {
		t.Fatalf("DailySummaryFor: %v", err)
	}
	if summary == nil || summary.TotalBurned != 230 {
		t.Errorf("summary = %+v, want TotalBurned 230", summary)
	}
}

// TestUpsertDailyGoal_OneRowPerDay writes two goals for the same day and
// asserts the second overwrote the first in place.
func TestUpsertDailyGoal_OneRowPerDay(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	day := time.Date(2026, 8, 30, 0, 0, 0, 0, time.UTC)

	if _, err := s.UpsertDailyGoal(ctx, 1, day, 2000, 150, 225, 56); err != nil {
		t.Fatalf("UpsertDailyGoal: %v", err)
	}
	goal, err := s.UpsertDailyGoal(ctx, 1, day, 2259, 169, 254, 63)
	if err != nil {
		t.Fatalf("UpsertDailyGoal: %v", err)
	}
	if goal.Calories != 2259 || goal.Protein != 169 || goal.Carbs != 254 || goal.Fats != 63 {
		t.Errorf("goal = %+v, want overwritten values", goal)
	}

	var count int64
	if err := s.db.Model(&models.DailyGoal{}).Where("user_id = ?", 1).Count(&count).Error; err != nil {
		t.Fatalf("count: %v", err)
	}
	if count != 1 {
		t.Errorf("rows = %d, want 1", count)
	}
}

// TestDailySummary_EndToEnd: one 500 kcal intake and one 300 kcal burn yield
// a summary of 500 consumed / 300 burned / 200 net, and recomputing without
// new events changes nothing.
func TestDailySummary_EndToEnd(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	if _, err := s.AddIntake(ctx, 7, IntakeInput{FoodName: "oatmeal", Calories: 500, Protein: 20, Carbs: 80, Fats: 9}); err != nil {
		t.Fatalf("AddIntake: %v", err)
	}
	if _, err := s.AddBurned(ctx, 7, BurnedInput{Activity: "rowing", Calories: 300, Duration: 25}); err != nil {
		t.Fatalf("AddBurned: %v", err)
	}

	summary, err := s.DailySummaryFor(ctx, 7, time.Now())
	if err != nil {
		t.Fatalf("DailySummaryFor: %v", err)
	}
	if summary == nil {
		t.Fatal("summary not created by the writes")
	}
	if summary.TotalConsumed != 500 || summary.TotalBurned != 300 || summary.NetCalories != 200 {
		t.Errorf("summary = (%v, %v, %v), want (500, 300, 200)",
			summary.TotalConsumed, summary.TotalBurned, summary.NetCalories)
	}

	again, err := s.UpdateDailySummary(ctx, 7, time.Now())
	if err != nil {
		t.Fatalf("UpdateDailySummary: %v", err)
	}
	if again.TotalConsumed != summary.TotalConsumed ||
		again.TotalBurned != summary.TotalBurned ||
		again.NetCalories != summary.NetCalories {
		t.Errorf("recompute drifted: %+v != %+v", again, summary)
	}

	var count int64
	if err := s.db.Model(&models.DailySummary{}).Where("user_id = ?", 7).Count(&count).Error; err != nil {
		t.Fatalf("count: %v", err)
	}
	if count != 1 {
		t.Errorf("summary rows = %d, want 1", count)
	}
}

// TestResetDay recomputes yesterday for every user with events that day.
func TestResetDay(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	yesterday := time.Now().UTC().AddDate(0, 0, -1)

	if _, err := s.AddIntake(ctx, 1, IntakeInput{FoodName: "toast", Calories: 200, Date: yesterday}); err != nil {
		t.Fatalf("AddIntake: %v", err)
	}
	if _, err := s.AddIntake(ctx, 2, IntakeInput{FoodName: "eggs", Calories: 350, Date: yesterday}); err != nil {
		t.Fatalf("AddIntake: %v", err)
	}

	processed, err := s.ResetDay(ctx, yesterday)
	if err != nil {
		t.Fatalf("ResetDay: %v", err)
	}
	if processed != 2 {
		t.Errorf("processed = %d, want 2", processed)
	}

	summary, err := s.DailySummaryFor(ctx, 1, yesterday)
	if err != nil {
		t.Fatalf("DailySummaryFor: %v", err)
	}
	if summary == nil || summary.TotalConsumed != 200 {
		t.Errorf("summary = %+v, want TotalConsumed 200", summary)
	}
}

// TestActiveUserIDs_Deduplicates: a user with both an intake and a burn on
// the day appears once.
func TestActiveUserIDs_Deduplicates(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	if _, err := s.AddIntake(ctx, 3, IntakeInput{FoodName: "rice", Calories: 400}); err != nil {
		t.Fatalf("AddIntake: %v", err)
	}
	if _, err := s.AddBurned(ctx, 3, BurnedInput{Activity: "walking", Calories: 120}); err != nil {
		t.Fatalf("AddBurned: %v", err)
	}

	ids, err := s.ActiveUserIDs(ctx, time.Now())
	if err != nil {
		t.Fatalf("ActiveUserIDs: %v", err)
	}
	if len(ids) != 1 || ids[0] != 3 {
		t.Errorf("ids = %v, want [3]", ids)
	}
}
