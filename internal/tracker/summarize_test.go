package tracker

import (
	"testing"
	"time"

	"github.com/caltrack/caltrack/internal/models"
)

func TestSummarize(t *testing.T) {
	intakes := []models.IntakeRecord{
		{Calories: 500, Protein: 30, Carbs: 50, Fats: 20},
		{Calories: 300, Protein: 10, Carbs: 40, Fats: 5},
		{Calories: 200, Protein: 15, Carbs: 10, Fats: 8},
	}
	burns := []models.DailyBurnedCalories{
		{Activity: "running", Calories: 200},
		{Activity: "cycling", Calories: 100},
	}

	got := summarize(intakes, burns)

	if got.TotalConsumed != 1000 {
		t.Errorf("TotalConsumed = %v, want 1000", got.TotalConsumed)
	}
	if got.TotalBurned != 300 {
		t.Errorf("TotalBurned = %v, want 300", got.TotalBurned)
	}
	if got.NetCalories != 700 {
		t.Errorf("NetCalories = %v, want 700", got.NetCalories)
	}
	if got.Protein != 55 || got.Carbs != 100 || got.Fats != 33 {
		t.Errorf("macros = (%v, %v, %v), want (55, 100, 33)", got.Protein, got.Carbs, got.Fats)
	}
}

// TestSummarize_NetCalories pins the sign convention: consumed minus burned,
// which may go negative on a heavy training day.
func TestSummarize_NetCalories(t *testing.T) {
	got := summarize(
		[]models.IntakeRecord{{Calories: 2200}},
		[]models.DailyBurnedCalories{{Activity: "running", Calories: 300}},
	)
	if got.NetCalories != 1900 {
		t.Errorf("NetCalories = %v, want 1900", got.NetCalories)
	}

	deficit := summarize(
		[]models.IntakeRecord{{Calories: 400}},
		[]models.DailyBurnedCalories{{Activity: "marathon", Calories: 2500}},
	)
	if deficit.NetCalories != -2100 {
		t.Errorf("NetCalories = %v, want -2100", deficit.NetCalories)
	}
}

// TestSummarize_OrderIndependent checks that recomputing over the same rows in
// a different order yields identical totals. The summary upsert relies on this
// to stay idempotent.
func TestSummarize_OrderIndependent(t *testing.T) {
	intakes := []models.IntakeRecord{
		{Calories: 350, Protein: 25, Carbs: 30, Fats: 12},
		{Calories: 620, Protein: 40, Carbs: 55, Fats: 22},
		{Calories: 180, Protein: 5, Carbs: 30, Fats: 2},
	}
	burns := []models.DailyBurnedCalories{
		{Activity: "swimming", Calories: 400},
		{Activity: "walking", Calories: 150},
	}

	forward := summarize(intakes, burns)

	reversedIntakes := []models.IntakeRecord{intakes[2], intakes[1], intakes[0]}
	reversedBurns := []models.DailyBurnedCalories{burns[1], burns[0]}
	backward := summarize(reversedIntakes, reversedBurns)

	if forward != backward {
		t.Errorf("summarize is order-dependent: %+v != %+v", forward, backward)
	}
}

func TestSummarize_Empty(t *testing.T) {
	got := summarize(nil, nil)
	if got != (totals{}) {
		t.Errorf("summarize(nil, nil) = %+v, want zero totals", got)
	}
}

func TestSumBurned(t *testing.T) {
	burns := []models.DailyBurnedCalories{
		{Activity: "running", Calories: 250},
		{Activity: "yoga", Calories: 120},
	}
	if got := sumBurned(burns); got != 370 {
		t.Errorf("sumBurned = %v, want 370", got)
	}
	if got := sumBurned(nil); got != 0 {
		t.Errorf("sumBurned(nil) = %v, want 0", got)
	}
}

func TestGroupIntakeByDay(t *testing.T) {
	day := func(s string, hour int) time.Time {
		d, err := time.Parse(time.DateOnly, s)
		if err != nil {
			t.Fatalf("bad test date %q: %v", s, err)
		}
		return d.Add(time.Duration(hour) * time.Hour)
	}

	recs := []models.IntakeRecord{
		{Date: day("2026-08-30", 9), Calories: 400, Protein: 20},
		{Date: day("2026-08-29", 20), Calories: 700, Carbs: 80},
		{Date: day("2026-08-30", 19), Calories: 600, Protein: 35, Fats: 25},
	}

	got := groupIntakeByDay(recs)

	if len(got) != 2 {
		t.Fatalf("got %d days, want 2", len(got))
	}
	// Ascending date order regardless of input order.
	if got[0].Date != "2026-08-29" || got[1].Date != "2026-08-30" {
		t.Errorf("dates = [%s, %s], want [2026-08-29, 2026-08-30]", got[0].Date, got[1].Date)
	}
	if got[0].Calories != 700 || got[0].Carbs != 80 {
		t.Errorf("day 1 = %+v, want calories 700, carbs 80", got[0])
	}
	if got[1].Calories != 1000 || got[1].Protein != 55 || got[1].Fats != 25 {
		t.Errorf("day 2 = %+v, want calories 1000, protein 55, fats 25", got[1])
	}
}

func TestGroupIntakeByDay_Empty(t *testing.T) {
	if got := groupIntakeByDay(nil); len(got) != 0 {
		t.Errorf("groupIntakeByDay(nil) = %v, want empty", got)
	}
}

func TestDayStart(t *testing.T) {
	est := time.FixedZone("EST", -5*60*60)
	cases := []struct {
		name string
		in   time.Time
		want time.Time
	}{
		{
			"midday UTC truncates to midnight",
			time.Date(2026, 8, 30, 13, 45, 12, 0, time.UTC),
			time.Date(2026, 8, 30, 0, 0, 0, 0, time.UTC),
		},
		{
			"local evening crosses into the next UTC day",
			time.Date(2026, 8, 30, 22, 0, 0, 0, est),
			time.Date(2026, 8, 31, 0, 0, 0, 0, time.UTC),
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := DayStart(tc.in); !got.Equal(tc.want) {
				t.Errorf("DayStart(%v) = %v, want %v", tc.in, got, tc.want)
			}
		})
	}
}

func TestDayWindow(t *testing.T) {
	start, end := dayWindow(time.Date(2026, 8, 30, 17, 30, 0, 0, time.UTC))
	if !start.Equal(time.Date(2026, 8, 30, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("start = %v", start)
	}
	if !end.Equal(time.Date(2026, 8, 31, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("end = %v", end)
	}
	if end.Sub(start) != 24*time.Hour {
		t.Errorf("window length = %v, want 24h", end.Sub(start))
	}
}

func TestParseDate(t *testing.T) {
	cases := []struct {
		name  string
		in    string
		ok    bool
		check func(time.Time) bool
	}{
		{"date only", "2026-08-30", true, func(tm time.Time) bool {
			return tm.Equal(time.Date(2026, 8, 30, 0, 0, 0, 0, time.UTC))
		}},
		{"rfc3339", "2026-08-30T14:30:00Z", true, func(tm time.Time) bool {
			return tm.Equal(time.Date(2026, 8, 30, 14, 30, 0, 0, time.UTC))
		}},
		{"empty defaults to now", "", true, func(tm time.Time) bool {
			return time.Since(tm) < time.Minute
		}},
		{"garbage", "30/08/2026", false, nil},
		{"partial", "2026-08", false, nil},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, ok := parseDate(tc.in)
			if ok != tc.ok {
				t.Fatalf("parseDate(%q) ok = %v, want %v", tc.in, ok, tc.ok)
			}
			if tc.ok && !tc.check(got) {
				t.Errorf("parseDate(%q) = %v", tc.in, got)
			}
		})
	}
}
