package tracker

import (
	"sort"
	"time"

	"github.com/caltrack/caltrack/internal/models"
)

// totals is the aggregate of one user-day, computed from the raw event rows.
type totals struct {
	TotalConsumed float64
	TotalBurned   float64
	NetCalories   float64
	Protein       float64
	Carbs         float64
	Fats          float64
}

// summarize folds the day's intake and burn rows into the summary totals.
// Order-independent and side-effect free: re-running it over the same rows
// yields the same totals, which is what makes the aggregator idempotent.
func summarize(intakes []models.IntakeRecord, burns []models.DailyBurnedCalories) totals {
	var t totals
	for _, rec := range intakes {
		t.TotalConsumed += rec.Calories
		t.Protein += rec.Protein
		t.Carbs += rec.Carbs
		t.Fats += rec.Fats
	}
	for _, b := range burns {
		t.TotalBurned += b.Calories
	}
	t.NetCalories = t.TotalConsumed - t.TotalBurned
	return t
}

func sumBurned(burns []models.DailyBurnedCalories) float64 {
	var total float64
	for _, b := range burns {
		total += b.Calories
	}
	return total
}

// DayIntake is one day's intake sums in the weekly rollup.
type DayIntake struct {
	Date     string  `json:"date"`
	Calories float64 `json:"calories"`
	Protein  float64 `json:"protein"`
	Carbs    float64 `json:"carbs"`
	Fats     float64 `json:"fats"`
}

// groupIntakeByDay buckets intake rows by UTC calendar day and returns the
// per-day sums in ascending date order for trend charts.
func groupIntakeByDay(recs []models.IntakeRecord) []DayIntake {
	byDay := make(map[string]*DayIntake)
	for _, rec := range recs {
		key := DayStart(rec.Date).Format(time.DateOnly)
		day, ok := byDay[key]
		if !ok {
			day = &DayIntake{Date: key}
			byDay[key] = day
		}
		day.Calories += rec.Calories
		day.Protein += rec.Protein
		day.Carbs += rec.Carbs
		day.Fats += rec.Fats
	}

	out := make([]DayIntake, 0, len(byDay))
	for _, day := range byDay {
		out = append(out, *day)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date < out[j].Date })
	return out
}
