package goals

import (
	"fmt"
	"math"
)

// CaloriesPerKg is the energy equivalent of one kilogram of body weight used
// to convert a weight delta into a total calorie budget.
const CaloriesPerKg = 7700

// Macro split ratios over the daily calorie target.
const (
	proteinRatio = 0.30
	carbRatio    = 0.45
	fatRatio     = 0.25

	proteinCalPerGram = 4
	carbCalPerGram    = 4
	fatCalPerGram     = 9
)

// PlannerMultipliers maps profile activity levels to their TDEE multiplier.
// This is the single source of truth for valid activity levels in the goal
// planner — also referenced by the profile request schema.
var PlannerMultipliers = map[string]float64{
	"sedentary":  1.2,
	"light":      1.375,
	"moderate":   1.55,
	"active":     1.725,
	"veryActive": 1.9,
}

// BMR computes Basal Metabolic Rate via Mifflin-St Jeor. The constant term
// differs by gender: +5 for male, -161 for female.
func BMR(gender string, weightKG, heightCM float64, age int) float64 {
	base := 10*weightKG + 6.25*heightCM - 5*float64(age)
	if gender == "male" {
		return base + 5
	}
	return base - 161
}

// TDEE is Total Daily Energy Expenditure: BMR scaled by activity level.
func TDEE(bmr, multiplier float64) float64 {
	return bmr * multiplier
}

// PlanInput is the validated input to the goal planner. Height is in cm,
// weights in kg, DailyChange the kcal magnitude of the daily surplus or
// deficit.
type PlanInput struct {
	Gender        string  `json:"gender"`
	Age           int     `json:"age"`
	Height        float64 `json:"height"`
	CurrentWeight float64 `json:"currentWeight"`
	TargetWeight  float64 `json:"targetWeight"`
	ActivityLevel string  `json:"activityLevel"`
	DailyChange   float64 `json:"dailyChange"`
	Goal          string  `json:"goal"` // "gain" or "lose"
}

// Plan is the planner output: energy numbers, the time estimate, and the
// daily calorie/macro target derived from them.
type Plan struct {
	BMR                 float64 `json:"bmr"`
	TDEE                float64 `json:"tdee"`
	KgChange            float64 `json:"kgChange"`
	TotalCaloriesNeeded float64 `json:"totalCaloriesNeeded"`
	DailyCalories       float64 `json:"dailyCaloriesToEat"`
	EstimatedDays       int     `json:"estimatedDays"`
	EstimatedWeeks      float64 `json:"estimatedWeeks"`
	Calories            int     `json:"calories"`
	Protein             int     `json:"protein"`
	Carbs               int     `json:"carbs"`
	Fats                int     `json:"fats"`
}

// PlanGoal converts body metrics and a desired rate of change into a daily
// calorie and macro target. Deterministic and pure; persistence of the
// resulting DailyGoal is the caller's concern.
func PlanGoal(in PlanInput) (Plan, error) {
	multiplier, ok := PlannerMultipliers[in.ActivityLevel]
	if !ok {
		return Plan{}, fmt.Errorf("unknown activity level %q", in.ActivityLevel)
	}
	if in.DailyChange == 0 {
		return Plan{}, fmt.Errorf("dailyChange must be non-zero")
	}

	bmr := BMR(in.Gender, in.CurrentWeight, in.Height, in.Age)
	tdee := TDEE(bmr, multiplier)

	kgChange := in.CurrentWeight - in.TargetWeight
	if in.Goal == "gain" {
		kgChange = in.TargetWeight - in.CurrentWeight
	}

	totalCalories := math.Abs(kgChange) * CaloriesPerKg
	days := int(math.Ceil(totalCalories / math.Abs(in.DailyChange)))

	daily := tdee - math.Abs(in.DailyChange)
	if in.Goal == "gain" {
		daily = tdee + math.Abs(in.DailyChange)
	}

	protein, carbs, fats := MacroSplit(daily)

	return Plan{
		BMR:                 bmr,
		TDEE:                tdee,
		KgChange:            kgChange,
		TotalCaloriesNeeded: totalCalories,
		DailyCalories:       daily,
		EstimatedDays:       days,
		EstimatedWeeks:      float64(days) / 7,
		Calories:            int(math.Round(daily)),
		Protein:             protein,
		Carbs:               carbs,
		Fats:                fats,
	}, nil
}

// MacroSplit divides a daily calorie target into macro grams using the fixed
// 30/45/25 ratio over 4/4/9 kcal per gram, each rounded to the nearest gram.
func MacroSplit(calories float64) (protein, carbs, fats int) {
	protein = int(math.Round(calories * proteinRatio / proteinCalPerGram))
	carbs = int(math.Round(calories * carbRatio / carbCalPerGram))
	fats = int(math.Round(calories * fatRatio / fatCalPerGram))
	return protein, carbs, fats
}

// QuickCalories is the simpler daily-calorie-only estimate surfaced by the
// quick calculator. It deliberately uses a different BMR approximation and
// hyphenated activity keys; do not unify it with the goal planner — the two
// entry points are distinct product features and their results differ.
func QuickCalories(age int, weightKG, heightCM float64, activityLevel string) int {
	bmr := 66 + 13.7*weightKG + 5*heightCM - 6.8*float64(age)

	multiplier := 1.2
	switch activityLevel {
	case "light":
		multiplier = 1.375
	case "moderate":
		multiplier = 1.55
	case "active":
		multiplier = 1.725
	case "very-active":
		multiplier = 1.9
	}

	return int(math.Round(bmr * multiplier))
}
