package database

import (
	"log"
	"time"

	"github.com/caltrack/caltrack/internal/models"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// SeedDevData populates the database with development test data.
// Idempotent: skips if data already exists.
func SeedDevData(db *gorm.DB) error {
	// Check if seed data already exists
	var existingUser models.User
	result := db.Where("email = ?", "dev@caltrack.local").First(&existingUser)
	if result.Error == nil {
		log.Println("Seed data already exists, skipping")
		return nil
	}

	user := models.User{
		Email: "dev@caltrack.local",
		Name:  "Dev User",
	}
	if err := db.Create(&user).Error; err != nil {
		return err
	}

	identity := models.AuthIdentity{
		UserID:         user.ID,
		Provider:       "google",
		ProviderUserID: "dev-google-id-12345",
		AccessToken:    "dev-access-token-placeholder",
		RefreshToken:   "dev-refresh-token-placeholder",
	}
	if err := db.Create(&identity).Error; err != nil {
		return err
	}

	profile := models.Profile{
		UserID:        user.ID,
		Name:          "Dev User",
		Age:           30,
		Gender:        "male",
		Height:        180,
		Weight:        80,
		TargetWeight:  75,
		ActivityLevel: models.ActivityModerate,
	}
	if err := db.Create(&profile).Error; err != nil {
		return err
	}

	today := time.Now().UTC()
	day := time.Date(today.Year(), today.Month(), today.Day(), 0, 0, 0, 0, time.UTC)

	goal := models.DailyGoal{
		UserID:   user.ID,
		Date:     day,
		Calories: 2259,
		Protein:  169,
		Carbs:    254,
		Fats:     63,
	}
	if err := db.Create(&goal).Error; err != nil {
		return err
	}

	intake := models.IntakeRecord{
		UserID:   user.ID,
		Date:     today,
		FoodName: "Greek yogurt with berries",
		Calories: 220,
		Protein:  18,
		Carbs:    24,
		Fats:     5,
	}
	if err := db.Create(&intake).Error; err != nil {
		return err
	}

	burned := models.DailyBurnedCalories{
		UserID:   user.ID,
		Date:     day,
		Activity: "Running",
		Calories: 300,
		Duration: 30,
	}
	if err := db.Create(&burned).Error; err != nil {
		return err
	}

	workout := models.Workout{
		UserID:    user.ID,
		Date:      today,
		Duration:  45,
		Calories:  350,
		Exercises: datatypes.JSON([]byte(`["Squats","Bench Press","Deadlift"]`)),
	}
	if err := db.Create(&workout).Error; err != nil {
		return err
	}

	entry := models.WeightEntry{
		ProfileID: profile.ID,
		Weight:    80,
		Date:      today,
	}
	if err := db.Create(&entry).Error; err != nil {
		return err
	}

	log.Println("Seed data created: dev@caltrack.local")
	return nil
}
