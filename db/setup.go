package db

import (
	"github.com/jobtrail-dev/jobtrail/internal/models"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

var DB *gorm.DB

func ConnectDatabase(dsn string) error {
	var err error

	DB, err = gorm.Open(postgres.Open(dsn), &gorm.Config{TranslateError: true})

	if err != nil {
		return err
	}

	return nil
}

func MigrateDatabase() error {
	models := []interface{}{
		&models.User{},
		&models.Platform{},
		&models.StepDefinition{},
		&models.FeedbackDefinition{},
		&models.Application{},
		&models.Step{},
	}

	migrator := DB.Migrator()

	for _, model := range models {
		if !migrator.HasTable(model) {
			if err := DB.AutoMigrate(model); err != nil {
				return err
			}
		}
	}

	return nil
}

// SeedDefinitions installs the default pipeline vocabulary on first boot.
// Ids 1, 6 and 7 are load-bearing: Applied anchors the funnel, Offer and
// Rejected are the terminal outcomes the dashboard counts.
func SeedDefinitions() error {
	var stepCount int64

	if err := DB.Model(&models.StepDefinition{}).Count(&stepCount).Error; err != nil {
		return err
	}

	if stepCount == 0 {
		steps := []models.StepDefinition{
			{ID: 1, Name: "Applied", Description: "Application submitted", Color: "#6c757d"},
			{ID: 2, Name: "HR Contact", Description: "First contact from HR", Color: "#0dcaf0"},
			{ID: 3, Name: "Phone Screen", Description: "Initial screening call", Color: "#0d6efd"},
			{ID: 4, Name: "Technical Interview", Description: "Technical assessment round", Color: "#6610f2"},
			{ID: 5, Name: "Final Interview", Description: "Final round with the team", Color: "#fd7e14"},
			{ID: 6, Name: "Offer", Description: "Offer received", Color: "#198754"},
			{ID: 7, Name: "Rejected", Description: "Application rejected", Color: "#dc3545"},
		}

		if err := DB.Create(&steps).Error; err != nil {
			return err
		}
	}

	var feedbackCount int64

	if err := DB.Model(&models.FeedbackDefinition{}).Count(&feedbackCount).Error; err != nil {
		return err
	}

	if feedbackCount == 0 {
		feedbacks := []models.FeedbackDefinition{
			{ID: 1, Name: "No Response", Description: "Never heard back", Color: "#6c757d"},
			{ID: 2, Name: "Accepted", Description: "Offer accepted", Color: "#198754"},
			{ID: 3, Name: "Declined Offer", Description: "Offer declined by candidate", Color: "#ffc107"},
			{ID: 4, Name: "Salary Mismatch", Description: "Compensation below expectations", Color: "#fd7e14"},
			{ID: 5, Name: "Skills Mismatch", Description: "Profile did not match the role", Color: "#dc3545"},
			{ID: 6, Name: "Position Filled", Description: "Role filled by another candidate", Color: "#0d6efd"},
		}

		if err := DB.Create(&feedbacks).Error; err != nil {
			return err
		}
	}

	return nil
}
