// Package pipeline owns the lifecycle of a job application: creation,
// step progression, finalization and deletion, plus the read-side
// dashboard aggregation. Every mutation runs in a single transaction so
// the step history and the cached last_step projection can never drift
// apart. Step progression is intentionally unvalidated: any step may
// follow any other, and a terminal step does not freeze the pipeline.
package pipeline

import (
	"errors"
	"time"

	"github.com/jobtrail-dev/jobtrail/db"
	"github.com/jobtrail-dev/jobtrail/internal/models"
	"gorm.io/gorm"
)

type CreateApplicationInput struct {
	Company         string
	Role            string
	ApplicationDate time.Time
	PlatformID      uint
	Mode            string
	ExpectedSalary  *float64
	SalaryRangeMin  *float64
	SalaryRangeMax  *float64
	Observation     string
}

type AppendStepInput struct {
	StepID      uint
	StepDate    time.Time
	Observation string
}

type FinalizeInput struct {
	FinalStepID  uint
	FeedbackID   uint
	FinalizeDate time.Time
	SalaryOffer  *float64
	Observation  string
}

type UpdateStepInput struct {
	StepID      uint
	StepDate    time.Time
	Observation string
}

func fetchOwned(tx *gorm.DB, applicationID, userID uint) (*models.Application, error) {
	var application models.Application

	err := tx.Where("id = ? AND user_id = ?", applicationID, userID).First(&application).Error

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}

	if err != nil {
		return nil, err
	}

	return &application, nil
}

func checkPlatform(tx *gorm.DB, platformID uint) error {
	var count int64

	if err := tx.Model(&models.Platform{}).Where("id = ?", platformID).Count(&count).Error; err != nil {
		return err
	}

	if count == 0 {
		return &IntegrityError{Reference: "platform"}
	}

	return nil
}

func checkStepDefinition(tx *gorm.DB, stepID uint) error {
	var count int64

	if err := tx.Model(&models.StepDefinition{}).Where("id = ?", stepID).Count(&count).Error; err != nil {
		return err
	}

	if count == 0 {
		return &IntegrityError{Reference: "step definition"}
	}

	return nil
}

func checkFeedbackDefinition(tx *gorm.DB, feedbackID uint) error {
	var count int64

	if err := tx.Model(&models.FeedbackDefinition{}).Where("id = ?", feedbackID).Count(&count).Error; err != nil {
		return err
	}

	if count == 0 {
		return &IntegrityError{Reference: "feedback definition"}
	}

	return nil
}

// CreateApplication inserts the application together with its initial
// "Applied" step. Both rows commit together or neither persists.
func CreateApplication(userID uint, in CreateApplicationInput) (*models.Application, error) {
	if in.Company == "" || in.Role == "" {
		return nil, invalidf("company and role are required")
	}

	if in.ApplicationDate.IsZero() {
		return nil, invalidf("application date is required")
	}

	if in.PlatformID == 0 {
		return nil, invalidf("platform is required")
	}

	application := models.Application{
		UserID:          userID,
		Company:         in.Company,
		Role:            in.Role,
		ApplicationDate: in.ApplicationDate,
		PlatformID:      in.PlatformID,
		Mode:            in.Mode,
		ExpectedSalary:  in.ExpectedSalary,
		SalaryRangeMin:  in.SalaryRangeMin,
		SalaryRangeMax:  in.SalaryRangeMax,
		Observation:     in.Observation,
		LastStep:        models.StepApplied,
		LastStepDate:    in.ApplicationDate,
	}

	err := db.DB.Transaction(func(tx *gorm.DB) error {
		if err := checkPlatform(tx, in.PlatformID); err != nil {
			return err
		}

		if err := tx.Create(&application).Error; err != nil {
			return err
		}

		step := models.Step{
			ApplicationID: application.ID,
			StepID:        models.StepApplied,
			StepDate:      in.ApplicationDate,
		}

		return tx.Create(&step).Error
	})

	if err != nil {
		return nil, classify("create application", err)
	}

	return &application, nil
}

// AppendStep records one pipeline transition and advances the
// application's last_step projection in the same transaction.
func AppendStep(userID, applicationID uint, in AppendStepInput) error {
	if in.StepID == 0 {
		return invalidf("step is required")
	}

	if in.StepDate.IsZero() {
		return invalidf("step date is required")
	}

	err := db.DB.Transaction(func(tx *gorm.DB) error {
		if _, err := fetchOwned(tx, applicationID, userID); err != nil {
			return err
		}

		if err := checkStepDefinition(tx, in.StepID); err != nil {
			return err
		}

		step := models.Step{
			ApplicationID: applicationID,
			StepID:        in.StepID,
			StepDate:      in.StepDate,
			Observation:   in.Observation,
		}

		if err := tx.Create(&step).Error; err != nil {
			return err
		}

		return tx.Model(&models.Application{}).
			Where("id = ? AND user_id = ?", applicationID, userID).
			Updates(map[string]interface{}{
				"last_step":      in.StepID,
				"last_step_date": in.StepDate,
			}).Error
	})

	return classify("append step", err)
}

// FinalizeApplication records the terminal step together with the
// feedback outcome. A nil SalaryOffer leaves any stored offer untouched.
func FinalizeApplication(userID, applicationID uint, in FinalizeInput) error {
	if in.FinalStepID == 0 {
		return invalidf("final step is required")
	}

	if in.FeedbackID == 0 {
		return invalidf("feedback is required")
	}

	if in.FinalizeDate.IsZero() {
		return invalidf("finalize date is required")
	}

	err := db.DB.Transaction(func(tx *gorm.DB) error {
		if _, err := fetchOwned(tx, applicationID, userID); err != nil {
			return err
		}

		if err := checkStepDefinition(tx, in.FinalStepID); err != nil {
			return err
		}

		if err := checkFeedbackDefinition(tx, in.FeedbackID); err != nil {
			return err
		}

		step := models.Step{
			ApplicationID: applicationID,
			StepID:        in.FinalStepID,
			StepDate:      in.FinalizeDate,
			Observation:   in.Observation,
		}

		if err := tx.Create(&step).Error; err != nil {
			return err
		}

		updates := map[string]interface{}{
			"last_step":      in.FinalStepID,
			"last_step_date": in.FinalizeDate,
			"feedback_id":    in.FeedbackID,
			"feedback_date":  in.FinalizeDate,
		}

		if in.SalaryOffer != nil {
			updates["salary_offer"] = *in.SalaryOffer
		}

		return tx.Model(&models.Application{}).
			Where("id = ? AND user_id = ?", applicationID, userID).
			Updates(updates).Error
	})

	return classify("finalize application", err)
}

// UpdateApplication performs a whole-row update of the editable fields.
// It carries no field-level validation beyond the platform reference,
// matching the permissive edit form it backs.
func UpdateApplication(userID, applicationID uint, in CreateApplicationInput) error {
	err := db.DB.Transaction(func(tx *gorm.DB) error {
		if in.PlatformID != 0 {
			if err := checkPlatform(tx, in.PlatformID); err != nil {
				return err
			}
		}

		res := tx.Model(&models.Application{}).
			Where("id = ? AND user_id = ?", applicationID, userID).
			Updates(map[string]interface{}{
				"company":          in.Company,
				"role":             in.Role,
				"application_date": in.ApplicationDate,
				"platform_id":      in.PlatformID,
				"mode":             in.Mode,
				"expected_salary":  in.ExpectedSalary,
				"salary_range_min": in.SalaryRangeMin,
				"salary_range_max": in.SalaryRangeMax,
				"observation":      in.Observation,
			})

		if res.Error != nil {
			return res.Error
		}

		if res.RowsAffected == 0 {
			return ErrNotFound
		}

		return nil
	})

	return classify("update application", err)
}

// DeleteApplication removes the application and its whole step history.
func DeleteApplication(userID, applicationID uint) error {
	err := db.DB.Transaction(func(tx *gorm.DB) error {
		if _, err := fetchOwned(tx, applicationID, userID); err != nil {
			return err
		}

		if err := tx.Where("application_id = ?", applicationID).Delete(&models.Step{}).Error; err != nil {
			return err
		}

		return tx.Where("id = ? AND user_id = ?", applicationID, userID).
			Delete(&models.Application{}).Error
	})

	return classify("delete application", err)
}

// UpdateStep edits one historical step row. Ownership is verified
// through the parent application, never trusted from the step row.
// The last_step projection is left alone, matching the edit semantics
// of the step history view.
func UpdateStep(userID, applicationID, stepRowID uint, in UpdateStepInput) error {
	if in.StepID == 0 {
		return invalidf("step is required")
	}

	if in.StepDate.IsZero() {
		return invalidf("step date is required")
	}

	err := db.DB.Transaction(func(tx *gorm.DB) error {
		if _, err := fetchOwned(tx, applicationID, userID); err != nil {
			return err
		}

		if err := checkStepDefinition(tx, in.StepID); err != nil {
			return err
		}

		res := tx.Model(&models.Step{}).
			Where("id = ? AND application_id = ?", stepRowID, applicationID).
			Updates(map[string]interface{}{
				"step_id":     in.StepID,
				"step_date":   in.StepDate,
				"observation": in.Observation,
			})

		if res.Error != nil {
			return res.Error
		}

		if res.RowsAffected == 0 {
			return ErrNotFound
		}

		return nil
	})

	return classify("update step", err)
}

// DeleteStep removes one historical step row, ownership verified
// through the parent application.
func DeleteStep(userID, applicationID, stepRowID uint) error {
	err := db.DB.Transaction(func(tx *gorm.DB) error {
		if _, err := fetchOwned(tx, applicationID, userID); err != nil {
			return err
		}

		res := tx.Where("id = ? AND application_id = ?", stepRowID, applicationID).
			Delete(&models.Step{})

		if res.Error != nil {
			return res.Error
		}

		if res.RowsAffected == 0 {
			return ErrNotFound
		}

		return nil
	})

	return classify("delete step", err)
}
