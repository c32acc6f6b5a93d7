package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/jobtrail-dev/jobtrail/db"
	"github.com/jobtrail-dev/jobtrail/internal/logger"
	"github.com/jobtrail-dev/jobtrail/internal/models"
	"github.com/jobtrail-dev/jobtrail/internal/pipeline"
	"github.com/jobtrail-dev/jobtrail/internal/utils"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type CreateApplicationRequest struct {
	Company         string   `json:"company" binding:"required"`
	Role            string   `json:"role" binding:"required"`
	ApplicationDate string   `json:"application_date" binding:"required"`
	PlatformID      uint     `json:"platform_id" binding:"required"`
	Mode            string   `json:"mode"`
	ExpectedSalary  *float64 `json:"expected_salary"`
	SalaryRangeMin  *float64 `json:"salary_range_min"`
	SalaryRangeMax  *float64 `json:"salary_range_max"`
	Observation     string   `json:"observation"`
}

// UpdateApplicationRequest deliberately carries no binding constraints:
// the edit form submits whatever combination of fields it holds.
type UpdateApplicationRequest struct {
	Company         string   `json:"company"`
	Role            string   `json:"role"`
	ApplicationDate string   `json:"application_date"`
	PlatformID      uint     `json:"platform_id"`
	Mode            string   `json:"mode"`
	ExpectedSalary  *float64 `json:"expected_salary"`
	SalaryRangeMin  *float64 `json:"salary_range_min"`
	SalaryRangeMax  *float64 `json:"salary_range_max"`
	Observation     string   `json:"observation"`
}

type AppendStepRequest struct {
	StepID      uint   `json:"step_id" binding:"required"`
	StepDate    string `json:"step_date" binding:"required"`
	Observation string `json:"observation"`
}

type FinalizeRequest struct {
	FinalStepID  uint     `json:"final_step_id" binding:"required"`
	FeedbackID   uint     `json:"feedback_id" binding:"required"`
	FinalizeDate string   `json:"finalize_date" binding:"required"`
	SalaryOffer  *float64 `json:"salary_offer"`
	Observation  string   `json:"observation"`
}

type StepSummary struct {
	ID          uint   `json:"id"`
	StepID      uint   `json:"step_id"`
	Name        string `json:"step_name"`
	Color       string `json:"step_color"`
	StepDate    string `json:"step_date"`
	Observation string `json:"observation,omitempty"`
}

type ApplicationSummary struct {
	ID              uint          `json:"id"`
	Company         string        `json:"company"`
	Role            string        `json:"role"`
	ApplicationDate string        `json:"application_date"`
	PlatformID      uint          `json:"platform_id"`
	PlatformName    string        `json:"platform_name"`
	Mode            string        `json:"mode"`
	ExpectedSalary  *float64      `json:"expected_salary"`
	SalaryRangeMin  *float64      `json:"salary_range_min"`
	SalaryRangeMax  *float64      `json:"salary_range_max"`
	SalaryOffer     *float64      `json:"salary_offer"`
	Observation     string        `json:"observation,omitempty"`
	LastStep        uint          `json:"last_step"`
	LastStepName    string        `json:"last_step_name"`
	LastStepColor   string        `json:"last_step_color"`
	LastStepDate    string        `json:"last_step_date"`
	FeedbackID      *uint         `json:"feedback_id"`
	FeedbackName    string        `json:"feedback_name,omitempty"`
	FeedbackColor   string        `json:"feedback_color,omitempty"`
	FeedbackDate    string        `json:"feedback_date,omitempty"`
	Steps           []StepSummary `json:"steps"`
}

func buildApplicationSummary(application models.Application) ApplicationSummary {
	summary := ApplicationSummary{
		ID:              application.ID,
		Company:         application.Company,
		Role:            application.Role,
		ApplicationDate: application.ApplicationDate.Format(dateLayout),
		PlatformID:      application.PlatformID,
		PlatformName:    application.Platform.Name,
		Mode:            application.Mode,
		ExpectedSalary:  application.ExpectedSalary,
		SalaryRangeMin:  application.SalaryRangeMin,
		SalaryRangeMax:  application.SalaryRangeMax,
		SalaryOffer:     application.SalaryOffer,
		Observation:     application.Observation,
		LastStep:        application.LastStep,
		LastStepName:    application.LastStepDefinition.Name,
		LastStepColor:   application.LastStepDefinition.Color,
		LastStepDate:    application.LastStepDate.Format(dateLayout),
		FeedbackID:      application.FeedbackID,
		Steps:           []StepSummary{},
	}

	if application.Feedback != nil {
		summary.FeedbackName = application.Feedback.Name
		summary.FeedbackColor = application.Feedback.Color
	}

	if application.FeedbackDate != nil {
		summary.FeedbackDate = application.FeedbackDate.Format(dateLayout)
	}

	for _, step := range application.Steps {
		summary.Steps = append(summary.Steps, StepSummary{
			ID:          step.ID,
			StepID:      step.StepID,
			Name:        step.Definition.Name,
			Color:       step.Definition.Color,
			StepDate:    step.StepDate.Format(dateLayout),
			Observation: step.Observation,
		})
	}

	return summary
}

func ListApplications(ctx *gin.Context) {
	userID, err := utils.GetCurrentUserID(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	var applications []models.Application

	err = db.DB.Where("user_id = ?", userID).
		Preload("Platform").
		Preload("LastStepDefinition").
		Preload("Feedback").
		Preload("Steps", func(tx *gorm.DB) *gorm.DB { return tx.Order("step_date ASC") }).
		Preload("Steps.Definition").
		Order("application_date DESC").
		Find(&applications).Error

	if err != nil {
		logger.Log.Error("failed to list applications", zap.Error(err))
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve applications"})
		return
	}

	response := []ApplicationSummary{}

	for _, application := range applications {
		response = append(response, buildApplicationSummary(application))
	}

	ctx.JSON(http.StatusOK, response)
}

func CreateApplication(ctx *gin.Context) {
	userID, err := utils.GetCurrentUserID(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	var req CreateApplicationRequest

	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Please fill in all required fields"})
		return
	}

	applicationDate, err := parseDate(req.ApplicationDate)

	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid application date"})
		return
	}

	application, err := pipeline.CreateApplication(userID, pipeline.CreateApplicationInput{
		Company:         req.Company,
		Role:            req.Role,
		ApplicationDate: applicationDate,
		PlatformID:      req.PlatformID,
		Mode:            req.Mode,
		ExpectedSalary:  req.ExpectedSalary,
		SalaryRangeMin:  req.SalaryRangeMin,
		SalaryRangeMax:  req.SalaryRangeMax,
		Observation:     req.Observation,
	})

	if err != nil {
		respondPipelineError(ctx, err)
		return
	}

	invalidateDashboard(ctx, userID)

	ctx.JSON(http.StatusCreated, gin.H{
		"message":        "Application added successfully",
		"application_id": application.ID,
	})
}

func UpdateApplication(ctx *gin.Context) {
	userID, err := utils.GetCurrentUserID(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	applicationID, err := utils.GetApplicationID(ctx)

	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var req UpdateApplicationRequest

	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	applicationDate, err := parseDate(req.ApplicationDate)

	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid application date"})
		return
	}

	err = pipeline.UpdateApplication(userID, applicationID, pipeline.CreateApplicationInput{
		Company:         req.Company,
		Role:            req.Role,
		ApplicationDate: applicationDate,
		PlatformID:      req.PlatformID,
		Mode:            req.Mode,
		ExpectedSalary:  req.ExpectedSalary,
		SalaryRangeMin:  req.SalaryRangeMin,
		SalaryRangeMax:  req.SalaryRangeMax,
		Observation:     req.Observation,
	})

	if err != nil {
		respondPipelineError(ctx, err)
		return
	}

	invalidateDashboard(ctx, userID)

	ctx.JSON(http.StatusOK, gin.H{"message": "Application updated successfully"})
}

func DeleteApplication(ctx *gin.Context) {
	userID, err := utils.GetCurrentUserID(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	applicationID, err := utils.GetApplicationID(ctx)

	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := pipeline.DeleteApplication(userID, applicationID); err != nil {
		respondPipelineError(ctx, err)
		return
	}

	invalidateDashboard(ctx, userID)

	ctx.Status(http.StatusNoContent)
}

func AppendStep(ctx *gin.Context) {
	userID, err := utils.GetCurrentUserID(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	applicationID, err := utils.GetApplicationID(ctx)

	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var req AppendStepRequest

	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Please fill in all required fields"})
		return
	}

	stepDate, err := parseDate(req.StepDate)

	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid step date"})
		return
	}

	err = pipeline.AppendStep(userID, applicationID, pipeline.AppendStepInput{
		StepID:      req.StepID,
		StepDate:    stepDate,
		Observation: req.Observation,
	})

	if err != nil {
		respondPipelineError(ctx, err)
		return
	}

	invalidateDashboard(ctx, userID)

	ctx.JSON(http.StatusCreated, gin.H{"message": "Step added successfully"})
}

func FinalizeApplication(ctx *gin.Context) {
	userID, err := utils.GetCurrentUserID(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	applicationID, err := utils.GetApplicationID(ctx)

	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var req FinalizeRequest

	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Please fill in all required fields"})
		return
	}

	finalizeDate, err := parseDate(req.FinalizeDate)

	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid finalize date"})
		return
	}

	err = pipeline.FinalizeApplication(userID, applicationID, pipeline.FinalizeInput{
		FinalStepID:  req.FinalStepID,
		FeedbackID:   req.FeedbackID,
		FinalizeDate: finalizeDate,
		SalaryOffer:  req.SalaryOffer,
		Observation:  req.Observation,
	})

	if err != nil {
		respondPipelineError(ctx, err)
		return
	}

	invalidateDashboard(ctx, userID)

	ctx.JSON(http.StatusOK, gin.H{"message": "Application finalized successfully"})
}

func UpdateStep(ctx *gin.Context) {
	userID, err := utils.GetCurrentUserID(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	applicationID, stepRowID, err := utils.GetApplicationStepID(ctx)

	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var req AppendStepRequest

	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Please fill in all required fields"})
		return
	}

	stepDate, err := parseDate(req.StepDate)

	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid step date"})
		return
	}

	err = pipeline.UpdateStep(userID, applicationID, stepRowID, pipeline.UpdateStepInput{
		StepID:      req.StepID,
		StepDate:    stepDate,
		Observation: req.Observation,
	})

	if err != nil {
		respondPipelineError(ctx, err)
		return
	}

	invalidateDashboard(ctx, userID)

	ctx.JSON(http.StatusOK, gin.H{"message": "Step updated successfully"})
}

func DeleteStep(ctx *gin.Context) {
	userID, err := utils.GetCurrentUserID(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	applicationID, stepRowID, err := utils.GetApplicationStepID(ctx)

	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := pipeline.DeleteStep(userID, applicationID, stepRowID); err != nil {
		respondPipelineError(ctx, err)
		return
	}

	invalidateDashboard(ctx, userID)

	ctx.Status(http.StatusNoContent)
}
