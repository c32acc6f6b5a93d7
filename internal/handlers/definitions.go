package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/jobtrail-dev/jobtrail/db"
	"github.com/jobtrail-dev/jobtrail/internal/logger"
	"github.com/jobtrail-dev/jobtrail/internal/models"
	"github.com/jobtrail-dev/jobtrail/internal/utils"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type DefinitionRequest struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
	Color       string `json:"color"`
}

type DefinitionResponse struct {
	ID          uint   `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Color       string `json:"color"`
}

func ListStepDefinitions(ctx *gin.Context) {
	var definitions []models.StepDefinition

	if err := db.DB.Order("id").Find(&definitions).Error; err != nil {
		logger.Log.Error("failed to list step definitions", zap.Error(err))
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve step definitions"})
		return
	}

	response := []DefinitionResponse{}

	for _, definition := range definitions {
		response = append(response, DefinitionResponse{
			ID:          definition.ID,
			Name:        definition.Name,
			Description: definition.Description,
			Color:       definition.Color,
		})
	}

	ctx.JSON(http.StatusOK, response)
}

func CreateStepDefinition(ctx *gin.Context) {
	var req DefinitionRequest

	if err := ctx.BindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Definition name is required"})
		return
	}

	definition := models.StepDefinition{
		Name:        req.Name,
		Description: req.Description,
		Color:       req.Color,
	}

	if err := db.DB.Create(&definition).Error; err != nil {
		logger.Log.Error("failed to create step definition", zap.Error(err))
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to add definition"})
		return
	}

	ctx.JSON(http.StatusCreated, DefinitionResponse{
		ID:          definition.ID,
		Name:        definition.Name,
		Description: definition.Description,
		Color:       definition.Color,
	})
}

func UpdateStepDefinition(ctx *gin.Context) {
	definitionID, err := utils.GetDefinitionID(ctx)

	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var req DefinitionRequest

	if err := ctx.BindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Definition name is required"})
		return
	}

	var definition models.StepDefinition

	if err := db.DB.First(&definition, definitionID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			ctx.JSON(http.StatusNotFound, gin.H{"error": "Definition not found"})
		} else {
			ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve definition"})
		}
		return
	}

	definition.Name = req.Name
	definition.Description = req.Description
	definition.Color = req.Color

	if err := db.DB.Save(&definition).Error; err != nil {
		logger.Log.Error("failed to update step definition", zap.Error(err))
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update definition"})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"message": "Step definition updated successfully"})
}

// DeleteStepDefinition removes the definition together with every
// application whose pipeline ever recorded it, mirroring the settings
// screen's destructive confirmation.
func DeleteStepDefinition(ctx *gin.Context) {
	definitionID, err := utils.GetDefinitionID(ctx)

	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	err = db.DB.Transaction(func(tx *gorm.DB) error {
		var definition models.StepDefinition

		if err := tx.First(&definition, definitionID).Error; err != nil {
			return err
		}

		var applicationIDs []uint

		if err := tx.Model(&models.Step{}).
			Where("step_id = ?", definitionID).
			Distinct("application_id").
			Pluck("application_id", &applicationIDs).Error; err != nil {
			return err
		}

		if len(applicationIDs) > 0 {
			if err := tx.Where("application_id IN ?", applicationIDs).Delete(&models.Step{}).Error; err != nil {
				return err
			}

			if err := tx.Where("id IN ?", applicationIDs).Delete(&models.Application{}).Error; err != nil {
				return err
			}
		}

		return tx.Delete(&definition).Error
	})

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			ctx.JSON(http.StatusNotFound, gin.H{"error": "Definition not found"})
			return
		}

		logger.Log.Error("failed to delete step definition", zap.Error(err))
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete definition"})
		return
	}

	ctx.Status(http.StatusNoContent)
}

func CountStepDefinitionApplications(ctx *gin.Context) {
	definitionID, err := utils.GetDefinitionID(ctx)

	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var count int64

	if err := db.DB.Model(&models.Step{}).
		Where("step_id = ?", definitionID).
		Distinct("application_id").
		Count(&count).Error; err != nil {
		logger.Log.Error("failed to count step definition usage", zap.Error(err))
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to count applications"})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"count": count})
}

func ListFeedbackDefinitions(ctx *gin.Context) {
	var definitions []models.FeedbackDefinition

	if err := db.DB.Order("id").Find(&definitions).Error; err != nil {
		logger.Log.Error("failed to list feedback definitions", zap.Error(err))
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve feedback definitions"})
		return
	}

	response := []DefinitionResponse{}

	for _, definition := range definitions {
		response = append(response, DefinitionResponse{
			ID:          definition.ID,
			Name:        definition.Name,
			Description: definition.Description,
			Color:       definition.Color,
		})
	}

	ctx.JSON(http.StatusOK, response)
}

func CreateFeedbackDefinition(ctx *gin.Context) {
	var req DefinitionRequest

	if err := ctx.BindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Definition name is required"})
		return
	}

	definition := models.FeedbackDefinition{
		Name:        req.Name,
		Description: req.Description,
		Color:       req.Color,
	}

	if err := db.DB.Create(&definition).Error; err != nil {
		logger.Log.Error("failed to create feedback definition", zap.Error(err))
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to add definition"})
		return
	}

	ctx.JSON(http.StatusCreated, DefinitionResponse{
		ID:          definition.ID,
		Name:        definition.Name,
		Description: definition.Description,
		Color:       definition.Color,
	})
}

func UpdateFeedbackDefinition(ctx *gin.Context) {
	definitionID, err := utils.GetDefinitionID(ctx)

	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var req DefinitionRequest

	if err := ctx.BindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Definition name is required"})
		return
	}

	var definition models.FeedbackDefinition

	if err := db.DB.First(&definition, definitionID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			ctx.JSON(http.StatusNotFound, gin.H{"error": "Definition not found"})
		} else {
			ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve definition"})
		}
		return
	}

	definition.Name = req.Name
	definition.Description = req.Description
	definition.Color = req.Color

	if err := db.DB.Save(&definition).Error; err != nil {
		logger.Log.Error("failed to update feedback definition", zap.Error(err))
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update definition"})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"message": "Feedback definition updated successfully"})
}

// DeleteFeedbackDefinition removes the definition and every application
// finalized with it, steps included.
func DeleteFeedbackDefinition(ctx *gin.Context) {
	definitionID, err := utils.GetDefinitionID(ctx)

	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	err = db.DB.Transaction(func(tx *gorm.DB) error {
		var definition models.FeedbackDefinition

		if err := tx.First(&definition, definitionID).Error; err != nil {
			return err
		}

		var applicationIDs []uint

		if err := tx.Model(&models.Application{}).
			Where("feedback_id = ?", definitionID).
			Pluck("id", &applicationIDs).Error; err != nil {
			return err
		}

		if len(applicationIDs) > 0 {
			if err := tx.Where("application_id IN ?", applicationIDs).Delete(&models.Step{}).Error; err != nil {
				return err
			}

			if err := tx.Where("id IN ?", applicationIDs).Delete(&models.Application{}).Error; err != nil {
				return err
			}
		}

		return tx.Delete(&definition).Error
	})

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			ctx.JSON(http.StatusNotFound, gin.H{"error": "Definition not found"})
			return
		}

		logger.Log.Error("failed to delete feedback definition", zap.Error(err))
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete definition"})
		return
	}

	ctx.Status(http.StatusNoContent)
}

func CountFeedbackDefinitionApplications(ctx *gin.Context) {
	definitionID, err := utils.GetDefinitionID(ctx)

	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var count int64

	if err := db.DB.Model(&models.Application{}).
		Where("feedback_id = ?", definitionID).
		Count(&count).Error; err != nil {
		logger.Log.Error("failed to count feedback definition usage", zap.Error(err))
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to count applications"})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"count": count})
}
