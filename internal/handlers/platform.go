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

type PlatformRequest struct {
	Name string `json:"name" binding:"required"`
	URL  string `json:"url"`
}

type PlatformResponse struct {
	ID   uint   `json:"id"`
	Name string `json:"name"`
	URL  string `json:"url"`
}

func ListPlatforms(ctx *gin.Context) {
	var platforms []models.Platform

	if err := db.DB.Order("id").Find(&platforms).Error; err != nil {
		logger.Log.Error("failed to list platforms", zap.Error(err))
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve platforms"})
		return
	}

	response := []PlatformResponse{}

	for _, platform := range platforms {
		response = append(response, PlatformResponse{
			ID:   platform.ID,
			Name: platform.Name,
			URL:  platform.URL,
		})
	}

	ctx.JSON(http.StatusOK, response)
}

func CreatePlatform(ctx *gin.Context) {
	var req PlatformRequest

	if err := ctx.BindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Platform name is required"})
		return
	}

	platform := models.Platform{Name: req.Name, URL: req.URL}

	if err := db.DB.Create(&platform).Error; err != nil {
		logger.Log.Error("failed to create platform", zap.Error(err))
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to add platform"})
		return
	}

	ctx.JSON(http.StatusCreated, PlatformResponse{
		ID:   platform.ID,
		Name: platform.Name,
		URL:  platform.URL,
	})
}

func UpdatePlatform(ctx *gin.Context) {
	platformID, err := utils.GetPlatformID(ctx)

	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var req PlatformRequest

	if err := ctx.BindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Platform name is required"})
		return
	}

	var platform models.Platform

	if err := db.DB.First(&platform, platformID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			ctx.JSON(http.StatusNotFound, gin.H{"error": "Platform not found"})
		} else {
			ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve platform"})
		}
		return
	}

	platform.Name = req.Name
	platform.URL = req.URL

	if err := db.DB.Save(&platform).Error; err != nil {
		logger.Log.Error("failed to update platform", zap.Error(err))
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update platform"})
		return
	}

	ctx.JSON(http.StatusOK, PlatformResponse{
		ID:   platform.ID,
		Name: platform.Name,
		URL:  platform.URL,
	})
}

// DeletePlatform removes the platform together with every application
// that references it, steps included. The cascade is explicit so the
// whole removal is one transaction.
func DeletePlatform(ctx *gin.Context) {
	platformID, err := utils.GetPlatformID(ctx)

	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	err = db.DB.Transaction(func(tx *gorm.DB) error {
		var platform models.Platform

		if err := tx.First(&platform, platformID).Error; err != nil {
			return err
		}

		var applicationIDs []uint

		if err := tx.Model(&models.Application{}).
			Where("platform_id = ?", platformID).
			Pluck("id", &applicationIDs).Error; err != nil {
			return err
		}

		if len(applicationIDs) > 0 {
			if err := tx.Where("application_id IN ?", applicationIDs).Delete(&models.Step{}).Error; err != nil {
				return err
			}

			if err := tx.Where("platform_id = ?", platformID).Delete(&models.Application{}).Error; err != nil {
				return err
			}
		}

		return tx.Delete(&platform).Error
	})

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			ctx.JSON(http.StatusNotFound, gin.H{"error": "Platform not found"})
			return
		}

		logger.Log.Error("failed to delete platform", zap.Error(err))
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete platform"})
		return
	}

	ctx.Status(http.StatusNoContent)
}

// CountPlatformApplications backs the confirmation dialog shown before a
// platform delete.
func CountPlatformApplications(ctx *gin.Context) {
	platformID, err := utils.GetPlatformID(ctx)

	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var count int64

	if err := db.DB.Model(&models.Application{}).
		Where("platform_id = ?", platformID).
		Count(&count).Error; err != nil {
		logger.Log.Error("failed to count platform applications", zap.Error(err))
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to count applications"})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"count": count})
}
