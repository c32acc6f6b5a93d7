package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/jobtrail-dev/jobtrail/internal/pipeline"
	"github.com/jobtrail-dev/jobtrail/internal/utils"
)

func GetDashboard(ctx *gin.Context) {
	userID, err := utils.GetCurrentUserID(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	if payload, ok := dashboardCache.Get(ctx.Request.Context(), userID); ok {
		ctx.Data(http.StatusOK, "application/json; charset=utf-8", payload)
		return
	}

	metrics, err := pipeline.Dashboard(userID)

	if err != nil {
		respondPipelineError(ctx, err)
		return
	}

	payload, err := json.Marshal(metrics)

	if err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	dashboardCache.Set(ctx.Request.Context(), userID, payload)

	ctx.Data(http.StatusOK, "application/json; charset=utf-8", payload)
}
