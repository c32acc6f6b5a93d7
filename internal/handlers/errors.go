package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jobtrail-dev/jobtrail/internal/cache"
	"github.com/jobtrail-dev/jobtrail/internal/logger"
	"github.com/jobtrail-dev/jobtrail/internal/pipeline"
	"go.uber.org/zap"
)

const dateLayout = "2006-01-02"

var dashboardCache *cache.DashboardCache

// SetDashboardCache wires the optional Redis cache into the handlers.
// A nil cache disables caching entirely.
func SetDashboardCache(c *cache.DashboardCache) {
	dashboardCache = c
}

func invalidateDashboard(ctx *gin.Context, userID uint) {
	dashboardCache.Invalidate(ctx.Request.Context(), userID)
}

func parseDate(value string) (time.Time, error) {
	return time.Parse(dateLayout, value)
}

// respondPipelineError translates the pipeline error taxonomy into HTTP
// responses. The pipeline itself never produces user-facing text.
func respondPipelineError(ctx *gin.Context, err error) {
	var integrityErr *pipeline.IntegrityError

	switch {
	case errors.Is(err, pipeline.ErrInvalid):
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, pipeline.ErrNotFound):
		ctx.JSON(http.StatusNotFound, gin.H{"error": "Not found or access denied"})
	case errors.As(err, &integrityErr):
		ctx.JSON(http.StatusConflict, gin.H{"error": "Referenced " + integrityErr.Reference + " does not exist"})
	default:
		logger.Log.Error("pipeline operation failed", zap.Error(err))
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
	}
}
