package controllers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/yigit/gradplanner/internal/app/models/dto"
)

// Pinger reports whether a backing service answers
type Pinger interface {
	Ping(ctx context.Context) error
}

// HealthController reports the state of the service and its database
type HealthController struct {
	db Pinger
}

// NewHealthController creates a new HealthController
func NewHealthController(db Pinger) *HealthController {
	return &HealthController{db: db}
}

// Health reports service health
// @Summary Health check
// @Tags health
// @Produce json
// @Success 200 {object} dto.APIResponse "Service healthy"
// @Failure 503 {object} dto.ErrorResponse "Database unreachable"
// @Router /health [get]
func (c *HealthController) Health(ctx *gin.Context) {
	pingCtx, cancel := context.WithTimeout(ctx.Request.Context(), 2*time.Second)
	defer cancel()

	if err := c.db.Ping(pingCtx); err != nil {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeDatabaseError, "Database unreachable")
		errorDetail = errorDetail.WithSeverity(dto.ErrorSeverityCritical)
		ctx.JSON(http.StatusServiceUnavailable, dto.NewErrorResponse(errorDetail))
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data:      gin.H{"status": "ok"},
		Timestamp: time.Now(),
	})
}
