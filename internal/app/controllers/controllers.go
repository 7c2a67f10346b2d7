package controllers

import (
	"fmt"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/yigit/gradplanner/internal/app/models"
	"github.com/yigit/gradplanner/internal/app/progress"
	"github.com/yigit/gradplanner/internal/middleware"
	"github.com/yigit/gradplanner/internal/pkg/apperrors"
)

// currentUserID returns the authenticated user or answers 401
func currentUserID(ctx *gin.Context) (string, bool) {
	userID, ok := middleware.GetUserID(ctx)
	if !ok {
		middleware.HandleAPIError(ctx, apperrors.ErrTokenInvalid)
		return "", false
	}
	return userID, true
}

// parseRecordFilter reads the status, category and search query parameters
func parseRecordFilter(ctx *gin.Context) (progress.RecordFilter, error) {
	filter := progress.RecordFilter{
		Status:   models.Status(strings.TrimSpace(ctx.Query("status"))),
		Category: models.Category(strings.TrimSpace(ctx.Query("category"))),
		Search:   ctx.Query("search"),
	}
	if filter.Status != "" && !filter.Status.IsValid() {
		return filter, fmt.Errorf("%w: unknown status %q", apperrors.ErrValidationFailed, filter.Status)
	}
	if filter.Category != "" && !filter.Category.IsValid() {
		return filter, fmt.Errorf("%w: unknown category %q", apperrors.ErrValidationFailed, filter.Category)
	}
	return filter, nil
}
