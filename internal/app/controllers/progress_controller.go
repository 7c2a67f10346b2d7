package controllers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/yigit/gradplanner/internal/app/models/dto"
	"github.com/yigit/gradplanner/internal/app/services"
	"github.com/yigit/gradplanner/internal/middleware"
)

// ProgressController serves the derived progress views
type ProgressController struct {
	progressService services.ProgressService
}

// NewProgressController creates a new ProgressController
func NewProgressController(progressService services.ProgressService) *ProgressController {
	return &ProgressController{
		progressService: progressService,
	}
}

// GetStats computes the user's degree progress
// @Summary Get progress stats
// @Description Credits per category with the caps applied, percentages, remaining credits and recommendations
// @Tags progress
// @Produce json
// @Security BearerAuth
// @Param curriculum query string false "Curriculum ID, defaults to the configured curriculum"
// @Success 200 {object} dto.APIResponse{data=models.Stats} "Stats computed"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized - Invalid or missing token"
// @Failure 404 {object} dto.ErrorResponse "Curriculum not found"
// @Router /progress/stats [get]
func (c *ProgressController) GetStats(ctx *gin.Context) {
	userID, ok := currentUserID(ctx)
	if !ok {
		return
	}

	stats, err := c.progressService.Stats(ctx, userID, ctx.Query("curriculum"))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data:      stats,
		Timestamp: time.Now(),
	})
}

// GetPrerequisiteWarnings lists records with missing prerequisites
// @Summary Get prerequisite warnings
// @Description Lists the user's records whose direct prerequisites are not all completed
// @Tags progress
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse{data=[]models.PrerequisiteWarning} "Warnings computed"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized - Invalid or missing token"
// @Router /progress/prerequisites [get]
func (c *ProgressController) GetPrerequisiteWarnings(ctx *gin.Context) {
	userID, ok := currentUserID(ctx)
	if !ok {
		return
	}

	warnings, err := c.progressService.Prerequisites(ctx, userID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data:      warnings,
		Timestamp: time.Now(),
	})
}

// CheckPrerequisites tells whether a course can be taken now
// @Summary Check a course's prerequisites
// @Description Reports whether every direct prerequisite of the course is completed. Codes outside the catalog are always satisfied.
// @Tags progress
// @Produce json
// @Security BearerAuth
// @Param code path string true "Course code"
// @Success 200 {object} dto.APIResponse{data=dto.PrerequisiteCheckResponse} "Check computed"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized - Invalid or missing token"
// @Router /progress/prerequisites/{code} [get]
func (c *ProgressController) CheckPrerequisites(ctx *gin.Context) {
	userID, ok := currentUserID(ctx)
	if !ok {
		return
	}

	check, err := c.progressService.Check(ctx, userID, ctx.Param("code"))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data: dto.PrerequisiteCheckResponse{
			Code:      check.Code,
			Satisfied: check.Satisfied,
			Missing:   check.Missing,
		},
		Timestamp: time.Now(),
	})
}

// GetAverageGrade returns the weighted average letter
// @Summary Get average grade
// @Description Credit-weighted average of the completed records with a known grade, or N/A
// @Tags progress
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse{data=dto.AverageGradeResponse} "Average computed"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized - Invalid or missing token"
// @Router /progress/average-grade [get]
func (c *ProgressController) GetAverageGrade(ctx *gin.Context) {
	userID, ok := currentUserID(ctx)
	if !ok {
		return
	}

	grade, err := c.progressService.AverageGrade(ctx, userID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data:      dto.AverageGradeResponse{Grade: grade},
		Timestamp: time.Now(),
	})
}

// GetTimeline groups the user's records by year and term
// @Summary Get timeline
// @Description Records grouped by year then term with per-term credit sums
// @Tags progress
// @Produce json
// @Security BearerAuth
// @Param status query string false "completed or planned"
// @Param category query string false "required, limited or free"
// @Param search query string false "Matched against code and name"
// @Success 200 {object} dto.APIResponse{data=[]models.YearGroup} "Timeline computed"
// @Failure 400 {object} dto.ErrorResponse "Invalid filter"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized - Invalid or missing token"
// @Router /progress/timeline [get]
func (c *ProgressController) GetTimeline(ctx *gin.Context) {
	userID, ok := currentUserID(ctx)
	if !ok {
		return
	}

	filter, err := parseRecordFilter(ctx)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	groups, err := c.progressService.Timeline(ctx, userID, filter)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data:      groups,
		Timestamp: time.Now(),
	})
}
