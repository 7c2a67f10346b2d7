package controllers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/yigit/gradplanner/internal/app/models/dto"
	"github.com/yigit/gradplanner/internal/app/progress"
	"github.com/yigit/gradplanner/internal/app/services"
	"github.com/yigit/gradplanner/internal/middleware"
)

// CourseRecordController handles the records of the authenticated user
type CourseRecordController struct {
	recordService services.CourseRecordService
}

// NewCourseRecordController creates a new CourseRecordController
func NewCourseRecordController(recordService services.CourseRecordService) *CourseRecordController {
	return &CourseRecordController{
		recordService: recordService,
	}
}

// ListRecords retrieves the user's records
// @Summary List course records
// @Description Returns the user's records ordered by period, optionally filtered
// @Tags records
// @Produce json
// @Security BearerAuth
// @Param status query string false "completed or planned"
// @Param category query string false "required, limited or free"
// @Param search query string false "Matched against code and name"
// @Success 200 {object} dto.APIResponse{data=[]models.CourseRecord} "Records retrieved successfully"
// @Failure 400 {object} dto.ErrorResponse "Invalid filter"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized - Invalid or missing token"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /records [get]
func (c *CourseRecordController) ListRecords(ctx *gin.Context) {
	userID, ok := currentUserID(ctx)
	if !ok {
		return
	}

	filter, err := parseRecordFilter(ctx)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	records, err := c.recordService.List(ctx, userID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data:      progress.Filter(records, filter),
		Timestamp: time.Now(),
	})
}

// CreateRecord adds a record
// @Summary Add a course record
// @Description Adds a completed or planned course. Name and credits are taken from the catalog when omitted.
// @Tags records
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.CreateCourseRecordRequest true "Record information"
// @Success 201 {object} dto.APIResponse{data=models.CourseRecord} "Record created successfully"
// @Failure 400 {object} dto.ErrorResponse "Invalid request data"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized - Invalid or missing token"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /records [post]
func (c *CourseRecordController) CreateRecord(ctx *gin.Context) {
	userID, ok := currentUserID(ctx)
	if !ok {
		return
	}

	var req dto.CreateCourseRecordRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}

	record, err := c.recordService.Create(ctx, userID, req.ToDraft())
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.APIResponse{
		Data:      record,
		Timestamp: time.Now(),
	})
}

// GetRecord retrieves one record
// @Summary Get a course record
// @Tags records
// @Produce json
// @Security BearerAuth
// @Param id path string true "Record ID"
// @Success 200 {object} dto.APIResponse{data=models.CourseRecord} "Record retrieved successfully"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized - Invalid or missing token"
// @Failure 404 {object} dto.ErrorResponse "Record not found"
// @Router /records/{id} [get]
func (c *CourseRecordController) GetRecord(ctx *gin.Context) {
	userID, ok := currentUserID(ctx)
	if !ok {
		return
	}

	record, err := c.recordService.Get(ctx, userID, ctx.Param("id"))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data:      record,
		Timestamp: time.Now(),
	})
}

// UpdateRecord edits a record
// @Summary Update a course record
// @Description Changes period, category, status or grade. Moving a record to planned removes its grade.
// @Tags records
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Record ID"
// @Param request body dto.UpdateCourseRecordRequest true "Fields to change"
// @Success 200 {object} dto.APIResponse{data=models.CourseRecord} "Record updated successfully"
// @Failure 400 {object} dto.ErrorResponse "Invalid request data"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized - Invalid or missing token"
// @Failure 404 {object} dto.ErrorResponse "Record not found"
// @Router /records/{id} [patch]
func (c *CourseRecordController) UpdateRecord(ctx *gin.Context) {
	userID, ok := currentUserID(ctx)
	if !ok {
		return
	}

	var req dto.UpdateCourseRecordRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}

	record, err := c.recordService.Update(ctx, userID, ctx.Param("id"), req.ToPatch())
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data:      record,
		Timestamp: time.Now(),
	})
}

// DeleteRecord removes a record
// @Summary Delete a course record
// @Tags records
// @Produce json
// @Security BearerAuth
// @Param id path string true "Record ID"
// @Success 200 {object} dto.APIResponse{data=dto.SuccessResponse} "Record deleted successfully"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized - Invalid or missing token"
// @Failure 404 {object} dto.ErrorResponse "Record not found"
// @Router /records/{id} [delete]
func (c *CourseRecordController) DeleteRecord(ctx *gin.Context) {
	userID, ok := currentUserID(ctx)
	if !ok {
		return
	}

	if err := c.recordService.Delete(ctx, userID, ctx.Param("id")); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data:      dto.SuccessResponse{Message: "Record deleted successfully"},
		Timestamp: time.Now(),
	})
}
