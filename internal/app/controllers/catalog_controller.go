package controllers

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/yigit/gradplanner/internal/app/models/dto"
	"github.com/yigit/gradplanner/internal/app/services"
	"github.com/yigit/gradplanner/internal/middleware"
	"github.com/yigit/gradplanner/internal/pkg/helpers"
)

// CatalogController serves the course and curriculum registry
type CatalogController struct {
	catalogService services.CatalogService
}

// NewCatalogController creates a new CatalogController
func NewCatalogController(catalogService services.CatalogService) *CatalogController {
	return &CatalogController{
		catalogService: catalogService,
	}
}

// ListCurricula retrieves every curriculum
// @Summary List curricula
// @Description Returns id and name of every curriculum in the catalog
// @Tags catalog
// @Produce json
// @Success 200 {object} dto.APIResponse{data=[]models.CurriculumSummary} "Curricula retrieved successfully"
// @Router /curricula [get]
func (c *CatalogController) ListCurricula(ctx *gin.Context) {
	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data:      c.catalogService.ListCurricula(),
		Timestamp: time.Now(),
	})
}

// GetCurriculum retrieves one curriculum
// @Summary Get curriculum details
// @Description Returns credit targets and the required and limited code sets of a curriculum
// @Tags catalog
// @Produce json
// @Param id path string true "Curriculum ID"
// @Success 200 {object} dto.APIResponse{data=models.CurriculumDefinition} "Curriculum retrieved successfully"
// @Failure 404 {object} dto.ErrorResponse "Curriculum not found"
// @Router /curricula/{id} [get]
func (c *CatalogController) GetCurriculum(ctx *gin.Context) {
	curriculum, err := c.catalogService.GetCurriculum(ctx.Param("id"))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data:      curriculum,
		Timestamp: time.Now(),
	})
}

// Classify returns the default category of a course in a curriculum
// @Summary Classify a course
// @Description Returns required, limited or free for a course code in a curriculum. Codes outside the catalog are free.
// @Tags catalog
// @Produce json
// @Param id path string true "Curriculum ID"
// @Param code path string true "Course code"
// @Success 200 {object} dto.APIResponse{data=dto.ClassificationResponse} "Course classified"
// @Failure 404 {object} dto.ErrorResponse "Curriculum not found"
// @Router /curricula/{id}/classify/{code} [get]
func (c *CatalogController) Classify(ctx *gin.Context) {
	curriculumID := ctx.Param("id")
	code := strings.TrimSpace(ctx.Param("code"))

	category, err := c.catalogService.Classify(code, curriculumID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data: dto.ClassificationResponse{
			Code:         code,
			CurriculumID: curriculumID,
			Category:     category,
		},
		Timestamp: time.Now(),
	})
}

// SearchCourses lists catalog courses
// @Summary Search courses
// @Description Returns the courses whose code or name contains the search term, one page at a time
// @Tags catalog
// @Produce json
// @Param search query string false "Search term, matched against code and name"
// @Param page query int false "Page number (1-based)" default(1)
// @Param size query int false "Page size" default(20)
// @Success 200 {object} dto.APIResponse{data=dto.PaginatedResponse{items=[]models.CourseDefinition}} "Courses retrieved successfully"
// @Router /courses [get]
func (c *CatalogController) SearchCourses(ctx *gin.Context) {
	page, size := helpers.ParsePaginationParams(ctx)
	courses := c.catalogService.SearchCourses(ctx.Query("search"))

	start, end := helpers.CalculateSliceIndices(page, size, len(courses))
	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data: dto.PaginatedResponse{
			Items:      courses[start:end],
			Pagination: helpers.NewPaginationInfo(len(courses), page, size),
		},
		Timestamp: time.Now(),
	})
}

// GetCourse retrieves one catalog course
// @Summary Get course details
// @Description Returns name, credits and direct prerequisites of a course
// @Tags catalog
// @Produce json
// @Param code path string true "Course code"
// @Success 200 {object} dto.APIResponse{data=models.CourseDefinition} "Course retrieved successfully"
// @Failure 404 {object} dto.ErrorResponse "Course not found"
// @Router /courses/{code} [get]
func (c *CatalogController) GetCourse(ctx *gin.Context) {
	course, err := c.catalogService.GetCourse(ctx.Param("code"))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data:      course,
		Timestamp: time.Now(),
	})
}
