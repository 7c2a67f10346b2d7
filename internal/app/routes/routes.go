package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/yigit/gradplanner/internal/app/controllers"
	"github.com/yigit/gradplanner/internal/middleware"
	"github.com/yigit/gradplanner/internal/pkg/websocket"
)

// Controllers groups the handlers mounted by SetupRouter
type Controllers struct {
	Health   *controllers.HealthController
	Catalog  *controllers.CatalogController
	Records  *controllers.CourseRecordController
	Progress *controllers.ProgressController
	Transfer *controllers.TransferController
	Live     *websocket.Handler
}

// SetupRouter configures all application routes
func SetupRouter(router *gin.Engine, h Controllers, authMiddleware *middleware.AuthMiddleware) {
	// API version group
	v1 := router.Group("/api/v1")

	v1.GET("/health", h.Health.Health)

	// --- Public catalog routes ---
	curricula := v1.Group("/curricula")
	{
		curricula.GET("", h.Catalog.ListCurricula)
		curricula.GET("/:id", h.Catalog.GetCurriculum)
		curricula.GET("/:id/classify/:code", h.Catalog.Classify)
	}

	courses := v1.Group("/courses")
	{
		courses.GET("", h.Catalog.SearchCourses)
		courses.GET("/:code", h.Catalog.GetCourse)
	}

	// --- Authenticated Routes Group ---
	authenticated := v1.Group("")
	authenticated.Use(authMiddleware.JWTAuth())
	{
		records := authenticated.Group("/records")
		{
			records.GET("", h.Records.ListRecords)
			records.POST("", h.Records.CreateRecord)
			records.GET("/:id", h.Records.GetRecord)
			records.PATCH("/:id", h.Records.UpdateRecord)
			records.DELETE("/:id", h.Records.DeleteRecord)
		}

		progress := authenticated.Group("/progress")
		{
			progress.GET("/stats", h.Progress.GetStats)
			progress.GET("/prerequisites", h.Progress.GetPrerequisiteWarnings)
			progress.GET("/prerequisites/:code", h.Progress.CheckPrerequisites)
			progress.GET("/average-grade", h.Progress.GetAverageGrade)
			progress.GET("/timeline", h.Progress.GetTimeline)
		}

		transfer := authenticated.Group("/transfer")
		{
			transfer.POST("/import", h.Transfer.Import)
			transfer.GET("/export", h.Transfer.Export)
		}

		authenticated.GET("/live", h.Live.HandleConnection)
	}
}
