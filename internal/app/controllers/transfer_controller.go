package controllers

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/yigit/gradplanner/internal/app/models/dto"
	"github.com/yigit/gradplanner/internal/app/services"
	"github.com/yigit/gradplanner/internal/middleware"
	"github.com/yigit/gradplanner/internal/pkg/apperrors"
)

const (
	// maxImportSize bounds the body of an import request
	maxImportSize = 5 << 20

	xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
)

// TransferController handles import and export of record sets
type TransferController struct {
	transferService services.TransferService
}

// NewTransferController creates a new TransferController
func NewTransferController(transferService services.TransferService) *TransferController {
	return &TransferController{
		transferService: transferService,
	}
}

// Import appends the records of a backup or transcript file
// @Summary Import records
// @Description Accepts a backup produced by export or an external transcript. The format is detected from the first entry. A malformed file imports nothing.
// @Tags transfer
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param file body []models.CourseRecordDraft true "Backup or transcript array"
// @Success 200 {object} dto.APIResponse{data=dto.ImportResponse} "Records imported"
// @Failure 400 {object} dto.ErrorResponse "Malformed file"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized - Invalid or missing token"
// @Failure 413 {object} dto.ErrorResponse "File too large"
// @Router /transfer/import [post]
func (c *TransferController) Import(ctx *gin.Context) {
	userID, ok := currentUserID(ctx)
	if !ok {
		return
	}

	data, err := io.ReadAll(http.MaxBytesReader(ctx.Writer, ctx.Request.Body, maxImportSize))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			errorDetail := dto.NewErrorDetail(dto.ErrorCodeMalformedImport, "Import file too large")
			errorDetail = errorDetail.WithDetails(fmt.Sprintf("limit is %d bytes", maxImportSize))
			ctx.AbortWithStatusJSON(http.StatusRequestEntityTooLarge, dto.NewErrorResponse(errorDetail))
			return
		}
		middleware.HandleAPIError(ctx, fmt.Errorf("%w: %v", apperrors.ErrMalformedImport, err))
		return
	}

	result, err := c.transferService.Import(ctx, userID, data)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data: dto.ImportResponse{
			Imported: result.Imported,
			Format:   string(result.Format),
		},
		Timestamp: time.Now(),
	})
}

// Export downloads the user's records
// @Summary Export records
// @Description Downloads the records as a JSON backup (default) or an xlsx workbook
// @Tags transfer
// @Produce json
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Security BearerAuth
// @Param format query string false "json or xlsx" Enums(json, xlsx) default(json)
// @Success 200 {array} models.CourseRecordDraft "Backup file"
// @Failure 400 {object} dto.ErrorResponse "Unknown format"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized - Invalid or missing token"
// @Router /transfer/export [get]
func (c *TransferController) Export(ctx *gin.Context) {
	userID, ok := currentUserID(ctx)
	if !ok {
		return
	}

	stamp := time.Now().Format("2006-01-02")
	switch strings.ToLower(ctx.DefaultQuery("format", "json")) {
	case "json":
		data, err := c.transferService.Export(ctx, userID)
		if err != nil {
			middleware.HandleAPIError(ctx, err)
			return
		}
		ctx.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="records-%s.json"`, stamp))
		ctx.Data(http.StatusOK, "application/json; charset=utf-8", data)

	case "xlsx":
		var buf bytes.Buffer
		if err := c.transferService.ExportWorkbook(ctx, userID, &buf); err != nil {
			middleware.HandleAPIError(ctx, err)
			return
		}
		ctx.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="records-%s.xlsx"`, stamp))
		ctx.Data(http.StatusOK, xlsxContentType, buf.Bytes())

	default:
		middleware.HandleAPIError(ctx, fmt.Errorf("%w: format must be json or xlsx", apperrors.ErrValidationFailed))
	}
}
