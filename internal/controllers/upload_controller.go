package controllers

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"helpdesk-system/internal/services"
	apperrors "helpdesk-system/pkg/errors"
	"helpdesk-system/pkg/utils"
)

type UploadController struct {
	importService  services.ImportServiceInterface
	maxUploadBytes int64
	logger         *zap.Logger
}

func NewUploadController(importService services.ImportServiceInterface, maxUploadBytes int64, logger *zap.Logger) *UploadController {
	return &UploadController{
		importService:  importService,
		maxUploadBytes: maxUploadBytes,
		logger:         logger,
	}
}

// ImportIncidents accepts one multipart .xlsx workbook under the "file" field
// and runs the incident importer over it.
func (c *UploadController) ImportIncidents(ctx echo.Context) error {
	reqCtx := ctx.Request().Context()

	fileHeader, err := ctx.FormFile("file")
	if err != nil {
		return utils.ErrorResponse(ctx,
			apperrors.NewHttpError(
				http.StatusBadRequest,
				"file field is required",
				apperrors.ErrBadRequest,
				nil,
			),
			c.logger,
		)
	}

	if c.maxUploadBytes > 0 && fileHeader.Size > c.maxUploadBytes {
		return utils.ErrorResponse(ctx,
			apperrors.NewHttpError(
				http.StatusRequestEntityTooLarge,
				"uploaded file is too large",
				apperrors.ErrUnsupportedUpload,
				map[string]interface{}{"size": fileHeader.Size, "limit": c.maxUploadBytes},
			),
			c.logger,
		)
	}
	if !strings.HasSuffix(strings.ToLower(fileHeader.Filename), ".xlsx") {
		return utils.ErrorResponse(ctx,
			apperrors.NewHttpError(
				http.StatusBadRequest,
				"only .xlsx workbooks are supported",
				apperrors.ErrUnsupportedUpload,
				map[string]interface{}{"filename": fileHeader.Filename},
			),
			c.logger,
		)
	}

	src, err := fileHeader.Open()
	if err != nil {
		return utils.ErrorResponse(ctx,
			apperrors.NewHttpError(
				http.StatusInternalServerError,
				"failed to read uploaded file",
				err,
				nil,
			),
			c.logger,
		)
	}
	defer src.Close()

	c.logger.Info("incident workbook upload received",
		zap.String("filename", fileHeader.Filename),
		zap.Int64("size", fileHeader.Size),
	)

	summary, err := c.importService.ImportIncidents(reqCtx, src)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, summary, "workbook imported", http.StatusCreated)
}
