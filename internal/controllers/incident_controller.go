package controllers

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"helpdesk-system/internal/services"
	apperrors "helpdesk-system/pkg/errors"
	"helpdesk-system/pkg/utils"
)

type IncidentController struct {
	incidentService services.IncidentServiceInterface
	logger          *zap.Logger
}

func NewIncidentController(incidentService services.IncidentServiceInterface, logger *zap.Logger) *IncidentController {
	return &IncidentController{incidentService: incidentService, logger: logger}
}

func (c *IncidentController) GetIncidents(ctx echo.Context) error {
	reqCtx := ctx.Request().Context()
	filter := utils.ParseFilterFromQuery(ctx.Request().URL.Query())

	res, err := c.incidentService.GetIncidents(reqCtx, filter)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	return utils.SuccessResponse(ctx, res.List, "incident list fetched", http.StatusOK, res.Total)
}

func (c *IncidentController) FindIncident(ctx echo.Context) error {
	reqCtx := ctx.Request().Context()
	id, err := strconv.ParseUint(ctx.Param("id"), 10, 64)
	if err != nil {
		return utils.ErrorResponse(ctx,
			apperrors.NewHttpError(
				http.StatusBadRequest,
				"invalid incident id",
				err,
				map[string]interface{}{"param": ctx.Param("id")},
			),
			c.logger,
		)
	}

	res, err := c.incidentService.FindIncident(reqCtx, id)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, res, "incident found", http.StatusOK)
}
