package controllers

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"helpdesk-system/internal/dto"
	"helpdesk-system/internal/services"
	"helpdesk-system/pkg/utils"
)

type AnalyticsController struct {
	analyticsService services.AnalyticsServiceInterface
	recomputeService services.RecomputeServiceInterface
	logger           *zap.Logger
}

func NewAnalyticsController(
	analyticsService services.AnalyticsServiceInterface,
	recomputeService services.RecomputeServiceInterface,
	logger *zap.Logger,
) *AnalyticsController {
	return &AnalyticsController{
		analyticsService: analyticsService,
		recomputeService: recomputeService,
		logger:           logger,
	}
}

func (c *AnalyticsController) IncidentStats(ctx echo.Context) error {
	reqCtx := ctx.Request().Context()

	var rangeDTO dto.StatsRangeDTO
	if err := ctx.Bind(&rangeDTO); err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	if err := ctx.Validate(&rangeDTO); err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	filter := utils.ParseFilterFromQuery(ctx.Request().URL.Query())
	if rangeDTO.From != "" {
		filter.Filter["start_from"] = rangeDTO.From
	}
	if rangeDTO.To != "" {
		filter.Filter["start_to"] = rangeDTO.To
	}

	res, err := c.analyticsService.IncidentStats(reqCtx, filter)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, res, "incident stats computed", http.StatusOK)
}

func (c *AnalyticsController) BacklogStats(ctx echo.Context) error {
	reqCtx := ctx.Request().Context()

	res, err := c.analyticsService.BacklogStats(reqCtx, time.Now().UTC())
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, res, "backlog stats computed", http.StatusOK)
}

func (c *AnalyticsController) Recompute(ctx echo.Context) error {
	reqCtx := ctx.Request().Context()

	var req dto.RecomputeRequestDTO
	if err := ctx.Bind(&req); err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	if err := ctx.Validate(&req); err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	report, err := c.recomputeService.RecomputeDurations(reqCtx, req.BatchID, req.DryRun)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, report, "recompute pass finished", http.StatusOK)
}
