package routes

import (
	"github.com/go-redis/redis/v8"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"helpdesk-system/internal/controllers"
	"helpdesk-system/internal/engine"
	"helpdesk-system/internal/repositories"
	"helpdesk-system/internal/services"
	"helpdesk-system/pkg/config"
)

func InitRouter(e *echo.Echo, dbConn *pgxpool.Pool, redisClient *redis.Client, logger *zap.Logger, cfg *config.Config) {
	api := e.Group("/api")

	calc := engine.NewCalculator(engine.Config{
		PlausibleCeilingMin:   cfg.Engine.PlausibleCeilingMin,
		RecomputeToleranceMin: cfg.Engine.RecomputeToleranceMin,
	})

	incidentRepo := repositories.NewIncidentRepository(dbConn, logger)
	ticketRepo := repositories.NewTicketRepository(dbConn, logger)
	cacheRepo := repositories.NewRedisCacheRepository(redisClient)

	incidentService := services.NewIncidentService(incidentRepo, calc, logger)
	ticketService := services.NewTicketService(ticketRepo, calc, logger)
	importService := services.NewImportService(incidentRepo, calc, cfg.Import.ChunkSize, logger)
	analyticsService := services.NewAnalyticsService(incidentRepo, ticketRepo, cacheRepo, calc, cfg.Analytics.CacheTTL, logger)
	recomputeService := services.NewRecomputeService(incidentRepo, cacheRepo, calc, logger)

	incidentCtrl := controllers.NewIncidentController(incidentService, logger)
	ticketCtrl := controllers.NewTicketController(ticketService, logger)
	analyticsCtrl := controllers.NewAnalyticsController(analyticsService, recomputeService, logger)
	uploadCtrl := controllers.NewUploadController(importService, cfg.Import.MaxUploadBytes, logger)

	incidents := api.Group("/incidents")
	incidents.GET("", incidentCtrl.GetIncidents)
	incidents.GET("/:id", incidentCtrl.FindIncident)
	incidents.POST("/import", uploadCtrl.ImportIncidents)

	tickets := api.Group("/tickets")
	tickets.GET("", ticketCtrl.GetTickets)
	tickets.GET("/:id", ticketCtrl.FindTicket)

	analytics := api.Group("/analytics")
	analytics.GET("/incidents", analyticsCtrl.IncidentStats)
	analytics.GET("/backlog", analyticsCtrl.BacklogStats)
	analytics.POST("/recompute", analyticsCtrl.Recompute)
}
