package services

import (
	"context"
	"encoding/json"
	"math"
	"time"

	"go.uber.org/zap"

	"helpdesk-system/internal/engine"
	"helpdesk-system/internal/entities"
	"helpdesk-system/internal/repositories"
	"helpdesk-system/pkg/types"
)

const (
	incidentStatsCacheKey = "analytics:incident_stats"
	backlogStatsCacheKey  = "analytics:backlog_stats"
)

type AnalyticsServiceInterface interface {
	IncidentStats(ctx context.Context, filter types.Filter) (*types.IncidentStats, error)
	BacklogStats(ctx context.Context, now time.Time) (*types.BacklogStats, error)
}

type analyticsService struct {
	incidentRepo repositories.IncidentRepositoryInterface
	ticketRepo   repositories.TicketRepositoryInterface
	cacheRepo    repositories.CacheRepositoryInterface
	calc         *engine.Calculator
	cacheTTL     time.Duration
	logger       *zap.Logger
}

func NewAnalyticsService(
	incidentRepo repositories.IncidentRepositoryInterface,
	ticketRepo repositories.TicketRepositoryInterface,
	cacheRepo repositories.CacheRepositoryInterface,
	calc *engine.Calculator,
	cacheTTL time.Duration,
	logger *zap.Logger,
) AnalyticsServiceInterface {
	return &analyticsService{
		incidentRepo: incidentRepo,
		ticketRepo:   ticketRepo,
		cacheRepo:    cacheRepo,
		calc:         calc,
		cacheTTL:     cacheTTL,
		logger:       logger,
	}
}

// IncidentStats aggregates duration and classification figures over incidents
// matching the filter. An unfiltered request is served from the cache snapshot
// when one is present.
func (s *analyticsService) IncidentStats(ctx context.Context, filter types.Filter) (*types.IncidentStats, error) {
	cacheable := filterIsEmpty(filter)
	if cacheable {
		if cached, err := s.cacheRepo.Get(ctx, incidentStatsCacheKey); err == nil && cached != "" {
			var stats types.IncidentStats
			if err := json.Unmarshal([]byte(cached), &stats); err == nil {
				return &stats, nil
			}
			s.logger.Warn("discarding unreadable cached incident stats")
		}
	}

	filter.WithPagination = false
	incidents, _, err := s.incidentRepo.GetIncidents(ctx, filter)
	if err != nil {
		return nil, err
	}

	stats := s.aggregateIncidents(incidents)

	if cacheable {
		if err := s.cacheRepo.Set(ctx, incidentStatsCacheKey, mustJSON(stats), s.cacheTTL); err != nil {
			s.logger.Warn("failed to cache incident stats", zap.Error(err))
		}
	}
	return stats, nil
}

func (s *analyticsService) aggregateIncidents(incidents []entities.Incident) *types.IncidentStats {
	stats := &types.IncidentStats{
		ByNCAL:        make(map[string]int),
		BySite:        make(map[string]int),
		ByMonth:       make(map[string]int),
		AvgNetByNCAL:  make(map[string]float64),
		WarningCounts: make(map[string]int),
	}

	var (
		mttrSum, mttrCount     float64
		vendorSum, vendorCount float64
		grossSum, pauseSum     float64
		netSumByNCAL           = make(map[string]float64)
		netCountByNCAL         = make(map[string]float64)
	)

	for _, incident := range incidents {
		stats.Total++

		annotation := s.calc.AnnotateIncident(incident.Tracked())
		if annotation.State == engine.IncidentOpen {
			stats.Open++
		}

		d := annotation.Duration
		if d.NetMinutes > 0 {
			mttrSum += d.NetMinutes
			mttrCount++
		}
		if d.NetVendorMinutes > 0 {
			vendorSum += d.NetVendorMinutes
			vendorCount++
		}
		grossSum += d.GrossMinutes
		pauseSum += d.TotalPauseMinutes
		for _, w := range d.Warnings {
			stats.WarningCounts[string(w)]++
		}

		ncal := engine.NormalizeNCAL(incident.NCAL)
		stats.ByNCAL[ncal]++
		if d.NetMinutes > 0 {
			netSumByNCAL[ncal] += d.NetMinutes
			netCountByNCAL[ncal]++
		}

		if incident.Site.Valid && incident.Site.String != "" {
			stats.BySite[incident.Site.String]++
		}
		if incident.StartTime.Valid {
			stats.ByMonth[incident.StartTime.Time.Format("2006-01")]++
		}
	}

	if mttrCount > 0 {
		stats.MTTRMin = round2(mttrSum / mttrCount)
	}
	if vendorCount > 0 {
		stats.AvgVendorMin = round2(vendorSum / vendorCount)
	}
	if grossSum > 0 {
		stats.PauseRatio = round2(pauseSum / grossSum)
	}
	for ncal, sum := range netSumByNCAL {
		stats.AvgNetByNCAL[ncal] = round2(sum / netCountByNCAL[ncal])
	}
	return stats
}

// BacklogStats classifies every ticket relative to now and reports how old
// the backlog slice is.
func (s *analyticsService) BacklogStats(ctx context.Context, now time.Time) (*types.BacklogStats, error) {
	if cached, err := s.cacheRepo.Get(ctx, backlogStatsCacheKey); err == nil && cached != "" {
		var stats types.BacklogStats
		if err := json.Unmarshal([]byte(cached), &stats); err == nil {
			return &stats, nil
		}
	}

	tickets, err := s.ticketRepo.GetAllTickets(ctx)
	if err != nil {
		return nil, err
	}

	stats := aggregateTickets(tickets, now)

	if err := s.cacheRepo.Set(ctx, backlogStatsCacheKey, mustJSON(stats), s.cacheTTL); err != nil {
		s.logger.Warn("failed to cache backlog stats", zap.Error(err))
	}
	return stats, nil
}

func aggregateTickets(tickets []entities.Ticket, now time.Time) *types.BacklogStats {
	stats := &types.BacklogStats{}
	var ageSum float64

	for _, ticket := range tickets {
		stats.Total++
		tracked := ticket.Tracked()
		switch engine.ClassifyTicket(tracked.StatusText, tracked.OpenTime, tracked.CloseTime, now) {
		case engine.TicketClosed:
			stats.Closed++
		case engine.TicketBacklog:
			stats.Backlog++
			age := ticket.AgeHours(now)
			ageSum += age
			if age > stats.MaxBacklogAgeH {
				stats.MaxBacklogAgeH = age
			}
		default:
			stats.Open++
		}
	}

	if stats.Backlog > 0 {
		stats.AvgBacklogAgeH = round2(ageSum / float64(stats.Backlog))
	}
	stats.MaxBacklogAgeH = round2(stats.MaxBacklogAgeH)
	return stats
}

func filterIsEmpty(f types.Filter) bool {
	return f.Search == "" && len(f.Filter) == 0
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

func mustJSON(v interface{}) string {
	b, err := json.Marshal(v)
	if err != nil {
		return "{}"
	}
	return string(b)
}
