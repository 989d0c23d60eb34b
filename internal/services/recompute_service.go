package services

import (
	"context"
	"sync/atomic"

	"go.uber.org/zap"

	"helpdesk-system/internal/engine"
	"helpdesk-system/internal/entities"
	"helpdesk-system/internal/repositories"
	apperrors "helpdesk-system/pkg/errors"
	"helpdesk-system/pkg/types"
)

type RecomputeServiceInterface interface {
	RecomputeDurations(ctx context.Context, batchID string, dryRun bool) (*types.RecomputeReport, error)
}

type recomputeService struct {
	incidentRepo repositories.IncidentRepositoryInterface
	cacheRepo    repositories.CacheRepositoryInterface
	calc         *engine.Calculator
	running      atomic.Bool
	logger       *zap.Logger
}

func NewRecomputeService(
	incidentRepo repositories.IncidentRepositoryInterface,
	cacheRepo repositories.CacheRepositoryInterface,
	calc *engine.Calculator,
	logger *zap.Logger,
) RecomputeServiceInterface {
	return &recomputeService{
		incidentRepo: incidentRepo,
		cacheRepo:    cacheRepo,
		calc:         calc,
		logger:       logger,
	}
}

// RecomputeDurations re-derives every duration column for the selected
// incidents and persists rows that drifted beyond the tolerance. Rows whose
// recomputed result carries an implausibility warning are reported but left
// untouched, so a bad timestamp never silently overwrites a hand-corrected
// value. With dryRun the report is produced without any writes.
func (s *recomputeService) RecomputeDurations(ctx context.Context, batchID string, dryRun bool) (*types.RecomputeReport, error) {
	if !s.running.CompareAndSwap(false, true) {
		return nil, apperrors.ErrRecomputeConflict
	}
	defer s.running.Store(false)

	incidents, err := s.incidentRepo.GetForRecompute(ctx, batchID)
	if err != nil {
		return nil, err
	}

	report := &types.RecomputeReport{}
	for _, incident := range incidents {
		report.Scanned++

		result := s.calc.Compute(incident.Tracked())
		if !s.driftedBeyondTolerance(incident, result) {
			report.Unchanged++
			continue
		}

		if result.Has(engine.WarnImplausibleDuration) {
			report.Flagged++
			report.FlaggedCases = append(report.FlaggedCases, incident.NoCase)
			s.logger.Warn("recompute result implausible, keeping stored durations",
				zap.String("no_case", incident.NoCase),
				zap.Float64("stored_net_min", incident.NetDurationMin),
				zap.Float64("recomputed_net_min", result.NetMinutes),
			)
			continue
		}

		if dryRun {
			report.Updated++
			continue
		}
		if err := s.incidentRepo.UpdateDurations(ctx, incident.ID, result); err != nil {
			return nil, err
		}
		report.Updated++
	}

	if report.Updated > 0 && !dryRun {
		if err := s.cacheRepo.Del(ctx, incidentStatsCacheKey, backlogStatsCacheKey); err != nil {
			s.logger.Warn("failed to invalidate analytics cache after recompute", zap.Error(err))
		}
	}

	s.logger.Info("recompute pass finished",
		zap.String("batch_id", batchID),
		zap.Bool("dry_run", dryRun),
		zap.Int("scanned", report.Scanned),
		zap.Int("updated", report.Updated),
		zap.Int("flagged", report.Flagged),
	)
	return report, nil
}

// driftedBeyondTolerance reports whether any stored duration column disagrees
// with the recomputed result by more than the configured tolerance.
func (s *recomputeService) driftedBeyondTolerance(incident entities.Incident, result engine.DurationResult) bool {
	pairs := [][2]float64{
		{incident.DurationMin, result.GrossMinutes},
		{incident.TotalDurationPauseMin, result.TotalPauseMinutes},
		{incident.NetDurationMin, result.NetMinutes},
		{incident.DurationVendorMin, result.VendorMinutes},
		{incident.TotalDurationVendorMin, result.NetVendorMinutes},
	}
	for _, p := range pairs {
		if !s.calc.WithinTolerance(p[0], p[1]) {
			return true
		}
	}
	return false
}
