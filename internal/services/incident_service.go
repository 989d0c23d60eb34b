package services

import (
	"context"
	"time"

	"github.com/aarondl/null/v8"
	"go.uber.org/zap"

	"helpdesk-system/internal/dto"
	"helpdesk-system/internal/engine"
	"helpdesk-system/internal/entities"
	"helpdesk-system/internal/repositories"
	"helpdesk-system/pkg/types"
	"helpdesk-system/pkg/utils"
)

type IncidentServiceInterface interface {
	GetIncidents(ctx context.Context, filter types.Filter) (*dto.IncidentListDTO, error)
	FindIncident(ctx context.Context, id uint64) (*dto.IncidentDTO, error)
}

type incidentService struct {
	incidentRepo repositories.IncidentRepositoryInterface
	calc         *engine.Calculator
	logger       *zap.Logger
}

func NewIncidentService(
	incidentRepo repositories.IncidentRepositoryInterface,
	calc *engine.Calculator,
	logger *zap.Logger,
) IncidentServiceInterface {
	return &incidentService{incidentRepo: incidentRepo, calc: calc, logger: logger}
}

func (s *incidentService) GetIncidents(ctx context.Context, filter types.Filter) (*dto.IncidentListDTO, error) {
	incidents, total, err := s.incidentRepo.GetIncidents(ctx, filter)
	if err != nil {
		return nil, err
	}

	list := make([]dto.IncidentDTO, 0, len(incidents))
	for _, incident := range incidents {
		list = append(list, s.toDTO(incident))
	}
	return &dto.IncidentListDTO{List: list, Total: total}, nil
}

func (s *incidentService) FindIncident(ctx context.Context, id uint64) (*dto.IncidentDTO, error) {
	incident, err := s.incidentRepo.FindIncidentByID(ctx, id)
	if err != nil {
		return nil, err
	}
	out := s.toDTO(*incident)
	return &out, nil
}

// toDTO annotates a stored incident on the way out. Durations come from the
// engine rather than the stored columns so the API always reflects the
// current rules even before a recompute pass has run.
func (s *incidentService) toDTO(incident entities.Incident) dto.IncidentDTO {
	annotation := s.calc.AnnotateIncident(incident.Tracked())
	d := annotation.Duration

	return dto.IncidentDTO{
		ID:       incident.ID,
		NoCase:   incident.NoCase,
		NCAL:     engine.NormalizeNCAL(incident.NCAL),
		Site:     incident.Site.String,
		Priority: incident.Priority.String,
		Level:    incident.Level.Int64,
		Problem:  incident.Problem.String,
		Status:   incident.Status.String,

		StartTime:             nullTimeToPtr(incident.StartTime),
		EndTime:               nullTimeToPtr(incident.EndTime),
		StartEscalationVendor: nullTimeToPtr(incident.StartEscalationVendor),

		DurationMin:            d.GrossMinutes,
		DurationHMS:            utils.FormatMinutesHMS(d.GrossMinutes),
		DurationHuman:          utils.FormatMinutesHuman(d.GrossMinutes),
		TotalDurationPauseMin:  d.TotalPauseMinutes,
		NetDurationMin:         d.NetMinutes,
		DurationVendorMin:      d.VendorMinutes,
		TotalDurationVendorMin: d.NetVendorMinutes,

		State:    annotation.State,
		Warnings: d.Warnings,
	}
}

func nullTimeToPtr(t null.Time) *time.Time {
	if !t.Valid {
		return nil
	}
	v := t.Time
	return &v
}
