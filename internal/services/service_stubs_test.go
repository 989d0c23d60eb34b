package services

import (
	"context"
	"time"

	"github.com/aarondl/null/v8"

	"helpdesk-system/internal/engine"
	"helpdesk-system/internal/entities"
	apperrors "helpdesk-system/pkg/errors"
	"helpdesk-system/pkg/types"
)

// stubIncidentRepo is an in-memory IncidentRepositoryInterface for service
// tests. Writes land in updates so tests can assert what was persisted.
type stubIncidentRepo struct {
	incidents []entities.Incident
	updates   map[uint64]engine.DurationResult
	created   []entities.Incident
	failNext  error
}

func newStubIncidentRepo(incidents ...entities.Incident) *stubIncidentRepo {
	return &stubIncidentRepo{
		incidents: incidents,
		updates:   make(map[uint64]engine.DurationResult),
	}
}

func (r *stubIncidentRepo) GetIncidents(_ context.Context, _ types.Filter) ([]entities.Incident, uint64, error) {
	if r.failNext != nil {
		return nil, 0, r.failNext
	}
	return r.incidents, uint64(len(r.incidents)), nil
}

func (r *stubIncidentRepo) FindIncidentByID(_ context.Context, id uint64) (*entities.Incident, error) {
	for _, incident := range r.incidents {
		if incident.ID == id {
			out := incident
			return &out, nil
		}
	}
	return nil, apperrors.ErrIncidentNotFound
}

func (r *stubIncidentRepo) ExistsByCaseAndStart(_ context.Context, noCase string, startTime null.Time) (bool, error) {
	for _, incident := range r.incidents {
		if incident.NoCase == noCase && incident.StartTime.Valid && startTime.Valid &&
			incident.StartTime.Time.Equal(startTime.Time) {
			return true, nil
		}
	}
	return false, nil
}

func (r *stubIncidentRepo) CreateIncidents(_ context.Context, incidents []entities.Incident) (int, error) {
	r.created = append(r.created, incidents...)
	return len(incidents), nil
}

func (r *stubIncidentRepo) GetForRecompute(_ context.Context, batchID string) ([]entities.Incident, error) {
	if batchID == "" {
		return r.incidents, nil
	}
	var out []entities.Incident
	for _, incident := range r.incidents {
		if incident.BatchID.Valid && incident.BatchID.String == batchID {
			out = append(out, incident)
		}
	}
	return out, nil
}

func (r *stubIncidentRepo) UpdateDurations(_ context.Context, id uint64, result engine.DurationResult) error {
	r.updates[id] = result
	return nil
}

type stubTicketRepo struct {
	tickets []entities.Ticket
}

func (r *stubTicketRepo) GetTickets(_ context.Context, _ types.Filter) ([]entities.Ticket, uint64, error) {
	return r.tickets, uint64(len(r.tickets)), nil
}

func (r *stubTicketRepo) FindTicketByID(_ context.Context, id uint64) (*entities.Ticket, error) {
	for _, ticket := range r.tickets {
		if ticket.ID == id {
			out := ticket
			return &out, nil
		}
	}
	return nil, apperrors.ErrTicketNotFound
}

func (r *stubTicketRepo) GetAllTickets(_ context.Context) ([]entities.Ticket, error) {
	return r.tickets, nil
}

// stubCache is a map-backed CacheRepositoryInterface.
type stubCache struct {
	data map[string]string
}

func newStubCache() *stubCache {
	return &stubCache{data: make(map[string]string)}
}

func (c *stubCache) Get(_ context.Context, key string) (string, error) {
	return c.data[key], nil
}

func (c *stubCache) Set(_ context.Context, key string, value interface{}, _ time.Duration) error {
	if s, ok := value.(string); ok {
		c.data[key] = s
	}
	return nil
}

func (c *stubCache) Del(_ context.Context, keys ...string) error {
	for _, k := range keys {
		delete(c.data, k)
	}
	return nil
}

func mustTime(s string) null.Time {
	t, err := time.Parse("2006-01-02 15:04:05", s)
	if err != nil {
		panic(err)
	}
	return null.TimeFrom(t.UTC())
}
