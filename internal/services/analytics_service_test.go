package services

import (
	"context"
	"testing"
	"time"

	"github.com/aarondl/null/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"helpdesk-system/internal/engine"
	"helpdesk-system/internal/entities"
	"helpdesk-system/pkg/types"
)

func newAnalyticsFixture(incidents []entities.Incident, tickets []entities.Ticket) (AnalyticsServiceInterface, *stubCache) {
	cache := newStubCache()
	svc := NewAnalyticsService(
		newStubIncidentRepo(incidents...),
		&stubTicketRepo{tickets: tickets},
		cache,
		engine.NewCalculator(engine.DefaultConfig()),
		time.Minute,
		zap.NewNop(),
	)
	return svc, cache
}

func TestIncidentStatsAggregation(t *testing.T) {
	incidents := []entities.Incident{
		{
			ID: 1, NoCase: "C-001", NCAL: "biru",
			Site:      null.StringFrom("Jakarta"),
			Status:    null.StringFrom("Done"),
			StartTime: mustTime("2024-03-01 08:00:00"),
			EndTime:   mustTime("2024-03-01 10:00:00"),
		},
		{
			ID: 2, NoCase: "C-002", NCAL: "Yellow",
			Site:        null.StringFrom("Jakarta"),
			Status:      null.StringFrom("Done"),
			StartTime:   mustTime("2024-03-02 08:00:00"),
			EndTime:     mustTime("2024-03-02 12:00:00"),
			StartPause1: mustTime("2024-03-02 09:00:00"),
			EndPause1:   mustTime("2024-03-02 10:00:00"),
		},
		{
			ID: 3, NoCase: "C-003", NCAL: "Red",
			Status:    null.StringFrom("Open"),
			StartTime: mustTime("2024-04-01 08:00:00"),
		},
	}

	svc, _ := newAnalyticsFixture(incidents, nil)
	stats, err := svc.IncidentStats(context.Background(), types.Filter{})
	require.NoError(t, err)

	assert.Equal(t, 3, stats.Total)
	assert.Equal(t, 1, stats.Open)

	// 120 and 180 net minutes resolved; the open one contributes nothing.
	assert.InDelta(t, 150.0, stats.MTTRMin, 0.01)

	assert.Equal(t, 1, stats.ByNCAL["Blue"])
	assert.Equal(t, 1, stats.ByNCAL["Yellow"])
	assert.Equal(t, 1, stats.ByNCAL["Red"])
	assert.Equal(t, 2, stats.BySite["Jakarta"])
	assert.Equal(t, 2, stats.ByMonth["2024-03"])
	assert.Equal(t, 1, stats.ByMonth["2024-04"])

	assert.InDelta(t, 120.0, stats.AvgNetByNCAL["Blue"], 0.01)

	// pause 60 of gross 360
	assert.InDelta(t, 60.0/360.0, stats.PauseRatio, 0.01)
}

func TestIncidentStatsServedFromCache(t *testing.T) {
	incidents := []entities.Incident{
		{ID: 1, NoCase: "C-001", NCAL: "Blue",
			StartTime: mustTime("2024-03-01 08:00:00"),
			EndTime:   mustTime("2024-03-01 09:00:00")},
	}

	svc, cache := newAnalyticsFixture(incidents, nil)

	first, err := svc.IncidentStats(context.Background(), types.Filter{})
	require.NoError(t, err)
	require.Contains(t, cache.data, incidentStatsCacheKey)

	cached, err := svc.IncidentStats(context.Background(), types.Filter{})
	require.NoError(t, err)
	assert.Equal(t, first, cached)
}

func TestIncidentStatsFilteredBypassesCache(t *testing.T) {
	svc, cache := newAnalyticsFixture(nil, nil)

	_, err := svc.IncidentStats(context.Background(), types.Filter{Search: "fiber cut"})
	require.NoError(t, err)
	assert.NotContains(t, cache.data, incidentStatsCacheKey)
}

func TestIncidentStatsCountsWarnings(t *testing.T) {
	incidents := []entities.Incident{
		{ID: 1, NoCase: "C-100", NCAL: "Blue",
			StartTime: mustTime("2024-03-01 08:00:00"),
			EndTime:   mustTime("2024-03-05 08:00:00")}, // four days
	}

	svc, _ := newAnalyticsFixture(incidents, nil)
	stats, err := svc.IncidentStats(context.Background(), types.Filter{})
	require.NoError(t, err)
	assert.Equal(t, 1, stats.WarningCounts[string(engine.WarnImplausibleDuration)])
}

func TestBacklogStats(t *testing.T) {
	now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	tickets := []entities.Ticket{
		{ID: 1, NoTicket: "T-1", Status: null.StringFrom("Closed"),
			OpenTime:  mustTime("2024-05-20 08:00:00"),
			CloseTime: mustTime("2024-05-20 10:00:00")},
		{ID: 2, NoTicket: "T-2", Status: null.StringFrom("Open"),
			OpenTime: mustTime("2024-05-30 08:00:00")}, // open text, no close time
		{ID: 3, NoTicket: "T-3", Status: null.StringFrom("Closed"),
			OpenTime: mustTime("2024-05-22 12:00:00")}, // closed text, no close time
	}

	svc, _ := newAnalyticsFixture(nil, tickets)
	stats, err := svc.BacklogStats(context.Background(), now)
	require.NoError(t, err)

	// Both tickets without a close time land in the backlog bucket,
	// whatever their status text says.
	assert.Equal(t, 3, stats.Total)
	assert.Equal(t, 1, stats.Closed)
	assert.Equal(t, 0, stats.Open)
	assert.Equal(t, 2, stats.Backlog)
	assert.InDelta(t, 240.0, stats.MaxBacklogAgeH, 0.01)
	assert.InDelta(t, 146.0, stats.AvgBacklogAgeH, 0.01)
}
