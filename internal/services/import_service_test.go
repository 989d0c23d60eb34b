package services

import (
	"bytes"
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"helpdesk-system/internal/engine"
	"helpdesk-system/internal/entities"
	apperrors "helpdesk-system/pkg/errors"
)

func buildWorkbook(t *testing.T, header []interface{}, rows ...[]interface{}) *bytes.Buffer {
	t.Helper()
	f := excelize.NewFile()
	require.NoError(t, f.SetSheetRow("Sheet1", "A1", &header))
	for i, row := range rows {
		cell := fmt.Sprintf("A%d", i+2)
		require.NoError(t, f.SetSheetRow("Sheet1", cell, &row))
	}
	buf, err := f.WriteToBuffer()
	require.NoError(t, err)
	return buf
}

var defaultHeader = []interface{}{
	"No Case", "NCAL", "Site", "Priority", "Problem", "Status",
	"Start Time", "End Time", "Start Escalation Vendor",
	"Start Pause", "End Pause",
}

func newImportFixture(existing ...entities.Incident) (ImportServiceInterface, *stubIncidentRepo) {
	repo := newStubIncidentRepo(existing...)
	svc := NewImportService(repo, engine.NewCalculator(engine.DefaultConfig()), 100, zap.NewNop())
	return svc, repo
}

func TestImportParsesRowsAndComputesDurations(t *testing.T) {
	buf := buildWorkbook(t, defaultHeader,
		[]interface{}{"C-001", "biru", "Jakarta", "High", "fiber cut", "Done",
			"2024-03-01 08:00:00", "2024-03-01 12:00:00", "2024-03-01 09:00:00",
			"2024-03-01 10:00:00", "2024-03-01 10:30:00"},
	)

	svc, repo := newImportFixture()
	summary, err := svc.ImportIncidents(context.Background(), buf)
	require.NoError(t, err)

	assert.Equal(t, 1, summary.TotalRows)
	assert.Equal(t, 1, summary.Imported)
	assert.Equal(t, 0, summary.Skipped)
	assert.NotEmpty(t, summary.BatchID)

	require.Len(t, repo.created, 1)
	got := repo.created[0]
	assert.Equal(t, "C-001", got.NoCase)
	assert.Equal(t, "Blue", got.NCAL)
	assert.InDelta(t, 240.0, got.DurationMin, 0.01)
	assert.InDelta(t, 30.0, got.TotalDurationPauseMin, 0.01)
	assert.InDelta(t, 210.0, got.NetDurationMin, 0.01)
	// vendor window 09:00-12:00, pause fully inside it
	assert.InDelta(t, 180.0, got.DurationVendorMin, 0.01)
	assert.InDelta(t, 150.0, got.TotalDurationVendorMin, 0.01)
	assert.Equal(t, summary.BatchID, got.BatchID.String)
}

func TestImportHeaderSynonymsAndOffsetHeaderRow(t *testing.T) {
	buf := buildWorkbook(t,
		[]interface{}{"Monthly Incident Report"}, // banner above the header
		[]interface{}{"case number", "NCAL", "Open Time", "Close Time"},
		[]interface{}{"C-010", "kuning", "2024-03-01 08:00:00", "2024-03-01 09:00:00"},
	)

	svc, repo := newImportFixture()
	summary, err := svc.ImportIncidents(context.Background(), buf)
	require.NoError(t, err)

	assert.Equal(t, 1, summary.Imported)
	require.Len(t, repo.created, 1)
	assert.Equal(t, "Yellow", repo.created[0].NCAL)
	assert.InDelta(t, 60.0, repo.created[0].DurationMin, 0.01)
}

func TestImportSkipsDuplicatesWithinFileAndAgainstStore(t *testing.T) {
	existing := entities.Incident{
		NoCase:    "C-002",
		StartTime: mustTime("2024-03-02 08:00:00"),
	}
	buf := buildWorkbook(t, defaultHeader,
		[]interface{}{"C-001", "Blue", "", "", "", "Done",
			"2024-03-01 08:00:00", "2024-03-01 09:00:00", "", "", ""},
		[]interface{}{"C-001", "Blue", "", "", "", "Done", // same case, same start
			"2024-03-01 08:00:00", "2024-03-01 09:00:00", "", "", ""},
		[]interface{}{"C-002", "Red", "", "", "", "Done", // already stored
			"2024-03-02 08:00:00", "2024-03-02 09:00:00", "", "", ""},
	)

	svc, repo := newImportFixture(existing)
	summary, err := svc.ImportIncidents(context.Background(), buf)
	require.NoError(t, err)

	assert.Equal(t, 3, summary.TotalRows)
	assert.Equal(t, 1, summary.Imported)
	assert.Equal(t, 2, summary.Skipped)
	require.Len(t, repo.created, 1)
	assert.Equal(t, "C-001", repo.created[0].NoCase)
}

func TestImportSynthesizesMissingEndTime(t *testing.T) {
	buf := buildWorkbook(t, defaultHeader,
		[]interface{}{"C-020", "biru", "", "", "", "Open",
			"2025-03-10 08:00:00", "", "", "", ""},
	)

	svc, repo := newImportFixture()
	summary, err := svc.ImportIncidents(context.Background(), buf)
	require.NoError(t, err)

	assert.Equal(t, 1, summary.FixedEndTimes)
	require.Len(t, repo.created, 1)
	got := repo.created[0]
	require.True(t, got.EndTime.Valid)

	// March 2025 Blue reference is 340.05 minutes.
	wantEnd := got.StartTime.Time.Add(time.Duration(340.05 * float64(time.Minute)))
	assert.WithinDuration(t, wantEnd, got.EndTime.Time, time.Second)
	assert.InDelta(t, 340.05, got.DurationMin, 0.1)
}

func TestImportSkipsNoiseAndBlankRows(t *testing.T) {
	buf := buildWorkbook(t, defaultHeader,
		[]interface{}{"", "", "", "", "", "", "", "", "", "", ""},
		[]interface{}{"Grand Total", "", "", "", "", "", "", "", "", "", ""},
		[]interface{}{"C-001", "Blue", "", "", "", "Done",
			"2024-03-01 08:00:00", "2024-03-01 09:00:00", "", "", ""},
	)

	svc, repo := newImportFixture()
	summary, err := svc.ImportIncidents(context.Background(), buf)
	require.NoError(t, err)

	assert.Equal(t, 1, summary.Imported)
	assert.Equal(t, 2, summary.Skipped)
	require.Len(t, repo.created, 1)
}

func TestImportFailsWithoutRecognizableHeader(t *testing.T) {
	buf := buildWorkbook(t,
		[]interface{}{"foo", "bar", "baz"},
		[]interface{}{"1", "2", "3"},
	)

	svc, _ := newImportFixture()
	_, err := svc.ImportIncidents(context.Background(), buf)
	assert.ErrorIs(t, err, apperrors.ErrHeaderRowNotFound)
}

func TestImportFailsOnWorkbookWithHeaderButNoRows(t *testing.T) {
	buf := buildWorkbook(t, defaultHeader)

	svc, _ := newImportFixture()
	_, err := svc.ImportIncidents(context.Background(), buf)
	assert.ErrorIs(t, err, apperrors.ErrEmptyWorkbook)
}

func TestImportFlagsImplausibleRow(t *testing.T) {
	buf := buildWorkbook(t, defaultHeader,
		[]interface{}{"C-030", "Blue", "", "", "", "Done",
			"2024-03-01 08:00:00", "2024-03-10 08:00:00", "", "", ""},
	)

	svc, repo := newImportFixture()
	summary, err := svc.ImportIncidents(context.Background(), buf)
	require.NoError(t, err)

	// The row is kept, never zeroed, and the warning surfaces in the summary.
	assert.Equal(t, 1, summary.Imported)
	require.Len(t, repo.created, 1)
	assert.InDelta(t, 12960.0, repo.created[0].DurationMin, 0.01)
	require.NotEmpty(t, summary.RowWarnings)
	assert.Contains(t, summary.RowWarnings[0], string(engine.WarnImplausibleDuration))
}

func TestReferenceDurationFallsBackToAverage(t *testing.T) {
	// A month outside the table falls back to the NCAL's all-month average.
	got := referenceDuration(time.Date(2023, 6, 1, 0, 0, 0, 0, time.UTC), "Black")
	assert.InDelta(t, 41.5, got, 0.01)

	assert.Zero(t, referenceDuration(time.Date(2023, 6, 1, 0, 0, 0, 0, time.UTC), "Unknown"))
}
