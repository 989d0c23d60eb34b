package repositories

import (
	"context"
	"errors"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/aarondl/null/v8"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"helpdesk-system/internal/engine"
	"helpdesk-system/internal/entities"
	apperrors "helpdesk-system/pkg/errors"
	"helpdesk-system/pkg/types"
)

var incidentColumns = []string{
	"id", "no_case", "ncal", "site", "priority", "level", "problem", "status",
	"start_time", "end_time", "start_escalation_vendor",
	"start_pause1", "end_pause1", "start_pause2", "end_pause2",
	"duration_min", "duration_vendor_min", "total_duration_pause_min",
	"total_duration_vendor_min", "net_duration_min",
	"batch_id", "imported_at", "created_at", "updated_at",
}

type IncidentRepositoryInterface interface {
	GetIncidents(ctx context.Context, filter types.Filter) ([]entities.Incident, uint64, error)
	FindIncidentByID(ctx context.Context, id uint64) (*entities.Incident, error)
	ExistsByCaseAndStart(ctx context.Context, noCase string, startTime null.Time) (bool, error)
	CreateIncidents(ctx context.Context, incidents []entities.Incident) (int, error)
	GetForRecompute(ctx context.Context, batchID string) ([]entities.Incident, error)
	UpdateDurations(ctx context.Context, id uint64, result engine.DurationResult) error
}

type IncidentRepository struct {
	storage *pgxpool.Pool
	logger  *zap.Logger
}

func NewIncidentRepository(storage *pgxpool.Pool, logger *zap.Logger) IncidentRepositoryInterface {
	return &IncidentRepository{storage: storage, logger: logger}
}

func scanIncident(row pgx.Row) (*entities.Incident, error) {
	var i entities.Incident
	err := row.Scan(
		&i.ID, &i.NoCase, &i.NCAL, &i.Site, &i.Priority, &i.Level, &i.Problem, &i.Status,
		&i.StartTime, &i.EndTime, &i.StartEscalationVendor,
		&i.StartPause1, &i.EndPause1, &i.StartPause2, &i.EndPause2,
		&i.DurationMin, &i.DurationVendorMin, &i.TotalDurationPauseMin,
		&i.TotalDurationVendorMin, &i.NetDurationMin,
		&i.BatchID, &i.ImportedAt, &i.CreatedAt, &i.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &i, nil
}

func (r *IncidentRepository) applyFilter(b sq.SelectBuilder, filter types.Filter) sq.SelectBuilder {
	if filter.Search != "" {
		pattern := "%" + filter.Search + "%"
		b = b.Where(sq.Or{
			sq.ILike{"no_case": pattern},
			sq.ILike{"site": pattern},
			sq.ILike{"problem": pattern},
		})
	}
	for key, value := range filter.Filter {
		switch key {
		case "ncal", "status", "priority", "site", "batch_id":
			b = b.Where(sq.Eq{key: value})
		case "start_from":
			b = b.Where(sq.GtOrEq{"start_time": value})
		case "start_to":
			b = b.Where(sq.LtOrEq{"start_time": value})
		}
	}
	return b
}

func (r *IncidentRepository) GetIncidents(ctx context.Context, filter types.Filter) ([]entities.Incident, uint64, error) {
	base := sq.Select(incidentColumns...).From("incidents")
	base = r.applyFilter(base, filter)

	countBuilder := sq.Select("COUNT(*)").From("incidents")
	countBuilder = r.applyFilter(countBuilder, filter)
	countSQL, countArgs, err := countBuilder.PlaceholderFormat(sq.Dollar).ToSql()
	if err != nil {
		return nil, 0, err
	}
	var total uint64
	if err := r.storage.QueryRow(ctx, countSQL, countArgs...).Scan(&total); err != nil {
		return nil, 0, err
	}

	orderBy := "start_time DESC"
	for field, dir := range filter.Sort {
		switch field {
		case "start_time", "end_time", "duration_min", "net_duration_min", "ncal", "no_case":
			orderBy = fmt.Sprintf("%s %s", field, dir)
		}
	}
	base = base.OrderBy(orderBy)
	if filter.Limit > 0 {
		base = base.Limit(uint64(filter.Limit)).Offset(uint64(filter.Offset))
	}

	query, args, err := base.PlaceholderFormat(sq.Dollar).ToSql()
	if err != nil {
		return nil, 0, err
	}
	rows, err := r.storage.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var incidents []entities.Incident
	for rows.Next() {
		inc, err := scanIncident(rows)
		if err != nil {
			return nil, 0, err
		}
		incidents = append(incidents, *inc)
	}
	return incidents, total, rows.Err()
}

func (r *IncidentRepository) FindIncidentByID(ctx context.Context, id uint64) (*entities.Incident, error) {
	query, args, err := sq.Select(incidentColumns...).
		From("incidents").
		Where(sq.Eq{"id": id}).
		PlaceholderFormat(sq.Dollar).
		ToSql()
	if err != nil {
		return nil, err
	}
	inc, err := scanIncident(r.storage.QueryRow(ctx, query, args...))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperrors.ErrIncidentNotFound
	}
	return inc, err
}

// ExistsByCaseAndStart backs import idempotency: a row with the same case
// number and start time is a duplicate, not a new incident.
func (r *IncidentRepository) ExistsByCaseAndStart(ctx context.Context, noCase string, startTime null.Time) (bool, error) {
	query, args, err := sq.Select("1").
		From("incidents").
		Where(sq.Eq{"no_case": noCase, "start_time": startTime}).
		Limit(1).
		PlaceholderFormat(sq.Dollar).
		ToSql()
	if err != nil {
		return false, err
	}
	var one int
	err = r.storage.QueryRow(ctx, query, args...).Scan(&one)
	if errors.Is(err, pgx.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

func (r *IncidentRepository) CreateIncidents(ctx context.Context, incidents []entities.Incident) (int, error) {
	if len(incidents) == 0 {
		return 0, nil
	}

	builder := sq.Insert("incidents").Columns(
		"no_case", "ncal", "site", "priority", "level", "problem", "status",
		"start_time", "end_time", "start_escalation_vendor",
		"start_pause1", "end_pause1", "start_pause2", "end_pause2",
		"duration_min", "duration_vendor_min", "total_duration_pause_min",
		"total_duration_vendor_min", "net_duration_min",
		"batch_id", "imported_at",
	)
	for _, i := range incidents {
		builder = builder.Values(
			i.NoCase, i.NCAL, i.Site, i.Priority, i.Level, i.Problem, i.Status,
			i.StartTime, i.EndTime, i.StartEscalationVendor,
			i.StartPause1, i.EndPause1, i.StartPause2, i.EndPause2,
			i.DurationMin, i.DurationVendorMin, i.TotalDurationPauseMin,
			i.TotalDurationVendorMin, i.NetDurationMin,
			i.BatchID, i.ImportedAt,
		)
	}

	query, args, err := builder.PlaceholderFormat(sq.Dollar).ToSql()
	if err != nil {
		return 0, err
	}
	tag, err := r.storage.Exec(ctx, query, args...)
	if err != nil {
		r.logger.Error("batch incident insert failed", zap.Int("rows", len(incidents)), zap.Error(err))
		return 0, err
	}
	return int(tag.RowsAffected()), nil
}

func (r *IncidentRepository) GetForRecompute(ctx context.Context, batchID string) ([]entities.Incident, error) {
	builder := sq.Select(incidentColumns...).From("incidents").OrderBy("id")
	if batchID != "" {
		builder = builder.Where(sq.Eq{"batch_id": batchID})
	}
	query, args, err := builder.PlaceholderFormat(sq.Dollar).ToSql()
	if err != nil {
		return nil, err
	}
	rows, err := r.storage.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var incidents []entities.Incident
	for rows.Next() {
		inc, err := scanIncident(rows)
		if err != nil {
			return nil, err
		}
		incidents = append(incidents, *inc)
	}
	return incidents, rows.Err()
}

func (r *IncidentRepository) UpdateDurations(ctx context.Context, id uint64, result engine.DurationResult) error {
	query, args, err := sq.Update("incidents").
		Set("duration_min", result.GrossMinutes).
		Set("duration_vendor_min", result.VendorMinutes).
		Set("total_duration_pause_min", result.TotalPauseMinutes).
		Set("total_duration_vendor_min", result.NetVendorMinutes).
		Set("net_duration_min", result.NetMinutes).
		Set("updated_at", sq.Expr("NOW()")).
		Where(sq.Eq{"id": id}).
		PlaceholderFormat(sq.Dollar).
		ToSql()
	if err != nil {
		return err
	}
	tag, err := r.storage.Exec(ctx, query, args...)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrIncidentNotFound
	}
	return nil
}
