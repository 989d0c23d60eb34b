package repositories

import (
	"context"
	"errors"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"helpdesk-system/internal/entities"
	apperrors "helpdesk-system/pkg/errors"
	"helpdesk-system/pkg/types"
)

var ticketColumns = []string{
	"id", "no_ticket", "customer_id", "name", "category", "status", "open_by",
	"open_time", "close_time", "handling_duration_min", "created_at", "updated_at",
}

type TicketRepositoryInterface interface {
	GetTickets(ctx context.Context, filter types.Filter) ([]entities.Ticket, uint64, error)
	FindTicketByID(ctx context.Context, id uint64) (*entities.Ticket, error)
	GetAllTickets(ctx context.Context) ([]entities.Ticket, error)
}

type TicketRepository struct {
	storage *pgxpool.Pool
	logger  *zap.Logger
}

func NewTicketRepository(storage *pgxpool.Pool, logger *zap.Logger) TicketRepositoryInterface {
	return &TicketRepository{storage: storage, logger: logger}
}

func scanTicket(row pgx.Row) (*entities.Ticket, error) {
	var t entities.Ticket
	err := row.Scan(
		&t.ID, &t.NoTicket, &t.CustomerID, &t.Name, &t.Category, &t.Status, &t.OpenBy,
		&t.OpenTime, &t.CloseTime, &t.HandlingDurationMin, &t.CreatedAt, &t.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func (r *TicketRepository) applyFilter(b sq.SelectBuilder, filter types.Filter) sq.SelectBuilder {
	if filter.Search != "" {
		pattern := "%" + filter.Search + "%"
		b = b.Where(sq.Or{
			sq.ILike{"no_ticket": pattern},
			sq.ILike{"name": pattern},
			sq.ILike{"customer_id": pattern},
		})
	}
	for key, value := range filter.Filter {
		switch key {
		case "status", "category", "open_by":
			b = b.Where(sq.Eq{key: value})
		case "open_from":
			b = b.Where(sq.GtOrEq{"open_time": value})
		case "open_to":
			b = b.Where(sq.LtOrEq{"open_time": value})
		}
	}
	return b
}

func (r *TicketRepository) GetTickets(ctx context.Context, filter types.Filter) ([]entities.Ticket, uint64, error) {
	countBuilder := r.applyFilter(sq.Select("COUNT(*)").From("tickets"), filter)
	countSQL, countArgs, err := countBuilder.PlaceholderFormat(sq.Dollar).ToSql()
	if err != nil {
		return nil, 0, err
	}
	var total uint64
	if err := r.storage.QueryRow(ctx, countSQL, countArgs...).Scan(&total); err != nil {
		return nil, 0, err
	}

	base := r.applyFilter(sq.Select(ticketColumns...).From("tickets"), filter)
	orderBy := "open_time DESC"
	for field, dir := range filter.Sort {
		switch field {
		case "open_time", "close_time", "no_ticket", "status":
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

	var tickets []entities.Ticket
	for rows.Next() {
		t, err := scanTicket(rows)
		if err != nil {
			return nil, 0, err
		}
		tickets = append(tickets, *t)
	}
	return tickets, total, rows.Err()
}

func (r *TicketRepository) FindTicketByID(ctx context.Context, id uint64) (*entities.Ticket, error) {
	query, args, err := sq.Select(ticketColumns...).
		From("tickets").
		Where(sq.Eq{"id": id}).
		PlaceholderFormat(sq.Dollar).
		ToSql()
	if err != nil {
		return nil, err
	}
	t, err := scanTicket(r.storage.QueryRow(ctx, query, args...))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperrors.ErrTicketNotFound
	}
	return t, err
}

// GetAllTickets feeds backlog statistics; classification happens in the
// service, not in SQL, so that one implementation of the rules exists.
func (r *TicketRepository) GetAllTickets(ctx context.Context) ([]entities.Ticket, error) {
	query, args, err := sq.Select(ticketColumns...).From("tickets").OrderBy("id").
		PlaceholderFormat(sq.Dollar).ToSql()
	if err != nil {
		return nil, err
	}
	rows, err := r.storage.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tickets []entities.Ticket
	for rows.Next() {
		t, err := scanTicket(rows)
		if err != nil {
			return nil, err
		}
		tickets = append(tickets, *t)
	}
	return tickets, rows.Err()
}
