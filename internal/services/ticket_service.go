package services

import (
	"context"
	"time"

	"go.uber.org/zap"

	"helpdesk-system/internal/dto"
	"helpdesk-system/internal/engine"
	"helpdesk-system/internal/entities"
	"helpdesk-system/internal/repositories"
	"helpdesk-system/pkg/types"
	"helpdesk-system/pkg/utils"
)

type TicketServiceInterface interface {
	GetTickets(ctx context.Context, filter types.Filter, now time.Time) (*dto.TicketListDTO, error)
	FindTicket(ctx context.Context, id uint64, now time.Time) (*dto.TicketDTO, error)
}

type ticketService struct {
	ticketRepo repositories.TicketRepositoryInterface
	calc       *engine.Calculator
	logger     *zap.Logger
}

func NewTicketService(
	ticketRepo repositories.TicketRepositoryInterface,
	calc *engine.Calculator,
	logger *zap.Logger,
) TicketServiceInterface {
	return &ticketService{ticketRepo: ticketRepo, calc: calc, logger: logger}
}

func (s *ticketService) GetTickets(ctx context.Context, filter types.Filter, now time.Time) (*dto.TicketListDTO, error) {
	tickets, total, err := s.ticketRepo.GetTickets(ctx, filter)
	if err != nil {
		return nil, err
	}

	list := make([]dto.TicketDTO, 0, len(tickets))
	for _, ticket := range tickets {
		list = append(list, toTicketDTO(s.calc, ticket, now))
	}
	return &dto.TicketListDTO{List: list, Total: total}, nil
}

func (s *ticketService) FindTicket(ctx context.Context, id uint64, now time.Time) (*dto.TicketDTO, error) {
	ticket, err := s.ticketRepo.FindTicketByID(ctx, id)
	if err != nil {
		return nil, err
	}
	out := toTicketDTO(s.calc, *ticket, now)
	return &out, nil
}

func toTicketDTO(calc *engine.Calculator, ticket entities.Ticket, now time.Time) dto.TicketDTO {
	annotation := calc.AnnotateTicket(ticket.Tracked(), now)

	out := dto.TicketDTO{
		ID:         ticket.ID,
		NoTicket:   ticket.NoTicket,
		CustomerID: ticket.CustomerID.String,
		Name:       ticket.Name.String,
		Category:   ticket.Category.String,
		Status:     ticket.Status.String,
		OpenBy:     ticket.OpenBy.String,

		OpenTime:  nullTimeToPtr(ticket.OpenTime),
		CloseTime: nullTimeToPtr(ticket.CloseTime),

		DurationMin: annotation.Duration.NetMinutes,
		DurationHMS: utils.FormatMinutesHMS(annotation.Duration.NetMinutes),
		State:       annotation.State,
	}
	if annotation.State == engine.TicketBacklog {
		out.AgeHours = round2(ticket.AgeHours(now))
	}
	return out
}
