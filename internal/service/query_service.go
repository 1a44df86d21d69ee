package service

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"github.com/miayudatic/helpdesk/internal/domain"
	"github.com/miayudatic/helpdesk/internal/repository"
	apperrors "github.com/miayudatic/helpdesk/pkg/util"
)

// QueryService serves read-only ticket projections. It never mutates the
// store.
type QueryService struct {
	tickets repository.TicketRepository
	audit   repository.AuditRepository
}

// NewQueryService constructs the service.
func NewQueryService(tickets repository.TicketRepository, audit repository.AuditRepository) *QueryService {
	return &QueryService{tickets: tickets, audit: audit}
}

// GetTicket returns the joined detail projection for one ticket.
func (s *QueryService) GetTicket(ctx context.Context, id string) (*domain.TicketDetail, error) {
	detail, err := s.tickets.GetDetail(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("ticket", map[string]any{"ticket_id": id})
		}
		return nil, apperrors.NewStoreFailure(err)
	}
	return detail, nil
}

// ListOpenTickets returns the staff worklist, oldest report first.
func (s *QueryService) ListOpenTickets(ctx context.Context) ([]domain.TicketDetail, error) {
	status := domain.TicketStatusOpen
	return s.list(ctx, repository.TicketFilter{Status: &status, Order: repository.OrderCreatedAsc})
}

// ListAllTickets returns the dashboard list, most recent first.
func (s *QueryService) ListAllTickets(ctx context.Context) ([]domain.TicketDetail, error) {
	return s.list(ctx, repository.TicketFilter{Order: repository.OrderCreatedDesc})
}

// ListClosedTickets returns closed cases, most recently closed first.
func (s *QueryService) ListClosedTickets(ctx context.Context) ([]domain.TicketDetail, error) {
	status := domain.TicketStatusClosed
	return s.list(ctx, repository.TicketFilter{Status: &status, Order: repository.OrderClosedDesc})
}

// ListAuditTrail returns the change history of a ticket, oldest first.
func (s *QueryService) ListAuditTrail(ctx context.Context, ticketID string) ([]domain.AuditEntry, error) {
	if _, err := s.GetTicket(ctx, ticketID); err != nil {
		return nil, err
	}
	entries, err := s.audit.ListByTicket(ctx, ticketID)
	if err != nil {
		return nil, apperrors.NewStoreFailure(err)
	}
	if entries == nil {
		entries = []domain.AuditEntry{}
	}
	return entries, nil
}

func (s *QueryService) list(ctx context.Context, filter repository.TicketFilter) ([]domain.TicketDetail, error) {
	details, err := s.tickets.ListDetails(ctx, filter)
	if err != nil {
		return nil, apperrors.NewStoreFailure(err)
	}
	if details == nil {
		details = []domain.TicketDetail{}
	}
	return details, nil
}
