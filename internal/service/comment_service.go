package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/miayudatic/helpdesk/internal/domain"
	"github.com/miayudatic/helpdesk/internal/events"
	"github.com/miayudatic/helpdesk/internal/repository"
	apperrors "github.com/miayudatic/helpdesk/pkg/util"
)

// CommentService manages staff comments attached to tickets.
type CommentService struct {
	comments   repository.CommentRepository
	tickets    repository.TicketRepository
	dispatcher events.Dispatcher
}

// NewCommentService constructs the service.
func NewCommentService(comments repository.CommentRepository, tickets repository.TicketRepository, dispatcher events.Dispatcher) *CommentService {
	return &CommentService{comments: comments, tickets: tickets, dispatcher: dispatcher}
}

// AddComment appends a staff comment to an existing ticket.
func (s *CommentService) AddComment(ctx context.Context, ticketID, authorStaffID, body string) (*domain.Comment, error) {
	body = strings.TrimSpace(body)
	if body == "" {
		return nil, apperrors.NewValidationError("comment body required", nil)
	}

	if _, err := s.tickets.GetByID(ctx, ticketID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("ticket", map[string]any{"ticket_id": ticketID})
		}
		return nil, apperrors.NewStoreFailure(err)
	}

	comment := &domain.Comment{
		TicketID:      ticketID,
		AuthorStaffID: authorStaffID,
		Body:          body,
	}
	if err := s.comments.Create(ctx, comment); err != nil {
		return nil, apperrors.NewStoreFailure(err)
	}

	if s.dispatcher != nil {
		_ = s.dispatcher.Publish(ctx, events.Event{
			ID:           uuid.NewString(),
			Type:         events.EventTicketCommented,
			TicketID:     ticketID,
			ActorStaffID: &authorStaffID,
			Timestamp:    time.Now(),
			Payload:      events.TicketCommentedPayload{CommentID: comment.ID},
		})
	}
	return comment, nil
}

// ListComments returns a ticket's comments, newest first.
func (s *CommentService) ListComments(ctx context.Context, ticketID string) ([]domain.CommentWithAuthor, error) {
	if _, err := s.tickets.GetByID(ctx, ticketID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("ticket", map[string]any{"ticket_id": ticketID})
		}
		return nil, apperrors.NewStoreFailure(err)
	}
	comments, err := s.comments.ListByTicket(ctx, ticketID)
	if err != nil {
		return nil, apperrors.NewStoreFailure(err)
	}
	if comments == nil {
		comments = []domain.CommentWithAuthor{}
	}
	return comments, nil
}
