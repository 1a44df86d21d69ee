package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/miayudatic/helpdesk/internal/domain"
	"github.com/miayudatic/helpdesk/internal/events"
	"github.com/miayudatic/helpdesk/internal/observability"
	"github.com/miayudatic/helpdesk/internal/repository"
	apperrors "github.com/miayudatic/helpdesk/pkg/util"
)

// Notifier is the mail gateway contract consumed by the lifecycle engine.
// Sends run after the store mutation commits; a failure never rolls the
// mutation back.
type Notifier interface {
	TicketCreated(ctx context.Context, ticket *domain.Ticket) error
	TicketAssigned(ctx context.Context, detail *domain.TicketDetail, assignee *domain.StaffMember) error
	TicketClosed(ctx context.Context, ticket *domain.Ticket, assignee *domain.StaffMember) error
}

// SideEffects reports the post-commit outcome of an operation separately
// from the store result, so callers can tell "closed but mail failed"
// from "not closed".
type SideEffects struct {
	NotificationSent bool
	NotificationErr  error
}

// LifecycleService is the state machine for tickets: it validates and
// applies transitions, appends the audit trail and triggers notifications.
type LifecycleService struct {
	tickets      repository.TicketRepository
	staff        repository.StaffRepository
	departments  repository.DepartmentRepository
	serviceTypes repository.ServiceTypeRepository
	audit        repository.AuditRepository
	notifier     Notifier
	dispatcher   events.Dispatcher
	metrics      *observability.Metrics
}

// LifecycleDependencies bundles collaborators for the lifecycle engine.
type LifecycleDependencies struct {
	TicketRepo      repository.TicketRepository
	StaffRepo       repository.StaffRepository
	DepartmentRepo  repository.DepartmentRepository
	ServiceTypeRepo repository.ServiceTypeRepository
	AuditRepo       repository.AuditRepository
	Notifier        Notifier
	Dispatcher      events.Dispatcher
	Metrics         *observability.Metrics
}

// CreateTicketInput describes ticket creation payload.
type CreateTicketInput struct {
	ReportedAt    time.Time
	FirstName     string
	LastName      string
	Email         string
	Phone         string
	Description   string
	DepartmentID  string
	ServiceTypeID *string
}

// TicketPatch enumerates the only fields the generic update path may touch.
// Assignee and closure changes funnel through the same invariant checks as
// the dedicated operations.
type TicketPatch struct {
	ServiceTypeID       *string
	AssigneeID          *string
	SolutionDescription *string
}

// IsEmpty reports whether the patch carries no change.
func (p TicketPatch) IsEmpty() bool {
	return p.ServiceTypeID == nil && p.AssigneeID == nil && p.SolutionDescription == nil
}

// NewLifecycleService constructs the engine.
func NewLifecycleService(deps LifecycleDependencies) *LifecycleService {
	return &LifecycleService{
		tickets:      deps.TicketRepo,
		staff:        deps.StaffRepo,
		departments:  deps.DepartmentRepo,
		serviceTypes: deps.ServiceTypeRepo,
		audit:        deps.AuditRepo,
		notifier:     deps.Notifier,
		dispatcher:   deps.Dispatcher,
		metrics:      deps.Metrics,
	}
}

// CreateTicket registers a new open request and confirms it to the requester.
func (s *LifecycleService) CreateTicket(ctx context.Context, input CreateTicketInput) (*domain.Ticket, SideEffects, error) {
	var effects SideEffects

	input.FirstName = strings.TrimSpace(input.FirstName)
	input.LastName = strings.TrimSpace(input.LastName)
	input.Email = strings.TrimSpace(input.Email)
	input.Description = strings.TrimSpace(input.Description)
	if input.FirstName == "" || input.LastName == "" || input.Email == "" || input.Description == "" {
		return nil, effects, apperrors.NewValidationError("requester name, email and description required", nil)
	}
	if input.DepartmentID == "" {
		return nil, effects, apperrors.NewValidationError("department required", nil)
	}

	if _, err := s.departments.GetByID(ctx, input.DepartmentID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, effects, apperrors.NewInvalidReference("department", map[string]any{"department_id": input.DepartmentID})
		}
		return nil, effects, apperrors.NewStoreFailure(err)
	}
	if input.ServiceTypeID != nil {
		if _, err := s.serviceTypes.GetByID(ctx, *input.ServiceTypeID); err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return nil, effects, apperrors.NewInvalidReference("service type", map[string]any{"service_type_id": *input.ServiceTypeID})
			}
			return nil, effects, apperrors.NewStoreFailure(err)
		}
	}

	reportedAt := input.ReportedAt
	if reportedAt.IsZero() {
		reportedAt = time.Now()
	}

	ticket := &domain.Ticket{
		ReportedAt:         reportedAt,
		RequesterFirstName: input.FirstName,
		RequesterLastName:  input.LastName,
		RequesterEmail:     input.Email,
		RequesterPhone:     strings.TrimSpace(input.Phone),
		Description:        input.Description,
		DepartmentID:       input.DepartmentID,
		ServiceTypeID:      input.ServiceTypeID,
		Status:             domain.TicketStatusOpen,
	}
	if err := s.tickets.Create(ctx, ticket); err != nil {
		return nil, effects, apperrors.NewStoreFailure(err)
	}
	s.metrics.RecordTicketOpened()

	s.publishEvent(ctx, events.Event{
		Type:     events.EventTicketCreated,
		TicketID: ticket.ID,
		Payload: events.TicketCreatedPayload{
			DepartmentID:   ticket.DepartmentID,
			RequesterEmail: ticket.RequesterEmail,
		},
	})

	effects = s.notify(func() error { return s.notifier.TicketCreated(ctx, ticket) })
	return ticket, effects, nil
}

// AssignTicket binds a staff member to an open ticket. Reassignment is
// allowed; closure is not. Exactly one audit entry is appended per
// successful assignment.
func (s *LifecycleService) AssignTicket(ctx context.Context, ticketID, staffID string) (*domain.Ticket, SideEffects, error) {
	var effects SideEffects

	assignee, err := s.staff.GetByID(ctx, staffID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, effects, apperrors.NewNotFound("staff member", map[string]any{"staff_id": staffID})
		}
		return nil, effects, apperrors.NewStoreFailure(err)
	}

	ticket, err := s.getTicket(ctx, ticketID)
	if err != nil {
		return nil, effects, err
	}
	if ticket.IsClosed() {
		return nil, effects, apperrors.NewInvalidState("ticket already closed", map[string]any{"ticket_id": ticketID})
	}

	ok, err := s.tickets.SetAssignee(ctx, ticketID, staffID)
	if err != nil {
		return nil, effects, apperrors.NewStoreFailure(err)
	}
	if !ok {
		// lost a race with a concurrent close
		return nil, effects, apperrors.NewInvalidState("ticket already closed", map[string]any{"ticket_id": ticketID})
	}
	ticket.AssigneeID = &assignee.ID

	entry := &domain.AuditEntry{
		TicketID:     ticket.ID,
		ActorStaffID: &assignee.ID,
		ChangeType:   domain.ChangeTypeAssignment,
		Detail:       fmt.Sprintf("Ticket asignado a %s", assignee.FullName()),
	}
	if err := s.audit.Append(ctx, entry); err != nil {
		// the assignment is already committed; the trail gap is surfaced
		return ticket, effects, apperrors.NewStoreFailure(err)
	}

	s.publishEvent(ctx, events.Event{
		Type:         events.EventTicketAssigned,
		TicketID:     ticket.ID,
		ActorStaffID: &assignee.ID,
		Payload: events.TicketAssignedPayload{
			AssigneeStaffID: assignee.ID,
			AssigneeName:    assignee.FullName(),
		},
	})

	effects = s.notify(func() error {
		detail, err := s.tickets.GetDetail(ctx, ticketID)
		if err != nil {
			return err
		}
		return s.notifier.TicketAssigned(ctx, detail, assignee)
	})
	return ticket, effects, nil
}

// CloseTicket records the solution and moves the ticket to its terminal
// state. Closure is strictly terminal: re-closing yields INVALID_STATE
// rather than repeating side effects.
func (s *LifecycleService) CloseTicket(ctx context.Context, ticketID, solution string) (*domain.Ticket, SideEffects, error) {
	var effects SideEffects

	solution = strings.TrimSpace(solution)
	if solution == "" {
		return nil, effects, apperrors.NewValidationError("solution description required", nil)
	}

	ticket, err := s.getTicket(ctx, ticketID)
	if err != nil {
		return nil, effects, err
	}
	if ticket.IsClosed() {
		return nil, effects, apperrors.NewInvalidState("ticket already closed", map[string]any{"ticket_id": ticketID})
	}

	closedAt := time.Now()
	ok, err := s.tickets.Close(ctx, ticketID, solution, closedAt)
	if err != nil {
		return nil, effects, apperrors.NewStoreFailure(err)
	}
	if !ok {
		return nil, effects, apperrors.NewInvalidState("ticket already closed", map[string]any{"ticket_id": ticketID})
	}
	ticket.Status = domain.TicketStatusClosed
	ticket.SolutionDescription = &solution
	ticket.ClosedAt = &closedAt
	s.metrics.RecordTicketClosed()

	entry := &domain.AuditEntry{
		TicketID:     ticket.ID,
		ActorStaffID: ticket.AssigneeID,
		ChangeType:   domain.ChangeTypeClosure,
		Detail:       fmt.Sprintf("Caso cerrado: %s", solution),
	}
	if err := s.audit.Append(ctx, entry); err != nil {
		return ticket, effects, apperrors.NewStoreFailure(err)
	}

	s.publishEvent(ctx, events.Event{
		Type:         events.EventTicketClosed,
		TicketID:     ticket.ID,
		ActorStaffID: ticket.AssigneeID,
		Payload:      events.TicketClosedPayload{SolutionDescription: solution},
	})

	effects = s.notify(func() error {
		assignee := s.lookupAssignee(ctx, ticket)
		return s.notifier.TicketClosed(ctx, ticket, assignee)
	})
	return ticket, effects, nil
}

// ApplyPatch is the generic partial-update path. It accepts only the legal
// mutable fields and routes assignee and closure changes through the
// dedicated operations so every invariant holds.
func (s *LifecycleService) ApplyPatch(ctx context.Context, ticketID string, patch TicketPatch) (*domain.Ticket, SideEffects, error) {
	var effects SideEffects

	if patch.IsEmpty() {
		return nil, effects, apperrors.NewValidationError("no fields to update", nil)
	}

	if patch.ServiceTypeID != nil {
		if _, err := s.serviceTypes.GetByID(ctx, *patch.ServiceTypeID); err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return nil, effects, apperrors.NewInvalidReference("service type", map[string]any{"service_type_id": *patch.ServiceTypeID})
			}
			return nil, effects, apperrors.NewStoreFailure(err)
		}
		ok, err := s.tickets.SetServiceType(ctx, ticketID, *patch.ServiceTypeID)
		if err != nil {
			return nil, effects, apperrors.NewStoreFailure(err)
		}
		if !ok {
			return nil, effects, apperrors.NewNotFound("ticket", map[string]any{"ticket_id": ticketID})
		}
	}

	var notifyErrs []error
	if patch.AssigneeID != nil {
		_, assignEffects, err := s.AssignTicket(ctx, ticketID, *patch.AssigneeID)
		if err != nil {
			return nil, effects, err
		}
		if assignEffects.NotificationErr != nil {
			notifyErrs = append(notifyErrs, assignEffects.NotificationErr)
		}
		effects.NotificationSent = effects.NotificationSent || assignEffects.NotificationSent
	}
	if patch.SolutionDescription != nil {
		_, closeEffects, err := s.CloseTicket(ctx, ticketID, *patch.SolutionDescription)
		if err != nil {
			return nil, effects, err
		}
		if closeEffects.NotificationErr != nil {
			notifyErrs = append(notifyErrs, closeEffects.NotificationErr)
		}
		effects.NotificationSent = effects.NotificationSent || closeEffects.NotificationSent
	}
	effects.NotificationErr = errors.Join(notifyErrs...)

	ticket, err := s.getTicket(ctx, ticketID)
	if err != nil {
		return nil, effects, err
	}
	return ticket, effects, nil
}

func (s *LifecycleService) getTicket(ctx context.Context, ticketID string) (*domain.Ticket, error) {
	ticket, err := s.tickets.GetByID(ctx, ticketID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("ticket", map[string]any{"ticket_id": ticketID})
		}
		return nil, apperrors.NewStoreFailure(err)
	}
	return ticket, nil
}

func (s *LifecycleService) lookupAssignee(ctx context.Context, ticket *domain.Ticket) *domain.StaffMember {
	if ticket.AssigneeID == nil {
		return nil
	}
	assignee, err := s.staff.GetByID(ctx, *ticket.AssigneeID)
	if err != nil {
		return nil
	}
	return assignee
}

func (s *LifecycleService) notify(send func() error) SideEffects {
	if s.notifier == nil {
		return SideEffects{}
	}
	if err := send(); err != nil {
		s.metrics.RecordNotification(false)
		return SideEffects{NotificationErr: apperrors.NewNotificationFailure(err)}
	}
	s.metrics.RecordNotification(true)
	return SideEffects{NotificationSent: true}
}

func (s *LifecycleService) publishEvent(ctx context.Context, event events.Event) {
	if s.dispatcher == nil {
		return
	}
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}
	_ = s.dispatcher.Publish(ctx, event)
}
