package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/miayudatic/helpdesk/internal/domain"
	"github.com/miayudatic/helpdesk/internal/events"
	"github.com/miayudatic/helpdesk/internal/observability"
	apperrors "github.com/miayudatic/helpdesk/pkg/util"
)

type lifecycleFixture struct {
	tickets      *fakeTicketRepo
	staff        *fakeStaffRepo
	departments  *fakeDepartmentRepo
	serviceTypes *fakeServiceTypeRepo
	audit        *fakeAuditRepo
	notifier     *fakeNotifier
	published    *[]events.Event
	metrics      *observability.Metrics
	svc          *LifecycleService
}

func newLifecycleFixture() *lifecycleFixture {
	departments := newFakeDepartmentRepo(domain.Department{ID: "dept-it", Name: "Informática"})
	serviceTypes := newFakeServiceTypeRepo(
		domain.ServiceType{ID: "type-hw", Name: "Hardware"},
		domain.ServiceType{ID: "type-sw", Name: "Software"},
	)
	staff := newFakeStaffRepo(
		domain.StaffMember{ID: "tech-1", FirstName: "Carlos", LastName: "Ruiz", Email: "carlos@example.org", Role: domain.StaffRoleTechnician},
		domain.StaffMember{ID: "tech-2", FirstName: "Lucía", LastName: "Mora", Email: "lucia@example.org", Role: domain.StaffRoleTechnician},
	)
	tickets := newFakeTicketRepo(departments, serviceTypes, staff)
	audit := &fakeAuditRepo{}
	notifier := &fakeNotifier{}

	dispatcher := events.NewInMemoryDispatcher()
	published := &[]events.Event{}
	record := func(_ context.Context, event events.Event) error {
		*published = append(*published, event)
		return nil
	}
	for _, eventType := range []events.EventType{
		events.EventTicketCreated,
		events.EventTicketAssigned,
		events.EventTicketClosed,
	} {
		dispatcher.Subscribe(eventType, record)
	}

	metrics := observability.NewMetrics()
	svc := NewLifecycleService(LifecycleDependencies{
		TicketRepo:      tickets,
		StaffRepo:       staff,
		DepartmentRepo:  departments,
		ServiceTypeRepo: serviceTypes,
		AuditRepo:       audit,
		Notifier:        notifier,
		Dispatcher:      dispatcher,
		Metrics:         metrics,
	})

	return &lifecycleFixture{
		tickets:      tickets,
		staff:        staff,
		departments:  departments,
		serviceTypes: serviceTypes,
		audit:        audit,
		notifier:     notifier,
		published:    published,
		metrics:      metrics,
		svc:          svc,
	}
}

func (f *lifecycleFixture) createOpenTicket(t *testing.T) *domain.Ticket {
	t.Helper()
	ticket, _, err := f.svc.CreateTicket(context.Background(), CreateTicketInput{
		FirstName:    "Ana",
		LastName:     "Gómez",
		Email:        "ana@example.org",
		Phone:        "3001234567",
		Description:  "La impresora del aula 201 no enciende",
		DepartmentID: "dept-it",
	})
	require.NoError(t, err)
	return ticket
}

func TestCreateTicket(t *testing.T) {
	t.Run("valid request opens a ticket and confirms the requester", func(t *testing.T) {
		f := newLifecycleFixture()

		ticket, effects, err := f.svc.CreateTicket(context.Background(), CreateTicketInput{
			FirstName:    "Ana",
			LastName:     "Gómez",
			Email:        "ana@example.org",
			Description:  "La impresora no enciende",
			DepartmentID: "dept-it",
		})

		require.NoError(t, err)
		assert.NotEmpty(t, ticket.ID)
		assert.Equal(t, domain.TicketStatusOpen, ticket.Status)
		assert.False(t, ticket.ReportedAt.IsZero())
		assert.Nil(t, ticket.AssigneeID)
		assert.Nil(t, ticket.ClosedAt)

		assert.True(t, effects.NotificationSent)
		assert.NoError(t, effects.NotificationErr)
		assert.Equal(t, 1, f.notifier.createdCalls)

		require.Len(t, *f.published, 1)
		assert.Equal(t, events.EventTicketCreated, (*f.published)[0].Type)
	})

	t.Run("keeps the reported date supplied by the requester", func(t *testing.T) {
		f := newLifecycleFixture()
		reportedAt := time.Date(2026, 3, 10, 8, 30, 0, 0, time.UTC)

		ticket, _, err := f.svc.CreateTicket(context.Background(), CreateTicketInput{
			ReportedAt:   reportedAt,
			FirstName:    "Ana",
			LastName:     "Gómez",
			Email:        "ana@example.org",
			Description:  "Sin acceso a la red",
			DepartmentID: "dept-it",
		})

		require.NoError(t, err)
		assert.Equal(t, reportedAt, ticket.ReportedAt)
	})

	t.Run("rejects missing requester fields", func(t *testing.T) {
		f := newLifecycleFixture()

		_, _, err := f.svc.CreateTicket(context.Background(), CreateTicketInput{
			FirstName:    "Ana",
			Email:        "ana@example.org",
			DepartmentID: "dept-it",
		})

		assert.True(t, apperrors.IsCode(err, "VALIDATION_FAILED"))
		assert.Zero(t, f.notifier.createdCalls)
	})

	t.Run("rejects an unknown department", func(t *testing.T) {
		f := newLifecycleFixture()

		_, _, err := f.svc.CreateTicket(context.Background(), CreateTicketInput{
			FirstName:    "Ana",
			LastName:     "Gómez",
			Email:        "ana@example.org",
			Description:  "Sin acceso",
			DepartmentID: "dept-unknown",
		})

		assert.True(t, apperrors.IsCode(err, "INVALID_REFERENCE"))
	})

	t.Run("rejects an unknown service type", func(t *testing.T) {
		f := newLifecycleFixture()
		unknown := "type-unknown"

		_, _, err := f.svc.CreateTicket(context.Background(), CreateTicketInput{
			FirstName:     "Ana",
			LastName:      "Gómez",
			Email:         "ana@example.org",
			Description:   "Sin acceso",
			DepartmentID:  "dept-it",
			ServiceTypeID: &unknown,
		})

		assert.True(t, apperrors.IsCode(err, "INVALID_REFERENCE"))
	})

	t.Run("mail failure does not undo the stored ticket", func(t *testing.T) {
		f := newLifecycleFixture()
		f.notifier.failCreated = errors.New("smtp down")

		ticket, effects, err := f.svc.CreateTicket(context.Background(), CreateTicketInput{
			FirstName:    "Ana",
			LastName:     "Gómez",
			Email:        "ana@example.org",
			Description:  "Sin acceso",
			DepartmentID: "dept-it",
		})

		require.NoError(t, err)
		assert.False(t, effects.NotificationSent)
		assert.True(t, apperrors.IsCode(effects.NotificationErr, "NOTIFICATION_FAILED"))

		stored, getErr := f.tickets.GetByID(context.Background(), ticket.ID)
		require.NoError(t, getErr)
		assert.Equal(t, domain.TicketStatusOpen, stored.Status)
	})
}

func TestAssignTicket(t *testing.T) {
	t.Run("binds staff and appends exactly one audit entry", func(t *testing.T) {
		f := newLifecycleFixture()
		ticket := f.createOpenTicket(t)

		updated, effects, err := f.svc.AssignTicket(context.Background(), ticket.ID, "tech-1")

		require.NoError(t, err)
		require.NotNil(t, updated.AssigneeID)
		assert.Equal(t, "tech-1", *updated.AssigneeID)

		require.Len(t, f.audit.entries, 1)
		entry := f.audit.entries[0]
		assert.Equal(t, domain.ChangeTypeAssignment, entry.ChangeType)
		assert.Equal(t, "Ticket asignado a Carlos Ruiz", entry.Detail)
		require.NotNil(t, entry.ActorStaffID)
		assert.Equal(t, "tech-1", *entry.ActorStaffID)

		assert.True(t, effects.NotificationSent)
		assert.Equal(t, 1, f.notifier.assignedCalls)
	})

	t.Run("reassignment replaces the assignee and extends the trail", func(t *testing.T) {
		f := newLifecycleFixture()
		ticket := f.createOpenTicket(t)

		_, _, err := f.svc.AssignTicket(context.Background(), ticket.ID, "tech-1")
		require.NoError(t, err)
		updated, _, err := f.svc.AssignTicket(context.Background(), ticket.ID, "tech-2")
		require.NoError(t, err)

		require.NotNil(t, updated.AssigneeID)
		assert.Equal(t, "tech-2", *updated.AssigneeID)
		assert.Len(t, f.audit.entries, 2)
		assert.Equal(t, "Ticket asignado a Lucía Mora", f.audit.entries[1].Detail)
	})

	t.Run("unknown staff member", func(t *testing.T) {
		f := newLifecycleFixture()
		ticket := f.createOpenTicket(t)

		_, _, err := f.svc.AssignTicket(context.Background(), ticket.ID, "tech-ghost")

		assert.True(t, apperrors.IsCode(err, "NOT_FOUND"))
		assert.Empty(t, f.audit.entries)
		assert.Zero(t, f.notifier.assignedCalls)
	})

	t.Run("unknown ticket", func(t *testing.T) {
		f := newLifecycleFixture()

		_, _, err := f.svc.AssignTicket(context.Background(), "ticket-ghost", "tech-1")

		assert.True(t, apperrors.IsCode(err, "NOT_FOUND"))
	})

	t.Run("closed ticket cannot be assigned", func(t *testing.T) {
		f := newLifecycleFixture()
		ticket := f.createOpenTicket(t)
		_, _, err := f.svc.CloseTicket(context.Background(), ticket.ID, "Cable reemplazado")
		require.NoError(t, err)
		auditBefore := len(f.audit.entries)

		_, _, err = f.svc.AssignTicket(context.Background(), ticket.ID, "tech-1")

		assert.True(t, apperrors.IsCode(err, "INVALID_STATE"))
		assert.Len(t, f.audit.entries, auditBefore)
		assert.Zero(t, f.notifier.assignedCalls)

		stored, getErr := f.tickets.GetByID(context.Background(), ticket.ID)
		require.NoError(t, getErr)
		assert.Nil(t, stored.AssigneeID)
	})

	t.Run("audit append failure surfaces but the assignment persists", func(t *testing.T) {
		f := newLifecycleFixture()
		ticket := f.createOpenTicket(t)
		f.audit.appendErr = errors.New("disk full")

		updated, _, err := f.svc.AssignTicket(context.Background(), ticket.ID, "tech-1")

		assert.True(t, apperrors.IsCode(err, "STORE_FAILURE"))
		require.NotNil(t, updated)

		stored, getErr := f.tickets.GetByID(context.Background(), ticket.ID)
		require.NoError(t, getErr)
		require.NotNil(t, stored.AssigneeID)
		assert.Equal(t, "tech-1", *stored.AssigneeID)
	})
}

func TestCloseTicket(t *testing.T) {
	t.Run("records the solution and notifies requester and assignee", func(t *testing.T) {
		f := newLifecycleFixture()
		ticket := f.createOpenTicket(t)
		_, _, err := f.svc.AssignTicket(context.Background(), ticket.ID, "tech-1")
		require.NoError(t, err)

		closed, effects, err := f.svc.CloseTicket(context.Background(), ticket.ID, "Cable de poder reemplazado")

		require.NoError(t, err)
		assert.Equal(t, domain.TicketStatusClosed, closed.Status)
		require.NotNil(t, closed.SolutionDescription)
		assert.Equal(t, "Cable de poder reemplazado", *closed.SolutionDescription)
		require.NotNil(t, closed.ClosedAt)

		require.Len(t, f.audit.entries, 2)
		entry := f.audit.entries[1]
		assert.Equal(t, domain.ChangeTypeClosure, entry.ChangeType)
		assert.Equal(t, "Caso cerrado: Cable de poder reemplazado", entry.Detail)

		assert.True(t, effects.NotificationSent)
		assert.Equal(t, 1, f.notifier.closedCalls)
	})

	t.Run("empty solution is rejected before any mutation", func(t *testing.T) {
		f := newLifecycleFixture()
		ticket := f.createOpenTicket(t)

		_, _, err := f.svc.CloseTicket(context.Background(), ticket.ID, "   ")

		assert.True(t, apperrors.IsCode(err, "VALIDATION_FAILED"))
		stored, getErr := f.tickets.GetByID(context.Background(), ticket.ID)
		require.NoError(t, getErr)
		assert.Equal(t, domain.TicketStatusOpen, stored.Status)
	})

	t.Run("closing twice yields invalid state without repeating side effects", func(t *testing.T) {
		f := newLifecycleFixture()
		ticket := f.createOpenTicket(t)
		_, _, err := f.svc.CloseTicket(context.Background(), ticket.ID, "Reinstalado el controlador")
		require.NoError(t, err)

		_, _, err = f.svc.CloseTicket(context.Background(), ticket.ID, "Otra solución")

		assert.True(t, apperrors.IsCode(err, "INVALID_STATE"))
		assert.Equal(t, 1, f.notifier.closedCalls)
		assert.Len(t, f.audit.entries, 1)

		stored, getErr := f.tickets.GetByID(context.Background(), ticket.ID)
		require.NoError(t, getErr)
		assert.Equal(t, "Reinstalado el controlador", *stored.SolutionDescription)
	})

	t.Run("mail failure leaves the ticket closed", func(t *testing.T) {
		f := newLifecycleFixture()
		ticket := f.createOpenTicket(t)
		f.notifier.failClosed = errors.New("connection refused")

		closed, effects, err := f.svc.CloseTicket(context.Background(), ticket.ID, "Equipo reiniciado")

		require.NoError(t, err)
		assert.Equal(t, domain.TicketStatusClosed, closed.Status)
		assert.False(t, effects.NotificationSent)
		assert.True(t, apperrors.IsCode(effects.NotificationErr, "NOTIFICATION_FAILED"))

		stored, getErr := f.tickets.GetByID(context.Background(), ticket.ID)
		require.NoError(t, getErr)
		assert.Equal(t, domain.TicketStatusClosed, stored.Status)
	})
}

func TestApplyPatch(t *testing.T) {
	t.Run("empty patch is rejected", func(t *testing.T) {
		f := newLifecycleFixture()
		ticket := f.createOpenTicket(t)

		_, _, err := f.svc.ApplyPatch(context.Background(), ticket.ID, TicketPatch{})

		assert.True(t, apperrors.IsCode(err, "VALIDATION_FAILED"))
	})

	t.Run("sets the service type", func(t *testing.T) {
		f := newLifecycleFixture()
		ticket := f.createOpenTicket(t)
		serviceType := "type-hw"

		updated, _, err := f.svc.ApplyPatch(context.Background(), ticket.ID, TicketPatch{ServiceTypeID: &serviceType})

		require.NoError(t, err)
		require.NotNil(t, updated.ServiceTypeID)
		assert.Equal(t, "type-hw", *updated.ServiceTypeID)
	})

	t.Run("unknown service type is rejected", func(t *testing.T) {
		f := newLifecycleFixture()
		ticket := f.createOpenTicket(t)
		serviceType := "type-ghost"

		_, _, err := f.svc.ApplyPatch(context.Background(), ticket.ID, TicketPatch{ServiceTypeID: &serviceType})

		assert.True(t, apperrors.IsCode(err, "INVALID_REFERENCE"))
	})

	t.Run("assignment and closure funnel through the state machine", func(t *testing.T) {
		f := newLifecycleFixture()
		ticket := f.createOpenTicket(t)
		assignee := "tech-1"
		solution := "Disco duro reemplazado"

		updated, effects, err := f.svc.ApplyPatch(context.Background(), ticket.ID, TicketPatch{
			AssigneeID:          &assignee,
			SolutionDescription: &solution,
		})

		require.NoError(t, err)
		assert.Equal(t, domain.TicketStatusClosed, updated.Status)
		require.NotNil(t, updated.AssigneeID)
		assert.Equal(t, "tech-1", *updated.AssigneeID)
		assert.True(t, effects.NotificationSent)

		require.Len(t, f.audit.entries, 2)
		assert.Equal(t, domain.ChangeTypeAssignment, f.audit.entries[0].ChangeType)
		assert.Equal(t, domain.ChangeTypeClosure, f.audit.entries[1].ChangeType)
	})

	t.Run("patching the assignee of a closed ticket fails", func(t *testing.T) {
		f := newLifecycleFixture()
		ticket := f.createOpenTicket(t)
		_, _, err := f.svc.CloseTicket(context.Background(), ticket.ID, "Resuelto")
		require.NoError(t, err)
		assignee := "tech-1"

		_, _, err = f.svc.ApplyPatch(context.Background(), ticket.ID, TicketPatch{AssigneeID: &assignee})

		assert.True(t, apperrors.IsCode(err, "INVALID_STATE"))
	})

	t.Run("collects notification failures from both steps", func(t *testing.T) {
		f := newLifecycleFixture()
		ticket := f.createOpenTicket(t)
		f.notifier.failAssigned = errors.New("smtp down")
		f.notifier.failClosed = errors.New("smtp down")
		assignee := "tech-1"
		solution := "Resuelto remotamente"

		updated, effects, err := f.svc.ApplyPatch(context.Background(), ticket.ID, TicketPatch{
			AssigneeID:          &assignee,
			SolutionDescription: &solution,
		})

		require.NoError(t, err)
		assert.Equal(t, domain.TicketStatusClosed, updated.Status)
		assert.False(t, effects.NotificationSent)
		require.Error(t, effects.NotificationErr)
	})
}

func TestLifecycleCounters(t *testing.T) {
	f := newLifecycleFixture()

	ticket := f.createOpenTicket(t)
	_, _, err := f.svc.AssignTicket(context.Background(), ticket.ID, "tech-1")
	require.NoError(t, err)

	f.notifier.failClosed = errors.New("smtp down")
	_, effects, err := f.svc.CloseTicket(context.Background(), ticket.ID, "Resuelto")
	require.NoError(t, err)
	require.Error(t, effects.NotificationErr)

	snap := f.metrics.Snapshot()
	assert.Equal(t, int64(1), snap["tickets_opened"])
	assert.Equal(t, int64(1), snap["tickets_closed"])
	assert.Equal(t, int64(2), snap["mail_sent"])
	assert.Equal(t, int64(1), snap["mail_failed"])
}
