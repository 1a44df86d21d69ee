package service

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/miayudatic/helpdesk/internal/domain"
	"github.com/miayudatic/helpdesk/internal/repository"
)

type fakeTicketRepo struct {
	tickets      map[string]*domain.Ticket
	seq          int
	departments  *fakeDepartmentRepo
	serviceTypes *fakeServiceTypeRepo
	staff        *fakeStaffRepo
	createErr    error
}

func newFakeTicketRepo(departments *fakeDepartmentRepo, serviceTypes *fakeServiceTypeRepo, staff *fakeStaffRepo) *fakeTicketRepo {
	return &fakeTicketRepo{
		tickets:      map[string]*domain.Ticket{},
		departments:  departments,
		serviceTypes: serviceTypes,
		staff:        staff,
	}
}

// ticketBaseTime keeps fake creation times strictly increasing so ordering
// assertions do not depend on clock resolution.
var ticketBaseTime = time.Date(2026, 3, 10, 8, 0, 0, 0, time.UTC)

func (r *fakeTicketRepo) Create(_ context.Context, ticket *domain.Ticket) error {
	if r.createErr != nil {
		return r.createErr
	}
	r.seq++
	ticket.ID = fmt.Sprintf("ticket-%d", r.seq)
	ticket.CreatedAt = ticketBaseTime.Add(time.Duration(r.seq) * time.Minute)
	copied := *ticket
	r.tickets[ticket.ID] = &copied
	return nil
}

func (r *fakeTicketRepo) GetByID(_ context.Context, id string) (*domain.Ticket, error) {
	ticket, ok := r.tickets[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	copied := *ticket
	return &copied, nil
}

func (r *fakeTicketRepo) GetDetail(ctx context.Context, id string) (*domain.TicketDetail, error) {
	ticket, ok := r.tickets[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return r.buildDetail(ticket), nil
}

func (r *fakeTicketRepo) ListDetails(_ context.Context, filter repository.TicketFilter) ([]domain.TicketDetail, error) {
	var out []domain.TicketDetail
	for _, ticket := range r.tickets {
		if filter.Status != nil && ticket.Status != *filter.Status {
			continue
		}
		out = append(out, *r.buildDetail(ticket))
	}
	sort.Slice(out, func(i, j int) bool {
		switch filter.Order {
		case repository.OrderCreatedDesc:
			return out[i].CreatedAt.After(out[j].CreatedAt)
		case repository.OrderClosedDesc:
			return out[i].ClosedAt != nil && out[j].ClosedAt != nil && out[i].ClosedAt.After(*out[j].ClosedAt)
		default:
			return out[i].CreatedAt.Before(out[j].CreatedAt)
		}
	})
	return out, nil
}

func (r *fakeTicketRepo) SetAssignee(_ context.Context, ticketID, staffID string) (bool, error) {
	ticket, ok := r.tickets[ticketID]
	if !ok || ticket.Status != domain.TicketStatusOpen {
		return false, nil
	}
	ticket.AssigneeID = &staffID
	return true, nil
}

func (r *fakeTicketRepo) SetServiceType(_ context.Context, ticketID, serviceTypeID string) (bool, error) {
	ticket, ok := r.tickets[ticketID]
	if !ok {
		return false, nil
	}
	ticket.ServiceTypeID = &serviceTypeID
	return true, nil
}

func (r *fakeTicketRepo) Close(_ context.Context, ticketID, solution string, closedAt time.Time) (bool, error) {
	ticket, ok := r.tickets[ticketID]
	if !ok || ticket.Status != domain.TicketStatusOpen {
		return false, nil
	}
	ticket.Status = domain.TicketStatusClosed
	ticket.SolutionDescription = &solution
	ticket.ClosedAt = &closedAt
	return true, nil
}

func (r *fakeTicketRepo) buildDetail(ticket *domain.Ticket) *domain.TicketDetail {
	detail := &domain.TicketDetail{Ticket: *ticket}
	if r.departments != nil {
		if dept, ok := r.departments.byID[ticket.DepartmentID]; ok {
			detail.DepartmentName = dept.Name
		}
	}
	if ticket.ServiceTypeID != nil && r.serviceTypes != nil {
		if st, ok := r.serviceTypes.byID[*ticket.ServiceTypeID]; ok {
			name := st.Name
			detail.ServiceTypeName = &name
		}
	}
	if ticket.AssigneeID != nil && r.staff != nil {
		if member, ok := r.staff.byID[*ticket.AssigneeID]; ok {
			name := member.FullName()
			detail.AssigneeName = &name
		}
	}
	return detail
}

type fakeDepartmentRepo struct {
	byID map[string]domain.Department
}

func newFakeDepartmentRepo(departments ...domain.Department) *fakeDepartmentRepo {
	r := &fakeDepartmentRepo{byID: map[string]domain.Department{}}
	for _, d := range departments {
		r.byID[d.ID] = d
	}
	return r
}

func (r *fakeDepartmentRepo) GetByID(_ context.Context, id string) (*domain.Department, error) {
	dept, ok := r.byID[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return &dept, nil
}

func (r *fakeDepartmentRepo) GetByName(_ context.Context, name string) (*domain.Department, error) {
	for _, dept := range r.byID {
		if dept.Name == name {
			d := dept
			return &d, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (r *fakeDepartmentRepo) List(_ context.Context) ([]domain.Department, error) {
	out := make([]domain.Department, 0, len(r.byID))
	for _, dept := range r.byID {
		out = append(out, dept)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

type fakeServiceTypeRepo struct {
	byID map[string]domain.ServiceType
}

func newFakeServiceTypeRepo(types ...domain.ServiceType) *fakeServiceTypeRepo {
	r := &fakeServiceTypeRepo{byID: map[string]domain.ServiceType{}}
	for _, t := range types {
		r.byID[t.ID] = t
	}
	return r
}

func (r *fakeServiceTypeRepo) GetByID(_ context.Context, id string) (*domain.ServiceType, error) {
	st, ok := r.byID[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return &st, nil
}

func (r *fakeServiceTypeRepo) GetByName(_ context.Context, name string) (*domain.ServiceType, error) {
	for _, st := range r.byID {
		if st.Name == name {
			t := st
			return &t, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (r *fakeServiceTypeRepo) List(_ context.Context) ([]domain.ServiceType, error) {
	out := make([]domain.ServiceType, 0, len(r.byID))
	for _, st := range r.byID {
		out = append(out, st)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

type fakeStaffRepo struct {
	byID map[string]*domain.StaffMember
	seq  int
}

func newFakeStaffRepo(members ...domain.StaffMember) *fakeStaffRepo {
	r := &fakeStaffRepo{byID: map[string]*domain.StaffMember{}}
	for i := range members {
		m := members[i]
		r.byID[m.ID] = &m
	}
	return r
}

func (r *fakeStaffRepo) Create(_ context.Context, staff *domain.StaffMember) error {
	r.seq++
	staff.ID = fmt.Sprintf("staff-%d", r.seq)
	staff.CreatedAt = time.Now()
	copied := *staff
	r.byID[staff.ID] = &copied
	return nil
}

func (r *fakeStaffRepo) Update(_ context.Context, staff *domain.StaffMember) error {
	if _, ok := r.byID[staff.ID]; !ok {
		return pgx.ErrNoRows
	}
	copied := *staff
	r.byID[staff.ID] = &copied
	return nil
}

func (r *fakeStaffRepo) Delete(_ context.Context, id string) error {
	if _, ok := r.byID[id]; !ok {
		return pgx.ErrNoRows
	}
	delete(r.byID, id)
	return nil
}

func (r *fakeStaffRepo) GetByID(_ context.Context, id string) (*domain.StaffMember, error) {
	member, ok := r.byID[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	copied := *member
	return &copied, nil
}

func (r *fakeStaffRepo) GetByEmail(_ context.Context, email string) (*domain.StaffMember, error) {
	for _, member := range r.byID {
		if member.Email == email {
			copied := *member
			return &copied, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (r *fakeStaffRepo) GetByDocument(_ context.Context, documentNumber string) (*domain.StaffMember, error) {
	for _, member := range r.byID {
		if member.DocumentNumber == documentNumber {
			copied := *member
			return &copied, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (r *fakeStaffRepo) List(_ context.Context) ([]domain.StaffMember, error) {
	out := make([]domain.StaffMember, 0, len(r.byID))
	for _, member := range r.byID {
		out = append(out, *member)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].FirstName < out[j].FirstName })
	return out, nil
}

func (r *fakeStaffRepo) ListOptions(_ context.Context) ([]domain.StaffOption, error) {
	members, _ := r.List(context.Background())
	out := make([]domain.StaffOption, 0, len(members))
	for _, m := range members {
		out = append(out, domain.StaffOption{ID: m.ID, FullName: m.FullName()})
	}
	return out, nil
}

func (r *fakeStaffRepo) RecordLogin(_ context.Context, id string, at time.Time) error {
	member, ok := r.byID[id]
	if !ok {
		return pgx.ErrNoRows
	}
	member.LastLoginAt = &at
	return nil
}

type fakeAuditRepo struct {
	entries   []domain.AuditEntry
	seq       int
	appendErr error
}

func (r *fakeAuditRepo) Append(_ context.Context, entry *domain.AuditEntry) error {
	if r.appendErr != nil {
		return r.appendErr
	}
	r.seq++
	entry.ID = fmt.Sprintf("audit-%d", r.seq)
	entry.CreatedAt = time.Now()
	r.entries = append(r.entries, *entry)
	return nil
}

func (r *fakeAuditRepo) ListByTicket(_ context.Context, ticketID string) ([]domain.AuditEntry, error) {
	var out []domain.AuditEntry
	for _, entry := range r.entries {
		if entry.TicketID == ticketID {
			out = append(out, entry)
		}
	}
	return out, nil
}

type fakeCommentRepo struct {
	comments []domain.Comment
	authors  *fakeStaffRepo
	seq      int
}

func (r *fakeCommentRepo) Create(_ context.Context, comment *domain.Comment) error {
	r.seq++
	comment.ID = fmt.Sprintf("comment-%d", r.seq)
	comment.CreatedAt = time.Now()
	r.comments = append(r.comments, *comment)
	return nil
}

func (r *fakeCommentRepo) ListByTicket(_ context.Context, ticketID string) ([]domain.CommentWithAuthor, error) {
	var out []domain.CommentWithAuthor
	for _, comment := range r.comments {
		if comment.TicketID != ticketID {
			continue
		}
		withAuthor := domain.CommentWithAuthor{Comment: comment}
		if r.authors != nil {
			if member, ok := r.authors.byID[comment.AuthorStaffID]; ok {
				withAuthor.AuthorName = member.FullName()
			}
		}
		out = append(out, withAuthor)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

type fakeNotifier struct {
	createdCalls  int
	assignedCalls int
	closedCalls   int
	lastAssignee  *domain.StaffMember
	lastClosed    *domain.Ticket
	failCreated   error
	failAssigned  error
	failClosed    error
}

func (n *fakeNotifier) TicketCreated(_ context.Context, _ *domain.Ticket) error {
	n.createdCalls++
	return n.failCreated
}

func (n *fakeNotifier) TicketAssigned(_ context.Context, _ *domain.TicketDetail, assignee *domain.StaffMember) error {
	n.assignedCalls++
	n.lastAssignee = assignee
	return n.failAssigned
}

func (n *fakeNotifier) TicketClosed(_ context.Context, ticket *domain.Ticket, _ *domain.StaffMember) error {
	n.closedCalls++
	n.lastClosed = ticket
	return n.failClosed
}
