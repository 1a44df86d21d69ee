package repository

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/miayudatic/helpdesk/internal/domain"
)

// TicketListOrder selects the projection sort for list queries.
type TicketListOrder string

const (
	OrderCreatedAsc  TicketListOrder = "created_asc"
	OrderCreatedDesc TicketListOrder = "created_desc"
	OrderClosedDesc  TicketListOrder = "closed_desc"
)

// TicketFilter captures projection list parameters.
type TicketFilter struct {
	Status *domain.TicketStatus
	Order  TicketListOrder
}

// TicketRepository encapsulates ticket persistence.
type TicketRepository interface {
	Create(ctx context.Context, ticket *domain.Ticket) error
	GetByID(ctx context.Context, id string) (*domain.Ticket, error)
	GetDetail(ctx context.Context, id string) (*domain.TicketDetail, error)
	ListDetails(ctx context.Context, filter TicketFilter) ([]domain.TicketDetail, error)
	SetAssignee(ctx context.Context, ticketID, staffID string) (bool, error)
	SetServiceType(ctx context.Context, ticketID, serviceTypeID string) (bool, error)
	Close(ctx context.Context, ticketID, solution string, closedAt time.Time) (bool, error)
}

type ticketRepository struct {
	pool *pgxpool.Pool
}

// NewTicketRepository instantiates repository.
func NewTicketRepository(pool *pgxpool.Pool) TicketRepository {
	return &ticketRepository{pool: pool}
}

func (r *ticketRepository) Create(ctx context.Context, ticket *domain.Ticket) error {
	const query = `
        INSERT INTO tickets (reported_at, requester_first_name, requester_last_name, requester_email,
            requester_phone, description, department_id, service_type_id, status)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)
        RETURNING id, created_at`
	return r.pool.QueryRow(ctx, query,
		ticket.ReportedAt,
		ticket.RequesterFirstName,
		ticket.RequesterLastName,
		ticket.RequesterEmail,
		ticket.RequesterPhone,
		ticket.Description,
		ticket.DepartmentID,
		ticket.ServiceTypeID,
		ticket.Status,
	).Scan(&ticket.ID, &ticket.CreatedAt)
}

func (r *ticketRepository) GetByID(ctx context.Context, id string) (*domain.Ticket, error) {
	const query = `
        SELECT id, reported_at, requester_first_name, requester_last_name, requester_email,
               requester_phone, description, department_id, service_type_id, assignee_staff_id,
               status, solution_description, created_at, closed_at
        FROM tickets WHERE id=$1`
	var ticket domain.Ticket
	if err := r.pool.QueryRow(ctx, query, id).Scan(
		&ticket.ID,
		&ticket.ReportedAt,
		&ticket.RequesterFirstName,
		&ticket.RequesterLastName,
		&ticket.RequesterEmail,
		&ticket.RequesterPhone,
		&ticket.Description,
		&ticket.DepartmentID,
		&ticket.ServiceTypeID,
		&ticket.AssigneeID,
		&ticket.Status,
		&ticket.SolutionDescription,
		&ticket.CreatedAt,
		&ticket.ClosedAt,
	); err != nil {
		return nil, err
	}
	return &ticket, nil
}

const detailColumns = `
        t.id, t.reported_at, t.requester_first_name, t.requester_last_name, t.requester_email,
        t.requester_phone, t.description, t.department_id, t.service_type_id, t.assignee_staff_id,
        t.status, t.solution_description, t.created_at, t.closed_at,
        d.name AS department_name,
        st.name AS service_type_name,
        s.first_name || ' ' || s.last_name AS assignee_name`

const detailJoins = `
        FROM tickets t
        LEFT JOIN departments d ON t.department_id = d.id
        LEFT JOIN service_types st ON t.service_type_id = st.id
        LEFT JOIN staff_members s ON t.assignee_staff_id = s.id`

func (r *ticketRepository) GetDetail(ctx context.Context, id string) (*domain.TicketDetail, error) {
	query := `SELECT` + detailColumns + detailJoins + ` WHERE t.id=$1`
	row := r.pool.QueryRow(ctx, query, id)
	detail, err := scanTicketDetail(row)
	if err != nil {
		return nil, err
	}
	return detail, nil
}

func (r *ticketRepository) ListDetails(ctx context.Context, filter TicketFilter) ([]domain.TicketDetail, error) {
	query := `SELECT` + detailColumns + detailJoins
	args := []any{}
	if filter.Status != nil {
		args = append(args, *filter.Status)
		query += ` WHERE t.status=$1`
	}
	switch filter.Order {
	case OrderCreatedAsc:
		query += ` ORDER BY t.created_at ASC`
	case OrderClosedDesc:
		query += ` ORDER BY t.closed_at DESC`
	default:
		query += ` ORDER BY t.created_at DESC`
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.TicketDetail
	for rows.Next() {
		detail, err := scanTicketDetail(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *detail)
	}
	return result, rows.Err()
}

// SetAssignee binds staff to an open ticket. Returns false when the ticket
// is absent or already closed; the caller disambiguates.
func (r *ticketRepository) SetAssignee(ctx context.Context, ticketID, staffID string) (bool, error) {
	const query = `UPDATE tickets SET assignee_staff_id=$1 WHERE id=$2 AND status=$3`
	cmd, err := r.pool.Exec(ctx, query, staffID, ticketID, domain.TicketStatusOpen)
	if err != nil {
		return false, err
	}
	return cmd.RowsAffected() > 0, nil
}

func (r *ticketRepository) SetServiceType(ctx context.Context, ticketID, serviceTypeID string) (bool, error) {
	const query = `UPDATE tickets SET service_type_id=$1 WHERE id=$2`
	cmd, err := r.pool.Exec(ctx, query, serviceTypeID, ticketID)
	if err != nil {
		return false, err
	}
	return cmd.RowsAffected() > 0, nil
}

// Close marks an open ticket closed in a single guarded update, so a
// concurrent reader never sees CLOSED without its closure fields.
func (r *ticketRepository) Close(ctx context.Context, ticketID, solution string, closedAt time.Time) (bool, error) {
	const query = `
        UPDATE tickets SET status=$1, solution_description=$2, closed_at=$3
        WHERE id=$4 AND status=$5`
	cmd, err := r.pool.Exec(ctx, query,
		domain.TicketStatusClosed, solution, closedAt, ticketID, domain.TicketStatusOpen)
	if err != nil {
		return false, err
	}
	return cmd.RowsAffected() > 0, nil
}

func scanTicketDetail(row pgx.Row) (*domain.TicketDetail, error) {
	var detail domain.TicketDetail
	var departmentName *string
	if err := row.Scan(
		&detail.ID,
		&detail.ReportedAt,
		&detail.RequesterFirstName,
		&detail.RequesterLastName,
		&detail.RequesterEmail,
		&detail.RequesterPhone,
		&detail.Description,
		&detail.DepartmentID,
		&detail.ServiceTypeID,
		&detail.AssigneeID,
		&detail.Status,
		&detail.SolutionDescription,
		&detail.CreatedAt,
		&detail.ClosedAt,
		&departmentName,
		&detail.ServiceTypeName,
		&detail.AssigneeName,
	); err != nil {
		return nil, err
	}
	if departmentName != nil {
		detail.DepartmentName = *departmentName
	}
	return &detail, nil
}
