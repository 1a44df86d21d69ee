package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/miayudatic/helpdesk/internal/domain"
)

// CommentRepository stores staff comments attached to tickets.
type CommentRepository interface {
	Create(ctx context.Context, comment *domain.Comment) error
	ListByTicket(ctx context.Context, ticketID string) ([]domain.CommentWithAuthor, error)
}

type commentRepository struct {
	pool *pgxpool.Pool
}

// NewCommentRepository builds the repository.
func NewCommentRepository(pool *pgxpool.Pool) CommentRepository {
	return &commentRepository{pool: pool}
}

func (r *commentRepository) Create(ctx context.Context, comment *domain.Comment) error {
	const query = `
        INSERT INTO ticket_comments (ticket_id, author_staff_id, body)
        VALUES ($1,$2,$3)
        RETURNING id, created_at`
	return r.pool.QueryRow(ctx, query,
		comment.TicketID,
		comment.AuthorStaffID,
		comment.Body,
	).Scan(&comment.ID, &comment.CreatedAt)
}

func (r *commentRepository) ListByTicket(ctx context.Context, ticketID string) ([]domain.CommentWithAuthor, error) {
	const query = `
        SELECT c.id, c.ticket_id, c.author_staff_id, c.body, c.created_at,
               s.first_name || ' ' || s.last_name AS author_name
        FROM ticket_comments c
        JOIN staff_members s ON c.author_staff_id = s.id
        WHERE c.ticket_id=$1
        ORDER BY c.created_at DESC`
	rows, err := r.pool.Query(ctx, query, ticketID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.CommentWithAuthor
	for rows.Next() {
		var comment domain.CommentWithAuthor
		if err := rows.Scan(
			&comment.ID,
			&comment.TicketID,
			&comment.AuthorStaffID,
			&comment.Body,
			&comment.CreatedAt,
			&comment.AuthorName,
		); err != nil {
			return nil, err
		}
		result = append(result, comment)
	}
	return result, rows.Err()
}
