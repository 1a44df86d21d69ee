package repository

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/miayudatic/helpdesk/internal/domain"
)

// StaffRepository handles persistence for staff members.
type StaffRepository interface {
	Create(ctx context.Context, staff *domain.StaffMember) error
	Update(ctx context.Context, staff *domain.StaffMember) error
	Delete(ctx context.Context, id string) error
	GetByID(ctx context.Context, id string) (*domain.StaffMember, error)
	GetByEmail(ctx context.Context, email string) (*domain.StaffMember, error)
	GetByDocument(ctx context.Context, documentNumber string) (*domain.StaffMember, error)
	List(ctx context.Context) ([]domain.StaffMember, error)
	ListOptions(ctx context.Context) ([]domain.StaffOption, error)
	RecordLogin(ctx context.Context, id string, at time.Time) error
}

type staffRepository struct {
	pool *pgxpool.Pool
}

// NewStaffRepository instantiates the repository.
func NewStaffRepository(pool *pgxpool.Pool) StaffRepository {
	return &staffRepository{pool: pool}
}

const staffColumns = `id, first_name, last_name, document_number, email, password_hash, role, created_at, last_login_at`

func (r *staffRepository) Create(ctx context.Context, staff *domain.StaffMember) error {
	const query = `
        INSERT INTO staff_members (first_name, last_name, document_number, email, password_hash, role)
        VALUES ($1,$2,$3,$4,$5,$6)
        RETURNING id, created_at`
	return r.pool.QueryRow(ctx, query,
		staff.FirstName,
		staff.LastName,
		staff.DocumentNumber,
		staff.Email,
		staff.PasswordHash,
		staff.Role,
	).Scan(&staff.ID, &staff.CreatedAt)
}

func (r *staffRepository) Update(ctx context.Context, staff *domain.StaffMember) error {
	const query = `
        UPDATE staff_members
        SET first_name=$1, last_name=$2, document_number=$3, email=$4, password_hash=$5, role=$6
        WHERE id=$7`
	cmd, err := r.pool.Exec(ctx, query,
		staff.FirstName,
		staff.LastName,
		staff.DocumentNumber,
		staff.Email,
		staff.PasswordHash,
		staff.Role,
		staff.ID,
	)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *staffRepository) Delete(ctx context.Context, id string) error {
	cmd, err := r.pool.Exec(ctx, `DELETE FROM staff_members WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *staffRepository) GetByID(ctx context.Context, id string) (*domain.StaffMember, error) {
	return r.fetchSingle(ctx, `SELECT `+staffColumns+` FROM staff_members WHERE id=$1`, id)
}

func (r *staffRepository) GetByEmail(ctx context.Context, email string) (*domain.StaffMember, error) {
	return r.fetchSingle(ctx, `SELECT `+staffColumns+` FROM staff_members WHERE email=$1`, email)
}

func (r *staffRepository) GetByDocument(ctx context.Context, documentNumber string) (*domain.StaffMember, error) {
	return r.fetchSingle(ctx, `SELECT `+staffColumns+` FROM staff_members WHERE document_number=$1`, documentNumber)
}

func (r *staffRepository) fetchSingle(ctx context.Context, query string, arg any) (*domain.StaffMember, error) {
	var staff domain.StaffMember
	if err := r.pool.QueryRow(ctx, query, arg).Scan(
		&staff.ID,
		&staff.FirstName,
		&staff.LastName,
		&staff.DocumentNumber,
		&staff.Email,
		&staff.PasswordHash,
		&staff.Role,
		&staff.CreatedAt,
		&staff.LastLoginAt,
	); err != nil {
		return nil, err
	}
	return &staff, nil
}

func (r *staffRepository) List(ctx context.Context) ([]domain.StaffMember, error) {
	const query = `SELECT ` + staffColumns + ` FROM staff_members ORDER BY first_name, last_name`
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.StaffMember
	for rows.Next() {
		var staff domain.StaffMember
		if err := rows.Scan(
			&staff.ID,
			&staff.FirstName,
			&staff.LastName,
			&staff.DocumentNumber,
			&staff.Email,
			&staff.PasswordHash,
			&staff.Role,
			&staff.CreatedAt,
			&staff.LastLoginAt,
		); err != nil {
			return nil, err
		}
		result = append(result, staff)
	}
	return result, rows.Err()
}

func (r *staffRepository) ListOptions(ctx context.Context) ([]domain.StaffOption, error) {
	const query = `
        SELECT id, first_name || ' ' || last_name AS full_name
        FROM staff_members ORDER BY first_name`
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.StaffOption
	for rows.Next() {
		var option domain.StaffOption
		if err := rows.Scan(&option.ID, &option.FullName); err != nil {
			return nil, err
		}
		result = append(result, option)
	}
	return result, rows.Err()
}

func (r *staffRepository) RecordLogin(ctx context.Context, id string, at time.Time) error {
	_, err := r.pool.Exec(ctx, `UPDATE staff_members SET last_login_at=$1 WHERE id=$2`, at, id)
	return err
}
