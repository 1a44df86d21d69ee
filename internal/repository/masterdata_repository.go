package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/miayudatic/helpdesk/internal/domain"
)

// DepartmentRepository manages department lookups.
type DepartmentRepository interface {
	GetByID(ctx context.Context, id string) (*domain.Department, error)
	GetByName(ctx context.Context, name string) (*domain.Department, error)
	List(ctx context.Context) ([]domain.Department, error)
}

// ServiceTypeRepository manages service-type lookups.
type ServiceTypeRepository interface {
	GetByID(ctx context.Context, id string) (*domain.ServiceType, error)
	GetByName(ctx context.Context, name string) (*domain.ServiceType, error)
	List(ctx context.Context) ([]domain.ServiceType, error)
}

type departmentRepository struct {
	pool *pgxpool.Pool
}

// NewDepartmentRepository builds the repository.
func NewDepartmentRepository(pool *pgxpool.Pool) DepartmentRepository {
	return &departmentRepository{pool: pool}
}

func (r *departmentRepository) GetByID(ctx context.Context, id string) (*domain.Department, error) {
	var dept domain.Department
	err := r.pool.QueryRow(ctx, `SELECT id, name FROM departments WHERE id=$1`, id).
		Scan(&dept.ID, &dept.Name)
	if err != nil {
		return nil, err
	}
	return &dept, nil
}

func (r *departmentRepository) GetByName(ctx context.Context, name string) (*domain.Department, error) {
	var dept domain.Department
	err := r.pool.QueryRow(ctx, `SELECT id, name FROM departments WHERE name=$1`, name).
		Scan(&dept.ID, &dept.Name)
	if err != nil {
		return nil, err
	}
	return &dept, nil
}

func (r *departmentRepository) List(ctx context.Context) ([]domain.Department, error) {
	rows, err := r.pool.Query(ctx, `SELECT id, name FROM departments ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.Department
	for rows.Next() {
		var dept domain.Department
		if err := rows.Scan(&dept.ID, &dept.Name); err != nil {
			return nil, err
		}
		result = append(result, dept)
	}
	return result, rows.Err()
}

type serviceTypeRepository struct {
	pool *pgxpool.Pool
}

// NewServiceTypeRepository builds the repository.
func NewServiceTypeRepository(pool *pgxpool.Pool) ServiceTypeRepository {
	return &serviceTypeRepository{pool: pool}
}

func (r *serviceTypeRepository) GetByID(ctx context.Context, id string) (*domain.ServiceType, error) {
	var st domain.ServiceType
	err := r.pool.QueryRow(ctx, `SELECT id, name FROM service_types WHERE id=$1`, id).
		Scan(&st.ID, &st.Name)
	if err != nil {
		return nil, err
	}
	return &st, nil
}

func (r *serviceTypeRepository) GetByName(ctx context.Context, name string) (*domain.ServiceType, error) {
	var st domain.ServiceType
	err := r.pool.QueryRow(ctx, `SELECT id, name FROM service_types WHERE name=$1`, name).
		Scan(&st.ID, &st.Name)
	if err != nil {
		return nil, err
	}
	return &st, nil
}

func (r *serviceTypeRepository) List(ctx context.Context) ([]domain.ServiceType, error) {
	rows, err := r.pool.Query(ctx, `SELECT id, name FROM service_types ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.ServiceType
	for rows.Next() {
		var st domain.ServiceType
		if err := rows.Scan(&st.ID, &st.Name); err != nil {
			return nil, err
		}
		result = append(result, st)
	}
	return result, rows.Err()
}
