package service

import (
	"context"
	"errors"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/miayudatic/helpdesk/internal/auth"
	"github.com/miayudatic/helpdesk/internal/domain"
	"github.com/miayudatic/helpdesk/internal/repository"
	apperrors "github.com/miayudatic/helpdesk/pkg/util"
)

// StaffService manages support staff records.
type StaffService struct {
	staff      repository.StaffRepository
	bcryptCost int
}

// StaffCreateInput describes a new staff member.
type StaffCreateInput struct {
	FirstName      string
	LastName       string
	DocumentNumber string
	Email          string
	Password       string
	Role           domain.StaffRole
}

// StaffUpdateInput carries optional field changes for a staff member.
type StaffUpdateInput struct {
	FirstName      *string
	LastName       *string
	DocumentNumber *string
	Email          *string
	Password       *string
	Role           *domain.StaffRole
}

// NewStaffService builds the service.
func NewStaffService(staff repository.StaffRepository, bcryptCost int) *StaffService {
	return &StaffService{staff: staff, bcryptCost: bcryptCost}
}

// List returns all staff members.
func (s *StaffService) List(ctx context.Context) ([]domain.StaffMember, error) {
	members, err := s.staff.List(ctx)
	if err != nil {
		return nil, apperrors.NewStoreFailure(err)
	}
	return members, nil
}

// Get returns one staff member.
func (s *StaffService) Get(ctx context.Context, id string) (*domain.StaffMember, error) {
	member, err := s.staff.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("staff member", map[string]any{"staff_id": id})
		}
		return nil, apperrors.NewStoreFailure(err)
	}
	return member, nil
}

// Create registers a staff member, enforcing unique email and document number.
func (s *StaffService) Create(ctx context.Context, input StaffCreateInput) (*domain.StaffMember, error) {
	input.FirstName = strings.TrimSpace(input.FirstName)
	input.LastName = strings.TrimSpace(input.LastName)
	input.Email = strings.TrimSpace(input.Email)
	input.DocumentNumber = strings.TrimSpace(input.DocumentNumber)
	if input.FirstName == "" || input.LastName == "" || input.Email == "" || input.Password == "" {
		return nil, apperrors.NewValidationError("name, email and password required", nil)
	}
	if input.Role == "" {
		input.Role = domain.StaffRoleTechnician
	}

	if err := s.ensureUnique(ctx, input.Email, input.DocumentNumber, ""); err != nil {
		return nil, err
	}

	hash, err := auth.HashPassword(input.Password, s.bcryptCost)
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}

	member := &domain.StaffMember{
		FirstName:      input.FirstName,
		LastName:       input.LastName,
		DocumentNumber: input.DocumentNumber,
		Email:          input.Email,
		PasswordHash:   hash,
		Role:           input.Role,
	}
	if err := s.staff.Create(ctx, member); err != nil {
		return nil, apperrors.NewStoreFailure(err)
	}
	return member, nil
}

// Update applies the provided field changes to a staff member.
func (s *StaffService) Update(ctx context.Context, id string, input StaffUpdateInput) (*domain.StaffMember, error) {
	member, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if input.Email != nil || input.DocumentNumber != nil {
		email := member.Email
		if input.Email != nil {
			email = strings.TrimSpace(*input.Email)
		}
		document := member.DocumentNumber
		if input.DocumentNumber != nil {
			document = strings.TrimSpace(*input.DocumentNumber)
		}
		if err := s.ensureUnique(ctx, email, document, member.ID); err != nil {
			return nil, err
		}
		member.Email = email
		member.DocumentNumber = document
	}
	if input.FirstName != nil {
		member.FirstName = strings.TrimSpace(*input.FirstName)
	}
	if input.LastName != nil {
		member.LastName = strings.TrimSpace(*input.LastName)
	}
	if input.Role != nil {
		member.Role = *input.Role
	}
	if input.Password != nil {
		hash, err := auth.HashPassword(*input.Password, s.bcryptCost)
		if err != nil {
			return nil, apperrors.NewInternalError(err)
		}
		member.PasswordHash = hash
	}

	if err := s.staff.Update(ctx, member); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("staff member", map[string]any{"staff_id": id})
		}
		return nil, apperrors.NewStoreFailure(err)
	}
	return member, nil
}

// Delete removes a staff member.
func (s *StaffService) Delete(ctx context.Context, id string) error {
	if err := s.staff.Delete(ctx, id); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.NewNotFound("staff member", map[string]any{"staff_id": id})
		}
		return apperrors.NewStoreFailure(err)
	}
	return nil
}

func (s *StaffService) ensureUnique(ctx context.Context, email, document, selfID string) error {
	if existing, err := s.staff.GetByEmail(ctx, email); err == nil {
		if existing.ID != selfID {
			return apperrors.NewConflict("email already exists", map[string]any{"email": email})
		}
	} else if !errors.Is(err, pgx.ErrNoRows) {
		return apperrors.NewStoreFailure(err)
	}
	if document == "" {
		return nil
	}
	if existing, err := s.staff.GetByDocument(ctx, document); err == nil {
		if existing.ID != selfID {
			return apperrors.NewConflict("document number already exists", map[string]any{"document_number": document})
		}
	} else if !errors.Is(err, pgx.ErrNoRows) {
		return apperrors.NewStoreFailure(err)
	}
	return nil
}
