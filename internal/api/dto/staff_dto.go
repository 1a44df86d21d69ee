package dto

import (
	"time"

	"github.com/miayudatic/helpdesk/internal/domain"
)

// StaffLoginRequest payload.
type StaffLoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// StaffLoginResponse carries the issued token and the authenticated profile.
type StaffLoginResponse struct {
	Token     string        `json:"token"`
	ExpiresAt time.Time     `json:"expires_at"`
	Staff     StaffResponse `json:"staff"`
}

// CreateStaffRequest payload for registering a staff member.
type CreateStaffRequest struct {
	FirstName      string           `json:"first_name"`
	LastName       string           `json:"last_name"`
	DocumentNumber string           `json:"document_number"`
	Email          string           `json:"email"`
	Password       string           `json:"password"`
	Role           domain.StaffRole `json:"role"`
}

// UpdateStaffRequest payload for partial staff updates.
type UpdateStaffRequest struct {
	FirstName      *string           `json:"first_name"`
	LastName       *string           `json:"last_name"`
	DocumentNumber *string           `json:"document_number"`
	Email          *string           `json:"email"`
	Password       *string           `json:"password"`
	Role           *domain.StaffRole `json:"role"`
}

// StaffResponse represents a staff member without credentials.
type StaffResponse struct {
	ID             string           `json:"id"`
	FirstName      string           `json:"first_name"`
	LastName       string           `json:"last_name"`
	DocumentNumber string           `json:"document_number"`
	Email          string           `json:"email"`
	Role           domain.StaffRole `json:"role"`
	CreatedAt      time.Time        `json:"created_at"`
	LastLoginAt    *time.Time       `json:"last_login_at"`
}

// NewStaffResponse maps a domain staff member.
func NewStaffResponse(m *domain.StaffMember) StaffResponse {
	return StaffResponse{
		ID:             m.ID,
		FirstName:      m.FirstName,
		LastName:       m.LastName,
		DocumentNumber: m.DocumentNumber,
		Email:          m.Email,
		Role:           m.Role,
		CreatedAt:      m.CreatedAt,
		LastLoginAt:    m.LastLoginAt,
	}
}

// NewStaffList maps staff members.
func NewStaffList(members []domain.StaffMember) []StaffResponse {
	out := make([]StaffResponse, 0, len(members))
	for i := range members {
		out = append(out, NewStaffResponse(&members[i]))
	}
	return out
}
