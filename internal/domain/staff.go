package domain

import "time"

// StaffRole enumerates internal operator roles.
type StaffRole string

const (
	StaffRoleTechnician StaffRole = "TECHNICIAN"
	StaffRoleAdmin      StaffRole = "ADMIN"
)

// StaffMember models a support technician or administrator.
type StaffMember struct {
	ID             string
	FirstName      string
	LastName       string
	DocumentNumber string
	Email          string
	PasswordHash   string
	Role           StaffRole
	CreatedAt      time.Time
	LastLoginAt    *time.Time
}

// FullName joins the staff name fields.
func (s *StaffMember) FullName() string {
	return s.FirstName + " " + s.LastName
}
