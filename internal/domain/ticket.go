package domain

import "time"

// TicketStatus enumerates lifecycle states for tickets.
type TicketStatus string

const (
	TicketStatusOpen   TicketStatus = "OPEN"
	TicketStatusClosed TicketStatus = "CLOSED"
)

// Ticket is the aggregate for support requests. Requester fields are
// immutable after creation; closure fields are set exactly once.
type Ticket struct {
	ID                  string
	ReportedAt          time.Time
	RequesterFirstName  string
	RequesterLastName   string
	RequesterEmail      string
	RequesterPhone      string
	Description         string
	DepartmentID        string
	ServiceTypeID       *string
	AssigneeID          *string
	Status              TicketStatus
	SolutionDescription *string
	CreatedAt           time.Time
	ClosedAt            *time.Time
}

// RequesterFullName joins the requester name fields.
func (t *Ticket) RequesterFullName() string {
	return t.RequesterFirstName + " " + t.RequesterLastName
}

// IsClosed reports whether the ticket reached its terminal state.
func (t *Ticket) IsClosed() bool {
	return t.Status == TicketStatusClosed
}

// DaysOpen returns whole days elapsed since the report date.
func (t *Ticket) DaysOpen(now time.Time) int {
	if now.Before(t.ReportedAt) {
		return 0
	}
	return int(now.Sub(t.ReportedAt).Hours() / 24)
}

// TicketDetail is the read projection joining lookup names onto a ticket.
type TicketDetail struct {
	Ticket
	DepartmentName  string
	ServiceTypeName *string
	AssigneeName    *string
}
