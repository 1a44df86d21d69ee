package events

import "time"

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventTicketCreated   EventType = "ticket_created"
	EventTicketAssigned  EventType = "ticket_assigned"
	EventTicketClosed    EventType = "ticket_closed"
	EventTicketCommented EventType = "ticket_commented"
)

// Event represents a domain event emitted by services.
type Event struct {
	ID           string      `json:"id"`
	Type         EventType   `json:"type"`
	TicketID     string      `json:"ticket_id"`
	ActorStaffID *string     `json:"actor_staff_id,omitempty"`
	Timestamp    time.Time   `json:"timestamp"`
	Payload      interface{} `json:"payload"`
}

// TicketCreatedPayload payload.
type TicketCreatedPayload struct {
	DepartmentID   string `json:"department_id"`
	RequesterEmail string `json:"requester_email"`
}

// TicketAssignedPayload payload.
type TicketAssignedPayload struct {
	AssigneeStaffID string `json:"assignee_staff_id"`
	AssigneeName    string `json:"assignee_name"`
}

// TicketClosedPayload payload.
type TicketClosedPayload struct {
	SolutionDescription string `json:"solution_description"`
}

// TicketCommentedPayload payload.
type TicketCommentedPayload struct {
	CommentID string `json:"comment_id"`
}
