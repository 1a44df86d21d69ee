package dto

import (
	"time"

	"github.com/miayudatic/helpdesk/internal/domain"
	"github.com/miayudatic/helpdesk/internal/service"
)

// CreateTicketRequest payload for the public intake form. The department
// and service type may be given either by id or by name.
type CreateTicketRequest struct {
	ReportedAt      string  `json:"reported_at"`
	FirstName       string  `json:"first_name"`
	LastName        string  `json:"last_name"`
	Email           string  `json:"email"`
	Phone           string  `json:"phone"`
	Description     string  `json:"description"`
	DepartmentID    string  `json:"department_id"`
	DepartmentName  string  `json:"department_name"`
	ServiceTypeID   *string `json:"service_type_id"`
	ServiceTypeName *string `json:"service_type_name"`
}

// AssignTicketRequest payload.
type AssignTicketRequest struct {
	StaffID string `json:"staff_id"`
}

// CloseTicketRequest payload.
type CloseTicketRequest struct {
	SolutionDescription string `json:"solution_description"`
}

// UpdateTicketRequest payload for partial updates.
type UpdateTicketRequest struct {
	ServiceTypeID       *string `json:"service_type_id"`
	AssigneeID          *string `json:"assignee_id"`
	SolutionDescription *string `json:"solution_description"`
}

// NotificationResult reports the post-commit mail outcome.
type NotificationResult struct {
	Sent  bool   `json:"sent"`
	Error string `json:"error,omitempty"`
}

// TicketResponse represents a ticket without joined names.
type TicketResponse struct {
	ID                  string              `json:"id"`
	ReportedAt          time.Time           `json:"reported_at"`
	FirstName           string              `json:"first_name"`
	LastName            string              `json:"last_name"`
	Email               string              `json:"email"`
	Phone               string              `json:"phone"`
	Description         string              `json:"description"`
	DepartmentID        string              `json:"department_id"`
	ServiceTypeID       *string             `json:"service_type_id"`
	AssigneeID          *string             `json:"assignee_id"`
	Status              domain.TicketStatus `json:"status"`
	SolutionDescription *string             `json:"solution_description"`
	CreatedAt           time.Time           `json:"created_at"`
	ClosedAt            *time.Time          `json:"closed_at"`
}

// TicketMutationResponse pairs a ticket with its notification outcome.
type TicketMutationResponse struct {
	Ticket       TicketResponse     `json:"ticket"`
	Notification NotificationResult `json:"notification"`
}

// TicketDetailResponse includes joined display names.
type TicketDetailResponse struct {
	TicketResponse
	DepartmentName  string  `json:"department_name"`
	ServiceTypeName *string `json:"service_type_name"`
	AssigneeName    *string `json:"assignee_name"`
	DaysOpen        int     `json:"days_open"`
}

// AuditEntryResponse represents one audit trail record.
type AuditEntryResponse struct {
	ID           string                 `json:"id"`
	TicketID     string                 `json:"ticket_id"`
	ActorStaffID *string                `json:"actor_staff_id"`
	ChangeType   domain.AuditChangeType `json:"change_type"`
	Detail       string                 `json:"detail"`
	CreatedAt    time.Time              `json:"created_at"`
}

// NewTicketResponse maps a domain ticket.
func NewTicketResponse(t *domain.Ticket) TicketResponse {
	return TicketResponse{
		ID:                  t.ID,
		ReportedAt:          t.ReportedAt,
		FirstName:           t.RequesterFirstName,
		LastName:            t.RequesterLastName,
		Email:               t.RequesterEmail,
		Phone:               t.RequesterPhone,
		Description:         t.Description,
		DepartmentID:        t.DepartmentID,
		ServiceTypeID:       t.ServiceTypeID,
		AssigneeID:          t.AssigneeID,
		Status:              t.Status,
		SolutionDescription: t.SolutionDescription,
		CreatedAt:           t.CreatedAt,
		ClosedAt:            t.ClosedAt,
	}
}

// NewTicketMutationResponse maps a ticket plus its side effects.
func NewTicketMutationResponse(t *domain.Ticket, effects service.SideEffects) TicketMutationResponse {
	result := NotificationResult{Sent: effects.NotificationSent}
	if effects.NotificationErr != nil {
		result.Error = effects.NotificationErr.Error()
	}
	return TicketMutationResponse{Ticket: NewTicketResponse(t), Notification: result}
}

// NewTicketDetailResponse maps a ticket detail projection.
func NewTicketDetailResponse(d *domain.TicketDetail) TicketDetailResponse {
	return TicketDetailResponse{
		TicketResponse:  NewTicketResponse(&d.Ticket),
		DepartmentName:  d.DepartmentName,
		ServiceTypeName: d.ServiceTypeName,
		AssigneeName:    d.AssigneeName,
		DaysOpen:        d.DaysOpen(time.Now()),
	}
}

// NewTicketDetailList maps a slice of detail projections.
func NewTicketDetailList(details []domain.TicketDetail) []TicketDetailResponse {
	out := make([]TicketDetailResponse, 0, len(details))
	for i := range details {
		out = append(out, NewTicketDetailResponse(&details[i]))
	}
	return out
}

// NewAuditEntryList maps audit records.
func NewAuditEntryList(entries []domain.AuditEntry) []AuditEntryResponse {
	out := make([]AuditEntryResponse, 0, len(entries))
	for _, e := range entries {
		out = append(out, AuditEntryResponse{
			ID:           e.ID,
			TicketID:     e.TicketID,
			ActorStaffID: e.ActorStaffID,
			ChangeType:   e.ChangeType,
			Detail:       e.Detail,
			CreatedAt:    e.CreatedAt,
		})
	}
	return out
}
