package domain

import "time"

// AuditChangeType captures what changed in an audit entry.
type AuditChangeType string

const (
	ChangeTypeAssignment AuditChangeType = "ASSIGNMENT"
	ChangeTypeClosure    AuditChangeType = "CLOSURE"
)

// AuditEntry is an immutable trail record for a lifecycle-affecting change.
// ActorStaffID is nil when the change had no acting staff member on record.
type AuditEntry struct {
	ID           string
	TicketID     string
	ActorStaffID *string
	ChangeType   AuditChangeType
	Detail       string
	CreatedAt    time.Time
}
