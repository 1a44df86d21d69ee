package mail

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/miayudatic/helpdesk/internal/domain"
)

// Notifier composes and sends the lifecycle emails through a Sender.
type Notifier struct {
	sender Sender
	logger *zap.Logger
}

// NewNotifier constructs the notifier.
func NewNotifier(sender Sender, logger *zap.Logger) *Notifier {
	return &Notifier{sender: sender, logger: logger}
}

// TicketCreated confirms receipt to the requester.
func (n *Notifier) TicketCreated(ctx context.Context, ticket *domain.Ticket) error {
	body, err := renderTemplate(createdTemplate, createdData{
		TicketID:    ticket.ID,
		ReportedAt:  formatDate(ticket.ReportedAt),
		Description: ticket.Description,
	})
	if err != nil {
		return err
	}
	return n.send(ctx, []string{ticket.RequesterEmail}, subjectCreated, body)
}

// TicketAssigned informs the assignee, including the requester contact
// details and how long the request has been open.
func (n *Notifier) TicketAssigned(ctx context.Context, detail *domain.TicketDetail, assignee *domain.StaffMember) error {
	serviceType := ""
	if detail.ServiceTypeName != nil {
		serviceType = *detail.ServiceTypeName
	}
	body, err := renderTemplate(assignedTemplate, assignedData{
		TicketID:       detail.ID,
		ReportedAt:     formatDate(detail.ReportedAt),
		DaysOpen:       detail.DaysOpen(time.Now()),
		AssigneeName:   assignee.FullName(),
		RequesterName:  detail.RequesterFullName(),
		RequesterEmail: detail.RequesterEmail,
		RequesterPhone: detail.RequesterPhone,
		Department:     detail.DepartmentName,
		ServiceType:    serviceType,
		Description:    detail.Description,
	})
	if err != nil {
		return err
	}
	return n.send(ctx, []string{assignee.Email}, subjectAssigned, body)
}

// TicketClosed informs whichever of requester and assignee have an address.
// When neither does the mail is skipped without error.
func (n *Notifier) TicketClosed(ctx context.Context, ticket *domain.Ticket, assignee *domain.StaffMember) error {
	recipients := make([]string, 0, 2)
	if ticket.RequesterEmail != "" {
		recipients = append(recipients, ticket.RequesterEmail)
	}
	if assignee != nil && assignee.Email != "" {
		recipients = append(recipients, assignee.Email)
	}
	if len(recipients) == 0 {
		n.logger.Warn("closure mail skipped, no recipient address", zap.String("ticket_id", ticket.ID))
		return nil
	}

	solution := ""
	if ticket.SolutionDescription != nil {
		solution = *ticket.SolutionDescription
	}
	body, err := renderTemplate(closedTemplate, closedData{
		TicketID:      ticket.ID,
		RequesterName: ticket.RequesterFullName(),
		ReportedAt:    formatDate(ticket.ReportedAt),
		Description:   ticket.Description,
		Solution:      solution,
	})
	if err != nil {
		return err
	}
	return n.send(ctx, recipients, subjectClosed, body)
}

func (n *Notifier) send(ctx context.Context, to []string, subject, body string) error {
	err := n.sender.Send(ctx, Message{To: to, Subject: subject, Body: body, HTML: true})
	if err != nil {
		n.logger.Warn("mail delivery failed",
			zap.Strings("to", to),
			zap.String("subject", subject),
			zap.Error(err))
		return err
	}
	return nil
}
