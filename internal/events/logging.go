package events

import (
	"context"

	"go.uber.org/zap"
)

// RegisterEventLogger subscribes a structured-log handler to every ticket
// event type, producing an operational trace alongside the audit table.
func RegisterEventLogger(dispatcher Dispatcher, logger *zap.Logger) {
	if dispatcher == nil || logger == nil {
		return
	}
	handler := func(_ context.Context, event Event) error {
		logger.Info("ticket event",
			zap.String("event_id", event.ID),
			zap.String("type", string(event.Type)),
			zap.String("ticket_id", event.TicketID),
			zap.Any("payload", event.Payload))
		return nil
	}
	for _, eventType := range []EventType{
		EventTicketCreated,
		EventTicketAssigned,
		EventTicketClosed,
		EventTicketCommented,
	} {
		dispatcher.Subscribe(eventType, handler)
	}
}
