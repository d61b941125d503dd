package service

import (
	"context"

	"sidekick-ai-be/internal/pkg/logger"
	"sidekick-ai-be/pkg/events"
	"sidekick-ai-be/pkg/nats"
)

// IAuditService records every domain event to the audit trail.
type IAuditService interface {
	Start() error
}

type auditService struct {
	subscriber *nats.Subscriber
	audit      logger.ILogger
}

func NewAuditService(subscriber *nats.Subscriber, audit logger.ILogger) IAuditService {
	return &auditService{subscriber: subscriber, audit: audit}
}

// Start subscribes to every subject on the agent event stream with a
// durable consumer, so the audit trail survives restarts.
func (a *auditService) Start() error {
	return a.subscriber.Subscribe("agent.>", "audit-trail", func(ctx context.Context, event events.Event) error {
		a.audit.Info("audit", event.EventType(), event.Payload())
		return nil
	})
}
