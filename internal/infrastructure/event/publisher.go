package event

import (
	"context"

	"go.uber.org/zap"

	"github.com/openbooks/backend/internal/domain/shared"
)

// LogPublisher writes domain events to the structured log. It is the single
// consumer of the event stream; a broker-backed publisher can replace it
// behind the same interface without touching the services.
type LogPublisher struct {
	logger *zap.Logger
}

// NewLogPublisher creates a new LogPublisher
func NewLogPublisher(logger *zap.Logger) *LogPublisher {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LogPublisher{logger: logger}
}

// Publish logs each event. It never fails; a dropped log line must not roll
// back the write that raised the event.
func (p *LogPublisher) Publish(_ context.Context, events ...shared.DomainEvent) error {
	for _, e := range events {
		p.logger.Info("domain event",
			zap.String("event_type", e.EventType()),
			zap.String("event_id", e.EventID().String()),
			zap.String("aggregate_type", e.AggregateType()),
			zap.String("aggregate_id", e.AggregateID().String()),
			zap.String("tenant_id", e.TenantID().String()),
		)
	}
	return nil
}

// Ensure LogPublisher implements EventPublisher
var _ shared.EventPublisher = (*LogPublisher)(nil)
