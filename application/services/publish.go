package services

import (
	"context"

	"go.uber.org/zap"

	"hangout-backend/application/ports"
	"hangout-backend/domain/events"
)

// publishEvent emits a domain event without failing the calling operation.
// Consumers are notification fan-outs; a lost event is logged, not returned.
func publishEvent(ctx context.Context, publisher ports.EventPublisher, logger *zap.Logger, event events.DomainEvent) {
	if err := publisher.Publish(ctx, event); err != nil {
		logger.Warn("Failed to publish domain event",
			zap.String("eventType", event.GetEventType()),
			zap.String("aggregateID", event.GetAggregateID()),
			zap.Error(err),
		)
	}
}

// publishEvents emits a batch of domain events with the same fire-and-forget
// contract as publishEvent.
func publishEvents(ctx context.Context, publisher ports.EventPublisher, logger *zap.Logger, batch []events.DomainEvent) {
	if len(batch) == 0 {
		return
	}
	if err := publisher.PublishBatch(ctx, batch); err != nil {
		logger.Warn("Failed to publish domain events",
			zap.Int("count", len(batch)),
			zap.Error(err),
		)
	}
}
