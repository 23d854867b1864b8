package queue

import (
	"context"
	"encoding/json"

	"go.uber.org/zap"
)

// EventPublisher implements ports.EventPublisher. Events are best effort: a
// failure is logged and never returned to the caller. A nil queue disables
// publishing.
type EventPublisher struct {
	queue MessageQueue
	log   *zap.Logger
}

func NewEventPublisher(queue MessageQueue, log *zap.Logger) *EventPublisher {
	return &EventPublisher{queue: queue, log: log}
}

func (p *EventPublisher) Publish(ctx context.Context, subject string, event interface{}) {
	if p.queue == nil {
		return
	}

	data, err := json.Marshal(event)
	if err != nil {
		p.log.Error("Failed to encode event", zap.String("subject", subject), zap.Error(err))
		return
	}

	if err := p.queue.Publish(subject, data); err != nil {
		p.log.Warn("Failed to publish event", zap.String("subject", subject), zap.Error(err))
		return
	}

	p.log.Debug("Event published", zap.String("subject", subject))
}
