package memory

import (
	"context"
	"log/slog"
	"sync"

	"github.com/kushwaha-yash/loan-risk/pkg/events"
)

// EventPublisher logs events and keeps the most recent ones for inspection.
type EventPublisher struct {
	logger *slog.Logger
	mu     sync.Mutex
	recent []events.DomainEvent
	limit  int
}

// NewEventPublisher keeps at most limit events.
func NewEventPublisher(limit int, logger *slog.Logger) *EventPublisher {
	return &EventPublisher{logger: logger, limit: limit}
}

func (p *EventPublisher) Publish(ctx context.Context, evts ...events.DomainEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	for _, evt := range evts {
		p.logger.InfoContext(ctx, "domain event",
			slog.String("event_type", evt.EventType()),
			slog.String("aggregate_id", evt.AggregateID().String()),
		)
		p.recent = append(p.recent, evt)
	}
	if over := len(p.recent) - p.limit; over > 0 {
		p.recent = append([]events.DomainEvent(nil), p.recent[over:]...)
	}
	return nil
}

// Recent returns the retained events, oldest first.
func (p *EventPublisher) Recent() []events.DomainEvent {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]events.DomainEvent(nil), p.recent...)
}
