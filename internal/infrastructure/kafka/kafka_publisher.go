package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/kushwaha-yash/loan-risk/pkg/events"
	pkgkafka "github.com/kushwaha-yash/loan-risk/pkg/kafka"
)

// Header keys set on every message. Consumers route on event_type without
// decoding the payload.
const (
	HeaderEventType     = "event_type"
	HeaderEventID       = "event_id"
	HeaderAggregateType = "aggregate_type"
	HeaderOccurredAt    = "occurred_at"
)

// MessageWriter is satisfied by *pkgkafka.Producer.
type MessageWriter interface {
	Publish(ctx context.Context, topic string, messages ...pkgkafka.Message) error
}

// Publisher implements port.EventPublisher on a single topic. Messages are
// keyed by assessment ID so one assessment's events stay ordered.
type Publisher struct {
	writer MessageWriter
	logger *slog.Logger
	topic  string
}

func NewPublisher(writer MessageWriter, topic string, logger *slog.Logger) *Publisher {
	return &Publisher{writer: writer, topic: topic, logger: logger}
}

// Publish writes all events in one batch.
func (p *Publisher) Publish(ctx context.Context, domainEvents ...events.DomainEvent) error {
	if len(domainEvents) == 0 {
		return nil
	}

	batch := make([]pkgkafka.Message, len(domainEvents))
	for i, evt := range domainEvents {
		msg, err := toMessage(evt)
		if err != nil {
			return err
		}
		batch[i] = msg
	}

	if err := p.writer.Publish(ctx, p.topic, batch...); err != nil {
		return fmt.Errorf("kafka: publish %d event(s) to topic %s: %w", len(batch), p.topic, err)
	}
	p.logger.DebugContext(ctx, "events published",
		slog.String("topic", p.topic),
		slog.Int("count", len(batch)),
		slog.String("aggregate_id", domainEvents[0].AggregateID().String()),
	)
	return nil
}

func toMessage(evt events.DomainEvent) (pkgkafka.Message, error) {
	payload, err := json.Marshal(evt)
	if err != nil {
		return pkgkafka.Message{}, fmt.Errorf("kafka: encode %s: %w", evt.EventType(), err)
	}
	return pkgkafka.Message{
		Key:   []byte(evt.AggregateID().String()),
		Value: payload,
		Headers: map[string]string{
			HeaderEventType:     evt.EventType(),
			HeaderEventID:       evt.EventID().String(),
			HeaderAggregateType: evt.AggregateType(),
			HeaderOccurredAt:    evt.OccurredAt().Format(time.RFC3339Nano),
		},
	}, nil
}
