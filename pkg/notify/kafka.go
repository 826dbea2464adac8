package notify

import (
	"context"

	"clubhouse/pkg/kafka"
	"clubhouse/pkg/logger"
)

// Topic carrying all reservation lifecycle events.
const Topic = "reservation-events"

type producer interface {
	Publish(ctx context.Context, msg kafka.Message) error
}

// KafkaDispatcher publishes events to the reservation-events topic.
// Publish failures are logged and swallowed.
type KafkaDispatcher struct {
	producer producer
	source   string
	log      *logger.Logger
}

func NewKafkaDispatcher(p producer, source string, log *logger.Logger) *KafkaDispatcher {
	return &KafkaDispatcher{
		producer: p,
		source:   source,
		log:      log,
	}
}

func (d *KafkaDispatcher) Notify(ctx context.Context, event Event) {
	if len(event.Recipients) == 0 {
		return
	}

	key := event.ReservationID
	if key == "" {
		key = event.ResourceID
	}

	msg := kafka.NewMessage().
		WithKey(key).
		WithValue(event).
		WithEventType(string(event.Kind)).
		WithSource(d.source).
		Build()

	if err := d.producer.Publish(ctx, msg); err != nil {
		d.log.Error("Failed to publish notification event",
			"kind", event.Kind,
			"reservation_id", event.ReservationID,
			"resource_id", event.ResourceID,
			"recipients", len(event.Recipients),
			"error", err,
		)
	}
}
