package orders

import (
	"time"

	kafkax "github.com/ariefcatur/go-ticket-store.git/internal/kafka"
	"github.com/google/uuid"
	kafkago "github.com/segmentio/kafka-go"
)

// EventPublisher: dipenuhi oleh *kafka.Producer; interface-nya di sini
// supaya service bisa di-test dengan recorder.
type EventPublisher interface {
	Publish(key, value []byte, headers ...kafkago.Header)
}

// PublishEvent: bungkus payload ke envelope v1 + header standar.
func PublishEvent(p EventPublisher, producer, eventType string, code int64, payload any) {
	ev := Envelope{
		EventID:       uuid.NewString(),
		EventType:     eventType,
		EventVersion:  1,
		OccurredAt:    time.Now().UTC(),
		Producer:      producer,
		CorrelationID: string(PartitionKey(code)),
		Payload:       kafkax.MustMarshal(payload),
	}
	p.Publish(PartitionKey(code), kafkax.MustMarshal(ev),
		kafkago.Header{Key: "x-event-type", Value: []byte(eventType)},
		kafkago.Header{Key: "x-event-version", Value: []byte("1")},
	)
}
