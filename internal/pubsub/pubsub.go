// Package pubsub is the in-process event bus. Screens publish what admins
// did (assignments, deletes, settled scans) and the activity feed listens.
package pubsub

import (
	"context"
)

// Message is the structure passed between components on the bus.
type Message struct {
	// Topic identifies the event, e.g. "volunteer.assigned".
	Topic string
	// UserID is the admin who caused the event, if known.
	UserID string
	// Payload is the JSON-encoded event.
	Payload []byte
	// Metadata carries extra context such as the request id.
	Metadata map[string]string
}

// Handler processes one received message.
type Handler func(ctx context.Context, msg Message) error

// Publisher sends messages to the bus.
type Publisher interface {
	Publish(ctx context.Context, msg Message) error
	Close() error
}

// Subscriber receives messages from the bus.
type Subscriber interface {
	// Subscribe starts delivering messages on topic to handler in the
	// background until ctx is canceled or the bus is closed.
	Subscribe(ctx context.Context, topic string, handler Handler) error
	Close() error
}
