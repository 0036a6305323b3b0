package pubsub

import (
	"context"
	"encoding/json"
	"fmt"
)

// Event ties a topic name to its payload type.
type Event[T any] struct {
	name string
}

// NewEvent declares a typed topic.
func NewEvent[T any](name string) Event[T] {
	return Event[T]{name: name}
}

// Name returns the topic name.
func (e Event[T]) Name() string {
	return e.name
}

// Publish sends a typed event. The compiler ensures payload matches T.
func Publish[T any](ctx context.Context, p Publisher, event Event[T], userID string, payload T) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("encode %s: %w", event.name, err)
	}
	return p.Publish(ctx, Message{Topic: event.name, UserID: userID, Payload: data})
}

// Decode reads a typed payload from a received message.
func Decode[T any](event Event[T], msg Message) (T, error) {
	var out T
	if msg.Topic != "" && msg.Topic != event.name {
		return out, fmt.Errorf("message topic %q is not %s", msg.Topic, event.name)
	}
	if err := json.Unmarshal(msg.Payload, &out); err != nil {
		return out, fmt.Errorf("decode %s: %w", event.name, err)
	}
	return out, nil
}
