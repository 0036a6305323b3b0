// Package hub fans rendered HTML fragments out to connected browsers.
package hub

import (
	"context"
	"log/slog"
)

// Subscriber is one connected browser. The hub writes fragments to Send and
// closes it when the subscriber is dropped.
type Subscriber struct {
	Send chan []byte
}

// NewSubscriber returns a subscriber with a buffered outbound channel.
func NewSubscriber(buffer int) *Subscriber {
	return &Subscriber{Send: make(chan []byte, buffer)}
}

// Hub maintains the set of active subscribers and broadcasts to them.
type Hub struct {
	subscribers map[*Subscriber]bool

	// Broadcast delivers a fragment to every subscriber.
	Broadcast chan []byte

	// Register adds a subscriber.
	Register chan *Subscriber

	// Unregister removes a subscriber and closes its Send channel.
	Unregister chan *Subscriber

	done chan struct{}
}

// NewHub creates a hub. Call Run before using its channels.
func NewHub() *Hub {
	return &Hub{
		Broadcast:   make(chan []byte),
		Register:    make(chan *Subscriber),
		Unregister:  make(chan *Subscriber),
		subscribers: make(map[*Subscriber]bool),
		done:        make(chan struct{}),
	}
}

// Done is closed once Run has returned.
func (h *Hub) Done() <-chan struct{} {
	return h.done
}

// Run processes the hub channels until ctx is canceled, then closes every
// remaining subscriber.
func (h *Hub) Run(ctx context.Context) {
	defer close(h.done)
	for {
		select {
		case <-ctx.Done():
			for subscriber := range h.subscribers {
				close(subscriber.Send)
				delete(h.subscribers, subscriber)
			}
			return

		case subscriber := <-h.Register:
			h.subscribers[subscriber] = true
			slog.Debug("Activity subscriber registered", "total_subscribers", len(h.subscribers))

		case subscriber := <-h.Unregister:
			if _, ok := h.subscribers[subscriber]; ok {
				delete(h.subscribers, subscriber)
				close(subscriber.Send)
				slog.Debug("Activity subscriber unregistered", "total_subscribers", len(h.subscribers))
			}

		case message := <-h.Broadcast:
			for subscriber := range h.subscribers {
				// A full buffer means the browser is stuck; drop it.
				select {
				case subscriber.Send <- message:
				default:
					close(subscriber.Send)
					delete(h.subscribers, subscriber)
					slog.Warn("Dropping slow activity subscriber", "total_subscribers", len(h.subscribers))
				}
			}
		}
	}
}

// Publish broadcasts msg unless ctx or the hub is done first.
func (h *Hub) Publish(ctx context.Context, msg []byte) bool {
	select {
	case h.Broadcast <- msg:
		return true
	case <-ctx.Done():
		return false
	case <-h.done:
		return false
	}
}

// Join registers a new subscriber, or returns nil once the hub has stopped.
func (h *Hub) Join(buffer int) *Subscriber {
	s := NewSubscriber(buffer)
	select {
	case h.Register <- s:
		return s
	case <-h.done:
		return nil
	}
}

// Leave unregisters s. It is a no-op once the hub has stopped.
func (h *Hub) Leave(s *Subscriber) {
	select {
	case h.Unregister <- s:
	case <-h.done:
	}
}
