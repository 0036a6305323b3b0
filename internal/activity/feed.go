// Package activity keeps a short log of what admins did and pushes new
// entries to open dashboards over a websocket.
package activity

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/nfrund/vrcadmin/internal/hub"
	"github.com/nfrund/vrcadmin/internal/pubsub"
	"github.com/nfrund/vrcadmin/internal/rendering"
	"github.com/nfrund/vrcadmin/internal/scan"
)

// Entry is one line of the activity log.
type Entry struct {
	At    time.Time
	Topic string
	Text  string
	OK    bool
}

// Feed subscribes to the bus and keeps the most recent entries.
type Feed struct {
	hub      *hub.Hub
	renderer rendering.Renderer
	logger   *slog.Logger
	now      func() time.Time

	mu      sync.RWMutex
	entries []Entry
	next    int
	count   int
}

// NewFeed creates a feed retaining size entries. A nil hub disables pushes.
func NewFeed(h *hub.Hub, renderer rendering.Renderer, size int, logger *slog.Logger) *Feed {
	if size <= 0 {
		size = 50
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Feed{
		hub:      h,
		renderer: renderer,
		logger:   logger,
		now:      time.Now,
		entries:  make([]Entry, size),
	}
}

// Start subscribes the feed to every activity topic.
func (f *Feed) Start(ctx context.Context, sub pubsub.Subscriber) error {
	if err := subscribe(ctx, f, sub, RecordAssigned, func(c Change) Entry {
		return Entry{Text: fmt.Sprintf("%s %q set to %s", c.Entity, c.Label, c.Value), OK: true}
	}); err != nil {
		return err
	}
	if err := subscribe(ctx, f, sub, RecordDeleted, func(c Change) Entry {
		return Entry{Text: fmt.Sprintf("%s %q deleted", c.Entity, c.Label), OK: true}
	}); err != nil {
		return err
	}
	if err := subscribe(ctx, f, sub, AttendanceMarked, func(a Attendance) Entry {
		return Entry{Text: fmt.Sprintf("%s attended %s (%s)", a.Name, a.Date, a.ServiceType), OK: true}
	}); err != nil {
		return err
	}
	return subscribe(ctx, f, sub, ScanSettled, func(o scan.Outcome) Entry {
		return Entry{Text: fmt.Sprintf("Scan %s: %s", o.Title(), o.Message), OK: o.OK}
	})
}

func subscribe[T any](ctx context.Context, f *Feed, sub pubsub.Subscriber, event pubsub.Event[T], describe func(T) Entry) error {
	err := sub.Subscribe(ctx, event.Name(), func(ctx context.Context, msg pubsub.Message) error {
		payload, err := pubsub.Decode(event, msg)
		if err != nil {
			return err
		}
		entry := describe(payload)
		entry.Topic = event.Name()
		f.Add(ctx, entry)
		return nil
	})
	if err != nil {
		return fmt.Errorf("subscribe %s: %w", event.Name(), err)
	}
	return nil
}

// Add records an entry and pushes it to connected dashboards.
func (f *Feed) Add(ctx context.Context, e Entry) {
	if e.At.IsZero() {
		e.At = f.now()
	}

	f.mu.Lock()
	f.entries[f.next] = e
	f.next = (f.next + 1) % len(f.entries)
	if f.count < len(f.entries) {
		f.count++
	}
	f.mu.Unlock()

	if f.hub == nil || f.renderer == nil {
		return
	}
	html, err := f.renderer.RenderComponent(ctx, Push(e))
	if err != nil {
		f.logger.Error("Failed to render activity entry", "error", err)
		return
	}
	f.hub.Publish(ctx, html)
}

// Recent returns up to n entries, newest first. n <= 0 returns all.
func (f *Feed) Recent(n int) []Entry {
	f.mu.RLock()
	defer f.mu.RUnlock()

	if n <= 0 || n > f.count {
		n = f.count
	}
	out := make([]Entry, 0, n)
	for i := 1; i <= n; i++ {
		idx := (f.next - i + len(f.entries)) % len(f.entries)
		out = append(out, f.entries[idx])
	}
	return out
}
