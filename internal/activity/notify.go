package activity

import (
	"context"
	"log/slog"

	"github.com/nfrund/vrcadmin/internal/auth"
	"github.com/nfrund/vrcadmin/internal/pubsub"
)

// Notifier publishes activity events on behalf of handlers. Publish
// failures are logged and never reach the admin.
type Notifier struct {
	pub    pubsub.Publisher
	logger *slog.Logger
}

// NewNotifier creates a notifier. A nil publisher makes every call a no-op.
func NewNotifier(pub pubsub.Publisher, logger *slog.Logger) Notifier {
	if logger == nil {
		logger = slog.Default()
	}
	return Notifier{pub: pub, logger: logger}
}

func actor(ctx context.Context) string {
	if s, ok := auth.FromContext(ctx); ok {
		return s.Username
	}
	return ""
}

func notify[T any](ctx context.Context, n Notifier, event pubsub.Event[T], payload T) {
	if n.pub == nil {
		return
	}
	if err := pubsub.Publish(ctx, n.pub, event, actor(ctx), payload); err != nil {
		n.logger.Warn("Failed to publish activity", "topic", event.Name(), "error", err)
	}
}

// Assigned records an assignment change.
func (n Notifier) Assigned(ctx context.Context, entity, id, label, value string) {
	notify(ctx, n, RecordAssigned, Change{Entity: entity, ID: id, Label: label, Value: value})
}

// Deleted records a delete.
func (n Notifier) Deleted(ctx context.Context, entity, id, label string) {
	notify(ctx, n, RecordDeleted, Change{Entity: entity, ID: id, Label: label})
}

// Attended records a day-pass attendance mark.
func (n Notifier) Attended(ctx context.Context, a Attendance) {
	notify(ctx, n, AttendanceMarked, a)
}
