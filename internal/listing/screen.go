package listing

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/nfrund/vrcadmin/internal/domain"
	"golang.org/x/sync/errgroup"
)

// Source fetches the full collection for a screen.
type Source[T any] func(ctx context.Context) ([]T, error)

// Assigner backs a per-row assignment control, such as picking a service
// coordinator for a volunteer.
type Assigner[T any] struct {
	// Field names the schema field the control edits.
	Field string
	// Options loads the available choices when a view is mounted.
	Options func(ctx context.Context) ([]Option, error)
	// Update persists the choice for one row with a single remote call.
	Update func(ctx context.Context, id string, opt Option) error
	// Apply mirrors a successful update onto the row held in the view.
	Apply func(row *T, opt Option)
	// Current returns the option value a row holds now, or "" if none.
	Current func(row T) string
}

// Screen wires a Schema to its remote collection and mutations.
type Screen[T any] struct {
	Schema Schema[T]
	Source Source[T]
	Assign *Assigner[T]
	// Delete removes a row remotely. Nil means the screen has no delete.
	Delete func(ctx context.Context, id string) error
	// RefetchAfterDelete reloads the whole collection after a delete
	// instead of dropping the row locally.
	RefetchAfterDelete bool
	Logger             *slog.Logger
}

func (s *Screen[T]) logger() *slog.Logger {
	if s.Logger != nil {
		return s.Logger
	}
	return slog.Default()
}

// Mount fetches the collection, and the assignment options if the screen
// has an assignment control, and returns a fresh view. A failure to load
// options is logged and leaves the control empty.
func (s *Screen[T]) Mount(ctx context.Context) (*View[T], error) {
	var (
		rows    []T
		options []Option
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		rows, err = s.Source(gctx)
		if err != nil {
			return fmt.Errorf("fetch %s list: %w", s.Schema.Entity, err)
		}
		return nil
	})
	if s.Assign != nil && s.Assign.Options != nil {
		g.Go(func() error {
			opts, err := s.Assign.Options(gctx)
			if err != nil {
				s.logger().Warn("Failed to load assignment options", "entity", s.Schema.Entity, "error", err)
				return nil
			}
			options = opts
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return newView(uuid.NewString(), s.Schema, rows, options), nil
}

// Refresh replaces the view's rows with a fresh fetch. On failure the view
// keeps what it had.
func (s *Screen[T]) Refresh(ctx context.Context, v *View[T]) error {
	rows, err := s.Source(ctx)
	if err != nil {
		return fmt.Errorf("fetch %s list: %w", s.Schema.Entity, err)
	}
	v.replace(rows)
	return nil
}

// AssignOption persists the chosen option for one row and patches the row in
// place. Exactly one update is sent; the collection is not refetched.
func (s *Screen[T]) AssignOption(ctx context.Context, v *View[T], id, value string) (T, error) {
	var zero T
	if s.Assign == nil {
		return zero, errors.New("screen has no assignment control")
	}
	if _, ok := v.Find(id); !ok {
		return zero, fmt.Errorf("%s %q: %w", s.Schema.Entity, id, domain.ErrNotFound)
	}
	opt, ok := v.Option(value)
	if !ok {
		return zero, fmt.Errorf("option %q: %w", value, domain.ErrUnknownOption)
	}
	if err := s.Assign.Update(ctx, id, opt); err != nil {
		return zero, err
	}
	row, _ := v.Patch(id, func(r *T) { s.Assign.Apply(r, opt) })
	return row, nil
}

// Remove deletes one row after explicit confirmation. Without confirmation
// no request is made and ErrNotConfirmed is returned.
func (s *Screen[T]) Remove(ctx context.Context, v *View[T], id string, confirmed bool) error {
	if s.Delete == nil {
		return errors.New("screen does not support delete")
	}
	if !confirmed {
		return domain.ErrNotConfirmed
	}
	if err := s.Delete(ctx, id); err != nil {
		return err
	}
	if s.RefetchAfterDelete {
		if err := s.Refresh(ctx, v); err != nil {
			s.logger().Warn("Refetch after delete failed, dropping row locally", "entity", s.Schema.Entity, "error", err)
			v.Remove(id)
		}
		return nil
	}
	v.Remove(id)
	return nil
}
