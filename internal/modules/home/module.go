// Package home serves the admin dashboard and its live activity socket.
package home

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/nfrund/vrcadmin/internal/activity"
	"github.com/nfrund/vrcadmin/internal/backend"
	"github.com/nfrund/vrcadmin/internal/handlers"
	"github.com/nfrund/vrcadmin/internal/hub"
	"github.com/nfrund/vrcadmin/internal/middleware"
	"github.com/nfrund/vrcadmin/internal/module"
	"github.com/nfrund/vrcadmin/internal/registry"
	"golang.org/x/sync/errgroup"
)

const (
	basePath = "/admin"
	wsPath   = "/admin/activity/ws"
	// recentEntries is how much history the dashboard renders up front.
	recentEntries = 20
)

// Dependencies holds what the home module needs.
type Dependencies struct {
	Backend *backend.Client
	Feed    *activity.Feed
	Hub     *hub.Hub
	Auth    echo.MiddlewareFunc
	Logger  *slog.Logger
}

// Module serves the dashboard.
type Module struct {
	module.BaseModule
	deps Dependencies
}

// New creates the home module.
func New(deps Dependencies) *Module {
	if deps.Logger == nil {
		deps.Logger = slog.Default()
	}
	return &Module{deps: deps}
}

// Name returns the module name.
func (m *Module) Name() string {
	return "home"
}

// Boot mounts the routes. Services not given in Dependencies are taken
// from the registry.
func (m *Module) Boot(ctx context.Context, e *echo.Group, reg *registry.Registry) error {
	if reg != nil {
		if m.deps.Backend == nil {
			m.deps.Backend = registry.MustGet(reg, registry.BackendKey)
		}
		if m.deps.Feed == nil {
			m.deps.Feed, _ = registry.Get(reg, registry.ActivityKey)
		}
		if m.deps.Hub == nil {
			m.deps.Hub, _ = registry.Get(reg, registry.HubKey)
		}
	}
	grp := module.Group(e, basePath, m.deps.Auth)
	grp.GET("", m.dashboard)
	if m.deps.Hub != nil {
		grp.GET("/activity/ws", activity.ServeWS(m.deps.Hub, m.deps.Logger))
	}
	return nil
}

// stat is one dashboard tile. Failed is set when its count could not be
// loaded; the other tiles still render.
type stat struct {
	Label  string
	Href   string
	Count  int
	Failed bool
}

func (m *Module) dashboard(c echo.Context) error {
	ctx := c.Request().Context()
	stats := m.stats(ctx)
	var recent []activity.Entry
	if m.deps.Feed != nil {
		recent = m.deps.Feed.Recent(recentEntries)
	}
	return handlers.RenderPage(c, http.StatusOK, "Dashboard", dashboard(stats, recent))
}

// stats loads every count concurrently. A failed count is logged and marked
// on its tile rather than failing the page.
func (m *Module) stats(ctx context.Context) []stat {
	client := m.deps.Backend
	logger := middleware.FromContext(ctx)

	loaders := []struct {
		stat
		load func(context.Context) (int, error)
	}{
		{stat{Label: "Volunteers", Href: "/admin/volunteers"}, func(ctx context.Context) (int, error) {
			page, err := client.ListVolunteers(ctx, backend.VolunteerQuery{Page: 1, PageSize: 1})
			return page.TotalCount, err
		}},
		{stat{Label: "Signups", Href: "/admin/signups"}, count(client.ListSignups)},
		{stat{Label: "Services", Href: "/admin/services"}, count(client.ListServices)},
		{stat{Label: "Coordinators", Href: "/admin/coordinators"}, count(client.ListCoordinators)},
		{stat{Label: "Managers", Href: "/admin/managers"}, count(client.ListManagers)},
		{stat{Label: "Events", Href: "/admin/events"}, count(client.ListEvents)},
		{stat{Label: "Projects", Href: "/admin/projects"}, count(client.ListProjects)},
		{stat{Label: "Attendance Records", Href: "/admin/attendance"}, count(client.ListAttendance)},
	}

	out := make([]stat, len(loaders))
	var g errgroup.Group
	for i, l := range loaders {
		g.Go(func() error {
			n, err := l.load(ctx)
			s := l.stat
			if err != nil {
				logger.Warn("Failed to load dashboard count", "stat", s.Label, "error", err)
				s.Failed = true
			}
			s.Count = n
			out[i] = s
			return nil
		})
	}
	_ = g.Wait()
	return out
}

func count[T any](list func(context.Context) ([]T, error)) func(context.Context) (int, error) {
	return func(ctx context.Context) (int, error) {
		rows, err := list(ctx)
		return len(rows), err
	}
}
