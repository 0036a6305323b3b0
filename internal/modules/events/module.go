// Package events manages the meetups announced to volunteers.
package events

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/nfrund/vrcadmin/internal/activity"
	"github.com/nfrund/vrcadmin/internal/backend"
	"github.com/nfrund/vrcadmin/internal/crud"
	"github.com/nfrund/vrcadmin/internal/domain"
	"github.com/nfrund/vrcadmin/internal/handlers"
	"github.com/nfrund/vrcadmin/internal/listing"
	"github.com/nfrund/vrcadmin/internal/middleware"
	"github.com/nfrund/vrcadmin/internal/module"
	"github.com/nfrund/vrcadmin/internal/registry"
	"github.com/nfrund/vrcadmin/internal/view"
	"github.com/nfrund/vrcadmin/web/src/templates/components"
	cmp "maragu.dev/gomponents"
	hx "maragu.dev/gomponents-htmx"
	g "maragu.dev/gomponents/html"
)

const basePath = "/admin/events"

// Dependencies holds what the events module needs.
type Dependencies struct {
	Backend   *backend.Client
	Notifier  activity.Notifier
	Auth      echo.MiddlewareFunc
	CacheSize int
	Logger    *slog.Logger
}

// Module serves /admin/events.
type Module struct {
	module.BaseModule
	deps Dependencies
}

// New creates the events module.
func New(deps Dependencies) *Module {
	return &Module{deps: deps}
}

// Name returns the module name.
func (m *Module) Name() string {
	return "events"
}

func date(e domain.Event) string {
	d, _ := e.When()
	return d
}

func clock(e domain.Event) string {
	_, t := e.When()
	return t
}

// Schema describes the events table.
var Schema = listing.Schema[domain.Event]{
	Entity: "event",
	ID:     func(e domain.Event) string { return e.ID },
	Fields: []listing.Field[domain.Event]{
		{Name: "date", Label: "Date", Value: date, Searchable: true},
		{Name: "time", Label: "Time", Value: clock},
		{Name: "venue", Label: "Venue", Value: func(e domain.Event) string { return e.Venue }, Searchable: true},
		{Name: "locationLink", Label: "Location", Value: func(e domain.Event) string { return e.LocationLink }, Hidden: true},
	},
}

// Boot mounts the routes.
func (m *Module) Boot(ctx context.Context, e *echo.Group, reg *registry.Registry) error {
	client := m.deps.Backend
	h := crud.New(crud.Config[domain.Event]{
		Screen: &listing.Screen[domain.Event]{
			Schema:             Schema,
			Source:             client.ListEvents,
			Delete:             client.DeleteEvent,
			RefetchAfterDelete: true,
			Logger:             m.deps.Logger,
		},
		Store:        listing.NewStore[domain.Event](m.deps.CacheSize),
		BasePath:     basePath,
		Title:        "Events",
		DeletePrompt: "Are you sure you want to delete this event?",
		Aside:        func(echo.Context, *listing.View[domain.Event]) cmp.Node { return createForm() },
		Detail:       detail,
		OnDeleted: func(ctx context.Context, ev domain.Event) {
			m.deps.Notifier.Deleted(ctx, "Event", ev.ID, ev.Venue)
		},
	})

	grp := module.Group(e, basePath, m.deps.Auth)
	h.Register(grp)
	grp.POST("", m.create)
	return nil
}

type createRequest struct {
	Date         string `form:"date" validate:"required"`
	Time         string `form:"time" validate:"required"`
	Venue        string `form:"venue" validate:"required"`
	LocationLink string `form:"locationLink" validate:"omitempty,url"`
	Confirmed    string `form:"confirmed"`
}

func (m *Module) finish(c echo.Context) error {
	if handlers.IsHTMX(c) {
		c.Response().Header().Set("HX-Redirect", basePath)
		return c.NoContent(http.StatusOK)
	}
	return c.Redirect(http.StatusSeeOther, basePath)
}

func (m *Module) create(c echo.Context) error {
	var req createRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid form")
	}
	if ok, _ := strconv.ParseBool(req.Confirmed); !ok {
		return echo.NewHTTPError(http.StatusBadRequest, "event creation must be confirmed")
	}
	if err := c.Validate(&req); err != nil {
		for _, msg := range handlers.ValidationMessages(err) {
			view.SetFlashError(c, msg)
		}
		return m.finish(c)
	}

	ctx := c.Request().Context()
	ev := domain.Event{Date: req.Date, Time: req.Time, Venue: req.Venue, LocationLink: req.LocationLink}
	if err := m.deps.Backend.CreateEvent(ctx, ev); err != nil {
		middleware.FromContext(ctx).Error("Failed to create event", "error", err)
		view.SetFlashError(c, backend.MessageOf(err, "Failed to create event."))
		return m.finish(c)
	}
	view.SetFlashSuccess(c, "Event created.")
	return m.finish(c)
}

func createForm() cmp.Node {
	return components.Card("Create event",
		g.Form(
			hx.Post(basePath),
			hx.Confirm("Create this event? Volunteers will see it immediately."),
			g.Class("grid grid-cols-1 md:grid-cols-5 gap-3 items-end"),
			g.Input(g.Type("hidden"), g.Name("confirmed"), g.Value("true")),
			components.Field("Date", components.Input("date", "date", "", true)),
			components.Field("Time", components.Input("time", "time", "", true)),
			components.Field("Venue", components.Input("text", "venue", "", true)),
			components.Field("Location link", components.Input("url", "locationLink", "", false)),
			components.Submit("Create Event"),
		),
	)
}

func detail(ev domain.Event) cmp.Node {
	d, t := ev.When()
	return g.Dl(
		g.Class("grid grid-cols-3 gap-2"),
		g.Dt(g.Class("font-semibold"), cmp.Text("Date")), g.Dd(g.Class("col-span-2"), cmp.Text(d)),
		g.Dt(g.Class("font-semibold"), cmp.Text("Time")), g.Dd(g.Class("col-span-2"), cmp.Text(t)),
		g.Dt(g.Class("font-semibold"), cmp.Text("Venue")), g.Dd(g.Class("col-span-2"), cmp.Text(ev.Venue)),
		cmp.If(ev.LocationLink != "", cmp.Group{
			g.Dt(g.Class("font-semibold"), cmp.Text("Location")),
			g.Dd(g.Class("col-span-2"), g.A(g.Href(ev.LocationLink), g.Target("_blank"), g.Class("text-teal-700 underline"), cmp.Text("Open map"))),
		}),
	)
}
