// Package services manages the catalogue of festival services.
package services

import (
	"context"
	"log/slog"
	"net/http"

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
	g "maragu.dev/gomponents/html"
)

const basePath = "/admin/services"

// Dependencies holds what the services module needs.
type Dependencies struct {
	Backend   *backend.Client
	Notifier  activity.Notifier
	Auth      echo.MiddlewareFunc
	CacheSize int
	Logger    *slog.Logger
}

// Module serves /admin/services.
type Module struct {
	module.BaseModule
	deps Dependencies
}

// New creates the services module.
func New(deps Dependencies) *Module {
	return &Module{deps: deps}
}

// Name returns the module name.
func (m *Module) Name() string {
	return "services"
}

// Schema describes the services table.
var Schema = listing.Schema[domain.Service]{
	Entity: "service",
	ID:     func(s domain.Service) string { return s.ID },
	Fields: []listing.Field[domain.Service]{
		{Name: "name", Label: "Service Name", Value: func(s domain.Service) string { return s.Name }, Searchable: true},
		{Name: "reportingTime", Label: "Reporting Time", Value: func(s domain.Service) string { return s.ReportingTime }},
	},
}

// Boot mounts the routes.
func (m *Module) Boot(ctx context.Context, e *echo.Group, reg *registry.Registry) error {
	client := m.deps.Backend
	screen := &listing.Screen[domain.Service]{
		Schema: Schema,
		Source: client.ListServices,
		Delete: client.DeleteService,
		Logger: m.deps.Logger,
	}
	h := crud.New(crud.Config[domain.Service]{
		Screen:   screen,
		Store:    listing.NewStore[domain.Service](m.deps.CacheSize),
		BasePath: basePath,
		Title:    "Services",
		Aside:    func(echo.Context, *listing.View[domain.Service]) cmp.Node { return createForm(createRequest{}) },
		OnDeleted: func(ctx context.Context, s domain.Service) {
			m.deps.Notifier.Deleted(ctx, "Service", s.ID, s.Name)
		},
	})

	grp := module.Group(e, basePath, m.deps.Auth)
	h.Register(grp)
	grp.POST("", m.create)
	return nil
}

type createRequest struct {
	Name          string `form:"name" validate:"required"`
	ReportingTime string `form:"reportingTime"`
}

func (m *Module) create(c echo.Context) error {
	var req createRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid form")
	}
	if err := c.Validate(&req); err != nil {
		for _, msg := range handlers.ValidationMessages(err) {
			view.SetFlashError(c, msg)
		}
		return c.Redirect(http.StatusSeeOther, basePath)
	}

	ctx := c.Request().Context()
	err := m.deps.Backend.CreateService(ctx, domain.Service{Name: req.Name, ReportingTime: req.ReportingTime})
	if err != nil {
		middleware.FromContext(ctx).Error("Failed to create service", "name", req.Name, "error", err)
		view.SetFlashError(c, backend.MessageOf(err, "Failed to create service."))
		return c.Redirect(http.StatusSeeOther, basePath)
	}
	view.SetFlashSuccess(c, "Service created.")
	return c.Redirect(http.StatusSeeOther, basePath)
}

func createForm(req createRequest) cmp.Node {
	return components.Card("Add service",
		g.Form(
			g.Method("post"), g.Action(basePath),
			g.Class("grid grid-cols-1 md:grid-cols-3 gap-3 items-end"),
			components.Field("Service Name", components.Input("text", "name", req.Name, true)),
			components.Field("Reporting Time", components.Input("time", "reportingTime", req.ReportingTime, false)),
			components.Submit("Add Service"),
		),
	)
}
