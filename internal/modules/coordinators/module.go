// Package coordinators manages who runs each service.
package coordinators

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

const basePath = "/admin/coordinators"

// Dependencies holds what the coordinators module needs.
type Dependencies struct {
	Backend   *backend.Client
	Notifier  activity.Notifier
	Auth      echo.MiddlewareFunc
	CacheSize int
	Logger    *slog.Logger
}

// Module serves /admin/coordinators.
type Module struct {
	module.BaseModule
	deps Dependencies
}

// New creates the coordinators module.
func New(deps Dependencies) *Module {
	return &Module{deps: deps}
}

// Name returns the module name.
func (m *Module) Name() string {
	return "coordinators"
}

// Schema describes the coordinators table.
var Schema = listing.Schema[domain.ServiceCoordinator]{
	Entity: "coordinator",
	Title:  "Service Coordinators",
	ID:     func(sc domain.ServiceCoordinator) string { return sc.ID },
	Fields: []listing.Field[domain.ServiceCoordinator]{
		{Name: "serviceName", Label: "Service", Value: func(sc domain.ServiceCoordinator) string { return sc.ServiceName }, Searchable: true, Enum: true},
		{Name: "coordinatorName", Label: "Coordinator", Value: func(sc domain.ServiceCoordinator) string { return sc.CoordinatorName }, Searchable: true},
		{Name: "coordinatorNumber", Label: "Phone", Value: func(sc domain.ServiceCoordinator) string { return sc.CoordinatorNumber }, Searchable: true},
	},
}

// Boot mounts the routes.
func (m *Module) Boot(ctx context.Context, e *echo.Group, reg *registry.Registry) error {
	client := m.deps.Backend
	h := crud.New(crud.Config[domain.ServiceCoordinator]{
		Screen: &listing.Screen[domain.ServiceCoordinator]{
			Schema: Schema,
			Source: client.ListCoordinators,
			Delete: client.DeleteCoordinator,
			Logger: m.deps.Logger,
		},
		Store:    listing.NewStore[domain.ServiceCoordinator](m.deps.CacheSize),
		BasePath: basePath,
		Title:    "Service Coordinators",
		Aside: func(echo.Context, *listing.View[domain.ServiceCoordinator]) cmp.Node {
			return components.Card("Add coordinator", coordinatorForm(basePath, domain.ServiceCoordinator{}, "Add Coordinator"))
		},
		Detail: func(sc domain.ServiceCoordinator) cmp.Node {
			return coordinatorForm(basePath+"/"+sc.ID, sc, "Save Changes")
		},
		OnDeleted: func(ctx context.Context, sc domain.ServiceCoordinator) {
			m.deps.Notifier.Deleted(ctx, "Coordinator", sc.ID, sc.CoordinatorName)
		},
	})

	grp := module.Group(e, basePath, m.deps.Auth)
	h.Register(grp)
	grp.POST("", m.create)
	grp.POST("/:id", m.update)
	return nil
}

type coordinatorRequest struct {
	ServiceName       string `form:"serviceName" validate:"required"`
	CoordinatorName   string `form:"coordinatorName" validate:"required"`
	CoordinatorNumber string `form:"coordinatorNumber" validate:"required,numeric,min=10,max=15"`
}

func (r coordinatorRequest) coordinator(id string) domain.ServiceCoordinator {
	return domain.ServiceCoordinator{
		ID:                id,
		ServiceName:       r.ServiceName,
		CoordinatorName:   r.CoordinatorName,
		CoordinatorNumber: r.CoordinatorNumber,
	}
}

func (m *Module) bind(c echo.Context) (coordinatorRequest, bool) {
	var req coordinatorRequest
	if err := c.Bind(&req); err != nil {
		view.SetFlashError(c, "Invalid form submission.")
		return req, false
	}
	req.CoordinatorNumber = domain.NormalizeWhatsApp(req.CoordinatorNumber)
	if err := c.Validate(&req); err != nil {
		for _, msg := range handlers.ValidationMessages(err) {
			view.SetFlashError(c, msg)
		}
		return req, false
	}
	return req, true
}

func (m *Module) create(c echo.Context) error {
	req, ok := m.bind(c)
	if !ok {
		return c.Redirect(http.StatusSeeOther, basePath)
	}
	ctx := c.Request().Context()
	if err := m.deps.Backend.CreateCoordinator(ctx, req.coordinator("")); err != nil {
		middleware.FromContext(ctx).Error("Failed to create coordinator", "error", err)
		view.SetFlashError(c, backend.MessageOf(err, "Failed to add coordinator."))
		return c.Redirect(http.StatusSeeOther, basePath)
	}
	view.SetFlashSuccess(c, "Coordinator added.")
	return c.Redirect(http.StatusSeeOther, basePath)
}

func (m *Module) update(c echo.Context) error {
	req, ok := m.bind(c)
	if !ok {
		return c.Redirect(http.StatusSeeOther, basePath)
	}
	ctx := c.Request().Context()
	id := c.Param("id")
	if err := m.deps.Backend.UpdateCoordinator(ctx, req.coordinator(id)); err != nil {
		middleware.FromContext(ctx).Error("Failed to update coordinator", "id", id, "error", err)
		view.SetFlashError(c, backend.MessageOf(err, "Failed to update coordinator."))
		return c.Redirect(http.StatusSeeOther, basePath)
	}
	m.deps.Notifier.Assigned(ctx, "Coordinator", id, req.CoordinatorName, req.ServiceName)
	view.SetFlashSuccess(c, "Coordinator updated.")
	return c.Redirect(http.StatusSeeOther, basePath)
}

func coordinatorForm(action string, sc domain.ServiceCoordinator, submit string) cmp.Node {
	return g.Form(
		g.Method("post"), g.Action(action),
		g.Class("grid grid-cols-1 md:grid-cols-4 gap-3 items-end"),
		components.Field("Service", components.Input("text", "serviceName", sc.ServiceName, true)),
		components.Field("Coordinator", components.Input("text", "coordinatorName", sc.CoordinatorName, true)),
		components.Field("Phone", components.Input("tel", "coordinatorNumber", sc.CoordinatorNumber, true)),
		components.Submit(submit),
	)
}
