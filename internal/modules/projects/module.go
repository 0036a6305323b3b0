// Package projects lists seva projects and shows each on its own page.
package projects

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"
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
	"github.com/nfrund/vrcadmin/web/src/templates/pages"
	cmp "maragu.dev/gomponents"
	g "maragu.dev/gomponents/html"
)

const (
	basePath   = "/admin/projects"
	detailPath = "/admin/project"
)

// Dependencies holds what the projects module needs.
type Dependencies struct {
	Backend   *backend.Client
	Auth      echo.MiddlewareFunc
	CacheSize int
	Logger    *slog.Logger
}

// Module serves /admin/projects and /admin/project/:id.
type Module struct {
	module.BaseModule
	deps Dependencies
}

// New creates the projects module.
func New(deps Dependencies) *Module {
	return &Module{deps: deps}
}

// Name returns the module name.
func (m *Module) Name() string {
	return "projects"
}

// Schema describes the projects table.
var Schema = listing.Schema[domain.Project]{
	Entity: "project",
	ID:     func(p domain.Project) string { return p.ID },
	Fields: []listing.Field[domain.Project]{
		{Name: "name", Label: "Name", Value: func(p domain.Project) string { return p.Name }, Searchable: true},
		{Name: "date", Label: "Date", Value: func(p domain.Project) string { return p.Date }},
		{Name: "location", Label: "Location", Value: func(p domain.Project) string { return p.Location }, Searchable: true, Enum: true},
	},
}

// Boot mounts the routes.
func (m *Module) Boot(ctx context.Context, e *echo.Group, reg *registry.Registry) error {
	h := crud.New(crud.Config[domain.Project]{
		Screen: &listing.Screen[domain.Project]{
			Schema: Schema,
			Source: m.deps.Backend.ListProjects,
			Logger: m.deps.Logger,
		},
		Store:      listing.NewStore[domain.Project](m.deps.CacheSize),
		BasePath:   basePath,
		Title:      "Projects",
		Aside:      func(echo.Context, *listing.View[domain.Project]) cmp.Node { return createForm() },
		DetailHref: func(p domain.Project) string { return detailPath + "/" + p.ID },
	})

	grp := module.Group(e, basePath, m.deps.Auth)
	h.Register(grp)
	grp.POST("", m.create)

	module.Group(e, detailPath, m.deps.Auth).GET("/:id", m.show)
	return nil
}

type createRequest struct {
	Name     string `form:"name" validate:"required"`
	Date     string `form:"date"`
	Location string `form:"location"`
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
	if err := m.deps.Backend.CreateProject(ctx, domain.Project{Name: req.Name, Date: req.Date, Location: req.Location}); err != nil {
		middleware.FromContext(ctx).Error("Failed to create project", "error", err)
		view.SetFlashError(c, backend.MessageOf(err, "Failed to create project."))
		return c.Redirect(http.StatusSeeOther, basePath)
	}
	view.SetFlashSuccess(c, "Project created.")
	return c.Redirect(http.StatusSeeOther, basePath)
}

// show renders one project. An unknown id is a not-found page, not an error.
func (m *Module) show(c echo.Context) error {
	ctx := c.Request().Context()
	p, err := m.deps.Backend.GetProject(ctx, c.Param("id"))
	switch {
	case errors.Is(err, domain.ErrNotFound):
		return handlers.RenderPage(c, http.StatusNotFound, "Project not found", pages.NotFound("project"))
	case err != nil:
		middleware.FromContext(ctx).Error("Failed to fetch project", "id", c.Param("id"), "error", err)
		return handlers.RenderPage(c, http.StatusOK, "Project",
			components.Heading("Project"),
			pages.ErrorPanel(backend.MessageOf(err, "Failed to fetch project.")),
		)
	}
	return handlers.RenderPage(c, http.StatusOK, p.Name,
		components.Heading(p.Name),
		components.Card("",
			g.Dl(
				g.Class("grid grid-cols-3 gap-2"),
				g.Dt(g.Class("font-semibold"), cmp.Text("Date")), g.Dd(g.Class("col-span-2"), cmp.Text(orDash(p.Date))),
				g.Dt(g.Class("font-semibold"), cmp.Text("Location")), g.Dd(g.Class("col-span-2"), cmp.Text(orDash(p.Location))),
			),
		),
		g.A(g.Href(basePath), g.Class("inline-block mt-4 text-teal-700 hover:underline"), cmp.Text("Back to projects")),
	)
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

func createForm() cmp.Node {
	return components.Card("Add project",
		g.Form(
			g.Method("post"), g.Action(basePath),
			g.Class("grid grid-cols-1 md:grid-cols-4 gap-3 items-end"),
			components.Field("Name", components.Input("text", "name", "", true)),
			components.Field("Date", components.Input("date", "date", "", false)),
			components.Field("Location", components.Input("text", "location", "", false)),
			components.Submit("Add Project"),
		),
	)
}
