// Package volunteers serves the volunteer table for admins and the public
// pages volunteers use themselves: registration, assignment lookup and the
// daily attendance pass.
package volunteers

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"
	"time"

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
	cmp "maragu.dev/gomponents"
)

const basePath = "/admin/volunteers"

// Dependencies holds what the volunteers module needs.
type Dependencies struct {
	Backend   *backend.Client
	Notifier  activity.Notifier
	Auth      echo.MiddlewareFunc
	CacheSize int
	Logger    *slog.Logger
	// Now defaults to time.Now; the daily pass uses it for today's date.
	Now func() time.Time
}

// Module serves /admin/volunteers, /register, /check and /attendance.
type Module struct {
	module.BaseModule
	deps      Dependencies
	validator *handlers.CustomValidator
}

// New creates the volunteers module.
func New(deps Dependencies) *Module {
	if deps.Now == nil {
		deps.Now = time.Now
	}
	v := handlers.NewValidator()
	v.RegisterStructValidation(registrationRules, registrationRequest{})
	return &Module{deps: deps, validator: v}
}

// Name returns the module name.
func (m *Module) Name() string {
	return "volunteers"
}

// Schema describes the volunteer table.
var Schema = listing.Schema[domain.Volunteer]{
	Entity: "volunteer",
	ID:     func(v domain.Volunteer) string { return v.ID },
	Fields: []listing.Field[domain.Volunteer]{
		{Name: "name", Label: "Name", Value: func(v domain.Volunteer) string { return v.Name }, Searchable: true},
		{Name: "whatsappNumber", Label: "WhatsApp", Value: func(v domain.Volunteer) string { return v.WhatsAppNumber }, Searchable: true},
		{Name: "gender", Label: "Gender", Value: func(v domain.Volunteer) string { return v.Gender }, Enum: true},
		{Name: "age", Label: "Age", Value: func(v domain.Volunteer) string {
			if v.Age == 0 {
				return ""
			}
			return strconv.Itoa(v.Age)
		}},
		{Name: "availability", Label: "Service Availability", Value: availabilitySummary},
		{Name: "service", Label: "Service", Value: func(v domain.Volunteer) string { return v.ServiceName() }, Enum: true},
		{Name: "profession", Label: "Profession", Value: func(v domain.Volunteer) string { return v.Profession }, Hidden: true},
		{Name: "collegeOrCompany", Label: "College/Company", Value: func(v domain.Volunteer) string { return v.CollegeOrCompany }, Hidden: true},
		{Name: "locality", Label: "Locality", Value: func(v domain.Volunteer) string { return v.Locality }, Searchable: true, Hidden: true},
		{Name: "referredBy", Label: "In touch with", Value: func(v domain.Volunteer) string { return v.ReferredBy }, Hidden: true},
		{Name: "tshirtSize", Label: "T-Shirt", Value: func(v domain.Volunteer) string { return v.TShirtSize }, Hidden: true},
		{Name: "needAccommodation", Label: "Accommodation", Value: func(v domain.Volunteer) string { return v.NeedAccommodation }, Hidden: true},
	},
}

func coordinatorOptions(client *backend.Client) func(ctx context.Context) ([]listing.Option, error) {
	return func(ctx context.Context) ([]listing.Option, error) {
		coordinators, err := client.ListCoordinators(ctx)
		if err != nil {
			return nil, err
		}
		opts := make([]listing.Option, 0, len(coordinators))
		for _, sc := range coordinators {
			opts = append(opts, listing.Option{
				Value:   sc.ID,
				Label:   sc.ServiceName + " - " + sc.CoordinatorName,
				Payload: sc.Snapshot(),
			})
		}
		return opts, nil
	}
}

func (m *Module) buildScreen() *listing.Screen[domain.Volunteer] {
	client := m.deps.Backend
	return &listing.Screen[domain.Volunteer]{
		Schema: Schema,
		Source: client.AllVolunteers,
		Assign: &listing.Assigner[domain.Volunteer]{
			Field:   "service",
			Options: coordinatorOptions(client),
			Update: func(ctx context.Context, id string, opt listing.Option) error {
				return client.AssignCoordinator(ctx, id, opt.Payload.(domain.AssignedService))
			},
			Apply: func(v *domain.Volunteer, opt listing.Option) {
				svc := opt.Payload.(domain.AssignedService)
				v.AssignedService = &svc
			},
			Current: func(v domain.Volunteer) string {
				if v.AssignedService.IsAssigned() {
					return v.AssignedService.ID
				}
				return ""
			},
		},
		Delete: client.DeleteVolunteer,
		Logger: m.deps.Logger,
	}
}

// Boot mounts the admin and public routes.
func (m *Module) Boot(ctx context.Context, e *echo.Group, reg *registry.Registry) error {
	h := crud.New(crud.Config[domain.Volunteer]{
		Screen:   m.buildScreen(),
		Store:    listing.NewStore[domain.Volunteer](m.deps.CacheSize),
		BasePath: basePath,
		Title:    "All Volunteers",
		PageSize: 20,
		Aside:    func(_ echo.Context, v *listing.View[domain.Volunteer]) cmp.Node { return exportButton() },
		Detail:   detail,
		OnAssigned: func(ctx context.Context, v domain.Volunteer, opt listing.Option) {
			m.deps.Notifier.Assigned(ctx, "Volunteer", v.ID, v.Name, opt.Label)
		},
		OnDeleted: func(ctx context.Context, v domain.Volunteer) {
			m.deps.Notifier.Deleted(ctx, "Volunteer", v.ID, v.Name)
		},
	})

	admin := module.Group(e, basePath, m.deps.Auth)
	h.Register(admin)
	admin.POST("/export", m.export)

	limiter := middleware.RateLimiter(30)
	e.GET("/register", m.registerGet)
	e.GET("/register/fields", m.registerFields)
	e.POST("/register", m.registerPost, limiter)

	e.GET("/check", m.checkGet)
	e.GET("/check/result", m.checkResult, limiter)

	e.GET("/attendance", m.passGet)
	e.POST("/attendance/lookup", m.passLookup, limiter)
	e.POST("/attendance/mark", m.passMark, limiter)
	return nil
}

// export pushes the currently filtered volunteers, freshly fetched, to the
// shared sheet.
func (m *Module) export(c echo.Context) error {
	ctx := c.Request().Context()
	logger := middleware.FromContext(ctx)

	all, err := m.deps.Backend.AllVolunteers(ctx)
	if err != nil {
		logger.Error("Failed to fetch volunteers for export", "error", err)
		return handlers.FailFragment(c, backend.MessageOf(err, "Failed to export volunteers."))
	}
	form, _ := c.FormParams()
	rows := listing.Select(all, Schema.Predicate(listing.FilterFromValues(Schema, form)))

	msg, err := m.deps.Backend.ExportVolunteers(ctx, rows)
	if err != nil {
		logger.Error("Export failed", "count", len(rows), "error", err)
		return handlers.FailFragment(c, backend.MessageOf(err, "Failed to export volunteers."))
	}
	if msg == "" {
		msg = "Export successful."
	}
	logger.Info("Exported volunteers", "count", len(rows))
	return handlers.Fragment(c, http.StatusOK, handlers.FlashOOB(view.FlashData{Success: []string{msg}}))
}
