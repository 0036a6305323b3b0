// Package signups serves the legacy meetup roster.
package signups

import (
	"context"
	"log/slog"
	"net/http"
	"sort"
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
	cmp "maragu.dev/gomponents"
	hx "maragu.dev/gomponents-htmx"
	g "maragu.dev/gomponents/html"
)

const basePath = "/admin/signups"

// Dependencies holds what the signups module needs.
type Dependencies struct {
	Backend   *backend.Client
	Notifier  activity.Notifier
	Auth      echo.MiddlewareFunc
	CacheSize int
	Logger    *slog.Logger
}

// Module serves /admin/signups.
type Module struct {
	module.BaseModule
	deps Dependencies
}

// New creates the signups module.
func New(deps Dependencies) *Module {
	return &Module{deps: deps}
}

// Name returns the module name.
func (m *Module) Name() string {
	return "signups"
}

// Schema describes the roster table.
var Schema = listing.Schema[domain.Signup]{
	Entity: "signup",
	ID:     func(s domain.Signup) string { return s.ID },
	Fields: []listing.Field[domain.Signup]{
		{Name: "name", Label: "Name", Value: func(s domain.Signup) string { return s.Name }, Searchable: true},
		{Name: "whatsappNumber", Label: "WhatsApp", Value: func(s domain.Signup) string { return s.WhatsAppNumber }, Searchable: true},
		{Name: "age", Label: "Age", Value: func(s domain.Signup) string {
			if s.Age == 0 {
				return ""
			}
			return strconv.Itoa(s.Age)
		}},
		{Name: "gender", Label: "Gender", Value: func(s domain.Signup) string { return s.Gender }},
		{Name: "collegeCompany", Label: "College/Company", Value: func(s domain.Signup) string { return s.CollegeCompany }},
		{Name: "currentLocality", Label: "Locality", Value: func(s domain.Signup) string { return s.CurrentLocality }, Hidden: true},
		{Name: "previousVolunteer", Label: "Volunteered Before", Value: func(s domain.Signup) string {
			if s.Experienced() {
				return "Yes"
			}
			return "No"
		}, Hidden: true},
		{Name: "serviceAvailability", Label: "Availability", Value: func(s domain.Signup) string { return s.ServiceAvailability }, Hidden: true},
		{Name: "serviceType", Label: "Service Type", Value: func(s domain.Signup) string { return s.ServiceType }, Enum: true},
		{Name: "submittedAt", Label: "Submitted", Value: func(s domain.Signup) string { return s.SubmittedAt }, Hidden: true},
	},
}

func (m *Module) screen() *listing.Screen[domain.Signup] {
	client := m.deps.Backend
	return &listing.Screen[domain.Signup]{
		Schema: Schema,
		Source: client.ListSignups,
		Assign: &listing.Assigner[domain.Signup]{
			Field: "serviceType",
			Options: func(ctx context.Context) ([]listing.Option, error) {
				services, err := client.ListServices(ctx)
				if err != nil {
					return nil, err
				}
				opts := make([]listing.Option, 0, len(services))
				for _, s := range services {
					opts = append(opts, listing.Option{Value: s.Name, Label: s.Name})
				}
				return opts, nil
			},
			Update: func(ctx context.Context, id string, opt listing.Option) error {
				return client.UpdateSignupService(ctx, id, opt.Value)
			},
			Apply:   func(s *domain.Signup, opt listing.Option) { s.ServiceType = opt.Value },
			Current: func(s domain.Signup) string { return s.ServiceType },
		},
		Logger: m.deps.Logger,
	}
}

// Boot mounts the routes.
func (m *Module) Boot(ctx context.Context, e *echo.Group, reg *registry.Registry) error {
	h := crud.New(crud.Config[domain.Signup]{
		Screen:   m.screen(),
		Store:    listing.NewStore[domain.Signup](m.deps.CacheSize),
		BasePath: basePath,
		Title:    "Signups",
		PageSize: 50,
		Aside:    func(echo.Context, *listing.View[domain.Signup]) cmp.Node { return notifyButton() },
		Summary:  summary,
		OnAssigned: func(ctx context.Context, s domain.Signup, opt listing.Option) {
			m.deps.Notifier.Assigned(ctx, "Signup", s.ID, s.Name, opt.Label)
		},
	})

	grp := module.Group(e, basePath, m.deps.Auth)
	h.Register(grp)
	grp.POST("/send-notification", m.sendNotification)
	return nil
}

// sendNotification asks the server to message everyone on the roster.
func (m *Module) sendNotification(c echo.Context) error {
	ctx := c.Request().Context()
	if err := m.deps.Backend.SendNotification(ctx); err != nil {
		middleware.FromContext(ctx).Error("Failed to send notification", "error", err)
		return handlers.FailFragment(c, backend.MessageOf(err, "Failed to send messages."))
	}
	middleware.FromContext(ctx).Info("Notification sent to all signups")
	return handlers.Fragment(c, http.StatusOK, handlers.FlashOOB(view.FlashData{Success: []string{"Messages sent successfully!"}}))
}

func notifyButton() cmp.Node {
	return g.Div(
		g.Class("flex justify-end"),
		g.Button(
			g.Type("button"),
			g.Class("bg-green-600 hover:bg-green-700 text-white px-4 py-2 rounded"),
			hx.Post(basePath+"/send-notification"),
			hx.Confirm("Send a WhatsApp message to everyone on the roster?"),
			hx.Swap("none"),
			cmp.Text("Send Message to All"),
		),
	)
}

// summary shows how many filtered signups each service type holds.
func summary(v *listing.View[domain.Signup], rows []domain.Signup) cmp.Node {
	counts := listing.Count(Schema, rows, "serviceType")
	if len(counts) == 0 {
		return nil
	}
	keys := make([]string, 0, len(counts))
	for k := range counts {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return g.Div(
		g.Class("flex flex-wrap gap-2 mb-2"),
		cmp.Map(keys, func(k string) cmp.Node {
			label := k
			if label == "" {
				label = "Unassigned"
			}
			return g.Span(g.Class("text-xs bg-teal-100 text-teal-800 rounded px-2 py-1"), cmp.Textf("%s: %d", label, counts[k]))
		}),
	)
}
