// Package attendance serves the read-only attendance reports.
package attendance

import (
	"context"
	"log/slog"
	"sort"

	"github.com/labstack/echo/v4"
	"github.com/nfrund/vrcadmin/internal/backend"
	"github.com/nfrund/vrcadmin/internal/crud"
	"github.com/nfrund/vrcadmin/internal/domain"
	"github.com/nfrund/vrcadmin/internal/listing"
	"github.com/nfrund/vrcadmin/internal/module"
	"github.com/nfrund/vrcadmin/internal/registry"
	cmp "maragu.dev/gomponents"
	c "maragu.dev/gomponents/components"
	g "maragu.dev/gomponents/html"
)

const (
	recordsPath = "/admin/attendance"
	statusPath  = "/admin/attendance/status"
	flcPath     = "/admin/attendance/flc"
)

// Dependencies holds what the attendance module needs.
type Dependencies struct {
	Backend   *backend.Client
	Auth      echo.MiddlewareFunc
	CacheSize int
	Logger    *slog.Logger
}

// Module serves the attendance log, the check-in status list and the FLC
// attendance sheet.
type Module struct {
	module.BaseModule
	deps Dependencies
}

// New creates the attendance module.
func New(deps Dependencies) *Module {
	return &Module{deps: deps}
}

// Name returns the module name.
func (m *Module) Name() string {
	return "attendance"
}

func entryVolunteer(e domain.AttendanceEntry) domain.EntryVolunteer {
	if e.Volunteer == nil {
		return domain.EntryVolunteer{}
	}
	return *e.Volunteer
}

// RecordSchema describes the attendance log.
var RecordSchema = listing.Schema[domain.AttendanceEntry]{
	Entity: "record",
	ID:     func(e domain.AttendanceEntry) string { return e.ID },
	Fields: []listing.Field[domain.AttendanceEntry]{
		{Name: "name", Label: "Name", Value: func(e domain.AttendanceEntry) string { return entryVolunteer(e).Name }, Searchable: true},
		{Name: "whatsappNumber", Label: "WhatsApp", Value: func(e domain.AttendanceEntry) string { return entryVolunteer(e).WhatsAppNumber }, Searchable: true},
		{Name: "serviceType", Label: "Service", Value: domain.AttendanceEntry.ServiceType, Enum: true},
		{Name: "status", Label: "Status", Value: func(e domain.AttendanceEntry) string { return e.Status }, Enum: true},
		{Name: "date", Label: "Date", Value: func(e domain.AttendanceEntry) string { return e.Date }, Enum: true},
	},
}

// StatusSchema describes users with a check-in status.
var StatusSchema = listing.Schema[domain.StatusUser]{
	Entity: "user",
	ID:     func(u domain.StatusUser) string { return u.ID },
	Fields: []listing.Field[domain.StatusUser]{
		{Name: "name", Label: "Name", Value: func(u domain.StatusUser) string { return u.Name }, Searchable: true},
		{Name: "phone", Label: "Phone", Value: func(u domain.StatusUser) string { return u.Phone }, Searchable: true},
		{Name: "status", Label: "Status", Value: func(u domain.StatusUser) string {
			if u.Status == nil {
				return ""
			}
			return *u.Status
		}, Enum: true},
	},
}

// FLCSchema describes the FLC attendance sheet.
var FLCSchema = listing.Schema[domain.PresentUser]{
	Entity: "attendee",
	ID:     func(u domain.PresentUser) string { return u.ID },
	Fields: []listing.Field[domain.PresentUser]{
		{Name: "name", Label: "Name", Value: func(u domain.PresentUser) string { return u.Name }, Searchable: true},
		{Name: "whatsappNumber", Label: "WhatsApp", Value: func(u domain.PresentUser) string { return u.WhatsAppNumber }, Searchable: true},
		{Name: "organization", Label: "Organization", Value: func(u domain.PresentUser) string { return u.Organization }, Enum: true},
		{Name: "location", Label: "Location", Value: func(u domain.PresentUser) string { return u.Location }, Searchable: true},
	},
}

// Boot mounts the three reports.
func (m *Module) Boot(ctx context.Context, e *echo.Group, reg *registry.Registry) error {
	client := m.deps.Backend

	records := crud.New(crud.Config[domain.AttendanceEntry]{
		Screen:   &listing.Screen[domain.AttendanceEntry]{Schema: RecordSchema, Source: client.ListAttendance, Logger: m.deps.Logger},
		Store:    listing.NewStore[domain.AttendanceEntry](m.deps.CacheSize),
		BasePath: recordsPath,
		Title:    "Attendance Records",
		PageSize: 50,
		Aside:    func(echo.Context, *listing.View[domain.AttendanceEntry]) cmp.Node { return tabs(recordsPath) },
		Summary:  serviceCounts,
	})
	status := crud.New(crud.Config[domain.StatusUser]{
		Screen:   &listing.Screen[domain.StatusUser]{Schema: StatusSchema, Source: client.ListStatusUsers, Logger: m.deps.Logger},
		Store:    listing.NewStore[domain.StatusUser](m.deps.CacheSize),
		BasePath: statusPath,
		Title:    "Check-in Status",
		Aside:    func(echo.Context, *listing.View[domain.StatusUser]) cmp.Node { return tabs(statusPath) },
	})
	flc := crud.New(crud.Config[domain.PresentUser]{
		Screen:   &listing.Screen[domain.PresentUser]{Schema: FLCSchema, Source: client.ListPresentUsers, Logger: m.deps.Logger},
		Store:    listing.NewStore[domain.PresentUser](m.deps.CacheSize),
		BasePath: flcPath,
		Title:    "FLC Attendance",
		Aside:    func(echo.Context, *listing.View[domain.PresentUser]) cmp.Node { return tabs(flcPath) },
	})

	status.Register(module.Group(e, statusPath, m.deps.Auth))
	flc.Register(module.Group(e, flcPath, m.deps.Auth))
	records.Register(module.Group(e, recordsPath, m.deps.Auth))
	return nil
}

func tabs(current string) cmp.Node {
	links := []struct{ label, path string }{
		{"Records", recordsPath},
		{"Check-in Status", statusPath},
		{"FLC Attendance", flcPath},
	}
	return g.Nav(
		g.Class("flex gap-2"),
		cmp.Map(links, func(l struct{ label, path string }) cmp.Node {
			return g.A(
				g.Href(l.path),
				c.Classes{"px-3 py-1 rounded border": true, "bg-teal-600 text-white": l.path == current, "bg-white": l.path != current},
				cmp.Text(l.label),
			)
		}),
	)
}

// serviceCounts shows how many filtered records each service holds.
func serviceCounts(_ *listing.View[domain.AttendanceEntry], rows []domain.AttendanceEntry) cmp.Node {
	counts := listing.Count(RecordSchema, rows, "serviceType")
	keys := make([]string, 0, len(counts))
	for k := range counts {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return g.Div(
		g.Class("grid grid-cols-2 md:grid-cols-4 gap-2 mb-2"),
		cmp.Map(keys, func(k string) cmp.Node {
			return g.Div(
				g.Class("bg-white rounded shadow p-2 text-center"),
				g.Div(g.Class("text-xs text-gray-500"), cmp.Text(k)),
				g.Div(g.Class("text-xl font-bold"), cmp.Textf("%d", counts[k])),
			)
		}),
	)
}
