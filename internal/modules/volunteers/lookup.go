package volunteers

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/nfrund/vrcadmin/internal/activity"
	"github.com/nfrund/vrcadmin/internal/backend"
	"github.com/nfrund/vrcadmin/internal/domain"
	"github.com/nfrund/vrcadmin/internal/handlers"
	"github.com/nfrund/vrcadmin/internal/middleware"
	"github.com/nfrund/vrcadmin/internal/view"
	"github.com/nfrund/vrcadmin/web/src/templates/components"
	cmp "maragu.dev/gomponents"
	hx "maragu.dev/gomponents-htmx"
	g "maragu.dev/gomponents/html"
)

const (
	msgNotFound      = "Volunteer not found. Please check your WhatsApp number or contact admin."
	msgNotAssigned   = "Your seva (service) will be assigned soon. Please contact your coordinator if you have questions."
	msgCheckFailed   = "Something went wrong while checking your service assignment."
	msgEnterNumber   = "Please enter your WhatsApp number."
	dailyPassQuote   = "“Chant Hare Krishna and be happy.” – Srila Prabhupada"
	dailyDateLayout  = "January 2"
	attendanceFailed = "Attendance error"
)

func lookupForm(action, target string, useGet bool) cmp.Node {
	method := hx.Post(action)
	if useGet {
		method = hx.Get(action)
	}
	return g.Form(
		method,
		hx.Target(target),
		hx.Swap("outerHTML"),
		g.Class("flex gap-2"),
		g.Input(g.Type("tel"), g.Name("whatsapp"), g.Placeholder("WhatsApp number"), g.Required(), g.Class("border rounded px-3 py-2 flex-1")),
		components.Submit("Check"),
	)
}

func (m *Module) checkGet(c echo.Context) error {
	return handlers.RenderPage(c, http.StatusOK, "Check Service Assignment",
		g.Div(
			g.Class("max-w-xl mx-auto space-y-4"),
			components.Heading("Check Service Assignment"),
			lookupForm("/check/result", "#result", true),
			g.Div(g.ID("result")),
		),
	)
}

func notice(kind, msg string) cmp.Node {
	classes := map[string]string{
		"info":    "border-blue-300 bg-blue-50 text-blue-800",
		"error":   "border-red-300 bg-red-50 text-red-800",
		"success": "border-green-300 bg-green-50 text-green-800",
	}
	return g.Div(cmp.Attr("role", "status"), g.Class("border rounded p-4 "+classes[kind]), cmp.Text(msg))
}

func result(nodes ...cmp.Node) cmp.Node {
	return g.Div(g.ID("result"), g.Class("space-y-3"), cmp.Group(nodes))
}

// checkResult tells a volunteer which service and coordinator they have.
func (m *Module) checkResult(c echo.Context) error {
	number := domain.NormalizeWhatsApp(c.QueryParam("whatsapp"))
	if number == "" {
		return handlers.Fragment(c, http.StatusOK, result(notice("error", msgEnterNumber)))
	}

	ctx := c.Request().Context()
	v, err := m.deps.Backend.GetVolunteerByWhatsApp(ctx, number)
	switch {
	case errors.Is(err, domain.ErrNotFound):
		return handlers.Fragment(c, http.StatusOK, result(notice("error", msgNotFound)))
	case err != nil:
		middleware.FromContext(ctx).Error("Service check failed", "error", err)
		return handlers.Fragment(c, http.StatusOK, result(notice("error", msgCheckFailed)))
	case !v.AssignedService.IsAssigned():
		return handlers.Fragment(c, http.StatusOK, result(notice("info", msgNotAssigned)))
	}

	svc := v.AssignedService
	return handlers.Fragment(c, http.StatusOK, result(
		notice("success", "You are assigned to "+svc.ServiceName),
		components.Card("Your seva",
			g.Dl(
				g.Class("grid grid-cols-3 gap-2"),
				row("Service", svc.ServiceName),
				row("Coordinator", svc.CoordinatorName),
				g.Dt(g.Class("font-semibold"), cmp.Text("Contact")),
				g.Dd(g.Class("col-span-2"), g.A(g.Href("https://wa.me/"+domain.NormalizeWhatsApp(svc.CoordinatorNumber)), g.Class("text-teal-700 underline"), cmp.Text(svc.CoordinatorNumber))),
			),
		),
	))
}

func (m *Module) today() string {
	return m.deps.Now().Format(dailyDateLayout)
}

func (m *Module) passGet(c echo.Context) error {
	return handlers.RenderPage(c, http.StatusOK, "Daily Attendance",
		g.Div(
			g.Class("max-w-xl mx-auto space-y-4"),
			components.Heading("Daily Attendance"),
			g.P(g.Class("italic text-gray-600"), cmp.Text(dailyPassQuote)),
			lookupForm("/attendance/lookup", "#pass", false),
			g.Div(g.ID("pass")),
		),
	)
}

func (m *Module) passLookup(c echo.Context) error {
	number := domain.NormalizeWhatsApp(c.FormValue("whatsapp"))
	if number == "" {
		return handlers.Fragment(c, http.StatusOK, g.Div(g.ID("pass"), notice("error", msgEnterNumber)))
	}
	ctx := c.Request().Context()
	v, err := m.deps.Backend.GetVolunteerByWhatsApp(ctx, number)
	if err != nil {
		if !errors.Is(err, domain.ErrNotFound) {
			middleware.FromContext(ctx).Error("Daily pass lookup failed", "error", err)
		}
		return handlers.Fragment(c, http.StatusOK, g.Div(g.ID("pass"), notice("error", "Volunteer not found")))
	}
	return handlers.Fragment(c, http.StatusOK, m.pass(v))
}

// passMark records today's attendance under the volunteer's service, or
// "General" when none is assigned.
func (m *Module) passMark(c echo.Context) error {
	ctx := c.Request().Context()
	number := domain.NormalizeWhatsApp(c.FormValue("whatsapp"))
	service := c.FormValue("serviceType")
	if service == "" {
		service = "General"
	}
	req := domain.MarkAttendanceRequest{WhatsAppNumber: number, Date: m.today(), ServiceType: service}

	v, err := m.deps.Backend.MarkAttendance(ctx, req)
	if err != nil {
		middleware.FromContext(ctx).Error("Mark attendance failed", "error", err)
		return handlers.FailFragment(c, backend.MessageOf(err, attendanceFailed))
	}
	m.deps.Notifier.Attended(ctx, activity.Attendance{Name: v.Name, Date: req.Date, ServiceType: service})
	return handlers.Fragment(c, http.StatusOK,
		m.pass(v),
		handlers.FlashOOB(view.FlashData{Success: []string{"Attendance for " + req.Date + " has been marked."}}),
	)
}

func (m *Module) pass(v domain.Volunteer) cmp.Node {
	today := m.today()
	service := v.ServiceName()
	attended := v.AttendedOn(today, service)
	return g.Div(
		g.ID("pass"),
		components.Card(v.Name,
			g.P(g.Class("text-sm text-gray-600"), cmp.Textf("Age: %d | WhatsApp: %s", v.Age, v.WhatsAppNumber)),
			g.P(g.Class("text-2xl font-bold text-teal-700"), cmp.Text(today)),
			g.P(cmp.Textf("Service: %s", service)),
			cmp.If(attended, notice("success", "Attendance already marked for today.")),
			cmp.If(!attended, g.Form(
				hx.Post("/attendance/mark"),
				hx.Target("#pass"),
				hx.Swap("outerHTML"),
				g.Input(g.Type("hidden"), g.Name("whatsapp"), g.Value(v.WhatsAppNumber)),
				g.Input(g.Type("hidden"), g.Name("serviceType"), g.Value(service)),
				components.Submit("Mark Attendance"),
			)),
			cmp.If(len(v.Attendance) > 0, attendanceHistory(v.Attendance)),
		),
	)
}
