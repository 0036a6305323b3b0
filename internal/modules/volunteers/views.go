package volunteers

import (
	"strings"

	"github.com/nfrund/vrcadmin/internal/domain"
	cmp "maragu.dev/gomponents"
	hx "maragu.dev/gomponents-htmx"
	g "maragu.dev/gomponents/html"
)

func availabilitySummary(v domain.Volunteer) string {
	parts := make([]string, 0, len(v.ServiceAvailability))
	for _, a := range v.ServiceAvailability {
		if a.TimeSlot == "" || a.TimeSlot == SlotNotPossible {
			continue
		}
		parts = append(parts, a.Date+": "+a.TimeSlot)
	}
	return strings.Join(parts, ", ")
}

func exportButton() cmp.Node {
	return g.Div(
		g.Class("flex justify-end"),
		g.Button(
			g.Type("button"),
			g.Class("bg-green-600 hover:bg-green-700 text-white px-4 py-2 rounded"),
			hx.Post(basePath+"/export"),
			hx.Include("#filters"),
			hx.Swap("none"),
			cmp.Attr("hx-disabled-elt", "this"),
			cmp.Text("Export to Google Sheet"),
		),
	)
}

func row(label, value string) cmp.Node {
	if value == "" {
		value = "-"
	}
	return cmp.Group{
		g.Dt(g.Class("font-semibold"), cmp.Text(label)),
		g.Dd(g.Class("col-span-2"), cmp.Text(value)),
	}
}

// detail is the volunteer profile dialog.
func detail(v domain.Volunteer) cmp.Node {
	var coordinator string
	if v.AssignedService.IsAssigned() {
		coordinator = v.AssignedService.CoordinatorName + " (" + v.AssignedService.CoordinatorNumber + ")"
	}
	return g.Div(
		g.Class("space-y-4"),
		cmp.If(v.ImageURL != "", g.Img(g.Src(v.ImageURL), g.Alt(v.Name), g.Class("w-24 h-24 rounded-full object-cover"))),
		g.Dl(
			g.Class("grid grid-cols-3 gap-2"),
			row("Name", v.Name),
			row("WhatsApp", v.WhatsAppNumber),
			row("Date of Birth", v.DateOfBirth),
			row("Gender", v.Gender),
			row("Marital Status", v.MaritalStatus),
			row("Profession", v.Profession),
			row("College/Company", v.CollegeOrCompany),
			row("Locality", v.Locality),
			row("In touch with", v.ReferredBy),
			row("Heard via", v.InfoSource),
			row("T-Shirt", v.TShirtSize),
			row("Accommodation", v.NeedAccommodation),
			row("Service", v.ServiceName()),
			row("Coordinator", coordinator),
		),
		g.H3(g.Class("font-semibold"), cmp.Text("Availability")),
		g.Ul(
			g.Class("list-disc ml-6"),
			cmp.Map(v.ServiceAvailability, func(a domain.Availability) cmp.Node {
				return g.Li(cmp.Textf("%s: %s", a.Date, a.TimeSlot))
			}),
		),
		cmp.If(len(v.Attendance) > 0, attendanceHistory(v.Attendance)),
	)
}

func attendanceHistory(records []domain.AttendanceRecord) cmp.Node {
	return g.Div(
		g.H3(g.Class("font-semibold"), cmp.Text("Attendance")),
		g.Ul(
			g.Class("list-disc ml-6"),
			cmp.Map(records, func(a domain.AttendanceRecord) cmp.Node {
				status := "Absent"
				if a.Attended {
					status = "Present"
				}
				service := a.ServiceType
				if service == "" {
					service = "General"
				}
				return g.Li(cmp.Textf("%s - %s: %s", a.Date, service, status))
			}),
		),
	)
}
