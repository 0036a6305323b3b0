package volunteers

import (
	"net/http"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
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

// Time slots offered per festival day.
const (
	SlotFullDay     = "Full Day"
	SlotHalfDay2pm  = "Half Day 2pm"
	SlotHalfDay4pm  = "Half Day 4pm"
	SlotNotPossible = "Not Possible"
)

var (
	// AvailabilityDates are the festival days volunteers can sign up for.
	AvailabilityDates = []string{"August 14", "August 15", "August 16", "August 17"}

	slotLabels = []struct{ value, label string }{
		{SlotFullDay, "9am to 9pm (Full Day)"},
		{SlotHalfDay2pm, "2pm to 9pm (Half Day)"},
		{SlotHalfDay4pm, "4pm to 9pm (Half Day)"},
		{SlotNotPossible, "Not Possible"},
	}

	contactPersons = []string{"Sitanatha Dasa", "Rama Dasa", "Gauranga Dasa", "Mani Teja Prabhu", "Not associated"}
	infoSources    = []string{"Whatsapp Group", "Instagram", "Facebook", "Friends Reference", "Other"}
	professions    = []string{"Student", "Working", "Job Trails", "Business", "Others"}
)

type registrationRequest struct {
	Name              string `form:"name" query:"name" validate:"required"`
	WhatsAppNumber    string `form:"whatsappNumber" query:"whatsappNumber" validate:"required,numeric,min=10,max=15"`
	DateOfBirth       string `form:"dateOfBirth" query:"dateOfBirth" validate:"required"`
	Age               int    `form:"age" query:"age" validate:"required,gt=0,lt=120"`
	Gender            string `form:"gender" query:"gender" validate:"required,oneof=Male Female"`
	MaritalStatus     string `form:"maritalStatus" query:"maritalStatus"`
	Profession        string `form:"profession" query:"profession"`
	CollegeOrCompany  string `form:"collegeOrCompany" query:"collegeOrCompany"`
	Locality          string `form:"locality" query:"locality"`
	ContactPerson     string `form:"contactPerson" query:"contactPerson" validate:"required"`
	InfoSource        string `form:"infoSource" query:"infoSource"`
	TShirtSize        string `form:"tshirtSize" query:"tshirtSize"`
	NeedAccommodation string `form:"needAccommodation" query:"needAccommodation"`

	Availability []domain.Availability `form:"-"`
}

// youngMan gates the marital status, profession and college questions.
func (r registrationRequest) youngMan() bool {
	return r.Age > 0 && r.Age < 30 && r.Gender == "Male"
}

func (r registrationRequest) fullDay() bool {
	for _, a := range r.Availability {
		if a.TimeSlot == SlotFullDay {
			return true
		}
	}
	return false
}

func registrationRules(sl validator.StructLevel) {
	r := sl.Current().Interface().(registrationRequest)
	if r.youngMan() {
		if r.MaritalStatus == "" {
			sl.ReportError(r.MaritalStatus, "MaritalStatus", "maritalStatus", "required", "")
		}
		if r.Profession == "" {
			sl.ReportError(r.Profession, "Profession", "profession", "required", "")
		}
		if r.CollegeOrCompany == "" {
			sl.ReportError(r.CollegeOrCompany, "CollegeOrCompany", "collegeOrCompany", "required", "")
		}
	}
	if r.fullDay() {
		if r.TShirtSize == "" {
			sl.ReportError(r.TShirtSize, "TShirtSize", "tshirtSize", "required", "")
		}
		if r.NeedAccommodation == "" {
			sl.ReportError(r.NeedAccommodation, "NeedAccommodation", "needAccommodation", "required", "")
		}
	}
}

// volunteer builds the payload, dropping answers to questions that did not
// apply.
func (r registrationRequest) volunteer() domain.Volunteer {
	v := domain.Volunteer{
		Name:                r.Name,
		WhatsAppNumber:      r.WhatsAppNumber,
		DateOfBirth:         r.DateOfBirth,
		Age:                 r.Age,
		Gender:              r.Gender,
		Locality:            r.Locality,
		ReferredBy:          r.ContactPerson,
		InfoSource:          r.InfoSource,
		ServiceAvailability: r.Availability,
	}
	if v.ReferredBy == "" {
		v.ReferredBy = "Other"
	}
	if v.InfoSource == "" {
		v.InfoSource = "Other"
	}
	if r.youngMan() {
		v.MaritalStatus = r.MaritalStatus
		v.Profession = r.Profession
		v.CollegeOrCompany = r.CollegeOrCompany
	}
	if r.fullDay() {
		v.TShirtSize = r.TShirtSize
		v.NeedAccommodation = r.NeedAccommodation
	}
	return v
}

func slotField(i int) string {
	return "slot" + strconv.Itoa(i)
}

func bindRegistration(c echo.Context) (registrationRequest, error) {
	var req registrationRequest
	if err := c.Bind(&req); err != nil {
		return req, err
	}
	req.WhatsAppNumber = domain.NormalizeWhatsApp(req.WhatsAppNumber)
	for i, date := range AvailabilityDates {
		if slot := c.FormValue(slotField(i)); slot != "" {
			req.Availability = append(req.Availability, domain.Availability{Date: date, TimeSlot: slot})
		}
	}
	if req.youngMan() && req.Profession == "" {
		req.Profession = "Student"
	}
	return req, nil
}

func (m *Module) registerGet(c echo.Context) error {
	return handlers.RenderPage(c, http.StatusOK, "Volunteer Registration", registrationForm(registrationRequest{}, nil))
}

// registerFields re-renders the conditional questions as the form changes.
func (m *Module) registerFields(c echo.Context) error {
	req, _ := bindRegistration(c)
	return handlers.Fragment(c, http.StatusOK, conditionalFields(req))
}

func (m *Module) registerPost(c echo.Context) error {
	req, err := bindRegistration(c)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid form")
	}
	if err := m.validator.Validate(req); err != nil {
		return handlers.RenderPage(c, http.StatusUnprocessableEntity, "Volunteer Registration",
			registrationForm(req, handlers.ValidationMessages(err)))
	}

	ctx := c.Request().Context()
	if err := m.deps.Backend.CreateVolunteer(ctx, req.volunteer()); err != nil {
		middleware.FromContext(ctx).Error("Volunteer registration failed", "error", err)
		msg := backend.MessageOf(err, "Something went wrong.")
		return handlers.RenderPage(c, http.StatusOK, "Volunteer Registration", registrationForm(req, []string{msg}))
	}
	view.SetFlashSuccess(c, "Volunteer registered.")
	return c.Redirect(http.StatusSeeOther, "/register")
}

func registrationForm(req registrationRequest, errs []string) cmp.Node {
	age := ""
	if req.Age > 0 {
		age = strconv.Itoa(req.Age)
	}
	return g.Div(
		g.Class("max-w-2xl mx-auto space-y-4"),
		components.Heading("Volunteer Registration"),
		components.Alert(errs),
		g.Form(
			g.Method("post"), g.Action("/register"),
			g.Class("bg-white rounded shadow p-6 space-y-4"),
			hx.Get("/register/fields"),
			hx.Trigger("change from:[data-conditional]"),
			hx.Target("#conditional"),
			hx.Swap("outerHTML"),
			components.Field("Full Name", components.Input("text", "name", req.Name, true)),
			components.Field("WhatsApp Number", components.Input("tel", "whatsappNumber", req.WhatsAppNumber, true)),
			components.Field("Date of Birth", components.Input("date", "dateOfBirth", req.DateOfBirth, true)),
			components.Field("Age", components.Input("number", "age", age, true, g.Min("1"), cmp.Attr("data-conditional"))),
			components.Field("Gender", components.Select("gender", req.Gender, "Select gender", []string{"Male", "Female"}, cmp.Attr("data-conditional"))),
			components.Field("Your Current Locality", components.Input("text", "locality", req.Locality, false)),
			components.Field("Whom are you in touch with at Hare Krishna Movement?",
				components.Select("contactPerson", req.ContactPerson, "Select devotee", contactPersons)),
			components.Field("How did you get this information?",
				components.Select("infoSource", req.InfoSource, "Select source", infoSources)),
			availabilityFields(req),
			conditionalFields(req),
			components.Submit("Register"),
		),
	)
}

func slotFor(req registrationRequest, date string) string {
	for _, a := range req.Availability {
		if a.Date == date {
			return a.TimeSlot
		}
	}
	return ""
}

func availabilityFields(req registrationRequest) cmp.Node {
	nodes := make(cmp.Group, 0, len(AvailabilityDates))
	for i, date := range AvailabilityDates {
		current := slotFor(req, date)
		nodes = append(nodes, g.FieldSet(
			g.Class("border rounded p-3"),
			g.Legend(g.Class("text-sm font-medium px-1"), cmp.Textf("Service Availability for %s", date)),
			cmp.Map(slotLabels, func(s struct{ value, label string }) cmp.Node {
				return g.Label(
					g.Class("flex items-center gap-2"),
					g.Input(g.Type("radio"), g.Name(slotField(i)), g.Value(s.value), cmp.If(s.value == current, g.Checked()), cmp.Attr("data-conditional")),
					cmp.Text(s.label),
				)
			}),
		))
	}
	return nodes
}

// conditionalFields holds the questions that only apply to some volunteers.
func conditionalFields(req registrationRequest) cmp.Node {
	return g.Div(
		g.ID("conditional"),
		g.Class("space-y-4"),
		cmp.If(req.youngMan(), cmp.Group{
			components.Field("Marital Status", components.Select("maritalStatus", req.MaritalStatus, "Select", []string{"Single", "Married"})),
			components.Field("Profession", components.Select("profession", req.Profession, "Select", professions)),
			components.Field("College / Company Name", components.Input("text", "collegeOrCompany", req.CollegeOrCompany, false)),
		}),
		cmp.If(req.fullDay(), cmp.Group{
			components.Field("T-Shirt Size", components.Select("tshirtSize", req.TShirtSize, "Select size", []string{"XL", "L", "M", "S"})),
			components.Field("Do you need accommodation?", components.Select("needAccommodation", req.NeedAccommodation, "Select", []string{"Yes", "No"})),
		}),
	)
}
