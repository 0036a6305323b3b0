package volunteers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"regexp"
	"testing"
	"time"

	"github.com/nfrund/vrcadmin/internal/domain"
	"github.com/nfrund/vrcadmin/internal/testutils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var viewIDPattern = regexp.MustCompile(`id="view-id" name="view" value="([^"]+)"`)

var assigned = &domain.AssignedService{ID: "c1", ServiceName: "Parking", CoordinatorName: "Gauranga", CoordinatorNumber: "9876500009"}

func newModule(t *testing.T) (*testutils.FakeBackend, *Module) {
	t.Helper()
	fake := testutils.NewFakeBackend(t)
	fake.JSON("GET /volunteerform/api/volunteers", http.StatusOK, domain.VolunteerPage{
		Data: []domain.Volunteer{
			{ID: "v1", Name: "Rama", WhatsAppNumber: "9876500001", Gender: "Male", AssignedService: assigned},
			{ID: "v2", Name: "Sita", WhatsAppNumber: "9876500002", Gender: "Female"},
		},
		TotalCount: 2,
	})
	fake.JSON("GET /servicecoordinator", http.StatusOK, []domain.ServiceCoordinator{
		{ID: "c2", ServiceName: "Kitchen", CoordinatorName: "Madhava", CoordinatorNumber: "9876500010"},
	})
	m := New(Dependencies{
		Backend:   fake.Client(t),
		CacheSize: 4,
		Now:       func() time.Time { return time.Date(2026, time.August, 15, 9, 0, 0, 0, time.UTC) },
	})
	return fake, m
}

func TestAdminTable(t *testing.T) {
	fake, m := newModule(t)
	fake.JSON("PATCH /volunteerform/api/volunteers/v2", http.StatusOK, nil)
	fake.JSON("POST /volunteerform/api/export-volunteers", http.StatusOK, map[string]string{"message": "Exported 1 volunteers"})

	e := testutils.NewEcho()
	require.NoError(t, m.Boot(context.Background(), e.Group(""), nil))

	rec := testutils.Do(e, http.MethodGet, basePath, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "Kitchen - Madhava")
	viewID := viewIDPattern.FindStringSubmatch(body)[1]

	t.Run("service filter uses General for unassigned", func(t *testing.T) {
		rec := testutils.Do(e, http.MethodGet, basePath+"/rows?view="+viewID+"&service=General", nil)
		assert.Contains(t, rec.Body.String(), "Sita")
		assert.NotContains(t, rec.Body.String(), "Rama")
	})

	t.Run("assign coordinator sends the snapshot once", func(t *testing.T) {
		rec := testutils.Do(e, http.MethodPatch, basePath+"/v2/assign", url.Values{"view": {viewID}, "value": {"c2"}})
		assert.Equal(t, http.StatusOK, rec.Code)
		require.Equal(t, 1, fake.Count(http.MethodPatch, "/volunteerform/api/volunteers/v2"))

		call, _ := fake.Last(http.MethodPatch, "/volunteerform/api/volunteers/v2")
		var body struct {
			AssignedService domain.AssignedService `json:"assignedService"`
		}
		require.NoError(t, json.Unmarshal(call.Body, &body))
		assert.Equal(t, "Madhava", body.AssignedService.CoordinatorName)

		rec = testutils.Do(e, http.MethodGet, basePath+"/rows?view="+viewID+"&service=Kitchen", nil)
		assert.Contains(t, rec.Body.String(), "Sita")
	})

	t.Run("export sends the filtered rows", func(t *testing.T) {
		rec := testutils.Do(e, http.MethodPost, basePath+"/export", url.Values{"q": {"rama"}}, testutils.HTMX...)
		assert.Contains(t, rec.Body.String(), "Exported 1 volunteers")
		call, _ := fake.Last(http.MethodPost, "/volunteerform/api/export-volunteers")
		var body struct {
			Volunteers []domain.Volunteer `json:"volunteers"`
		}
		require.NoError(t, json.Unmarshal(call.Body, &body))
		require.Len(t, body.Volunteers, 1)
		assert.Equal(t, "Rama", body.Volunteers[0].Name)
	})
}

func TestRegistration(t *testing.T) {
	fake, m := newModule(t)
	fake.JSON("POST /volunteerform/api/volunteers", http.StatusCreated, nil)

	e := testutils.NewEcho()
	require.NoError(t, m.Boot(context.Background(), e.Group(""), nil))

	base := url.Values{
		"name":           {"Krishna"},
		"whatsappNumber": {"98765 43210"},
		"dateOfBirth":    {"2001-01-01"},
		"age":            {"24"},
		"gender":         {"Male"},
		"contactPerson":  {"Rama Dasa"},
		"slot0":          {SlotFullDay},
	}

	t.Run("young men and full-day volunteers answer extra questions", func(t *testing.T) {
		rec := testutils.Do(e, http.MethodPost, "/register", base)
		assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
		body := rec.Body.String()
		assert.Contains(t, body, "Marital status is required")
		assert.Contains(t, body, "College or company is required")
		assert.Contains(t, body, "T shirt size is required")
		assert.NotContains(t, body, "Profession is required", "profession defaults to Student")
		assert.Equal(t, 0, fake.Count(http.MethodPost, "/volunteerform/api/volunteers"))
	})

	t.Run("complete form registers once", func(t *testing.T) {
		form := url.Values{}
		for k, v := range base {
			form[k] = v
		}
		form.Set("maritalStatus", "Single")
		form.Set("collegeOrCompany", "GITAM")
		form.Set("tshirtSize", "M")
		form.Set("needAccommodation", "No")

		rec := testutils.Do(e, http.MethodPost, "/register", form)
		assert.Equal(t, http.StatusSeeOther, rec.Code)
		require.Equal(t, 1, fake.Count(http.MethodPost, "/volunteerform/api/volunteers"))

		call, _ := fake.Last(http.MethodPost, "/volunteerform/api/volunteers")
		var v domain.Volunteer
		require.NoError(t, json.Unmarshal(call.Body, &v))
		assert.Equal(t, "9876543210", v.WhatsAppNumber)
		assert.Equal(t, "Student", v.Profession)
		assert.Equal(t, "Rama Dasa", v.ReferredBy)
		assert.Equal(t, "Other", v.InfoSource)
		assert.Equal(t, []domain.Availability{{Date: "August 14", TimeSlot: SlotFullDay}}, v.ServiceAvailability)
	})

	t.Run("women skip the conditional questions", func(t *testing.T) {
		form := url.Values{
			"name": {"Radha"}, "whatsappNumber": {"9876543211"}, "dateOfBirth": {"2000-02-02"},
			"age": {"25"}, "gender": {"Female"}, "contactPerson": {"Not associated"},
			"maritalStatus": {"Single"},
		}
		rec := testutils.Do(e, http.MethodPost, "/register", form)
		assert.Equal(t, http.StatusSeeOther, rec.Code)
		call, _ := fake.Last(http.MethodPost, "/volunteerform/api/volunteers")
		var v domain.Volunteer
		require.NoError(t, json.Unmarshal(call.Body, &v))
		assert.Empty(t, v.MaritalStatus)
	})

	t.Run("conditional fields fragment", func(t *testing.T) {
		rec := testutils.Do(e, http.MethodGet, "/register/fields?age=20&gender=Male", nil)
		assert.Contains(t, rec.Body.String(), "Marital Status")
		assert.NotContains(t, rec.Body.String(), "T-Shirt Size")
	})
}

func TestCheckAssignment(t *testing.T) {
	fake, m := newModule(t)
	fake.JSON("GET /volunteerform/api/volunteers/9876500001", http.StatusOK, domain.Volunteer{ID: "v1", Name: "Rama", AssignedService: assigned})
	fake.JSON("GET /volunteerform/api/volunteers/9876500002", http.StatusOK, domain.Volunteer{ID: "v2", Name: "Sita", AssignedService: &domain.AssignedService{ID: "c9", ServiceName: "nan"}})
	fake.JSON("GET /volunteerform/api/volunteers/9876500003", http.StatusNotFound, map[string]string{"message": "Volunteer not found"})

	e := testutils.NewEcho()
	require.NoError(t, m.Boot(context.Background(), e.Group(""), nil))

	tests := []struct {
		number string
		want   string
	}{
		{"+98765 00001", "You are assigned to Parking"},
		{"9876500002", msgNotAssigned},
		{"9876500003", msgNotFound},
		{"", msgEnterNumber},
	}
	for _, tt := range tests {
		t.Run(tt.number, func(t *testing.T) {
			rec := testutils.Do(e, http.MethodGet, "/check/result?whatsapp="+url.QueryEscape(tt.number), nil)
			assert.Equal(t, http.StatusOK, rec.Code)
			assert.Contains(t, rec.Body.String(), tt.want)
		})
	}
}

func TestDailyPass(t *testing.T) {
	fake, m := newModule(t)
	fake.JSON("GET /volunteerform/api/volunteers/9876500001", http.StatusOK, domain.Volunteer{
		ID: "v1", Name: "Rama", WhatsAppNumber: "9876500001", AssignedService: assigned,
	})
	fake.JSON("POST /volunteerform/api/attendance", http.StatusOK, map[string]any{
		"message": "ok",
		"volunteer": domain.Volunteer{
			ID: "v1", Name: "Rama", WhatsAppNumber: "9876500001", AssignedService: assigned,
			Attendance: []domain.AttendanceRecord{{Date: "August 15", ServiceType: "Parking", Attended: true}},
		},
	})

	e := testutils.NewEcho()
	require.NoError(t, m.Boot(context.Background(), e.Group(""), nil))

	rec := testutils.Do(e, http.MethodPost, "/attendance/lookup", url.Values{"whatsapp": {"9876500001"}})
	assert.Contains(t, rec.Body.String(), "August 15")
	assert.Contains(t, rec.Body.String(), "Mark Attendance")

	rec = testutils.Do(e, http.MethodPost, "/attendance/mark", url.Values{"whatsapp": {"9876500001"}, "serviceType": {"Parking"}})
	assert.Contains(t, rec.Body.String(), "Attendance already marked for today.")
	assert.Contains(t, rec.Body.String(), "Attendance for August 15 has been marked.")

	call, _ := fake.Last(http.MethodPost, "/volunteerform/api/attendance")
	assert.JSONEq(t, `{"whatsappNumber":"9876500001","date":"August 15","serviceType":"Parking"}`, string(call.Body))

	rec = testutils.Do(e, http.MethodPost, "/attendance/lookup", url.Values{"whatsapp": {"1111111111"}})
	assert.Contains(t, rec.Body.String(), "Volunteer not found")
}
