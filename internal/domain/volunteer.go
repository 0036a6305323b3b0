package domain

import (
	"encoding/json"
	"strings"
)

// unassignedMarker is what the spreadsheet import writes into coordinator
// fields that were left blank.
const unassignedMarker = "nan"

// Volunteer is a person registered through the volunteer form.
type Volunteer struct {
	ID                  string             `json:"_id,omitempty"`
	Name                string             `json:"name"`
	WhatsAppNumber      string             `json:"whatsappNumber"`
	DateOfBirth         string             `json:"dateOfBirth,omitempty"`
	Age                 int                `json:"age,omitempty"`
	Gender              string             `json:"gender,omitempty"`
	MaritalStatus       string             `json:"maritalStatus,omitempty"`
	Profession          string             `json:"profession,omitempty"`
	CollegeOrCompany    string             `json:"collegeOrCompany,omitempty"`
	Locality            string             `json:"locality,omitempty"`
	ReferredBy          string             `json:"referredBy,omitempty"`
	InfoSource          string             `json:"infoSource,omitempty"`
	ServiceAvailability []Availability     `json:"serviceAvailability,omitempty"`
	TShirtSize          string             `json:"tshirtSize,omitempty"`
	NeedAccommodation   string             `json:"needAccommodation,omitempty"`
	ImageURL            string             `json:"imageUrl,omitempty"`
	AssignedService     *AssignedService   `json:"assignedService,omitempty"`
	Attendance          []AttendanceRecord `json:"attendance,omitempty"`
}

// Availability is one day a volunteer offered to serve.
type Availability struct {
	Date     string `json:"date"`
	TimeSlot string `json:"timeSlot"`
}

// FullDay reports whether any availability entry covers a full day.
func (v Volunteer) FullDay() bool {
	for _, a := range v.ServiceAvailability {
		if a.TimeSlot == "Full Day" {
			return true
		}
	}
	return false
}

// ServiceName returns the assigned service name, or "General" when the
// volunteer has no usable assignment. Attendance is recorded under this name.
func (v Volunteer) ServiceName() string {
	if v.AssignedService.IsAssigned() {
		return v.AssignedService.ServiceName
	}
	return "General"
}

// AttendedOn reports whether an attended record exists for the given day and
// service type.
func (v Volunteer) AttendedOn(date, serviceType string) bool {
	for _, a := range v.Attendance {
		if a.Date == date && a.ServiceType == serviceType && a.Attended {
			return true
		}
	}
	return false
}

// AssignedService is the coordinator snapshot stored on a volunteer.
// The server returns either the full object or only its id.
type AssignedService struct {
	ID                string `json:"_id,omitempty"`
	ServiceName       string `json:"serviceName,omitempty"`
	CoordinatorName   string `json:"coordinatorName,omitempty"`
	CoordinatorNumber string `json:"coordinatorNumber,omitempty"`
}

// UnmarshalJSON accepts both the object form and a bare id string.
func (a *AssignedService) UnmarshalJSON(data []byte) error {
	var id string
	if err := json.Unmarshal(data, &id); err == nil {
		*a = AssignedService{ID: id}
		return nil
	}
	type plain AssignedService
	var p plain
	if err := json.Unmarshal(data, &p); err != nil {
		return err
	}
	*a = AssignedService(p)
	return nil
}

// IsAssigned reports whether the snapshot carries a complete coordinator.
func (a *AssignedService) IsAssigned() bool {
	if a == nil || a.ID == "" {
		return false
	}
	for _, f := range []string{a.ServiceName, a.CoordinatorName, a.CoordinatorNumber} {
		if f == "" || strings.EqualFold(f, unassignedMarker) {
			return false
		}
	}
	return true
}

// VolunteerPage is one page of the volunteer listing endpoint.
type VolunteerPage struct {
	Data       []Volunteer `json:"data"`
	TotalCount int         `json:"totalCount"`
}

// NormalizeWhatsApp strips everything but digits from a phone number.
func NormalizeWhatsApp(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}
