package domain

// AttendanceRecord is a dated entry on a volunteer.
type AttendanceRecord struct {
	Date        string `json:"date"`
	ServiceType string `json:"serviceType"`
	Attended    bool   `json:"attended"`
	Verified    bool   `json:"verified,omitempty"`
}

// MarkAttendanceRequest records attendance for a volunteer on a given day.
type MarkAttendanceRequest struct {
	WhatsAppNumber string `json:"whatsappNumber"`
	Date           string `json:"date"`
	ServiceType    string `json:"serviceType"`
}

// AttendanceEntry is one row of the event attendance log.
type AttendanceEntry struct {
	ID        string          `json:"_id,omitempty"`
	Volunteer *EntryVolunteer `json:"volunteer,omitempty"`
	Status    string          `json:"status,omitempty"`
	Date      string          `json:"date,omitempty"`
}

// EntryVolunteer is the volunteer summary embedded in an AttendanceEntry.
type EntryVolunteer struct {
	ID             string `json:"_id,omitempty"`
	Name           string `json:"name,omitempty"`
	WhatsAppNumber string `json:"whatsappNumber,omitempty"`
	ServiceType    string `json:"serviceType,omitempty"`
}

// ServiceType returns the entry's service type or "N/A".
func (e AttendanceEntry) ServiceType() string {
	if e.Volunteer == nil || e.Volunteer.ServiceType == "" {
		return "N/A"
	}
	return e.Volunteer.ServiceType
}

// StatusUser is a user row that carries a check-in status.
type StatusUser struct {
	ID     string  `json:"_id,omitempty"`
	Name   string  `json:"name"`
	Phone  string  `json:"phone"`
	Status *string `json:"status"`
}

// PresentUser is a row of the FLC attendance sheet.
type PresentUser struct {
	ID             string `json:"_id,omitempty"`
	Name           string `json:"name"`
	WhatsAppNumber string `json:"whatsappNumber"`
	Organization   string `json:"organization,omitempty"`
	Location       string `json:"location,omitempty"`
}

// Verification is the server's reply to a QR attendance verification.
type Verification struct {
	Message string `json:"message"`
}
