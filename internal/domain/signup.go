package domain

// Signup is an entry on the legacy meetup roster served from the API root.
type Signup struct {
	ID                  string `json:"_id,omitempty"`
	Name                string `json:"name"`
	WhatsAppNumber      string `json:"whatsappNumber"`
	Age                 int    `json:"age,omitempty"`
	Gender              string `json:"gender,omitempty"`
	CollegeCompany      string `json:"collegeCompany,omitempty"`
	CurrentLocality     string `json:"currentLocality,omitempty"`
	PreviousVolunteer   string `json:"previousVolunteer,omitempty"`
	ServiceAvailability string `json:"serviceAvailability,omitempty"`
	ServiceType         string `json:"serviceType,omitempty"`
	ImageURL            string `json:"imageUrl,omitempty"`
	SubmittedAt         string `json:"submittedAt,omitempty"`
}

// Experienced reports whether the signup volunteered before.
func (s Signup) Experienced() bool {
	return s.PreviousVolunteer == "yes"
}
