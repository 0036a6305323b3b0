package domain

// Event is a meetup announced to volunteers.
type Event struct {
	ID           string `json:"_id,omitempty"`
	Date         string `json:"date"`
	Time         string `json:"time"`
	Venue        string `json:"venue"`
	LocationLink string `json:"locationLink,omitempty"`
	DateDisplay  string `json:"dateDisplay,omitempty"`
	TimeDisplay  string `json:"timeDisplay,omitempty"`
}

// When returns the display date and time, falling back to the raw values.
func (e Event) When() (string, string) {
	date, clock := e.DateDisplay, e.TimeDisplay
	if date == "" {
		date = e.Date
	}
	if clock == "" {
		clock = e.Time
	}
	return date, clock
}

// Project is an organised seva project.
type Project struct {
	ID       string `json:"_id,omitempty"`
	Name     string `json:"name"`
	Date     string `json:"date,omitempty"`
	Location string `json:"location,omitempty"`
}
