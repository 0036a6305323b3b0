package backend

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	"github.com/nfrund/vrcadmin/internal/domain"
)

const volunteersPath = "/volunteerform/api/volunteers"

// VolunteerQuery narrows the volunteer listing. A zero Page asks the server
// for every matching volunteer.
type VolunteerQuery struct {
	Name     string
	WhatsApp string
	Page     int
	PageSize int
}

func (q VolunteerQuery) values() url.Values {
	v := url.Values{}
	if q.Page > 0 {
		v.Set("page", strconv.Itoa(q.Page))
		if q.PageSize > 0 {
			v.Set("pageSize", strconv.Itoa(q.PageSize))
		}
	} else {
		v.Set("all", "true")
	}
	if q.Name != "" {
		v.Set("name", q.Name)
	}
	if q.WhatsApp != "" {
		v.Set("whatsapp", q.WhatsApp)
	}
	return v
}

// ListVolunteers returns volunteers matching q.
func (c *Client) ListVolunteers(ctx context.Context, q VolunteerQuery) (domain.VolunteerPage, error) {
	var page domain.VolunteerPage
	err := c.do(ctx, http.MethodGet, volunteersPath, q.values(), nil, &page)
	return page, err
}

// AllVolunteers returns every volunteer.
func (c *Client) AllVolunteers(ctx context.Context) ([]domain.Volunteer, error) {
	page, err := c.ListVolunteers(ctx, VolunteerQuery{})
	if err != nil {
		return nil, err
	}
	return page.Data, nil
}

// GetVolunteerByWhatsApp looks a volunteer up by WhatsApp number. A 404 is
// reported as domain.ErrNotFound.
func (c *Client) GetVolunteerByWhatsApp(ctx context.Context, number string) (domain.Volunteer, error) {
	var v domain.Volunteer
	err := c.do(ctx, http.MethodGet, pathID(volunteersPath, number), nil, nil, &v)
	return v, err
}

// CreateVolunteer registers a volunteer.
func (c *Client) CreateVolunteer(ctx context.Context, v domain.Volunteer) error {
	return c.do(ctx, http.MethodPost, volunteersPath, nil, v, nil)
}

// AssignCoordinator sets a volunteer's assigned service coordinator.
func (c *Client) AssignCoordinator(ctx context.Context, volunteerID string, svc domain.AssignedService) error {
	body := map[string]any{"assignedService": svc}
	return c.do(ctx, http.MethodPatch, pathID(volunteersPath, volunteerID), nil, body, nil)
}

// DeleteVolunteer removes a volunteer.
func (c *Client) DeleteVolunteer(ctx context.Context, volunteerID string) error {
	return c.do(ctx, http.MethodDelete, pathID(volunteersPath, volunteerID), nil, nil, nil)
}

// ExportVolunteers pushes the given volunteers to the shared sheet and
// returns the server's confirmation message.
func (c *Client) ExportVolunteers(ctx context.Context, volunteers []domain.Volunteer) (string, error) {
	var out struct {
		Message string `json:"message"`
	}
	body := map[string]any{"volunteers": volunteers}
	err := c.do(ctx, http.MethodPost, "/volunteerform/api/export-volunteers", nil, body, &out)
	return out.Message, err
}

// MarkAttendance records attendance and returns the updated volunteer.
func (c *Client) MarkAttendance(ctx context.Context, req domain.MarkAttendanceRequest) (domain.Volunteer, error) {
	var out struct {
		Message   string           `json:"message"`
		Volunteer domain.Volunteer `json:"volunteer"`
	}
	err := c.do(ctx, http.MethodPost, "/volunteerform/api/attendance", nil, req, &out)
	return out.Volunteer, err
}
