package backend

import (
	"context"
	"net/http"

	"github.com/nfrund/vrcadmin/internal/domain"
)

// ListEvents returns all meetup events.
func (c *Client) ListEvents(ctx context.Context) ([]domain.Event, error) {
	var out []domain.Event
	err := c.do(ctx, http.MethodGet, "/events", nil, nil, &out)
	return out, err
}

// CreateEvent announces a meetup.
func (c *Client) CreateEvent(ctx context.Context, e domain.Event) error {
	body := map[string]string{
		"date":         e.Date,
		"time":         e.Time,
		"venue":        e.Venue,
		"locationLink": e.LocationLink,
	}
	return c.do(ctx, http.MethodPost, "/events", nil, body, nil)
}

// DeleteEvent removes a meetup.
func (c *Client) DeleteEvent(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, pathID("/events", id), nil, nil, nil)
}

// ListProjects returns all projects.
func (c *Client) ListProjects(ctx context.Context) ([]domain.Project, error) {
	var out []domain.Project
	err := c.do(ctx, http.MethodGet, "/register/projects", nil, nil, &out)
	return out, err
}

// CreateProject registers a project.
func (c *Client) CreateProject(ctx context.Context, p domain.Project) error {
	p.ID = ""
	return c.do(ctx, http.MethodPost, "/register/project", nil, p, nil)
}

// GetProject returns one project. A 404 is reported as domain.ErrNotFound.
func (c *Client) GetProject(ctx context.Context, id string) (domain.Project, error) {
	var p domain.Project
	err := c.do(ctx, http.MethodGet, pathID("/register/project", id), nil, nil, &p)
	return p, err
}
