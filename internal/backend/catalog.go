package backend

import (
	"context"
	"net/http"

	"github.com/nfrund/vrcadmin/internal/domain"
)

// ListServices returns all services.
func (c *Client) ListServices(ctx context.Context) ([]domain.Service, error) {
	var out []domain.Service
	err := c.do(ctx, http.MethodGet, "/service", nil, nil, &out)
	return out, err
}

// CreateService adds a service.
func (c *Client) CreateService(ctx context.Context, s domain.Service) error {
	body := map[string]string{"name": s.Name, "reportingTime": s.ReportingTime}
	return c.do(ctx, http.MethodPost, "/service", nil, body, nil)
}

// DeleteService removes a service.
func (c *Client) DeleteService(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, pathID("/service", id), nil, nil, nil)
}

const coordinatorsPath = "/servicecoordinator"

// ListCoordinators returns all service coordinators.
func (c *Client) ListCoordinators(ctx context.Context) ([]domain.ServiceCoordinator, error) {
	var out []domain.ServiceCoordinator
	err := c.do(ctx, http.MethodGet, coordinatorsPath, nil, nil, &out)
	return out, err
}

// CreateCoordinator adds a service coordinator.
func (c *Client) CreateCoordinator(ctx context.Context, sc domain.ServiceCoordinator) error {
	sc.ID = ""
	return c.do(ctx, http.MethodPost, coordinatorsPath+"/api/add", nil, sc, nil)
}

// UpdateCoordinator replaces a service coordinator.
func (c *Client) UpdateCoordinator(ctx context.Context, sc domain.ServiceCoordinator) error {
	id := sc.ID
	sc.ID = ""
	return c.do(ctx, http.MethodPut, pathID(coordinatorsPath, id), nil, sc, nil)
}

// DeleteCoordinator removes a service coordinator.
func (c *Client) DeleteCoordinator(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, pathID(coordinatorsPath, id), nil, nil, nil)
}
