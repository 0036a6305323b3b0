package backend

import (
	"context"
	"net/http"

	"github.com/nfrund/vrcadmin/internal/domain"
)

// ListSignups returns the legacy roster served from the API root.
func (c *Client) ListSignups(ctx context.Context) ([]domain.Signup, error) {
	var out []domain.Signup
	err := c.do(ctx, http.MethodGet, "/", nil, nil, &out)
	return out, err
}

// UpdateSignupService changes a roster entry's service type.
func (c *Client) UpdateSignupService(ctx context.Context, id, serviceType string) error {
	body := map[string]string{"serviceType": serviceType}
	return c.do(ctx, http.MethodPatch, pathID("", id), nil, body, nil)
}

// SendNotification asks the server to message every volunteer.
func (c *Client) SendNotification(ctx context.Context) error {
	return c.do(ctx, http.MethodPost, "/send-notification", nil, nil, nil)
}
