package backend

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"

	"github.com/nfrund/vrcadmin/internal/domain"
)

// ListManagers returns all volunteer managers.
func (c *Client) ListManagers(ctx context.Context) ([]domain.Manager, error) {
	var out []domain.Manager
	err := c.do(ctx, http.MethodGet, "/manager", nil, nil, &out)
	return out, err
}

// Photo is an image captured alongside a registration.
type Photo struct {
	Filename    string
	ContentType string
	Data        io.Reader
}

// RegisterManager registers a volunteer manager. With a photo the request is
// sent as multipart form data, otherwise as JSON.
func (c *Client) RegisterManager(ctx context.Context, m domain.Manager, photo *Photo) error {
	if photo == nil {
		body := map[string]string{"username": m.Username, "phone": m.Phone, "serviceType": m.ServiceType}
		return c.do(ctx, http.MethodPost, "/register-volunteer", nil, body, nil)
	}

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	for k, v := range map[string]string{"username": m.Username, "phone": m.Phone, "serviceType": m.ServiceType} {
		if err := w.WriteField(k, v); err != nil {
			return fmt.Errorf("failed to write form field %s: %w", k, err)
		}
	}
	part, err := w.CreateFormFile("photo", photo.Filename)
	if err != nil {
		return fmt.Errorf("failed to create photo part: %w", err)
	}
	if _, err := io.Copy(part, photo.Data); err != nil {
		return fmt.Errorf("failed to copy photo: %w", err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("failed to finish multipart body: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint("/register-volunteer", nil), &buf)
	if err != nil {
		return fmt.Errorf("failed to create registration request: %w", err)
	}
	req.Header.Set("Content-Type", w.FormDataContentType())
	req.Header.Set("Accept", "application/json")
	return c.send(req, nil)
}
