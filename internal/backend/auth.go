package backend

import (
	"context"
	"errors"
	"net/http"
)

// Login exchanges admin credentials for a session token.
func (c *Client) Login(ctx context.Context, username, password string) (string, error) {
	var out struct {
		Token string `json:"token"`
	}
	body := map[string]string{"username": username, "password": password}
	if err := c.do(ctx, http.MethodPost, "/api/admin/login", nil, body, &out); err != nil {
		return "", err
	}
	if out.Token == "" {
		return "", errors.New("login response did not include a token")
	}
	return out.Token, nil
}
