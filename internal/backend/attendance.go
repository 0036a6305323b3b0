package backend

import (
	"context"
	"net/http"

	"github.com/nfrund/vrcadmin/internal/domain"
)

// ListAttendance returns the event attendance log.
func (c *Client) ListAttendance(ctx context.Context) ([]domain.AttendanceEntry, error) {
	var out []domain.AttendanceEntry
	err := c.do(ctx, http.MethodGet, "/api/attendance", nil, nil, &out)
	return out, err
}

// ListStatusUsers returns the users that carry a check-in status. Rows with
// a null status are dropped.
func (c *Client) ListStatusUsers(ctx context.Context) ([]domain.StatusUser, error) {
	var all []domain.StatusUser
	if err := c.do(ctx, http.MethodGet, "/usersdata", nil, nil, &all); err != nil {
		return nil, err
	}
	out := all[:0]
	for _, u := range all {
		if u.Status != nil {
			out = append(out, u)
		}
	}
	return out, nil
}

// ListPresentUsers returns the FLC attendance sheet.
func (c *Client) ListPresentUsers(ctx context.Context) ([]domain.PresentUser, error) {
	var out []domain.PresentUser
	err := c.do(ctx, http.MethodGet, "/flcattendence1", nil, nil, &out)
	return out, err
}

// Verify confirms a scanned volunteer's attendance. On a non-2xx reply the
// returned *APIError carries the server's message.
func (c *Client) Verify(ctx context.Context, userID string) (domain.Verification, error) {
	var out domain.Verification
	err := c.do(ctx, http.MethodGet, pathID("/verify", userID), nil, nil, &out)
	return out, err
}
