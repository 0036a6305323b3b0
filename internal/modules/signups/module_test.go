package signups

import (
	"context"
	"net/http"
	"net/url"
	"regexp"
	"testing"

	"github.com/nfrund/vrcadmin/internal/domain"
	"github.com/nfrund/vrcadmin/internal/testutils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var viewIDPattern = regexp.MustCompile(`id="view-id" name="view" value="([^"]+)"`)

func TestSignups(t *testing.T) {
	fake := testutils.NewFakeBackend(t)
	fake.JSON("GET /{$}", http.StatusOK, []domain.Signup{
		{ID: "s1", Name: "Rama", WhatsAppNumber: "9876500001", ServiceType: "Parking"},
		{ID: "s2", Name: "Sita", WhatsAppNumber: "9876500002"},
	})
	fake.JSON("GET /service", http.StatusOK, []domain.Service{{ID: "x", Name: "Kitchen"}})
	fake.JSON("PATCH /s2", http.StatusOK, nil)
	fake.JSON("POST /send-notification", http.StatusInternalServerError, map[string]string{"message": "WhatsApp quota exceeded"})

	e := testutils.NewEcho()
	require.NoError(t, New(Dependencies{Backend: fake.Client(t), CacheSize: 4}).Boot(context.Background(), e.Group(""), nil))

	rec := testutils.Do(e, http.MethodGet, basePath, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "Parking: 1")
	assert.Contains(t, body, "Unassigned: 1")
	assert.Contains(t, body, "Kitchen")
	viewID := viewIDPattern.FindStringSubmatch(body)[1]

	t.Run("phone filter", func(t *testing.T) {
		rec := testutils.Do(e, http.MethodGet, basePath+"/rows?view="+viewID+"&q=00002", nil)
		assert.Contains(t, rec.Body.String(), "Sita")
		assert.NotContains(t, rec.Body.String(), "Rama")
	})

	t.Run("assign service type", func(t *testing.T) {
		rec := testutils.Do(e, http.MethodPatch, basePath+"/s2/assign", url.Values{"view": {viewID}, "value": {"Kitchen"}})
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, 1, fake.Count(http.MethodPatch, "/s2"))
		call, _ := fake.Last(http.MethodPatch, "/s2")
		assert.JSONEq(t, `{"serviceType":"Kitchen"}`, string(call.Body))
	})

	t.Run("send notification failure is reported", func(t *testing.T) {
		rec := testutils.Do(e, http.MethodPost, basePath+"/send-notification", nil, testutils.HTMX...)
		assert.Equal(t, "none", rec.Header().Get("HX-Reswap"))
		assert.Contains(t, rec.Body.String(), "WhatsApp quota exceeded")
	})
}
