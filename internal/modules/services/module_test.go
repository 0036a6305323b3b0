package services

import (
	"context"
	"net/http"
	"net/url"
	"testing"

	"github.com/nfrund/vrcadmin/internal/domain"
	"github.com/nfrund/vrcadmin/internal/testutils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestServices(t *testing.T) {
	fake := testutils.NewFakeBackend(t)
	fake.JSON("GET /service", http.StatusOK, []domain.Service{
		{ID: "s1", Name: "Parking", ReportingTime: "06:00"},
		{ID: "s2", Name: "Prasadam"},
	})
	fake.JSON("POST /service", http.StatusCreated, nil)

	e := testutils.NewEcho()
	m := New(Dependencies{Backend: fake.Client(t), CacheSize: 4})
	require.NoError(t, m.Boot(context.Background(), e.Group(""), nil))

	t.Run("lists services with a create form", func(t *testing.T) {
		rec := testutils.Do(e, http.MethodGet, basePath, nil)
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), "Parking")
		assert.Contains(t, rec.Body.String(), "Add Service")
	})

	t.Run("create validates the name", func(t *testing.T) {
		rec := testutils.Do(e, http.MethodPost, basePath, url.Values{"name": {""}})
		code, loc := testutils.StatusOf(rec)
		assert.Equal(t, http.StatusSeeOther, code)
		assert.Equal(t, basePath, loc)
		assert.Equal(t, 0, fake.Count(http.MethodPost, "/service"))
	})

	t.Run("create posts once", func(t *testing.T) {
		rec := testutils.Do(e, http.MethodPost, basePath, url.Values{"name": {"Decoration"}, "reportingTime": {"07:30"}})
		assert.Equal(t, http.StatusSeeOther, rec.Code)
		require.Equal(t, 1, fake.Count(http.MethodPost, "/service"))
		call, _ := fake.Last(http.MethodPost, "/service")
		assert.Contains(t, string(call.Body), `"name":"Decoration"`)
	})
}
