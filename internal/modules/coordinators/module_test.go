package coordinators

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

func TestCoordinators(t *testing.T) {
	fake := testutils.NewFakeBackend(t)
	fake.JSON("GET /servicecoordinator", http.StatusOK, []domain.ServiceCoordinator{
		{ID: "c1", ServiceName: "Parking", CoordinatorName: "Gauranga", CoordinatorNumber: "9876543210"},
	})
	fake.JSON("POST /servicecoordinator/api/add", http.StatusCreated, nil)
	fake.JSON("PUT /servicecoordinator/c1", http.StatusOK, nil)

	e := testutils.NewEcho()
	require.NoError(t, New(Dependencies{Backend: fake.Client(t), CacheSize: 4}).Boot(context.Background(), e.Group(""), nil))

	rec := testutils.Do(e, http.MethodGet, basePath, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Gauranga")
	viewID := viewIDPattern.FindStringSubmatch(rec.Body.String())[1]

	t.Run("detail is an edit form", func(t *testing.T) {
		rec := testutils.Do(e, http.MethodGet, basePath+"/c1?view="+viewID, nil)
		assert.Contains(t, rec.Body.String(), `action="/admin/coordinators/c1"`)
		assert.Contains(t, rec.Body.String(), "Save Changes")
	})

	t.Run("invalid phone is rejected", func(t *testing.T) {
		testutils.Do(e, http.MethodPost, basePath, url.Values{
			"serviceName": {"Kitchen"}, "coordinatorName": {"Rama"}, "coordinatorNumber": {"12"},
		})
		assert.Equal(t, 0, fake.Count(http.MethodPost, "/servicecoordinator/api/add"))
	})

	t.Run("create and update", func(t *testing.T) {
		rec := testutils.Do(e, http.MethodPost, basePath, url.Values{
			"serviceName": {"Kitchen"}, "coordinatorName": {"Rama"}, "coordinatorNumber": {"+91 98765 43210"},
		})
		assert.Equal(t, http.StatusSeeOther, rec.Code)
		assert.Equal(t, 1, fake.Count(http.MethodPost, "/servicecoordinator/api/add"))
		call, _ := fake.Last(http.MethodPost, "/servicecoordinator/api/add")
		assert.Contains(t, string(call.Body), `"coordinatorNumber":"919876543210"`)

		testutils.Do(e, http.MethodPost, basePath+"/c1", url.Values{
			"serviceName": {"Parking"}, "coordinatorName": {"Gauranga Das"}, "coordinatorNumber": {"9876543210"},
		})
		assert.Equal(t, 1, fake.Count(http.MethodPut, "/servicecoordinator/c1"))
	})
}
