package home

import (
	"context"
	"net/http"
	"strings"
	"testing"

	"github.com/nfrund/vrcadmin/internal/activity"
	"github.com/nfrund/vrcadmin/internal/domain"
	"github.com/nfrund/vrcadmin/internal/registry"
	"github.com/nfrund/vrcadmin/internal/testutils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDashboard(t *testing.T) {
	fake := testutils.NewFakeBackend(t)
	fake.JSON("GET /volunteerform/api/volunteers", http.StatusOK, domain.VolunteerPage{TotalCount: 42})
	fake.JSON("GET /service", http.StatusOK, []domain.Service{{ID: "s1"}, {ID: "s2"}, {ID: "s3"}})
	fake.JSON("GET /events", http.StatusInternalServerError, map[string]string{"message": "boom"})

	feed := activity.NewFeed(nil, nil, 5, nil)
	feed.Add(context.Background(), activity.Entry{Text: "Volunteer \"Rama\" set to Parking", OK: true})

	e := testutils.NewEcho()
	require.NoError(t, New(Dependencies{Backend: fake.Client(t), Feed: feed}).Boot(context.Background(), e.Group(""), nil))

	rec := testutils.Do(e, http.MethodGet, basePath, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()

	assert.Contains(t, body, `stat-value">42<`)
	assert.Contains(t, body, `stat-value">3<`)
	assert.Contains(t, body, `stat-value">—<`)
	assert.Contains(t, body, `ws-connect="/admin/activity/ws"`)
	assert.Contains(t, body, "set to Parking")

	// One call per tile, all issued for a single page view.
	assert.Equal(t, 1, fake.Count(http.MethodGet, "/volunteerform/api/volunteers"))
	assert.Equal(t, 1, fake.Count(http.MethodGet, "/events"))
	assert.Equal(t, 8, strings.Count(body, "stat-value"))
}

func TestDashboard_UsesRegisteredServices(t *testing.T) {
	fake := testutils.NewFakeBackend(t)
	fake.JSON("GET /volunteerform/api/volunteers", http.StatusOK, domain.VolunteerPage{TotalCount: 7})

	feed := activity.NewFeed(nil, nil, 5, nil)
	feed.Add(context.Background(), activity.Entry{Text: "Scan settled for abc123", OK: true})

	reg := registry.New(nil)
	registry.Set(reg, registry.BackendKey, fake.Client(t))
	registry.Set(reg, registry.ActivityKey, feed)

	e := testutils.NewEcho()
	require.NoError(t, New(Dependencies{}).Boot(context.Background(), e.Group(""), reg))

	rec := testutils.Do(e, http.MethodGet, basePath, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `stat-value">7<`)
	assert.Contains(t, rec.Body.String(), "Scan settled for abc123")
	assert.Equal(t, 1, fake.Count(http.MethodGet, "/volunteerform/api/volunteers"))
}
