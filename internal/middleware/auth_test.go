package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gorilla/sessions"
	"github.com/labstack/echo-contrib/session"
	"github.com/labstack/echo/v4"
	"github.com/nfrund/vrcadmin/internal/auth"
	"github.com/nfrund/vrcadmin/internal/backend"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRequireAuth(t *testing.T) {
	e := echo.New()
	e.Use(session.Middleware(sessions.NewCookieStore([]byte("a-very-secret-key-for-testing-!"))))

	e.POST("/login", func(c echo.Context) error {
		return auth.Save(c, &auth.Session{Token: "token-123", Username: "admin"})
	})
	e.POST("/login-expired", func(c echo.Context) error {
		return auth.Save(c, &auth.Session{Token: "old", ExpiresAt: time.Now().Add(-time.Minute)})
	})
	e.GET("/admin", func(c echo.Context) error {
		s, ok := auth.FromContext(c.Request().Context())
		require.True(t, ok)
		return c.String(http.StatusOK, "hello "+s.Username)
	}, RequireAuth("/admin/login"))

	t.Run("redirects without a session", func(t *testing.T) {
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/admin", nil))

		assert.Equal(t, http.StatusSeeOther, rec.Code)
		assert.Equal(t, "/admin/login", rec.Header().Get(echo.HeaderLocation))
	})

	t.Run("htmx requests get HX-Redirect", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/admin", nil)
		req.Header.Set("HX-Request", "true")
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.Equal(t, "/admin/login", rec.Header().Get("HX-Redirect"))
	})

	t.Run("passes with a live session", func(t *testing.T) {
		login := httptest.NewRecorder()
		e.ServeHTTP(login, httptest.NewRequest(http.MethodPost, "/login", nil))

		req := httptest.NewRequest(http.MethodGet, "/admin", nil)
		for _, ck := range login.Result().Cookies() {
			req.AddCookie(ck)
		}
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "hello admin", rec.Body.String())
	})

	t.Run("redirects with an expired session", func(t *testing.T) {
		login := httptest.NewRecorder()
		e.ServeHTTP(login, httptest.NewRequest(http.MethodPost, "/login-expired", nil))

		req := httptest.NewRequest(http.MethodGet, "/admin", nil)
		for _, ck := range login.Result().Cookies() {
			req.AddCookie(ck)
		}
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusSeeOther, rec.Code)
	})
}

func TestRequireAuth_ForwardsTokenToBackend(t *testing.T) {
	var gotAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		_, _ = w.Write([]byte(`[]`))
	}))
	defer srv.Close()
	client, err := backend.New(srv.URL)
	require.NoError(t, err)

	e := echo.New()
	e.Use(session.Middleware(sessions.NewCookieStore([]byte("a-very-secret-key-for-testing-!"))))
	e.POST("/login", func(c echo.Context) error {
		return auth.Save(c, &auth.Session{Token: "token-123", Username: "admin"})
	})
	e.GET("/admin/services", func(c echo.Context) error {
		if _, err := client.ListServices(c.Request().Context()); err != nil {
			return err
		}
		return c.NoContent(http.StatusOK)
	}, RequireAuth("/admin/login"))

	login := httptest.NewRecorder()
	e.ServeHTTP(login, httptest.NewRequest(http.MethodPost, "/login", nil))
	req := httptest.NewRequest(http.MethodGet, "/admin/services", nil)
	for _, ck := range login.Result().Cookies() {
		req.AddCookie(ck)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Bearer token-123", gotAuth)
}
