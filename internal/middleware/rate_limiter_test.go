package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRateLimiter(t *testing.T) {
	e := echo.New()
	handler := func(c echo.Context) error {
		return c.String(http.StatusOK, "OK")
	}
	e.POST("/admin/login", handler, RateLimiter(5))

	send := func(ip string) int {
		req := httptest.NewRequest(http.MethodPost, "/admin/login", nil)
		req.RemoteAddr = ip
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, req)
		return rec.Code
	}

	t.Run("allows the burst", func(t *testing.T) {
		for i := 0; i < 5; i++ {
			require.Equal(t, http.StatusOK, send("192.0.2.2:1234"), "request %d should be allowed", i+1)
		}
	})

	t.Run("blocks past the burst", func(t *testing.T) {
		assert.Equal(t, http.StatusTooManyRequests, send("192.0.2.2:1234"))
	})

	t.Run("other clients are unaffected", func(t *testing.T) {
		assert.Equal(t, http.StatusOK, send("192.0.2.3:1234"))
	})
}
