package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/nfrund/vrcadmin/internal/auth"
	"github.com/nfrund/vrcadmin/internal/middleware"
	"github.com/nfrund/vrcadmin/web/src/templates/pages"
)

// HomeGet sends admins to the dashboard and everyone else to the volunteer
// registration form.
func HomeGet(c echo.Context) error {
	if auth.Load(c).IsAuthenticated(time.Now()) {
		return c.Redirect(http.StatusSeeOther, "/admin")
	}
	return c.Redirect(http.StatusSeeOther, "/register")
}

// HealthGet is the liveness probe.
func HealthGet(c echo.Context) error {
	return c.String(http.StatusOK, "OK")
}

// ErrorHandler renders 404s as the not-found page and everything else
// through echo's default handler.
func ErrorHandler(e *echo.Echo) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}
		var he *echo.HTTPError
		if errors.As(err, &he) && he.Code == http.StatusNotFound && !IsHTMX(c) {
			if rerr := RenderPage(c, http.StatusNotFound, "Not Found", pages.NotFound("page")); rerr != nil {
				middleware.FromContext(c.Request().Context()).Error("Failed to render not found page", "error", rerr)
			}
			return
		}
		e.DefaultHTTPErrorHandler(err, c)
	}
}
