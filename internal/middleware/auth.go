package middleware

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/nfrund/vrcadmin/internal/auth"
	"github.com/nfrund/vrcadmin/internal/backend"
)

const SessionContextKey = "session"

// RequireAuth protects admin routes. Requests without a live session are
// redirected to loginPath; htmx requests get an HX-Redirect header instead
// so the browser leaves the partial swap. Backend calls made under an
// authenticated request carry the session token.
func RequireAuth(loginPath string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			s := auth.Load(c)
			if !s.IsAuthenticated(time.Now()) {
				if s != nil {
					// Expired token; drop the stale cookie.
					_ = auth.Clear(c)
				}
				if c.Request().Header.Get("HX-Request") == "true" {
					c.Response().Header().Set("HX-Redirect", loginPath)
					return c.NoContent(http.StatusUnauthorized)
				}
				return c.Redirect(http.StatusSeeOther, loginPath)
			}

			c.Set(SessionContextKey, s)
			ctx := auth.NewContext(c.Request().Context(), s)
			c.SetRequest(c.Request().WithContext(backend.WithToken(ctx, s.Token)))
			return next(c)
		}
	}
}
