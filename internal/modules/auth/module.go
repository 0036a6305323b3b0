// Package auth serves the admin login and logout forms.
package auth

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/nfrund/vrcadmin/internal/auth"
	"github.com/nfrund/vrcadmin/internal/backend"
	"github.com/nfrund/vrcadmin/internal/domain"
	"github.com/nfrund/vrcadmin/internal/handlers"
	"github.com/nfrund/vrcadmin/internal/middleware"
	"github.com/nfrund/vrcadmin/internal/module"
	"github.com/nfrund/vrcadmin/internal/registry"
	"github.com/nfrund/vrcadmin/internal/view"
	"github.com/nfrund/vrcadmin/web/src/templates/components"
	cmp "maragu.dev/gomponents"
	g "maragu.dev/gomponents/html"
)

const (
	homePath   = "/admin"
	logoutPath = "/admin/logout"
)

// Dependencies holds what the auth module needs.
type Dependencies struct {
	Backend *backend.Client
	// LoginPath is where the login form lives.
	LoginPath string
	// LoginRate caps login attempts per client per minute.
	LoginRate int
	Logger    *slog.Logger
}

// Module serves the login and logout routes.
type Module struct {
	module.BaseModule
	deps Dependencies
}

// New creates the auth module.
func New(deps Dependencies) *Module {
	if deps.LoginPath == "" {
		deps.LoginPath = "/admin/login"
	}
	if deps.LoginRate <= 0 {
		deps.LoginRate = 10
	}
	return &Module{deps: deps}
}

// Name returns the module name.
func (m *Module) Name() string {
	return "auth"
}

// Boot mounts the routes.
func (m *Module) Boot(ctx context.Context, e *echo.Group, reg *registry.Registry) error {
	e.GET(m.deps.LoginPath, m.form)
	e.POST(m.deps.LoginPath, m.login, middleware.RateLimiter(m.deps.LoginRate))
	e.POST(logoutPath, m.logout)
	return nil
}

type loginRequest struct {
	Username string `form:"username" validate:"required"`
	Password string `form:"password" validate:"required"`
}

func (m *Module) form(c echo.Context) error {
	if auth.Load(c).IsAuthenticated(time.Now()) {
		return c.Redirect(http.StatusSeeOther, homePath)
	}
	return handlers.RenderPage(c, http.StatusOK, "Admin Login", m.loginForm(loginRequest{}, nil))
}

func (m *Module) login(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid form")
	}
	if err := c.Validate(&req); err != nil {
		return handlers.RenderPage(c, http.StatusUnprocessableEntity, "Admin Login",
			m.loginForm(req, handlers.ValidationMessages(err)))
	}

	ctx := c.Request().Context()
	logger := middleware.FromContext(ctx)
	token, err := m.deps.Backend.Login(ctx, req.Username, req.Password)
	if err != nil {
		logger.Warn("Login failed", "username", req.Username, "error", err)
		msg := backend.MessageOf(err, "Login failed. Please try again.")
		if errors.Is(err, domain.ErrUnauthenticated) {
			msg = "Invalid username or password."
		}
		return handlers.RenderPage(c, http.StatusUnauthorized, "Admin Login", m.loginForm(req, []string{msg}))
	}

	if err := auth.Save(c, auth.NewSession(token, req.Username)); err != nil {
		logger.Error("Failed to save session", "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "could not start session")
	}
	logger.Info("Admin logged in", "username", req.Username)
	view.SetFlashSuccess(c, "Welcome back, "+req.Username+"!")
	return c.Redirect(http.StatusSeeOther, homePath)
}

func (m *Module) logout(c echo.Context) error {
	if err := auth.Clear(c); err != nil {
		middleware.FromContext(c.Request().Context()).Warn("Failed to clear session", "error", err)
	}
	view.SetFlashSuccess(c, "You have been logged out.")
	return c.Redirect(http.StatusSeeOther, m.deps.LoginPath)
}

func (m *Module) loginForm(req loginRequest, errs []string) cmp.Node {
	return g.Div(
		g.Class("max-w-sm mx-auto mt-16"),
		components.Card("Admin Login",
			components.Alert(errs),
			g.Form(
				g.Method("post"), g.Action(m.deps.LoginPath),
				g.Class("space-y-3"),
				components.Field("Username", components.Input("text", "username", req.Username, true, g.AutoComplete("username"))),
				components.Field("Password", components.Input("password", "password", "", true, g.AutoComplete("current-password"))),
				components.Submit("Log In"),
			),
		),
	)
}
