package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"runtime/debug"

	"github.com/gorilla/sessions"
	"github.com/labstack/echo-contrib/session"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/nfrund/vrcadmin/internal/config"
	"github.com/nfrund/vrcadmin/internal/handlers"
	"github.com/nfrund/vrcadmin/internal/middleware"
	"github.com/nfrund/vrcadmin/web"
)

func setupMiddleware(e *echo.Echo, cfg config.Provider) {
	e.Use(echomw.RequestID())
	e.Use(middleware.Logger)
	e.Use(echomw.Recover())

	store := sessions.NewCookieStore([]byte(cfg.GetSessionSecret()))
	store.Options = &sessions.Options{
		Path:     "/",
		MaxAge:   86400 * 7,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	}
	e.Use(session.Middleware(store))
}

// setupErrorHandling logs unhandled errors with a stack trace before the
// shared error page renders them.
func setupErrorHandling(e *echo.Echo) {
	render := handlers.ErrorHandler(e)
	e.HTTPErrorHandler = func(err error, c echo.Context) {
		var he *echo.HTTPError
		if !errors.As(err, &he) || he.Code >= http.StatusInternalServerError {
			middleware.FromContext(c.Request().Context()).Error("Internal Server Error (Unhandled)",
				"error", err.Error(),
				"method", c.Request().Method,
				"path", c.Request().URL.Path,
				"stack_trace", string(debug.Stack()),
			)
		}
		render(err, c)
	}
}

// RegisterRoutes mounts the static assets, the root routes and every module.
// Modules register their services before any of them boots.
func (s *Server) RegisterRoutes() error {
	s.E.StaticFS("/static", echo.MustSubFS(web.FS, "static"))
	s.E.GET("/", handlers.HomeGet)
	s.E.GET("/health", handlers.HealthGet)

	for _, m := range s.modules {
		if err := m.Register(s.reg); err != nil {
			return fmt.Errorf("register module %s: %w", m.Name(), err)
		}
	}
	root := s.E.Group("")
	for _, m := range s.modules {
		if err := m.Boot(s.ctx, root, s.reg); err != nil {
			return fmt.Errorf("boot module %s: %w", m.Name(), err)
		}
		slog.Debug("Module booted", "module", m.Name())
	}
	return nil
}

// Shutdown stops the listener, then the modules, then the background
// workers.
func (s *Server) Shutdown(ctx context.Context) error {
	err := s.E.Shutdown(ctx)
	for i := len(s.modules) - 1; i >= 0; i-- {
		m := s.modules[i]
		if merr := m.Shutdown(ctx); merr != nil {
			slog.Error("Module shutdown failed", "module", m.Name(), "error", merr)
		}
	}
	s.cancel()
	if cerr := s.bridge.Close(); cerr != nil {
		slog.Warn("Failed to close event bus", "error", cerr)
	}
	s.cleanup()
	return err
}
