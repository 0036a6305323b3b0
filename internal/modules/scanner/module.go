// Package scanner serves the QR attendance scanner. The browser captures camera
// frames and posts them here; each page load owns one scan.Session whose
// first decoded code is verified against the backend.
package scanner

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/nfrund/vrcadmin/internal/handlers"
	"github.com/nfrund/vrcadmin/internal/middleware"
	"github.com/nfrund/vrcadmin/internal/module"
	"github.com/nfrund/vrcadmin/internal/registry"
	"github.com/nfrund/vrcadmin/internal/scan"
	"github.com/nfrund/vrcadmin/web/src/templates/pages"
)

const basePath = "/admin/scan"

// resultWait bounds how long the result fragment waits for a session that
// is still verifying.
const resultWait = 10 * time.Second

// Dependencies holds what the scan module needs.
type Dependencies struct {
	Scans   *scan.Manager
	Decoder scan.FrameDecoder
	Auth    echo.MiddlewareFunc
	// MaxFrameBytes caps a posted frame.
	MaxFrameBytes int64
	Logger        *slog.Logger
}

// Module serves /admin/scan.
type Module struct {
	module.BaseModule
	deps Dependencies

	mu      sync.Mutex
	cameras map[string]*scan.FrameCamera
}

// New creates the scan module.
func New(deps Dependencies) *Module {
	if deps.Decoder == nil {
		deps.Decoder = scan.NewQRDecoder()
	}
	if deps.MaxFrameBytes <= 0 {
		deps.MaxFrameBytes = 5 << 20
	}
	if deps.Logger == nil {
		deps.Logger = slog.Default()
	}
	return &Module{deps: deps, cameras: make(map[string]*scan.FrameCamera)}
}

// Name returns the module name.
func (m *Module) Name() string {
	return "scan"
}

// Boot mounts the routes. Without a session manager in Dependencies the
// shared one is taken from the registry.
func (m *Module) Boot(ctx context.Context, e *echo.Group, reg *registry.Registry) error {
	if m.deps.Scans == nil && reg != nil {
		m.deps.Scans = registry.MustGet(reg, registry.ScanManagerKey)
	}
	if m.deps.Scans == nil {
		return errors.New("scan: no session manager")
	}
	grp := module.Group(e, basePath, m.deps.Auth)
	grp.GET("", m.page)
	grp.POST("/:id/frame", m.frame)
	grp.POST("/:id/camera-error", m.cameraError)
	grp.GET("/:id/result", m.result)
	grp.POST("/:id/close", m.close)
	return nil
}

// Shutdown tears down every session still open.
func (m *Module) Shutdown(ctx context.Context) error {
	if m.deps.Scans == nil {
		return nil
	}
	m.deps.Scans.CloseAll()
	m.mu.Lock()
	m.cameras = make(map[string]*scan.FrameCamera)
	m.mu.Unlock()
	return nil
}

// page opens a fresh session. Reloading the page is how a user scans again.
func (m *Module) page(c echo.Context) error {
	cam := scan.NewFrameCamera(m.deps.Decoder)
	s, err := m.deps.Scans.Open(cam)
	if err != nil {
		middleware.FromContext(c.Request().Context()).Warn("Failed to open scan session", "error", err)
		return handlers.RenderPage(c, http.StatusServiceUnavailable, pageTitle,
			pages.ErrorPanel("The scanner is busy. Please try again in a moment."))
	}
	if o, settled := s.Outcome(); settled {
		return handlers.RenderPage(c, http.StatusOK, pageTitle, scanner(s.ID, &o))
	}
	m.mu.Lock()
	m.cameras[s.ID] = cam
	// Opening may have evicted an abandoned session.
	for id := range m.cameras {
		if _, err := m.deps.Scans.Get(id); err != nil {
			delete(m.cameras, id)
		}
	}
	m.mu.Unlock()
	return handlers.RenderPage(c, http.StatusOK, pageTitle, scanner(s.ID, nil))
}

// frame decodes one posted camera frame. While the session keeps scanning
// the reply is empty; once it settles the reply is the result panel.
func (m *Module) frame(c echo.Context) error {
	s, err := m.deps.Scans.Get(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "scan session not found")
	}
	if o, settled := s.Outcome(); settled {
		return m.settled(c, s.ID, o)
	}
	cam := m.camera(s.ID)
	if cam == nil {
		return echo.NewHTTPError(http.StatusNotFound, "scan session not found")
	}

	data, err := io.ReadAll(io.LimitReader(c.Request().Body, m.deps.MaxFrameBytes+1))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "could not read frame")
	}
	if int64(len(data)) > m.deps.MaxFrameBytes {
		return echo.NewHTTPError(http.StatusRequestEntityTooLarge, fmt.Sprintf("frame exceeds %d bytes", m.deps.MaxFrameBytes))
	}

	if err := cam.Push(data); err != nil && !errors.Is(err, scan.ErrCameraStopped) {
		middleware.FromContext(c.Request().Context()).Debug("Unreadable frame", "scan_session", s.ID, "error", err)
	}
	if o, settled := s.Outcome(); settled {
		return m.settled(c, s.ID, o)
	}
	return c.NoContent(http.StatusNoContent)
}

// cameraError settles a session whose browser could not open the camera.
func (m *Module) cameraError(c echo.Context) error {
	s, err := m.deps.Scans.Get(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "scan session not found")
	}
	s.FailCamera(c.FormValue("reason"))
	o, _ := s.Outcome()
	return m.settled(c, s.ID, o)
}

// result waits briefly for the session to settle and renders its outcome.
func (m *Module) result(c echo.Context) error {
	s, err := m.deps.Scans.Get(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "scan session not found")
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), resultWait)
	defer cancel()
	o, err := s.Wait(ctx)
	if err != nil {
		return c.NoContent(http.StatusNoContent)
	}
	return m.settled(c, s.ID, o)
}

// close tears the session down when the page goes away.
func (m *Module) close(c echo.Context) error {
	id := c.Param("id")
	m.forget(id)
	if err := m.deps.Scans.Close(id); err != nil && !errors.Is(err, scan.ErrSessionNotFound) {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

func (m *Module) settled(c echo.Context, id string, o scan.Outcome) error {
	m.forget(id)
	return handlers.Fragment(c, http.StatusOK, result(o))
}

func (m *Module) camera(id string) *scan.FrameCamera {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.cameras[id]
}

func (m *Module) forget(id string) {
	m.mu.Lock()
	delete(m.cameras, id)
	m.mu.Unlock()
}
