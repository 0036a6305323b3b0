// Package server assembles the admin application: it builds the shared
// services, mounts every module on one echo instance and runs it until the
// process is asked to stop.
package server

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/labstack/echo/v4"
	"github.com/nfrund/vrcadmin/internal/activity"
	"github.com/nfrund/vrcadmin/internal/app"
	"github.com/nfrund/vrcadmin/internal/backend"
	"github.com/nfrund/vrcadmin/internal/config"
	"github.com/nfrund/vrcadmin/internal/handlers"
	"github.com/nfrund/vrcadmin/internal/hub"
	"github.com/nfrund/vrcadmin/internal/module"
	"github.com/nfrund/vrcadmin/internal/pubsub"
	"github.com/nfrund/vrcadmin/internal/registry"
	"github.com/nfrund/vrcadmin/internal/rendering"
	"github.com/nfrund/vrcadmin/internal/scan"
)

// feedSize is how many activity entries the process remembers.
const feedSize = 100

// Server holds the dependencies for the HTTP server.
type Server struct {
	E   *echo.Echo
	Cfg config.Provider

	deps    app.Dependencies
	bridge  *pubsub.WatermillBridge
	modules []module.Module
	reg     *registry.Registry

	// ctx bounds the background workers: the hub and the feed subscriptions.
	ctx     context.Context
	cancel  context.CancelFunc
	cleanup func()
}

// Option adjusts a Server under construction.
type Option func(*Server)

// WithBackend replaces the backend client built from the configuration.
func WithBackend(c *backend.Client) Option {
	return func(s *Server) { s.deps.Backend = c }
}

// New creates a Server from cfg. Background workers start immediately and
// stop on Shutdown.
func New(cfg config.Provider, opts ...Option) (*Server, error) {
	logger := slog.Default()
	s := &Server{Cfg: cfg, deps: app.Dependencies{Config: cfg, Logger: logger}}
	for _, opt := range opts {
		opt(s)
	}

	if s.deps.Backend == nil {
		client, err := backend.New(cfg.GetAPIBaseURL(),
			backend.WithTimeout(cfg.GetHTTPTimeout()),
			backend.WithLogger(logger),
		)
		if err != nil {
			return nil, fmt.Errorf("backend client: %w", err)
		}
		s.deps.Backend = client
	}

	s.ctx, s.cancel = context.WithCancel(context.Background())

	tracer, cleanup, err := pubsub.SetupOTel(s.ctx, pubsub.LoadTracingConfigFromEnv())
	if err != nil {
		s.cancel()
		return nil, fmt.Errorf("tracing: %w", err)
	}
	s.cleanup = cleanup
	s.bridge = pubsub.NewWatermillBridgeWithTracer(tracer)
	s.deps.Publisher = s.bridge
	s.deps.Subscriber = s.bridge

	renderer := rendering.NewUniversalRenderer()
	s.deps.Renderer = renderer
	s.deps.Hub = hub.NewHub()
	go s.deps.Hub.Run(s.ctx)

	s.deps.Feed = activity.NewFeed(s.deps.Hub, renderer, feedSize, logger)
	if err := s.deps.Feed.Start(s.ctx, s.bridge); err != nil {
		s.cancel()
		cleanup()
		return nil, fmt.Errorf("activity feed: %w", err)
	}

	s.deps.Scans = scan.NewManager(s.deps.Backend,
		scan.WithMaxSessions(cfg.GetScanMaxSessions()),
		scan.WithLogger(logger),
		scan.WithSettleHook(func(o scan.Outcome) {
			if err := pubsub.Publish(s.ctx, s.bridge, activity.ScanSettled, "", o); err != nil {
				logger.Warn("Failed to publish scan outcome", "error", err)
			}
		}),
	)

	s.E = newEcho(cfg, renderer)
	s.reg = registry.New(cfg)
	registry.Set(s.reg, registry.BackendKey, s.deps.Backend)
	registry.Set(s.reg, registry.ScanManagerKey, s.deps.Scans)
	registry.Set(s.reg, registry.ActivityKey, s.deps.Feed)
	registry.Set(s.reg, registry.HubKey, s.deps.Hub)
	s.modules = app.NewModules(s.deps)
	return s, nil
}

func newEcho(cfg config.Provider, renderer echo.Renderer) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Renderer = renderer
	e.Validator = handlers.NewValidator()
	setupErrorHandling(e)
	setupMiddleware(e, cfg)
	return e
}

// Registry returns the service registry the modules registered into.
func (s *Server) Registry() *registry.Registry {
	return s.reg
}

// Feed returns the activity feed.
func (s *Server) Feed() *activity.Feed {
	return s.deps.Feed
}
