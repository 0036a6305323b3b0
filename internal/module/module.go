package module

import (
	"context"

	"github.com/labstack/echo/v4"
	"github.com/nfrund/vrcadmin/internal/registry"
)

// Module defines the contract for one admin area (volunteers, scan, ...).
type Module interface {
	// Name returns a unique identifier for the module.
	Name() string

	// Register is called during application startup to register the module's
	// services with the central registry.
	Register(reg *registry.Registry) error

	// Boot is called after all modules have registered their services.
	// This is the phase for setting up routes and starting background processes.
	Boot(ctx context.Context, router *echo.Group, reg *registry.Registry) error

	// Shutdown is called during graceful application shutdown.
	// This is the phase for cleaning up resources and stopping background processes.
	Shutdown(ctx context.Context) error
}

// BaseModule provides default no-op implementations for Module methods.
// Modules can embed this to avoid implementing methods they don't need.
type BaseModule struct{}

func (m *BaseModule) Register(reg *registry.Registry) error { return nil }
func (m *BaseModule) Boot(ctx context.Context, router *echo.Group, reg *registry.Registry) error {
	return nil
}
func (m *BaseModule) Shutdown(ctx context.Context) error {
	return nil
}

// Group mounts a sub-group at prefix with the given middleware, skipping
// nil entries so tests can boot modules without an auth gate.
func Group(g *echo.Group, prefix string, mw ...echo.MiddlewareFunc) *echo.Group {
	var use []echo.MiddlewareFunc
	for _, m := range mw {
		if m != nil {
			use = append(use, m)
		}
	}
	return g.Group(prefix, use...)
}
