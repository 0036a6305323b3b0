package app

import (
	"github.com/nfrund/vrcadmin/internal/activity"
	"github.com/nfrund/vrcadmin/internal/middleware"
	"github.com/nfrund/vrcadmin/internal/module"
	"github.com/nfrund/vrcadmin/internal/modules/attendance"
	"github.com/nfrund/vrcadmin/internal/modules/auth"
	"github.com/nfrund/vrcadmin/internal/modules/coordinators"
	"github.com/nfrund/vrcadmin/internal/modules/events"
	"github.com/nfrund/vrcadmin/internal/modules/home"
	"github.com/nfrund/vrcadmin/internal/modules/managers"
	"github.com/nfrund/vrcadmin/internal/modules/projects"
	"github.com/nfrund/vrcadmin/internal/modules/scanner"
	"github.com/nfrund/vrcadmin/internal/modules/services"
	"github.com/nfrund/vrcadmin/internal/modules/signups"
	"github.com/nfrund/vrcadmin/internal/modules/volunteers"
	"github.com/nfrund/vrcadmin/internal/storage"
)

// NewModules creates and returns the list of all active modules for the application.
// This is the single source of truth for which features are enabled.
func NewModules(deps Dependencies) []module.Module {
	cfg := deps.Config
	gate := middleware.RequireAuth(cfg.GetLoginPath())
	notifier := activity.NewNotifier(deps.Publisher, deps.Logger)
	cache := cfg.GetViewCacheSize()

	return []module.Module{
		auth.New(auth.Dependencies{
			Backend:   deps.Backend,
			LoginPath: cfg.GetLoginPath(),
			Logger:    deps.Logger,
		}),
		// home and scanner take their shared services from the registry.
		home.New(home.Dependencies{
			Auth:   gate,
			Logger: deps.Logger,
		}),
		volunteers.New(volunteers.Dependencies{
			Backend:   deps.Backend,
			Notifier:  notifier,
			Auth:      gate,
			CacheSize: cache,
			Logger:    deps.Logger,
		}),
		signups.New(signups.Dependencies{
			Backend:   deps.Backend,
			Notifier:  notifier,
			Auth:      gate,
			CacheSize: cache,
			Logger:    deps.Logger,
		}),
		coordinators.New(coordinators.Dependencies{
			Backend:   deps.Backend,
			Notifier:  notifier,
			Auth:      gate,
			CacheSize: cache,
			Logger:    deps.Logger,
		}),
		services.New(services.Dependencies{
			Backend:   deps.Backend,
			Notifier:  notifier,
			Auth:      gate,
			CacheSize: cache,
			Logger:    deps.Logger,
		}),
		managers.New(managers.Dependencies{
			Backend:        deps.Backend,
			Auth:           gate,
			CacheSize:      cache,
			MaxUploadBytes: cfg.GetMaxUploadBytes(),
			Photos:         storage.NewDirStore(cfg.GetUploadDir(), cfg.GetMaxUploadBytes()),
			Logger:         deps.Logger,
		}),
		events.New(events.Dependencies{
			Backend:   deps.Backend,
			Notifier:  notifier,
			Auth:      gate,
			CacheSize: cache,
			Logger:    deps.Logger,
		}),
		projects.New(projects.Dependencies{
			Backend:   deps.Backend,
			Auth:      gate,
			CacheSize: cache,
			Logger:    deps.Logger,
		}),
		attendance.New(attendance.Dependencies{
			Backend:   deps.Backend,
			Auth:      gate,
			CacheSize: cache,
			Logger:    deps.Logger,
		}),
		scanner.New(scanner.Dependencies{
			Auth:          gate,
			MaxFrameBytes: cfg.GetMaxUploadBytes(),
			Logger:        deps.Logger,
		}),
	}
}
