package app

import (
	"log/slog"

	"github.com/nfrund/vrcadmin/internal/activity"
	"github.com/nfrund/vrcadmin/internal/backend"
	"github.com/nfrund/vrcadmin/internal/config"
	"github.com/nfrund/vrcadmin/internal/hub"
	"github.com/nfrund/vrcadmin/internal/pubsub"
	"github.com/nfrund/vrcadmin/internal/rendering"
	"github.com/nfrund/vrcadmin/internal/scan"
)

// Dependencies holds the core services the modules are built from. It is
// assembled once by the server entrypoint.
type Dependencies struct {
	Config     config.Provider
	Backend    *backend.Client
	Publisher  pubsub.Publisher
	Subscriber pubsub.Subscriber
	Renderer   rendering.Renderer
	Hub        *hub.Hub
	Feed       *activity.Feed
	Scans      *scan.Manager
	Logger     *slog.Logger
}
